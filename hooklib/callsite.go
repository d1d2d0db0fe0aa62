package hooklib

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"strings"
	"sync"

	"github.com/ListenOcean/goTableHint/internal/srcline"
)

// CallSite locates the source line an intercepted call came from. Code is
// empty when the source text could not be read.
type CallSite struct {
	File     string
	Line     int
	Function string
	Code     string
}

// Known reports whether the stack yielded a location at all.
func (s CallSite) Known() bool {
	return s.File != ""
}

// Same reports whether both sites have the same file, line and source text.
func (s CallSite) Same(o CallSite) bool {
	return s.File == o.File && s.Line == o.Line && s.Code == o.Code
}

// Assignee returns the variable assigned by the call-site statement, or "".
func (s CallSite) Assignee() string {
	return srcline.Assignee(s.Code)
}

func (s CallSite) String() string {
	if !s.Known() {
		return "<unknown>"
	}
	return fmt.Sprintf("%s:%d", s.File, s.Line)
}

// maxFrames bounds the stack walk looking for the wrapper's caller.
const maxFrames = 32

// Resolver finds call sites and classifies them as restricted. Source lines
// are read once per file and cached.
type Resolver struct {
	mu    sync.RWMutex
	dirs  []string
	lines map[string][]string
}

// NewResolver returns a resolver treating calls from under dirs as restricted.
func NewResolver(dirs ...string) *Resolver {
	r := &Resolver{lines: make(map[string][]string)}
	r.AddDirs(dirs...)
	return r
}

// AddDirs adds restricted directories. Empty entries are ignored.
func (r *Resolver) AddDirs(dirs ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range dirs {
		if d == "" {
			continue
		}
		r.dirs = append(r.dirs, normalizePath(d))
	}
}

// Dirs returns the restricted directories.
func (r *Resolver) Dirs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.dirs...)
}

// Caller returns the call site skip frames above the caller of Caller.
func (r *Resolver) Caller(skip int) CallSite {
	pc, file, line, ok := runtime.Caller(skip + 1)
	if !ok {
		return CallSite{}
	}
	site := CallSite{File: file, Line: line}
	if f := runtime.FuncForPC(pc); f != nil {
		site.Function = f.Name()
	}
	site.Code = r.source(file, line)
	return site
}

// wrapFunc prefixes the names of the closures built by wrap.
var wrapFunc = reflect.TypeOf(Ledger{}).PkgPath() + ".(*Ledger).wrap."

// wrapperCaller returns the first frame above the wrap closure. Reflect
// frames in between are skipped when the runtime reports them.
func (r *Resolver) wrapperCaller() CallSite {
	pcs := make([]uintptr, maxFrames)
	n := runtime.Callers(2, pcs)
	frames := runtime.CallersFrames(pcs[:n])
	inWrapper := false
	for {
		f, more := frames.Next()
		switch {
		case strings.HasPrefix(f.Function, wrapFunc):
			inWrapper = true
		case strings.HasPrefix(f.Function, "reflect."):
		case inWrapper:
			return CallSite{
				File:     f.File,
				Line:     f.Line,
				Function: f.Function,
				Code:     r.source(f.File, f.Line),
			}
		}
		if !more {
			return CallSite{}
		}
	}
}

// IsRestricted reports whether site lies under a restricted directory. The
// check compares cleaned path prefixes and does not resolve symlinks.
func (r *Resolver) IsRestricted(site CallSite) bool {
	if !site.Known() {
		return false
	}
	file := normalizePath(site.File)
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, dir := range r.dirs {
		if file == dir || strings.HasPrefix(file, strings.TrimSuffix(dir, "/")+"/") {
			return true
		}
	}
	return false
}

// source returns the trimmed text of line in file, or "" when unavailable.
func (r *Resolver) source(file string, line int) string {
	r.mu.RLock()
	lines, cached := r.lines[file]
	r.mu.RUnlock()
	if !cached {
		data, err := os.ReadFile(file)
		if err == nil {
			lines = strings.Split(string(data), "\n")
		}
		r.mu.Lock()
		r.lines[file] = lines
		r.mu.Unlock()
	}
	if line < 1 || line > len(lines) {
		return ""
	}
	return strings.TrimSpace(lines[line-1])
}

func normalizePath(p string) string {
	return filepath.ToSlash(filepath.Clean(p))
}

// Dir returns the directory of this package's sources, so the engine's own
// calls can be restricted.
func Dir() string {
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		return ""
	}
	return filepath.Dir(file)
}
