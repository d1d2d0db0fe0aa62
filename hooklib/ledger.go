package hooklib

import (
	"io"
	"reflect"
	"sync"

	"github.com/ListenOcean/goTableHint/internal/log"

	"github.com/pkg/errors"
)

// Ledger owns the hint registry, the saved originals and the shared call
// state for one instrumented root. Build one per process, or one per test.
type Ledger struct {
	root reflect.Value

	mu        sync.Mutex
	hints     map[string][]*Hint
	order     []string // targets in first-registration order
	all       []*Hint
	index     map[string]*target // resolved descriptors by identifier
	originals map[string]reflect.Value
	installed map[string]bool
	ignored   map[string]bool

	resolver *Resolver
	memory   *Memory
	teller   *Teller
	logger   *log.Logger
}

type options struct {
	restrictedDirs []string
	memorySize     int
	output         interface{}
	writer         io.Writer
	verbose        bool
	logger         *log.Logger
}

// Option configures a Ledger.
type Option func(o *options)

// WithRestrictedDirs sets directories whose calls never trigger hints.
func WithRestrictedDirs(dirs ...string) Option {
	return func(o *options) {
		o.restrictedDirs = append(o.restrictedDirs, dirs...)
	}
}

// WithMemorySize sets the number of recent calls remembered.
func WithMemorySize(n int) Option {
	return func(o *options) {
		o.memorySize = n
	}
}

// WithOutput selects the initial output channel, see SetOutput.
func WithOutput(output interface{}) Option {
	return func(o *options) {
		o.output = output
	}
}

// WithWriter sets where print and display channels write.
func WithWriter(w io.Writer) Option {
	return func(o *options) {
		o.writer = w
	}
}

func WithVerbose(verbose bool) Option {
	return func(o *options) {
		o.verbose = verbose
	}
}

// WithLogger sets the logger behind the debug, info and warning channels
// and the engine's own diagnostics.
func WithLogger(l *log.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// New returns a ledger instrumenting root, which must be a pointer to a
// struct whose function fields are the targets.
func New(root interface{}, opts ...Option) (*Ledger, error) {
	v := reflect.ValueOf(root)
	if v.Kind() != reflect.Ptr || v.IsNil() || v.Elem().Kind() != reflect.Struct {
		return nil, errors.Wrapf(InvalidRootError, "expecting a non-nil pointer to a struct but got `%T`", root)
	}

	o := options{
		memorySize: DefaultMemorySize,
		output:     OutputDisplay,
		verbose:    true,
	}
	for _, opt := range opts {
		opt(&o)
	}
	logger := o.logger
	if logger == nil {
		logger = log.NewNop()
	}

	l := &Ledger{
		root:      v,
		hints:     make(map[string][]*Hint),
		index:     make(map[string]*target),
		originals: make(map[string]reflect.Value),
		installed: make(map[string]bool),
		ignored:   make(map[string]bool),
		resolver:  NewResolver(o.restrictedDirs...),
		memory:    NewMemory(o.memorySize),
		logger:    logger,
	}
	// without a logger the log channels write to the writer
	l.teller = NewTeller(o.writer, o.logger)
	l.teller.SetVerbose(o.verbose)
	if err := l.teller.SetOutput(o.output); err != nil {
		return nil, err
	}
	return l, nil
}

// Register binds fn to every target in targets. fn must be a PreFunc for Pre
// and a PostFunc for Post, or a func literal of the same shape. Invalid
// timings, targets, callbacks and thresholds fail here.
func (l *Ledger) Register(targets Targets, timing Timing, fn interface{}, opts ...HintOption) error {
	h, err := newHint(targets, timing, fn, opts)
	if err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	for _, id := range h.targets {
		if _, ok := l.hints[id]; !ok {
			l.order = append(l.order, id)
		}
		l.hints[id] = append(l.hints[id], h)
	}
	l.all = append(l.all, h)
	l.logger.Debug("hint registered", log.String("hint", h.name), log.Strings("targets", h.targets), log.String("timing", string(timing)))
	return nil
}

// Pre registers a hint running before the call.
func (l *Ledger) Pre(targets Targets, fn PreFunc, opts ...HintOption) error {
	return l.Register(targets, Pre, fn, opts...)
}

// Post registers a hint running after the call.
func (l *Ledger) Post(targets Targets, fn PostFunc, opts ...HintOption) error {
	return l.Register(targets, Post, fn, opts...)
}

// Hints returns each registered hint once, in registration order.
func (l *Ledger) Hints() []*Hint {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]*Hint(nil), l.all...)
}

// HintsFor returns the hints bound to target in execution order.
func (l *Ledger) HintsFor(target string) []*Hint {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]*Hint(nil), l.hints[target]...)
}

// Targets returns the registered targets in first-registration order.
func (l *Ledger) Targets() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.order...)
}

// Len counts bindings: a hint on three targets counts three times.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, hs := range l.hints {
		n += len(hs)
	}
	return n
}

// NUnique counts distinct hints.
func (l *Ledger) NUnique() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.all)
}

// IgnoreHook makes target call straight through without hints while it
// stays installed.
func (l *Ledger) IgnoreHook(target string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.ignored[target] = true
}

// ResetIgnores re-enables every ignored target.
func (l *Ledger) ResetIgnores() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.ignored = make(map[string]bool)
}

func (l *Ledger) isIgnored(target string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.ignored[target]
}

// Tell emits an advisory for the most recent intercepted call site.
func (l *Ledger) Tell(message string, color ...Color) {
	col := Blue
	if len(color) > 0 {
		col = color[0]
	}
	l.teller.TellCurrent(message, col)
}

// SetOutput selects the output channel: "print", "display", "debug",
// "info", "warning", "off", an Output or a Sink.
func (l *Ledger) SetOutput(output interface{}) error {
	return l.teller.SetOutput(output)
}

// SetVerbose toggles the call-site trace in rendered messages.
func (l *Ledger) SetVerbose(verbose bool) {
	l.teller.SetVerbose(verbose)
}

// Mute silences output while fn runs. The previous channel is restored on
// every exit path, panics included.
func (l *Ledger) Mute(fn func() error) error {
	prev := l.teller.swap(channel{output: OutputOff})
	defer l.teller.swap(prev)
	return fn()
}

func (l *Ledger) Teller() *Teller {
	return l.teller
}

func (l *Ledger) Memory() *Memory {
	return l.memory
}

func (l *Ledger) Resolver() *Resolver {
	return l.resolver
}
