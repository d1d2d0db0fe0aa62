package hooklib

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolverCaller(t *testing.T) {
	r := NewResolver()
	site := r.Caller(0)
	assert.True(t, strings.HasSuffix(site.File, "callsite_test.go"))
	assert.Equal(t, "site := r.Caller(0)", site.Code)
	assert.Equal(t, "site", site.Assignee())
	assert.True(t, strings.HasSuffix(site.Function, "TestResolverCaller"), site.Function)
	assert.True(t, site.Known())
	assert.Contains(t, site.String(), "callsite_test.go:")
}

func TestResolverRestriction(t *testing.T) {
	r := NewResolver("/opt/lib/frame/", "", "/opt/lib/advice")
	assert.Equal(t, []string{"/opt/lib/frame", "/opt/lib/advice"}, r.Dirs())

	assert.True(t, r.IsRestricted(CallSite{File: "/opt/lib/frame/merge.go"}))
	assert.True(t, r.IsRestricted(CallSite{File: "/opt/lib/advice/./rules.go"}))
	assert.False(t, r.IsRestricted(CallSite{File: "/opt/lib/frameworks/a.go"}))
	assert.False(t, r.IsRestricted(CallSite{File: "/home/user/main.go"}))
	assert.False(t, r.IsRestricted(CallSite{}))

	r.AddDirs("/home/user")
	assert.True(t, r.IsRestricted(CallSite{File: "/home/user/main.go"}))
}

func TestResolverSourceCache(t *testing.T) {
	file := filepath.Join(t.TempDir(), "main.go")
	require.NoError(t, os.WriteFile(file, []byte("package main\n\n\tdf := concat(a, b)\n"), 0644))

	r := NewResolver()
	assert.Equal(t, "df := concat(a, b)", r.source(file, 3))
	assert.Equal(t, "", r.source(file, 0))
	assert.Equal(t, "", r.source(file, 99))

	// lines are served from the cache after the first read
	require.NoError(t, os.Remove(file))
	assert.Equal(t, "package main", r.source(file, 1))

	assert.Equal(t, "", r.source(filepath.Join(t.TempDir(), "missing.go"), 1))
}

func TestCallSiteSame(t *testing.T) {
	a := CallSite{File: "a.go", Line: 3, Code: "f()", Function: "main.main"}
	b := a
	b.Function = "main.other"
	assert.True(t, a.Same(b))
	b.Line = 4
	assert.False(t, a.Same(b))
	assert.Equal(t, "<unknown>", CallSite{}.String())
}
