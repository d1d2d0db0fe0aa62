package configs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, DefaultOutput, cfg.Output)
	assert.True(t, cfg.IsVerbose())
	assert.Equal(t, DefaultMemorySize, cfg.MemorySize)
}

func TestParseYAML(t *testing.T) {
	cfg, err := Parse([]byte(`
output: print
verbose: false
ignore:
  - DataFrame.IterRows
restricted_dirs: [/opt/vendor]
log: Debug
`), "yml")
	require.NoError(t, err)
	assert.Equal(t, "print", cfg.Output)
	assert.False(t, cfg.IsVerbose())
	assert.Equal(t, DefaultMemorySize, cfg.MemorySize)
	assert.Equal(t, []string{"DataFrame.IterRows"}, cfg.Ignore)
	assert.Equal(t, []string{"/opt/vendor"}, cfg.RestrictedDirs)
	assert.Equal(t, "Debug", cfg.Log)
}

func TestParseTOML(t *testing.T) {
	cfg, err := Parse([]byte(`
output = "warning"
memory_size = 8
ignore = ["Concat"]
`), "toml")
	require.NoError(t, err)
	assert.Equal(t, "warning", cfg.Output)
	assert.Equal(t, 8, cfg.MemorySize)
	assert.True(t, cfg.IsVerbose())
	assert.Equal(t, []string{"Concat"}, cfg.Ignore)
}

func TestParseRejects(t *testing.T) {
	_, err := Parse([]byte("output: html\n"), "yaml")
	assert.Error(t, err)
	_, err = Parse([]byte("memory_size: -1\n"), "yaml")
	assert.Error(t, err)
	_, err = Parse([]byte("log: Loud\n"), "yaml")
	assert.Error(t, err)
	_, err = Parse([]byte("output: [\n"), "yaml")
	assert.Error(t, err)
	_, err = Parse([]byte("{}"), "json")
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tablehint.yaml")
	require.NoError(t, os.WriteFile(path, []byte("output: off\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "off", cfg.Output)

	t.Setenv(TagCustomConfig, path)
	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, "off", cfg.Output)

	t.Setenv(TagCustomConfig, "")
	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultOutput, cfg.Output)

	_, err = Load(filepath.Join(dir, "missing.toml"))
	assert.Error(t, err)
}
