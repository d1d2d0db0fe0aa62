package configs

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type Config struct {
	// Output channel: print, display, debug, info, warning or off.
	Output  string `yaml:"output" toml:"output"`
	Verbose *bool  `yaml:"verbose" toml:"verbose"`
	// Capacity of the recent-call memory used for repeat suppression.
	MemorySize int `yaml:"memory_size" toml:"memory_size"`
	// Targets that stay installed but skip every hint.
	Ignore []string `yaml:"ignore" toml:"ignore"`
	// Extra directories whose calls never trigger hints.
	RestrictedDirs []string `yaml:"restricted_dirs" toml:"restricted_dirs"`
	// Tool log mode: Debug, Release or Quiet.
	Log string `yaml:"log" toml:"log"`
}

func Default() *Config {
	verbose := true
	return &Config{
		Output:     DefaultOutput,
		Verbose:    &verbose,
		MemorySize: DefaultMemorySize,
		Log:        "Quiet",
	}
}

// IsVerbose reports whether call-site traces are appended to messages.
func (c *Config) IsVerbose() bool {
	return c.Verbose == nil || *c.Verbose
}

func (c *Config) Validate() error {
	valid := false
	for _, o := range Outputs {
		if c.Output == o {
			valid = true
			break
		}
	}
	if !valid {
		return errors.Errorf("output must be one of %v, got %q", Outputs, c.Output)
	}
	if c.MemorySize < 0 {
		return errors.Errorf("memory_size must not be negative, got %d", c.MemorySize)
	}
	switch c.Log {
	case "Debug", "Release", "Quiet":
	default:
		return errors.Errorf("log must be Debug, Release or Quiet, got %q", c.Log)
	}
	return nil
}

// Load reads the configuration file at path. An empty path falls back to the
// TABLEHINT_CONFIG environment variable and then to the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv(TagCustomConfig)
	}
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read config")
	}
	cfg, err := Parse(data, strings.TrimPrefix(filepath.Ext(path), "."))
	if err != nil {
		return nil, errors.Wrapf(err, "config %s", path)
	}
	return cfg, nil
}

// Parse decodes data in the given format (yaml, yml or toml) on top of the
// defaults and validates the result.
func Parse(data []byte, format string) (*Config, error) {
	cfg := Default()
	switch strings.ToLower(format) {
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrap(err, "decode yaml")
		}
	case "toml":
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrap(err, "decode toml")
		}
	default:
		return nil, errors.Errorf("unsupported config format %q", format)
	}
	if cfg.MemorySize == 0 {
		cfg.MemorySize = DefaultMemorySize
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
