package project

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	// ConfigFileName is looked up in the project root.
	ConfigFileName = "mjc.toml"
	// ConfigEnv overrides the config file location.
	ConfigEnv = "MJC_CONFIG"
)

// Config is the contents of mjc.toml. Every field is optional.
type Config struct {
	Source SourceConfig `toml:"source"`
	Output OutputConfig `toml:"output"`
	Log    LogConfig    `toml:"log"`
	Check  CheckConfig  `toml:"check"`
}

type SourceConfig struct {
	Dirs       []string `toml:"dirs"`
	Extensions []string `toml:"extensions"`
}

type OutputConfig struct {
	Format string `toml:"format"` // json, yaml or tree
	Color  string `toml:"color"`  // auto, always or never
}

type LogConfig struct {
	Verbosity int    `toml:"verbosity"`
	File      string `toml:"file"`
}

type CheckConfig struct {
	Jobs int `toml:"jobs"`
}

func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// LoadConfig decodes the TOML file at path and fills in defaults.
func LoadConfig(path string) (*Config, error) {
	path = os.ExpandEnv(path)

	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config file not found: %w", err)
	}

	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("unknown keys in %s: %s", path, strings.Join(keys, ", "))
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return &cfg, nil
}

// FindConfig returns the config file to use for dir: the MJC_CONFIG
// variable if set, else mjc.toml in dir if it exists, else "".
func FindConfig(dir string) string {
	if path := os.Getenv(ConfigEnv); path != "" {
		return path
	}
	candidate := filepath.Join(dir, ConfigFileName)
	if _, err := os.Stat(candidate); err == nil {
		return candidate
	}
	return ""
}

func (c *Config) applyDefaults() {
	if len(c.Source.Dirs) == 0 {
		c.Source.Dirs = []string{"."}
	}
	if len(c.Source.Extensions) == 0 {
		c.Source.Extensions = []string{".java", ".mj"}
	}
	for i, ext := range c.Source.Extensions {
		if !strings.HasPrefix(ext, ".") {
			c.Source.Extensions[i] = "." + ext
		}
	}
	if c.Output.Format == "" {
		c.Output.Format = "tree"
	}
	if c.Output.Color == "" {
		c.Output.Color = "auto"
	}
	if c.Check.Jobs <= 0 {
		c.Check.Jobs = runtime.NumCPU()
	}
}

func (c *Config) Validate() error {
	switch c.Output.Format {
	case "json", "yaml", "tree":
	default:
		return fmt.Errorf("output.format must be json, yaml or tree, got %q", c.Output.Format)
	}
	switch c.Output.Color {
	case "auto", "always", "never":
	default:
		return fmt.Errorf("output.color must be auto, always or never, got %q", c.Output.Color)
	}
	if c.Log.Verbosity < 0 {
		return fmt.Errorf("log.verbosity must not be negative, got %d", c.Log.Verbosity)
	}
	return nil
}

// HasSourceExt reports whether path has one of the configured extensions.
func (c *Config) HasSourceExt(path string) bool {
	ext := filepath.Ext(path)
	for _, want := range c.Source.Extensions {
		if ext == want {
			return true
		}
	}
	return false
}
