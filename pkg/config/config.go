package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds the settings shared by the command line tools.
type Config struct {
	Parser    ParserConfig    `toml:"parser"`
	Transform TransformConfig `toml:"transform"`
	Output    OutputConfig    `toml:"output"`
	Log       LogConfig       `toml:"log"`
	Watch     WatchConfig     `toml:"watch"`
}

type ParserConfig struct {
	MaxDepth int `toml:"max_depth"`
}

type TransformConfig struct {
	MaxDepth int `toml:"max_depth"`
}

// OutputConfig selects how trees are printed.
type OutputConfig struct {
	Format string `toml:"format"` // tree, sexpr or yaml
	Color  string `toml:"color"`  // auto, always or never
}

type LogConfig struct {
	Level string `toml:"level"`
}

// WatchConfig holds settings for re-running on file changes.
type WatchConfig struct {
	Debounce Duration `toml:"debounce"`
}

// Duration wraps time.Duration for TOML parsing
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler
func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText implements encoding.TextMarshaler
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// EnvVar names the environment variable LoadFromEnv reads.
const EnvVar = "GOCST_CONFIG"

var (
	formats = []string{"tree", "sexpr", "yaml"}
	colors  = []string{"auto", "always", "never"}
)

// Default returns the configuration used when no file is given.
func Default() *Config {
	var cfg Config
	cfg.applyDefaults()
	return &cfg
}

// Load loads configuration from a TOML file. Keys missing from the file keep
// their defaults.
func Load(path string) (*Config, error) {
	path = os.ExpandEnv(path)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", path)
	}

	var cfg Config
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown config key %q in %s", undecoded[0].String(), path)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &cfg, nil
}

// LoadFromEnv loads the file named by GOCST_CONFIG, else the first of
// ./gocst.toml and ~/.config/gocst/config.toml that exists, else defaults.
func LoadFromEnv() (*Config, error) {
	if path := os.Getenv(EnvVar); path != "" {
		return Load(path)
	}
	candidates := []string{"./gocst.toml"}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".config", "gocst", "config.toml"))
	}
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return Load(p)
		}
	}
	return Default(), nil
}

// applyDefaults sets default values for missing configuration
func (c *Config) applyDefaults() {
	if c.Parser.MaxDepth == 0 {
		c.Parser.MaxDepth = 256
	}
	if c.Transform.MaxDepth == 0 {
		c.Transform.MaxDepth = 10000
	}
	if c.Output.Format == "" {
		c.Output.Format = "tree"
	}
	if c.Output.Color == "" {
		c.Output.Color = "auto"
	}
	if c.Log.Level == "" {
		c.Log.Level = "warn"
	}
	if c.Watch.Debounce.Duration == 0 {
		c.Watch.Debounce.Duration = 200 * time.Millisecond
	}
}

// Validate reports the first setting that is out of range.
func (c *Config) Validate() error {
	switch {
	case c.Parser.MaxDepth < 0:
		return fmt.Errorf("parser.max_depth must not be negative, got %d", c.Parser.MaxDepth)
	case c.Transform.MaxDepth < 0:
		return fmt.Errorf("transform.max_depth must not be negative, got %d", c.Transform.MaxDepth)
	case !slices.Contains(formats, c.Output.Format):
		return fmt.Errorf("output.format must be one of %s, got %q", strings.Join(formats, ", "), c.Output.Format)
	case !slices.Contains(colors, c.Output.Color):
		return fmt.Errorf("output.color must be one of %s, got %q", strings.Join(colors, ", "), c.Output.Color)
	case c.Watch.Debounce.Duration < 0:
		return fmt.Errorf("watch.debounce must not be negative, got %s", c.Watch.Debounce)
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// SlogLevel parses log.level ("debug", "info", "warn", "error").
func (c *Config) SlogLevel() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return 0, fmt.Errorf("log.level: %w", err)
	}
	return lvl, nil
}
