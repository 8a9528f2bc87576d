// Package config reads the optional .variance.yaml file that sets defaults for the
// command line. Flags given explicitly always take precedence over it.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/cottand/variance/frontend/types"
	"gopkg.in/yaml.v3"
)

// FileName is looked up in the checked directory and its parents
const FileName = ".variance.yaml"

const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

type Config struct {
	// Runtime is the runtime model casts are checked against, 'erased' or 'reified'
	Runtime string `yaml:"runtime"`
	// CacheSize bounds the number of memoised subtype judgements, 0 disables the cache
	CacheSize int `yaml:"cache_size"`
	// LogLevel is one of debug, info, warn or error
	LogLevel string `yaml:"log_level"`
	// Color is one of auto, always or never
	Color string `yaml:"color"`
	// WarningsAsErrors makes warnings fail a check
	WarningsAsErrors bool `yaml:"warnings_as_errors"`
}

func Default() *Config {
	return &Config{
		Runtime:   types.Erased.String(),
		CacheSize: 4096,
		LogLevel:  "warn",
		Color:     ColorAuto,
	}
}

// Load reads the config at path. A missing file is not an error: Default is returned instead.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	return Parse(data, path)
}

// Parse reads a config from data, keeping the defaults for every key that is not set.
// The name is only used in error messages.
func Parse(data []byte, name string) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing %s: %w", name, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", name, err)
	}
	return cfg, nil
}

// Find returns the path of the closest config file in dir or one of its parents,
// or the empty string when there is none
func Find(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

func (c *Config) Validate() error {
	if _, err := c.RuntimeMode(); err != nil {
		return err
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	switch c.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("unknown color setting '%s', expected one of '%s', '%s' or '%s'", c.Color, ColorAuto, ColorAlways, ColorNever)
	}
	if c.CacheSize < 0 {
		return fmt.Errorf("cache_size must not be negative, got %d", c.CacheSize)
	}
	return nil
}

func (c *Config) RuntimeMode() (types.RuntimeMode, error) {
	return types.ParseRuntimeMode(c.Runtime)
}

func (c *Config) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(c.LogLevel))); err != nil {
		return slog.LevelWarn, fmt.Errorf("unknown log level '%s'", c.LogLevel)
	}
	return l, nil
}

// Options are the TypeCtx options the config selects
func (c *Config) Options() []types.Option {
	mode, _ := c.RuntimeMode()
	return []types.Option{types.WithRuntimeMode(mode), types.WithCacheSize(c.CacheSize)}
}
