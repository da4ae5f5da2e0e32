// Package config handles mooagg.toml settings.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"mooagg/codec"
)

// FileName is the configuration file looked up by Load and FindAndLoad
const FileName = "mooagg.toml"

// Config represents a mooagg.toml file.
type Config struct {
	Compiler Compiler `toml:"compiler"`
	Output   Output   `toml:"output"`
	Store    Store    `toml:"store"`
	Run      Run      `toml:"run"`

	// Dir is the directory containing the file (set at load time).
	Dir string `toml:"-"`
}

// Compiler configures compilation.
type Compiler struct {
	// Suppress names calls dropped in addition to the built-in list.
	Suppress []string `toml:"suppress"`
}

// Output configures how pipelines and documents are written.
type Output struct {
	Format string `toml:"format"`
	Indent string `toml:"indent"`
}

// Store selects the document store used by run mode.
type Store struct {
	Driver     string `toml:"driver"`
	Path       string `toml:"path"`
	Collection string `toml:"collection"`
}

// Run configures fixed-point iteration.
type Run struct {
	Iterations int `toml:"iterations"`
	Digits     int `toml:"digits"`
}

// Default returns the settings used when no file is present
func Default() *Config {
	c := &Config{}
	c.fillDefaults()
	return c
}

func (c *Config) fillDefaults() {
	if c.Output.Format == "" {
		c.Output.Format = string(codec.JSON)
	}
	if c.Store.Driver == "" {
		c.Store.Driver = "memory"
	}
}

// Load parses mooagg.toml from the given directory.
func Load(dir string) (*Config, error) {
	c, err := LoadFile(filepath.Join(dir, FileName))
	if err != nil {
		return nil, err
	}
	c.Dir, err = filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", dir, err)
	}
	return c, nil
}

// LoadFile parses a configuration file at an explicit path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	var c Config
	md, err := toml.Decode(string(data), &c)
	if err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("unknown keys in %s: %s", path, strings.Join(keys, ", "))
	}

	c.Dir, err = filepath.Abs(filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", path, err)
	}

	c.fillDefaults()
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &c, nil
}

// FindAndLoad walks up from startDir to find mooagg.toml, then loads it.
// Returns nil if no file is found.
func FindAndLoad(startDir string) (*Config, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			return Load(dir)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, nil
		}
		dir = parent
	}
}

// Validate checks values that have a fixed vocabulary.
func (c *Config) Validate() error {
	if _, err := codec.ParseFormat(c.Output.Format); err != nil {
		return fmt.Errorf("[output] %w", err)
	}
	switch c.Store.Driver {
	case "memory", "sqlite":
	default:
		return fmt.Errorf("[store] unknown driver %q", c.Store.Driver)
	}
	if c.Store.Driver == "sqlite" && c.Store.Path == "" {
		return fmt.Errorf("[store] sqlite driver needs a path")
	}
	if c.Run.Iterations < 0 || c.Run.Digits < 0 {
		return fmt.Errorf("[run] iterations and digits must not be negative")
	}
	return nil
}

// StorePath resolves the store path against the config directory.
func (c *Config) StorePath() string {
	if c.Store.Path == "" || filepath.IsAbs(c.Store.Path) || c.Dir == "" {
		return c.Store.Path
	}
	return filepath.Join(c.Dir, c.Store.Path)
}

// Format returns the parsed output format.
func (c *Config) Format() codec.Format {
	f, err := codec.ParseFormat(c.Output.Format)
	if err != nil {
		return codec.JSON
	}
	return f
}
