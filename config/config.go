// Package config handles reckon.toml session configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config represents a reckon.toml configuration file.
type Config struct {
	REPL    REPL    `toml:"repl"`
	History History `toml:"history"`
	Startup Startup `toml:"startup"`

	// Dir is the directory containing the reckon.toml file (set at load time).
	Dir string `toml:"-"`
}

// REPL configures interactive behavior.
type REPL struct {
	Prompt    string `toml:"prompt"`
	Separator string `toml:"separator"`
	Modifier  string `toml:"modifier"`
	NoSplit   bool   `toml:"no-split"`
	Print     bool   `toml:"print"`
	Debug     bool   `toml:"debug"`
}

// History configures the command history store.
type History struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
	Limit   int    `toml:"limit"`
}

// Startup configures commands run before the session starts.
type Startup struct {
	File string `toml:"file"`
}

// Default returns the configuration used when no reckon.toml exists.
func Default() *Config {
	return &Config{
		REPL: REPL{
			Prompt:   "--> ",
			Modifier: ":",
		},
		History: History{
			Enabled: true,
			Limit:   500,
		},
	}
}

// Load parses a reckon.toml file from the given directory.
func Load(dir string) (*Config, error) {
	path := filepath.Join(dir, "reckon.toml")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	c := Default()
	if err := toml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}

	c.Dir, err = filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", dir, err)
	}

	if len(c.REPL.Modifier) != 1 {
		if c.REPL.Modifier == "" {
			c.REPL.Modifier = ":"
		} else {
			return nil, fmt.Errorf(
				"%s: modifier must be a single character, got %q",
				path, c.REPL.Modifier)
		}
	}
	if len(c.REPL.Separator) > 1 {
		return nil, fmt.Errorf(
			"%s: separator must be a single character, got %q",
			path, c.REPL.Separator)
	}

	return c, nil
}

// FindAndLoad walks up from startDir to find a reckon.toml file, then
// loads and returns it. Returns the defaults if no file is found.
func FindAndLoad(startDir string) (*Config, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		path := filepath.Join(dir, "reckon.toml")
		if _, err := os.Stat(path); err == nil {
			return Load(dir)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root
			return Default(), nil
		}
		dir = parent
	}
}

// HistoryPath returns the configured history database path, or the
// per-user default when unset.
func (c *Config) HistoryPath() (string, error) {
	if c.History.Path != "" {
		if filepath.IsAbs(c.History.Path) || c.Dir == "" {
			return c.History.Path, nil
		}
		return filepath.Join(c.Dir, c.History.Path), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot resolve home directory: %w", err)
	}
	return filepath.Join(home, ".reckon", "history.db"), nil
}

// StartupFilePath returns the absolute path of the startup file, or ""
// when none is configured.
func (c *Config) StartupFilePath() string {
	if c.Startup.File == "" {
		return ""
	}
	if filepath.IsAbs(c.Startup.File) || c.Dir == "" {
		return c.Startup.File
	}
	return filepath.Join(c.Dir, c.Startup.File)
}
