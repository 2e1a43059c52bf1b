// Package config loads lox.toml interpreter configuration.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/tliron/commonlog"

	"github.com/thomasrohde/golox/pkg/interpreter"
)

// FileName is the project configuration file searched for upward.
const FileName = "lox.toml"

var log = commonlog.GetLogger("lox.config")

// Config is the effective interpreter configuration.
type Config struct {
	Interpreter Interpreter `toml:"interpreter"`
	REPL        REPL        `toml:"repl"`
	Log         Log         `toml:"log"`
	Diagnostics Diagnostics `toml:"diagnostics"`
}

// Interpreter holds evaluation limits.
type Interpreter struct {
	MaxCallDepth int `toml:"max-call-depth"`
}

// REPL configures the interactive prompt.
type REPL struct {
	Prompt       string `toml:"prompt"`
	Continuation string `toml:"continuation"`
	History      string `toml:"history"`
}

// Log configures commonlog output. Verbosity 0 logs errors only.
type Log struct {
	Verbosity int    `toml:"verbosity"`
	File      string `toml:"file"`
}

// Diagnostics selects how static and runtime errors are printed.
type Diagnostics struct {
	Format string `toml:"format"`
}

// Diagnostic output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Interpreter: Interpreter{MaxCallDepth: interpreter.DefaultMaxCallDepth},
		REPL: REPL{
			Prompt:       "> ",
			Continuation: ". ",
			History:      "~/.lox/history",
		},
		Diagnostics: Diagnostics{Format: FormatText},
	}
}

// Validate rejects values the interpreter cannot honour.
func (c *Config) Validate() error {
	if c.Interpreter.MaxCallDepth <= 0 {
		return fmt.Errorf("interpreter.max-call-depth must be positive, got %d", c.Interpreter.MaxCallDepth)
	}
	switch c.Diagnostics.Format {
	case FormatText, FormatJSON:
	default:
		return fmt.Errorf("diagnostics.format must be %q or %q, got %q", FormatText, FormatJSON, c.Diagnostics.Format)
	}
	if c.Log.Verbosity < 0 {
		return fmt.Errorf("log.verbosity must not be negative, got %d", c.Log.Verbosity)
	}
	return nil
}

// Encode writes c as TOML.
func (c *Config) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

// Parse decodes TOML data on top of the defaults, so omitted keys keep
// their default values.
func Parse(data []byte) (*Config, error) {
	c := Default()
	md, err := toml.Decode(string(data), c)
	if err != nil {
		return nil, err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		log.Warningf("ignoring unknown configuration keys: %s", strings.Join(keys, ", "))
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadFile reads and parses a single configuration file.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}
	return c, nil
}

// Load resolves configuration with precedence: project lox.toml (searched
// upward from startDir) → user ~/.lox/config.toml → defaults. It returns the
// path the configuration came from, or "" for defaults. A file that exists
// but fails to parse is an error rather than a silent fallback.
func Load(startDir string) (*Config, string, error) {
	if path, err := FindProjectFile(startDir); err != nil {
		return nil, "", err
	} else if path != "" {
		c, err := LoadFile(path)
		if err != nil {
			return nil, "", err
		}
		log.Infof("configuration loaded from %s", path)
		return c, path, nil
	}

	if home, err := os.UserHomeDir(); err == nil {
		path := filepath.Join(home, ".lox", "config.toml")
		if _, err := os.Stat(path); err == nil {
			c, err := LoadFile(path)
			if err != nil {
				return nil, "", err
			}
			log.Infof("configuration loaded from %s", path)
			return c, path, nil
		}
	}

	log.Debug("using default configuration")
	return Default(), "", nil
}

// FindProjectFile walks up from startDir looking for lox.toml.
// It returns "" when the filesystem root is reached without a match.
func FindProjectFile(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}
	for {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", err
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

// ExpandHome replaces a leading "~/" with the user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
