// Package config handles player.toml configuration.
package config

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/wippyai/mpvbridge/errors"
)

// FileName is the configuration file looked up by Find.
const FileName = "player.toml"

// Config is a player configuration.
type Config struct {
	// Options are engine options applied before initialization.
	Options map[string]string `toml:"options"`

	// LogLevel is the minimum engine log level forwarded as events.
	LogLevel string `toml:"log-level"`

	// Context is the kind of rendering context requested from the surface.
	Context string `toml:"context"`

	// Path is the file the configuration was loaded from (set at load time).
	Path string `toml:"-"`

	SizeCacheTTL Duration `toml:"size-cache-ttl"`
}

// Duration is a time.Duration written as a string such as "500ms".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

var logLevels = map[string]bool{
	"no": true, "fatal": true, "error": true, "warn": true, "info": true,
	"status": true, "v": true, "debug": true, "trace": true,
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		LogLevel:     "debug",
		Context:      "webgl",
		SizeCacheTTL: Duration{500 * time.Millisecond},
		Options: map[string]string{
			"hwdec":                "no",
			"opengl-hwdec-interop": "auto",
			"sub-auto":             "no",
			"vo":                   "opengl-cb",
		},
	}
}

// Parse reads a configuration from TOML. Values not present keep their
// defaults; options are merged over the default options.
func Parse(data []byte) (*Config, error) {
	var file Config
	md, err := toml.Decode(string(data), &file)
	if err != nil {
		return nil, errors.ParseFailed(errors.PhaseConfig, FileName, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.InvalidInput(errors.PhaseConfig, "unknown keys: "+strings.Join(keys, ", "))
	}

	c := Default()
	if file.LogLevel != "" {
		c.LogLevel = file.LogLevel
	}
	if file.Context != "" {
		c.Context = file.Context
	}
	if md.IsDefined("size-cache-ttl") {
		c.SizeCacheTTL = file.SizeCacheTTL
	}
	for k, v := range file.Options {
		c.Options[k] = v
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Load parses the configuration file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseConfig, errors.KindNotFound, err, "cannot read "+path)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, err
	}
	c.Path = path
	return c, nil
}

// Find walks up from startDir looking for player.toml and loads it. It
// returns nil when no file is found.
func Find(startDir string) (*Config, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}
	for {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, nil
		}
		dir = parent
	}
}

// Validate checks field values.
func (c *Config) Validate() error {
	if !logLevels[c.LogLevel] {
		return errors.InvalidInput(errors.PhaseConfig, "unknown log level "+c.LogLevel)
	}
	if c.Context == "" {
		return errors.InvalidInput(errors.PhaseConfig, "context must not be empty")
	}
	if c.SizeCacheTTL.Duration < 0 {
		return errors.InvalidInput(errors.PhaseConfig, "size-cache-ttl must not be negative")
	}
	return nil
}

// OptionNames returns option names in the order they are applied.
func (c *Config) OptionNames() []string {
	names := make([]string, 0, len(c.Options))
	for k := range c.Options {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Encode writes c as TOML.
func (c *Config) Encode() ([]byte, error) {
	var b strings.Builder
	if err := toml.NewEncoder(&b).Encode(c); err != nil {
		return nil, errors.Wrap(errors.PhaseConfig, errors.KindInvalidData, err, "encode configuration")
	}
	return []byte(b.String()), nil
}
