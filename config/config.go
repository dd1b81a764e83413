// ABOUTME: TOML configuration for opening a target interpreter
// ABOUTME: Names the version, the memory source, read limits and logging

// Package config handles pystate.toml target configuration.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/prateek/pystate/layout"
)

// FileName is the conventional configuration file name
const FileName = "pystate.toml"

// DefaultMaxBytes bounds a single fetch unless configured otherwise
const DefaultMaxBytes = 1 << 20

var (
	// ErrNoSource is returned when neither a pid nor a snapshot is configured
	ErrNoSource = errors.New("no target source: set target.pid or target.snapshot")

	// ErrTwoSources is returned when both a pid and a snapshot are configured
	ErrTwoSources = errors.New("target.pid and target.snapshot are mutually exclusive")
)

// Config is a pystate.toml file
type Config struct {
	Target Target `toml:"target"`
	Read   Read   `toml:"read"`
	Log    Log    `toml:"log"`

	// Path is the file the configuration was loaded from (set at load time)
	Path string `toml:"-"`
}

// Target selects the interpreter to read
type Target struct {
	// Version is a version string such as "3.11"; may be left empty when the
	// snapshot records one
	Version  string `toml:"version"`
	Pid      int    `toml:"pid"`
	Snapshot string `toml:"snapshot"`
}

// Read bounds fetches from the target
type Read struct {
	MaxBytes int `toml:"max_bytes"`
}

// Log configures commonlog
type Log struct {
	Verbosity int    `toml:"verbosity"`
	File      string `toml:"file"`
}

// Default returns a configuration with every default applied
func Default() *Config {
	return &Config{
		Read: Read{MaxBytes: DefaultMaxBytes},
	}
}

// Load parses the configuration file at path
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}
	c.Path = path
	return c, nil
}

// Parse decodes TOML and applies defaults for unset values
func Parse(data []byte) (*Config, error) {
	c := Default()
	if err := toml.Unmarshal(data, c); err != nil {
		return nil, err
	}

	// Defaults
	if c.Read.MaxBytes == 0 {
		c.Read.MaxBytes = DefaultMaxBytes
	}
	return c, nil
}

// Version parses the configured version string. An empty string yields
// layout.VersionUnknown without error.
func (c *Config) Version() (layout.Version, error) {
	if c.Target.Version == "" {
		return layout.VersionUnknown, nil
	}
	return layout.ParseVersion(c.Target.Version)
}

// Validate checks that the configuration names exactly one usable source
func (c *Config) Validate() error {
	switch {
	case c.Target.Pid == 0 && c.Target.Snapshot == "":
		return ErrNoSource
	case c.Target.Pid != 0 && c.Target.Snapshot != "":
		return ErrTwoSources
	case c.Target.Pid < 0:
		return fmt.Errorf("target.pid must be positive, got %d", c.Target.Pid)
	case c.Read.MaxBytes <= 0:
		return fmt.Errorf("read.max_bytes must be positive, got %d", c.Read.MaxBytes)
	case c.Log.Verbosity < -4:
		return fmt.Errorf("log.verbosity %d out of range", c.Log.Verbosity)
	}

	if _, err := c.Version(); err != nil {
		return fmt.Errorf("target.version: %w", err)
	}
	if c.Target.Pid != 0 && c.Target.Version == "" {
		return errors.New("target.version is required for a live process")
	}
	return nil
}
