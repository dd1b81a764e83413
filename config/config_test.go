// ABOUTME: Tests for loading and validating pystate.toml
// ABOUTME: Covers defaults, parse errors that name the file, and source validation

package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/prateek/pystate/layout"
)

func TestParse(t *testing.T) {
	data := []byte(`
[target]
version  = "3.11.4"
snapshot = "dump.cbor"

[read]
max_bytes = 4096

[log]
verbosity = 2
file      = "pystate.log"
`)

	got, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	want := &Config{
		Target: Target{Version: "3.11.4", Snapshot: "dump.cbor"},
		Read:   Read{MaxBytes: 4096},
		Log:    Log{Verbosity: 2, File: "pystate.log"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
	}

	v, err := got.Version()
	if err != nil || v != layout.V3_11 {
		t.Errorf("Version() = %s, %v; want 3.11", v, err)
	}
}

func TestParseDefaults(t *testing.T) {
	got, err := Parse([]byte("[target]\npid = 42\n"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if got.Read.MaxBytes != DefaultMaxBytes {
		t.Errorf("MaxBytes = %d, want %d", got.Read.MaxBytes, DefaultMaxBytes)
	}
	if got.Log.Verbosity != 0 || got.Log.File != "" {
		t.Errorf("Log = %+v, want zero", got.Log)
	}
	if v, err := got.Version(); err != nil || v != layout.VersionUnknown {
		t.Errorf("Version() = %s, %v; want unknown, nil", v, err)
	}
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"syntax", "[target\nversion = 3"},
		{"wrong type", "[target]\npid = \"forty\""},
		{"wrong table type", "target = 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.data)); err == nil {
				t.Error("Parse() expected error, got none")
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, []byte("[target]\nversion = \"2.7\"\npid = 7\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if c.Path != path || c.Target.Pid != 7 {
		t.Errorf("Load() = %+v", c)
	}
	if err := c.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestLoadErrorsNameTheFile(t *testing.T) {
	dir := t.TempDir()

	missing := filepath.Join(dir, "missing.toml")
	_, err := Load(missing)
	if !errors.Is(err, os.ErrNotExist) || !strings.Contains(err.Error(), missing) {
		t.Errorf("Load(missing) error = %v", err)
	}

	broken := filepath.Join(dir, "broken.toml")
	if err := os.WriteFile(broken, []byte("[read\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(broken); err == nil || !strings.Contains(err.Error(), broken) {
		t.Errorf("Load(broken) error = %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr error
		ok      bool
	}{
		{name: "snapshot only", mutate: func(c *Config) { c.Target.Snapshot = "a.json" }, ok: true},
		{name: "snapshot with version", mutate: func(c *Config) { c.Target.Snapshot = "a.json"; c.Target.Version = "3.9" }, ok: true},
		{name: "pid with version", mutate: func(c *Config) { c.Target.Pid = 10; c.Target.Version = "3.12" }, ok: true},
		{name: "no source", mutate: func(c *Config) {}, wantErr: ErrNoSource},
		{name: "two sources", mutate: func(c *Config) { c.Target.Pid = 10; c.Target.Snapshot = "a.json" }, wantErr: ErrTwoSources},
		{name: "pid without version", mutate: func(c *Config) { c.Target.Pid = 10 }},
		{name: "negative pid", mutate: func(c *Config) { c.Target.Pid = -3; c.Target.Version = "3.9" }},
		{name: "zero max bytes", mutate: func(c *Config) { c.Target.Snapshot = "a.json"; c.Read.MaxBytes = 0 }},
		{
			name:    "unsupported version",
			mutate:  func(c *Config) { c.Target.Snapshot = "a.json"; c.Target.Version = "3.2" },
			wantErr: layout.ErrUnsupportedVersion,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.mutate(c)
			err := c.Validate()
			if tt.ok {
				if err != nil {
					t.Errorf("Validate() error = %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("Validate() expected error, got none")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
