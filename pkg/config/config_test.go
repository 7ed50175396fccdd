package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	errs "github.com/matzehuels/depskew/pkg/errors"
)

const testTOML = `
include_dev = false
format = "table"
order = "desc"
ignore = ["typescript", "@types/node"]
max_depth = 32

[cache]
url = "redis://localhost:6379/1"
ttl = "30m"
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeFile(t, t.TempDir(), ProjectFile, testTOML)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.IncludeDev || cfg.Format != "table" || cfg.Order != "desc" || cfg.MaxDepth != 32 {
		t.Errorf("unexpected settings: %+v", cfg)
	}
	if !reflect.DeepEqual(cfg.Ignore, []string{"typescript", "@types/node"}) {
		t.Errorf("Ignore = %v", cfg.Ignore)
	}
	if cfg.Cache.URL != "redis://localhost:6379/1" || cfg.Cache.TTL.Duration != 30*time.Minute {
		t.Errorf("Cache = %+v", cfg.Cache)
	}
	// Keys absent from the file keep their defaults.
	if cfg.NPM != "npm" || !cfg.Cache.Enabled {
		t.Errorf("defaults lost: npm=%q enabled=%v", cfg.NPM, cfg.Cache.Enabled)
	}
	if cfg.Path != path {
		t.Errorf("Path = %q, want %q", cfg.Path, path)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		content string
		code    errs.Code
	}{
		{"syntax", `format = `, errs.ErrCodeInvalidConfig},
		{"unknown key", `colour = "red"`, errs.ErrCodeInvalidConfig},
		{"bad format", `format = "yaml"`, errs.ErrCodeInvalidConfig},
		{"bad order", `order = "random"`, errs.ErrCodeInvalidConfig},
		{"bad ttl", "[cache]\nttl = \"soon\"", errs.ErrCodeInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, dir, tt.name+".toml", tt.content)
			if _, err := Load(path); !errs.Is(err, tt.code) {
				t.Errorf("Load error = %v, want code %s", err, tt.code)
			}
		})
	}

	if _, err := Load(filepath.Join(dir, "missing.toml")); !errs.Is(err, errs.ErrCodeFileNotFound) {
		t.Errorf("missing file error = %v", err)
	}
}

func TestDiscover(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()

	cfg, err := Discover(dir)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if !reflect.DeepEqual(cfg, Default()) {
		t.Errorf("without files Discover should return defaults, got %+v", cfg)
	}

	writeFile(t, dir, ProjectFile, `format = "json"`)
	cfg, err = Discover(dir)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if cfg.Format != "json" {
		t.Errorf("project file not used: %+v", cfg)
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvNPM, "/usr/local/bin/npm")
	t.Setenv(EnvCacheURL, "redis://cache:6379")

	cfg := Default()
	cfg.ApplyEnv()
	if cfg.NPM != "/usr/local/bin/npm" || cfg.Cache.URL != "redis://cache:6379" {
		t.Errorf("env not applied: %+v", cfg)
	}
}

func TestDuration(t *testing.T) {
	var d Duration
	if err := d.UnmarshalText([]byte("90s")); err != nil {
		t.Fatal(err)
	}
	if d.Duration != 90*time.Second {
		t.Errorf("Duration = %v", d.Duration)
	}
	text, _ := d.MarshalText()
	if string(text) != "1m30s" {
		t.Errorf("MarshalText = %s", text)
	}
}
