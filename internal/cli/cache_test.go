package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")
	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}

	home, _ := os.UserHomeDir()
	expected := filepath.Join(home, ".cache", appName)
	if dir != expected {
		t.Errorf("cacheDir() = %q, want %q", dir, expected)
	}
}

func TestCacheDirXDG(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", xdg)

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	if dir != filepath.Join(xdg, appName) {
		t.Errorf("cacheDir() = %q, want under %q", dir, xdg)
	}
}

func TestCacheLocation(t *testing.T) {
	if got := cacheLocation("redis://localhost:6379/0"); got != "redis://localhost:6379/0" {
		t.Errorf("cacheLocation(redis) = %q", got)
	}
	if got := cacheLocation(""); !strings.HasSuffix(got, appName) {
		t.Errorf("cacheLocation(\"\") = %q, want cache dir", got)
	}
}

func TestCacheCommands(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", xdg)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("DEPSKEW_CACHE_URL", "")

	out, err := execute(t, nil, "cache", "path")
	if err != nil {
		t.Fatalf("cache path: %v", err)
	}
	if strings.TrimSpace(out) != filepath.Join(xdg, appName) {
		t.Errorf("cache path = %q", out)
	}

	out, err = execute(t, nil, "cache", "clear")
	if err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	if !strings.Contains(out, "Cache is empty") {
		t.Errorf("cache clear output = %q", out)
	}
}

// execute runs the root command with args and returns its stdout.
func execute(t *testing.T, stdin []byte, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	c := New(&stderr, LogInfo)
	c.Stdout = &stdout
	c.Stdin = bytes.NewReader(stdin)

	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	err := root.Execute()
	return stdout.String(), err
}
