// Package config loads depskew settings from TOML.
//
// Settings come from, in increasing precedence: built-in defaults, the
// first config file found by [Discover], environment variables
// ([Config.ApplyEnv]), and command-line flags (applied by the CLI).
//
// Example .depskew.toml:
//
//	include_dev = false
//	format = "table"
//	ignore = ["typescript"]
//
//	[cache]
//	url = "redis://localhost:6379/0"
//	ttl = "30m"
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	errs "github.com/matzehuels/depskew/pkg/errors"
)

// ProjectFile is the per-project config file name.
const ProjectFile = ".depskew.toml"

// Environment variables read by ApplyEnv.
const (
	EnvNPM      = "DEPSKEW_NPM"
	EnvCacheURL = "DEPSKEW_CACHE_URL"
)

// Formats accepted by the "format" setting.
var Formats = []string{"text", "json", "table"}

// Config holds user settings.
type Config struct {
	// IncludeDev merges devDependencies into the declared set.
	IncludeDev bool `toml:"include_dev"`
	// Format is the report format: text, json or table.
	Format string `toml:"format"`
	// Order sorts divergent versions: asc or desc.
	Order string `toml:"order"`
	// Ignore lists declared packages that are never reported.
	Ignore []string `toml:"ignore"`
	// NPM is the npm executable.
	NPM string `toml:"npm"`
	// MaxDepth bounds tree traversal; 0 uses the built-in limit.
	MaxDepth int `toml:"max_depth"`

	Cache CacheConfig `toml:"cache"`

	// Path is the file the config was loaded from, if any.
	Path string `toml:"-"`
}

// CacheConfig configures the resolver cache.
type CacheConfig struct {
	Enabled bool `toml:"enabled"`
	// URL selects the backend; empty means the user cache directory.
	URL string   `toml:"url"`
	TTL Duration `toml:"ttl"`
}

// Duration is a time.Duration written as a string ("90s", "1h").
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText formats the duration.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		IncludeDev: true,
		Format:     "text",
		Order:      "asc",
		NPM:        "npm",
		Cache: CacheConfig{
			Enabled: true,
			TTL:     Duration{time.Hour},
		},
	}
}

// Load reads the file at path over the defaults. Unknown keys are an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, cfg)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, errs.Wrap(errs.ErrCodeFileNotFound, err, "no config file %s", path)
	}
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errs.New(errs.ErrCodeInvalidConfig, "%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.Path = path
	return cfg, nil
}

// Discover loads the project config in dir, falling back to the user config
// file. It returns the defaults when neither exists.
func Discover(dir string) (*Config, error) {
	candidates := []string{filepath.Join(dir, ProjectFile)}
	if user, err := UserFile(); err == nil {
		candidates = append(candidates, user)
	}
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}
	}
	return Default(), nil
}

// UserFile returns $XDG_CONFIG_HOME/depskew/config.toml (or the platform
// equivalent).
func UserFile() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "depskew", "config.toml"), nil
}

// ApplyEnv overrides settings from the environment.
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvNPM); v != "" {
		c.NPM = v
	}
	if v := os.Getenv(EnvCacheURL); v != "" {
		c.Cache.URL = v
	}
}

// Validate checks enumerated settings.
func (c *Config) Validate() error {
	if !slices.Contains(Formats, c.Format) {
		return errs.New(errs.ErrCodeInvalidConfig, "format %q is not one of %s", c.Format, strings.Join(Formats, ", "))
	}
	switch strings.ToLower(c.Order) {
	case "asc", "ascending", "desc", "descending":
	default:
		return errs.New(errs.ErrCodeInvalidConfig, "order %q is not asc or desc", c.Order)
	}
	if c.MaxDepth < 0 {
		return errs.New(errs.ErrCodeInvalidConfig, "max_depth must not be negative")
	}
	if c.Cache.TTL.Duration < 0 {
		return errs.New(errs.ErrCodeInvalidConfig, "cache.ttl must not be negative")
	}
	return nil
}
