// Package cache stores resolved dependency trees between runs.
//
// Running `npm ls --all` on a large project takes seconds; its output only
// changes when the lockfile does. The resolver keys entries on a lockfile
// fingerprint and stores the raw npm output here.
//
// Three backends are provided:
//   - [FileCache] writes one JSON file per entry under a directory (CLI default)
//   - [RedisCache] shares entries between machines through Redis
//   - [NullCache] never stores anything (--no-cache)
package cache

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry expiry.
type Cache interface {
	// Get returns the stored value and true, or false on a miss.
	// Expired entries are misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl <= 0 means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Clearer is implemented by caches that can drop every entry they own.
type Clearer interface {
	// Clear removes all entries and returns how many were removed.
	Clear(ctx context.Context) (int, error)
}

// Open selects a backend from url. An empty url opens a FileCache in dir;
// file:///path opens a FileCache at path; redis:// and rediss:// connect to
// Redis.
func Open(ctx context.Context, url, dir string) (Cache, error) {
	switch {
	case url == "":
		return NewFileCache(dir)
	case strings.HasPrefix(url, "file://"):
		return NewFileCache(strings.TrimPrefix(url, "file://"))
	case strings.HasPrefix(url, "redis://"), strings.HasPrefix(url, "rediss://"):
		return NewRedisCache(ctx, url, "")
	}
	return nil, fmt.Errorf("%w: %q (want file:// or redis://)", ErrInvalidURL, url)
}
