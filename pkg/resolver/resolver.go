// Package resolver obtains the resolved dependency tree of a project.
//
// A [Fetcher] produces raw `npm ls --json` output, either by running npm
// ([NPM]) or by reading a captured document ([File]). [New] wraps a Fetcher
// into a [Resolver] that decodes the output and, given a lockfile
// fingerprint, caches it.
package resolver

import (
	"context"
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/depskew/pkg/cache"
	"github.com/matzehuels/depskew/pkg/observability"
	"github.com/matzehuels/depskew/pkg/tree"
)

// DefaultCacheTTL is how long a cached tree stays valid.
const DefaultCacheTTL = time.Hour

// cacheKeyType labels resolver entries in cache hooks.
const cacheKeyType = "tree"

// Fetcher returns raw `npm ls --json` output for the given top-level names.
// An empty names list asks for the whole tree.
type Fetcher interface {
	Name() string
	Fetch(ctx context.Context, names []string) ([]byte, error)
}

// Resolver returns the decoded dependency tree for the given names.
type Resolver interface {
	Name() string
	Resolve(ctx context.Context, names []string) (tree.Tree, error)
}

// Options configures a Resolver built by New.
type Options struct {
	// Cache stores raw fetcher output. Nil disables caching.
	Cache cache.Cache
	// TTL bounds the lifetime of cached entries.
	TTL time.Duration
	// Fingerprint identifies the installed state (see LockfileFingerprint).
	// An empty fingerprint disables caching.
	Fingerprint string
	Logger      *log.Logger
}

// WithDefaults returns a copy of o with zero fields set to defaults.
func (o Options) WithDefaults() Options {
	opts := o
	if opts.Cache == nil {
		opts.Cache = cache.NewNullCache()
	}
	if opts.TTL <= 0 {
		opts.TTL = DefaultCacheTTL
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	return opts
}

type fetchResolver struct {
	fetcher Fetcher
	opts    Options
}

// New returns a Resolver that decodes f's output.
func New(f Fetcher, opts Options) Resolver {
	return &fetchResolver{fetcher: f, opts: opts.WithDefaults()}
}

func (r *fetchResolver) Name() string { return r.fetcher.Name() }

func (r *fetchResolver) Resolve(ctx context.Context, names []string) (tree.Tree, error) {
	key := r.cacheKey(names)
	logger := r.opts.Logger

	if key != "" {
		data, hit, err := r.opts.Cache.Get(ctx, key)
		if err != nil {
			logger.Warn("cache lookup failed", "error", err)
		}
		if hit {
			if t, err := Decode(data); err == nil {
				observability.Cache().OnCacheHit(ctx, cacheKeyType)
				logger.Debug("tree cache hit", "resolver", r.Name())
				return t, nil
			}
			_ = r.opts.Cache.Delete(ctx, key)
		}
		observability.Cache().OnCacheMiss(ctx, cacheKeyType)
	}

	data, err := r.fetcher.Fetch(ctx, names)
	if err != nil {
		return nil, err
	}
	t, err := Decode(data)
	if err != nil {
		return nil, err
	}

	if key != "" {
		if err := r.opts.Cache.Set(ctx, key, data, r.opts.TTL); err != nil {
			logger.Warn("cache write failed", "error", err)
		} else {
			observability.Cache().OnCacheSet(ctx, cacheKeyType, len(data))
		}
	}
	return t, nil
}

func (r *fetchResolver) cacheKey(names []string) string {
	if r.opts.Fingerprint == "" {
		return ""
	}
	sorted := slices.Clone(names)
	slices.Sort(sorted)
	return cache.Key(cacheKeyType, r.fetcher.Name(), sorted, r.opts.Fingerprint)
}
