package pipeline

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	errs "github.com/matzehuels/depskew/pkg/errors"
	"github.com/matzehuels/depskew/pkg/manifest"
	"github.com/matzehuels/depskew/pkg/observability"
	"github.com/matzehuels/depskew/pkg/resolver"
	"github.com/matzehuels/depskew/pkg/skew"
	"github.com/matzehuels/depskew/pkg/tree"
)

// Runner executes check runs. It holds no per-run state, so one Runner can
// serve concurrent runs.
type Runner struct {
	Resolver resolver.Resolver
	Logger   *log.Logger
}

// NewRunner creates a runner. A nil logger discards output.
func NewRunner(r resolver.Resolver, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Runner{Resolver: r, Logger: logger}
}

// Run performs a check.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{}
	names := opts.Names
	if names == nil {
		m, err := manifest.Read(opts.Manifest, opts.IncludeDev)
		if err != nil {
			return nil, err
		}
		result.Project = m.Name
		names = m.Dependencies.Names()
	}
	result.Declared = opts.declared(names)

	for _, name := range result.Declared {
		if err := errs.ValidateNpmPackageName(name); err != nil {
			r.Logger.Warn("unusual package name", "name", name, "reason", errs.UserMessage(err))
		}
	}

	r.Logger.Info(checkingMessage(len(result.Declared)))
	if len(result.Declared) == 0 && !opts.All {
		result.Tree = tree.Tree{}
		result.Occurrences = []tree.Occurrence{}
		result.Mismatches = []skew.Mismatch{}
		return result, nil
	}

	resolveNames := result.Declared
	if opts.All {
		resolveNames = nil
	}
	t, err := r.resolve(ctx, resolveNames, &result.Stats)
	if err != nil {
		return nil, err
	}
	result.Tree = t

	checkStart := time.Now()
	var flatOpts []tree.Option
	if opts.MaxDepth > 0 {
		flatOpts = append(flatOpts, tree.WithMaxDepth(opts.MaxDepth))
	}
	result.Occurrences = tree.Flatten(t, flatOpts...)
	result.Mismatches = skew.Detect(skew.Partition(result.Occurrences, result.Declared))
	result.Stats.CheckTime = time.Since(checkStart)

	observability.Pipeline().OnCheckComplete(ctx, len(result.Occurrences), len(result.Mismatches), result.Stats.CheckTime)
	r.Logger.Debug("checked tree",
		"occurrences", len(result.Occurrences),
		"mismatches", len(result.Mismatches),
		"duration", result.Stats.CheckTime)

	return result, nil
}

func (r *Runner) resolve(ctx context.Context, names []string, stats *Stats) (tree.Tree, error) {
	if r.Resolver == nil {
		return nil, errs.New(errs.ErrCodeInternal, "no resolver configured")
	}
	name := r.Resolver.Name()
	stats.Resolver = name

	observability.Pipeline().OnResolveStart(ctx, name, len(names))
	start := time.Now()
	t, err := r.Resolver.Resolve(ctx, names)
	stats.ResolveTime = time.Since(start)
	observability.Pipeline().OnResolveComplete(ctx, name, len(t), stats.ResolveTime, err)
	if err != nil {
		return nil, err
	}

	stats.Nodes = t.Size()
	r.Logger.Debug("resolved tree",
		"resolver", name,
		"nodes", stats.Nodes,
		"duration", stats.ResolveTime)
	return t, nil
}

// checkingMessage returns "Checking N package(s)...".
func checkingMessage(n int) string {
	noun := "package"
	if n > 1 {
		noun = "packages"
	}
	return fmt.Sprintf("Checking %d %s...", n, noun)
}
