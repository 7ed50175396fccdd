// Package pipeline runs a complete skew check for a project.
//
// A run reads the declared dependencies from package.json (or takes them
// explicitly), resolves the installed tree through a [resolver.Resolver],
// flattens it, and detects mismatches among the declared packages. The CLI
// and the HTTP service both go through [Runner].
//
// # Usage
//
//	npm := &resolver.NPM{Dir: dir, Logger: logger}
//	runner := pipeline.NewRunner(resolver.New(npm, resolver.Options{}), logger)
//	result, err := runner.Run(ctx, pipeline.Options{Dir: dir, IncludeDev: true})
//	if err != nil {
//	    return err
//	}
//	for _, m := range result.Mismatches {
//	    fmt.Println(m.Name, m.Root.Version)
//	}
package pipeline

import (
	"path/filepath"
	"slices"
	"time"

	errs "github.com/matzehuels/depskew/pkg/errors"
	"github.com/matzehuels/depskew/pkg/manifest"
	"github.com/matzehuels/depskew/pkg/skew"
	"github.com/matzehuels/depskew/pkg/tree"
)

// Options configures a run.
type Options struct {
	// Dir is the project directory. Defaults to ".".
	Dir string
	// Manifest overrides the manifest path (default Dir/package.json).
	Manifest string
	// Names declares the packages to check directly; the manifest is then
	// not read.
	Names []string
	// IncludeDev adds devDependencies to the declared set.
	IncludeDev bool
	// Ignore removes packages from the declared set.
	Ignore []string
	// MaxDepth bounds tree traversal; 0 uses tree.DefaultMaxDepth.
	MaxDepth int
	// All resolves the whole installed tree rather than only the subtrees
	// of the declared packages. Mismatches are still limited to Declared.
	All bool
}

// ValidateAndSetDefaults fills in defaults and rejects invalid settings.
func (o *Options) ValidateAndSetDefaults() error {
	if o.Dir == "" {
		o.Dir = "."
	}
	if o.Manifest == "" {
		o.Manifest = filepath.Join(o.Dir, manifest.Filename)
	}
	if o.MaxDepth < 0 {
		return errs.New(errs.ErrCodeInvalidInput, "max depth must not be negative, got %d", o.MaxDepth)
	}
	return nil
}

// declared applies Ignore to names, keeping order.
func (o *Options) declared(names []string) []string {
	return slices.DeleteFunc(slices.Clone(names), func(n string) bool {
		return slices.Contains(o.Ignore, n)
	})
}

// Result holds everything a run produced.
type Result struct {
	// Project is the manifest's package name, if known.
	Project string
	// Declared lists the checked package names in declaration order.
	Declared []string
	// Tree is the resolved dependency tree.
	Tree tree.Tree
	// Occurrences is the flattened tree, unfiltered.
	Occurrences []tree.Occurrence
	// Mismatches among the declared packages.
	Mismatches []skew.Mismatch
	Stats      Stats
}

// Stats records run metrics.
type Stats struct {
	Resolver    string
	Nodes       int
	ResolveTime time.Duration
	CheckTime   time.Duration
}

// Consistent reports whether no mismatches were found.
func (r *Result) Consistent() bool { return len(r.Mismatches) == 0 }
