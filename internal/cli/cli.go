// Package cli implements the depskew command-line interface.
package cli

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/depskew/pkg/buildinfo"
	"github.com/matzehuels/depskew/pkg/cache"
	"github.com/matzehuels/depskew/pkg/config"
	"github.com/matzehuels/depskew/pkg/pipeline"
	"github.com/matzehuels/depskew/pkg/resolver"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "depskew"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// ErrMismatches is returned by `check --strict` when skew was found. The
// report has already been written; main exits non-zero without printing it.
var ErrMismatches = errors.New("version mismatches found")

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Stdout io.Writer
	Stderr io.Writer
	Stdin  io.Reader

	configPath string
}

// New creates a new CLI instance with a default logger writing to w.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Stdout: os.Stdout,
		Stderr: w,
		Stdin:  os.Stdin,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "depskew finds packages installed at more than one version",
		Long: `depskew compares every installed copy of your declared npm dependencies
against the top-level copy and reports the ones that diverge (diamond
dependency version skew) or that npm flags as invalid.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: ./"+config.ProjectFile+")")

	root.AddCommand(c.checkCommand())
	root.AddCommand(c.treeCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Config & Runner Factory
// =============================================================================

// loadConfig reads --config if given, otherwise discovers the config for dir,
// then applies environment overrides.
func (c *CLI) loadConfig(ctx context.Context, dir string) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if c.configPath != "" {
		cfg, err = config.Load(c.configPath)
	} else {
		cfg, err = config.Discover(dir)
	}
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv()
	if cfg.Path != "" {
		loggerFromContext(ctx).Debug("loaded config", "path", cfg.Path)
	}
	return cfg, nil
}

// sourceOpts selects where the dependency tree comes from.
type sourceOpts struct {
	treeFile string // captured npm ls output ("-" for stdin); empty runs npm
	noCache  bool
}

func (o *sourceOpts) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.treeFile, "tree", "", "read `npm ls --all --json` output from file (- for stdin) instead of running npm")
	cmd.Flags().BoolVar(&o.noCache, "no-cache", false, "do not read or write the tree cache")
}

// newRunner builds a pipeline runner for dir that logs to the context's
// logger. The returned function releases the cache and must be called when
// done.
func (c *CLI) newRunner(ctx context.Context, dir string, cfg *config.Config, src sourceOpts) (*pipeline.Runner, func()) {
	logger := loggerFromContext(ctx)

	var fetcher resolver.Fetcher
	if src.treeFile != "" {
		fetcher = &resolver.File{Path: src.treeFile, Stdin: c.Stdin}
	} else {
		fetcher = &resolver.NPM{Bin: cfg.NPM, Dir: dir, Logger: logger}
	}

	opts := resolver.Options{TTL: cfg.Cache.TTL.Duration, Logger: logger}
	release := func() {}

	if src.treeFile == "" && cfg.Cache.Enabled && !src.noCache {
		fp, err := resolver.LockfileFingerprint(dir)
		if err != nil {
			logger.Warn("Tree cache disabled", "error", err)
		}
		if fp != "" {
			store, err := c.openCache(ctx, cfg)
			if err != nil {
				logger.Warn("Tree cache unavailable", "error", err)
			} else {
				opts.Cache = store
				opts.Fingerprint = fp
				release = func() { store.Close() }
			}
		} else {
			logger.Debug("no lockfile found, tree cache skipped", "dir", dir)
		}
	}

	return pipeline.NewRunner(resolver.New(fetcher, opts), logger), release
}

func (c *CLI) openCache(ctx context.Context, cfg *config.Config) (cache.Cache, error) {
	dir, err := cacheDir()
	if err != nil {
		return nil, err
	}
	return cache.Open(ctx, cfg.Cache.URL, dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/depskew/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// projectDir returns the optional [dir] argument, defaulting to ".".
func projectDir(args []string) string {
	if len(args) > 0 && args[0] != "" {
		return args[0]
	}
	return "."
}
