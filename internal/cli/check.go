package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/depskew/pkg/config"
	"github.com/matzehuels/depskew/pkg/pipeline"
	"github.com/matzehuels/depskew/pkg/report"
	"github.com/matzehuels/depskew/pkg/skew"
)

// runOpts holds the flags shared by every command that runs a check.
type runOpts struct {
	src      sourceOpts
	dev      bool     // include devDependencies
	ignore   []string // declared packages to skip
	maxDepth int      // traversal bound, 0 for the default
}

func (o *runOpts) register(cmd *cobra.Command) {
	o.src.register(cmd)
	cmd.Flags().BoolVar(&o.dev, "dev", true, "include devDependencies")
	cmd.Flags().StringSliceVar(&o.ignore, "ignore", nil, "skip a declared package (repeatable)")
	cmd.Flags().IntVar(&o.maxDepth, "max-depth", 0, "maximum tree depth to traverse (0 for the default)")
}

// apply overrides cfg with the flags the user set explicitly.
func (o *runOpts) apply(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("dev") {
		cfg.IncludeDev = o.dev
	}
	if cmd.Flags().Changed("max-depth") {
		cfg.MaxDepth = o.maxDepth
	}
	cfg.Ignore = append(cfg.Ignore, o.ignore...)
}

// checkOpts holds the command-line flags for the check command.
type checkOpts struct {
	runOpts
	format      string
	order       string
	strict      bool
	interactive bool
	noColor     bool
}

// checkCommand creates the check command.
func (c *CLI) checkCommand() *cobra.Command {
	var opts checkOpts

	cmd := &cobra.Command{
		Use:   "check [dir]",
		Short: "Report declared packages installed at more than one version",
		Long: `Check runs npm ls in dir (default ".") and compares every installed copy
of each dependency declared in package.json against its top-level copy.

Examples:
  depskew check
  depskew check ./web --format json
  npm ls --all --json | depskew check --tree -
  depskew check --strict --ignore typescript`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := projectDir(args)
			cfg, err := c.loadConfig(cmd.Context(), dir)
			if err != nil {
				return err
			}
			opts.apply(cmd, cfg)
			if cmd.Flags().Changed("format") {
				cfg.Format = opts.format
			}
			if cmd.Flags().Changed("order") {
				cfg.Order = opts.order
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return c.runCheck(cmd.Context(), dir, cfg, &opts)
		},
	}

	opts.runOpts.register(cmd)
	cmd.Flags().StringVarP(&opts.format, "format", "f", "text", "report format: text, json, table")
	cmd.Flags().StringVar(&opts.order, "order", "asc", "divergent version order: asc, desc")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "exit non-zero when mismatches are found")
	cmd.Flags().BoolVarP(&opts.interactive, "interactive", "i", false, "browse mismatches interactively")
	cmd.Flags().BoolVar(&opts.noColor, "no-color", false, "disable colored output")

	return cmd
}

func (c *CLI) runCheck(ctx context.Context, dir string, cfg *config.Config, opts *checkOpts) error {
	order, err := skew.ParseOrder(cfg.Order)
	if err != nil {
		return err
	}

	result, err := c.check(ctx, dir, cfg, opts.src, false)
	if err != nil {
		return err
	}

	if opts.interactive && len(result.Mismatches) > 0 {
		model := NewMismatchListModel(result.Mismatches, order)
		if _, err := tea.NewProgram(model, tea.WithContext(ctx)).Run(); err != nil {
			return fmt.Errorf("interactive view: %w", err)
		}
	} else {
		r, err := report.New(cfg.Format, report.Options{
			Order:   order,
			NoColor: opts.noColor,
			Checked: len(result.Declared),
		})
		if err != nil {
			return err
		}
		if err := r.Report(c.Stdout, result.Mismatches); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
	}

	if opts.strict && !result.Consistent() {
		return ErrMismatches
	}
	return nil
}

// check runs the pipeline for dir with cfg. With all set the whole
// installed tree is resolved, not just the declared packages.
func (c *CLI) check(ctx context.Context, dir string, cfg *config.Config, src sourceOpts, all bool) (*pipeline.Result, error) {
	logger := loggerFromContext(ctx)
	runner, release := c.newRunner(ctx, dir, cfg, src)
	defer release()

	if src.treeFile == "" {
		defer withResolveSpinner(ctx, c.Stderr, logger)()
	}

	prog := newProgress(logger)
	result, err := runner.Run(ctx, pipeline.Options{
		Dir:        dir,
		IncludeDev: cfg.IncludeDev,
		Ignore:     cfg.Ignore,
		MaxDepth:   cfg.MaxDepth,
		All:        all,
	})
	if err != nil {
		return nil, err
	}
	if result.Stats.Resolver != "" {
		prog.done(fmt.Sprintf("Resolved %d nodes with %s", result.Stats.Nodes, result.Stats.Resolver))
	}
	return result, nil
}
