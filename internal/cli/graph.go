package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/depskew/pkg/config"
	"github.com/matzehuels/depskew/pkg/render/nodelink"
)

// Graph output formats.
const (
	graphDOT = "dot"
	graphSVG = "svg"
	graphPNG = "png"
)

// graphOpts holds the command-line flags for the graph command.
type graphOpts struct {
	runOpts
	format   string // dot, svg or png
	output   string // output file; empty writes to stdout
	skewOnly bool   // keep only skewed packages and their ancestors
}

// graphCommand creates the graph command for node-link diagrams.
func (c *CLI) graphCommand() *cobra.Command {
	opts := graphOpts{format: graphDOT}

	cmd := &cobra.Command{
		Use:   "graph [dir]",
		Short: "Draw the dependency tree with skewed packages highlighted",
		Long: `Graph draws the resolved tree as a node-link diagram. Top-level copies of
skewed packages are green, divergent copies red, and roots npm marks as
invalid yellow.

Examples:
  depskew graph > deps.dot
  depskew graph --skew-only -f svg -o skew.svg`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateGraphFormat(opts.format); err != nil {
				return err
			}
			dir := projectDir(args)
			cfg, err := c.loadConfig(cmd.Context(), dir)
			if err != nil {
				return err
			}
			opts.apply(cmd, cfg)
			return c.runGraph(cmd.Context(), dir, &opts, cfg)
		},
	}

	opts.runOpts.register(cmd)
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: dot (default), svg, png")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&opts.skewOnly, "skew-only", false, "only draw skewed packages and their ancestors")

	return cmd
}

func validateGraphFormat(f string) error {
	switch f {
	case graphDOT, graphSVG, graphPNG:
		return nil
	}
	return fmt.Errorf("invalid format: %s (must be dot, svg or png)", f)
}

func (c *CLI) runGraph(ctx context.Context, dir string, opts *graphOpts, cfg *config.Config) error {
	result, err := c.check(ctx, dir, cfg, opts.src, false)
	if err != nil {
		return err
	}

	dot := nodelink.ToDOT(result.Tree, result.Mismatches, nodelink.Options{
		Project:  result.Project,
		SkewOnly: opts.skewOnly,
	})

	var data []byte
	switch opts.format {
	case graphSVG:
		data, err = nodelink.RenderSVG(ctx, dot)
	case graphPNG:
		data, err = nodelink.RenderPNG(ctx, dot)
	default:
		data = []byte(dot)
	}
	if err != nil {
		return err
	}

	if opts.output == "" {
		_, err := c.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(opts.output, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", opts.output, err)
	}
	printFile(c.Stdout, opts.output)
	return nil
}
