package cli

import (
	"encoding/json"

	"github.com/spf13/cobra"
)

// treeCommand creates the tree command, which prints the flattened
// occurrences without filtering or mismatch detection.
func (c *CLI) treeCommand() *cobra.Command {
	var opts runOpts

	cmd := &cobra.Command{
		Use:   "tree [dir]",
		Short: "Print every installed package occurrence as JSON",
		Long: `Tree resolves the whole installed dependency tree of dir (npm ls --all)
and prints one JSON object per installed copy of every package, with the
chain of ancestors that pulled it in. Declared dependencies do not filter
the output.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := projectDir(args)
			cfg, err := c.loadConfig(cmd.Context(), dir)
			if err != nil {
				return err
			}
			opts.apply(cmd, cfg)

			result, err := c.check(cmd.Context(), dir, cfg, opts.src, true)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(c.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(result.Occurrences)
		},
	}

	opts.register(cmd)
	return cmd
}
