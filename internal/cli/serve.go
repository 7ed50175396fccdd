package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/depskew/internal/server"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	opts := server.Options{Addr: server.DefaultAddr}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the flattener and mismatch checker over HTTP",
		Long: `Serve starts an HTTP service. Clients post the "dependencies" object of
npm ls --all --json output to /v1/flatten, or {"declared": [...], "tree": {...}}
to /v1/check.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Logger = loggerFromContext(cmd.Context())
			return server.New(opts).ListenAndServe(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&opts.Addr, "addr", opts.Addr, "listen address")
	cmd.Flags().Int64Var(&opts.MaxBodyBytes, "max-body", server.DefaultMaxBodyBytes, "maximum request body size in bytes")
	cmd.Flags().IntVar(&opts.MaxDepth, "max-depth", 0, "maximum tree depth to traverse (0 for the default)")

	return cmd
}
