package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/matzehuels/joinery/internal/config"
	"github.com/matzehuels/joinery/pkg/docstore"
	"github.com/matzehuels/joinery/pkg/server"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the read-only HTTP API over the store",
		Long: `Serve the elements and group hierarchy of the configured store as JSON.

Endpoints:
  GET /healthz
  GET /elements
  GET /elements/{id}
  GET /groups
  GET /groups/tree?mode=inferred|explicit
  GET /groups/shared`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(cmd, func(ctx context.Context, store docstore.Store, cfg *config.Config) error {
				if addr == "" {
					addr = cfg.Server.Addr
				}
				return server.New(store, c.Logger).ListenAndServe(ctx, addr)
			})
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, "+config.DefaultServerAddr+")")

	return cmd
}
