package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/spectools/pkg/api"
	"github.com/matzehuels/spectools/pkg/catalog"
)

// serveCommand creates the serve command running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		noCatalog bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the computations over HTTP",
		Long: `Serve the computations over HTTP.

Routes:
  GET  /healthz
  POST /v1/einstein                    (body: .str file)
  POST /v1/linestrength?q=&t=          (body: .cat file)
  GET  /v1/partition/linear?b=&t=
  GET  /v1/partition/top?a=&b=&c=&t=&sigma=
  GET  /v1/catalog/frequency?f=&prox=&relative=

The server stops on SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := c.cfg()
			if addr == "" {
				addr = cfg.Server.Addr
			}

			ch, err := c.newCache(ctx, false)
			if err != nil {
				return err
			}

			var cat *catalog.Catalog
			if !noCatalog {
				db, err := c.openCatalog(ctx)
				if err != nil {
					return fmt.Errorf("open catalog: %w", err)
				}
				defer db.Close(context.WithoutCancel(ctx))
				cat = db.Catalog
			}

			srv := api.New(api.Options{
				Cache:   ch,
				Catalog: cat,
				Logger:  c.Logger,
				Timeout: cfg.Server.Timeout.Std(),
			})
			defer srv.Close()

			printInfo("Serving on %s", addr)
			return srv.ListenAndServe(ctx, addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&noCatalog, "no-catalog", false, "disable the catalog routes")
	return cmd
}
