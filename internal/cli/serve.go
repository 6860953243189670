package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/crafttable/pkg/server"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		f     buildFlags
		addr  string
		build bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the recipe index and loop table over HTTP",
		Long: `Serve the built artifacts from the configured store.

POST /v1/rebuild re-runs the pipeline with the same settings as 'build'.
With --build a rebuild runs before the server starts listening.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			opts := c.pipelineOptions(cmd, &f)
			if err := opts.ValidateAndSetDefaults(); err != nil {
				return err
			}
			if !cmd.Flags().Changed("addr") {
				addr = c.conf().Server.Addr
			}

			s, err := c.openStore(ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			srv, err := server.New(ctx, server.Config{
				Addr:     addr,
				Store:    s,
				Pipeline: opts,
				Logger:   loggerFromContext(ctx),
			})
			if err != nil {
				return err
			}
			if build {
				res, err := srv.Rebuild(ctx)
				if err != nil {
					return err
				}
				printSuccess(c.Out, "Built %d groups (run %s)", res.Groups, res.RunID)
			}
			printInfo(c.Out, "Listening on %s", StyleHighlight.Render(addr))
			return srv.Run(ctx)
		},
	}
	f.registerSource(cmd)
	f.registerLoops(cmd)
	cmd.Flags().StringVar(&addr, "addr", server.DefaultAddr, "listen address")
	cmd.Flags().BoolVar(&build, "build", false, "rebuild before serving")
	return cmd
}
