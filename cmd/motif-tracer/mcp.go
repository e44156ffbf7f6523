package main

import (
	"github.com/spf13/cobra"

	"github.com/ironsheep/motif-tracer/internal/server"
)

func newMCPCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the MCP protocol on stdin/stdout",
		Long: `Serve the Model Context Protocol on stdin/stdout.

Configure this command in an MCP client. It exposes the vector_trace and
image_load tools. Logs go to stderr.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, cleanup := a.newService(nil)
			defer cleanup()

			a.log.Debug("starting mcp server", "version", Version, "build_time", BuildTime, "commit", GitCommit)

			srv := server.New(
				server.WithService(svc),
				server.WithLogger(a.log),
				server.WithVersion(Version),
			)
			return srv.Serve(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}
