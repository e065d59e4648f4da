// -- cmd/serve.go --
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/commitlens/commitlens-cli/internal/observability"
	"github.com/commitlens/commitlens-cli/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API for the dashboard.",
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := observability.GetLogger()

		svc, err := buildService(cfg, logger)
		if err != nil {
			return err
		}

		srv := server.New(cfg.Server, server.NewHandlers(svc, logger), logger)
		return srv.Run(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
