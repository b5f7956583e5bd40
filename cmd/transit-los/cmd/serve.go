package cmd

import (
	"github.com/spf13/cobra"

	transitlos "github.com/theoremus-urban-solutions/transit-los"
	"github.com/theoremus-urban-solutions/transit-los/config"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the LOS map API",
	Long: `Start the HTTP API. Sessions are created from the feeds listed in the config
or from an uploaded feature collection. Stops on SIGINT or SIGTERM.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Config
		if servePort > 0 {
			cfg.Server.Port = servePort
		}
		srv, err := transitlos.NewServer(cfg, logger)
		if err != nil {
			return err
		}
		srv.Start()
		srv.HandleGracefulShutdown()
		return nil
	},
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "listen port (overrides server.port)")
}
