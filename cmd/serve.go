package cmd

import (
	"github.com/MladenSU/color-mtr/internal/service/report"
	"github.com/MladenSU/color-mtr/server"

	"github.com/spf13/cobra"
)

var (
	serverHost string
	serverPort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start HTTP API server exposing classified mtr reports",
	Long: `Start an HTTP API server that runs mtr on request and returns the
classified report as JSON.

The server provides the following APIs:
  - GET /health
  - GET /api/report?target=HOST[&count=N][&arg=...]

The server listens on 127.0.0.1 unless server.host (or --host) says otherwise.
Only a fixed set of mtr options is accepted through arg.

Example:
  cmtr serve
  cmtr serve --port 9090
  cmtr serve --host 0.0.0.0`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serverHost, "host", "", "HTTP listen address (default from config, 127.0.0.1)")
	serveCmd.Flags().IntVarP(&serverPort, "port", "p", 0, "HTTP server port (default from config, 8080)")
}

func runServe(cmd *cobra.Command, args []string) error {
	host, port := cfg.Server.Host, cfg.Server.Port
	if cmd.Flags().Changed("host") {
		host = serverHost
	}
	if cmd.Flags().Changed("port") {
		port = serverPort
	}
	srv := server.NewServer(host, port, newProber(cfg), report.NewClassifier(cfg))
	return srv.Start()
}
