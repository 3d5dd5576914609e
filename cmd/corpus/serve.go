package main

import (
	"context"

	"github.com/aretw0/corpus/internal/cli"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Exposes conversion and parameter validation over HTTP, with Prometheus metrics
on /metrics and conversion events streamed on /events.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")
		maxBody, _ := cmd.Flags().GetInt64("max-body")

		sigCtx := cli.NewSignalContext(context.Background())
		defer sigCtx.Cancel()

		return cli.RunServe(sigCtx, configFrom(cmd), cli.ServeOptions{Addr: addr, MaxBodySize: maxBody})
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", ":8080", "Address to listen on")
	serveCmd.Flags().Int64("max-body", 0, "Maximum request body size in bytes (0 keeps the server default)")
}
