package main

import (
	"log"

	"github.com/spf13/cobra"

	"github.com/Akash-YS05/smash-cash/api"
	"github.com/Akash-YS05/smash-cash/telemetry"
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the ledger HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		shutdown, err := telemetry.Setup(ctx, "smashcash-api", cfg.OTelEndpoint, cfg.OTelEnabled)
		if err != nil {
			return err
		}
		defer func() {
			if err := shutdown(ctx); err != nil {
				log.Printf("telemetry shutdown: %v", err)
			}
		}()

		engine, closeStore, err := openEngine(ctx)
		if err != nil {
			return err
		}
		defer closeStore()

		return api.Serve(ctx, api.APIConfig{
			APIEndpoint:     cfg.APIAddr,
			SignatureWindow: cfg.SignatureWindow,
		}, engine)
	},
}
