package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Akash-YS05/smash-cash/config"
	"github.com/Akash-YS05/smash-cash/db"
	"github.com/Akash-YS05/smash-cash/ledger"
	"github.com/Akash-YS05/smash-cash/object"
	"github.com/Akash-YS05/smash-cash/storage"
)

var (
	cfg     config.Config
	envFile string
)

var rootCmd = &cobra.Command{
	Use:           "smashcash",
	Short:         "Leaderboard ledger for the smash cash game",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var files []string
		if envFile != "" {
			files = append(files, envFile)
		}
		loaded, err := config.Load(files...)
		if err != nil {
			return err
		}
		cfg = loaded
		if cmd.Flags().Changed("store") {
			cfg.StoreURL, _ = cmd.Flags().GetString("store")
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "dotenv file to load (default ./.env if present)")
	rootCmd.PersistentFlags().String("store", "", "store URL, overrides SMASH_CASH_STORE_URL")
}

// openEngine opens the configured store. The returned close func releases it.
func openEngine(ctx context.Context) (*ledger.Engine, func() error, error) {
	driver, err := storage.Open(ctx, cfg.StoreURL)
	if err != nil {
		return nil, nil, err
	}
	store := db.NewStore(driver)
	return ledger.NewEngine(store, object.NewDeriver(cfg.Program)), store.Close, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		config.Exitf("smashcash: %v", err)
	}
}
