package main

import (
	"github.com/spf13/cobra"

	"github.com/Akash-YS05/smash-cash/bot"
)

func init() {
	rootCmd.AddCommand(botCmd)
}

var botCmd = &cobra.Command{
	Use:   "bot",
	Short: "Run the Telegram bot frontend",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		engine, closeStore, err := openEngine(ctx)
		if err != nil {
			return err
		}
		defer closeStore()

		b, err := bot.New(cfg.TelegramToken, cfg.TelegramDebug, engine)
		if err != nil {
			return err
		}
		return b.Run(ctx)
	},
}
