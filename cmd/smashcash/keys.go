package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Akash-YS05/smash-cash/identity"
	"github.com/Akash-YS05/smash-cash/object"
)

func init() {
	rootCmd.AddCommand(keygenCmd)
	rootCmd.AddCommand(addressCmd)
}

var keygenCmd = &cobra.Command{
	Use:   "keygen",
	Short: "Generate an identity and print its private seed",
	RunE: func(cmd *cobra.Command, args []string) error {
		kp, err := identity.Generate()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "identity: %s\nseed:     %s\n", kp.Identity, kp.Seed())
		return nil
	},
}

var addressCmd = &cobra.Command{
	Use:   "address [identity]",
	Short: "Print the global address, or the player address of identity",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d := object.NewDeriver(cfg.Program)
		if len(args) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), d.Global())
			return nil
		}
		id, err := identity.Parse(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), d.Participant(id))
		return nil
	},
}
