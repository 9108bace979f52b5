package main

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/Akash-YS05/smash-cash/identity"
	"github.com/Akash-YS05/smash-cash/ledger"
)

var keySeed string

func init() {
	for _, c := range []*cobra.Command{initCmd, registerCmd, submitCmd} {
		c.Flags().StringVar(&keySeed, "key", "", "hex private key seed of the initiator (see keygen)")
		_ = c.MarkFlagRequired("key")
	}
	rootCmd.AddCommand(initCmd, registerCmd, submitCmd, leaderboardCmd, participantCmd)
}

func initiator() (identity.Identity, error) {
	kp, err := identity.KeypairFromSeed(keySeed)
	if err != nil {
		return identity.Identity{}, errors.Wrap(err, "--key")
	}
	return kp.Identity, nil
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the global game record",
	RunE: func(cmd *cobra.Command, args []string) error {
		who, err := initiator()
		if err != nil {
			return err
		}
		engine, closeStore, err := openEngine(cmd.Context())
		if err != nil {
			return err
		}
		defer closeStore()

		addr, err := engine.Initialize(cmd.Context(), who)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), addr)
		return nil
	},
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Register the initiator as a player",
	RunE: func(cmd *cobra.Command, args []string) error {
		who, err := initiator()
		if err != nil {
			return err
		}
		engine, closeStore, err := openEngine(cmd.Context())
		if err != nil {
			return err
		}
		defer closeStore()

		addr, err := engine.RegisterParticipant(cmd.Context(), who)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), addr)
		return nil
	},
}

var submitCmd = &cobra.Command{
	Use:   "submit SCORE",
	Short: "Submit a score for the initiator",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		score, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			return ledger.ErrInvalidScore
		}
		who, err := initiator()
		if err != nil {
			return err
		}
		engine, closeStore, err := openEngine(cmd.Context())
		if err != nil {
			return err
		}
		defer closeStore()

		res, err := engine.SubmitScore(cmd.Context(), who, score)
		if err != nil {
			return err
		}
		return printJSON(cmd, map[string]interface{}{
			"participant":    res.Participant,
			"leaderboard":    res.Global,
			"new_high_score": res.NewHighScore,
			"new_top_score":  res.NewTopScore,
		})
	},
}

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard",
	Short: "Print the global game record",
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, closeStore, err := openEngine(cmd.Context())
		if err != nil {
			return err
		}
		defer closeStore()

		global, err := engine.QueryLeaderboard(cmd.Context())
		if err != nil {
			return err
		}
		return printJSON(cmd, global)
	},
}

var participantCmd = &cobra.Command{
	Use:   "participant IDENTITY",
	Short: "Print the player record of IDENTITY",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := identity.Parse(args[0])
		if err != nil {
			return err
		}
		engine, closeStore, err := openEngine(cmd.Context())
		if err != nil {
			return err
		}
		defer closeStore()

		player, err := engine.Participant(cmd.Context(), id)
		if err != nil {
			return err
		}
		return printJSON(cmd, player)
	},
}
