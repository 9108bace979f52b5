package main

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Akash-YS05/smash-cash/ledger"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestLedgerCommands(t *testing.T) {
	store := "bolt://" + filepath.Join(t.TempDir(), "cli.db")

	out, err := run(t, "keygen")
	require.NoError(t, err)
	var seed, id string
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		if len(fields) != 2 {
			continue
		}
		switch fields[0] {
		case "identity:":
			id = fields[1]
		case "seed:":
			seed = fields[1]
		}
	}
	require.NotEmpty(t, seed)
	require.NotEmpty(t, id)

	_, err = run(t, "--store", store, "register", "--key", seed)
	assert.ErrorIs(t, err, ledger.ErrNotInitialized)

	out, err = run(t, "--store", store, "init", "--key", seed)
	require.NoError(t, err)
	global, err := run(t, "address")
	require.NoError(t, err)
	assert.Equal(t, strings.TrimSpace(global), strings.TrimSpace(out))

	out, err = run(t, "--store", store, "register", "--key", seed)
	require.NoError(t, err)
	participant, err := run(t, "address", id)
	require.NoError(t, err)
	assert.Equal(t, strings.TrimSpace(participant), strings.TrimSpace(out))

	_, err = run(t, "--store", store, "submit", "150", "--key", seed)
	require.NoError(t, err)
	_, err = run(t, "--store", store, "submit", "0", "--key", seed)
	assert.ErrorIs(t, err, ledger.ErrInvalidScore)

	out, err = run(t, "--store", store, "leaderboard")
	require.NoError(t, err)
	var board ledger.GlobalRecord
	require.NoError(t, json.Unmarshal([]byte(out), &board))
	assert.Equal(t, uint64(1), board.ParticipantCount)
	assert.Equal(t, uint64(1), board.GameCount)
	assert.Equal(t, uint64(150), board.TopScore)

	out, err = run(t, "--store", store, "participant", id)
	require.NoError(t, err)
	var player ledger.ParticipantRecord
	require.NoError(t, json.Unmarshal([]byte(out), &player))
	assert.Equal(t, uint64(150), player.HighScore)
	assert.Equal(t, uint64(1), player.GamesPlayed)
}
