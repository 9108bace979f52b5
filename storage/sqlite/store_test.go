package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Akash-YS05/smash-cash/db"
	"github.com/Akash-YS05/smash-cash/db/dbtest"
)

func TestStore(t *testing.T) {
	dbtest.RunDriverTests(t, func(t *testing.T) db.StorageDriver {
		store, err := Open(filepath.Join(t.TempDir(), "ledger.sqlite"))
		require.NoError(t, err)
		return store
	})
}

func TestMigrationsRunOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.sqlite")
	store, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, store.Update(context.Background(), func(tx db.Txn) error {
		return tx.WriteKey("/obj/a", []byte("kept"))
	}))
	require.NoError(t, store.Close())

	store, err = Open(path)
	require.NoError(t, err)
	defer store.Close()

	var applied int
	require.NoError(t, store.db.Get(&applied, "SELECT COUNT(*) FROM "+migrationTable))
	assert.Equal(t, 1, applied)
	require.NoError(t, store.View(context.Background(), func(tx db.Txn) error {
		got, err := tx.GetKey("/obj/a")
		require.NoError(t, err)
		assert.Equal(t, []byte("kept"), got)
		return nil
	}))
}

func TestViewDoesNotWaitForWriter(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "ledger.sqlite"))
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	require.NoError(t, store.Update(ctx, func(tx db.Txn) error {
		return tx.WriteKey("/obj/a", []byte("old"))
	}))

	writing := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- store.Update(ctx, func(tx db.Txn) error {
			if err := tx.WriteKey("/obj/a", []byte("new")); err != nil {
				return err
			}
			close(writing)
			<-release
			return nil
		})
	}()
	<-writing

	start := time.Now()
	require.NoError(t, store.View(ctx, func(tx db.Txn) error {
		got, err := tx.GetKey("/obj/a")
		require.NoError(t, err)
		assert.Equal(t, []byte("old"), got)
		return nil
	}))
	assert.Less(t, time.Since(start), time.Second)

	close(release)
	require.NoError(t, <-done)
	require.NoError(t, store.View(ctx, func(tx db.Txn) error {
		got, err := tx.GetKey("/obj/a")
		require.NoError(t, err)
		assert.Equal(t, []byte("new"), got)
		return nil
	}))
}

func TestExtractUp(t *testing.T) {
	got := extractUp("-- +migrate Up\nCREATE TABLE x (a);\n-- +migrate Down\nDROP TABLE x;")
	assert.Contains(t, got, "CREATE TABLE x")
	assert.NotContains(t, got, "DROP TABLE")
	assert.Equal(t, "SELECT 1;", extractUp("SELECT 1;"))
}
