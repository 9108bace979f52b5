package postgres

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Akash-YS05/smash-cash/db"
	"github.com/Akash-YS05/smash-cash/db/dbtest"
)

// Runs only against a disposable database named by
// SMASH_CASH_TEST_POSTGRES_URL; the records table is truncated per case.
func TestStore(t *testing.T) {
	dsn := os.Getenv("SMASH_CASH_TEST_POSTGRES_URL")
	if dsn == "" {
		t.Skip("SMASH_CASH_TEST_POSTGRES_URL not set")
	}
	dbtest.RunDriverTests(t, func(t *testing.T) db.StorageDriver {
		ctx := context.Background()
		store, err := Open(ctx, dsn)
		require.NoError(t, err)
		_, err = store.pool.Exec(ctx, `TRUNCATE records`)
		require.NoError(t, err)
		return store
	})
}
