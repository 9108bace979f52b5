package db_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Akash-YS05/smash-cash/db"
	"github.com/Akash-YS05/smash-cash/object"
	"github.com/Akash-YS05/smash-cash/storage/mem"
)

type widget struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestStore(t *testing.T) {
	ctx := context.Background()
	addr := object.NewDeriver("test").Global()

	t.Run("normal", func(t *testing.T) {
		store := db.NewStore(mem.NewMemStore())
		require.NoError(t, store.Update(ctx, func(tx db.Tx) error {
			return tx.PutObject("widget", addr, widget{Name: "a", Count: 2})
		}))

		var got widget
		require.NoError(t, store.View(ctx, func(tx db.Tx) error {
			exists, err := tx.Exists(addr)
			assert.NoError(t, err)
			assert.True(t, exists)
			return tx.GetObject("widget", addr, &got)
		}))
		assert.Equal(t, widget{Name: "a", Count: 2}, got)
	})

	t.Run("missing", func(t *testing.T) {
		store := db.NewStore(mem.NewMemStore())
		err := store.View(ctx, func(tx db.Tx) error {
			exists, err := tx.Exists(addr)
			assert.NoError(t, err)
			assert.False(t, exists)
			var w widget
			return tx.GetObject("widget", addr, &w)
		})
		assert.ErrorIs(t, err, db.ErrNotFound)
	})

	t.Run("kind mismatch", func(t *testing.T) {
		store := db.NewStore(mem.NewMemStore())
		require.NoError(t, store.Update(ctx, func(tx db.Tx) error {
			return tx.PutObject("widget", addr, widget{Name: "a"})
		}))
		err := store.View(ctx, func(tx db.Tx) error {
			var w widget
			return tx.GetObject("gadget", addr, &w)
		})
		assert.ErrorIs(t, err, db.ErrKindMismatch)
	})

	t.Run("object path", func(t *testing.T) {
		assert.Equal(t, "/obj/"+addr.String(), db.ObjectPath(addr))
	})
}
