// Package dbtest holds the behaviour every db.StorageDriver must show.
package dbtest

import (
	"context"
	"encoding/binary"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Akash-YS05/smash-cash/db"
)

// Opener returns a fresh, empty driver. The suite closes it.
type Opener func(t *testing.T) db.StorageDriver

func RunDriverTests(t *testing.T, open Opener) {
	t.Run("write then read", func(t *testing.T) {
		d := open(t)
		defer d.Close()
		ctx := context.Background()

		require.NoError(t, d.Update(ctx, func(tx db.Txn) error {
			return tx.WriteKey("/obj/a", []byte("one"))
		}))
		var got []byte
		require.NoError(t, d.View(ctx, func(tx db.Txn) error {
			var err error
			got, err = tx.GetKey("/obj/a")
			return err
		}))
		assert.Equal(t, []byte("one"), got)
	})

	t.Run("missing key", func(t *testing.T) {
		d := open(t)
		defer d.Close()
		err := d.View(context.Background(), func(tx db.Txn) error {
			_, err := tx.GetKey("/obj/missing")
			return err
		})
		assert.True(t, errors.Is(err, db.ErrNotFound), "got %v", err)
	})

	t.Run("read own writes", func(t *testing.T) {
		d := open(t)
		defer d.Close()
		require.NoError(t, d.Update(context.Background(), func(tx db.Txn) error {
			if err := tx.WriteKey("/obj/b", []byte("staged")); err != nil {
				return err
			}
			got, err := tx.GetKey("/obj/b")
			if err != nil {
				return err
			}
			assert.Equal(t, []byte("staged"), got)
			return nil
		}))
	})

	t.Run("failed update writes nothing", func(t *testing.T) {
		d := open(t)
		defer d.Close()
		ctx := context.Background()
		boom := errors.New("boom")

		require.NoError(t, d.Update(ctx, func(tx db.Txn) error {
			return tx.WriteKey("/obj/kept", []byte("v1"))
		}))
		err := d.Update(ctx, func(tx db.Txn) error {
			if err := tx.WriteKey("/obj/kept", []byte("v2")); err != nil {
				return err
			}
			if err := tx.WriteKey("/obj/new", []byte("x")); err != nil {
				return err
			}
			return boom
		})
		assert.True(t, errors.Is(err, boom))

		require.NoError(t, d.View(ctx, func(tx db.Txn) error {
			got, err := tx.GetKey("/obj/kept")
			require.NoError(t, err)
			assert.Equal(t, []byte("v1"), got)
			_, err = tx.GetKey("/obj/new")
			assert.True(t, errors.Is(err, db.ErrNotFound))
			return nil
		}))
	})

	t.Run("view is read only", func(t *testing.T) {
		d := open(t)
		defer d.Close()
		err := d.View(context.Background(), func(tx db.Txn) error {
			return tx.WriteKey("/obj/c", []byte("x"))
		})
		assert.True(t, errors.Is(err, db.ErrReadOnly), "got %v", err)
	})

	t.Run("cancelled context", func(t *testing.T) {
		d := open(t)
		defer d.Close()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		called := false
		err := d.Update(ctx, func(tx db.Txn) error {
			called = true
			return nil
		})
		assert.ErrorIs(t, err, context.Canceled)
		assert.False(t, called)
	})

	t.Run("concurrent updates do not lose writes", func(t *testing.T) {
		d := open(t)
		defer d.Close()
		ctx := context.Background()
		const workers = 16
		const perWorker = 5

		var wg sync.WaitGroup
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < perWorker; j++ {
					err := d.Update(ctx, func(tx db.Txn) error {
						var n uint64
						raw, err := tx.GetKey("/obj/counter")
						switch {
						case errors.Is(err, db.ErrNotFound):
						case err != nil:
							return err
						default:
							n = binary.BigEndian.Uint64(raw)
						}
						buf := make([]byte, 8)
						binary.BigEndian.PutUint64(buf, n+1)
						return tx.WriteKey("/obj/counter", buf)
					})
					assert.NoError(t, err)
				}
			}()
		}
		wg.Wait()

		require.NoError(t, d.View(ctx, func(tx db.Txn) error {
			raw, err := tx.GetKey("/obj/counter")
			require.NoError(t, err)
			assert.Equal(t, uint64(workers*perWorker), binary.BigEndian.Uint64(raw))
			return nil
		}))
	})
}
