// Package bolt is a db.StorageDriver backed by a single bbolt file. bbolt
// allows one writer at a time and commits or rolls back each Update as a
// whole, which is exactly the contract the ledger needs.
package bolt

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.etcd.io/bbolt"

	"github.com/Akash-YS05/smash-cash/db"
)

const recordBucket = "records"

var _ db.StorageDriver = (*Store)(nil)

type Store struct {
	db *bbolt.DB
}

// Open opens (creating if needed) the bbolt file at path.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("storage path is required")
	}

	bdb, err := bbolt.Open(filepath.Clean(path), 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, errors.Wrap(err, "open storage db")
	}

	store := &Store{db: bdb}
	if err := store.ensureBuckets(); err != nil {
		_ = bdb.Close()
		return nil, err
	}
	return store, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) View(ctx context.Context, fn func(db.Txn) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(recordBucket))
		if bucket == nil {
			return errors.New("record bucket is missing")
		}
		return fn(txn{bucket: bucket})
	})
}

func (s *Store) Update(ctx context.Context, fn func(db.Txn) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(recordBucket))
		if bucket == nil {
			return errors.New("record bucket is missing")
		}
		return fn(txn{bucket: bucket, writable: true})
	})
}

func (s *Store) ensureBuckets() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists([]byte(recordBucket)); err != nil {
			return errors.Wrap(err, "create record bucket")
		}
		return nil
	})
}

type txn struct {
	bucket   *bbolt.Bucket
	writable bool
}

func (t txn) GetKey(key string) ([]byte, error) {
	payload := t.bucket.Get([]byte(key))
	if payload == nil {
		return nil, db.ErrNotFound
	}
	// bbolt memory is only valid for the life of the transaction.
	return append([]byte(nil), payload...), nil
}

func (t txn) WriteKey(key string, data []byte) error {
	if !t.writable {
		return db.ErrReadOnly
	}
	return t.bucket.Put([]byte(key), data)
}
