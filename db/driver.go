// Package db is the persistence layer for ledger records. A StorageDriver
// is any key/value backend that can run a function as one atomic unit; the
// Store on top of it reads and writes JSON encoded objects at derived
// addresses.
package db

import (
	"context"

	"github.com/pkg/errors"
)

var (
	ErrNotFound     = errors.New("key not found")
	ErrReadOnly     = errors.New("write in read-only transaction")
	ErrKindMismatch = errors.New("stored object has a different kind")
)

// Txn is a handle on one unit of work. GetKey returns ErrNotFound for a
// missing key and sees earlier WriteKey calls of the same Txn.
type Txn interface {
	GetKey(key string) ([]byte, error)
	WriteKey(key string, data []byte) error
}

// StorageDriver is the data storage layer. Implementations exist for memory,
// bbolt, sqlite and postgres.
//
// Update must commit every write made by fn when fn returns nil and none of
// them otherwise, and concurrent Update calls must behave as if run one
// after another. View runs fn against a consistent snapshot; writes fail
// with ErrReadOnly.
type StorageDriver interface {
	View(ctx context.Context, fn func(Txn) error) error
	Update(ctx context.Context, fn func(Txn) error) error
	Close() error
}
