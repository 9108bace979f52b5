package db

import (
	"context"
	"encoding/json"
	"path"

	"github.com/pkg/errors"

	"github.com/Akash-YS05/smash-cash/object"
)

const keyPrefixObjects = "/obj/"

type envelope struct {
	Kind string          `json:"kind"`
	Data json.RawMessage `json:"data"`
}

// Store is the typed view over a StorageDriver.
type Store struct {
	d StorageDriver
}

func NewStore(d StorageDriver) *Store {
	return &Store{d: d}
}

func (s *Store) Close() error {
	return s.d.Close()
}

func (s *Store) View(ctx context.Context, fn func(Tx) error) error {
	return s.d.View(ctx, func(t Txn) error {
		return fn(Tx{t: t})
	})
}

func (s *Store) Update(ctx context.Context, fn func(Tx) error) error {
	return s.d.Update(ctx, func(t Txn) error {
		return fn(Tx{t: t})
	})
}

// ObjectPath is the driver key for the object stored at addr.
func ObjectPath(addr object.Address) string {
	return path.Join(keyPrefixObjects, addr.String())
}

// Tx reads and writes objects inside one driver transaction.
type Tx struct {
	t Txn
}

// GetObject decodes the object at addr into out. It returns ErrNotFound if
// the slot is empty and ErrKindMismatch if it holds another kind of object.
func (tx Tx) GetObject(kind string, addr object.Address, out interface{}) error {
	raw, err := tx.t.GetKey(ObjectPath(addr))
	if errors.Is(err, ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return errors.WithStack(err)
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return errors.Wrapf(err, "decode object %s", addr)
	}
	if env.Kind != kind {
		return errors.Wrapf(ErrKindMismatch, "want %s, have %s at %s", kind, env.Kind, addr)
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return errors.Wrapf(err, "decode %s %s", kind, addr)
	}
	return nil
}

// Exists reports whether any object occupies addr.
func (tx Tx) Exists(addr object.Address) (bool, error) {
	_, err := tx.t.GetKey(ObjectPath(addr))
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, errors.WithStack(err)
	}
	return true, nil
}

func (tx Tx) PutObject(kind string, addr object.Address, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return errors.Wrapf(err, "encode %s %s", kind, addr)
	}
	raw, err := json.Marshal(envelope{Kind: kind, Data: data})
	if err != nil {
		return errors.WithStack(err)
	}
	return errors.WithStack(tx.t.WriteKey(ObjectPath(addr), raw))
}
