package mem

import (
	"context"
	"sync"

	"github.com/Akash-YS05/smash-cash/db"
)

var _ db.StorageDriver = (*Store)(nil)

type storeObj struct {
	data []byte
}

// Store implements a minimal in memory StorageDriver. Writers hold the lock
// for the whole of Update, so updates are serialized; staged writes are
// applied only when the update function succeeds.
type Store struct {
	mu    sync.RWMutex
	store map[string]storeObj
}

func NewMemStore() *Store {
	return &Store{
		store: map[string]storeObj{},
	}
}

func (m *Store) View(ctx context.Context, fn func(db.Txn) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return fn(&txn{base: m.store})
}

func (m *Store) Update(ctx context.Context, fn func(db.Txn) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	t := &txn{base: m.store, staged: map[string]storeObj{}, writable: true}
	if err := fn(t); err != nil {
		return err
	}
	for key, obj := range t.staged {
		m.store[key] = obj
	}
	return nil
}

func (m *Store) Close() error {
	return nil
}

type txn struct {
	base     map[string]storeObj
	staged   map[string]storeObj
	writable bool
}

func (t *txn) GetKey(key string) ([]byte, error) {
	obj, found := t.staged[key]
	if !found {
		obj, found = t.base[key]
	}
	if !found {
		return nil, db.ErrNotFound
	}
	return append([]byte(nil), obj.data...), nil
}

func (t *txn) WriteKey(key string, data []byte) error {
	if !t.writable {
		return db.ErrReadOnly
	}
	t.staged[key] = storeObj{
		data: append([]byte(nil), data...),
	}
	return nil
}
