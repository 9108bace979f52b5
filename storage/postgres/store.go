// Package postgres is a db.StorageDriver backed by a Postgres table.
//
// Every Update first takes a transaction scoped advisory lock, so writers
// from all processes sharing the database run one at a time.
package postgres

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"

	"github.com/Akash-YS05/smash-cash/db"
)

// writerLockKey is the pg_advisory_xact_lock key held by writers.
const writerLockKey int64 = 0x736d617368

const schema = `CREATE TABLE IF NOT EXISTS records (
    key TEXT PRIMARY KEY,
    data BYTEA NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

var _ db.StorageDriver = (*Store)(nil)

type Store struct {
	pool *pgxpool.Pool
}

// Open connects to dsn and creates the records table if needed.
func Open(ctx context.Context, dsn string) (*Store, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, errors.New("postgres dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to db")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, errors.Wrap(err, "ping db")
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, errors.Wrap(err, "create records table")
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() error {
	if s != nil && s.pool != nil {
		s.pool.Close()
	}
	return nil
}

func (s *Store) View(ctx context.Context, fn func(db.Txn) error) error {
	return s.run(ctx, pgx.TxOptions{AccessMode: pgx.ReadOnly}, fn, false)
}

func (s *Store) Update(ctx context.Context, fn func(db.Txn) error) error {
	return s.run(ctx, pgx.TxOptions{}, fn, true)
}

func (s *Store) run(ctx context.Context, opts pgx.TxOptions, fn func(db.Txn) error, writable bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	tx, err := s.pool.BeginTx(ctx, opts)
	if err != nil {
		return errors.Wrap(err, "begin transaction")
	}
	defer tx.Rollback(ctx)

	if writable {
		if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, writerLockKey); err != nil {
			return errors.Wrap(err, "take writer lock")
		}
	}
	if err := fn(&txn{ctx: ctx, tx: tx, writable: writable}); err != nil {
		return err
	}
	return errors.Wrap(tx.Commit(ctx), "commit transaction")
}

type txn struct {
	ctx      context.Context
	tx       pgx.Tx
	writable bool
}

func (t *txn) GetKey(key string) ([]byte, error) {
	var data []byte
	err := t.tx.QueryRow(t.ctx, `SELECT data FROM records WHERE key = $1`, key).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, db.ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "get %s", key)
	}
	return data, nil
}

func (t *txn) WriteKey(key string, data []byte) error {
	if !t.writable {
		return db.ErrReadOnly
	}
	_, err := t.tx.Exec(t.ctx,
		`INSERT INTO records (key, data, updated_at) VALUES ($1, $2, now())
		 ON CONFLICT (key) DO UPDATE SET data = EXCLUDED.data, updated_at = EXCLUDED.updated_at`,
		key, data,
	)
	return errors.Wrapf(err, "write %s", key)
}
