// Package sqlite is a db.StorageDriver backed by an SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"log"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	_ "modernc.org/sqlite"

	"github.com/Akash-YS05/smash-cash/db"
	"github.com/Akash-YS05/smash-cash/storage/sqlite/migrations"
)

var _ db.StorageDriver = (*Store)(nil)

const pragmas = "_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)"

type Store struct {
	db *sqlx.DB
	// reader begins deferred, read-only transactions so views never wait
	// on the write lock.
	reader *sqlx.DB
	// Serializes writers of this process; _txlock=immediate covers other
	// processes sharing the file.
	mu sync.Mutex
}

// Open opens the SQLite file at path and applies embedded migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("storage path is required")
	}
	path = filepath.Clean(path)
	dsn := path + "?" + pragmas + "&_txlock=immediate"

	sqlDB, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "open sqlite db")
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, errors.Wrap(err, "ping sqlite db")
	}
	if err := applyMigrations(sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, errors.Wrap(err, "run migrations")
	}

	readDB, err := sqlx.Open("sqlite", path+"?"+pragmas+"&_pragma=query_only(1)")
	if err != nil {
		_ = sqlDB.Close()
		return nil, errors.Wrap(err, "open sqlite reader")
	}
	return &Store{db: sqlDB, reader: readDB}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	rerr := s.reader.Close()
	if err := s.db.Close(); err != nil {
		return err
	}
	return rerr
}

func (s *Store) View(ctx context.Context, fn func(db.Txn) error) error {
	return s.run(ctx, s.reader, fn, false)
}

func (s *Store) Update(ctx context.Context, fn func(db.Txn) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.run(ctx, s.db, fn, true)
}

func (s *Store) run(ctx context.Context, conn *sqlx.DB, fn func(db.Txn) error, writable bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	tx, err := conn.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin transaction")
	}
	defer safeRollback(tx)

	if err := fn(&txn{ctx: ctx, tx: tx, writable: writable}); err != nil {
		return err
	}
	return errors.Wrap(tx.Commit(), "commit transaction")
}

type txn struct {
	ctx      context.Context
	tx       *sqlx.Tx
	writable bool
}

func (t *txn) GetKey(key string) ([]byte, error) {
	var data []byte
	err := t.tx.GetContext(t.ctx, &data, `SELECT data FROM records WHERE key = ?`, key)
	if errors.Is(err, sql.ErrNoRows) {
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
	_, err := t.tx.ExecContext(t.ctx,
		`INSERT INTO records (key, data, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		key, data, time.Now().UTC().UnixMilli(),
	)
	return errors.Wrapf(err, "write %s", key)
}

// safeRollback rolls back tx unless it was already committed.
func safeRollback(tx *sqlx.Tx) {
	if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		log.Printf("sqlite: rollback: %v", err)
	}
}
