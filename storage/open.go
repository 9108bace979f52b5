// Package storage picks a db.StorageDriver from a store URL:
//
//	mem://                 in memory, lost on exit
//	bolt://<path>          bbolt file
//	sqlite://<path>        SQLite file
//	postgres://...         Postgres (the URL is passed to pgx unchanged)
package storage

import (
	"context"
	"strings"

	"github.com/pkg/errors"

	"github.com/Akash-YS05/smash-cash/db"
	"github.com/Akash-YS05/smash-cash/storage/bolt"
	"github.com/Akash-YS05/smash-cash/storage/mem"
	"github.com/Akash-YS05/smash-cash/storage/postgres"
	"github.com/Akash-YS05/smash-cash/storage/sqlite"
)

var ErrUnknownScheme = errors.New("unknown store scheme")

func Open(ctx context.Context, storeURL string) (db.StorageDriver, error) {
	scheme, rest, ok := strings.Cut(strings.TrimSpace(storeURL), "://")
	if !ok {
		return nil, errors.Wrapf(ErrUnknownScheme, "%q has no scheme", storeURL)
	}
	switch strings.ToLower(scheme) {
	case "mem", "memory":
		return mem.NewMemStore(), nil
	case "bolt", "bbolt":
		return bolt.Open(rest)
	case "sqlite", "sqlite3":
		return sqlite.Open(rest)
	case "postgres", "postgresql":
		return postgres.Open(ctx, storeURL)
	default:
		return nil, errors.Wrap(ErrUnknownScheme, scheme)
	}
}
