// Package storage provides the persistent key-value store behind the
// ports.Store contract. Two SQL backends share one implementation via
// sqlx: a local sqlite file (the default for a single-user install) and
// postgres. Values are opaque JSON documents under unique keys, which
// keeps single-key writes atomic at the database level.
package storage

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"levelup/internal/errors"
)

const schema = `
CREATE TABLE IF NOT EXISTS kv (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at TIMESTAMP NOT NULL
);
`

// SQLStore implements ports.Store over a kv table.
type SQLStore struct {
	db *sqlx.DB
}

// OpenSQLite opens (and initializes) the local sqlite store.
func OpenSQLite(path string) (*SQLStore, error) {
	db, err := sqlx.Connect("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open sqlite store")
	}
	// modernc sqlite serializes writes itself; one connection avoids
	// SQLITE_BUSY under concurrent handlers.
	db.SetMaxOpenConns(1)
	return initStore(db)
}

// OpenPostgres connects to a postgres-backed store.
func OpenPostgres(url string) (*SQLStore, error) {
	db, err := sqlx.Connect("postgres", url)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to postgres store")
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to ping postgres store")
	}
	return initStore(db)
}

func initStore(db *sqlx.DB) (*SQLStore, error) {
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to initialize kv schema")
	}
	return &SQLStore{db: db}, nil
}

// Get returns the raw JSON for a key, or ok=false when absent.
func (s *SQLStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value string
	query := s.db.Rebind(`SELECT value FROM kv WHERE key = ?`)
	err := s.db.GetContext(ctx, &value, query, key)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrap(err, "kv read failed")
	}
	return []byte(value), true, nil
}

// Set writes a key, replacing any existing value.
func (s *SQLStore) Set(ctx context.Context, key string, value []byte) error {
	query := s.db.Rebind(`
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`)
	if _, err := s.db.ExecContext(ctx, query, key, string(value), time.Now().UTC()); err != nil {
		return errors.PersistenceFailure(err)
	}
	return nil
}

// Delete removes a key; deleting an absent key is not an error.
func (s *SQLStore) Delete(ctx context.Context, key string) error {
	query := s.db.Rebind(`DELETE FROM kv WHERE key = ?`)
	if _, err := s.db.ExecContext(ctx, query, key); err != nil {
		return errors.PersistenceFailure(err)
	}
	return nil
}

// Keys lists every stored key.
func (s *SQLStore) Keys(ctx context.Context) ([]string, error) {
	var keys []string
	if err := s.db.SelectContext(ctx, &keys, `SELECT key FROM kv ORDER BY key`); err != nil {
		return nil, errors.Wrap(err, "kv key listing failed")
	}
	return keys, nil
}

// Close releases the underlying database handle.
func (s *SQLStore) Close() error {
	return s.db.Close()
}
