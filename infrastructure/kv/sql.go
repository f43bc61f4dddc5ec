package kv

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

const kvSchema = `
CREATE TABLE IF NOT EXISTS kv_entries (
	k TEXT PRIMARY KEY,
	v TEXT NOT NULL
)`

// SQL is a Store backed by a single key-value table. The default driver is
// "sqlite" (a local database file, like the device storage it replaces);
// "pgx" is supported for deployments that already run postgres.
type SQL struct {
	db *sqlx.DB
}

// OpenSQL connects with the given driver ("sqlite" or "pgx") and DSN and
// ensures the key-value table exists.
func OpenSQL(driver, dsn string) (*SQL, error) {
	db, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s store: %w", driver, err)
	}
	if _, err := db.Exec(kvSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate kv table: %w", err)
	}
	return &SQL{db: db}, nil
}

// Get returns the value for key.
func (s *SQL) Get(ctx context.Context, key string) (string, bool, error) {
	var v string
	query := s.db.Rebind("SELECT v FROM kv_entries WHERE k = ?")
	err := s.db.GetContext(ctx, &v, query, key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read key %q: %w", key, err)
	}
	return v, true, nil
}

// Set stores value under key.
func (s *SQL) Set(ctx context.Context, key, value string) error {
	query := s.db.Rebind(`
		INSERT INTO kv_entries (k, v) VALUES (?, ?)
		ON CONFLICT (k) DO UPDATE SET v = excluded.v`)
	if _, err := s.db.ExecContext(ctx, query, key, value); err != nil {
		return fmt.Errorf("failed to write key %q: %w", key, err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (s *SQL) Close() error {
	return s.db.Close()
}
