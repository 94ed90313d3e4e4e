// Package sqlite stores session slots in an SQLite database through the
// pure-Go modernc driver. The default DSN is an in-memory database, so slots
// vanish with the process.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/crowdops/internal/dbx"
	"github.com/dmitrijs2005/crowdops/internal/filex"
	"github.com/dmitrijs2005/crowdops/internal/storage"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"
)

// DefaultDSN keeps the database in memory.
const DefaultDSN = ":memory:"

//go:embed migrations/*.sql
var migrations embed.FS

// RunMigrations applies the embedded goose migrations to db.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	return goose.UpContext(ctx, db, "migrations")
}

// Storage implements storage.Storage over the session_slots table.
type Storage struct {
	db     dbx.DBTX
	closer func() error
}

// NewStorage binds a Storage to an already migrated database handle.
func NewStorage(db dbx.DBTX) *Storage {
	return &Storage{db: db}
}

// Open opens dsn, migrates it and returns a Storage that owns the handle.
// The pool is pinned to one connection: every new connection to ":memory:"
// would otherwise see its own empty database.
func Open(ctx context.Context, dsn string) (*Storage, error) {
	if dsn == "" {
		dsn = DefaultDSN
	}

	if path := dbFile(dsn); path != "" {
		if _, err := filex.EnsureParentDir(path); err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate sqlite: %w", err)
	}

	s := NewStorage(db)
	s.closer = db.Close
	return s, nil
}

// dbFile returns the on-disk path named by dsn, or "" for in-memory databases.
func dbFile(dsn string) string {
	path, query, _ := strings.Cut(strings.TrimPrefix(dsn, "file:"), "?")
	if path == "" || path == DefaultDSN || strings.Contains(query, "mode=memory") {
		return ""
	}
	return path
}

func (s *Storage) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM session_slots WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", storage.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to get slot[%s]: %w", key, err)
	}
	return value, nil
}

func (s *Storage) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO session_slots (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to set slot[%s]: %w", key, err)
	}
	return nil
}

func (s *Storage) Delete(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM session_slots WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("failed to delete slot[%s]: %w", key, err)
	}
	return nil
}

func (s *Storage) Clear(ctx context.Context, prefix string) error {
	var err error
	if prefix == "" {
		_, err = s.db.ExecContext(ctx, `DELETE FROM session_slots`)
	} else {
		_, err = s.db.ExecContext(ctx, `DELETE FROM session_slots WHERE substr(key, 1, length(?)) = ?`, prefix, prefix)
	}
	if err != nil {
		return fmt.Errorf("failed to clear slots[%s]: %w", prefix, err)
	}
	return nil
}

// Close closes the database when the Storage was created by Open.
func (s *Storage) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer()
}
