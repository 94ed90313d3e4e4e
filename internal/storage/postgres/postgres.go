// Package postgres stores session slots in PostgreSQL through the pgx
// database/sql driver. Use it when several portal processes must observe
// the same scope.
package postgres

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/crowdops/internal/dbx"
	"github.com/dmitrijs2005/crowdops/internal/storage"
	"github.com/pressly/goose/v3"

	_ "github.com/jackc/pgx/v5/stdlib"
)

//go:embed migrations/*.sql
var migrations embed.FS

// RunMigrations applies the embedded goose migrations to db.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	return goose.UpContext(ctx, db, "migrations")
}

// Storage implements storage.Storage over dbx.DBTX
// (satisfied by *sql.DB or *sql.Tx).
type Storage struct {
	db     dbx.DBTX
	closer func() error
}

// NewStorage constructs a Storage bound to the given DBTX.
func NewStorage(db dbx.DBTX) *Storage {
	return &Storage{db: db}
}

// Open connects to dsn, checks connectivity, migrates and returns a Storage
// that owns the pool.
func Open(ctx context.Context, dsn string) (*Storage, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: ping postgres: %v", storage.ErrUnavailable, err)
	}
	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate postgres: %w", err)
	}

	s := NewStorage(db)
	s.closer = db.Close
	return s, nil
}

// Get returns the slot value for key. If not found, it returns storage.ErrNotFound.
func (s *Storage) Get(ctx context.Context, key string) (string, error) {
	query := `
		SELECT value
		FROM session_slots
		WHERE key = $1
	`
	var value string
	if err := s.db.QueryRowContext(ctx, query, key).Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", storage.ErrNotFound
		}
		return "", fmt.Errorf("failed to get slot[%s]: %w", key, err)
	}
	return value, nil
}

// Set upserts the slot value for key.
func (s *Storage) Set(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO session_slots (key, value, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
	`
	if _, err := s.db.ExecContext(ctx, query, key, value); err != nil {
		return fmt.Errorf("failed to set slot[%s]: %w", key, err)
	}
	return nil
}

// Delete removes the slot for key.
func (s *Storage) Delete(ctx context.Context, key string) error {
	query := `
		DELETE FROM session_slots
		WHERE key = $1
	`
	if _, err := s.db.ExecContext(ctx, query, key); err != nil {
		return fmt.Errorf("failed to delete slot[%s]: %w", key, err)
	}
	return nil
}

// Clear removes every slot whose key starts with prefix.
func (s *Storage) Clear(ctx context.Context, prefix string) error {
	var err error
	if prefix == "" {
		_, err = s.db.ExecContext(ctx, `DELETE FROM session_slots`)
	} else {
		_, err = s.db.ExecContext(ctx, `DELETE FROM session_slots WHERE starts_with(key, $1)`, prefix)
	}
	if err != nil {
		return fmt.Errorf("failed to clear slots[%s]: %w", prefix, err)
	}
	return nil
}

// Close closes the pool when the Storage was created by Open.
func (s *Storage) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer()
}
