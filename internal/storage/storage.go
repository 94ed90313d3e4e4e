// Package storage defines the key/value contract the session layer persists
// envelopes into. Backends live in sub-packages; keys are namespaced by the
// caller, so one backend can hold many independent session scopes.
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/crowdops/internal/common"
)

var (
	// ErrNotFound is returned by Get when the key holds no value.
	ErrNotFound = common.ErrorNotFound
	// ErrUnavailable is returned when the backend refuses the operation:
	// closed, disabled or out of space.
	ErrUnavailable = errors.New("storage unavailable")
	// ErrQuotaExceeded is returned when a write would exceed a size quota.
	ErrQuotaExceeded = fmt.Errorf("%w: quota exceeded", ErrUnavailable)
)

// Storage is a string key/value store with upsert semantics.
//
// Implementations must be safe for concurrent use. Writes are visible to
// reads issued after the write returns.
type Storage interface {
	// Get returns the value for key, or ErrNotFound.
	Get(ctx context.Context, key string) (string, error)
	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error
	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
	// Clear removes every key starting with prefix. An empty prefix clears
	// everything.
	Clear(ctx context.Context, prefix string) error
	// Close releases the backend.
	Close() error
}
