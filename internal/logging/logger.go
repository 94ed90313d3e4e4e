// Package logging defines the structured-logging interface used across
// crowdops and its slog and zap implementations.
package logging

import (
	"context"
	"fmt"
)

// Logger is a context-aware, structured logger.
//
// The variadic args are interpreted as key–value pairs, e.g.:
//
//	log.Error(ctx, "token store failed", "slot", slot, "err", err)
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given key–value pairs.
	With(args ...any) Logger
}

type nopLogger struct{}

// Nop returns a Logger that discards everything.
func Nop() Logger { return nopLogger{} }

func (nopLogger) Debug(context.Context, string, ...any) {}
func (nopLogger) Info(context.Context, string, ...any)  {}
func (nopLogger) Warn(context.Context, string, ...any)  {}
func (nopLogger) Error(context.Context, string, ...any) {}
func (n nopLogger) With(...any) Logger                  { return n }

// Backend names accepted in Options.Backend.
const (
	BackendZap  = "zap"
	BackendSlog = "slog"
)

// ValidBackend reports whether name selects a known logger backend.
func ValidBackend(name string) bool {
	switch name {
	case "", BackendZap, BackendSlog:
		return true
	}
	return false
}

// Build creates the logger selected by opts.Backend. Loggers that buffer
// output also implement Sync() error.
func Build(opts Options) (Logger, error) {
	switch opts.Backend {
	case "", BackendZap:
		zl, err := New(opts)
		if err != nil {
			return nil, err
		}
		return zl, nil
	case BackendSlog:
		sl, err := NewSlog(opts)
		if err != nil {
			return nil, err
		}
		return sl, nil
	}
	return nil, fmt.Errorf("unknown log backend %q", opts.Backend)
}
