// Package factory opens the storage backend named in configuration.
package factory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/crowdops/internal/storage"
	"github.com/dmitrijs2005/crowdops/internal/storage/memory"
	"github.com/dmitrijs2005/crowdops/internal/storage/postgres"
	"github.com/dmitrijs2005/crowdops/internal/storage/redisstore"
	"github.com/dmitrijs2005/crowdops/internal/storage/sqlite"
	"github.com/redis/go-redis/v9"
)

// Backend names accepted by Open.
const (
	BackendMemory   = "memory"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

var ErrUnknownBackend = errors.New("unknown storage backend")

// Options selects and configures a backend. Only the fields of the chosen
// backend are read.
type Options struct {
	Backend string

	MemoryMaxBytes int

	SQLiteDSN   string
	PostgresDSN string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string

	// TTL bounds the lifetime of every slot on backends that support expiry.
	TTL time.Duration
}

// ValidBackend reports whether name is a known backend.
func ValidBackend(name string) bool {
	switch name {
	case BackendMemory, BackendSQLite, BackendPostgres, BackendRedis:
		return true
	}
	return false
}

// Open builds the backend described by opts.
func Open(ctx context.Context, opts Options) (storage.Storage, error) {
	switch opts.Backend {
	case BackendMemory, "":
		return memory.New(memory.WithMaxBytes(opts.MemoryMaxBytes)), nil
	case BackendSQLite:
		return sqlite.Open(ctx, opts.SQLiteDSN)
	case BackendPostgres:
		return postgres.Open(ctx, opts.PostgresDSN)
	case BackendRedis:
		return redisstore.Open(ctx, &redis.Options{
			Addr:     opts.RedisAddr,
			Password: opts.RedisPassword,
			DB:       opts.RedisDB,
		}, opts.RedisPrefix, opts.TTL)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, opts.Backend)
}
