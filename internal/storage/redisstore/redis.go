// Package redisstore keeps session slots in Redis. Every key carries the
// configured TTL, so an abandoned scope expires on its own the way a closed
// browser tab drops its session storage.
package redisstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/crowdops/internal/storage"
	"github.com/redis/go-redis/v9"
)

const (
	defaultPrefix = "crowdops:session"
	scanBatch     = 100
)

// Storage implements storage.Storage on top of a Redis client.
type Storage struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// New wraps client. An empty prefix selects "crowdops:session"; a zero ttl
// stores keys without expiry.
func New(client *redis.Client, prefix string, ttl time.Duration) *Storage {
	if prefix == "" {
		prefix = defaultPrefix
	}
	return &Storage{client: client, prefix: prefix, ttl: ttl}
}

// Open dials addr and verifies the connection with PING.
func Open(ctx context.Context, opts *redis.Options, prefix string, ttl time.Duration) (*Storage, error) {
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("%w: ping redis: %v", storage.ErrUnavailable, err)
	}
	return New(client, prefix, ttl), nil
}

func (s *Storage) key(k string) string {
	return s.prefix + ":" + k
}

func (s *Storage) Get(ctx context.Context, key string) (string, error) {
	v, err := s.client.Get(ctx, s.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", storage.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to get slot[%s]: %w", key, err)
	}
	return v, nil
}

func (s *Storage) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, s.key(key), value, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set slot[%s]: %w", key, err)
	}
	return nil
}

func (s *Storage) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("failed to delete slot[%s]: %w", key, err)
	}
	return nil
}

// Clear collects every matching key with SCAN before deleting any of them.
// Deleting while scanning lets the keyspace shift under the cursor and
// skip keys.
func (s *Storage) Clear(ctx context.Context, prefix string) error {
	match := storage.GlobEscape(s.key(prefix)) + "*"

	var keys []string
	var cursor uint64
	for {
		page, next, err := s.client.Scan(ctx, cursor, match, scanBatch).Result()
		if err != nil {
			return fmt.Errorf("failed to clear slots[%s]: %w", prefix, err)
		}
		keys = append(keys, page...)
		if next == 0 {
			break
		}
		cursor = next
	}

	for start := 0; start < len(keys); start += scanBatch {
		end := min(start+scanBatch, len(keys))
		if err := s.client.Del(ctx, keys[start:end]...).Err(); err != nil {
			return fmt.Errorf("failed to clear slots[%s]: %w", prefix, err)
		}
	}
	return nil
}

func (s *Storage) Close() error {
	return s.client.Close()
}
