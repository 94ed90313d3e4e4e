// Package memory is a volatile in-process storage backend. Its contents live
// exactly as long as the Storage value, which makes it the closest match to
// tab-scoped browser storage.
package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/dmitrijs2005/crowdops/internal/storage"
)

// Storage is a mutex-protected map with an optional byte quota.
type Storage struct {
	mu       sync.RWMutex
	data     map[string]string
	used     int
	maxBytes int
	closed   bool
}

// Option configures a Storage.
type Option func(*Storage)

// WithMaxBytes caps the summed length of keys and values. Zero disables
// the cap.
func WithMaxBytes(n int) Option {
	return func(s *Storage) { s.maxBytes = n }
}

func New(opts ...Option) *Storage {
	s := &Storage{data: make(map[string]string)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Storage) Get(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return "", storage.ErrUnavailable
	}
	v, ok := s.data[key]
	if !ok {
		return "", storage.ErrNotFound
	}
	return v, nil
}

func (s *Storage) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return storage.ErrUnavailable
	}

	used := s.used + len(key) + len(value)
	if old, ok := s.data[key]; ok {
		used -= len(key) + len(old)
	}
	if s.maxBytes > 0 && used > s.maxBytes {
		return storage.ErrQuotaExceeded
	}

	s.data[key] = value
	s.used = used
	return nil
}

func (s *Storage) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return storage.ErrUnavailable
	}
	s.remove(key)
	return nil
}

func (s *Storage) Clear(_ context.Context, prefix string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return storage.ErrUnavailable
	}
	for k := range s.data {
		if strings.HasPrefix(k, prefix) {
			s.remove(k)
		}
	}
	return nil
}

// remove must be called with mu held.
func (s *Storage) remove(key string) {
	if old, ok := s.data[key]; ok {
		s.used -= len(key) + len(old)
		delete(s.data, key)
	}
}

// Close drops every value; later calls fail with storage.ErrUnavailable.
func (s *Storage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	s.data = nil
	s.used = 0
	return nil
}

// Len reports the number of stored keys.
func (s *Storage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}
