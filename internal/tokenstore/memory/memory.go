// Package memory provides an in-process token store. Values do not survive
// a restart.
package memory

import (
	"context"
	"sync"

	"github.com/MahdiBaghbani/fieldscout-go/internal/tokenstore"
)

func init() {
	tokenstore.Register("memory", func(cfg *tokenstore.DriverConfig) (tokenstore.Store, error) {
		return New(), nil
	})
}

// Store is a map guarded by a RWMutex.
type Store struct {
	mu     sync.RWMutex
	values map[string]string
	closed bool
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{values: make(map[string]string)}
}

// Name returns the driver name.
func (s *Store) Name() string { return "memory" }

// Init is a no-op for the memory driver.
func (s *Store) Init(ctx context.Context) error { return nil }

// Get returns the value stored under key.
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	if err := tokenstore.ValidateKey(key); err != nil {
		return "", false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return "", false, tokenstore.ErrClosed
	}
	v, ok := s.values[key]
	return v, ok, nil
}

// Set stores value under key, replacing any previous value.
func (s *Store) Set(ctx context.Context, key, value string) error {
	if err := tokenstore.ValidateKey(key); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return tokenstore.ErrClosed
	}
	s.values[key] = value
	return nil
}

// Delete removes key.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := tokenstore.ValidateKey(key); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return tokenstore.ErrClosed
	}
	delete(s.values, key)
	return nil
}

// Close marks the store closed.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

var _ tokenstore.Store = (*Store)(nil)
