// Package tokenstore provides local persistent storage for the bearer
// credential and a registry of storage drivers.
package tokenstore

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
)

//go:generate mockgen -source=store.go -destination=store_mock.go -package=tokenstore

// AccessTokenKey is the fixed key the login flow writes the bearer token under.
const AccessTokenKey = "access_token"

// Common errors for store operations.
var (
	ErrClosed     = errors.New("token store closed")
	ErrInvalidKey = errors.New("invalid key")
)

// Reader reads a stored value. A missing key is reported with ok == false
// and a nil error.
type Reader interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
}

// Writer writes and removes stored values. Deleting a missing key is not
// an error.
type Writer interface {
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Store is a storage driver. Implementations must be safe for concurrent use.
type Store interface {
	Reader
	Writer

	// Init prepares the backing storage (create files, tables).
	Init(ctx context.Context) error

	// Close releases resources held by the driver.
	Close() error

	// Name returns the driver name (memory, json, sqlite).
	Name() string
}

// DriverConfig holds configuration for driver selection and initialization.
type DriverConfig struct {
	// Driver is the driver name: memory, json, sqlite
	Driver string

	// DataDir is the directory for data files (json file, sqlite db)
	DataDir string

	// Options holds driver-specific settings from [token_store.drivers.<name>].
	Options map[string]any
}

// DriverFactory creates a driver instance.
type DriverFactory func(cfg *DriverConfig) (Store, error)

var (
	driversMu sync.RWMutex
	drivers   = make(map[string]DriverFactory)
)

// Register registers a driver factory by name.
// This is typically called from init() in driver packages.
func Register(name string, factory DriverFactory) {
	driversMu.Lock()
	defer driversMu.Unlock()
	drivers[name] = factory
}

// New creates a driver instance based on the configuration. The returned
// store still needs Init.
func New(cfg *DriverConfig) (Store, error) {
	driversMu.RLock()
	factory, ok := drivers[cfg.Driver]
	driversMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("unknown token store driver: %s", cfg.Driver)
	}

	return factory(cfg)
}

// Open creates and initializes a driver.
func Open(ctx context.Context, cfg *DriverConfig) (Store, error) {
	s, err := New(cfg)
	if err != nil {
		return nil, err
	}
	if err := s.Init(ctx); err != nil {
		return nil, fmt.Errorf("failed to init %s token store: %w", cfg.Driver, err)
	}
	return s, nil
}

// AvailableDrivers returns the registered driver names, sorted.
func AvailableDrivers() []string {
	driversMu.RLock()
	defer driversMu.RUnlock()

	names := make([]string, 0, len(drivers))
	for name := range drivers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ValidateKey rejects the empty key.
func ValidateKey(key string) error {
	if key == "" {
		return fmt.Errorf("%w: key must not be empty", ErrInvalidKey)
	}
	return nil
}
