// Package json implements a token store backed by a single JSON file.
// Every read goes to disk. Writes are atomic (temp file, fsync, rename) and
// serialized by an in-process lock.
package json

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/MahdiBaghbani/fieldscout-go/internal/platform/cfg"
	"github.com/MahdiBaghbani/fieldscout-go/internal/tokenstore"
)

func init() {
	tokenstore.Register("json", NewDriver)
}

// Options are read from [token_store.drivers.json].
type Options struct {
	// File is the file name inside the data dir.
	File string `mapstructure:"file"`
}

// ApplyDefaults fills unset options.
func (o *Options) ApplyDefaults() {
	if o.File == "" {
		o.File = "credentials.json"
	}
}

// Driver implements tokenstore.Store using one JSON object on disk.
// Every operation goes to the file, so values written by another handle or
// another process on the same data dir are seen on the next Get.
type Driver struct {
	path   string
	mu     sync.RWMutex
	closed bool
}

// NewDriver creates a new JSON driver instance.
func NewDriver(c *tokenstore.DriverConfig) (tokenstore.Store, error) {
	if c.DataDir == "" {
		return nil, fmt.Errorf("data_dir is required for json driver")
	}

	var opts Options
	if err := cfg.DecodeStrict(c.Options, &opts); err != nil {
		return nil, fmt.Errorf("invalid json driver options: %w", err)
	}

	return &Driver{
		path: filepath.Join(c.DataDir, opts.File),
	}, nil
}

// Name returns the driver name.
func (d *Driver) Name() string {
	return "json"
}

// Path returns the backing file path.
func (d *Driver) Path() string {
	return d.path
}

// Init creates the data directory and checks that an existing file decodes.
func (d *Driver) Init(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(d.path), 0700); err != nil {
		return fmt.Errorf("failed to create data dir: %w", err)
	}

	_, err := d.load()
	return err
}

// Close releases resources.
func (d *Driver) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	return nil
}

// Get reads the file and returns the value stored under key.
func (d *Driver) Get(ctx context.Context, key string) (string, bool, error) {
	if err := tokenstore.ValidateKey(key); err != nil {
		return "", false, err
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		return "", false, tokenstore.ErrClosed
	}
	values, err := d.load()
	if err != nil {
		return "", false, err
	}
	v, ok := values[key]
	return v, ok, nil
}

// Set stores value under key and persists the file.
func (d *Driver) Set(ctx context.Context, key, value string) error {
	if err := tokenstore.ValidateKey(key); err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return tokenstore.ErrClosed
	}

	values, err := d.load()
	if err != nil {
		return err
	}
	values[key] = value
	return d.save(values)
}

// Delete removes key and persists the file.
func (d *Driver) Delete(ctx context.Context, key string) error {
	if err := tokenstore.ValidateKey(key); err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return tokenstore.ErrClosed
	}

	values, err := d.load()
	if err != nil {
		return err
	}
	if _, ok := values[key]; !ok {
		return nil
	}
	delete(values, key)
	return d.save(values)
}

// load reads and decodes the file. A missing file is an empty store.
func (d *Driver) load() (map[string]string, error) {
	values := make(map[string]string)

	data, err := os.ReadFile(d.path)
	if err != nil {
		if os.IsNotExist(err) {
			return values, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", d.path, err)
	}

	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", d.path, err)
	}
	return values, nil
}

// save atomically writes values.
// Pattern: write to a unique temp file in the same dir, fsync, rename.
func (d *Driver) save(values map[string]string) error {
	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal values: %w", err)
	}

	f, err := os.CreateTemp(filepath.Dir(d.path), filepath.Base(d.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tempPath := f.Name()

	if err := f.Chmod(0600); err != nil {
		f.Close()
		os.Remove(tempPath)
		return fmt.Errorf("failed to chmod temp file: %w", err)
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tempPath)
		return fmt.Errorf("failed to write temp file: %w", err)
	}

	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tempPath)
		return fmt.Errorf("failed to sync temp file: %w", err)
	}

	if err := f.Close(); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tempPath, d.path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	return nil
}

var _ tokenstore.Store = (*Driver)(nil)
