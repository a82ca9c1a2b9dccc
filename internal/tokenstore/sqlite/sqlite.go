// Package sqlite implements a SQLite-backed token store using GORM.
package sqlite

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/MahdiBaghbani/fieldscout-go/internal/platform/cfg"
	"github.com/MahdiBaghbani/fieldscout-go/internal/tokenstore"
)

func init() {
	tokenstore.Register("sqlite", NewDriver)
}

// Options are read from [token_store.drivers.sqlite].
type Options struct {
	// File is the database file name inside the data dir.
	File string `mapstructure:"file"`

	// BusyTimeout is how long SQLite waits on a locked database.
	BusyTimeout time.Duration `mapstructure:"busy_timeout"`
}

// ApplyDefaults fills unset options.
func (o *Options) ApplyDefaults() {
	if o.File == "" {
		o.File = "credentials.db"
	}
	if o.BusyTimeout == 0 {
		o.BusyTimeout = 5 * time.Second
	}
}

// Credential is one stored key/value row.
type Credential struct {
	Name      string `gorm:"primaryKey"`
	Value     string
	UpdatedAt int64 `gorm:"autoUpdateTime"`
}

// Driver implements tokenstore.Store using SQLite via GORM.
type Driver struct {
	path string
	opts Options

	mu sync.RWMutex
	db *gorm.DB
}

// NewDriver creates a new SQLite driver instance.
func NewDriver(c *tokenstore.DriverConfig) (tokenstore.Store, error) {
	if c.DataDir == "" {
		return nil, fmt.Errorf("data_dir is required for sqlite driver")
	}

	var opts Options
	if err := cfg.DecodeStrict(c.Options, &opts); err != nil {
		return nil, fmt.Errorf("invalid sqlite driver options: %w", err)
	}

	return &Driver{
		path: filepath.Join(c.DataDir, opts.File),
		opts: opts,
	}, nil
}

// Name returns the driver name.
func (d *Driver) Name() string {
	return "sqlite"
}

// Init opens the database and runs AutoMigrate.
func (d *Driver) Init(ctx context.Context) error {
	if err := os.MkdirAll(filepath.Dir(d.path), 0700); err != nil {
		return fmt.Errorf("failed to create data dir: %w", err)
	}

	dsn := fmt.Sprintf("%s?_busy_timeout=%d", d.path, d.opts.BusyTimeout.Milliseconds())

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.WithContext(ctx).AutoMigrate(&Credential{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	d.mu.Lock()
	d.db = db
	d.mu.Unlock()

	return nil
}

// Close closes the database connection.
func (d *Driver) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.db == nil {
		return nil
	}
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	d.db = nil
	return sqlDB.Close()
}

func (d *Driver) conn() (*gorm.DB, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.db == nil {
		return nil, tokenstore.ErrClosed
	}
	return d.db, nil
}

// Get returns the value stored under key.
func (d *Driver) Get(ctx context.Context, key string) (string, bool, error) {
	if err := tokenstore.ValidateKey(key); err != nil {
		return "", false, err
	}
	db, err := d.conn()
	if err != nil {
		return "", false, err
	}

	var row Credential
	result := db.WithContext(ctx).First(&row, "name = ?", key)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, result.Error
	}
	return row.Value, true, nil
}

// Set upserts value under key.
func (d *Driver) Set(ctx context.Context, key, value string) error {
	if err := tokenstore.ValidateKey(key); err != nil {
		return err
	}
	db, err := d.conn()
	if err != nil {
		return err
	}

	row := Credential{Name: key, Value: value}
	return db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&row).Error
}

// Delete removes key.
func (d *Driver) Delete(ctx context.Context, key string) error {
	if err := tokenstore.ValidateKey(key); err != nil {
		return err
	}
	db, err := d.conn()
	if err != nil {
		return err
	}

	return db.WithContext(ctx).Delete(&Credential{}, "name = ?", key).Error
}

var _ tokenstore.Store = (*Driver)(nil)
