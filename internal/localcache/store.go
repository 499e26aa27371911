// Package localcache is the local snapshot layer. Every state slice the store
// container persists is mirrored here as a JSON blob keyed by its legacy
// storage key, so the service can hydrate and keep serving when the remote
// backend is unreachable.
package localcache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
)

// Snapshot keys. The names are carried over from the original storefront and
// must not change: operators inspect the cache file by these keys.
const (
	KeySettings   = "detalhes_settings"
	KeyProducts   = "detalhes_products"
	KeyAdminUsers = "detalhes_admin_users"
	KeyAnalytics  = "detalhes_analytics"
	KeyCart       = "detalhes_cart"
)

// ErrMiss is returned by Get when no snapshot exists under the key.
var ErrMiss = errors.New("localcache: key not found")

type cacheEntry struct {
	Key       string    `gorm:"column:key;primaryKey"`
	Value     string    `gorm:"column:value;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (cacheEntry) TableName() string { return "cache_entries" }

// Store is a SQLite-backed key/value snapshot store.
type Store struct {
	db *gorm.DB
}

// Open opens (or creates) the snapshot database at path. Pass
// "file::memory:?cache=shared" for an in-memory store.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("cache path is required")
	}

	gormLogger := gormlogger.New(
		log.New(io.Discard, "", log.LstdFlags),
		gormlogger.Config{LogLevel: gormlogger.Silent},
	)

	conn, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger:                 gormLogger,
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening snapshot db: %w", err)
	}

	if err := conn.AutoMigrate(&cacheEntry{}); err != nil {
		return nil, fmt.Errorf("migrating snapshot db: %w", err)
	}

	return &Store{db: conn}, nil
}

// Put marshals value and upserts it under key.
func (s *Store) Put(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshaling snapshot %q: %w", key, err)
	}

	entry := cacheEntry{Key: key, Value: string(raw), UpdatedAt: time.Now().UTC()}
	err = s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&entry).Error
	if err != nil {
		return fmt.Errorf("writing snapshot %q: %w", key, err)
	}
	return nil
}

// Get unmarshals the snapshot stored under key into dest. Returns ErrMiss
// when the key has never been written.
func (s *Store) Get(ctx context.Context, key string, dest any) error {
	var entry cacheEntry
	err := s.db.WithContext(ctx).First(&entry, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrMiss
	}
	if err != nil {
		return fmt.Errorf("reading snapshot %q: %w", key, err)
	}

	if err := json.Unmarshal([]byte(entry.Value), dest); err != nil {
		return fmt.Errorf("unmarshaling snapshot %q: %w", key, err)
	}
	return nil
}

// Delete drops the snapshot under key. Deleting a missing key is not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	return s.db.WithContext(ctx).Delete(&cacheEntry{}, "key = ?", key).Error
}

// Close releases the underlying connection.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
