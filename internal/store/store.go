package store

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Scope names for the four independent storage domains. Each scope is a
// flat key -> value mapping; ordering and filtering are done by the
// repository layer after a full scan.
const (
	ScopeClaims   = "claims"
	ScopeMedia    = "media"
	ScopeMaps     = "maps"
	ScopeSettings = "settings"
)

// ErrNotFound is returned by Get when no record exists under the key.
var ErrNotFound = errors.New("not found")

// Record is the row backing every scoped store. Scope and Key form the
// composite primary key, so no two scopes can collide.
type Record struct {
	Scope     string `gorm:"primaryKey;size:32;not null"`
	Key       string `gorm:"primaryKey;size:255;not null;column:record_key"`
	Value     JSON   `gorm:"not null"`
	UpdatedAt time.Time
}

// TableName overrides the table name for Record
func (Record) TableName() string {
	return "store_records"
}

// Store is a durable key/value namespace bound to a single scope.
// Instances over different scopes are fully isolated: no key collisions,
// no shared iteration.
type Store struct {
	db    *gorm.DB
	scope string
}

// Open binds a store instance to one scope of the shared database.
func Open(db *gorm.DB, scope string) *Store {
	return &Store{db: db, scope: scope}
}

// Scope returns the storage domain this instance is bound to.
func (s *Store) Scope() string {
	return s.scope
}

// Get returns the value stored under key, or ErrNotFound.
func (s *Store) Get(key string) ([]byte, error) {
	var rec Record
	err := s.db.Where("scope = ? AND record_key = ?", s.scope, key).First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("store %s: get %q: %w", s.scope, key, err)
	}
	return []byte(rec.Value.JSON), nil
}

// Set durably writes value under key, overwriting any previous value.
// Storage-I/O failures (medium full, permission denied) are returned to
// the caller, never swallowed.
func (s *Store) Set(key string, value []byte) error {
	rec := Record{
		Scope:     s.scope,
		Key:       key,
		Value:     JSON{JSON: datatypes.JSON(value)},
		UpdatedAt: time.Now().UTC(),
	}
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "scope"}, {Name: "record_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&rec).Error
	if err != nil {
		return fmt.Errorf("store %s: set %q: %w", s.scope, key, err)
	}
	return nil
}

// Remove deletes the record under key. Removing an absent key is not an
// error.
func (s *Store) Remove(key string) error {
	err := s.db.Where("scope = ? AND record_key = ?", s.scope, key).Delete(&Record{}).Error
	if err != nil {
		return fmt.Errorf("store %s: remove %q: %w", s.scope, key, err)
	}
	return nil
}

// Iterate visits every value in this scope in key-ascending order. The
// visitor's error stops the iteration and is returned as-is.
func (s *Store) Iterate(visit func(key string, value []byte) error) error {
	var recs []Record
	err := s.db.Where("scope = ?", s.scope).Order("record_key ASC").Find(&recs).Error
	if err != nil {
		return fmt.Errorf("store %s: iterate: %w", s.scope, err)
	}
	for _, rec := range recs {
		if err := visit(rec.Key, []byte(rec.Value.JSON)); err != nil {
			return err
		}
	}
	return nil
}
