package store_test

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/openfra/fieldsync/internal/store"
	"gorm.io/gorm"
)

// setupTestDB creates an in-memory SQLite database for testing
func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	if err := db.AutoMigrate(&store.Record{}); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	return db
}

func TestSetGetRemove(t *testing.T) {
	db := setupTestDB(t)
	s := store.Open(db, store.ScopeClaims)

	if _, err := s.Get("missing"); err != store.ErrNotFound {
		t.Errorf("Expected ErrNotFound for missing key, got %v", err)
	}

	if err := s.Set("k1", []byte(`{"a":1}`)); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	value, err := s.Get("k1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !bytes.Equal(value, []byte(`{"a":1}`)) {
		t.Errorf("Expected stored value, got %s", value)
	}

	if err := s.Remove("k1"); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if _, err := s.Get("k1"); err != store.ErrNotFound {
		t.Errorf("Expected ErrNotFound after remove, got %v", err)
	}

	// Removing an absent key is not an error
	if err := s.Remove("k1"); err != nil {
		t.Errorf("Remove of absent key failed: %v", err)
	}
}

func TestSetOverwrites(t *testing.T) {
	db := setupTestDB(t)
	s := store.Open(db, store.ScopeClaims)

	if err := s.Set("k1", []byte(`{"v":1}`)); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := s.Set("k1", []byte(`{"v":2}`)); err != nil {
		t.Fatalf("Second set failed: %v", err)
	}

	value, err := s.Get("k1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !bytes.Equal(value, []byte(`{"v":2}`)) {
		t.Errorf("Expected overwritten value, got %s", value)
	}

	count := 0
	err = s.Iterate(func(key string, value []byte) error {
		count++
		return nil
	})
	if err != nil {
		t.Fatalf("Iterate failed: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected exactly one record after overwrite, got %d", count)
	}
}

func TestScopeIsolation(t *testing.T) {
	db := setupTestDB(t)
	claims := store.Open(db, store.ScopeClaims)
	media := store.Open(db, store.ScopeMedia)

	if err := claims.Set("shared-key", []byte(`"claims"`)); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := media.Set("shared-key", []byte(`"media"`)); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	cv, err := claims.Get("shared-key")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(cv) != `"claims"` {
		t.Errorf("Claims scope returned wrong value: %s", cv)
	}

	if err := claims.Remove("shared-key"); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if _, err := media.Get("shared-key"); err != nil {
		t.Errorf("Media scope affected by claims remove: %v", err)
	}

	// Iteration never crosses scopes
	var visited []string
	err = media.Iterate(func(key string, value []byte) error {
		visited = append(visited, key)
		return nil
	})
	if err != nil {
		t.Fatalf("Iterate failed: %v", err)
	}
	if len(visited) != 1 || visited[0] != "shared-key" {
		t.Errorf("Expected only media keys, got %v", visited)
	}
}

func TestIterateStableOrder(t *testing.T) {
	db := setupTestDB(t)
	s := store.Open(db, store.ScopeMaps)

	for _, key := range []string{"b", "c", "a"} {
		if err := s.Set(key, []byte(`{}`)); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
	}

	var keys []string
	err := s.Iterate(func(key string, value []byte) error {
		keys = append(keys, key)
		return nil
	})
	if err != nil {
		t.Fatalf("Iterate failed: %v", err)
	}
	expected := []string{"a", "b", "c"}
	for i, key := range expected {
		if keys[i] != key {
			t.Fatalf("Expected order %v, got %v", expected, keys)
		}
	}
}

func TestDurabilityAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.db")

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	if err := db.AutoMigrate(&store.Record{}); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}
	if err := store.Open(db, store.ScopeSettings).Set("settings", []byte(`{"language":"hi"}`)); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	sqlDB, _ := db.DB()
	sqlDB.Close()

	// Reopen the same file, data must survive
	db2, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to reopen database: %v", err)
	}
	value, err := store.Open(db2, store.ScopeSettings).Get("settings")
	if err != nil {
		t.Fatalf("Get after reopen failed: %v", err)
	}
	if string(value) != `{"language":"hi"}` {
		t.Errorf("Expected persisted value, got %s", value)
	}
}
