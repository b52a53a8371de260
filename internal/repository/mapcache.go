package repository

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/openfra/fieldsync/internal/models"
	"github.com/openfra/fieldsync/internal/store"
)

// MapCacheRepository stores region-bounded vector tile bundles. Expiry is
// checked on read rather than by a background evictor.
type MapCacheRepository struct {
	store *store.Store
}

// NewMapCacheRepository binds the repository to an injected store handle.
func NewMapCacheRepository(s *store.Store) *MapCacheRepository {
	return &MapCacheRepository{store: s}
}

// Put writes a cache entry under the region key. Overwriting an expired
// entry is allowed.
func (r *MapCacheRepository) Put(regionKey string, entry models.MapCacheEntry) error {
	if entry.LastUpdated.IsZero() {
		entry.LastUpdated = time.Now().UTC()
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal map cache %s: %w", regionKey, err)
	}
	return r.store.Set(regionKey, data)
}

// Get returns the entry under the region key. An expired entry is
// logically absent and reported as ErrNotFound.
func (r *MapCacheRepository) Get(regionKey string) (*models.MapCacheEntry, error) {
	data, err := r.store.Get(regionKey)
	if err != nil {
		return nil, err
	}
	var entry models.MapCacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("unmarshal map cache %s: %w", regionKey, err)
	}
	if entry.Expired(time.Now().UTC()) {
		return nil, ErrNotFound
	}
	return &entry, nil
}
