package repository

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/openfra/fieldsync/internal/models"
	"github.com/openfra/fieldsync/internal/store"
)

// MediaRepository stores binary attachments keyed by id, independent of
// the claim lifecycle so claim records stay small.
type MediaRepository struct {
	store *store.Store
}

// NewMediaRepository binds the repository to an injected store handle.
func NewMediaRepository(s *store.Store) *MediaRepository {
	return &MediaRepository{store: s}
}

// MediaChecksum returns the sha256 hex fingerprint of a payload. Computed
// at capture time and carried on the claim's document entry.
func MediaChecksum(payload []byte) string {
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}

// Save writes a binary payload under id, overwriting any previous payload.
func (r *MediaRepository) Save(id string, payload []byte, mediaType string) error {
	media := models.Media{
		ID:      id,
		Type:    mediaType,
		Data:    payload,
		SavedAt: time.Now().UTC(),
	}
	data, err := json.Marshal(media)
	if err != nil {
		return fmt.Errorf("marshal media %s: %w", id, err)
	}
	return r.store.Set(id, data)
}

// Get returns the media stored under id, or ErrNotFound.
func (r *MediaRepository) Get(id string) (*models.Media, error) {
	data, err := r.store.Get(id)
	if err != nil {
		return nil, err
	}
	var media models.Media
	if err := json.Unmarshal(data, &media); err != nil {
		return nil, fmt.Errorf("unmarshal media %s: %w", id, err)
	}
	return &media, nil
}

// Delete removes the media under id.
func (r *MediaRepository) Delete(id string) error {
	return r.store.Remove(id)
}
