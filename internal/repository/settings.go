package repository

import (
	"encoding/json"
	"fmt"

	"github.com/openfra/fieldsync/internal/models"
	"github.com/openfra/fieldsync/internal/store"
)

const settingsKey = "settings"

// SettingsRepository is the single-record user preference store.
type SettingsRepository struct {
	store *store.Store
}

// NewSettingsRepository binds the repository to an injected store handle.
func NewSettingsRepository(s *store.Store) *SettingsRepository {
	return &SettingsRepository{store: s}
}

// Save overwrites the settings record wholesale. No history is kept.
func (r *SettingsRepository) Save(settings models.Settings) error {
	data, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}
	return r.store.Set(settingsKey, data)
}

// Get returns the saved settings, or ErrNotFound when the user has never
// saved any.
func (r *SettingsRepository) Get() (*models.Settings, error) {
	data, err := r.store.Get(settingsKey)
	if err != nil {
		return nil, err
	}
	var settings models.Settings
	if err := json.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}
	return &settings, nil
}
