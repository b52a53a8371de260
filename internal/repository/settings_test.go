package repository_test

import (
	"testing"

	"github.com/openfra/fieldsync/internal/models"
	"github.com/openfra/fieldsync/internal/repository"
	"github.com/openfra/fieldsync/internal/store"
)

func TestSettingsSingleRecord(t *testing.T) {
	repo := repository.NewSettingsRepository(store.Open(setupTestDB(t), store.ScopeSettings))

	if _, err := repo.Get(); err != repository.ErrNotFound {
		t.Errorf("Expected ErrNotFound before first save, got %v", err)
	}

	if err := repo.Save(models.Settings{Language: "hi", AutoSync: true}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	settings, err := repo.Get()
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if settings.Language != "hi" || !settings.AutoSync {
		t.Error("Expected saved settings to round-trip")
	}

	// Overwritten wholesale, no merge
	if err := repo.Save(models.Settings{Language: "gon"}); err != nil {
		t.Fatalf("Second save failed: %v", err)
	}
	settings, err = repo.Get()
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if settings.Language != "gon" || settings.AutoSync {
		t.Error("Expected settings to be replaced, not merged")
	}
}
