package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/openfra/fieldsync/internal/models"
	"github.com/openfra/fieldsync/internal/store"
)

// ErrNotFound is returned when an entity is absent from its store.
var ErrNotFound = store.ErrNotFound

// ClaimRepository provides typed access to the claims scope. It owns the
// entity shape, id generation, and recency ordering.
type ClaimRepository struct {
	store *store.Store
}

// NewClaimRepository binds the repository to an injected store handle.
func NewClaimRepository(s *store.Store) *ClaimRepository {
	return &ClaimRepository{store: s}
}

// NewClaimID generates a device-local claim identifier.
func NewClaimID() string {
	suffix := strings.SplitN(uuid.NewString(), "-", 2)[0]
	return fmt.Sprintf("claim_%d_%s", time.Now().UnixMilli(), suffix)
}

// Save persists a claim, generating an id when none is given and merging
// unset fields over defaults. Saving twice with the same id overwrites.
// LastModified is stamped on every write and strictly increases.
func (r *ClaimRepository) Save(claim models.Claim) (string, error) {
	now := time.Now().UTC()

	if claim.ID == "" {
		claim.ID = NewClaimID()
	} else if existing, err := r.Get(claim.ID); err == nil {
		if claim.CreatedAt.IsZero() {
			claim.CreatedAt = existing.CreatedAt
		}
		if claim.LocalID == "" {
			claim.LocalID = existing.LocalID
		}
		if !now.After(existing.LastModified) {
			now = existing.LastModified.Add(time.Microsecond)
		}
	} else if !errors.Is(err, ErrNotFound) {
		return "", err
	}

	if claim.LocalID == "" {
		claim.LocalID = claim.ID
	}
	if claim.Status == "" {
		claim.Status = models.StatusDraft
	}
	if claim.CreatedAt.IsZero() {
		claim.CreatedAt = now
	}
	claim.LastModified = now

	data, err := json.Marshal(claim)
	if err != nil {
		return "", fmt.Errorf("marshal claim %s: %w", claim.ID, err)
	}
	if err := r.store.Set(claim.ID, data); err != nil {
		return "", err
	}
	return claim.ID, nil
}

// Get returns the claim stored under id, or ErrNotFound.
func (r *ClaimRepository) Get(id string) (*models.Claim, error) {
	data, err := r.store.Get(id)
	if err != nil {
		return nil, err
	}
	var claim models.Claim
	if err := json.Unmarshal(data, &claim); err != nil {
		return nil, fmt.Errorf("unmarshal claim %s: %w", id, err)
	}
	return &claim, nil
}

// ListAll returns every claim ordered by LastModified descending. The
// ordering is a contract: the UI and the sync coordinator both depend on
// recency-first.
func (r *ClaimRepository) ListAll() ([]models.Claim, error) {
	var claims []models.Claim
	err := r.store.Iterate(func(key string, value []byte) error {
		var claim models.Claim
		if err := json.Unmarshal(value, &claim); err != nil {
			return fmt.Errorf("unmarshal claim %s: %w", key, err)
		}
		claims = append(claims, claim)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(claims, func(i, j int) bool {
		if claims[i].LastModified.Equal(claims[j].LastModified) {
			return claims[i].ID > claims[j].ID
		}
		return claims[i].LastModified.After(claims[j].LastModified)
	})
	return claims, nil
}

// Delete removes the claim under id. Referenced media is left in place;
// purging it is the caller's decision.
func (r *ClaimRepository) Delete(id string) error {
	return r.store.Remove(id)
}
