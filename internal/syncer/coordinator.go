// Package syncer drives the claim lifecycle state machine: it selects
// eligible claims, assembles their submission payloads, calls the remote
// contract, and applies the resulting transition.
package syncer

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync/atomic"

	"github.com/openfra/fieldsync/internal/models"
	"github.com/openfra/fieldsync/internal/remote"
	"github.com/openfra/fieldsync/internal/repository"
)

// ErrSyncInProgress is returned when a sync invocation overlaps a running
// one. The coordinator holds a single permit; the caller should defer to
// the run already in flight.
var ErrSyncInProgress = errors.New("sync already in progress")

// Report summarizes one coordinator run.
type Report struct {
	Attempted int `json:"attempted"`
	Synced    int `json:"synced"`
	Failed    int `json:"failed"`
	Skipped   int `json:"skipped"`
}

// Coordinator processes eligible claims strictly one at a time, in
// recency order, so a batch completes deterministically and a single
// claim's failure never aborts the rest.
type Coordinator struct {
	claims    *repository.ClaimRepository
	media     *repository.MediaRepository
	submitter remote.Submitter

	// maxAttempts caps retries per claim when > 0; 0 retries without bound.
	maxAttempts int

	running atomic.Bool
}

// New constructs a coordinator with injected repositories and submitter.
func New(claims *repository.ClaimRepository, media *repository.MediaRepository, submitter remote.Submitter, maxAttempts int) *Coordinator {
	return &Coordinator{
		claims:      claims,
		media:       media,
		submitter:   submitter,
		maxAttempts: maxAttempts,
	}
}

// Running reports whether a sync run is in flight.
func (c *Coordinator) Running() bool {
	return c.running.Load()
}

// Sync scans for eligible claims and submits them sequentially. Invoked
// on every reconnect edge and on demand. Overlapping invocations get
// ErrSyncInProgress.
func (c *Coordinator) Sync(ctx context.Context) (*Report, error) {
	if !c.running.CompareAndSwap(false, true) {
		return nil, ErrSyncInProgress
	}
	defer c.running.Store(false)

	all, err := c.claims.ListAll()
	if err != nil {
		return nil, fmt.Errorf("sync: list claims: %w", err)
	}

	report := &Report{}
	for _, claim := range all {
		select {
		case <-ctx.Done():
			return report, ctx.Err()
		default:
		}

		if !c.eligible(&claim) {
			continue
		}
		if c.maxAttempts > 0 && claim.SyncAttempts >= c.maxAttempts {
			report.Skipped++
			log.Printf("Sync: claim %s skipped after %d attempts", claim.ID, claim.SyncAttempts)
			continue
		}

		report.Attempted++
		if err := c.syncOne(ctx, claim); err != nil {
			report.Failed++
			log.Printf("Sync: claim %s failed: %v", claim.ID, err)
			continue
		}
		report.Synced++
	}
	return report, nil
}

// eligible selects claims awaiting submission. A claim found in syncing
// state here is a crash leftover from an abandoned run (we hold the only
// permit), so it is resumed rather than trusted as submitted.
func (c *Coordinator) eligible(claim *models.Claim) bool {
	switch claim.Status {
	case models.StatusReady, models.StatusFailed, models.StatusSyncing:
		return true
	}
	return false
}

func (c *Coordinator) syncOne(ctx context.Context, claim models.Claim) error {
	// Persist the syncing state first so a crash mid-submission is
	// observable and resumable.
	claim.Status = models.StatusSyncing
	if _, err := c.claims.Save(claim); err != nil {
		return fmt.Errorf("mark syncing: %w", err)
	}

	sub, err := c.assemble(claim)
	if err != nil {
		// Integrity failure: never submit a corrupt payload.
		c.markFailed(claim, err)
		return err
	}

	result, err := c.submitter.Submit(ctx, sub)
	if err != nil {
		c.markFailed(claim, err)
		return err
	}

	return c.markSynced(claim, result.ClaimID)
}

// assemble builds the submission payload: the claim's structured block
// plus every referenced document and audio binary. Missing media, an
// absent checksum, or a fingerprint mismatch aborts this claim's attempt.
func (c *Coordinator) assemble(claim models.Claim) (*remote.Submission, error) {
	sub := &remote.Submission{Claim: claim}

	for _, doc := range claim.Documents {
		if doc.Checksum == "" {
			return nil, fmt.Errorf("document %s: missing checksum", doc.ID)
		}
		media, err := c.media.Get(doc.ID)
		if err != nil {
			return nil, fmt.Errorf("document %s: %w", doc.ID, err)
		}
		if repository.MediaChecksum(media.Data) != doc.Checksum {
			return nil, fmt.Errorf("document %s: checksum mismatch", doc.ID)
		}
		sub.Documents = append(sub.Documents, remote.DocumentPart{
			Filename: doc.Filename,
			Data:     media.Data,
		})
	}

	for _, rec := range claim.AudioRecordings {
		media, err := c.media.Get(rec.ID)
		if err != nil {
			return nil, fmt.Errorf("audio %s: %w", rec.ID, err)
		}
		sub.Audio = append(sub.Audio, remote.AudioPart{
			Name: fmt.Sprintf("%s_%s", rec.Type, rec.ID),
			Data: media.Data,
		})
	}

	return sub, nil
}

// markSynced transitions the claim to synced and adopts the server
// identifier, keeping LocalID as the stable device-side identity.
// SyncAttempts is left unchanged by a success.
func (c *Coordinator) markSynced(claim models.Claim, serverID string) error {
	previousID := claim.ID
	claim.Status = models.StatusSynced
	if serverID != "" && serverID != claim.ID {
		claim.ID = serverID
	}
	if _, err := c.claims.Save(claim); err != nil {
		return fmt.Errorf("mark synced: %w", err)
	}
	if claim.ID != previousID {
		if err := c.claims.Delete(previousID); err != nil {
			return fmt.Errorf("drop superseded claim %s: %w", previousID, err)
		}
	}
	return nil
}

// markFailed records a retryable failure: status failed, attempts
// incremented, claim otherwise intact.
func (c *Coordinator) markFailed(claim models.Claim, cause error) {
	claim.Status = models.StatusFailed
	claim.SyncAttempts++
	if _, err := c.claims.Save(claim); err != nil {
		log.Printf("Sync: claim %s: failed to record failure (%v) after: %v", claim.ID, err, cause)
	}
}
