package export_test

import (
	"bytes"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/openfra/fieldsync/internal/export"
	"github.com/openfra/fieldsync/internal/models"
	"github.com/openfra/fieldsync/internal/repository"
	"github.com/openfra/fieldsync/internal/store"
	"gorm.io/gorm"
)

func setup(t *testing.T) (*repository.ClaimRepository, *repository.MediaRepository, *export.Exporter) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	if err := db.AutoMigrate(&store.Record{}); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	claims := repository.NewClaimRepository(store.Open(db, store.ScopeClaims))
	media := repository.NewMediaRepository(store.Open(db, store.ScopeMedia))
	return claims, media, export.NewExporter(claims, media)
}

func TestExportRoundTrip(t *testing.T) {
	claims, media, exporter := setup(t)

	photo := []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x10, 0x20}
	audio := []byte{0x00, 0x01, 0x02, 0x03}
	if err := media.Save("d1", photo, "image/jpeg"); err != nil {
		t.Fatalf("Media save failed: %v", err)
	}
	if err := media.Save("a1", audio, "audio/mp4"); err != nil {
		t.Fatalf("Media save failed: %v", err)
	}

	id, err := claims.Save(models.Claim{
		ClaimType: models.ClaimTypeCommunity,
		ClaimantDetails: models.ClaimantDetails{
			Name:    "Gram Sabha Mendha",
			Address: "Gadchiroli",
		},
		Documents: []models.Document{{
			ID:       "d1",
			Type:     "photo",
			Filename: "boundary.jpg",
			Checksum: repository.MediaChecksum(photo),
		}},
		AudioRecordings: []models.AudioRecording{{
			ID:       "a1",
			Type:     "statement",
			Duration: 12.5,
		}},
		Status: models.StatusReady,
	})
	if err != nil {
		t.Fatalf("Claim save failed: %v", err)
	}

	bundle, err := exporter.ExportClaim(id)
	if err != nil {
		t.Fatalf("ExportClaim failed: %v", err)
	}

	encoded, err := bundle.Encode()
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	decoded, err := export.DecodeBundle(encoded)
	if err != nil {
		t.Fatalf("DecodeBundle failed: %v", err)
	}

	// Claim metadata reproduces exactly
	if decoded.Claim.ID != id || decoded.Claim.ClaimType != models.ClaimTypeCommunity {
		t.Error("Expected claim metadata to round-trip")
	}
	if decoded.Claim.ClaimantDetails.Name != "Gram Sabha Mendha" {
		t.Error("Expected claimant details to round-trip")
	}

	// Every referenced binary reproduces byte-for-byte
	gotPhoto, photoType, err := decoded.MediaPayload("d1")
	if err != nil {
		t.Fatalf("MediaPayload failed: %v", err)
	}
	if !bytes.Equal(gotPhoto, photo) || photoType != "image/jpeg" {
		t.Error("Expected photo payload to round-trip byte-for-byte")
	}
	gotAudio, _, err := decoded.MediaPayload("a1")
	if err != nil {
		t.Fatalf("MediaPayload failed: %v", err)
	}
	if !bytes.Equal(gotAudio, audio) {
		t.Error("Expected audio payload to round-trip byte-for-byte")
	}
}

func TestExportMissingMediaFails(t *testing.T) {
	claims, _, exporter := setup(t)

	id, err := claims.Save(models.Claim{
		Status: models.StatusDraft,
		Documents: []models.Document{{
			ID:       "nowhere",
			Filename: "lost.jpg",
		}},
	})
	if err != nil {
		t.Fatalf("Claim save failed: %v", err)
	}
	if _, err := exporter.ExportClaim(id); err == nil {
		t.Error("Expected export to fail when referenced media is absent")
	}
}

func TestExportUnknownClaim(t *testing.T) {
	_, _, exporter := setup(t)
	if _, err := exporter.ExportClaim("claim_0_none"); err == nil {
		t.Error("Expected export of unknown claim to fail")
	}
}
