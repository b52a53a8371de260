// Package export serializes one claim plus its referenced media into a
// single self-contained bundle for backup or transfer off-device.
package export

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	"github.com/openfra/fieldsync/internal/models"
	"github.com/openfra/fieldsync/internal/repository"
)

// EncodedMedia is a media payload in transportable text-safe form.
type EncodedMedia struct {
	Type string `json:"type"`
	Data string `json:"data"` // base64
}

// Bundle is the self-contained export document: the claim plus an
// id -> encoded-media map covering every referenced attachment.
type Bundle struct {
	Claim      models.Claim            `json:"claim"`
	Media      map[string]EncodedMedia `json:"media"`
	ExportedAt time.Time               `json:"exportedAt"`
}

// Exporter reads from the claim and media repositories to build bundles.
type Exporter struct {
	claims *repository.ClaimRepository
	media  *repository.MediaRepository
}

// NewExporter constructs an exporter over injected repositories.
func NewExporter(claims *repository.ClaimRepository, media *repository.MediaRepository) *Exporter {
	return &Exporter{claims: claims, media: media}
}

// ExportClaim builds a bundle for one claim. Every referenced media item
// must be present; a missing attachment fails the export rather than
// producing a silently incomplete backup.
func (e *Exporter) ExportClaim(id string) (*Bundle, error) {
	claim, err := e.claims.Get(id)
	if err != nil {
		return nil, fmt.Errorf("export claim %s: %w", id, err)
	}

	bundle := &Bundle{
		Claim:      *claim,
		Media:      make(map[string]EncodedMedia),
		ExportedAt: time.Now().UTC(),
	}

	for _, mediaID := range claim.MediaIDs() {
		media, err := e.media.Get(mediaID)
		if err != nil {
			return nil, fmt.Errorf("export claim %s: media %s: %w", id, mediaID, err)
		}
		bundle.Media[mediaID] = EncodedMedia{
			Type: media.Type,
			Data: base64.StdEncoding.EncodeToString(media.Data),
		}
	}

	return bundle, nil
}

// Encode renders the bundle as one JSON document.
func (b *Bundle) Encode() ([]byte, error) {
	data, err := json.Marshal(b)
	if err != nil {
		return nil, fmt.Errorf("encode bundle: %w", err)
	}
	return data, nil
}

// DecodeBundle parses an encoded bundle.
func DecodeBundle(data []byte) (*Bundle, error) {
	var bundle Bundle
	if err := json.Unmarshal(data, &bundle); err != nil {
		return nil, fmt.Errorf("decode bundle: %w", err)
	}
	return &bundle, nil
}

// MediaPayload decodes the binary payload of one bundled media item.
func (b *Bundle) MediaPayload(id string) ([]byte, string, error) {
	encoded, ok := b.Media[id]
	if !ok {
		return nil, "", fmt.Errorf("bundle: media %s not present", id)
	}
	data, err := base64.StdEncoding.DecodeString(encoded.Data)
	if err != nil {
		return nil, "", fmt.Errorf("bundle: media %s: %w", id, err)
	}
	return data, encoded.Type, nil
}
