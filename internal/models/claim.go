package models

import "time"

// ClaimStatus tracks a claim through its local lifecycle.
type ClaimStatus string

const (
	StatusDraft   ClaimStatus = "draft"
	StatusReady   ClaimStatus = "ready"
	StatusSyncing ClaimStatus = "syncing"
	StatusSynced  ClaimStatus = "synced"
	StatusFailed  ClaimStatus = "failed"
)

// ClaimType is the fixed enumeration of rights a claim can assert.
type ClaimType string

const (
	ClaimTypeIndividual ClaimType = "IFR" // Individual Forest Rights
	ClaimTypeCommunity  ClaimType = "CR"  // Community Rights
	ClaimTypeResource   ClaimType = "CFR" // Community Forest Resource rights
)

// ClaimantDetails identifies the person or community filing the claim.
type ClaimantDetails struct {
	Name       string `json:"name"`
	FatherName string `json:"fatherName,omitempty"`
	Address    string `json:"address"`
	Phone      string `json:"phone,omitempty"`
	NationalID string `json:"nationalId,omitempty"`
}

// Document references a captured binary (photo, scan) held by the media store.
// Checksum is the sha256 fingerprint computed at capture time.
type Document struct {
	ID       string `json:"id"`
	Type     string `json:"type"`
	Filename string `json:"filename"`
	Checksum string `json:"checksum"`
}

// Coordinate is a single latitude/longitude pair.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Location is the claimed parcel position with an optional boundary polygon.
type Location struct {
	Latitude  float64      `json:"latitude"`
	Longitude float64      `json:"longitude"`
	Accuracy  float64      `json:"accuracy,omitempty"`
	Boundary  []Coordinate `json:"boundary,omitempty"`
}

// AudioRecording references a recorded statement held by the media store.
type AudioRecording struct {
	ID       string  `json:"id"`
	Type     string  `json:"type"`
	Duration float64 `json:"duration"`
}

// GramSabhaConsent records the village assembly's consent for the claim.
type GramSabhaConsent struct {
	MeetingDate         string `json:"meetingDate"`
	MinutesPhotoMediaID string `json:"minutesPhotoMediaId,omitempty"`
	QRCode              string `json:"qrCode,omitempty"`
}

// Claim is the central entity captured in the field and synced to the
// remote authority. ID may be replaced by a server-assigned identifier
// after a successful sync; LocalID keeps the original device-generated
// identifier for local bookkeeping.
type Claim struct {
	ID               string            `json:"id"`
	LocalID          string            `json:"localId,omitempty"`
	ClaimType        ClaimType         `json:"claimType"`
	ClaimantDetails  ClaimantDetails   `json:"claimantDetails"`
	Documents        []Document        `json:"documents,omitempty"`
	Location         Location          `json:"location"`
	AudioRecordings  []AudioRecording  `json:"audioRecordings,omitempty"`
	GramSabhaConsent *GramSabhaConsent `json:"gramSabhaConsent,omitempty"`
	Status           ClaimStatus       `json:"status"`
	CreatedAt        time.Time         `json:"createdAt"`
	LastModified     time.Time         `json:"lastModified"`
	SyncAttempts     int               `json:"syncAttempts"`
}

// MediaIDs returns every media identifier the claim references, deduplicated,
// in document, audio, consent order.
func (c *Claim) MediaIDs() []string {
	seen := make(map[string]struct{})
	var ids []string
	add := func(id string) {
		if id == "" {
			return
		}
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	for _, d := range c.Documents {
		add(d.ID)
	}
	for _, a := range c.AudioRecordings {
		add(a.ID)
	}
	if c.GramSabhaConsent != nil {
		add(c.GramSabhaConsent.MinutesPhotoMediaID)
	}
	return ids
}
