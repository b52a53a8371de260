// Package remote implements the claim submission contract: a multipart
// upload of one structured claim block plus named binary parts for
// documents and audio.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/openfra/fieldsync/internal/models"
)

// DocumentPart is a document binary attached by filename.
type DocumentPart struct {
	Filename string
	Data     []byte
}

// AudioPart is an audio binary attached under the name <type>_<id>.
type AudioPart struct {
	Name string
	Data []byte
}

// Submission is the assembled payload for one claim.
type Submission struct {
	Claim     models.Claim
	Documents []DocumentPart
	Audio     []AudioPart
}

// SubmissionResult carries the server-assigned claim identifier.
type SubmissionResult struct {
	ClaimID string
}

// Submitter is the remote submission contract consumed by the sync
// coordinator. Any error is a retryable failure.
type Submitter interface {
	Submit(ctx context.Context, sub *Submission) (*SubmissionResult, error)
}

// Client submits claims to the remote authority over HTTP.
type Client struct {
	url  string
	http *http.Client
}

// NewClient creates a submission client for the given endpoint.
func NewClient(url string, timeout time.Duration) *Client {
	return &Client{
		url:  url,
		http: &http.Client{Timeout: timeout},
	}
}

// claimBlock is the structured JSON part of the multipart payload.
type claimBlock struct {
	ClaimType        models.ClaimType         `json:"claimType"`
	ClaimantDetails  models.ClaimantDetails   `json:"claimantDetails"`
	Location         models.Location          `json:"location"`
	GramSabhaConsent *models.GramSabhaConsent `json:"gramSabhaConsent,omitempty"`
}

// Submit posts the claim and its binaries as multipart/form-data. Any
// non-success status is reported as an error for the coordinator to
// record and retry.
func (c *Client) Submit(ctx context.Context, sub *Submission) (*SubmissionResult, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	fw, err := writer.CreateFormField("claim")
	if err != nil {
		return nil, fmt.Errorf("submit claim %s: %w", sub.Claim.ID, err)
	}
	block := claimBlock{
		ClaimType:        sub.Claim.ClaimType,
		ClaimantDetails:  sub.Claim.ClaimantDetails,
		Location:         sub.Claim.Location,
		GramSabhaConsent: sub.Claim.GramSabhaConsent,
	}
	if err := json.NewEncoder(fw).Encode(block); err != nil {
		return nil, fmt.Errorf("submit claim %s: encode claim block: %w", sub.Claim.ID, err)
	}

	for _, doc := range sub.Documents {
		fw, err := writer.CreateFormFile("documents", doc.Filename)
		if err != nil {
			return nil, fmt.Errorf("submit claim %s: %w", sub.Claim.ID, err)
		}
		if _, err := fw.Write(doc.Data); err != nil {
			return nil, fmt.Errorf("submit claim %s: write %s: %w", sub.Claim.ID, doc.Filename, err)
		}
	}

	for _, audio := range sub.Audio {
		fw, err := writer.CreateFormFile(audio.Name, audio.Name)
		if err != nil {
			return nil, fmt.Errorf("submit claim %s: %w", sub.Claim.ID, err)
		}
		if _, err := fw.Write(audio.Data); err != nil {
			return nil, fmt.Errorf("submit claim %s: write %s: %w", sub.Claim.ID, audio.Name, err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("submit claim %s: %w", sub.Claim.ID, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, body)
	if err != nil {
		return nil, fmt.Errorf("submit claim %s: %w", sub.Claim.ID, err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("submit claim %s: %w", sub.Claim.ID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("submit claim %s: remote returned %d: %s", sub.Claim.ID, resp.StatusCode, msg)
	}

	var parsed struct {
		ClaimID string `json:"claimId"`
		ID      string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("submit claim %s: decode response: %w", sub.Claim.ID, err)
	}
	serverID := parsed.ClaimID
	if serverID == "" {
		serverID = parsed.ID
	}
	if serverID == "" {
		return nil, fmt.Errorf("submit claim %s: response missing server claim id", sub.Claim.ID)
	}
	return &SubmissionResult{ClaimID: serverID}, nil
}
