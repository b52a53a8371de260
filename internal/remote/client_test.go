package remote_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/openfra/fieldsync/internal/models"
	"github.com/openfra/fieldsync/internal/remote"
)

func testSubmission() *remote.Submission {
	return &remote.Submission{
		Claim: models.Claim{
			ID:        "claim_1_abc",
			ClaimType: models.ClaimTypeIndividual,
			ClaimantDetails: models.ClaimantDetails{
				Name:    "Ramesh",
				Address: "Mendha, Gadchiroli",
			},
			Location: models.Location{Latitude: 20.2, Longitude: 80.1},
		},
		Documents: []remote.DocumentPart{
			{Filename: "patta.jpg", Data: []byte{0xFF, 0xD8, 0x01}},
		},
		Audio: []remote.AudioPart{
			{Name: "statement_a1", Data: []byte{0x00, 0x01}},
		},
	}
}

func TestSubmitMultipartContract(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(10 << 20); err != nil {
			t.Errorf("Failed to parse multipart form: %v", err)
		}

		// Structured claim block
		var block map[string]interface{}
		if err := json.Unmarshal([]byte(r.FormValue("claim")), &block); err != nil {
			t.Errorf("Claim part is not JSON: %v", err)
		}
		if block["claimType"] != "IFR" {
			t.Errorf("Expected claimType IFR, got %v", block["claimType"])
		}
		if _, ok := block["claimantDetails"]; !ok {
			t.Error("Expected claimantDetails in claim block")
		}

		// Document attached by filename
		docs := r.MultipartForm.File["documents"]
		if len(docs) != 1 || docs[0].Filename != "patta.jpg" {
			t.Errorf("Expected one document named patta.jpg, got %v", docs)
		}

		// Audio attached under <type>_<id>
		audio := r.MultipartForm.File["statement_a1"]
		if len(audio) != 1 {
			t.Error("Expected audio part named statement_a1")
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"claimId": "SRV-42"})
	}))
	defer server.Close()

	client := remote.NewClient(server.URL, 5*time.Second)
	result, err := client.Submit(context.Background(), testSubmission())
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if result.ClaimID != "SRV-42" {
		t.Errorf("Expected server id SRV-42, got %s", result.ClaimID)
	}
}

func TestSubmitNonSuccessIsFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "database unavailable", http.StatusBadGateway)
	}))
	defer server.Close()

	client := remote.NewClient(server.URL, 5*time.Second)
	if _, err := client.Submit(context.Background(), testSubmission()); err == nil {
		t.Error("Expected error for non-success response")
	}
}

func TestSubmitMissingServerIDIsFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	client := remote.NewClient(server.URL, 5*time.Second)
	if _, err := client.Submit(context.Background(), testSubmission()); err == nil {
		t.Error("Expected error when response lacks a server claim id")
	}
}
