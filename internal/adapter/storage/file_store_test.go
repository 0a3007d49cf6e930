package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

const sampleSnapshot = `[
  {
    "id": "summit-2026",
    "name": "Summit Hacks",
    "website": "https://summit.example.com",
    "start": "2026-09-12",
    "end": "2026-09-13",
    "parsed_city": "Denver",
    "parsed_state": "Colorado",
    "parsed_state_code": "CO",
    "parsed_country": "United States",
    "parsed_country_code": "US",
    "latitude": 39.7392,
    "longitude": -104.9903,
    "mlh_associated": true
  },
  {
    "id": "remote-jam",
    "name": "Remote Jam",
    "website": "https://jam.example.com",
    "start": "2026-10-01",
    "end": "2026-10-02",
    "parsed_city": null,
    "parsed_state": null,
    "parsed_state_code": null,
    "parsed_country": null,
    "parsed_country_code": null,
    "latitude": null,
    "longitude": null
  }
]`

func TestFileStore_Load(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.json")
	if err := os.WriteFile(path, []byte(sampleSnapshot), 0o644); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}

	events, err := NewFileStore(path).Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(events) != 2 {
		t.Fatalf("Expected 2 events, got %d", len(events))
	}

	first := events[0]
	if first.ID != "summit-2026" || first.Name != "Summit Hacks" {
		t.Errorf("Unexpected first event: %+v", first)
	}
	if first.State == nil || *first.State != "Colorado" {
		t.Errorf("parsed_state not decoded: %v", first.State)
	}
	if !first.HasCoordinates() {
		t.Error("First event should have coordinates")
	}
	if !first.MLHAssociated {
		t.Error("mlh_associated not decoded")
	}

	second := events[1]
	if second.HasCoordinates() {
		t.Error("Null coordinates must decode as absent")
	}
	if second.State != nil {
		t.Error("Null state must decode as nil")
	}
}

func TestFileStore_LoadMissingFile(t *testing.T) {
	_, err := NewFileStore(filepath.Join(t.TempDir(), "absent.json")).Load(context.Background())
	if err == nil {
		t.Error("Expected an error for a missing snapshot file")
	}
}

func TestFileStore_LoadMalformedJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.json")
	if err := os.WriteFile(path, []byte(`{"not": "a list"`), 0o644); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}

	if _, err := NewFileStore(path).Load(context.Background()); err == nil {
		t.Error("Expected an error for malformed JSON")
	}
}
