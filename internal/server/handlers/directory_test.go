package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"hackdir/internal/domain/event"
	"hackdir/internal/domain/geo"
	"hackdir/internal/service/directory"
	geosvc "hackdir/internal/service/geo"
)

// fakeGeocoder serves canned forward matches.
type fakeGeocoder struct {
	forward map[string][]geo.Match
}

func (f *fakeGeocoder) Geocode(ctx context.Context, address string) ([]geo.Match, error) {
	return f.forward[address], nil
}

func (f *fakeGeocoder) ReverseGeocode(ctx context.Context, lat, lng float64) ([]geo.Match, error) {
	return nil, geo.ErrNoMatch
}

var handlerNow = time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)

func testSessions() *directory.SessionManager {
	lat, lng := 39.7392, -104.9903
	events := []event.Event{
		{ID: "denver", Name: "Denver Hacks", Website: "https://denver.example.com",
			Start: handlerNow.AddDate(0, 0, 7).Format(time.RFC3339),
			End:   handlerNow.AddDate(0, 0, 8).Format(time.RFC3339),
			Latitude: &lat, Longitude: &lng},
		{ID: "remote", Name: "Remote Jam",
			Start: handlerNow.AddDate(0, 0, 14).Format(time.RFC3339)},
		{ID: "bygone", Name: "Bygone Days",
			Start: handlerNow.AddDate(0, 0, -30).Format(time.RFC3339)},
	}

	snapshot := directory.BuildSnapshot(events, handlerNow)
	geocoder := &fakeGeocoder{forward: map[string][]geo.Match{
		"denver co": {{FormattedAddress: "Denver, CO, USA", Lat: 39.74, Lng: -104.99}},
	}}

	return directory.NewSessionManager(snapshot, geosvc.NewResolver(geocoder), nil, directory.SessionManagerConfig{
		IdleExpiry:    time.Hour,
		SweepSchedule: "* * * * *",
	})
}

func TestGetEvents_DefaultBucket(t *testing.T) {
	h := NewDirectoryHandler(testSessions())

	req := httptest.NewRequest("GET", "/api/v1/events", nil)
	w := httptest.NewRecorder()
	h.GetEvents(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	if w.Header().Get(SessionHeader) == "" {
		t.Error("Response must carry a session ID")
	}

	var view directory.View
	if err := json.Unmarshal(w.Body.Bytes(), &view); err != nil {
		t.Fatalf("Failed to decode view: %v", err)
	}

	if view.Bucket != directory.BucketFuture {
		t.Errorf("Default bucket = %q, want future", view.Bucket)
	}
	if view.Proximity {
		t.Error("A fresh session has no location")
	}
	if len(view.Events) != 2 || view.Events[0].Event.ID != "denver" || view.Events[1].Event.ID != "remote" {
		t.Errorf("Unexpected ordering: %+v", view.Events)
	}
}

func TestGetEvents_PastBucket(t *testing.T) {
	h := NewDirectoryHandler(testSessions())

	req := httptest.NewRequest("GET", "/api/v1/events?bucket=past", nil)
	w := httptest.NewRecorder()
	h.GetEvents(w, req)

	var view directory.View
	if err := json.Unmarshal(w.Body.Bytes(), &view); err != nil {
		t.Fatalf("Failed to decode view: %v", err)
	}
	if len(view.Events) != 1 || view.Events[0].Event.ID != "bygone" {
		t.Errorf("Unexpected past view: %+v", view.Events)
	}
}

func TestGetEvents_UnknownBucket(t *testing.T) {
	h := NewDirectoryHandler(testSessions())

	req := httptest.NewRequest("GET", "/api/v1/events?bucket=someday", nil)
	w := httptest.NewRecorder()
	h.GetEvents(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for an unknown bucket, got %d", w.Code)
	}
}

func TestGetStats(t *testing.T) {
	h := NewDirectoryHandler(testSessions())

	req := httptest.NewRequest("GET", "/api/v1/stats", nil)
	w := httptest.NewRecorder()
	h.GetStats(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}

	var stats event.DirectoryStats
	if err := json.Unmarshal(w.Body.Bytes(), &stats); err != nil {
		t.Fatalf("Failed to decode stats: %v", err)
	}
	if stats.Total != 3 {
		t.Errorf("Total = %d, want 3", stats.Total)
	}
}

func TestSessionContinuity(t *testing.T) {
	sessions := testSessions()
	h := NewDirectoryHandler(sessions)

	first := httptest.NewRecorder()
	h.GetEvents(first, httptest.NewRequest("GET", "/api/v1/events", nil))
	id := first.Header().Get(SessionHeader)

	req := httptest.NewRequest("GET", "/api/v1/events", nil)
	req.Header.Set(SessionHeader, id)
	second := httptest.NewRecorder()
	h.GetEvents(second, req)

	if got := second.Header().Get(SessionHeader); got != id {
		t.Errorf("Session ID changed between requests: %q vs %q", got, id)
	}
}

func TestSearchFlow_ProximityOrdering(t *testing.T) {
	sessions := testSessions()
	dirHandler := NewDirectoryHandler(sessions)
	locHandler := NewLocationHandler(sessions)

	// Establish a session
	w := httptest.NewRecorder()
	dirHandler.GetEvents(w, httptest.NewRequest("GET", "/api/v1/events", nil))
	id := w.Header().Get(SessionHeader)

	// Search for an address
	body := strings.NewReader(`{"address": "denver co"}`)
	req := httptest.NewRequest("POST", "/api/v1/location/search", body)
	req.Header.Set(SessionHeader, id)
	w = httptest.NewRecorder()
	locHandler.PostSearch(w, req)

	if w.Code != http.StatusAccepted {
		t.Fatalf("Expected 202, got %d", w.Code)
	}

	// Resolution is asynchronous; poll until it commits
	deadline := time.Now().Add(2 * time.Second)
	var loc geo.Location
	for time.Now().Before(deadline) {
		req := httptest.NewRequest("GET", "/api/v1/location", nil)
		req.Header.Set(SessionHeader, id)
		w = httptest.NewRecorder()
		locHandler.GetLocation(w, req)

		if err := json.Unmarshal(w.Body.Bytes(), &loc); err != nil {
			t.Fatalf("Failed to decode location: %v", err)
		}
		if loc.Source == geo.SourceAddress {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	if loc.Source != geo.SourceAddress {
		t.Fatal("Address resolution never committed")
	}

	// The view now ranks by proximity with distances in miles
	req = httptest.NewRequest("GET", "/api/v1/events", nil)
	req.Header.Set(SessionHeader, id)
	w = httptest.NewRecorder()
	dirHandler.GetEvents(w, req)

	var view directory.View
	if err := json.Unmarshal(w.Body.Bytes(), &view); err != nil {
		t.Fatalf("Failed to decode view: %v", err)
	}
	if !view.Proximity {
		t.Error("Expected proximity ordering after resolution")
	}
	if view.Events[0].Event.ID != "denver" || view.Events[0].DistanceMiles == nil {
		t.Errorf("Denver should rank first with a distance, got %+v", view.Events[0])
	}
	if view.Events[1].DistanceMiles != nil {
		t.Error("Remote event has no coordinates, distance must be absent")
	}
}

func TestPostDevice_InvalidCoordinates(t *testing.T) {
	locHandler := NewLocationHandler(testSessions())

	body := strings.NewReader(`{"latitude": 200, "longitude": 10}`)
	req := httptest.NewRequest("POST", "/api/v1/location/device", body)
	w := httptest.NewRecorder()
	locHandler.PostDevice(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for out-of-range coordinates, got %d", w.Code)
	}
}

func TestPostDevice_PermissionDeniedAccepted(t *testing.T) {
	locHandler := NewLocationHandler(testSessions())

	body := strings.NewReader(`{"error": "permission_denied"}`)
	req := httptest.NewRequest("POST", "/api/v1/location/device", body)
	w := httptest.NewRecorder()
	locHandler.PostDevice(w, req)

	// The failure is reported on the push channel, not the request
	if w.Code != http.StatusAccepted {
		t.Errorf("Expected 202, got %d", w.Code)
	}
}
