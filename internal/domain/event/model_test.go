package event

import (
	"testing"
	"time"
)

func TestStartTime_Layouts(t *testing.T) {
	cases := []struct {
		start string
		want  time.Time
	}{
		{"2026-07-06T09:00:00Z", time.Date(2026, 7, 6, 9, 0, 0, 0, time.UTC)},
		{"2026-07-06T09:00:00", time.Date(2026, 7, 6, 9, 0, 0, 0, time.UTC)},
		{"2026-07-06", time.Date(2026, 7, 6, 0, 0, 0, 0, time.UTC)},
	}

	for _, tc := range cases {
		got, err := Event{Start: tc.start}.StartTime()
		if err != nil {
			t.Errorf("StartTime(%q) failed: %v", tc.start, err)
			continue
		}
		if !got.Equal(tc.want) {
			t.Errorf("StartTime(%q) = %v, want %v", tc.start, got, tc.want)
		}
	}
}

func TestStartTime_Unparseable(t *testing.T) {
	for _, start := range []string{"", "soon", "06/07/2026"} {
		if _, err := (Event{Start: start}).StartTime(); err == nil {
			t.Errorf("StartTime(%q) should fail", start)
		}
	}
}

func TestHasCoordinates(t *testing.T) {
	lat, lng := 51.5, -0.12

	if (Event{Latitude: &lat}).HasCoordinates() {
		t.Error("A lone latitude is not a coordinate pair")
	}
	if (Event{Longitude: &lng}).HasCoordinates() {
		t.Error("A lone longitude is not a coordinate pair")
	}
	if !(Event{Latitude: &lat, Longitude: &lng}).HasCoordinates() {
		t.Error("Both sides present should count as coordinates")
	}
	if (Event{}).HasCoordinates() {
		t.Error("No coordinates expected on an empty event")
	}
}
