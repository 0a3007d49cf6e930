package event

import (
	"context"
	"time"
)

// Event is a single hackathon in the directory. Records arrive from an
// external snapshot source once per process and are never mutated; field
// names follow the upstream data feed.
type Event struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Website string `json:"website"`

	// Start and End are calendar datetimes as supplied by the feed,
	// either RFC 3339 or a bare date. Parsing is deferred to the
	// consumers so one bad record cannot poison a snapshot load.
	Start string `json:"start"`
	End   string `json:"end"`

	City        *string `json:"parsed_city"`
	State       *string `json:"parsed_state"`
	StateCode   *string `json:"parsed_state_code"`
	Country     *string `json:"parsed_country"`
	CountryCode *string `json:"parsed_country_code"`

	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`

	Banner        string `json:"banner,omitempty"`
	Logo          string `json:"logo,omitempty"`
	MLHAssociated bool   `json:"mlh_associated,omitempty"`
}

// timestampLayouts are tried in order when parsing event timestamps.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// StartTime parses the event's start timestamp.
func (e Event) StartTime() (time.Time, error) {
	return parseTimestamp(e.Start)
}

// EndTime parses the event's end timestamp.
func (e Event) EndTime() (time.Time, error) {
	return parseTimestamp(e.End)
}

func parseTimestamp(value string) (time.Time, error) {
	var lastErr error
	for _, layout := range timestampLayouts {
		t, err := time.Parse(layout, value)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// HasCoordinates reports whether the event carries a usable coordinate
// pair. A record with only one side set counts as having none.
func (e Event) HasCoordinates() bool {
	return e.Latitude != nil && e.Longitude != nil
}

// DirectoryStats is the aggregate computed once from the full snapshot.
type DirectoryStats struct {
	Total     int `json:"total"`
	States    int `json:"states"`
	Countries int `json:"countries"`
	Malformed int `json:"malformed,omitempty"`
}

// SnapshotSource supplies the full event list exactly once at startup.
type SnapshotSource interface {
	Load(ctx context.Context) ([]Event, error)
}
