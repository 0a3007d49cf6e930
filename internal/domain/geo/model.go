// internal/domain/geo/model.go

package geo

import (
	"context"
	"errors"
)

// Source identifies how a visitor location was obtained.
type Source string

const (
	// SourceDevice means the coordinates came from the device's
	// positioning capability.
	SourceDevice Source = "device"

	// SourceAddress means the coordinates came from a free-text
	// address lookup.
	SourceAddress Source = "address"

	// SourceNone means no location is set; ranking falls back to
	// chronological order.
	SourceNone Source = "none"
)

// Location is the canonical visitor location record. Each successful
// resolution replaces the previous Location wholesale; partial merges
// never happen.
type Location struct {
	Latitude         float64 `json:"latitude"`
	Longitude        float64 `json:"longitude"`
	FormattedAddress *string `json:"formatted_address,omitempty"`
	Source           Source  `json:"source"`
}

// Cleared returns the explicit empty Location used when the visitor
// reverts to chronological ordering.
func Cleared() Location {
	return Location{Source: SourceNone}
}

// HasCoordinates reports whether the location carries usable coordinates.
func (l Location) HasCoordinates() bool {
	return l.Source == SourceDevice || l.Source == SourceAddress
}

// Position is a raw device fix.
type Position struct {
	Lat float64 `json:"latitude"`
	Lng float64 `json:"longitude"`
}

// Match is a single geocoding result from the external provider.
type Match struct {
	FormattedAddress string   `json:"formatted_address"`
	Lat              float64  `json:"lat"`
	Lng              float64  `json:"lng"`
	Types            []string `json:"types"`
}

// Geocoder is the external geocoding collaborator. An empty match slice
// with a nil error means "no match".
type Geocoder interface {
	// Geocode forward-geocodes a free-text address.
	Geocode(ctx context.Context, address string) ([]Match, error)

	// ReverseGeocode looks up human-readable addresses for coordinates.
	ReverseGeocode(ctx context.Context, lat, lng float64) ([]Match, error)
}

// PositionSource is the device positioning collaborator.
type PositionSource interface {
	CurrentPosition(ctx context.Context) (Position, error)
}

var (
	// ErrPermissionDenied is returned when the visitor refused the
	// positioning request.
	ErrPermissionDenied = errors.New("position permission denied")

	// ErrUnavailable is returned when the device has no positioning
	// capability.
	ErrUnavailable = errors.New("positioning unavailable")

	// ErrNoMatch is returned when the geocoding provider finds nothing.
	ErrNoMatch = errors.New("no geocoding match")
)

// Failure wraps a resolution error with the notice shown to the visitor.
// A Failure never disturbs a previously resolved Location.
type Failure struct {
	Notice string
	Err    error
}

func (f *Failure) Error() string {
	if f.Err != nil {
		return f.Notice + ": " + f.Err.Error()
	}
	return f.Notice
}

func (f *Failure) Unwrap() error {
	return f.Err
}
