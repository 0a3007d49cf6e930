// internal/service/geo/disabled.go

package geo

import (
	"context"
	"errors"

	"hackdir/internal/domain/geo"
)

// ErrGeocodingDisabled is returned when no provider is configured.
var ErrGeocodingDisabled = errors.New("geocoding is not configured")

// DisabledGeocoder stands in when no provider API key is configured.
// Every resolution fails soft and the directory stays chronological.
type DisabledGeocoder struct{}

func (DisabledGeocoder) Geocode(ctx context.Context, address string) ([]geo.Match, error) {
	return nil, ErrGeocodingDisabled
}

func (DisabledGeocoder) ReverseGeocode(ctx context.Context, lat, lng float64) ([]geo.Match, error) {
	return nil, ErrGeocodingDisabled
}
