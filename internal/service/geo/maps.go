// internal/service/geo/maps.go

package geo

import (
	"context"
	"fmt"

	"googlemaps.github.io/maps"

	"hackdir/internal/domain/geo"
)

// MapsGeocoder implements geo.Geocoder against the Google Maps
// Geocoding API.
type MapsGeocoder struct {
	client *maps.Client
}

// NewMapsGeocoder creates a geocoder backed by the Google Maps API.
func NewMapsGeocoder(apiKey string) (*MapsGeocoder, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("maps API key is not set")
	}

	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}

	return &MapsGeocoder{client: client}, nil
}

// Geocode forward-geocodes a free-text address.
func (g *MapsGeocoder) Geocode(ctx context.Context, address string) ([]geo.Match, error) {
	req := &maps.GeocodingRequest{
		Address: address,
	}

	results, err := g.client.Geocode(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("forward geocode failed: %w", err)
	}

	return convertResults(results), nil
}

// ReverseGeocode looks up addresses for a coordinate pair.
func (g *MapsGeocoder) ReverseGeocode(ctx context.Context, lat, lng float64) ([]geo.Match, error) {
	req := &maps.GeocodingRequest{
		LatLng: &maps.LatLng{Lat: lat, Lng: lng},
	}

	results, err := g.client.ReverseGeocode(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("reverse geocode failed: %w", err)
	}

	return convertResults(results), nil
}

func convertResults(results []maps.GeocodingResult) []geo.Match {
	matches := make([]geo.Match, 0, len(results))
	for _, r := range results {
		matches = append(matches, geo.Match{
			FormattedAddress: r.FormattedAddress,
			Lat:              r.Geometry.Location.Lat,
			Lng:              r.Geometry.Location.Lng,
			Types:            r.Types,
		})
	}
	return matches
}
