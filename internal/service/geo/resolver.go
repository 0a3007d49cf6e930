// internal/service/geo/resolver.go

package geo

import (
	"context"
	"fmt"
	"strings"

	"hackdir/internal/domain/geo"
)

// LocationFailureNotice is shown whenever a device resolution cannot
// produce a location; ranking then falls back to chronological order.
const LocationFailureNotice = "We couldn't get your current location. We can only sort by date"

// AddressFailureNotice is shown when a free-text address lookup finds
// no match.
const AddressFailureNotice = "We couldn't find that address. We can only sort by date"

// Resolver turns device fixes and free-text addresses into canonical
// Location records via the external geocoding collaborator. Every
// successful call produces a complete Location; failures carry a
// visitor-facing notice and leave prior state to the caller.
type Resolver struct {
	geocoder geo.Geocoder
}

// NewResolver creates a resolver over the given geocoding collaborator.
func NewResolver(geocoder geo.Geocoder) *Resolver {
	return &Resolver{geocoder: geocoder}
}

// ResolveFromDevice asks the positioning collaborator for the current
// fix and reverse-geocodes it. A neighborhood-level result is preferred
// for the display address, falling back to the provider's first result.
func (r *Resolver) ResolveFromDevice(ctx context.Context, src geo.PositionSource) (geo.Location, error) {
	pos, err := src.CurrentPosition(ctx)
	if err != nil {
		return geo.Location{}, &geo.Failure{Notice: LocationFailureNotice, Err: err}
	}

	matches, err := r.geocoder.ReverseGeocode(ctx, pos.Lat, pos.Lng)
	if err != nil {
		return geo.Location{}, &geo.Failure{
			Notice: LocationFailureNotice,
			Err:    fmt.Errorf("reverse geocode: %w", err),
		}
	}
	if len(matches) == 0 {
		return geo.Location{}, &geo.Failure{Notice: LocationFailureNotice, Err: geo.ErrNoMatch}
	}

	match := matches[0]
	for _, m := range matches {
		if hasType(m, "neighborhood") {
			match = m
			break
		}
	}

	addr := match.FormattedAddress
	return geo.Location{
		Latitude:         pos.Lat,
		Longitude:        pos.Lng,
		FormattedAddress: &addr,
		Source:           geo.SourceDevice,
	}, nil
}

// ResolveFromAddress forward-geocodes free text and takes the first
// match. Empty text is not an error: it produces the cleared Location,
// reverting the caller to date ordering.
func (r *Resolver) ResolveFromAddress(ctx context.Context, text string) (geo.Location, error) {
	if strings.TrimSpace(text) == "" {
		return geo.Cleared(), nil
	}

	matches, err := r.geocoder.Geocode(ctx, text)
	if err != nil {
		return geo.Location{}, &geo.Failure{
			Notice: AddressFailureNotice,
			Err:    fmt.Errorf("forward geocode: %w", err),
		}
	}
	if len(matches) == 0 {
		return geo.Location{}, &geo.Failure{Notice: AddressFailureNotice, Err: geo.ErrNoMatch}
	}

	first := matches[0]
	addr := first.FormattedAddress
	return geo.Location{
		Latitude:         first.Lat,
		Longitude:        first.Lng,
		FormattedAddress: &addr,
		Source:           geo.SourceAddress,
	}, nil
}

func hasType(m geo.Match, want string) bool {
	for _, t := range m.Types {
		if t == want {
			return true
		}
	}
	return false
}
