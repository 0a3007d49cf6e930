// internal/service/geo/distance.go

package geo

import (
	"errors"
	"math"
)

const (
	earthRadiusKm   = 6371.0
	kmPerMile       = 1.609344
	maxLatitudeDeg  = 90.0
	maxLongitudeDeg = 180.0
)

// ErrInvalidCoordinate marks malformed distance input. Callers treat it
// as "distance unknown" rather than a fault.
var ErrInvalidCoordinate = errors.New("invalid coordinate")

// DistanceResult is a great-circle distance in both display units.
type DistanceResult struct {
	Miles float64 `json:"miles"`
	Km    float64 `json:"km"`
}

// IsValidLatLng reports whether a coordinate pair is finite and in range.
func IsValidLatLng(lat, lng float64) bool {
	if math.IsNaN(lat) || math.IsInf(lat, 0) || math.IsNaN(lng) || math.IsInf(lng, 0) {
		return false
	}
	return lat >= -maxLatitudeDeg && lat <= maxLatitudeDeg &&
		lng >= -maxLongitudeDeg && lng <= maxLongitudeDeg
}

// Distance computes the haversine distance between two points given in
// decimal degrees. It is pure: identical points yield zero and the
// result is symmetric in its arguments.
func Distance(lat1, lng1, lat2, lng2 float64) (DistanceResult, error) {
	if !IsValidLatLng(lat1, lng1) || !IsValidLatLng(lat2, lng2) {
		return DistanceResult{}, ErrInvalidCoordinate
	}

	// Convert latitude and longitude from degrees to radians
	rLat1 := lat1 * math.Pi / 180.0
	rLng1 := lng1 * math.Pi / 180.0
	rLat2 := lat2 * math.Pi / 180.0
	rLng2 := lng2 * math.Pi / 180.0

	dLat := rLat2 - rLat1
	dLng := rLng2 - rLng1

	hSin := math.Sin(dLat / 2)
	hSin *= hSin

	vSin := math.Sin(dLng / 2)
	vSin *= vSin

	h := hSin + math.Cos(rLat1)*math.Cos(rLat2)*vSin

	km := 2 * earthRadiusKm * math.Asin(math.Sqrt(h))

	return DistanceResult{
		Miles: km / kmPerMile,
		Km:    km,
	}, nil
}
