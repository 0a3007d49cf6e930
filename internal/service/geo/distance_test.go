package geo

import (
	"math"
	"testing"
)

func TestDistance_IdenticalPoints(t *testing.T) {
	points := [][2]float64{
		{0, 0},
		{37.7749, -122.4194},
		{-90, 180},
		{90, -180},
	}

	for _, p := range points {
		d, err := Distance(p[0], p[1], p[0], p[1])
		if err != nil {
			t.Fatalf("Distance(%v, %v) failed: %v", p, p, err)
		}
		if d.Miles != 0 || d.Km != 0 {
			t.Errorf("Distance between identical points %v should be 0, got %+v", p, d)
		}
	}
}

func TestDistance_Symmetry(t *testing.T) {
	a := [2]float64{37.7749, -122.4194} // San Francisco
	b := [2]float64{34.0522, -118.2437} // Los Angeles

	ab, err := Distance(a[0], a[1], b[0], b[1])
	if err != nil {
		t.Fatalf("Distance failed: %v", err)
	}
	ba, err := Distance(b[0], b[1], a[0], a[1])
	if err != nil {
		t.Fatalf("Distance failed: %v", err)
	}

	if math.Abs(ab.Miles-ba.Miles) > 1e-9 {
		t.Errorf("Distance is not symmetric: %v vs %v", ab.Miles, ba.Miles)
	}
}

func TestDistance_KnownSeparation(t *testing.T) {
	// SF to LA is roughly 347 miles great-circle
	d, err := Distance(37.7749, -122.4194, 34.0522, -118.2437)
	if err != nil {
		t.Fatalf("Distance failed: %v", err)
	}

	if d.Miles < 330 || d.Miles > 365 {
		t.Errorf("SF-LA distance out of range: %v miles", d.Miles)
	}
	if math.Abs(d.Km-d.Miles*1.609344) > 0.01 {
		t.Errorf("Unit conversion mismatch: %v km vs %v miles", d.Km, d.Miles)
	}
}

func TestDistance_Monotonic(t *testing.T) {
	near, _ := Distance(40, -74, 40.5, -74)
	far, _ := Distance(40, -74, 45, -74)

	if near.Miles >= far.Miles {
		t.Errorf("Distance should grow with angular separation: %v >= %v", near.Miles, far.Miles)
	}
}

func TestDistance_MalformedInput(t *testing.T) {
	cases := []struct {
		name                   string
		lat1, lng1, lat2, lng2 float64
	}{
		{"latitude out of range", 91, 0, 0, 0},
		{"longitude out of range", 0, 181, 0, 0},
		{"NaN latitude", math.NaN(), 0, 0, 0},
		{"infinite longitude", 0, math.Inf(1), 0, 0},
		{"second pair invalid", 0, 0, -91, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Distance(tc.lat1, tc.lng1, tc.lat2, tc.lng2); err != ErrInvalidCoordinate {
				t.Errorf("Expected ErrInvalidCoordinate, got %v", err)
			}
		})
	}
}
