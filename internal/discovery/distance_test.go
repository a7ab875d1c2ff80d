package discovery

import (
	"math"
	"testing"
)

func TestDistanceKmKnownValues(t *testing.T) {
	cases := []struct {
		name      string
		a, b      Coordinate
		wantKm    float64
		tolerance float64
	}{
		{"identical points", Coordinate{43.25, 76.90}, Coordinate{43.25, 76.90}, 0, 1e-9},
		{"one degree of longitude at equator", Coordinate{0, 0}, Coordinate{0, 1}, 111.19, 0.1},
		{"one degree of latitude", Coordinate{10, 20}, Coordinate{11, 20}, 111.19, 0.1},
		{"antipodal points", Coordinate{0, 0}, Coordinate{0, 180}, 20015.1, 1.0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := DistanceKm(tc.a, tc.b)
			if math.Abs(got-tc.wantKm) > tc.tolerance {
				t.Fatalf("expected %.2f km got %.4f km", tc.wantKm, got)
			}
			if got < 0 {
				t.Fatalf("distance must be non-negative, got %f", got)
			}
		})
	}
}

func TestDistanceKmSymmetric(t *testing.T) {
	pairs := []struct{ a, b Coordinate }{
		{Coordinate{43.2567, 76.9286}, Coordinate{51.1694, 71.4491}},
		{Coordinate{-33.8688, 151.2093}, Coordinate{40.7128, -74.0060}},
		{Coordinate{0, 0}, Coordinate{0.5, -0.5}},
	}

	for _, p := range pairs {
		ab := DistanceKm(p.a, p.b)
		ba := DistanceKm(p.b, p.a)
		if math.Abs(ab-ba) > 1e-9 {
			t.Fatalf("distance not symmetric: %f vs %f", ab, ba)
		}
	}
}
