package geo

import (
	"math"
	"testing"

	perr "pincast/internal/platform/errors"
)

func TestHaversineKnownDistances(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		a, b    Point
		wantM   float64
		within  float64
	}{
		{"same point", Point{48.8566, 2.3522}, Point{48.8566, 2.3522}, 0, 0.001},
		{"paris to london", Point{48.8566, 2.3522}, Point{51.5074, -0.1278}, 343_500, 1_500},
		{"one degree latitude", Point{0, 0}, Point{1, 0}, 111_195, 10},
		{"antipodal", Point{0, 0}, Point{0, 180}, math.Pi * EarthRadiusM, 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := Haversine(tc.a, tc.b)
			if math.Abs(got-tc.wantM) > tc.within {
				t.Fatalf("Haversine() = %.1f, want %.1f (±%.1f)", got, tc.wantM, tc.within)
			}
		})
	}
}

func TestHaversineSymmetry(t *testing.T) {
	t.Parallel()

	a := Point{40.7128, -74.0060}
	b := Point{34.0522, -118.2437}
	if d1, d2 := Haversine(a, b), Haversine(b, a); math.Abs(d1-d2) > 1e-9 {
		t.Fatalf("distance not symmetric: %v vs %v", d1, d2)
	}
}

func TestWithinRadius(t *testing.T) {
	t.Parallel()

	center := Point{48.8566, 2.3522}
	near := Point{48.8570, 2.3530} // ~70m away
	far := Point{48.9000, 2.4000}  // ~6km away

	if !WithinRadius(center, near, 500) {
		t.Fatal("expected near point inside 500m radius")
	}
	if WithinRadius(center, far, 500) {
		t.Fatal("expected far point outside 500m radius")
	}
	// boundary is inclusive
	d := Haversine(center, far)
	if !WithinRadius(center, far, d) {
		t.Fatal("expected point at exact radius to be included")
	}
}

func TestPointValidate(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		p       Point
		wantErr bool
	}{
		{"valid", Point{48.8566, 2.3522}, false},
		{"lat north pole", Point{90, 0}, false},
		{"lng antimeridian", Point{0, -180}, false},
		{"lat too high", Point{90.1, 0}, true},
		{"lat too low", Point{-91, 0}, true},
		{"lng too high", Point{0, 180.5}, true},
		{"lng too low", Point{0, -181}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := tc.p.Validate()
			if tc.wantErr && err == nil {
				t.Fatal("expected error")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tc.wantErr && !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
				t.Fatalf("expected invalid argument code, got %v", perr.CodeOf(err))
			}
		})
	}
}
