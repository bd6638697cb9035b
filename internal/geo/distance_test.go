package geo

import (
	"math"
	"testing"
)

var (
	qvb      = Coordinates{Lat: -33.8718, Lng: 151.2067}
	townHall = Coordinates{Lat: -33.8733, Lng: 151.2063}
	sydney   = Coordinates{Lat: -33.8688, Lng: 151.2093}
	melburne = Coordinates{Lat: -37.8136, Lng: 144.9631}
)

func TestDistanceZero(t *testing.T) {
	if d := DistanceMeters(qvb, qvb); d != 0 {
		t.Errorf("DistanceMeters(a, a) = %v, want 0", d)
	}
}

func TestDistanceSymmetry(t *testing.T) {
	pairs := [][2]Coordinates{
		{qvb, townHall},
		{sydney, melburne},
		{{Lat: 0, Lng: 0}, {Lat: 0, Lng: 180}},
	}
	for _, p := range pairs {
		ab := DistanceMeters(p[0], p[1])
		ba := DistanceMeters(p[1], p[0])
		if math.Abs(ab-ba) > 1e-9 {
			t.Errorf("DistanceMeters not symmetric: %v vs %v", ab, ba)
		}
	}
}

func TestDistanceKnownValues(t *testing.T) {
	// QVB to Town Hall is a short city block, roughly 170 m.
	if d := DistanceMeters(qvb, townHall); d < 150 || d > 200 {
		t.Errorf("QVB to Town Hall = %.0fm, want ~170m", d)
	}
	// Sydney to Melbourne is roughly 713 km.
	if d := DistanceMeters(sydney, melburne); d < 700_000 || d > 730_000 {
		t.Errorf("Sydney to Melbourne = %.0fm, want ~713km", d)
	}
}

func TestIsWithinRadiusMonotonic(t *testing.T) {
	d := DistanceMeters(qvb, townHall)
	if IsWithinRadius(qvb, townHall, d-10) {
		t.Error("expected outside a radius smaller than the distance")
	}
	if !IsWithinRadius(qvb, townHall, d) {
		t.Error("expected inside a radius equal to the distance")
	}
	// Growing the radius can never flip containment back to false.
	for _, r := range []float64{d, d + 1, d * 2, d * 100} {
		if !IsWithinRadius(qvb, townHall, r) {
			t.Errorf("IsWithinRadius false at radius %v after true at %v", r, d)
		}
	}
}

func TestClassify(t *testing.T) {
	cases := []struct {
		meters float64
		want   Proximity
	}{
		{0, ProximityAvailable},
		{50, ProximityAvailable},
		{50.1, ProximityNearby},
		{2000, ProximityNearby},
		{2000.1, ProximityFar},
		{500_000, ProximityFar},
	}
	for _, tc := range cases {
		if got := Classify(tc.meters); got != tc.want {
			t.Errorf("Classify(%v) = %q, want %q", tc.meters, got, tc.want)
		}
	}
}

func TestFormatDistance(t *testing.T) {
	cases := []struct {
		meters float64
		want   string
	}{
		{0, "0m"},
		{735.4, "735m"},
		{999.4, "999m"},
		{1000, "1.0km"},
		{1240, "1.2km"},
		{713_000, "713.0km"},
	}
	for _, tc := range cases {
		if got := FormatDistance(tc.meters); got != tc.want {
			t.Errorf("FormatDistance(%v) = %q, want %q", tc.meters, got, tc.want)
		}
	}
}
