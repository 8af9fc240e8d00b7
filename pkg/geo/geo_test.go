package geo

import (
	"math"
	"testing"
)

func TestDistanceKm_IdenticalPoints(t *testing.T) {
	points := [][2]float64{
		{0, 0},
		{19.0760, 72.8777},
		{-33.8688, 151.2093},
		{90, 0},
		{-90, 180},
	}
	for _, p := range points {
		if d := DistanceKm(p[0], p[1], p[0], p[1]); d != 0 {
			t.Errorf("DistanceKm(%v, %v, same) = %v, want 0", p[0], p[1], d)
		}
	}
}

func TestDistanceKm_Symmetric(t *testing.T) {
	ab := DistanceKm(19.0760, 72.8777, 28.7041, 77.1025)
	ba := DistanceKm(28.7041, 77.1025, 19.0760, 72.8777)
	if ab != ba {
		t.Errorf("distance not symmetric: %v vs %v", ab, ba)
	}
}

func TestDistanceKm_OneDegreeOfLongitudeAtEquator(t *testing.T) {
	d := DistanceKm(0, 0, 0, 1)
	if math.Abs(d-111.2) > 1 {
		t.Errorf("DistanceKm(0,0,0,1) = %v, want ~111.2 +/- 1", d)
	}
}

func TestDistanceKm_MonotonicWithSeparation(t *testing.T) {
	prev := 0.0
	for _, dLon := range []float64{0.5, 1, 2, 5, 10, 45, 90, 180} {
		d := DistanceKm(0, 0, 0, dLon)
		if d <= prev {
			t.Errorf("distance at %v deg = %v, not greater than %v", dLon, d, prev)
		}
		prev = d
	}
}

func TestDistanceKm_Antipodal(t *testing.T) {
	// Half the Earth's circumference, ~20015 km.
	d := DistanceKm(0, 0, 0, 180)
	want := math.Pi * EarthRadiusKm
	if math.Abs(d-want) > 1 {
		t.Errorf("antipodal distance = %v, want ~%v", d, want)
	}
	if math.IsNaN(d) {
		t.Error("antipodal distance is NaN")
	}
}

func TestDistanceKm_NearZeroSeparation(t *testing.T) {
	d := DistanceKm(19.0760, 72.8777, 19.0760001, 72.8777001)
	if math.IsNaN(d) || d < 0 {
		t.Errorf("near-zero separation produced %v", d)
	}
	if d > 0.1 {
		t.Errorf("near-zero separation too large: %v km", d)
	}
}

func TestValidCoordinates(t *testing.T) {
	tests := []struct {
		lat, lon float64
		want     bool
	}{
		{0, 0, true},
		{90, 180, true},
		{-90, -180, true},
		{90.1, 0, false},
		{-90.1, 0, false},
		{0, 180.1, false},
		{0, -180.1, false},
	}
	for _, tt := range tests {
		if got := ValidCoordinates(tt.lat, tt.lon); got != tt.want {
			t.Errorf("ValidCoordinates(%v, %v) = %v, want %v", tt.lat, tt.lon, got, tt.want)
		}
	}
}
