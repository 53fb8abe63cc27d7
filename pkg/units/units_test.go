package units

import (
	"math"
	"testing"
)

func TestMHzToWavenumber(t *testing.T) {
	tests := []struct {
		mhz  float64
		want float64
	}{
		{0, 0},
		{29979.2458, 1},
		{299792.458, 10},
		{-29979.2458, -1},
	}

	for _, tt := range tests {
		got := MHzToWavenumber(tt.mhz)
		if math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("MHzToWavenumber(%g) = %v, want %v", tt.mhz, got, tt.want)
		}
	}
}

func TestWavenumberRoundTrip(t *testing.T) {
	for _, mhz := range []float64{1, 1000, 12345.6789, 3.5e5} {
		got := WavenumberToMHz(MHzToWavenumber(mhz))
		if math.Abs(got-mhz)/mhz > 1e-12 {
			t.Errorf("round trip of %g MHz = %v", mhz, got)
		}
	}
}

func TestWavenumberToKelvin(t *testing.T) {
	got := WavenumberToKelvin(KBWavenumber * 300)
	if math.Abs(got-300) > 1e-9 {
		t.Errorf("WavenumberToKelvin(kB*300) = %v, want 300", got)
	}
}
