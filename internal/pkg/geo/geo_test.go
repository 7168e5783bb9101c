package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistance_SamePoint(t *testing.T) {
	d := Distance(12.9716, 77.5946, 12.9716, 77.5946)
	assert.Equal(t, 0.0, d)
}

func TestDistance_KnownPoints(t *testing.T) {
	tests := []struct {
		name                   string
		lat1, lng1, lat2, lng2 float64
		expected               float64
		tolerance              float64
	}{
		{
			name: "branch to nearby device",
			lat1: 12.9716, lng1: 77.5946,
			lat2: 12.9800, lng2: 77.6050,
			expected:  1463.7,
			tolerance: 1.0,
		},
		{
			name: "one degree of latitude",
			lat1: 0, lng1: 0,
			lat2: 1, lng2: 0,
			expected:  111194.9,
			tolerance: 1.0,
		},
		{
			name: "about 100 meters north",
			lat1: 12.9716, lng1: 77.5946,
			lat2: 12.9725, lng2: 77.5946,
			expected:  100.1,
			tolerance: 0.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Distance(tt.lat1, tt.lng1, tt.lat2, tt.lng2)
			assert.InDelta(t, tt.expected, d, tt.tolerance)
		})
	}
}

func TestDistance_Symmetric(t *testing.T) {
	d1 := Distance(12.9716, 77.5946, 12.9800, 77.6050)
	d2 := Distance(12.9800, 77.6050, 12.9716, 77.5946)
	assert.InDelta(t, d1, d2, 1e-9)
}

// Points straddling the antimeridian must measure as neighbors, not as a
// trip around the globe.
func TestDistance_Antimeridian(t *testing.T) {
	d := Distance(0.0, 179.9995, 0.0, -179.9995)
	assert.InDelta(t, 111.2, d, 0.5)
}

func TestDistance_NearPole(t *testing.T) {
	// Opposite longitudes next to the pole are only a short hop apart.
	d := Distance(89.9999, 0.0, 89.9999, 180.0)
	assert.InDelta(t, 22.2, d, 0.5)
}
