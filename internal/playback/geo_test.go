package playback

import (
	"math"
	"testing"
)

func TestHaversineKm(t *testing.T) {
	tests := []struct {
		name                   string
		lat1, lng1, lat2, lng2 float64
		want                   float64 // km
		tolerance              float64
	}{
		{"same point", 48.85, 2.35, 48.85, 2.35, 0, 0.001},
		{"paris to lima", 48.8566, 2.3522, -12.0464, -77.0428, 10240, 60},
		{"oslo to helsinki", 59.9139, 10.7522, 60.1699, 24.9384, 790, 15},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := haversineKm(tt.lat1, tt.lng1, tt.lat2, tt.lng2)
			if math.Abs(got-tt.want) > tt.tolerance {
				t.Errorf("distance = %.1f km, want %.1f ± %.1f", got, tt.want, tt.tolerance)
			}
		})
	}
}

func TestScoreFor(t *testing.T) {
	tests := []struct {
		distance float64
		want     int
	}{
		{0, 1000},
		{1000, 500},
		{2000, 0},
		{5000, 0},
	}
	for _, tt := range tests {
		if got := scoreFor(tt.distance); got != tt.want {
			t.Errorf("scoreFor(%v) = %d, want %d", tt.distance, got, tt.want)
		}
	}
}
