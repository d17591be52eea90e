package hue

import (
	"math"
	"testing"
)

func TestDisplayColor(t *testing.T) {
	tests := []struct {
		hue  float32
		want string
	}{
		{Initial, "#2eceff"},
		{LowerBoundary, "#ff9d2e"},
		{UpperBoundary, "#a42eff"},
	}
	for _, tt := range tests {
		c := DisplayColor(tt.hue)
		if got := c.Hex(); got != tt.want {
			t.Fatalf("DisplayColor(%v).Hex() = %s, want %s", tt.hue, got, tt.want)
		}
		if c.Saturation != 0.82 || c.Brightness != 1 || c.Alpha != 1 {
			t.Fatalf("unexpected fixed components: %+v", c)
		}
	}
}

func TestColorDegrees(t *testing.T) {
	if got := DisplayColor(Initial).Degrees(); math.Abs(got-194) > 1e-3 {
		t.Fatalf("Degrees = %v, want 194", got)
	}
}
