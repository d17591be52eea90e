package capture

import (
	"math"
	"testing"

	"github.com/olivier-w/flashlight/internal/spectral"
)

func constant(v int16, n int) []int16 {
	out := make([]int16, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func TestAveragePower(t *testing.T) {
	tests := []struct {
		name    string
		samples []int16
		want    float32
	}{
		{"empty", nil, spectral.DecibelFloor},
		{"silence", constant(0, 64), spectral.DecibelFloor},
		{"tenth of full scale", constant(3277, 64), -20},
		{"full scale is capped", constant(-32768, 64), 0},
	}
	for _, tt := range tests {
		got := AveragePower(tt.samples)
		if math.Abs(float64(got-tt.want)) > 0.01 {
			t.Fatalf("%s: AveragePower = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestMeterObserveAndReset(t *testing.T) {
	m := NewMeter()
	if got := m.Volume(); got != spectral.DecibelFloor {
		t.Fatalf("new meter reads %v, want floor", got)
	}
	m.Observe(constant(3277, 32))
	if got := m.Volume(); math.Abs(float64(got+20)) > 0.01 {
		t.Fatalf("meter reads %v, want -20", got)
	}
	m.Reset()
	if got := m.Volume(); got != spectral.DecibelFloor {
		t.Fatalf("reset meter reads %v, want floor", got)
	}
}
