package capture

import (
	"math"
	"sync/atomic"

	"github.com/olivier-w/flashlight/internal/spectral"
)

// Meter reports the average power of the most recent samples in dBFS,
// between spectral.DecibelFloor (silence) and 0 (full scale).
type Meter struct {
	bits atomic.Uint32
}

// NewMeter returns a Meter reading silence.
func NewMeter() *Meter {
	m := &Meter{}
	m.Reset()
	return m
}

// Observe replaces the reading with the average power of samples.
func (m *Meter) Observe(samples []int16) {
	m.bits.Store(math.Float32bits(AveragePower(samples)))
}

// Volume returns the latest reading.
func (m *Meter) Volume() float32 {
	return math.Float32frombits(m.bits.Load())
}

// Reset sets the reading back to silence.
func (m *Meter) Reset() {
	m.bits.Store(math.Float32bits(spectral.DecibelFloor))
}

// AveragePower returns 20*log10(rms/32768) for samples, floored at
// spectral.DecibelFloor and capped at 0.
func AveragePower(samples []int16) float32 {
	if len(samples) == 0 {
		return spectral.DecibelFloor
	}
	var sum float64
	for _, s := range samples {
		v := float64(s)
		sum += v * v
	}
	rms := math.Sqrt(sum / float64(len(samples)))
	db := spectral.Decibels(rms, 32768)
	if db > 0 {
		return 0
	}
	return db
}
