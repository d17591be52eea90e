package hue

import (
	"math"
	"sync"
	"sync/atomic"
)

const (
	// Initial is the hue a new Tracker starts at.
	Initial = float32(194.0 / 360.0)
	// LowerBoundary is the hue reached when high frequencies dominate.
	LowerBoundary = float32(32.0 / 360.0)
	// UpperBoundary is the hue reached when low frequencies dominate.
	UpperBoundary = float32(274.0 / 360.0)

	// damping slows the drift; a full imbalance moves the hue by 1/300 per update.
	damping = 300
	// lowBands is how many leading bars count as the low band.
	lowBands = 3
)

// Tracker keeps a hue that drifts towards whichever end of the spectrum is
// louder. Update is serialized; Hue may be called from any goroutine.
type Tracker struct {
	mu   sync.Mutex
	bits atomic.Uint32
}

// NewTracker returns a Tracker at Initial.
func NewTracker() *Tracker {
	t := &Tracker{}
	t.bits.Store(math.Float32bits(Initial))
	return t
}

// Hue returns the current hue in [LowerBoundary, UpperBoundary].
func (t *Tracker) Hue() float32 {
	return math.Float32frombits(t.bits.Load())
}

// Update moves the hue by the step derived from bars and returns the new
// value. Silent low or high bands leave the hue unchanged.
func (t *Tracker) Update(bars []float32) float32 {
	t.mu.Lock()
	defer t.mu.Unlock()

	hue := t.Hue()
	delta := step(bars)
	if delta == 0 {
		return hue
	}

	next := hue + delta
	switch {
	case next > UpperBoundary:
		next = UpperBoundary
	case next < LowerBoundary:
		next = LowerBoundary
	}
	t.bits.Store(math.Float32bits(next))
	return next
}

// step returns the signed hue change for bars: (1 - ratio) / damping, where
// ratio is the smaller band sum over the larger, negative when the high band
// is louder.
func step(bars []float32) float32 {
	if len(bars) <= lowBands {
		return 0
	}

	var low, high float32
	for _, v := range bars[:lowBands] {
		low += v
	}
	for _, v := range bars[lowBands:] {
		high += v
	}
	if low == 0 || high == 0 {
		return 0
	}

	ratio := low / high
	if ratio > 1 {
		ratio = 1 / ratio
	}
	delta := (1 - ratio) / damping
	if low < high {
		delta = -delta
	}
	return delta
}
