package capture

import (
	"sync"

	"github.com/olivier-w/flashlight/internal/spectral"
)

// Framer cuts a mono sample stream into overlapping analysis frames of
// spectral.SampleCount samples, one every spectral.HopCount samples.
type Framer struct {
	mu      sync.Mutex
	pending []int16
	size    int
	hop     int
}

// NewFramer returns a Framer for the analysis frame and hop size.
func NewFramer() *Framer {
	return newFramer(spectral.SampleCount, spectral.HopCount)
}

func newFramer(size, hop int) *Framer {
	return &Framer{
		pending: make([]int16, 0, 2*size),
		size:    size,
		hop:     hop,
	}
}

// Push appends samples and calls emit with every frame that became complete,
// returning how many were emitted. Frames passed to emit are fresh copies.
func (f *Framer) Push(samples []int16, emit func(frame []int16)) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.pending = append(f.pending, samples...)

	n := 0
	for len(f.pending) >= f.size {
		frame := make([]int16, f.size)
		copy(frame, f.pending[:f.size])
		f.pending = f.pending[:copy(f.pending, f.pending[f.hop:])]
		emit(frame)
		n++
	}
	return n
}

// Pending returns how many samples are waiting for the next frame.
func (f *Framer) Pending() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.pending)
}

// Reset drops any partial frame.
func (f *Framer) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pending = f.pending[:0]
}
