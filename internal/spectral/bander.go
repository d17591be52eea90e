// Package spectral folds one frame of PCM audio into a short vector of
// non-uniform frequency band energies.
package spectral

import (
	"errors"
	"fmt"
	"sync"

	"github.com/cwbudde/algo-vecmath"
)

const (
	// SampleCount is the number of samples per analysis frame.
	SampleCount = 1024
	// HopCount is the distance between the starts of consecutive frames.
	HopCount = 512
	// BarCount is the number of bands produced per frame.
	BarCount = 9

	// amplification stretches the averaged decibels into display units.
	amplification = 3
)

// boundaries are bin indices; band i covers [boundaries[i], boundaries[i+1]).
// Bins from 800 up are never read.
var boundaries = [BarCount + 1]int{0, 2, 5, 11, 26, 51, 101, 251, 501, 800}

// ErrFrameLength is returned when a frame does not hold exactly SampleCount samples.
var ErrFrameLength = errors.New("spectral: frame must hold exactly 1024 samples")

// Bars holds one band energy per band, low to high frequency. Values are >= 0.
type Bars [BarCount]float32

// Spectrum holds one decibel value per transform bin.
type Spectrum [SampleCount]float32

// Sum returns the total of all bars.
func (b Bars) Sum() float32 {
	var s float32
	for _, v := range b {
		s += v
	}
	return s
}

// Bander turns raw frames into Bars. Its scratch buffers are reused between
// calls, so all access goes through mu.
type Bander struct {
	mu         sync.Mutex
	window     []float64
	dct        *dct
	timeDomain []float64
	freqDomain []float64
	spectrum   Spectrum
	latest     Bars
	generation uint64
}

// NewBander creates a Bander for SampleCount-sample frames.
func NewBander() *Bander {
	return &Bander{
		window:     hannWindow(SampleCount),
		dct:        newDCT(SampleCount),
		timeDomain: make([]float64, SampleCount),
		freqDomain: make([]float64, SampleCount),
	}
}

// ComputeBars windows the frame, applies a DCT-II, converts the magnitudes to
// decibels relative to SampleCount and averages them over the fixed band table.
// A frame of the wrong length is rejected and leaves the Bander untouched.
func (b *Bander) ComputeBars(frame []int16) (Bars, error) {
	if len(frame) != SampleCount {
		return Bars{}, fmt.Errorf("%w: got %d", ErrFrameLength, len(frame))
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	for i, s := range frame {
		b.timeDomain[i] = float64(s)
	}
	vecmath.MulBlockInPlace(b.timeDomain, b.window)

	b.dct.transform(b.freqDomain, b.timeDomain)
	amplitudeToDecibels(b.spectrum[:], b.freqDomain, SampleCount)

	b.latest = reduceUnevenly(&b.spectrum)
	b.generation++
	return b.latest, nil
}

// MustComputeBars is like ComputeBars but panics on a malformed frame.
func (b *Bander) MustComputeBars(frame []int16) Bars {
	bars, err := b.ComputeBars(frame)
	if err != nil {
		panic(err)
	}
	return bars
}

// Latest returns the most recent bars and how many frames have produced bars
// so far. The count lets readers tell a fresh vector from one already seen.
func (b *Bander) Latest() (Bars, uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.latest, b.generation
}

// Spectrum returns a copy of the decibel spectrum of the most recent frame.
func (b *Bander) Spectrum() Spectrum {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.spectrum
}

func reduceUnevenly(s *Spectrum) Bars {
	var bars Bars
	for i := range BarCount {
		lo, hi := boundaries[i], boundaries[i+1]
		var sum float32
		for _, v := range s[lo:hi] {
			sum += v
		}
		v := sum / float32(hi-lo) * amplification
		if v < 0 {
			v = 0
		}
		bars[i] = v
	}
	return bars
}
