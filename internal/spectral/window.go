package spectral

import "gonum.org/v1/gonum/dsp/window"

// hannWindow returns the full, denormalized, periodic Hann window
// w[n] = 0.5 * (1 - cos(2*pi*n/N)). gonum generates the symmetric form over
// N-1, so it is built one sample longer and truncated.
func hannWindow(n int) []float64 {
	seq := make([]float64, n+1)
	for i := range seq {
		seq[i] = 1
	}
	return window.Hann(seq)[:n]
}
