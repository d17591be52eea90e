package spectral

import (
	"math"

	"gonum.org/v1/gonum/dsp/fourier"
)

// dct computes an unnormalized DCT-II,
//
//	X[k] = sum x[n] * cos(pi/N * (n + 0.5) * k)
//
// from a real FFT of the even extension [x, reverse(x)] of length 2N.
type dct struct {
	n      int
	fft    *fourier.FFT
	ext    []float64
	coeffs []complex128
	cos    []float64
	sin    []float64
}

func newDCT(n int) *dct {
	d := &dct{
		n:      n,
		fft:    fourier.NewFFT(2 * n),
		ext:    make([]float64, 2*n),
		coeffs: make([]complex128, n+1),
		cos:    make([]float64, n),
		sin:    make([]float64, n),
	}
	for k := range n {
		theta := math.Pi * float64(k) / float64(2*n)
		d.cos[k] = math.Cos(theta)
		d.sin[k] = math.Sin(theta)
	}
	return d
}

// transform writes the DCT-II of src into dst. Both must have length n.
func (d *dct) transform(dst, src []float64) {
	n := d.n
	for i, v := range src {
		d.ext[i] = v
		d.ext[2*n-1-i] = v
	}
	d.coeffs = d.fft.Coefficients(d.coeffs, d.ext)

	// Y[k] = 2 * exp(i*pi*k/2N) * X[k], so X[k] = Re(exp(-i*pi*k/2N) * Y[k]) / 2.
	for k := range n {
		c := d.coeffs[k]
		dst[k] = 0.5 * (d.cos[k]*real(c) + d.sin[k]*imag(c))
	}
}
