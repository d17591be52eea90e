package spectral

import (
	"math"
	"math/rand/v2"
	"testing"
)

func directDCT(src []float64) []float64 {
	n := len(src)
	out := make([]float64, n)
	for k := range n {
		var sum float64
		for i, v := range src {
			sum += v * math.Cos(math.Pi*(float64(i)+0.5)*float64(k)/float64(n))
		}
		out[k] = sum
	}
	return out
}

func TestDCTMatchesDirectSum(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	for _, n := range []int{2, 8, 17, 64, SampleCount} {
		src := make([]float64, n)
		for i := range src {
			src[i] = r.Float64()*2 - 1
		}

		got := make([]float64, n)
		newDCT(n).transform(got, src)
		want := directDCT(src)

		for k := range n {
			if math.Abs(got[k]-want[k]) > 1e-9*float64(n) {
				t.Fatalf("n=%d bin %d: got %v, want %v", n, k, got[k], want[k])
			}
		}
	}
}

func TestDCTOfConstantIsDCOnly(t *testing.T) {
	const n = 32
	src := make([]float64, n)
	for i := range src {
		src[i] = 1
	}
	got := make([]float64, n)
	newDCT(n).transform(got, src)

	if math.Abs(got[0]-n) > 1e-9 {
		t.Fatalf("DC bin = %v, want %d", got[0], n)
	}
	for k := 1; k < n; k++ {
		if math.Abs(got[k]) > 1e-9 {
			t.Fatalf("bin %d = %v, want 0", k, got[k])
		}
	}
}

func TestHannWindowIsPeriodicAndDenormalized(t *testing.T) {
	w := hannWindow(SampleCount)
	if len(w) != SampleCount {
		t.Fatalf("window length %d, want %d", len(w), SampleCount)
	}
	if math.Abs(w[0]) > 1e-12 {
		t.Fatalf("w[0] = %v, want 0", w[0])
	}
	if math.Abs(w[SampleCount/2]-1) > 1e-12 {
		t.Fatalf("w[N/2] = %v, want 1", w[SampleCount/2])
	}
	for n := 1; n < SampleCount; n++ {
		want := 0.5 * (1 - math.Cos(2*math.Pi*float64(n)/SampleCount))
		if math.Abs(w[n]-want) > 1e-12 {
			t.Fatalf("w[%d] = %v, want %v", n, w[n], want)
		}
	}
}
