package hue

import (
	"math"
	"sync"
	"testing"
)

func lowHeavy() []float32 {
	return []float32{1, 0, 0, 0.0001, 0, 0, 0, 0, 0}
}

func highHeavy() []float32 {
	return []float32{0.0001, 0, 0, 1, 0, 0, 0, 0, 0}
}

func TestNewTrackerStartsAtInitialHue(t *testing.T) {
	if got := NewTracker().Hue(); got != Initial {
		t.Fatalf("expected initial hue %v, got %v", Initial, got)
	}
}

func TestUpdateSilentBandsIsNoop(t *testing.T) {
	tests := []struct {
		name string
		bars []float32
	}{
		{"all zero", make([]float32, 9)},
		{"silent low band", []float32{0, 0, 0, 5, 5, 5, 5, 5, 5}},
		{"silent high band", []float32{5, 5, 5, 0, 0, 0, 0, 0, 0}},
		{"too few bars", []float32{1, 2, 3}},
		{"nil", nil},
	}
	for _, tt := range tests {
		tr := NewTracker()
		if got := tr.Update(tt.bars); got != Initial {
			t.Fatalf("%s: expected unchanged hue %v, got %v", tt.name, Initial, got)
		}
		if tr.Hue() != Initial {
			t.Fatalf("%s: stored hue changed to %v", tt.name, tr.Hue())
		}
	}
}

func TestUpdateLowDominantSaturatesAtUpperBoundary(t *testing.T) {
	tr := NewTracker()
	prev := tr.Hue()
	for i := range 100 {
		got := tr.Update(lowHeavy())
		if got < prev {
			t.Fatalf("step %d: hue decreased from %v to %v", i, prev, got)
		}
		if got > UpperBoundary {
			t.Fatalf("step %d: hue %v overshot upper boundary %v", i, got, UpperBoundary)
		}
		prev = got
	}
	if prev != UpperBoundary {
		t.Fatalf("expected hue saturated at %v, got %v", UpperBoundary, prev)
	}
}

func TestUpdateHighDominantSaturatesAtLowerBoundary(t *testing.T) {
	tr := NewTracker()
	prev := tr.Hue()
	for i := range 200 {
		got := tr.Update(highHeavy())
		if got > prev {
			t.Fatalf("step %d: hue increased from %v to %v", i, prev, got)
		}
		if got < LowerBoundary {
			t.Fatalf("step %d: hue %v undershot lower boundary %v", i, got, LowerBoundary)
		}
		prev = got
	}
	if prev != LowerBoundary {
		t.Fatalf("expected hue saturated at %v, got %v", LowerBoundary, prev)
	}
}

func TestUpdateClampsInsteadOfWrapping(t *testing.T) {
	tr := NewTracker()
	for range 1000 {
		tr.Update(lowHeavy())
	}
	if got := tr.Update(lowHeavy()); got != UpperBoundary {
		t.Fatalf("expected clamp at %v, got %v", UpperBoundary, got)
	}
	if got := tr.Update(highHeavy()); got >= UpperBoundary || got < UpperBoundary-0.004 {
		t.Fatalf("expected one step down from the boundary, got %v", got)
	}
}

func TestStepMagnitude(t *testing.T) {
	got := step(lowHeavy())
	want := float32((1 - 0.0001) / 300)
	if math.Abs(float64(got-want)) > 1e-7 {
		t.Fatalf("step = %v, want %v", got, want)
	}

	balanced := []float32{1, 1, 1, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5}
	if got := step(balanced); got != 0 {
		t.Fatalf("balanced bands should not move the hue, got %v", got)
	}
}

func TestStepIsSymmetric(t *testing.T) {
	low := []float32{3, 3, 3, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5}
	high := []float32{1, 1, 1, 1.5, 1.5, 1.5, 1.5, 1.5, 1.5}

	up := step(low)
	down := step(high)
	if up <= 0 || down >= 0 {
		t.Fatalf("expected opposite signs, got %v and %v", up, down)
	}
	if math.Abs(float64(up+down)) > 1e-7 {
		t.Fatalf("expected equal magnitudes, got %v and %v", up, down)
	}
}

func TestHueReadableDuringUpdates(t *testing.T) {
	tr := NewTracker()
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for range 500 {
			tr.Update(lowHeavy())
		}
	}()
	go func() {
		defer wg.Done()
		for range 500 {
			h := tr.Hue()
			if h < LowerBoundary || h > UpperBoundary {
				t.Errorf("hue %v out of range", h)
				return
			}
		}
	}()
	wg.Wait()
}
