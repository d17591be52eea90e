// Package visualizer draws monitor snapshots as terminal art.
package visualizer

import "github.com/olivier-w/flashlight/internal/monitor"

// Visualizer renders the analysis state.
type Visualizer interface {
	Name() string
	Update(s monitor.Snapshot, width, height int)
	View() string
}

// Modes returns all available visualizers, animated for the given refresh
// rate.
func Modes(fps int) []Visualizer {
	return []Visualizer{
		NewBars(fps),
		NewShape(fps),
		NewWaterfall(fps),
		NewLevel(),
	}
}

// fullScale is the bar value drawn at full height before the adaptive
// ceiling grows. Loud broadband material lands around 110-130.
const fullScale = 140

// ceiling tracks the largest recent bar so loud material does not clip.
type ceiling struct {
	value float64
}

func (c *ceiling) observe(bars []float64) float64 {
	const decay = 0.995
	peak := 0.0
	for _, v := range bars {
		peak = max(peak, v)
	}
	c.value = max(c.value*decay, peak, fullScale)
	return c.value
}
