package visualizer

import (
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/olivier-w/flashlight/internal/monitor"
	"github.com/olivier-w/flashlight/internal/spectral"
)

var waterfallChars = []rune{' ', '.', ':', '-', '=', '+', '*', '#', '%', '@'}

type waterfallRow struct {
	levels [spectral.BarCount]float64
	color  colorful.Color
}

// Waterfall scrolls the band history downwards, newest at the top. Each row
// keeps the display colour it was drawn with, so the hue drift stays
// visible.
type Waterfall struct {
	springs springField
	ceiling ceiling
	history []waterfallRow
	output  string
}

// NewWaterfall creates the scrolling history visualizer.
func NewWaterfall(fps int) *Waterfall {
	return &Waterfall{springs: newSpringField(fps, spectral.BarCount, 8.5, 0.72)}
}

func (w *Waterfall) Name() string { return "waterfall" }

func (w *Waterfall) Update(s monitor.Snapshot, width, height int) {
	height = max(height, 1)
	cols := max(width-2, spectral.BarCount)

	smoothed := make([]float64, spectral.BarCount)
	for i, v := range s.Bars {
		smoothed[i] = max(w.springs.step(i, float64(v)), 0)
	}
	top := w.ceiling.observe(smoothed)

	row := waterfallRow{color: s.Color.RGB}
	for i, v := range smoothed {
		row.levels[i] = clamp01(v / top)
	}
	w.history = append([]waterfallRow{row}, w.history...)
	if len(w.history) > height {
		w.history = w.history[:height]
	}

	var out strings.Builder
	color := newANSIState()
	for r := range height {
		if r > 0 {
			out.WriteByte('\n')
		}
		if r >= len(w.history) {
			out.WriteString(strings.Repeat(" ", cols))
			continue
		}
		h := w.history[r]
		age := float64(r) / float64(height)
		color.set(&out, shade(h.color, 1-age*0.65))
		for c := range cols {
			v := h.levels[c*spectral.BarCount/cols]
			out.WriteRune(waterfallChars[int(v*float64(len(waterfallChars)-1))])
		}
		color.reset(&out)
	}
	w.output = out.String()
}

func (w *Waterfall) View() string {
	return w.output
}
