package visualizer

import (
	"strings"

	"github.com/olivier-w/flashlight/internal/monitor"
	"github.com/olivier-w/flashlight/internal/spectral"
)

var barChars = []rune(" ▁▂▃▄▅▆▇█")

// Bars draws the nine band energies as vertical bars in the display colour,
// darker towards the baseline.
type Bars struct {
	springs springField
	ceiling ceiling
	output  string
}

// NewBars creates the bar visualizer.
func NewBars(fps int) *Bars {
	return &Bars{springs: newSpringField(fps, spectral.BarCount, 9.0, 0.75)}
}

func (b *Bars) Name() string { return "bars" }

func (b *Bars) Update(s monitor.Snapshot, width, height int) {
	height = max(height, 1)

	levels := make([]float64, spectral.BarCount)
	for i, v := range s.Bars {
		levels[i] = max(b.springs.step(i, float64(v)), 0)
	}
	top := b.ceiling.observe(levels)

	colWidth := max((width-2)/spectral.BarCount, 1)
	gap := 1
	if colWidth <= 1 {
		gap = 0
	}

	var out strings.Builder
	color := newANSIState()
	for row := range height {
		if row > 0 {
			out.WriteByte('\n')
		}
		rowFromBottom := float64(height - 1 - row)
		color.set(&out, shade(s.Color.RGB, 0.35+0.65*(rowFromBottom+1)/float64(height)))
		for i := range spectral.BarCount {
			if i > 0 && gap > 0 {
				out.WriteByte(' ')
			}
			ch := barRune(levels[i]/top*float64(height), rowFromBottom)
			for range colWidth - gap {
				out.WriteRune(ch)
			}
		}
		color.reset(&out)
	}
	b.output = out.String()
}

// barRune picks the block for one cell of a bar that is level cells tall.
func barRune(level, rowFromBottom float64) rune {
	switch {
	case level >= rowFromBottom+1:
		return barChars[len(barChars)-1]
	case level > rowFromBottom:
		return barChars[int((level-rowFromBottom)*float64(len(barChars)-1))]
	default:
		return barChars[0]
	}
}

func (b *Bars) View() string {
	return b.output
}
