package visualizer

import (
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/olivier-w/flashlight/internal/monitor"
	"github.com/olivier-w/flashlight/internal/spectral"
	"github.com/olivier-w/flashlight/internal/torch"
	"github.com/olivier-w/flashlight/internal/util"
)

var (
	levelQuiet  = colorful.Color{R: 0.35, G: 0.35, B: 0.4}
	levelMarker = colorful.Color{R: 1, G: 0.99, B: 0.82}
)

// Level draws the metered volume against the torch threshold with a
// decaying peak hold. The part of the bar above the threshold, which is what
// lights the torch, is drawn in the display colour.
type Level struct {
	level  float64
	peak   float64
	output string
}

// NewLevel creates the volume meter.
func NewLevel() *Level {
	return &Level{}
}

func (l *Level) Name() string { return "level" }

func (l *Level) Update(s monitor.Snapshot, width, height int) {
	target := levelPosition(s.Volume)

	const (
		attack    = 0.6
		release   = 0.15
		peakDecay = 0.01
	)
	if target > l.level {
		l.level = l.level*(1-attack) + target*attack
	} else {
		l.level = l.level*(1-release) + target*release
	}
	if l.level > l.peak {
		l.peak = l.level
	} else {
		l.peak = max(l.peak-peakDecay, 0)
	}

	barWidth := max(width-6, 10)
	bar := renderLevelBar(l.level, l.peak, levelPosition(s.Threshold), barWidth, s.Color.RGB)

	status := "torch off"
	if s.Torch.On {
		status = "torch " + util.FormatPercent(float64(s.Torch.Intensity))
	}
	caption := fmt.Sprintf(" %s  threshold %s  %s",
		util.FormatDecibels(s.Volume, spectral.DecibelFloor),
		util.FormatDecibels(s.Threshold, spectral.DecibelFloor),
		status)

	var sb strings.Builder
	pad := max((height-3)/2, 0)
	sb.WriteString(strings.Repeat("\n", pad))
	sb.WriteString(" ▶  ")
	sb.WriteString(bar)
	sb.WriteString("\n\n")
	sb.WriteString(caption)
	l.output = sb.String()
}

// levelPosition maps a level in dB to [0, 1] over the threshold range
// MinThreshold..0.
func levelPosition(db float32) float64 {
	return clamp01(float64(db-torch.MinThreshold) / -torch.MinThreshold)
}

func renderLevelBar(level, peak, threshold float64, width int, lit colorful.Color) string {
	filled := int(level * float64(width))
	peakPos := min(int(peak*float64(width)), width-1)
	mark := min(int(threshold*float64(width)), width-1)

	var sb strings.Builder
	color := newANSIState()
	for i := range width {
		var ch rune
		switch {
		case i == mark:
			ch = '┃'
			color.set(&sb, levelMarker)
		case i < filled:
			ch = '█'
			if i > mark {
				color.set(&sb, lit)
			} else {
				color.set(&sb, levelQuiet)
			}
		case i == peakPos && peakPos > 0:
			ch = '│'
			color.set(&sb, levelMarker)
		default:
			ch = '─'
			color.set(&sb, levelQuiet)
		}
		sb.WriteRune(ch)
	}
	color.reset(&sb)
	return sb.String()
}

func (l *Level) View() string {
	return l.output
}
