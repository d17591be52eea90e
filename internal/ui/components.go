package ui

import (
	"fmt"
	"strings"

	"github.com/olivier-w/flashlight/internal/monitor"
	"github.com/olivier-w/flashlight/internal/util"
)

func renderProgressBar(elapsed, total float64, width int) string {
	barWidth := max(width, 10) - 2

	var ratio float64
	if total > 0 {
		ratio = min(max(elapsed/total, 0), 1)
	}
	filled := int(ratio * float64(barWidth))
	return strings.Repeat("━", filled) + strings.Repeat("─", barWidth-filled)
}

func renderVolumePercent(vol float64) string {
	return "vol " + util.FormatPercent(vol)
}

// renderHueLine shows the hue as a swatch, in degrees and as hex, plus the
// current polygon side count.
func renderHueLine(s monitor.Snapshot) string {
	hex := s.Color.Hex()
	return fmt.Sprintf("%s%s %s  %s",
		labelStyle.Render("hue"),
		swatch(hex, 4),
		statusStyle.Render(fmt.Sprintf("%3.0f°", s.Color.Degrees())),
		timeStyle.Render(fmt.Sprintf("%s  sides %.1f", hex, s.Sides)),
	)
}

func renderTorchCaption(s monitor.Snapshot) string {
	state := "off"
	if s.Torch.On {
		state = util.FormatPercent(float64(s.Torch.Intensity))
	}
	mode := ""
	if s.Strict {
		mode = "  strict"
	}
	return fmt.Sprintf("%-4s threshold %.0f dB%s", state, s.Threshold, mode)
}

func spaces(n int) string {
	return strings.Repeat(" ", max(n, 0))
}
