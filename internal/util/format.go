package util

import (
	"fmt"
	"time"
)

// FormatDuration formats a duration as m:ss.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d.Seconds())
	m := total / 60
	s := total % 60
	return fmt.Sprintf("%d:%02d", m, s)
}

// FormatDecibels formats a level such as -31.4 dB, with silence at the floor
// shown as -inf.
func FormatDecibels(db, floor float32) string {
	if db <= floor {
		return "-inf dB"
	}
	return fmt.Sprintf("%.1f dB", db)
}

// FormatPercent formats a fraction in [0, 1] as a whole percentage.
func FormatPercent(v float64) string {
	return fmt.Sprintf("%d%%", int(v*100+0.5))
}
