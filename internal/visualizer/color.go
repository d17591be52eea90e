package visualizer

import (
	"strings"
	"sync"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/termenv"
)

var (
	profileOnce sync.Once
	profile     termenv.Profile
)

func currentColorProfile() termenv.Profile {
	profileOnce.Do(func() {
		profile = termenv.EnvColorProfile()
	})
	return profile
}

func clamp01(v float64) float64 {
	return min(max(v, 0), 1)
}

// shade scales c towards black; t=1 keeps it, t=0 is black.
func shade(c colorful.Color, t float64) colorful.Color {
	t = clamp01(t)
	return colorful.Color{R: c.R * t, G: c.G * t, B: c.B * t}
}

// ansiState writes foreground colour changes only when the colour differs
// from the previous rune's.
type ansiState struct {
	profile termenv.Profile
	current string
}

func newANSIState() ansiState {
	return ansiState{profile: currentColorProfile()}
}

func (s *ansiState) set(sb *strings.Builder, c colorful.Color) {
	if s.profile == termenv.Ascii {
		return
	}
	hex := c.Clamped().Hex()
	if hex == s.current {
		return
	}
	seq := s.profile.Color(hex).Sequence(false)
	if seq == "" {
		return
	}
	sb.WriteString(termenv.CSI + seq + "m")
	s.current = hex
}

func (s *ansiState) reset(sb *strings.Builder) {
	if s.current == "" {
		return
	}
	sb.WriteString(termenv.CSI + termenv.ResetSeq + "m")
	s.current = ""
}
