package torch

import "sync"

const (
	// MinVolume is the meter reading for silence.
	MinVolume = -160
	// MinThreshold and MaxThreshold bound the user sensitivity setting.
	MinThreshold = -60
	MaxThreshold = 0
	// DefaultThreshold is the sensitivity a fresh Settings starts with.
	DefaultThreshold = -30

	overlayMin = 0.1
	overlayMax = 0.6
)

// Level is a torch state: off, or on at an intensity in [0, 1].
type Level struct {
	On        bool
	Intensity float32
}

// Off is the torch switched off.
var Off = Level{}

// Intensity maps a metered volume in dB to a torch level. At or below the
// threshold the torch is off; strict mode turns it fully on, otherwise the
// intensity grows linearly from 0 at the threshold to 1 at 0 dB.
func Intensity(volume, threshold float32, strict bool) Level {
	if volume <= threshold {
		return Off
	}
	if strict {
		return Level{On: true, Intensity: 1}
	}
	var level float32 = 1
	if threshold != 0 {
		level = 1 + volume/-threshold
	}
	return Level{On: true, Intensity: clamp(level, 0, 1)}
}

// Offset is how far the volume sits above the threshold, scaled so that the
// threshold maps to 0 and 0 dB maps to 1.
func Offset(volume, threshold float32) float32 {
	if threshold == 0 {
		return 0
	}
	return 1 - volume/threshold
}

// OverlayOpacity is the darkening applied over the torch screen. Quiet input
// keeps the screen at the darkest overlay.
func OverlayOpacity(volume, threshold float32) float32 {
	if volume <= threshold {
		return overlayMax
	}
	return clamp(4*Offset(volume, threshold), overlayMin, overlayMax)
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Settings holds the user's sensitivity threshold and strict flag.
type Settings struct {
	mu        sync.Mutex
	threshold float32
	strict    bool
}

// NewSettings returns settings with the threshold clamped to range.
func NewSettings(threshold float32, strict bool) *Settings {
	s := &Settings{strict: strict}
	s.SetThreshold(threshold)
	return s
}

// Threshold returns the current threshold in dB.
func (s *Settings) Threshold() float32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.threshold
}

// SetThreshold sets the threshold, clamped to [MinThreshold, MaxThreshold].
func (s *Settings) SetThreshold(v float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.threshold = clamp(v, MinThreshold, MaxThreshold)
}

// AdjustThreshold moves the threshold by delta dB.
func (s *Settings) AdjustThreshold(delta float32) {
	s.SetThreshold(s.Threshold() + delta)
}

// Strict reports whether strict mode is on.
func (s *Settings) Strict() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.strict
}

// ToggleStrict flips strict mode and returns the new value.
func (s *Settings) ToggleStrict() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.strict = !s.strict
	return s.strict
}

// Level evaluates Intensity for volume with the current settings.
func (s *Settings) Level(volume float32) Level {
	s.mu.Lock()
	threshold, strict := s.threshold, s.strict
	s.mu.Unlock()
	return Intensity(volume, threshold, strict)
}
