package hue

import (
	"github.com/lucasb-eyer/go-colorful"
)

// Fixed components of the display colour; only the hue moves.
const (
	Saturation = 0.82
	Brightness = 1.0
	Alpha      = 1.0
)

// Color is an HSBA colour with its RGB rendering.
type Color struct {
	Hue        float32
	Saturation float64
	Brightness float64
	Alpha      float64
	RGB        colorful.Color
}

// DisplayColor builds the background colour for a hue in [0, 1).
func DisplayColor(hue float32) Color {
	return Color{
		Hue:        hue,
		Saturation: Saturation,
		Brightness: Brightness,
		Alpha:      Alpha,
		RGB:        colorful.Hsv(float64(hue)*360, Saturation, Brightness),
	}
}

// Hex returns the colour as #rrggbb.
func (c Color) Hex() string {
	return c.RGB.Clamped().Hex()
}

// Degrees returns the hue on a 0..360 wheel.
func (c Color) Degrees() float64 {
	return float64(c.Hue) * 360
}
