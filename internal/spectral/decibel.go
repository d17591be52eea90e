package spectral

import "math"

// DecibelFloor is the value reported for silent bins. It matches the meter
// floor used for volume, so a zero magnitude never turns into -Inf.
const DecibelFloor = -160

// Decibels converts an amplitude to 20*log10(magnitude/reference), floored at
// DecibelFloor. Negative magnitudes are rectified first.
func Decibels(magnitude, reference float64) float32 {
	magnitude = math.Abs(magnitude)
	if magnitude == 0 || reference <= 0 {
		return DecibelFloor
	}
	db := 20 * math.Log10(magnitude/reference)
	if math.IsNaN(db) || db < DecibelFloor {
		return DecibelFloor
	}
	return float32(db)
}

func amplitudeToDecibels(dst []float32, src []float64, reference float64) {
	for i, v := range src {
		dst[i] = Decibels(v, reference)
	}
}
