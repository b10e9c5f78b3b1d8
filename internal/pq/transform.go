package pq

import "math"

// ST 2084 constants in the form the transform consumes them.
const (
	m2Inverse = 1.0 / 78.84375
	c1        = 0.8359375
	c2        = 18.8515625
	c3        = 18.6875
	m1Inverse = 1.0 / 0.1593017578
)

// Transform maps a normalized code value to normalized luminance in [0,1],
// where 1 is 10000 nits.
//
// Values at or below zero map to zero. The result is NaN when v is large
// enough to drive the denominator to zero or below (v of roughly 2 and up);
// BuildTable reports that as ErrNumericAnomaly.
func Transform(v float64) float64 {
	if v <= 0 || math.IsNaN(v) {
		return 0
	}
	t := math.Pow(v, m2Inverse)
	den := c2 - c3*t
	if den <= 0 {
		return math.NaN()
	}
	num := math.Max(t-c1, 0)
	return math.Pow(num/den, m1Inverse)
}

// Nits scales a normalized luminance value to absolute nits.
func Nits(l float64) float64 {
	return l * PeakNits
}

// PeakNits is the absolute luminance of a normalized value of 1.
const PeakNits = 10000.0
