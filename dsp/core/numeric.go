package core

import "math"

// Clamp returns v limited to [lo, hi]. lo must not exceed hi.
func Clamp(v, lo, hi float64) float64 {
	return max(lo, min(v, hi))
}

// Clamp01 limits v to [0, 1]; NaN becomes 0.
func Clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return Clamp(v, 0, 1)
}

// IsFinite reports whether x is neither NaN nor infinite.
func IsFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// DBToLinear converts a level in dB to an amplitude factor.
func DBToLinear(db float64) float64 {
	return math.Pow(10, db/20)
}

// MsToSamples converts milliseconds to a fractional sample count.
func MsToSamples(ms, sampleRate float64) float64 {
	return ms / 1000 * sampleRate
}

// FlushDenormals zeroes every sample with x*x below threshold, keeping
// recursive paths out of the subnormal range during silence.
func FlushDenormals(buf []float64, threshold float64) {
	for i, x := range buf {
		if x*x < threshold {
			buf[i] = 0
		}
	}
}
