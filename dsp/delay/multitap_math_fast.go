//go:build fastmath

package delay

import (
	"github.com/meko-christian/algo-approx"
)

// Tap weights are recomputed on every parameter change; the approximations
// stay well below the resolution of 16-bit output.

func exp(x float64) float64 {
	return approx.FastExp(x)
}

func sqrt(x float64) float64 {
	return approx.FastSqrt(x)
}
