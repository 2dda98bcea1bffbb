//go:build !fastmath

package delay

import "math"

func exp(x float64) float64 {
	return math.Exp(x)
}

func sqrt(x float64) float64 {
	return math.Sqrt(x)
}
