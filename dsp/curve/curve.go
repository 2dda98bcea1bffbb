package curve

import "math"

// Response evaluates (base^(exponent*x) - 1) / (base^exponent - 1).
//
// x is clamped to [0,1]. base must be > 1 and exponent > 0; otherwise the
// identity mapping is returned.
func Response(x, base, exponent float64) float64 {
	switch {
	case math.IsNaN(x) || x <= 0:
		return 0
	case x >= 1:
		return 1
	}

	if base <= 1 || exponent <= 0 {
		return x
	}

	return (math.Pow(base, exponent*x) - 1) / (math.Pow(base, exponent) - 1)
}

// TwoDecade spans two decades (base 10, exponent 2).
func TwoDecade(x float64) float64 { return Response(x, 10, 2) }

// ThreeDecade spans three decades (base 10, exponent 3).
func ThreeDecade(x float64) float64 { return Response(x, 10, 3) }

// FourOctave spans four octaves (base 2, exponent 4).
func FourOctave(x float64) float64 { return Response(x, 2, 4) }
