package ir

import (
	"fmt"
	"math"
)

// WindowEnergies splits x into consecutive windows of size samples and
// returns the energy of each. A trailing partial window is dropped.
func WindowEnergies(x []float64, size int) ([]float64, error) {
	if size <= 0 {
		return nil, fmt.Errorf("ir: window size must be > 0: %d", size)
	}

	out := make([]float64, len(x)/size)
	for w := range out {
		var e float64
		for _, v := range x[w*size : (w+1)*size] {
			e += v * v
		}
		out[w] = e
	}

	return out, nil
}

// EnergyDB converts window energies to dB relative to the first window.
// Windows without energy report -Inf.
func EnergyDB(energies []float64) []float64 {
	out := make([]float64, len(energies))
	if len(energies) == 0 {
		return out
	}

	ref := energies[0]
	for i, e := range energies {
		if e <= 0 || ref <= 0 {
			out[i] = math.Inf(-1)
			continue
		}
		out[i] = 10 * math.Log10(e/ref)
	}

	return out
}

// Correlation returns the zero-lag normalized cross-correlation of a and b
// over their common length, in [-1, 1]. It is zero when either input is
// silent.
func Correlation(a, b []float64) float64 {
	n := min(len(a), len(b))

	var ab, aa, bb float64
	for i := range n {
		ab += a[i] * b[i]
		aa += a[i] * a[i]
		bb += b[i] * b[i]
	}
	if aa == 0 || bb == 0 {
		return 0
	}

	return max(-1, min(1, ab/math.Sqrt(aa*bb)))
}
