package testutil

import (
	"math"
	"math/rand"
)

// DeterministicSine returns length samples of amplitude*sin(2*pi*f*n/fs).
func DeterministicSine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	w := 2 * math.Pi * freqHz / sampleRate
	for n := range out {
		out[n] = amplitude * math.Sin(w*float64(n))
	}
	return out
}

// DeterministicNoise returns uniform noise in [-amplitude, amplitude). The
// same seed always yields the same samples.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	src := rand.New(rand.NewSource(seed))
	out := make([]float64, length)
	for n := range out {
		out[n] = amplitude * (2*src.Float64() - 1)
	}
	return out
}

// NoiseInt16 returns n samples of half-scale 16-bit noise, suitable as an
// interleaved stereo buffer when n is even.
func NoiseInt16(seed int64, n int) []int16 {
	out := make([]int16, n)
	for i, x := range DeterministicNoise(seed, 0.5, n) {
		out[i] = int16(x * math.MaxInt16)
	}
	return out
}

// Impulse returns length zeros with a 1 at pos. An out-of-range pos yields
// silence.
func Impulse(length, pos int) []float64 {
	out := make([]float64, length)
	if pos >= 0 && pos < length {
		out[pos] = 1
	}
	return out
}

// DC returns length copies of value.
func DC(value float64, length int) []float64 {
	out := make([]float64, length)
	for n := range out {
		out[n] = value
	}
	return out
}

// Energy returns the sum of squares of x.
func Energy(x []float64) float64 {
	var e float64
	for _, v := range x {
		e += v * v
	}
	return e
}
