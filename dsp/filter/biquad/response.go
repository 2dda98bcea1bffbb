package biquad

import (
	"math"
	"math/cmplx"
)

// Response evaluates H(z) on the unit circle at freqHz.
func (c *Coefficients) Response(freqHz, sampleRate float64) complex128 {
	zi := cmplx.Rect(1, -2*math.Pi*freqHz/sampleRate) // z^-1
	num := complex(c.B0, 0) + zi*(complex(c.B1, 0)+zi*complex(c.B2, 0))
	den := 1 + zi*(complex(c.A1, 0)+zi*complex(c.A2, 0))
	return num / den
}

// MagnitudeSquared returns |H|^2 at freqHz without complex arithmetic:
// |p0 + p1 z^-1 + p2 z^-2|^2 = p0²+p1²+p2² + 2(p0p1+p1p2)cos w + 2p0p2 cos 2w.
func (c *Coefficients) MagnitudeSquared(freqHz, sampleRate float64) float64 {
	w := 2 * math.Pi * freqHz / sampleRate
	cw, c2w := math.Cos(w), math.Cos(2*w)
	power := func(p0, p1, p2 float64) float64 {
		return p0*p0 + p1*p1 + p2*p2 + 2*(p0*p1+p1*p2)*cw + 2*p0*p2*c2w
	}
	return power(c.B0, c.B1, c.B2) / power(1, c.A1, c.A2)
}

// MagnitudeDB returns the gain at freqHz in dB.
func (c *Coefficients) MagnitudeDB(freqHz, sampleRate float64) float64 {
	return 10 * math.Log10(c.MagnitudeSquared(freqHz, sampleRate))
}

// ImpulseResponse returns the first n samples of the impulse response. The
// section's state is left as it was.
func (s *Section) ImpulseResponse(n int) []float64 {
	if n <= 0 {
		return nil
	}
	probe := Section{Coefficients: s.Coefficients}
	ir := make([]float64, n)
	ir[0] = probe.ProcessSample(1)
	for i := 1; i < n; i++ {
		ir[i] = probe.ProcessSample(0)
	}
	return ir
}
