package ir

import (
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
)

// powerSpectrum returns |X[k]|^2 for k in [0, n/2] of the Hann-windowed x,
// zero-padded to the next power of two.
func powerSpectrum(x []float64) ([]float64, int, error) {
	if len(x) == 0 {
		return nil, 0, ErrEmpty
	}

	n := nextPowerOf2(len(x))
	plan, err := algofft.NewPlan64(n)
	if err != nil {
		return nil, 0, fmt.Errorf("ir: fft plan: %w", err)
	}

	in := make([]complex128, n)
	scale := 2 * math.Pi / float64(len(x))
	for i, v := range x {
		w := 0.5 - 0.5*math.Cos(scale*float64(i))
		in[i] = complex(v*w, 0)
	}

	spec := make([]complex128, n)
	if err := plan.Forward(spec, in); err != nil {
		return nil, 0, fmt.Errorf("ir: fft: %w", err)
	}

	power := make([]float64, n/2+1)
	for k := range power {
		re, im := real(spec[k]), imag(spec[k])
		power[k] = re*re + im*im
	}

	return power, n, nil
}

// SpectralCentroid returns the power-weighted mean frequency of x in Hz.
func (a *Analyzer) SpectralCentroid(x []float64) (float64, error) {
	power, n, err := powerSpectrum(x)
	if err != nil {
		return 0, err
	}

	binHz := a.sampleRate / float64(n)

	var num, den float64
	for k, p := range power {
		num += float64(k) * binHz * p
		den += p
	}
	if den == 0 {
		return 0, ErrSilent
	}

	return num / den, nil
}

// BandEnergy returns the fraction of the energy of x that falls between
// loHz and hiHz.
func (a *Analyzer) BandEnergy(x []float64, loHz, hiHz float64) (float64, error) {
	if !(loHz >= 0 && hiHz > loHz) {
		return 0, fmt.Errorf("ir: invalid band %g-%g Hz", loHz, hiHz)
	}

	power, n, err := powerSpectrum(x)
	if err != nil {
		return 0, err
	}

	binHz := a.sampleRate / float64(n)

	var in, total float64
	for k, p := range power {
		f := float64(k) * binHz
		total += p
		if f >= loHz && f < hiHz {
			in += p
		}
	}
	if total == 0 {
		return 0, ErrSilent
	}

	return in / total, nil
}

func nextPowerOf2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
