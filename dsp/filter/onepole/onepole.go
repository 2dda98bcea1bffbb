package onepole

import (
	"fmt"
	"math"
)

const (
	lowpassSilence  = 1e-7
	highpassSilence = 1e-6

	// Cutoffs at or above Nyquist are pulled down to this fraction of fs.
	maxCutoffRatio = 0.499
)

// coefficient returns the feedback coefficient for cutoffHz at sampleRate.
func coefficient(cutoffHz, sampleRate float64) float64 {
	hz := cutoffHz
	if hz >= sampleRate*0.5 {
		hz = sampleRate * maxCutoffRatio
	}
	if hz < 0 {
		hz = 0
	}

	x := 2 * math.Pi * hz / sampleRate
	nn := 2 - math.Cos(x)

	return nn - math.Sqrt(nn*nn-1)
}

func validate(sampleRate, cutoffHz float64) error {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return fmt.Errorf("onepole: sample rate must be > 0: %f", sampleRate)
	}
	if cutoffHz < 0 || math.IsNaN(cutoffHz) || math.IsInf(cutoffHz, 0) {
		return fmt.Errorf("onepole: cutoff must be >= 0: %f", cutoffHz)
	}
	return nil
}

// Lowpass is a one-pole low-pass filter.
type Lowpass struct {
	sampleRate float64
	cutoff     float64
	b0, a1     float64
	y          float64
}

// NewLowpass returns a low-pass filter at cutoffHz.
func NewLowpass(sampleRate, cutoffHz float64) (*Lowpass, error) {
	if err := validate(sampleRate, cutoffHz); err != nil {
		return nil, err
	}

	f := &Lowpass{sampleRate: sampleRate, cutoff: cutoffHz}
	f.update()

	return f, nil
}

// SetCutoff sets the cutoff frequency in Hz. Negative or non-finite values
// are ignored.
func (f *Lowpass) SetCutoff(hz float64) {
	if hz < 0 || math.IsNaN(hz) || math.IsInf(hz, 0) {
		return
	}
	f.cutoff = hz
	f.update()
}

// SetSampleRate recomputes coefficients for a new sample rate.
func (f *Lowpass) SetSampleRate(sampleRate float64) error {
	if err := validate(sampleRate, f.cutoff); err != nil {
		return err
	}
	f.sampleRate = sampleRate
	f.update()
	return nil
}

// Cutoff returns the configured cutoff in Hz.
func (f *Lowpass) Cutoff() float64 { return f.cutoff }

// Coefficient returns the feedback coefficient.
func (f *Lowpass) Coefficient() float64 { return f.a1 }

func (f *Lowpass) update() {
	f.a1 = coefficient(f.cutoff, f.sampleRate)
	f.b0 = 1 - f.a1
}

// ProcessSample filters one sample.
func (f *Lowpass) ProcessSample(x float64) float64 {
	if x == 0 && math.Abs(f.y) < lowpassSilence {
		f.y = 0
	} else {
		f.y = f.b0*x + f.a1*f.y
	}
	return f.y
}

// ProcessBlock filters src into dst. dst may alias src.
func (f *Lowpass) ProcessBlock(dst, src []float64) {
	if len(src) == 0 {
		return
	}
	_ = dst[len(src)-1]
	for i, x := range src {
		dst[i] = f.ProcessSample(x)
	}
}

// Reset clears the filter history.
func (f *Lowpass) Reset() {
	f.y = 0
}

// Highpass is a one-pole high-pass filter built as input minus low-pass.
type Highpass struct {
	sampleRate float64
	cutoff     float64
	b0, a1     float64
	lp         float64
	y          float64
}

// NewHighpass returns a high-pass filter at cutoffHz.
func NewHighpass(sampleRate, cutoffHz float64) (*Highpass, error) {
	if err := validate(sampleRate, cutoffHz); err != nil {
		return nil, err
	}

	f := &Highpass{sampleRate: sampleRate, cutoff: cutoffHz}
	f.update()

	return f, nil
}

// SetCutoff sets the cutoff frequency in Hz.
func (f *Highpass) SetCutoff(hz float64) {
	if hz < 0 || math.IsNaN(hz) || math.IsInf(hz, 0) {
		return
	}
	f.cutoff = hz
	f.update()
}

// SetSampleRate recomputes coefficients for a new sample rate.
func (f *Highpass) SetSampleRate(sampleRate float64) error {
	if err := validate(sampleRate, f.cutoff); err != nil {
		return err
	}
	f.sampleRate = sampleRate
	f.update()
	return nil
}

// Cutoff returns the configured cutoff in Hz.
func (f *Highpass) Cutoff() float64 { return f.cutoff }

func (f *Highpass) update() {
	f.a1 = coefficient(f.cutoff, f.sampleRate)
	f.b0 = 1 - f.a1
}

// ProcessSample filters one sample.
func (f *Highpass) ProcessSample(x float64) float64 {
	if x == 0 && math.Abs(f.lp) < highpassSilence {
		f.lp = 0
		f.y = 0
	} else {
		f.lp = f.b0*x + f.a1*f.lp
		f.y = x - f.lp
	}
	return f.y
}

// ProcessBlock filters src into dst. dst may alias src.
func (f *Highpass) ProcessBlock(dst, src []float64) {
	if len(src) == 0 {
		return
	}
	_ = dst[len(src)-1]
	for i, x := range src {
		dst[i] = f.ProcessSample(x)
	}
}

// Reset clears the filter history.
func (f *Highpass) Reset() {
	f.lp = 0
	f.y = 0
}
