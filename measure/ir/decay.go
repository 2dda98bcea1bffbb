package ir

import (
	"errors"
	"fmt"
	"math"
)

// Errors returned by the analysis functions.
var (
	ErrEmpty   = errors.New("ir: impulse response is empty")
	ErrNoDecay = errors.New("ir: decay range not reached")
	ErrSilent  = errors.New("ir: impulse response carries no energy")
)

// schroederFloorDB is the level reported once the remaining energy is zero.
const schroederFloorDB = -300

// Metrics summarises one channel of an impulse response. Times are in
// seconds. Decay times that could not be fitted are zero.
type Metrics struct {
	Onset      int     // first sample within -20 dB of the peak
	Peak       float64 // absolute peak
	EDT        float64
	T20        float64
	T30        float64
	RT60       float64 // T30 when available, else T20
	C80        float64 // dB
	CenterTime float64
}

// Analyzer measures impulse responses at a fixed sample rate.
type Analyzer struct {
	sampleRate float64
}

// NewAnalyzer returns an analyzer for responses sampled at sampleRate.
func NewAnalyzer(sampleRate float64) (*Analyzer, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("ir: sample rate must be > 0: %f", sampleRate)
	}
	return &Analyzer{sampleRate: sampleRate}, nil
}

// SampleRate returns the sample rate in Hz.
func (a *Analyzer) SampleRate() float64 { return a.sampleRate }

// Analyze computes Metrics from the onset of ir onwards.
func (a *Analyzer) Analyze(ir []float64) (Metrics, error) {
	onset, peak, err := Onset(ir, -20)
	if err != nil {
		return Metrics{}, err
	}

	tail := ir[onset:]
	curve := schroeder(tail)

	m := Metrics{
		Onset:      onset,
		Peak:       peak,
		C80:        a.clarity(tail, 0.08),
		CenterTime: a.centerTime(tail),
	}
	m.EDT, _ = a.fit(curve, 0, -10)
	m.T20, _ = a.fit(curve, -5, -25)
	m.T30, _ = a.fit(curve, -5, -35)

	m.RT60 = m.T30
	if m.RT60 == 0 {
		m.RT60 = m.T20
	}

	return m, nil
}

// DecayTime fits a line to the Schroeder curve of ir between startDB and
// endDB and returns the time it takes to fall by 60 dB at that slope.
func (a *Analyzer) DecayTime(ir []float64, startDB, endDB float64) (float64, error) {
	if len(ir) == 0 {
		return 0, ErrEmpty
	}
	if endDB >= startDB {
		return 0, fmt.Errorf("ir: end level %g dB must be below start level %g dB", endDB, startDB)
	}
	return a.fit(schroeder(ir), startDB, endDB)
}

// Schroeder returns the backward-integrated energy of ir in dB relative to
// the total energy:
//
//	S[n] = 10*log10( sum_{k>=n} h[k]^2 / sum_k h[k]^2 )
//
// Samples after the last non-zero one report -300 dB.
func Schroeder(ir []float64) ([]float64, error) {
	if len(ir) == 0 {
		return nil, ErrEmpty
	}
	return schroeder(ir), nil
}

func schroeder(ir []float64) []float64 {
	out := make([]float64, len(ir))

	var acc float64
	for i := len(ir) - 1; i >= 0; i-- {
		acc += ir[i] * ir[i]
		out[i] = acc
	}

	total := out[0]
	for i, e := range out {
		if total <= 0 || e <= 0 {
			out[i] = schroederFloorDB
			continue
		}
		out[i] = 10 * math.Log10(e/total)
	}

	return out
}

// fit regresses the curve between the first sample at or below startDB and
// the first following sample at or below endDB.
func (a *Analyzer) fit(curve []float64, startDB, endDB float64) (float64, error) {
	first, last := -1, -1
	for i, v := range curve {
		if first < 0 {
			if v <= startDB {
				first = i
			}
			continue
		}
		if v <= endDB {
			last = i
			break
		}
	}
	if first < 0 || last <= first {
		return 0, ErrNoDecay
	}

	var sx, sy, sxx, sxy float64
	for i := first; i <= last; i++ {
		x := float64(i - first)
		y := curve[i]
		sx += x
		sy += y
		sxx += x * x
		sxy += x * y
	}

	n := float64(last - first + 1)
	den := n*sxx - sx*sx
	if den == 0 {
		return 0, ErrNoDecay
	}

	slope := (n*sxy - sx*sy) / den * a.sampleRate // dB per second
	if slope >= 0 {
		return 0, ErrNoDecay
	}

	return -60 / slope, nil
}

// clarity returns 10*log10(early/late) with the split after boundary
// seconds.
func (a *Analyzer) clarity(ir []float64, boundary float64) float64 {
	split := min(len(ir), int(math.Round(boundary*a.sampleRate)))

	var early, late float64
	for i, v := range ir {
		if i < split {
			early += v * v
		} else {
			late += v * v
		}
	}

	switch {
	case late == 0:
		return math.Inf(1)
	case early == 0:
		return math.Inf(-1)
	}
	return 10 * math.Log10(early/late)
}

func (a *Analyzer) centerTime(ir []float64) float64 {
	var num, den float64
	for i, v := range ir {
		e := v * v
		num += float64(i) * e
		den += e
	}
	if den == 0 {
		return 0
	}
	return num / den / a.sampleRate
}

// Onset returns the index of the first sample whose magnitude is within
// thresholdDB of the absolute peak, together with the peak.
func Onset(ir []float64, thresholdDB float64) (int, float64, error) {
	if len(ir) == 0 {
		return 0, 0, ErrEmpty
	}

	var peak float64
	for _, v := range ir {
		peak = max(peak, math.Abs(v))
	}
	if peak == 0 {
		return 0, 0, ErrSilent
	}

	limit := peak * math.Pow(10, thresholdDB/20)
	for i, v := range ir {
		if math.Abs(v) >= limit {
			return i, peak, nil
		}
	}

	return 0, peak, nil
}
