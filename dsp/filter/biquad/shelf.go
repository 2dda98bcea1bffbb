package biquad

import (
	"fmt"
	"math"
)

// MaxShelfGainDB bounds the magnitude of a shelving gain.
const MaxShelfGainDB = 60

// ShelfKind selects which end of the spectrum a shelf acts on.
type ShelfKind int

const (
	// ShelfLow boosts or cuts below the corner frequency.
	ShelfLow ShelfKind = iota
	// ShelfHigh boosts or cuts above the corner frequency.
	ShelfHigh
)

func (k ShelfKind) String() string {
	switch k {
	case ShelfLow:
		return "low"
	case ShelfHigh:
		return "high"
	default:
		return fmt.Sprintf("ShelfKind(%d)", int(k))
	}
}

// LowShelf designs a second-order low shelf with Zölzer's boost and cut
// formulas. gainDB is clamped to ±MaxShelfGainDB and freqHz to just below
// Nyquist.
func LowShelf(freqHz, gainDB, sampleRate float64) Coefficients {
	v, k, boost := shelfTerms(freqHz, gainDB, sampleRate)
	sqrt2 := math.Sqrt2
	sqrt2v := math.Sqrt(2 * v)
	kk := k * k

	if boost {
		norm := 1 / (1 + sqrt2*k + kk)
		return Coefficients{
			B0: (1 + sqrt2v*k + v*kk) * norm,
			B1: 2 * (v*kk - 1) * norm,
			B2: (1 - sqrt2v*k + v*kk) * norm,
			A1: 2 * (kk - 1) * norm,
			A2: (1 - sqrt2*k + kk) * norm,
		}
	}

	norm := 1 / (1 + sqrt2v*k + v*kk)
	return Coefficients{
		B0: (1 + sqrt2*k + kk) * norm,
		B1: 2 * (kk - 1) * norm,
		B2: (1 - sqrt2*k + kk) * norm,
		A1: 2 * (v*kk - 1) * norm,
		A2: (1 - sqrt2v*k + v*kk) * norm,
	}
}

// HighShelf designs a second-order high shelf with Zölzer's boost and cut
// formulas. gainDB is clamped to ±MaxShelfGainDB and freqHz to just below
// Nyquist.
func HighShelf(freqHz, gainDB, sampleRate float64) Coefficients {
	v, k, boost := shelfTerms(freqHz, gainDB, sampleRate)
	sqrt2 := math.Sqrt2
	sqrt2v := math.Sqrt(2 * v)
	kk := k * k

	if boost {
		norm := 1 / (1 + sqrt2*k + kk)
		return Coefficients{
			B0: (v + sqrt2v*k + kk) * norm,
			B1: 2 * (kk - v) * norm,
			B2: (v - sqrt2v*k + kk) * norm,
			A1: 2 * (kk - 1) * norm,
			A2: (1 - sqrt2*k + kk) * norm,
		}
	}

	norm := 1 / (v + sqrt2v*k + kk)
	return Coefficients{
		B0: (1 + sqrt2*k + kk) * norm,
		B1: 2 * (kk - 1) * norm,
		B2: (1 - sqrt2*k + kk) * norm,
		A1: 2 * (kk - v) * norm,
		A2: (v - sqrt2v*k + kk) * norm,
	}
}

func shelfTerms(freqHz, gainDB, sampleRate float64) (v, k float64, boost bool) {
	gainDB = math.Max(-MaxShelfGainDB, math.Min(MaxShelfGainDB, gainDB))
	freqHz = math.Min(freqHz, 0.499*sampleRate)
	v = math.Pow(10, math.Abs(gainDB)/20)
	k = math.Tan(math.Pi * freqHz / sampleRate)
	return v, k, gainDB >= 0
}

// Shelf is a stateful shelving filter. Changing frequency, gain or sample
// rate recomputes the coefficients and keeps the filter history.
type Shelf struct {
	Section

	kind       ShelfKind
	sampleRate float64
	freq       float64
	gainDB     float64
}

// NewShelf creates a shelving filter of the given kind.
func NewShelf(kind ShelfKind, sampleRate, freqHz, gainDB float64) (*Shelf, error) {
	if kind != ShelfLow && kind != ShelfHigh {
		return nil, fmt.Errorf("biquad: unknown shelf kind %d", int(kind))
	}
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("biquad: shelf sample rate must be > 0: %f", sampleRate)
	}
	if freqHz <= 0 || math.IsNaN(freqHz) || math.IsInf(freqHz, 0) {
		return nil, fmt.Errorf("biquad: shelf frequency must be > 0: %f", freqHz)
	}
	if math.IsNaN(gainDB) {
		return nil, fmt.Errorf("biquad: shelf gain must not be NaN")
	}

	s := &Shelf{
		kind:       kind,
		sampleRate: sampleRate,
		freq:       freqHz,
		gainDB:     math.Max(-MaxShelfGainDB, math.Min(MaxShelfGainDB, gainDB)),
	}
	s.update()

	return s, nil
}

// Kind returns the shelf kind.
func (s *Shelf) Kind() ShelfKind { return s.kind }

// Frequency returns the corner frequency in Hz.
func (s *Shelf) Frequency() float64 { return s.freq }

// GainDB returns the shelf gain in dB after clamping.
func (s *Shelf) GainDB() float64 { return s.gainDB }

// SampleRate returns the sample rate in Hz.
func (s *Shelf) SampleRate() float64 { return s.sampleRate }

// SetFrequency changes the corner frequency. Non-positive or non-finite
// values are ignored.
func (s *Shelf) SetFrequency(freqHz float64) {
	if freqHz <= 0 || math.IsNaN(freqHz) || math.IsInf(freqHz, 0) {
		return
	}
	s.freq = freqHz
	s.update()
}

// SetGainDB changes the shelf gain, clamped to ±MaxShelfGainDB.
func (s *Shelf) SetGainDB(gainDB float64) {
	if math.IsNaN(gainDB) {
		return
	}
	s.gainDB = math.Max(-MaxShelfGainDB, math.Min(MaxShelfGainDB, gainDB))
	s.update()
}

// SetSampleRate changes the sample rate and recomputes the coefficients.
func (s *Shelf) SetSampleRate(sampleRate float64) error {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return fmt.Errorf("biquad: shelf sample rate must be > 0: %f", sampleRate)
	}
	s.sampleRate = sampleRate
	s.update()
	return nil
}

func (s *Shelf) update() {
	if s.kind == ShelfLow {
		s.Coefficients = LowShelf(s.freq, s.gainDB, s.sampleRate)
	} else {
		s.Coefficients = HighShelf(s.freq, s.gainDB, s.sampleRate)
	}
}
