package allpass

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-cloudseed/dsp/delay"
)

// Modulated is a Schroeder allpass whose delay can be swept by an LFO.
//
//	d = buffer[w - delay]
//	v = x + d*feedback
//	buffer[w] = v
//	y = d - v*feedback
type Modulated struct {
	buffer []float64
	index  int

	delay    int
	feedback float64

	interpolation bool
	modulation    bool

	mod delay.Modulator
}

// NewModulated returns an allpass whose ring holds capacity samples. The
// initial delay is 100 samples (or less if the ring is shorter), feedback
// 0.5, with interpolation and modulation enabled.
func NewModulated(capacity int) (*Modulated, error) {
	if capacity < 3 {
		return nil, fmt.Errorf("allpass: capacity must be >= 3: %d", capacity)
	}

	a := &Modulated{
		buffer:        make([]float64, capacity),
		index:         capacity - 1,
		feedback:      0.5,
		interpolation: true,
		modulation:    true,
	}
	a.SetDelay(100)

	return a, nil
}

// Capacity returns the ring size in samples.
func (a *Modulated) Capacity() int { return len(a.buffer) }

// MaxDelay returns the longest base delay the ring supports.
func (a *Modulated) MaxDelay() int { return len(a.buffer) - 2 }

// Delay returns the base delay in samples.
func (a *Modulated) Delay() int { return a.delay }

// SetDelay sets the base delay, clamped to [1, MaxDelay].
func (a *Modulated) SetDelay(samples int) {
	a.delay = max(1, min(samples, a.MaxDelay()))
	a.mod.Compute(a.delay, len(a.buffer))
}

// Feedback returns the allpass coefficient.
func (a *Modulated) Feedback() float64 { return a.feedback }

// SetFeedback sets the allpass coefficient. Non-finite values are ignored.
func (a *Modulated) SetFeedback(g float64) {
	if math.IsNaN(g) || math.IsInf(g, 0) {
		return
	}
	a.feedback = g
}

// ModAmount returns the modulation depth in samples.
func (a *Modulated) ModAmount() float64 { return a.mod.Amount() }

// SetModAmount sets the modulation depth in samples.
func (a *Modulated) SetModAmount(samples float64) {
	a.mod.SetAmount(samples)
	a.mod.Compute(a.delay, len(a.buffer))
}

// ModRate returns the modulation rate in cycles per sample.
func (a *Modulated) ModRate() float64 { return a.mod.Rate() }

// SetModRate sets the modulation rate in cycles per sample.
func (a *Modulated) SetModRate(cyclesPerSample float64) {
	a.mod.SetRate(cyclesPerSample)
}

// SetPhase sets the LFO phase in [0, 1).
func (a *Modulated) SetPhase(phase float64) {
	a.mod.SetPhase(phase)
	a.mod.Compute(a.delay, len(a.buffer))
}

// Phase returns the LFO phase.
func (a *Modulated) Phase() float64 { return a.mod.Phase() }

// SetInterpolation toggles two-tap interpolation of the modulated read.
func (a *Modulated) SetInterpolation(enabled bool) { a.interpolation = enabled }

// SetModulation toggles the LFO. Without modulation the allpass reads at
// the fixed base delay.
func (a *Modulated) SetModulation(enabled bool) { a.modulation = enabled }

// Interpolation reports whether interpolation is enabled.
func (a *Modulated) Interpolation() bool { return a.interpolation }

// Modulation reports whether modulation is enabled.
func (a *Modulated) Modulation() bool { return a.modulation }

// Process filters src into dst. dst must be at least as long as src and may
// alias it.
func (a *Modulated) Process(dst, src []float64) {
	if len(src) == 0 {
		return
	}

	_ = dst[len(src)-1]
	if a.modulation {
		a.processModulated(dst, src)
	} else {
		a.processFixed(dst, src)
	}
}

func (a *Modulated) processFixed(dst, src []float64) {
	size := len(a.buffer)
	fb := a.feedback
	idx := a.index

	read := idx - a.delay
	if read < 0 {
		read += size
	}

	for i, x := range src {
		d := a.buffer[read]
		v := x + d*fb
		a.buffer[idx] = v
		dst[i] = d - v*fb

		idx++
		if idx >= size {
			idx = 0
		}
		read++
		if read >= size {
			read = 0
		}
	}

	a.index = idx
}

func (a *Modulated) processModulated(dst, src []float64) {
	size := len(a.buffer)
	fb := a.feedback

	for i, x := range src {
		a.mod.Tick(a.delay, size)
		tapA, tapB, gainA, gainB := a.mod.Taps()

		ia := a.index - tapA
		if ia < 0 {
			ia += size
		}

		var d float64
		if a.interpolation {
			ib := a.index - tapB
			if ib < 0 {
				ib += size
			}
			d = a.buffer[ia]*gainA + a.buffer[ib]*gainB
		} else {
			d = a.buffer[ia]
		}

		v := x + d*fb
		a.buffer[a.index] = v
		dst[i] = d - v*fb

		a.index++
		if a.index >= size {
			a.index = 0
		}
	}
}

// Reset clears the ring. The LFO keeps its phase.
func (a *Modulated) Reset() {
	clear(a.buffer)
}
