package delay

import (
	"fmt"
	"math"
)

// Modulated is a delay whose length is swept by a sine LFO. The output is
// the linear interpolation of two adjacent taps; taps are refreshed every
// ModulationUpdateRate samples.
type Modulated struct {
	buffer []float64
	write  int
	delay  int

	mod Modulator
}

// NewModulated returns a modulated delay whose ring holds capacity samples.
// The longest usable delay is capacity-2 samples. The initial delay is 100
// samples, or less if the ring is shorter.
func NewModulated(capacity int) (*Modulated, error) {
	if capacity < 3 {
		return nil, fmt.Errorf("delay: modulated delay capacity must be >= 3: %d", capacity)
	}

	d := &Modulated{buffer: make([]float64, capacity)}
	d.SetDelay(100)

	return d, nil
}

// Capacity returns the ring size in samples.
func (d *Modulated) Capacity() int { return len(d.buffer) }

// MaxDelay returns the longest base delay the ring supports.
func (d *Modulated) MaxDelay() int { return len(d.buffer) - 2 }

// Delay returns the base delay in samples.
func (d *Modulated) Delay() int { return d.delay }

// SetDelay sets the base delay in samples, clamped to [1, MaxDelay].
func (d *Modulated) SetDelay(samples int) {
	d.delay = max(1, min(samples, d.MaxDelay()))
	d.mod.Compute(d.delay, len(d.buffer))
}

// ModAmount returns the modulation depth in samples.
func (d *Modulated) ModAmount() float64 { return d.mod.Amount() }

// SetModAmount sets the modulation depth in samples.
func (d *Modulated) SetModAmount(samples float64) {
	d.mod.SetAmount(samples)
	d.mod.Compute(d.delay, len(d.buffer))
}

// ModRate returns the modulation rate in cycles per sample.
func (d *Modulated) ModRate() float64 { return d.mod.Rate() }

// SetModRate sets the modulation rate in cycles per sample.
func (d *Modulated) SetModRate(cyclesPerSample float64) {
	d.mod.SetRate(cyclesPerSample)
}

// SetPhase sets the LFO phase in [0, 1).
func (d *Modulated) SetPhase(phase float64) {
	d.mod.SetPhase(phase)
	d.mod.Compute(d.delay, len(d.buffer))
}

// ProcessSample writes x and returns the interpolated delayed sample.
func (d *Modulated) ProcessSample(x float64) float64 {
	size := len(d.buffer)
	d.mod.Tick(d.delay, size)

	d.buffer[d.write] = x

	tapA, tapB, gainA, gainB := d.mod.Taps()
	ia := d.write - tapA
	if ia < 0 {
		ia += size
	}
	ib := d.write - tapB
	if ib < 0 {
		ib += size
	}
	y := d.buffer[ia]*gainA + d.buffer[ib]*gainB

	d.write++
	if d.write >= size {
		d.write = 0
	}

	return y
}

// Process delays src into dst. dst must be at least as long as src and may
// alias it.
func (d *Modulated) Process(dst, src []float64) {
	if len(src) == 0 {
		return
	}

	_ = dst[len(src)-1]
	for i, x := range src {
		dst[i] = d.ProcessSample(x)
	}
}

// Reset clears the ring. The LFO keeps its phase.
func (d *Modulated) Reset() {
	clear(d.buffer)
	d.write = 0
}

// CapacityFor returns the ring size needed to hold seconds of audio at
// sampleRate.
func CapacityFor(seconds, sampleRate float64) int {
	return int(math.Ceil(seconds*sampleRate)) + 2
}
