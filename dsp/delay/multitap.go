package delay

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-cloudseed/dsp/rng"
)

const (
	// MaxTaps is the number of tap slots of a Multitap.
	MaxTaps = 256

	// MinTapLength is the shortest tap span in samples.
	MinTapLength = 10

	multitapSeedStride = 3
	multitapDecaySlope = 3.3
)

// Multitap is a seeded multitap delay. Each tap has a random sign, a random
// gain between -20 and 0 dB and a random position inside its slot of the
// tap span. Taps are weighted by an exponential decay envelope.
type Multitap struct {
	buffer []float64
	write  int

	seed      uint64
	crossSeed float64
	count     int
	length    int
	decay     float64

	seeds    [MaxTaps * multitapSeedStride]float64
	gains    [MaxTaps]float64
	position [MaxTaps]float64

	offsets   [MaxTaps]int
	effective [MaxTaps]float64
}

// NewMultitap returns a multitap delay whose ring holds capacity samples.
// Defaults: seed 0, cross seed 0, one tap, span 1000 samples (or less if
// the ring is shorter) and decay 1.
func NewMultitap(capacity int) (*Multitap, error) {
	if capacity <= MinTapLength {
		return nil, fmt.Errorf("delay: multitap capacity must be > %d: %d", MinTapLength, capacity)
	}

	m := &Multitap{
		buffer: make([]float64, capacity),
		count:  1,
		length: min(1000, capacity-1),
		decay:  1,
	}
	m.updateSeeds()

	return m, nil
}

// Seed returns the tap seed.
func (m *Multitap) Seed() uint64 { return m.seed }

// CrossSeed returns the cross-seed blend.
func (m *Multitap) CrossSeed() float64 { return m.crossSeed }

// TapCount returns the number of active taps.
func (m *Multitap) TapCount() int { return m.count }

// TapLength returns the tap span in samples.
func (m *Multitap) TapLength() int { return m.length }

// TapDecay returns the decay amount in [0, 1].
func (m *Multitap) TapDecay() float64 { return m.decay }

// SetSeed regenerates the taps from a new seed.
func (m *Multitap) SetSeed(seed uint64) {
	m.seed = seed
	m.updateSeeds()
}

// SetCrossSeed regenerates the taps with a new cross-seed blend in [0, 1].
func (m *Multitap) SetCrossSeed(crossSeed float64) {
	if math.IsNaN(crossSeed) {
		return
	}
	m.crossSeed = max(0, min(1, crossSeed))
	m.updateSeeds()
}

// SetTapCount sets the number of active taps, clamped to [1, MaxTaps].
func (m *Multitap) SetTapCount(count int) {
	m.count = max(1, min(count, MaxTaps))
	m.updateEffective()
}

// SetTapLength sets the tap span in samples, clamped to
// [MinTapLength, capacity-1].
func (m *Multitap) SetTapLength(samples int) {
	m.length = max(MinTapLength, min(samples, len(m.buffer)-1))
	m.updateEffective()
}

// SetTapDecay sets how strongly later taps are attenuated, clamped to [0, 1].
func (m *Multitap) SetTapDecay(decay float64) {
	if math.IsNaN(decay) {
		return
	}
	m.decay = max(0, min(1, decay))
	m.updateEffective()
}

func (m *Multitap) updateSeeds() {
	rng.FillCross(m.seeds[:], m.seed, m.crossSeed)

	s := 0
	for i := range MaxTaps {
		sign := 1.0
		if m.seeds[s] >= 0.5 {
			sign = -1
		}
		m.gains[i] = math.Pow(10, (-20+20*m.seeds[s+1])/20) * sign
		m.position[i] = float64(i) + m.seeds[s+2]
		s += multitapSeedStride
	}

	m.updateEffective()
}

// updateEffective folds gain, decay envelope and normalisation into one
// weight per tap so the sample loop is a plain multiply-accumulate.
func (m *Multitap) updateEffective() {
	length := float64(m.length)
	scale := length / float64(m.count)
	total := 3 / sqrt(1+float64(m.count)) * (1 + 2*m.decay)

	for j := range m.count {
		offset := m.position[j] * scale
		weight := exp(-offset/length*multitapDecaySlope)*m.decay + (1 - m.decay)
		m.offsets[j] = int(offset)
		m.effective[j] = m.gains[j] * weight * total
	}
}

// ProcessSample writes x and returns the weighted sum of all active taps.
func (m *Multitap) ProcessSample(x float64) float64 {
	size := len(m.buffer)
	m.buffer[m.write] = x

	var y float64
	for j, off := range m.offsets[:m.count] {
		idx := m.write - off
		if idx < 0 {
			idx += size
		}
		y += m.buffer[idx] * m.effective[j]
	}

	m.write++
	if m.write >= size {
		m.write = 0
	}

	return y
}

// Process runs src through the taps into dst. dst must be at least as long
// as src and may alias it.
func (m *Multitap) Process(dst, src []float64) {
	if len(src) == 0 {
		return
	}

	_ = dst[len(src)-1]
	for i, x := range src {
		dst[i] = m.ProcessSample(x)
	}
}

// Reset clears the ring.
func (m *Multitap) Reset() {
	clear(m.buffer)
	m.write = 0
}
