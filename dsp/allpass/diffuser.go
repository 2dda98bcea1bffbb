package allpass

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-cloudseed/dsp/delay"
	"github.com/cwbudde/algo-cloudseed/dsp/rng"
)

const (
	// MaxStages is the number of allpass stages a Diffuser owns.
	MaxStages = 12

	// DefaultSeed is the seed a new Diffuser starts from.
	DefaultSeed = 23456

	// MaxDelaySeconds bounds the delay of a single stage.
	MaxDelaySeconds = 0.2
)

// Diffuser is a cascade of modulated allpass stages. Stage delays, depths
// and rates are scattered around the configured values by a seeded random
// sequence, so two diffusers with the same seed behave identically.
type Diffuser struct {
	stages     [MaxStages]*Modulated
	active     int
	sampleRate float64

	delay     int
	modAmount float64
	modRate   float64

	seed      uint64
	crossSeed float64
	seeds     [MaxStages * 3]float64
}

// NewDiffuser returns a diffuser with one active stage, a base delay of 100
// samples, feedback 0.5 and seed DefaultSeed.
func NewDiffuser(sampleRate float64) (*Diffuser, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("allpass: diffuser sample rate must be > 0: %f", sampleRate)
	}

	d := &Diffuser{
		active:     1,
		sampleRate: sampleRate,
		delay:      100,
		seed:       DefaultSeed,
	}
	if err := d.allocate(); err != nil {
		return nil, err
	}
	d.SeedPhases(DefaultSeed)
	d.updateSeeds()

	return d, nil
}

func (d *Diffuser) allocate() error {
	capacity := delay.CapacityFor(MaxDelaySeconds, d.sampleRate)
	for i := range d.stages {
		stage, err := NewModulated(capacity)
		if err != nil {
			return err
		}
		if old := d.stages[i]; old != nil {
			stage.SetFeedback(old.Feedback())
			stage.SetInterpolation(old.Interpolation())
			stage.SetModulation(old.Modulation())
			stage.SetPhase(old.Phase())
		}
		d.stages[i] = stage
	}
	return nil
}

// SeedPhases sets deterministic LFO start phases in [0.01, 0.99] for all
// stages from an LCG seeded with seed.
func (d *Diffuser) SeedPhases(seed uint64) {
	g := rng.NewLCG(seed)
	for _, s := range d.stages {
		s.SetPhase(0.01 + 0.98*g.Float64())
	}
}

// SampleRate returns the sample rate in Hz.
func (d *Diffuser) SampleRate() float64 { return d.sampleRate }

// SetSampleRate reallocates the stage buffers for a new sample rate and
// re-derives the modulation rates. Stage history is cleared.
func (d *Diffuser) SetSampleRate(sampleRate float64) error {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return fmt.Errorf("allpass: diffuser sample rate must be > 0: %f", sampleRate)
	}
	d.sampleRate = sampleRate
	if err := d.allocate(); err != nil {
		return err
	}
	d.updateDelays()
	d.SetModAmount(d.modAmount)
	d.SetModRate(d.modRate)
	return nil
}

// Stages returns the number of active stages.
func (d *Diffuser) Stages() int { return d.active }

// SetStages sets the number of active stages, clamped to [1, MaxStages].
func (d *Diffuser) SetStages(n int) {
	d.active = max(1, min(n, MaxStages))
}

// Stage returns stage i, or nil when i is out of range.
func (d *Diffuser) Stage(i int) *Modulated {
	if i < 0 || i >= MaxStages {
		return nil
	}
	return d.stages[i]
}

// Seed returns the seed.
func (d *Diffuser) Seed() uint64 { return d.seed }

// CrossSeed returns the cross-seed blend.
func (d *Diffuser) CrossSeed() float64 { return d.crossSeed }

// SetSeed regenerates the stage scatter from seed.
func (d *Diffuser) SetSeed(seed uint64) {
	d.seed = seed
	d.updateSeeds()
}

// SetCrossSeed regenerates the stage scatter with a new cross-seed blend in
// [0, 1].
func (d *Diffuser) SetCrossSeed(crossSeed float64) {
	if math.IsNaN(crossSeed) {
		return
	}
	d.crossSeed = max(0, min(1, crossSeed))
	d.updateSeeds()
}

// SetSeeds sets seed and cross seed with a single regeneration.
func (d *Diffuser) SetSeeds(seed uint64, crossSeed float64) {
	if math.IsNaN(crossSeed) {
		crossSeed = d.crossSeed
	}
	d.seed = seed
	d.crossSeed = max(0, min(1, crossSeed))
	d.updateSeeds()
}

// Delay returns the base delay in samples.
func (d *Diffuser) Delay() int { return d.delay }

// SetDelay sets the base delay. Stage i uses base*10^r*0.1, i.e. between a
// tenth of the base and the full base delay, and never less than one sample.
func (d *Diffuser) SetDelay(samples int) {
	d.delay = max(1, samples)
	d.updateDelays()
}

// SetFeedback sets the allpass coefficient of every stage.
func (d *Diffuser) SetFeedback(g float64) {
	for _, s := range d.stages {
		s.SetFeedback(g)
	}
}

// Feedback returns the allpass coefficient of the first stage.
func (d *Diffuser) Feedback() float64 { return d.stages[0].Feedback() }

// ModAmount returns the nominal modulation depth in samples.
func (d *Diffuser) ModAmount() float64 { return d.modAmount }

// SetModAmount sets the nominal modulation depth in samples. Each stage is
// scaled by a seeded factor in [0.85, 1.15].
func (d *Diffuser) SetModAmount(samples float64) {
	d.modAmount = samples
	for i, s := range d.stages {
		s.SetModAmount(samples * (0.85 + 0.3*d.seeds[MaxStages+i]))
	}
}

// ModRate returns the nominal modulation rate in Hz.
func (d *Diffuser) ModRate() float64 { return d.modRate }

// SetModRate sets the nominal modulation rate in Hz. Each stage is scaled by
// a seeded factor in [0.85, 1.15].
func (d *Diffuser) SetModRate(hz float64) {
	d.modRate = hz
	for i, s := range d.stages {
		s.SetModRate(hz * (0.85 + 0.3*d.seeds[2*MaxStages+i]) / d.sampleRate)
	}
}

// SetInterpolation toggles interpolation on every stage.
func (d *Diffuser) SetInterpolation(enabled bool) {
	for _, s := range d.stages {
		s.SetInterpolation(enabled)
	}
}

// SetModulation toggles modulation on every stage.
func (d *Diffuser) SetModulation(enabled bool) {
	for _, s := range d.stages {
		s.SetModulation(enabled)
	}
}

func (d *Diffuser) updateSeeds() {
	rng.FillCross(d.seeds[:], d.seed, d.crossSeed)
	d.updateDelays()
	d.SetModAmount(d.modAmount)
	d.SetModRate(d.modRate)
}

func (d *Diffuser) updateDelays() {
	base := float64(d.delay)
	for i, s := range d.stages {
		s.SetDelay(max(1, int(base*math.Pow(10, d.seeds[i])*0.1)))
	}
}

// Process runs src through the active stages into dst. dst must be at least
// as long as src and may alias it.
func (d *Diffuser) Process(dst, src []float64) {
	d.stages[0].Process(dst, src)
	for _, s := range d.stages[1:d.active] {
		s.Process(dst[:len(src)], dst[:len(src)])
	}
}

// Reset clears every stage.
func (d *Diffuser) Reset() {
	for _, s := range d.stages {
		s.Reset()
	}
}
