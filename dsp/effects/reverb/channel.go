package reverb

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-cloudseed/dsp/allpass"
	"github.com/cwbudde/algo-cloudseed/dsp/core"
	"github.com/cwbudde/algo-cloudseed/dsp/delay"
	"github.com/cwbudde/algo-cloudseed/dsp/filter/onepole"
	"github.com/cwbudde/algo-cloudseed/dsp/rng"
)

const (
	// MaxLineCount is the number of delay lines a Channel owns.
	MaxLineCount = 12

	// DefaultLineCount is the number of delay lines active after creation.
	DefaultLineCount = 8

	denormalThreshold = 1e-9

	defaultInputLowCutHz  = 20
	defaultInputHighCutHz = 20000
)

// Seeds are the random seeds of one channel.
type Seeds struct {
	// DelayLine scatters line delays, modulation depths and rates.
	DelayLine uint64 `json:"delay_line"`
	// PostDiffusion seeds the late diffusers; line i uses PostDiffusion*(i+1).
	PostDiffusion uint64 `json:"post_diffusion"`
	// EarlyDiffuser seeds the early diffuser.
	EarlyDiffuser uint64 `json:"early_diffuser"`
	// Multitap seeds the early reflection taps.
	Multitap uint64 `json:"multitap"`
}

// DefaultSeeds returns the factory seeds.
func DefaultSeeds() Seeds {
	return Seeds{
		DelayLine:     12345,
		PostDiffusion: 12345,
		EarlyDiffuser: allpass.DefaultSeed,
		Multitap:      0,
	}
}

// Channel is one side of the stereo reverb.
type Channel struct {
	sampleRate float64
	right      bool

	predelay *delay.Modulated
	multitap *delay.Multitap
	diffuser *allpass.Diffuser
	lines    [MaxLineCount]*DelayLine
	highPass *onepole.Highpass
	lowPass  *onepole.Lowpass

	seeds     Seeds
	crossSeed float64
	lineSeeds [MaxLineCount * 3]float64
	derived   Derived
	applied   bool
	floored   int

	lineCount       int
	lowCutEnabled   bool
	highCutEnabled  bool
	multitapEnabled bool
	diffuserEnabled bool

	inputGain float64
	dryGain   float64
	earlyGain float64
	lateGain  float64

	temp    []float64
	lineOut []float64
	lineSum []float64
	scratch []float64
}

// NewChannel creates a channel that processes blocks of up to blockSize
// samples. right selects the right-hand cross-seed mapping.
func NewChannel(sampleRate float64, blockSize int, right bool) (*Channel, error) {
	if err := validateSampleRate(sampleRate); err != nil {
		return nil, err
	}
	if blockSize <= 0 {
		return nil, fmt.Errorf("reverb: channel block size must be > 0: %d", blockSize)
	}

	capacity := delay.CapacityFor(MaxDelaySeconds, sampleRate)

	predelay, err := delay.NewModulated(capacity)
	if err != nil {
		return nil, fmt.Errorf("reverb: channel: %w", err)
	}
	multitap, err := delay.NewMultitap(capacity)
	if err != nil {
		return nil, fmt.Errorf("reverb: channel: %w", err)
	}
	diffuser, err := allpass.NewDiffuser(sampleRate)
	if err != nil {
		return nil, fmt.Errorf("reverb: channel: %w", err)
	}
	highPass, err := onepole.NewHighpass(sampleRate, defaultInputLowCutHz)
	if err != nil {
		return nil, fmt.Errorf("reverb: channel: %w", err)
	}
	lowPass, err := onepole.NewLowpass(sampleRate, defaultInputHighCutHz)
	if err != nil {
		return nil, fmt.Errorf("reverb: channel: %w", err)
	}

	c := &Channel{
		sampleRate:      sampleRate,
		right:           right,
		predelay:        predelay,
		multitap:        multitap,
		diffuser:        diffuser,
		highPass:        highPass,
		lowPass:         lowPass,
		lineCount:       DefaultLineCount,
		lowCutEnabled:   true,
		highCutEnabled:  true,
		diffuserEnabled: true,
		inputGain:       1,
		lateGain:        1,
		temp:            make([]float64, blockSize),
		lineOut:         make([]float64, blockSize),
		lineSum:         make([]float64, blockSize),
		scratch:         make([]float64, blockSize),
	}
	for i := range c.lines {
		if c.lines[i], err = NewDelayLine(sampleRate, blockSize); err != nil {
			return nil, err
		}
	}
	c.diffuser.SetInterpolation(true)
	c.SetSeeds(DefaultSeeds())

	return c, nil
}

// SampleRate returns the sample rate in Hz.
func (c *Channel) SampleRate() float64 { return c.sampleRate }

// BlockSize returns the longest block Process handles in one pass.
func (c *Channel) BlockSize() int { return len(c.temp) }

// IsRight reports whether the channel uses the right-hand cross-seed mapping.
func (c *Channel) IsRight() bool { return c.right }

// ApplyDerived pushes a full set of derived quantities into the channel.
func (c *Channel) ApplyDerived(d Derived) {
	c.derived = d
	c.applied = true

	c.predelay.SetDelay(d.PreDelaySamples)

	c.diffuser.SetStages(d.EarlyStages)
	c.diffuser.SetDelay(d.EarlyDelaySamples)
	c.diffuser.SetFeedback(d.EarlyFeedback)
	c.diffuser.SetModAmount(d.ModAmountSamples)
	c.diffuser.SetModRate(d.ModRateHz)

	c.highPass.SetCutoff(d.LowCutHz)
	c.lowPass.SetCutoff(d.HighCutHz)

	for _, l := range c.lines {
		l.SetCutoff(d.DampingHz)
		l.SetCutoffEnabled(true)
	}

	// Seeds first, so that the lines below are scattered with this
	// channel's cross seed.
	c.SetCrossSeedParam(d.CrossSeed)
}

// Derived returns the quantities last passed to ApplyDerived.
func (c *Channel) Derived() Derived { return c.derived }

// SetCrossSeedParam maps the stereo cross-seed control onto this channel:
// the right channel uses 0.5*p, the left channel 1-0.5*p.
func (c *Channel) SetCrossSeedParam(p float64) {
	p = core.Clamp01(p)
	if c.right {
		c.SetCrossSeed(0.5 * p)
	} else {
		c.SetCrossSeed(1 - 0.5*p)
	}
}

// SetCrossSeed sets the raw cross-seed blend of every seeded component.
func (c *Channel) SetCrossSeed(crossSeed float64) {
	c.crossSeed = core.Clamp01(crossSeed)
	c.multitap.SetCrossSeed(c.crossSeed)
	c.diffuser.SetCrossSeed(c.crossSeed)
	c.updatePostDiffusion()
	c.updateLines()
}

// CrossSeed returns the raw cross-seed blend.
func (c *Channel) CrossSeed() float64 { return c.crossSeed }

// Seeds returns the channel seeds.
func (c *Channel) Seeds() Seeds { return c.seeds }

// SetSeeds replaces every seed, re-derives the seeded structure and resets
// the LFO phases.
func (c *Channel) SetSeeds(s Seeds) {
	c.seeds = s
	c.multitap.SetSeed(s.Multitap)
	c.diffuser.SetSeed(s.EarlyDiffuser)
	c.seedPhases()
	c.updatePostDiffusion()
	c.updateLines()
}

func (c *Channel) seedPhases() {
	g := rng.NewLCG(c.seeds.DelayLine)
	c.predelay.SetPhase(0.01 + 0.98*g.Float64())
	c.diffuser.SeedPhases(uint64(g.Next()))
	for _, l := range c.lines {
		l.SeedPhases(uint64(g.Next()))
	}
}

func (c *Channel) updatePostDiffusion() {
	for i, l := range c.lines {
		l.SetDiffuserSeed(c.seeds.PostDiffusion*uint64(i+1), c.crossSeed)
	}
}

// updateLines scatters delay, feedback and modulation of every line around
// the values of the last ApplyDerived call.
func (c *Channel) updateLines() {
	if !c.applied {
		return
	}

	d := c.derived
	r := c.lineSeeds[:]
	rng.FillCross(r, c.seeds.DelayLine, c.crossSeed)

	c.floored = 0
	for i, l := range c.lines {
		modAmount := d.ModAmountSamples * (0.85 + 0.3*r[i])
		modRate := d.ModRateHz * (0.85 + 0.3*r[MaxLineCount+i]) / c.sampleRate

		delaySamples := (0.5 + r[2*MaxLineCount+i]) * float64(d.LineDelaySamples)
		if delaySamples < modAmount+2 {
			delaySamples = modAmount + 2
			c.floored++
		}

		dbPerPass := delaySamples / d.LineDecaySamples * -60

		l.SetDelay(int(delaySamples))
		l.SetFeedback(core.DBToLinear(dbPerPass))
		l.SetLineModAmount(modAmount)
		l.SetLineModRate(modRate)
		l.SetDiffuserModAmount(d.ModAmountSamples)
		l.SetDiffuserModRate(d.ModRateHz)
	}
}

// FlooredDelays returns how many line delays were raised to their minimum
// of modulation depth plus two samples by the last update.
func (c *Channel) FlooredDelays() int { return c.floored }

// LineCount returns the number of active delay lines.
func (c *Channel) LineCount() int { return c.lineCount }

// SetLineCount sets the number of active delay lines, clamped to
// [1, MaxLineCount].
func (c *Channel) SetLineCount(n int) { c.lineCount = max(1, min(n, MaxLineCount)) }

// Line returns delay line i, or nil when i is out of range.
func (c *Channel) Line(i int) *DelayLine {
	if i < 0 || i >= MaxLineCount {
		return nil
	}
	return c.lines[i]
}

// PreDelay returns the pre-delay.
func (c *Channel) PreDelay() *delay.Modulated { return c.predelay }

// Multitap returns the early reflection multitap.
func (c *Channel) Multitap() *delay.Multitap { return c.multitap }

// Diffuser returns the early diffuser.
func (c *Channel) Diffuser() *allpass.Diffuser { return c.diffuser }

// SetLowCutEnabled toggles the input high-pass.
func (c *Channel) SetLowCutEnabled(enabled bool) { c.lowCutEnabled = enabled }

// SetHighCutEnabled toggles the input low-pass.
func (c *Channel) SetHighCutEnabled(enabled bool) { c.highCutEnabled = enabled }

// SetMultitapEnabled toggles the early reflection taps.
func (c *Channel) SetMultitapEnabled(enabled bool) { c.multitapEnabled = enabled }

// SetDiffuserEnabled toggles the early diffuser.
func (c *Channel) SetDiffuserEnabled(enabled bool) { c.diffuserEnabled = enabled }

// SetMultitap configures the early reflection taps.
func (c *Channel) SetMultitap(count, lengthSamples int, decay float64) {
	c.multitap.SetTapCount(count)
	c.multitap.SetTapLength(lengthSamples)
	c.multitap.SetTapDecay(decay)
}

// SetGains sets the input gain and the dry, early and late output gains.
func (c *Channel) SetGains(input, dry, early, late float64) {
	c.inputGain = input
	c.dryGain = dry
	c.earlyGain = early
	c.lateGain = late
}

// Gains returns the input, dry, early and late gains.
func (c *Channel) Gains() (input, dry, early, late float64) {
	return c.inputGain, c.dryGain, c.earlyGain, c.lateGain
}

// SetLateDiffusion configures the diffuser inside every delay line.
func (c *Channel) SetLateDiffusion(enabled bool, stages, delaySamples int, feedback float64) {
	for _, l := range c.lines {
		l.SetDiffuserEnabled(enabled)
		l.SetDiffuserStages(stages)
		l.SetDiffuserDelay(delaySamples)
		l.SetDiffuserFeedback(feedback)
	}
}

// SetLowShelf configures the low shelf of every delay line.
func (c *Channel) SetLowShelf(enabled bool, freqHz, gainDB float64) {
	for _, l := range c.lines {
		l.SetLowShelfEnabled(enabled)
		l.SetLowShelf(freqHz, gainDB)
	}
}

// SetHighShelf configures the high shelf of every delay line.
func (c *Channel) SetHighShelf(enabled bool, freqHz, gainDB float64) {
	for _, l := range c.lines {
		l.SetHighShelfEnabled(enabled)
		l.SetHighShelf(freqHz, gainDB)
	}
}

// SetTapPostDiffuser selects the output tap of every delay line.
func (c *Channel) SetTapPostDiffuser(enabled bool) {
	for _, l := range c.lines {
		l.SetTapPostDiffuser(enabled)
	}
}

// SetInterpolation toggles interpolation in the early and late diffusers.
func (c *Channel) SetInterpolation(enabled bool) {
	c.diffuser.SetInterpolation(enabled)
	for _, l := range c.lines {
		l.SetInterpolation(enabled)
	}
}

// Process renders src into dst. dst must be at least as long as src and may
// alias it. Blocks longer than BlockSize are split.
func (c *Channel) Process(dst, src []float64) {
	bs := len(c.temp)
	for start := 0; start < len(src); start += bs {
		end := min(start+bs, len(src))
		c.processBlock(dst[start:end], src[start:end])
	}
}

func (c *Channel) processBlock(dst, src []float64) {
	n := len(src)
	t := c.temp[:n]

	vecmath.ScaleBlock(t, src, c.inputGain)
	if c.lowCutEnabled {
		c.highPass.ProcessBlock(t, t)
	}
	if c.highCutEnabled {
		c.lowPass.ProcessBlock(t, t)
	}
	core.FlushDenormals(t, denormalThreshold)

	c.predelay.Process(t, t)
	if c.multitapEnabled {
		c.multitap.Process(t, t)
	}
	if c.diffuserEnabled {
		c.diffuser.Process(t, t)
	}

	sum := c.lineSum[:n]
	out := c.lineOut[:n]
	clear(sum)
	for _, l := range c.lines[:c.lineCount] {
		l.Process(out, t)
		vecmath.AddBlockInPlace(sum, out)
	}
	vecmath.ScaleBlockInPlace(sum, c.lateGain/math.Sqrt(float64(c.lineCount)))

	early := c.scratch[:n]
	vecmath.ScaleBlock(early, t, c.earlyGain)
	vecmath.ScaleBlock(dst[:n], src, c.dryGain)
	vecmath.AddBlockInPlace(dst[:n], early)
	vecmath.AddBlockInPlace(dst[:n], sum)
}

// Reset clears every buffer and filter state. Parameters are kept.
func (c *Channel) Reset() {
	c.predelay.Reset()
	c.multitap.Reset()
	c.diffuser.Reset()
	c.highPass.Reset()
	c.lowPass.Reset()
	for _, l := range c.lines {
		l.Reset()
	}
}

func validateSampleRate(sampleRate float64) error {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return fmt.Errorf("reverb: sample rate must be > 0: %f", sampleRate)
	}
	return nil
}
