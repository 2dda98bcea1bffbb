package reverb

import (
	"fmt"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-cloudseed/dsp/allpass"
	"github.com/cwbudde/algo-cloudseed/dsp/delay"
	"github.com/cwbudde/algo-cloudseed/dsp/filter/biquad"
	"github.com/cwbudde/algo-cloudseed/dsp/filter/onepole"
	"github.com/cwbudde/algo-cloudseed/dsp/rng"
)

const (
	// MaxDelaySeconds is the ring length of every modulated delay.
	MaxDelaySeconds = 3.0

	defaultLineDelay        = 100
	defaultLowShelfHz       = 20
	defaultLowShelfGainDB   = -20
	defaultHighShelfHz      = 19000
	defaultHighShelfGainDB  = -20
	defaultDampingHz        = 1000
	defaultLineDiffuserSeed = 1
)

// DelayLine is one recirculating branch of the late reverb. Its output is
// fed back into its own input one block later.
type DelayLine struct {
	delay     *delay.Modulated
	diffuser  *allpass.Diffuser
	lowShelf  *biquad.Shelf
	highShelf *biquad.Shelf
	damping   *onepole.Lowpass
	feedback  *delay.Ring

	gain    float64
	scratch []float64

	diffuserEnabled  bool
	lowShelfEnabled  bool
	highShelfEnabled bool
	dampingEnabled   bool
	tapPostDiffuser  bool
}

// NewDelayLine creates a delay line processing blocks of up to blockSize
// samples. All optional stages start disabled and the feedback gain is 0.
func NewDelayLine(sampleRate float64, blockSize int) (*DelayLine, error) {
	if err := validateSampleRate(sampleRate); err != nil {
		return nil, err
	}
	if blockSize <= 0 {
		return nil, fmt.Errorf("reverb: delay line block size must be > 0: %d", blockSize)
	}

	md, err := delay.NewModulated(delay.CapacityFor(MaxDelaySeconds, sampleRate))
	if err != nil {
		return nil, fmt.Errorf("reverb: delay line: %w", err)
	}
	md.SetDelay(defaultLineDelay)

	diff, err := allpass.NewDiffuser(sampleRate)
	if err != nil {
		return nil, fmt.Errorf("reverb: delay line: %w", err)
	}
	diff.SetSeeds(defaultLineDiffuserSeed, 0)

	low, err := biquad.NewShelf(biquad.ShelfLow, sampleRate, defaultLowShelfHz, defaultLowShelfGainDB)
	if err != nil {
		return nil, fmt.Errorf("reverb: delay line: %w", err)
	}
	high, err := biquad.NewShelf(biquad.ShelfHigh, sampleRate, defaultHighShelfHz, defaultHighShelfGainDB)
	if err != nil {
		return nil, fmt.Errorf("reverb: delay line: %w", err)
	}
	lp, err := onepole.NewLowpass(sampleRate, defaultDampingHz)
	if err != nil {
		return nil, fmt.Errorf("reverb: delay line: %w", err)
	}
	ring, err := delay.NewRing(2 * blockSize)
	if err != nil {
		return nil, fmt.Errorf("reverb: delay line: %w", err)
	}

	return &DelayLine{
		delay:     md,
		diffuser:  diff,
		lowShelf:  low,
		highShelf: high,
		damping:   lp,
		feedback:  ring,
		scratch:   make([]float64, blockSize),
	}, nil
}

// BlockSize returns the longest block Process handles in one pass.
func (l *DelayLine) BlockSize() int { return len(l.scratch) }

// Delay returns the base delay in samples.
func (l *DelayLine) Delay() int { return l.delay.Delay() }

// SetDelay sets the base delay in samples.
func (l *DelayLine) SetDelay(samples int) { l.delay.SetDelay(samples) }

// Feedback returns the per-pass feedback gain.
func (l *DelayLine) Feedback() float64 { return l.gain }

// SetFeedback sets the per-pass feedback gain.
func (l *DelayLine) SetFeedback(gain float64) { l.gain = gain }

// SetLineModAmount sets the delay modulation depth in samples.
func (l *DelayLine) SetLineModAmount(samples float64) { l.delay.SetModAmount(samples) }

// SetLineModRate sets the delay modulation rate in cycles per sample.
func (l *DelayLine) SetLineModRate(cyclesPerSample float64) { l.delay.SetModRate(cyclesPerSample) }

// SetDiffuserSeed reseeds the late diffuser.
func (l *DelayLine) SetDiffuserSeed(seed uint64, crossSeed float64) {
	l.diffuser.SetSeeds(seed, crossSeed)
}

// SetDiffuserDelay sets the late diffuser base delay in samples.
func (l *DelayLine) SetDiffuserDelay(samples int) { l.diffuser.SetDelay(samples) }

// SetDiffuserFeedback sets the late diffuser allpass coefficient.
func (l *DelayLine) SetDiffuserFeedback(g float64) { l.diffuser.SetFeedback(g) }

// SetDiffuserStages sets the number of late diffuser stages.
func (l *DelayLine) SetDiffuserStages(n int) { l.diffuser.SetStages(n) }

// SetDiffuserModAmount sets the late diffuser depth in samples. A depth of
// zero switches the diffuser to fixed delays.
func (l *DelayLine) SetDiffuserModAmount(samples float64) {
	l.diffuser.SetModulation(samples > 0)
	l.diffuser.SetModAmount(samples)
}

// SetDiffuserModRate sets the late diffuser rate in Hz.
func (l *DelayLine) SetDiffuserModRate(hz float64) { l.diffuser.SetModRate(hz) }

// SetInterpolation toggles interpolation in the late diffuser.
func (l *DelayLine) SetInterpolation(enabled bool) { l.diffuser.SetInterpolation(enabled) }

// SetLowShelf configures the low shelf.
func (l *DelayLine) SetLowShelf(freqHz, gainDB float64) {
	l.lowShelf.SetFrequency(freqHz)
	l.lowShelf.SetGainDB(gainDB)
}

// SetHighShelf configures the high shelf.
func (l *DelayLine) SetHighShelf(freqHz, gainDB float64) {
	l.highShelf.SetFrequency(freqHz)
	l.highShelf.SetGainDB(gainDB)
}

// SetCutoff sets the damping low-pass cutoff in Hz.
func (l *DelayLine) SetCutoff(hz float64) { l.damping.SetCutoff(hz) }

// Cutoff returns the damping low-pass cutoff in Hz.
func (l *DelayLine) Cutoff() float64 { return l.damping.Cutoff() }

// SetDiffuserEnabled toggles the late diffuser.
func (l *DelayLine) SetDiffuserEnabled(enabled bool) { l.diffuserEnabled = enabled }

// SetLowShelfEnabled toggles the low shelf.
func (l *DelayLine) SetLowShelfEnabled(enabled bool) { l.lowShelfEnabled = enabled }

// SetHighShelfEnabled toggles the high shelf.
func (l *DelayLine) SetHighShelfEnabled(enabled bool) { l.highShelfEnabled = enabled }

// SetCutoffEnabled toggles the damping low-pass.
func (l *DelayLine) SetCutoffEnabled(enabled bool) { l.dampingEnabled = enabled }

// CutoffEnabled reports whether the damping low-pass is active.
func (l *DelayLine) CutoffEnabled() bool { return l.dampingEnabled }

// SetTapPostDiffuser selects whether the line output is taken after the
// diffuser and filters (true) or straight after the modulated delay (false).
func (l *DelayLine) SetTapPostDiffuser(enabled bool) { l.tapPostDiffuser = enabled }

// SeedPhases derives the LFO start phases of the delay and of every late
// diffuser stage from seed.
func (l *DelayLine) SeedPhases(seed uint64) {
	g := rng.NewLCG(seed)
	l.delay.SetPhase(0.01 + 0.98*g.Float64())
	l.diffuser.SeedPhases(uint64(g.Next()))
}

// Process runs src through the line into dst. dst must be at least as long
// as src and may alias it. Blocks longer than BlockSize are split.
func (l *DelayLine) Process(dst, src []float64) {
	bs := len(l.scratch)
	for start := 0; start < len(src); start += bs {
		end := min(start+bs, len(src))
		l.processBlock(dst[start:end], src[start:end])
	}
}

func (l *DelayLine) processBlock(dst, src []float64) {
	t := l.scratch[:len(src)]

	l.feedback.Pop(t)
	vecmath.ScaleBlockInPlace(t, l.gain)
	vecmath.AddBlockInPlace(t, src)

	l.delay.Process(t, t)

	if !l.tapPostDiffuser {
		copy(dst, t)
	}
	if l.diffuserEnabled {
		l.diffuser.Process(t, t)
	}
	if l.lowShelfEnabled {
		l.lowShelf.ProcessBlock(t)
	}
	if l.highShelfEnabled {
		l.highShelf.ProcessBlock(t)
	}
	if l.dampingEnabled {
		l.damping.ProcessBlock(t, t)
	}

	l.feedback.Push(t)

	if l.tapPostDiffuser {
		copy(dst, t)
	}
}

// Reset clears every buffer and filter state of the line.
func (l *DelayLine) Reset() {
	l.delay.Reset()
	l.diffuser.Reset()
	l.lowShelf.Reset()
	l.highShelf.Reset()
	l.damping.Reset()
	l.feedback.Reset()
}
