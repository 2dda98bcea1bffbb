package reverb

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-cloudseed/dsp/core"
	"github.com/cwbudde/algo-cloudseed/dsp/curve"
)

// Parameter names accepted by SetParameter and Parameter.
const (
	ParamMix       = "mix"
	ParamDecay     = "decay"
	ParamSize      = "size"
	ParamPreDelay  = "predelay"
	ParamDiffusion = "diffusion"
	ParamLowCut    = "low_cut"
	ParamHighCut   = "high_cut"
	ParamModAmount = "mod_amount"
	ParamModRate   = "mod_rate"
	ParamCrossSeed = "cross_seed"
)

var parameterNames = [...]string{
	ParamMix, ParamDecay, ParamSize, ParamPreDelay, ParamDiffusion,
	ParamLowCut, ParamHighCut, ParamModAmount, ParamModRate, ParamCrossSeed,
}

var (
	// ErrUnknownParameter is returned for a parameter name outside
	// ParameterNames.
	ErrUnknownParameter = errors.New("reverb: unknown parameter")
	// ErrInvalidValue is returned for NaN parameter values.
	ErrInvalidValue = errors.New("reverb: invalid parameter value")
)

// ParameterNames returns the names of all parameters in display order.
func ParameterNames() []string {
	names := make([]string, len(parameterNames))
	copy(names, parameterNames[:])
	return names
}

// Parameters holds the ten normalized controls, each in [0, 1].
type Parameters struct {
	Mix       float64 `json:"mix"`
	Decay     float64 `json:"decay"`
	Size      float64 `json:"size"`
	PreDelay  float64 `json:"predelay"`
	Diffusion float64 `json:"diffusion"`
	LowCut    float64 `json:"low_cut"`
	HighCut   float64 `json:"high_cut"`
	ModAmount float64 `json:"mod_amount"`
	ModRate   float64 `json:"mod_rate"`
	CrossSeed float64 `json:"cross_seed"`
}

// DefaultParameters returns the factory settings.
func DefaultParameters() Parameters {
	return Parameters{
		Mix:       0.3,
		Decay:     0.5,
		Size:      0.5,
		PreDelay:  0,
		Diffusion: 0.7,
		LowCut:    0,
		HighCut:   1,
		ModAmount: 0.3,
		ModRate:   0.3,
		CrossSeed: 0.5,
	}
}

func (p *Parameters) field(name string) *float64 {
	switch name {
	case ParamMix:
		return &p.Mix
	case ParamDecay:
		return &p.Decay
	case ParamSize:
		return &p.Size
	case ParamPreDelay:
		return &p.PreDelay
	case ParamDiffusion:
		return &p.Diffusion
	case ParamLowCut:
		return &p.LowCut
	case ParamHighCut:
		return &p.HighCut
	case ParamModAmount:
		return &p.ModAmount
	case ParamModRate:
		return &p.ModRate
	case ParamCrossSeed:
		return &p.CrossSeed
	default:
		return nil
	}
}

// Set stores v, clamped to [0, 1], under name.
func (p *Parameters) Set(name string, v float64) error {
	f := p.field(name)
	if f == nil {
		return fmt.Errorf("%w: %q", ErrUnknownParameter, name)
	}
	if math.IsNaN(v) {
		return fmt.Errorf("%w: %s is NaN", ErrInvalidValue, name)
	}
	*f = core.Clamp(v, 0, 1)
	return nil
}

// Get returns the value stored under name.
func (p Parameters) Get(name string) (float64, error) {
	f := p.field(name)
	if f == nil {
		return 0, fmt.Errorf("%w: %q", ErrUnknownParameter, name)
	}
	return *f, nil
}

// Clamped returns p with every field clamped to [0, 1]. NaN becomes 0.
func (p Parameters) Clamped() Parameters {
	for _, name := range parameterNames {
		f := p.field(name)
		*f = core.Clamp01(*f)
	}
	return p
}

// Derived holds the physical quantities computed from Parameters at a given
// sample rate.
type Derived struct {
	SampleRate float64

	PreDelayMs      float64
	PreDelaySamples int

	LineSizeMs       float64
	LineDelaySamples int

	DecaySeconds     float64
	LineDecaySamples float64

	// ModAmountSamples drives the delay lines, the late diffusers and the
	// early diffuser alike.
	ModAmountSamples float64
	ModRateHz        float64

	EarlyStages       int
	EarlyDelayMs      float64
	EarlyDelaySamples int
	EarlyFeedback     float64

	LowCutHz  float64
	HighCutHz float64
	DampingHz float64

	CrossSeed float64
}

// Derive maps p onto physical units at sampleRate.
func (p Parameters) Derive(sampleRate float64) Derived {
	p = p.Clamped()

	d := Derived{SampleRate: sampleRate}

	d.PreDelayMs = curve.TwoDecade(p.PreDelay) * 500
	d.PreDelaySamples = max(1, int(core.MsToSamples(d.PreDelayMs, sampleRate)))

	d.LineSizeMs = 20 + curve.TwoDecade(p.Size)*980
	d.LineDelaySamples = int(core.MsToSamples(d.LineSizeMs, sampleRate))

	d.DecaySeconds = 0.05 + curve.ThreeDecade(p.Decay)*59.95
	d.LineDecaySamples = d.DecaySeconds * sampleRate

	d.ModAmountSamples = p.ModAmount * 2.5 * sampleRate / 1000
	d.ModRateHz = curve.TwoDecade(p.ModRate) * 5

	d.EarlyStages = 4 + int(p.Diffusion*7.999)
	d.EarlyDelayMs = 10 + p.Size*90
	d.EarlyDelaySamples = int(core.MsToSamples(d.EarlyDelayMs, sampleRate))
	d.EarlyFeedback = p.Diffusion

	d.LowCutHz = 20 + curve.FourOctave(p.LowCut)*980
	d.HighCutHz = 400 + curve.FourOctave(p.HighCut)*19600
	d.DampingHz = 400 + curve.FourOctave(p.HighCut*0.8)*19600

	d.CrossSeed = p.CrossSeed

	return d
}
