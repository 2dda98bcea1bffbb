package reverb

import (
	"errors"
	"fmt"

	clone "github.com/huandu/go-clone/generic"

	"github.com/cwbudde/algo-vecmath"
)

const (
	int16InScale  = 1.0 / 32768
	int16OutScale = 32767
)

// ErrClosed is returned by operations on a closed Reverb.
var ErrClosed = errors.New("reverb: closed")

// Diagnostics reports non-fatal conditions of the last parameter update.
type Diagnostics struct {
	// FlooredDelays counts delay lines, over both channels, whose randomized
	// length fell below modulation depth plus two samples and was raised.
	FlooredDelays int
}

// Reverb is a stereo reverb instance.
type Reverb struct {
	cfg    config
	params Parameters

	left  *Channel
	right *Channel

	inL, inR   []float64
	outL, outR []float64
}

// New creates a reverb running at sampleRate. All buffers are allocated
// here; no later call except SetSampleRate allocates.
func New(sampleRate float64, opts ...Option) (*Reverb, error) {
	if err := validateSampleRate(sampleRate); err != nil {
		return nil, err
	}

	cfg := newConfig(sampleRate, opts)
	r := &Reverb{cfg: cfg, params: cfg.params}
	if err := r.build(sampleRate); err != nil {
		return nil, err
	}

	return r, nil
}

func (r *Reverb) build(sampleRate float64) error {
	bs := r.cfg.processor.BlockSize

	left, err := NewChannel(sampleRate, bs, false)
	if err != nil {
		return fmt.Errorf("reverb: left channel: %w", err)
	}
	right, err := NewChannel(sampleRate, bs, true)
	if err != nil {
		return fmt.Errorf("reverb: right channel: %w", err)
	}

	for _, c := range []*Channel{left, right} {
		c.SetLineCount(r.cfg.lineCount)
		c.SetSeeds(r.cfg.seeds)
	}

	r.cfg.processor.SampleRate = sampleRate
	r.left, r.right = left, right
	r.inL = make([]float64, bs)
	r.inR = make([]float64, bs)
	r.outL = make([]float64, bs)
	r.outR = make([]float64, bs)
	r.apply()

	return nil
}

func (r *Reverb) apply() {
	d := r.params.Derive(r.cfg.processor.SampleRate)
	r.left.ApplyDerived(d)
	r.right.ApplyDerived(d)
}

// SampleRate returns the sample rate in Hz.
func (r *Reverb) SampleRate() float64 { return r.cfg.processor.SampleRate }

// BlockSize returns the native block size.
func (r *Reverb) BlockSize() int { return r.cfg.processor.BlockSize }

// SetSampleRate rebuilds both channels for a new sample rate. Parameters,
// seeds and line count are kept; audio state is cleared. On error the
// reverb is unchanged.
func (r *Reverb) SetSampleRate(sampleRate float64) error {
	if r.left == nil {
		return ErrClosed
	}
	if err := validateSampleRate(sampleRate); err != nil {
		return err
	}

	next := &Reverb{cfg: r.cfg, params: r.params}
	next.cfg.lineCount = r.left.LineCount()
	next.cfg.seeds = r.left.Seeds()
	if err := next.build(sampleRate); err != nil {
		return err
	}
	*r = *next

	return nil
}

// SetParameter sets one parameter by name. Values are clamped to [0, 1].
// Every parameter except mix re-derives the channel state.
func (r *Reverb) SetParameter(name string, v float64) error {
	if r.left == nil {
		return ErrClosed
	}
	if err := r.params.Set(name, v); err != nil {
		return err
	}
	if name != ParamMix {
		r.apply()
	}
	return nil
}

// Parameter returns the last value set for name.
func (r *Reverb) Parameter(name string) (float64, error) {
	return r.params.Get(name)
}

// SetParameters replaces every parameter at once.
func (r *Reverb) SetParameters(p Parameters) {
	r.params = p.Clamped()
	if r.left != nil {
		r.apply()
	}
}

// Parameters returns the current parameters.
func (r *Reverb) Parameters() Parameters { return r.params }

// ParameterNames returns the names accepted by SetParameter.
func (r *Reverb) ParameterNames() []string { return ParameterNames() }

// Derived returns the physical quantities of the current parameters.
func (r *Reverb) Derived() Derived {
	return r.params.Derive(r.cfg.processor.SampleRate)
}

// Left returns the left channel.
func (r *Reverb) Left() *Channel { return r.left }

// Right returns the right channel.
func (r *Reverb) Right() *Channel { return r.right }

// Diagnostics returns the conditions recorded by the last update.
func (r *Reverb) Diagnostics() Diagnostics {
	if r.left == nil {
		return Diagnostics{}
	}
	return Diagnostics{FlooredDelays: r.left.FlooredDelays() + r.right.FlooredDelays()}
}

// Reset clears all audio state. Parameters are kept.
func (r *Reverb) Reset() {
	if r.left == nil {
		return
	}
	r.left.Reset()
	r.right.Reset()
}

// Clone returns an independent deep copy, including all audio state. The
// copy continues bit-identically to the original for the same input.
func (r *Reverb) Clone() *Reverb {
	return clone.Clone(r)
}

// Close releases all buffers. Processing a closed reverb is a no-op.
func (r *Reverb) Close() error {
	r.left, r.right = nil, nil
	r.inL, r.inR, r.outL, r.outR = nil, nil, nil, nil
	return nil
}

// ProcessStereo processes two planar channels in place. If the slices
// differ in length, only the common prefix is processed.
func (r *Reverb) ProcessStereo(left, right []float64) {
	if r.left == nil {
		return
	}

	n := min(len(left), len(right))
	bs := len(r.inL)
	for start := 0; start < n; start += bs {
		m := min(bs, n-start)
		copy(r.inL, left[start:start+m])
		copy(r.inR, right[start:start+m])
		r.processChunk(m)
		copy(left[start:start+m], r.outL[:m])
		copy(right[start:start+m], r.outR[:m])
	}
}

// ProcessInterleaved processes interleaved L/R frames in place. A trailing
// odd sample is left untouched.
func (r *Reverb) ProcessInterleaved(buf []float64) {
	if r.left == nil {
		return
	}

	frames := len(buf) / 2
	bs := len(r.inL)
	for start := 0; start < frames; start += bs {
		m := min(bs, frames-start)
		frame := buf[2*start : 2*(start+m)]
		for i := range m {
			r.inL[i] = frame[2*i]
			r.inR[i] = frame[2*i+1]
		}
		r.processChunk(m)
		for i := range m {
			frame[2*i] = r.outL[i]
			frame[2*i+1] = r.outR[i]
		}
	}
}

// ProcessInt16 processes interleaved 16-bit L/R frames in place. Input is
// scaled by 1/32768, output by 32767 and truncated toward zero.
func (r *Reverb) ProcessInt16(buf []int16) {
	if r.left == nil {
		return
	}

	frames := len(buf) / 2
	bs := len(r.inL)
	for start := 0; start < frames; start += bs {
		m := min(bs, frames-start)
		frame := buf[2*start : 2*(start+m)]
		for i := range m {
			r.inL[i] = float64(frame[2*i]) * int16InScale
			r.inR[i] = float64(frame[2*i+1]) * int16InScale
		}
		r.processChunk(m)
		for i := range m {
			frame[2*i] = int16(r.outL[i] * int16OutScale)
			frame[2*i+1] = int16(r.outR[i] * int16OutScale)
		}
	}
}

// processChunk renders inL/inR[:m] into outL/outR[:m] as the clamped
// dry/wet mix.
func (r *Reverb) processChunk(m int) {
	inL, inR := r.inL[:m], r.inR[:m]
	outL, outR := r.outL[:m], r.outR[:m]

	r.left.Process(outL, inL)
	r.right.Process(outR, inR)

	mix := r.params.Mix
	mixBlock(outL, inL, mix)
	mixBlock(outR, inR, mix)
}

// mixBlock computes wet = dry*(1-mix) + wet*mix, clamped to [-1, 1].
func mixBlock(wet, dry []float64, mix float64) {
	vecmath.ScaleBlockInPlace(wet, mix)
	for i, x := range dry {
		y := x*(1-mix) + wet[i]
		if y > 1 {
			y = 1
		} else if y < -1 {
			y = -1
		}
		wet[i] = y
	}
}
