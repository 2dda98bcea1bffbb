package reverb

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-cloudseed/dsp/core"
	"github.com/cwbudde/algo-cloudseed/internal/testutil"
)

const testSampleRate = 48000.0

func newTestLine(t *testing.T, blockSize int) *DelayLine {
	t.Helper()
	l, err := NewDelayLine(testSampleRate, blockSize)
	if err != nil {
		t.Fatalf("NewDelayLine: %v", err)
	}
	return l
}

func TestNewDelayLineValidation(t *testing.T) {
	if _, err := NewDelayLine(0, 128); err == nil {
		t.Fatal("expected error for zero sample rate")
	}
	if _, err := NewDelayLine(testSampleRate, 0); err == nil {
		t.Fatal("expected error for zero block size")
	}

	l := newTestLine(t, 128)
	if l.Delay() != 100 || l.Feedback() != 0 || l.CutoffEnabled() || l.Cutoff() != 1000 {
		t.Fatalf("defaults: delay=%d fb=%v cutoff=%v/%v", l.Delay(), l.Feedback(), l.CutoffEnabled(), l.Cutoff())
	}
}

func TestDelayLineRecirculatesOneBlockLate(t *testing.T) {
	const (
		block = 128
		d     = 300
		g     = 0.5
	)
	l := newTestLine(t, block)
	l.SetDelay(d)
	l.SetFeedback(g)

	out := make([]float64, 4*(d+block))
	l.Process(out, testutil.Impulse(len(out), 0))

	want := make([]float64, len(out))
	for k, amp := 0, 1.0; d+k*(d+block) < len(out); k, amp = k+1, amp*g {
		want[d+k*(d+block)] = amp
	}
	testutil.RequireSliceNearlyEqual(t, out, want, 1e-15)
}

func TestDelayLineMinimumDecay(t *testing.T) {
	const block = 128

	p := DefaultParameters()
	p.Decay = 0
	derived := p.Derive(testSampleRate)
	decaySamples := derived.LineDecaySamples
	if decaySamples != 0.05*testSampleRate {
		t.Fatalf("minimum decay = %v samples, want %v", decaySamples, 0.05*testSampleRate)
	}

	const d = 800
	l := newTestLine(t, block)
	l.SetDelay(d)
	l.SetFeedback(core.DBToLinear(d / decaySamples * -60))

	out := make([]float64, 6000)
	l.Process(out, testutil.Impulse(len(out), 0))

	// Every pass adds one block of latency on top of the nominal delay.
	passes := int(math.Ceil(decaySamples / d))
	deadline := d + int(decaySamples) + passes*block
	limit := core.DBToLinear(-60) * (1 + 1e-9)
	for n := deadline + 1; n < len(out); n++ {
		if math.Abs(out[n]) > limit {
			t.Fatalf("sample %d: |y| = %v above -60 dB after %d samples", n, math.Abs(out[n]), deadline)
		}
	}
	if math.Abs(out[deadline]-core.DBToLinear(-60)) > 1e-12 {
		t.Fatalf("pass %d: y = %v, want -60 dB", passes, out[deadline])
	}
}

func TestDelayLineTapPoint(t *testing.T) {
	pre := newTestLine(t, 64)
	post := newTestLine(t, 64)
	for _, l := range []*DelayLine{pre, post} {
		l.SetDelay(50)
		l.SetCutoffEnabled(true)
		l.SetCutoff(500)
	}
	post.SetTapPostDiffuser(true)

	in := testutil.DeterministicNoise(5, 1, 512)
	a := make([]float64, len(in))
	b := make([]float64, len(in))
	pre.Process(a, in)
	post.Process(b, in)

	// Without feedback the pre tap is the plain delayed input.
	testutil.RequireSliceNearlyEqual(t, a[50:], in[:len(in)-50], 0)
	if diff, _ := testutil.MaxAbsDiff(a, b); diff == 0 {
		t.Fatal("post tap should include the damping filter")
	}
}

func TestDelayLineOptionalStagesStayStable(t *testing.T) {
	l := newTestLine(t, 128)
	l.SetDelay(1500)
	l.SetFeedback(0.9)
	l.SetDiffuserEnabled(true)
	l.SetDiffuserStages(4)
	l.SetDiffuserDelay(300)
	l.SetDiffuserFeedback(0.6)
	l.SetDiffuserModAmount(8)
	l.SetDiffuserModRate(1)
	l.SetLowShelfEnabled(true)
	l.SetHighShelfEnabled(true)
	l.SetCutoffEnabled(true)
	l.SetLineModAmount(20)
	l.SetLineModRate(0.5 / testSampleRate)
	l.SeedPhases(3)

	out := make([]float64, 96000)
	l.Process(out, testutil.Impulse(len(out), 0))
	testutil.RequireFinite(t, out)

	first, last := testutil.Energy(out[:48000]), testutil.Energy(out[48000:])
	if !(last < first) {
		t.Fatalf("tail energy %v not below head energy %v", last, first)
	}
}

func TestDelayLineSplitsLongBlocks(t *testing.T) {
	a := newTestLine(t, 32)
	b := newTestLine(t, 32)
	for _, l := range []*DelayLine{a, b} {
		l.SetDelay(45)
		l.SetFeedback(0.7)
	}

	in := testutil.DeterministicNoise(8, 1, 320)
	whole := make([]float64, len(in))
	a.Process(whole, in)

	parts := make([]float64, len(in))
	for start := 0; start < len(in); start += 32 {
		b.Process(parts[start:start+32], in[start:start+32])
	}
	testutil.RequireSliceNearlyEqual(t, whole, parts, 0)
}

func TestDelayLineReset(t *testing.T) {
	l := newTestLine(t, 64)
	l.SetDelay(10)
	l.SetFeedback(0.8)
	buf := testutil.DC(1, 256)
	l.Process(buf, buf)

	l.Reset()
	out := make([]float64, 256)
	l.Process(out, make([]float64, 256))
	testutil.RequireSliceNearlyEqual(t, out, make([]float64, 256), 0)
}
