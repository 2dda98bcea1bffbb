package onepole

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-cloudseed/internal/testutil"
)

func magnitudeSquared(a, freq, sampleRate float64) float64 {
	w := 2 * math.Pi * freq / sampleRate
	b := 1 - a
	return b * b / (1 - 2*a*math.Cos(w) + a*a)
}

func TestLowpassMinus3dBAtCutoff(t *testing.T) {
	for _, fc := range []float64{100, 1000, 5000, 15000} {
		f, err := NewLowpass(48000, fc)
		if err != nil {
			t.Fatalf("NewLowpass: %v", err)
		}
		got := magnitudeSquared(f.Coefficient(), fc, 48000)
		if math.Abs(got-0.5) > 1e-9 {
			t.Fatalf("fc=%v: |H|^2 = %v, want 0.5", fc, got)
		}
	}
}

func TestLowpassUnityDCGain(t *testing.T) {
	f, err := NewLowpass(48000, 1000)
	if err != nil {
		t.Fatalf("NewLowpass: %v", err)
	}

	var y float64
	for range 48000 {
		y = f.ProcessSample(1)
	}
	if math.Abs(y-1) > 1e-9 {
		t.Fatalf("DC output = %v, want 1", y)
	}
}

func TestHighpassRejectsDC(t *testing.T) {
	f, err := NewHighpass(48000, 100)
	if err != nil {
		t.Fatalf("NewHighpass: %v", err)
	}

	var y float64
	for range 48000 {
		y = f.ProcessSample(1)
	}
	if math.Abs(y) > 1e-6 {
		t.Fatalf("DC output = %v, want ~0", y)
	}
}

func TestHighpassPassesNyquist(t *testing.T) {
	f, err := NewHighpass(48000, 20)
	if err != nil {
		t.Fatalf("NewHighpass: %v", err)
	}

	var peak float64
	for i := range 4800 {
		x := 1.0
		if i%2 == 1 {
			x = -1
		}
		y := f.ProcessSample(x)
		if i > 4000 {
			peak = math.Max(peak, math.Abs(y))
		}
	}
	if peak < 0.99 {
		t.Fatalf("Nyquist peak = %v, want ~1", peak)
	}
}

func TestCutoffAboveNyquistIsClamped(t *testing.T) {
	f, err := NewLowpass(48000, 30000)
	if err != nil {
		t.Fatalf("NewLowpass: %v", err)
	}
	want := coefficient(48000*0.499, 48000)
	if f.Coefficient() != want {
		t.Fatalf("coefficient = %v, want %v", f.Coefficient(), want)
	}
	testutil.RequireFinite(t, []float64{f.ProcessSample(1), f.ProcessSample(-1)})
}

func TestLowpassDenormalGuard(t *testing.T) {
	f, err := NewLowpass(48000, 1000)
	if err != nil {
		t.Fatalf("NewLowpass: %v", err)
	}

	f.ProcessSample(1)
	var y float64
	for range 10000 {
		y = f.ProcessSample(0)
	}
	if y != 0 {
		t.Fatalf("state after silence = %g, want exact 0", y)
	}
}

func TestHighpassDenormalGuard(t *testing.T) {
	f, err := NewHighpass(48000, 1000)
	if err != nil {
		t.Fatalf("NewHighpass: %v", err)
	}

	f.ProcessSample(1)
	var y float64
	for range 10000 {
		y = f.ProcessSample(0)
	}
	if y != 0 {
		t.Fatalf("output after silence = %g, want exact 0", y)
	}
}

func TestSetCutoffKeepsState(t *testing.T) {
	f, err := NewLowpass(48000, 1000)
	if err != nil {
		t.Fatalf("NewLowpass: %v", err)
	}
	for range 100 {
		f.ProcessSample(1)
	}
	before := f.y

	f.SetCutoff(2000)
	if f.y != before {
		t.Fatalf("SetCutoff changed state: %v -> %v", before, f.y)
	}

	f.Reset()
	if f.y != 0 {
		t.Fatalf("Reset left state %v", f.y)
	}
}

func TestProcessBlockMatchesSample(t *testing.T) {
	in := testutil.DeterministicNoise(7, 0.5, 256)

	a, _ := NewLowpass(48000, 3000)
	b, _ := NewLowpass(48000, 3000)

	want := make([]float64, len(in))
	for i, x := range in {
		want[i] = a.ProcessSample(x)
	}

	got := make([]float64, len(in))
	copy(got, in)
	b.ProcessBlock(got, got)

	testutil.RequireSliceNearlyEqual(t, got, want, 0)
}

func TestInvalidConstruction(t *testing.T) {
	if _, err := NewLowpass(0, 100); err == nil {
		t.Fatal("expected error for zero sample rate")
	}
	if _, err := NewHighpass(48000, math.NaN()); err == nil {
		t.Fatal("expected error for NaN cutoff")
	}
}

func TestSetSampleRateRecomputes(t *testing.T) {
	f, _ := NewLowpass(48000, 1000)
	before := f.Coefficient()
	if err := f.SetSampleRate(96000); err != nil {
		t.Fatalf("SetSampleRate: %v", err)
	}
	if f.Coefficient() <= before {
		t.Fatalf("coefficient at 96k = %v, want > %v", f.Coefficient(), before)
	}
}
