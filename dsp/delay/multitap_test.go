package delay

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-cloudseed/dsp/rng"
	"github.com/cwbudde/algo-cloudseed/internal/testutil"
)

func newTestMultitap(t *testing.T) *Multitap {
	t.Helper()
	m, err := NewMultitap(4096)
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func TestNewMultitapDefaults(t *testing.T) {
	if _, err := NewMultitap(MinTapLength); err == nil {
		t.Fatal("expected error for tiny capacity")
	}

	m := newTestMultitap(t)
	if m.TapCount() != 1 || m.TapLength() != 1000 || m.TapDecay() != 1 || m.Seed() != 0 {
		t.Fatalf("defaults: count=%d length=%d decay=%v seed=%d",
			m.TapCount(), m.TapLength(), m.TapDecay(), m.Seed())
	}
}

func TestMultitapTapsFromSeed(t *testing.T) {
	m := newTestMultitap(t)
	m.SetSeed(77)

	r := rng.Generate(77, MaxTaps*3)
	for i := range MaxTaps {
		wantSign := 1.0
		if r[3*i] >= 0.5 {
			wantSign = -1
		}
		g := m.gains[i]
		if math.Signbit(g) != math.Signbit(wantSign) {
			t.Fatalf("tap %d: sign of %v, want %v", i, g, wantSign)
		}
		if a := math.Abs(g); a < 0.1-1e-12 || a > 1+1e-12 {
			t.Fatalf("tap %d: |gain| %v outside [-20, 0] dB", i, a)
		}
		if p := m.position[i]; p < float64(i) || p > float64(i+1) {
			t.Fatalf("tap %d: position %v outside its slot", i, p)
		}
	}
}

func TestMultitapImpulseMatchesWeights(t *testing.T) {
	m := newTestMultitap(t)
	m.SetSeed(5)
	m.SetTapCount(16)
	m.SetTapLength(800)
	m.SetTapDecay(0.6)

	want := make([]float64, 900)
	for j := range m.TapCount() {
		want[m.offsets[j]] += m.effective[j]
	}

	got := make([]float64, len(want))
	m.Process(got, testutil.Impulse(len(want), 0))
	testutil.RequireSliceNearlyEqual(t, got, want, 1e-15)
}

func TestMultitapSingleTapGain(t *testing.T) {
	m := newTestMultitap(t)
	m.SetTapDecay(0)

	out := make([]float64, 1100)
	m.Process(out, testutil.Impulse(len(out), 0))

	var peak float64
	var nonZero int
	for _, y := range out {
		if y != 0 {
			nonZero++
			peak = y
		}
	}
	if nonZero != 1 {
		t.Fatalf("got %d non-zero samples, want 1", nonZero)
	}
	want := m.gains[0] * 3 / math.Sqrt2
	if math.Abs(peak-want) > 1e-12 {
		t.Fatalf("peak %v want %v", peak, want)
	}
}

func TestMultitapDecayAttenuatesLateTaps(t *testing.T) {
	m := newTestMultitap(t)
	m.SetTapCount(64)
	m.SetTapLength(2000)
	m.SetTapDecay(1)

	first := math.Abs(m.effective[0] / m.gains[0])
	last := math.Abs(m.effective[63] / m.gains[63])
	// exp(-3.3) at the end of the span.
	if ratio := last / first; ratio > 0.05 {
		t.Fatalf("late/early weight ratio %v, want < 0.05", ratio)
	}
}

func TestMultitapCrossSeed(t *testing.T) {
	a := newTestMultitap(t)
	a.SetSeed(1234)
	a.SetCrossSeed(1)

	b := newTestMultitap(t)
	b.SetSeed(^uint64(1234))

	if a.gains != b.gains || a.position != b.position {
		t.Fatal("cross seed 1 should equal the complemented seed")
	}
}

func TestMultitapClamps(t *testing.T) {
	m := newTestMultitap(t)
	m.SetTapCount(0)
	if m.TapCount() != 1 {
		t.Fatalf("count: got %d want 1", m.TapCount())
	}
	m.SetTapCount(1000)
	if m.TapCount() != MaxTaps {
		t.Fatalf("count: got %d want %d", m.TapCount(), MaxTaps)
	}
	m.SetTapLength(3)
	if m.TapLength() != MinTapLength {
		t.Fatalf("length: got %d want %d", m.TapLength(), MinTapLength)
	}
	m.SetTapLength(1 << 20)
	if m.TapLength() != 4095 {
		t.Fatalf("length: got %d want 4095", m.TapLength())
	}
	for j := range m.TapCount() {
		if m.offsets[j] < 0 || m.offsets[j] > 4095 {
			t.Fatalf("offset %d out of ring: %d", j, m.offsets[j])
		}
	}
}

func TestMultitapNoAllocs(t *testing.T) {
	m := newTestMultitap(t)
	buf := make([]float64, 128)
	allocs := testing.AllocsPerRun(50, func() {
		m.SetCrossSeed(0.3)
		m.SetTapCount(40)
		m.Process(buf, buf)
	})
	if allocs != 0 {
		t.Fatalf("allocs per run: %v", allocs)
	}
}
