package level

import (
	"math"
	"testing"
)

func TestMeterStereo(t *testing.T) {
	m, err := NewMeter(2)
	if err != nil {
		t.Fatal(err)
	}

	// Left: square wave at half scale. Right: silence except one clipped sample.
	m.Update([]int16{16384, 0, -16384, 0, 16384, 0})
	m.Update([]int16{-16384, math.MinInt16})

	left := m.Result(0)
	if left.Frames != 4 {
		t.Fatalf("frames = %d, want 4", left.Frames)
	}
	if left.Peak != 0.5 || left.RMS != 0.5 {
		t.Fatalf("left peak %v rms %v, want 0.5", left.Peak, left.RMS)
	}
	if math.Abs(left.PeakDB+6.0206) > 1e-4 || left.Crest != 0 || left.Clipped != 0 {
		t.Fatalf("left = %+v", left)
	}

	right := m.Result(1)
	if right.Peak != 1 || right.Clipped != 1 {
		t.Fatalf("right = %+v", right)
	}
	if math.Abs(right.Crest-6.0206) > 1e-4 {
		t.Fatalf("right crest = %v dB, want 6.02", right.Crest)
	}
}

func TestMeterSplitFrames(t *testing.T) {
	a, _ := NewMeter(3)
	b, _ := NewMeter(3)

	in := []int16{1, 2, 3, 4, 5, 6, 7, 8, 9, -10, 11, -12}
	a.Update(in)
	b.Update(in[:1])
	b.Update(in[1:5])
	b.Update(in[5:7])
	b.Update(in[7:])

	for c := range 3 {
		if a.Result(c) != b.Result(c) {
			t.Fatalf("channel %d: %+v != %+v", c, a.Result(c), b.Result(c))
		}
	}
	if a.Result(0).Frames != 4 {
		t.Fatalf("frames = %d, want 4", a.Result(0).Frames)
	}
}

func TestMeterEmptyAndReset(t *testing.T) {
	if _, err := NewMeter(0); err == nil {
		t.Fatal("expected error for zero channels")
	}

	m, _ := NewMeter(1)
	if s := m.Result(0); !math.IsInf(s.PeakDB, -1) || !math.IsInf(s.RMSDB, -1) {
		t.Fatalf("empty = %+v", s)
	}

	m.Update([]int16{100, -200})
	m.Reset()
	if s := m.Result(0); s.Frames != 0 || s.Peak != 0 {
		t.Fatalf("after reset = %+v", s)
	}
	if s := m.Result(5); s.Frames != 0 {
		t.Fatalf("out of range = %+v", s)
	}
}
