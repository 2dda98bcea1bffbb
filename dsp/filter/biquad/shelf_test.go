package biquad

import (
	"math"
	"testing"
)

func TestShelfEndpointGains(t *testing.T) {
	const fs = 48000.0
	tests := []struct {
		name      string
		kind      ShelfKind
		freq      float64
		gain      float64
		wantDC    float64
		wantNyqst float64
	}{
		{"low cut", ShelfLow, 20, -20, -20, 0},
		{"low boost", ShelfLow, 500, 12, 12, 0},
		{"high cut", ShelfHigh, 19000, -20, 0, -20},
		{"high boost", ShelfHigh, 4000, 9, 0, 9},
		{"flat", ShelfLow, 1000, 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c Coefficients
			if tt.kind == ShelfLow {
				c = LowShelf(tt.freq, tt.gain, fs)
			} else {
				c = HighShelf(tt.freq, tt.gain, fs)
			}
			// A frequency of exactly 0 makes cos() exact; use it for DC.
			if got := c.MagnitudeDB(0, fs); math.Abs(got-tt.wantDC) > 1e-3 {
				t.Errorf("DC gain = %.6f dB, want %.6f", got, tt.wantDC)
			}
			if got := c.MagnitudeDB(fs/2, fs); math.Abs(got-tt.wantNyqst) > 1e-3 {
				t.Errorf("Nyquist gain = %.6f dB, want %.6f", got, tt.wantNyqst)
			}
		})
	}
}

func TestShelfBoostAndCutAreInverse(t *testing.T) {
	const fs = 48000.0
	for _, design := range []func(float64, float64, float64) Coefficients{LowShelf, HighShelf} {
		boost := design(800, 15, fs)
		cut := design(800, -15, fs)
		for _, f := range []float64{50, 400, 800, 1600, 12000} {
			sum := boost.MagnitudeDB(f, fs) + cut.MagnitudeDB(f, fs)
			if math.Abs(sum) > 1e-8 {
				t.Fatalf("f=%v: boost+cut = %v dB, want 0", f, sum)
			}
		}
	}
}

func TestShelfGainClamp(t *testing.T) {
	const fs = 48000.0
	a := LowShelf(100, -90, fs)
	b := LowShelf(100, -MaxShelfGainDB, fs)
	if a != b {
		t.Fatalf("gain not clamped: %+v vs %+v", a, b)
	}

	s, err := NewShelf(ShelfHigh, fs, 1000, 75)
	if err != nil {
		t.Fatalf("NewShelf: %v", err)
	}
	if s.GainDB() != MaxShelfGainDB {
		t.Fatalf("GainDB = %v, want %v", s.GainDB(), MaxShelfGainDB)
	}
}

func TestShelfFrequencyAboveNyquistStaysFinite(t *testing.T) {
	c := HighShelf(30000, -6, 48000)
	for _, v := range []float64{c.B0, c.B1, c.B2, c.A1, c.A2} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("non-finite coefficient in %+v", c)
		}
	}
}

func TestShelfSettersKeepHistory(t *testing.T) {
	s, err := NewShelf(ShelfLow, 48000, 200, -6)
	if err != nil {
		t.Fatalf("NewShelf: %v", err)
	}
	for range 64 {
		s.ProcessSample(0.5)
	}
	state := s.State()

	s.SetFrequency(300)
	s.SetGainDB(-3)
	if err := s.SetSampleRate(44100); err != nil {
		t.Fatalf("SetSampleRate: %v", err)
	}
	if s.State() != state {
		t.Fatalf("setters changed state: %v -> %v", state, s.State())
	}
	if want := LowShelf(300, -3, 44100); s.Coefficients != want {
		t.Fatalf("coefficients = %+v, want %+v", s.Coefficients, want)
	}

	s.SetFrequency(-1)
	s.SetGainDB(math.NaN())
	if s.Frequency() != 300 || s.GainDB() != -3 {
		t.Fatalf("invalid setter values were applied: %v Hz %v dB", s.Frequency(), s.GainDB())
	}
}

func TestNewShelfValidation(t *testing.T) {
	if _, err := NewShelf(ShelfKind(7), 48000, 100, 0); err == nil {
		t.Fatal("expected error for unknown kind")
	}
	if _, err := NewShelf(ShelfLow, 0, 100, 0); err == nil {
		t.Fatal("expected error for zero sample rate")
	}
	if _, err := NewShelf(ShelfLow, 48000, 0, 0); err == nil {
		t.Fatal("expected error for zero frequency")
	}
	if _, err := NewShelf(ShelfLow, 48000, 100, math.NaN()); err == nil {
		t.Fatal("expected error for NaN gain")
	}
	if ShelfHigh.String() != "high" {
		t.Fatalf("String() = %q", ShelfHigh.String())
	}
}
