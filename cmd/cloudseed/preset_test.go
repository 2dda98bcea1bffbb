package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/cwbudde/algo-cloudseed/dsp/effects/reverb"
)

func TestDecodePresetKeepsDefaults(t *testing.T) {
	p, err := DecodePreset(strings.NewReader(`{"name":"hall","parameters":{"decay":0.8,"size":1.5}}`))
	if err != nil {
		t.Fatal(err)
	}

	want := reverb.DefaultParameters()
	want.Decay = 0.8
	want.Size = 1
	if p.Parameters != want {
		t.Fatalf("parameters = %+v, want %+v", p.Parameters, want)
	}
	if p.Name != "hall" || p.LineCount != reverb.DefaultLineCount || p.Seeds != reverb.DefaultSeeds() {
		t.Fatalf("preset = %+v", p)
	}
}

func TestDecodePresetRejects(t *testing.T) {
	tests := map[string]string{
		"unknown field": `{"parameters":{"width":1}}`,
		"line count":    `{"line_count":13}`,
		"syntax":        `{"parameters":`,
	}
	for name, in := range tests {
		if _, err := DecodePreset(strings.NewReader(in)); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestPresetEncodeRoundTrip(t *testing.T) {
	p := DefaultPreset()
	p.Name = "plate"
	p.Parameters.Diffusion = 1
	p.Seeds.Multitap = 99
	p.LineCount = 12

	var buf bytes.Buffer
	if err := p.Encode(&buf); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `"cross_seed": 0.5`) {
		t.Fatalf("encoded preset lacks snake_case keys:\n%s", buf.String())
	}

	got, err := DecodePreset(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if got != p {
		t.Fatalf("round trip = %+v, want %+v", got, p)
	}
}

func TestParamFlag(t *testing.T) {
	var f paramFlag
	for _, v := range []string{"decay=0.7", " Mix = 0.25 "} {
		if err := f.Set(v); err != nil {
			t.Fatalf("Set(%q): %v", v, err)
		}
	}
	if got := f.String(); got != "decay=0.7,mix=0.25" {
		t.Fatalf("String() = %q", got)
	}

	for _, bad := range []string{"decay", "decay=x", "room=0.5", "size=NaN"} {
		if err := f.Set(bad); err == nil {
			t.Errorf("Set(%q): expected error", bad)
		}
	}
}

func TestSettingsResolve(t *testing.T) {
	s := settings{lines: 4}
	if err := s.set.Set("size=0.9"); err != nil {
		t.Fatal(err)
	}

	p, err := s.resolve()
	if err != nil {
		t.Fatal(err)
	}
	if p.Parameters.Size != 0.9 || p.LineCount != 4 {
		t.Fatalf("resolved = %+v", p)
	}

	r, _, err := s.newReverb(44100)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	if r.Left().LineCount() != 4 || r.Parameters().Size != 0.9 {
		t.Fatalf("reverb: %d lines, size %v", r.Left().LineCount(), r.Parameters().Size)
	}
}
