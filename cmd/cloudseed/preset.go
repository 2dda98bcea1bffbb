package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/cwbudde/algo-cloudseed/dsp/effects/reverb"
)

// Preset is the JSON form of a complete reverb setting. Fields missing from
// a file keep their factory values.
type Preset struct {
	Name       string            `json:"name,omitempty"`
	Parameters reverb.Parameters `json:"parameters"`
	Seeds      reverb.Seeds      `json:"seeds"`
	LineCount  int               `json:"line_count"`
}

// DefaultPreset returns the factory setting.
func DefaultPreset() Preset {
	return Preset{
		Name:       "default",
		Parameters: reverb.DefaultParameters(),
		Seeds:      reverb.DefaultSeeds(),
		LineCount:  reverb.DefaultLineCount,
	}
}

// LoadPreset reads a preset file.
func LoadPreset(path string) (Preset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Preset{}, err
	}
	p, err := DecodePreset(bytes.NewReader(data))
	if err != nil {
		return Preset{}, fmt.Errorf("preset %s: %w", path, err)
	}
	return p, nil
}

// DecodePreset parses a preset. Unknown fields are rejected and parameter
// values are clamped to [0, 1].
func DecodePreset(r io.Reader) (Preset, error) {
	p := DefaultPreset()

	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&p); err != nil {
		return Preset{}, err
	}

	if p.LineCount < 1 || p.LineCount > reverb.MaxLineCount {
		return Preset{}, fmt.Errorf("line_count must be in [1, %d]: %d", reverb.MaxLineCount, p.LineCount)
	}
	p.Parameters = p.Parameters.Clamped()

	return p, nil
}

// Encode writes p as indented JSON.
func (p Preset) Encode(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(p)
}

// Options returns the reverb options that reproduce p.
func (p Preset) Options() []reverb.Option {
	return []reverb.Option{
		reverb.WithParameters(p.Parameters),
		reverb.WithSeeds(p.Seeds),
		reverb.WithLineCount(p.LineCount),
	}
}
