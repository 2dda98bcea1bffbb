package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/cwbudde/algo-cloudseed/internal/wav"
	"github.com/cwbudde/algo-cloudseed/measure/level"
)

const renderChunkFrames = 4096

func runRender(args []string) error {
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	var s settings
	s.register(fs)
	out := fs.String("o", "", "output WAV file (required)")
	tail := fs.Float64("tail", 2, "seconds of silence appended to let the reverb ring out")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: cloudseed render [flags] input.wav\n\nFlags:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return errors.New("render: expected one input file")
	}
	if *out == "" {
		return errors.New("render: -o is required")
	}
	if *tail < 0 {
		return fmt.Errorf("render: tail must be >= 0: %g", *tail)
	}

	in, err := readInput(fs.Arg(0))
	if err != nil {
		return err
	}

	rate := int(in.Format.SampleRate)
	r, _, err := s.newReverb(float64(rate))
	if err != nil {
		return err
	}
	defer r.Close()

	f, err := os.Create(*out)
	if err != nil {
		return err
	}
	defer f.Close()

	w, err := wav.NewWriter(f, rate, 2)
	if err != nil {
		return err
	}

	src := stereo(in)
	total := len(src)/2 + int(*tail*float64(rate))
	bar := newProgress("render", total)
	buf := make([]int16, 2*renderChunkFrames)
	meter, err := level.NewMeter(2)
	if err != nil {
		return err
	}

	for done := 0; done < total; {
		n := min(renderChunkFrames, total-done)
		chunk := buf[:2*n]
		clear(chunk)
		if start := 2 * done; start < len(src) {
			copy(chunk, src[start:])
		}

		r.ProcessInt16(chunk)
		meter.Update(chunk)
		if err := w.Write(chunk); err != nil {
			return err
		}

		done += n
		bar.update(done)
	}
	bar.finish()

	if err := w.Close(); err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	reportLevels(meter, rate)
	return nil
}

func reportLevels(m *level.Meter, rate int) {
	for c, name := range []string{"left", "right"} {
		s := m.Result(c)
		log.Printf("%s: %.2f s, peak %.1f dBFS, rms %.1f dBFS, crest %.1f dB",
			name, float64(s.Frames)/float64(rate), s.PeakDB, s.RMSDB, s.Crest)
		if s.Clipped > 0 {
			warnf("%s: %d samples at full scale", name, s.Clipped)
		}
	}
}

func readInput(path string) (*wav.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	in, err := wav.Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if ch := in.Format.Channels; ch != 1 && ch != 2 {
		return nil, fmt.Errorf("%s: %d channels, want mono or stereo", path, ch)
	}
	return in, nil
}

// stereo returns the interleaved stereo samples of f, duplicating mono.
func stereo(f *wav.File) []int16 {
	if f.Format.Channels == 2 {
		return f.Samples
	}

	out := make([]int16, 2*len(f.Samples))
	for i, v := range f.Samples {
		out[2*i] = v
		out[2*i+1] = v
	}
	return out
}
