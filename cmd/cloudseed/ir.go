package main

import (
	"errors"
	"flag"
	"fmt"
	"math"
	"os"
	"text/tabwriter"

	"github.com/cwbudde/algo-cloudseed/dsp/effects/reverb"
	"github.com/cwbudde/algo-cloudseed/internal/wav"
	"github.com/cwbudde/algo-cloudseed/measure/ir"
)

const (
	maxIRSeconds   = 30
	centroidWindow = 0.1 // seconds
)

func runIR(args []string) error {
	fs := flag.NewFlagSet("ir", flag.ContinueOnError)
	var s settings
	s.register(fs)
	rate := fs.Int("rate", 48000, "sample rate in Hz")
	length := fs.Float64("length", 0, "length in seconds (default: three times the nominal decay, at most 30)")
	out := fs.String("o", "", "also write the impulse response to this WAV file")
	dry := fs.Bool("dry", false, "keep the mix parameter instead of rendering the wet signal only")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: cloudseed ir [flags]\n\nFlags:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 0 {
		fs.Usage()
		return errors.New("ir: unexpected arguments")
	}
	if *rate <= 0 {
		return fmt.Errorf("ir: sample rate must be > 0: %d", *rate)
	}

	r, p, err := s.newReverb(float64(*rate))
	if err != nil {
		return err
	}
	defer r.Close()

	if !*dry {
		if err := r.SetParameter(reverb.ParamMix, 1); err != nil {
			return err
		}
	}

	dur := *length
	if dur <= 0 {
		dur = min(maxIRSeconds, 3*r.Derived().DecaySeconds)
	}
	left, right := renderImpulse(r, int(dur*float64(*rate)))

	if *out != "" {
		if err := writeStereo(*out, *rate, left, right); err != nil {
			return err
		}
	}

	a, err := ir.NewAnalyzer(float64(*rate))
	if err != nil {
		return err
	}
	return printIR(a, p.Name, r.Derived(), left, right)
}

// renderImpulse feeds a unit impulse into both channels and returns n
// frames of output.
func renderImpulse(r *reverb.Reverb, n int) (left, right []float64) {
	left = make([]float64, n)
	right = make([]float64, n)
	if n == 0 {
		return left, right
	}
	left[0], right[0] = 1, 1

	bar := newProgress("ir", n)
	const chunk = 8192
	for start := 0; start < n; start += chunk {
		end := min(start+chunk, n)
		r.ProcessStereo(left[start:end], right[start:end])
		bar.update(end)
	}
	bar.finish()

	return left, right
}

func writeStereo(path string, rate int, left, right []float64) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w, err := wav.NewWriter(f, rate, 2)
	if err != nil {
		return err
	}

	buf := make([]int16, 2*len(left))
	for i := range left {
		buf[2*i] = int16(left[i] * 32767)
		buf[2*i+1] = int16(right[i] * 32767)
	}
	if err := w.Write(buf); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return f.Close()
}

func printIR(a *ir.Analyzer, name string, d reverb.Derived, left, right []float64) error {
	fmt.Println(bold(fmt.Sprintf("%s: nominal decay %.2f s, %d-sample line delay", name, d.DecaySeconds, d.LineDelaySamples)))

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Channel\tOnset [ms]\tEDT [s]\tT20 [s]\tT30 [s]\tC80 [dB]\tTs [ms]\tCentroid early/late [Hz]\n")
	fmt.Fprintf(tw, "-------\t----------\t-------\t-------\t-------\t--------\t-------\t------------------------\n")

	for _, ch := range []struct {
		name string
		data []float64
	}{{"left", left}, {"right", right}} {
		m, err := a.Analyze(ch.data)
		if errors.Is(err, ir.ErrSilent) || errors.Is(err, ir.ErrEmpty) {
			fmt.Fprintf(tw, "%s\t-\t-\t-\t-\t-\t-\t-\n", ch.name)
			continue
		}
		if err != nil {
			return err
		}

		early, late := centroids(a, ch.data[m.Onset:])
		fmt.Fprintf(tw, "%s\t%.1f\t%s\t%s\t%s\t%.1f\t%.1f\t%s / %s\n",
			ch.name,
			float64(m.Onset)/a.SampleRate()*1000,
			seconds(m.EDT), seconds(m.T20), seconds(m.T30),
			m.C80,
			m.CenterTime*1000,
			hz(early), hz(late),
		)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Printf("L/R correlation: %.3f\n", ir.Correlation(left, right))
	return nil
}

// centroids returns the spectral centroid of the first and of the last
// window of tail that is still above -60 dB of the first window.
func centroids(a *ir.Analyzer, tail []float64) (early, late float64) {
	size := int(centroidWindow * a.SampleRate())
	energies, err := ir.WindowEnergies(tail, size)
	if err != nil || len(energies) == 0 {
		return math.NaN(), math.NaN()
	}

	last := 0
	for i, db := range ir.EnergyDB(energies) {
		if db < -60 {
			break
		}
		last = i
	}

	early, err = a.SpectralCentroid(tail[:size])
	if err != nil {
		early = math.NaN()
	}
	late, err = a.SpectralCentroid(tail[last*size : (last+1)*size])
	if err != nil {
		late = math.NaN()
	}
	return early, late
}

func seconds(v float64) string {
	if v == 0 {
		return "-"
	}
	return fmt.Sprintf("%.2f", v)
}

func hz(v float64) string {
	if math.IsNaN(v) {
		return "-"
	}
	return fmt.Sprintf("%.0f", v)
}
