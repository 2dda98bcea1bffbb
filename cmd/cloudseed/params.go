package main

import (
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/cwbudde/algo-cloudseed/dsp/effects/reverb"
)

func runParams(args []string) error {
	fs := flag.NewFlagSet("params", flag.ContinueOnError)
	var s settings
	s.register(fs)
	rate := fs.Float64("rate", 48000, "sample rate in Hz used for the physical values")
	asJSON := fs.Bool("json", false, "print the resolved setting as a JSON preset")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: cloudseed params [flags]\n\nFlags:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}

	p, err := s.resolve()
	if err != nil {
		return err
	}
	if *asJSON {
		return p.Encode(os.Stdout)
	}
	if *rate <= 0 {
		return fmt.Errorf("params: sample rate must be > 0: %g", *rate)
	}

	fmt.Println(bold(fmt.Sprintf("%s at %g Hz", p.Name, *rate)))
	return printParams(p.Parameters, p.Parameters.Derive(*rate))
}

func printParams(p reverb.Parameters, d reverb.Derived) error {
	physical := map[string]string{
		reverb.ParamMix:       fmt.Sprintf("%.0f%% wet", p.Mix*100),
		reverb.ParamDecay:     fmt.Sprintf("%.2f s (%.0f samples)", d.DecaySeconds, d.LineDecaySamples),
		reverb.ParamSize:      fmt.Sprintf("%.1f ms (%d samples)", d.LineSizeMs, d.LineDelaySamples),
		reverb.ParamPreDelay:  fmt.Sprintf("%.1f ms (%d samples)", d.PreDelayMs, d.PreDelaySamples),
		reverb.ParamDiffusion: fmt.Sprintf("%d stages, %.1f ms, g=%.2f", d.EarlyStages, d.EarlyDelayMs, d.EarlyFeedback),
		reverb.ParamLowCut:    fmt.Sprintf("%.0f Hz", d.LowCutHz),
		reverb.ParamHighCut:   fmt.Sprintf("%.0f Hz (damping %.0f Hz)", d.HighCutHz, d.DampingHz),
		reverb.ParamModAmount: fmt.Sprintf("%.1f samples", d.ModAmountSamples),
		reverb.ParamModRate:   fmt.Sprintf("%.3f Hz", d.ModRateHz),
		reverb.ParamCrossSeed: fmt.Sprintf("L %.2f / R %.2f", 1-0.5*d.CrossSeed, 0.5*d.CrossSeed),
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Parameter\tValue\tMaps to\n")
	fmt.Fprintf(tw, "---------\t-----\t-------\n")
	for _, name := range reverb.ParameterNames() {
		v, err := p.Get(name)
		if err != nil {
			return err
		}
		fmt.Fprintf(tw, "%s\t%.3f\t%s\n", name, v, physical[name])
	}
	return tw.Flush()
}
