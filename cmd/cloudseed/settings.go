package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/cwbudde/algo-cloudseed/dsp/effects/reverb"
)

var (
	bold   = color.New(color.Bold).SprintFunc()
	yellow = color.New(color.FgYellow).SprintfFunc()
)

// paramFlag collects repeated -set name=value flags.
type paramFlag []paramSetting

type paramSetting struct {
	name  string
	value float64
}

func (p *paramFlag) String() string {
	parts := make([]string, len(*p))
	for i, s := range *p {
		parts[i] = fmt.Sprintf("%s=%g", s.name, s.value)
	}
	return strings.Join(parts, ",")
}

func (p *paramFlag) Set(v string) error {
	name, raw, ok := strings.Cut(v, "=")
	if !ok {
		return fmt.Errorf("want name=value, got %q", v)
	}
	name = strings.ToLower(strings.TrimSpace(name))

	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return fmt.Errorf("parameter %s: %w", name, err)
	}

	var check reverb.Parameters
	if err := check.Set(name, value); err != nil {
		return err
	}

	*p = append(*p, paramSetting{name: name, value: value})
	return nil
}

// settings are the reverb flags shared by every command.
type settings struct {
	preset string
	set    paramFlag
	lines  int
	block  int
}

func (s *settings) register(fs *flag.FlagSet) {
	fs.StringVar(&s.preset, "preset", "", "JSON preset to start from")
	fs.Var(&s.set, "set", "set a parameter, e.g. -set decay=0.7 (repeatable)")
	fs.IntVar(&s.lines, "lines", 0, "active delay lines per channel (1-12, default from preset)")
	fs.IntVar(&s.block, "block", 0, "native block size in frames (default 128)")
}

// resolve loads the preset and applies -set and -lines on top of it.
func (s *settings) resolve() (Preset, error) {
	p := DefaultPreset()
	if s.preset != "" {
		var err error
		if p, err = LoadPreset(s.preset); err != nil {
			return Preset{}, err
		}
	}

	for _, kv := range s.set {
		if err := p.Parameters.Set(kv.name, kv.value); err != nil {
			return Preset{}, err
		}
	}
	if s.lines != 0 {
		p.LineCount = s.lines
	}

	return p, nil
}

// newReverb builds a reverb from the resolved settings.
func (s *settings) newReverb(sampleRate float64) (*reverb.Reverb, Preset, error) {
	p, err := s.resolve()
	if err != nil {
		return nil, Preset{}, err
	}

	opts := p.Options()
	if s.block > 0 {
		opts = append(opts, reverb.WithBlockSize(s.block))
	}

	r, err := reverb.New(sampleRate, opts...)
	if err != nil {
		return nil, Preset{}, err
	}
	if n := r.Diagnostics().FlooredDelays; n > 0 {
		warnf("%d delay lines were shorter than their modulation depth and were lengthened", n)
	}

	return r, p, nil
}

func warnf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "cloudseed: %s\n", yellow("warning: "+format, args...))
}

// interactive reports whether progress output goes to a terminal.
func interactive() bool {
	return term.IsTerminal(int(os.Stderr.Fd()))
}

// progress prints a carriage-return progress line when stderr is a terminal.
type progress struct {
	label string
	total int
	last  int
	on    bool
}

func newProgress(label string, total int) *progress {
	return &progress{label: label, total: total, last: -1, on: interactive() && total > 0}
}

func (p *progress) update(done int) {
	if !p.on {
		return
	}
	pct := done * 100 / p.total
	if pct == p.last {
		return
	}
	p.last = pct
	fmt.Fprintf(os.Stderr, "\r%s %3d%%", p.label, pct)
}

func (p *progress) finish() {
	if p.on {
		fmt.Fprintf(os.Stderr, "\r%s done\n", p.label)
	}
}
