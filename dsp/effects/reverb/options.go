package reverb

import "github.com/cwbudde/algo-cloudseed/dsp/core"

type config struct {
	processor core.ProcessorConfig
	lineCount int
	params    Parameters
	seeds     Seeds
}

// Option configures a Reverb at construction.
type Option func(*config)

// WithBlockSize sets the native block size. Longer host buffers are split
// into blocks of this size; each delay line's feedback lags by one block.
func WithBlockSize(n int) Option {
	return func(c *config) {
		core.WithBlockSize(n)(&c.processor)
	}
}

// WithLineCount sets the number of active delay lines per channel.
func WithLineCount(n int) Option {
	return func(c *config) {
		c.lineCount = max(1, min(n, MaxLineCount))
	}
}

// WithParameters sets the initial parameters.
func WithParameters(p Parameters) Option {
	return func(c *config) {
		c.params = p.Clamped()
	}
}

// WithSeeds sets the seeds used by both channels.
func WithSeeds(s Seeds) Option {
	return func(c *config) {
		c.seeds = s
	}
}

func newConfig(sampleRate float64, opts []Option) config {
	c := config{
		processor: core.ApplyProcessorOptions(core.WithSampleRate(sampleRate)),
		lineCount: DefaultLineCount,
		params:    DefaultParameters(),
		seeds:     DefaultSeeds(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&c)
		}
	}
	return c
}
