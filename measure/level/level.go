// Package level accumulates peak and RMS levels of interleaved 16-bit audio
// across blocks, per channel.
package level

import (
	"fmt"
	"math"
)

// fullScale is the magnitude that maps to 0 dBFS.
const fullScale = 32768

// Stats are the levels of one channel. dB fields are relative to full
// scale and -Inf for silence.
type Stats struct {
	Frames  int
	Peak    float64 // in [0, 1]
	PeakDB  float64
	RMS     float64
	RMSDB   float64
	Crest   float64 // peak/RMS in dB, 0 for silence
	Clipped int     // samples at either rail
}

// Meter accumulates Stats for every channel of an interleaved stream.
type Meter struct {
	channels int
	frames   int
	peak     []int32
	sumSq    []float64
	clipped  []int
	partial  []int16 // samples of an incomplete trailing frame
}

// NewMeter returns a meter for streams with the given channel count.
func NewMeter(channels int) (*Meter, error) {
	if channels < 1 {
		return nil, fmt.Errorf("level: channel count must be >= 1: %d", channels)
	}
	return &Meter{
		channels: channels,
		peak:     make([]int32, channels),
		sumSq:    make([]float64, channels),
		clipped:  make([]int, channels),
	}, nil
}

// Channels returns the channel count.
func (m *Meter) Channels() int { return m.channels }

// Update adds interleaved samples. Frames may be split across calls.
func (m *Meter) Update(samples []int16) {
	if len(m.partial) > 0 {
		need := m.channels - len(m.partial)
		if len(samples) < need {
			m.partial = append(m.partial, samples...)
			return
		}
		m.partial = append(m.partial, samples[:need]...)
		m.addFrames(m.partial)
		m.partial = m.partial[:0]
		samples = samples[need:]
	}

	whole := len(samples) / m.channels * m.channels
	m.addFrames(samples[:whole])
	m.partial = append(m.partial, samples[whole:]...)
}

func (m *Meter) addFrames(samples []int16) {
	for i, s := range samples {
		c := i % m.channels
		v := int32(s)
		if v < 0 {
			v = -v
		}
		m.peak[c] = max(m.peak[c], v)
		m.sumSq[c] += float64(s) * float64(s)
		if s == math.MaxInt16 || s == math.MinInt16 {
			m.clipped[c]++
		}
	}
	m.frames += len(samples) / m.channels
}

// Result returns the levels of channel c.
func (m *Meter) Result(c int) Stats {
	if c < 0 || c >= m.channels || m.frames == 0 {
		return Stats{PeakDB: math.Inf(-1), RMSDB: math.Inf(-1)}
	}

	peak := float64(m.peak[c]) / fullScale
	rms := math.Sqrt(m.sumSq[c]/float64(m.frames)) / fullScale

	s := Stats{
		Frames:  m.frames,
		Peak:    peak,
		PeakDB:  toDB(peak),
		RMS:     rms,
		RMSDB:   toDB(rms),
		Clipped: m.clipped[c],
	}
	if rms > 0 {
		s.Crest = s.PeakDB - s.RMSDB
	}
	return s
}

// Reset clears all accumulated data.
func (m *Meter) Reset() {
	m.frames = 0
	clear(m.peak)
	clear(m.sumSq)
	clear(m.clipped)
	m.partial = m.partial[:0]
}

func toDB(v float64) float64 {
	if v == 0 {
		return math.Inf(-1)
	}
	return 20 * math.Log10(v)
}
