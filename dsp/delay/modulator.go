package delay

import "math"

// ModulationUpdateRate is the number of samples between two evaluations of
// the modulation LFO. Between updates the previous taps and weights are
// reused.
const ModulationUpdateRate = 8

// Modulator is a sine LFO that turns a base delay into two neighbouring
// integer taps and their linear interpolation weights. It is shared by the
// modulated delay and the modulated allpass.
type Modulator struct {
	phase  float64
	rate   float64
	amount float64

	tapA, tapB   int
	gainA, gainB float64
	counter      int
}

// Phase returns the LFO phase in [0, 1).
func (m *Modulator) Phase() float64 { return m.phase }

// Rate returns the LFO rate in cycles per sample.
func (m *Modulator) Rate() float64 { return m.rate }

// Amount returns the modulation depth in samples.
func (m *Modulator) Amount() float64 { return m.amount }

// Taps returns the current integer taps and their weights.
func (m *Modulator) Taps() (tapA, tapB int, gainA, gainB float64) {
	return m.tapA, m.tapB, m.gainA, m.gainB
}

// SetPhase sets the LFO phase, wrapped into [0, 1).
func (m *Modulator) SetPhase(phase float64) {
	if math.IsNaN(phase) || math.IsInf(phase, 0) {
		return
	}
	phase = math.Mod(phase, 1)
	if phase < 0 {
		phase++
	}
	m.phase = phase
}

// SetRate sets the LFO rate in cycles per sample. Negative values are
// treated as zero.
func (m *Modulator) SetRate(rate float64) {
	if !(rate > 0) || math.IsInf(rate, 0) {
		rate = 0
	}
	m.rate = rate
}

// SetAmount sets the modulation depth in samples. Negative values are
// treated as zero.
func (m *Modulator) SetAmount(amount float64) {
	if !(amount > 0) || math.IsInf(amount, 0) {
		amount = 0
	}
	m.amount = amount
}

// Tick must be called once per processed sample. Every
// ModulationUpdateRate samples it advances the LFO and recomputes the taps
// for the given base delay; limit is the largest tap the caller's buffer
// can serve.
func (m *Modulator) Tick(base, limit int) {
	if m.counter >= ModulationUpdateRate {
		m.advance()
		m.Compute(base, limit)
		m.counter = 0
	}
	m.counter++
}

// Restart clears the sample counter so that the next update happens after a
// full ModulationUpdateRate period.
func (m *Modulator) Restart() {
	m.counter = 0
}

func (m *Modulator) advance() {
	m.phase += m.rate * ModulationUpdateRate
	if m.phase > 1 {
		m.phase = math.Mod(m.phase, 1)
	}
}

// Compute recomputes taps and weights at the current phase without advancing
// the LFO. The depth is limited to base-1 so the delay never reaches zero,
// and the total delay is kept within [1, limit-1].
func (m *Modulator) Compute(base, limit int) {
	amount := m.amount
	if amount >= float64(base) {
		amount = float64(base - 1)
	}

	total := float64(base) + amount*math.Sin(2*math.Pi*m.phase)
	if total <= 0 {
		total = 1
	}
	if maxTotal := float64(limit - 1); total > maxTotal {
		total = maxTotal
	}

	m.tapA = int(total)
	m.tapB = m.tapA + 1
	frac := total - float64(m.tapA)
	m.gainA = 1 - frac
	m.gainB = frac
}
