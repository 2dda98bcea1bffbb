package biquad

// stateFloor is the magnitude below which the filter state is zeroed at the
// end of a block, so that a decaying feedback path settles to exact zero.
const stateFloor = 1e-20

// Coefficients of one second-order section with a0 normalized to 1:
//
//	H(z) = (B0 + B1 z^-1 + B2 z^-2) / (1 + A1 z^-1 + A2 z^-2)
type Coefficients struct {
	B0, B1, B2 float64
	A1, A2     float64
}

// Section runs one biquad in transposed direct form II. The two state
// variables are the only memory; changing Coefficients keeps them.
type Section struct {
	Coefficients

	z1, z2 float64
}

// NewSection returns a Section with zero state.
func NewSection(c Coefficients) *Section {
	return &Section{Coefficients: c}
}

// ProcessSample filters x and returns the output sample.
func (s *Section) ProcessSample(x float64) float64 {
	y := s.B0*x + s.z1
	s.z1 = s.B1*x - s.A1*y + s.z2
	s.z2 = s.B2*x - s.A2*y
	return y
}

// ProcessBlock filters buf in place.
func (s *Section) ProcessBlock(buf []float64) {
	s.ProcessBlockTo(buf, buf)
}

// ProcessBlockTo filters src into dst. dst must be at least as long as src
// and may alias it.
func (s *Section) ProcessBlockTo(dst, src []float64) {
	if len(src) == 0 {
		return
	}
	dst = dst[:len(src)]

	c := s.Coefficients
	z1, z2 := s.z1, s.z2
	for i, x := range src {
		y := c.B0*x + z1
		z1 = c.B1*x - c.A1*y + z2
		z2 = c.B2*x - c.A2*y
		dst[i] = y
	}

	if z1 < stateFloor && z1 > -stateFloor {
		z1 = 0
	}
	if z2 < stateFloor && z2 > -stateFloor {
		z2 = 0
	}
	s.z1, s.z2 = z1, z2
}

// Reset zeroes the state.
func (s *Section) Reset() { s.z1, s.z2 = 0, 0 }

// State returns the two state variables.
func (s *Section) State() [2]float64 { return [2]float64{s.z1, s.z2} }

// SetState restores state saved by State.
func (s *Section) SetState(state [2]float64) { s.z1, s.z2 = state[0], state[1] }
