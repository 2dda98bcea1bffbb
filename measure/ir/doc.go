// Package ir measures rendered reverb impulse responses.
//
// The decay metrics follow ISO 3382 and are read from the Schroeder backward
// integral of the squared response:
//
//   - EDT: 0 to -10 dB, extrapolated to -60 dB
//   - T20, T30: -5 to -25 dB and -5 to -35 dB, extrapolated to -60 dB
//   - C80: early (first 80 ms) to late energy ratio
//   - center time: energy centroid in seconds
//
// Window energies, onset detection and the L/R correlation coefficient
// describe the envelope and stereo image of a tail. SpectralCentroid and
// BandEnergy use an FFT to track how damping darkens a tail over time.
//
// # Usage
//
//	a, err := ir.NewAnalyzer(48000)
//	m, err := a.Analyze(left)
//	fmt.Printf("T30 = %.2f s, C80 = %.1f dB\n", m.T30, m.C80)
package ir
