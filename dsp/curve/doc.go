// Package curve provides normalized response curves that map a linear knob
// position in [0,1] onto a perceptually scaled range.
//
// Every curve satisfies f(0) = 0 and f(1) = 1 and is strictly increasing,
// so callers scale the result into physical units:
//
//	decaySeconds := 0.05 + curve.ThreeDecade(knob)*59.95
package curve
