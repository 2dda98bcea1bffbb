// Package onepole provides first-order low-pass and high-pass filters used
// for input conditioning and for damping inside reverb feedback loops.
//
// Both filters share the coefficient
//
//	nn = 2 - cos(2*pi*fc/fs)
//	a  = nn - sqrt(nn*nn - 1)
//
// and hold their running state across coefficient changes. Only Reset clears
// the history.
package onepole
