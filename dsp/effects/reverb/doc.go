// Package reverb implements a CloudSeed-style algorithmic stereo reverb.
//
// The signal flow of one [Channel] is
//
//	input -> gain -> low cut -> high cut -> pre-delay -> multitap -> diffuser
//	      -> N parallel [DelayLine]s -> dry/early/late mix
//
// where every delay line is a modulated delay with its own feedback path,
// optional late diffuser, shelving EQ and damping low-pass. A [Reverb] owns
// a left and a right channel whose random structures are decorrelated by a
// single cross-seed control, and maps ten normalized [Parameters] onto the
// physical quantities of both channels.
//
// Nothing in this package allocates or blocks while processing audio or
// while parameters change. A Reverb is not safe for concurrent use.
package reverb
