// Package delay provides the delay primitives of the reverb: a sine-modulated
// delay with two-tap linear interpolation, a seeded multitap delay used for
// early reflections, and a fixed-capacity sample ring that carries a delay
// line's feedback from one block to the next.
//
// All types allocate their buffers at construction and never allocate while
// processing or while their parameters change.
package delay
