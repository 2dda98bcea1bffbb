// Package rng provides the deterministic pseudo-random source behind the
// reverb's randomized structure.
//
// A 32-bit linear congruential generator (x' = 22695477*x + 1 mod 2^32)
// produces reproducible sequences in [0,1]. Cross-seeded sequences blend the
// streams of a seed and its bitwise complement with a single weight, which is
// how the left and right reverb channels share one nominal seed while
// drifting apart structurally.
//
// The Fill variants write into caller-owned slices and never allocate, so they
// are safe to call from parameter-change paths.
package rng
