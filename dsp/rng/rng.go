package rng

import "math"

const (
	lcgA = 22695477
	lcgC = 1
)

// LCG is a 32-bit linear congruential generator.
type LCG struct {
	x uint32
}

// NewLCG returns a generator seeded with the low 32 bits of seed.
func NewLCG(seed uint64) *LCG {
	return &LCG{x: uint32(seed)}
}

// Seed resets the generator state.
func (g *LCG) Seed(seed uint64) {
	g.x = uint32(seed)
}

// Next advances the generator and returns the new register value.
func (g *LCG) Next() uint32 {
	g.x = lcgA*g.x + lcgC
	return g.x
}

// Float64 advances the generator and returns the register scaled into [0,1].
func (g *LCG) Float64() float64 {
	return float64(g.Next()) / math.MaxUint32
}

// Generate returns count values of the sequence seeded by seed.
func Generate(seed uint64, count int) []float64 {
	if count <= 0 {
		return nil
	}

	out := make([]float64, count)
	Fill(out, seed)

	return out
}

// GenerateCross returns count values blended between the sequences of seed
// and ^seed: a[i]*(1-crossSeed) + b[i]*crossSeed.
func GenerateCross(seed uint64, crossSeed float64, count int) []float64 {
	if count <= 0 {
		return nil
	}

	out := make([]float64, count)
	FillCross(out, seed, crossSeed)

	return out
}

// Fill writes the sequence seeded by seed into dst.
func Fill(dst []float64, seed uint64) {
	g := LCG{x: uint32(seed)}
	for i := range dst {
		dst[i] = g.Float64()
	}
}

// FillCross writes the cross-seeded sequence into dst without allocating.
// Both streams are advanced in lockstep.
func FillCross(dst []float64, seed uint64, crossSeed float64) {
	a := LCG{x: uint32(seed)}
	b := LCG{x: uint32(^seed)}

	for i := range dst {
		va := a.Float64()
		vb := b.Float64()
		dst[i] = va*(1-crossSeed) + vb*crossSeed
	}
}
