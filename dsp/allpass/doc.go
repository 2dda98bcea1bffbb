// Package allpass implements the modulated Schroeder allpass and the
// cascaded diffuser built from it.
//
// A [Modulated] allpass reads its feedback tap through a sine LFO shared
// with the modulated delay. A [Diffuser] chains up to [MaxStages] of them
// with seeded delay times, depths and rates, turning an impulse into a dense
// cloud of echoes while keeping the magnitude response flat.
package allpass
