// Package biquad provides second-order IIR filter primitives.
//
// A [Section] implements Direct Form II Transposed processing for a single
// second-order section defined by [Coefficients]. [LowShelf] and [HighShelf]
// design Zölzer shelving coefficients, and [Shelf] wraps a Section together
// with its design parameters so that frequency, gain or sample rate can be
// changed while audio is running without clearing the filter history.
package biquad
