package testutil

import (
	"fmt"
	"math"
	"testing"
)

// RequireSliceNearlyEqual fails t at the first index where got and want
// differ by more than eps, or if their lengths differ.
func RequireSliceNearlyEqual(t *testing.T, got, want []float64, eps float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("len(got) = %d, len(want) = %d", len(got), len(want))
	}
	for i, g := range got {
		if d := math.Abs(g - want[i]); d > eps {
			t.Fatalf("[%d] got %g, want %g (|diff| %g > %g)", i, g, want[i], d, eps)
		}
	}
}

// RequireFinite fails t at the first NaN or infinite sample.
func RequireFinite(t *testing.T, data []float64) {
	t.Helper()
	for i, v := range data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("[%d] = %v, want a finite sample", i, v)
		}
	}
}

// MaxAbsDiff returns max |a[i]-b[i]|.
func MaxAbsDiff(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("testutil: length mismatch %d != %d", len(a), len(b))
	}
	var worst float64
	for i := range a {
		worst = max(worst, math.Abs(a[i]-b[i]))
	}
	return worst, nil
}
