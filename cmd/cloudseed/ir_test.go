package main

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-cloudseed/dsp/effects/reverb"
)

func TestRenderImpulse(t *testing.T) {
	p := reverb.DefaultParameters()
	p.Mix = 1
	r, err := reverb.New(48000, reverb.WithParameters(p))
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	left, right := renderImpulse(r, 20000)
	if len(left) != 20000 || len(right) != 20000 {
		t.Fatalf("lengths %d/%d", len(left), len(right))
	}

	var energy float64
	for i := range left {
		if math.IsNaN(left[i]) || math.IsNaN(right[i]) {
			t.Fatalf("frame %d: NaN", i)
		}
		energy += left[i]*left[i] + right[i]*right[i]
	}
	if energy == 0 {
		t.Fatal("impulse response is silent")
	}

	if l, rr := renderImpulse(r, 0); len(l) != 0 || len(rr) != 0 {
		t.Fatal("expected empty response")
	}
}
