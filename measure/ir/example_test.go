package ir_test

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-cloudseed/measure/ir"
)

func ExampleAnalyzer_Analyze() {
	const sampleRate = 48000.0

	// 60 dB of exponential decay in 0.5 s.
	h := make([]float64, int(1.5*sampleRate))
	for i := range h {
		h[i] = math.Exp(-6.9078 / 0.5 * float64(i) / sampleRate)
	}

	a, err := ir.NewAnalyzer(sampleRate)
	if err != nil {
		panic(err)
	}
	m, err := a.Analyze(h)
	if err != nil {
		panic(err)
	}

	fmt.Printf("EDT = %.2f s\n", m.EDT)
	fmt.Printf("T30 = %.2f s\n", m.T30)
	fmt.Printf("C80 = %.1f dB\n", m.C80)
	fmt.Printf("Ts  = %.3f s\n", m.CenterTime)
	// Output:
	// EDT = 0.50 s
	// T30 = 0.50 s
	// C80 = 9.1 dB
	// Ts  = 0.036 s
}
