package delay

import "fmt"

// Ring is a fixed-capacity FIFO of samples. A delay line pops its feedback
// at the start of a block and pushes its output at the end, which delays
// the feedback path by exactly one block.
type Ring struct {
	buffer []float64
	read   int
	write  int
	count  int
}

// NewRing returns an empty ring holding up to capacity samples.
func NewRing(capacity int) (*Ring, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("delay: ring capacity must be > 0: %d", capacity)
	}
	return &Ring{buffer: make([]float64, capacity)}, nil
}

// Len returns the number of buffered samples.
func (r *Ring) Len() int { return r.count }

// Cap returns the ring capacity.
func (r *Ring) Cap() int { return len(r.buffer) }

// Push appends src. Samples that do not fit are dropped.
func (r *Ring) Push(src []float64) {
	size := len(r.buffer)
	for _, x := range src {
		if r.count >= size {
			return
		}
		r.buffer[r.write] = x
		r.write++
		if r.write >= size {
			r.write = 0
		}
		r.count++
	}
}

// Pop fills dst with the oldest buffered samples. Positions beyond the
// buffered count are set to zero.
func (r *Ring) Pop(dst []float64) {
	size := len(r.buffer)
	for i := range dst {
		if r.count == 0 {
			clear(dst[i:])
			return
		}
		dst[i] = r.buffer[r.read]
		r.read++
		if r.read >= size {
			r.read = 0
		}
		r.count--
	}
}

// Reset empties the ring.
func (r *Ring) Reset() {
	clear(r.buffer)
	r.read = 0
	r.write = 0
	r.count = 0
}
