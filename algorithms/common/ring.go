package common

import "fmt"

// RingWindow is a fixed-capacity circular sample store. It keeps the most
// recent capacity samples and can return them as one time-ordered window
// (oldest first). Unwritten cells read as zero, so early snapshots are
// zero-padded on the left.
type RingWindow struct {
	storage      []float64
	cursor       int
	totalWritten int
}

// NewRingWindow creates a ring window holding capacity samples
func NewRingWindow(capacity int) *RingWindow {
	return &RingWindow{
		storage: make([]float64, capacity),
	}
}

// Write appends a block at the rolling write cursor. The block length must
// not exceed the ring capacity.
func (r *RingWindow) Write(block []float64) error {
	if len(block) > len(r.storage) {
		return fmt.Errorf("block length (%d) exceeds ring capacity (%d)", len(block), len(r.storage))
	}

	for _, s := range block {
		r.storage[r.cursor] = s
		r.cursor = (r.cursor + 1) % len(r.storage)
	}
	r.totalWritten += len(block)

	return nil
}

// Snapshot fills dst with the full window in time order, starting at the
// write cursor (the oldest sample) and wrapping. dst must have the ring's
// capacity.
func (r *RingWindow) Snapshot(dst []float64) error {
	if len(dst) != len(r.storage) {
		return fmt.Errorf("snapshot length (%d) doesn't match ring capacity (%d)", len(dst), len(r.storage))
	}

	n := copy(dst, r.storage[r.cursor:])
	copy(dst[n:], r.storage[:r.cursor])

	return nil
}

// TotalWritten returns the number of samples written since creation or the
// last Reset
func (r *RingWindow) TotalWritten() int {
	return r.totalWritten
}

// Capacity returns the ring capacity
func (r *RingWindow) Capacity() int {
	return len(r.storage)
}

// Reset zeroes the storage and rewinds the cursor and counter
func (r *RingWindow) Reset() {
	for i := range r.storage {
		r.storage[i] = 0.0
	}
	r.cursor = 0
	r.totalWritten = 0
}

// SpectrumRing is a fixed-shape circular store of spectrum frames. Each
// slot holds one frame of frameLen cells, all initially zero. Frames are
// addressed relative to the write cursor, so At(-1) is the most recently
// appended frame and positive offsets wrap forward across the ring.
type SpectrumRing struct {
	storage      [][]float64
	cursor       int
	totalWritten int
}

// NewSpectrumRing creates a ring of slots frames with frameLen cells each
func NewSpectrumRing(slots, frameLen int) *SpectrumRing {
	storage := make([][]float64, slots)
	for i := range storage {
		storage[i] = make([]float64, frameLen)
	}
	return &SpectrumRing{storage: storage}
}

// Append copies frame into the slot at the write cursor and advances it
func (sr *SpectrumRing) Append(frame []float64) error {
	if len(frame) != len(sr.storage[0]) {
		return fmt.Errorf("frame length (%d) doesn't match ring frame length (%d)", len(frame), len(sr.storage[0]))
	}

	copy(sr.storage[sr.cursor], frame)
	sr.cursor = (sr.cursor + 1) % len(sr.storage)
	sr.totalWritten++

	return nil
}

// At returns the live frame at the given offset from the write cursor.
// The slice aliases ring storage: callers that update cells in place
// (the spread stage does) mutate the stored frame.
func (sr *SpectrumRing) At(offset int) []float64 {
	n := len(sr.storage)
	idx := ((sr.cursor+offset)%n + n) % n
	return sr.storage[idx]
}

// TotalWritten returns the number of frames appended since creation or
// the last Reset
func (sr *SpectrumRing) TotalWritten() int {
	return sr.totalWritten
}

// Slots returns the number of frame slots in the ring
func (sr *SpectrumRing) Slots() int {
	return len(sr.storage)
}

// Reset zeroes every frame and rewinds the cursor and counter
func (sr *SpectrumRing) Reset() {
	for _, frame := range sr.storage {
		for i := range frame {
			frame[i] = 0.0
		}
	}
	sr.cursor = 0
	sr.totalWritten = 0
}
