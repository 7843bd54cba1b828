package signature

import (
	"github.com/RyanBlaney/sonido-sig/algorithms/common"
	"github.com/RyanBlaney/sonido-sig/algorithms/spectral"
)

// spreadRingSlots is the number of spread spectra retained for the
// detector's temporal lookups
const spreadRingSlots = 256

// spreadBackfillOffsets are the temporal offsets whose stored frames each
// new spectrum is folded into. The absorb below is order-sensitive: every
// cell both feeds the running max and is overwritten by it, so later
// detector reads see non-decreasing values along these offsets.
var spreadBackfillOffsets = [...]int{-1, -3, -6}

// SpreadStage maintains the ring of max-suppressed spectra the peak
// detector compares candidate peaks against. Each incoming power
// spectrum is spread forward across frequency (3-tap running max) and
// folded backward across time before being appended.
type SpreadStage struct {
	ring    *common.SpectrumRing
	scratch []float64
}

// NewSpreadStage creates a spread stage with a zeroed ring
func NewSpreadStage() *SpreadStage {
	return &SpreadStage{
		ring:    common.NewSpectrumRing(spreadRingSlots, spectral.SpectrumBins),
		scratch: make([]float64, spectral.SpectrumBins),
	}
}

// Process spreads one power spectrum and appends it to the ring
func (st *SpreadStage) Process(power []float64) error {
	q := st.scratch
	copy(q, power)

	// Frequency-domain spreading: in-place ascending 3-tap forward max.
	// Each cell reads whatever its k+1, k+2 neighbors hold at that moment
	// in the pass.
	for k := 0; k <= spectral.SpectrumBins-3; k++ {
		q[k] = max(q[k], q[k+1], q[k+2])
	}

	// Time-domain spreading: chained max-absorb into the frames at the
	// backfill offsets.
	for k := range spectral.SpectrumBins {
		m := q[k]
		for _, offset := range spreadBackfillOffsets {
			cell := st.ring.At(offset)
			m = max(m, cell[k])
			cell[k] = m
		}
	}

	return st.ring.Append(q)
}

// Ring returns the spread-spectrum ring
func (st *SpreadStage) Ring() *common.SpectrumRing {
	return st.ring
}

// PassCount returns the number of spread spectra written since creation
// or the last Reset
func (st *SpreadStage) PassCount() int {
	return st.ring.TotalWritten()
}

// Reset zeroes the ring
func (st *SpreadStage) Reset() {
	st.ring.Reset()
}
