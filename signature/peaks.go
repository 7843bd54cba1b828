package signature

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/RyanBlaney/sonido-sig/algorithms/common"
)

// Detector geometry. These offsets are the learned constants of the
// recognition algorithm and must be preserved exactly.
const (
	// rawFrameDelay is how many passes behind the write cursor the
	// inspected raw power spectrum sits
	rawFrameDelay = 46
	// dominanceFrameDelay selects the spread frame the candidate must
	// dominate across frequency (time-backward dominance)
	dominanceFrameDelay = 49
	// minBin and maxBin bound the scanned bin range; corrected bins stay
	// in [minBin*64, maxBin*64)
	minBin = 10
	maxBin = 1015
)

// freqNeighborOffsets are the frequency offsets, within the dominance
// frame, the candidate must rise above
var freqNeighborOffsets = [...]int{-10, -3, 1, 2, 5, 8}

// crossTimeOffsets select the spread frames, read at bin k-1, used for
// cross-time dominance: two backward frames near the dominance frame and
// four forward frames wrapping across the ring
var crossTimeOffsets = [...]int{-53, -45, 165, 201, 214, 250}

// Log-magnitude mapping shared by the detector and the amplitude
// derivation
const (
	magFloor  = 1.0 / 64.0
	magScale  = 1477.3
	magOffset = 6144.0
)

// logMagnitude maps a power value into the container's log-magnitude
// domain
func logMagnitude(v float64) float64 {
	return math.Log(math.Max(magFloor, v))*magScale + magOffset
}

// PeakSink receives peaks as the detector emits them. AddPeak reports
// whether the sink accepted the peak; a full sink returns false.
type PeakSink interface {
	AddPeak(band FrequencyBand, peak FrequencyPeak) bool
}

// PeakDetector inspects a delayed raw spectrum against its
// spatiotemporal neighborhood in the spread ring and emits peaks with
// sub-bin frequency correction
type PeakDetector struct {
	fftRing    *common.SpectrumRing
	spreadRing *common.SpectrumRing
	sampleRate int
	neighbors  []float64
}

// NewPeakDetector creates a detector reading raw spectra from fftRing
// and spread spectra from spreadRing
func NewPeakDetector(fftRing, spreadRing *common.SpectrumRing, sampleRate int) *PeakDetector {
	return &PeakDetector{
		fftRing:    fftRing,
		spreadRing: spreadRing,
		sampleRate: sampleRate,
		neighbors:  make([]float64, 0, len(freqNeighborOffsets)+len(crossTimeOffsets)),
	}
}

// Ready reports whether enough spread passes have accumulated for the
// delayed lookups to be meaningful
func (d *PeakDetector) Ready() bool {
	return d.spreadRing.TotalWritten() >= rawFrameDelay
}

// ProcessPass scans the delayed frame for peaks and feeds them to the
// sink in ascending-bin order. Call once per spread pass, after Ready
// reports true.
func (d *PeakDetector) ProcessPass(sink PeakSink) {
	passNumber := d.spreadRing.TotalWritten() - rawFrameDelay

	raw := d.fftRing.At(-rawFrameDelay)
	dominance := d.spreadRing.At(-dominanceFrameDelay)

	for k := minBin; k < maxBin; k++ {
		candidate := raw[k]

		// Large enough to be a peak, and above the spread cell one bin
		// down in the dominance frame
		if candidate < magFloor || candidate < dominance[k-1] {
			continue
		}

		// Frequency-domain dominance within the delayed spread frame
		d.neighbors = d.neighbors[:0]
		for _, offset := range freqNeighborOffsets {
			d.neighbors = append(d.neighbors, dominance[k+offset])
		}
		if candidate <= floats.Max(d.neighbors) {
			continue
		}

		// Cross-time dominance against the other spread frames, one bin
		// down
		for _, offset := range crossTimeOffsets {
			d.neighbors = append(d.neighbors, d.spreadRing.At(offset)[k-1])
		}
		if candidate <= floats.Max(d.neighbors) {
			continue
		}

		// Sub-bin correction by parabolic interpolation in the
		// log-magnitude domain
		before := logMagnitude(raw[k-1])
		at := logMagnitude(candidate)
		after := logMagnitude(raw[k+1])

		concavity := 2.0*at - before - after
		if concavity <= 0 {
			continue
		}
		correctedBin := float64(k*64) + (after-before)*32.0/concavity

		frequencyHz := correctedBin * float64(d.sampleRate) / (2.0 * 1024.0 * 64.0)
		band := BandForFrequency(frequencyHz)
		if band == BandBelow250 {
			continue
		}

		sink.AddPeak(band, FrequencyPeak{
			FFTPassNumber:             uint32(passNumber),
			PeakMagnitude:             clampUint16(at),
			CorrectedPeakFrequencyBin: clampUint16(correctedBin),
			SampleRateHz:              uint32(d.sampleRate),
		})
	}
}

// clampUint16 floors v and clamps it into uint16 range
func clampUint16(v float64) uint16 {
	f := math.Floor(v)
	if f < 0 {
		return 0
	}
	if f > math.MaxUint16 {
		return math.MaxUint16
	}
	return uint16(f)
}
