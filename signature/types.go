package signature

import (
	"fmt"
	"math"
)

// FrequencyBand identifies one of the emission bands a peak falls into.
// The sub-250 Hz band exists in the container schema but peaks below
// 250 Hz are dropped before emission.
type FrequencyBand int

const (
	BandBelow250 FrequencyBand = iota - 1
	Band250To520
	Band520To1450
	Band1450To3500
	Band3500To5500
)

// BandForFrequency buckets a frequency in Hz into its band.
// Frequencies outside 250-5500 Hz map to BandBelow250, the drop marker.
func BandForFrequency(hz float64) FrequencyBand {
	switch {
	case hz < 250:
		return BandBelow250
	case hz < 520:
		return Band250To520
	case hz < 1450:
		return Band520To1450
	case hz < 3500:
		return Band1450To3500
	case hz <= 5500:
		return Band3500To5500
	default:
		return BandBelow250
	}
}

// Name returns the band's frequency-range label
func (b FrequencyBand) Name() string {
	switch b {
	case BandBelow250:
		return "0_250"
	case Band250To520:
		return "250_520"
	case Band520To1450:
		return "520_1450"
	case Band1450To3500:
		return "1450_3500"
	case Band3500To5500:
		return "3500_5500"
	default:
		return "unknown"
	}
}

// sampleRateIDs maps container header ids to rates in Hz. The header
// carries the id in the upper 5 bits of a 32-bit word.
var sampleRateIDs = map[uint32]int{
	1: 8000,
	2: 11025,
	3: 16000,
	4: 32000,
	5: 44100,
	6: 48000,
}

// SampleRateID returns the container enum id for a rate in Hz
func SampleRateID(rateHz int) (uint32, error) {
	for id, rate := range sampleRateIDs {
		if rate == rateHz {
			return id, nil
		}
	}
	return 0, fmt.Errorf("sample rate %d Hz has no container id", rateHz)
}

// SampleRateFromID returns the rate in Hz for a container enum id
func SampleRateFromID(id uint32) (int, error) {
	rate, ok := sampleRateIDs[id]
	if !ok {
		return 0, fmt.Errorf("unknown sample rate id %d", id)
	}
	return rate, nil
}

// FrequencyPeak is one detected time-frequency peak. The corrected bin
// is the sub-bin-resolved frequency index scaled by 64; magnitude is in
// the log domain used throughout the detector.
type FrequencyPeak struct {
	FFTPassNumber             uint32 `json:"fft_pass_number"`
	PeakMagnitude             uint16 `json:"peak_magnitude"`
	CorrectedPeakFrequencyBin uint16 `json:"corrected_peak_frequency_bin"`
	SampleRateHz              uint32 `json:"sample_rate_hz"`
}

// FrequencyHz converts the corrected bin back to a frequency, given
// 1024 useful bins and the 64x bin scaling
func (p FrequencyPeak) FrequencyHz() float64 {
	return float64(p.CorrectedPeakFrequencyBin) * float64(p.SampleRateHz) / (2.0 * 1024.0 * 64.0)
}

// AmplitudePCM recovers the approximate PCM amplitude from the
// log-domain magnitude
func (p FrequencyPeak) AmplitudePCM() float64 {
	return math.Sqrt(math.Exp((float64(p.PeakMagnitude)-6144.0)/1477.3)*(1<<17)/2.0) / 1024.0
}

// Seconds returns the peak's position in the input stream
func (p FrequencyPeak) Seconds() float64 {
	return float64(p.FFTPassNumber) * 128.0 / float64(p.SampleRateHz)
}

// Signature is a sparse time-frequency peak map over one bounded window
// of the input stream
type Signature struct {
	SampleRateHz  int                               `json:"sample_rate_hz"`
	NumberSamples int                               `json:"number_samples"`
	BandToPeaks   map[FrequencyBand][]FrequencyPeak `json:"band_to_peaks"`
}

// NewSignature creates an empty signature at the given rate
func NewSignature(sampleRateHz int) *Signature {
	return &Signature{
		SampleRateHz: sampleRateHz,
		BandToPeaks:  make(map[FrequencyBand][]FrequencyPeak),
	}
}

// TotalPeaks counts peaks across all bands
func (s *Signature) TotalPeaks() int {
	total := 0
	for _, peaks := range s.BandToPeaks {
		total += len(peaks)
	}
	return total
}

// Seconds returns the input span the signature covers
func (s *Signature) Seconds() float64 {
	if s.SampleRateHz == 0 {
		return 0
	}
	return float64(s.NumberSamples) / float64(s.SampleRateHz)
}
