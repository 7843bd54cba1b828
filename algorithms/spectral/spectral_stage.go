package spectral

import (
	"fmt"
	"math"

	"github.com/RyanBlaney/sonido-sig/algorithms/common"
	"github.com/RyanBlaney/sonido-sig/algorithms/windowing"
)

const (
	// WindowSize is the analysis window length in samples
	WindowSize = 2048
	// HopSize is the stride between consecutive FFT passes in samples
	HopSize = 128
	// SpectrumBins is the number of one-sided spectrum bins (N/2 + 1)
	SpectrumBins = WindowSize/2 + 1
	// PowerFloor is the lower clamp applied to every power cell
	PowerFloor = 1e-10
)

// SpectralStage turns a stream of fixed-size sample hops into clamped
// power spectra. Each hop is written into a rolling window, the window
// is Hann-weighted and transformed, and |X[k]|^2 for the one-sided bins
// is appended to the output ring. One output frame per hop.
type SpectralStage struct {
	window  *common.RingWindow
	outputs *common.SpectrumRing
	hann    *windowing.Hann
	fft     *FFT

	// scratch, reused across hops
	snapshot []float64
	power    []float64
}

// NewSpectralStage creates a spectral stage writing into an output ring
// of outputSlots frames
func NewSpectralStage(outputSlots int) *SpectralStage {
	return &SpectralStage{
		window:   common.NewRingWindow(WindowSize),
		outputs:  common.NewSpectrumRing(outputSlots, SpectrumBins),
		hann:     windowing.NewHann(WindowSize),
		fft:      NewFFT(),
		snapshot: make([]float64, WindowSize),
		power:    make([]float64, SpectrumBins),
	}
}

// ProcessHop consumes exactly one hop of samples and appends one power
// spectrum to the output ring
func (ss *SpectralStage) ProcessHop(hop []float64) error {
	if len(hop) != HopSize {
		return fmt.Errorf("hop length (%d) doesn't match stage hop size (%d)", len(hop), HopSize)
	}

	if err := ss.window.Write(hop); err != nil {
		return err
	}
	if err := ss.window.Snapshot(ss.snapshot); err != nil {
		return err
	}
	if err := ss.hann.Apply(ss.snapshot, ss.snapshot); err != nil {
		return err
	}

	spectrum := ss.fft.Compute(ss.snapshot)
	for k := range SpectrumBins {
		re, im := real(spectrum[k]), imag(spectrum[k])
		ss.power[k] = math.Max(re*re+im*im, PowerFloor)
	}

	return ss.outputs.Append(ss.power)
}

// Outputs returns the power-spectrum ring written by ProcessHop
func (ss *SpectralStage) Outputs() *common.SpectrumRing {
	return ss.outputs
}

// PassCount returns the number of FFT passes performed since creation or
// the last Reset
func (ss *SpectralStage) PassCount() int {
	return ss.outputs.TotalWritten()
}

// Reset clears the sample window and the output ring
func (ss *SpectralStage) Reset() {
	ss.window.Reset()
	ss.outputs.Reset()
}
