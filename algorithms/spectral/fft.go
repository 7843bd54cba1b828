package spectral

import (
	"github.com/mjibson/go-dsp/fft"
)

// FFT provides real-input Fast Fourier Transform functionality
type FFT struct {
	// No state needed for now
}

// NewFFT creates a new FFT calculator
func NewFFT() *FFT {
	return &FFT{}
}

// Compute computes the FFT of a real signal using mjibson/go-dsp.
// The full complex spectrum is returned; callers interested in the
// one-sided spectrum take the first N/2+1 values.
func (f *FFT) Compute(x []float64) []complex128 {
	if len(x) == 0 {
		return []complex128{}
	}

	return fft.FFTReal(x)
}
