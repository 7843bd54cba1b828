package config

// AssemblerConfig holds configuration for signature assembly
type AssemblerConfig struct {
	// SampleRate is the input rate in Hz. The analysis constants are
	// tuned for 16 kHz input; other rates exist only in the container
	// header enum.
	SampleRate int `json:"sample_rate"`

	// MaxChunkSeconds bounds the input span of one emitted signature
	MaxChunkSeconds float64 `json:"max_chunk_seconds"`

	// MaxPeaks bounds the total peak count of one emitted signature
	MaxPeaks int `json:"max_peaks"`
}

// DefaultAssemblerConfig returns the default assembly configuration
func DefaultAssemblerConfig() *AssemblerConfig {
	return &AssemblerConfig{
		SampleRate:      16000,
		MaxChunkSeconds: 3.1,
		MaxPeaks:        255,
	}
}
