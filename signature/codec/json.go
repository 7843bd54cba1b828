package codec

import (
	"github.com/RyanBlaney/sonido-sig/signature"
)

// ToJSON renders a signature as the conventional JSON object shape.
// Keys prefixed with an underscore are derived quantities included for
// human inspection.
func ToJSON(sig *signature.Signature) map[string]any {
	bands := make(map[string]any)
	for _, band := range containerBands {
		peaks := sig.BandToPeaks[band]
		if len(peaks) == 0 {
			continue
		}
		entries := make([]map[string]any, 0, len(peaks))
		for _, peak := range peaks {
			entries = append(entries, map[string]any{
				"fft_pass_number":              peak.FFTPassNumber,
				"peak_magnitude":               peak.PeakMagnitude,
				"corrected_peak_frequency_bin": peak.CorrectedPeakFrequencyBin,
				"_frequency_hz":                peak.FrequencyHz(),
				"_amplitude_pcm":               peak.AmplitudePCM(),
				"_seconds":                     peak.Seconds(),
			})
		}
		bands[band.Name()] = entries
	}

	return map[string]any{
		"sample_rate_hz":          sig.SampleRateHz,
		"number_samples":          sig.NumberSamples,
		"_seconds":                sig.Seconds(),
		"frequency_band_to_peaks": bands,
	}
}
