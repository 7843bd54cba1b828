package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RyanBlaney/sonido-sig/signature"
)

func TestJSONViewShape(t *testing.T) {
	view := ToJSON(sampleSignature())

	assert.Equal(t, 16000, view["sample_rate_hz"])
	assert.Equal(t, 49664, view["number_samples"])
	assert.InDelta(t, 3.104, view["_seconds"], 1e-9)

	bands, ok := view["frequency_band_to_peaks"].(map[string]any)
	require.True(t, ok)
	require.Len(t, bands, 3)

	peaks, ok := bands["250_520"].([]map[string]any)
	require.True(t, ok)
	require.Len(t, peaks, 2)

	first := peaks[0]
	assert.Equal(t, uint32(3), first["fft_pass_number"])
	assert.Equal(t, uint16(31000), first["peak_magnitude"])
	assert.Equal(t, uint16(2048), first["corrected_peak_frequency_bin"])
	// 2048 * 16000 / (2 * 1024 * 64) = 250 Hz
	assert.InDelta(t, 250.0, first["_frequency_hz"], 1e-9)
	assert.InDelta(t, 3.0*128.0/16000.0, first["_seconds"], 1e-9)
	assert.Contains(t, first, "_amplitude_pcm")
}

func TestJSONViewOmitsEmptyBands(t *testing.T) {
	sig := signature.NewSignature(16000)
	view := ToJSON(sig)

	bands, ok := view["frequency_band_to_peaks"].(map[string]any)
	require.True(t, ok)
	assert.Empty(t, bands)
}
