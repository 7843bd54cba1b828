package transcode

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestWAV(t *testing.T, path string, samples []int16, sampleRate, channels int) {
	t.Helper()

	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	encoder := wav.NewEncoder(f, sampleRate, 16, channels, 1)
	data := make([]int, len(samples))
	for i, s := range samples {
		data[i] = int(s)
	}
	require.NoError(t, encoder.Write(&audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: channels,
			SampleRate:  sampleRate,
		},
		Data:           data,
		SourceBitDepth: 16,
	}))
	require.NoError(t, encoder.Close())
}

func TestLoadWAV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tone.wav")
	samples := []int16{0, 100, -100, 32767, -32768, 42}
	writeTestWAV(t, path, samples, 16000, 1)

	loaded, err := LoadWAV(path)
	require.NoError(t, err)

	assert.Equal(t, samples, loaded.PCM)
	assert.Equal(t, 16000, loaded.SampleRate)
	assert.Equal(t, 1, loaded.Channels)
}

func TestLoadWAVRejectsWrongRate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wrong-rate.wav")
	writeTestWAV(t, path, make([]int16, 100), 44100, 1)

	_, err := LoadWAV(path)
	assert.Error(t, err)
}

func TestLoadWAVRejectsStereo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stereo.wav")
	writeTestWAV(t, path, make([]int16, 100), 16000, 2)

	_, err := LoadWAV(path)
	assert.Error(t, err)
}

func TestLoadRawPCM(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tone.pcm")
	samples := []int16{1, -2, 300, -32768}

	raw := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(raw[i*2:], uint16(s))
	}
	require.NoError(t, os.WriteFile(path, raw, 0o644))

	loaded, err := LoadRawPCM(path)
	require.NoError(t, err)

	assert.Equal(t, samples, loaded.PCM)
	assert.Equal(t, ExpectedSampleRate, loaded.SampleRate)
	assert.Equal(t, time.Duration(len(samples))*time.Second/16000, loaded.Duration)
}

func TestLoadRawPCMRejectsOddLength(t *testing.T) {
	path := filepath.Join(t.TempDir(), "odd.pcm")
	require.NoError(t, os.WriteFile(path, []byte{1, 2, 3}, 0o644))

	_, err := LoadRawPCM(path)
	assert.Error(t, err)
}

func TestLoadAudioFileDispatch(t *testing.T) {
	dir := t.TempDir()

	pcmPath := filepath.Join(dir, "x.raw")
	require.NoError(t, os.WriteFile(pcmPath, []byte{0, 0, 0, 0}, 0o644))

	loaded, err := LoadAudioFile(pcmPath)
	require.NoError(t, err)
	assert.Len(t, loaded.PCM, 2)

	_, err = LoadAudioFile(filepath.Join(dir, "x.mp3"))
	assert.Error(t, err)
}
