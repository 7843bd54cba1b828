package transcode

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/RyanBlaney/sonido-sig/logging"
)

// Expected input format. The signature pipeline consumes mono 16 kHz
// s16 PCM; files in any other shape are rejected rather than converted.
const (
	ExpectedSampleRate = 16000
	ExpectedChannels   = 1
	ExpectedBitDepth   = 16
)

// AudioData represents decoded audio data
type AudioData struct {
	PCM        []int16       `json:"-"`
	SampleRate int           `json:"sample_rate"`
	Channels   int           `json:"channels"`
	Duration   time.Duration `json:"duration"`
	Source     string        `json:"source"`
}

// LoadAudioFile loads a PCM file by extension: .wav is parsed as WAV,
// .pcm and .raw are read as headerless little-endian s16
func LoadAudioFile(path string) (*AudioData, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav", ".wave":
		return LoadWAV(path)
	case ".pcm", ".raw":
		return LoadRawPCM(path)
	default:
		return nil, fmt.Errorf("unsupported audio file extension %q", filepath.Ext(path))
	}
}

// LoadWAV loads a mono 16 kHz 16-bit WAV file
func LoadWAV(path string) (*AudioData, error) {
	logger := logging.WithFields(logging.Fields{
		"component": "transcode",
		"path":      path,
	})

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	decoder := wav.NewDecoder(f)
	if !decoder.IsValidFile() {
		return nil, fmt.Errorf("%s is not a valid WAV file", path)
	}

	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("reading PCM from %s: %w", path, err)
	}

	format := buf.Format
	if format.NumChannels != ExpectedChannels {
		return nil, fmt.Errorf("%s has %d channels, need mono input", path, format.NumChannels)
	}
	if format.SampleRate != ExpectedSampleRate {
		return nil, fmt.Errorf("%s is %d Hz, need %d Hz input", path, format.SampleRate, ExpectedSampleRate)
	}
	if int(decoder.BitDepth) != ExpectedBitDepth {
		return nil, fmt.Errorf("%s is %d-bit, need %d-bit input", path, decoder.BitDepth, ExpectedBitDepth)
	}

	pcm := pcmFromBuffer(buf)

	logger.Debug("loaded WAV file", logging.Fields{
		"samples": len(pcm),
	})

	return &AudioData{
		PCM:        pcm,
		SampleRate: format.SampleRate,
		Channels:   format.NumChannels,
		Duration:   time.Duration(len(pcm)) * time.Second / ExpectedSampleRate,
		Source:     path,
	}, nil
}

// pcmFromBuffer narrows a decoded PCM buffer to s16 samples
func pcmFromBuffer(buf *audio.IntBuffer) []int16 {
	pcm := make([]int16, len(buf.Data))
	for i, s := range buf.Data {
		pcm[i] = int16(s)
	}
	return pcm
}

// LoadRawPCM loads a headerless little-endian s16 mono file, assumed to
// be at the expected sample rate
func LoadRawPCM(path string) (*AudioData, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if len(raw)%2 != 0 {
		return nil, fmt.Errorf("%s has odd length %d, not 16-bit PCM", path, len(raw))
	}

	pcm := make([]int16, len(raw)/2)
	for i := range pcm {
		pcm[i] = int16(binary.LittleEndian.Uint16(raw[i*2:]))
	}

	return &AudioData{
		PCM:        pcm,
		SampleRate: ExpectedSampleRate,
		Channels:   ExpectedChannels,
		Duration:   time.Duration(len(pcm)) * time.Second / ExpectedSampleRate,
		Source:     path,
	}, nil
}
