package codec

import (
	"encoding/binary"
	"hash/crc32"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RyanBlaney/sonido-sig/signature"
)

func sampleSignature() *signature.Signature {
	sig := signature.NewSignature(16000)
	sig.NumberSamples = 49664
	sig.BandToPeaks[signature.Band250To520] = []signature.FrequencyPeak{
		{FFTPassNumber: 3, PeakMagnitude: 31000, CorrectedPeakFrequencyBin: 2048, SampleRateHz: 16000},
		{FFTPassNumber: 17, PeakMagnitude: 29500, CorrectedPeakFrequencyBin: 2100, SampleRateHz: 16000},
	}
	sig.BandToPeaks[signature.Band520To1450] = []signature.FrequencyPeak{
		{FFTPassNumber: 5, PeakMagnitude: 33000, CorrectedPeakFrequencyBin: 8192, SampleRateHz: 16000},
	}
	sig.BandToPeaks[signature.Band3500To5500] = []signature.FrequencyPeak{
		{FFTPassNumber: 200, PeakMagnitude: 28000, CorrectedPeakFrequencyBin: 60000, SampleRateHz: 16000},
	}
	return sig
}

// patchContainer recomputes the size and checksum fields after a test
// mutates container bytes
func patchContainer(data []byte) {
	binary.LittleEndian.PutUint32(data[offsetSizeMinusHeader:], uint32(len(data)-headerSize))
	binary.LittleEndian.PutUint32(data[offsetChecksum:], crc32.ChecksumIEEE(data[offsetSizeMinusHeader:]))
}

func TestBinaryRoundTrip(t *testing.T) {
	sig := sampleSignature()

	encoded, err := EncodeBinary(sig)
	require.NoError(t, err)

	decoded, err := DecodeBinary(encoded)
	require.NoError(t, err)
	assert.Equal(t, sig, decoded)
}

func TestBinaryRoundTripNoPeaks(t *testing.T) {
	sig := signature.NewSignature(16000)
	sig.NumberSamples = 1280

	encoded, err := EncodeBinary(sig)
	require.NoError(t, err)
	assert.Len(t, encoded, headerSize)

	decoded, err := DecodeBinary(encoded)
	require.NoError(t, err)
	assert.Equal(t, sig, decoded)
}

func TestSizeFieldConsistency(t *testing.T) {
	encoded, err := EncodeBinary(sampleSignature())
	require.NoError(t, err)

	stored := binary.LittleEndian.Uint32(encoded[offsetSizeMinusHeader:])
	assert.Equal(t, uint32(len(encoded)-headerSize), stored)
}

func TestNumberSamplesBias(t *testing.T) {
	encoded, err := EncodeBinary(sampleSignature())
	require.NoError(t, err)

	stored := binary.LittleEndian.Uint32(encoded[offsetNumberSamples:])
	assert.Equal(t, uint32(49664+3840), stored, "16 kHz bias is floor(16000*0.24)")
}

func TestBandRecordAlignment(t *testing.T) {
	encoded, err := EncodeBinary(sampleSignature())
	require.NoError(t, err)

	pos := headerSize
	records := 0
	for pos < len(encoded) {
		payloadLen := int(binary.LittleEndian.Uint32(encoded[pos+4:]))
		assert.Zero(t, payloadLen%peakRecordSize, "payload length must hold whole peaks")

		paddedLen := (payloadLen + 3) &^ 3
		assert.Zero(t, (8+paddedLen)%4, "record must occupy a multiple of 4 bytes")

		pos += 8 + paddedLen
		records++
	}
	assert.Equal(t, len(encoded), pos)
	assert.Equal(t, 3, records)
}

func TestCRCDetectsAnyCoveredByteFlip(t *testing.T) {
	encoded, err := EncodeBinary(sampleSignature())
	require.NoError(t, err)

	for pos := offsetSizeMinusHeader; pos < len(encoded); pos++ {
		corrupted := make([]byte, len(encoded))
		copy(corrupted, encoded)
		corrupted[pos] ^= 0xFF

		_, err := DecodeBinary(corrupted)
		require.Error(t, err, "flip at offset %d must not decode", pos)
		assert.ErrorIs(t, err, ErrInvalidContainer, "flip at offset %d", pos)
	}
}

func TestBadMagic1(t *testing.T) {
	encoded, err := EncodeBinary(sampleSignature())
	require.NoError(t, err)

	binary.LittleEndian.PutUint32(encoded[offsetMagic1:], 0xDEADBEEF)

	_, err = DecodeBinary(encoded)
	assert.ErrorIs(t, err, ErrInvalidContainer)
}

func TestBadMagic2(t *testing.T) {
	encoded, err := EncodeBinary(sampleSignature())
	require.NoError(t, err)

	binary.LittleEndian.PutUint32(encoded[offsetMagic2:], 0x12345678)
	patchContainer(encoded)

	_, err = DecodeBinary(encoded)
	assert.ErrorIs(t, err, ErrInvalidContainer)
}

func TestUnknownSampleRateID(t *testing.T) {
	encoded, err := EncodeBinary(sampleSignature())
	require.NoError(t, err)

	binary.LittleEndian.PutUint32(encoded[offsetSampleRate:], uint32(9)<<sampleRateShift)
	patchContainer(encoded)

	_, err = DecodeBinary(encoded)
	assert.ErrorIs(t, err, ErrUnsupportedSampleRate)
}

func TestEncodeRejectsUnsupportedRate(t *testing.T) {
	sig := signature.NewSignature(22050)

	_, err := EncodeBinary(sig)
	assert.ErrorIs(t, err, ErrUnsupportedSampleRate)
}

func TestTruncatedBandRecord(t *testing.T) {
	sig := signature.NewSignature(16000)
	sig.BandToPeaks[signature.Band250To520] = []signature.FrequencyPeak{
		{FFTPassNumber: 1, PeakMagnitude: 100, CorrectedPeakFrequencyBin: 2048, SampleRateHz: 16000},
	}
	encoded, err := EncodeBinary(sig)
	require.NoError(t, err)

	truncated := encoded[:len(encoded)-3]
	patchContainer(truncated)

	_, err = DecodeBinary(truncated)
	assert.ErrorIs(t, err, ErrInvalidContainer)
}

func TestUnknownBandTag(t *testing.T) {
	encoded, err := EncodeBinary(sampleSignature())
	require.NoError(t, err)

	binary.LittleEndian.PutUint32(encoded[headerSize:], bandTagBase+9)
	patchContainer(encoded)

	_, err = DecodeBinary(encoded)
	assert.ErrorIs(t, err, ErrInvalidContainer)
}

func TestShortBufferRejected(t *testing.T) {
	_, err := DecodeBinary(make([]byte, headerSize-1))
	assert.ErrorIs(t, err, ErrInvalidContainer)
}

func TestPassNumberClampsToByte(t *testing.T) {
	sig := signature.NewSignature(16000)
	sig.BandToPeaks[signature.Band520To1450] = []signature.FrequencyPeak{
		{FFTPassNumber: 400, PeakMagnitude: 100, CorrectedPeakFrequencyBin: 8192, SampleRateHz: 16000},
	}

	encoded, err := EncodeBinary(sig)
	require.NoError(t, err)

	decoded, err := DecodeBinary(encoded)
	require.NoError(t, err)
	assert.Equal(t, uint32(255), decoded.BandToPeaks[signature.Band520To1450][0].FFTPassNumber)
}

func TestCodecErrorContext(t *testing.T) {
	encoded, err := EncodeBinary(sampleSignature())
	require.NoError(t, err)

	binary.LittleEndian.PutUint32(encoded[offsetMagic1:], 0xDEADBEEF)

	_, err = DecodeBinary(encoded)
	var codecErr *CodecError
	require.ErrorAs(t, err, &codecErr)
	assert.Equal(t, "magic1", codecErr.Field)
	assert.Equal(t, offsetMagic1, codecErr.Offset)
}
