package codec

import (
	"encoding/binary"
	"hash/crc32"
	"math"

	"github.com/RyanBlaney/sonido-sig/signature"
)

// Container framing constants
const (
	headerMagic1 = 0xCAFE2580
	headerMagic2 = 0x94119C00
	headerSize   = 48

	// bandTagBase plus the band id tags each peak group
	bandTagBase = 0x60030040

	// peakRecordSize is the encoded size of one peak: u8 pass, u16
	// magnitude, u16 corrected bin
	peakRecordSize = 5

	// sampleRateShift positions the sample-rate enum id in the upper 5
	// bits of its header word
	sampleRateShift = 27
)

// Fixed header word offsets
const (
	offsetMagic1          = 0
	offsetChecksum        = 4
	offsetSizeMinusHeader = 8
	offsetMagic2          = 12
	offsetSampleRate      = 28
	offsetNumberSamples   = 44
)

// sampleCountBias is the opaque on-wire bias added to the sample count
func sampleCountBias(sampleRateHz int) uint32 {
	return uint32(math.Floor(float64(sampleRateHz) * 0.24))
}

// containerBands lists every band id the container schema admits, in
// tag order
var containerBands = []signature.FrequencyBand{
	signature.BandBelow250,
	signature.Band250To520,
	signature.Band520To1450,
	signature.Band1450To3500,
	signature.Band3500To5500,
}

// EncodeBinary serializes a signature into its framed binary container.
// The checksum is computed after all other fields are set.
func EncodeBinary(sig *signature.Signature) ([]byte, error) {
	rateID, err := signature.SampleRateID(sig.SampleRateHz)
	if err != nil {
		return nil, &CodecError{
			Kind:   ErrUnsupportedSampleRate,
			Offset: offsetSampleRate,
			Field:  "sample_rate",
			Actual: sig.SampleRateHz,
			Cause:  err,
		}
	}

	buf := make([]byte, headerSize)
	binary.LittleEndian.PutUint32(buf[offsetMagic1:], headerMagic1)
	binary.LittleEndian.PutUint32(buf[offsetMagic2:], headerMagic2)
	binary.LittleEndian.PutUint32(buf[offsetSampleRate:], rateID<<sampleRateShift)
	binary.LittleEndian.PutUint32(buf[offsetNumberSamples:], uint32(sig.NumberSamples)+sampleCountBias(sig.SampleRateHz))

	for _, band := range containerBands {
		peaks := sig.BandToPeaks[band]
		if len(peaks) == 0 {
			continue
		}
		buf = appendBandRecord(buf, band, peaks)
	}

	binary.LittleEndian.PutUint32(buf[offsetSizeMinusHeader:], uint32(len(buf)-headerSize))
	binary.LittleEndian.PutUint32(buf[offsetChecksum:], crc32.ChecksumIEEE(buf[offsetSizeMinusHeader:]))

	return buf, nil
}

// appendBandRecord appends one band-keyed peak group: tag word, payload
// length word, 5-byte peaks, zero padding to a 4-byte boundary
func appendBandRecord(buf []byte, band signature.FrequencyBand, peaks []signature.FrequencyPeak) []byte {
	payloadLen := len(peaks) * peakRecordSize

	buf = binary.LittleEndian.AppendUint32(buf, uint32(bandTagBase+int(band)))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(payloadLen))

	for _, peak := range peaks {
		buf = append(buf, clampPassNumber(peak.FFTPassNumber))
		buf = binary.LittleEndian.AppendUint16(buf, peak.PeakMagnitude)
		buf = binary.LittleEndian.AppendUint16(buf, peak.CorrectedPeakFrequencyBin)
	}
	for payloadLen%4 != 0 {
		buf = append(buf, 0x00)
		payloadLen++
	}

	return buf
}

// clampPassNumber narrows a pass number to the u8 the record carries.
// Clamping only engages at the edge of the design envelope.
func clampPassNumber(pass uint32) uint8 {
	if pass > math.MaxUint8 {
		return math.MaxUint8
	}
	return uint8(pass)
}

// DecodeBinary parses a framed binary container back into a signature
func DecodeBinary(data []byte) (*signature.Signature, error) {
	if len(data) < headerSize {
		return nil, containerError(0, "header", headerSize, len(data))
	}

	if got := binary.LittleEndian.Uint32(data[offsetMagic1:]); got != headerMagic1 {
		return nil, containerError(offsetMagic1, "magic1", uint32(headerMagic1), got)
	}
	if got := binary.LittleEndian.Uint32(data[offsetMagic2:]); got != headerMagic2 {
		return nil, containerError(offsetMagic2, "magic2", uint32(headerMagic2), got)
	}
	if got := binary.LittleEndian.Uint32(data[offsetSizeMinusHeader:]); got != uint32(len(data)-headerSize) {
		return nil, containerError(offsetSizeMinusHeader, "size_minus_header", uint32(len(data)-headerSize), got)
	}
	if want, got := binary.LittleEndian.Uint32(data[offsetChecksum:]), crc32.ChecksumIEEE(data[offsetSizeMinusHeader:]); want != got {
		return nil, containerError(offsetChecksum, "crc32", want, got)
	}

	rateID := binary.LittleEndian.Uint32(data[offsetSampleRate:]) >> sampleRateShift
	rateHz, err := signature.SampleRateFromID(rateID)
	if err != nil {
		return nil, &CodecError{
			Kind:   ErrUnsupportedSampleRate,
			Offset: offsetSampleRate,
			Field:  "sample_rate_id",
			Actual: rateID,
			Cause:  err,
		}
	}

	sig := signature.NewSignature(rateHz)
	sig.NumberSamples = int(binary.LittleEndian.Uint32(data[offsetNumberSamples:]) - sampleCountBias(rateHz))

	pos := headerSize
	for pos < len(data) {
		advanced, err := decodeBandRecord(sig, data, pos)
		if err != nil {
			return nil, err
		}
		pos += advanced
	}

	return sig, nil
}

// decodeBandRecord parses one band record starting at pos and returns
// the number of bytes consumed
func decodeBandRecord(sig *signature.Signature, data []byte, pos int) (int, error) {
	if len(data)-pos < 8 {
		return 0, containerError(pos, "band_record_header", 8, len(data)-pos)
	}

	tag := binary.LittleEndian.Uint32(data[pos:])
	band := signature.FrequencyBand(int32(tag) - bandTagBase)
	if band < signature.BandBelow250 || band > signature.Band3500To5500 {
		return 0, containerError(pos, "band_tag", nil, tag)
	}

	payloadLen := int(binary.LittleEndian.Uint32(data[pos+4:]))
	if payloadLen%peakRecordSize != 0 {
		return 0, containerError(pos+4, "band_payload_length", nil, payloadLen)
	}
	paddedLen := (payloadLen + 3) &^ 3
	if len(data)-pos-8 < paddedLen {
		return 0, containerError(pos+8, "band_payload", paddedLen, len(data)-pos-8)
	}

	payload := data[pos+8 : pos+8+payloadLen]
	for i := 0; i < payloadLen; i += peakRecordSize {
		sig.BandToPeaks[band] = append(sig.BandToPeaks[band], signature.FrequencyPeak{
			FFTPassNumber:             uint32(payload[i]),
			PeakMagnitude:             binary.LittleEndian.Uint16(payload[i+1:]),
			CorrectedPeakFrequencyBin: binary.LittleEndian.Uint16(payload[i+3:]),
			SampleRateHz:              uint32(sig.SampleRateHz),
		})
	}

	return 8 + paddedLen, nil
}
