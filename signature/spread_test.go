package signature

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RyanBlaney/sonido-sig/algorithms/spectral"
)

func spikeFrame(bin int, value float64) []float64 {
	frame := make([]float64, spectral.SpectrumBins)
	frame[bin] = value
	return frame
}

func TestSpreadStageFrequencyForwardMax(t *testing.T) {
	stage := NewSpreadStage()

	require.NoError(t, stage.Process(spikeFrame(100, 5.0)))

	spread := stage.Ring().At(-1)
	// The 3-tap forward max pulls the spike down to the two lower bins
	assert.Equal(t, 5.0, spread[98])
	assert.Equal(t, 5.0, spread[99])
	assert.Equal(t, 5.0, spread[100])
	assert.Equal(t, 0.0, spread[101])
	assert.Equal(t, 0.0, spread[97])
}

func TestSpreadStageTemporalBackfill(t *testing.T) {
	stage := NewSpreadStage()

	require.NoError(t, stage.Process(spikeFrame(100, 5.0)))

	// Before the append the new spectrum was folded into the frames one,
	// three and six slots back; after it those sit at -2, -4 and -7
	for _, offset := range []int{-2, -4, -7} {
		assert.Equal(t, 5.0, stage.Ring().At(offset)[100], "offset %d", offset)
	}
	assert.Equal(t, 0.0, stage.Ring().At(-3)[100])
}

func TestSpreadStageAbsorbChainsAcrossOffsets(t *testing.T) {
	stage := NewSpreadStage()

	require.NoError(t, stage.Process(spikeFrame(100, 5.0)))
	// A quieter following spectrum still absorbs the louder history on
	// its way backward
	require.NoError(t, stage.Process(spikeFrame(100, 2.0)))

	// The second pass backfilled -1 (the first spread frame, already 5),
	// then -3 and -6 with the absorbed maximum
	assert.Equal(t, 5.0, stage.Ring().At(-2)[100])
	for _, offset := range []int{-4, -7} {
		assert.Equal(t, 5.0, stage.Ring().At(offset)[100], "offset %d", offset)
	}

	assert.Equal(t, 2, stage.PassCount())
}

func TestSpreadStageReset(t *testing.T) {
	stage := NewSpreadStage()
	require.NoError(t, stage.Process(spikeFrame(100, 5.0)))

	stage.Reset()

	assert.Equal(t, 0, stage.PassCount())
	assert.Equal(t, 0.0, stage.Ring().At(-1)[100])
}
