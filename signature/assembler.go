package signature

import (
	"github.com/RyanBlaney/sonido-sig/algorithms/spectral"
	"github.com/RyanBlaney/sonido-sig/logging"
	"github.com/RyanBlaney/sonido-sig/signature/config"
)

// Chunk is one emitted signature together with the absolute offset of
// its first sample in the input stream
type Chunk struct {
	Signature          *Signature
	StartOffsetSeconds float64
}

// Assembler drives the analysis pipeline over a stream of PCM samples
// and emits bounded signature chunks. Feed samples with FeedInput, then
// drain with TryTake until it reports nothing. One assembler per input
// stream; instances share no state.
type Assembler struct {
	cfg      *config.AssemblerConfig
	spectral *spectral.SpectralStage
	spread   *SpreadStage
	detector *PeakDetector
	logger   logging.Logger

	pending      []float64
	sig          *Signature
	peakCount    int
	streamOffset float64
}

// NewAssembler creates an assembler. A nil config selects the defaults.
func NewAssembler(cfg *config.AssemblerConfig) *Assembler {
	if cfg == nil {
		cfg = config.DefaultAssemblerConfig()
	}

	spectralStage := spectral.NewSpectralStage(spreadRingSlots)
	spreadStage := NewSpreadStage()

	return &Assembler{
		cfg:      cfg,
		spectral: spectralStage,
		spread:   spreadStage,
		detector: NewPeakDetector(spectralStage.Outputs(), spreadStage.Ring(), cfg.SampleRate),
		sig:      NewSignature(cfg.SampleRate),
		logger: logging.WithFields(logging.Fields{
			"component":   "signature_assembler",
			"sample_rate": cfg.SampleRate,
		}),
	}
}

// FeedInput enqueues raw samples. May be called incrementally.
func (a *Assembler) FeedInput(samples []int16) {
	for _, s := range samples {
		a.pending = append(a.pending, float64(s))
	}
}

// TryTake consumes buffered samples one hop at a time until a chunk
// limit trips or the buffer runs dry, then returns the detached chunk.
// It returns nil when fewer than one hop of samples is buffered, or
// when the in-progress chunk is still too short to stand alone (the
// detector has not engaged yet); such residue stays buffered for later
// calls.
func (a *Assembler) TryTake() *Chunk {
	if len(a.pending) < spectral.HopSize {
		return nil
	}

	for len(a.pending) >= spectral.HopSize && !a.limitReached() {
		hop := a.pending[:spectral.HopSize]
		a.pending = a.pending[spectral.HopSize:]
		a.processHop(hop)
	}

	if !a.limitReached() && a.spread.PassCount() < rawFrameDelay {
		return nil
	}

	return a.detach()
}

// AddPeak implements PeakSink. Peaks beyond the configured bound are
// dropped so emitted signatures never exceed it.
func (a *Assembler) AddPeak(band FrequencyBand, peak FrequencyPeak) bool {
	if a.peakCount >= a.cfg.MaxPeaks {
		return false
	}
	a.sig.BandToPeaks[band] = append(a.sig.BandToPeaks[band], peak)
	a.peakCount++
	return true
}

func (a *Assembler) limitReached() bool {
	return a.sig.Seconds() >= a.cfg.MaxChunkSeconds || a.peakCount >= a.cfg.MaxPeaks
}

func (a *Assembler) processHop(hop []float64) {
	if err := a.spectral.ProcessHop(hop); err != nil {
		a.logger.Error(err, "spectral stage rejected hop")
		return
	}
	if err := a.spread.Process(a.spectral.Outputs().At(-1)); err != nil {
		a.logger.Error(err, "spread stage rejected spectrum")
		return
	}
	if a.detector.Ready() {
		a.detector.ProcessPass(a)
	}
	a.sig.NumberSamples += spectral.HopSize
}

// detach hands the in-progress signature to the caller and resets the
// rings and counters for the next chunk
func (a *Assembler) detach() *Chunk {
	chunk := &Chunk{
		Signature:          a.sig,
		StartOffsetSeconds: a.streamOffset,
	}
	a.streamOffset += a.sig.Seconds()

	a.logger.Debug("signature chunk emitted", logging.Fields{
		"number_samples": a.sig.NumberSamples,
		"total_peaks":    a.peakCount,
		"start_offset_s": chunk.StartOffsetSeconds,
	})

	a.spectral.Reset()
	a.spread.Reset()
	a.sig = NewSignature(a.cfg.SampleRate)
	a.peakCount = 0

	return chunk
}
