package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/RyanBlaney/sonido-sig/logging"
	"github.com/RyanBlaney/sonido-sig/signature"
	"github.com/RyanBlaney/sonido-sig/signature/codec"
	sigconfig "github.com/RyanBlaney/sonido-sig/signature/config"
	"github.com/RyanBlaney/sonido-sig/transcode"
)

var (
	generateFormat       string
	generateOutputPrefix string
	generateMaxSeconds   float64
	generateMaxPeaks     int
)

var generateCmd = &cobra.Command{
	Use:   "generate [file]",
	Short: "Compute signatures from a mono 16 kHz PCM file",
	Long: `Read a WAV or raw s16le PCM file, run the signature pipeline over it,
and print one signature per emitted chunk.

Output formats:
  json    JSON view with derived frequency/amplitude fields
  uri     data URI carrying the base64 binary container
  binary  raw containers written to --output prefix files`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringVarP(&generateFormat, "format", "f", "json",
		"output format (json, uri, binary)")
	generateCmd.Flags().StringVarP(&generateOutputPrefix, "output", "o", "",
		"output file prefix for binary format (chunk index and .sig appended)")
	generateCmd.Flags().Float64Var(&generateMaxSeconds, "max-seconds", 3.1,
		"maximum input span of one signature chunk")
	generateCmd.Flags().IntVar(&generateMaxPeaks, "max-peaks", 255,
		"maximum peak count of one signature chunk")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	logger := logging.WithFields(logging.Fields{
		"component": "generate_cmd",
	})

	audio, err := transcode.LoadAudioFile(args[0])
	if err != nil {
		return err
	}

	logger.Debug("audio loaded", logging.Fields{
		"samples":  len(audio.PCM),
		"duration": audio.Duration.String(),
	})

	cfg := sigconfig.DefaultAssemblerConfig()
	cfg.MaxChunkSeconds = generateMaxSeconds
	cfg.MaxPeaks = generateMaxPeaks

	assembler := signature.NewAssembler(cfg)
	assembler.FeedInput(audio.PCM)

	index := 0
	for {
		chunk := assembler.TryTake()
		if chunk == nil {
			break
		}
		if err := emitChunk(chunk, index); err != nil {
			return err
		}
		index++
	}

	if index == 0 {
		logger.Warn("input too short, no signature emitted")
	}
	return nil
}

func emitChunk(chunk *signature.Chunk, index int) error {
	switch generateFormat {
	case "json":
		view := codec.ToJSON(chunk.Signature)
		view["_start_offset_seconds"] = chunk.StartOffsetSeconds
		out, err := json.MarshalIndent(view, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
	case "uri":
		uri, err := codec.EncodeURI(chunk.Signature)
		if err != nil {
			return err
		}
		fmt.Println(uri)
	case "binary":
		if generateOutputPrefix == "" {
			return fmt.Errorf("binary format needs --output")
		}
		raw, err := codec.EncodeBinary(chunk.Signature)
		if err != nil {
			return err
		}
		path := fmt.Sprintf("%s%03d.sig", generateOutputPrefix, index)
		if err := os.WriteFile(path, raw, 0o644); err != nil {
			return err
		}
		fmt.Println(path)
	default:
		return fmt.Errorf("unknown output format %q", generateFormat)
	}
	return nil
}
