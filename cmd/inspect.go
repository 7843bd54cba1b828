package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/RyanBlaney/sonido-sig/signature"
	"github.com/RyanBlaney/sonido-sig/signature/codec"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [file|uri]",
	Short: "Decode a signature container and print its JSON view",
	Long: `Decode a binary signature container (given as a file path) or a
data URI (given directly on the command line) and print the JSON view.`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	sig, err := loadSignature(args[0])
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(codec.ToJSON(sig), "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func loadSignature(arg string) (*signature.Signature, error) {
	if strings.HasPrefix(arg, "data:") {
		return codec.DecodeURI(arg)
	}

	raw, err := os.ReadFile(arg)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", arg, err)
	}
	return codec.DecodeBinary(raw)
}
