package codec

import (
	"encoding/base64"
	"strings"

	"github.com/RyanBlaney/sonido-sig/signature"
)

// URIPrefix is the data-URI prefix carrying a base64 signature container
const URIPrefix = "data:audio/vnd.shazam.sig;base64,"

// EncodeURI serializes a signature into its data-URI form
func EncodeURI(sig *signature.Signature) (string, error) {
	raw, err := EncodeBinary(sig)
	if err != nil {
		return "", err
	}
	return URIPrefix + base64.StdEncoding.EncodeToString(raw), nil
}

// DecodeURI parses a data URI back into a signature. Any prefix other
// than URIPrefix is rejected.
func DecodeURI(uri string) (*signature.Signature, error) {
	payload, ok := strings.CutPrefix(uri, URIPrefix)
	if !ok {
		return nil, &CodecError{
			Kind:     ErrInvalidURI,
			Field:    "prefix",
			Expected: URIPrefix,
			Actual:   truncateForError(uri),
		}
	}

	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, &CodecError{
			Kind:   ErrInvalidURI,
			Offset: len(URIPrefix),
			Field:  "base64_payload",
			Cause:  err,
		}
	}

	return DecodeBinary(raw)
}

// truncateForError keeps error messages readable for long inputs
func truncateForError(s string) string {
	if len(s) > 48 {
		return s[:48] + "..."
	}
	return s
}
