package codec

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestURIRoundTrip(t *testing.T) {
	sig := sampleSignature()

	uri, err := EncodeURI(sig)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(uri, "data:audio/vnd.shazam.sig;base64,"))

	decoded, err := DecodeURI(uri)
	require.NoError(t, err)
	assert.Equal(t, sig, decoded)
}

func TestURIRejectsForeignPrefix(t *testing.T) {
	_, err := DecodeURI("data:text/plain;base64,aGVsbG8=")
	assert.ErrorIs(t, err, ErrInvalidURI)
}

func TestURIRejectsBadBase64(t *testing.T) {
	_, err := DecodeURI(URIPrefix + "!!!not-base64!!!")
	assert.ErrorIs(t, err, ErrInvalidURI)
}

func TestURIRejectsValidBase64BadContainer(t *testing.T) {
	// Valid base64 carrying garbage bytes fails at the container layer
	_, err := DecodeURI(URIPrefix + "aGVsbG8gd29ybGQgaGVsbG8gd29ybGQgaGVsbG8gd29ybGQgaGVsbG8gd29ybGQgaGVsbG8=")
	assert.ErrorIs(t, err, ErrInvalidContainer)
}
