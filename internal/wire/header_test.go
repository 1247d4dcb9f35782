package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeaderFlagsRoundtrip(t *testing.T) {
	h := Header{
		ID:     0xBEEF,
		QR:     true,
		Opcode: OpcodeQuery,
		AA:     false,
		TC:     false,
		RD:     true,
		RA:     true,
		AD:     true,
		CD:     false,
		Rcode:  RcodeNameError,
	}

	w := NewWriter(HeaderSize)
	h.Encode(w)
	require.Equal(t, HeaderSize, w.Offset())

	got, err := DecodeHeader(NewReader(w.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, h, got)
}

func TestDecodeHeaderShortBuffer(t *testing.T) {
	_, err := DecodeHeader(NewReader([]byte{0x00, 0x01}))
	require.Error(t, err)
}
