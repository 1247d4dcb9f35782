package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNameEncodeDecodeRoundtrip(t *testing.T) {
	n, err := NewName("www.example.com")
	require.NoError(t, err)

	w := NewWriter(64)
	require.NoError(t, n.Encode(w))

	r := NewReader(w.Bytes())
	got, err := DecodeName(r)
	require.NoError(t, err)
	assert.Equal(t, "www.example.com.", got.ASCII())
	assert.Equal(t, len(w.Bytes()), r.Offset())
}

func TestNameRoot(t *testing.T) {
	n, err := NewName(".")
	require.NoError(t, err)

	w := NewWriter(8)
	require.NoError(t, n.Encode(w))
	assert.Equal(t, []byte{0x00}, w.Bytes())

	r := NewReader(w.Bytes())
	got, err := DecodeName(r)
	require.NoError(t, err)
	assert.Equal(t, ".", got.ASCII())
}

func TestDecodeNameFollowsCompressionPointer(t *testing.T) {
	// Message: "example.com" at offset 0, then a second name at offset 13
	// that points straight back to offset 0.
	buf := []byte{
		7, 'e', 'x', 'a', 'm', 'p', 'l', 'e',
		3, 'c', 'o', 'm',
		0,
		0xC0, 0x00, // pointer to offset 0
	}
	r := NewReader(buf)
	r.Seek(13)
	name, err := DecodeName(r)
	require.NoError(t, err)
	assert.Equal(t, "example.com.", name.ASCII())
	assert.Equal(t, 15, r.Offset())
}

func TestDecodeNameRejectsForwardPointer(t *testing.T) {
	buf := []byte{0xC0, 0x02, 0x00}
	r := NewReader(buf)
	_, err := DecodeName(r)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCompressionLoop)
}

func TestDecodeNameRejectsSelfPointer(t *testing.T) {
	buf := []byte{0xC0, 0x00}
	r := NewReader(buf)
	_, err := DecodeName(r)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCompressionLoop)
}

func TestDecodeNameRejectsReservedLabelBits(t *testing.T) {
	buf := []byte{0x40, 0x00}
	r := NewReader(buf)
	_, err := DecodeName(r)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrReservedLabelBits)
}

func TestNewNameRejectsOverlongLabel(t *testing.T) {
	long := make([]byte, 64)
	for i := range long {
		long[i] = 'a'
	}
	_, err := NewName(string(long) + ".com")
	require.Error(t, err)
}

func TestNewNameIDNA(t *testing.T) {
	n, err := NewName("münchen.de")
	require.NoError(t, err)
	assert.Contains(t, n.ASCII(), "xn--")
}
