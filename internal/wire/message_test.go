package wire

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildQueryMessage(t *testing.T, qtype Type) *Message {
	t.Helper()
	name, err := NewName("example.com")
	require.NoError(t, err)
	return &Message{
		Header: Header{ID: 0x1234, RD: true},
		Question: []Question{
			{Name: name, Type: qtype, Class: ClassIN},
		},
	}
}

func TestMessageEncodeDecodeQuery(t *testing.T) {
	msg := buildQueryMessage(t, TypeA)

	w := NewWriter(64)
	require.NoError(t, msg.Encode(w))

	got, err := DecodeMessage(w.Bytes())
	require.NoError(t, err)
	assert.Equal(t, uint16(0x1234), got.Header.ID)
	assert.True(t, got.Header.RD)
	assert.Equal(t, uint16(1), got.Header.QDCount)
	require.Len(t, got.Question, 1)
	assert.Equal(t, TypeA, got.Question[0].Type)
	assert.Equal(t, "example.com.", got.Question[0].Name.ASCII())
}

func TestMessageEncodeDecodeAnswerRoundtrip(t *testing.T) {
	name, err := NewName("example.com")
	require.NoError(t, err)

	msg := &Message{
		Header:   Header{ID: 1, QR: true, RD: true, RA: true},
		Question: []Question{{Name: name, Type: TypeA, Class: ClassIN}},
		Answer: []RR{
			{Name: name, Type: TypeA, Class: ClassIN, TTL: 300,
				RData: &RDataAddr{IP: net.ParseIP("93.184.216.34").To4()}},
		},
	}

	w := NewWriter(128)
	require.NoError(t, msg.Encode(w))

	got, err := DecodeMessage(w.Bytes())
	require.NoError(t, err)
	require.Len(t, got.Answer, 1)
	rdata, ok := got.Answer[0].RData.(*RDataAddr)
	require.True(t, ok)
	assert.Equal(t, "93.184.216.34", rdata.IP.String())
}

func TestMessageRejectsMultipleOPT(t *testing.T) {
	name, err := NewName(".")
	require.NoError(t, err)

	w := NewWriter(64)
	h := Header{ID: 1}
	h.ARCount = 2
	h.Encode(w)

	opt := RR{Name: name, Type: TypeOPT, Class: 4096, TTL: 0, RData: &RDataOPT{}}
	require.NoError(t, opt.Encode(w))
	require.NoError(t, opt.Encode(w))

	_, err = DecodeMessage(w.Bytes())
	require.Error(t, err)
}

func TestMessageCountMismatchFails(t *testing.T) {
	w := NewWriter(32)
	h := Header{ID: 1}
	h.QDCount = 1 // declared but never written
	h.Encode(w)

	_, err := DecodeMessage(w.Bytes())
	require.Error(t, err)
}

func TestExtendedRcode(t *testing.T) {
	name, err := NewName(".")
	require.NoError(t, err)

	msg := &Message{
		Header: Header{ID: 1, Rcode: RcodeNameError},
		Additional: []RR{
			{Name: name, Type: TypeOPT, Class: 4096, TTL: 0x01000000, RData: &RDataOPT{}},
		},
	}
	msg.Header.ARCount = 1
	assert.Equal(t, uint16(0x13), msg.ExtendedRcode())
}
