package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRDataOPTRoundtrip(t *testing.T) {
	opt := &RDataOPT{Options: []EDNSOption{
		{Code: OptCodeCookie, Value: []byte{1, 2, 3, 4, 5, 6, 7, 8}},
		{Code: OptCodeNSID, Value: nil},
	}}

	w := NewWriter(32)
	require.NoError(t, opt.Encode(w))

	r := NewReader(w.Bytes())
	got, err := decodeOPT(r, r.Len())
	require.NoError(t, err)
	require.Len(t, got.Options, 2)
	assert.Equal(t, OptCodeCookie, got.Options[0].Code)
	assert.Equal(t, []byte{1, 2, 3, 4, 5, 6, 7, 8}, got.Options[0].Value)

	cookie, ok := got.Get(OptCodeCookie)
	require.True(t, ok)
	assert.Equal(t, OptCodeCookie, cookie.Code)
}

func TestRDataOPTOverrunRejected(t *testing.T) {
	w := NewWriter(16)
	w.WriteUint16(OptCodeCookie)
	w.WriteUint16(100) // declares far more than is actually present
	w.WriteBytes([]byte{1, 2, 3})

	r := NewReader(w.Bytes())
	_, err := decodeOPT(r, w.Offset())
	require.Error(t, err)
}

func TestSVCBRoundtrip(t *testing.T) {
	target, err := NewName("svc.example.com")
	require.NoError(t, err)

	svcb := &RDataSVCB{
		Priority: 1,
		Target:   target,
		Params: []SvcParam{
			{Key: SvcParamPort, Value: []byte{0x01, 0xBB}},
			{Key: SvcParamALPN, Value: []byte{2, 'h', '2'}},
		},
	}

	w := NewWriter(64)
	require.NoError(t, svcb.Encode(w))

	r := NewReader(w.Bytes())
	got, err := decodeSVCB(r, r.Len(), TypeSVCB)
	require.NoError(t, err)
	assert.Equal(t, uint16(1), got.Priority)
	assert.Equal(t, "svc.example.com.", got.Target.ASCII())
	require.Len(t, got.Params, 2)
}

func TestTypeBitmapRoundtrip(t *testing.T) {
	types := []Type{TypeA, TypeMX, TypeRRSIG, TypeNSEC, TypeAAAA, Type(1234)}
	encoded := encodeTypeBitmap(types)
	decoded, err := decodeTypeBitmap(encoded)
	require.NoError(t, err)
	assert.ElementsMatch(t, types, decoded)
}

func TestNSECRoundtrip(t *testing.T) {
	next, err := NewName("b.example.com")
	require.NoError(t, err)

	nsec := &RDataNSEC{NextDomain: next, Types: []Type{TypeA, TypeRRSIG, TypeNSEC}}
	w := NewWriter(64)
	require.NoError(t, nsec.Encode(w))

	r := NewReader(w.Bytes())
	got, err := decodeNSEC(r, r.Len())
	require.NoError(t, err)
	assert.Equal(t, "b.example.com.", got.NextDomain.ASCII())
	assert.ElementsMatch(t, nsec.Types, got.Types)
}

func TestTXTMultiString(t *testing.T) {
	txt := &RDataTXT{Strings: [][]byte{[]byte("hello"), []byte("world")}}
	w := NewWriter(32)
	require.NoError(t, txt.Encode(w))

	got, err := decodeTXT(NewReader(w.Bytes()), w.Offset())
	require.NoError(t, err)
	require.Len(t, got.Strings, 2)
	assert.Equal(t, "hello", string(got.Strings[0]))
	assert.Equal(t, "world", string(got.Strings[1]))
}

func TestCharStringTooLongRejected(t *testing.T) {
	w := NewWriter(8)
	err := w.WriteCharString(make([]byte, 256))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCharStringTooLong)
}
