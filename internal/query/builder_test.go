package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dnsscience/dqy/internal/wire"
)

func TestBuildDefaults(t *testing.T) {
	msgs, err := Build(Options{Domain: "example.com", QTypes: []wire.Type{wire.TypeA}})
	require.NoError(t, err)
	require.Len(t, msgs, 1)

	m := msgs[0]
	assert.False(t, m.Header.QR)
	assert.Equal(t, uint8(wire.OpcodeQuery), m.Header.Opcode)
	assert.True(t, m.Header.RD)
	assert.False(t, m.Header.AD)
	assert.False(t, m.Header.CD)
	require.Len(t, m.Question, 1)
	assert.Equal(t, wire.TypeA, m.Question[0].Type)
	assert.Equal(t, wire.ClassIN, m.Question[0].Class)

	require.Len(t, m.Additional, 1)
	assert.Equal(t, wire.TypeOPT, m.Additional[0].Type)
	assert.Equal(t, wire.Class(DefaultBufferSize), m.Additional[0].Class)
}

func TestBuildNoRecurseAndCD(t *testing.T) {
	msgs, err := Build(Options{
		Domain: "example.com", QTypes: []wire.Type{wire.TypeNS},
		NoRecurse: true, CD: true,
	})
	require.NoError(t, err)
	assert.False(t, msgs[0].Header.RD)
	assert.True(t, msgs[0].Header.CD)
}

func TestBuildNoOPT(t *testing.T) {
	msgs, err := Build(Options{Domain: "example.com", QTypes: []wire.Type{wire.TypeA}, NoOPT: true})
	require.NoError(t, err)
	assert.Empty(t, msgs[0].Additional)
}

func TestBuildDNSSECSetsDOBit(t *testing.T) {
	msgs, err := Build(Options{Domain: "example.com", QTypes: []wire.Type{wire.TypeA}, DNSSEC: true})
	require.NoError(t, err)
	opt := msgs[0].Additional[0]
	assert.NotZero(t, opt.TTL&(1<<15))
}

func TestBuildRejectsBufferSizeOutOfRange(t *testing.T) {
	_, err := Build(Options{Domain: "example.com", QTypes: []wire.Type{wire.TypeA}, BufferSize: 100})
	require.Error(t, err)
}

func TestBuildMultiQTYPEOneMessageEach(t *testing.T) {
	msgs, err := Build(Options{
		Domain: "example.com",
		QTypes: []wire.Type{wire.TypeA, wire.TypeAAAA, wire.TypeMX},
	})
	require.NoError(t, err)
	require.Len(t, msgs, 3)
	assert.Equal(t, wire.TypeA, msgs[0].Question[0].Type)
	assert.Equal(t, wire.TypeAAAA, msgs[1].Question[0].Type)
	assert.Equal(t, wire.TypeMX, msgs[2].Question[0].Type)

	// Each message gets its own random transaction ID.
	assert.NotEqual(t, msgs[0].Header.ID, msgs[1].Header.ID)
}

func TestBuildOptionOrderIsStable(t *testing.T) {
	msgs, err := Build(Options{
		Domain: "example.com", QTypes: []wire.Type{wire.TypeA},
		NSID: true, CookieData: []byte{1, 2, 3, 4, 5, 6, 7, 8},
		ExtendedError: true, Zoneversion: true,
	})
	require.NoError(t, err)

	opt, ok := msgs[0].Additional[0].RData.(*wire.RDataOPT)
	require.True(t, ok)

	var codes []uint16
	for _, o := range opt.Options {
		codes = append(codes, o.Code)
	}
	assert.Equal(t, []uint16{
		wire.OptCodeNSID, wire.OptCodeCookie, wire.OptCodeExtendedError, wire.OptCodeZoneversion,
	}, codes)
}

func TestBuildPaddingRoundsUpToBlockSize(t *testing.T) {
	msgs, err := Build(Options{
		Domain: "example.com", QTypes: []wire.Type{wire.TypeA},
		Padding: true, PaddingBlock: 64,
	})
	require.NoError(t, err)

	w := wire.NewWriter(512)
	require.NoError(t, msgs[0].Encode(w))
	assert.Zero(t, len(w.Bytes())%64)
}

func TestBuildRejectsEmptyQTypes(t *testing.T) {
	_, err := Build(Options{Domain: "example.com"})
	require.Error(t, err)
}
