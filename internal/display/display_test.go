package display

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dnsscience/dqy/internal/wire"
)

func TestFromWireConvertsQuestionAndAnswer(t *testing.T) {
	name, err := wire.NewName("example.com")
	require.NoError(t, err)

	msg := &wire.Message{
		Header: wire.Header{ID: 42, QR: true, RD: true, RA: true},
		Question: []wire.Question{
			{Name: name, Type: wire.TypeA, Class: wire.ClassIN},
		},
		Answer: []wire.RR{
			{Name: name, Type: wire.TypeA, Class: wire.ClassIN, TTL: 300,
				RData: &wire.RDataAddr{IP: net.IPv4(93, 184, 216, 34)}},
		},
	}

	view := FromWire(msg)
	require.NotNil(t, view)
	assert.Equal(t, uint16(42), view.ID)
	assert.True(t, view.QR)
	require.Len(t, view.Question, 1)
	assert.Equal(t, "A", view.Question[0].Type)
	assert.Equal(t, "IN", view.Question[0].Class)
	require.Len(t, view.Answer, 1)
	assert.Equal(t, "93.184.216.34", view.Answer[0].Text)
}

func TestRunAggregatesBytesAndElapsed(t *testing.T) {
	run := Run{Exchanges: []Exchange{
		{Info: Info{ElapsedMS: 10, BytesSent: 28, BytesReceived: 64}},
		{Info: Info{ElapsedMS: 5, BytesSent: 28, BytesReceived: 512}},
	}}

	sent, received := run.TotalBytes()
	assert.Equal(t, 56, sent)
	assert.Equal(t, 576, received)
	assert.Equal(t, 15*1e6, float64(run.TotalElapsed().Nanoseconds()))
}
