package transport

import (
	"context"
	"encoding/binary"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindString(t *testing.T) {
	assert.Equal(t, "udp", KindUDP.String())
	assert.Equal(t, "doq", KindDoQ.String())
	assert.Equal(t, "unknown", Kind(99).String())
}

func TestErrTimeoutUnwrapAndTimeout(t *testing.T) {
	inner := context.DeadlineExceeded
	err := &ErrTimeout{Op: "test", Err: inner}
	assert.True(t, err.Timeout())
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Contains(t, err.Error(), "test")
}

func TestZeroTransactionID(t *testing.T) {
	msg := []byte{0xAB, 0xCD, 1, 2, 3}
	out := zeroTransactionID(msg)
	assert.Equal(t, []byte{0, 0, 1, 2, 3}, out)
	// original must be untouched
	assert.Equal(t, byte(0xAB), msg[0])
}

func TestTCPFramingRoundtrip(t *testing.T) {
	server, client := net.Pipe()
	defer server.Close()
	defer client.Close()

	payload := []byte("hello dns message")

	done := make(chan error, 1)
	go func() {
		done <- writeFramed(client, payload)
	}()

	got, err := readFramed(server)
	require.NoError(t, err)
	require.NoError(t, <-done)
	assert.Equal(t, payload, got)
}

func TestCheckTransactionIDAcceptsMatch(t *testing.T) {
	query := []byte{0x12, 0x34, 0, 0}
	resp := []byte{0x12, 0x34, 0, 0}
	assert.NoError(t, checkTransactionID(query, resp))
}

func TestCheckTransactionIDRejectsMismatch(t *testing.T) {
	query := []byte{0x12, 0x34, 0, 0}
	resp := []byte{0xAB, 0xCD, 0, 0}
	assert.Error(t, checkTransactionID(query, resp))
}

func TestTCPSessionExchangeRejectsMismatchedID(t *testing.T) {
	server, client := net.Pipe()
	defer server.Close()

	query := []byte{0x12, 0x34, 0, 0}
	done := make(chan struct{})
	go func() {
		defer close(done)
		server.Read(make([]byte, 2)) // length prefix
		server.Read(make([]byte, len(query)))
		mismatched := []byte{0xAB, 0xCD, 0, 0}
		writeFramed(server, mismatched)
	}()

	sess := &tcpSession{conn: client}
	_, err := sess.Exchange(context.Background(), query)
	<-done
	assert.Error(t, err)
}

func TestTCPFramingRejectsOversizedMessage(t *testing.T) {
	server, client := net.Pipe()
	defer server.Close()
	defer client.Close()

	err := writeFramed(client, make([]byte, 0x10000))
	assert.Error(t, err)
}

func TestUDPSessionDetectsTruncation(t *testing.T) {
	serverConn, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	require.NoError(t, err)
	defer serverConn.Close()

	clientConn, err := net.DialUDP("udp", nil, serverConn.LocalAddr().(*net.UDPAddr))
	require.NoError(t, err)

	session := &udpSession{conn: clientConn, timeout: 2 * time.Second, bufSize: 4096}

	query := make([]byte, 12)
	binary.BigEndian.PutUint16(query[:2], 0x1234)

	go func() {
		buf := make([]byte, 512)
		n, addr, err := serverConn.ReadFromUDP(buf)
		if err != nil {
			return
		}
		resp := make([]byte, n)
		copy(resp, buf[:n])
		resp[2] |= 0x02 // set TC bit
		serverConn.WriteToUDP(resp, addr)
	}()

	resp, err := session.Exchange(context.Background(), query)
	assert.ErrorIs(t, err, ErrTruncated)
	assert.NotEmpty(t, resp)
}

func TestUDPSessionIgnoresStrayTransactionID(t *testing.T) {
	serverConn, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	require.NoError(t, err)
	defer serverConn.Close()

	clientConn, err := net.DialUDP("udp", nil, serverConn.LocalAddr().(*net.UDPAddr))
	require.NoError(t, err)

	session := &udpSession{conn: clientConn, timeout: 2 * time.Second, bufSize: 4096}

	query := make([]byte, 12)
	binary.BigEndian.PutUint16(query[:2], 0xBEEF)

	go func() {
		buf := make([]byte, 512)
		_, addr, err := serverConn.ReadFromUDP(buf)
		if err != nil {
			return
		}
		stray := make([]byte, 12)
		binary.BigEndian.PutUint16(stray[:2], 0x0000)
		serverConn.WriteToUDP(stray, addr)

		correct := make([]byte, 12)
		binary.BigEndian.PutUint16(correct[:2], 0xBEEF)
		serverConn.WriteToUDP(correct, addr)
	}()

	resp, err := session.Exchange(context.Background(), query)
	require.NoError(t, err)
	assert.Equal(t, uint16(0xBEEF), binary.BigEndian.Uint16(resp[:2]))
}
