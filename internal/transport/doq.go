package transport

import (
	"context"
	"crypto/tls"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/quic-go/quic-go"
)

// DoQTransport implements DNS-over-QUIC per RFC 9250: each query gets its
// own bidirectional stream on a shared QUIC connection, framed the same way
// as TCP (2-octet length prefix), with the message's transaction ID forced
// to zero on the wire (RFC 9250 §4.2.1).
type DoQTransport struct{}

// ALPNToken is the RFC 9250 §4.1.1 ALPN identifier for DNS-over-QUIC.
const ALPNToken = "doq"

func (t *DoQTransport) Kind() Kind { return KindDoQ }

func (t *DoQTransport) Connect(ctx context.Context, endpoint string, opts Options) (Session, error) {
	tlsConfig := &tls.Config{
		MinVersion:         tls.VersionTLS13,
		ServerName:         opts.ServerName,
		InsecureSkipVerify: opts.InsecureSkipVerify,
		NextProtos:         []string{ALPNToken},
	}
	if len(opts.ALPNProtocols) > 0 {
		tlsConfig.NextProtos = opts.ALPNProtocols
	}

	quicConfig := &quic.Config{}
	if opts.Timeout > 0 {
		quicConfig.MaxIdleTimeout = opts.Timeout
	}

	conn, err := quic.DialAddr(ctx, endpoint, tlsConfig, quicConfig)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, &ErrTimeout{Op: "doq connect", Err: ctxErr}
		}
		return nil, fmt.Errorf("transport: doq dial %s: %w", endpoint, err)
	}

	return &doqSession{conn: conn}, nil
}

type doqSession struct {
	conn *quic.Conn
}

func (s *doqSession) Exchange(ctx context.Context, query []byte) ([]byte, error) {
	stream, err := s.conn.OpenStreamSync(ctx)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, &ErrTimeout{Op: "doq open stream", Err: ctxErr}
		}
		return nil, fmt.Errorf("transport: doq: opening stream: %w", err)
	}
	defer stream.Close()

	msg := zeroTransactionID(query)
	if len(msg) > 0xFFFF {
		return nil, fmt.Errorf("transport: doq: message of %d bytes exceeds framing limit", len(msg))
	}

	var length [2]byte
	binary.BigEndian.PutUint16(length[:], uint16(len(msg)))
	if _, err := stream.Write(length[:]); err != nil {
		return nil, fmt.Errorf("transport: doq: writing length: %w", err)
	}
	if _, err := stream.Write(msg); err != nil {
		return nil, fmt.Errorf("transport: doq: writing message: %w", err)
	}
	// The client must not send anything more on this stream; the server
	// treats the FIN as the end of the query (RFC 9250 §4.3.1).
	if err := stream.Close(); err != nil {
		return nil, fmt.Errorf("transport: doq: closing write side: %w", err)
	}

	var respLength [2]byte
	if _, err := io.ReadFull(stream, respLength[:]); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, &ErrTimeout{Op: "doq read length", Err: ctxErr}
		}
		return nil, fmt.Errorf("transport: doq: reading length: %w", err)
	}
	n := binary.BigEndian.Uint16(respLength[:])

	resp := make([]byte, n)
	if _, err := io.ReadFull(stream, resp); err != nil {
		return nil, fmt.Errorf("transport: doq: reading message: %w", err)
	}

	return resp, nil
}

func (s *doqSession) Close() error {
	return s.conn.CloseWithError(0, "")
}

// zeroTransactionID returns a copy of msg with its 16-bit transaction ID
// field zeroed, as RFC 9250 requires for every query sent over DoQ.
func zeroTransactionID(msg []byte) []byte {
	out := make([]byte, len(msg))
	copy(out, msg)
	if len(out) >= 2 {
		out[0] = 0
		out[1] = 0
	}
	return out
}
