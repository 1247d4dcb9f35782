package transport

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/dnsscience/dqy/internal/wire"
)

// TCPTransport implements plain TCP exchange: 2-octet big-endian
// length-prefixed framing (RFC 1035 §4.2.2).
type TCPTransport struct{}

func (t *TCPTransport) Kind() Kind { return KindTCP }

func (t *TCPTransport) Connect(ctx context.Context, endpoint string, opts Options) (Session, error) {
	dialer := net.Dialer{Timeout: opts.Timeout}
	conn, err := dialer.DialContext(ctx, "tcp", endpoint)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, &ErrTimeout{Op: "tcp connect", Err: ctxErr}
		}
		return nil, fmt.Errorf("transport: tcp dial %s: %w", endpoint, err)
	}
	return &tcpSession{conn: conn, timeout: opts.Timeout}, nil
}

type tcpSession struct {
	conn    net.Conn
	timeout time.Duration
}

func writeFramed(conn net.Conn, msg []byte) error {
	if len(msg) > 0xFFFF {
		return fmt.Errorf("transport: message of %d bytes exceeds TCP framing limit", len(msg))
	}
	var length [2]byte
	binary.BigEndian.PutUint16(length[:], uint16(len(msg)))
	if _, err := conn.Write(length[:]); err != nil {
		return fmt.Errorf("transport: tcp write length: %w", err)
	}
	if _, err := conn.Write(msg); err != nil {
		return fmt.Errorf("transport: tcp write message: %w", err)
	}
	return nil
}

func readFramed(conn net.Conn) ([]byte, error) {
	var length [2]byte
	if _, err := io.ReadFull(conn, length[:]); err != nil {
		if ne, ok := err.(net.Error); ok && ne.Timeout() {
			return nil, &ErrTimeout{Op: "tcp read length", Err: err}
		}
		return nil, fmt.Errorf("transport: tcp read length: %w", err)
	}
	n := binary.BigEndian.Uint16(length[:])
	buf := make([]byte, n)
	if _, err := io.ReadFull(conn, buf); err != nil {
		if ne, ok := err.(net.Error); ok && ne.Timeout() {
			return nil, &ErrTimeout{Op: "tcp read message", Err: err}
		}
		return nil, fmt.Errorf("transport: tcp read message: %w", err)
	}
	return buf, nil
}

func (s *tcpSession) setDeadline(ctx context.Context) {
	if s.timeout > 0 {
		s.conn.SetDeadline(time.Now().Add(s.timeout))
	}
	if deadline, ok := ctx.Deadline(); ok {
		s.conn.SetDeadline(deadline)
	}
}

func (s *tcpSession) Exchange(ctx context.Context, query []byte) ([]byte, error) {
	s.setDeadline(ctx)
	if err := writeFramed(s.conn, query); err != nil {
		return nil, err
	}
	resp, err := readFramed(s.conn)
	if err != nil {
		return nil, err
	}
	if err := checkTransactionID(query, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// checkTransactionID rejects a response whose transaction ID doesn't match
// the query's, per spec.md §8 property #7 ("every received UDP/TCP
// response whose ID differs from the sent query is rejected"). Unlike UDP,
// a stream transport has no "keep waiting for the right datagram" option —
// a mismatched ID on a single bidirectional stream is itself a protocol
// violation, so it's a hard failure rather than a retry.
func checkTransactionID(query, resp []byte) error {
	if len(query) < 2 || len(resp) < 2 {
		return fmt.Errorf("transport: response too short to carry a transaction ID")
	}
	wantID := binary.BigEndian.Uint16(query[:2])
	gotID := binary.BigEndian.Uint16(resp[:2])
	if gotID != wantID {
		return fmt.Errorf("transport: response transaction ID %d does not match query ID %d", gotID, wantID)
	}
	return nil
}

func (s *tcpSession) Close() error { return s.conn.Close() }

// ExchangeAXFR issues query, expected to be an AXFR request, and reads
// framed DNS messages until the trailing SOA matching the leading SOA
// terminates the transfer (RFC 5936 §2.2). It returns every message
// received, in order.
func (s *tcpSession) ExchangeAXFR(ctx context.Context, query []byte) ([][]byte, error) {
	s.setDeadline(ctx)
	if err := writeFramed(s.conn, query); err != nil {
		return nil, err
	}

	var messages [][]byte
	var leadingSerial uint32
	sawLeading := false

	for {
		msg, err := readFramed(s.conn)
		if err != nil {
			return nil, err
		}
		messages = append(messages, msg)

		decoded, err := wire.DecodeMessage(msg)
		if err != nil {
			return nil, fmt.Errorf("transport: axfr: decoding message %d: %w", len(messages), err)
		}

		for _, rr := range decoded.Answer {
			soa, ok := rr.RData.(*wire.RDataSOA)
			if !ok {
				continue
			}
			if !sawLeading {
				leadingSerial = soa.Serial
				sawLeading = true
				continue
			}
			if soa.Serial == leadingSerial {
				return messages, nil
			}
		}

		if len(messages) == 1 && !sawLeading {
			return nil, fmt.Errorf("transport: axfr: no leading SOA in first message")
		}
	}
}
