package transport

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/dnsscience/dqy/internal/pool"
)

// UDPTransport implements plain UDP exchange with truncation detection
// (RFC 1035 §4.2.1). The caller is responsible for retrying over TCP when
// Exchange returns ErrTruncated.
type UDPTransport struct {
	// MaxResponseSize bounds the receive buffer; it should match the OPT
	// payload size the query advertised. 0 selects 4096.
	MaxResponseSize int
}

func (t *UDPTransport) Kind() Kind { return KindUDP }

func (t *UDPTransport) Connect(ctx context.Context, endpoint string, opts Options) (Session, error) {
	dialer := net.Dialer{Timeout: opts.Timeout}
	conn, err := dialer.DialContext(ctx, "udp", endpoint)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, &ErrTimeout{Op: "udp connect", Err: ctxErr}
		}
		return nil, fmt.Errorf("transport: udp dial %s: %w", endpoint, err)
	}

	size := t.MaxResponseSize
	if size == 0 {
		size = 4096
	}

	return &udpSession{conn: conn.(*net.UDPConn), endpoint: endpoint, timeout: opts.Timeout, bufSize: size}, nil
}

type udpSession struct {
	conn     *net.UDPConn
	endpoint string
	timeout  time.Duration
	bufSize  int
}

func (s *udpSession) Exchange(ctx context.Context, query []byte) ([]byte, error) {
	if s.timeout > 0 {
		s.conn.SetDeadline(time.Now().Add(s.timeout))
	}
	if deadline, ok := ctx.Deadline(); ok {
		s.conn.SetDeadline(deadline)
	}

	if len(query) < 2 {
		return nil, errors.New("transport: query too short to carry a transaction ID")
	}
	wantID := binary.BigEndian.Uint16(query[:2])

	if _, err := s.conn.Write(query); err != nil {
		return nil, fmt.Errorf("transport: udp write: %w", err)
	}

	buf := pool.GetBuffer(s.bufSize)
	defer pool.PutBuffer(buf)
	for {
		n, err := s.conn.Read(buf)
		if err != nil {
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				return nil, &ErrTimeout{Op: "udp read", Err: err}
			}
			return nil, fmt.Errorf("transport: udp read: %w", err)
		}
		if n < 2 {
			continue // not even a transaction ID, can't be our response
		}
		gotID := binary.BigEndian.Uint16(buf[:2])
		if gotID != wantID {
			continue // stray datagram from an earlier, abandoned query
		}

		resp := make([]byte, n)
		copy(resp, buf[:n])

		if resp[2]&0x02 != 0 { // TC bit, bit 1 of the first flags octet (message byte 2)
			return resp, ErrTruncated
		}
		return resp, nil
	}
}

func (s *udpSession) Close() error { return s.conn.Close() }
