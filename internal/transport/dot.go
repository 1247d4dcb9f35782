package transport

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"net"
)

// DoTTransport implements DNS-over-TLS per RFC 7858: a TLS 1.2+ connection
// carrying the same 2-octet length-prefixed framing as plain TCP.
type DoTTransport struct{}

func (t *DoTTransport) Kind() Kind { return KindDoT }

func (t *DoTTransport) Connect(ctx context.Context, endpoint string, opts Options) (Session, error) {
	tlsConfig := &tls.Config{
		MinVersion:         tls.VersionTLS12,
		ServerName:         opts.ServerName,
		InsecureSkipVerify: opts.InsecureSkipVerify,
	}

	if opts.ServerName == "" {
		if host, _, err := net.SplitHostPort(endpoint); err == nil {
			tlsConfig.ServerName = host
		}
	}

	if len(opts.CertPEM) > 0 {
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(opts.CertPEM) {
			return nil, fmt.Errorf("transport: dot: no certificates parsed from pinned PEM")
		}
		tlsConfig.RootCAs = pool
	}

	if len(opts.ALPNProtocols) > 0 {
		tlsConfig.NextProtos = opts.ALPNProtocols
	} else {
		tlsConfig.NextProtos = []string{"dot"}
	}

	dialer := &net.Dialer{Timeout: opts.Timeout}
	tlsDialer := tls.Dialer{NetDialer: dialer, Config: tlsConfig}

	conn, err := tlsDialer.DialContext(ctx, "tcp", endpoint)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, &ErrTimeout{Op: "dot connect", Err: ctxErr}
		}
		return nil, fmt.Errorf("transport: dot dial %s: %w", endpoint, err)
	}

	return &tcpSession{conn: conn, timeout: opts.Timeout}, nil
}
