package transport

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net"
	"net/http"
)

const defaultDoHPath = "/dns-query"

// DoHStatusError is returned when the resolver answers with a non-2xx HTTP
// status, so callers can distinguish "the resolver rejected the request"
// from a transport-level failure.
type DoHStatusError struct {
	StatusCode int
	Body       string
}

func (e *DoHStatusError) Error() string {
	return fmt.Sprintf("transport: doh: server returned HTTP %d: %s", e.StatusCode, e.Body)
}

// DoHTransport implements DNS-over-HTTPS per RFC 8484: an HTTPS POST
// carrying a raw DNS message body with Content-Type application/dns-message.
// It prefers HTTP/2 but works the same over HTTP/1.1.
type DoHTransport struct{}

func (t *DoHTransport) Kind() Kind { return KindDoH }

func (t *DoHTransport) Connect(ctx context.Context, endpoint string, opts Options) (Session, error) {
	path := opts.Path
	if path == "" {
		path = defaultDoHPath
	}

	tlsConfig := &tls.Config{
		MinVersion:         tls.VersionTLS12,
		ServerName:         opts.ServerName,
		InsecureSkipVerify: opts.InsecureSkipVerify,
	}
	if opts.ServerName == "" {
		if host, _, err := net.SplitHostPort(endpoint); err == nil {
			tlsConfig.ServerName = host
		} else {
			tlsConfig.ServerName = endpoint
		}
	}
	if len(opts.ALPNProtocols) > 0 {
		tlsConfig.NextProtos = opts.ALPNProtocols
	}

	client := &http.Client{
		Timeout: opts.Timeout,
		Transport: &http.Transport{
			TLSClientConfig: tlsConfig,
		},
	}

	return &dohSession{
		client: client,
		url:    "https://" + endpoint + path,
	}, nil
}

type dohSession struct {
	client *http.Client
	url    string
}

func (s *dohSession) Exchange(ctx context.Context, query []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(query))
	if err != nil {
		return nil, fmt.Errorf("transport: doh: building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/dns-message")
	req.Header.Set("Accept", "application/dns-message")

	resp, err := s.client.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, &ErrTimeout{Op: "doh exchange", Err: ctxErr}
		}
		return nil, fmt.Errorf("transport: doh: request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 65535))
	if err != nil {
		return nil, fmt.Errorf("transport: doh: reading response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &DoHStatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	return body, nil
}

func (s *dohSession) Close() error {
	s.client.CloseIdleConnections()
	return nil
}
