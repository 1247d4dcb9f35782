// Package cookie implements the client side of EDNS(0) DNS Cookies
// (RFC 7873, RFC 9018): generating a fresh client cookie per endpoint and
// echoing back whatever server cookie that endpoint last handed out, using
// SipHash-2-4 as BIND 9 and most resolvers do.
package cookie

import (
	"encoding/binary"
	"errors"
	"sync"

	"github.com/dchest/siphash"

	"github.com/dnsscience/dqy/internal/random"
)

var (
	ErrInvalidClientCookie = errors.New("invalid client cookie")
	ErrInvalidServerCookie = errors.New("invalid server cookie")
)

const (
	clientCookieSize = 8  // 64 bits, RFC 7873 §4
	minServerCookie  = 8  // RFC 7873 §4: 8-32 octets
	maxServerCookie  = 32
)

// GenerateClientCookie derives a fresh 8-octet client cookie from random
// entropy mixed with the endpoint identity, via SipHash-2-4 keyed on a
// random per-call key. A client never needs this to be reproducible —
// only unique per endpoint for the lifetime of the process.
func GenerateClientCookie(serverIP []byte) [8]byte {
	var cookie [8]byte
	entropy := random.ClientCookieEntropy()

	var key [16]byte
	copy(key[:], entropy[:])
	copy(key[8:], entropy[:])

	h := siphash.New(key[:])
	h.Write(serverIP)
	h.Write(entropy[:])

	binary.LittleEndian.PutUint64(cookie[:], h.Sum64())
	return cookie
}

// ParseCookie splits raw EDNS COOKIE option data into the mandatory
// client cookie and the optional 8-32 octet server cookie (RFC 7873 §4).
func ParseCookie(data []byte) (clientCookie [8]byte, serverCookie []byte, err error) {
	if len(data) < clientCookieSize {
		return clientCookie, nil, ErrInvalidClientCookie
	}
	copy(clientCookie[:], data[:clientCookieSize])

	if len(data) > clientCookieSize {
		serverCookie = make([]byte, len(data)-clientCookieSize)
		copy(serverCookie, data[clientCookieSize:])
		if len(serverCookie) < minServerCookie || len(serverCookie) > maxServerCookie {
			return clientCookie, nil, ErrInvalidServerCookie
		}
	}
	return clientCookie, serverCookie, nil
}

// FormatCookie assembles EDNS COOKIE option data from a client cookie and
// an optional server cookie to echo.
func FormatCookie(clientCookie [8]byte, serverCookie []byte) []byte {
	data := make([]byte, clientCookieSize+len(serverCookie))
	copy(data[:clientCookieSize], clientCookie[:])
	if len(serverCookie) > 0 {
		copy(data[clientCookieSize:], serverCookie)
	}
	return data
}

// Jar remembers, per endpoint, the client cookie this process generated
// and the most recent server cookie that endpoint returned, so subsequent
// queries to the same endpoint echo it back rather than starting over
// (RFC 7873 §5.2: a client SHOULD cache and reuse the server cookie).
type Jar struct {
	mu      sync.Mutex
	entries map[string]entry
}

type entry struct {
	client [8]byte
	server []byte
}

// NewJar returns an empty cookie jar.
func NewJar() *Jar {
	return &Jar{entries: make(map[string]entry)}
}

// Option returns the COOKIE option value to send for endpoint, generating
// a new client cookie on first use and echoing any previously learned
// server cookie on subsequent calls.
func (j *Jar) Option(endpoint string, serverIP []byte) []byte {
	j.mu.Lock()
	defer j.mu.Unlock()

	e, ok := j.entries[endpoint]
	if !ok {
		e = entry{client: GenerateClientCookie(serverIP)}
		j.entries[endpoint] = e
	}
	return FormatCookie(e.client, e.server)
}

// Observe records the server cookie seen in a response from endpoint, so
// it is echoed on the next query to that endpoint.
func (j *Jar) Observe(endpoint string, data []byte) error {
	client, server, err := ParseCookie(data)
	if err != nil {
		return err
	}
	if len(server) == 0 {
		return nil
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	e := j.entries[endpoint]
	e.client = client
	e.server = server
	j.entries[endpoint] = e
	return nil
}
