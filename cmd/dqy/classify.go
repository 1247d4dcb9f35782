package main

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"net"
	"strconv"
	"strings"

	"github.com/dnsscience/dqy/internal/orchestrator"
	"github.com/dnsscience/dqy/internal/transport"
	"github.com/dnsscience/dqy/internal/wire"
)

// errInvalidUTF8 marks a positional or flag argument that failed UTF-8
// decoding before it ever reached the IDNA profile.
var errInvalidUTF8 = errors.New("argument is not valid UTF-8")

// classifyError maps an error returned from query assembly, endpoint
// resolution, or the exchange itself to its exit code per spec.md §7. kind
// is the transport the run actually requested, used to disambiguate errors
// that don't carry a distinguishing Go type (a bare "connection refused"
// looks the same over DoT and DoH).
func classifyError(err error, kind transport.Kind) int {
	if err == nil {
		return exitSuccess
	}

	var decodeErr *wire.DecodeError
	if errors.As(err, &decodeErr) {
		return exitDNSProtocol
	}

	var encodeErr *wire.EncodeError
	if errors.As(err, &encodeErr) {
		if encodeErr.Field == "name" {
			return exitIDNA
		}
		return exitDNSProtocol
	}

	if errors.Is(err, errInvalidUTF8) {
		return exitUTF8
	}

	var timeoutErr *transport.ErrTimeout
	if errors.As(err, &timeoutErr) {
		return exitTimeout
	}

	var dohErr *transport.DoHStatusError
	if errors.As(err, &dohErr) {
		return exitDoH
	}

	if errors.Is(err, orchestrator.ErrResolverDiscovery) {
		return exitResolverDiscovery
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return exitNetworkResolving
	}

	var addrErr *net.AddrError
	if errors.As(err, &addrErr) {
		return exitIPAddressParse
	}

	var certInvalid x509.CertificateInvalidError
	var unknownAuth x509.UnknownAuthorityError
	var hostnameErr x509.HostnameError
	var recordHeaderErr tls.RecordHeaderError
	if errors.As(err, &certInvalid) || errors.As(err, &unknownAuth) ||
		errors.As(err, &hostnameErr) || errors.As(err, &recordHeaderErr) {
		return exitTLS
	}
	if (kind == transport.KindDoT || kind == transport.KindDoH) && looksLikeTLSFailure(err) {
		return exitTLS
	}

	if kind == transport.KindDoQ {
		return exitQUIC
	}

	var numErr *strconv.NumError
	if errors.As(err, &numErr) {
		return exitIntegerParse
	}

	return exitIO
}

func looksLikeTLSFailure(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "tls") || strings.Contains(msg, "certificate") || strings.Contains(msg, "x509")
}
