package orchestrator

import (
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/dnsscience/dqy/internal/transport"
)

// Endpoint is a resolved destination for a query: the transport kind to
// use, the dial target (host:port, or host for DoH where the path travels
// separately), and for DoH the request path.
type Endpoint struct {
	Kind transport.Kind
	Host string // hostname or IP, no port
	Port string
	Path string // DoH only; empty otherwise
}

// Addr returns the "host:port" form Transport.Connect expects.
func (e Endpoint) Addr() string { return net.JoinHostPort(e.Host, e.Port) }

func defaultPort(kind transport.Kind) string {
	switch kind {
	case transport.KindDoH:
		return "443"
	case transport.KindDoT, transport.KindDoQ:
		return "853"
	default:
		return "53"
	}
}

// ParseResolver parses the `@resolver` argument forms from spec.md §4.4:
// bare IPv4, bare IPv6, `[v6]:port`, hostname, `https://…/path`, and
// `quic://host`. defaultKind is used when the form itself doesn't imply a
// transport (bare IP/hostname); explicit --tcp/--dot/--doq flags override
// it at the call site.
func ParseResolver(arg string, defaultKind transport.Kind) (Endpoint, error) {
	arg = strings.TrimPrefix(arg, "@")

	if strings.HasPrefix(arg, "https://") {
		rest := strings.TrimPrefix(arg, "https://")
		host, path, _ := strings.Cut(rest, "/")
		if path == "" {
			path = "dns-query"
		}
		h, port := splitHostPortOrDefault(host, defaultPort(transport.KindDoH))
		return Endpoint{Kind: transport.KindDoH, Host: h, Port: port, Path: "/" + path}, nil
	}

	if strings.HasPrefix(arg, "quic://") {
		rest := strings.TrimPrefix(arg, "quic://")
		h, port := splitHostPortOrDefault(rest, defaultPort(transport.KindDoQ))
		return Endpoint{Kind: transport.KindDoQ, Host: h, Port: port}, nil
	}

	h, port := splitHostPortOrDefault(arg, defaultPort(defaultKind))
	if h == "" {
		return Endpoint{}, fmt.Errorf("orchestrator: empty resolver address")
	}
	return Endpoint{Kind: defaultKind, Host: h, Port: port}, nil
}

// splitHostPortOrDefault handles bare IPv4 ("1.1.1.1"), bare IPv6
// ("2606:4700:4700::1111"), "[v6]:port", "host:port", and a bare hostname,
// returning fallback as the port when none was specified.
func splitHostPortOrDefault(s string, fallback string) (host, port string) {
	if s == "" {
		return "", fallback
	}

	// "[v6]:port" or "[v6]"
	if strings.HasPrefix(s, "[") {
		if h, p, err := net.SplitHostPort(s); err == nil {
			return h, p
		}
		return strings.Trim(s, "[]"), fallback
	}

	// Bare IPv6 (contains multiple colons, no brackets): don't mistake a
	// colon-separated address for a host:port split.
	if strings.Count(s, ":") > 1 {
		return s, fallback
	}

	if h, p, err := net.SplitHostPort(s); err == nil {
		if _, err := strconv.Atoi(p); err == nil {
			return h, p
		}
	}
	return s, fallback
}

// ResolveAddresses resolves host to an ordered list of IPs via the host OS
// resolver, filtered by family (4, 6, or 0 for both).
func ResolveAddresses(host string, family int) ([]net.IP, error) {
	if ip := net.ParseIP(host); ip != nil {
		if !matchesFamily(ip, family) {
			return nil, fmt.Errorf("orchestrator: %s does not match requested address family", host)
		}
		return []net.IP{ip}, nil
	}

	ips, err := net.LookupIP(host)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: resolving %s: %w", host, err)
	}

	var filtered []net.IP
	for _, ip := range ips {
		if matchesFamily(ip, family) {
			filtered = append(filtered, ip)
		}
	}
	if len(filtered) == 0 {
		return nil, fmt.Errorf("orchestrator: no addresses for %s matching requested family", host)
	}
	return filtered, nil
}

func matchesFamily(ip net.IP, family int) bool {
	switch family {
	case 4:
		return ip.To4() != nil
	case 6:
		return ip.To4() == nil && ip.To16() != nil
	default:
		return true
	}
}
