// Package orchestrator ties the wire codec, message builder, and transport
// layer together: it resolves an endpoint, picks a transport, drives the
// build/exchange/decode cycle for each requested QTYPE, and applies the
// UDP→TCP truncation fallback. It is single-threaded and strictly
// sequential — spec.md §5 binds this regardless of how many queries a run
// issues.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net"
	"strconv"
	"time"

	"github.com/dnsscience/dqy/internal/cookie"
	"github.com/dnsscience/dqy/internal/display"
	"github.com/dnsscience/dqy/internal/metrics"
	"github.com/dnsscience/dqy/internal/pacing"
	"github.com/dnsscience/dqy/internal/pool"
	"github.com/dnsscience/dqy/internal/query"
	"github.com/dnsscience/dqy/internal/transport"
	"github.com/dnsscience/dqy/internal/wire"
)

// Options configures one orchestrator run.
type Options struct {
	Query query.Options

	Resolver     string // raw @resolver argument, "" selects OS discovery
	Port         int    // overrides the resolver's default/parsed port when nonzero
	Family       int    // 0 = either, 4 = IPv4 only, 6 = IPv6 only
	Transport    transport.Kind
	Timeout      time.Duration
	TLS          transport.Options // ServerName/CertPEM/ALPNProtocols/Path, as parsed from --sni/--cert/--alpn
	RateLimit    float64           // queries/sec for trace mode and multi-endpoint fallback; 0 selects the default
	Trace        bool
	EnableCookie bool
	Puny         bool // render decoded names in A-label (punycode) form instead of U-label
}

// fromWire selects FromWire or FromWirePuny per opts.Puny (spec.md §6
// --puny, §8 property 9).
func fromWire(opts Options, m *wire.Message) *display.Message {
	if opts.Puny {
		return display.FromWirePuny(m)
	}
	return display.FromWire(m)
}

// ErrResolverDiscovery marks a failure to find any usable @resolver when
// the caller gave none explicitly, distinct from a failure to reach a
// resolver that was named.
var ErrResolverDiscovery = errors.New("orchestrator: resolver discovery failed")

// Orchestrator drives exchanges for one CLI invocation.
type Orchestrator struct {
	transports map[transport.Kind]transport.Transport
	metrics    *metrics.Recorder
	cookies    *cookie.Jar
}

// New builds an Orchestrator with the standard set of transports wired in.
func New(rec *metrics.Recorder) *Orchestrator {
	return &Orchestrator{
		transports: map[transport.Kind]transport.Transport{
			transport.KindUDP: &transport.UDPTransport{},
			transport.KindTCP: &transport.TCPTransport{},
			transport.KindDoT: &transport.DoTTransport{},
			transport.KindDoH: &transport.DoHTransport{},
			transport.KindDoQ: &transport.DoQTransport{},
		},
		metrics: rec,
		cookies: cookie.NewJar(),
	}
}

// Run executes the query plan in opts and returns the ordered exchanges.
func (o *Orchestrator) Run(ctx context.Context, opts Options) (*display.Run, error) {
	if opts.Trace {
		return o.runTrace(ctx, opts)
	}

	endpoint, err := o.resolveEndpointArg(opts)
	if err != nil {
		return nil, err
	}
	// An explicit --tcp/--dot/--doh/--doq always wins over whatever
	// transport the @resolver form implied; absent that, the form (or the
	// UDP-with-fallback default) stands.
	if opts.Transport != transport.KindUDP {
		endpoint.Kind = opts.Transport
	}

	candidates, err := expandEndpoint(endpoint, opts.Family)
	if err != nil {
		return nil, err
	}

	msgs, err := query.Build(opts.Query)
	if err != nil {
		return nil, err
	}

	limiter := pacing.New(opts.RateLimit, 1)

	run := &display.Run{Started: time.Now()}
	for _, msg := range msgs {
		if isAXFR(msg) {
			axfrCandidates := forceTCP(candidates)
			exs, err := o.exchangeAXFRWithFallback(ctx, axfrCandidates, opts, msg, limiter)
			if err != nil {
				return run, err
			}
			run.Exchanges = append(run.Exchanges, exs...)
			continue
		}
		ex, err := o.exchangeWithFallback(ctx, candidates, opts, msg, limiter)
		if err != nil {
			return run, err
		}
		run.Exchanges = append(run.Exchanges, *ex)
	}
	return run, nil
}

func isAXFR(msg *wire.Message) bool {
	return len(msg.Question) > 0 && msg.Question[0].Type == wire.TypeAXFR
}

// forceTCP returns candidates with every endpoint's transport kind
// overridden to TCP: AXFR is always over TCP (spec.md §1, §4.3), regardless
// of what --tcp/--dot/--doh/--doq or the @resolver form asked for.
func forceTCP(candidates []Endpoint) []Endpoint {
	out := make([]Endpoint, len(candidates))
	for i, c := range candidates {
		c.Kind = transport.KindTCP
		out[i] = c
	}
	return out
}

// expandEndpoint resolves endpoint.Host to a concrete, family-filtered
// address list when it's a hostname; a literal IP is returned unchanged.
// DoH carries its own hostname in the TLS SNI/Host header, so it is never
// expanded — HTTP's own dialer handles its address resolution.
func expandEndpoint(endpoint Endpoint, family int) ([]Endpoint, error) {
	if endpoint.Kind == transport.KindDoH {
		return []Endpoint{endpoint}, nil
	}
	if net.ParseIP(endpoint.Host) != nil {
		return []Endpoint{endpoint}, nil
	}

	ips, err := ResolveAddresses(endpoint.Host, family)
	if err != nil {
		return nil, err
	}

	candidates := make([]Endpoint, 0, len(ips))
	for _, ip := range ips {
		c := endpoint
		c.Host = ip.String()
		candidates = append(candidates, c)
	}
	return candidates, nil
}

// exchangeWithFallback tries each candidate endpoint in order (spec.md
// §4.3 "try in order until one connects"; §5 "never concurrent"), pacing
// attempts after the first so a long address list doesn't hammer a down
// resolver.
func (o *Orchestrator) exchangeWithFallback(ctx context.Context, candidates []Endpoint, opts Options, msg *wire.Message, limiter *pacing.Limiter) (*display.Exchange, error) {
	var lastErr error
	for i, endpoint := range candidates {
		if i > 0 {
			if err := limiter.Wait(ctx); err != nil {
				return nil, fmt.Errorf("orchestrator: fallback pacing: %w", err)
			}
		}
		ex, err := o.exchangeOne(ctx, endpoint, opts, msg)
		if err == nil {
			return ex, nil
		}
		lastErr = err
	}
	return nil, lastErr
}

// exchangeAXFRWithFallback mirrors exchangeWithFallback for zone transfers:
// try each candidate endpoint in order until one completes the transfer.
func (o *Orchestrator) exchangeAXFRWithFallback(ctx context.Context, candidates []Endpoint, opts Options, msg *wire.Message, limiter *pacing.Limiter) ([]display.Exchange, error) {
	var lastErr error
	for i, endpoint := range candidates {
		if i > 0 {
			if err := limiter.Wait(ctx); err != nil {
				return nil, fmt.Errorf("orchestrator: fallback pacing: %w", err)
			}
		}
		exs, err := o.exchangeAXFROne(ctx, endpoint, opts, msg)
		if err == nil {
			return exs, nil
		}
		lastErr = err
	}
	return nil, lastErr
}

// exchangeAXFROne drives one full zone transfer: connect over TCP, stream
// framed messages until the trailing SOA matches the leading one, and
// decode each message into its own display.Exchange sharing the same
// query view (spec.md §4.3 "continue reading framed messages until ...
// the zone's SOA ... terminates the transfer").
func (o *Orchestrator) exchangeAXFROne(ctx context.Context, endpoint Endpoint, opts Options, msg *wire.Message) ([]display.Exchange, error) {
	w := wire.NewWriterFromBuffer(pool.GetQueryBuffer())
	if err := msg.Encode(w); err != nil {
		return nil, fmt.Errorf("orchestrator: encoding axfr query: %w", err)
	}
	queryBytes := w.Bytes()
	defer pool.PutQueryBuffer(queryBytes)

	tr, ok := o.transports[transport.KindTCP]
	if !ok {
		return nil, fmt.Errorf("orchestrator: no tcp transport registered for axfr")
	}

	sendOpts := opts.TLS
	sendOpts.Timeout = opts.Timeout

	ctx, cancel := context.WithTimeout(ctx, nonZero(opts.Timeout, 30*time.Second))
	defer cancel()

	start := time.Now()
	session, err := tr.Connect(ctx, endpoint.Addr(), sendOpts)
	if err != nil {
		return nil, err
	}
	defer session.Close()

	axfrSession, ok := session.(transport.AXFRSession)
	if !ok {
		return nil, fmt.Errorf("orchestrator: tcp transport does not support axfr streaming")
	}

	raws, err := axfrSession.ExchangeAXFR(ctx, queryBytes)
	elapsed := time.Since(start)
	if err != nil {
		return nil, err
	}

	queryView := fromWire(opts, msg)
	exs := make([]display.Exchange, 0, len(raws))
	bytesSent := len(queryBytes)
	for _, raw := range raws {
		respMsg, err := wire.DecodeMessage(raw)
		if err != nil {
			return nil, fmt.Errorf("orchestrator: decoding axfr message: %w", err)
		}
		exs = append(exs, display.Exchange{
			Query:    queryView,
			Response: fromWire(opts, respMsg),
			Info: display.Info{
				ElapsedMS:     float64(elapsed) / float64(time.Millisecond),
				Endpoint:      endpoint.Addr(),
				TransportKind: transport.KindTCP.String(),
				BytesSent:     bytesSent,
				BytesReceived: len(raw),
			},
			RawQuery:    append([]byte(nil), queryBytes...),
			RawResponse: append([]byte(nil), raw...),
		})
		bytesSent = 0 // only the first framed message "carries" the query cost
	}

	o.metrics.AddBytesSent(len(queryBytes))
	for _, raw := range raws {
		o.metrics.AddBytesReceived(len(raw))
	}
	o.metrics.ObserveQuery(transport.KindTCP.String(), elapsed.Seconds())

	return exs, nil
}

func (o *Orchestrator) resolveEndpointArg(opts Options) (Endpoint, error) {
	if opts.Resolver != "" {
		ep, err := ParseResolver(opts.Resolver, opts.Transport)
		if err != nil {
			return Endpoint{}, err
		}
		return applyPortOverride(ep, opts.Port), nil
	}

	servers, err := DiscoverSystemResolvers()
	if err != nil {
		return Endpoint{}, fmt.Errorf("%w: no @resolver given and %v", ErrResolverDiscovery, err)
	}
	ep, err := ParseResolver(servers[0], opts.Transport)
	if err != nil {
		return Endpoint{}, err
	}
	return applyPortOverride(ep, opts.Port), nil
}

// applyPortOverride honors --port, which takes precedence over both the
// transport's default port and any port embedded in the @resolver argument.
func applyPortOverride(ep Endpoint, port int) Endpoint {
	if port != 0 {
		ep.Port = strconv.Itoa(port)
	}
	return ep
}

// exchangeOne runs the full build→exchange→decode cycle for one message,
// applying the UDP→TCP truncation fallback when required.
func (o *Orchestrator) exchangeOne(ctx context.Context, endpoint Endpoint, opts Options, msg *wire.Message) (*display.Exchange, error) {
	if opts.EnableCookie {
		applyCookie(o.cookies, endpoint, msg)
	}

	w := wire.NewWriterFromBuffer(pool.GetQueryBuffer())
	if err := msg.Encode(w); err != nil {
		return nil, fmt.Errorf("orchestrator: encoding query: %w", err)
	}
	queryBytes := w.Bytes()
	defer pool.PutQueryBuffer(queryBytes)

	kind := endpoint.Kind
	respBytes, info, err := o.send(ctx, kind, endpoint, opts, queryBytes)
	if err == transport.ErrTruncated {
		o.metrics.IncTruncationRetry()
		tcpEndpoint := endpoint
		tcpEndpoint.Kind = transport.KindTCP
		respBytes, info, err = o.send(ctx, transport.KindTCP, tcpEndpoint, opts, queryBytes)
		info.TruncatedRetry = true
	}
	if err != nil {
		return nil, err
	}

	respMsg, err := wire.DecodeMessage(respBytes)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: decoding response: %w", err)
	}

	if opts.EnableCookie {
		if _, opt := respMsg.OPT(); opt != nil {
			if c, ok := opt.Get(wire.OptCodeCookie); ok {
				o.cookies.Observe(endpoint.Addr(), c.Value)
			}
		}
	}

	o.metrics.AddBytesSent(len(queryBytes))
	o.metrics.AddBytesReceived(len(respBytes))

	return &display.Exchange{
		Query:       fromWire(opts, msg),
		Response:    fromWire(opts, respMsg),
		Info:        info,
		RawQuery:    append([]byte(nil), queryBytes...),
		RawResponse: append([]byte(nil), respBytes...),
	}, nil
}

func (o *Orchestrator) send(ctx context.Context, kind transport.Kind, endpoint Endpoint, opts Options, queryBytes []byte) ([]byte, display.Info, error) {
	tr, ok := o.transports[kind]
	if !ok {
		return nil, display.Info{}, fmt.Errorf("orchestrator: no transport registered for %s", kind)
	}

	sendOpts := opts.TLS
	sendOpts.Timeout = opts.Timeout
	if endpoint.Path != "" {
		sendOpts.Path = endpoint.Path
	}

	ctx, cancel := context.WithTimeout(ctx, nonZero(opts.Timeout, 5*time.Second))
	defer cancel()

	start := time.Now()
	session, err := tr.Connect(ctx, endpoint.Addr(), sendOpts)
	if err != nil {
		return nil, display.Info{}, err
	}
	defer session.Close()

	resp, err := session.Exchange(ctx, queryBytes)
	elapsed := time.Since(start)

	info := display.Info{
		ElapsedMS:     float64(elapsed) / float64(time.Millisecond),
		Endpoint:      endpoint.Addr(),
		TransportKind: kind.String(),
		BytesSent:     len(queryBytes),
		BytesReceived: len(resp),
	}
	o.metrics.ObserveQuery(kind.String(), elapsed.Seconds())

	if err != nil && err != transport.ErrTruncated {
		return nil, info, err
	}
	return resp, info, err
}

func nonZero(d, fallback time.Duration) time.Duration {
	if d <= 0 {
		return fallback
	}
	return d
}

func applyCookie(jar *cookie.Jar, endpoint Endpoint, msg *wire.Message) {
	_, rdata := msg.OPT()
	if rdata == nil {
		return
	}
	serverIP := []byte(endpoint.Host)
	data := jar.Option(endpoint.Addr(), serverIP)
	rdata.Options = append(rdata.Options, wire.EDNSOption{Code: wire.OptCodeCookie, Value: data})
}

// runTrace implements spec.md §4.4's trace mode: iterative, non-recursive
// resolution starting from a random root server, following NS referrals
// through the delegation chain until a non-referral answer arrives.
func (o *Orchestrator) runTrace(ctx context.Context, opts Options) (*display.Run, error) {
	limiter := pacing.New(opts.RateLimit, 1)
	run := &display.Run{Started: time.Now()}

	msgs, err := query.Build(query.Options{
		Domain:     opts.Query.Domain,
		QTypes:     opts.Query.QTypes,
		QClass:     opts.Query.QClass,
		NoRecurse:  true,
		BufferSize: 4096,
	})
	if err != nil {
		return nil, err
	}
	msg := msgs[0]

	servers := append([]string(nil), rootServers...)
	rand.Shuffle(len(servers), func(i, j int) { servers[i], servers[j] = servers[j], servers[i] })

	const maxHops = 20
	for hop := 0; hop < maxHops; hop++ {
		if err := limiter.Wait(ctx); err != nil {
			return run, fmt.Errorf("orchestrator: trace pacing: %w", err)
		}

		endpoint, err := ParseResolver(servers[0], transport.KindUDP)
		if err != nil {
			return run, err
		}

		ex, err := o.exchangeOne(ctx, endpoint, opts, msg)
		if err != nil {
			servers = servers[1:]
			if len(servers) == 0 {
				return run, fmt.Errorf("orchestrator: trace: all nameservers failed: %w", err)
			}
			continue
		}
		run.Exchanges = append(run.Exchanges, *ex)

		if len(ex.Response.Answer) > 0 || ex.Response.Rcode != 0 {
			return run, nil
		}

		next := nextHopServers(ex.Response)
		if len(next) == 0 {
			return run, nil
		}
		servers = next
	}

	return run, fmt.Errorf("orchestrator: trace: exceeded %d hops without a final answer", maxHops)
}

// nextHopServers pulls glue addresses for the NS records in Authority from
// Additional, falling back to re-resolving bare NS names via the host
// resolver when no glue is present.
func nextHopServers(resp *display.Message) []string {
	glue := map[string][]string{}
	for _, rr := range resp.Additional {
		if rr.Type == "A" || rr.Type == "AAAA" {
			glue[rr.Name] = append(glue[rr.Name], rr.Text)
		}
	}

	var servers []string
	for _, rr := range resp.Authority {
		if rr.Type != "NS" {
			continue
		}
		nsName := rr.Text
		if addrs, ok := glue[nsName]; ok {
			servers = append(servers, addrs...)
			continue
		}
		if ips, err := ResolveAddresses(nsName, 0); err == nil {
			for _, ip := range ips {
				servers = append(servers, ip.String())
			}
		}
	}
	return servers
}
