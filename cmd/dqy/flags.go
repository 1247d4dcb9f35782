package main

import (
	"flag"
	"fmt"
	"time"

	"github.com/dnsscience/dqy/internal/config"
	"github.com/dnsscience/dqy/internal/orchestrator"
	"github.com/dnsscience/dqy/internal/transport"
	"github.com/dnsscience/dqy/internal/wire"
)

func msToDuration(ms int) time.Duration { return time.Duration(ms) * time.Millisecond }

// cliFlags holds every dash-option from spec.md §6, parsed by a stdlib
// flag.FlagSet scoped to the dash-option run (see splitPositionals).
type cliFlags struct {
	tcp   bool
	dot   bool
	https bool
	doq   bool
	port  int
	ipv4  bool
	ipv6  bool

	timeoutMS int
	sni       string
	alpn      string
	certFile  string
	rate      float64

	bufsize     int
	noOPT       bool
	dnssec      bool
	padding     bool
	cookie      bool
	nsid        bool
	ede         bool
	zoneversion bool

	noRecurse bool
	cd        bool
	trace     bool
	puny      bool

	jsonOut   bool
	jsonPretty bool
	short     bool
	stats     bool
	noColors  bool
	verbosity int
	logFile   string
	script    string
	wqFile    string
	wrFile    string

	configFile string
}

func newFlagSet() (*flag.FlagSet, *cliFlags) {
	fs := flag.NewFlagSet("dqy", flag.ContinueOnError)
	f := &cliFlags{}

	fs.BoolVar(&f.tcp, "tcp", false, "force TCP transport")
	fs.BoolVar(&f.dot, "dot", false, "force DNS-over-TLS")
	fs.BoolVar(&f.https, "https", false, "force DNS-over-HTTPS")
	fs.BoolVar(&f.https, "doh", false, "alias of --https")
	fs.BoolVar(&f.doq, "doq", false, "force DNS-over-QUIC")
	fs.IntVar(&f.port, "port", 0, "override the resolver port")
	fs.BoolVar(&f.ipv4, "4", false, "restrict to IPv4 addresses")
	fs.BoolVar(&f.ipv6, "6", false, "restrict to IPv6 addresses")
	fs.IntVar(&f.timeoutMS, "timeout", 0, "per-attempt timeout in milliseconds")
	fs.StringVar(&f.sni, "sni", "", "TLS server name (DoT/DoH)")
	fs.StringVar(&f.alpn, "alpn", "", "ALPN protocol token (DoT/DoQ)")
	fs.StringVar(&f.certFile, "cert", "", "pin a single PEM certificate instead of the system trust store")
	fs.Float64Var(&f.rate, "rate", 0, "queries/sec cap for trace-mode and multi-endpoint fallback pacing")

	fs.IntVar(&f.bufsize, "bufsize", 0, "EDNS(0) UDP payload size advertised")
	fs.BoolVar(&f.noOPT, "no-opt", false, "omit the EDNS(0) OPT record entirely")
	fs.BoolVar(&f.dnssec, "dnssec", false, "set the DNSSEC OK (DO) bit")
	fs.BoolVar(&f.padding, "padding", false, "pad the query to a fixed block size")
	fs.BoolVar(&f.cookie, "cookie", false, "attach an EDNS client cookie")
	fs.BoolVar(&f.nsid, "nsid", false, "request the NSID option")
	fs.BoolVar(&f.ede, "ede", false, "request Extended DNS Errors")
	fs.BoolVar(&f.zoneversion, "zoneversion", false, "request the Zoneversion option")

	fs.BoolVar(&f.noRecurse, "no-recurse", false, "clear the RD bit")
	fs.BoolVar(&f.cd, "cd", false, "set the Checking Disabled bit")
	fs.BoolVar(&f.trace, "trace", false, "iterative trace from a root server")
	fs.BoolVar(&f.puny, "puny", false, "print punycode (A-label) names instead of Unicode")

	fs.BoolVar(&f.jsonOut, "json", false, "JSON output (not built; accepted for grammar compatibility)")
	fs.BoolVar(&f.jsonPretty, "json-pretty", false, "pretty JSON output (not built; accepted for grammar compatibility)")
	fs.BoolVar(&f.short, "short", false, "print answer data only")
	fs.BoolVar(&f.stats, "stats", false, "print the elapsed time, byte counts, and transport after the answer")
	fs.BoolVar(&f.noColors, "no-colors", false, "disable ANSI color (not built; accepted for grammar compatibility)")
	fs.StringVar(&f.logFile, "log", "", "write diagnostic output to FILE instead of stderr")
	fs.StringVar(&f.script, "l", "", "scripting hook (not built; accepted for grammar compatibility)")
	fs.StringVar(&f.wqFile, "wq", "", "write the raw outgoing query bytes to FILE")
	fs.StringVar(&f.wrFile, "wr", "", "write the raw incoming response bytes to FILE")

	fs.StringVar(&f.configFile, "config", "", "YAML config file (default $XDG_CONFIG_HOME/dqy/config.yml)")

	for _, v := range []string{"v", "vv", "vvv", "vvvv", "vvvvv"} {
		level := len(v)
		fs.BoolVar(new(bool), v, false, fmt.Sprintf("verbosity level %d", level))
	}

	return fs, f
}

// applyVerbosity re-scans args for -v.. -vvvvv since flag.Bool vars above
// were thrown away (only their count matters, not a named destination).
func applyVerbosity(f *cliFlags, args []string) {
	for _, a := range args {
		switch a {
		case "-v":
			f.verbosity = max(f.verbosity, 1)
		case "-vv":
			f.verbosity = max(f.verbosity, 2)
		case "-vvv":
			f.verbosity = max(f.verbosity, 3)
		case "-vvvv":
			f.verbosity = max(f.verbosity, 4)
		case "-vvvvv":
			f.verbosity = max(f.verbosity, 5)
		}
	}
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// requestedTransport returns the transport kind the dash-options asked
// for, or the zero value (KindUDP) if none did — the orchestrator treats
// KindUDP as "no override, use whatever the endpoint form implies".
func (f *cliFlags) requestedTransport() transport.Kind {
	switch {
	case f.doq:
		return transport.KindDoQ
	case f.https:
		return transport.KindDoH
	case f.dot:
		return transport.KindDoT
	case f.tcp:
		return transport.KindTCP
	default:
		return transport.KindUDP
	}
}

func (f *cliFlags) family() int {
	switch {
	case f.ipv4:
		return 4
	case f.ipv6:
		return 6
	default:
		return 0
	}
}

// mergeConfig applies config-file values wherever the corresponding flag
// was never set on the command line — CLI always wins (spec.md §8 property
// 11).
func mergeConfig(f *cliFlags, fs *flag.FlagSet, set func(name string) bool, file *config.File) {
	if file == nil {
		return
	}
	if !set("timeout") && file.TimeoutMS > 0 {
		f.timeoutMS = file.TimeoutMS
	}
	if !set("rate") && file.RateLimit > 0 {
		f.rate = file.RateLimit
	}
	if !set("bufsize") && file.BufSize > 0 {
		f.bufsize = file.BufSize
	}
	if !set("dnssec") && file.DNSSEC != nil {
		f.dnssec = *file.DNSSEC
	}
	if !set("4") && !set("6") {
		switch file.Family {
		case "4":
			f.ipv4 = true
		case "6":
			f.ipv6 = true
		}
	}
	if !set("tcp") && !set("dot") && !set("https") && !set("doq") {
		switch file.Transport {
		case "tcp":
			f.tcp = true
		case "dot":
			f.dot = true
		case "doh", "https":
			f.https = true
		case "doq":
			f.doq = true
		}
	}
}

func wasSet(fs *flag.FlagSet) func(string) bool {
	seen := map[string]bool{}
	fs.Visit(func(fl *flag.Flag) { seen[fl.Name] = true })
	return func(name string) bool { return seen[name] }
}

func parseQType(tok string) (wire.Type, error) {
	return wire.ParseType(upper(tok))
}

func upper(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'a' && c <= 'z' {
			b[i] = c - 'a' + 'A'
		}
	}
	return string(b)
}

func orchestratorOptionsFromFlags(f *cliFlags, domain string, qtypes []wire.Type, resolver string) orchestrator.Options {
	opts := orchestrator.Options{
		Resolver:     resolver,
		Port:         f.port,
		Family:       f.family(),
		Transport:    f.requestedTransport(),
		RateLimit:    f.rate,
		Trace:        f.trace,
		EnableCookie: f.cookie,
		Puny:         f.puny,
	}
	if f.timeoutMS > 0 {
		opts.Timeout = msToDuration(f.timeoutMS)
	}
	opts.TLS.ServerName = f.sni
	if f.alpn != "" {
		opts.TLS.ALPNProtocols = []string{f.alpn}
	}

	opts.Query.Domain = domain
	opts.Query.QTypes = qtypes
	opts.Query.NoRecurse = f.noRecurse
	opts.Query.CD = f.cd
	opts.Query.NoOPT = f.noOPT
	opts.Query.BufferSize = f.bufsize
	opts.Query.DNSSEC = f.dnssec
	opts.Query.NSID = f.nsid
	opts.Query.Padding = f.padding
	opts.Query.ExtendedError = f.ede
	opts.Query.Zoneversion = f.zoneversion

	return opts
}
