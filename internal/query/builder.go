// Package query builds outgoing DNS query messages: header flags, a
// single question, and an optional EDNS(0) OPT pseudo-RR, per the options
// the caller selects. One Options value produces one *wire.Message per
// requested QTYPE — DNS does not let a single message ask more than one
// question in practice, so multi-type input fans out to multiple messages.
package query

import (
	"fmt"

	"github.com/dnsscience/dqy/internal/random"
	"github.com/dnsscience/dqy/internal/wire"
)

const (
	// DefaultBufferSize is the EDNS UDP payload size advertised when the
	// caller doesn't choose one.
	DefaultBufferSize = 1232
	minBufferSize     = 512
	maxBufferSize     = 65535

	// DefaultPaddingBlock is the block size the padding option rounds the
	// final message length up to, when padding is requested.
	DefaultPaddingBlock = 128
)

// Options configures one or more query messages for a single domain.
type Options struct {
	Domain string
	QTypes []wire.Type
	QClass wire.Class // zero value defaults to IN

	NoRecurse bool
	CD        bool

	NoOPT      bool
	BufferSize int // 0 selects DefaultBufferSize
	DNSSEC     bool

	NSID          bool
	Padding       bool
	PaddingBlock  int // 0 selects DefaultPaddingBlock
	CookieData    []byte
	DAU, DHU, N3U []uint8
	ExtendedError bool
	ReportChannel string
	Zoneversion   bool
}

// Build assembles one message per requested QTYPE, in input order.
func Build(opts Options) ([]*wire.Message, error) {
	if len(opts.QTypes) == 0 {
		return nil, fmt.Errorf("query: at least one QTYPE is required")
	}
	name, err := wire.NewName(opts.Domain)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}

	qclass := opts.QClass
	if qclass == 0 {
		qclass = wire.ClassIN
	}

	msgs := make([]*wire.Message, 0, len(opts.QTypes))
	for _, qtype := range opts.QTypes {
		msg, err := buildOne(opts, name, qtype, qclass)
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, msg)
	}
	return msgs, nil
}

func buildOne(opts Options, name wire.Name, qtype wire.Type, qclass wire.Class) (*wire.Message, error) {
	msg := &wire.Message{
		Header: wire.Header{
			ID:     random.TransactionID(),
			Opcode: wire.OpcodeQuery,
			RD:     !opts.NoRecurse,
			CD:     opts.CD,
		},
		Question: []wire.Question{{Name: name, Type: qtype, Class: qclass}},
	}

	if opts.NoOPT {
		return msg, nil
	}

	opt, err := buildOPT(opts, msg)
	if err != nil {
		return nil, err
	}
	msg.Additional = append(msg.Additional, opt)
	return msg, nil
}

func buildOPT(opts Options, msg *wire.Message) (wire.RR, error) {
	bufsize := opts.BufferSize
	if bufsize == 0 {
		bufsize = DefaultBufferSize
	}
	if bufsize < minBufferSize || bufsize > maxBufferSize {
		return wire.RR{}, fmt.Errorf("query: buffer size %d out of range [%d, %d]", bufsize, minBufferSize, maxBufferSize)
	}

	var ttl uint32 // extended-rcode(8) | version(8) | DO(1) | Z(15)
	if opts.DNSSEC {
		ttl |= 1 << 15
	}

	rdata := &wire.RDataOPT{}

	// Stable option order: NSID, Padding, Cookie, DAU/DHU/N3U,
	// Extended-DNS-Error, Report-Channel, Zoneversion.
	if opts.NSID {
		rdata.Options = append(rdata.Options, wire.EDNSOption{Code: wire.OptCodeNSID})
	}

	paddingIdx := -1
	if opts.Padding {
		paddingIdx = len(rdata.Options)
		rdata.Options = append(rdata.Options, wire.EDNSOption{Code: wire.OptCodePadding})
	}

	if len(opts.CookieData) > 0 {
		rdata.Options = append(rdata.Options, wire.EDNSOption{Code: wire.OptCodeCookie, Value: opts.CookieData})
	}

	if len(opts.DAU) > 0 {
		rdata.Options = append(rdata.Options, wire.EDNSOption{Code: wire.OptCodeDAU, Value: opts.DAU})
	}
	if len(opts.DHU) > 0 {
		rdata.Options = append(rdata.Options, wire.EDNSOption{Code: wire.OptCodeDHU, Value: opts.DHU})
	}
	if len(opts.N3U) > 0 {
		rdata.Options = append(rdata.Options, wire.EDNSOption{Code: wire.OptCodeN3U, Value: opts.N3U})
	}

	if opts.ExtendedError {
		rdata.Options = append(rdata.Options, wire.EDNSOption{Code: wire.OptCodeExtendedError})
	}
	if opts.ReportChannel != "" {
		rdata.Options = append(rdata.Options, wire.EDNSOption{Code: wire.OptCodeReportChannel, Value: []byte(opts.ReportChannel)})
	}
	if opts.Zoneversion {
		rdata.Options = append(rdata.Options, wire.EDNSOption{Code: wire.OptCodeZoneversion})
	}

	rr := wire.RR{
		Name:  wire.Name{},
		Type:  wire.TypeOPT,
		Class: wire.Class(bufsize),
		TTL:   ttl,
		RData: rdata,
	}

	if paddingIdx >= 0 {
		size, err := paddingSize(opts, msg, rr)
		if err != nil {
			return wire.RR{}, err
		}
		rdata.Options[paddingIdx].Value = make([]byte, size)
	}

	return rr, nil
}

// paddingSize computes how many padding octets make the fully-encoded
// message length round up to the configured block size, per RFC 7830 §3.
func paddingSize(opts Options, msg *wire.Message, optRR wire.RR) (int, error) {
	block := opts.PaddingBlock
	if block == 0 {
		block = DefaultPaddingBlock
	}

	probe := *msg
	probe.Additional = append(append([]wire.RR(nil), msg.Additional...), optRR)

	w := wire.NewWriter(512)
	if err := probe.Encode(w); err != nil {
		return 0, fmt.Errorf("query: padding probe: %w", err)
	}

	length := len(w.Bytes())
	remainder := length % block
	if remainder == 0 {
		return 0, nil
	}
	return block - remainder, nil
}
