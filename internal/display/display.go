// Package display exposes the stable, renderer-facing shape of a finished
// query run: the decoded query/response pairs plus per-exchange metadata.
// Concrete renderers (plain text, JSON, a scripting host) are external
// collaborators that only ever read this shape; nothing in this package
// decides how to print anything.
package display

import "time"

// Exchange is one query/response pair plus the metadata describing how it
// was carried, per spec.md §4.5: elapsed time, endpoint, transport kind,
// bytes sent/received.
type Exchange struct {
	Query    *Message
	Response *Message // nil if the exchange failed before a response arrived

	Info Info

	// RawQuery and RawResponse are the exact on-wire bytes sent/received,
	// with no transport framing, for the --wq/--wr dump flags. Neither
	// field is read by any renderer; only the CLI's file-dump path uses
	// them.
	RawQuery    []byte
	RawResponse []byte
}

// Info is the metadata record attached to every Exchange.
type Info struct {
	ElapsedMS      float64
	Endpoint       string
	TransportKind  string
	BytesSent      int
	BytesReceived  int
	TruncatedRetry bool // true if this exchange is the TCP retry of a truncated UDP response
}

// Message is a renderer-facing view of a decoded DNS message. It is
// deliberately independent of wire.Message's in-memory layout so a renderer
// never needs to import the codec package directly.
type Message struct {
	ID         uint16
	QR         bool
	Opcode     uint8
	AA, TC, RD bool
	RA, AD, CD bool
	Rcode      uint16 // the extended RCODE when an OPT RR is present
	Question   []QuestionView
	Answer     []RRView
	Authority  []RRView
	Additional []RRView
}

// QuestionView renders a single question.
type QuestionView struct {
	Name  string
	Type  string
	Class string
}

// RRView renders a single resource record in presentation format; Text is
// the RR's RFC-conventional presentation string (or the RFC 3597 `\# <len>
// <hex>` fallback for unrecognized types).
type RRView struct {
	Name  string
	Type  string
	Class string
	TTL   uint32
	Text  string
}

// Run is the full result of one CLI invocation: every exchange issued, in
// the order they were issued (spec.md §5 "Ordering").
type Run struct {
	Exchanges []Exchange
	Started   time.Time
}

// TotalElapsed sums the elapsed time of every exchange in the run.
func (r Run) TotalElapsed() time.Duration {
	var total time.Duration
	for _, ex := range r.Exchanges {
		total += time.Duration(ex.Info.ElapsedMS * float64(time.Millisecond))
	}
	return total
}

// TotalBytes sums bytes sent and received across every exchange.
func (r Run) TotalBytes() (sent, received int) {
	for _, ex := range r.Exchanges {
		sent += ex.Info.BytesSent
		received += ex.Info.BytesReceived
	}
	return sent, received
}
