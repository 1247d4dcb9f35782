package main

import (
	"fmt"
	"io"

	"github.com/dnsscience/dqy/internal/display"
)

// renderRun prints one completed run in the built-in plain-text form.
// JSON, pretty-JSON, and colorized output are external collaborators per
// spec.md's Non-goals; --short and --stats are the only output modes this
// binary implements itself.
func renderRun(w io.Writer, run *display.Run, short, stats bool) {
	for _, ex := range run.Exchanges {
		if ex.Response == nil {
			continue
		}
		if short {
			renderShort(w, ex.Response)
		} else {
			renderFull(w, ex.Response)
		}
		if stats {
			renderStats(w, ex)
		}
	}
}

func renderFull(w io.Writer, msg *display.Message) {
	for _, q := range msg.Question {
		fmt.Fprintf(w, ";; QUESTION: %s %s %s\n", q.Name, q.Class, q.Type)
	}
	fmt.Fprintf(w, ";; status: %s, id: %d\n", rcodeName(msg.Rcode), msg.ID)
	renderSection(w, "ANSWER", msg.Answer)
	renderSection(w, "AUTHORITY", msg.Authority)
	renderSection(w, "ADDITIONAL", msg.Additional)
}

func renderSection(w io.Writer, title string, rrs []display.RRView) {
	if len(rrs) == 0 {
		return
	}
	fmt.Fprintf(w, ";; %s:\n", title)
	for _, rr := range rrs {
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\n", rr.Name, rr.TTL, rr.Class, rr.Type, rr.Text)
	}
}

func renderShort(w io.Writer, msg *display.Message) {
	for _, rr := range msg.Answer {
		fmt.Fprintln(w, rr.Text)
	}
}

func renderStats(w io.Writer, ex display.Exchange) {
	fmt.Fprintf(w, ";; elapsed: %.2fms, transport: %s, endpoint: %s, sent: %dB, received: %dB",
		ex.Info.ElapsedMS, ex.Info.TransportKind, ex.Info.Endpoint, ex.Info.BytesSent, ex.Info.BytesReceived)
	if ex.Info.TruncatedRetry {
		fmt.Fprint(w, " (truncated, retried over tcp)")
	}
	fmt.Fprintln(w)
}

// rcodeName renders the extended RCODE by its mnemonic where this client
// recognizes one, falling back to the bare numeric form otherwise.
func rcodeName(rcode uint16) string {
	switch rcode {
	case 0:
		return "NOERROR"
	case 1:
		return "FORMERR"
	case 2:
		return "SERVFAIL"
	case 3:
		return "NXDOMAIN"
	case 4:
		return "NOTIMP"
	case 5:
		return "REFUSED"
	case 23:
		return "BADCOOKIE"
	default:
		return fmt.Sprintf("RCODE%d", rcode)
	}
}
