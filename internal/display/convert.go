package display

import "github.com/dnsscience/dqy/internal/wire"

// FromWire converts a decoded wire.Message into the renderer-facing shape,
// rendering every name in its original Unicode (U-label) form.
func FromWire(m *wire.Message) *Message {
	return fromWire(m, false)
}

// FromWirePuny is FromWire but renders every question and owner name in its
// ASCII (A-label) form, for --puny (spec.md §6, §8 property 9). Names inside
// RR data keep the form their RData String() method produces.
func FromWirePuny(m *wire.Message) *Message {
	return fromWire(m, true)
}

func fromWire(m *wire.Message, puny bool) *Message {
	if m == nil {
		return nil
	}
	out := &Message{
		ID:     m.Header.ID,
		QR:     m.Header.QR,
		Opcode: m.Header.Opcode,
		AA:     m.Header.AA,
		TC:     m.Header.TC,
		RD:     m.Header.RD,
		RA:     m.Header.RA,
		AD:     m.Header.AD,
		CD:     m.Header.CD,
		Rcode:  m.ExtendedRcode(),
	}

	for _, q := range m.Question {
		out.Question = append(out.Question, QuestionView{
			Name:  nameForm(q.Name, puny),
			Type:  q.Type.String(),
			Class: q.Class.String(),
		})
	}

	out.Answer = rrViews(m.Answer, puny)
	out.Authority = rrViews(m.Authority, puny)
	out.Additional = rrViews(m.Additional, puny)

	return out
}

func nameForm(n wire.Name, puny bool) string {
	if puny {
		return n.Punycode()
	}
	return n.String()
}

func rrViews(rrs []wire.RR, puny bool) []RRView {
	views := make([]RRView, 0, len(rrs))
	for _, rr := range rrs {
		text := ""
		if rr.RData != nil {
			text = rr.RData.String()
		}
		views = append(views, RRView{
			Name:  nameForm(rr.Name, puny),
			Type:  rr.Type.String(),
			Class: rr.Class.String(),
			TTL:   rr.TTL,
			Text:  text,
		})
	}
	return views
}
