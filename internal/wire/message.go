package wire

import "fmt"

// Message is a complete DNS message: header, question section, and the
// three RR sections, always encoded and decoded in that fixed order
// (RFC 1035 §4.1).
type Message struct {
	Header     Header
	Question   []Question
	Answer     []RR
	Authority  []RR
	Additional []RR
}

// Encode serialises the message, overwriting the header's section counts
// from the actual slice lengths so callers never have to keep them in sync
// by hand.
func (m *Message) Encode(w *Writer) error {
	h := m.Header
	h.QDCount = uint16(len(m.Question))
	h.ANCount = uint16(len(m.Answer))
	h.NSCount = uint16(len(m.Authority))
	h.ARCount = uint16(len(m.Additional))
	h.Encode(w)

	for _, q := range m.Question {
		if err := q.Encode(w); err != nil {
			return err
		}
	}
	for _, rr := range m.Answer {
		if err := rr.Encode(w); err != nil {
			return err
		}
	}
	for _, rr := range m.Authority {
		if err := rr.Encode(w); err != nil {
			return err
		}
	}
	for _, rr := range m.Additional {
		if err := rr.Encode(w); err != nil {
			return err
		}
	}
	return nil
}

// DecodeMessage parses a complete message and verifies that the number of
// records actually decoded in each section matches the header's declared
// count, and that at most one OPT pseudo-RR appears in the additional
// section.
func DecodeMessage(buf []byte) (*Message, error) {
	r := NewReader(buf)
	h, err := DecodeHeader(r)
	if err != nil {
		return nil, err
	}
	m := &Message{Header: h}

	m.Question = make([]Question, 0, h.QDCount)
	for i := 0; i < int(h.QDCount); i++ {
		q, err := DecodeQuestion(r)
		if err != nil {
			return nil, err
		}
		m.Question = append(m.Question, q)
	}

	decodeSection := func(n uint16) ([]RR, error) {
		rrs := make([]RR, 0, n)
		for i := 0; i < int(n); i++ {
			rr, err := DecodeRR(r)
			if err != nil {
				return nil, err
			}
			rrs = append(rrs, rr)
		}
		return rrs, nil
	}

	if m.Answer, err = decodeSection(h.ANCount); err != nil {
		return nil, err
	}
	if m.Authority, err = decodeSection(h.NSCount); err != nil {
		return nil, err
	}
	if m.Additional, err = decodeSection(h.ARCount); err != nil {
		return nil, err
	}

	optCount := 0
	for _, rr := range m.Additional {
		if rr.Type == TypeOPT {
			optCount++
		}
	}
	if optCount > 1 {
		return nil, decodeErr(r.Offset(), "message.additional", fmt.Errorf("%d OPT records in additional section, at most 1 allowed", optCount))
	}

	return m, nil
}

// OPT returns the message's EDNS pseudo-RR and options, if present.
func (m *Message) OPT() (*RR, *RDataOPT) {
	for i := range m.Additional {
		if m.Additional[i].Type == TypeOPT {
			if opt, ok := m.Additional[i].RData.(*RDataOPT); ok {
				return &m.Additional[i], opt
			}
		}
	}
	return nil, nil
}

// ExtendedRcode combines the header's low-order RCODE with the OPT
// pseudo-RR's extended-RCODE bits, per RFC 6891 §6.1.3. Returns the plain
// header RCODE when no OPT record is present.
func (m *Message) ExtendedRcode() uint16 {
	rr, _ := m.OPT()
	if rr == nil {
		return uint16(m.Header.Rcode)
	}
	return uint16(rr.TTL>>24)<<4 | uint16(m.Header.Rcode)
}
