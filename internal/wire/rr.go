package wire

import "fmt"

// RData is implemented by every supported RR body. encode/decode never
// retain a reference to the message buffer they were built from: all
// variable-length fields are copied out during decode.
type RData interface {
	// Encode writes the RDATA in wire format.
	Encode(w *Writer) error
	// String renders the RDATA in presentation format.
	String() string
}

// RR is a single resource record: (NAME, TYPE, CLASS-or-payload-size,
// TTL-or-ext-rcode-flags, RDLENGTH, RDATA). For TYPE=OPT, Class carries the
// requestor's UDP payload size and TTL carries the packed
// extended-RCODE|version|DO|Z field instead of their usual meanings.
type RR struct {
	Name  Name
	Type  Type
	Class Class
	TTL   uint32
	RData RData
}

func (rr RR) Encode(w *Writer) error {
	if err := rr.Name.Encode(w); err != nil {
		return err
	}
	w.WriteUint16(uint16(rr.Type))
	w.WriteUint16(uint16(rr.Class))
	w.WriteUint32(rr.TTL)

	sub := NewWriter(64)
	if rr.RData != nil {
		if err := rr.RData.Encode(sub); err != nil {
			return err
		}
	}
	body := sub.Bytes()
	if len(body) > 65535 {
		return encodeErr("rr.rdlength", fmt.Errorf("rdata too large: %d", len(body)))
	}
	w.WriteUint16(uint16(len(body)))
	w.WriteBytes(body)
	return nil
}

// DecodeRR reads one resource record, dispatching RDATA decode on TYPE
// (OPT included), and verifies that the decoder consumed exactly RDLENGTH
// octets.
func DecodeRR(r *Reader) (RR, error) {
	var rr RR
	name, err := r.ReadName()
	if err != nil {
		return rr, err
	}
	rr.Name = name

	t, err := r.ReadUint16()
	if err != nil {
		return rr, decodeErr(r.Offset(), "rr.type", err)
	}
	rr.Type = Type(t)

	c, err := r.ReadUint16()
	if err != nil {
		return rr, decodeErr(r.Offset(), "rr.class", err)
	}
	rr.Class = Class(c)

	ttl, err := r.ReadUint32()
	if err != nil {
		return rr, decodeErr(r.Offset(), "rr.ttl", err)
	}
	rr.TTL = ttl

	rdlength, err := r.ReadUint16()
	if err != nil {
		return rr, decodeErr(r.Offset(), "rr.rdlength", err)
	}
	if r.Offset()+int(rdlength) > r.Len() {
		return rr, decodeErr(r.Offset(), "rr.rdata", fmt.Errorf("rdlength %d exceeds message", rdlength))
	}

	rdataStart := r.Offset()
	rdata, err := decodeRDATA(r, rr.Type, rr.Class, int(rdlength))
	if err != nil {
		return rr, err
	}
	consumed := r.Offset() - rdataStart
	if consumed != int(rdlength) {
		return rr, decodeErr(rdataStart, "rr.rdata",
			fmt.Errorf("rdlength %d but decoded %d octets", rdlength, consumed))
	}
	rr.RData = rdata
	return rr, nil
}
