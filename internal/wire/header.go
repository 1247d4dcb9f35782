package wire

const HeaderSize = 12

// Opcode values (RFC 1035 §4.1.1).
const (
	OpcodeQuery  = 0
	OpcodeIQuery = 1
	OpcodeStatus = 2
	OpcodeNotify = 4
	OpcodeUpdate = 5
)

// Response codes (RFC 1035, RFC 6891 extended range via OPT).
const (
	RcodeSuccess        = 0
	RcodeFormatError    = 1
	RcodeServerFailure  = 2
	RcodeNameError      = 3
	RcodeNotImplemented = 4
	RcodeRefused        = 5
	RcodeBadCookie      = 23
)

// Header is the fixed 12-octet DNS message header.
type Header struct {
	ID uint16

	QR     bool
	Opcode uint8
	AA     bool
	TC     bool
	RD     bool
	RA     bool
	Z      bool
	AD     bool
	CD     bool
	Rcode  uint8 // low 4 bits; OPT extended-rcode adds the high 8 bits

	QDCount uint16
	ANCount uint16
	NSCount uint16
	ARCount uint16
}

func (h Header) flags() uint16 {
	var f uint16
	if h.QR {
		f |= 1 << 15
	}
	f |= uint16(h.Opcode&0x0F) << 11
	if h.AA {
		f |= 1 << 10
	}
	if h.TC {
		f |= 1 << 9
	}
	if h.RD {
		f |= 1 << 8
	}
	if h.RA {
		f |= 1 << 7
	}
	if h.Z {
		f |= 1 << 6
	}
	if h.AD {
		f |= 1 << 5
	}
	if h.CD {
		f |= 1 << 4
	}
	f |= uint16(h.Rcode & 0x0F)
	return f
}

// Encode writes the 12-octet header.
func (h Header) Encode(w *Writer) {
	w.WriteUint16(h.ID)
	w.WriteUint16(h.flags())
	w.WriteUint16(h.QDCount)
	w.WriteUint16(h.ANCount)
	w.WriteUint16(h.NSCount)
	w.WriteUint16(h.ARCount)
}

// DecodeHeader reads the 12-octet header.
func DecodeHeader(r *Reader) (Header, error) {
	var h Header
	id, err := r.ReadUint16()
	if err != nil {
		return h, decodeErr(r.Offset(), "header.id", err)
	}
	flags, err := r.ReadUint16()
	if err != nil {
		return h, decodeErr(r.Offset(), "header.flags", err)
	}
	h.ID = id
	h.QR = flags&(1<<15) != 0
	h.Opcode = uint8((flags >> 11) & 0x0F)
	h.AA = flags&(1<<10) != 0
	h.TC = flags&(1<<9) != 0
	h.RD = flags&(1<<8) != 0
	h.RA = flags&(1<<7) != 0
	h.Z = flags&(1<<6) != 0
	h.AD = flags&(1<<5) != 0
	h.CD = flags&(1<<4) != 0
	h.Rcode = uint8(flags & 0x0F)

	if h.QDCount, err = r.ReadUint16(); err != nil {
		return h, decodeErr(r.Offset(), "header.qdcount", err)
	}
	if h.ANCount, err = r.ReadUint16(); err != nil {
		return h, decodeErr(r.Offset(), "header.ancount", err)
	}
	if h.NSCount, err = r.ReadUint16(); err != nil {
		return h, decodeErr(r.Offset(), "header.nscount", err)
	}
	if h.ARCount, err = r.ReadUint16(); err != nil {
		return h, decodeErr(r.Offset(), "header.arcount", err)
	}
	return h, nil
}
