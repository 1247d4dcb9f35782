package wire

import "fmt"

// RDataSOA is the Start-of-Authority record body.
type RDataSOA struct {
	MName   Name
	RName   Name
	Serial  uint32
	Refresh int32
	Retry   int32
	Expire  int32
	Minimum uint32
}

func decodeSOA(r *Reader) (*RDataSOA, error) {
	mname, err := r.ReadName()
	if err != nil {
		return nil, err
	}
	rname, err := r.ReadName()
	if err != nil {
		return nil, err
	}
	soa := &RDataSOA{MName: mname, RName: rname}
	if soa.Serial, err = r.ReadUint32(); err != nil {
		return nil, decodeErr(r.Offset(), "soa.serial", err)
	}
	if soa.Refresh, err = r.ReadInt32(); err != nil {
		return nil, decodeErr(r.Offset(), "soa.refresh", err)
	}
	if soa.Retry, err = r.ReadInt32(); err != nil {
		return nil, decodeErr(r.Offset(), "soa.retry", err)
	}
	if soa.Expire, err = r.ReadInt32(); err != nil {
		return nil, decodeErr(r.Offset(), "soa.expire", err)
	}
	if soa.Minimum, err = r.ReadUint32(); err != nil {
		return nil, decodeErr(r.Offset(), "soa.minimum", err)
	}
	return soa, nil
}

func (s *RDataSOA) Encode(w *Writer) error {
	if err := s.MName.Encode(w); err != nil {
		return err
	}
	if err := s.RName.Encode(w); err != nil {
		return err
	}
	w.WriteUint32(s.Serial)
	w.WriteInt32(s.Refresh)
	w.WriteInt32(s.Retry)
	w.WriteInt32(s.Expire)
	w.WriteUint32(s.Minimum)
	return nil
}

func (s *RDataSOA) String() string {
	return fmt.Sprintf("%s %s %d %d %d %d %d", s.MName, s.RName, s.Serial, s.Refresh, s.Retry, s.Expire, s.Minimum)
}

// RDataPreferenceName is the body of MX (preference, exchange), KX
// (preference, exchange) and AFSDB (subtype, hostname) — a u16 preceding a
// single domain name.
type RDataPreferenceName struct {
	Type       Type
	Preference uint16
	Target     Name
}

func decodePreferenceName(r *Reader, t Type) (*RDataPreferenceName, error) {
	pref, err := r.ReadUint16()
	if err != nil {
		return nil, decodeErr(r.Offset(), "preference", err)
	}
	name, err := r.ReadName()
	if err != nil {
		return nil, err
	}
	return &RDataPreferenceName{Type: t, Preference: pref, Target: name}, nil
}

func (p *RDataPreferenceName) Encode(w *Writer) error {
	w.WriteUint16(p.Preference)
	return p.Target.Encode(w)
}

func (p *RDataPreferenceName) String() string {
	return fmt.Sprintf("%d %s", p.Preference, p.Target)
}

// RDataSRV is the SRV record body (RFC 2782).
type RDataSRV struct {
	Priority uint16
	Weight   uint16
	Port     uint16
	Target   Name
}

func decodeSRV(r *Reader) (*RDataSRV, error) {
	var s RDataSRV
	var err error
	if s.Priority, err = r.ReadUint16(); err != nil {
		return nil, decodeErr(r.Offset(), "srv.priority", err)
	}
	if s.Weight, err = r.ReadUint16(); err != nil {
		return nil, decodeErr(r.Offset(), "srv.weight", err)
	}
	if s.Port, err = r.ReadUint16(); err != nil {
		return nil, decodeErr(r.Offset(), "srv.port", err)
	}
	if s.Target, err = r.ReadName(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *RDataSRV) Encode(w *Writer) error {
	w.WriteUint16(s.Priority)
	w.WriteUint16(s.Weight)
	w.WriteUint16(s.Port)
	return s.Target.Encode(w)
}

func (s *RDataSRV) String() string {
	return fmt.Sprintf("%d %d %d %s", s.Priority, s.Weight, s.Port, s.Target)
}

// RDataNAPTR is the Naming Authority Pointer record body (RFC 3403).
type RDataNAPTR struct {
	Order       uint16
	Preference  uint16
	Flags       []byte
	Services    []byte
	Regexp      []byte
	Replacement Name
}

func decodeNAPTR(r *Reader) (*RDataNAPTR, error) {
	var n RDataNAPTR
	var err error
	if n.Order, err = r.ReadUint16(); err != nil {
		return nil, decodeErr(r.Offset(), "naptr.order", err)
	}
	if n.Preference, err = r.ReadUint16(); err != nil {
		return nil, decodeErr(r.Offset(), "naptr.preference", err)
	}
	if n.Flags, err = r.ReadCharString(); err != nil {
		return nil, err
	}
	if n.Services, err = r.ReadCharString(); err != nil {
		return nil, err
	}
	if n.Regexp, err = r.ReadCharString(); err != nil {
		return nil, err
	}
	if n.Replacement, err = r.ReadName(); err != nil {
		return nil, err
	}
	return &n, nil
}

func (n *RDataNAPTR) Encode(w *Writer) error {
	w.WriteUint16(n.Order)
	w.WriteUint16(n.Preference)
	if err := w.WriteCharString(n.Flags); err != nil {
		return err
	}
	if err := w.WriteCharString(n.Services); err != nil {
		return err
	}
	if err := w.WriteCharString(n.Regexp); err != nil {
		return err
	}
	return n.Replacement.Encode(w)
}

func (n *RDataNAPTR) String() string {
	return fmt.Sprintf("%d %d %q %q %q %s", n.Order, n.Preference, n.Flags, n.Services, n.Regexp, n.Replacement)
}

// RDataHINFO is the host-information record body (RFC 1035).
type RDataHINFO struct {
	CPU []byte
	OS  []byte
}

func decodeHINFO(r *Reader) (*RDataHINFO, error) {
	var h RDataHINFO
	var err error
	if h.CPU, err = r.ReadCharString(); err != nil {
		return nil, err
	}
	if h.OS, err = r.ReadCharString(); err != nil {
		return nil, err
	}
	return &h, nil
}

func (h *RDataHINFO) Encode(w *Writer) error {
	if err := w.WriteCharString(h.CPU); err != nil {
		return err
	}
	return w.WriteCharString(h.OS)
}

func (h *RDataHINFO) String() string { return fmt.Sprintf("%q %q", h.CPU, h.OS) }

// RDataRP is the Responsible Person record body (RFC 1183).
type RDataRP struct {
	Mbox Name
	Txt  Name
}

func decodeRP(r *Reader) (*RDataRP, error) {
	var rp RDataRP
	var err error
	if rp.Mbox, err = r.ReadName(); err != nil {
		return nil, err
	}
	if rp.Txt, err = r.ReadName(); err != nil {
		return nil, err
	}
	return &rp, nil
}

func (rp *RDataRP) Encode(w *Writer) error {
	if err := rp.Mbox.Encode(w); err != nil {
		return err
	}
	return rp.Txt.Encode(w)
}

func (rp *RDataRP) String() string { return fmt.Sprintf("%s %s", rp.Mbox, rp.Txt) }
