package wire

import "fmt"

// RDataCAA is the Certification Authority Authorization record body (RFC 8659).
type RDataCAA struct {
	Flags uint8
	Tag   []byte
	Value []byte
}

func decodeCAA(r *Reader, rdlength int) (*RDataCAA, error) {
	start := r.Offset()
	c := &RDataCAA{}
	var err error
	if c.Flags, err = r.ReadByte(); err != nil {
		return nil, decodeErr(r.Offset(), "caa.flags", err)
	}
	if c.Tag, err = r.ReadCharString(); err != nil {
		return nil, err
	}
	remaining := rdlength - (r.Offset() - start)
	if remaining < 0 {
		return nil, decodeErr(r.Offset(), "caa", fmt.Errorf("rdlength exceeded"))
	}
	if c.Value, err = r.ReadBytes(remaining); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *RDataCAA) Encode(w *Writer) error {
	w.WriteByte(c.Flags)
	if err := w.WriteCharString(c.Tag); err != nil {
		return err
	}
	w.WriteBytes(c.Value)
	return nil
}

func (c *RDataCAA) String() string {
	return fmt.Sprintf("%d %s %q", c.Flags, c.Tag, c.Value)
}

// RDataURI is the URI record body (RFC 7553).
type RDataURI struct {
	Priority uint16
	Weight   uint16
	Target   []byte
}

func decodeURI(r *Reader, rdlength int) (*RDataURI, error) {
	if rdlength < 4 {
		return nil, decodeErr(r.Offset(), "uri", fmt.Errorf("rdlength %d too short", rdlength))
	}
	u := &RDataURI{}
	var err error
	if u.Priority, err = r.ReadUint16(); err != nil {
		return nil, err
	}
	if u.Weight, err = r.ReadUint16(); err != nil {
		return nil, err
	}
	if u.Target, err = r.ReadBytes(rdlength - 4); err != nil {
		return nil, err
	}
	return u, nil
}

func (u *RDataURI) Encode(w *Writer) error {
	w.WriteUint16(u.Priority)
	w.WriteUint16(u.Weight)
	w.WriteBytes(u.Target)
	return nil
}

func (u *RDataURI) String() string {
	return fmt.Sprintf("%d %d %q", u.Priority, u.Weight, u.Target)
}
