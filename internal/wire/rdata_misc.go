package wire

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"net"
)

// RDataLOC is the Location record body (RFC 1876). All fields are kept in
// their raw encoded form; presentation-quality degree/minute/second
// conversion is left to a display layer.
type RDataLOC struct {
	Version   uint8
	Size      uint8
	HorizPre  uint8
	VertPre   uint8
	Latitude  uint32
	Longitude uint32
	Altitude  uint32
}

func decodeLOC(r *Reader) (*RDataLOC, error) {
	var l RDataLOC
	var err error
	if l.Version, err = r.ReadByte(); err != nil {
		return nil, err
	}
	if l.Size, err = r.ReadByte(); err != nil {
		return nil, err
	}
	if l.HorizPre, err = r.ReadByte(); err != nil {
		return nil, err
	}
	if l.VertPre, err = r.ReadByte(); err != nil {
		return nil, err
	}
	if l.Latitude, err = r.ReadUint32(); err != nil {
		return nil, err
	}
	if l.Longitude, err = r.ReadUint32(); err != nil {
		return nil, err
	}
	if l.Altitude, err = r.ReadUint32(); err != nil {
		return nil, err
	}
	return &l, nil
}

func (l *RDataLOC) Encode(w *Writer) error {
	w.WriteByte(l.Version)
	w.WriteByte(l.Size)
	w.WriteByte(l.HorizPre)
	w.WriteByte(l.VertPre)
	w.WriteUint32(l.Latitude)
	w.WriteUint32(l.Longitude)
	w.WriteUint32(l.Altitude)
	return nil
}

func (l *RDataLOC) String() string {
	return fmt.Sprintf("LOC v%d size=%d hp=%d vp=%d lat=%d lon=%d alt=%d",
		l.Version, l.Size, l.HorizPre, l.VertPre, l.Latitude, l.Longitude, l.Altitude)
}

// RDataSSHFP is the SSH fingerprint record body (RFC 4255).
type RDataSSHFP struct {
	Algorithm   uint8
	FPType      uint8
	Fingerprint []byte
}

func decodeSSHFP(r *Reader, rdlength int) (*RDataSSHFP, error) {
	if rdlength < 2 {
		return nil, decodeErr(r.Offset(), "sshfp", fmt.Errorf("rdlength %d too short", rdlength))
	}
	s := &RDataSSHFP{}
	var err error
	if s.Algorithm, err = r.ReadByte(); err != nil {
		return nil, err
	}
	if s.FPType, err = r.ReadByte(); err != nil {
		return nil, err
	}
	if s.Fingerprint, err = r.ReadBytes(rdlength - 2); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *RDataSSHFP) Encode(w *Writer) error {
	w.WriteByte(s.Algorithm)
	w.WriteByte(s.FPType)
	w.WriteBytes(s.Fingerprint)
	return nil
}

func (s *RDataSSHFP) String() string {
	return fmt.Sprintf("%d %d %s", s.Algorithm, s.FPType, hex.EncodeToString(s.Fingerprint))
}

// RDataTLSA is the body of TLSA and SMIMEA (RFC 6698 / RFC 8162): identical
// wire shape, distinguished only by owner-name encoding convention.
type RDataTLSA struct {
	Type         Type
	Usage        uint8
	Selector     uint8
	MatchingType uint8
	Data         []byte
}

func decodeTLSA(r *Reader, rdlength int, t Type) (*RDataTLSA, error) {
	if rdlength < 3 {
		return nil, decodeErr(r.Offset(), "tlsa", fmt.Errorf("rdlength %d too short", rdlength))
	}
	tl := &RDataTLSA{Type: t}
	var err error
	if tl.Usage, err = r.ReadByte(); err != nil {
		return nil, err
	}
	if tl.Selector, err = r.ReadByte(); err != nil {
		return nil, err
	}
	if tl.MatchingType, err = r.ReadByte(); err != nil {
		return nil, err
	}
	if tl.Data, err = r.ReadBytes(rdlength - 3); err != nil {
		return nil, err
	}
	return tl, nil
}

func (t *RDataTLSA) Encode(w *Writer) error {
	w.WriteByte(t.Usage)
	w.WriteByte(t.Selector)
	w.WriteByte(t.MatchingType)
	w.WriteBytes(t.Data)
	return nil
}

func (t *RDataTLSA) String() string {
	return fmt.Sprintf("%d %d %d %s", t.Usage, t.Selector, t.MatchingType, hex.EncodeToString(t.Data))
}

// RDataOPENPGPKEY carries an OpenPGP transferable public key (RFC 7929).
type RDataOPENPGPKEY struct {
	Key []byte
}

func decodeOPENPGPKEY(r *Reader, rdlength int) (*RDataOPENPGPKEY, error) {
	b, err := r.ReadBytes(rdlength)
	if err != nil {
		return nil, err
	}
	return &RDataOPENPGPKEY{Key: b}, nil
}

func (k *RDataOPENPGPKEY) Encode(w *Writer) error { w.WriteBytes(k.Key); return nil }
func (k *RDataOPENPGPKEY) String() string         { return base64.StdEncoding.EncodeToString(k.Key) }

// RDataZONEMD is the zone message digest record body (RFC 8976).
type RDataZONEMD struct {
	Serial uint32
	Scheme uint8
	Hash   uint8
	Digest []byte
}

func decodeZONEMD(r *Reader, rdlength int) (*RDataZONEMD, error) {
	if rdlength < 6 {
		return nil, decodeErr(r.Offset(), "zonemd", fmt.Errorf("rdlength %d too short", rdlength))
	}
	z := &RDataZONEMD{}
	var err error
	if z.Serial, err = r.ReadUint32(); err != nil {
		return nil, err
	}
	if z.Scheme, err = r.ReadByte(); err != nil {
		return nil, err
	}
	if z.Hash, err = r.ReadByte(); err != nil {
		return nil, err
	}
	if z.Digest, err = r.ReadBytes(rdlength - 6); err != nil {
		return nil, err
	}
	return z, nil
}

func (z *RDataZONEMD) Encode(w *Writer) error {
	w.WriteUint32(z.Serial)
	w.WriteByte(z.Scheme)
	w.WriteByte(z.Hash)
	w.WriteBytes(z.Digest)
	return nil
}

func (z *RDataZONEMD) String() string {
	return fmt.Sprintf("%d %d %d %s", z.Serial, z.Scheme, z.Hash, hex.EncodeToString(z.Digest))
}

// RDataAPL is the Address Prefix List record body (RFC 3123).
type APItem struct {
	Family   uint16
	Prefix   uint8
	Negate   bool
	AFDData  []byte
}

type RDataAPL struct {
	Items []APItem
}

func decodeAPL(r *Reader, rdlength int) (*RDataAPL, error) {
	end := r.Offset() + rdlength
	var a RDataAPL
	for r.Offset() < end {
		family, err := r.ReadUint16()
		if err != nil {
			return nil, err
		}
		prefix, err := r.ReadByte()
		if err != nil {
			return nil, err
		}
		afdlenByte, err := r.ReadByte()
		if err != nil {
			return nil, err
		}
		negate := afdlenByte&0x80 != 0
		afdlen := int(afdlenByte &^ 0x80)
		data, err := r.ReadBytes(afdlen)
		if err != nil {
			return nil, err
		}
		a.Items = append(a.Items, APItem{Family: family, Prefix: prefix, Negate: negate, AFDData: data})
	}
	return &a, nil
}

func (a *RDataAPL) Encode(w *Writer) error {
	for _, it := range a.Items {
		w.WriteUint16(it.Family)
		w.WriteByte(it.Prefix)
		l := byte(len(it.AFDData))
		if it.Negate {
			l |= 0x80
		}
		w.WriteByte(l)
		w.WriteBytes(it.AFDData)
	}
	return nil
}

func (a *RDataAPL) String() string {
	s := ""
	for i, it := range a.Items {
		if i > 0 {
			s += " "
		}
		neg := ""
		if it.Negate {
			neg = "!"
		}
		s += fmt.Sprintf("%s%d:%s/%d", neg, it.Family, net.IP(it.AFDData), it.Prefix)
	}
	return s
}

// RDataIPSECKEY is the IPsec keying material record body (RFC 4025).
type RDataIPSECKEY struct {
	Precedence  uint8
	GatewayType uint8
	Algorithm   uint8
	Gateway     []byte
	PublicKey   []byte
}

func decodeIPSECKEY(r *Reader, rdlength int) (*RDataIPSECKEY, error) {
	start := r.Offset()
	k := &RDataIPSECKEY{}
	var err error
	if k.Precedence, err = r.ReadByte(); err != nil {
		return nil, err
	}
	if k.GatewayType, err = r.ReadByte(); err != nil {
		return nil, err
	}
	if k.Algorithm, err = r.ReadByte(); err != nil {
		return nil, err
	}
	var gwLen int
	switch k.GatewayType {
	case 0:
		gwLen = 0
	case 1:
		gwLen = 4
	case 2:
		gwLen = 16
	case 3:
		name, err := r.ReadName()
		if err != nil {
			return nil, err
		}
		k.Gateway = []byte(name.ASCII())
		remaining := rdlength - (r.Offset() - start)
		if remaining < 0 {
			return nil, decodeErr(r.Offset(), "ipseckey", fmt.Errorf("rdlength exceeded"))
		}
		if k.PublicKey, err = r.ReadBytes(remaining); err != nil {
			return nil, err
		}
		return k, nil
	default:
		return nil, decodeErr(r.Offset(), "ipseckey.gatewaytype", fmt.Errorf("unknown gateway type %d", k.GatewayType))
	}
	if k.Gateway, err = r.ReadBytes(gwLen); err != nil {
		return nil, err
	}
	remaining := rdlength - (r.Offset() - start)
	if remaining < 0 {
		return nil, decodeErr(r.Offset(), "ipseckey", fmt.Errorf("rdlength exceeded"))
	}
	if k.PublicKey, err = r.ReadBytes(remaining); err != nil {
		return nil, err
	}
	return k, nil
}

func (k *RDataIPSECKEY) Encode(w *Writer) error {
	w.WriteByte(k.Precedence)
	w.WriteByte(k.GatewayType)
	w.WriteByte(k.Algorithm)
	if k.GatewayType == 3 {
		n, err := NewName(string(k.Gateway))
		if err != nil {
			return encodeErr("ipseckey.gateway", err)
		}
		if err := n.Encode(w); err != nil {
			return err
		}
	} else {
		w.WriteBytes(k.Gateway)
	}
	w.WriteBytes(k.PublicKey)
	return nil
}

func (k *RDataIPSECKEY) String() string {
	return fmt.Sprintf("%d %d %d %s %s", k.Precedence, k.GatewayType, k.Algorithm, k.Gateway, base64.StdEncoding.EncodeToString(k.PublicKey))
}

// RDataHIP is the Host Identity Protocol record body (RFC 8005). The
// rendezvous-server list is read until RDLENGTH is exhausted rather than
// trusting any separate count field beyond the header.
type RDataHIP struct {
	PKAlgorithm   uint8
	HIT           []byte
	PublicKey     []byte
	RendezvousServers []Name
}

func decodeHIP(r *Reader, rdlength int) (*RDataHIP, error) {
	start := r.Offset()
	h := &RDataHIP{}
	hitLen, err := r.ReadByte()
	if err != nil {
		return nil, err
	}
	if h.PKAlgorithm, err = r.ReadByte(); err != nil {
		return nil, err
	}
	pkLen, err := r.ReadUint16()
	if err != nil {
		return nil, err
	}
	if h.HIT, err = r.ReadBytes(int(hitLen)); err != nil {
		return nil, err
	}
	if h.PublicKey, err = r.ReadBytes(int(pkLen)); err != nil {
		return nil, err
	}
	for r.Offset()-start < rdlength {
		name, err := r.ReadName()
		if err != nil {
			return nil, err
		}
		h.RendezvousServers = append(h.RendezvousServers, name)
	}
	return h, nil
}

func (h *RDataHIP) Encode(w *Writer) error {
	w.WriteByte(byte(len(h.HIT)))
	w.WriteByte(h.PKAlgorithm)
	w.WriteUint16(uint16(len(h.PublicKey)))
	w.WriteBytes(h.HIT)
	w.WriteBytes(h.PublicKey)
	for _, rs := range h.RendezvousServers {
		if err := rs.Encode(w); err != nil {
			return err
		}
	}
	return nil
}

func (h *RDataHIP) String() string {
	return fmt.Sprintf("%d %s %s", h.PKAlgorithm, hex.EncodeToString(h.HIT), base64.StdEncoding.EncodeToString(h.PublicKey))
}

// RDataEUI is the body of EUI48 and EUI64 (RFC 7043).
type RDataEUI struct {
	Address []byte
}

func decodeEUI(r *Reader, size int) (*RDataEUI, error) {
	b, err := r.ReadBytes(size)
	if err != nil {
		return nil, err
	}
	return &RDataEUI{Address: b}, nil
}

func (e *RDataEUI) Encode(w *Writer) error { w.WriteBytes(e.Address); return nil }
func (e *RDataEUI) String() string         { return hex.EncodeToString(e.Address) }

// RDataDHCID is the DHCP Identifier record body (RFC 4701).
type RDataDHCID struct {
	Data []byte
}

func decodeDHCID(r *Reader, rdlength int) (*RDataDHCID, error) {
	b, err := r.ReadBytes(rdlength)
	if err != nil {
		return nil, err
	}
	return &RDataDHCID{Data: b}, nil
}

func (d *RDataDHCID) Encode(w *Writer) error { w.WriteBytes(d.Data); return nil }
func (d *RDataDHCID) String() string         { return base64.StdEncoding.EncodeToString(d.Data) }

// RDataCSYNC is the Child Synchronization record body (RFC 7477).
type RDataCSYNC struct {
	Serial uint32
	Flags  uint16
	Types  []Type
}

func decodeCSYNC(r *Reader, rdlength int) (*RDataCSYNC, error) {
	if rdlength < 6 {
		return nil, decodeErr(r.Offset(), "csync", fmt.Errorf("rdlength %d too short", rdlength))
	}
	c := &RDataCSYNC{}
	var err error
	if c.Serial, err = r.ReadUint32(); err != nil {
		return nil, err
	}
	if c.Flags, err = r.ReadUint16(); err != nil {
		return nil, err
	}
	raw, err := r.ReadBytes(rdlength - 6)
	if err != nil {
		return nil, err
	}
	if c.Types, err = decodeTypeBitmap(raw); err != nil {
		return nil, decodeErr(r.Offset(), "csync.types", err)
	}
	return c, nil
}

func (c *RDataCSYNC) Encode(w *Writer) error {
	w.WriteUint32(c.Serial)
	w.WriteUint16(c.Flags)
	w.WriteBytes(encodeTypeBitmap(c.Types))
	return nil
}

func (c *RDataCSYNC) String() string {
	s := fmt.Sprintf("%d %d", c.Serial, c.Flags)
	for _, t := range c.Types {
		s += " " + t.String()
	}
	return s
}

// RDataWallet carries the opaque payment-address value of the WALLET
// record (a registered but loosely specified type); the content is kept
// as raw bytes and presented as text since deployments commonly encode an
// address string there.
type RDataWallet struct {
	Data []byte
}

func decodeWallet(r *Reader, rdlength int) (*RDataWallet, error) {
	b, err := r.ReadBytes(rdlength)
	if err != nil {
		return nil, err
	}
	return &RDataWallet{Data: b}, nil
}

func (w2 *RDataWallet) Encode(w *Writer) error { w.WriteBytes(w2.Data); return nil }
func (w2 *RDataWallet) String() string         { return string(w2.Data) }
