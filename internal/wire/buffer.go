package wire

import "encoding/binary"

// Writer is an append-only byte sink tracking the current offset, which
// names need to know for (future) compression bookkeeping even though this
// codec never emits pointers on the encode side.
type Writer struct {
	buf []byte
}

// NewWriter returns a Writer with capacity hinted by size.
func NewWriter(size int) *Writer {
	return &Writer{buf: make([]byte, 0, size)}
}

// NewWriterFromBuffer wraps a caller-owned, zero-length buffer instead of
// allocating one, so a pooled scratch slice can back the encode.
func NewWriterFromBuffer(buf []byte) *Writer {
	return &Writer{buf: buf}
}

// Offset returns the number of bytes written so far.
func (w *Writer) Offset() int { return len(w.buf) }

// Bytes returns the accumulated wire-format bytes.
func (w *Writer) Bytes() []byte { return w.buf }

func (w *Writer) WriteByte(b byte) { w.buf = append(w.buf, b) }

func (w *Writer) WriteBytes(b []byte) { w.buf = append(w.buf, b...) }

func (w *Writer) WriteUint16(v uint16) {
	var tmp [2]byte
	binary.BigEndian.PutUint16(tmp[:], v)
	w.buf = append(w.buf, tmp[:]...)
}

func (w *Writer) WriteUint32(v uint32) {
	var tmp [4]byte
	binary.BigEndian.PutUint32(tmp[:], v)
	w.buf = append(w.buf, tmp[:]...)
}

func (w *Writer) WriteInt32(v int32) { w.WriteUint32(uint32(v)) }

// WriteCharString writes a single length-prefixed character-string
// (0-255 opaque bytes), as used by TXT and several other RR bodies.
func (w *Writer) WriteCharString(s []byte) error {
	if len(s) > 255 {
		return encodeErr("character-string", ErrCharStringTooLong)
	}
	w.WriteByte(byte(len(s)))
	w.WriteBytes(s)
	return nil
}

// Reader is a random-access byte source with a cursor, so name decoding can
// follow compression pointers backward while the caller's field-by-field
// cursor keeps advancing forward.
type Reader struct {
	msg []byte
	off int
}

// NewReader wraps a full on-wire message for decoding.
func NewReader(msg []byte) *Reader {
	return &Reader{msg: msg}
}

func (r *Reader) Offset() int   { return r.off }
func (r *Reader) Len() int      { return len(r.msg) }
func (r *Reader) Remaining() int { return len(r.msg) - r.off }

// Seek repositions the cursor to an absolute offset in the message.
func (r *Reader) Seek(off int) { r.off = off }

func (r *Reader) ReadByte() (byte, error) {
	if r.off+1 > len(r.msg) {
		return 0, decodeErr(r.off, "byte", ErrShortRead)
	}
	b := r.msg[r.off]
	r.off++
	return b, nil
}

func (r *Reader) ReadUint16() (uint16, error) {
	if r.off+2 > len(r.msg) {
		return 0, decodeErr(r.off, "uint16", ErrShortRead)
	}
	v := binary.BigEndian.Uint16(r.msg[r.off : r.off+2])
	r.off += 2
	return v, nil
}

func (r *Reader) ReadUint32() (uint32, error) {
	if r.off+4 > len(r.msg) {
		return 0, decodeErr(r.off, "uint32", ErrShortRead)
	}
	v := binary.BigEndian.Uint32(r.msg[r.off : r.off+4])
	r.off += 4
	return v, nil
}

func (r *Reader) ReadInt32() (int32, error) {
	v, err := r.ReadUint32()
	return int32(v), err
}

// ReadBytes returns a copy of the next n bytes (copied so the decoded
// message never aliases the original receive buffer, which may be reused).
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if n < 0 || r.off+n > len(r.msg) {
		return nil, decodeErr(r.off, "bytes", ErrShortRead)
	}
	out := make([]byte, n)
	copy(out, r.msg[r.off:r.off+n])
	r.off += n
	return out, nil
}

// ReadCharString reads a single length-prefixed character-string.
func (r *Reader) ReadCharString() ([]byte, error) {
	n, err := r.ReadByte()
	if err != nil {
		return nil, err
	}
	return r.ReadBytes(int(n))
}

// ReadName reads a domain name at the current cursor.
func (r *Reader) ReadName() (Name, error) { return DecodeName(r) }
