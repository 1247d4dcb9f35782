package wire

import (
	"errors"
	"strings"

	"golang.org/x/net/idna"
)

const (
	maxLabelLength  = 63
	maxDomainLength = 255

	// maxPointerDepth bounds the number of compression pointers followed
	// while decoding a single name. RFC 1035 doesn't specify a limit;
	// §4.1 of this codec's governing spec requires at least 128.
	maxPointerDepth = 128
)

var (
	ErrLabelTooLong      = errors.New("label exceeds 63 octets")
	ErrNameTooLong       = errors.New("name exceeds 255 octets")
	ErrCompressionLoop   = errors.New("compression pointer loop or forward reference")
	ErrPointerDepth      = errors.New("compression pointer chain too deep")
	ErrReservedLabelBits = errors.New("reserved label length bits (01/10)")
)

var idnaProfile = idna.New(idna.MapForLookup(), idna.Transitional(false))

// Name is a decoded or user-supplied domain name kept in two display forms:
// Unicode (the original, possibly U-label input) and the ASCII A-label form
// that is always what travels on the wire.
type Name struct {
	unicode string // dotted, possibly non-ASCII, root = "."
	ascii   string // dotted, ASCII (A-labels), root = "."
}

// NewName builds a Name from user input, IDNA-encoding any non-ASCII label
// to its A-label form. The input may or may not have a trailing dot.
func NewName(s string) (Name, error) {
	if s == "" || s == "." {
		return Name{unicode: ".", ascii: "."}, nil
	}
	trimmed := strings.TrimSuffix(s, ".")
	labels := strings.Split(trimmed, ".")
	asciiLabels := make([]string, len(labels))
	for i, lbl := range labels {
		if lbl == "" {
			return Name{}, encodeErr("name", errors.New("empty non-final label"))
		}
		a, err := idnaProfile.ToASCII(lbl)
		if err != nil {
			// Not every label needs strict IDNA validation (e.g. "_dmarc",
			// "*"): fall back to the raw label if it's already ASCII.
			if isASCII(lbl) {
				a = lbl
			} else {
				return Name{}, encodeErr("name", err)
			}
		}
		if len(a) > maxLabelLength {
			return Name{}, encodeErr("name", ErrLabelTooLong)
		}
		asciiLabels[i] = a
	}
	ascii := strings.Join(asciiLabels, ".") + "."
	if len(ascii) > maxDomainLength {
		return Name{}, encodeErr("name", ErrNameTooLong)
	}
	return Name{unicode: s, ascii: ascii}, nil
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}

// String returns the original (possibly U-label) display form.
func (n Name) String() string {
	if n.unicode == "" {
		return n.ascii
	}
	return n.unicode
}

// Punycode returns the ASCII A-label form, for --puny output.
func (n Name) Punycode() string { return n.ascii }

// ASCII returns the dotted ASCII form used for wire encoding.
func (n Name) ASCII() string { return n.ascii }

// Encode appends the name in wire format (length-prefixed labels terminated
// by a zero octet) to w. The codec never emits compression pointers on
// output — see spec: "a correct implementation need only emit pointer-free
// names on output, but must accept compressed names on input".
func (n Name) Encode(w *Writer) error {
	ascii := n.ascii
	if ascii == "" {
		ascii = "."
	}
	if ascii == "." {
		w.WriteByte(0)
		return nil
	}
	labels := strings.Split(strings.TrimSuffix(ascii, "."), ".")
	total := 0
	for _, lbl := range labels {
		if len(lbl) == 0 || len(lbl) > maxLabelLength {
			return encodeErr("name", ErrLabelTooLong)
		}
		total += len(lbl) + 1
	}
	total++ // terminating zero
	if total > maxDomainLength {
		return encodeErr("name", ErrNameTooLong)
	}
	for _, lbl := range labels {
		w.WriteByte(byte(len(lbl)))
		w.WriteBytes([]byte(lbl))
	}
	w.WriteByte(0)
	return nil
}

// DecodeName reads a domain name starting at the reader's current offset,
// following compression pointers. It separates the "cursor after this
// name" (advanced exactly once, at the first pointer jump) from the
// "cursor used to resolve pointers" (which may jump backward repeatedly),
// and bounds both recursion depth and the set of visited offsets to refuse
// cyclic or runaway pointer chains.
func DecodeName(r *Reader) (Name, error) {
	start := r.off
	var sb strings.Builder
	labels := 0
	visited := make(map[int]bool)
	depth := 0

	cursor := r.off
	followedPointer := false
	finalOffset := -1

	for {
		if cursor >= len(r.msg) {
			return Name{}, decodeErr(start, "name", errors.New("offset out of bounds"))
		}
		b := r.msg[cursor]

		switch b & 0xC0 {
		case 0x00: // length-prefixed label
			length := int(b)
			if length == 0 {
				cursor++
				if !followedPointer {
					finalOffset = cursor
				}
				goto done
			}
			if length > maxLabelLength {
				return Name{}, decodeErr(cursor, "name", ErrLabelTooLong)
			}
			cursor++
			if cursor+length > len(r.msg) {
				return Name{}, decodeErr(cursor, "name", errors.New("label runs past message end"))
			}
			if labels > 0 {
				sb.WriteByte('.')
			}
			sb.Write(r.msg[cursor : cursor+length])
			labels++
			cursor += length
			if sb.Len() > maxDomainLength {
				return Name{}, decodeErr(start, "name", ErrNameTooLong)
			}

		case 0xC0: // compression pointer
			if cursor+1 >= len(r.msg) {
				return Name{}, decodeErr(cursor, "name", errors.New("truncated pointer"))
			}
			ptr := int(b&0x3F)<<8 | int(r.msg[cursor+1])
			if !followedPointer {
				finalOffset = cursor + 2
			}
			if ptr >= cursor {
				return Name{}, decodeErr(cursor, "name", ErrCompressionLoop)
			}
			if visited[ptr] {
				return Name{}, decodeErr(cursor, "name", ErrCompressionLoop)
			}
			visited[ptr] = true
			depth++
			if depth > maxPointerDepth {
				return Name{}, decodeErr(cursor, "name", ErrPointerDepth)
			}
			followedPointer = true
			cursor = ptr

		default: // 0x40, 0x80 reserved
			return Name{}, decodeErr(cursor, "name", ErrReservedLabelBits)
		}
	}

done:
	r.off = finalOffset
	if labels == 0 {
		return Name{unicode: ".", ascii: "."}, nil
	}
	ascii := sb.String() + "."
	unicode := ascii
	if u, err := idnaProfile.ToUnicode(strings.TrimSuffix(ascii, ".")); err == nil {
		unicode = u + "."
	}
	return Name{unicode: unicode, ascii: ascii}, nil
}
