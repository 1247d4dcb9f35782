package wire

import (
	"fmt"
	"strings"
)

// RDataTXT is a sequence of one or more character-strings (RFC 1035
// §3.3.14): never a single string, even when only one chunk is present.
type RDataTXT struct {
	Strings [][]byte
}

func decodeTXT(r *Reader, rdlength int) (*RDataTXT, error) {
	end := r.Offset() + rdlength
	var t RDataTXT
	for r.Offset() < end {
		s, err := r.ReadCharString()
		if err != nil {
			return nil, err
		}
		t.Strings = append(t.Strings, s)
	}
	return &t, nil
}

func (t *RDataTXT) Encode(w *Writer) error {
	if len(t.Strings) == 0 {
		return w.WriteCharString(nil)
	}
	for _, s := range t.Strings {
		if err := w.WriteCharString(s); err != nil {
			return err
		}
	}
	return nil
}

func (t *RDataTXT) String() string {
	parts := make([]string, len(t.Strings))
	for i, s := range t.Strings {
		parts[i] = fmt.Sprintf("%q", s)
	}
	return strings.Join(parts, " ")
}
