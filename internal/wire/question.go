package wire

// Question is a single entry of the Question section: (QNAME, QTYPE, QCLASS).
type Question struct {
	Name  Name
	Type  Type
	Class Class
}

func (q Question) Encode(w *Writer) error {
	if err := q.Name.Encode(w); err != nil {
		return err
	}
	w.WriteUint16(uint16(q.Type))
	w.WriteUint16(uint16(q.Class))
	return nil
}

func DecodeQuestion(r *Reader) (Question, error) {
	var q Question
	name, err := r.ReadName()
	if err != nil {
		return q, err
	}
	t, err := r.ReadUint16()
	if err != nil {
		return q, decodeErr(r.Offset(), "question.qtype", err)
	}
	c, err := r.ReadUint16()
	if err != nil {
		return q, decodeErr(r.Offset(), "question.qclass", err)
	}
	q.Name, q.Type, q.Class = name, Type(t), Class(c)
	return q, nil
}
