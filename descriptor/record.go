package descriptor

// Node is a descriptor in a tree: a [*Record] or a [*Container].
type Node interface {
	// Type returns the descriptor type code.
	Type() uint8

	// Len returns the node's own serialized length: the length byte, the
	// type byte and every content field, excluding children. This is the
	// value of the emitted length byte.
	Len() int

	// TotalLen returns Len plus the TotalLen of every child.
	TotalLen() int

	// Content returns a copy of the type field followed by the content
	// fields, in emission order.
	Content() []Field

	// Children returns the direct children in insertion order.
	Children() []Node

	fieldList() []Field
	resolve() (int, error)
}

// Record is an ordered sequence of fields describing one descriptor.
// The length byte is not stored; it is derived from the fields when the
// record is rendered.
type Record struct {
	fields []Field // fields[0] is the type field
	head   int     // index where Prepend inserts
}

// NewRecord returns an empty record of the given descriptor type.
func NewRecord(descriptorType uint8) *Record {
	return &Record{
		fields: []Field{byteField(descriptorType, LabelType)},
		head:   1,
	}
}

// Type returns the descriptor type code.
func (r *Record) Type() uint8 {
	return r.fields[0].data[0]
}

// Append adds fields after the current content.
func (r *Record) Append(fields ...Field) {
	r.fields = append(r.fields, fields...)
}

// Prepend inserts fields immediately after the type field (after the
// size and count fields for a [Container]), ahead of earlier content.
func (r *Record) Prepend(fields ...Field) {
	if len(fields) == 0 {
		return
	}
	out := make([]Field, 0, len(r.fields)+len(fields))
	out = append(out, r.fields[:r.head]...)
	out = append(out, fields...)
	out = append(out, r.fields[r.head:]...)
	r.fields = out
}

// ContentLen returns the combined width of the content fields, excluding
// the length and type bytes.
func (r *Record) ContentLen() int {
	n := 0
	for _, f := range r.fields[1:] {
		n += f.Len()
	}
	return n
}

// Len returns 2 + ContentLen: the value of the record's length byte.
func (r *Record) Len() int {
	return 2 + r.ContentLen()
}

// TotalLen equals Len for a record.
func (r *Record) TotalLen() int {
	return r.Len()
}

// Content returns a copy of the type field followed by the content fields.
func (r *Record) Content() []Field {
	return append([]Field(nil), r.fields...)
}

// Children returns nil; a record has no children.
func (r *Record) Children() []Node {
	return nil
}

func (r *Record) fieldList() []Field {
	return r.fields
}

func (r *Record) resolve() (int, error) {
	return r.Len(), nil
}
