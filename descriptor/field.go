package descriptor

import (
	"fmt"
	"strings"
)

// Encoding identifies how a field's value was turned into bytes.
type Encoding uint8

// Field encodings.
const (
	EncodingUint   Encoding = iota // Little-endian unsigned integer
	EncodingBCD                    // Binary-coded decimal version
	EncodingBitmap                 // Bit-packed flags and small integers
	EncodingString                 // UTF-16LE code units
	EncodingOctets                 // Raw bytes
)

// String returns the encoding name.
func (e Encoding) String() string {
	switch e {
	case EncodingUint:
		return "uint"
	case EncodingBCD:
		return "bcd16"
	case EncodingBitmap:
		return "bitmap"
	case EncodingString:
		return "utf16"
	case EncodingOctets:
		return "octets"
	default:
		return fmt.Sprintf("encoding(%d)", uint8(e))
	}
}

// literalColumn is the width of the value cell preceding a field comment.
const literalColumn = 12

// octetsPerLine is the number of raw bytes rendered per text line.
const octetsPerLine = 8

// Field is an encoded value of fixed byte width with a human-readable
// label. Fields are immutable once constructed; the zero Field is empty.
type Field struct {
	label    string
	encoding Encoding
	msbFirst bool
	data     []byte // encoded bytes in wire order
}

// Label returns the field's comment label.
func (f Field) Label() string {
	return f.label
}

// Encoding returns the encoding used to produce the field.
func (f Field) Encoding() Encoding {
	return f.encoding
}

// Len returns the encoded width in bytes.
func (f Field) Len() int {
	return len(f.data)
}

// Bytes returns a copy of the encoded bytes in wire order.
func (f Field) Bytes() []byte {
	return append([]byte(nil), f.data...)
}

// AppendTo appends the encoded bytes to dst and returns the extended slice.
func (f Field) AppendTo(dst []byte) []byte {
	return append(dst, f.data...)
}

// Value decodes numeric fields (uint, bcd16, bitmap) back to an integer.
// It returns 0 for string and octet fields.
func (f Field) Value() uint64 {
	switch f.encoding {
	case EncodingString, EncodingOctets:
		return 0
	}
	var v uint64
	if f.msbFirst {
		for _, b := range f.data {
			v = v<<8 | uint64(b)
		}
		return v
	}
	for i := len(f.data) - 1; i >= 0; i-- {
		v = v<<8 | uint64(f.data[i])
	}
	return v
}

// String returns the first rendered line of the field.
func (f Field) String() string {
	lines := f.Lines()
	if len(lines) == 0 {
		return ""
	}
	return lines[0]
}

// Lines returns the annotated text form of the field. The first line
// carries the label comment; string and octet fields continue on further
// lines.
func (f Field) Lines() []string {
	var literals []string
	switch f.encoding {
	case EncodingString:
		for i := 0; i+1 < len(f.data); i += 2 {
			literals = append(literals, charLiteral(f.data[i])+", "+charLiteral(f.data[i+1])+",")
		}
	case EncodingOctets:
		for i := 0; i < len(f.data); i += octetsPerLine {
			end := min(i+octetsPerLine, len(f.data))
			literals = append(literals, hexLiteral(f.data[i:end]))
		}
	default:
		literals = append(literals, hexLiteral(f.data))
	}
	if len(literals) == 0 {
		return nil
	}
	if f.label != "" {
		literals[0] = fmt.Sprintf("%-*s /* %s */", literalColumn, literals[0], f.label)
	}
	return literals
}

// hexLiteral renders bytes as comma-terminated hex literals.
func hexLiteral(data []byte) string {
	parts := make([]string, len(data))
	for i, b := range data {
		parts[i] = fmt.Sprintf("0x%02x,", b)
	}
	return strings.Join(parts, " ")
}

// charLiteral renders printable ASCII as a C character literal and
// anything else as hex.
func charLiteral(b byte) string {
	switch {
	case b == '\'' || b == '\\':
		return `'\` + string(b) + `'`
	case b >= ' ' && b <= '~':
		return "'" + string(b) + "'"
	default:
		return fmt.Sprintf("0x%02x", b)
	}
}
