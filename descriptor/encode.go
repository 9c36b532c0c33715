package descriptor

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"

	"github.com/ardnew/usbdesc/pkg"
)

// MaxUintWidth is the widest unsigned integer field in bytes.
const MaxUintWidth = 4

// MaxBitmapWidth is the widest bitmap field in bytes.
const MaxBitmapWidth = 8

// Uint encodes n as a little-endian unsigned integer of width bytes.
// It returns [pkg.ErrRange] if n does not fit, or if width is not in
// 1..[MaxUintWidth].
func Uint(width, n int, label string) (Field, error) {
	if width < 1 || width > MaxUintWidth {
		return Field{}, pkg.NewFieldError(label, width, pkg.ErrRange)
	}
	limit := uint64(1)<<(8*uint(width)) - 1
	if n < 0 || uint64(n) > limit {
		return Field{}, pkg.NewFieldError(label, n, pkg.ErrRange)
	}
	data := make([]byte, width)
	v := uint64(n)
	for i := range data {
		data[i] = byte(v)
		v >>= 8
	}
	return Field{label: label, encoding: EncodingUint, data: data}, nil
}

// Uint8 encodes n as a single byte.
func Uint8(n int, label string) (Field, error) {
	return Uint(1, n, label)
}

// Uint16 encodes n as two little-endian bytes.
func Uint16(n int, label string) (Field, error) {
	return Uint(2, n, label)
}

// Uint32 encodes n as four little-endian bytes.
func Uint32(n int, label string) (Field, error) {
	return Uint(4, n, label)
}

// byteField builds a one-byte field that cannot fail.
func byteField(b byte, label string) Field {
	return Field{label: label, encoding: EncodingUint, data: []byte{b}}
}

// BCD16 packs a decimal version number into two binary-coded-decimal
// bytes: 2.0 becomes 0x0200, 1.1 becomes 0x0110 and 10.5 becomes 0x1050.
// The version may have at most two integer digits and one fractional
// digit; anything else returns [pkg.ErrEncoding].
func BCD16(version float64, label string) (Field, error) {
	if math.IsNaN(version) || math.IsInf(version, 0) {
		return Field{}, pkg.NewFieldError(label, version, pkg.ErrEncoding)
	}
	f, err := BCD16String(strconv.FormatFloat(version, 'f', -1, 64), label)
	if err != nil {
		return Field{}, pkg.NewFieldError(label, version, pkg.ErrEncoding)
	}
	return f, nil
}

// BCD16String is [BCD16] for a version written as text, such as "2.0".
func BCD16String(version string, label string) (Field, error) {
	major, minor, _ := strings.Cut(strings.TrimSpace(version), ".")
	if len(major) < 1 || len(major) > 2 || len(minor) > 1 {
		return Field{}, pkg.NewFieldError(label, version, pkg.ErrEncoding)
	}
	digits := make([]byte, 0, 3)
	for _, c := range major + minor {
		if c < '0' || c > '9' {
			return Field{}, pkg.NewFieldError(label, version, pkg.ErrEncoding)
		}
		digits = append(digits, byte(c-'0'))
	}
	var hi, lo byte
	if len(major) == 2 {
		hi = digits[0]<<4 | digits[1]
	} else {
		hi = digits[0]
	}
	if len(minor) == 1 {
		lo = digits[len(digits)-1] << 4
	}
	return Field{label: label, encoding: EncodingBCD, data: []byte{lo, hi}}, nil
}

// ByteOrder selects how a multi-byte bitmap is emitted.
type ByteOrder uint8

// Bitmap byte orders.
const (
	MSBFirst ByteOrder = iota // Most significant byte first
	LSBFirst                  // Least significant byte first (USB wire order)
)

// Bits is a run of Width consecutive bitmap bits holding Value.
type Bits struct {
	Value uint64
	Width int
}

// Flag returns a one-bit run.
func Flag(set bool) Bits {
	if set {
		return Bits{Value: 1, Width: 1}
	}
	return Bits{Width: 1}
}

// Zero returns a run of width clear bits, used for reserved positions.
func Zero(width int) Bits {
	return Bits{Width: width}
}

// Bitmap packs parts into width bytes, most significant byte first.
// See [BitmapOrder].
func Bitmap(width int, label string, parts ...any) (Field, error) {
	return BitmapOrder(MSBFirst, width, label, parts...)
}

// BitmapOrder packs parts left to right, most significant bit first, and
// right-aligns the result in width bytes so unused high-order bits are
// zero. Each part is a bool (one bit) or a [Bits] run.
//
// It returns [pkg.ErrOverflow] if the parts need more than 8*width bits,
// [pkg.ErrRange] if a run's value does not fit its width, and
// [pkg.ErrTypeMismatch] for any other part type.
func BitmapOrder(order ByteOrder, width int, label string, parts ...any) (Field, error) {
	if width < 1 || width > MaxBitmapWidth {
		return Field{}, pkg.NewFieldError(label, width, pkg.ErrRange)
	}
	var acc uint64
	used := 0
	for _, part := range parts {
		var run Bits
		switch p := part.(type) {
		case bool:
			run = Flag(p)
		case Bits:
			run = p
		default:
			return Field{}, pkg.NewFieldError(label, part, pkg.ErrTypeMismatch)
		}
		if run.Width < 1 || run.Width > 64 {
			return Field{}, pkg.NewFieldError(label, run, pkg.ErrRange)
		}
		if run.Width < 64 && run.Value >= uint64(1)<<uint(run.Width) {
			return Field{}, pkg.NewFieldError(label, run, pkg.ErrRange)
		}
		used += run.Width
		if used > 8*width {
			return Field{}, pkg.NewFieldError(label, used, pkg.ErrOverflow)
		}
		acc = acc<<uint(run.Width) | run.Value
	}
	data := make([]byte, width)
	for i := 0; i < width; i++ {
		b := byte(acc >> (8 * uint(i)))
		if order == MSBFirst {
			data[width-1-i] = b
		} else {
			data[i] = b
		}
	}
	return Field{label: label, encoding: EncodingBitmap, msbFirst: order == MSBFirst, data: data}, nil
}

// utf16le encodes without a byte order mark.
var utf16le = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

// UTF16String encodes text as UTF-16LE code units, two bytes each.
// Characters outside the Basic Multilingual Plane become surrogate pairs
// and count as two code units. It returns [pkg.ErrEmptyInput] for an
// empty string and [pkg.ErrTypeMismatch] for invalid UTF-8.
func UTF16String(text string, label string) (Field, error) {
	if len(text) == 0 {
		return Field{}, pkg.NewFieldError(label, text, pkg.ErrEmptyInput)
	}
	if !utf8.ValidString(text) {
		return Field{}, pkg.NewFieldError(label, text, pkg.ErrTypeMismatch)
	}
	encoded, err := utf16le.NewEncoder().Bytes([]byte(text))
	if err != nil {
		return Field{}, pkg.NewFieldError(label, text, pkg.ErrEncoding)
	}
	return Field{label: label, encoding: EncodingString, data: encoded}, nil
}

// Octets copies data verbatim into a field.
// It returns [pkg.ErrEmptyInput] if data is empty.
func Octets(data []byte, label string) (Field, error) {
	if len(data) == 0 {
		return Field{}, pkg.NewFieldError(label, data, pkg.ErrEmptyInput)
	}
	return Field{label: label, encoding: EncodingOctets, data: append([]byte(nil), data...)}, nil
}
