package descriptor

import (
	"bufio"
	"bytes"
	"fmt"
	"io"

	"github.com/ardnew/usbdesc/pkg"
)

// Resolve recomputes the total size and child count fields of every
// container under n and returns n's total length. The render functions
// call it on entry; it is exported for callers that inspect size fields
// without rendering.
func Resolve(n Node) (int, error) {
	return n.resolve()
}

// lengthField builds the length byte of n.
func lengthField(n Node) (Field, error) {
	f, err := Uint8(n.Len(), LabelLength)
	if err != nil {
		return Field{}, fmt.Errorf("%s: %w", TypeName(n.Type()), err)
	}
	return f, nil
}

// Bytes resolves n and returns its serialized form: the length byte, the
// type byte and content fields of n, followed by each child's
// serialization in insertion order.
func Bytes(n Node) ([]byte, error) {
	total, err := n.resolve()
	if err != nil {
		return nil, err
	}
	out, err := appendNode(make([]byte, 0, total), n)
	if err != nil {
		return nil, err
	}
	pkg.LogDebug(pkg.ComponentRender, "rendered descriptor", "type", TypeName(n.Type()), "bytes", len(out))
	return out, nil
}

func appendNode(dst []byte, n Node) ([]byte, error) {
	length, err := lengthField(n)
	if err != nil {
		return nil, err
	}
	dst = length.AppendTo(dst)
	for _, f := range n.fieldList() {
		dst = f.AppendTo(dst)
	}
	for _, child := range n.Children() {
		if dst, err = appendNode(dst, child); err != nil {
			return nil, err
		}
	}
	return dst, nil
}

// Text resolves n and returns its annotated text form. See [WriteText].
func Text(n Node) (string, error) {
	var buf bytes.Buffer
	if err := WriteText(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// WriteText resolves n and writes its annotated text form to w. Each node
// is a brace-delimited block with one tab-indented line per field; before
// each child block a container writes a comment naming the child's type.
//
//	{
//		0x03,        /* Descriptor Size */
//		0x01,        /* Descriptor Type */
//		0x05,        /* X */
//	}
func WriteText(w io.Writer, n Node) error {
	if _, err := n.resolve(); err != nil {
		return err
	}
	bw := bufio.NewWriter(w)
	if err := writeBlock(bw, n); err != nil {
		return err
	}
	return bw.Flush()
}

func writeBlock(w *bufio.Writer, n Node) error {
	lines, err := nodeLines(n)
	if err != nil {
		return err
	}
	w.WriteString("{\n")
	for _, line := range lines {
		fmt.Fprintf(w, "\t%s\n", line)
	}
	w.WriteString("}\n")
	for _, child := range n.Children() {
		fmt.Fprintf(w, "/* %s */\n", TypeName(child.Type()))
		if err := writeBlock(w, child); err != nil {
			return err
		}
	}
	return nil
}

// nodeLines returns the text lines of n's own fields.
func nodeLines(n Node) ([]string, error) {
	length, err := lengthField(n)
	if err != nil {
		return nil, err
	}
	lines := length.Lines()
	for _, f := range n.fieldList() {
		lines = append(lines, f.Lines()...)
	}
	return lines, nil
}

// WriteC resolves n and writes it as a C array definition named name,
// with one annotated line per field and a comment before each
// descriptor.
//
//	static const unsigned char name[] = {
//		/* Device (0x01) */
//		0x12,        /* Descriptor Size */
//		...
//	};
func WriteC(w io.Writer, name string, n Node) error {
	if !isIdentifier(name) {
		return fmt.Errorf("array name %q: %w", name, pkg.ErrEncoding)
	}
	total, err := n.resolve()
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "/* %d bytes */\n", total)
	fmt.Fprintf(bw, "static const unsigned char %s[] = {\n", name)
	if err := writeListing(bw, n); err != nil {
		return err
	}
	bw.WriteString("};\n")
	return bw.Flush()
}

func writeListing(w *bufio.Writer, n Node) error {
	lines, err := nodeLines(n)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "\t/* %s */\n", TypeName(n.Type()))
	for _, line := range lines {
		fmt.Fprintf(w, "\t%s\n", line)
	}
	for _, child := range n.Children() {
		if err := writeListing(w, child); err != nil {
			return err
		}
	}
	return nil
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, c := range s {
		switch {
		case c == '_', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}
