// Package descriptor composes and serializes length-prefixed, type-tagged
// descriptor tables such as USB device descriptor hierarchies.
//
// The package knows nothing about individual descriptor kinds. It provides
// the building blocks the schema layer assembles:
//
//   - [Field] is an immutable, fixed-width encoded value with a label
//   - Encoders ([Uint8], [Uint16], [BCD16], [Bitmap], [UTF16String], ...)
//     produce fields and enforce range and shape rules
//   - [FieldSet] collects encoder results and keeps the first error
//   - [Record] is an ordered sequence of fields with a type code
//   - [Container] is a record that owns child records and containers and
//     carries a total size and a child count field
//
// # Wire Layout
//
// Every node serializes as its length byte, its type byte, its content
// fields, and then (for containers) each child in insertion order:
//
//	bLength  bDescriptorType  [wTotalLength  bNumChildren]  fields...  children...
//
// The length byte counts itself, the type byte and every content field but
// not children. A container's total size counts its own length plus the
// full length of every descendant; its child count covers direct children
// only.
//
// # Two-Phase Sizing
//
// Trees are assembled freely with [Record.Append], [Record.Prepend] and
// [Container.Add]. Size and count fields are recomputed in a single
// post-order pass when the tree is rendered with [Bytes], [Text],
// [WriteText] or [WriteC]. Rendering is idempotent; after further
// mutation the next render updates the size fields.
//
// # Errors
//
// Encoders return a [*pkg.FieldError] naming the field label and the
// offending value, wrapping [pkg.ErrRange], [pkg.ErrEncoding],
// [pkg.ErrOverflow], [pkg.ErrEmptyInput] or [pkg.ErrTypeMismatch].
//
// # Example
//
//	r := descriptor.NewRecord(0x01)
//	x, err := descriptor.Uint8(5, "X")
//	if err != nil {
//	    return err
//	}
//	r.Append(x)
//	b, _ := descriptor.Bytes(r) // 03 01 05
//
// A tree is owned by one goroutine at a time. Rendering writes the size
// fields, so the same tree must not be rendered concurrently.
package descriptor
