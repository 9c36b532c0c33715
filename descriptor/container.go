package descriptor

import (
	"fmt"

	"github.com/ardnew/usbdesc/pkg"
)

// ChildCounter computes the value of a container's child count field from
// its direct children.
type ChildCounter func(children []Node) int

// ContainerOption configures the header layout of a [Container].
type ContainerOption func(*containerLayout)

type containerLayout struct {
	leading    []Field
	size       bool
	count      bool
	sizeLabel  string
	countLabel string
	counter    ChildCounter
}

// WithLeadingFields places fields between the type byte and the total
// size field.
func WithLeadingFields(fields ...Field) ContainerOption {
	return func(l *containerLayout) {
		l.leading = append(l.leading, fields...)
	}
}

// WithoutTotalSize omits the 2-byte total size field.
func WithoutTotalSize() ContainerOption {
	return func(l *containerLayout) {
		l.size = false
	}
}

// WithoutChildCount omits the 1-byte child count field.
func WithoutChildCount() ContainerOption {
	return func(l *containerLayout) {
		l.count = false
	}
}

// WithChildCounter replaces the direct-child count with counter.
func WithChildCounter(counter ChildCounter) ContainerOption {
	return func(l *containerLayout) {
		l.counter = counter
	}
}

// WithSizeLabel sets the label of the total size field.
func WithSizeLabel(label string) ContainerOption {
	return func(l *containerLayout) {
		l.sizeLabel = label
	}
}

// WithCountLabel sets the label of the child count field.
func WithCountLabel(label string) ContainerOption {
	return func(l *containerLayout) {
		l.countLabel = label
	}
}

// Container is a record that owns an ordered list of child descriptors.
//
// By default the type byte is followed by a 2-byte total size field and a
// 1-byte child count field, then the content fields. Both header fields
// hold zero until the container is rendered: rendering resolves every
// container in the tree in one post-order pass, so adding children never
// touches them.
type Container struct {
	Record
	children []Node
	sizeIdx  int // index of the total size field, or -1
	countIdx int // index of the child count field, or -1
	counter  ChildCounter
}

// NewContainer returns an empty container of the given descriptor type.
func NewContainer(descriptorType uint8, opts ...ContainerOption) *Container {
	layout := containerLayout{
		size:       true,
		count:      true,
		sizeLabel:  LabelTotalSize,
		countLabel: LabelChildCount,
	}
	for _, opt := range opts {
		opt(&layout)
	}

	c := &Container{
		Record:   *NewRecord(descriptorType),
		sizeIdx:  -1,
		countIdx: -1,
		counter:  layout.counter,
	}
	c.fields = append(c.fields, layout.leading...)
	if layout.size {
		c.sizeIdx = len(c.fields)
		c.fields = append(c.fields, Field{label: layout.sizeLabel, encoding: EncodingUint, data: make([]byte, 2)})
	}
	if layout.count {
		c.countIdx = len(c.fields)
		c.fields = append(c.fields, byteField(0, layout.countLabel))
	}
	c.head = len(c.fields)
	return c
}

// Add appends children in order. Size fields are not recomputed until
// the tree is rendered.
func (c *Container) Add(children ...Node) {
	c.children = append(c.children, children...)
}

// Children returns a copy of the direct children in insertion order.
func (c *Container) Children() []Node {
	return append([]Node(nil), c.children...)
}

// ChildCount returns the value the child count field will hold after
// rendering.
func (c *Container) ChildCount() int {
	if c.counter != nil {
		return c.counter(c.Children())
	}
	return len(c.children)
}

// TotalLen returns the container's own length plus the full recursive
// length of every child.
func (c *Container) TotalLen() int {
	n := c.Len()
	for _, child := range c.children {
		n += child.TotalLen()
	}
	return n
}

// TotalSize returns the value currently held by the total size field, or
// -1 if the container has none.
func (c *Container) TotalSize() int {
	if c.sizeIdx < 0 {
		return -1
	}
	return int(c.fields[c.sizeIdx].Value())
}

func (c *Container) resolve() (int, error) {
	total := c.Len()
	for _, child := range c.children {
		n, err := child.resolve()
		if err != nil {
			return 0, err
		}
		total += n
	}
	if c.sizeIdx >= 0 {
		label := c.fields[c.sizeIdx].label
		f, err := Uint16(total, label)
		if err != nil {
			return 0, fmt.Errorf("%s: %w", TypeName(c.Type()), err)
		}
		c.fields[c.sizeIdx] = f
	}
	if c.countIdx >= 0 {
		label := c.fields[c.countIdx].label
		f, err := Uint8(c.ChildCount(), label)
		if err != nil {
			return 0, fmt.Errorf("%s: %w", TypeName(c.Type()), err)
		}
		c.fields[c.countIdx] = f
	}
	pkg.LogDebug(pkg.ComponentRecord, "resolved container",
		"type", TypeName(c.Type()), "length", c.Len(), "total", total, "children", len(c.children))
	return total, nil
}

// Walk calls fn for n and then, in order, its descendants. If fn returns
// false the node's children are skipped.
func Walk(n Node, fn func(Node) bool) {
	if !fn(n) {
		return
	}
	for _, child := range n.Children() {
		Walk(child, fn)
	}
}
