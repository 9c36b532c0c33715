package schema

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/ardnew/usbdesc/descriptor"
	"github.com/ardnew/usbdesc/pkg"
)

// Tree is a parsed definition file.
type Tree struct {
	Source  string   // File path or stream name
	Entries []*Entry // Top-level descriptors in file order
}

// Entry is one descriptor of a definition.
type Entry struct {
	Path     string // Location in the file, such as "descriptor[1].children[0]"
	Kind     Kind
	Name     string // Optional C identifier used by the listing
	Options  any    // Pointer to the kind's options, decoded over its defaults
	Children []*Entry
}

// Root is a built top-level descriptor.
type Root struct {
	Name string // C identifier used by the listing
	Node descriptor.Node
}

// LoadFile reads a definition from a .toml, .yaml or .yml file.
func LoadFile(path string) (*Tree, error) {
	var decode func(io.Reader, string) (*Tree, error)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		decode = DecodeTOML
	case ".yaml", ".yml":
		decode = DecodeYAML
	default:
		return nil, fmt.Errorf("%s: %w: extension %q", path, pkg.ErrUnsupportedFormat, filepath.Ext(path))
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load definition: %w", err)
	}
	defer f.Close()

	tree, err := decode(f, path)
	if err != nil {
		return nil, err
	}
	pkg.LogInfo(pkg.ComponentLoader, "loaded definition", "source", path, "descriptors", len(tree.Entries))
	return tree, nil
}

// DecodeTOML reads a definition in TOML form. source names the input in
// errors.
//
//	[[descriptor]]
//	kind = "configuration"
//	max_power_ma = 500
//
//	[[descriptor.children]]
//	kind = "interface"
func DecodeTOML(r io.Reader, source string) (*Tree, error) {
	var doc struct {
		Descriptors []toml.Primitive `toml:"descriptor"`
	}
	meta, err := toml.NewDecoder(r).Decode(&doc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", source, err)
	}

	decoder := func(p toml.Primitive) decodeFunc {
		return func(v any) error {
			return meta.PrimitiveDecode(p, v)
		}
	}
	tree := &Tree{Source: source}
	for i, p := range doc.Descriptors {
		e, err := decodeEntry(fmt.Sprintf("descriptor[%d]", i), "toml", decoder(p), decoder)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", source, err)
		}
		tree.Entries = append(tree.Entries, e)
	}

	// Entry keys are checked per entry; anything left at the top level is
	// not part of the format.
	for _, key := range meta.Undecoded() {
		if len(key) == 1 {
			return nil, fmt.Errorf("%s: %w: %q", source, pkg.ErrUnknownOption, key.String())
		}
	}
	return tree.check()
}

// DecodeYAML reads a definition in YAML form. source names the input in
// errors.
//
//	descriptor:
//	  - kind: configuration
//	    max_power_ma: 500
//	    children:
//	      - kind: interface
func DecodeYAML(r io.Reader, source string) (*Tree, error) {
	var doc struct {
		Descriptors []yaml.Node `yaml:"descriptor"`
	}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%s: %w", source, err)
	}

	decoder := func(n yaml.Node) decodeFunc {
		return n.Decode
	}
	tree := &Tree{Source: source}
	for i, n := range doc.Descriptors {
		e, err := decodeEntry(fmt.Sprintf("descriptor[%d]", i), "yaml", decoder(n), decoder)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", source, err)
		}
		tree.Entries = append(tree.Entries, e)
	}
	return tree.check()
}

func (t *Tree) check() (*Tree, error) {
	if len(t.Entries) == 0 {
		return nil, fmt.Errorf("%s: no descriptor entries: %w", t.Source, pkg.ErrEmptyInput)
	}
	return t, nil
}

// decodeFunc decodes one entry of the document into v.
type decodeFunc func(v any) error

// entryHeader holds the keys shared by every entry. C is the format's
// undecoded value type.
type entryHeader[C any] struct {
	Kind     string `toml:"kind" yaml:"kind"`
	Name     string `toml:"name" yaml:"name"`
	Children []C    `toml:"children" yaml:"children"`
}

var headerKeys = map[string]bool{"kind": true, "name": true, "children": true}

func decodeEntry[C any](path, tag string, decode decodeFunc, child func(C) decodeFunc) (*Entry, error) {
	var head entryHeader[C]
	if err := decode(&head); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	kind := Kind(head.Kind)
	opts, err := DefaultOptions(kind)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	var raw map[string]any
	if err := decode(&raw); err != nil {
		return nil, fmt.Errorf("%s (%s): %w", path, kind, err)
	}
	if key := unknownKey(raw, optionKeys(opts, tag)); key != "" {
		return nil, fmt.Errorf("%s (%s): %w: %q", path, kind, pkg.ErrUnknownOption, key)
	}
	if err := decode(opts); err != nil {
		return nil, fmt.Errorf("%s (%s): %w", path, kind, err)
	}
	if len(head.Children) > 0 && !kind.Container() {
		return nil, fmt.Errorf("%s (%s): %w", path, kind, pkg.ErrChildrenNotAllowed)
	}

	e := &Entry{Path: path, Kind: kind, Name: head.Name, Options: opts}
	for i, c := range head.Children {
		ce, err := decodeEntry(fmt.Sprintf("%s.children[%d]", path, i), tag, child(c), child)
		if err != nil {
			return nil, err
		}
		e.Children = append(e.Children, ce)
	}
	return e, nil
}

// optionKeys returns the key names declared by the tag on each field of
// the struct opts points to.
func optionKeys(opts any, tag string) map[string]bool {
	t := reflect.TypeOf(opts)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	keys := make(map[string]bool, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		name, _, _ := strings.Cut(t.Field(i).Tag.Get(tag), ",")
		if name != "" && name != "-" {
			keys[name] = true
		}
	}
	return keys
}

// unknownKey returns the lexically first key of raw that is neither a
// header key nor in allowed.
func unknownKey(raw map[string]any, allowed map[string]bool) string {
	var unknown []string
	for key := range raw {
		if !headerKeys[key] && !allowed[key] {
			unknown = append(unknown, key)
		}
	}
	if len(unknown) == 0 {
		return ""
	}
	sort.Strings(unknown)
	return unknown[0]
}

// Build builds every top-level entry. Entries without a name are named
// after their kind, such as "device_descriptor", with a numeric suffix
// when that name is already used or claimed by a named entry.
func (t *Tree) Build(b *Builder) ([]Root, error) {
	roots := make([]Root, 0, len(t.Entries))
	used := make(map[string]bool, len(t.Entries))
	named := make(map[string]bool, len(t.Entries))
	for _, e := range t.Entries {
		if e.Name != "" {
			named[e.Name] = true
		}
	}
	taken := func(name string) bool { return used[name] || named[name] }
	for i, e := range t.Entries {
		n, err := e.Build(b)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", t.Source, err)
		}
		name := e.Name
		if name == "" {
			base := string(e.Kind) + "_descriptor"
			name = base
			for k := i; taken(name); k++ {
				name = fmt.Sprintf("%s_%d", base, k)
			}
		}
		if used[name] {
			return nil, fmt.Errorf("%s: %s: duplicate name %q: %w", t.Source, e.Path, name, pkg.ErrEncoding)
		}
		used[name] = true
		roots = append(roots, Root{Name: name, Node: n})
	}
	return roots, nil
}

// Build builds the entry and its children.
func (e *Entry) Build(b *Builder) (descriptor.Node, error) {
	children := make([]descriptor.Node, 0, len(e.Children))
	for _, c := range e.Children {
		n, err := c.Build(b)
		if err != nil {
			return nil, err
		}
		children = append(children, n)
	}
	n, err := b.Build(e.Kind, e.Options, children...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", e.Path, err)
	}
	return n, nil
}
