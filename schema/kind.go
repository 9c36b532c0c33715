package schema

import (
	"fmt"
	"sort"

	"github.com/ardnew/usbdesc/descriptor"
	"github.com/ardnew/usbdesc/pkg"
	"github.com/ardnew/usbdesc/schema/video"
)

// Kind names a descriptor the schema can build.
type Kind string

// Descriptor kinds.
const (
	KindDevice         Kind = "device"
	KindConfiguration  Kind = "configuration"
	KindInterface      Kind = "interface"
	KindEndpoint       Kind = "endpoint"
	KindIAD            Kind = "iad"
	KindString         Kind = "string"
	KindLanguage       Kind = "language"
	KindBOS            Kind = "bos"
	KindUSB2Extension  Kind = "usb2_extension"
	KindContainerID    Kind = "container_id"
	KindVCHeader       Kind = "vc_header"
	KindInputTerminal  Kind = "input_terminal"
	KindCameraTerminal Kind = "camera_terminal"
	KindOutputTerminal Kind = "output_terminal"
)

// Names resolves vendor and product IDs to display names.
// The usbid.Database in pkg/usbid satisfies it.
type Names interface {
	LookupVendor(vid uint16) string
	LookupProduct(vid, pid uint16) string
}

// Builder builds descriptor nodes by kind.
// The zero value is ready to use.
type Builder struct {
	Names Names // Optional; annotates device vendor and product labels
}

// kindSpec describes how to build one kind.
type kindSpec struct {
	summary   string
	container bool
	defaults  func() any // returns a pointer to default options
	build     func(b *Builder, opts any, children []descriptor.Node) (descriptor.Node, error)
}

var catalog = map[Kind]kindSpec{
	KindDevice: {
		summary:  "Device descriptor",
		defaults: pointerTo(DefaultDeviceOptions),
		build: func(b *Builder, opts any, _ []descriptor.Node) (descriptor.Node, error) {
			o, err := optionsAs[DeviceOptions](opts)
			if err != nil {
				return nil, err
			}
			return node[*descriptor.Record](b.Device(o))
		},
	},
	KindConfiguration: {
		summary:   "Configuration descriptor owning interfaces",
		container: true,
		defaults:  pointerTo(DefaultConfigurationOptions),
		build:     containerBuilder(Configuration),
	},
	KindInterface: {
		summary:   "Interface descriptor owning endpoints and class-specific descriptors",
		container: true,
		defaults:  pointerTo(DefaultInterfaceOptions),
		build:     containerBuilder(Interface),
	},
	KindEndpoint: {
		summary:  "Endpoint descriptor",
		defaults: pointerTo(DefaultEndpointOptions),
		build:    recordBuilder(Endpoint),
	},
	KindIAD: {
		summary:   "Interface association descriptor grouping interfaces",
		container: true,
		defaults:  pointerTo(DefaultIADOptions),
		build:     containerBuilder(IAD),
	},
	KindString: {
		summary:  "String descriptor",
		defaults: pointerTo(DefaultStringOptions),
		build:    recordBuilder(String),
	},
	KindLanguage: {
		summary:  "Language ID table (string descriptor zero)",
		defaults: pointerTo(DefaultLanguageOptions),
		build:    recordBuilder(Language),
	},
	KindBOS: {
		summary:   "Binary device Object Store owning device capabilities",
		container: true,
		defaults:  pointerTo(DefaultBOSOptions),
		build:     containerBuilder(BOS),
	},
	KindUSB2Extension: {
		summary:  "USB 2.0 Extension device capability",
		defaults: pointerTo(DefaultUSB2ExtensionOptions),
		build:    recordBuilder(USB2Extension),
	},
	KindContainerID: {
		summary:  "Container ID device capability",
		defaults: pointerTo(DefaultContainerIDOptions),
		build:    recordBuilder(ContainerID),
	},
	KindVCHeader: {
		summary:   "Video class VideoControl header owning units and terminals",
		container: true,
		defaults:  pointerTo(video.DefaultHeaderOptions),
		build:     containerBuilder(video.Header),
	},
	KindInputTerminal: {
		summary:  "Video class input terminal",
		defaults: pointerTo(video.DefaultInputTerminalOptions),
		build:    recordBuilder(video.InputTerminal),
	},
	KindCameraTerminal: {
		summary:  "Video class camera terminal",
		defaults: pointerTo(video.DefaultCameraTerminalOptions),
		build:    recordBuilder(video.CameraTerminal),
	},
	KindOutputTerminal: {
		summary:  "Video class output terminal",
		defaults: pointerTo(video.DefaultOutputTerminalOptions),
		build:    recordBuilder(video.OutputTerminal),
	},
}

// Kinds returns every known kind in lexical order.
func Kinds() []Kind {
	kinds := make([]Kind, 0, len(catalog))
	for k := range catalog {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// Known reports whether k is in the catalog.
func (k Kind) Known() bool {
	_, ok := catalog[k]
	return ok
}

// Container reports whether k accepts children.
func (k Kind) Container() bool {
	return catalog[k].container
}

// Summary returns a one-line description of k, or "" if k is unknown.
func (k Kind) Summary() string {
	return catalog[k].summary
}

// DefaultOptions returns a pointer to the default options of kind, such
// as *DeviceOptions for [KindDevice].
func DefaultOptions(kind Kind) (any, error) {
	spec, ok := catalog[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", pkg.ErrUnknownKind, kind)
	}
	return spec.defaults(), nil
}

// Build builds a node of the given kind. opts is the kind's options
// struct or a pointer to it; nil selects the defaults. Only container
// kinds accept children.
func (b *Builder) Build(kind Kind, opts any, children ...descriptor.Node) (descriptor.Node, error) {
	spec, ok := catalog[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", pkg.ErrUnknownKind, kind)
	}
	if !spec.container && len(children) > 0 {
		return nil, fmt.Errorf("%s: %w", kind, pkg.ErrChildrenNotAllowed)
	}
	if opts == nil {
		opts = spec.defaults()
	}
	n, err := spec.build(b, opts, children)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", kind, err)
	}
	pkg.LogDebug(pkg.ComponentSchema, "built descriptor",
		"kind", string(kind), "type", descriptor.TypeName(n.Type()), "length", n.Len(), "children", len(children))
	return n, nil
}

func pointerTo[T any](defaults func() T) func() any {
	return func() any {
		o := defaults()
		return &o
	}
}

// optionsAs accepts T or *T.
func optionsAs[T any](opts any) (T, error) {
	switch o := opts.(type) {
	case T:
		return o, nil
	case *T:
		if o != nil {
			return *o, nil
		}
	}
	var zero T
	return zero, fmt.Errorf("options %T: %w", opts, pkg.ErrTypeMismatch)
}

// node converts a typed result to a Node without wrapping a nil pointer.
func node[T descriptor.Node](n T, err error) (descriptor.Node, error) {
	if err != nil {
		return nil, err
	}
	return n, nil
}

func recordBuilder[T any](fn func(T) (*descriptor.Record, error)) func(*Builder, any, []descriptor.Node) (descriptor.Node, error) {
	return func(_ *Builder, opts any, _ []descriptor.Node) (descriptor.Node, error) {
		o, err := optionsAs[T](opts)
		if err != nil {
			return nil, err
		}
		return node[*descriptor.Record](fn(o))
	}
}

func containerBuilder[T any](fn func(T, ...descriptor.Node) (*descriptor.Container, error)) func(*Builder, any, []descriptor.Node) (descriptor.Node, error) {
	return func(_ *Builder, opts any, children []descriptor.Node) (descriptor.Node, error) {
		o, err := optionsAs[T](opts)
		if err != nil {
			return nil, err
		}
		return node[*descriptor.Container](fn(o, children...))
	}
}
