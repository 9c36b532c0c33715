package schema

import (
	"github.com/google/uuid"

	"github.com/ardnew/usbdesc/descriptor"
	"github.com/ardnew/usbdesc/pkg"
)

// BOSOptions configures a Binary device Object Store descriptor. The
// descriptor has no settable fields; its total length and capability
// count come from its children.
type BOSOptions struct{}

// DefaultBOSOptions returns the empty option set.
func DefaultBOSOptions() BOSOptions {
	return BOSOptions{}
}

// BOS builds a BOS descriptor owning device capability descriptors.
func BOS(_ BOSOptions, children ...descriptor.Node) (*descriptor.Container, error) {
	c := descriptor.NewContainer(descriptor.DescriptorTypeBOS,
		descriptor.WithSizeLabel("Total length"),
		descriptor.WithCountLabel("Number of device capabilities"))
	c.Add(children...)
	return c, nil
}

// USB2ExtensionOptions configures a USB 2.0 Extension capability.
type USB2ExtensionOptions struct {
	LPM  bool `toml:"lpm" yaml:"lpm"`   // Link Power Management
	BESL bool `toml:"besl" yaml:"besl"` // BESL and alternate HIRD definitions
}

// DefaultUSB2ExtensionOptions returns a capability advertising LPM.
func DefaultUSB2ExtensionOptions() USB2ExtensionOptions {
	return USB2ExtensionOptions{LPM: true}
}

// USB2Extension builds a USB 2.0 Extension device capability (7 bytes).
// The 4-byte attributes bitmap is emitted least significant byte first.
func USB2Extension(o USB2ExtensionOptions) (*descriptor.Record, error) {
	var fs descriptor.FieldSet
	fs.Add(descriptor.Uint8(CapabilityUSB20Extension, "Capability type"))
	fs.Add(descriptor.BitmapOrder(descriptor.LSBFirst, 4, "Attributes",
		descriptor.Zero(29),
		o.BESL,
		o.LPM,
		false)) // reserved
	if err := fs.Err(); err != nil {
		return nil, err
	}
	r := descriptor.NewRecord(descriptor.DescriptorTypeDeviceCapability)
	r.Append(fs.Fields()...)
	return r, nil
}

// ContainerIDOptions configures a Container ID capability.
type ContainerIDOptions struct {
	UUID string `toml:"uuid" yaml:"uuid"`
}

// DefaultContainerIDOptions returns options with no UUID; callers must
// set one.
func DefaultContainerIDOptions() ContainerIDOptions {
	return ContainerIDOptions{}
}

// ContainerID builds a Container ID device capability (20 bytes). The
// UUID is emitted in its canonical byte order.
func ContainerID(o ContainerIDOptions) (*descriptor.Record, error) {
	const label = "Container ID"
	if o.UUID == "" {
		return nil, pkg.NewFieldError(label, o.UUID, pkg.ErrEmptyInput)
	}
	id, err := uuid.Parse(o.UUID)
	if err != nil {
		return nil, pkg.NewFieldError(label, o.UUID, pkg.ErrEncoding)
	}

	var fs descriptor.FieldSet
	fs.Add(descriptor.Uint8(CapabilityContainerID, "Capability type"))
	fs.Add(descriptor.Uint8(0, "Reserved"))
	fs.Add(descriptor.Octets(id[:], label))
	if err := fs.Err(); err != nil {
		return nil, err
	}
	r := descriptor.NewRecord(descriptor.DescriptorTypeDeviceCapability)
	r.Append(fs.Fields()...)
	return r, nil
}
