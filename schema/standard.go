package schema

import (
	"fmt"

	"github.com/ardnew/usbdesc/descriptor"
	"github.com/ardnew/usbdesc/pkg"
)

// DeviceOptions configures a device descriptor (18 bytes).
type DeviceOptions struct {
	USBVersion        float64 `toml:"usb_version" yaml:"usb_version"`                 // USB specification version
	DeviceClass       int     `toml:"device_class" yaml:"device_class"`               // Class code
	DeviceSubClass    int     `toml:"device_subclass" yaml:"device_subclass"`         // Subclass code
	DeviceProtocol    int     `toml:"device_protocol" yaml:"device_protocol"`         // Protocol code
	MaxPacketSize0    int     `toml:"max_packet_size" yaml:"max_packet_size"`         // Max packet size for EP0
	VendorID          int     `toml:"vendor_id" yaml:"vendor_id"`                     // Vendor ID
	ProductID         int     `toml:"product_id" yaml:"product_id"`                   // Product ID
	DeviceVersion     float64 `toml:"device_version" yaml:"device_version"`           // Device release number
	ManufacturerIndex int     `toml:"manufacturer_index" yaml:"manufacturer_index"`   // Index of manufacturer string
	ProductIndex      int     `toml:"product_index" yaml:"product_index"`             // Index of product string
	SerialNumberIndex int     `toml:"serial_number_index" yaml:"serial_number_index"` // Index of serial number string
	NumConfigurations int     `toml:"num_configurations" yaml:"num_configurations"`   // Number of configurations
}

// DefaultDeviceOptions returns a USB 2.0 vendor-neutral device using the
// pid.codes test VID/PID.
func DefaultDeviceOptions() DeviceOptions {
	return DeviceOptions{
		USBVersion:        2.0,
		DeviceClass:       ClassPerInterface,
		MaxPacketSize0:    64,
		VendorID:          0x1209,
		ProductID:         0x0001,
		DeviceVersion:     1.0,
		NumConfigurations: 1,
	}
}

// Device builds a device descriptor. When the builder has a [Names]
// lookup, the vendor and product labels carry the registered names.
func (b *Builder) Device(o DeviceOptions) (*descriptor.Record, error) {
	var fs descriptor.FieldSet
	fs.Add(descriptor.BCD16(o.USBVersion, "USB version"))
	fs.Add(descriptor.Uint8(o.DeviceClass, "Device class"))
	fs.Add(descriptor.Uint8(o.DeviceSubClass, "Device subclass"))
	fs.Add(descriptor.Uint8(o.DeviceProtocol, "Device protocol"))
	fs.Add(descriptor.Uint8(o.MaxPacketSize0, "Max packet size"))
	fs.Add(descriptor.Uint16(o.VendorID, b.vendorLabel(o.VendorID)))
	fs.Add(descriptor.Uint16(o.ProductID, b.productLabel(o.VendorID, o.ProductID)))
	fs.Add(descriptor.BCD16(o.DeviceVersion, "Device version"))
	fs.Add(descriptor.Uint8(o.ManufacturerIndex, "Manufacturer string index"))
	fs.Add(descriptor.Uint8(o.ProductIndex, "Product string index"))
	fs.Add(descriptor.Uint8(o.SerialNumberIndex, "Serial number string index"))
	fs.Add(descriptor.Uint8(o.NumConfigurations, "Number of configurations"))
	if err := fs.Err(); err != nil {
		return nil, err
	}

	r := descriptor.NewRecord(descriptor.DescriptorTypeDevice)
	r.Append(fs.Fields()...)
	return r, nil
}

func (b *Builder) vendorLabel(vid int) string {
	const label = "Vendor ID"
	if b == nil || b.Names == nil || vid < 0 || vid > 0xFFFF {
		return label
	}
	if name := b.Names.LookupVendor(uint16(vid)); name != "" {
		return fmt.Sprintf("%s (%s)", label, name)
	}
	return label
}

func (b *Builder) productLabel(vid, pid int) string {
	const label = "Product ID"
	if b == nil || b.Names == nil || vid < 0 || vid > 0xFFFF || pid < 0 || pid > 0xFFFF {
		return label
	}
	if name := b.Names.LookupProduct(uint16(vid), uint16(pid)); name != "" {
		return fmt.Sprintf("%s (%s)", label, name)
	}
	return label
}

// ConfigurationOptions configures a configuration descriptor.
type ConfigurationOptions struct {
	ConfigurationValue int  `toml:"configuration_value" yaml:"configuration_value"` // Value for SET_CONFIGURATION
	ConfigurationIndex int  `toml:"configuration_index" yaml:"configuration_index"` // Index of string descriptor
	SelfPowered        bool `toml:"self_powered" yaml:"self_powered"`
	RemoteWakeup       bool `toml:"remote_wakeup" yaml:"remote_wakeup"`
	MaxPower           int  `toml:"max_power_ma" yaml:"max_power_ma"` // Milliamps, encoded in 2 mA units
}

// DefaultConfigurationOptions returns a bus-powered configuration
// drawing 100 mA.
func DefaultConfigurationOptions() ConfigurationOptions {
	return ConfigurationOptions{
		ConfigurationValue: 1,
		MaxPower:           100,
	}
}

// Configuration builds a configuration descriptor owning children. Its
// total length covers the whole subtree and its interface count is the
// number of distinct interface numbers below it.
func Configuration(o ConfigurationOptions, children ...descriptor.Node) (*descriptor.Container, error) {
	if o.MaxPower < 0 {
		return nil, pkg.NewFieldError("Max power", o.MaxPower, pkg.ErrRange)
	}

	var fs descriptor.FieldSet
	fs.Add(descriptor.Uint8(o.ConfigurationValue, "Configuration value"))
	fs.Add(descriptor.Uint8(o.ConfigurationIndex, "Configuration string index"))
	fs.Add(descriptor.Bitmap(1, "Attributes",
		true, // reserved, set to one
		o.SelfPowered,
		o.RemoteWakeup,
		descriptor.Zero(5)))
	fs.Add(descriptor.Uint8((o.MaxPower+1)/2, "Max power (2 mA units)"))
	if err := fs.Err(); err != nil {
		return nil, err
	}

	c := descriptor.NewContainer(descriptor.DescriptorTypeConfiguration,
		descriptor.WithSizeLabel("Total length"),
		descriptor.WithCountLabel("Number of interfaces"),
		descriptor.WithChildCounter(countInterfaces))
	c.Append(fs.Fields()...)
	c.Add(children...)
	return c, nil
}

// InterfaceOptions configures an interface descriptor.
type InterfaceOptions struct {
	InterfaceNumber   int `toml:"interface_number" yaml:"interface_number"`
	AlternateSetting  int `toml:"alternate_setting" yaml:"alternate_setting"`
	InterfaceClass    int `toml:"interface_class" yaml:"interface_class"`
	InterfaceSubClass int `toml:"interface_subclass" yaml:"interface_subclass"`
	InterfaceProtocol int `toml:"interface_protocol" yaml:"interface_protocol"`
	InterfaceIndex    int `toml:"interface_index" yaml:"interface_index"` // Index of string descriptor
}

// DefaultInterfaceOptions returns interface 0, alternate setting 0, of
// the vendor-specific class.
func DefaultInterfaceOptions() InterfaceOptions {
	return InterfaceOptions{InterfaceClass: ClassVendor}
}

// Interface builds an interface descriptor. It has no total length; its
// endpoint count covers the endpoint descriptors among its direct
// children, so class-specific descriptors can sit beside them.
func Interface(o InterfaceOptions, children ...descriptor.Node) (*descriptor.Container, error) {
	var lead descriptor.FieldSet
	lead.Add(descriptor.Uint8(o.InterfaceNumber, "Interface number"))
	lead.Add(descriptor.Uint8(o.AlternateSetting, "Alternate setting"))

	var fs descriptor.FieldSet
	fs.Add(descriptor.Uint8(o.InterfaceClass, "Interface class"))
	fs.Add(descriptor.Uint8(o.InterfaceSubClass, "Interface subclass"))
	fs.Add(descriptor.Uint8(o.InterfaceProtocol, "Interface protocol"))
	fs.Add(descriptor.Uint8(o.InterfaceIndex, "Interface string index"))
	if err := firstErr(lead.Err(), fs.Err()); err != nil {
		return nil, err
	}

	c := descriptor.NewContainer(descriptor.DescriptorTypeInterface,
		descriptor.WithLeadingFields(lead.Fields()...),
		descriptor.WithoutTotalSize(),
		descriptor.WithCountLabel("Number of endpoints"),
		descriptor.WithChildCounter(countEndpoints))
	c.Append(fs.Fields()...)
	c.Add(children...)
	return c, nil
}

// EndpointOptions configures an endpoint descriptor (7 bytes).
type EndpointOptions struct {
	Number        int    `toml:"number" yaml:"number"`                   // Endpoint number, 0-15
	Direction     string `toml:"direction" yaml:"direction"`             // "in" or "out"
	Transfer      string `toml:"transfer" yaml:"transfer"`               // control, isochronous, bulk, interrupt
	Sync          string `toml:"sync" yaml:"sync"`                       // Isochronous synchronization type
	Usage         string `toml:"usage" yaml:"usage"`                     // Isochronous usage type
	MaxPacketSize int    `toml:"max_packet_size" yaml:"max_packet_size"` // Maximum packet size
	Interval      int    `toml:"interval" yaml:"interval"`               // Polling interval
}

// DefaultEndpointOptions returns bulk IN endpoint 1 with 64-byte packets.
func DefaultEndpointOptions() EndpointOptions {
	return EndpointOptions{
		Number:        1,
		Direction:     "in",
		Transfer:      "bulk",
		Sync:          "none",
		Usage:         "data",
		MaxPacketSize: 64,
	}
}

// Endpoint builds an endpoint descriptor. Synchronization and usage
// types other than the defaults are only valid for isochronous
// endpoints.
func Endpoint(o EndpointOptions) (*descriptor.Record, error) {
	if o.Number < 0 {
		return nil, pkg.NewFieldError("Endpoint address", o.Number, pkg.ErrRange)
	}
	var in bool
	switch o.Direction {
	case "in":
		in = true
	case "out":
	default:
		return nil, pkg.NewFieldError("Endpoint address", o.Direction, pkg.ErrEncoding)
	}
	transfer, ok := endpointTransfers[o.Transfer]
	if !ok {
		return nil, pkg.NewFieldError("Attributes", o.Transfer, pkg.ErrEncoding)
	}
	sync, ok := endpointSyncs[o.Sync]
	if !ok {
		return nil, pkg.NewFieldError("Attributes", o.Sync, pkg.ErrEncoding)
	}
	usage, ok := endpointUsages[o.Usage]
	if !ok {
		return nil, pkg.NewFieldError("Attributes", o.Usage, pkg.ErrEncoding)
	}
	if o.Transfer != "isochronous" && (sync != 0 || usage != 0) {
		return nil, pkg.NewFieldError("Attributes", o.Transfer, pkg.ErrEncoding)
	}

	var fs descriptor.FieldSet
	fs.Add(descriptor.Bitmap(1, "Endpoint address",
		in,
		descriptor.Zero(3),
		descriptor.Bits{Value: uint64(o.Number), Width: 4}))
	fs.Add(descriptor.Bitmap(1, "Attributes",
		descriptor.Zero(2),
		descriptor.Bits{Value: usage, Width: 2},
		descriptor.Bits{Value: sync, Width: 2},
		descriptor.Bits{Value: transfer, Width: 2}))
	fs.Add(descriptor.Uint16(o.MaxPacketSize, "Max packet size"))
	fs.Add(descriptor.Uint8(o.Interval, "Interval"))
	if err := fs.Err(); err != nil {
		return nil, err
	}

	r := descriptor.NewRecord(descriptor.DescriptorTypeEndpoint)
	r.Append(fs.Fields()...)
	return r, nil
}

// IADOptions configures an interface association descriptor (8 bytes).
type IADOptions struct {
	FirstInterface   int `toml:"first_interface" yaml:"first_interface"` // -1 selects the lowest child interface
	FunctionClass    int `toml:"function_class" yaml:"function_class"`
	FunctionSubClass int `toml:"function_subclass" yaml:"function_subclass"`
	FunctionProtocol int `toml:"function_protocol" yaml:"function_protocol"`
	FunctionIndex    int `toml:"function_index" yaml:"function_index"` // Index of string descriptor
}

// DefaultIADOptions returns an association that takes its first
// interface from its children.
func DefaultIADOptions() IADOptions {
	return IADOptions{FirstInterface: -1, FunctionClass: ClassVendor}
}

// IAD builds an interface association descriptor grouping the interfaces
// among children. Its interface count is the number of distinct
// interface numbers in the subtree.
func IAD(o IADOptions, children ...descriptor.Node) (*descriptor.Container, error) {
	first := o.FirstInterface
	if first < 0 {
		first = lowestInterface(children)
	}

	var lead descriptor.FieldSet
	lead.Add(descriptor.Uint8(first, "First interface"))

	var fs descriptor.FieldSet
	fs.Add(descriptor.Uint8(o.FunctionClass, "Function class"))
	fs.Add(descriptor.Uint8(o.FunctionSubClass, "Function subclass"))
	fs.Add(descriptor.Uint8(o.FunctionProtocol, "Function protocol"))
	fs.Add(descriptor.Uint8(o.FunctionIndex, "Function string index"))
	if err := firstErr(lead.Err(), fs.Err()); err != nil {
		return nil, err
	}

	c := descriptor.NewContainer(descriptor.DescriptorTypeInterfaceAssociation,
		descriptor.WithLeadingFields(lead.Fields()...),
		descriptor.WithoutTotalSize(),
		descriptor.WithCountLabel("Interface count"),
		descriptor.WithChildCounter(countInterfaces))
	c.Append(fs.Fields()...)
	c.Add(children...)
	return c, nil
}

// StringOptions configures a string descriptor.
type StringOptions struct {
	Text string `toml:"text" yaml:"text"`
}

// DefaultStringOptions returns options with no text; a string descriptor
// cannot be empty, so callers must set Text.
func DefaultStringOptions() StringOptions {
	return StringOptions{}
}

// String builds a UTF-16LE string descriptor.
func String(o StringOptions) (*descriptor.Record, error) {
	f, err := descriptor.UTF16String(o.Text, "String")
	if err != nil {
		return nil, err
	}
	r := descriptor.NewRecord(descriptor.DescriptorTypeString)
	r.Append(f)
	return r, nil
}

// LanguageOptions configures string descriptor zero.
type LanguageOptions struct {
	LangIDs []int `toml:"lang_ids" yaml:"lang_ids"`
}

// DefaultLanguageOptions returns US English.
func DefaultLanguageOptions() LanguageOptions {
	return LanguageOptions{LangIDs: []int{LangIDUSEnglish}}
}

// Language builds the language ID table (string descriptor index 0).
func Language(o LanguageOptions) (*descriptor.Record, error) {
	if len(o.LangIDs) == 0 {
		return nil, pkg.NewFieldError("Language ID", o.LangIDs, pkg.ErrEmptyInput)
	}
	var fs descriptor.FieldSet
	for _, id := range o.LangIDs {
		fs.Add(descriptor.Uint16(id, "Language ID"))
	}
	if err := fs.Err(); err != nil {
		return nil, err
	}
	r := descriptor.NewRecord(descriptor.DescriptorTypeString)
	r.Append(fs.Fields()...)
	return r, nil
}

// interfaceNumbers calls fn with the number of every interface
// descriptor in children and their descendants.
func interfaceNumbers(children []descriptor.Node, fn func(uint64)) {
	for _, child := range children {
		descriptor.Walk(child, func(n descriptor.Node) bool {
			if n.Type() != descriptor.DescriptorTypeInterface {
				return true
			}
			// Content()[0] is the type field, [1] the interface number.
			if content := n.Content(); len(content) > 1 {
				fn(content[1].Value())
			}
			return false
		})
	}
}

func countInterfaces(children []descriptor.Node) int {
	seen := make(map[uint64]struct{})
	interfaceNumbers(children, func(n uint64) {
		seen[n] = struct{}{}
	})
	return len(seen)
}

func lowestInterface(children []descriptor.Node) int {
	lowest := -1
	interfaceNumbers(children, func(n uint64) {
		if lowest < 0 || int(n) < lowest {
			lowest = int(n)
		}
	})
	return max(lowest, 0)
}

func countEndpoints(children []descriptor.Node) int {
	n := 0
	for _, child := range children {
		if child.Type() == descriptor.DescriptorTypeEndpoint {
			n++
		}
	}
	return n
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
