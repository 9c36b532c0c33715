package video

import (
	"fmt"

	"github.com/ardnew/usbdesc/descriptor"
	"github.com/ardnew/usbdesc/pkg"
)

// Video interface subclass codes (UVC 1.5 Table A-2).
const (
	SubclassUndefined                = 0x00
	SubclassVideoControl             = 0x01
	SubclassVideoStreaming           = 0x02
	SubclassVideoInterfaceCollection = 0x03
)

// Video interface protocol codes (UVC 1.5 Table A-3).
const (
	ProtocolUndefined = 0x00
	Protocol15        = 0x01
)

// Class-specific VC interface descriptor subtypes (UVC 1.5 Table A-5).
const (
	SubtypeHeader         = 0x01
	SubtypeInputTerminal  = 0x02
	SubtypeOutputTerminal = 0x03
	SubtypeSelectorUnit   = 0x04
	SubtypeProcessingUnit = 0x05
	SubtypeExtensionUnit  = 0x06
	SubtypeEncodingUnit   = 0x07
)

// Terminal types (UVC 1.5 Appendix B).
const (
	TerminalVendorSpecific       = 0x0100
	TerminalStreaming            = 0x0101
	InputTerminalVendorSpecific  = 0x0200
	InputTerminalCamera          = 0x0201
	InputTerminalMediaTransport  = 0x0202
	OutputTerminalVendorSpecific = 0x0300
	OutputTerminalDisplay        = 0x0301
	OutputTerminalMediaTransport = 0x0302
)

// cameraControlSize is the width of the camera terminal bmControls field.
const cameraControlSize = 3

// cameraControls maps control names to bmControls bit positions (UVC 1.5
// Table 3-6). Bits 15 and 16 are reserved.
var cameraControls = map[string]int{
	"scanning_mode":          0,
	"auto_exposure_mode":     1,
	"auto_exposure_priority": 2,
	"exposure_time_absolute": 3,
	"exposure_time_relative": 4,
	"focus_absolute":         5,
	"focus_relative":         6,
	"iris_absolute":          7,
	"iris_relative":          8,
	"zoom_absolute":          9,
	"zoom_relative":          10,
	"pan_tilt_absolute":      11,
	"pan_tilt_relative":      12,
	"roll_absolute":          13,
	"roll_relative":          14,
	"focus_auto":             17,
	"privacy":                18,
	"focus_simple":           19,
	"window":                 20,
	"region_of_interest":     21,
}

// HeaderOptions configures a class-specific VC interface header.
type HeaderOptions struct {
	UVCVersion          float64 `toml:"uvc_version" yaml:"uvc_version"`                   // Video class specification release
	ClockFrequency      int     `toml:"clock_frequency" yaml:"clock_frequency"`           // Device clock in Hz
	StreamingInterfaces []int   `toml:"streaming_interfaces" yaml:"streaming_interfaces"` // VideoStreaming interface numbers
}

// DefaultHeaderOptions returns a UVC 1.5 header with a 48 MHz clock and
// no streaming interfaces.
func DefaultHeaderOptions() HeaderOptions {
	return HeaderOptions{
		UVCVersion:     1.5,
		ClockFrequency: 48000000,
	}
}

// Header builds a class-specific VC interface header. Its total length
// covers itself and every unit and terminal among children; it has no
// child count.
func Header(o HeaderOptions, children ...descriptor.Node) (*descriptor.Container, error) {
	var lead descriptor.FieldSet
	lead.Add(descriptor.Uint8(SubtypeHeader, "Descriptor Sub-type"))
	lead.Add(descriptor.BCD16(o.UVCVersion, "Video class specification"))
	if err := lead.Err(); err != nil {
		return nil, err
	}

	var fs descriptor.FieldSet
	fs.Add(descriptor.Uint32(o.ClockFrequency, "Clock frequency"))
	fs.Add(descriptor.Uint8(len(o.StreamingInterfaces), "Number of streaming interfaces"))
	for i, n := range o.StreamingInterfaces {
		fs.Add(descriptor.Uint8(n, fmt.Sprintf("Streaming interface %d", i+1)))
	}
	if err := fs.Err(); err != nil {
		return nil, err
	}

	c := descriptor.NewContainer(descriptor.DescriptorTypeCSInterface,
		descriptor.WithLeadingFields(lead.Fields()...),
		descriptor.WithoutChildCount(),
		descriptor.WithSizeLabel("Total size of class-specific descriptors"))
	c.Append(fs.Fields()...)
	c.Add(children...)
	return c, nil
}

// InputTerminalOptions configures an input terminal.
type InputTerminalOptions struct {
	TerminalID         int `toml:"terminal_id" yaml:"terminal_id"`
	TerminalType       int `toml:"terminal_type" yaml:"terminal_type"`
	AssociatedTerminal int `toml:"associated_terminal" yaml:"associated_terminal"`
	TerminalIndex      int `toml:"terminal_index" yaml:"terminal_index"` // Index of string descriptor
}

// DefaultInputTerminalOptions returns vendor-specific input terminal 1.
func DefaultInputTerminalOptions() InputTerminalOptions {
	return InputTerminalOptions{
		TerminalID:   1,
		TerminalType: InputTerminalVendorSpecific,
	}
}

// InputTerminal builds an input terminal descriptor (8 bytes).
func InputTerminal(o InputTerminalOptions) (*descriptor.Record, error) {
	var fs descriptor.FieldSet
	fs.Add(descriptor.Uint8(SubtypeInputTerminal, "Descriptor Sub-type"))
	fs.Add(descriptor.Uint8(o.TerminalID, "Terminal ID"))
	fs.Add(descriptor.Uint16(o.TerminalType, "Terminal type"))
	fs.Add(descriptor.Uint8(o.AssociatedTerminal, "Associated terminal"))
	fs.Add(descriptor.Uint8(o.TerminalIndex, "Terminal string index"))
	return record(&fs)
}

// CameraTerminalOptions configures a camera input terminal.
type CameraTerminalOptions struct {
	TerminalID              int      `toml:"terminal_id" yaml:"terminal_id"`
	AssociatedTerminal      int      `toml:"associated_terminal" yaml:"associated_terminal"`
	TerminalIndex           int      `toml:"terminal_index" yaml:"terminal_index"`
	ObjectiveFocalLengthMin int      `toml:"objective_focal_length_min" yaml:"objective_focal_length_min"`
	ObjectiveFocalLengthMax int      `toml:"objective_focal_length_max" yaml:"objective_focal_length_max"`
	OcularFocalLength       int      `toml:"ocular_focal_length" yaml:"ocular_focal_length"`
	Controls                []string `toml:"controls" yaml:"controls"` // Supported control names
}

// DefaultCameraTerminalOptions returns camera terminal 1 with no
// controls.
func DefaultCameraTerminalOptions() CameraTerminalOptions {
	return CameraTerminalOptions{TerminalID: 1}
}

// CameraTerminal builds a camera terminal descriptor (18 bytes). Each
// entry in Controls sets one bit of the bmControls bitmap.
func CameraTerminal(o CameraTerminalOptions) (*descriptor.Record, error) {
	controls, err := controlBits(o.Controls)
	if err != nil {
		return nil, err
	}

	var fs descriptor.FieldSet
	fs.Add(descriptor.Uint8(SubtypeInputTerminal, "Descriptor Sub-type"))
	fs.Add(descriptor.Uint8(o.TerminalID, "Terminal ID"))
	fs.Add(descriptor.Uint16(InputTerminalCamera, "Terminal type"))
	fs.Add(descriptor.Uint8(o.AssociatedTerminal, "Associated terminal"))
	fs.Add(descriptor.Uint8(o.TerminalIndex, "Terminal string index"))
	fs.Add(descriptor.Uint16(o.ObjectiveFocalLengthMin, "Objective focal length min"))
	fs.Add(descriptor.Uint16(o.ObjectiveFocalLengthMax, "Objective focal length max"))
	fs.Add(descriptor.Uint16(o.OcularFocalLength, "Ocular focal length"))
	fs.Add(descriptor.Uint8(cameraControlSize, "Control size"))
	fs.Add(descriptor.BitmapOrder(descriptor.LSBFirst, cameraControlSize, "Controls", controls...))
	return record(&fs)
}

// controlBits returns one bitmap part per bit, most significant first.
func controlBits(names []string) ([]any, error) {
	var set uint64
	for _, name := range names {
		bit, ok := cameraControls[name]
		if !ok {
			return nil, pkg.NewFieldError("Controls", name, pkg.ErrEncoding)
		}
		set |= 1 << uint(bit)
	}
	parts := make([]any, 0, 8*cameraControlSize)
	for bit := 8*cameraControlSize - 1; bit >= 0; bit-- {
		parts = append(parts, set&(1<<uint(bit)) != 0)
	}
	return parts, nil
}

// OutputTerminalOptions configures an output terminal.
type OutputTerminalOptions struct {
	TerminalID         int `toml:"terminal_id" yaml:"terminal_id"`
	TerminalType       int `toml:"terminal_type" yaml:"terminal_type"`
	AssociatedTerminal int `toml:"associated_terminal" yaml:"associated_terminal"`
	SourceID           int `toml:"source_id" yaml:"source_id"` // Unit or terminal this terminal is connected to
	TerminalIndex      int `toml:"terminal_index" yaml:"terminal_index"`
}

// DefaultOutputTerminalOptions returns vendor-specific output terminal 2
// connected to terminal 1.
func DefaultOutputTerminalOptions() OutputTerminalOptions {
	return OutputTerminalOptions{
		TerminalID:   2,
		TerminalType: OutputTerminalVendorSpecific,
		SourceID:     1,
	}
}

// OutputTerminal builds an output terminal descriptor (9 bytes).
func OutputTerminal(o OutputTerminalOptions) (*descriptor.Record, error) {
	var fs descriptor.FieldSet
	fs.Add(descriptor.Uint8(SubtypeOutputTerminal, "Descriptor Sub-type"))
	fs.Add(descriptor.Uint8(o.TerminalID, "Terminal ID"))
	fs.Add(descriptor.Uint16(o.TerminalType, "Terminal type"))
	fs.Add(descriptor.Uint8(o.AssociatedTerminal, "Associated terminal"))
	fs.Add(descriptor.Uint8(o.SourceID, "Source ID"))
	fs.Add(descriptor.Uint8(o.TerminalIndex, "Terminal string index"))
	return record(&fs)
}

func record(fs *descriptor.FieldSet) (*descriptor.Record, error) {
	if err := fs.Err(); err != nil {
		return nil, err
	}
	r := descriptor.NewRecord(descriptor.DescriptorTypeCSInterface)
	r.Append(fs.Fields()...)
	return r, nil
}
