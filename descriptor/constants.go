package descriptor

import "fmt"

// USB Descriptor Types (USB 2.0 Spec Table 9-5, USB 3.2 Table 9-6).
const (
	DescriptorTypeDevice               = 0x01
	DescriptorTypeConfiguration        = 0x02
	DescriptorTypeString               = 0x03
	DescriptorTypeInterface            = 0x04
	DescriptorTypeEndpoint             = 0x05
	DescriptorTypeDeviceQualifier      = 0x06
	DescriptorTypeOtherSpeedConfig     = 0x07
	DescriptorTypeInterfacePower       = 0x08
	DescriptorTypeOTG                  = 0x09
	DescriptorTypeDebug                = 0x0A
	DescriptorTypeInterfaceAssociation = 0x0B
	DescriptorTypeBOS                  = 0x0F
	DescriptorTypeDeviceCapability     = 0x10
	DescriptorTypeHID                  = 0x21
	DescriptorTypeHIDReport            = 0x22
	DescriptorTypeHIDPhysical          = 0x23
	DescriptorTypeCSInterface          = 0x24 // Class-specific interface
	DescriptorTypeCSEndpoint           = 0x25 // Class-specific endpoint
)

// Labels of the fields every record or container emits.
const (
	LabelLength     = "Descriptor Size"
	LabelType       = "Descriptor Type"
	LabelTotalSize  = "Total Size"
	LabelChildCount = "Number of Children"
)

var typeNames = map[uint8]string{
	DescriptorTypeDevice:               "Device",
	DescriptorTypeConfiguration:        "Configuration",
	DescriptorTypeString:               "String",
	DescriptorTypeInterface:            "Interface",
	DescriptorTypeEndpoint:             "Endpoint",
	DescriptorTypeDeviceQualifier:      "Device Qualifier",
	DescriptorTypeOtherSpeedConfig:     "Other Speed Configuration",
	DescriptorTypeInterfacePower:       "Interface Power",
	DescriptorTypeOTG:                  "OTG",
	DescriptorTypeDebug:                "Debug",
	DescriptorTypeInterfaceAssociation: "Interface Association",
	DescriptorTypeBOS:                  "BOS",
	DescriptorTypeDeviceCapability:     "Device Capability",
	DescriptorTypeHID:                  "HID",
	DescriptorTypeHIDReport:            "HID Report",
	DescriptorTypeHIDPhysical:          "HID Physical",
	DescriptorTypeCSInterface:          "Class-Specific Interface",
	DescriptorTypeCSEndpoint:           "Class-Specific Endpoint",
}

// TypeName returns a human-readable descriptor type, such as
// "Configuration (0x02)".
func TypeName(t uint8) string {
	if name, ok := typeNames[t]; ok {
		return fmt.Sprintf("%s (0x%02X)", name, t)
	}
	return fmt.Sprintf("Descriptor (0x%02X)", t)
}
