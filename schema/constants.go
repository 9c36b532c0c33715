package schema

// USB Class Codes.
const (
	ClassPerInterface = 0x00 // Class defined at interface level
	ClassAudio        = 0x01 // Audio class
	ClassCDC          = 0x02 // Communications Device Class
	ClassHID          = 0x03 // Human Interface Device
	ClassPhysical     = 0x05 // Physical
	ClassImage        = 0x06 // Still Imaging
	ClassPrinter      = 0x07 // Printer
	ClassMassStorage  = 0x08 // Mass Storage
	ClassHub          = 0x09 // Hub
	ClassCDCData      = 0x0A // CDC-Data
	ClassSmartCard    = 0x0B // Smart Card
	ClassContentSec   = 0x0D // Content Security
	ClassVideo        = 0x0E // Video
	ClassHealthcare   = 0x0F // Personal Healthcare
	ClassAudioVideo   = 0x10 // Audio/Video Devices
	ClassBillboard    = 0x11 // Billboard Device Class
	ClassDiagnostic   = 0xDC // Diagnostic Device
	ClassWireless     = 0xE0 // Wireless Controller
	ClassMisc         = 0xEF // Miscellaneous
	ClassAppSpecific  = 0xFE // Application Specific
	ClassVendor       = 0xFF // Vendor Specific
)

// LangIDUSEnglish is the language ID for US English.
const LangIDUSEnglish = 0x0409

// Device capability types (USB 3.2 Table 9-14).
const (
	CapabilityUSB20Extension = 0x02
	CapabilitySuperSpeedUSB  = 0x03
	CapabilityContainerID    = 0x04
)

// Endpoint transfer types, keyed by option value.
var endpointTransfers = map[string]uint64{
	"control":     0x00,
	"isochronous": 0x01,
	"bulk":        0x02,
	"interrupt":   0x03,
}

// Isochronous synchronization types.
var endpointSyncs = map[string]uint64{
	"none":         0x00,
	"asynchronous": 0x01,
	"adaptive":     0x02,
	"synchronous":  0x03,
}

// Isochronous usage types.
var endpointUsages = map[string]uint64{
	"data":     0x00,
	"feedback": 0x01,
	"implicit": 0x02,
}
