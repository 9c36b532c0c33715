// Package usbid looks up USB vendor and product names in the usb.ids
// database.
//
// The schema layer uses these names to annotate the idVendor and
// idProduct fields of rendered device descriptors, so a listing reads
// "Vendor ID (Raspberry Pi)" instead of a bare number.
//
// # Usage
//
// Load the database once:
//
//	db := usbid.New()
//	if _, err := db.Load(); err != nil {
//	    // no database installed; lookups return ""
//	}
//
// or parse any reader in the usb.ids format:
//
//	db := &usbid.Database{}
//	err := db.Parse(strings.NewReader("1209  Generic\n\t0001  pid.codes Test PID\n"))
//
// Then look up names:
//
//	vendor := db.LookupVendor(0x1209)
//	product := db.LookupProduct(0x1209, 0x0001)
//
// # Database Locations
//
// [New] without arguments searches [DefaultPaths]:
//
//   - /usr/share/hwdata/usb.ids
//   - /var/lib/usbutils/usb.ids
//   - /usr/share/misc/usb.ids
//
// # Thread Safety
//
// All methods are safe for concurrent use.
package usbid
