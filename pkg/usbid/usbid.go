package usbid

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/ardnew/usbdesc/pkg"
)

// DefaultPaths lists the standard locations for the USB ID database.
var DefaultPaths = []string{
	"/usr/share/hwdata/usb.ids",
	"/var/lib/usbutils/usb.ids",
	"/usr/share/misc/usb.ids",
}

// Database caches vendor and product names from the USB ID database.
// The zero value is an empty database that searches [DefaultPaths].
type Database struct {
	mu       sync.RWMutex
	vendors  map[uint16]string // VID -> vendor name
	products map[uint32]string // (VID<<16)|PID -> product name
	paths    []string
}

// New creates a database that searches paths, or [DefaultPaths] if none
// are given.
func New(paths ...string) *Database {
	if len(paths) == 0 {
		paths = DefaultPaths
	}
	return &Database{paths: paths}
}

// Load parses the first readable file among the search paths and returns
// its path. If no file exists, the error wraps [fs.ErrNotExist].
func (db *Database) Load() (string, error) {
	paths := db.paths
	if len(paths) == 0 {
		paths = DefaultPaths
	}
	for _, path := range paths {
		f, err := os.Open(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("usb.ids %s: %w", path, err)
		}
		err = db.Parse(f)
		f.Close()
		if err != nil {
			return "", fmt.Errorf("usb.ids %s: %w", path, err)
		}
		pkg.LogDebug(pkg.ComponentUSBID, "loaded database",
			"path", path, "vendors", db.VendorCount(), "products", db.ProductCount())
		return path, nil
	}
	return "", fmt.Errorf("usb.ids not found in %s: %w", strings.Join(paths, ", "), fs.ErrNotExist)
}

// Parse reads the usb.ids format from r and merges its vendor and product
// entries into the database. Malformed lines are skipped.
//
// Vendor lines have the form "xxxx  Vendor Name"; product lines belong to
// the preceding vendor and have the form "\txxxx  Product Name". Any other
// unindented line (class, language and HID sections) ends the vendor.
func (db *Database) Parse(r io.Reader) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	if db.vendors == nil {
		db.vendors = make(map[uint16]string)
		db.products = make(map[uint32]string)
	}

	scanner := bufio.NewScanner(r)
	var vid uint16
	inVendor := false
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" || line[0] == '#' {
			continue
		}
		if strings.HasPrefix(line, "\t\t") {
			continue // interface lines
		}
		if line[0] == '\t' {
			if !inVendor {
				continue
			}
			if id, name, ok := splitEntry(line[1:]); ok {
				db.products[uint32(vid)<<16|uint32(id)] = name
			}
			continue
		}
		id, name, ok := splitEntry(line)
		inVendor = ok
		if ok {
			vid = id
			db.vendors[vid] = name
		}
	}
	return scanner.Err()
}

// splitEntry parses "xxxx  Name".
func splitEntry(s string) (uint16, string, bool) {
	if len(s) < 7 || s[4] != ' ' || s[5] != ' ' {
		return 0, "", false
	}
	id, err := strconv.ParseUint(s[:4], 16, 16)
	if err != nil {
		return 0, "", false
	}
	name := strings.TrimSpace(s[6:])
	if name == "" {
		return 0, "", false
	}
	return uint16(id), name, true
}

// LookupVendor returns the vendor name for vid, or an empty string.
func (db *Database) LookupVendor(vid uint16) string {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return db.vendors[vid]
}

// LookupProduct returns the product name for the VID/PID pair, or an
// empty string.
func (db *Database) LookupProduct(vid, pid uint16) string {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return db.products[uint32(vid)<<16|uint32(pid)]
}

// VendorCount returns the number of vendors in the database.
func (db *Database) VendorCount() int {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return len(db.vendors)
}

// ProductCount returns the number of products in the database.
func (db *Database) ProductCount() int {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return len(db.products)
}
