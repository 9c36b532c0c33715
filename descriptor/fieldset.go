package descriptor

// FieldSet collects encoder results in order and keeps the first error,
// so a schema can list every field of a descriptor and check once.
//
//	var fs descriptor.FieldSet
//	fs.Add(descriptor.Uint8(o.Class, "Device class"))
//	fs.Add(descriptor.Uint16(o.VendorID, "Vendor ID"))
//	if err := fs.Err(); err != nil {
//	    return nil, err
//	}
//	r.Append(fs.Fields()...)
type FieldSet struct {
	fields []Field
	err    error
}

// Add appends f unless err or an earlier error is non-nil.
func (s *FieldSet) Add(f Field, err error) {
	if s.err != nil {
		return
	}
	if err != nil {
		s.err = err
		return
	}
	s.fields = append(s.fields, f)
}

// Fields returns the collected fields.
func (s *FieldSet) Fields() []Field {
	return s.fields
}

// Err returns the first error passed to Add.
func (s *FieldSet) Err() error {
	return s.err
}
