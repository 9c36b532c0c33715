package descriptor

import (
	"bytes"
	"testing"
)

// mustField returns a function that unwraps an encoder result, failing t
// on error.
func mustField(t *testing.T) func(Field, error) Field {
	t.Helper()
	return func(f Field, err error) Field {
		t.Helper()
		if err != nil {
			t.Fatalf("field: %v", err)
		}
		return f
	}
}

func TestRecord_SingleField(t *testing.T) {
	r := NewRecord(0x01)
	r.Append(mustField(t)(Uint8(5, "X")))

	got, err := Bytes(r)
	if err != nil {
		t.Fatalf("Bytes error: %v", err)
	}
	if want := []byte{0x03, 0x01, 0x05}; !bytes.Equal(got, want) {
		t.Errorf("Bytes = % X, want % X", got, want)
	}
	if r.Len() != 3 {
		t.Errorf("Len() = %d, want 3", r.Len())
	}
	if r.Type() != 0x01 {
		t.Errorf("Type() = %#02x, want 0x01", r.Type())
	}
}

func TestRecord_Empty(t *testing.T) {
	r := NewRecord(0xFF)
	got, err := Bytes(r)
	if err != nil {
		t.Fatalf("Bytes error: %v", err)
	}
	if want := []byte{0x02, 0xFF}; !bytes.Equal(got, want) {
		t.Errorf("Bytes = % X, want % X", got, want)
	}
}

func TestRecord_LenIsSumOfFields(t *testing.T) {
	r := NewRecord(0x24)
	widths := 0
	steps := []struct {
		prepend bool
		field   Field
	}{
		{false, mustField(t)(Uint8(1, "a"))},
		{true, mustField(t)(Uint16(2, "b"))},
		{false, mustField(t)(UTF16String("abc", "c"))},
		{true, mustField(t)(Uint32(4, "d"))},
		{false, mustField(t)(BCD16(1.5, "e"))},
	}

	for _, s := range steps {
		if s.prepend {
			r.Prepend(s.field)
		} else {
			r.Append(s.field)
		}
		widths += s.field.Len()
		if r.Len() != 2+widths {
			t.Errorf("Len() = %d, want %d", r.Len(), 2+widths)
		}
		if r.ContentLen() != widths {
			t.Errorf("ContentLen() = %d, want %d", r.ContentLen(), widths)
		}
	}

	b, err := Bytes(r)
	if err != nil {
		t.Fatalf("Bytes error: %v", err)
	}
	if len(b) != r.Len() || int(b[0]) != r.Len() {
		t.Errorf("serialized %d bytes with length byte %d, want %d", len(b), b[0], r.Len())
	}
}

func TestRecord_PrependOrder(t *testing.T) {
	r := NewRecord(0x10)
	r.Append(mustField(t)(Uint8(0xAA, "appended")))
	r.Prepend(mustField(t)(Uint8(0xBB, "first prepend")))
	r.Prepend(mustField(t)(Uint8(0xCC, "second prepend")))
	r.Append(mustField(t)(Uint8(0xDD, "last")))

	got, err := Bytes(r)
	if err != nil {
		t.Fatalf("Bytes error: %v", err)
	}
	want := []byte{0x06, 0x10, 0xCC, 0xBB, 0xAA, 0xDD}
	if !bytes.Equal(got, want) {
		t.Errorf("Bytes = % X, want % X", got, want)
	}
}

func TestRecord_Content(t *testing.T) {
	r := NewRecord(0x03)
	r.Append(mustField(t)(UTF16String("Hi", "String")))

	content := r.Content()
	if len(content) != 2 {
		t.Fatalf("len(Content()) = %d, want 2", len(content))
	}
	if content[0].Label() != LabelType || content[0].Value() != 0x03 {
		t.Errorf("Content()[0] = %q %#x, want type field", content[0].Label(), content[0].Value())
	}
	content[1] = Field{}
	if r.Content()[1].Len() != 4 {
		t.Error("Content() returned the record's own slice")
	}
	if r.Children() != nil {
		t.Error("record has children")
	}
}

func TestRecord_LengthOverflow(t *testing.T) {
	r := NewRecord(0x03)
	text := bytes.Repeat([]byte("x"), 127)
	r.Append(mustField(t)(UTF16String(string(text), "String")))

	if _, err := Bytes(r); err == nil {
		t.Errorf("Bytes of a %d-byte record succeeded", r.Len())
	}
}
