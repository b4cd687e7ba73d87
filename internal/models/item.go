package models

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/diewo77/go-quotations/internal/numeric"
	"github.com/google/uuid"
)

// Reserved item keys. They are stored as struct fields on Item and never
// appear in Item.Fields.
const (
	KeyID          = "id"
	KeySerialNo    = "serial_no"
	KeyDescription = "description"
	KeyAmount      = "amount"
)

// IsProtectedKey reports whether key is one of the fixed item keys.
func IsProtectedKey(key string) bool {
	switch key {
	case KeyID, KeySerialNo, KeyDescription, KeyAmount:
		return true
	}
	return false
}

// Field is one dynamic column value on an item row.
type Field struct {
	Key   string
	Value string
}

// Fields is an ordered set of dynamic column values keyed by column id.
// Methods never modify the receiver's backing array in place; they return
// a new slice.
type Fields []Field

// Get returns the value stored under key.
func (f Fields) Get(key string) (string, bool) {
	for _, fd := range f {
		if fd.Key == key {
			return fd.Value, true
		}
	}
	return "", false
}

// Has reports whether key is present.
func (f Fields) Has(key string) bool {
	_, ok := f.Get(key)
	return ok
}

// Set returns a copy with key set to value, appended when new.
func (f Fields) Set(key, value string) Fields {
	out := f.Clone()
	for i := range out {
		if out[i].Key == key {
			out[i].Value = value
			return out
		}
	}
	return append(out, Field{Key: key, Value: value})
}

// Delete returns a copy without key.
func (f Fields) Delete(key string) Fields {
	out := make(Fields, 0, len(f))
	for _, fd := range f {
		if fd.Key != key {
			out = append(out, fd)
		}
	}
	return out
}

// Keys returns the keys in order.
func (f Fields) Keys() []string {
	keys := make([]string, len(f))
	for i, fd := range f {
		keys[i] = fd.Key
	}
	return keys
}

// Clone returns an independent copy.
func (f Fields) Clone() Fields {
	if f == nil {
		return nil
	}
	out := make(Fields, len(f))
	copy(out, f)
	return out
}

// Item is one line of a quotation.
type Item struct {
	ID          string
	SerialNo    string
	Description string
	Amount      float64
	Fields      Fields
}

// NewItemID returns a fresh stable row identifier.
func NewItemID() string {
	return uuid.NewString()
}

// Clone returns a deep copy of the item.
func (it Item) Clone() Item {
	it.Fields = it.Fields.Clone()
	return it
}

// Keys returns every key of the row: the protected keys followed by the
// dynamic field keys.
func (it Item) Keys() []string {
	keys := []string{KeyID, KeySerialNo, KeyDescription, KeyAmount}
	return append(keys, it.Fields.Keys()...)
}

// CloneItems deep-copies a row collection.
func CloneItems(items []Item) []Item {
	if items == nil {
		return nil
	}
	out := make([]Item, len(items))
	for i, it := range items {
		out[i] = it.Clone()
	}
	return out
}

// MarshalJSON writes the row as one flat object, fixed keys first and
// dynamic fields in column order.
func (it Item) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	write := func(key string, v any) error {
		if buf.Len() > 1 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return err
		}
		val, err := json.Marshal(v)
		if err != nil {
			return err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(val)
		return nil
	}
	if err := write(KeyID, it.ID); err != nil {
		return nil, err
	}
	if err := write(KeySerialNo, it.SerialNo); err != nil {
		return nil, err
	}
	if err := write(KeyDescription, it.Description); err != nil {
		return nil, err
	}
	if err := write(KeyAmount, it.Amount); err != nil {
		return nil, err
	}
	for _, fd := range it.Fields {
		if err := write(fd.Key, fd.Value); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a flat row object. Values may be strings, numbers,
// booleans or null; numbers keep their literal text. The amount is coerced
// with numeric.ToNumber so free-text input never fails decoding.
func (it *Item) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("item: expected object, got %v", tok)
	}
	var out Item
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := tok.(string)
		var raw any
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("item field %q: %w", key, err)
		}
		val, err := scalarString(raw)
		if err != nil {
			return fmt.Errorf("item field %q: %w", key, err)
		}
		switch key {
		case KeyID:
			out.ID = val
		case KeySerialNo:
			out.SerialNo = val
		case KeyDescription:
			out.Description = val
		case KeyAmount:
			out.Amount = numeric.ToNumber(val)
		default:
			out.Fields = out.Fields.Set(key, val)
		}
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*it = out
	return nil
}

func scalarString(v any) (string, error) {
	switch x := v.(type) {
	case nil:
		return "", nil
	case string:
		return x, nil
	case json.Number:
		return x.String(), nil
	case bool:
		if x {
			return "true", nil
		}
		return "false", nil
	default:
		return "", fmt.Errorf("unsupported value %T", v)
	}
}
