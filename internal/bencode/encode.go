// Package bencode implements the bencode encoding: integers (i42e), byte
// strings (4:spam), lists (l...e) and dictionaries with sorted keys (d...e).
package bencode

import (
	"bytes"
	"fmt"
	"io"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// UnsupportedTypeError is returned when a value cannot be bencoded.
type UnsupportedTypeError struct {
	Type reflect.Type
}

func (e *UnsupportedTypeError) Error() string {
	return "bencode: unsupported type: " + e.Type.String()
}

// Marshal returns the bencoding of v.
//
// Struct fields are encoded as dictionary entries keyed by the field name or
// the name given in a `bencode:"name"` tag. A tag of "-" skips the field and
// the "omitempty" option skips zero values. Booleans encode as i1e/i0e, nil
// pointers and interfaces are omitted from lists and dictionaries, and
// floats are rejected.
func Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Encoder writes bencoded values to an output stream.
type Encoder struct {
	w io.Writer
}

// NewEncoder returns an encoder that writes to w.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w}
}

// Encode writes the bencoding of v.
func (enc *Encoder) Encode(v any) error {
	var buf bytes.Buffer
	if err := encodeValue(&buf, reflect.ValueOf(v)); err != nil {
		return err
	}
	_, err := enc.w.Write(buf.Bytes())
	return err
}

func encodeValue(buf *bytes.Buffer, v reflect.Value) error {
	if !v.IsValid() {
		return fmt.Errorf("bencode: cannot encode nil value")
	}

	switch v.Kind() {
	case reflect.Bool:
		if v.Bool() {
			buf.WriteString("i1e")
		} else {
			buf.WriteString("i0e")
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		buf.WriteByte('i')
		buf.WriteString(strconv.FormatInt(v.Int(), 10))
		buf.WriteByte('e')
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		buf.WriteByte('i')
		buf.WriteString(strconv.FormatUint(v.Uint(), 10))
		buf.WriteByte('e')
	case reflect.String:
		writeString(buf, v.String())
	case reflect.Slice:
		if v.Type().Elem().Kind() == reflect.Uint8 {
			writeString(buf, string(v.Bytes()))
			return nil
		}
		return encodeList(buf, v)
	case reflect.Array:
		return encodeList(buf, v)
	case reflect.Map:
		return encodeMap(buf, v)
	case reflect.Struct:
		return encodeStruct(buf, v)
	case reflect.Ptr, reflect.Interface:
		if v.IsNil() {
			return fmt.Errorf("bencode: cannot encode nil value")
		}
		return encodeValue(buf, v.Elem())
	default:
		return &UnsupportedTypeError{Type: v.Type()}
	}
	return nil
}

func writeString(buf *bytes.Buffer, s string) {
	buf.WriteString(strconv.Itoa(len(s)))
	buf.WriteByte(':')
	buf.WriteString(s)
}

func isNil(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Ptr, reflect.Interface:
		return v.IsNil()
	}
	return false
}

func encodeList(buf *bytes.Buffer, v reflect.Value) error {
	buf.WriteByte('l')
	for i := 0; i < v.Len(); i++ {
		el := v.Index(i)
		if isNil(el) {
			continue
		}
		if err := encodeValue(buf, el); err != nil {
			return err
		}
	}
	buf.WriteByte('e')
	return nil
}

func encodeMap(buf *bytes.Buffer, v reflect.Value) error {
	type kv struct {
		key   string
		value reflect.Value
	}

	entries := make([]kv, 0, v.Len())
	iter := v.MapRange()
	for iter.Next() {
		k := iter.Key()
		var key string
		switch k.Kind() {
		case reflect.String:
			key = k.String()
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			key = strconv.FormatInt(k.Int(), 10)
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
			key = strconv.FormatUint(k.Uint(), 10)
		default:
			return &UnsupportedTypeError{Type: v.Type()}
		}
		if isNil(iter.Value()) {
			continue
		}
		entries = append(entries, kv{key: key, value: iter.Value()})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].key < entries[j].key })

	buf.WriteByte('d')
	for _, e := range entries {
		writeString(buf, e.key)
		if err := encodeValue(buf, e.value); err != nil {
			return err
		}
	}
	buf.WriteByte('e')
	return nil
}

type field struct {
	name      string
	index     int
	omitEmpty bool
}

var fieldCache sync.Map // map[reflect.Type][]field

// structFields returns the encodable fields of t sorted by key
func structFields(t reflect.Type) []field {
	if cached, ok := fieldCache.Load(t); ok {
		return cached.([]field)
	}

	var fields []field
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		tag := sf.Tag.Get("bencode")
		if tag == "-" {
			continue
		}
		name, opts, _ := strings.Cut(tag, ",")
		if name == "" {
			name = sf.Name
		}
		fields = append(fields, field{
			name:      name,
			index:     i,
			omitEmpty: opts == "omitempty",
		})
	}
	sort.Slice(fields, func(i, j int) bool { return fields[i].name < fields[j].name })

	cached, _ := fieldCache.LoadOrStore(t, fields)
	return cached.([]field)
}

func encodeStruct(buf *bytes.Buffer, v reflect.Value) error {
	buf.WriteByte('d')
	for _, f := range structFields(v.Type()) {
		fv := v.Field(f.index)
		if isNil(fv) || (f.omitEmpty && fv.IsZero()) {
			continue
		}
		writeString(buf, f.name)
		if err := encodeValue(buf, fv); err != nil {
			return err
		}
	}
	buf.WriteByte('e')
	return nil
}
