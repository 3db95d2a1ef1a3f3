// Package optional carries the field-presence information partial
// updates depend on: a request field can be absent, explicitly null, or
// set to a value, and the three cases must stay distinguishable after
// JSON decoding.
package optional

import "encoding/json"

// Field is an unset | null | value variant. The zero Field is unset.
type Field[T any] struct {
	value T
	set   bool
	null  bool
}

// Of returns a Field holding value.
func Of[T any](value T) Field[T] {
	return Field[T]{value: value, set: true}
}

// Null returns an explicitly-null Field.
func Null[T any]() Field[T] {
	return Field[T]{set: true, null: true}
}

// Present reports whether the field appeared in the request at all.
func (f Field[T]) Present() bool { return f.set }

// IsNull reports whether the field was explicitly set to null.
func (f Field[T]) IsNull() bool { return f.set && f.null }

// Value returns the decoded value; ok is false when the field is unset
// or null.
func (f Field[T]) Value() (value T, ok bool) {
	if !f.set || f.null {
		var zero T
		return zero, false
	}
	return f.value, true
}

// Ptr returns the value as a nullable pointer: nil when null, the value
// otherwise. Only meaningful when Present.
func (f Field[T]) Ptr() *T {
	if !f.set || f.null {
		return nil
	}
	v := f.value
	return &v
}

// UnmarshalJSON is only invoked for keys present in the payload, which
// is what makes absent and null distinguishable.
func (f *Field[T]) UnmarshalJSON(data []byte) error {
	f.set = true
	if string(data) == "null" {
		f.null = true
		return nil
	}
	return json.Unmarshal(data, &f.value)
}

// MarshalJSON encodes null for unset and null fields alike.
func (f Field[T]) MarshalJSON() ([]byte, error) {
	if !f.set || f.null {
		return []byte("null"), nil
	}
	return json.Marshal(f.value)
}
