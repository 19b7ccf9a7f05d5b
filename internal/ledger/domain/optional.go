package domain

import (
	"bytes"
	"encoding/json"
)

// Optional holds a field of a partial update that may be absent, explicitly
// null, or carry a value.
type Optional[T any] struct {
	set   bool
	value *T
}

func Some[T any](v T) Optional[T] {
	return Optional[T]{set: true, value: &v}
}

func Null[T any]() Optional[T] {
	return Optional[T]{set: true}
}

func (o Optional[T]) IsSet() bool {
	return o.set
}

func (o Optional[T]) IsNull() bool {
	return o.set && o.value == nil
}

// Get returns the value and whether one is present.
func (o Optional[T]) Get() (T, bool) {
	if o.value == nil {
		var zero T
		return zero, false
	}
	return *o.value, true
}

// Ptr returns nil for unset and null.
func (o Optional[T]) Ptr() *T {
	return o.value
}

// UnmarshalJSON is only invoked when the key is present, which is what marks
// the field as set.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	o.value = &v
	return nil
}
