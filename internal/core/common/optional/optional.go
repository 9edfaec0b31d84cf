// Package optional distinguishes a field that was not supplied from a field
// that was explicitly cleared.
package optional

import (
	"bytes"
	"encoding/json"
	"strings"
)

type state uint8

const (
	absent state = iota
	null
	set
)

// Value is Absent in its zero state, Null after an explicit clear and Set
// when it carries a value. A JSON key that is missing leaves it Absent,
// a JSON null makes it Null.
type Value[T any] struct {
	state state
	value T
}

func Of[T any](v T) Value[T] {
	return Value[T]{state: set, value: v}
}

func Null[T any]() Value[T] {
	return Value[T]{state: null}
}

func Absent[T any]() Value[T] {
	return Value[T]{}
}

func (o Value[T]) IsAbsent() bool { return o.state == absent }
func (o Value[T]) IsNull() bool   { return o.state == null }
func (o Value[T]) IsSet() bool    { return o.state == set }

// Supplied reports whether the caller sent the field at all.
func (o Value[T]) Supplied() bool { return o.state != absent }

func (o Value[T]) Get() (T, bool) {
	return o.value, o.state == set
}

func (o Value[T]) OrElse(fallback T) T {
	if o.state == set {
		return o.value
	}
	return fallback
}

// Ptr returns nil unless the value is Set.
func (o Value[T]) Ptr() *T {
	if o.state != set {
		return nil
	}
	v := o.value
	return &v
}

// Column yields the value to write and whether the column should be
// written at all. Null produces a nil value so the store writes SQL NULL.
func (o Value[T]) Column() (any, bool) {
	switch o.state {
	case set:
		return o.value, true
	case null:
		return nil, true
	default:
		return nil, false
	}
}

func (o Value[T]) MarshalJSON() ([]byte, error) {
	if o.state != set {
		return []byte("null"), nil
	}
	return json.Marshal(o.value)
}

func (o *Value[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*o = Null[T]()
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*o = Of(v)
	return nil
}

// FromPtr maps nil to Null and anything else to Set.
func FromPtr[T any](p *T) Value[T] {
	if p == nil {
		return Null[T]()
	}
	return Of(*p)
}

// Blank turns a Set value holding only whitespace into Null. Form inputs
// submit an empty string for a cleared field.
func Blank(o Value[string]) Value[string] {
	if v, ok := o.Get(); ok && strings.TrimSpace(v) == "" {
		return Null[string]()
	}
	return o
}

// Map converts a Set value, keeping Absent and Null as they are.
func Map[T, U any](o Value[T], fn func(T) U) Value[U] {
	switch o.state {
	case set:
		return Of(fn(o.value))
	case null:
		return Null[U]()
	default:
		return Absent[U]()
	}
}
