package domain

import (
	"bytes"
	"encoding/json"
)

// Option holds either no value or exactly one value of T.
// It marshals to JSON null when empty.
type Option[T any] struct {
	value T
	ok    bool
}

// Some wraps a present value
func Some[T any](v T) Option[T] {
	return Option[T]{value: v, ok: true}
}

// None returns an empty option
func None[T any]() Option[T] {
	return Option[T]{}
}

// FromPtr converts a nullable pointer into an option
func FromPtr[T any](p *T) Option[T] {
	if p == nil {
		return None[T]()
	}
	return Some(*p)
}

func (o Option[T]) IsSome() bool { return o.ok }

func (o Option[T]) IsNone() bool { return !o.ok }

// Get returns the value and whether it is present
func (o Option[T]) Get() (T, bool) {
	return o.value, o.ok
}

// OrElse returns the value or def when empty
func (o Option[T]) OrElse(def T) T {
	if o.ok {
		return o.value
	}
	return def
}

// Ptr returns a pointer to a copy of the value, nil when empty
func (o Option[T]) Ptr() *T {
	if !o.ok {
		return nil
	}
	v := o.value
	return &v
}

func (o Option[T]) MarshalJSON() ([]byte, error) {
	if !o.ok {
		return []byte("null"), nil
	}
	return json.Marshal(o.value)
}

func (o *Option[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*o = None[T]()
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*o = Some(v)
	return nil
}
