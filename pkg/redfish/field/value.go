// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package field

import "fmt"

type state uint8

const (
	absent state = iota
	null
	present
)

// Value holds a decoded attribute. It distinguishes a key missing from the
// document (absent), a key holding JSON null, and a decoded value, so that a
// present false or 0 is never confused with "no data".
type Value[V any] struct {
	v     V
	state state
}

// Of returns a present Value.
func Of[V any](v V) Value[V] {
	return Value[V]{v: v, state: present}
}

// Null returns a Value for an explicit JSON null.
func Null[V any]() Value[V] {
	return Value[V]{state: null}
}

// Absent returns the absent Value.
func Absent[V any]() Value[V] {
	return Value[V]{}
}

// Get returns the value and whether it is present.
func (v Value[V]) Get() (V, bool) {
	return v.v, v.state == present
}

// OrElse returns the value or def when not present.
func (v Value[V]) OrElse(def V) V {
	if v.state == present {
		return v.v
	}
	return def
}

// IsPresent reports whether the value was decoded from the document.
func (v Value[V]) IsPresent() bool { return v.state == present }

// IsNull reports whether the document held an explicit null.
func (v Value[V]) IsNull() bool { return v.state == null }

// IsAbsent reports whether the key was missing from the document.
func (v Value[V]) IsAbsent() bool { return v.state == absent }

// String implements fmt.Stringer.
func (v Value[V]) String() string {
	switch v.state {
	case present:
		return fmt.Sprint(v.v)
	case null:
		return "null"
	default:
		return "<absent>"
	}
}
