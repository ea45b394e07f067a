// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package field maps JSON documents onto typed Go values through static,
// ordered lists of descriptors. A Schema is built once per target type and
// is safe to share; decoding is pure and performs no I/O.
package field

import (
	"fmt"

	"github.com/blang/semver/v4"
)

// Descriptor decodes one attribute of T from a document.
type Descriptor[T any] interface {
	// Path is the key path the descriptor reads.
	Path() Path
	load(c Context, doc map[string]any, target *T) error
}

// Schema is an ordered list of descriptors for T. Order has no semantic
// effect.
type Schema[T any] struct {
	fields []Descriptor[T]
}

// NewSchema builds a schema from descriptors.
func NewSchema[T any](fields ...Descriptor[T]) *Schema[T] {
	return &Schema[T]{fields: fields}
}

// Extend returns a new schema with additional descriptors appended.
func (s *Schema[T]) Extend(fields ...Descriptor[T]) *Schema[T] {
	out := make([]Descriptor[T], 0, len(s.fields)+len(fields))
	out = append(out, s.fields...)
	out = append(out, fields...)
	return &Schema[T]{fields: out}
}

// Paths lists the key paths read by the schema.
func (s *Schema[T]) Paths() []Path {
	paths := make([]Path, 0, len(s.fields))
	for _, f := range s.fields {
		paths = append(paths, f.Path())
	}
	return paths
}

// Decode populates target from doc. Either every descriptor succeeds and
// target is updated, or target is left untouched and the first failure is
// returned.
func (s *Schema[T]) Decode(c Context, doc map[string]any, target *T) error {
	tmp := *target
	if err := s.decode(c, doc, &tmp); err != nil {
		return err
	}
	*target = tmp
	return nil
}

func (s *Schema[T]) decode(c Context, doc map[string]any, target *T) error {
	if doc == nil {
		doc = map[string]any{}
	}
	for _, f := range s.fields {
		if err := f.load(c, doc, target); err != nil {
			return err
		}
	}
	return nil
}

// Option tunes a descriptor.
type Option func(*options)

type options struct {
	required bool
	since    *semver.Version
	def      any
	hasDef   bool
}

// Required makes the absence of the key a parse failure.
func Required() Option {
	return func(o *options) { o.required = true }
}

// Default supplies the value used when the key is absent. The type must
// match the descriptor's value type.
func Default(v any) Option {
	return func(o *options) {
		o.def = v
		o.hasDef = true
	}
}

// Since gates the descriptor on the schema version: older documents leave
// the attribute absent without inspecting the key. It panics on an invalid
// version, descriptors being static declarations.
func Since(version string) Option {
	v, err := semver.ParseTolerant(version)
	if err != nil {
		panic(fmt.Sprintf("field: invalid version %q: %v", version, err))
	}
	return func(o *options) { o.since = &v }
}

func newOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func (o options) skip(c Context) bool {
	return o.since != nil && !c.AtLeast(*o.since)
}
