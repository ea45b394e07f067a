// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package field

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/linuxfoundation/lfx-v2-redfish-client/pkg/errors"
)

type scalar[T, V any] struct {
	path  Path
	adapt Adapter[V]
	slot  func(*T) *Value[V]
	opts  options
	def   V
}

// Scalar decodes the value at path through adapt into the slot.
func Scalar[T, V any](path Path, adapt func(raw any) (V, error), slot func(*T) *Value[V], opts ...Option) Descriptor[T] {
	d := &scalar[T, V]{path: path, adapt: adapt, slot: slot, opts: newOptions(opts)}
	if d.opts.hasDef {
		def, ok := d.opts.def.(V)
		if !ok {
			panic(fmt.Sprintf("field: default %T for %s does not match %T", d.opts.def, path, d.def))
		}
		d.def = def
	}
	return d
}

func (d *scalar[T, V]) Path() Path { return d.path }

func (d *scalar[T, V]) load(c Context, doc map[string]any, target *T) error {
	dst := d.slot(target)
	*dst = Absent[V]()
	if d.opts.skip(c) {
		return nil
	}

	raw, ok := d.path.Lookup(doc)
	if !ok {
		if d.opts.required {
			return errors.NewMissingAttribute(c.name(d.path), c.Resource)
		}
		if d.opts.hasDef {
			*dst = Of(d.def)
		}
		return nil
	}
	if raw == nil {
		*dst = Null[V]()
		return nil
	}

	v, err := d.adapt(raw)
	if err != nil {
		return errors.NewMalformedAttribute(c.name(d.path), c.Resource, fmt.Sprint(raw), nil, err)
	}
	*dst = Of(v)
	return nil
}

type mapped[T any, E comparable] struct {
	path  Path
	table map[string]E
	slot  func(*T) *Value[E]
	opts  options
}

// Mapped decodes a string through a closed enumeration table. An unknown
// value fails a required field; an optional one becomes absent so that new
// vendor strings never break parsing.
func Mapped[T any, E comparable](path Path, table map[string]E, slot func(*T) *Value[E], opts ...Option) Descriptor[T] {
	return &mapped[T, E]{path: path, table: table, slot: slot, opts: newOptions(opts)}
}

func (d *mapped[T, E]) Path() Path { return d.path }

func (d *mapped[T, E]) load(c Context, doc map[string]any, target *T) error {
	dst := d.slot(target)
	*dst = Absent[E]()
	if d.opts.skip(c) {
		return nil
	}

	raw, ok := d.path.Lookup(doc)
	if !ok {
		if d.opts.required {
			return errors.NewMissingAttribute(c.name(d.path), c.Resource)
		}
		if d.opts.hasDef {
			if def, ok := d.opts.def.(E); ok {
				*dst = Of(def)
			}
		}
		return nil
	}
	if raw == nil {
		*dst = Null[E]()
		return nil
	}

	s, isString := raw.(string)
	v, known := d.table[s]
	if isString && known {
		*dst = Of(v)
		return nil
	}
	if d.opts.required {
		return errors.NewMalformedAttribute(c.name(d.path), c.Resource, fmt.Sprint(raw), Keys(d.table))
	}
	return nil
}

type mappedList[T any, E comparable] struct {
	path  Path
	table map[string]E
	slot  func(*T) *[]E
	opts  options
}

// MappedList maps every element of a string array through table, keeping
// input order and dropping elements that do not map.
func MappedList[T any, E comparable](path Path, table map[string]E, slot func(*T) *[]E, opts ...Option) Descriptor[T] {
	return &mappedList[T, E]{path: path, table: table, slot: slot, opts: newOptions(opts)}
}

func (d *mappedList[T, E]) Path() Path { return d.path }

func (d *mappedList[T, E]) load(c Context, doc map[string]any, target *T) error {
	dst := d.slot(target)
	*dst = []E{}
	if d.opts.skip(c) {
		return nil
	}

	raw, ok := d.path.Lookup(doc)
	if !ok || raw == nil {
		if d.opts.required {
			return errors.NewMissingAttribute(c.name(d.path), c.Resource)
		}
		return nil
	}
	items, ok := raw.([]any)
	if !ok {
		if d.opts.required {
			return errors.NewMalformedAttribute(c.name(d.path), c.Resource, fmt.Sprint(raw), Keys(d.table))
		}
		return nil
	}

	out := make([]E, 0, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			continue
		}
		if v, ok := d.table[s]; ok {
			out = append(out, v)
		}
	}
	*dst = out
	return nil
}

type composite[T, C any] struct {
	path   Path
	schema *Schema[C]
	slot   func(*T) **C
	opts   options
}

// Composite decodes the object at path into a nested type with its own
// schema. When the object is absent the slot is nil and nested required
// fields are not checked.
func Composite[T, C any](path Path, schema *Schema[C], slot func(*T) **C, opts ...Option) Descriptor[T] {
	return &composite[T, C]{path: path, schema: schema, slot: slot, opts: newOptions(opts)}
}

func (d *composite[T, C]) Path() Path { return d.path }

func (d *composite[T, C]) load(c Context, doc map[string]any, target *T) error {
	dst := d.slot(target)
	*dst = nil
	if d.opts.skip(c) {
		return nil
	}

	raw, ok := d.path.Lookup(doc)
	if !ok || raw == nil {
		if d.opts.required {
			return errors.NewMissingAttribute(c.name(d.path), c.Resource)
		}
		return nil
	}
	obj, ok := raw.(map[string]any)
	if !ok {
		return errors.NewMalformedAttribute(c.name(d.path), c.Resource, fmt.Sprint(raw), nil)
	}

	v := new(C)
	if err := d.schema.decode(c.child(d.path), obj, v); err != nil {
		return err
	}
	*dst = v
	return nil
}

type list[T, E any] struct {
	path   Path
	schema *Schema[E]
	slot   func(*T) *[]E
	opts   options
}

// List decodes an array of objects, one element type instance per entry.
// An absent array yields an empty slice.
func List[T, E any](path Path, schema *Schema[E], slot func(*T) *[]E, opts ...Option) Descriptor[T] {
	return &list[T, E]{path: path, schema: schema, slot: slot, opts: newOptions(opts)}
}

func (d *list[T, E]) Path() Path { return d.path }

func (d *list[T, E]) load(c Context, doc map[string]any, target *T) error {
	dst := d.slot(target)
	*dst = []E{}
	if d.opts.skip(c) {
		return nil
	}

	raw, ok := d.path.Lookup(doc)
	if !ok || raw == nil {
		if d.opts.required {
			return errors.NewMissingAttribute(c.name(d.path), c.Resource)
		}
		return nil
	}
	items, ok := raw.([]any)
	if !ok {
		return errors.NewMalformedAttribute(c.name(d.path), c.Resource, fmt.Sprint(raw), nil)
	}

	out := make([]E, len(items))
	for i, item := range items {
		elemPath := d.path.join(P(strconv.Itoa(i)))
		obj, ok := item.(map[string]any)
		if !ok {
			return errors.NewMalformedAttribute(c.name(elemPath), c.Resource, fmt.Sprint(item), nil)
		}
		if err := d.schema.decode(c.child(elemPath), obj, &out[i]); err != nil {
			return err
		}
	}
	*dst = out
	return nil
}

type dictionary[T, E any] struct {
	path   Path
	schema *Schema[E]
	slot   func(*T) *map[string]E
	opts   options
}

// Map decodes an object whose values are objects of the same shape, keyed
// by their property name.
func Map[T, E any](path Path, schema *Schema[E], slot func(*T) *map[string]E, opts ...Option) Descriptor[T] {
	return &dictionary[T, E]{path: path, schema: schema, slot: slot, opts: newOptions(opts)}
}

func (d *dictionary[T, E]) Path() Path { return d.path }

func (d *dictionary[T, E]) load(c Context, doc map[string]any, target *T) error {
	dst := d.slot(target)
	*dst = map[string]E{}
	if d.opts.skip(c) {
		return nil
	}

	raw, ok := d.path.Lookup(doc)
	if !ok || raw == nil {
		if d.opts.required {
			return errors.NewMissingAttribute(c.name(d.path), c.Resource)
		}
		return nil
	}
	obj, ok := raw.(map[string]any)
	if !ok {
		return errors.NewMalformedAttribute(c.name(d.path), c.Resource, fmt.Sprint(raw), nil)
	}

	out := make(map[string]E, len(obj))
	for key, item := range obj {
		entryPath := d.path.join(P(key))
		entry, ok := item.(map[string]any)
		if !ok {
			return errors.NewMalformedAttribute(c.name(entryPath), c.Resource, fmt.Sprint(item), nil)
		}
		var v E
		if err := d.schema.decode(c.child(entryPath), entry, &v); err != nil {
			return err
		}
		out[key] = v
	}
	*dst = out
	return nil
}

type embed[T, C any] struct {
	schema *Schema[C]
	slot   func(*T) *C
}

// Embed decodes the same document into an embedded struct with its own
// schema, letting resource types share common attribute sets.
func Embed[T, C any](schema *Schema[C], slot func(*T) *C) Descriptor[T] {
	return &embed[T, C]{schema: schema, slot: slot}
}

func (d *embed[T, C]) Path() Path { return nil }

func (d *embed[T, C]) load(c Context, doc map[string]any, target *T) error {
	return d.schema.decode(c, doc, d.slot(target))
}

// Keys returns the sorted raw values of an enumeration table.
func Keys[E any](table map[string]E) []string {
	keys := make([]string, 0, len(table))
	for k := range table {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Enum builds an identity table for string-backed enumerations whose Go
// values equal their wire values.
func Enum[E ~string](values ...E) map[string]E {
	table := make(map[string]E, len(values))
	for _, v := range values {
		table[string(v)] = v
	}
	return table
}

type custom[T any] struct {
	path Path
	fn   func(c Context, raw any, ok bool, target *T) error
}

// Custom runs fn with the raw value at path (the whole document for an
// empty path). It covers shapes the declarative descriptors cannot express,
// such as keys that carry annotations.
func Custom[T any](path Path, fn func(c Context, raw any, ok bool, target *T) error) Descriptor[T] {
	return &custom[T]{path: path, fn: fn}
}

func (d *custom[T]) Path() Path { return d.path }

func (d *custom[T]) load(c Context, doc map[string]any, target *T) error {
	raw, ok := d.path.Lookup(doc)
	return d.fn(c.child(d.path), raw, ok, target)
}

// Malformed builds the malformed attribute condition for a custom
// descriptor, naming the path the context points at.
func Malformed(c Context, raw any, err ...error) error {
	return errors.NewMalformedAttribute(c.name(nil), c.Resource, fmt.Sprint(raw), nil, err...)
}
