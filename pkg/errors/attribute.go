// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package errors

import (
	"errors"
	"fmt"
	"strings"
)

// MissingAttribute is returned when a required field is absent from a
// document. Parsing is aborted and no partially populated resource escapes.
type MissingAttribute struct {
	base
	Attribute string
	Resource  string
}

// Error returns the error message for MissingAttribute.
func (m MissingAttribute) Error() string {
	return m.error()
}

// NewMissingAttribute creates a new MissingAttribute error.
func NewMissingAttribute(attribute, resource string) MissingAttribute {
	return MissingAttribute{
		base: base{
			message: fmt.Sprintf("the resource %s is missing attribute %s", resource, attribute),
		},
		Attribute: attribute,
		Resource:  resource,
	}
}

// MalformedAttribute is returned when a present field cannot be decoded.
// Allowed is set for enumerated fields.
type MalformedAttribute struct {
	base
	Attribute string
	Resource  string
	Value     string
	Allowed   []string
}

// Error returns the error message for MalformedAttribute.
func (m MalformedAttribute) Error() string {
	return m.error()
}

// NewMalformedAttribute creates a new MalformedAttribute error. The optional
// err is the adapter failure.
func NewMalformedAttribute(attribute, resource, value string, allowed []string, err ...error) MalformedAttribute {
	msg := fmt.Sprintf("the resource %s has a malformed attribute %s with value %q", resource, attribute, value)
	if len(allowed) > 0 {
		msg = fmt.Sprintf("%s, valid values are: %s", msg, strings.Join(allowed, ", "))
	}
	return MalformedAttribute{
		base: base{
			message: msg,
			err:     errors.Join(err...),
		},
		Attribute: attribute,
		Resource:  resource,
		Value:     value,
		Allowed:   allowed,
	}
}
