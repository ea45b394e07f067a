// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package errors

import (
	"errors"
	"fmt"
	"strings"
)

// NotFound is returned when the BMC answers a request with HTTP 404. Callers
// commonly treat it as "feature not supported by this service".
type NotFound struct {
	base
	Method string
	URL    string
}

// Error returns the error message for NotFound.
func (n NotFound) Error() string {
	return n.error()
}

// NewNotFound creates a new NotFound error for the given request.
func NewNotFound(method, url string, err ...error) NotFound {
	return NotFound{
		base: base{
			message: fmt.Sprintf("resource %s not found (%s)", url, method),
			err:     errors.Join(err...),
		},
		Method: method,
		URL:    url,
	}
}

// InvalidParameter is returned before any network call when a caller supplied
// value is not part of the legal value set.
type InvalidParameter struct {
	base
	Parameter string
	Value     string
	Allowed   []string
}

// Error returns the error message for InvalidParameter.
func (p InvalidParameter) Error() string {
	return p.error()
}

// NewInvalidParameter creates a new InvalidParameter error.
func NewInvalidParameter(parameter, value string, allowed []string) InvalidParameter {
	return InvalidParameter{
		base: base{
			message: fmt.Sprintf("invalid value %q for parameter %s, valid values are: %s",
				value, parameter, strings.Join(allowed, ", ")),
		},
		Parameter: parameter,
		Value:     value,
		Allowed:   allowed,
	}
}

// MissingAction is returned when an action is requested on a resource whose
// document does not advertise it.
type MissingAction struct {
	base
	Action   string
	Resource string
}

// Error returns the error message for MissingAction.
func (m MissingAction) Error() string {
	return m.error()
}

// NewMissingAction creates a new MissingAction error.
func NewMissingAction(action, resource string) MissingAction {
	return MissingAction{
		base: base{
			message: fmt.Sprintf("the action %s is missing from resource %s", action, resource),
		},
		Action:   action,
		Resource: resource,
	}
}

// IsNotFound reports whether err carries a NotFound condition.
func IsNotFound(err error) bool {
	var nf NotFound
	return errors.As(err, &nf)
}
