// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package errors

import (
	"errors"
	"fmt"
)

// HTTPError represents any non-2xx answer other than 404.
type HTTPError struct {
	base
	Method     string
	URL        string
	StatusCode int
	// Detail is the service provided error text.
	Detail string
	// ExtendedInfo holds the raw @Message.ExtendedInfo entries, when present.
	ExtendedInfo []map[string]any
}

// Error returns the error message for HTTPError.
func (h HTTPError) Error() string {
	return h.error()
}

// NewHTTPError creates a new HTTPError.
func NewHTTPError(method, url string, statusCode int, detail string, extendedInfo []map[string]any) HTTPError {
	return HTTPError{
		base: base{
			message: fmt.Sprintf("HTTP %s %s returned code %d: %s", method, url, statusCode, detail),
		},
		Method:       method,
		URL:          url,
		StatusCode:   statusCode,
		Detail:       detail,
		ExtendedInfo: extendedInfo,
	}
}

// ConnectionError represents a transport level failure (DNS, TLS, timeout).
type ConnectionError struct {
	base
	URL string
}

// Error returns the error message for ConnectionError.
func (c ConnectionError) Error() string {
	return c.error()
}

// NewConnectionError creates a new ConnectionError.
func NewConnectionError(url string, err ...error) ConnectionError {
	return ConnectionError{
		base: base{
			message: fmt.Sprintf("unable to connect to %s", url),
			err:     errors.Join(err...),
		},
		URL: url,
	}
}

// Unexpected represents an unexpected error in the application.
type Unexpected struct {
	base
}

// Error returns the error message for Unexpected.
func (u Unexpected) Error() string {
	return u.error()
}

// NewUnexpected creates a new Unexpected error with the provided message.
func NewUnexpected(message string, err ...error) Unexpected {
	return Unexpected{
		base: base{
			message: message,
			err:     errors.Join(err...),
		},
	}
}

// ServiceUnavailable represents a service unavailability error in the application.
type ServiceUnavailable struct {
	base
}

// Error returns the error message for ServiceUnavailable.
func (su ServiceUnavailable) Error() string {
	return su.error()
}

// NewServiceUnavailable creates a new ServiceUnavailable error with the provided message.
func NewServiceUnavailable(message string, err ...error) ServiceUnavailable {
	return ServiceUnavailable{
		base: base{
			message: message,
			err:     errors.Join(err...),
		},
	}
}
