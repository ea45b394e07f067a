// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package constants

const (
	// RequestIDHeader is the header name for the request ID
	RequestIDHeader = "X-REQUEST-ID"
	// AuthTokenHeader carries the Redfish session token
	AuthTokenHeader = "X-Auth-Token"
	// LocationHeader points at a created resource or a task monitor
	LocationHeader = "Location"
	// RetryAfterHeader tells the client when to poll a task monitor again
	RetryAfterHeader = "Retry-After"
	// ODataVersionHeader is sent on every Redfish request
	ODataVersionHeader = "OData-Version"
	// ODataVersion is the protocol version the client speaks
	ODataVersion = "4.0"
)
