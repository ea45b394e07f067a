// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package constants

const (
	// ServiceRootPath is the well-known entry point of every Redfish service
	ServiceRootPath = "/redfish/v1/"
	// SessionsPath is used when no SessionService link could be discovered
	SessionsPath = "/redfish/v1/SessionService/Sessions"
	// DefaultLanguage is the registry language tag used as a fallback
	DefaultLanguage = "default"
	// DefaultRedfishVersion is assumed when a service does not advertise one
	DefaultRedfishVersion = "1.0.0"
)
