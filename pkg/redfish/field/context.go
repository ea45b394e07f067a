// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package field

import (
	"github.com/blang/semver/v4"
)

// Context carries what a decode needs besides the document itself: the
// identity used in error conditions and the schema version used to gate
// version dependent descriptors.
type Context struct {
	// Resource identifies the document, normally its URI path.
	Resource string

	version *semver.Version
	prefix  Path
}

// NewContext builds a Context. An empty or unparsable schemaVersion disables
// version gating rather than failing: services in the wild report all sorts
// of version strings.
func NewContext(resource, schemaVersion string) Context {
	c := Context{Resource: resource}
	if schemaVersion != "" {
		if v, err := semver.ParseTolerant(schemaVersion); err == nil {
			c.version = &v
		}
	}
	return c
}

// Version returns the parsed schema version, if known.
func (c Context) Version() (semver.Version, bool) {
	if c.version == nil {
		return semver.Version{}, false
	}
	return *c.version, true
}

// AtLeast reports whether the schema version is >= min. An unknown version
// satisfies every minimum.
func (c Context) AtLeast(min semver.Version) bool {
	if c.version == nil {
		return true
	}
	return c.version.GE(min)
}

func (c Context) child(p Path) Context {
	c.prefix = c.prefix.join(p)
	return c
}

func (c Context) name(p Path) string {
	return c.prefix.join(p).String()
}
