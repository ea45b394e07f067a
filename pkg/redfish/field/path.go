// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package field

import "strings"

// Path is a sequence of nested object keys, e.g.
// Path{"Actions", "Oem", "#Vendor.Reset"}.
type Path []string

// P builds a Path from its keys.
func P(keys ...string) Path {
	return Path(keys)
}

// String joins the keys with "/".
func (p Path) String() string {
	return strings.Join(p, "/")
}

// Lookup walks doc along p. The boolean is false when any key along the
// way is missing or an intermediate value is not an object.
func (p Path) Lookup(doc map[string]any) (any, bool) {
	if len(p) == 0 {
		return doc, true
	}
	var cur any = doc
	for _, key := range p {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = obj[key]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

func (p Path) join(child Path) Path {
	out := make(Path, 0, len(p)+len(child))
	out = append(out, p...)
	return append(out, child...)
}
