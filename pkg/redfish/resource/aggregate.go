// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package resource

import (
	"cmp"

	"github.com/linuxfoundation/lfx-v2-redfish-client/pkg/redfish/field"
)

// Present keeps the present values, in order. Absent and null entries are
// dropped; zero values are kept.
func Present[V any](values []field.Value[V]) []V {
	out := make([]V, 0, len(values))
	for _, v := range values {
		if x, ok := v.Get(); ok {
			out = append(out, x)
		}
	}
	return out
}

// SafeMax is the largest present value, or absent when there is none. It
// never reports zero for "no data".
func SafeMax[V cmp.Ordered](values []field.Value[V]) field.Value[V] {
	present := Present(values)
	if len(present) == 0 {
		return field.Absent[V]()
	}
	best := present[0]
	for _, v := range present[1:] {
		best = max(best, v)
	}
	return field.Of(best)
}

// SafeSum is the sum of present values, or absent when there is none.
func SafeSum[V cmp.Ordered](values []field.Value[V]) field.Value[V] {
	present := Present(values)
	if len(present) == 0 {
		return field.Absent[V]()
	}
	var total V
	for _, v := range present {
		total += v
	}
	return field.Of(total)
}
