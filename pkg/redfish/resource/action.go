// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package resource

import (
	"context"
	"slices"
	"strings"

	"github.com/linuxfoundation/lfx-v2-redfish-client/pkg/errors"
	"github.com/linuxfoundation/lfx-v2-redfish-client/pkg/redfish/field"
)

const allowableSuffix = "@Redfish.AllowableValues"

// Action is an advertised "#Type.Action" entry of a document.
type Action struct {
	Target field.Value[string]
	Info   field.Value[string]
	// AllowableValues maps a parameter name to the values the service
	// accepts for it, from "<Param>@Redfish.AllowableValues".
	AllowableValues map[string][]string
}

// ActionSchema decodes an Action object.
var ActionSchema = field.NewSchema(
	field.Scalar(field.P("target"), field.String, func(a *Action) *field.Value[string] { return &a.Target }, field.Required()),
	field.Scalar(field.P("@Redfish.ActionInfo"), field.String, func(a *Action) *field.Value[string] { return &a.Info }),
	field.Custom(nil, func(c field.Context, raw any, _ bool, a *Action) error {
		a.AllowableValues = map[string][]string{}
		obj, _ := raw.(map[string]any)
		for key, v := range obj {
			param, ok := strings.CutSuffix(key, allowableSuffix)
			if !ok {
				continue
			}
			values, err := field.Strings(v)
			if err != nil {
				return field.Malformed(c, v, err)
			}
			a.AllowableValues[param] = values
		}
		return nil
	}),
)

// Allowed returns the service advertised values for param.
func (a *Action) Allowed(param string) ([]string, bool) {
	if a == nil {
		return nil, false
	}
	v, ok := a.AllowableValues[param]
	return v, ok
}

// ActionTarget returns the target URI of a, or a MissingAction condition
// naming the action and the owning resource.
func ActionTarget(a *Action, name string, owner *Base) (string, error) {
	if a == nil {
		return "", errors.NewMissingAction(name, owner.Path())
	}
	target, ok := a.Target.Get()
	if !ok || target == "" {
		return "", errors.NewMissingAction(name, owner.Path())
	}
	return target, nil
}

// ValidateParameter fails with InvalidParameter when value is not in
// allowed. It runs before any network call.
func ValidateParameter(param, value string, allowed []string) error {
	if slices.Contains(allowed, value) {
		return nil
	}
	return errors.NewInvalidParameter(param, value, allowed)
}

// SetValue is the setter pattern shared by resources: validate value for
// param against allowed, PATCH body and invalidate the local copy.
func SetValue(ctx context.Context, owner *Base, param, value string, allowed []string, body any) error {
	if err := ValidateParameter(param, value, allowed); err != nil {
		return err
	}
	_, err := owner.Patch(ctx, body)
	return err
}
