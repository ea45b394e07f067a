// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package registry loads Redfish message registries and resolves message
// identifiers into text, severity and resolution.
package registry

import (
	"context"
	"strings"

	"github.com/linuxfoundation/lfx-v2-redfish-client/pkg/errors"
	"github.com/linuxfoundation/lfx-v2-redfish-client/pkg/redfish/field"
	"github.com/linuxfoundation/lfx-v2-redfish-client/pkg/redfish/resource"
)

// MessageEntry is one message definition of a registry.
type MessageEntry struct {
	Description field.Value[string]
	Message     field.Value[string]
	Severity    field.Value[Severity]
	ParamTypes  []string
	Resolution  field.Value[string]
}

// NumberOfArgs is the number of arguments the template declares.
func (e MessageEntry) NumberOfArgs() int {
	return len(e.ParamTypes)
}

var entrySchema = field.NewSchema(
	field.Scalar(field.P("Description"), field.String, func(e *MessageEntry) *field.Value[string] { return &e.Description }, field.Default("")),
	field.Scalar(field.P("Message"), field.String, func(e *MessageEntry) *field.Value[string] { return &e.Message }, field.Required()),
	field.Mapped(field.P("Severity"), severities, func(e *MessageEntry) *field.Value[Severity] { return &e.Severity }, field.Default(SeverityWarning)),
	field.Custom(field.P("ParamTypes"), func(c field.Context, raw any, ok bool, e *MessageEntry) error {
		e.ParamTypes = []string{}
		if !ok || raw == nil {
			return nil
		}
		types, err := field.Strings(raw)
		if err != nil {
			return field.Malformed(c, raw, err)
		}
		e.ParamTypes = types
		return nil
	}),
	field.Scalar(field.P("Resolution"), field.String, func(e *MessageEntry) *field.Value[string] { return &e.Resolution }),
)

// MessageRegistry is a registry document.
type MessageRegistry struct {
	resource.Base

	ODataType       field.Value[string]
	ID              field.Value[string]
	Name            field.Value[string]
	Description     field.Value[string]
	Language        field.Value[string]
	RegistryPrefix  field.Value[string]
	RegistryVersion field.Value[string]
	OwningEntity    field.Value[string]
	Messages        map[string]MessageEntry
}

var registrySchema = field.NewSchema(
	field.Scalar(field.P("@odata.type"), field.String, func(r *MessageRegistry) *field.Value[string] { return &r.ODataType }),
	field.Scalar(field.P("Id"), field.String, func(r *MessageRegistry) *field.Value[string] { return &r.ID }, field.Required()),
	field.Scalar(field.P("Name"), field.String, func(r *MessageRegistry) *field.Value[string] { return &r.Name }),
	field.Scalar(field.P("Description"), field.String, func(r *MessageRegistry) *field.Value[string] { return &r.Description }),
	field.Scalar(field.P("Language"), field.String, func(r *MessageRegistry) *field.Value[string] { return &r.Language }),
	field.Scalar(field.P("RegistryPrefix"), field.String, func(r *MessageRegistry) *field.Value[string] { return &r.RegistryPrefix }, field.Required()),
	field.Scalar(field.P("RegistryVersion"), field.String, func(r *MessageRegistry) *field.Value[string] { return &r.RegistryVersion }, field.Required()),
	field.Scalar(field.P("OwningEntity"), field.String, func(r *MessageRegistry) *field.Value[string] { return &r.OwningEntity }),
	field.Map(field.P("Messages"), entrySchema, func(r *MessageRegistry) *map[string]MessageEntry { return &r.Messages }),
)

// Parse implements resource.Parser. Documents of another OData type, such
// as attribute registries published next to message registries, are
// rejected before decoding.
func (r *MessageRegistry) Parse(c field.Context, doc map[string]any) error {
	if t, ok := doc["@odata.type"].(string); ok && !strings.HasSuffix(t, "MessageRegistry") {
		return errors.NewMalformedAttribute("@odata.type", c.Resource, t, []string{"#MessageRegistry.<version>.MessageRegistry"})
	}
	return registrySchema.Decode(c, doc, r)
}

// Key is the "<RegistryPrefix>.<RegistryVersion>" identity that message ids
// refer to.
func (r *MessageRegistry) Key() string {
	return r.RegistryPrefix.OrElse("") + "." + r.RegistryVersion.OrElse("")
}

// NewMessageRegistry fetches and parses the registry at path.
func NewMessageRegistry(ctx context.Context, conn resource.Connector, path, version string, opts ...resource.Option) (*MessageRegistry, error) {
	r := &MessageRegistry{}
	if err := resource.Init(ctx, r, &r.Base, conn, path, version, opts...); err != nil {
		return nil, err
	}
	return r, nil
}
