// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package oem grafts vendor extensions onto standard resources. An
// extension is decoded from the parent's Oem.<Vendor> subtree, with the
// parent's Actions.Oem object injected as its Actions key so OEM actions
// decode like standard ones.
package oem

import (
	"context"
	"log/slog"

	"github.com/linuxfoundation/lfx-v2-redfish-client/pkg/httpclient"
	"github.com/linuxfoundation/lfx-v2-redfish-client/pkg/redfish/field"
	"github.com/linuxfoundation/lfx-v2-redfish-client/pkg/redfish/resource"
)

// Parent is the resource an extension is bound to. *resource.Base
// implements it.
type Parent interface {
	Path() string
	SchemaVersion() string
	Document() map[string]any
	Generation() uint64
	IsStale() bool
	Connector() resource.Connector
	Logger() *slog.Logger
}

// Extension is implemented by every type embedding Base.
type Extension interface {
	resource.Parser
	Vendor() string
	IsStale() bool
	Rebind(parent Parent) error
	extension() *Base
}

// Base is embedded by vendor extension types. It has no URI of its own:
// refreshing means refreshing the parent and binding again.
type Base struct {
	self       resource.Parser
	parent     Parent
	vendor     string
	document   map[string]any
	generation uint64
}

// Bind attaches b to parent under vendor and parses the grafted document
// into self. Every call re-parses; on failure b is left unbound.
func Bind(self resource.Parser, b *Base, parent Parent, vendor string) error {
	b.self = self
	b.vendor = vendor
	return b.Rebind(parent)
}

// Rebind parses the extension again from parent, which may differ from the
// parent of the previous binding.
func (b *Base) Rebind(parent Parent) error {
	doc := graft(parent.Document(), b.vendor)
	c := field.NewContext(parent.Path()+"#/Oem/"+b.vendor, parent.SchemaVersion())
	if err := b.self.Parse(c, doc); err != nil {
		b.parent, b.document, b.generation = nil, nil, 0
		parent.Logger().Warn("failed to bind OEM extension",
			"path", parent.Path(),
			"vendor", b.vendor,
			"error", err,
		)
		return err
	}
	b.parent = parent
	b.document = doc
	b.generation = parent.Generation()
	return nil
}

func graft(parentDoc map[string]any, vendor string) map[string]any {
	doc := map[string]any{}
	if oem, ok := parentDoc["Oem"].(map[string]any); ok {
		if sub, ok := oem[vendor].(map[string]any); ok {
			for k, v := range sub {
				doc[k] = v
			}
		}
	}

	actions := map[string]any{}
	if all, ok := parentDoc["Actions"].(map[string]any); ok {
		if oemActions, ok := all["Oem"].(map[string]any); ok {
			actions = oemActions
		}
	}
	doc["Actions"] = actions
	return doc
}

func (b *Base) extension() *Base { return b }

// Vendor is the Oem key the extension was bound under.
func (b *Base) Vendor() string { return b.vendor }

// Parent returns the bound parent, or nil when unbound.
func (b *Base) Parent() Parent { return b.parent }

// Document returns the grafted document.
func (b *Base) Document() map[string]any { return b.document }

// IsStale reports whether the parent has been refreshed or invalidated
// since the extension was bound.
func (b *Base) IsStale() bool {
	return b.parent == nil || b.parent.IsStale() || b.parent.Generation() != b.generation
}

// Post sends body to an OEM action target through the parent's connector.
func (b *Base) Post(ctx context.Context, target string, body any) (*httpclient.Response, error) {
	return b.parent.Connector().Post(ctx, target, body)
}
