// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package redfish

import (
	"context"

	"github.com/linuxfoundation/lfx-v2-redfish-client/pkg/redfish/field"
	"github.com/linuxfoundation/lfx-v2-redfish-client/pkg/redfish/resource"
	"github.com/linuxfoundation/lfx-v2-redfish-client/pkg/redfish/task"
)

// Chassis is a physical enclosure.
type Chassis struct {
	resource.Base

	ID           field.Value[string]
	Name         field.Value[string]
	ChassisType  field.Value[string]
	Manufacturer field.Value[string]
	Model        field.Value[string]
	SKU          field.Value[string]
	SerialNumber field.Value[string]
	PartNumber   field.Value[string]
	AssetTag     field.Value[string]
	IndicatorLED field.Value[IndicatorLED]
	PowerState   field.Value[PowerState]
	Status       *Status
	ResetAction  *resource.Action
}

var chassisSchema = field.NewSchema(
	field.Scalar(field.P("Id"), field.String, func(c *Chassis) *field.Value[string] { return &c.ID }, field.Required()),
	field.Scalar(field.P("Name"), field.String, func(c *Chassis) *field.Value[string] { return &c.Name }),
	field.Scalar(field.P("ChassisType"), field.String, func(c *Chassis) *field.Value[string] { return &c.ChassisType }),
	field.Scalar(field.P("Manufacturer"), field.String, func(c *Chassis) *field.Value[string] { return &c.Manufacturer }),
	field.Scalar(field.P("Model"), field.String, func(c *Chassis) *field.Value[string] { return &c.Model }),
	field.Scalar(field.P("SKU"), field.String, func(c *Chassis) *field.Value[string] { return &c.SKU }),
	field.Scalar(field.P("SerialNumber"), field.String, func(c *Chassis) *field.Value[string] { return &c.SerialNumber }),
	field.Scalar(field.P("PartNumber"), field.String, func(c *Chassis) *field.Value[string] { return &c.PartNumber }),
	field.Scalar(field.P("AssetTag"), field.String, func(c *Chassis) *field.Value[string] { return &c.AssetTag }),
	field.Mapped(field.P("IndicatorLED"), indicatorLEDs, func(c *Chassis) *field.Value[IndicatorLED] { return &c.IndicatorLED }),
	field.Mapped(field.P("PowerState"), powerStates, func(c *Chassis) *field.Value[PowerState] { return &c.PowerState }),
	field.Composite(field.P("Status"), statusSchema, func(c *Chassis) **Status { return &c.Status }),
	field.Composite(field.P("Actions", "#Chassis.Reset"), resource.ActionSchema, func(c *Chassis) **resource.Action { return &c.ResetAction }),
)

// Parse implements resource.Parser.
func (c *Chassis) Parse(fc field.Context, doc map[string]any) error {
	return chassisSchema.Decode(fc, doc, c)
}

// NewChassis fetches the chassis at path.
func NewChassis(ctx context.Context, conn resource.Connector, path, version string, opts ...resource.Option) (*Chassis, error) {
	c := &Chassis{}
	if err := resource.Init(ctx, c, &c.Base, conn, path, version, opts...); err != nil {
		return nil, err
	}
	return c, nil
}

// SetIndicatorLED sets the identification LED.
func (c *Chassis) SetIndicatorLED(ctx context.Context, state IndicatorLED) error {
	return resource.SetValue(ctx, &c.Base, "IndicatorLED", string(state), field.Keys(indicatorLEDs),
		map[string]any{"IndicatorLED": state})
}

// Reset power cycles the enclosure.
func (c *Chassis) Reset(ctx context.Context, resetType ResetType) (*task.Monitor, error) {
	return reset(ctx, &c.Base, c.ResetAction, "#Chassis.Reset", resetType)
}

// ChassisCollection lists the enclosures of the service.
type ChassisCollection struct {
	resource.Collection[*Chassis]
}

// NewChassisCollection fetches the collection at path.
func NewChassisCollection(ctx context.Context, conn resource.Connector, path, version string, opts ...resource.Option) (*ChassisCollection, error) {
	c := &ChassisCollection{}
	if err := resource.InitCollection(ctx, c, &c.Collection, conn, path, version, NewChassis, opts...); err != nil {
		return nil, err
	}
	return c, nil
}
