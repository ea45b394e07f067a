// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package redfish

import (
	"context"

	"github.com/google/uuid"

	"github.com/linuxfoundation/lfx-v2-redfish-client/pkg/redfish/field"
	"github.com/linuxfoundation/lfx-v2-redfish-client/pkg/redfish/oem"
	"github.com/linuxfoundation/lfx-v2-redfish-client/pkg/redfish/resource"
	"github.com/linuxfoundation/lfx-v2-redfish-client/pkg/redfish/task"
)

// SystemKind is the OEM registry kind of ComputerSystem extensions.
const SystemKind = "ComputerSystem"

// BootSourceOverrideEnabled tells how long a boot override lasts.
type BootSourceOverrideEnabled string

const (
	BootOverrideDisabled   BootSourceOverrideEnabled = "Disabled"
	BootOverrideOnce       BootSourceOverrideEnabled = "Once"
	BootOverrideContinuous BootSourceOverrideEnabled = "Continuous"
)

var bootOverrideEnabled = field.Enum(BootOverrideDisabled, BootOverrideOnce, BootOverrideContinuous)

// BootSourceOverrideMode is the firmware boot mode used for an override.
type BootSourceOverrideMode string

const (
	BootModeLegacy BootSourceOverrideMode = "Legacy"
	BootModeUEFI   BootSourceOverrideMode = "UEFI"
)

var bootModes = field.Enum(BootModeLegacy, BootModeUEFI)

var bootTargets = field.Enum(
	"None", "Pxe", "Floppy", "Cd", "Usb", "Hdd", "BiosSetup", "Utilities",
	"Diags", "UefiShell", "UefiTarget", "SDCard", "UefiHttp", "RemoteDrive", "UefiBootNext",
)

// Boot holds the boot override settings of a system.
type Boot struct {
	Enabled        field.Value[BootSourceOverrideEnabled]
	Target         field.Value[string]
	Mode           field.Value[BootSourceOverrideMode]
	AllowedTargets []string
}

var bootSchema = field.NewSchema(
	field.Mapped(field.P("BootSourceOverrideEnabled"), bootOverrideEnabled, func(b *Boot) *field.Value[BootSourceOverrideEnabled] { return &b.Enabled }),
	field.Scalar(field.P("BootSourceOverrideTarget"), field.String, func(b *Boot) *field.Value[string] { return &b.Target }),
	field.Mapped(field.P("BootSourceOverrideMode"), bootModes, func(b *Boot) *field.Value[BootSourceOverrideMode] { return &b.Mode }),
	field.Custom(field.P("BootSourceOverrideTarget@Redfish.AllowableValues"), func(c field.Context, raw any, ok bool, b *Boot) error {
		b.AllowedTargets = []string{}
		if !ok || raw == nil {
			return nil
		}
		targets, err := field.Strings(raw)
		if err != nil {
			return field.Malformed(c, raw, err)
		}
		b.AllowedTargets = targets
		return nil
	}),
)

// MemorySummary is the memory overview of a system.
type MemorySummary struct {
	TotalSystemMemoryGiB field.Value[float64]
	Status               *Status
}

var memorySummarySchema = field.NewSchema(
	field.Scalar(field.P("TotalSystemMemoryGiB"), field.Float, func(m *MemorySummary) *field.Value[float64] { return &m.TotalSystemMemoryGiB }),
	field.Composite(field.P("Status"), statusSchema, func(m *MemorySummary) **Status { return &m.Status }),
)

// System is a ComputerSystem.
type System struct {
	resource.Base

	ID            field.Value[string]
	Name          field.Value[string]
	Description   field.Value[string]
	SystemType    field.Value[string]
	Manufacturer  field.Value[string]
	Model         field.Value[string]
	SKU           field.Value[string]
	SerialNumber  field.Value[string]
	PartNumber    field.Value[string]
	HostName      field.Value[string]
	BiosVersion   field.Value[string]
	UUID          field.Value[uuid.UUID]
	PowerState    field.Value[PowerState]
	IndicatorLED  field.Value[IndicatorLED]
	Status        *Status
	Boot          *Boot
	MemorySummary *MemorySummary
	ResetAction   *resource.Action

	processorsPath field.Value[string]
	storagePath    field.Value[string]

	processors resource.Cell[*ProcessorCollection]
	storage    resource.Cell[*StorageCollection]
	oems       oem.Cache
}

var systemSchema = field.NewSchema(
	field.Scalar(field.P("Id"), field.String, func(s *System) *field.Value[string] { return &s.ID }, field.Required()),
	field.Scalar(field.P("Name"), field.String, func(s *System) *field.Value[string] { return &s.Name }),
	field.Scalar(field.P("Description"), field.String, func(s *System) *field.Value[string] { return &s.Description }),
	field.Scalar(field.P("SystemType"), field.String, func(s *System) *field.Value[string] { return &s.SystemType }),
	field.Scalar(field.P("Manufacturer"), field.String, func(s *System) *field.Value[string] { return &s.Manufacturer }),
	field.Scalar(field.P("Model"), field.String, func(s *System) *field.Value[string] { return &s.Model }),
	field.Scalar(field.P("SKU"), field.String, func(s *System) *field.Value[string] { return &s.SKU }),
	field.Scalar(field.P("SerialNumber"), field.String, func(s *System) *field.Value[string] { return &s.SerialNumber }),
	field.Scalar(field.P("PartNumber"), field.String, func(s *System) *field.Value[string] { return &s.PartNumber }),
	field.Scalar(field.P("HostName"), field.String, func(s *System) *field.Value[string] { return &s.HostName }),
	field.Scalar(field.P("BiosVersion"), field.String, func(s *System) *field.Value[string] { return &s.BiosVersion }),
	field.Scalar(field.P("UUID"), field.UUID, func(s *System) *field.Value[uuid.UUID] { return &s.UUID }),
	field.Mapped(field.P("PowerState"), powerStates, func(s *System) *field.Value[PowerState] { return &s.PowerState }),
	field.Mapped(field.P("IndicatorLED"), indicatorLEDs, func(s *System) *field.Value[IndicatorLED] { return &s.IndicatorLED }),
	field.Composite(field.P("Status"), statusSchema, func(s *System) **Status { return &s.Status }),
	field.Composite(field.P("Boot"), bootSchema, func(s *System) **Boot { return &s.Boot }),
	field.Composite(field.P("MemorySummary"), memorySummarySchema, func(s *System) **MemorySummary { return &s.MemorySummary }),
	field.Composite(field.P("Actions", "#ComputerSystem.Reset"), resource.ActionSchema, func(s *System) **resource.Action { return &s.ResetAction }),
	link("Processors", func(s *System) *field.Value[string] { return &s.processorsPath }),
	link("Storage", func(s *System) *field.Value[string] { return &s.storagePath }),
)

// Parse implements resource.Parser.
func (s *System) Parse(c field.Context, doc map[string]any) error {
	return systemSchema.Decode(c, doc, s)
}

// NewSystem fetches the system at path.
func NewSystem(ctx context.Context, conn resource.Connector, path, version string, opts ...resource.Option) (*System, error) {
	s := &System{}
	if err := resource.Init(ctx, s, &s.Base, conn, path, version, opts...); err != nil {
		return nil, err
	}
	return s, nil
}

// Processors returns the processor collection.
func (s *System) Processors(ctx context.Context) (*ProcessorCollection, error) {
	return child(ctx, &s.processors, &s.Base, "Processors", s.processorsPath, NewProcessorCollection)
}

// Storage returns the storage subsystems collection.
func (s *System) Storage(ctx context.Context) (*StorageCollection, error) {
	return child(ctx, &s.storage, &s.Base, "Storage", s.storagePath, NewStorageCollection)
}

// OEM returns the extension registered for vendor, bound to this system.
func (s *System) OEM(ctx context.Context, vendor string) (oem.Extension, error) {
	return s.oems.Get(ctx, SystemKind, vendor, &s.Base)
}

// Reset powers the system as resetType asks.
func (s *System) Reset(ctx context.Context, resetType ResetType) (*task.Monitor, error) {
	return reset(ctx, &s.Base, s.ResetAction, "#ComputerSystem.Reset", resetType)
}

// SetIndicatorLED sets the identification LED.
func (s *System) SetIndicatorLED(ctx context.Context, state IndicatorLED) error {
	return resource.SetValue(ctx, &s.Base, "IndicatorLED", string(state), field.Keys(indicatorLEDs),
		map[string]any{"IndicatorLED": state})
}

// SetSystemBoot overrides the boot source. mode may be empty to keep the
// current one.
func (s *System) SetSystemBoot(ctx context.Context, target string, enabled BootSourceOverrideEnabled, mode BootSourceOverrideMode) error {
	targets := field.Keys(bootTargets)
	if s.Boot != nil && len(s.Boot.AllowedTargets) > 0 {
		targets = s.Boot.AllowedTargets
	}
	if err := resource.ValidateParameter("BootSourceOverrideTarget", target, targets); err != nil {
		return err
	}
	if err := resource.ValidateParameter("BootSourceOverrideEnabled", string(enabled), field.Keys(bootOverrideEnabled)); err != nil {
		return err
	}

	boot := map[string]any{
		"BootSourceOverrideTarget":  target,
		"BootSourceOverrideEnabled": enabled,
	}
	if mode != "" {
		if err := resource.ValidateParameter("BootSourceOverrideMode", string(mode), field.Keys(bootModes)); err != nil {
			return err
		}
		boot["BootSourceOverrideMode"] = mode
	}

	_, err := s.Patch(ctx, map[string]any{"Boot": boot})
	return err
}

// SystemCollection lists the systems of the service.
type SystemCollection struct {
	resource.Collection[*System]
}

// NewSystemCollection fetches the collection at path.
func NewSystemCollection(ctx context.Context, conn resource.Connector, path, version string, opts ...resource.Option) (*SystemCollection, error) {
	c := &SystemCollection{}
	if err := resource.InitCollection(ctx, c, &c.Collection, conn, path, version, NewSystem, opts...); err != nil {
		return nil, err
	}
	return c, nil
}
