// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package redfish

import (
	"context"

	"github.com/google/uuid"

	"github.com/linuxfoundation/lfx-v2-redfish-client/pkg/redfish/field"
	"github.com/linuxfoundation/lfx-v2-redfish-client/pkg/redfish/resource"
	"github.com/linuxfoundation/lfx-v2-redfish-client/pkg/redfish/task"
)

// ManagerType is the kind of management controller.
type ManagerType string

const (
	ManagerBMC                  ManagerType = "BMC"
	ManagerEnclosureManager     ManagerType = "EnclosureManager"
	ManagerManagementController ManagerType = "ManagementController"
	ManagerAuxiliaryController  ManagerType = "AuxiliaryController"
	ManagerRackManager          ManagerType = "RackManager"
	ManagerService              ManagerType = "Service"
)

var managerTypes = field.Enum(
	ManagerBMC, ManagerEnclosureManager, ManagerManagementController,
	ManagerAuxiliaryController, ManagerRackManager, ManagerService,
)

// Manager is a management controller, usually the BMC itself.
type Manager struct {
	resource.Base

	ID              field.Value[string]
	Name            field.Value[string]
	ManagerType     field.Value[ManagerType]
	FirmwareVersion field.Value[string]
	Model           field.Value[string]
	UUID            field.Value[uuid.UUID]
	PowerState      field.Value[PowerState]
	Status          *Status
	ResetAction     *resource.Action
}

var managerSchema = field.NewSchema(
	field.Scalar(field.P("Id"), field.String, func(m *Manager) *field.Value[string] { return &m.ID }, field.Required()),
	field.Scalar(field.P("Name"), field.String, func(m *Manager) *field.Value[string] { return &m.Name }),
	field.Mapped(field.P("ManagerType"), managerTypes, func(m *Manager) *field.Value[ManagerType] { return &m.ManagerType }),
	field.Scalar(field.P("FirmwareVersion"), field.String, func(m *Manager) *field.Value[string] { return &m.FirmwareVersion }),
	field.Scalar(field.P("Model"), field.String, func(m *Manager) *field.Value[string] { return &m.Model }),
	field.Scalar(field.P("UUID"), field.UUID, func(m *Manager) *field.Value[uuid.UUID] { return &m.UUID }),
	field.Mapped(field.P("PowerState"), powerStates, func(m *Manager) *field.Value[PowerState] { return &m.PowerState }),
	field.Composite(field.P("Status"), statusSchema, func(m *Manager) **Status { return &m.Status }),
	field.Composite(field.P("Actions", "#Manager.Reset"), resource.ActionSchema, func(m *Manager) **resource.Action { return &m.ResetAction }),
)

// Parse implements resource.Parser.
func (m *Manager) Parse(c field.Context, doc map[string]any) error {
	return managerSchema.Decode(c, doc, m)
}

// NewManager fetches the manager at path.
func NewManager(ctx context.Context, conn resource.Connector, path, version string, opts ...resource.Option) (*Manager, error) {
	m := &Manager{}
	if err := resource.Init(ctx, m, &m.Base, conn, path, version, opts...); err != nil {
		return nil, err
	}
	return m, nil
}

// Reset restarts the manager.
func (m *Manager) Reset(ctx context.Context, resetType ResetType) (*task.Monitor, error) {
	return reset(ctx, &m.Base, m.ResetAction, "#Manager.Reset", resetType)
}

// ManagerCollection lists the managers of the service.
type ManagerCollection struct {
	resource.Collection[*Manager]
}

// NewManagerCollection fetches the collection at path.
func NewManagerCollection(ctx context.Context, conn resource.Connector, path, version string, opts ...resource.Option) (*ManagerCollection, error) {
	c := &ManagerCollection{}
	if err := resource.InitCollection(ctx, c, &c.Collection, conn, path, version, NewManager, opts...); err != nil {
		return nil, err
	}
	return c, nil
}
