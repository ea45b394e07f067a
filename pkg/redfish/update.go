// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package redfish

import (
	"context"

	"github.com/linuxfoundation/lfx-v2-redfish-client/pkg/redfish/field"
	"github.com/linuxfoundation/lfx-v2-redfish-client/pkg/redfish/resource"
	"github.com/linuxfoundation/lfx-v2-redfish-client/pkg/redfish/task"
)

const simpleUpdateAction = "#UpdateService.SimpleUpdate"

// TransferProtocol is how the service fetches an update image.
type TransferProtocol string

const (
	TransferCIFS  TransferProtocol = "CIFS"
	TransferFTP   TransferProtocol = "FTP"
	TransferSFTP  TransferProtocol = "SFTP"
	TransferHTTP  TransferProtocol = "HTTP"
	TransferHTTPS TransferProtocol = "HTTPS"
	TransferNFS   TransferProtocol = "NFS"
	TransferSCP   TransferProtocol = "SCP"
	TransferTFTP  TransferProtocol = "TFTP"
	TransferOEM   TransferProtocol = "OEM"
)

var transferProtocols = field.Enum(
	TransferCIFS, TransferFTP, TransferSFTP, TransferHTTP, TransferHTTPS,
	TransferNFS, TransferSCP, TransferTFTP, TransferOEM,
)

// UpdateService performs firmware and software updates.
type UpdateService struct {
	resource.Base

	ID                 field.Value[string]
	Name               field.Value[string]
	ServiceEnabled     field.Value[bool]
	HTTPPushURI        field.Value[string]
	Status             *Status
	SimpleUpdateAction *resource.Action

	firmwarePath field.Value[string]
	softwarePath field.Value[string]

	firmware resource.Cell[*SoftwareInventoryCollection]
	software resource.Cell[*SoftwareInventoryCollection]
}

var updateServiceSchema = field.NewSchema(
	field.Scalar(field.P("Id"), field.String, func(u *UpdateService) *field.Value[string] { return &u.ID }, field.Required()),
	field.Scalar(field.P("Name"), field.String, func(u *UpdateService) *field.Value[string] { return &u.Name }),
	field.Scalar(field.P("ServiceEnabled"), field.Bool, func(u *UpdateService) *field.Value[bool] { return &u.ServiceEnabled }),
	field.Scalar(field.P("HttpPushUri"), field.String, func(u *UpdateService) *field.Value[string] { return &u.HTTPPushURI }),
	field.Composite(field.P("Status"), statusSchema, func(u *UpdateService) **Status { return &u.Status }),
	field.Composite(field.P("Actions", simpleUpdateAction), resource.ActionSchema, func(u *UpdateService) **resource.Action { return &u.SimpleUpdateAction }),
	link("FirmwareInventory", func(u *UpdateService) *field.Value[string] { return &u.firmwarePath }),
	link("SoftwareInventory", func(u *UpdateService) *field.Value[string] { return &u.softwarePath }),
)

// Parse implements resource.Parser.
func (u *UpdateService) Parse(c field.Context, doc map[string]any) error {
	return updateServiceSchema.Decode(c, doc, u)
}

// NewUpdateService fetches the update service at path.
func NewUpdateService(ctx context.Context, conn resource.Connector, path, version string, opts ...resource.Option) (*UpdateService, error) {
	u := &UpdateService{}
	if err := resource.Init(ctx, u, &u.Base, conn, path, version, opts...); err != nil {
		return nil, err
	}
	return u, nil
}

// FirmwareInventory returns the firmware inventory collection.
func (u *UpdateService) FirmwareInventory(ctx context.Context) (*SoftwareInventoryCollection, error) {
	return child(ctx, &u.firmware, &u.Base, "FirmwareInventory", u.firmwarePath, NewSoftwareInventoryCollection)
}

// SoftwareInventory returns the software inventory collection.
func (u *UpdateService) SoftwareInventory(ctx context.Context) (*SoftwareInventoryCollection, error) {
	return child(ctx, &u.software, &u.Base, "SoftwareInventory", u.softwarePath, NewSoftwareInventoryCollection)
}

// SimpleUpdate asks the service to fetch and apply imageURI. protocol may
// be empty when the URI carries its scheme; targets may be nil to let the
// service choose.
func (u *UpdateService) SimpleUpdate(ctx context.Context, imageURI string, protocol TransferProtocol, targets []string) (*task.Monitor, error) {
	target, err := resource.ActionTarget(u.SimpleUpdateAction, simpleUpdateAction, &u.Base)
	if err != nil {
		return nil, err
	}

	body := map[string]any{"ImageURI": imageURI}
	if protocol != "" {
		allowed := allowedOrAll(u.SimpleUpdateAction, "TransferProtocol", transferProtocols)
		if err := resource.ValidateParameter("TransferProtocol", string(protocol), allowed); err != nil {
			return nil, err
		}
		body["TransferProtocol"] = protocol
	}
	if len(targets) > 0 {
		body["Targets"] = targets
	}

	u.Logger().DebugContext(ctx, "requesting simple update",
		"image_uri", imageURI,
		"target", target,
	)
	resp, err := u.Post(ctx, target, body)
	if err != nil {
		return nil, err
	}
	return task.FromResponse(u.Connector(), resp, task.WithLogger(u.Logger())), nil
}

// SoftwareInventory is one installed firmware or software component.
type SoftwareInventory struct {
	resource.Base

	ID           field.Value[string]
	Name         field.Value[string]
	Version      field.Value[string]
	Manufacturer field.Value[string]
	Updateable   field.Value[bool]
	SoftwareID   field.Value[string]
	ReleaseDate  field.Value[string]
	Status       *Status
}

var softwareInventorySchema = field.NewSchema(
	field.Scalar(field.P("Id"), field.String, func(s *SoftwareInventory) *field.Value[string] { return &s.ID }, field.Required()),
	field.Scalar(field.P("Name"), field.String, func(s *SoftwareInventory) *field.Value[string] { return &s.Name }),
	field.Scalar(field.P("Version"), field.String, func(s *SoftwareInventory) *field.Value[string] { return &s.Version }),
	field.Scalar(field.P("Manufacturer"), field.String, func(s *SoftwareInventory) *field.Value[string] { return &s.Manufacturer }),
	field.Scalar(field.P("Updateable"), field.Bool, func(s *SoftwareInventory) *field.Value[bool] { return &s.Updateable }),
	field.Scalar(field.P("SoftwareId"), field.String, func(s *SoftwareInventory) *field.Value[string] { return &s.SoftwareID }),
	field.Scalar(field.P("ReleaseDate"), field.String, func(s *SoftwareInventory) *field.Value[string] { return &s.ReleaseDate }),
	field.Composite(field.P("Status"), statusSchema, func(s *SoftwareInventory) **Status { return &s.Status }),
)

// Parse implements resource.Parser.
func (s *SoftwareInventory) Parse(c field.Context, doc map[string]any) error {
	return softwareInventorySchema.Decode(c, doc, s)
}

// NewSoftwareInventory fetches the inventory entry at path.
func NewSoftwareInventory(ctx context.Context, conn resource.Connector, path, version string, opts ...resource.Option) (*SoftwareInventory, error) {
	s := &SoftwareInventory{}
	if err := resource.Init(ctx, s, &s.Base, conn, path, version, opts...); err != nil {
		return nil, err
	}
	return s, nil
}

// SoftwareInventoryCollection lists inventory entries.
type SoftwareInventoryCollection struct {
	resource.Collection[*SoftwareInventory]
}

// NewSoftwareInventoryCollection fetches the collection at path.
func NewSoftwareInventoryCollection(ctx context.Context, conn resource.Connector, path, version string, opts ...resource.Option) (*SoftwareInventoryCollection, error) {
	c := &SoftwareInventoryCollection{}
	if err := resource.InitCollection(ctx, c, &c.Collection, conn, path, version, NewSoftwareInventory, opts...); err != nil {
		return nil, err
	}
	return c, nil
}
