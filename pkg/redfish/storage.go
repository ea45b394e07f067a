// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package redfish

import (
	"context"
	"slices"

	"github.com/linuxfoundation/lfx-v2-redfish-client/pkg/redfish/field"
	"github.com/linuxfoundation/lfx-v2-redfish-client/pkg/redfish/resource"
	"github.com/linuxfoundation/lfx-v2-redfish-client/pkg/redfish/task"
)

const volumeInitializeAction = "#Volume.Initialize"

// Drive is a physical disk.
type Drive struct {
	resource.Base

	ID            field.Value[string]
	Name          field.Value[string]
	Model         field.Value[string]
	Manufacturer  field.Value[string]
	SerialNumber  field.Value[string]
	MediaType     field.Value[string]
	Protocol      field.Value[string]
	CapacityBytes field.Value[int64]
	IndicatorLED  field.Value[IndicatorLED]
	Status        *Status
}

var driveSchema = field.NewSchema(
	field.Scalar(field.P("Id"), field.String, func(d *Drive) *field.Value[string] { return &d.ID }, field.Required()),
	field.Scalar(field.P("Name"), field.String, func(d *Drive) *field.Value[string] { return &d.Name }),
	field.Scalar(field.P("Model"), field.String, func(d *Drive) *field.Value[string] { return &d.Model }),
	field.Scalar(field.P("Manufacturer"), field.String, func(d *Drive) *field.Value[string] { return &d.Manufacturer }),
	field.Scalar(field.P("SerialNumber"), field.String, func(d *Drive) *field.Value[string] { return &d.SerialNumber }),
	field.Scalar(field.P("MediaType"), field.String, func(d *Drive) *field.Value[string] { return &d.MediaType }),
	field.Scalar(field.P("Protocol"), field.String, func(d *Drive) *field.Value[string] { return &d.Protocol }),
	field.Scalar(field.P("CapacityBytes"), field.Int64, func(d *Drive) *field.Value[int64] { return &d.CapacityBytes }),
	field.Mapped(field.P("IndicatorLED"), indicatorLEDs, func(d *Drive) *field.Value[IndicatorLED] { return &d.IndicatorLED }),
	field.Composite(field.P("Status"), statusSchema, func(d *Drive) **Status { return &d.Status }),
)

// Parse implements resource.Parser.
func (d *Drive) Parse(c field.Context, doc map[string]any) error {
	return driveSchema.Decode(c, doc, d)
}

// NewDrive fetches the drive at path.
func NewDrive(ctx context.Context, conn resource.Connector, path, version string, opts ...resource.Option) (*Drive, error) {
	d := &Drive{}
	if err := resource.Init(ctx, d, &d.Base, conn, path, version, opts...); err != nil {
		return nil, err
	}
	return d, nil
}

// SetIndicatorLED sets the drive locate LED.
func (d *Drive) SetIndicatorLED(ctx context.Context, state IndicatorLED) error {
	return resource.SetValue(ctx, &d.Base, "IndicatorLED", string(state), field.Keys(indicatorLEDs),
		map[string]any{"IndicatorLED": state})
}

// Storage is a storage subsystem with its drives and volumes.
type Storage struct {
	resource.Base

	ID          field.Value[string]
	Name        field.Value[string]
	Description field.Value[string]
	Status      *Status
	// DrivePaths holds the drive links in document order.
	DrivePaths []string

	volumesPath field.Value[string]

	drives       resource.Cells[*Drive]
	volumes      resource.Cell[*VolumeCollection]
	drivesSizes  resource.Memo[[]int64]
	maxDriveSize resource.Memo[field.Value[int64]]
}

var storageSchema = field.NewSchema(
	field.Scalar(field.P("Id"), field.String, func(s *Storage) *field.Value[string] { return &s.ID }, field.Required()),
	field.Scalar(field.P("Name"), field.String, func(s *Storage) *field.Value[string] { return &s.Name }),
	field.Scalar(field.P("Description"), field.String, func(s *Storage) *field.Value[string] { return &s.Description }),
	field.Composite(field.P("Status"), statusSchema, func(s *Storage) **Status { return &s.Status }),
	field.Custom(field.P("Drives"), func(c field.Context, raw any, ok bool, s *Storage) error {
		s.DrivePaths = []string{}
		if !ok || raw == nil {
			return nil
		}
		paths, err := field.Links(raw)
		if err != nil {
			return field.Malformed(c, raw, err)
		}
		s.DrivePaths = paths
		return nil
	}),
	link("Volumes", func(s *Storage) *field.Value[string] { return &s.volumesPath }),
)

// Parse implements resource.Parser.
func (s *Storage) Parse(c field.Context, doc map[string]any) error {
	return storageSchema.Decode(c, doc, s)
}

// NewStorage fetches the storage subsystem at path.
func NewStorage(ctx context.Context, conn resource.Connector, path, version string, opts ...resource.Option) (*Storage, error) {
	s := &Storage{}
	if err := resource.Init(ctx, s, &s.Base, conn, path, version, opts...); err != nil {
		return nil, err
	}
	return s, nil
}

// Drive returns the drive at path, cached like any sub-resource.
func (s *Storage) Drive(ctx context.Context, path string) (*Drive, error) {
	return s.drives.Get(ctx, &s.Base, path, func(ctx context.Context) (*Drive, error) {
		return NewDrive(ctx, s.Connector(), path, s.SchemaVersion(), s.ChildOptions()...)
	})
}

// Drives returns every drive in document order.
func (s *Storage) Drives(ctx context.Context) ([]*Drive, error) {
	out := make([]*Drive, 0, len(s.DrivePaths))
	for _, path := range s.DrivePaths {
		d, err := s.Drive(ctx, path)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

// DrivesSizes lists the capacities of the drives that report one, sorted
// ascending.
func (s *Storage) DrivesSizes(ctx context.Context) ([]int64, error) {
	return s.drivesSizes.Get(ctx, &s.Base, func(ctx context.Context) ([]int64, error) {
		drives, err := s.Drives(ctx)
		if err != nil {
			return nil, err
		}
		sizes := make([]field.Value[int64], 0, len(drives))
		for _, d := range drives {
			sizes = append(sizes, d.CapacityBytes)
		}
		out := resource.Present(sizes)
		slices.Sort(out)
		return out, nil
	})
}

// MaxDriveSize is the largest drive capacity, absent when no drive
// reports one.
func (s *Storage) MaxDriveSize(ctx context.Context) (field.Value[int64], error) {
	return s.maxDriveSize.Get(ctx, &s.Base, func(ctx context.Context) (field.Value[int64], error) {
		drives, err := s.Drives(ctx)
		if err != nil {
			return field.Value[int64]{}, err
		}
		sizes := make([]field.Value[int64], 0, len(drives))
		for _, d := range drives {
			sizes = append(sizes, d.CapacityBytes)
		}
		return resource.SafeMax(sizes), nil
	})
}

// Volumes returns the volume collection.
func (s *Storage) Volumes(ctx context.Context) (*VolumeCollection, error) {
	return child(ctx, &s.volumes, &s.Base, "Volumes", s.volumesPath, NewVolumeCollection)
}

// StorageCollection lists the storage subsystems of a system.
type StorageCollection struct {
	resource.Collection[*Storage]
}

// NewStorageCollection fetches the collection at path.
func NewStorageCollection(ctx context.Context, conn resource.Connector, path, version string, opts ...resource.Option) (*StorageCollection, error) {
	c := &StorageCollection{}
	if err := resource.InitCollection(ctx, c, &c.Collection, conn, path, version, NewStorage, opts...); err != nil {
		return nil, err
	}
	return c, nil
}

// VolumeInitializeType selects how a volume is wiped.
type VolumeInitializeType string

const (
	InitializeFast VolumeInitializeType = "Fast"
	InitializeSlow VolumeInitializeType = "Slow"
)

var volumeInitializeTypes = field.Enum(InitializeFast, InitializeSlow)

// Volume is a logical drive.
type Volume struct {
	resource.Base

	ID               field.Value[string]
	Name             field.Value[string]
	CapacityBytes    field.Value[int64]
	VolumeType       field.Value[string]
	RAIDType         field.Value[string]
	Encrypted        field.Value[bool]
	Status           *Status
	InitializeAction *resource.Action
}

var volumeSchema = field.NewSchema(
	field.Scalar(field.P("Id"), field.String, func(v *Volume) *field.Value[string] { return &v.ID }, field.Required()),
	field.Scalar(field.P("Name"), field.String, func(v *Volume) *field.Value[string] { return &v.Name }),
	field.Scalar(field.P("CapacityBytes"), field.Int64, func(v *Volume) *field.Value[int64] { return &v.CapacityBytes }),
	field.Scalar(field.P("VolumeType"), field.String, func(v *Volume) *field.Value[string] { return &v.VolumeType }),
	field.Scalar(field.P("RAIDType"), field.String, func(v *Volume) *field.Value[string] { return &v.RAIDType }, field.Since("1.3.1")),
	field.Scalar(field.P("Encrypted"), field.Bool, func(v *Volume) *field.Value[bool] { return &v.Encrypted }),
	field.Composite(field.P("Status"), statusSchema, func(v *Volume) **Status { return &v.Status }),
	field.Composite(field.P("Actions", volumeInitializeAction), resource.ActionSchema, func(v *Volume) **resource.Action { return &v.InitializeAction }),
)

// Parse implements resource.Parser.
func (v *Volume) Parse(c field.Context, doc map[string]any) error {
	return volumeSchema.Decode(c, doc, v)
}

// NewVolume fetches the volume at path.
func NewVolume(ctx context.Context, conn resource.Connector, path, version string, opts ...resource.Option) (*Volume, error) {
	v := &Volume{}
	if err := resource.Init(ctx, v, &v.Base, conn, path, version, opts...); err != nil {
		return nil, err
	}
	return v, nil
}

// Initialize erases the volume contents.
func (v *Volume) Initialize(ctx context.Context, initType VolumeInitializeType) (*task.Monitor, error) {
	target, err := resource.ActionTarget(v.InitializeAction, volumeInitializeAction, &v.Base)
	if err != nil {
		return nil, err
	}
	allowed := allowedOrAll(v.InitializeAction, "InitializeType", volumeInitializeTypes)
	if err := resource.ValidateParameter("InitializeType", string(initType), allowed); err != nil {
		return nil, err
	}

	resp, err := v.Post(ctx, target, map[string]any{"InitializeType": initType})
	if err != nil {
		return nil, err
	}
	return task.FromResponse(v.Connector(), resp, task.WithLogger(v.Logger())), nil
}

// Delete removes the volume. Services that delete asynchronously answer
// 202 and the monitor tracks the deletion.
func (v *Volume) Delete(ctx context.Context) (*task.Monitor, error) {
	resp, err := v.Base.Delete(ctx)
	if err != nil {
		return nil, err
	}
	return task.FromResponse(v.Connector(), resp, task.WithLogger(v.Logger())), nil
}

// VolumeCollection lists the volumes of a storage subsystem.
type VolumeCollection struct {
	resource.Collection[*Volume]

	maxSize resource.Memo[field.Value[int64]]
}

// NewVolumeCollection fetches the collection at path.
func NewVolumeCollection(ctx context.Context, conn resource.Connector, path, version string, opts ...resource.Option) (*VolumeCollection, error) {
	c := &VolumeCollection{}
	if err := resource.InitCollection(ctx, c, &c.Collection, conn, path, version, NewVolume, opts...); err != nil {
		return nil, err
	}
	return c, nil
}

// MaxSize is the largest volume capacity, absent when no volume reports
// one.
func (c *VolumeCollection) MaxSize(ctx context.Context) (field.Value[int64], error) {
	return c.maxSize.Get(ctx, &c.Base, func(ctx context.Context) (field.Value[int64], error) {
		volumes, err := c.GetMembers(ctx)
		if err != nil {
			return field.Value[int64]{}, err
		}
		sizes := make([]field.Value[int64], 0, len(volumes))
		for _, v := range volumes {
			sizes = append(sizes, v.CapacityBytes)
		}
		return resource.SafeMax(sizes), nil
	})
}

// CreateVolume posts payload to the collection. The collection is
// invalidated so the next read lists the new member.
func (c *VolumeCollection) CreateVolume(ctx context.Context, payload map[string]any) (*task.Monitor, error) {
	resp, err := c.Post(ctx, c.Path(), payload)
	if err != nil {
		return nil, err
	}
	if err := c.Invalidate(ctx, false); err != nil {
		return nil, err
	}
	return task.FromResponse(c.Connector(), resp, task.WithLogger(c.Logger())), nil
}
