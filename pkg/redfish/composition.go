// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package redfish

import (
	"context"

	"github.com/linuxfoundation/lfx-v2-redfish-client/pkg/redfish/field"
	"github.com/linuxfoundation/lfx-v2-redfish-client/pkg/redfish/resource"
)

// ResourceBlockType classifies what a resource block contributes.
type ResourceBlockType string

const (
	BlockCompute        ResourceBlockType = "Compute"
	BlockProcessor      ResourceBlockType = "Processor"
	BlockMemory         ResourceBlockType = "Memory"
	BlockNetwork        ResourceBlockType = "Network"
	BlockStorage        ResourceBlockType = "Storage"
	BlockComputerSystem ResourceBlockType = "ComputerSystem"
	BlockExpansion      ResourceBlockType = "Expansion"
)

var resourceBlockTypes = field.Enum(
	BlockCompute, BlockProcessor, BlockMemory, BlockNetwork,
	BlockStorage, BlockComputerSystem, BlockExpansion,
)

// CompositionState is where a block stands in composition.
type CompositionState string

const (
	CompositionComposing            CompositionState = "Composing"
	CompositionComposedAndAvailable CompositionState = "ComposedAndAvailable"
	CompositionComposed             CompositionState = "Composed"
	CompositionUnused               CompositionState = "Unused"
	CompositionFailed               CompositionState = "Failed"
	CompositionUnavailable          CompositionState = "Unavailable"
)

var compositionStates = field.Enum(
	CompositionComposing, CompositionComposedAndAvailable, CompositionComposed,
	CompositionUnused, CompositionFailed, CompositionUnavailable,
)

// CompositionStatus of a resource block.
type CompositionStatus struct {
	CompositionState     field.Value[CompositionState]
	Reserved             field.Value[bool]
	SharingCapable       field.Value[bool]
	MaxCompositions      field.Value[int]
	NumberOfCompositions field.Value[int]
}

var compositionStatusSchema = field.NewSchema(
	field.Mapped(field.P("CompositionState"), compositionStates, func(s *CompositionStatus) *field.Value[CompositionState] { return &s.CompositionState }, field.Required()),
	field.Scalar(field.P("Reserved"), field.Bool, func(s *CompositionStatus) *field.Value[bool] { return &s.Reserved }),
	field.Scalar(field.P("SharingCapable"), field.Bool, func(s *CompositionStatus) *field.Value[bool] { return &s.SharingCapable }),
	field.Scalar(field.P("MaxCompositions"), field.Int, func(s *CompositionStatus) *field.Value[int] { return &s.MaxCompositions }),
	field.Scalar(field.P("NumberOfCompositions"), field.Int, func(s *CompositionStatus) *field.Value[int] { return &s.NumberOfCompositions }),
)

// ResourceBlock is a composable unit of hardware.
type ResourceBlock struct {
	resource.Base

	ID                field.Value[string]
	Name              field.Value[string]
	Description       field.Value[string]
	ResourceBlockType []ResourceBlockType
	CompositionStatus *CompositionStatus
	Status            *Status
}

var resourceBlockSchema = field.NewSchema(
	field.Scalar(field.P("Id"), field.String, func(b *ResourceBlock) *field.Value[string] { return &b.ID }, field.Required()),
	field.Scalar(field.P("Name"), field.String, func(b *ResourceBlock) *field.Value[string] { return &b.Name }),
	field.Scalar(field.P("Description"), field.String, func(b *ResourceBlock) *field.Value[string] { return &b.Description }),
	field.MappedList(field.P("ResourceBlockType"), resourceBlockTypes, func(b *ResourceBlock) *[]ResourceBlockType { return &b.ResourceBlockType }, field.Required()),
	field.Composite(field.P("CompositionStatus"), compositionStatusSchema, func(b *ResourceBlock) **CompositionStatus { return &b.CompositionStatus }, field.Required()),
	field.Composite(field.P("Status"), statusSchema, func(b *ResourceBlock) **Status { return &b.Status }),
)

// Parse implements resource.Parser.
func (b *ResourceBlock) Parse(c field.Context, doc map[string]any) error {
	return resourceBlockSchema.Decode(c, doc, b)
}

// NewResourceBlock fetches the block at path.
func NewResourceBlock(ctx context.Context, conn resource.Connector, path, version string, opts ...resource.Option) (*ResourceBlock, error) {
	b := &ResourceBlock{}
	if err := resource.Init(ctx, b, &b.Base, conn, path, version, opts...); err != nil {
		return nil, err
	}
	return b, nil
}

// ResourceBlockCollection lists resource blocks.
type ResourceBlockCollection struct {
	resource.Collection[*ResourceBlock]
}

// NewResourceBlockCollection fetches the collection at path.
func NewResourceBlockCollection(ctx context.Context, conn resource.Connector, path, version string, opts ...resource.Option) (*ResourceBlockCollection, error) {
	c := &ResourceBlockCollection{}
	if err := resource.InitCollection(ctx, c, &c.Collection, conn, path, version, NewResourceBlock, opts...); err != nil {
		return nil, err
	}
	return c, nil
}

// CompositionService exposes the composable resource blocks.
type CompositionService struct {
	resource.Base

	ID                    field.Value[string]
	Name                  field.Value[string]
	ServiceEnabled        field.Value[bool]
	AllowOverprovisioning field.Value[bool]
	AllowZoneAffinity     field.Value[bool]
	Status                *Status

	resourceBlocksPath field.Value[string]
	resourceBlocks     resource.Cell[*ResourceBlockCollection]
}

var compositionServiceSchema = field.NewSchema(
	field.Scalar(field.P("Id"), field.String, func(s *CompositionService) *field.Value[string] { return &s.ID }, field.Required()),
	field.Scalar(field.P("Name"), field.String, func(s *CompositionService) *field.Value[string] { return &s.Name }),
	field.Scalar(field.P("ServiceEnabled"), field.Bool, func(s *CompositionService) *field.Value[bool] { return &s.ServiceEnabled }),
	field.Scalar(field.P("AllowOverprovisioning"), field.Bool, func(s *CompositionService) *field.Value[bool] { return &s.AllowOverprovisioning }, field.Since("1.1.0")),
	field.Scalar(field.P("AllowZoneAffinity"), field.Bool, func(s *CompositionService) *field.Value[bool] { return &s.AllowZoneAffinity }, field.Since("1.1.0")),
	field.Composite(field.P("Status"), statusSchema, func(s *CompositionService) **Status { return &s.Status }),
	link("ResourceBlocks", func(s *CompositionService) *field.Value[string] { return &s.resourceBlocksPath }),
)

// Parse implements resource.Parser.
func (s *CompositionService) Parse(c field.Context, doc map[string]any) error {
	return compositionServiceSchema.Decode(c, doc, s)
}

// NewCompositionService fetches the composition service at path.
func NewCompositionService(ctx context.Context, conn resource.Connector, path, version string, opts ...resource.Option) (*CompositionService, error) {
	s := &CompositionService{}
	if err := resource.Init(ctx, s, &s.Base, conn, path, version, opts...); err != nil {
		return nil, err
	}
	return s, nil
}

// ResourceBlocks returns the resource block collection.
func (s *CompositionService) ResourceBlocks(ctx context.Context) (*ResourceBlockCollection, error) {
	return child(ctx, &s.resourceBlocks, &s.Base, "ResourceBlocks", s.resourceBlocksPath, NewResourceBlockCollection)
}
