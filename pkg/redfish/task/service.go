// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package task

import (
	"context"
	"net/http"

	"github.com/linuxfoundation/lfx-v2-redfish-client/pkg/errors"
	"github.com/linuxfoundation/lfx-v2-redfish-client/pkg/redfish/field"
	"github.com/linuxfoundation/lfx-v2-redfish-client/pkg/redfish/resource"
)

// OverWritePolicy tells what the service does with completed tasks when it
// runs out of room.
type OverWritePolicy string

const (
	OverWriteManual OverWritePolicy = "Manual"
	OverWriteOldest OverWritePolicy = "Oldest"
)

var overWritePolicies = field.Enum(OverWriteManual, OverWriteOldest)

// Service is the TaskService resource.
type Service struct {
	resource.Base

	ID                              field.Value[string]
	ServiceEnabled                  field.Value[bool]
	CompletedTaskOverWritePolicy    field.Value[OverWritePolicy]
	LifeCycleEventOnTaskStateChange field.Value[bool]
	TasksPath                       field.Value[string]

	tasks resource.Cell[*TaskCollection]
}

var serviceSchema = field.NewSchema(
	field.Scalar(field.P("Id"), field.String, func(s *Service) *field.Value[string] { return &s.ID }, field.Required()),
	field.Scalar(field.P("ServiceEnabled"), field.Bool, func(s *Service) *field.Value[bool] { return &s.ServiceEnabled }),
	field.Mapped(field.P("CompletedTaskOverWritePolicy"), overWritePolicies, func(s *Service) *field.Value[OverWritePolicy] { return &s.CompletedTaskOverWritePolicy }),
	field.Scalar(field.P("LifeCycleEventOnTaskStateChange"), field.Bool, func(s *Service) *field.Value[bool] { return &s.LifeCycleEventOnTaskStateChange }),
	field.Scalar(field.P("Tasks"), field.Link, func(s *Service) *field.Value[string] { return &s.TasksPath }),
)

// Parse implements resource.Parser.
func (s *Service) Parse(c field.Context, doc map[string]any) error {
	return serviceSchema.Decode(c, doc, s)
}

// NewService fetches the TaskService at path.
func NewService(ctx context.Context, conn resource.Connector, path, version string, opts ...resource.Option) (*Service, error) {
	s := &Service{}
	if err := resource.Init(ctx, s, &s.Base, conn, path, version, opts...); err != nil {
		return nil, err
	}
	return s, nil
}

// Tasks returns the task collection.
func (s *Service) Tasks(ctx context.Context) (*TaskCollection, error) {
	return s.tasks.Get(ctx, &s.Base, func(ctx context.Context) (*TaskCollection, error) {
		path, ok := s.TasksPath.Get()
		if !ok {
			return nil, errors.NewNotFound(http.MethodGet, s.Path()+"/Tasks")
		}
		return NewTaskCollection(ctx, s.Connector(), path, s.SchemaVersion(), s.ChildOptions()...)
	})
}
