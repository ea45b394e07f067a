// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package redfish

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/linuxfoundation/lfx-v2-redfish-client/pkg/constants"
	"github.com/linuxfoundation/lfx-v2-redfish-client/pkg/redfish/field"
	"github.com/linuxfoundation/lfx-v2-redfish-client/pkg/redfish/registry"
	"github.com/linuxfoundation/lfx-v2-redfish-client/pkg/redfish/resource"
	"github.com/linuxfoundation/lfx-v2-redfish-client/pkg/redfish/task"
)

// ServiceRoot is the entry point of a Redfish service. Its RedfishVersion
// is the schema version every resource reached from it is decoded with.
type ServiceRoot struct {
	resource.Base

	ID             field.Value[string]
	Name           field.Value[string]
	RedfishVersion field.Value[string]
	UUID           field.Value[uuid.UUID]
	Product        field.Value[string]
	Vendor         field.Value[string]

	systemsPath            field.Value[string]
	managersPath           field.Value[string]
	chassisPath            field.Value[string]
	updateServicePath      field.Value[string]
	compositionServicePath field.Value[string]
	taskServicePath        field.Value[string]
	registriesPath         field.Value[string]

	public resource.Connector

	systems            resource.Cell[*SystemCollection]
	managers           resource.Cell[*ManagerCollection]
	chassis            resource.Cell[*ChassisCollection]
	updateService      resource.Cell[*UpdateService]
	compositionService resource.Cell[*CompositionService]
	taskService        resource.Cell[*task.Service]
	registryFiles      resource.Cell[*registry.MessageRegistryFileCollection]
	registries         resource.Memos[map[string]*registry.MessageRegistry]
}

var rootSchema = field.NewSchema(
	field.Scalar(field.P("Id"), field.String, func(r *ServiceRoot) *field.Value[string] { return &r.ID }),
	field.Scalar(field.P("Name"), field.String, func(r *ServiceRoot) *field.Value[string] { return &r.Name }),
	field.Scalar(field.P("RedfishVersion"), field.String, func(r *ServiceRoot) *field.Value[string] { return &r.RedfishVersion }),
	field.Scalar(field.P("UUID"), field.UUID, func(r *ServiceRoot) *field.Value[uuid.UUID] { return &r.UUID }),
	field.Scalar(field.P("Product"), field.String, func(r *ServiceRoot) *field.Value[string] { return &r.Product }, field.Since("1.3.0")),
	field.Scalar(field.P("Vendor"), field.String, func(r *ServiceRoot) *field.Value[string] { return &r.Vendor }, field.Since("1.5.0")),
	link("Systems", func(r *ServiceRoot) *field.Value[string] { return &r.systemsPath }),
	link("Managers", func(r *ServiceRoot) *field.Value[string] { return &r.managersPath }),
	link("Chassis", func(r *ServiceRoot) *field.Value[string] { return &r.chassisPath }),
	link("UpdateService", func(r *ServiceRoot) *field.Value[string] { return &r.updateServicePath }),
	link("CompositionService", func(r *ServiceRoot) *field.Value[string] { return &r.compositionServicePath }),
	link("Tasks", func(r *ServiceRoot) *field.Value[string] { return &r.taskServicePath }),
	link("Registries", func(r *ServiceRoot) *field.Value[string] { return &r.registriesPath }),
)

// Parse implements resource.Parser.
func (r *ServiceRoot) Parse(c field.Context, doc map[string]any) error {
	return rootSchema.Decode(c, doc, r)
}

// Option configures New.
type Option func(*rootOptions)

type rootOptions struct {
	logger *slog.Logger
	public resource.Connector
}

// WithLogger injects the logger shared by every resource of the graph.
func WithLogger(logger *slog.Logger) Option {
	return func(o *rootOptions) { o.logger = logger }
}

// WithPublicConnector sets the unauthenticated connector used to read
// registries from their publication URIs.
func WithPublicConnector(conn resource.Connector) Option {
	return func(o *rootOptions) { o.public = conn }
}

// New reads the service root. The RedfishVersion it advertises becomes the
// schema version of the whole graph, defaulting to 1.0.0.
func New(ctx context.Context, conn resource.Connector, opts ...Option) (*ServiceRoot, error) {
	o := rootOptions{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}

	reader := &resource.ConnectorReader{Conn: conn, Path: constants.ServiceRootPath}
	doc, err := reader.Read(ctx)
	if err != nil {
		o.logger.ErrorContext(ctx, "unable to read service root",
			"path", constants.ServiceRootPath,
			"error", err,
		)
		return nil, err
	}
	version, _ := doc["RedfishVersion"].(string)
	if version == "" {
		version = constants.DefaultRedfishVersion
	}

	r := &ServiceRoot{public: o.public}
	err = resource.Init(ctx, r, &r.Base, conn, constants.ServiceRootPath, version,
		resource.WithLogger(o.logger),
		resource.WithReader(&resource.PrimedReader{Doc: doc, Next: reader}),
	)
	if err != nil {
		return nil, err
	}

	o.logger.InfoContext(ctx, "connected to redfish service",
		"redfish_version", version,
		"product", r.Product.OrElse(""),
	)
	return r, nil
}

// Systems returns the ComputerSystem collection.
func (r *ServiceRoot) Systems(ctx context.Context) (*SystemCollection, error) {
	return child(ctx, &r.systems, &r.Base, "Systems", r.systemsPath, NewSystemCollection)
}

// Managers returns the Manager collection.
func (r *ServiceRoot) Managers(ctx context.Context) (*ManagerCollection, error) {
	return child(ctx, &r.managers, &r.Base, "Managers", r.managersPath, NewManagerCollection)
}

// Chassis returns the Chassis collection.
func (r *ServiceRoot) Chassis(ctx context.Context) (*ChassisCollection, error) {
	return child(ctx, &r.chassis, &r.Base, "Chassis", r.chassisPath, NewChassisCollection)
}

// UpdateService returns the UpdateService.
func (r *ServiceRoot) UpdateService(ctx context.Context) (*UpdateService, error) {
	return child(ctx, &r.updateService, &r.Base, "UpdateService", r.updateServicePath, NewUpdateService)
}

// CompositionService returns the CompositionService.
func (r *ServiceRoot) CompositionService(ctx context.Context) (*CompositionService, error) {
	return child(ctx, &r.compositionService, &r.Base, "CompositionService", r.compositionServicePath, NewCompositionService)
}

// TaskService returns the TaskService.
func (r *ServiceRoot) TaskService(ctx context.Context) (*task.Service, error) {
	return child(ctx, &r.taskService, &r.Base, "Tasks", r.taskServicePath, task.NewService)
}

// Registries returns the MessageRegistryFile collection.
func (r *ServiceRoot) Registries(ctx context.Context) (*registry.MessageRegistryFileCollection, error) {
	return child(ctx, &r.registryFiles, &r.Base, "Registries", r.registriesPath, registry.NewMessageRegistryFileCollection)
}

// MessageRegistries returns every registry available for language, keyed
// by "<RegistryPrefix>.<RegistryVersion>". Bundled registries are always
// included; a service without a Registries collection gets only those.
// The result is memoised per language until the root is invalidated.
func (r *ServiceRoot) MessageRegistries(ctx context.Context, language string) (map[string]*registry.MessageRegistry, error) {
	if language == "" {
		language = "en"
	}
	return r.registries.Get(ctx, &r.Base, language, func(ctx context.Context) (map[string]*registry.MessageRegistry, error) {
		files, err := r.Registries(ctx)
		if err != nil {
			r.Logger().WarnContext(ctx, "message registries unavailable, using bundled registries",
				"language", language,
				"error", err,
			)
			return registry.Standard(ctx), nil
		}
		return files.Load(ctx, language, r.public), nil
	})
}
