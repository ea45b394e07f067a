// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package resource owns the lifecycle of Redfish documents: fetching,
// parsing through field schemas, memoising lazily built sub-resources and
// invalidating them when their owner goes stale.
//
// The model is synchronous and single caller: no operation in this package
// starts goroutines or takes locks. A resource graph may be read from
// several goroutines between refreshes, but Refresh and Invalidate must not
// race with other access.
package resource

import (
	"context"

	"github.com/linuxfoundation/lfx-v2-redfish-client/pkg/httpclient"
	"github.com/linuxfoundation/lfx-v2-redfish-client/pkg/redfish/field"
)

// Connector is the transport collaborator. Implementations map HTTP 404 to
// errors.NotFound, other non-2xx answers to errors.HTTPError and transport
// failures to errors.ConnectionError.
type Connector interface {
	Get(ctx context.Context, path string) (*httpclient.Response, error)
	Post(ctx context.Context, path string, body any) (*httpclient.Response, error)
	Patch(ctx context.Context, path string, body any) (*httpclient.Response, error)
	Delete(ctx context.Context, path string) (*httpclient.Response, error)
}

// Parser populates a value from a document.
type Parser interface {
	Parse(c field.Context, doc map[string]any) error
}

// Resource is implemented by every type embedding Base.
type Resource interface {
	Parser
	Path() string
	Refresh(ctx context.Context, force bool) error
	Invalidate(ctx context.Context, forceRefresh bool) error
	IsStale() bool
	base() *Base
}

// Factory constructs a resource of type R at path.
type Factory[R Resource] func(ctx context.Context, conn Connector, path, version string, opts ...Option) (R, error)

// dependent is anything a Base must reset when it is refreshed or
// invalidated: sub-resource cells and derived memos.
type dependent interface {
	reset(drop bool)
}
