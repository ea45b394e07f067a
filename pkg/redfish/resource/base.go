// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package resource

import (
	"context"
	"log/slog"
	"reflect"

	"github.com/blang/semver/v4"

	"github.com/linuxfoundation/lfx-v2-redfish-client/pkg/httpclient"
	"github.com/linuxfoundation/lfx-v2-redfish-client/pkg/redfish/field"
)

// Base is embedded by every resource type. It holds the last fetched
// document, which is replaced wholesale on refresh and never edited in place.
type Base struct {
	conn       Connector
	path       string
	version    string
	reader     Reader
	logger     *slog.Logger
	self       Parser
	document   map[string]any
	stale      bool
	generation uint64
	deps       []dependent
}

// Option configures a Base at construction time.
type Option func(*Base)

// WithLogger injects the logger used by the resource and its children.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Base) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithReader overrides where the document is read from. By default it is
// fetched from the connector at the resource path.
func WithReader(r Reader) Option {
	return func(b *Base) { b.reader = r }
}

// Init wires b into self and performs the initial fetch and parse. It fails
// fast: a resource whose first fetch fails is never handed out.
func Init(ctx context.Context, self Parser, b *Base, conn Connector, path, version string, opts ...Option) error {
	b.conn = conn
	b.path = path
	b.version = version
	b.self = self
	b.logger = slog.Default()
	for _, opt := range opts {
		opt(b)
	}
	if b.reader == nil {
		b.reader = &ConnectorReader{Conn: conn, Path: path}
	}
	return b.Refresh(ctx, true)
}

// Refresh re-reads and re-parses the document. Cached sub-resources are
// marked stale. Derived memos are dropped when force is set or when the
// document changed.
func (b *Base) Refresh(ctx context.Context, force bool) error {
	doc, err := b.reader.Read(ctx)
	if err != nil {
		b.logger.DebugContext(ctx, "failed to fetch resource",
			"path", b.path,
			"error", err,
		)
		return err
	}

	if err := b.self.Parse(b.FieldContext(), doc); err != nil {
		b.logger.WarnContext(ctx, "failed to parse resource",
			"path", b.path,
			"error", err,
		)
		return err
	}

	changed := !reflect.DeepEqual(b.document, doc)
	b.document = doc
	b.stale = false
	b.generation++
	for _, d := range b.deps {
		d.reset(force || changed)
	}

	b.logger.DebugContext(ctx, "resource refreshed",
		"path", b.path,
		"force", force,
		"changed", changed,
	)
	return nil
}

// Invalidate marks the resource and every cached sub-resource stale without
// fetching. With forceRefresh an immediate forced refresh follows.
func (b *Base) Invalidate(ctx context.Context, forceRefresh bool) error {
	b.markStale()
	if forceRefresh {
		return b.Refresh(ctx, true)
	}
	return nil
}

func (b *Base) markStale() {
	b.stale = true
	for _, d := range b.deps {
		d.reset(true)
	}
}

func (b *Base) track(d dependent) {
	b.deps = append(b.deps, d)
}

func (b *Base) base() *Base { return b }

// Path is the URI identifying the document.
func (b *Base) Path() string { return b.path }

// SchemaVersion is the protocol version used to decode the document.
func (b *Base) SchemaVersion() string { return b.version }

// IsStale reports whether the cached document may be out of date.
func (b *Base) IsStale() bool { return b.stale }

// Generation increases on every successful refresh.
func (b *Base) Generation() uint64 { return b.generation }

// Document returns the last fetched document. It must be treated as read only.
func (b *Base) Document() map[string]any { return b.document }

// Connector returns the transport the resource was built with.
func (b *Base) Connector() Connector { return b.conn }

// Logger returns the injected logger.
func (b *Base) Logger() *slog.Logger { return b.logger }

// FieldContext is the decode context for this resource's document.
func (b *Base) FieldContext() field.Context {
	return field.NewContext(b.path, b.version)
}

// AtLeast reports whether the schema version is >= min; unknown versions
// satisfy every minimum.
func (b *Base) AtLeast(min string) bool {
	v, err := semver.ParseTolerant(min)
	if err != nil {
		return false
	}
	return b.FieldContext().AtLeast(v)
}

// ChildOptions are the options handed to sub-resources so they share the
// logger of their owner.
func (b *Base) ChildOptions() []Option {
	return []Option{WithLogger(b.logger)}
}

// Post sends body to an action target.
func (b *Base) Post(ctx context.Context, target string, body any) (*httpclient.Response, error) {
	return b.conn.Post(ctx, target, body)
}

// Patch updates the resource and invalidates the local copy so the next
// read reflects the service state.
func (b *Base) Patch(ctx context.Context, body any) (*httpclient.Response, error) {
	resp, err := b.conn.Patch(ctx, b.path, body)
	if err != nil {
		return nil, err
	}
	b.markStale()
	return resp, nil
}

// Delete removes the resource on the service and marks the local copy stale.
func (b *Base) Delete(ctx context.Context) (*httpclient.Response, error) {
	resp, err := b.conn.Delete(ctx, b.path)
	if err != nil {
		return nil, err
	}
	b.markStale()
	return resp, nil
}
