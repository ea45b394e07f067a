// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package resource

import (
	"context"

	"github.com/linuxfoundation/lfx-v2-redfish-client/pkg/redfish/field"
)

// Collection is a resource listing member URIs. Members are materialised
// lazily, one typed resource per path, under the same caching rules as any
// other sub-resource.
type Collection[M Resource] struct {
	Base

	Name        field.Value[string]
	Description field.Value[string]
	// MembersIdentities holds member paths in server order.
	MembersIdentities []string

	factory Factory[M]
	members Cells[M]
}

// InitCollection wires a collection (usually embedded in a named type) and
// performs the initial fetch. Paged collections are read through all their
// pages unless a reader is supplied.
func InitCollection[M Resource](ctx context.Context, self Parser, c *Collection[M], conn Connector, path, version string, factory Factory[M], opts ...Option) error {
	c.factory = factory
	paged := []Option{WithReader(&PagedReader{Conn: conn, Path: path})}
	return Init(ctx, self, &c.Base, conn, path, version, append(paged, opts...)...)
}

func collectionSchema[M Resource]() *field.Schema[Collection[M]] {
	return field.NewSchema(
		field.Scalar(field.P("Name"), field.String, func(c *Collection[M]) *field.Value[string] { return &c.Name }),
		field.Scalar(field.P("Description"), field.String, func(c *Collection[M]) *field.Value[string] { return &c.Description }),
		field.Custom(field.P("Members"), func(fc field.Context, raw any, ok bool, c *Collection[M]) error {
			if !ok {
				c.MembersIdentities = []string{}
				return nil
			}
			ids, err := field.Links(raw)
			if err != nil {
				return field.Malformed(fc, raw, err)
			}
			c.MembersIdentities = ids
			return nil
		}),
	)
}

// Parse implements Parser.
func (c *Collection[M]) Parse(fc field.Context, doc map[string]any) error {
	return collectionSchema[M]().Decode(fc, doc, c)
}

// GetMember returns the member at path, building and caching it on first
// access.
func (c *Collection[M]) GetMember(ctx context.Context, path string) (M, error) {
	return c.members.Get(ctx, &c.Base, path, func(ctx context.Context) (M, error) {
		return c.factory(ctx, c.conn, path, c.version, c.ChildOptions()...)
	})
}

// GetMembers returns every member in MembersIdentities order. It stops at
// the first member that cannot be built.
func (c *Collection[M]) GetMembers(ctx context.Context) ([]M, error) {
	out := make([]M, 0, len(c.MembersIdentities))
	for _, path := range c.MembersIdentities {
		m, err := c.GetMember(ctx, path)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

// Len is the number of member identities.
func (c *Collection[M]) Len() int {
	return len(c.MembersIdentities)
}
