// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package resource_test

import (
	"archive/zip"
	"bytes"
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linuxfoundation/lfx-v2-redfish-client/internal/infrastructure/mock"
	"github.com/linuxfoundation/lfx-v2-redfish-client/pkg/errors"
	"github.com/linuxfoundation/lfx-v2-redfish-client/pkg/redfish/field"
	"github.com/linuxfoundation/lfx-v2-redfish-client/pkg/redfish/resource"
)

type widget struct {
	resource.Base

	ID           field.Value[string]
	Size         field.Value[int64]
	IndicatorLED field.Value[string]
	Reset        *resource.Action
	PartsPath    field.Value[string]

	parts resource.Cell[*partCollection]
}

var widgetSchema = field.NewSchema(
	field.Scalar(field.P("Id"), field.String, func(w *widget) *field.Value[string] { return &w.ID }, field.Required()),
	field.Scalar(field.P("Size"), field.Int64, func(w *widget) *field.Value[int64] { return &w.Size }),
	field.Scalar(field.P("IndicatorLED"), field.String, func(w *widget) *field.Value[string] { return &w.IndicatorLED }),
	field.Composite(field.P("Actions", "#Widget.Reset"), resource.ActionSchema, func(w *widget) **resource.Action { return &w.Reset }),
	field.Scalar(field.P("Parts"), field.Link, func(w *widget) *field.Value[string] { return &w.PartsPath }),
)

func (w *widget) Parse(c field.Context, doc map[string]any) error {
	return widgetSchema.Decode(c, doc, w)
}

func newWidget(ctx context.Context, conn resource.Connector, path, version string, opts ...resource.Option) (*widget, error) {
	w := &widget{}
	if err := resource.Init(ctx, w, &w.Base, conn, path, version, opts...); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *widget) Parts(ctx context.Context) (*partCollection, error) {
	return w.parts.Get(ctx, &w.Base, func(ctx context.Context) (*partCollection, error) {
		return newPartCollection(ctx, w.Connector(), w.PartsPath.OrElse(""), w.SchemaVersion(), w.ChildOptions()...)
	})
}

func (w *widget) SetIndicatorLED(ctx context.Context, state string) error {
	return resource.SetValue(ctx, &w.Base, "state", state, []string{"Lit", "Blinking", "Off"},
		map[string]any{"IndicatorLED": state})
}

type part struct {
	resource.Base

	ID   field.Value[string]
	Size field.Value[int64]
}

var partSchema = field.NewSchema(
	field.Scalar(field.P("Id"), field.String, func(p *part) *field.Value[string] { return &p.ID }, field.Required()),
	field.Scalar(field.P("Size"), field.Int64, func(p *part) *field.Value[int64] { return &p.Size }),
)

func (p *part) Parse(c field.Context, doc map[string]any) error {
	return partSchema.Decode(c, doc, p)
}

func newPart(ctx context.Context, conn resource.Connector, path, version string, opts ...resource.Option) (*part, error) {
	p := &part{}
	if err := resource.Init(ctx, p, &p.Base, conn, path, version, opts...); err != nil {
		return nil, err
	}
	return p, nil
}

type partCollection struct {
	resource.Collection[*part]

	maxSize resource.Memo[field.Value[int64]]
}

func newPartCollection(ctx context.Context, conn resource.Connector, path, version string, opts ...resource.Option) (*partCollection, error) {
	c := &partCollection{}
	if err := resource.InitCollection(ctx, c, &c.Collection, conn, path, version, newPart, opts...); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *partCollection) MaxSize(ctx context.Context) (field.Value[int64], error) {
	return c.maxSize.Get(ctx, &c.Base, func(ctx context.Context) (field.Value[int64], error) {
		parts, err := c.GetMembers(ctx)
		if err != nil {
			return field.Absent[int64](), err
		}
		sizes := make([]field.Value[int64], 0, len(parts))
		for _, p := range parts {
			sizes = append(sizes, p.Size)
		}
		return resource.SafeMax(sizes), nil
	})
}

const (
	widgetPath = "/redfish/v1/Widgets/1"
	partsPath  = "/redfish/v1/Widgets/1/Parts"
)

func newConnector() *mock.MockConnector {
	return mock.NewMockConnector().
		SetJSON(widgetPath, `{
			"Id": "1",
			"Size": 0,
			"IndicatorLED": "Off",
			"Parts": {"@odata.id": "/redfish/v1/Widgets/1/Parts"},
			"Actions": {
				"#Widget.Reset": {
					"target": "/redfish/v1/Widgets/1/Actions/Widget.Reset",
					"ResetType@Redfish.AllowableValues": ["On", "ForceOff"]
				}
			}
		}`).
		SetJSON(partsPath, `{
			"Name": "Parts",
			"Members": [
				{"@odata.id": "/redfish/v1/Widgets/1/Parts/b"},
				{"@odata.id": "/redfish/v1/Widgets/1/Parts/a"},
				{"@odata.id": "/redfish/v1/Widgets/1/Parts/c"}
			]
		}`).
		SetJSON(partsPath+"/a", `{"Id": "a", "Size": 10}`).
		SetJSON(partsPath+"/b", `{"Id": "b", "Size": 0}`).
		SetJSON(partsPath+"/c", `{"Id": "c"}`)
}

func TestConstruct(t *testing.T) {
	ctx := context.Background()
	conn := newConnector()

	w, err := newWidget(ctx, conn, widgetPath, "1.6.0")
	require.NoError(t, err)

	assert.Equal(t, widgetPath, w.Path())
	assert.Equal(t, "1.6.0", w.SchemaVersion())
	assert.Equal(t, "1", w.ID.OrElse(""))
	size, ok := w.Size.Get()
	assert.True(t, ok)
	assert.Equal(t, int64(0), size)
	assert.False(t, w.IsStale())
	assert.Equal(t, uint64(1), w.Generation())
	assert.Equal(t, 1, conn.Calls(http.MethodGet, widgetPath))
	assert.Equal(t, "1", w.Document()["Id"])
}

func TestConstruct_NotFound(t *testing.T) {
	w, err := newWidget(context.Background(), newConnector(), "/redfish/v1/Widgets/404", "")
	assert.Nil(t, w)
	assert.True(t, errors.IsNotFound(err))
}

func TestConstruct_MissingAttribute(t *testing.T) {
	conn := newConnector().SetJSON(widgetPath, `{"Size": 3}`)

	w, err := newWidget(context.Background(), conn, widgetPath, "")
	assert.Nil(t, w)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "attribute Id")

	var missing errors.MissingAttribute
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, widgetPath, missing.Resource)
}

func TestConstruct_HTTPError(t *testing.T) {
	conn := newConnector().On(http.MethodGet, widgetPath, mock.Reply{Status: http.StatusInternalServerError, Body: "boom"})

	_, err := newWidget(context.Background(), conn, widgetPath, "")
	var httpErr errors.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusInternalServerError, httpErr.StatusCode)
}

func TestConstruct_InvalidJSON(t *testing.T) {
	conn := newConnector().SetJSON(widgetPath, `<html>`)

	_, err := newWidget(context.Background(), conn, widgetPath, "")
	var unexpected errors.Unexpected
	require.ErrorAs(t, err, &unexpected)
}

func TestRefresh_Idempotent(t *testing.T) {
	ctx := context.Background()
	conn := newConnector()

	w, err := newWidget(ctx, conn, widgetPath, "")
	require.NoError(t, err)

	before := *w.Reset
	id, size, led := w.ID, w.Size, w.IndicatorLED

	require.NoError(t, w.Refresh(ctx, false))
	assert.Equal(t, id, w.ID)
	assert.Equal(t, size, w.Size)
	assert.Equal(t, led, w.IndicatorLED)
	assert.Equal(t, before, *w.Reset)
	assert.Equal(t, 2, conn.Calls(http.MethodGet, widgetPath))
}

func TestRefresh_FailureKeepsPreviousState(t *testing.T) {
	ctx := context.Background()
	conn := newConnector()

	w, err := newWidget(ctx, conn, widgetPath, "")
	require.NoError(t, err)

	conn.SetJSON(widgetPath, `{"Size": 99}`)
	require.Error(t, w.Refresh(ctx, true))
	assert.Equal(t, "1", w.ID.OrElse(""))
	assert.Equal(t, int64(0), w.Size.OrElse(-1))
}

func TestLazySubResource(t *testing.T) {
	ctx := context.Background()
	conn := newConnector()

	w, err := newWidget(ctx, conn, widgetPath, "")
	require.NoError(t, err)

	first, err := w.Parts(ctx)
	require.NoError(t, err)
	second, err := w.Parts(ctx)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, conn.Calls(http.MethodGet, partsPath))

	require.NoError(t, w.Invalidate(ctx, false))
	assert.True(t, w.IsStale())
	assert.True(t, first.IsStale(), "invalidation cascades to cached sub-resources")
	assert.Equal(t, 1, conn.Calls(http.MethodGet, widgetPath), "invalidate does not fetch")

	third, err := w.Parts(ctx)
	require.NoError(t, err)
	assert.NotSame(t, first, third)
	assert.Equal(t, 2, conn.Calls(http.MethodGet, partsPath))
}

func TestRefreshMarksSubResourcesStale(t *testing.T) {
	ctx := context.Background()
	conn := newConnector()

	w, err := newWidget(ctx, conn, widgetPath, "")
	require.NoError(t, err)

	parts, err := w.Parts(ctx)
	require.NoError(t, err)
	member, err := parts.GetMember(ctx, partsPath+"/a")
	require.NoError(t, err)

	require.NoError(t, w.Refresh(ctx, false))
	assert.True(t, parts.IsStale())
	assert.True(t, member.IsStale(), "staleness reaches everything beneath")

	again, err := w.Parts(ctx)
	require.NoError(t, err)
	assert.NotSame(t, parts, again)
}

func TestInvalidate_ForceRefresh(t *testing.T) {
	ctx := context.Background()
	conn := newConnector()

	w, err := newWidget(ctx, conn, widgetPath, "")
	require.NoError(t, err)

	require.NoError(t, w.Invalidate(ctx, true))
	assert.False(t, w.IsStale())
	assert.Equal(t, 2, conn.Calls(http.MethodGet, widgetPath))
}

func TestCollection_Members(t *testing.T) {
	ctx := context.Background()
	conn := newConnector()

	parts, err := newPartCollection(ctx, conn, partsPath, "")
	require.NoError(t, err)

	assert.Equal(t, "Parts", parts.Name.OrElse(""))
	assert.Equal(t, []string{partsPath + "/b", partsPath + "/a", partsPath + "/c"}, parts.MembersIdentities)
	assert.Equal(t, 3, parts.Len())

	members, err := parts.GetMembers(ctx)
	require.NoError(t, err)
	require.Len(t, members, len(parts.MembersIdentities))
	for i, m := range members {
		assert.Equal(t, parts.MembersIdentities[i], m.Path())
	}

	a, err := parts.GetMember(ctx, partsPath+"/a")
	require.NoError(t, err)
	assert.Same(t, members[1], a)
	assert.Equal(t, 1, conn.Calls(http.MethodGet, partsPath+"/a"))
}

func TestCollection_MemberFailureStops(t *testing.T) {
	ctx := context.Background()
	conn := newConnector().On(http.MethodGet, partsPath+"/a", mock.Reply{Status: http.StatusNotFound})

	parts, err := newPartCollection(ctx, conn, partsPath, "")
	require.NoError(t, err)

	members, err := parts.GetMembers(ctx)
	assert.Nil(t, members)
	assert.True(t, errors.IsNotFound(err))
}

func TestCollection_Paging(t *testing.T) {
	ctx := context.Background()
	conn := mock.NewMockConnector().
		SetJSON("/redfish/v1/Things", `{
			"Members": [{"@odata.id": "/t/1"}],
			"Members@odata.count": 3,
			"Members@odata.nextLink": "/redfish/v1/Things?$skip=1"
		}`).
		SetJSON("/redfish/v1/Things?$skip=1", `{
			"Members": [{"@odata.id": "/t/2"}],
			"Members@odata.nextLink": "/redfish/v1/Things?$skip=2"
		}`).
		SetJSON("/redfish/v1/Things?$skip=2", `{"Members": [{"@odata.id": "/t/3"}]}`)

	things, err := newPartCollection(ctx, conn, "/redfish/v1/Things", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"/t/1", "/t/2", "/t/3"}, things.MembersIdentities)
	_, paged := things.Document()["Members@odata.nextLink"]
	assert.False(t, paged)
}

func TestCollection_MalformedMembers(t *testing.T) {
	conn := mock.NewMockConnector().SetJSON("/redfish/v1/Things", `{"Members": [{"href": "/t/1"}]}`)

	_, err := newPartCollection(context.Background(), conn, "/redfish/v1/Things", "")
	var malformed errors.MalformedAttribute
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, "Members", malformed.Attribute)
}

func TestAggregateMemo(t *testing.T) {
	ctx := context.Background()
	conn := newConnector()

	parts, err := newPartCollection(ctx, conn, partsPath, "")
	require.NoError(t, err)

	maxSize, err := parts.MaxSize(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(10), maxSize.OrElse(-1))

	_, err = parts.MaxSize(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, conn.Calls(http.MethodGet, partsPath+"/a"))

	// unchanged document and no force: the aggregate survives
	require.NoError(t, parts.Refresh(ctx, false))
	_, err = parts.MaxSize(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, conn.Calls(http.MethodGet, partsPath+"/a"))

	// forced refresh drops derived caches
	conn.SetJSON(partsPath+"/a", `{"Id": "a", "Size": 40}`)
	require.NoError(t, parts.Refresh(ctx, true))
	maxSize, err = parts.MaxSize(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(40), maxSize.OrElse(-1))
	assert.Equal(t, 2, conn.Calls(http.MethodGet, partsPath+"/a"))
}

func TestAggregateMemo_EmptyCollection(t *testing.T) {
	conn := mock.NewMockConnector().SetJSON(partsPath, `{"Members": []}`)

	parts, err := newPartCollection(context.Background(), conn, partsPath, "")
	require.NoError(t, err)

	maxSize, err := parts.MaxSize(context.Background())
	require.NoError(t, err)
	assert.True(t, maxSize.IsAbsent())
}

func TestSafeMax(t *testing.T) {
	assert.True(t, resource.SafeMax[int64](nil).IsAbsent())
	assert.True(t, resource.SafeMax([]field.Value[int64]{field.Absent[int64](), field.Null[int64]()}).IsAbsent())

	zero := resource.SafeMax([]field.Value[int64]{field.Absent[int64](), field.Of[int64](0)})
	v, ok := zero.Get()
	assert.True(t, ok, "a measured zero is data")
	assert.Equal(t, int64(0), v)

	assert.Equal(t, int64(7), resource.SafeMax([]field.Value[int64]{field.Of[int64](3), field.Of[int64](7), field.Absent[int64]()}).OrElse(-1))

	assert.Equal(t, 10, resource.SafeSum([]field.Value[int]{field.Of(4), field.Absent[int](), field.Of(6)}).OrElse(-1))
	assert.True(t, resource.SafeSum[int](nil).IsAbsent())
}

func TestAction(t *testing.T) {
	ctx := context.Background()
	w, err := newWidget(ctx, newConnector(), widgetPath, "")
	require.NoError(t, err)

	target, err := resource.ActionTarget(w.Reset, "#Widget.Reset", &w.Base)
	require.NoError(t, err)
	assert.Equal(t, "/redfish/v1/Widgets/1/Actions/Widget.Reset", target)

	allowed, ok := w.Reset.Allowed("ResetType")
	assert.True(t, ok)
	assert.Equal(t, []string{"On", "ForceOff"}, allowed)

	_, err = resource.ActionTarget(nil, "#Widget.Explode", &w.Base)
	var missing errors.MissingAction
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "#Widget.Explode", missing.Action)
	assert.Equal(t, widgetPath, missing.Resource)
}

func TestSetValue(t *testing.T) {
	ctx := context.Background()
	conn := newConnector().On(http.MethodPatch, widgetPath, mock.Reply{Status: http.StatusNoContent})

	w, err := newWidget(ctx, conn, widgetPath, "")
	require.NoError(t, err)

	err = w.SetIndicatorLED(ctx, "Purple")
	var invalid errors.InvalidParameter
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "state", invalid.Parameter)
	assert.Equal(t, "Purple", invalid.Value)
	assert.Equal(t, []string{"Lit", "Blinking", "Off"}, invalid.Allowed)
	assert.Equal(t, 0, conn.Calls(http.MethodPatch, widgetPath), "validation happens before any request")
	assert.False(t, w.IsStale())

	require.NoError(t, w.SetIndicatorLED(ctx, "Lit"))
	assert.Equal(t, 1, conn.Calls(http.MethodPatch, widgetPath))
	assert.True(t, w.IsStale())
	assert.Equal(t, map[string]any{"IndicatorLED": "Lit"}, conn.Requests()[1].Body)
}

func TestAtLeast(t *testing.T) {
	ctx := context.Background()

	w, err := newWidget(ctx, newConnector(), widgetPath, "1.5.0")
	require.NoError(t, err)
	assert.True(t, w.AtLeast("1.5.0"))
	assert.False(t, w.AtLeast("1.6.0"))

	unknown, err := newWidget(ctx, newConnector(), widgetPath, "")
	require.NoError(t, err)
	assert.True(t, unknown.AtLeast("1.99.0"))
}

func TestReaders(t *testing.T) {
	ctx := context.Background()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	f, err := zw.Create("Test.1.1.1.json")
	require.NoError(t, err)
	_, err = f.Write([]byte(`{"Id": "archived"}`))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	conn := mock.NewMockConnector().SetJSON("/archives/registries.zip", buf.String())

	w, err := newWidget(ctx, conn, "/archives/registries.zip#Test.1.1.1.json", "",
		resource.WithReader(&resource.ArchiveReader{Conn: conn, ArchiveURI: "/archives/registries.zip", File: "Test.1.1.1.json"}))
	require.NoError(t, err)
	assert.Equal(t, "archived", w.ID.OrElse(""))

	_, err = (&resource.ArchiveReader{Conn: conn, ArchiveURI: "/archives/registries.zip", File: "Other.json"}).Read(ctx)
	assert.True(t, errors.IsNotFound(err))

	_, err = (&resource.ArchiveReader{Conn: newConnector(), ArchiveURI: widgetPath, File: "x"}).Read(ctx)
	var unexpected errors.Unexpected
	assert.ErrorAs(t, err, &unexpected)

	inMemory, err := newWidget(ctx, conn, "/in-memory", "",
		resource.WithReader(&resource.DocumentReader{Doc: map[string]any{"Id": "mem"}}))
	require.NoError(t, err)
	assert.Equal(t, "mem", inMemory.ID.OrElse(""))
	assert.Equal(t, 0, conn.Calls(http.MethodGet, "/in-memory"))
}

func TestPrimedReader(t *testing.T) {
	ctx := context.Background()
	conn := newConnector()

	w, err := newWidget(ctx, conn, widgetPath, "",
		resource.WithReader(&resource.PrimedReader{
			Doc:  map[string]any{"Id": "primed"},
			Next: &resource.ConnectorReader{Conn: conn, Path: widgetPath},
		}))
	require.NoError(t, err)
	assert.Equal(t, "primed", w.ID.OrElse(""))
	assert.Equal(t, 0, conn.Calls(http.MethodGet, widgetPath))

	require.NoError(t, w.Refresh(ctx, false))
	assert.Equal(t, "1", w.ID.OrElse(""))
	assert.Equal(t, 1, conn.Calls(http.MethodGet, widgetPath))
}
