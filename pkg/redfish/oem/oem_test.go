// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package oem_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linuxfoundation/lfx-v2-redfish-client/internal/infrastructure/mock"
	"github.com/linuxfoundation/lfx-v2-redfish-client/pkg/errors"
	"github.com/linuxfoundation/lfx-v2-redfish-client/pkg/redfish/field"
	"github.com/linuxfoundation/lfx-v2-redfish-client/pkg/redfish/oem"
	"github.com/linuxfoundation/lfx-v2-redfish-client/pkg/redfish/resource"
)

const kind = "TestServer"

type contoso struct {
	oem.Base

	Flavor field.Value[string]
	Boost  field.Value[bool]
	Turbo  *resource.Action
}

var contosoSchema = field.NewSchema(
	field.Scalar(field.P("FirmwareFlavor"), field.String, func(c *contoso) *field.Value[string] { return &c.Flavor }),
	field.Scalar(field.P("Boost"), field.Bool, func(c *contoso) *field.Value[bool] { return &c.Boost }),
	field.Composite(field.P("Actions", "#Contoso.Turbo"), resource.ActionSchema, func(c *contoso) **resource.Action { return &c.Turbo }),
)

func (c *contoso) Parse(fc field.Context, doc map[string]any) error {
	return contosoSchema.Decode(fc, doc, c)
}

func init() {
	oem.Register(kind, "Contoso", func(_ context.Context, parent oem.Parent) (oem.Extension, error) {
		ext := &contoso{}
		if err := oem.Bind(ext, &ext.Base, parent, "Contoso"); err != nil {
			return nil, err
		}
		return ext, nil
	})
}

type server struct {
	resource.Base

	oems oem.Cache
}

func (s *server) Parse(field.Context, map[string]any) error { return nil }

func (s *server) OEM(ctx context.Context, vendor string) (oem.Extension, error) {
	return s.oems.Get(ctx, kind, vendor, &s.Base)
}

func newServer(t *testing.T, conn resource.Connector, path string) *server {
	t.Helper()
	s := &server{}
	require.NoError(t, resource.Init(context.Background(), s, &s.Base, conn, path, "1.10.0"))
	return s
}

const serverDoc = `{
	"Id": "1",
	"Oem": {
		"Contoso": {"FirmwareFlavor": "gold", "Boost": true},
		"Fabrikam": {"FirmwareFlavor": "never seen"}
	},
	"Actions": {
		"#ComputerSystem.Reset": {"target": "/redfish/v1/Systems/1/Actions/ComputerSystem.Reset"},
		"Oem": {
			"#Contoso.Turbo": {
				"target": "/redfish/v1/Systems/1/Actions/Oem/Contoso.Turbo",
				"Mode@Redfish.AllowableValues": ["Eco", "Max"]
			}
		}
	}
}`

func TestBind(t *testing.T) {
	ctx := context.Background()
	conn := mock.NewMockConnector().SetJSON("/redfish/v1/Systems/1", serverDoc)
	s := newServer(t, conn, "/redfish/v1/Systems/1")

	ext, err := s.OEM(ctx, "Contoso")
	require.NoError(t, err)

	c, ok := ext.(*contoso)
	require.True(t, ok)
	assert.Equal(t, "Contoso", c.Vendor())
	assert.Equal(t, "gold", c.Flavor.OrElse(""))
	assert.True(t, c.Boost.OrElse(false))
	require.NotNil(t, c.Turbo)
	assert.Equal(t, "/redfish/v1/Systems/1/Actions/Oem/Contoso.Turbo", c.Turbo.Target.OrElse(""))
	allowed, ok := c.Turbo.Allowed("Mode")
	assert.True(t, ok)
	assert.Equal(t, []string{"Eco", "Max"}, allowed)
	assert.False(t, c.IsStale())
	assert.Same(t, &s.Base, c.Parent())

	again, err := s.OEM(ctx, "Contoso")
	require.NoError(t, err)
	assert.Same(t, ext, again)
}

func TestBind_EmptyDefaults(t *testing.T) {
	conn := mock.NewMockConnector().SetJSON("/redfish/v1/Systems/2", `{"Id": "2"}`)
	s := newServer(t, conn, "/redfish/v1/Systems/2")

	ext, err := s.OEM(context.Background(), "Contoso")
	require.NoError(t, err)

	c := ext.(*contoso)
	assert.True(t, c.Flavor.IsAbsent())
	assert.True(t, c.Boost.IsAbsent())
	assert.Nil(t, c.Turbo)
	assert.Equal(t, map[string]any{"Actions": map[string]any{}}, c.Document())
}

func TestRebind_DifferentParent(t *testing.T) {
	conn := mock.NewMockConnector().
		SetJSON("/redfish/v1/Systems/1", serverDoc).
		SetJSON("/redfish/v1/Systems/2", `{"Id": "2", "Oem": {"Contoso": {"Boost": false}}}`)
	first := newServer(t, conn, "/redfish/v1/Systems/1")
	second := newServer(t, conn, "/redfish/v1/Systems/2")

	c := &contoso{}
	require.NoError(t, oem.Bind(c, &c.Base, &first.Base, "Contoso"))
	require.NotNil(t, c.Turbo)

	require.NoError(t, c.Rebind(&second.Base))
	assert.True(t, c.Flavor.IsAbsent(), "nothing from the previous parent survives")
	assert.Nil(t, c.Turbo)
	boost, ok := c.Boost.Get()
	assert.True(t, ok)
	assert.False(t, boost)
	assert.Same(t, &second.Base, c.Parent())
}

func TestStaleAfterParentRefresh(t *testing.T) {
	ctx := context.Background()
	conn := mock.NewMockConnector().SetJSON("/redfish/v1/Systems/1", serverDoc)
	s := newServer(t, conn, "/redfish/v1/Systems/1")

	ext, err := s.OEM(ctx, "Contoso")
	require.NoError(t, err)

	conn.SetJSON("/redfish/v1/Systems/1", `{"Oem": {"Contoso": {"FirmwareFlavor": "silver"}}}`)
	require.NoError(t, s.Refresh(ctx, false))
	assert.True(t, ext.IsStale())

	again, err := s.OEM(ctx, "Contoso")
	require.NoError(t, err)
	assert.False(t, again.IsStale())
	assert.Equal(t, "silver", again.(*contoso).Flavor.OrElse(""))
	assert.Nil(t, again.(*contoso).Turbo)
	assert.Equal(t, 2, conn.Calls(http.MethodGet, "/redfish/v1/Systems/1"))
}

func TestStaleAfterParentInvalidate(t *testing.T) {
	ctx := context.Background()
	conn := mock.NewMockConnector().SetJSON("/redfish/v1/Systems/1", serverDoc)
	s := newServer(t, conn, "/redfish/v1/Systems/1")

	ext, err := s.OEM(ctx, "Contoso")
	require.NoError(t, err)

	require.NoError(t, s.Invalidate(ctx, false))
	assert.True(t, ext.IsStale())
}

func TestBind_Malformed(t *testing.T) {
	conn := mock.NewMockConnector().SetJSON("/redfish/v1/Systems/3", `{"Oem": {"Contoso": {"Boost": "yes"}}}`)
	s := newServer(t, conn, "/redfish/v1/Systems/3")

	c := &contoso{}
	err := oem.Bind(c, &c.Base, &s.Base, "Contoso")
	var malformed errors.MalformedAttribute
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, "Boost", malformed.Attribute)
	assert.Equal(t, "/redfish/v1/Systems/3#/Oem/Contoso", malformed.Resource)
	assert.True(t, c.IsStale())
	assert.Nil(t, c.Parent())
}

func TestUnknownVendor(t *testing.T) {
	conn := mock.NewMockConnector().SetJSON("/redfish/v1/Systems/1", serverDoc)
	s := newServer(t, conn, "/redfish/v1/Systems/1")

	_, err := s.OEM(context.Background(), "Fabrikam")
	var invalid errors.InvalidParameter
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "vendor", invalid.Parameter)
	assert.Equal(t, []string{"Contoso"}, invalid.Allowed)
	assert.Equal(t, []string{"Contoso"}, oem.Vendors(kind))
	assert.Empty(t, oem.Vendors("Chassis"))
}

func TestPost(t *testing.T) {
	ctx := context.Background()
	conn := mock.NewMockConnector().
		SetJSON("/redfish/v1/Systems/1", serverDoc).
		On(http.MethodPost, "/redfish/v1/Systems/1/Actions/Oem/Contoso.Turbo", mock.Reply{Status: http.StatusNoContent})
	s := newServer(t, conn, "/redfish/v1/Systems/1")

	ext, err := s.OEM(ctx, "Contoso")
	require.NoError(t, err)
	c := ext.(*contoso)

	resp, err := c.Post(ctx, c.Turbo.Target.OrElse(""), map[string]any{"Mode": "Max"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}
