// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package registry

import (
	"context"
	"strings"

	"github.com/linuxfoundation/lfx-v2-redfish-client/pkg/constants"
	"github.com/linuxfoundation/lfx-v2-redfish-client/pkg/redfish/field"
	"github.com/linuxfoundation/lfx-v2-redfish-client/pkg/redfish/resource"
)

// Location is one place a registry file is published at, for one language.
type Location struct {
	Language       field.Value[string]
	URI            field.Value[string]
	ArchiveURI     field.Value[string]
	ArchiveFile    field.Value[string]
	PublicationURI field.Value[string]
}

var locationSchema = field.NewSchema(
	field.Scalar(field.P("Language"), field.String, func(l *Location) *field.Value[string] { return &l.Language }, field.Required()),
	field.Scalar(field.P("Uri"), field.String, func(l *Location) *field.Value[string] { return &l.URI }),
	field.Scalar(field.P("ArchiveUri"), field.String, func(l *Location) *field.Value[string] { return &l.ArchiveURI }),
	field.Scalar(field.P("ArchiveFile"), field.String, func(l *Location) *field.Value[string] { return &l.ArchiveFile }),
	field.Scalar(field.P("PublicationUri"), field.String, func(l *Location) *field.Value[string] { return &l.PublicationURI }),
)

// MessageRegistryFile describes where a registry can be read, per language.
type MessageRegistryFile struct {
	resource.Base

	ID        field.Value[string]
	Name      field.Value[string]
	Registry  field.Value[string]
	Languages []string
	Location  []Location
}

var fileSchema = field.NewSchema(
	field.Scalar(field.P("Id"), field.String, func(f *MessageRegistryFile) *field.Value[string] { return &f.ID }, field.Required()),
	field.Scalar(field.P("Name"), field.String, func(f *MessageRegistryFile) *field.Value[string] { return &f.Name }),
	field.Scalar(field.P("Registry"), field.String, func(f *MessageRegistryFile) *field.Value[string] { return &f.Registry }),
	field.Custom(field.P("Languages"), func(c field.Context, raw any, ok bool, f *MessageRegistryFile) error {
		f.Languages = []string{}
		if !ok || raw == nil {
			return nil
		}
		langs, err := field.Strings(raw)
		if err != nil {
			return field.Malformed(c, raw, err)
		}
		f.Languages = langs
		return nil
	}),
	field.List(field.P("Location"), locationSchema, func(f *MessageRegistryFile) *[]Location { return &f.Location }),
)

// Parse implements resource.Parser.
func (f *MessageRegistryFile) Parse(c field.Context, doc map[string]any) error {
	return fileSchema.Decode(c, doc, f)
}

// NewMessageRegistryFile fetches the registry file at path.
func NewMessageRegistryFile(ctx context.Context, conn resource.Connector, path, version string, opts ...resource.Option) (*MessageRegistryFile, error) {
	f := &MessageRegistryFile{}
	if err := resource.Init(ctx, f, &f.Base, conn, path, version, opts...); err != nil {
		return nil, err
	}
	return f, nil
}

// candidates orders the locations to try for language: exact language
// matches first, then the locations tagged "default".
func (f *MessageRegistryFile) candidates(language string) []Location {
	language = strings.ToLower(language)
	var exact, fallback []Location
	for _, l := range f.Location {
		switch strings.ToLower(l.Language.OrElse("")) {
		case language:
			exact = append(exact, l)
		case constants.DefaultLanguage:
			fallback = append(fallback, l)
		}
	}
	return append(exact, fallback...)
}

type source struct {
	path   string
	reader resource.Reader
}

// sources lists the ways a location can be read, in the order they are
// tried: through the service, from an archive served by the service, then
// from the public publication URI.
func (f *MessageRegistryFile) sources(l Location, public resource.Connector) []source {
	var out []source
	if uri, ok := l.URI.Get(); ok && uri != "" {
		out = append(out, source{uri, &resource.ConnectorReader{Conn: f.Connector(), Path: uri}})
	}
	archive, hasArchive := l.ArchiveURI.Get()
	file, hasFile := l.ArchiveFile.Get()
	if hasArchive && hasFile && archive != "" && file != "" {
		out = append(out, source{archive + "#" + file, &resource.ArchiveReader{Conn: f.Connector(), ArchiveURI: archive, File: file}})
	}
	if uri, ok := l.PublicationURI.Get(); ok && uri != "" && public != nil {
		out = append(out, source{uri, &resource.PublicReader{Conn: public, URI: uri}})
	}
	return out
}

// Load returns the message registry for language. Locations that cannot be
// read, or that hold a document other than a message registry, are skipped.
// When nothing loads the result is (nil, false); this is logged and is not
// an error. public may be nil, in which case publication URIs are skipped.
func (f *MessageRegistryFile) Load(ctx context.Context, language string, public resource.Connector) (*MessageRegistry, bool) {
	for _, l := range f.candidates(language) {
		for _, src := range f.sources(l, public) {
			reg, err := NewMessageRegistry(ctx, f.Connector(), src.path, f.SchemaVersion(),
				append(f.ChildOptions(), resource.WithReader(src.reader))...)
			if err != nil {
				f.Logger().DebugContext(ctx, "skipping registry location",
					"registry", f.Registry.OrElse(f.Path()),
					"location", src.path,
					"error", err,
				)
				continue
			}
			return reg, true
		}
	}

	f.Logger().WarnContext(ctx, "no message registry found",
		"registry", f.Registry.OrElse(f.Path()),
		"language", language,
	)
	return nil, false
}

// MessageRegistryFileCollection is the service's Registries collection.
type MessageRegistryFileCollection struct {
	resource.Collection[*MessageRegistryFile]
}

// NewMessageRegistryFileCollection fetches the collection at path.
func NewMessageRegistryFileCollection(ctx context.Context, conn resource.Connector, path, version string, opts ...resource.Option) (*MessageRegistryFileCollection, error) {
	c := &MessageRegistryFileCollection{}
	if err := resource.InitCollection(ctx, c, &c.Collection, conn, path, version, NewMessageRegistryFile, opts...); err != nil {
		return nil, err
	}
	return c, nil
}

// Load resolves every registry file of the collection for language and
// returns them keyed by "<RegistryPrefix>.<RegistryVersion>", on top of the
// standard registries bundled with this package. Files that cannot be read
// are logged and skipped.
func (c *MessageRegistryFileCollection) Load(ctx context.Context, language string, public resource.Connector) map[string]*MessageRegistry {
	out := Standard(ctx)
	for _, path := range c.MembersIdentities {
		f, err := c.GetMember(ctx, path)
		if err != nil {
			c.Logger().WarnContext(ctx, "unable to read registry file",
				"path", path,
				"error", err,
			)
			continue
		}
		if reg, ok := f.Load(ctx, language, public); ok {
			out[reg.Key()] = reg
		}
	}
	return out
}
