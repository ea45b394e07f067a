// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package resource

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/linuxfoundation/lfx-v2-redfish-client/pkg/errors"
)

// Reader produces the JSON document backing a resource.
type Reader interface {
	Read(ctx context.Context) (map[string]any, error)
}

// ConnectorReader GETs a path through the connector.
type ConnectorReader struct {
	Conn Connector
	Path string
}

// Read implements Reader.
func (r *ConnectorReader) Read(ctx context.Context) (map[string]any, error) {
	resp, err := r.Conn.Get(ctx, r.Path)
	if err != nil {
		return nil, err
	}
	doc, err := resp.JSON()
	if err != nil {
		return nil, errors.NewUnexpected(fmt.Sprintf("invalid JSON document at %s", r.Path), err)
	}
	return doc, nil
}

// PagedReader follows Members@odata.nextLink and concatenates the Members
// of every page, in server order, into the first page's document.
type PagedReader struct {
	Conn Connector
	Path string
	// MaxPages bounds the number of pages followed; zero means 1000.
	MaxPages int
}

// Read implements Reader.
func (r *PagedReader) Read(ctx context.Context) (map[string]any, error) {
	first := &ConnectorReader{Conn: r.Conn, Path: r.Path}
	doc, err := first.Read(ctx)
	if err != nil {
		return nil, err
	}

	limit := r.MaxPages
	if limit <= 0 {
		limit = 1000
	}

	members, _ := doc["Members"].([]any)
	next, _ := doc["Members@odata.nextLink"].(string)
	for pages := 1; next != "" && pages < limit; pages++ {
		page, err := (&ConnectorReader{Conn: r.Conn, Path: next}).Read(ctx)
		if err != nil {
			return nil, err
		}
		more, _ := page["Members"].([]any)
		members = append(members, more...)
		next, _ = page["Members@odata.nextLink"].(string)
	}

	if _, paged := doc["Members@odata.nextLink"]; paged {
		merged := make(map[string]any, len(doc))
		for k, v := range doc {
			merged[k] = v
		}
		delete(merged, "Members@odata.nextLink")
		merged["Members"] = members
		merged["Members@odata.count"] = float64(len(members))
		doc = merged
	}
	return doc, nil
}

// PublicReader fetches a document published outside the service, such as a
// DMTF registry URI, through a connector that carries no credentials.
type PublicReader struct {
	Conn Connector
	URI  string
}

// Read implements Reader.
func (r *PublicReader) Read(ctx context.Context) (map[string]any, error) {
	return (&ConnectorReader{Conn: r.Conn, Path: r.URI}).Read(ctx)
}

// ArchiveReader loads a JSON file stored inside a zip archive served by the
// connector.
type ArchiveReader struct {
	Conn       Connector
	ArchiveURI string
	File       string
}

// Read implements Reader.
func (r *ArchiveReader) Read(ctx context.Context) (map[string]any, error) {
	resp, err := r.Conn.Get(ctx, r.ArchiveURI)
	if err != nil {
		return nil, err
	}

	archive, err := zip.NewReader(bytes.NewReader(resp.Body), int64(len(resp.Body)))
	if err != nil {
		return nil, errors.NewUnexpected(fmt.Sprintf("invalid archive at %s", r.ArchiveURI), err)
	}

	for _, f := range archive.File {
		if f.Name != r.File {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, errors.NewUnexpected(fmt.Sprintf("unable to open %s in %s", r.File, r.ArchiveURI), err)
		}
		defer rc.Close()

		data, err := io.ReadAll(rc)
		if err != nil {
			return nil, errors.NewUnexpected(fmt.Sprintf("unable to read %s in %s", r.File, r.ArchiveURI), err)
		}
		doc := map[string]any{}
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, errors.NewUnexpected(fmt.Sprintf("invalid JSON document %s in %s", r.File, r.ArchiveURI), err)
		}
		return doc, nil
	}

	return nil, errors.NewNotFound("GET", r.ArchiveURI+"#"+r.File)
}

// PrimedReader serves Doc on the first read and delegates to Next
// afterwards, for resources whose first document arrived in another
// response, such as a task returned by an action.
type PrimedReader struct {
	Doc  map[string]any
	Next Reader
}

// Read implements Reader.
func (r *PrimedReader) Read(ctx context.Context) (map[string]any, error) {
	if r.Doc != nil {
		doc := r.Doc
		r.Doc = nil
		return doc, nil
	}
	return r.Next.Read(ctx)
}

// DocumentReader serves an in-memory document, for resources parsed from
// payloads already at hand.
type DocumentReader struct {
	Doc map[string]any
}

// Read implements Reader.
func (r *DocumentReader) Read(context.Context) (map[string]any, error) {
	if r.Doc == nil {
		return map[string]any{}, nil
	}
	return r.Doc, nil
}
