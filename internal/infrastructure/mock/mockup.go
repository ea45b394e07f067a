// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package mock

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/linuxfoundation/lfx-v2-redfish-client/pkg/errors"
	"github.com/linuxfoundation/lfx-v2-redfish-client/pkg/httpclient"
)

// MockupConnector serves a DMTF mockup directory tree, where the document
// for /redfish/v1/Systems/1 lives at <dir>/redfish/v1/Systems/1/index.json.
// Mutating requests are accepted and answered with 204 without changing
// the tree, which is enough to drive the client offline.
type MockupConnector struct {
	dir string
}

// NewMockupConnector creates a connector rooted at dir.
func NewMockupConnector(dir string) (*MockupConnector, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, errors.NewUnexpected("mockup directory not readable", err)
	}
	if !info.IsDir() {
		return nil, errors.NewUnexpected("mockup path " + dir + " is not a directory")
	}
	return &MockupConnector{dir: dir}, nil
}

func (m *MockupConnector) file(path string) string {
	path, _, _ = strings.Cut(path, "?")
	clean := filepath.Clean("/" + strings.Trim(path, "/"))
	return filepath.Join(m.dir, filepath.FromSlash(clean), "index.json")
}

// Get implements resource.Connector.
func (m *MockupConnector) Get(ctx context.Context, path string) (*httpclient.Response, error) {
	data, err := os.ReadFile(m.file(path))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewNotFound(http.MethodGet, path)
		}
		return nil, errors.NewConnectionError(path, err)
	}

	slog.DebugContext(ctx, "served mockup document", "path", path)

	return &httpclient.Response{
		StatusCode: http.StatusOK,
		Headers:    http.Header{"Content-Type": []string{"application/json"}},
		Body:       data,
	}, nil
}

// Post implements resource.Connector.
func (m *MockupConnector) Post(ctx context.Context, path string, _ any) (*httpclient.Response, error) {
	return m.accept(ctx, http.MethodPost, path)
}

// Patch implements resource.Connector.
func (m *MockupConnector) Patch(ctx context.Context, path string, _ any) (*httpclient.Response, error) {
	return m.accept(ctx, http.MethodPatch, path)
}

// Delete implements resource.Connector.
func (m *MockupConnector) Delete(ctx context.Context, path string) (*httpclient.Response, error) {
	return m.accept(ctx, http.MethodDelete, path)
}

func (m *MockupConnector) accept(ctx context.Context, method, path string) (*httpclient.Response, error) {
	slog.InfoContext(ctx, "mockup connector ignoring mutating request",
		"method", method,
		"path", path,
	)
	return &httpclient.Response{StatusCode: http.StatusNoContent, Headers: http.Header{}}, nil
}
