// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package mock

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/linuxfoundation/lfx-v2-redfish-client/pkg/errors"
	"github.com/linuxfoundation/lfx-v2-redfish-client/pkg/httpclient"
)

// Reply is one scripted answer of the MockConnector.
type Reply struct {
	Status  int
	Headers map[string]string
	Body    string
	Err     error
}

// Request records a call received by the MockConnector.
type Request struct {
	Method string
	Path   string
	Body   any
}

// MockConnector is a scripted implementation of resource.Connector for
// testing. Replies are queued per method and path; the last reply of a
// queue is sticky so a route can be read any number of times.
type MockConnector struct {
	mu       sync.Mutex
	routes   map[string][]Reply
	calls    map[string]int
	requests []Request
}

// NewMockConnector creates an empty MockConnector.
func NewMockConnector() *MockConnector {
	return &MockConnector{
		routes: map[string][]Reply{},
		calls:  map[string]int{},
	}
}

func key(method, path string) string {
	return method + " " + path
}

// SetJSON serves body with HTTP 200 on GET path.
func (m *MockConnector) SetJSON(path, body string) *MockConnector {
	return m.On(http.MethodGet, path, Reply{Status: http.StatusOK, Body: body})
}

// On replaces the replies for method and path.
func (m *MockConnector) On(method, path string, replies ...Reply) *MockConnector {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.routes[key(method, path)] = replies
	return m
}

// Calls returns how many times method and path were requested.
func (m *MockConnector) Calls(method, path string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[key(method, path)]
}

// Requests returns every recorded request in arrival order.
func (m *MockConnector) Requests() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Request, len(m.requests))
	copy(out, m.requests)
	return out
}

// Get implements resource.Connector.
func (m *MockConnector) Get(ctx context.Context, path string) (*httpclient.Response, error) {
	return m.do(ctx, http.MethodGet, path, nil)
}

// Post implements resource.Connector.
func (m *MockConnector) Post(ctx context.Context, path string, body any) (*httpclient.Response, error) {
	return m.do(ctx, http.MethodPost, path, body)
}

// Patch implements resource.Connector.
func (m *MockConnector) Patch(ctx context.Context, path string, body any) (*httpclient.Response, error) {
	return m.do(ctx, http.MethodPatch, path, body)
}

// Delete implements resource.Connector.
func (m *MockConnector) Delete(ctx context.Context, path string) (*httpclient.Response, error) {
	return m.do(ctx, http.MethodDelete, path, nil)
}

func (m *MockConnector) do(ctx context.Context, method, path string, body any) (*httpclient.Response, error) {
	m.mu.Lock()
	k := key(method, path)
	m.calls[k]++
	m.requests = append(m.requests, Request{Method: method, Path: path, Body: normalize(body)})
	replies, ok := m.routes[k]
	var reply Reply
	if ok && len(replies) > 0 {
		reply = replies[0]
		if len(replies) > 1 {
			m.routes[k] = replies[1:]
		}
	}
	m.mu.Unlock()

	slog.DebugContext(ctx, "mock connector request",
		"method", method,
		"path", path,
		"scripted", ok,
	)

	if !ok {
		return nil, errors.NewNotFound(method, path)
	}
	if reply.Err != nil {
		return nil, reply.Err
	}

	status := reply.Status
	if status == 0 {
		status = http.StatusOK
	}
	resp := &httpclient.Response{
		StatusCode: status,
		Headers:    http.Header{},
		Body:       []byte(reply.Body),
	}
	for k, v := range reply.Headers {
		resp.Headers.Set(k, v)
	}

	switch {
	case status == http.StatusNotFound:
		return nil, errors.NewNotFound(method, path)
	case status >= http.StatusBadRequest:
		return nil, errors.NewHTTPError(method, path, status, reply.Body, nil)
	}
	return resp, nil
}

// normalize round-trips request bodies through JSON so tests can compare
// them with plain maps.
func normalize(body any) any {
	if body == nil {
		return nil
	}
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Sprintf("unencodable body: %v", err)
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return string(data)
	}
	return out
}
