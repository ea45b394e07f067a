// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package task follows asynchronous Redfish operations: the task monitor
// returned with HTTP 202 and the Task resources of the TaskService.
package task

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/linuxfoundation/lfx-v2-redfish-client/pkg/constants"
	"github.com/linuxfoundation/lfx-v2-redfish-client/pkg/errors"
	"github.com/linuxfoundation/lfx-v2-redfish-client/pkg/httpclient"
	"github.com/linuxfoundation/lfx-v2-redfish-client/pkg/redfish/resource"
)

// State of a Monitor. The only transition is InProgress to Completed.
type State int

const (
	InProgress State = iota
	Completed
)

func (s State) String() string {
	if s == Completed {
		return "Completed"
	}
	return "InProgress"
}

// DefaultRetryAfter is used when a 202 carries no usable Retry-After.
const DefaultRetryAfter = time.Second

// Monitor is the client side handle of an asynchronous operation. It never
// sleeps: callers wait SleepFor between calls to InProgress.
type Monitor struct {
	conn       resource.Connector
	path       string
	state      State
	response   *httpclient.Response
	location   string
	retryAfter time.Time
	now        func() time.Time
	logger     *slog.Logger
}

// MonitorOption configures a Monitor.
type MonitorOption func(*Monitor)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) MonitorOption {
	return func(m *Monitor) { m.now = now }
}

// WithLogger injects the logger used while polling.
func WithLogger(logger *slog.Logger) MonitorOption {
	return func(m *Monitor) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// NewMonitor returns an InProgress monitor polling path.
func NewMonitor(conn resource.Connector, path string, opts ...MonitorOption) *Monitor {
	m := &Monitor{
		conn:   conn,
		path:   path,
		state:  InProgress,
		now:    time.Now,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.SetRetryAfter("")
	return m
}

// FromResponse builds the monitor of an action response. A 202 starts an
// InProgress monitor at its Location; any other status means the operation
// already finished and the monitor starts Completed with resp as result.
func FromResponse(conn resource.Connector, resp *httpclient.Response, opts ...MonitorOption) *Monitor {
	location := resp.Header(constants.LocationHeader)
	m := NewMonitor(conn, location, opts...)
	m.response = resp
	m.location = location
	if resp.StatusCode == http.StatusAccepted {
		m.SetRetryAfter(resp.Header(constants.RetryAfterHeader))
		return m
	}
	m.state = Completed
	return m
}

// SetRetryAfter sets when the next poll is due from a Retry-After value:
// a number of seconds or an HTTP-date. Empty or unparsable values mean one
// second from now.
func (m *Monitor) SetRetryAfter(value string) *Monitor {
	now := m.now()
	value = strings.TrimSpace(value)

	if value == "" {
		m.retryAfter = now.Add(DefaultRetryAfter)
		return m
	}
	if secs, err := strconv.ParseFloat(value, 64); err == nil {
		m.retryAfter = now.Add(time.Duration(secs * float64(time.Second)))
		return m
	}
	if at, err := http.ParseTime(value); err == nil {
		m.retryAfter = at
		return m
	}

	m.logger.Warn("unparsable Retry-After, using default",
		"path", m.path,
		"retry_after", value,
	)
	m.retryAfter = now.Add(DefaultRetryAfter)
	return m
}

// RetryAfter is the absolute time the next poll is due.
func (m *Monitor) RetryAfter() time.Time { return m.retryAfter }

// SleepFor is how long to wait before polling again; never negative.
func (m *Monitor) SleepFor() time.Duration {
	return max(0, m.retryAfter.Sub(m.now()))
}

// InProgress polls the monitor and reports whether the operation is still
// running. Once Completed it returns false without any request. Polling
// errors are returned unchanged and leave the state as it was.
func (m *Monitor) InProgress(ctx context.Context) (bool, error) {
	if m.state == Completed {
		return false, nil
	}
	if m.path == "" {
		return true, errors.NewUnexpected("accepted response carried no task monitor location")
	}

	resp, err := m.conn.Get(ctx, m.path)
	if err != nil {
		m.logger.DebugContext(ctx, "task monitor poll failed",
			"path", m.path,
			"error", err,
		)
		return true, err
	}

	m.response = resp
	m.location = resp.Header(constants.LocationHeader)
	if resp.StatusCode == http.StatusAccepted {
		m.SetRetryAfter(resp.Header(constants.RetryAfterHeader))
		m.logger.DebugContext(ctx, "task in progress",
			"path", m.path,
			"sleep_for", m.SleepFor(),
		)
		return true, nil
	}

	m.state = Completed
	m.logger.DebugContext(ctx, "task completed",
		"path", m.path,
		"status_code", resp.StatusCode,
	)
	return false, nil
}

// State is the current state.
func (m *Monitor) State() State { return m.state }

// Path is the task monitor URI being polled.
func (m *Monitor) Path() string { return m.path }

// Location is the Location header of the last response, empty if absent.
func (m *Monitor) Location() string { return m.location }

// Response is the last response received; once Completed it is the result
// of the operation.
func (m *Monitor) Response() *httpclient.Response { return m.response }

// Task returns the Task behind the operation: from the body of the last
// response when it is a Task document, otherwise fetched from Location.
func (m *Monitor) Task(ctx context.Context, opts ...resource.Option) (*Task, error) {
	opts = append([]resource.Option{resource.WithLogger(m.logger)}, opts...)

	if m.response != nil {
		if doc, err := m.response.JSON(); err == nil && isTask(doc) {
			path, _ := doc["@odata.id"].(string)
			if path == "" {
				path = m.path
			}
			reader := &resource.PrimedReader{Doc: doc, Next: &resource.ConnectorReader{Conn: m.conn, Path: path}}
			return NewTask(ctx, m.conn, path, "", append(opts, resource.WithReader(reader))...)
		}
	}

	if m.location != "" {
		return NewTask(ctx, m.conn, m.location, "", opts...)
	}
	return nil, errors.NewNotFound(http.MethodGet, m.path+" (task)")
}

func isTask(doc map[string]any) bool {
	if t, ok := doc["@odata.type"].(string); ok {
		return strings.HasSuffix(t, ".Task")
	}
	_, ok := doc["TaskState"]
	return ok
}
