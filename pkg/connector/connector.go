// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package connector is the HTTP transport of the Redfish client. It maps
// every answer onto the error taxonomy of pkg/errors: HTTP 404 becomes
// NotFound, other non-2xx statuses HTTPError and transport failures
// ConnectionError.
package connector

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"goa.design/clue/log"

	"github.com/linuxfoundation/lfx-v2-redfish-client/internal/middleware"
	"github.com/linuxfoundation/lfx-v2-redfish-client/pkg/constants"
	"github.com/linuxfoundation/lfx-v2-redfish-client/pkg/errors"
	"github.com/linuxfoundation/lfx-v2-redfish-client/pkg/httpclient"
)

// Connector talks to one Redfish service. It is safe for use by several
// resources at once.
type Connector struct {
	config Config
	client *httpclient.Client
	logger *slog.Logger
	debug  bool

	mu      sync.RWMutex
	token   string
	session string
}

// Option configures a Connector.
type Option func(*Connector)

// WithDebug logs every HTTP exchange through the clue logger found in the
// request context.
func WithDebug() Option {
	return func(c *Connector) { c.debug = true }
}

// WithLogger injects the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Connector) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates a connector. With session authentication it logs in before
// returning.
func New(ctx context.Context, config Config, opts ...Option) (*Connector, error) {
	c := &Connector{
		config: config,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}

	transport := config.HTTP.Transport
	if transport == nil {
		transport = httpclient.DefaultTransport(config.HTTP.InsecureSkipVerify)
	}
	transport = middleware.RequestIDTransport(transport)
	if c.debug {
		transport = log.Client(transport)
	}
	httpConfig := config.HTTP
	httpConfig.Transport = transport
	c.client = httpclient.NewClient(httpConfig)

	if config.AuthMode == AuthSession {
		if err := c.login(ctx); err != nil {
			return nil, err
		}
	}

	c.logger.DebugContext(ctx, "redfish connector ready",
		"base_url", config.BaseURL,
		"auth_mode", config.AuthMode,
	)
	return c, nil
}

// NewPublic creates an unauthenticated connector for documents published
// outside the service, addressed by absolute URI.
func NewPublic(config httpclient.Config, opts ...Option) *Connector {
	c, _ := New(context.Background(), Config{AuthMode: AuthNone, HTTP: config}, opts...)
	return c
}

func (c *Connector) url(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.config.BaseURL + path
}

func (c *Connector) headers() map[string]string {
	h := map[string]string{
		constants.ODataVersionHeader: constants.ODataVersion,
	}

	switch c.config.AuthMode {
	case AuthBasic:
		req := http.Request{Header: http.Header{}}
		req.SetBasicAuth(c.config.Username, c.config.Password)
		h["Authorization"] = req.Header.Get("Authorization")
	case AuthSession:
		c.mu.RLock()
		if c.token != "" {
			h[constants.AuthTokenHeader] = c.token
		}
		c.mu.RUnlock()
	}
	return h
}

// Get implements resource.Connector.
func (c *Connector) Get(ctx context.Context, path string) (*httpclient.Response, error) {
	return c.do(ctx, http.MethodGet, path, nil)
}

// Post implements resource.Connector.
func (c *Connector) Post(ctx context.Context, path string, body any) (*httpclient.Response, error) {
	return c.do(ctx, http.MethodPost, path, body)
}

// Patch implements resource.Connector.
func (c *Connector) Patch(ctx context.Context, path string, body any) (*httpclient.Response, error) {
	return c.do(ctx, http.MethodPatch, path, body)
}

// Delete implements resource.Connector.
func (c *Connector) Delete(ctx context.Context, path string) (*httpclient.Response, error) {
	return c.do(ctx, http.MethodDelete, path, nil)
}

func (c *Connector) do(ctx context.Context, method, path string, body any) (*httpclient.Response, error) {
	ctx, _ = middleware.EnsureRequestID(ctx)
	url := c.url(path)

	var payload []byte
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, errors.NewUnexpected(fmt.Sprintf("unable to encode %s body for %s", method, url), err)
		}
		payload = data
	}

	c.logger.DebugContext(ctx, "redfish request",
		"method", method,
		"url", url,
	)

	resp, err := c.client.Request(ctx, method, url, payload, c.headers())
	if err != nil {
		return nil, c.mapError(ctx, method, url, resp, err)
	}
	return resp, nil
}

func (c *Connector) mapError(ctx context.Context, method, url string, resp *httpclient.Response, err error) error {
	var statusErr *httpclient.RetryableError
	if !stderrors.As(err, &statusErr) {
		c.logger.WarnContext(ctx, "redfish connection failed",
			"method", method,
			"url", url,
			"error", err,
		)
		return errors.NewConnectionError(url, err)
	}

	if statusErr.StatusCode == http.StatusNotFound {
		return errors.NewNotFound(method, url, err)
	}

	detail, extended := errorDetail(resp)
	c.logger.InfoContext(ctx, "redfish request rejected",
		"method", method,
		"url", url,
		"status_code", statusErr.StatusCode,
		"detail", detail,
	)
	return errors.NewHTTPError(method, url, statusErr.StatusCode, detail, extended)
}

// errorDetail extracts the message of a Redfish error payload. Bodies that
// are not Redfish errors are reported verbatim.
func errorDetail(resp *httpclient.Response) (string, []map[string]any) {
	if resp == nil {
		return "", nil
	}
	raw := strings.TrimSpace(string(resp.Body))

	doc, err := resp.JSON()
	if err != nil {
		return raw, nil
	}
	payload, ok := doc["error"].(map[string]any)
	if !ok {
		return raw, nil
	}

	var extended []map[string]any
	if infos, ok := payload["@Message.ExtendedInfo"].([]any); ok {
		for _, info := range infos {
			if m, ok := info.(map[string]any); ok {
				extended = append(extended, m)
			}
		}
	}

	if len(extended) > 0 {
		if msg, ok := extended[0]["Message"].(string); ok && msg != "" {
			return msg, extended
		}
	}
	if msg, ok := payload["message"].(string); ok && msg != "" {
		return msg, extended
	}
	return raw, extended
}

func (c *Connector) login(ctx context.Context) error {
	ctx, _ = middleware.EnsureRequestID(ctx)
	path := c.config.SessionsPath
	if path == "" {
		path = constants.SessionsPath
	}
	url := c.url(path)

	body, err := json.Marshal(map[string]string{
		"UserName": c.config.Username,
		"Password": c.config.Password,
	})
	if err != nil {
		return errors.NewUnexpected("unable to encode session request", err)
	}

	resp, err := c.client.Request(ctx, http.MethodPost, url, body, map[string]string{
		constants.ODataVersionHeader: constants.ODataVersion,
	})
	if err != nil {
		return c.mapError(ctx, http.MethodPost, url, resp, err)
	}

	token := resp.Header(constants.AuthTokenHeader)
	if token == "" {
		return errors.NewUnexpected(fmt.Sprintf("session created at %s without %s", url, constants.AuthTokenHeader))
	}

	c.mu.Lock()
	c.token = token
	c.session = resp.Header(constants.LocationHeader)
	c.mu.Unlock()

	c.logger.InfoContext(ctx, "redfish session opened",
		"base_url", c.config.BaseURL,
		"session", c.session,
	)
	return nil
}

// Close logs out of the session, if any. It is safe to call more than once.
func (c *Connector) Close(ctx context.Context) error {
	c.mu.RLock()
	session, token := c.session, c.token
	c.mu.RUnlock()
	if token == "" || session == "" {
		return nil
	}

	_, err := c.Delete(ctx, session)

	c.mu.Lock()
	c.token, c.session = "", ""
	c.mu.Unlock()

	if err != nil {
		c.logger.WarnContext(ctx, "failed to close redfish session",
			"session", session,
			"error", err,
		)
		return err
	}
	c.logger.InfoContext(ctx, "redfish session closed", "session", session)
	return nil
}
