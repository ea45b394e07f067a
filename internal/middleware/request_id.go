// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/linuxfoundation/lfx-v2-redfish-client/pkg/constants"
	"github.com/linuxfoundation/lfx-v2-redfish-client/pkg/log"

	"github.com/google/uuid"
)

type requestIDKey struct{}

// WithRequestID stores id in the context and appends it to the log
// attributes, so every log line of the exchange carries it.
func WithRequestID(ctx context.Context, id string) context.Context {
	ctx = context.WithValue(ctx, requestIDKey{}, id)
	return log.AppendCtx(ctx, slog.String(constants.RequestIDHeader, id))
}

// RequestID returns the request ID stored in ctx, if any.
func RequestID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(requestIDKey{}).(string)
	return id, ok && id != ""
}

// EnsureRequestID returns ctx carrying a request ID, generating one when
// ctx has none.
func EnsureRequestID(ctx context.Context) (context.Context, string) {
	if id, ok := RequestID(ctx); ok {
		return ctx, id
	}
	id := generateRequestID()
	return WithRequestID(ctx, id), id
}

type requestIDTransport struct {
	next http.RoundTripper
}

// RequestIDTransport stamps every outgoing request with the X-REQUEST-ID
// header: the ID found in the request context, or a new one.
func RequestIDTransport(next http.RoundTripper) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	return &requestIDTransport{next: next}
}

// RoundTrip implements http.RoundTripper.
func (t *requestIDTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	if r.Header.Get(constants.RequestIDHeader) != "" {
		return t.next.RoundTrip(r)
	}

	_, id := EnsureRequestID(r.Context())

	// RoundTrippers must not modify the caller's request
	clone := r.Clone(r.Context())
	clone.Header.Set(constants.RequestIDHeader, id)
	return t.next.RoundTrip(clone)
}

// generateRequestID generates a new unique request ID
func generateRequestID() string {
	return uuid.New().String()
}
