// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linuxfoundation/lfx-v2-redfish-client/pkg/constants"
)

func TestRequestIDTransport(t *testing.T) {
	tests := []struct {
		name            string
		contextID       string
		headerID        string
		expectGenerated bool
		expected        string
	}{
		{
			name:            "generates new request ID when none provided",
			expectGenerated: true,
		},
		{
			name:      "uses request ID from context",
			contextID: "existing-id-123",
			expected:  "existing-id-123",
		},
		{
			name:      "keeps request ID already set on the request",
			contextID: "ignored",
			headerID:  "550e8400-e29b-41d4-a716-446655440000",
			expected:  "550e8400-e29b-41d4-a716-446655440000",
		},
	}

	assertion := assert.New(t)

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var received string
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				received = r.Header.Get(constants.RequestIDHeader)
				w.WriteHeader(http.StatusOK)
			}))
			defer server.Close()

			ctx := context.Background()
			if tc.contextID != "" {
				ctx = WithRequestID(ctx, tc.contextID)
			}
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL, nil)
			require.NoError(t, err)
			if tc.headerID != "" {
				req.Header.Set(constants.RequestIDHeader, tc.headerID)
			}

			client := &http.Client{Transport: RequestIDTransport(nil)}
			resp, err := client.Do(req)
			require.NoError(t, err)
			resp.Body.Close()

			if tc.expectGenerated {
				// Should be a UUID format (36 characters with dashes)
				assertion.Equal(36, len(received))
				assertion.Contains(received, "-")
				assertion.Empty(req.Header.Get(constants.RequestIDHeader), "caller's request is left untouched")
			} else {
				assertion.Equal(tc.expected, received)
			}
		})
	}
}

func TestEnsureRequestID(t *testing.T) {
	ctx, id := EnsureRequestID(context.Background())
	assert.Len(t, id, 36)

	got, ok := RequestID(ctx)
	assert.True(t, ok)
	assert.Equal(t, id, got)

	same, again := EnsureRequestID(ctx)
	assert.Equal(t, id, again)
	assert.Equal(t, ctx, same)

	_, ok = RequestID(context.Background())
	assert.False(t, ok)
}

func TestRequestIDsAreUnique(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 5; i++ {
		_, id := EnsureRequestID(context.Background())
		assert.False(t, seen[id], "Found duplicate request ID: %s", id)
		seen[id] = true
	}
}

// Benchmark tests
func BenchmarkRequestIDTransport(b *testing.B) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := &http.Client{Transport: RequestIDTransport(nil)}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		resp, err := client.Get(server.URL)
		if err != nil {
			b.Fatal(err)
		}
		resp.Body.Close()
	}
}
