// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package httpclient

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	config := Config{
		Timeout:      10 * time.Second,
		MaxRetries:   2,
		RetryDelay:   500 * time.Millisecond,
		RetryBackoff: true,
	}

	client := NewClient(config)

	assert.Equal(t, config.Timeout, client.config.Timeout)
	assert.Equal(t, config.MaxRetries, client.config.MaxRetries)
	assert.Equal(t, config.Timeout, client.httpClient.Timeout)
	assert.NotNil(t, client.httpClient.Transport)
}

func TestClient_Get_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "custom-value", r.Header.Get("Custom-Header"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))

		w.Header().Set("OData-Version", "4.0")
		w.WriteHeader(http.StatusOK)
		_, err := w.Write([]byte(`{"Id": "RootService"}`))
		assert.NoError(t, err)
	}))
	defer server.Close()

	client := NewClient(Config{Timeout: 5 * time.Second, MaxRetries: 1, RetryDelay: 10 * time.Millisecond})

	resp, err := client.Request(context.Background(), http.MethodGet, server.URL, nil, map[string]string{
		"Custom-Header": "custom-value",
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "4.0", resp.Header("odata-version"))

	doc, err := resp.JSON()
	require.NoError(t, err)
	assert.Equal(t, "RootService", doc["Id"])
}

func TestClient_Get_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, err := w.Write([]byte(`{"error": "not found"}`))
		assert.NoError(t, err)
	}))
	defer server.Close()

	client := NewClient(DefaultConfig())

	resp, err := client.Request(context.Background(), http.MethodGet, server.URL, nil, nil)
	require.Error(t, err)

	var retryableErr *RetryableError
	require.True(t, errors.As(err, &retryableErr))
	assert.Equal(t, http.StatusNotFound, retryableErr.StatusCode)
	assert.Equal(t, `{"error": "not found"}`, retryableErr.Message)

	require.NotNil(t, resp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestClient_Retry_ServerError(t *testing.T) {
	callCount := 0

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		callCount++
		if callCount <= 2 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(Config{
		Timeout:    5 * time.Second,
		MaxRetries: 3,
		RetryDelay: 10 * time.Millisecond,
	})

	resp, err := client.Request(context.Background(), http.MethodGet, server.URL, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 3, callCount)
}

func TestClient_Post_NotRetried(t *testing.T) {
	callCount := 0

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		callCount++
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient(Config{
		Timeout:    5 * time.Second,
		MaxRetries: 3,
		RetryDelay: 10 * time.Millisecond,
	})

	_, err := client.Request(context.Background(), http.MethodPost, server.URL, []byte(`{}`), nil)
	require.Error(t, err)
	assert.Equal(t, 1, callCount)
}

func TestClient_Post(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		body, _ := io.ReadAll(r.Body)
		assert.Equal(t, `{"ResetType": "On"}`, string(body))

		w.Header().Set("Location", "/redfish/v1/TaskService/TaskMonitors/1")
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	client := NewClient(DefaultConfig())

	resp, err := client.Request(context.Background(), http.MethodPost, server.URL, []byte(`{"ResetType": "On"}`), nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)
	assert.Equal(t, "/redfish/v1/TaskService/TaskMonitors/1", resp.Header("location"))

	doc, err := resp.JSON()
	require.NoError(t, err)
	assert.Empty(t, doc)
}

func TestResponse_JSON_Invalid(t *testing.T) {
	resp := &Response{StatusCode: http.StatusOK, Body: []byte("<html>")}
	_, err := resp.JSON()
	assert.Error(t, err)
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, 30*time.Second, config.Timeout)
	assert.Equal(t, 2, config.MaxRetries)
	assert.Equal(t, 1*time.Second, config.RetryDelay)
	assert.True(t, config.RetryBackoff)
	assert.False(t, config.InsecureSkipVerify)
}
