// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package main

import (
	"bytes"
	"context"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/linuxfoundation/lfx-v2-redfish-client/internal/infrastructure/mock"
	"github.com/linuxfoundation/lfx-v2-redfish-client/pkg/httpclient"
	"github.com/linuxfoundation/lfx-v2-redfish-client/pkg/redfish/registry"
	"github.com/linuxfoundation/lfx-v2-redfish-client/pkg/redfish/task"
)

func writeDoc(t *testing.T, dir, path, body string) {
	t.Helper()
	target := filepath.Join(dir, filepath.FromSlash(strings.Trim(path, "/")))
	require.NoError(t, os.MkdirAll(target, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(target, "index.json"), []byte(body), 0o600))
}

func mockupDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeDoc(t, dir, "/redfish/v1", `{
		"Id": "RootService",
		"Name": "Root Service",
		"RedfishVersion": "1.5.0",
		"Product": "Contoso BMC",
		"Systems": {"@odata.id": "/redfish/v1/Systems"},
		"Managers": {"@odata.id": "/redfish/v1/Managers"},
		"UpdateService": {"@odata.id": "/redfish/v1/UpdateService"}
	}`)
	writeDoc(t, dir, "/redfish/v1/Systems", `{"Members": [{"@odata.id": "/redfish/v1/Systems/437XR1138R2"}]}`)
	writeDoc(t, dir, "/redfish/v1/Systems/437XR1138R2", `{
		"Id": "437XR1138R2",
		"Name": "WebFrontEnd483",
		"Manufacturer": "Contoso",
		"PowerState": "On",
		"Status": {"State": "Enabled", "Health": "OK"},
		"MemorySummary": {"TotalSystemMemoryGiB": 96},
		"Processors": {"@odata.id": "/redfish/v1/Systems/437XR1138R2/Processors"},
		"Actions": {"#ComputerSystem.Reset": {"target": "/redfish/v1/Systems/437XR1138R2/Actions/ComputerSystem.Reset"}}
	}`)
	writeDoc(t, dir, "/redfish/v1/Systems/437XR1138R2/Processors", `{"Members": [{"@odata.id": "/redfish/v1/Systems/437XR1138R2/Processors/CPU1"}]}`)
	writeDoc(t, dir, "/redfish/v1/Systems/437XR1138R2/Processors/CPU1", `{"Id": "CPU1", "ProcessorArchitecture": "x86", "TotalCores": 8, "TotalThreads": 16}`)
	writeDoc(t, dir, "/redfish/v1/Managers", `{"Members": [{"@odata.id": "/redfish/v1/Managers/BMC"}]}`)
	writeDoc(t, dir, "/redfish/v1/Managers/BMC", `{"Id": "BMC", "ManagerType": "BMC", "FirmwareVersion": "1.00"}`)
	writeDoc(t, dir, "/redfish/v1/UpdateService", `{
		"Id": "UpdateService",
		"Actions": {"#UpdateService.SimpleUpdate": {"target": "/redfish/v1/UpdateService/Actions/UpdateService.SimpleUpdate"}}
	}`)
	return dir
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCommands(t *testing.T) {
	dir := mockupDir(t)
	base := []string{"--connector", "mockup", "--mockup-dir", dir}

	tests := []struct {
		name string
		args []string
		want []string
	}{
		{
			name: "inventory",
			args: []string{"inventory"},
			want: []string{
				"redfish_version: 1.5.0",
				"product: Contoso BMC",
				"id: 437XR1138R2",
				"health: OK",
				"memory_gib: 96",
				"count: 1",
				"total_cores: 8",
				"firmware_version: \"1.00\"",
			},
		},
		{
			name: "inventory with debug logging",
			args: []string{"--debug", "inventory"},
			want: []string{"id: BMC"},
		},
		{
			name: "reset",
			args: []string{"reset", "437XR1138R2", "--type", "ForceOff"},
			want: []string{"completed with status 204"},
		},
		{
			name: "reset by uri",
			args: []string{"reset", "/redfish/v1/Systems/437XR1138R2", "--wait"},
			want: []string{"completed with status 204"},
		},
		{
			name: "update firmware",
			args: []string{"update-firmware", "https://images.example.com/bmc.bin", "--protocol", "HTTPS", "--wait"},
			want: []string{"completed with status 204"},
		},
		{
			name: "list registries",
			args: []string{"messages"},
			want: []string{"Base.1.0.0\t24 messages"},
		},
		{
			name: "resolve a message",
			args: []string{"messages", "Base.1.0.0.PropertyValueNotInList", "Purple", "IndicatorLED"},
			want: []string{
				"[Warning] The value Purple for the property IndicatorLED is not in the list of acceptable values.",
				"resolution: Choose a value",
			},
		},
		{
			name: "unknown message",
			args: []string{"messages", "Contoso.1.0.0.Overheat"},
			want: []string{"[Warning] unknown"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			out, err := run(t, append(append([]string{}, base...), tc.args...)...)
			require.NoError(t, err)
			for _, w := range tc.want {
				assert.Contains(t, out, w)
			}
		})
	}
}

func TestCommands_Errors(t *testing.T) {
	dir := mockupDir(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "mockup without directory",
			args: []string{"--connector", "mockup", "inventory"},
			want: "mockup directory is required",
		},
		{
			name: "unknown connector",
			args: []string{"--connector", "carrier-pigeon", "inventory"},
			want: "unsupported connector",
		},
		{
			name: "http without address",
			args: []string{"--connector", "http", "inventory"},
			want: "base URL is required",
		},
		{
			name: "unknown system",
			args: []string{"--connector", "mockup", "--mockup-dir", dir, "reset", "nope"},
			want: "not found",
		},
		{
			name: "invalid reset type",
			args: []string{"--connector", "mockup", "--mockup-dir", dir, "reset", "437XR1138R2", "--type", "Explode"},
			want: "invalid value \"Explode\" for parameter ResetType",
		},
		{
			name: "invalid transfer protocol",
			args: []string{"--connector", "mockup", "--mockup-dir", dir, "update-firmware", "x", "--protocol", "Pigeon"},
			want: "parameter TransferProtocol",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := run(t, tc.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "redfishctl.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
address: https://10.0.0.5
username: admin
password: secret
auth_mode: basic
max_retries: 5
insecure: true
`), 0o600))

	t.Run("file", func(t *testing.T) {
		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, "https://10.0.0.5", cfg.Address)
		assert.Equal(t, "admin", cfg.Username)
		assert.Equal(t, "basic", cfg.AuthMode)
		assert.Equal(t, 5, cfg.MaxRetries)
		assert.True(t, cfg.Insecure)
		assert.Equal(t, connectorHTTP, cfg.Connector)
		assert.Equal(t, "en", cfg.Language)
		assert.NoError(t, cfg.Validate())
	})

	t.Run("environment wins over file", func(t *testing.T) {
		t.Setenv("REDFISH_ADDRESS", "https://10.0.0.6")
		t.Setenv("REDFISH_PASSWORD", "other")
		t.Setenv("REDFISH_CONNECTOR", connectorMockup)
		t.Setenv("REDFISH_MOCKUP_DIR", "/srv/mockups/public-rackmount1")
		t.Setenv("REDFISH_INSECURE", "false")

		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, "https://10.0.0.6", cfg.Address)
		assert.Equal(t, "other", cfg.Password)
		assert.Equal(t, "admin", cfg.Username)
		assert.Equal(t, connectorMockup, cfg.Connector)
		assert.False(t, cfg.Insecure)
		assert.NoError(t, cfg.Validate())
	})

	t.Run("defaults without file", func(t *testing.T) {
		cfg, err := LoadConfig("")
		require.NoError(t, err)
		assert.Equal(t, defaultConfig(), cfg)
	})

	t.Run("bad insecure value", func(t *testing.T) {
		t.Setenv("REDFISH_INSECURE", "maybe")
		_, err := LoadConfig(path)
		assert.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
		assert.Error(t, err)
	})

	t.Run("malformed file", func(t *testing.T) {
		bad := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(bad, []byte("address: [unterminated"), 0o600))
		_, err := LoadConfig(bad)
		assert.Error(t, err)
	})
}

func TestWaitForTask(t *testing.T) {
	const monitorPath = "/redfish/v1/TaskService/Tasks/1/Monitor"

	t.Run("polls until completion", func(t *testing.T) {
		conn := mock.NewMockConnector().On(http.MethodGet, monitorPath,
			mock.Reply{Status: http.StatusAccepted, Headers: map[string]string{"Retry-After": "0"}},
			mock.Reply{Status: http.StatusAccepted, Headers: map[string]string{"Retry-After": "0"}},
			mock.Reply{Status: http.StatusOK, Body: `{"Id": "1", "TaskState": "Completed"}`},
		)
		monitor := task.NewMonitor(conn, monitorPath)

		require.NoError(t, waitForTask(context.Background(), monitor, rate.NewLimiter(rate.Inf, 1)))
		assert.Equal(t, task.Completed, monitor.State())
		assert.Equal(t, 3, conn.Calls(http.MethodGet, monitorPath))
	})

	t.Run("stops on cancellation", func(t *testing.T) {
		conn := mock.NewMockConnector().On(http.MethodGet, monitorPath,
			mock.Reply{Status: http.StatusAccepted, Headers: map[string]string{"Retry-After": "60"}},
		)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := waitForTask(ctx, task.NewMonitor(conn, monitorPath), newPollLimiter(0))
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("poll failure", func(t *testing.T) {
		conn := mock.NewMockConnector()
		err := waitForTask(context.Background(), task.NewMonitor(conn, monitorPath), newPollLimiter(0))
		require.Error(t, err)
		assert.Contains(t, err.Error(), monitorPath)
	})
}

func TestReportTask(t *testing.T) {
	resp := &httpclient.Response{
		StatusCode: http.StatusOK,
		Headers:    http.Header{},
		Body: []byte(`{
			"@odata.type": "#Task.v1_4_3.Task",
			"@odata.id": "/redfish/v1/TaskService/Tasks/9",
			"Id": "9",
			"TaskState": "Completed",
			"TaskStatus": "OK",
			"Messages": [{"MessageId": "Base.1.0.0.Success"}]
		}`),
	}
	monitor := task.FromResponse(mock.NewMockConnector(), resp)

	var out bytes.Buffer
	require.NoError(t, reportTask(context.Background(), &out, monitor, registry.Standard(context.Background())))
	assert.Contains(t, out.String(), "task 9: Completed (OK)")
	assert.Contains(t, out.String(), "[OK] Base.1.0.0.Success: Successfully Completed Request")
}
