// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package connector

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/linuxfoundation/lfx-v2-redfish-client/pkg/constants"
	"github.com/linuxfoundation/lfx-v2-redfish-client/pkg/httpclient"
)

// AuthMode selects how requests are authenticated.
type AuthMode string

const (
	// AuthBasic sends HTTP basic credentials with every request
	AuthBasic AuthMode = "basic"
	// AuthSession logs in once and sends the X-Auth-Token of the session
	AuthSession AuthMode = "session"
	// AuthNone sends no credentials
	AuthNone AuthMode = "none"
)

// Config holds the configuration for the Redfish connector
type Config struct {
	// BaseURL is the scheme and host of the BMC, such as https://10.0.0.5
	BaseURL string

	// Username and Password are the BMC credentials
	Username string
	Password string

	// AuthMode selects basic, session or no authentication
	AuthMode AuthMode

	// SessionsPath is where sessions are created (default: /redfish/v1/SessionService/Sessions)
	SessionsPath string

	// HTTP configures the underlying client, including retries
	HTTP httpclient.Config
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() Config {
	return Config{
		AuthMode:     AuthSession,
		SessionsPath: constants.SessionsPath,
		HTTP:         httpclient.DefaultConfig(),
	}
}

// NewConfig creates a new connector configuration with the provided parameters
func NewConfig(baseURL, username, password, authMode, timeout string, maxRetries int, insecure bool) (Config, error) {
	// Validate required parameters
	if baseURL == "" {
		return Config{}, fmt.Errorf("base URL is required for the Redfish connector")
	}
	u, err := url.Parse(baseURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return Config{}, fmt.Errorf("invalid base URL %q: expected http(s)://host[:port]", baseURL)
	}

	cfg := DefaultConfig()
	cfg.BaseURL = strings.TrimRight(baseURL, "/")
	cfg.Username = username
	cfg.Password = password

	switch mode := AuthMode(strings.ToLower(authMode)); mode {
	case "":
	case AuthBasic, AuthSession, AuthNone:
		cfg.AuthMode = mode
	default:
		return Config{}, fmt.Errorf("invalid auth mode %q: valid values are basic, session, none", authMode)
	}
	if cfg.AuthMode != AuthNone && username == "" {
		return Config{}, fmt.Errorf("username is required for %s authentication", cfg.AuthMode)
	}

	if timeout == "" {
		timeout = "30s"
	}
	timeoutDuration, err := time.ParseDuration(timeout)
	if err != nil {
		return Config{}, fmt.Errorf("invalid timeout duration: %w", err)
	}
	cfg.HTTP.Timeout = timeoutDuration

	if maxRetries >= 0 {
		cfg.HTTP.MaxRetries = maxRetries
	}
	cfg.HTTP.InsecureSkipVerify = insecure

	return cfg, nil
}
