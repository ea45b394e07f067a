// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

const (
	connectorHTTP   = "http"
	connectorMockup = "mockup"
)

// Config is the redfishctl configuration. It is read from a YAML file,
// then overridden by REDFISH_* environment variables, then by flags.
type Config struct {
	Address    string `yaml:"address"`
	Username   string `yaml:"username"`
	Password   string `yaml:"password"`
	AuthMode   string `yaml:"auth_mode"`
	Connector  string `yaml:"connector"`
	MockupDir  string `yaml:"mockup_dir"`
	Timeout    string `yaml:"timeout"`
	MaxRetries int    `yaml:"max_retries"`
	Insecure   bool   `yaml:"insecure"`
	Language   string `yaml:"language"`
}

func defaultConfig() Config {
	return Config{
		Connector:  connectorHTTP,
		AuthMode:   "session",
		Timeout:    "30s",
		MaxRetries: -1,
		Language:   "en",
	}
}

// LoadConfig reads path, when not empty, and applies the environment.
// The result is validated once flags have been applied.
func LoadConfig(path string) (Config, error) {
	cfg := defaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	for env, dst := range map[string]*string{
		"REDFISH_ADDRESS":    &c.Address,
		"REDFISH_USERNAME":   &c.Username,
		"REDFISH_PASSWORD":   &c.Password,
		"REDFISH_AUTH_MODE":  &c.AuthMode,
		"REDFISH_CONNECTOR":  &c.Connector,
		"REDFISH_MOCKUP_DIR": &c.MockupDir,
		"REDFISH_TIMEOUT":    &c.Timeout,
	} {
		if v := os.Getenv(env); v != "" {
			*dst = v
		}
	}

	if v := os.Getenv("REDFISH_INSECURE"); v != "" {
		insecure, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid REDFISH_INSECURE value %q: %w", v, err)
		}
		c.Insecure = insecure
	}
	return nil
}

// Validate checks the connector selection.
func (c Config) Validate() error {
	switch c.Connector {
	case connectorHTTP:
	case connectorMockup:
		if c.MockupDir == "" {
			return fmt.Errorf("mockup directory is required for the %s connector", connectorMockup)
		}
	default:
		return fmt.Errorf("unsupported connector %q: valid values are %s, %s", c.Connector, connectorHTTP, connectorMockup)
	}
	return nil
}
