// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"log/slog"

	"github.com/linuxfoundation/lfx-v2-redfish-client/internal/infrastructure/mock"
	"github.com/linuxfoundation/lfx-v2-redfish-client/pkg/connector"
	"github.com/linuxfoundation/lfx-v2-redfish-client/pkg/httpclient"
	"github.com/linuxfoundation/lfx-v2-redfish-client/pkg/redfish"
	"github.com/linuxfoundation/lfx-v2-redfish-client/pkg/redfish/resource"
)

// ConnectorImpl injects the connector implementation selected by cfg. The
// returned function releases it.
func ConnectorImpl(ctx context.Context, cfg Config, debug bool) (resource.Connector, func(), error) {
	switch cfg.Connector {
	case connectorMockup:
		slog.InfoContext(ctx, "initializing mockup connector",
			"dir", cfg.MockupDir,
		)
		conn, err := mock.NewMockupConnector(cfg.MockupDir)
		if err != nil {
			return nil, nil, err
		}
		return conn, func() {}, nil

	default:
		connConfig, err := connector.NewConfig(cfg.Address,
			cfg.Username,
			cfg.Password,
			cfg.AuthMode,
			cfg.Timeout,
			cfg.MaxRetries,
			cfg.Insecure,
		)
		if err != nil {
			return nil, nil, err
		}

		slog.InfoContext(ctx, "initializing redfish connector",
			"base_url", connConfig.BaseURL,
			"auth_mode", connConfig.AuthMode,
			"timeout", connConfig.HTTP.Timeout,
			"max_retries", connConfig.HTTP.MaxRetries,
		)

		var opts []connector.Option
		if debug {
			opts = append(opts, connector.WithDebug())
		}
		conn, err := connector.New(ctx, connConfig, opts...)
		if err != nil {
			return nil, nil, err
		}
		return conn, func() {
			if err := conn.Close(context.WithoutCancel(ctx)); err != nil {
				slog.WarnContext(ctx, "failed to close redfish session", "error", err)
			}
		}, nil
	}
}

// ServiceRootImpl connects and reads the service root.
func ServiceRootImpl(ctx context.Context, cfg Config, debug bool) (*redfish.ServiceRoot, func(), error) {
	conn, release, err := ConnectorImpl(ctx, cfg, debug)
	if err != nil {
		return nil, nil, err
	}

	opts := []redfish.Option{redfish.WithLogger(slog.Default())}
	if cfg.Connector == connectorHTTP {
		public := httpclient.DefaultConfig()
		public.InsecureSkipVerify = cfg.Insecure
		opts = append(opts, redfish.WithPublicConnector(connector.NewPublic(public)))
	}

	root, err := redfish.New(ctx, conn, opts...)
	if err != nil {
		release()
		return nil, nil, err
	}
	return root, release, nil
}
