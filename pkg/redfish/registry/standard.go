// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package registry

import (
	"context"
	"embed"
	"encoding/json"
	"log/slog"
	"path"

	"github.com/linuxfoundation/lfx-v2-redfish-client/pkg/redfish/resource"
)

//go:embed standard/*.json
var standardFS embed.FS

// Standard returns the registries bundled with this package, keyed like
// service provided ones. A fresh map is returned on every call.
func Standard(ctx context.Context) map[string]*MessageRegistry {
	out := map[string]*MessageRegistry{}

	entries, err := standardFS.ReadDir("standard")
	if err != nil {
		slog.ErrorContext(ctx, "unable to list bundled registries", "error", err)
		return out
	}

	for _, e := range entries {
		name := path.Join("standard", e.Name())
		data, err := standardFS.ReadFile(name)
		if err != nil {
			slog.ErrorContext(ctx, "unable to read bundled registry", "file", name, "error", err)
			continue
		}
		doc := map[string]any{}
		if err := json.Unmarshal(data, &doc); err != nil {
			slog.ErrorContext(ctx, "invalid bundled registry", "file", name, "error", err)
			continue
		}
		reg, err := NewMessageRegistry(ctx, nil, "embedded:"+e.Name(), "",
			resource.WithReader(&resource.DocumentReader{Doc: doc}))
		if err != nil {
			slog.ErrorContext(ctx, "invalid bundled registry", "file", name, "error", err)
			continue
		}
		out[reg.Key()] = reg
	}
	return out
}
