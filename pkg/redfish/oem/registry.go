// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package oem

import (
	"context"
	"sort"
	"sync"

	"github.com/linuxfoundation/lfx-v2-redfish-client/pkg/errors"
)

// Factory builds and binds the extension of one vendor for one kind of
// resource.
type Factory func(ctx context.Context, parent Parent) (Extension, error)

var (
	mu        sync.RWMutex
	factories = map[string]map[string]Factory{}
)

// Register makes a vendor extension available for a resource kind such as
// "ComputerSystem". It is meant to be called from init functions; a second
// registration for the same pair replaces the first.
func Register(kind, vendor string, f Factory) {
	mu.Lock()
	defer mu.Unlock()
	if factories[kind] == nil {
		factories[kind] = map[string]Factory{}
	}
	factories[kind][vendor] = f
}

// Vendors lists the vendors registered for kind, sorted.
func Vendors(kind string) []string {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]string, 0, len(factories[kind]))
	for v := range factories[kind] {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// New builds the extension registered for kind and vendor, bound to parent.
func New(ctx context.Context, kind, vendor string, parent Parent) (Extension, error) {
	mu.RLock()
	f, ok := factories[kind][vendor]
	mu.RUnlock()
	if !ok {
		return nil, errors.NewInvalidParameter("vendor", vendor, Vendors(kind))
	}
	return f(ctx, parent)
}

// Cache keeps the bound extensions of one parent, per vendor. A cached
// extension whose parent has moved on is rebound before being returned.
type Cache struct {
	items map[string]Extension
}

// Get returns the extension of vendor for parent.
func (c *Cache) Get(ctx context.Context, kind, vendor string, parent Parent) (Extension, error) {
	if ext, ok := c.items[vendor]; ok {
		if !ext.IsStale() {
			return ext, nil
		}
		if err := ext.Rebind(parent); err != nil {
			delete(c.items, vendor)
			return nil, err
		}
		return ext, nil
	}

	ext, err := New(ctx, kind, vendor, parent)
	if err != nil {
		return nil, err
	}
	if c.items == nil {
		c.items = map[string]Extension{}
	}
	c.items[vendor] = ext
	return ext, nil
}
