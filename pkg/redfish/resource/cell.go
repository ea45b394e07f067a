// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package resource

import "context"

// Cell memoises one navigation edge: the sub-resource is built on first
// access and returned from cache until its owner is refreshed or
// invalidated, at which point the next access builds a fresh instance.
// Staleness is purely invalidation driven.
type Cell[R Resource] struct {
	value   R
	set     bool
	stale   bool
	tracked bool
}

// Get returns the cached sub-resource or builds it.
func (c *Cell[R]) Get(ctx context.Context, owner *Base, build func(context.Context) (R, error)) (R, error) {
	if !c.tracked {
		owner.track(c)
		c.tracked = true
	}
	if c.set && !c.stale && !c.value.IsStale() {
		return c.value, nil
	}

	v, err := build(ctx)
	if err != nil {
		var zero R
		return zero, err
	}
	c.value, c.set, c.stale = v, true, false
	return v, nil
}

// Cached returns the memoised instance without building it.
func (c *Cell[R]) Cached() (R, bool) {
	return c.value, c.set && !c.stale
}

func (c *Cell[R]) reset(bool) {
	if !c.set {
		return
	}
	c.stale = true
	c.value.base().markStale()
}

// Cells memoises a family of sub-resources keyed by string, such as
// collection members.
type Cells[R Resource] struct {
	cells   map[string]*Cell[R]
	tracked bool
}

// Get returns the cached sub-resource for key or builds it.
func (m *Cells[R]) Get(ctx context.Context, owner *Base, key string, build func(context.Context) (R, error)) (R, error) {
	if !m.tracked {
		owner.track(m)
		m.tracked = true
	}
	if m.cells == nil {
		m.cells = map[string]*Cell[R]{}
	}
	c, ok := m.cells[key]
	if !ok {
		c = &Cell[R]{tracked: true}
		m.cells[key] = c
	}
	return c.Get(ctx, owner, build)
}

func (m *Cells[R]) reset(drop bool) {
	for _, c := range m.cells {
		c.reset(drop)
	}
}

// Memo caches a value derived from the owner's document or from its
// sub-resources, such as an aggregate over collection members.
type Memo[V any] struct {
	value   V
	set     bool
	tracked bool
}

// Get returns the cached value or computes it. Errors are not cached.
func (m *Memo[V]) Get(ctx context.Context, owner *Base, compute func(context.Context) (V, error)) (V, error) {
	if !m.tracked {
		owner.track(m)
		m.tracked = true
	}
	if m.set {
		return m.value, nil
	}
	v, err := compute(ctx)
	if err != nil {
		var zero V
		return zero, err
	}
	m.value, m.set = v, true
	return v, nil
}

func (m *Memo[V]) reset(drop bool) {
	if drop {
		var zero V
		m.value, m.set = zero, false
	}
}

// Memos caches derived values keyed by string.
type Memos[V any] struct {
	values  map[string]V
	tracked bool
}

// Get returns the cached value for key or computes it.
func (m *Memos[V]) Get(ctx context.Context, owner *Base, key string, compute func(context.Context) (V, error)) (V, error) {
	if !m.tracked {
		owner.track(m)
		m.tracked = true
	}
	if v, ok := m.values[key]; ok {
		return v, nil
	}
	v, err := compute(ctx)
	if err != nil {
		var zero V
		return zero, err
	}
	if m.values == nil {
		m.values = map[string]V{}
	}
	m.values[key] = v
	return v, nil
}

func (m *Memos[V]) reset(drop bool) {
	if drop {
		m.values = nil
	}
}
