/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package selection maintains single versus multi selection, grouping,
// z-order and the lock and visibility flags of the page being edited.
// Every history-worthy change pushes exactly one record.
package selection

import (
	"log/slog"

	"pagecanvas/internal/domain"
	"pagecanvas/internal/history"
	applog "pagecanvas/internal/log"
	"pagecanvas/internal/material"
	"pagecanvas/internal/schema"
	"pagecanvas/internal/vector"
)

// LayerOp is a z-order operation.
type LayerOp string

const (
	LayerTop    LayerOp = "top"
	LayerBottom LayerOp = "bottom"
	LayerUp     LayerOp = "up"
	LayerDown   LayerOp = "down"
)

// Manager operates on one store and history pair.
type Manager struct {
	store   *schema.Store
	history *history.Manager
	newID   func(materialType string) string
	log     *slog.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithIDFunc overrides id generation for synthetic group components.
func WithIDFunc(fn func(materialType string) string) Option {
	return func(m *Manager) { m.newID = fn }
}

func New(store *schema.Store, h *history.Manager, opts ...Option) *Manager {
	m := &Manager{store: store, history: h, newID: material.NewID, log: applog.WithComponent("selection")}
	for _, o := range opts {
		o(m)
	}
	return m
}

// SetSelection replaces the selection. Unknown ids are dropped; current is
// set iff exactly one id remains.
func (m *Manager) SetSelection(ids []string) {
	kept := m.existing(ids)
	m.store.SetSelectedRaw(kept, soleOrEmpty(kept))
}

// AddToSelection appends id. It is a no-op for selected or unknown ids.
func (m *Manager) AddToSelection(id string) bool {
	if !m.store.Has(id) || m.store.IsSelected(id) {
		return false
	}
	next := append(m.store.Selected(), id)
	return m.store.SetSelectedRaw(next, soleOrEmpty(next))
}

// ToggleSelection implements shift-click. Locked components cannot join the
// selection. The first id becomes current; a second id clears current.
func (m *Manager) ToggleSelection(id string) bool {
	c, ok := m.store.Get(id)
	if !ok {
		return false
	}
	if m.store.IsSelected(id) {
		next := make([]string, 0, len(m.store.Selected()))
		for _, s := range m.store.Selected() {
			if s != id {
				next = append(next, s)
			}
		}
		return m.store.SetSelectedRaw(next, soleOrEmpty(next))
	}
	if c.Lock {
		m.log.Debug("shift-select refused, component locked", slog.String("id", id))
		return false
	}
	next := append(m.store.Selected(), id)
	return m.store.SetSelectedRaw(next, soleOrEmpty(next))
}

// Clear empties the selection.
func (m *Manager) Clear() { m.store.SetSelectedRaw(nil, "") }

// SelectAll selects every top-level component.
func (m *Manager) SelectAll() {
	ids := m.store.IDs()
	m.store.SetSelectedRaw(ids, soleOrEmpty(ids))
}

// Group merges the selected top-level components into one group component.
// It needs at least two selected entries and refuses groups as members.
// The new group becomes the sole selection.
func (m *Manager) Group() (string, bool) {
	sel := m.store.Selected()
	if len(sel) < 2 {
		return "", false
	}
	members := m.placed(sel)
	if len(members) < 2 {
		return "", false
	}
	rects := make([]vector.Rect, len(members))
	for i, p := range members {
		if p.Component.Group {
			m.log.Debug("group refused, member is a group", slog.String("id", p.Component.ID))
			return "", false
		}
		b := p.Component.Style.Box()
		rects[i] = vector.R(b.Left, b.Top, b.Width, b.Height)
	}
	bb, _ := vector.BoundingBox(rects)

	g := domain.ComponentSchema{
		ID:      m.newID("group"),
		Type:    "group",
		Name:    "Group",
		Visible: true,
		Group:   true,
		Style:   domain.Style{Left: bb.X, Top: bb.Y, Width: bb.W, Height: bb.H, Scale: 1},
	}
	ids := make([]string, len(members))
	for i, p := range members {
		child := p.Component.Clone()
		child.Style.Left -= bb.X
		child.Style.Top -= bb.Y
		g.Children = append(g.Children, child)
		ids[i] = p.Component.ID
	}
	at := members[0].Index

	var ok bool
	m.store.Batch(func() {
		ok = m.store.Replace(ids, []domain.ComponentSchema{g}, at)
		if ok {
			m.store.SetSelectedRaw([]string{g.ID}, g.ID)
		}
	})
	if !ok {
		return "", false
	}
	m.history.Push(history.NewGroup(history.Placed{Index: at, Component: g}, members))
	m.log.Debug("grouped", slog.String("group", g.ID), slog.Int("members", len(members)))
	return g.ID, true
}

// Split dissolves group id into its members at the group's z-index, with
// styles rewritten to absolute canvas coordinates. The members become selected.
func (m *Manager) Split(id string) bool {
	g, ok := m.store.Get(id)
	if !ok || !g.Group {
		return false
	}
	at := m.store.IndexOf(id)
	children := make([]history.Placed, len(g.Children))
	with := make([]domain.ComponentSchema, len(g.Children))
	ids := make([]string, len(g.Children))
	for i, ch := range g.Children {
		abs := ch.Clone()
		abs.Style.Left += g.Style.Left
		abs.Style.Top += g.Style.Top
		children[i] = history.Placed{Index: at + i, Component: abs}
		with[i] = abs
		ids[i] = abs.ID
	}
	m.store.Batch(func() {
		ok = m.store.Replace([]string{id}, with, at)
		if ok {
			m.store.SetSelectedRaw(ids, soleOrEmpty(ids))
		}
	})
	if !ok {
		return false
	}
	m.history.Push(history.NewSplit(history.Placed{Index: at, Component: g}, children))
	m.log.Debug("split", slog.String("group", id), slog.Int("members", len(ids)))
	return true
}

// Layer reindexes id. It is a no-op at the boundary.
func (m *Manager) Layer(id string, op LayerOp) bool {
	from := m.store.IndexOf(id)
	if from < 0 {
		return false
	}
	last := m.store.Len() - 1
	to := from
	switch op {
	case LayerTop:
		to = last
	case LayerBottom:
		to = 0
	case LayerUp:
		to = min(from+1, last)
	case LayerDown:
		to = max(from-1, 0)
	default:
		return false
	}
	if to == from || !m.store.Move(id, to) {
		return false
	}
	m.history.Push(history.NewLayer(id, from, to))
	return true
}

// SetLock sets the lock flag on ids, recording only those that change.
func (m *Manager) SetLock(ids []string, locked bool) bool {
	changed := m.flip(ids, locked, func(c domain.ComponentSchema) bool { return c.Lock }, m.store.SetLock)
	if len(changed) == 0 {
		return false
	}
	if locked {
		m.history.Push(history.NewLock(changed))
	} else {
		m.history.Push(history.NewUnlock(changed))
	}
	return true
}

// SetVisible sets the visible flag on ids, recording only those that change.
func (m *Manager) SetVisible(ids []string, visible bool) bool {
	changed := m.flip(ids, visible, func(c domain.ComponentSchema) bool { return c.Visible }, m.store.SetVisible)
	if len(changed) == 0 {
		return false
	}
	if visible {
		m.history.Push(history.NewVisible(changed))
	} else {
		m.history.Push(history.NewHidden(changed))
	}
	return true
}

func (m *Manager) flip(ids []string, want bool, get func(domain.ComponentSchema) bool, set func(string, bool) bool) []string {
	var changed []string
	m.store.Batch(func() {
		for _, id := range ids {
			c, ok := m.store.Get(id)
			if !ok || get(c) == want {
				continue
			}
			if set(id, want) {
				changed = append(changed, id)
			}
		}
	})
	return changed
}

// placed returns snapshots of the live ids ordered by ascending z-index.
func (m *Manager) placed(ids []string) []history.Placed {
	var out []history.Placed
	for _, id := range m.store.IDs() {
		for _, want := range ids {
			if id != want {
				continue
			}
			c, _ := m.store.Get(id)
			out = append(out, history.Placed{Index: m.store.IndexOf(id), Component: c})
		}
	}
	return out
}

func (m *Manager) existing(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if m.store.Has(id) {
			out = append(out, id)
		}
	}
	return out
}

func soleOrEmpty(ids []string) string {
	if len(ids) == 1 {
		return ids[0]
	}
	return ""
}
