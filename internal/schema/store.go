/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package schema holds the ordered component list of the page being edited
// together with its id index and the selection and hover fields.
//
// A Store is owned by one editor instance and is not safe for concurrent use;
// all calls happen on the event loop that drives pointer and keyboard input.
// Every mutating call is a no-op for unknown ids and reports whether anything
// changed. Observers receive one notification per logical operation.
package schema

import (
	"log/slog"

	"pagecanvas/internal/domain"
	applog "pagecanvas/internal/log"
)

// Store is the component schema store for one page.
type Store struct {
	components []domain.ComponentSchema
	index      map[string]int

	selected []string
	current  string
	hover    string

	subs    []subscription
	nextSub int

	batchDepth int
	pending    [eventKinds]bool

	log *slog.Logger
}

// New returns an empty store.
func New() *Store {
	return &Store{index: make(map[string]int), log: applog.WithComponent("schema")}
}

// Reset replaces all components and clears selection and hover.
// The store keeps deep copies of the given components.
func (s *Store) Reset(components []domain.ComponentSchema) {
	s.components = domain.CloneComponents(components)
	if s.components == nil {
		s.components = []domain.ComponentSchema{}
	}
	s.reindex()
	s.selected = nil
	s.current = ""
	s.hover = ""
	s.emit(EventRedraw)
	s.emit(EventSelection)
}

// Snapshot returns a deep copy of the ordered component list.
func (s *Store) Snapshot() []domain.ComponentSchema {
	out := domain.CloneComponents(s.components)
	if out == nil {
		out = []domain.ComponentSchema{}
	}
	return out
}

// List is an alias of Snapshot kept for read-side callers.
func (s *Store) List() []domain.ComponentSchema { return s.Snapshot() }

// Len returns the number of top-level components.
func (s *Store) Len() int { return len(s.components) }

// IDs returns top-level ids in z-order (bottom first).
func (s *Store) IDs() []string {
	ids := make([]string, len(s.components))
	for i, c := range s.components {
		ids[i] = c.ID
	}
	return ids
}

// Has reports whether id is a live top-level component.
func (s *Store) Has(id string) bool {
	_, ok := s.index[id]
	return ok
}

// Get returns a deep copy of the top-level component with id.
func (s *Store) Get(id string) (domain.ComponentSchema, bool) {
	i, ok := s.index[id]
	if !ok {
		return domain.ComponentSchema{}, false
	}
	return s.components[i].Clone(), true
}

// IndexOf returns the z-index of id or -1.
func (s *Store) IndexOf(id string) int {
	if i, ok := s.index[id]; ok {
		return i
	}
	return -1
}

// Add appends c at the top of the z-order. Empty or duplicate ids are rejected.
func (s *Store) Add(c domain.ComponentSchema) bool {
	return s.Insert(c, len(s.components))
}

// Insert places c at index at (clamped), shifting later entries up.
func (s *Store) Insert(c domain.ComponentSchema, at int) bool {
	if !s.acceptable(c) {
		s.log.Debug("insert rejected", slog.String("id", c.ID))
		return false
	}
	at = clamp(at, 0, len(s.components))
	s.components = append(s.components, domain.ComponentSchema{})
	copy(s.components[at+1:], s.components[at:])
	s.components[at] = c.Clone()
	s.reindex()
	s.emit(EventRedraw)
	return true
}

// Remove deletes id from the list and index and prunes it from selection and hover.
// Members of a group are removed together with the group entry.
func (s *Store) Remove(id string) bool {
	i, ok := s.index[id]
	if !ok {
		return false
	}
	gone := map[string]bool{}
	s.components[i].Walk(func(c domain.ComponentSchema) { gone[c.ID] = true })
	s.components = append(s.components[:i], s.components[i+1:]...)
	s.reindex()
	s.emit(EventRedraw)
	s.prune(gone)
	return true
}

// Update merges patch into id. Style is merged key by key.
func (s *Store) Update(id string, patch domain.ComponentPatch) bool {
	i, ok := s.index[id]
	if !ok {
		return false
	}
	s.components[i] = patch.Apply(s.components[i])
	s.emit(EventRedraw)
	return true
}

// BatchUpdate replaces matching entries by id in a single pass, preserving
// array order and emitting one redraw. Type is immutable and kept from the
// existing entry. Entries with unknown ids are ignored.
func (s *Store) BatchUpdate(cs []domain.ComponentSchema) bool {
	changed := false
	for _, c := range cs {
		i, ok := s.index[c.ID]
		if !ok {
			continue
		}
		next := c.Clone()
		next.Type = s.components[i].Type
		s.components[i] = next
		changed = true
	}
	if changed {
		s.emit(EventRedraw)
	}
	return changed
}

// SetPosition writes left/top of id.
func (s *Store) SetPosition(id string, p domain.Position) bool {
	return s.Update(id, domain.ComponentPatch{Style: &domain.StylePatch{Left: domain.F(p.Left), Top: domain.F(p.Top)}})
}

// SetSize writes width/height of id.
func (s *Store) SetSize(id string, sz domain.Size) bool {
	return s.Update(id, domain.ComponentPatch{Style: &domain.StylePatch{Width: domain.F(sz.Width), Height: domain.F(sz.Height)}})
}

// SetBox writes the full placement box of id.
func (s *Store) SetBox(id string, b domain.Box) bool {
	return s.Update(id, domain.ComponentPatch{Style: &domain.StylePatch{
		Left: domain.F(b.Left), Top: domain.F(b.Top), Width: domain.F(b.Width), Height: domain.F(b.Height),
	}})
}

// SetLock sets the lock flag of id.
func (s *Store) SetLock(id string, locked bool) bool {
	return s.Update(id, domain.ComponentPatch{Lock: domain.B(locked)})
}

// SetVisible sets the visible flag of id.
func (s *Store) SetVisible(id string, visible bool) bool {
	return s.Update(id, domain.ComponentPatch{Visible: domain.B(visible)})
}

// Move reindexes id to position to (clamped). Returns false if id is unknown
// or already at that position.
func (s *Store) Move(id string, to int) bool {
	from, ok := s.index[id]
	if !ok {
		return false
	}
	to = clamp(to, 0, len(s.components)-1)
	if from == to {
		return false
	}
	c := s.components[from]
	s.components = append(s.components[:from], s.components[from+1:]...)
	s.components = append(s.components, domain.ComponentSchema{})
	copy(s.components[to+1:], s.components[to:])
	s.components[to] = c
	s.reindex()
	s.emit(EventRedraw)
	return true
}

// Replace removes the listed ids and inserts with at index at, counted after
// the removal. Unknown ids are skipped; entries of with whose id is already
// live are skipped too. One redraw is emitted.
func (s *Store) Replace(remove []string, with []domain.ComponentSchema, at int) bool {
	changed := false
	s.Batch(func() {
		for _, id := range remove {
			if s.Remove(id) {
				changed = true
			}
		}
		at = clamp(at, 0, len(s.components))
		for _, c := range with {
			if s.Insert(c, at) {
				at++
				changed = true
			}
		}
	})
	return changed
}

// Selected returns the selected ids in selection order.
func (s *Store) Selected() []string { return append([]string(nil), s.selected...) }

// IsSelected reports whether id is in the selection.
func (s *Store) IsSelected(id string) bool {
	for _, v := range s.selected {
		if v == id {
			return true
		}
	}
	return false
}

// Current returns the primary selection id or "".
func (s *Store) Current() string { return s.current }

// Hover returns the hovered id or "".
func (s *Store) Hover() string { return s.hover }

// SetHover marks id as hovered; unknown ids clear the hover.
func (s *Store) SetHover(id string) {
	if !s.Has(id) {
		id = ""
	}
	if s.hover == id {
		return
	}
	s.hover = id
	s.emit(EventSelection)
}

// SetSelectedRaw writes the selection fields. Unknown and duplicate ids are
// dropped; current is kept only if it is part of the resulting selection.
// Callers own the single-versus-multi rules for current.
func (s *Store) SetSelectedRaw(ids []string, current string) bool {
	seen := make(map[string]bool, len(ids))
	next := make([]string, 0, len(ids))
	for _, id := range ids {
		if seen[id] || !s.Has(id) {
			continue
		}
		seen[id] = true
		next = append(next, id)
	}
	if !seen[current] {
		current = ""
	}
	if equalStrings(next, s.selected) && current == s.current {
		return false
	}
	s.selected = next
	s.current = current
	s.emit(EventSelection)
	return true
}

func (s *Store) acceptable(c domain.ComponentSchema) bool {
	if c.ID == "" {
		return false
	}
	ok := true
	c.Walk(func(n domain.ComponentSchema) {
		if n.ID == "" || s.contains(n.ID) {
			ok = false
		}
	})
	return ok
}

// contains also looks inside groups since ids are unique page-wide.
func (s *Store) contains(id string) bool {
	if s.Has(id) {
		return true
	}
	found := false
	for _, c := range s.components {
		if !c.Group {
			continue
		}
		c.Walk(func(n domain.ComponentSchema) {
			if n.ID == id {
				found = true
			}
		})
		if found {
			return true
		}
	}
	return false
}

func (s *Store) prune(gone map[string]bool) {
	next := s.selected[:0:0]
	for _, id := range s.selected {
		if !gone[id] {
			next = append(next, id)
		}
	}
	changed := len(next) != len(s.selected)
	s.selected = next
	if gone[s.current] {
		s.current = ""
		changed = true
	}
	// a sole survivor becomes current
	if len(s.selected) == 1 && s.current != s.selected[0] {
		s.current = s.selected[0]
		changed = true
	}
	if gone[s.hover] {
		s.hover = ""
		changed = true
	}
	if changed {
		s.emit(EventSelection)
	}
}

func (s *Store) reindex() {
	clear(s.index)
	for i, c := range s.components {
		s.index[c.ID] = i
	}
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
