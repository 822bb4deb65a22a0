/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package render projects the schema store into a flat, paint-ordered frame
// and writes wireframe exports of it. Material renderers are external; a
// frame only says where each component sits and how it is highlighted.
package render

import (
	"pagecanvas/internal/domain"
	"pagecanvas/internal/schema"
)

// Canvas is the page backdrop a frame is drawn on.
type Canvas struct {
	Width      float64
	Height     float64
	Background string // #rrggbb, empty for white
}

// Item is one component in absolute canvas coordinates.
type Item struct {
	ID       string
	Type     string
	Name     string
	Box      domain.Box
	RotateZ  float64
	Visible  bool
	Locked   bool
	Selected bool
	Current  bool
	Hovered  bool
	// Depth is 0 for top-level components and grows inside groups.
	Depth  int
	Parent string
	// Z is the paint order across the flattened frame.
	Z     int
	Group bool
}

// Frame is a full projection of the store.
type Frame struct {
	Canvas   Canvas
	Items    []Item
	Selected []string
	Current  string
}

// Build flattens the store into paint order. Group members follow their
// group with boxes offset by the group origin; a hidden group hides its members.
func Build(store *schema.Store, canvas Canvas) Frame {
	f := Frame{Canvas: canvas, Selected: store.Selected(), Current: store.Current()}
	selected := make(map[string]bool, len(f.Selected))
	for _, id := range f.Selected {
		selected[id] = true
	}
	hover := store.Hover()
	var walk func(c domain.ComponentSchema, dx, dy float64, depth int, parent string, visible bool)
	walk = func(c domain.ComponentSchema, dx, dy float64, depth int, parent string, visible bool) {
		b := c.Style.Box()
		b.Left += dx
		b.Top += dy
		it := Item{
			ID: c.ID, Type: c.Type, Name: c.Name, Box: b, RotateZ: c.Style.RotateZ,
			Visible: visible && c.Visible, Locked: c.Lock,
			Selected: selected[c.ID], Current: c.ID == f.Current, Hovered: c.ID == hover,
			Depth: depth, Parent: parent, Z: len(f.Items), Group: c.Group,
		}
		f.Items = append(f.Items, it)
		for _, ch := range c.Children {
			walk(ch, b.Left, b.Top, depth+1, c.ID, it.Visible)
		}
	}
	for _, c := range store.Snapshot() {
		walk(c, 0, 0, 0, "", true)
	}
	return f
}

// Projector keeps a frame in sync with a store. It marks itself dirty on
// every store event and rebuilds lazily when Frame is called.
type Projector struct {
	store    *schema.Store
	canvas   Canvas
	frame    Frame
	dirty    bool
	repaints int
	events   int
	off      func()
	onRedraw []func()
}

// NewProjector subscribes to store events until Close.
func NewProjector(store *schema.Store, canvas Canvas) *Projector {
	p := &Projector{store: store, canvas: canvas, dirty: true}
	p.off = store.Subscribe(func(schema.Event) {
		p.events++
		p.dirty = true
		for _, fn := range p.onRedraw {
			fn()
		}
	})
	return p
}

// OnInvalidate registers fn to run after each store event.
func (p *Projector) OnInvalidate(fn func()) { p.onRedraw = append(p.onRedraw, fn) }

// SetCanvas replaces the backdrop and invalidates the frame.
func (p *Projector) SetCanvas(c Canvas) {
	p.canvas = c
	p.dirty = true
}

// Frame returns the current frame, rebuilding it if the store changed.
func (p *Projector) Frame() Frame {
	if p.dirty {
		p.frame = Build(p.store, p.canvas)
		p.dirty = false
		p.repaints++
	}
	return p.frame
}

// Repaints counts frame rebuilds; Events counts store notifications seen.
func (p *Projector) Repaints() int { return p.repaints }
func (p *Projector) Events() int   { return p.events }

// Close stops listening to the store.
func (p *Projector) Close() {
	if p.off != nil {
		p.off()
		p.off = nil
	}
}
