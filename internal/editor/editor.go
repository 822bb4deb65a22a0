/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package editor wires one open page into a store, history, selection manager,
// pointer engine and render projector, and exposes the keyboard command surface.
package editor

import (
	"errors"
	"log/slog"

	"pagecanvas/internal/domain"
	"pagecanvas/internal/history"
	"pagecanvas/internal/interaction"
	applog "pagecanvas/internal/log"
	"pagecanvas/internal/material"
	"pagecanvas/internal/render"
	"pagecanvas/internal/schema"
	"pagecanvas/internal/selection"
)

// ErrClosed is returned by commands after Close.
var ErrClosed = errors.New("editor closed")

// Options configures an Editor. Zero values fall back to DefaultOptions.
type Options struct {
	MaxRecords    int
	NudgeStep     float64
	MinSize       float64
	PasteOffset   float64
	DeleteLocked  bool
	Guides        bool
	SnapThreshold float64
	Zoom          interaction.ZoomLimits
	DefaultZoom   float64
	Frames        interaction.FrameScheduler
	Materials     *material.Registry
	NewID         func(materialType string) string
}

// DefaultOptions mirrors the configuration defaults.
func DefaultOptions() Options {
	return Options{
		MaxRecords:    history.DefaultMaxRecords,
		NudgeStep:     1,
		MinSize:       1,
		PasteOffset:   10,
		DeleteLocked:  true,
		Guides:        true,
		SnapThreshold: 6,
		Zoom:          interaction.ZoomLimits{Min: 0.1, Max: 4},
		DefaultZoom:   1,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.MaxRecords <= 0 {
		o.MaxRecords = d.MaxRecords
	}
	if o.NudgeStep <= 0 {
		o.NudgeStep = d.NudgeStep
	}
	if o.Zoom.Min <= 0 || o.Zoom.Max < o.Zoom.Min {
		o.Zoom = d.Zoom
	}
	if o.DefaultZoom <= 0 {
		o.DefaultZoom = d.DefaultZoom
	}
	if o.Materials == nil {
		o.Materials = material.Builtin()
	}
	if o.NewID == nil {
		o.NewID = material.NewID
	}
	if o.Frames == nil {
		o.Frames = &interaction.ManualFrames{}
	}
	return o
}

// Editor is a single-document editing session. It is not safe for concurrent use.
type Editor struct {
	opts Options

	store   *schema.Store
	history *history.Manager
	sel     *selection.Manager
	engine  *interaction.Engine
	proj    *render.Projector

	// page holds the document fields the store does not own.
	page domain.PageSchema

	clipboard []domain.ComponentSchema
	pastes    int

	dirty  bool
	closed bool
	off    func()

	log *slog.Logger
}

// New builds an editor holding an empty page.
func New(opts Options) *Editor {
	opts = opts.withDefaults()
	e := &Editor{
		opts:    opts,
		store:   schema.New(),
		history: history.NewManager(opts.MaxRecords),
		log:     applog.WithComponent("editor"),
	}
	e.sel = selection.New(e.store, e.history, selection.WithIDFunc(opts.NewID))
	e.engine = interaction.New(e.store, e.history, e.sel, interaction.Options{
		MinSize:       opts.MinSize,
		Guides:        opts.Guides,
		SnapThreshold: opts.SnapThreshold,
		Zoom:          opts.Zoom,
		Frames:        opts.Frames,
		Materials:     opts.Materials,
		NewID:         opts.NewID,
	})
	e.engine.SetViewport(interaction.Viewport{Zoom: opts.DefaultZoom})
	e.proj = render.NewProjector(e.store, render.Canvas{})
	e.off = e.store.Subscribe(func(ev schema.Event) {
		if ev.Kind == schema.EventRedraw {
			e.dirty = true
		}
	})
	return e
}

// Open loads page, replacing the current document and clearing history and clipboard.
func (e *Editor) Open(page domain.PageSchema) {
	e.engine.Cancel()
	e.page = page.Clone()
	e.page.Components = nil
	e.store.Reset(page.Components)
	e.history.Clear()
	e.clipboard = nil
	e.pastes = 0
	e.proj.SetCanvas(canvasOf(e.page))
	e.dirty = false
	e.log = applog.WithPage(applog.WithComponent("editor"), page.ID)
	e.log.Info("page opened", slog.Int("components", e.store.Len()))
}

// Page merges the store back into a page document.
func (e *Editor) Page() domain.PageSchema {
	p := e.page.Clone()
	p.Components = e.store.Snapshot()
	return p
}

// SetState replaces the page's data state.
func (e *Editor) SetState(state map[string]any) {
	p := domain.PageSchema{State: state}.Clone()
	e.page.State = p.State
	e.dirty = true
}

// Close ends any gesture without committing and detaches all listeners.
func (e *Editor) Close() {
	if e.closed {
		return
	}
	e.engine.Cancel()
	e.proj.Close()
	if e.off != nil {
		e.off()
		e.off = nil
	}
	e.closed = true
}

func (e *Editor) Store() *schema.Store          { return e.store }
func (e *Editor) History() *history.Manager     { return e.history }
func (e *Editor) Selection() *selection.Manager { return e.sel }
func (e *Editor) Engine() *interaction.Engine   { return e.engine }
func (e *Editor) Materials() *material.Registry { return e.opts.Materials }
func (e *Editor) Frame() render.Frame           { return e.proj.Frame() }
func (e *Editor) Projector() *render.Projector  { return e.proj }

// Frames returns the scheduler deferred canvas work is queued on.
func (e *Editor) Frames() interaction.FrameScheduler { return e.opts.Frames }

// Clipboard returns copies of the components last copied or cut.
func (e *Editor) Clipboard() []domain.ComponentSchema { return domain.CloneComponents(e.clipboard) }

// OnRedraw runs fn after every store notification.
func (e *Editor) OnRedraw(fn func()) { e.proj.OnInvalidate(fn) }

// Dirty reports whether the document changed since Open or MarkSaved.
func (e *Editor) Dirty() bool { return e.dirty }

// MarkSaved clears the dirty flag.
func (e *Editor) MarkSaved() { e.dirty = false }

// Closed reports whether Close has been called.
func (e *Editor) Closed() bool { return e.closed }

func canvasOf(p domain.PageSchema) render.Canvas {
	bg := ""
	if p.Background.UseType == "color" || p.Background.UseType == "" {
		bg = p.Background.Color
	}
	return render.Canvas{Width: p.Width, Height: p.Height, Background: bg}
}
