/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package interaction turns raw pointer and drop events into schema
// mutations and history records.
//
// A gesture runs from Down to Up or Leave. Down resolves the hit target and
// opens a Session holding every starting box; Move steps the session; Up
// and Leave commit it exactly once and discard it. Alignment guides are
// computed in a deferred frame callback that is cancelled whenever a session
// starts or ends.
package interaction

import (
	"log/slog"
	"math"

	"pagecanvas/internal/domain"
	"pagecanvas/internal/history"
	applog "pagecanvas/internal/log"
	"pagecanvas/internal/material"
	"pagecanvas/internal/schema"
	"pagecanvas/internal/selection"
	"pagecanvas/internal/vector"
)

// Mode is the active interaction mode.
type Mode int

const (
	ModeIdle Mode = iota
	ModeCanvasPan
	ModeSingleDrag
	ModeMultiDrag
	ModeResize
)

func (m Mode) String() string {
	switch m {
	case ModeIdle:
		return "idle"
	case ModeCanvasPan:
		return "pan"
	case ModeSingleDrag:
		return "single-drag"
	case ModeMultiDrag:
		return "multi-drag"
	case ModeResize:
		return "resize"
	default:
		return "unknown"
	}
}

// PointerEvent is a pointer sample in screen pixels. Shift toggles selection
// membership; Pan is the held pan modifier (space).
type PointerEvent struct {
	X, Y  float64
	Shift bool
	Pan   bool
}

// DropEvent is a palette drop at a screen point carrying the raw drag data.
type DropEvent struct {
	X, Y float64
	Data []byte
}

// GuideListener receives the alignment guides to draw; nil clears the overlay.
type GuideListener func([]vector.GuideLine)

// Options configures an Engine.
type Options struct {
	// MinSize is the resize floor in canvas pixels; values <= 0 disable the clamp.
	MinSize float64
	// HandleSize is the screen-pixel edge length of a resize handle (default 8).
	HandleSize float64
	// Guides enables alignment guides; SnapThreshold is their distance in canvas pixels.
	Guides        bool
	SnapThreshold float64
	Zoom          ZoomLimits
	Frames        FrameScheduler
	Materials     *material.Registry
	NewID         func(materialType string) string
}

// Engine is the pointer state machine of one editor.
type Engine struct {
	store   *schema.Store
	history *history.Manager
	sel     *selection.Manager
	opts    Options

	view    Viewport
	session *Session
	seq     int

	guideFrame FrameHandle
	guides     []vector.GuideLine
	listeners  []GuideListener

	log *slog.Logger
}

func New(store *schema.Store, h *history.Manager, sel *selection.Manager, opts Options) *Engine {
	if opts.HandleSize <= 0 {
		opts.HandleSize = 8
	}
	if opts.Frames == nil {
		opts.Frames = &ManualFrames{}
	}
	if opts.Materials == nil {
		opts.Materials = material.Builtin()
	}
	if opts.NewID == nil {
		opts.NewID = material.NewID
	}
	return &Engine{
		store:   store,
		history: h,
		sel:     sel,
		opts:    opts,
		view:    Viewport{Zoom: 1},
		log:     applog.WithComponent("interaction"),
	}
}

// Mode returns the current mode.
func (e *Engine) Mode() Mode {
	if e.session == nil {
		return ModeIdle
	}
	return e.session.Mode
}

// Session returns a copy of the active session, if any.
func (e *Engine) Session() (Session, bool) {
	if e.session == nil {
		return Session{}, false
	}
	return e.session.clone(), true
}

func (e *Engine) Viewport() Viewport     { return e.view }
func (e *Engine) SetViewport(v Viewport) { v.Zoom = e.opts.Zoom.clamp(v.zoom()); e.view = v }

// SetZoom changes the zoom keeping the canvas point under (x, y) fixed.
func (e *Engine) SetZoom(z, x, y float64) { e.view = e.view.ZoomAt(z, x, y, e.opts.Zoom) }

// Guides returns the currently published alignment guides.
func (e *Engine) Guides() []vector.GuideLine { return append([]vector.GuideLine(nil), e.guides...) }

// OnGuides registers a listener for guide updates.
func (e *Engine) OnGuides(l GuideListener) { e.listeners = append(e.listeners, l) }

// Down starts a gesture.
func (e *Engine) Down(ev PointerEvent) {
	if e.session != nil {
		// a lost Up; close the dangling gesture first
		e.end("superseded")
	}
	e.cancelFrame()
	p := e.view.ScreenToCanvas(ev.X, ev.Y)

	if ev.Pan {
		e.begin(&Session{Mode: ModeCanvasPan, StartX: ev.X, StartY: ev.Y, ScrollX: e.view.ScrollX, ScrollY: e.view.ScrollY})
		return
	}

	hit := e.HitTest(p)
	switch hit.Kind {
	case HitHandle:
		c, ok := e.store.Get(hit.ID)
		if !ok || c.Lock {
			e.log.Debug("resize refused", slog.String("id", hit.ID), slog.Bool("locked", ok && c.Lock))
			return
		}
		s := newSession(ModeResize, ev)
		s.Handle = hit.Handle
		s.track(c)
		e.begin(s)

	case HitComponent:
		if ev.Shift {
			e.sel.ToggleSelection(hit.ID)
			return
		}
		sel := e.store.Selected()
		if len(sel) > 1 && e.store.IsSelected(hit.ID) {
			s := newSession(ModeMultiDrag, ev)
			for _, id := range sel {
				if c, ok := e.store.Get(id); ok && !c.Lock {
					s.track(c)
				}
			}
			if len(s.IDs) == 0 {
				e.log.Debug("multi drag refused, all members locked")
				return
			}
			e.begin(s)
			return
		}
		e.sel.SetSelection([]string{hit.ID})
		c, _ := e.store.Get(hit.ID)
		if c.Lock {
			e.log.Debug("drag refused, component locked", slog.String("id", hit.ID))
			return
		}
		s := newSession(ModeSingleDrag, ev)
		s.track(c)
		e.begin(s)

	default:
		e.sel.Clear()
	}
}

// Move steps the active gesture, or updates hover when idle.
func (e *Engine) Move(ev PointerEvent) {
	s := e.session
	if s == nil {
		hit := e.HitTest(e.view.ScreenToCanvas(ev.X, ev.Y))
		if hit.Kind == HitComponent {
			e.store.SetHover(hit.ID)
		} else {
			e.store.SetHover("")
		}
		return
	}
	if s.Mode == ModeCanvasPan {
		e.view = stepPan(s, e.view, ev)
		return
	}
	z := e.view.zoom()
	dx := (ev.X - s.StartX) / z
	dy := (ev.Y - s.StartY) / z
	switch s.Mode {
	case ModeSingleDrag:
		e.stepSingle(s, dx, dy)
	case ModeMultiDrag:
		e.stepMulti(s, dx, dy)
	case ModeResize:
		e.stepResize(s, dx, dy)
	}
	e.requestGuides(s)
}

// Up ends the gesture at the pointer position and commits it.
func (e *Engine) Up(ev PointerEvent) {
	if e.session == nil {
		return
	}
	e.Move(ev)
	e.end("up")
}

// Leave ends the gesture at its last known position, like Up.
func (e *Engine) Leave() {
	if e.session == nil {
		return
	}
	e.end("leave")
}

// Cancel ends the active gesture without committing it and without
// rolling back the store. It is used when the document closes.
func (e *Engine) Cancel() {
	e.cancelFrame()
	e.session = nil
	e.publish(nil)
}

// Drop places a new component centered on the drop point. Malformed payloads
// and unknown materials are ignored.
func (e *Engine) Drop(ev DropEvent) (string, bool) {
	l := applog.WithOperation(e.log, "drop")
	p, err := material.ParseDropPayload(ev.Data)
	if err != nil {
		l.Debug("drop ignored", slog.Any("err", err))
		return "", false
	}
	c, err := e.opts.Materials.Instantiate(p, e.opts.NewID(p.ID))
	if err != nil {
		l.Debug("drop ignored", slog.Any("err", err))
		return "", false
	}
	at := e.view.ScreenToCanvas(ev.X, ev.Y)
	c.Style.Left = math.Round(at.X - c.Style.Width/2)
	c.Style.Top = math.Round(at.Y - c.Style.Height/2)

	var added bool
	e.store.Batch(func() {
		if added = e.store.Add(c); added {
			e.sel.SetSelection([]string{c.ID})
		}
	})
	if !added {
		return "", false
	}
	e.history.Push(history.NewAdd(c, e.store.IndexOf(c.ID)))
	l.Debug("component dropped", slog.String("id", c.ID), slog.String("type", c.Type),
		slog.Float64("left", c.Style.Left), slog.Float64("top", c.Style.Top))
	return c.ID, true
}

func (e *Engine) begin(s *Session) {
	e.seq++
	s.seq = e.seq
	e.session = s
	e.log.Debug("gesture begin", slog.String("mode", s.Mode.String()), slog.Int("targets", len(s.IDs)))
}

// end commits the session once and discards it.
func (e *Engine) end(reason string) {
	s := e.session
	e.session = nil
	e.cancelFrame()
	e.publish(nil)
	if s == nil {
		return
	}
	r := s.commitRecord(e.store)
	if r != nil {
		e.history.Push(r)
	}
	e.log.Debug("gesture end", slog.String("mode", s.Mode.String()), slog.String("reason", reason), slog.Bool("recorded", r != nil))
}

func (e *Engine) stepSingle(s *Session, dx, dy float64) {
	id := s.IDs[0]
	next := translate(s.Start[id], dx, dy)
	if next == s.Last[id] {
		return
	}
	if e.store.SetPosition(id, next.Position()) {
		s.Last[id] = next
	}
}

func (e *Engine) stepMulti(s *Session, dx, dy float64) {
	batch := make([]domain.ComponentSchema, 0, len(s.IDs))
	for _, id := range s.IDs {
		c, ok := e.store.Get(id)
		if !ok {
			continue
		}
		next := translate(s.Start[id], dx, dy)
		c.Style.Left, c.Style.Top = next.Left, next.Top
		batch = append(batch, c)
	}
	if len(batch) == 0 {
		return
	}
	moved := false
	for _, c := range batch {
		if c.Style.Box() != s.Last[c.ID] {
			moved = true
			break
		}
	}
	if !moved {
		return
	}
	if e.store.BatchUpdate(batch) {
		for _, c := range batch {
			s.Last[c.ID] = c.Style.Box()
		}
	}
}

func (e *Engine) stepResize(s *Session, dx, dy float64) {
	id := s.IDs[0]
	next, ok := Resize(s.Handle, dx, dy, s.Start[id], e.opts.MinSize)
	if !ok || next == s.Last[id] {
		return
	}
	if e.store.SetBox(id, next) {
		s.Last[id] = next
	}
}

func stepPan(s *Session, v Viewport, ev PointerEvent) Viewport {
	v.ScrollX = s.ScrollX - (ev.X - s.StartX)
	v.ScrollY = s.ScrollY - (ev.Y - s.StartY)
	return v
}

func translate(b domain.Box, dx, dy float64) domain.Box {
	if dx == 0 && dy == 0 {
		return b
	}
	b.Left = math.Round(b.Left + dx)
	b.Top = math.Round(b.Top + dy)
	return b
}
