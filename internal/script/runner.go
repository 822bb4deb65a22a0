/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package script

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"pagecanvas/internal/editor"
	"pagecanvas/internal/interaction"
	applog "pagecanvas/internal/log"
	"pagecanvas/internal/material"
)

// Result summarises a replay.
type Result struct {
	Steps    int      // steps executed, notes excluded
	Notes    []string // note text in order
	Created  []string // ids of dropped or pasted components
	Frames   int      // deferred frame callbacks flushed
	Failures []Error  // steps that had no effect or whose expectation failed
}

// OK reports whether every step succeeded.
func (r Result) OK() bool { return len(r.Failures) == 0 }

// Run replays s against ed. Failing steps are recorded in the result and the
// replay continues; the returned error is non-nil only when the editor is closed.
func Run(ed *editor.Editor, s Script) (Result, error) {
	r := &runner{ed: ed, log: applog.WithComponent("script")}
	for _, sec := range s.Sections {
		if sec.Title != "" {
			r.log.Debug("section", slog.String("title", sec.Title))
		}
		for _, st := range sec.Steps {
			if ed.Closed() {
				return r.res, fmt.Errorf("line %d: %w", st.LineNo, editor.ErrClosed)
			}
			if err := r.step(st); err != nil {
				return r.res, err
			}
		}
	}
	r.flush()
	return r.res, nil
}

type runner struct {
	ed     *editor.Editor
	log    *slog.Logger
	res    Result
	last   string
	px, py float64
}

func (r *runner) step(st Step) error {
	if st.Op == OpNote {
		r.res.Notes = append(r.res.Notes, st.Text)
		return nil
	}
	r.res.Steps++
	eng := r.ed.Engine()
	switch st.Op {
	case OpDrop:
		data := material.DropPayload{ID: st.Material, Name: st.Name}.Encode()
		id, ok := eng.Drop(interaction.DropEvent{X: st.X, Y: st.Y, Data: data})
		if !ok {
			r.fail(st, "drop of %q had no effect", st.Material)
			return nil
		}
		r.created(id)
	case OpDown:
		r.px, r.py = st.X, st.Y
		eng.Down(r.pointer(st))
	case OpMove:
		r.px, r.py = st.X, st.Y
		eng.Move(r.pointer(st))
	case OpUp:
		if st.HasPoint {
			r.px, r.py = st.X, st.Y
		}
		eng.Up(interaction.PointerEvent{X: r.px, Y: r.py, Shift: st.Shift, Pan: st.Pan})
	case OpLeave:
		eng.Leave()
	case OpFrame:
		r.flush()
	case OpZoom:
		x, y := st.X, st.Y
		if !st.HasPoint {
			x, y = r.px, r.py
		}
		eng.SetZoom(st.Zoom, x, y)
	case OpSelect:
		ids, ok := r.resolve(st, st.IDs)
		if !ok {
			return nil
		}
		if len(ids) == 0 {
			r.ed.Selection().Clear()
		} else {
			r.ed.Selection().SetSelection(ids)
		}
	case OpKey:
		return r.key(st)
	case OpExpect:
		r.expect(st)
	}
	return nil
}

func (r *runner) key(st Step) error {
	cmd := editor.Command(st.Command)
	before := len(r.ed.Store().IDs())
	changed, err := r.ed.Execute(cmd, st.Args...)
	if errors.Is(err, editor.ErrClosed) {
		return fmt.Errorf("line %d: %w", st.LineNo, err)
	}
	if err != nil {
		r.fail(st, "%s", err)
		return nil
	}
	if !changed {
		r.log.Debug("key had no effect", slog.String("command", st.Command), slog.Int("line", st.LineNo))
	}
	if cmd == editor.CmdPaste && changed {
		// Paste selects what it inserted.
		sel := r.ed.Store().Selected()
		for _, id := range sel {
			r.created(id)
		}
		r.log.Debug("pasted", slog.Int("count", len(r.ed.Store().IDs())-before))
	}
	return nil
}

func (r *runner) expect(st Step) {
	ids, ok := r.resolve(st, st.IDs)
	if !ok {
		return
	}
	c, found := r.ed.Store().Get(ids[0])
	if !found {
		r.fail(st, "expect: no component %q", ids[0])
		return
	}
	const eps = 1e-6
	if math.Abs(c.Style.Left-st.X) > eps || math.Abs(c.Style.Top-st.Y) > eps {
		r.fail(st, "expect %s at (%g,%g), got (%g,%g)", ids[0], st.X, st.Y, c.Style.Left, c.Style.Top)
	}
}

func (r *runner) resolve(st Step, ids []string) ([]string, bool) {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == LastRef {
			if r.last == "" {
				r.fail(st, "%s used before any drop or paste", LastRef)
				return nil, false
			}
			id = r.last
		}
		out = append(out, id)
	}
	return out, true
}

func (r *runner) pointer(st Step) interaction.PointerEvent {
	return interaction.PointerEvent{X: st.X, Y: st.Y, Shift: st.Shift, Pan: st.Pan}
}

func (r *runner) created(id string) {
	r.last = id
	r.res.Created = append(r.res.Created, id)
}

func (r *runner) flush() {
	if mf, ok := r.ed.Frames().(*interaction.ManualFrames); ok {
		r.res.Frames += mf.Flush()
	}
}

func (r *runner) fail(st Step, format string, args ...any) {
	e := Error{Line: st.LineNo, Column: 1, Message: fmt.Sprintf(format, args...)}
	r.log.Debug("step failed", slog.String("op", st.Op.String()), slog.String("err", e.Error()))
	r.res.Failures = append(r.res.Failures, e)
}
