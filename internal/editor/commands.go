/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package editor

import (
	"fmt"
	"log/slog"
	"strconv"

	"pagecanvas/internal/domain"
	"pagecanvas/internal/history"
	"pagecanvas/internal/interaction"
	"pagecanvas/internal/selection"
)

// Command names a keyboard action for Execute.
type Command string

const (
	CmdDelete        Command = "delete"
	CmdCopy          Command = "copy"
	CmdCut           Command = "cut"
	CmdPaste         Command = "paste"
	CmdNudge         Command = "nudge"
	CmdLeft          Command = "left"
	CmdRight         Command = "right"
	CmdUp            Command = "up"
	CmdDown          Command = "down"
	CmdToggleVisible Command = "toggle-visible"
	CmdToggleLock    Command = "toggle-lock"
	CmdGroup         Command = "group"
	CmdSplit         Command = "split"
	CmdUndo          Command = "undo"
	CmdRedo          Command = "redo"
	CmdSelectAll     Command = "select-all"
	CmdEscape        Command = "escape"
	CmdLayerTop      Command = "layer-top"
	CmdLayerBottom   Command = "layer-bottom"
	CmdLayerUp       Command = "layer-up"
	CmdLayerDown     Command = "layer-down"
)

// Commands lists every name Execute accepts.
var Commands = []Command{
	CmdDelete, CmdCopy, CmdCut, CmdPaste, CmdNudge, CmdLeft, CmdRight, CmdUp, CmdDown,
	CmdToggleVisible, CmdToggleLock, CmdGroup, CmdSplit, CmdUndo, CmdRedo,
	CmdSelectAll, CmdEscape, CmdLayerTop, CmdLayerBottom, CmdLayerUp, CmdLayerDown,
}

// UnknownCommandError reports a name Execute does not know.
type UnknownCommandError struct{ Name string }

func (e *UnknownCommandError) Error() string { return fmt.Sprintf("unknown command %q", e.Name) }

// Execute runs a command by name. It reports whether the document or
// selection changed. nudge takes dx and dy in steps.
func (e *Editor) Execute(name Command, args ...string) (bool, error) {
	if e.closed {
		return false, ErrClosed
	}
	switch name {
	case CmdDelete:
		return e.Delete(), nil
	case CmdCopy:
		return e.Copy() > 0, nil
	case CmdCut:
		return e.Cut(), nil
	case CmdPaste:
		return len(e.Paste()) > 0, nil
	case CmdNudge:
		if len(args) != 2 {
			return false, fmt.Errorf("nudge wants dx dy, got %d args", len(args))
		}
		dx, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return false, fmt.Errorf("nudge dx: %w", err)
		}
		dy, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return false, fmt.Errorf("nudge dy: %w", err)
		}
		return e.Nudge(dx, dy), nil
	case CmdLeft:
		return e.Nudge(-1, 0), nil
	case CmdRight:
		return e.Nudge(1, 0), nil
	case CmdUp:
		return e.Nudge(0, -1), nil
	case CmdDown:
		return e.Nudge(0, 1), nil
	case CmdToggleVisible:
		return e.ToggleVisible(), nil
	case CmdToggleLock:
		return e.ToggleLock(), nil
	case CmdGroup:
		_, ok := e.Group()
		return ok, nil
	case CmdSplit:
		return e.Split(), nil
	case CmdUndo:
		return e.Undo(), nil
	case CmdRedo:
		return e.Redo(), nil
	case CmdSelectAll:
		e.sel.SelectAll()
		return len(e.store.Selected()) > 0, nil
	case CmdEscape:
		e.settle()
		had := len(e.store.Selected()) > 0
		e.sel.Clear()
		return had, nil
	case CmdLayerTop:
		return e.Layer(selection.LayerTop), nil
	case CmdLayerBottom:
		return e.Layer(selection.LayerBottom), nil
	case CmdLayerUp:
		return e.Layer(selection.LayerUp), nil
	case CmdLayerDown:
		return e.Layer(selection.LayerDown), nil
	}
	return false, &UnknownCommandError{Name: string(name)}
}

// Delete removes the selection, group members included, as one record.
// Locked components are kept when DeleteLocked is false.
func (e *Editor) Delete() bool {
	e.settle()
	items := e.selectedPlaced(e.deletable)
	if len(items) == 0 {
		return false
	}
	e.store.Batch(func() {
		for i := len(items) - 1; i >= 0; i-- {
			e.store.Remove(items[i].Component.ID)
		}
	})
	if len(items) == 1 {
		e.history.Push(history.NewDelete(items[0].Component, items[0].Index))
	} else {
		e.history.Push(history.NewDeleteMultiple(items))
	}
	e.log.Debug("deleted", slog.Int("count", len(items)))
	return true
}

// Copy fills the clipboard with deep copies of the selection in z-order.
func (e *Editor) Copy() int { return e.copyWhere(nil) }

// Cut copies then deletes the selection. Only what Delete removes is copied,
// and the first paste after a cut lands at the original position.
func (e *Editor) Cut() bool {
	if e.copyWhere(e.deletable) == 0 {
		return false
	}
	if !e.Delete() {
		return false
	}
	e.pastes = -1
	return true
}

func (e *Editor) copyWhere(keep func(domain.ComponentSchema) bool) int {
	items := e.selectedPlaced(keep)
	if len(items) == 0 {
		return 0
	}
	e.clipboard = e.clipboard[:0]
	for _, it := range items {
		e.clipboard = append(e.clipboard, it.Component.Clone())
	}
	e.pastes = 0
	return len(items)
}

func (e *Editor) deletable(c domain.ComponentSchema) bool { return e.opts.DeleteLocked || !c.Lock }

// Paste inserts the clipboard on top with fresh ids, offset by PasteOffset
// per repeated paste, and selects the pasted components.
func (e *Editor) Paste() []string {
	e.settle()
	if len(e.clipboard) == 0 {
		return nil
	}
	e.pastes++
	off := e.opts.PasteOffset * float64(e.pastes)

	var items []history.Placed
	var ids []string
	e.store.Batch(func() {
		for _, c := range e.clipboard {
			n := e.freshen(c.Clone())
			n.Style.Left += off
			n.Style.Top += off
			if !e.store.Add(n) {
				continue
			}
			items = append(items, history.Placed{Index: e.store.IndexOf(n.ID), Component: n})
			ids = append(ids, n.ID)
		}
		if len(ids) > 0 {
			e.sel.SetSelection(ids)
		}
	})
	switch len(items) {
	case 0:
		return nil
	case 1:
		e.history.Push(history.NewAdd(items[0].Component, items[0].Index))
	default:
		e.history.Push(history.NewAddMultiple(items))
	}
	return ids
}

// freshen assigns new ids to c and all of its descendants.
func (e *Editor) freshen(c domain.ComponentSchema) domain.ComponentSchema {
	c.ID = e.opts.NewID(c.Type)
	for i := range c.Children {
		c.Children[i] = e.freshen(c.Children[i])
	}
	return c
}

// Nudge moves the unlocked selection by dx, dy steps.
func (e *Editor) Nudge(dx, dy float64) bool {
	e.settle()
	if dx == 0 && dy == 0 {
		return false
	}
	dx *= e.opts.NudgeStep
	dy *= e.opts.NudgeStep
	items := e.selectedPlaced(func(c domain.ComponentSchema) bool { return !c.Lock })
	var changes []history.PositionChange
	e.store.Batch(func() {
		for _, it := range items {
			from := it.Component.Style.Position()
			to := domain.Position{Left: from.Left + dx, Top: from.Top + dy}
			if e.store.SetPosition(it.Component.ID, to) {
				changes = append(changes, history.PositionChange{ID: it.Component.ID, From: from, To: to})
			}
		}
	})
	switch len(changes) {
	case 0:
		return false
	case 1:
		c := changes[0]
		e.history.Push(history.NewMove(c.ID, c.From, c.To))
	default:
		e.history.Push(history.NewMoveMultiple(changes))
	}
	return true
}

// ToggleVisible hides the selection if any of it is visible, else shows it.
func (e *Editor) ToggleVisible() bool {
	e.settle()
	ids, anyVisible := e.selectedWhere(func(c domain.ComponentSchema) bool { return c.Visible })
	return e.sel.SetVisible(ids, !anyVisible)
}

// ToggleLock locks the selection if any of it is unlocked, else unlocks it.
func (e *Editor) ToggleLock() bool {
	e.settle()
	ids, anyUnlocked := e.selectedWhere(func(c domain.ComponentSchema) bool { return !c.Lock })
	return e.sel.SetLock(ids, anyUnlocked)
}

// Group merges the selection into one group.
func (e *Editor) Group() (string, bool) {
	e.settle()
	return e.sel.Group()
}

// Split dissolves every selected group.
func (e *Editor) Split() bool {
	e.settle()
	var groups []string
	for _, it := range e.selectedPlaced(func(c domain.ComponentSchema) bool { return c.Group }) {
		groups = append(groups, it.Component.ID)
	}
	split := false
	for _, id := range groups {
		if e.sel.Split(id) {
			split = true
		}
	}
	return split
}

// Layer reorders the current component.
func (e *Editor) Layer(op selection.LayerOp) bool {
	cur := e.store.Current()
	if cur == "" {
		return false
	}
	return e.sel.Layer(cur, op)
}

// Undo commits any active gesture and reverts the newest record.
func (e *Editor) Undo() bool {
	e.settle()
	return e.history.Undo(e.store)
}

// Redo commits any active gesture and reapplies the newest undone record.
func (e *Editor) Redo() bool {
	e.settle()
	return e.history.Redo(e.store)
}

// settle ends an in-flight pointer gesture so commands never interleave with it.
func (e *Editor) settle() {
	if e.engine.Mode() != interaction.ModeIdle {
		e.engine.Leave()
	}
}

// selectedPlaced returns the selected components accepted by keep, in z-order.
func (e *Editor) selectedPlaced(keep func(domain.ComponentSchema) bool) []history.Placed {
	if len(e.store.Selected()) == 0 {
		return nil
	}
	var out []history.Placed
	for i, c := range e.store.Snapshot() {
		if !e.store.IsSelected(c.ID) || (keep != nil && !keep(c)) {
			continue
		}
		out = append(out, history.Placed{Index: i, Component: c})
	}
	return out
}

func (e *Editor) selectedWhere(pred func(domain.ComponentSchema) bool) ([]string, bool) {
	var ids []string
	hit := false
	for _, it := range e.selectedPlaced(nil) {
		ids = append(ids, it.Component.ID)
		if pred(it.Component) {
			hit = true
		}
	}
	return ids, hit
}
