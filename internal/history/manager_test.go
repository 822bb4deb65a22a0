/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package history

import (
	"reflect"
	"testing"

	"pagecanvas/internal/domain"
	"pagecanvas/internal/schema"
)

func comp(id string, left, top float64) domain.ComponentSchema {
	return domain.ComponentSchema{
		ID: id, Type: "text", Name: id, Visible: true,
		Style: domain.Style{Left: left, Top: top, Width: 100, Height: 40, Scale: 1},
	}
}

func pos(s *schema.Store, id string) domain.Position {
	c, _ := s.Get(id)
	return c.Style.Position()
}

func TestUndoRedoMove(t *testing.T) {
	s := schema.New()
	s.Add(comp("a", 10, 20))
	m := NewManager(0)

	s.SetPosition("a", domain.Position{Left: 40, Top: 25})
	m.Push(NewMove("a", domain.Position{Left: 10, Top: 20}, domain.Position{Left: 40, Top: 25}))

	if !m.Undo(s) {
		t.Fatalf("undo reported empty stack")
	}
	if p := pos(s, "a"); p.Left != 10 || p.Top != 20 {
		t.Fatalf("undo did not restore position: %+v", p)
	}
	if !m.Redo(s) {
		t.Fatalf("redo reported empty stack")
	}
	if p := pos(s, "a"); p.Left != 40 || p.Top != 25 {
		t.Fatalf("redo did not restore position: %+v", p)
	}
}

func TestEmptyStacksAreNoOps(t *testing.T) {
	s := schema.New()
	m := NewManager(0)
	if m.Undo(s) || m.Redo(s) || m.CanUndo() || m.CanRedo() {
		t.Fatalf("empty manager must not report undo/redo")
	}
}

func TestHistoryBoundEvictsOldest(t *testing.T) {
	m := NewManager(50)
	var first, second Record
	for i := 0; i < 60; i++ {
		r := NewLayer("a", i, i+1)
		if i == 10 {
			first = r
		}
		if i == 11 {
			second = r
		}
		m.Push(r)
	}
	st := m.Stats()
	if st.Undo != 50 || st.Evicted != 10 || st.Pushed != 60 {
		t.Fatalf("unexpected stats %+v", st)
	}
	stack := m.UndoStack()
	if stack[len(stack)-1] != first || stack[len(stack)-2] != second {
		t.Fatalf("oldest surviving records are not the expected ones")
	}
	last := stack[0].(*LayerRecord)
	if last.From != 59 {
		t.Fatalf("newest record should be first, got from=%d", last.From)
	}
}

func TestRedoStillWorksAfterEviction(t *testing.T) {
	s := schema.New()
	s.Add(comp("a", 0, 0))
	m := NewManager(3)
	for i := 1; i <= 5; i++ {
		from := domain.Position{Left: float64(i - 1)}
		to := domain.Position{Left: float64(i)}
		s.SetPosition("a", to)
		m.Push(NewMove("a", from, to))
	}
	for m.Undo(s) {
	}
	if p := pos(s, "a"); p.Left != 2 {
		t.Fatalf("expected left=2 after undoing the surviving records, got %v", p.Left)
	}
	for m.Redo(s) {
	}
	if p := pos(s, "a"); p.Left != 5 {
		t.Fatalf("expected left=5 after redoing everything, got %v", p.Left)
	}
}

func TestPushInvalidatesRedo(t *testing.T) {
	s := schema.New()
	s.Add(comp("a", 0, 0))
	m := NewManager(0)
	m.Push(NewMove("a", domain.Position{}, domain.Position{Left: 5}))
	m.Undo(s)
	if !m.CanRedo() {
		t.Fatalf("expected redo to be available after undo")
	}
	m.Push(NewLock([]string{"a"}))
	if m.CanRedo() || len(m.RedoStack()) != 0 {
		t.Fatalf("push must clear the redo stack")
	}
	if m.Redo(s) {
		t.Fatalf("redo after invalidation must be a no-op")
	}
}

func TestAddAndDeleteRoundTrip(t *testing.T) {
	s := schema.New()
	s.Add(comp("a", 0, 0))
	s.Add(comp("b", 0, 0))
	s.Add(comp("c", 0, 0))
	m := NewManager(0)

	b, _ := s.Get("b")
	s.Remove("b")
	m.Push(NewDelete(b, 1))
	m.Undo(s)
	if got := s.IDs(); !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Fatalf("delete undo must restore the original z-index, got %v", got)
	}
	restored, _ := s.Get("b")
	if !reflect.DeepEqual(restored, b) {
		t.Fatalf("restored snapshot differs: %+v vs %+v", restored, b)
	}

	d := comp("d", 1, 1)
	s.Add(d)
	m.Push(NewAdd(d, s.IndexOf("d")))
	m.Undo(s)
	if s.Has("d") {
		t.Fatalf("add undo must remove the component")
	}
	m.Redo(s)
	if s.IndexOf("d") != 3 {
		t.Fatalf("add redo must re-insert at the recorded index")
	}
}

func TestDeleteMultipleRestoresOrder(t *testing.T) {
	s := schema.New()
	for _, id := range []string{"a", "b", "c", "d"} {
		s.Add(comp(id, 0, 0))
	}
	m := NewManager(0)
	var items []Placed
	for _, id := range []string{"a", "c"} {
		c, _ := s.Get(id)
		items = append(items, Placed{Index: s.IndexOf(id), Component: c})
	}
	s.Remove("a")
	s.Remove("c")
	m.Push(NewDeleteMultiple(items))

	events := 0
	off := s.Subscribe(func(e schema.Event) {
		if e.Kind == schema.EventRedraw {
			events++
		}
	})
	defer off()
	m.Undo(s)
	if got := s.IDs(); !reflect.DeepEqual(got, []string{"a", "b", "c", "d"}) {
		t.Fatalf("unexpected order after undo: %v", got)
	}
	if events != 1 {
		t.Fatalf("expected one redraw for a multi record, got %d", events)
	}
}

func TestGroupRecordRoundTrip(t *testing.T) {
	s := schema.New()
	s.Add(comp("a", 10, 10))
	s.Add(comp("x", 500, 500))
	s.Add(comp("b", 50, 30))
	before := s.Snapshot()

	a, _ := s.Get("a")
	b, _ := s.Get("b")
	members := []Placed{{Index: 0, Component: a}, {Index: 2, Component: b}}
	g := domain.ComponentSchema{ID: "g", Type: "group", Group: true, Visible: true,
		Style: domain.Style{Left: 10, Top: 10, Width: 140, Height: 60}}
	ra, rb := a.Clone(), b.Clone()
	ra.Style.Left, ra.Style.Top = 0, 0
	rb.Style.Left, rb.Style.Top = 40, 20
	g.Children = []domain.ComponentSchema{ra, rb}

	rec := NewGroup(Placed{Index: 0, Component: g}, members)
	if !rec.Redo(s) {
		t.Fatalf("group redo failed")
	}
	if got := s.IDs(); !reflect.DeepEqual(got, []string{"g", "x"}) {
		t.Fatalf("unexpected ids after grouping: %v", got)
	}
	if !rec.Undo(s) {
		t.Fatalf("group undo failed")
	}
	if !reflect.DeepEqual(s.Snapshot(), before) {
		t.Fatalf("group undo did not restore the page exactly")
	}
}

func TestMissingTargetIsSkipped(t *testing.T) {
	s := schema.New()
	s.Add(comp("a", 0, 0))
	m := NewManager(0)
	m.Push(NewMove("a", domain.Position{}, domain.Position{Left: 30}))
	m.Push(NewHidden([]string{"a"}))

	// external deletion races with history
	s.Remove("a")

	if !m.Undo(s) || !m.Undo(s) {
		t.Fatalf("undo must still consume records")
	}
	if s.Has("a") {
		t.Fatalf("skipped records must not resurrect components")
	}
	if st := m.Stats(); st.Skipped != 2 || st.Redo != 2 {
		t.Fatalf("expected two skipped records on the redo stack, got %+v", st)
	}
	if !m.Redo(s) || !m.Redo(s) {
		t.Fatalf("redo must still consume records")
	}
	if s.Len() != 0 {
		t.Fatalf("redo must not recreate gone components")
	}
}

func TestLockVisibleLayerRecords(t *testing.T) {
	s := schema.New()
	s.Add(comp("a", 0, 0))
	s.Add(comp("b", 0, 0))

	lock := NewLock([]string{"a", "b"})
	lock.Redo(s)
	ca, _ := s.Get("a")
	if !ca.Lock {
		t.Fatalf("lock redo did not lock")
	}
	lock.Undo(s)
	ca, _ = s.Get("a")
	if ca.Lock {
		t.Fatalf("lock undo did not unlock")
	}

	hide := NewHidden([]string{"b"})
	hide.Redo(s)
	cb, _ := s.Get("b")
	if cb.Visible {
		t.Fatalf("hidden redo did not hide")
	}
	hide.Undo(s)
	cb, _ = s.Get("b")
	if !cb.Visible {
		t.Fatalf("hidden undo did not show")
	}

	layer := NewLayer("a", 0, 1)
	layer.Redo(s)
	if s.IndexOf("a") != 1 {
		t.Fatalf("layer redo did not reorder")
	}
	layer.Undo(s)
	if s.IndexOf("a") != 0 {
		t.Fatalf("layer undo did not reorder back")
	}
}

func TestSizeRecordRestoresOrigin(t *testing.T) {
	s := schema.New()
	s.Add(comp("a", 100, 100))
	from := domain.Box{Left: 100, Top: 100, Width: 100, Height: 40}
	to := domain.Box{Left: 80, Top: 90, Width: 120, Height: 50}
	s.SetBox("a", to)
	r := NewSize("a", from, to)
	r.Undo(s)
	c, _ := s.Get("a")
	if c.Style.Box() != from {
		t.Fatalf("size undo mismatch: %+v", c.Style.Box())
	}
	r.Redo(s)
	c, _ = s.Get("a")
	if c.Style.Box() != to {
		t.Fatalf("size redo mismatch: %+v", c.Style.Box())
	}
}

func TestRestoreAndClear(t *testing.T) {
	m := NewManager(2)
	a, b, c := NewLayer("a", 0, 1), NewLayer("b", 0, 1), NewLayer("c", 0, 1)
	m.Restore([]Record{c, b, a}, []Record{a})
	if u := m.UndoStack(); len(u) != 2 || u[0] != c || u[1] != b {
		t.Fatalf("restore must keep the newest records within the bound")
	}
	if r := m.RedoStack(); len(r) != 1 {
		t.Fatalf("restore lost the redo stack")
	}
	m.Clear()
	if m.CanUndo() || m.CanRedo() {
		t.Fatalf("clear left records behind")
	}
}
