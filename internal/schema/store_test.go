/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package schema

import (
	"reflect"
	"testing"

	"pagecanvas/internal/domain"
)

func comp(id string, left, top float64) domain.ComponentSchema {
	return domain.ComponentSchema{
		ID: id, Type: "text", Name: id, Visible: true,
		Style: domain.Style{Left: left, Top: top, Width: 100, Height: 40, Scale: 1},
	}
}

func counter(s *Store) map[EventKind]int {
	n := map[EventKind]int{}
	s.Subscribe(func(e Event) { n[e.Kind]++ })
	return n
}

func TestAddRejectsDuplicatesAndAppendsOnTop(t *testing.T) {
	s := New()
	if !s.Add(comp("a", 0, 0)) || !s.Add(comp("b", 0, 0)) {
		t.Fatalf("expected adds to succeed")
	}
	if s.Add(comp("a", 5, 5)) {
		t.Fatalf("duplicate id must be rejected")
	}
	if s.Add(domain.ComponentSchema{}) {
		t.Fatalf("empty id must be rejected")
	}
	if got := s.IDs(); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Fatalf("unexpected order %v", got)
	}
	if s.IndexOf("b") != 1 || s.IndexOf("zz") != -1 {
		t.Fatalf("unexpected index lookup")
	}
}

func TestAddRejectsIDUsedInsideGroup(t *testing.T) {
	s := New()
	g := comp("g", 0, 0)
	g.Type, g.Group = "group", true
	g.Children = []domain.ComponentSchema{comp("child", 0, 0)}
	if !s.Add(g) {
		t.Fatalf("group add failed")
	}
	if s.Add(comp("child", 1, 1)) {
		t.Fatalf("id of a group member must not be reusable")
	}
}

func TestRemovePrunesSelectionCurrentAndHover(t *testing.T) {
	s := New()
	s.Add(comp("a", 0, 0))
	s.Add(comp("b", 0, 0))
	s.SetSelectedRaw([]string{"a"}, "a")
	s.SetHover("a")
	if !s.Remove("a") {
		t.Fatalf("remove failed")
	}
	if len(s.Selected()) != 0 || s.Current() != "" || s.Hover() != "" {
		t.Fatalf("selection not pruned: sel=%v cur=%q hover=%q", s.Selected(), s.Current(), s.Hover())
	}
	if s.Has("a") || s.Len() != 1 || s.IndexOf("b") != 0 {
		t.Fatalf("index not rebuilt")
	}
	if s.Remove("a") {
		t.Fatalf("second remove must be a no-op")
	}
}

func TestRemoveLeavesSoleSurvivorCurrent(t *testing.T) {
	s := New()
	s.Add(comp("a", 0, 0))
	s.Add(comp("b", 0, 0))
	s.SetSelectedRaw([]string{"a", "b"}, "")
	n := counter(s)
	if !s.Remove("b") {
		t.Fatalf("remove failed")
	}
	if got := s.Selected(); !reflect.DeepEqual(got, []string{"a"}) || s.Current() != "a" {
		t.Fatalf("survivor not current: sel=%v cur=%q", got, s.Current())
	}
	if n[EventSelection] != 1 {
		t.Fatalf("want one selection event, got %d", n[EventSelection])
	}
}

func TestUpdateMergesStyleKeyByKey(t *testing.T) {
	s := New()
	c := comp("a", 10, 20)
	c.Style.RotateZ = 15
	s.Add(c)
	s.Update("a", domain.ComponentPatch{Style: &domain.StylePatch{Left: domain.F(99)}})
	got, _ := s.Get("a")
	if got.Style.Left != 99 || got.Style.Top != 20 || got.Style.Width != 100 || got.Style.RotateZ != 15 {
		t.Fatalf("style not merged key by key: %+v", got.Style)
	}
	if s.Update("missing", domain.ComponentPatch{Name: domain.S("x")}) {
		t.Fatalf("update on unknown id must be a no-op")
	}
}

func TestBatchUpdateEmitsOneRedrawAndKeepsOrder(t *testing.T) {
	s := New()
	s.Add(comp("a", 0, 0))
	s.Add(comp("b", 10, 0))
	s.Add(comp("c", 20, 0))
	n := counter(s)

	a, _ := s.Get("a")
	c, _ := s.Get("c")
	a.Style.Left, c.Style.Left = 5, 25
	c.Type = "image"
	ghost := comp("ghost", 0, 0)
	if !s.BatchUpdate([]domain.ComponentSchema{c, ghost, a}) {
		t.Fatalf("batch update reported no change")
	}
	if n[EventRedraw] != 1 {
		t.Fatalf("expected exactly one redraw, got %d", n[EventRedraw])
	}
	if got := s.IDs(); !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Fatalf("order changed: %v", got)
	}
	gc, _ := s.Get("c")
	if gc.Style.Left != 25 || gc.Type != "text" {
		t.Fatalf("unexpected c after batch: %+v", gc)
	}
	if s.Has("ghost") {
		t.Fatalf("batch update must not add unknown ids")
	}
}

func TestMoveClampsAndReindexes(t *testing.T) {
	s := New()
	for _, id := range []string{"a", "b", "c"} {
		s.Add(comp(id, 0, 0))
	}
	if !s.Move("a", 99) {
		t.Fatalf("move to top failed")
	}
	if got := s.IDs(); !reflect.DeepEqual(got, []string{"b", "c", "a"}) {
		t.Fatalf("unexpected order %v", got)
	}
	if s.Move("a", 2) {
		t.Fatalf("move onto same index must report no change")
	}
	s.Move("a", -3)
	if s.IndexOf("a") != 0 {
		t.Fatalf("expected a at bottom, got %d", s.IndexOf("a"))
	}
}

func TestReplaceCoalescesNotifications(t *testing.T) {
	s := New()
	for _, id := range []string{"a", "b", "c"} {
		s.Add(comp(id, 0, 0))
	}
	n := counter(s)
	g := comp("g", 0, 0)
	g.Group = true
	if !s.Replace([]string{"a", "c"}, []domain.ComponentSchema{g}, 0) {
		t.Fatalf("replace reported no change")
	}
	if got := s.IDs(); !reflect.DeepEqual(got, []string{"g", "b"}) {
		t.Fatalf("unexpected order %v", got)
	}
	if n[EventRedraw] != 1 {
		t.Fatalf("expected one redraw for replace, got %d", n[EventRedraw])
	}
}

func TestSnapshotIsIsolated(t *testing.T) {
	s := New()
	c := comp("a", 0, 0)
	c.Props = map[string]any{"text": "hello"}
	s.Add(c)
	c.Props["text"] = "changed by caller"

	snap := s.Snapshot()
	snap[0].Props["text"] = "changed by reader"
	got, _ := s.Get("a")
	if got.Props["text"] != "hello" {
		t.Fatalf("store leaked shared state: %v", got.Props["text"])
	}
}

func TestSetSelectedRawFiltersUnknownAndDuplicates(t *testing.T) {
	s := New()
	s.Add(comp("a", 0, 0))
	s.Add(comp("b", 0, 0))
	s.SetSelectedRaw([]string{"a", "zz", "a", "b"}, "zz")
	if got := s.Selected(); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Fatalf("unexpected selection %v", got)
	}
	if s.Current() != "" {
		t.Fatalf("current must be part of selection, got %q", s.Current())
	}
	if s.SetSelectedRaw([]string{"a", "b"}, "") {
		t.Fatalf("identical selection must report no change")
	}
}

func TestUnsubscribeAndNestedBatch(t *testing.T) {
	s := New()
	calls := 0
	off := s.Subscribe(func(Event) { calls++ })
	s.Batch(func() {
		s.Add(comp("a", 0, 0))
		s.Batch(func() {
			s.Add(comp("b", 0, 0))
			s.SetSelectedRaw([]string{"a"}, "a")
		})
		if calls != 0 {
			t.Fatalf("listeners must not fire inside a batch")
		}
	})
	if calls != 2 {
		t.Fatalf("expected one redraw and one selection event, got %d", calls)
	}
	off()
	s.Add(comp("c", 0, 0))
	if calls != 2 {
		t.Fatalf("listener still called after unsubscribe")
	}
}

func TestResetClearsSelection(t *testing.T) {
	s := New()
	s.Add(comp("a", 0, 0))
	s.SetSelectedRaw([]string{"a"}, "a")
	s.Reset([]domain.ComponentSchema{comp("x", 1, 1)})
	if len(s.Selected()) != 0 || s.Current() != "" {
		t.Fatalf("reset must clear selection")
	}
	if !s.Has("x") || s.Has("a") {
		t.Fatalf("reset did not replace components")
	}
	s.Reset(nil)
	if s.Snapshot() == nil || s.Len() != 0 {
		t.Fatalf("empty reset must yield an empty, non-nil list")
	}
}
