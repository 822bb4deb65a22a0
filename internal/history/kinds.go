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
	"fmt"

	"pagecanvas/internal/domain"
)

// AddRecord captures one component placed on the page.
type AddRecord struct {
	Info Meta   `json:"-"`
	Item Placed `json:"item"`
}

func NewAdd(c domain.ComponentSchema, index int) *AddRecord {
	return &AddRecord{
		Info: stamp(KindAdd, "Add "+label(c)),
		Item: Placed{Index: index, Component: c.Clone()},
	}
}

func (r *AddRecord) Meta() Meta         { return r.Info }
func (r *AddRecord) Undo(t Target) bool { return t.Remove(r.Item.Component.ID) }
func (r *AddRecord) Redo(t Target) bool { return t.Insert(r.Item.Component.Clone(), r.Item.Index) }
func (*AddRecord) sealed()              {}

// AddMultipleRecord captures several components placed at once (paste).
// Items are ordered by ascending index.
type AddMultipleRecord struct {
	Info  Meta     `json:"-"`
	Items []Placed `json:"items"`
}

func NewAddMultiple(items []Placed) *AddMultipleRecord {
	return &AddMultipleRecord{
		Info:  stamp(KindAddMultiple, fmt.Sprintf("Add %d components", len(items))),
		Items: clonePlaced(items),
	}
}

func (r *AddMultipleRecord) Meta() Meta         { return r.Info }
func (r *AddMultipleRecord) Undo(t Target) bool { return removeAll(t, placedIDs(r.Items)) }
func (r *AddMultipleRecord) Redo(t Target) bool { return insertAll(t, r.Items) }
func (*AddMultipleRecord) sealed()              {}

// DeleteRecord captures one removed component with its former z-index.
type DeleteRecord struct {
	Info Meta   `json:"-"`
	Item Placed `json:"item"`
}

func NewDelete(c domain.ComponentSchema, index int) *DeleteRecord {
	return &DeleteRecord{
		Info: stamp(KindDelete, "Delete "+label(c)),
		Item: Placed{Index: index, Component: c.Clone()},
	}
}

func (r *DeleteRecord) Meta() Meta         { return r.Info }
func (r *DeleteRecord) Undo(t Target) bool { return t.Insert(r.Item.Component.Clone(), r.Item.Index) }
func (r *DeleteRecord) Redo(t Target) bool { return t.Remove(r.Item.Component.ID) }
func (*DeleteRecord) sealed()              {}

// DeleteMultipleRecord captures several removed components, ascending by index.
type DeleteMultipleRecord struct {
	Info  Meta     `json:"-"`
	Items []Placed `json:"items"`
}

func NewDeleteMultiple(items []Placed) *DeleteMultipleRecord {
	return &DeleteMultipleRecord{
		Info:  stamp(KindDeleteMultiple, fmt.Sprintf("Delete %d components", len(items))),
		Items: clonePlaced(items),
	}
}

func (r *DeleteMultipleRecord) Meta() Meta         { return r.Info }
func (r *DeleteMultipleRecord) Undo(t Target) bool { return insertAll(t, r.Items) }
func (r *DeleteMultipleRecord) Redo(t Target) bool { return removeAll(t, placedIDs(r.Items)) }
func (*DeleteMultipleRecord) sealed()              {}

// MoveRecord captures a drag or nudge of one component.
type MoveRecord struct {
	Info   Meta           `json:"-"`
	Change PositionChange `json:"change"`
}

func NewMove(id string, from, to domain.Position) *MoveRecord {
	return &MoveRecord{
		Info:   stamp(KindMove, "Move "+id),
		Change: PositionChange{ID: id, From: from, To: to},
	}
}

func (r *MoveRecord) Meta() Meta         { return r.Info }
func (r *MoveRecord) Undo(t Target) bool { return t.SetPosition(r.Change.ID, r.Change.From) }
func (r *MoveRecord) Redo(t Target) bool { return t.SetPosition(r.Change.ID, r.Change.To) }
func (*MoveRecord) sealed()              {}

// MoveMultipleRecord captures a drag or nudge of the whole selection.
type MoveMultipleRecord struct {
	Info    Meta             `json:"-"`
	Changes []PositionChange `json:"changes"`
}

func NewMoveMultiple(changes []PositionChange) *MoveMultipleRecord {
	return &MoveMultipleRecord{
		Info:    stamp(KindMoveMultiple, fmt.Sprintf("Move %d components", len(changes))),
		Changes: append([]PositionChange(nil), changes...),
	}
}

func (r *MoveMultipleRecord) Meta() Meta { return r.Info }

func (r *MoveMultipleRecord) Undo(t Target) bool {
	return eachChange(t, r.Changes, func(c PositionChange) bool { return t.SetPosition(c.ID, c.From) })
}

func (r *MoveMultipleRecord) Redo(t Target) bool {
	return eachChange(t, r.Changes, func(c PositionChange) bool { return t.SetPosition(c.ID, c.To) })
}

func (*MoveMultipleRecord) sealed() {}

// SizeRecord captures a resize. Left and top handles move the origin too,
// so full boxes are kept.
type SizeRecord struct {
	Info Meta       `json:"-"`
	ID   string     `json:"id"`
	From domain.Box `json:"from"`
	To   domain.Box `json:"to"`
}

func NewSize(id string, from, to domain.Box) *SizeRecord {
	return &SizeRecord{Info: stamp(KindSize, "Resize "+id), ID: id, From: from, To: to}
}

func (r *SizeRecord) Meta() Meta         { return r.Info }
func (r *SizeRecord) Undo(t Target) bool { return writeBox(t, r.ID, r.From) }
func (r *SizeRecord) Redo(t Target) bool { return writeBox(t, r.ID, r.To) }
func (*SizeRecord) sealed()              {}

// GroupRecord captures members merged into a synthetic group component.
// Members hold the pre-group absolute snapshots ordered by ascending index;
// Group holds the group component and the index it was inserted at.
type GroupRecord struct {
	Info    Meta     `json:"-"`
	Group   Placed   `json:"group"`
	Members []Placed `json:"members"`
}

func NewGroup(group Placed, members []Placed) *GroupRecord {
	return &GroupRecord{
		Info:    stamp(KindGroup, fmt.Sprintf("Group %d components", len(members))),
		Group:   Placed{Index: group.Index, Component: group.Component.Clone()},
		Members: clonePlaced(members),
	}
}

func (r *GroupRecord) Meta() Meta { return r.Info }

func (r *GroupRecord) Undo(t Target) bool {
	if !t.Has(r.Group.Component.ID) {
		return false
	}
	applied := false
	t.Batch(func() {
		t.Remove(r.Group.Component.ID)
		applied = insertAll(t, r.Members)
	})
	return applied
}

func (r *GroupRecord) Redo(t Target) bool {
	ids := placedIDs(r.Members)
	if !hasAll(t, ids) {
		return false
	}
	return t.Replace(ids, []domain.ComponentSchema{r.Group.Component.Clone()}, r.Group.Index)
}

func (*GroupRecord) sealed() {}

// SplitRecord captures a group dissolved into its members. Children hold the
// promoted absolute snapshots; they occupy consecutive indices from Group.Index.
type SplitRecord struct {
	Info     Meta     `json:"-"`
	Group    Placed   `json:"group"`
	Children []Placed `json:"children"`
}

func NewSplit(group Placed, children []Placed) *SplitRecord {
	return &SplitRecord{
		Info:     stamp(KindSplit, "Split "+label(group.Component)),
		Group:    Placed{Index: group.Index, Component: group.Component.Clone()},
		Children: clonePlaced(children),
	}
}

func (r *SplitRecord) Meta() Meta { return r.Info }

func (r *SplitRecord) Undo(t Target) bool {
	ids := placedIDs(r.Children)
	if !hasAll(t, ids) {
		return false
	}
	return t.Replace(ids, []domain.ComponentSchema{r.Group.Component.Clone()}, r.Group.Index)
}

func (r *SplitRecord) Redo(t Target) bool {
	if !t.Has(r.Group.Component.ID) {
		return false
	}
	with := make([]domain.ComponentSchema, len(r.Children))
	for i, ch := range r.Children {
		with[i] = ch.Component.Clone()
	}
	return t.Replace([]string{r.Group.Component.ID}, with, r.Group.Index)
}

func (*SplitRecord) sealed() {}

// LockRecord captures components that became locked.
type LockRecord struct {
	Info Meta     `json:"-"`
	IDs  []string `json:"ids"`
}

func NewLock(ids []string) *LockRecord {
	return &LockRecord{Info: stamp(KindLock, titleFor("Lock", ids)), IDs: append([]string(nil), ids...)}
}

func (r *LockRecord) Meta() Meta         { return r.Info }
func (r *LockRecord) Undo(t Target) bool { return setLock(t, r.IDs, false) }
func (r *LockRecord) Redo(t Target) bool { return setLock(t, r.IDs, true) }
func (*LockRecord) sealed()              {}

// UnlockRecord captures components that became unlocked.
type UnlockRecord struct {
	Info Meta     `json:"-"`
	IDs  []string `json:"ids"`
}

func NewUnlock(ids []string) *UnlockRecord {
	return &UnlockRecord{Info: stamp(KindUnlock, titleFor("Unlock", ids)), IDs: append([]string(nil), ids...)}
}

func (r *UnlockRecord) Meta() Meta         { return r.Info }
func (r *UnlockRecord) Undo(t Target) bool { return setLock(t, r.IDs, true) }
func (r *UnlockRecord) Redo(t Target) bool { return setLock(t, r.IDs, false) }
func (*UnlockRecord) sealed()              {}

// VisibleRecord captures components that were shown.
type VisibleRecord struct {
	Info Meta     `json:"-"`
	IDs  []string `json:"ids"`
}

func NewVisible(ids []string) *VisibleRecord {
	return &VisibleRecord{Info: stamp(KindVisible, titleFor("Show", ids)), IDs: append([]string(nil), ids...)}
}

func (r *VisibleRecord) Meta() Meta         { return r.Info }
func (r *VisibleRecord) Undo(t Target) bool { return setVisible(t, r.IDs, false) }
func (r *VisibleRecord) Redo(t Target) bool { return setVisible(t, r.IDs, true) }
func (*VisibleRecord) sealed()              {}

// HiddenRecord captures components that were hidden.
type HiddenRecord struct {
	Info Meta     `json:"-"`
	IDs  []string `json:"ids"`
}

func NewHidden(ids []string) *HiddenRecord {
	return &HiddenRecord{Info: stamp(KindHidden, titleFor("Hide", ids)), IDs: append([]string(nil), ids...)}
}

func (r *HiddenRecord) Meta() Meta         { return r.Info }
func (r *HiddenRecord) Undo(t Target) bool { return setVisible(t, r.IDs, true) }
func (r *HiddenRecord) Redo(t Target) bool { return setVisible(t, r.IDs, false) }
func (*HiddenRecord) sealed()              {}

// LayerRecord captures a z-order change of one component.
type LayerRecord struct {
	Info Meta   `json:"-"`
	ID   string `json:"id"`
	From int    `json:"from"`
	To   int    `json:"to"`
}

func NewLayer(id string, from, to int) *LayerRecord {
	return &LayerRecord{Info: stamp(KindLayer, "Reorder "+id), ID: id, From: from, To: to}
}

func (r *LayerRecord) Meta() Meta         { return r.Info }
func (r *LayerRecord) Undo(t Target) bool { return t.Move(r.ID, r.From) }
func (r *LayerRecord) Redo(t Target) bool { return t.Move(r.ID, r.To) }
func (*LayerRecord) sealed()              {}

func label(c domain.ComponentSchema) string {
	if c.Name != "" {
		return c.Name
	}
	return c.Type
}

func titleFor(verb string, ids []string) string {
	if len(ids) == 1 {
		return verb + " " + ids[0]
	}
	return fmt.Sprintf("%s %d components", verb, len(ids))
}

func hasAll(t Target, ids []string) bool {
	for _, id := range ids {
		if !t.Has(id) {
			return false
		}
	}
	return true
}

func insertAll(t Target, items []Placed) bool {
	applied := false
	t.Batch(func() {
		for _, it := range items {
			if t.Insert(it.Component.Clone(), it.Index) {
				applied = true
			}
		}
	})
	return applied
}

func removeAll(t Target, ids []string) bool {
	applied := false
	t.Batch(func() {
		for _, id := range ids {
			if t.Remove(id) {
				applied = true
			}
		}
	})
	return applied
}

func eachChange(t Target, changes []PositionChange, fn func(PositionChange) bool) bool {
	applied := false
	t.Batch(func() {
		for _, c := range changes {
			if fn(c) {
				applied = true
			}
		}
	})
	return applied
}

func writeBox(t Target, id string, b domain.Box) bool {
	applied := false
	t.Batch(func() {
		if t.SetPosition(id, b.Position()) {
			applied = t.SetSize(id, b.Size())
		}
	})
	return applied
}

func setLock(t Target, ids []string, v bool) bool {
	applied := false
	t.Batch(func() {
		for _, id := range ids {
			if t.SetLock(id, v) {
				applied = true
			}
		}
	})
	return applied
}

func setVisible(t Target, ids []string, v bool) bool {
	applied := false
	t.Batch(func() {
		for _, id := range ids {
			if t.SetVisible(id, v) {
				applied = true
			}
		}
	})
	return applied
}
