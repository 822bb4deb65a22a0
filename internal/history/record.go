/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package history implements the undo/redo log of the canvas editor.
//
// Every history-worthy mutation is captured as a Record carrying full payloads,
// so applying it never consults live state beyond the ids it names. The set
// of record kinds is closed: each kind is a struct in this package that
// implements Record, and the codec switches over all of them.
package history

import (
	"time"

	"github.com/google/uuid"

	"pagecanvas/internal/domain"
)

// Kind tags a record.
type Kind string

const (
	KindAdd            Kind = "add"
	KindAddMultiple    Kind = "addMultiple"
	KindDelete         Kind = "delete"
	KindDeleteMultiple Kind = "deleteMultiple"
	KindMove           Kind = "move"
	KindMoveMultiple   Kind = "moveMultiple"
	KindSize           Kind = "size"
	KindGroup          Kind = "group"
	KindSplit          Kind = "split"
	KindLock           Kind = "lock"
	KindUnlock         Kind = "unlock"
	KindVisible        Kind = "visible"
	KindHidden         Kind = "hidden"
	KindLayer          Kind = "layer"
)

// Meta identifies a record.
type Meta struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Kind      Kind      `json:"type"`
	Title     string    `json:"title"`
}

// Target is the store a record is applied to. Each call reports whether the
// named id existed; records skip ids that are gone.
type Target interface {
	Insert(c domain.ComponentSchema, at int) bool
	Remove(id string) bool
	SetPosition(id string, p domain.Position) bool
	SetSize(id string, s domain.Size) bool
	SetLock(id string, locked bool) bool
	SetVisible(id string, visible bool) bool
	Move(id string, to int) bool
	Replace(remove []string, with []domain.ComponentSchema, at int) bool
	Has(id string) bool
	Batch(fn func())
}

// Record is one reversible mutation. Undo and Redo report whether any part
// of the record could be applied.
type Record interface {
	Meta() Meta
	Undo(t Target) bool
	Redo(t Target) bool
	sealed()
}

// Placed is a component snapshot together with its z-index.
type Placed struct {
	Index     int                    `json:"index"`
	Component domain.ComponentSchema `json:"component"`
}

// PositionChange is one component's move from From to To.
type PositionChange struct {
	ID   string          `json:"id"`
	From domain.Position `json:"from"`
	To   domain.Position `json:"to"`
}

var now = time.Now

func stamp(kind Kind, title string) Meta {
	return Meta{ID: uuid.NewString(), Timestamp: now(), Kind: kind, Title: title}
}

func clonePlaced(in []Placed) []Placed {
	out := make([]Placed, len(in))
	for i, p := range in {
		out[i] = Placed{Index: p.Index, Component: p.Component.Clone()}
	}
	return out
}

func placedIDs(in []Placed) []string {
	ids := make([]string, len(in))
	for i, p := range in {
		ids[i] = p.Component.ID
	}
	return ids
}
