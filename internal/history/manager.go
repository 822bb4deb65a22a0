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
	"log/slog"
	"sync"

	applog "pagecanvas/internal/log"
)

// DefaultMaxRecords bounds the undo stack when no limit is configured.
const DefaultMaxRecords = 50

// Manager holds the undo and redo stacks of one open page.
// It is safe for concurrent use; records are applied outside the lock so
// store listeners may query the manager while an undo is in progress.
type Manager struct {
	mu  sync.Mutex
	max int
	// oldest first; the newest record is at the end
	undo []Record
	redo []Record
	// accounting
	pushed  int
	evicted int
	skipped int

	log *slog.Logger
}

// Stats reports stack sizes for diagnostics.
type Stats struct {
	Undo       int
	Redo       int
	MaxRecords int
	Pushed     int
	Evicted    int
	Skipped    int
}

// NewManager returns a manager bounded to maxRecords (DefaultMaxRecords if <= 0).
func NewManager(maxRecords int) *Manager {
	if maxRecords <= 0 {
		maxRecords = DefaultMaxRecords
	}
	return &Manager{max: maxRecords, log: applog.WithComponent("history")}
}

// Push records r as the newest undo entry. The redo branch is discarded and the
// oldest entry is evicted when the bound is exceeded.
func (m *Manager) Push(r Record) {
	if r == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.redo = nil
	m.undo = append(m.undo, r)
	m.pushed++
	if over := len(m.undo) - m.max; over > 0 {
		m.evicted += over
		m.undo = append([]Record(nil), m.undo[over:]...)
	}
	meta := r.Meta()
	m.log.Debug("history push", slog.String("kind", string(meta.Kind)), slog.String("title", meta.Title), slog.Int("depth", len(m.undo)))
}

// Undo reverts the newest record onto t and moves it to the redo stack.
// It returns false when the undo stack is empty.
func (m *Manager) Undo(t Target) bool {
	m.mu.Lock()
	n := len(m.undo)
	if n == 0 {
		m.mu.Unlock()
		return false
	}
	r := m.undo[n-1]
	m.undo = m.undo[:n-1]
	m.mu.Unlock()

	applied := r.Undo(t)

	m.mu.Lock()
	m.redo = append(m.redo, r)
	if !applied {
		m.skipped++
	}
	m.mu.Unlock()
	m.trace("undo", r, applied)
	return true
}

// Redo re-applies the newest redo record onto t and moves it back to the undo stack.
// It returns false when the redo stack is empty.
func (m *Manager) Redo(t Target) bool {
	m.mu.Lock()
	n := len(m.redo)
	if n == 0 {
		m.mu.Unlock()
		return false
	}
	r := m.redo[n-1]
	m.redo = m.redo[:n-1]
	m.mu.Unlock()

	applied := r.Redo(t)

	m.mu.Lock()
	m.undo = append(m.undo, r)
	if !applied {
		m.skipped++
	}
	m.mu.Unlock()
	m.trace("redo", r, applied)
	return true
}

func (m *Manager) trace(op string, r Record, applied bool) {
	meta := r.Meta()
	l := applog.WithOperation(m.log, op).With(slog.String("kind", string(meta.Kind)), slog.String("record", meta.ID))
	if !applied {
		l.Debug("record skipped, target gone")
		return
	}
	l.Debug("record applied")
}

func (m *Manager) CanUndo() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.undo) > 0
}

func (m *Manager) CanRedo() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.redo) > 0
}

// UndoStack returns the undo records, newest first.
func (m *Manager) UndoStack() []Record {
	m.mu.Lock()
	defer m.mu.Unlock()
	return reversed(m.undo)
}

// RedoStack returns the redo records, newest first.
func (m *Manager) RedoStack() []Record {
	m.mu.Lock()
	defer m.mu.Unlock()
	return reversed(m.redo)
}

// Restore replaces both stacks; inputs are newest first as returned by
// UndoStack and RedoStack. The undo side is trimmed to the bound.
func (m *Manager) Restore(undo, redo []Record) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(undo) > m.max {
		undo = undo[:m.max]
	}
	m.undo = reversed(undo)
	m.redo = reversed(redo)
}

// Clear drops both stacks.
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.undo = nil
	m.redo = nil
}

func (m *Manager) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Stats{
		Undo:       len(m.undo),
		Redo:       len(m.redo),
		MaxRecords: m.max,
		Pushed:     m.pushed,
		Evicted:    m.evicted,
		Skipped:    m.skipped,
	}
}

func reversed(in []Record) []Record {
	out := make([]Record, len(in))
	for i, r := range in {
		out[len(in)-1-i] = r
	}
	return out
}
