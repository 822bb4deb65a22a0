/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package interaction

import (
	"pagecanvas/internal/domain"
	"pagecanvas/internal/history"
	"pagecanvas/internal/schema"
)

// Session is the state of one gesture. It is created at pointer-down,
// threaded through every step and discarded at pointer-up or leave.
type Session struct {
	Mode Mode
	// StartX, StartY is the pointer-down screen point.
	StartX, StartY float64
	// Handle is set for ModeResize.
	Handle Handle
	// IDs lists the dragged components in selection order.
	IDs []string
	// Start holds each component's box before any mutation, Last the box
	// most recently written to the store.
	Start map[string]domain.Box
	Last  map[string]domain.Box
	// ScrollX, ScrollY is the viewport scroll at pointer-down for ModeCanvasPan.
	ScrollX, ScrollY float64

	seq int
}

func newSession(mode Mode, ev PointerEvent) *Session {
	return &Session{
		Mode:   mode,
		StartX: ev.X,
		StartY: ev.Y,
		Start:  make(map[string]domain.Box),
		Last:   make(map[string]domain.Box),
	}
}

func (s *Session) track(c domain.ComponentSchema) {
	s.IDs = append(s.IDs, c.ID)
	s.Start[c.ID] = c.Style.Box()
	s.Last[c.ID] = c.Style.Box()
}

func (s *Session) clone() Session {
	out := *s
	out.IDs = append([]string(nil), s.IDs...)
	out.Start = make(map[string]domain.Box, len(s.Start))
	out.Last = make(map[string]domain.Box, len(s.Last))
	for k, v := range s.Start {
		out.Start[k] = v
	}
	for k, v := range s.Last {
		out.Last[k] = v
	}
	return out
}

// commitRecord builds the history record of a finished gesture, or nil when
// nothing moved. Components deleted during the gesture are left out.
func (s *Session) commitRecord(store *schema.Store) history.Record {
	switch s.Mode {
	case ModeSingleDrag:
		id := s.IDs[0]
		from, to := s.Start[id], s.Last[id]
		if from.Position() == to.Position() || !store.Has(id) {
			return nil
		}
		return history.NewMove(id, from.Position(), to.Position())

	case ModeMultiDrag:
		var changes []history.PositionChange
		for _, id := range s.IDs {
			from, to := s.Start[id], s.Last[id]
			if from.Position() == to.Position() || !store.Has(id) {
				continue
			}
			changes = append(changes, history.PositionChange{ID: id, From: from.Position(), To: to.Position()})
		}
		if len(changes) == 0 {
			return nil
		}
		return history.NewMoveMultiple(changes)

	case ModeResize:
		id := s.IDs[0]
		from, to := s.Start[id], s.Last[id]
		if from == to || !store.Has(id) {
			return nil
		}
		if from.Size() == to.Size() {
			return history.NewMove(id, from.Position(), to.Position())
		}
		return history.NewSize(id, from, to)
	}
	return nil
}
