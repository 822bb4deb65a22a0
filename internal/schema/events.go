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

// EventKind names a store notification.
type EventKind int

const (
	// EventRedraw is emitted after any change of component geometry, flags or order.
	EventRedraw EventKind = iota
	// EventSelection is emitted after selection, current or hover changed.
	EventSelection

	eventKinds
)

func (k EventKind) String() string {
	switch k {
	case EventRedraw:
		return "redraw"
	case EventSelection:
		return "selection"
	default:
		return "unknown"
	}
}

// Event is delivered to listeners. It carries no payload; listeners re-read the store.
type Event struct {
	Kind EventKind
}

// Listener receives store events.
type Listener func(Event)

type subscription struct {
	id int
	fn Listener
}

// Subscribe registers l and returns a function that removes it.
func (s *Store) Subscribe(l Listener) (unsubscribe func()) {
	s.nextSub++
	id := s.nextSub
	s.subs = append(s.subs, subscription{id: id, fn: l})
	return func() {
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

// Batch runs fn and coalesces all notifications it causes into at most one
// event per kind, delivered when the outermost Batch returns.
func (s *Store) Batch(fn func()) {
	s.batchDepth++
	defer func() {
		s.batchDepth--
		if s.batchDepth == 0 {
			s.flush()
		}
	}()
	fn()
}

func (s *Store) emit(k EventKind) {
	if s.batchDepth > 0 {
		s.pending[k] = true
		return
	}
	s.deliver(Event{Kind: k})
}

func (s *Store) flush() {
	for k := EventKind(0); k < eventKinds; k++ {
		if s.pending[k] {
			s.pending[k] = false
			s.deliver(Event{Kind: k})
		}
	}
}

func (s *Store) deliver(e Event) {
	subs := append([]subscription(nil), s.subs...)
	for _, sub := range subs {
		sub.fn(e)
	}
}
