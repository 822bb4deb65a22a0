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

// FrameHandle identifies a requested frame callback.
type FrameHandle int

// FrameScheduler defers work to the next animation frame.
type FrameScheduler interface {
	Request(fn func()) FrameHandle
	Cancel(h FrameHandle)
}

// ManualFrames queues callbacks until Flush is called. It is used by tests,
// scripted replay and the CLI, where no display drives frames.
type ManualFrames struct {
	next    FrameHandle
	pending []queuedFrame
}

type queuedFrame struct {
	h  FrameHandle
	fn func()
}

func (f *ManualFrames) Request(fn func()) FrameHandle {
	f.next++
	f.pending = append(f.pending, queuedFrame{h: f.next, fn: fn})
	return f.next
}

func (f *ManualFrames) Cancel(h FrameHandle) {
	for i, q := range f.pending {
		if q.h == h {
			f.pending = append(f.pending[:i:i], f.pending[i+1:]...)
			return
		}
	}
}

// Pending returns the number of queued callbacks.
func (f *ManualFrames) Pending() int { return len(f.pending) }

// Flush runs the callbacks queued so far and returns how many ran.
// Callbacks requested while flushing wait for the next Flush.
func (f *ManualFrames) Flush() int {
	batch := f.pending
	f.pending = nil
	for _, q := range batch {
		q.fn()
	}
	return len(batch)
}
