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
	"pagecanvas/internal/vector"
)

// requestGuides replaces any pending guide frame with one computing guides
// for the current positions of s. The callback is a no-op once s has ended.
func (e *Engine) requestGuides(s *Session) {
	if !e.opts.Guides || s.Mode == ModeCanvasPan {
		return
	}
	e.cancelFrame()
	seq := s.seq
	e.guideFrame = e.opts.Frames.Request(func() {
		e.guideFrame = 0
		if e.session == nil || e.session.seq != seq {
			return
		}
		e.publish(e.computeGuides(e.session))
	})
}

func (e *Engine) cancelFrame() {
	if e.guideFrame != 0 {
		e.opts.Frames.Cancel(e.guideFrame)
		e.guideFrame = 0
	}
}

func (e *Engine) computeGuides(s *Session) []vector.GuideLine {
	moving := make([]vector.Rect, 0, len(s.IDs))
	dragged := make(map[string]bool, len(s.IDs))
	for _, id := range s.IDs {
		moving = append(moving, rectOf(s.Last[id]))
		dragged[id] = true
	}
	bb, ok := vector.BoundingBox(moving)
	if !ok {
		return nil
	}
	var anchors []vector.Anchor
	for _, c := range e.store.Snapshot() {
		if dragged[c.ID] || !c.Visible {
			continue
		}
		anchors = append(anchors, vector.Anchor{ID: c.ID, Rect: rectOf(c.Style.Box()), Weight: 1})
	}
	_, guides := vector.ComputeSmartGuides(bb, anchors, vector.SnapOptions{
		Threshold:     e.opts.SnapThreshold,
		SnapToEdges:   true,
		SnapToCenters: true,
	})
	return guides
}

func (e *Engine) publish(g []vector.GuideLine) {
	if len(g) == 0 && len(e.guides) == 0 {
		return
	}
	e.guides = g
	for _, l := range e.listeners {
		l(e.Guides())
	}
}
