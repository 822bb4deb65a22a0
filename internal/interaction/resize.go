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
	"math"

	"pagecanvas/internal/domain"
)

// Handle names one of the eight resize hit-targets.
type Handle string

const (
	HandleN  Handle = "n"
	HandleS  Handle = "s"
	HandleE  Handle = "e"
	HandleW  Handle = "w"
	HandleNE Handle = "ne"
	HandleNW Handle = "nw"
	HandleSE Handle = "se"
	HandleSW Handle = "sw"
)

// Handles lists all handles in hit-test order: corners before edges.
var Handles = []Handle{HandleNW, HandleNE, HandleSW, HandleSE, HandleN, HandleS, HandleW, HandleE}

// ResizeRule maps a canvas-space delta and the box at gesture start to the new box.
type ResizeRule func(dx, dy float64, start domain.Box) domain.Box

func right(dx float64, b domain.Box) domain.Box {
	b.Width += dx
	return b
}

func left(dx float64, b domain.Box) domain.Box {
	b.Left += dx
	b.Width -= dx
	return b
}

func bottom(dy float64, b domain.Box) domain.Box {
	b.Height += dy
	return b
}

func top(dy float64, b domain.Box) domain.Box {
	b.Top += dy
	b.Height -= dy
	return b
}

// ResizeRules holds the transform of every handle. Corners combine the two
// edge rules of their axes independently.
var ResizeRules = map[Handle]ResizeRule{
	HandleE:  func(dx, _ float64, b domain.Box) domain.Box { return right(dx, b) },
	HandleW:  func(dx, _ float64, b domain.Box) domain.Box { return left(dx, b) },
	HandleS:  func(_, dy float64, b domain.Box) domain.Box { return bottom(dy, b) },
	HandleN:  func(_, dy float64, b domain.Box) domain.Box { return top(dy, b) },
	HandleNE: func(dx, dy float64, b domain.Box) domain.Box { return top(dy, right(dx, b)) },
	HandleNW: func(dx, dy float64, b domain.Box) domain.Box { return top(dy, left(dx, b)) },
	HandleSE: func(dx, dy float64, b domain.Box) domain.Box { return bottom(dy, right(dx, b)) },
	HandleSW: func(dx, dy float64, b domain.Box) domain.Box { return bottom(dy, left(dx, b)) },
}

func (h Handle) movesLeft() bool { return h == HandleW || h == HandleNW || h == HandleSW }
func (h Handle) movesTop() bool  { return h == HandleN || h == HandleNE || h == HandleNW }

// Resize applies the rule of h and clamps width and height to minSize. The
// moving edge is rounded to a whole pixel and the size is derived from the
// opposite edge, which stays fixed, also when the clamp engages.
func Resize(h Handle, dx, dy float64, start domain.Box, minSize float64) (domain.Box, bool) {
	rule, ok := ResizeRules[h]
	if !ok {
		return start, false
	}
	if dx == 0 && dy == 0 {
		return start, true
	}
	b := rule(dx, dy, start)
	if h.movesLeft() {
		l := math.Round(b.Left)
		b.Width = start.Left + start.Width - l
		b.Left = l
	} else {
		b.Width = math.Round(b.Width)
	}
	if h.movesTop() {
		t := math.Round(b.Top)
		b.Height = start.Top + start.Height - t
		b.Top = t
	} else {
		b.Height = math.Round(b.Height)
	}
	if minSize > 0 {
		if b.Width < minSize {
			b.Width = minSize
			if h.movesLeft() {
				b.Left = start.Left + start.Width - minSize
			}
		}
		if b.Height < minSize {
			b.Height = minSize
			if h.movesTop() {
				b.Top = start.Top + start.Height - minSize
			}
		}
	}
	return b, true
}
