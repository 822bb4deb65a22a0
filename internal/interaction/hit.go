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
	"pagecanvas/internal/vector"
)

// HitKind classifies a pointer-down target.
type HitKind int

const (
	HitCanvas HitKind = iota
	HitComponent
	HitHandle
)

// Hit is the resolved target at a canvas point.
type Hit struct {
	Kind   HitKind
	ID     string
	Handle Handle
}

// HitTest resolves p (canvas space) with precedence resize handle, then
// component mask from the top of the z-order down, then empty canvas.
// Handles exist only for the current component. Hidden components are not hit.
func (e *Engine) HitTest(p vector.Pt) Hit {
	if id := e.store.Current(); id != "" {
		if c, ok := e.store.Get(id); ok && c.Visible {
			if h, ok := e.handleAt(c, p); ok {
				return Hit{Kind: HitHandle, ID: id, Handle: h}
			}
		}
	}
	ids := e.store.IDs()
	for i := len(ids) - 1; i >= 0; i-- {
		c, _ := e.store.Get(ids[i])
		if !c.Visible {
			continue
		}
		if vector.HitRotated(rectOf(c.Style.Box()), c.Style.RotateZ, p) {
			return Hit{Kind: HitComponent, ID: c.ID}
		}
	}
	return Hit{Kind: HitCanvas}
}

// HandleRects returns the hit rectangle of every handle of c in its unrotated frame.
func (e *Engine) HandleRects(c domain.ComponentSchema) map[Handle]vector.Rect {
	size := e.opts.HandleSize / e.view.zoom()
	b := c.Style.Box()
	l, cx, r := b.Left, b.Left+b.Width/2, b.Left+b.Width
	t, cy, bt := b.Top, b.Top+b.Height/2, b.Top+b.Height
	at := func(x, y float64) vector.Rect { return vector.R(x-size/2, y-size/2, size, size) }
	return map[Handle]vector.Rect{
		HandleNW: at(l, t),
		HandleNE: at(r, t),
		HandleSW: at(l, bt),
		HandleSE: at(r, bt),
		HandleN:  at(cx, t),
		HandleS:  at(cx, bt),
		HandleW:  at(l, cy),
		HandleE:  at(r, cy),
	}
}

func (e *Engine) handleAt(c domain.ComponentSchema, p vector.Pt) (Handle, bool) {
	local := p
	if c.Style.RotateZ != 0 {
		local = vector.RotatedAbout(rectOf(c.Style.Box()), c.Style.RotateZ).Invert().Apply(p)
	}
	rects := e.HandleRects(c)
	for _, h := range Handles {
		if rects[h].Contains(local) {
			return h, true
		}
	}
	return "", false
}

func rectOf(b domain.Box) vector.Rect { return vector.R(b.Left, b.Top, b.Width, b.Height) }
