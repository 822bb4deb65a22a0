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

import "pagecanvas/internal/vector"

// Viewport maps screen pixels to canvas space.
// OriginX/OriginY is the screen position of the scroll container and
// ScrollX/ScrollY its scroll offset in screen pixels.
type Viewport struct {
	Zoom    float64
	ScrollX float64
	ScrollY float64
	OriginX float64
	OriginY float64
}

func (v Viewport) zoom() float64 {
	if v.Zoom <= 0 {
		return 1
	}
	return v.Zoom
}

// ScreenToCanvas converts a screen point into canvas space.
func (v Viewport) ScreenToCanvas(x, y float64) vector.Pt {
	z := v.zoom()
	return vector.Pt{X: (x - v.OriginX + v.ScrollX) / z, Y: (y - v.OriginY + v.ScrollY) / z}
}

// CanvasToScreen is the inverse of ScreenToCanvas.
func (v Viewport) CanvasToScreen(p vector.Pt) (x, y float64) {
	z := v.zoom()
	return p.X*z + v.OriginX - v.ScrollX, p.Y*z + v.OriginY - v.ScrollY
}

// ZoomLimits bound Viewport.Zoom.
type ZoomLimits struct {
	Min float64
	Max float64
}

func (l ZoomLimits) clamp(z float64) float64 {
	if l.Min > 0 && z < l.Min {
		z = l.Min
	}
	if l.Max > 0 && z > l.Max {
		z = l.Max
	}
	if z <= 0 {
		z = 1
	}
	return z
}

// ZoomAt returns v zoomed to z while keeping the canvas point under the
// screen point (x, y) fixed.
func (v Viewport) ZoomAt(z, x, y float64, limits ZoomLimits) Viewport {
	anchor := v.ScreenToCanvas(x, y)
	v.Zoom = limits.clamp(z)
	v.ScrollX = anchor.X*v.Zoom - x + v.OriginX
	v.ScrollY = anchor.Y*v.Zoom - y + v.OriginY
	return v
}
