/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package vector

// Alignment guides shown while a component is dragged across the canvas.
// Deterministic and UI-agnostic so the interaction engine can compute them
// in a deferred frame callback and overlays can test against plain values.

import "math"

// Orientation of a guide line.
type Orientation string

const (
	Vertical   Orientation = "vertical"
	Horizontal Orientation = "horizontal"
)

// GuideKind tells which features aligned.
type GuideKind string

const (
	GuideEdge   GuideKind = "edge"
	GuideCenter GuideKind = "center"
)

// SnapOptions controls which guide candidates are considered and the threshold.
type SnapOptions struct {
	// Threshold is the maximum canvas-space distance at which a guide appears.
	Threshold     float64
	SnapToEdges   bool
	SnapToCenters bool
}

// Anchor is a static reference rect, usually another component on the page.
// Weight biases selection when distances tie (higher = preferred).
type Anchor struct {
	ID     string
	Rect   Rect
	Weight float64
}

// GuideLine describes one alignment line to render.
// Position is the x (vertical) or y (horizontal) coordinate; From/To are its extents.
type GuideLine struct {
	Orientation Orientation
	Kind        GuideKind
	Position    float64
	From        Pt
	To          Pt
	AnchorID    string
}

// ComputeSmartGuides compares a moving rectangle against anchors and returns
// the rectangle snapped onto the best candidate per axis plus the guides to draw.
// X and Y are resolved independently.
func ComputeSmartGuides(moving Rect, anchors []Anchor, opts SnapOptions) (Rect, []GuideLine) {
	if opts.Threshold <= 0 {
		opts.Threshold = 6
	}
	bx := best{dist: math.Inf(1)}
	by := best{dist: math.Inf(1)}

	mL, mR, mT, mB := moving.X, moving.X+moving.W, moving.Y, moving.Y+moving.H
	mc := moving.Center()

	for _, a := range anchors {
		aL, aR, aT, aB := a.Rect.X, a.Rect.X+a.Rect.W, a.Rect.Y, a.Rect.Y+a.Rect.H
		ac := a.Rect.Center()
		if opts.SnapToEdges {
			for _, c := range [][2]float64{{mL, aL}, {mR, aR}, {mL, aR}, {mR, aL}} {
				bx.consider(c[0]-c[1], opts.Threshold, a.Weight, vertical(c[1], moving, a, GuideEdge))
			}
			for _, c := range [][2]float64{{mT, aT}, {mB, aB}, {mT, aB}, {mB, aT}} {
				by.consider(c[0]-c[1], opts.Threshold, a.Weight, horizontal(c[1], moving, a, GuideEdge))
			}
		}
		if opts.SnapToCenters {
			bx.consider(mc.X-ac.X, opts.Threshold, a.Weight, vertical(ac.X, moving, a, GuideCenter))
			by.consider(mc.Y-ac.Y, opts.Threshold, a.Weight, horizontal(ac.Y, moving, a, GuideCenter))
		}
	}

	var guides []GuideLine
	snapped := moving
	if bx.found {
		snapped.X = FloatRound(moving.X-bx.delta, 3)
		guides = append(guides, bx.guide)
	}
	if by.found {
		snapped.Y = FloatRound(moving.Y-by.delta, 3)
		guides = append(guides, by.guide)
	}
	return snapped, guides
}

type best struct {
	found bool
	delta float64
	dist  float64
	guide GuideLine
}

func (b *best) consider(delta, threshold, weight float64, g GuideLine) {
	dist := math.Abs(delta)
	if dist > threshold {
		return
	}
	score := dist / math.Max(1, weight)
	if score < b.dist {
		b.found = true
		b.dist = score
		b.delta = delta
		b.guide = g
	}
}

func vertical(x float64, m Rect, a Anchor, kind GuideKind) GuideLine {
	x = FloatRound(x, 3)
	return GuideLine{
		Orientation: Vertical,
		Kind:        kind,
		Position:    x,
		From:        Pt{x, math.Min(m.Y, a.Rect.Y)},
		To:          Pt{x, math.Max(m.Y+m.H, a.Rect.Y+a.Rect.H)},
		AnchorID:    a.ID,
	}
}

func horizontal(y float64, m Rect, a Anchor, kind GuideKind) GuideLine {
	y = FloatRound(y, 3)
	return GuideLine{
		Orientation: Horizontal,
		Kind:        kind,
		Position:    y,
		From:        Pt{math.Min(m.X, a.Rect.X), y},
		To:          Pt{math.Max(m.X+m.W, a.Rect.X+a.Rect.W), y},
		AnchorID:    a.ID,
	}
}
