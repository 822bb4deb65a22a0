/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package render

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

// Options controls wireframe exports. Zero values get defaults.
type Options struct {
	// Scale multiplies canvas pixels for PNG output (default 1).
	Scale float64
	// IncludeHidden draws hidden components dashed instead of skipping them.
	IncludeHidden bool
	// Labels writes "name (type)" into each box.
	Labels      bool
	Stroke      color.RGBA
	SelectColor color.RGBA
	GroupColor  color.RGBA
}

func (o Options) withDefaults() Options {
	if o.Scale <= 0 {
		o.Scale = 1
	}
	if o.Stroke == (color.RGBA{}) {
		o.Stroke = color.RGBA{R: 40, G: 40, B: 48, A: 255}
	}
	if o.SelectColor == (color.RGBA{}) {
		o.SelectColor = color.RGBA{R: 0, G: 170, B: 255, A: 255}
	}
	if o.GroupColor == (color.RGBA{}) {
		o.GroupColor = color.RGBA{R: 120, G: 200, B: 0, A: 255}
	}
	return o
}

// drawable returns items to paint in order.
func drawable(f Frame, o Options) []Item {
	out := make([]Item, 0, len(f.Items))
	for _, it := range f.Items {
		if !it.Visible && !o.IncludeHidden {
			continue
		}
		out = append(out, it)
	}
	return out
}

func strokeFor(it Item, o Options) color.RGBA {
	switch {
	case it.Selected:
		return o.SelectColor
	case it.Group:
		return o.GroupColor
	default:
		return o.Stroke
	}
}

func labelOf(it Item) string {
	name := it.Name
	if name == "" {
		name = it.ID
	}
	return name + " (" + it.Type + ")"
}

var labelFace font.Face = basicfont.Face7x13

// fitLabel trims s with an ellipsis so it fits maxPx at the label face.
func fitLabel(s string, maxPx float64) string {
	if maxPx <= 0 {
		return ""
	}
	measure := func(t string) float64 { return float64(font.MeasureString(labelFace, t).Round()) }
	if measure(s) <= maxPx {
		return s
	}
	runes := []rune(s)
	for n := len(runes) - 1; n > 0; n-- {
		t := string(runes[:n]) + "..."
		if measure(t) <= maxPx {
			return t
		}
	}
	return ""
}

// parseHex reads #rgb or #rrggbb; anything else yields white.
func parseHex(s string) color.RGBA {
	white := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return white
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return white
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}
}

func hexColor(c color.RGBA) string { return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B) }

func canvasSize(f Frame) (float64, float64) {
	w, h := f.Canvas.Width, f.Canvas.Height
	if w <= 0 {
		w = 1920
	}
	if h <= 0 {
		h = 1080
	}
	return w, h
}
