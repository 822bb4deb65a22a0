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
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// WritePNG rasterizes f as a wireframe. Rotation is not applied to the raster;
// rotated components are drawn at their unrotated box.
func WritePNG(w io.Writer, f Frame, opt Options) error {
	opt = opt.withDefaults()
	cw, ch := canvasSize(f)
	s := opt.Scale
	pixW := int(math.Round(cw * s))
	pixH := int(math.Round(ch * s))
	if pixW <= 0 || pixH <= 0 {
		return fmt.Errorf("png: empty canvas %dx%d", pixW, pixH)
	}

	img := image.NewRGBA(image.Rect(0, 0, pixW, pixH))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: parseHex(f.Canvas.Background)}, image.Point{}, draw.Src)

	for _, it := range drawable(f, opt) {
		b := it.Box
		x0 := int(math.Round(b.Left * s))
		y0 := int(math.Round(b.Top * s))
		x1 := int(math.Round((b.Left+b.Width)*s)) - 1
		y1 := int(math.Round((b.Top+b.Height)*s)) - 1
		col := strokeFor(it, opt)
		strokeRect(img, x0, y0, x1, y1, col, !it.Visible)
		if opt.Labels && !it.Group {
			if l := fitLabel(labelOf(it), float64(x1-x0)-8); l != "" {
				d := &font.Drawer{Dst: img, Src: image.NewUniform(opt.Stroke), Face: labelFace,
					Dot: fixed.P(x0+4, y0+14)}
				d.DrawString(l)
			}
		}
	}
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// strokeRect draws a 1px border inclusive of endpoints, clipped to the image.
func strokeRect(img *image.RGBA, x0, y0, x1, y1 int, col color.RGBA, dashed bool) {
	on := func(i int) bool { return !dashed || (i/4)%2 == 0 }
	for x := x0; x <= x1; x++ {
		if on(x - x0) {
			setClipped(img, x, y0, col)
			setClipped(img, x, y1, col)
		}
	}
	for y := y0; y <= y1; y++ {
		if on(y - y0) {
			setClipped(img, x0, y, col)
			setClipped(img, x1, y, col)
		}
	}
}

func setClipped(img *image.RGBA, x, y int, col color.RGBA) {
	if image.Pt(x, y).In(img.Bounds()) {
		img.SetRGBA(x, y, col)
	}
}
