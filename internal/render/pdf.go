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
	"io"

	"github.com/jung-kurt/gofpdf"
)

// WritePDF writes f as a single-page PDF wireframe. One canvas pixel maps to one point.
func WritePDF(w io.Writer, f Frame, title string, opt Options) error {
	opt = opt.withDefaults()
	cw, ch := canvasSize(f)

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    gofpdf.SizeType{Wd: cw, Ht: ch},
	})
	if title != "" {
		pdf.SetTitle(title, true)
	}
	pdf.SetCreator("pagecanvas", false)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPageFormat("", gofpdf.SizeType{Wd: cw, Ht: ch})

	setFillColor(pdf, parseHex(f.Canvas.Background))
	pdf.Rect(0, 0, cw, ch, "F")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetLineWidth(1)
	for _, it := range drawable(f, opt) {
		b := it.Box
		setDrawColor(pdf, strokeFor(it, opt))
		if !it.Visible {
			pdf.SetDashPattern([]float64{4, 3}, 0)
		}
		if it.RotateZ != 0 {
			pdf.TransformBegin()
			// gofpdf rotates counter-clockwise; canvas rotation is clockwise
			pdf.TransformRotate(-it.RotateZ, b.Left+b.Width/2, b.Top+b.Height/2)
		}
		pdf.Rect(b.Left, b.Top, b.Width, b.Height, "D")
		if opt.Labels && !it.Group {
			if l := fitLabel(labelOf(it), b.Width-8); l != "" {
				setTextColor(pdf, opt.Stroke)
				pdf.Text(b.Left+4, b.Top+12, l)
			}
		}
		if it.RotateZ != 0 {
			pdf.TransformEnd()
		}
		if !it.Visible {
			pdf.SetDashPattern([]float64{}, 0)
		}
	}
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func setDrawColor(pdf *gofpdf.Fpdf, c color.RGBA) { pdf.SetDrawColor(int(c.R), int(c.G), int(c.B)) }
func setFillColor(pdf *gofpdf.Fpdf, c color.RGBA) { pdf.SetFillColor(int(c.R), int(c.G), int(c.B)) }
func setTextColor(pdf *gofpdf.Fpdf, c color.RGBA) { pdf.SetTextColor(int(c.R), int(c.G), int(c.B)) }
