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
	"bytes"
	"fmt"
	"io"
	"strings"
)

// WriteSVG writes f as an SVG wireframe in canvas pixels.
func WriteSVG(w io.Writer, f Frame, opt Options) error {
	opt = opt.withDefaults()
	cw, ch := canvasSize(f)

	var buf bytes.Buffer
	wf := func(format string, args ...any) { fmt.Fprintf(&buf, format, args...) }

	wf("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	wf("<svg xmlns=\"http://www.w3.org/2000/svg\" version=\"1.1\" width=\"%gpx\" height=\"%gpx\" viewBox=\"0 0 %g %g\">\n", cw, ch, cw, ch)
	wf("  <rect x=\"0\" y=\"0\" width=\"%g\" height=\"%g\" fill=\"%s\"/>\n", cw, ch, hexColor(parseHex(f.Canvas.Background)))

	for _, it := range drawable(f, opt) {
		b := it.Box
		attrs := fmt.Sprintf("id=\"%s\" data-type=\"%s\"", escAttr(it.ID), escAttr(it.Type))
		if it.RotateZ != 0 {
			attrs += fmt.Sprintf(" transform=\"rotate(%g %g %g)\"", it.RotateZ, b.Left+b.Width/2, b.Top+b.Height/2)
		}
		if !it.Visible {
			attrs += " stroke-dasharray=\"4 3\""
		}
		wf("  <rect %s x=\"%g\" y=\"%g\" width=\"%g\" height=\"%g\" fill=\"none\" stroke=\"%s\" stroke-width=\"1\"/>\n",
			attrs, b.Left, b.Top, b.Width, b.Height, hexColor(strokeFor(it, opt)))
		if opt.Labels && !it.Group {
			if l := fitLabel(labelOf(it), b.Width-8); l != "" {
				wf("  <text x=\"%g\" y=\"%g\" font-family=\"monospace\" font-size=\"12\" fill=\"%s\">%s</text>\n",
					b.Left+4, b.Top+14, hexColor(opt.Stroke), escText(l))
			}
		}
	}
	wf("</svg>\n")
	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("write svg: %w", err)
	}
	return nil
}

var (
	attrEscaper = strings.NewReplacer(`&`, "&amp;", `"`, "&quot;", "<", "&lt;", "\n", " ", "\r", "")
	textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
)

func escAttr(s string) string { return attrEscaper.Replace(s) }
func escText(s string) string { return textEscaper.Replace(s) }
