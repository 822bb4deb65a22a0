/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package script

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"pagecanvas/internal/editor"
	"pagecanvas/internal/interaction"
)

func newEditor(t *testing.T) *editor.Editor {
	t.Helper()
	n := 0
	opts := editor.DefaultOptions()
	opts.Frames = &interaction.ManualFrames{}
	opts.NewID = func(kind string) string {
		n++
		return fmt.Sprintf("%s_%d", kind, n)
	}
	ed := editor.New(opts)
	t.Cleanup(ed.Close)
	return ed
}

func mustParse(t *testing.T, src string) Script {
	t.Helper()
	s, errs := Parse(src)
	if len(errs) != 0 {
		t.Fatalf("parse: %v", errs)
	}
	return s
}

func TestRunDropDragUndo(t *testing.T) {
	ed := newEditor(t)
	s := mustParse(t, `
# Place
drop text 100 50 Title
expect @last 0 30
# Drag
; thirty pixels right
down 50 40
move 65 40
move 80 40
up
frame
expect @last 30 30
key undo
expect @last 0 30
`)
	res, err := Run(ed, s)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !res.OK() {
		t.Fatalf("failures: %v", res.Failures)
	}
	if len(res.Created) != 1 || res.Created[0] != "text_1" {
		t.Fatalf("created: %v", res.Created)
	}
	if len(res.Notes) != 1 || res.Notes[0] != "thirty pixels right" {
		t.Fatalf("notes: %v", res.Notes)
	}
	if res.Steps != 10 {
		t.Fatalf("steps: %d", res.Steps)
	}
	c, _ := ed.Store().Get("text_1")
	if c.Name != "Title" {
		t.Fatalf("name: %q", c.Name)
	}
}

func TestRunRecordsFailuresAndContinues(t *testing.T) {
	ed := newEditor(t)
	s := mustParse(t, `
select @last
drop nosuch 10 10
drop text 100 50
expect @last 5 5
expect ghost 0 0
key fly
key nudge a b
key nudge 2 3
expect @last 2 33
`)
	res, err := Run(ed, s)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	wantLines := []int{2, 3, 5, 6, 7, 8}
	if len(res.Failures) != len(wantLines) {
		t.Fatalf("want %d failures, got %v", len(wantLines), res.Failures)
	}
	for i, f := range res.Failures {
		if f.Line != wantLines[i] {
			t.Fatalf("failure %d on line %d: %v", i, f.Line, f)
		}
	}
	if !strings.Contains(res.Failures[2].Message, "got (0,30)") {
		t.Fatalf("expect message: %s", res.Failures[2].Message)
	}
}

func TestRunPasteTracksLast(t *testing.T) {
	ed := newEditor(t)
	s := mustParse(t, `
drop text 100 50
key copy
key paste
expect @last 10 40
select @last
key delete
`)
	res, err := Run(ed, s)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !res.OK() {
		t.Fatalf("failures: %v", res.Failures)
	}
	if len(res.Created) != 2 || res.Created[1] == res.Created[0] {
		t.Fatalf("created: %v", res.Created)
	}
	if ids := ed.Store().IDs(); len(ids) != 1 || ids[0] != res.Created[0] {
		t.Fatalf("remaining: %v", ids)
	}
}

func TestRunZoomMapsScreenToCanvas(t *testing.T) {
	ed := newEditor(t)
	s := mustParse(t, `
zoom 2 0 0
drop text 200 100
expect @last 0 30
`)
	res, err := Run(ed, s)
	if err != nil || !res.OK() {
		t.Fatalf("run: %v %v", err, res.Failures)
	}
}

func TestRunOnClosedEditor(t *testing.T) {
	ed := newEditor(t)
	ed.Close()
	_, err := Run(ed, mustParse(t, "drop text 1 1"))
	if !errors.Is(err, editor.ErrClosed) {
		t.Fatalf("want ErrClosed, got %v", err)
	}
}
