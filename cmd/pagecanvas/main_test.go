/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"pagecanvas/internal/config"
	"pagecanvas/internal/domain"
	"pagecanvas/internal/render"
	"pagecanvas/internal/storage"
)

func newPage(t *testing.T) *storage.PageHandle {
	t.Helper()
	h, err := storage.InitPage(t.TempDir(), domain.PageSchema{
		ID: "p1", Width: 400, Height: 300,
		Background: domain.Background{UseType: "color", Color: "#ffffff"},
		Components: []domain.ComponentSchema{},
	})
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	return h
}

func TestEditorOptionsFromConfig(t *testing.T) {
	cfg := config.Defaults()
	cfg.Editor.NudgeStep = 4
	cfg.Canvas.MaxZoom = 8
	o := editorOptions(cfg)
	if o.NudgeStep != 4 || o.Zoom.Max != 8 || o.MaxRecords != 50 || !o.DeleteLocked {
		t.Fatalf("options: %+v", o)
	}
}

func TestReplaySavesJournalsAndIndexes(t *testing.T) {
	ctx := context.Background()
	h := newPage(t)
	path := filepath.Join(t.TempDir(), "s.pcs")
	src := "drop text 100 50 Headline\ndown 50 40\nmove 80 40\nup\nexpect @last 30 30\n"
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	res, err := replay(ctx, config.Defaults(), h, path)
	if err != nil || !res.OK() {
		t.Fatalf("replay: %v %v", err, res.Failures)
	}

	reopened, err := storage.Open(h.Root)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if n := len(reopened.Page.Components); n != 1 {
		t.Fatalf("saved components: %d", n)
	}
	entries, err := storage.LoadJournal(ctx, reopened)
	if err != nil || len(entries) != 2 {
		t.Fatalf("journal: %v %d", err, len(entries))
	}
	if _, ok, _ := storage.LatestSnapshot(ctx, reopened); !ok {
		t.Fatalf("no snapshot")
	}
	hits, err := storage.SearchComponents(ctx, reopened, storage.ComponentQuery{Text: "Headline"})
	if err != nil || len(hits) != 1 {
		t.Fatalf("search: %v %v", err, hits)
	}
}

func TestReplayRejectsParseErrors(t *testing.T) {
	h := newPage(t)
	path := filepath.Join(t.TempDir(), "bad.pcs")
	_ = os.WriteFile(path, []byte("fly 1 2\n"), 0o644)
	if _, err := replay(context.Background(), config.Defaults(), h, path); err == nil {
		t.Fatalf("want parse error")
	}
}

func TestExportFormats(t *testing.T) {
	h := newPage(t)
	dir := t.TempDir()
	for _, name := range []string{"out.svg", "out.png", "out.pdf"} {
		out := filepath.Join(dir, name)
		if err := export(config.Defaults(), h, out, render.Options{Scale: 1}); err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if fi, err := os.Stat(out); err != nil || fi.Size() == 0 {
			t.Fatalf("%s not written: %v", name, err)
		}
	}
	pdf, _ := os.ReadFile(filepath.Join(dir, "out.pdf"))
	if !bytes.HasPrefix(pdf, []byte("%PDF-")) {
		t.Fatalf("pdf header missing")
	}
	bad := filepath.Join(dir, "out.gif")
	if err := export(config.Defaults(), h, bad, render.Options{}); err == nil {
		t.Fatalf("want unsupported format error")
	}
	if _, err := os.Stat(bad); !os.IsNotExist(err) {
		t.Fatalf("failed export left a file behind")
	}
}
