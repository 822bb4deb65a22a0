/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package storage

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"pagecanvas/internal/domain"
)

func samplePage() domain.PageSchema {
	g := domain.ComponentSchema{ID: "g1", Type: "group", Name: "Group", Visible: true, Group: true,
		Style: domain.Style{Left: 100, Top: 100, Width: 200, Height: 80, Scale: 1},
		Children: []domain.ComponentSchema{
			{ID: "t2", Type: "text", Name: "Caption", Visible: true, Style: domain.Style{Width: 100, Height: 40, Scale: 1}},
		}}
	return domain.PageSchema{
		ID: "page-1", Width: 1920, Height: 1080,
		Background: domain.Background{UseType: "color", Color: "#ffffff"},
		Components: []domain.ComponentSchema{
			{ID: "t1", Type: "text", Name: "Headline", Visible: true, Style: domain.Style{Left: 10, Top: 10, Width: 200, Height: 40, Scale: 1}},
			g,
		},
	}
}

func TestInitPageCreatesStructureAndFile(t *testing.T) {
	root := t.TempDir()
	h, err := InitPage(root, samplePage())
	if err != nil {
		t.Fatalf("InitPage error: %v", err)
	}
	b, err := os.ReadFile(h.PagePath)
	if err != nil {
		t.Fatalf("read page: %v", err)
	}
	var got domain.PageSchema
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("unmarshal page: %v", err)
	}
	if got.ID != "page-1" || len(got.Components) != 2 || got.Components[1].Children[0].ID != "t2" {
		t.Fatalf("page mismatch: %+v", got)
	}
	for _, d := range []string{ExportsDirName, BackupsDirName} {
		if fi, err := os.Stat(filepath.Join(root, d)); err != nil || !fi.IsDir() {
			t.Fatalf("expected directory %s to exist", d)
		}
	}
}

func TestSaveCreatesTimestampedBackup(t *testing.T) {
	root := t.TempDir()
	h, err := InitPage(root, samplePage())
	if err != nil {
		t.Fatalf("InitPage error: %v", err)
	}
	h.Page.Components[0].Name = "Changed"
	if err := Save(h); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	baks, err := Backups(root)
	if err != nil || len(baks) != 1 {
		t.Fatalf("expected one backup, got %v (%v)", baks, err)
	}
	b, _ := os.ReadFile(baks[0])
	if !strings.Contains(string(b), "Headline") {
		t.Fatalf("backup should hold the previous content")
	}
	opened, err := Open(root)
	if err != nil || opened.Page.Components[0].Name != "Changed" || opened.Recovered {
		t.Fatalf("Open after save: %+v %v", opened, err)
	}
}

func TestOpenFallsBackToLatestValidBackup(t *testing.T) {
	root := t.TempDir()
	h, err := InitPage(root, samplePage())
	if err != nil {
		t.Fatalf("InitPage error: %v", err)
	}
	h.Page.Components[0].Name = "Second"
	if err := Save(h); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	if err := os.WriteFile(h.PagePath, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("corrupt page: %v", err)
	}
	opened, err := Open(root)
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	if !opened.Recovered || opened.Page.Components[0].Name != "Headline" {
		t.Fatalf("expected recovery from backup, got %+v", opened)
	}
}

func TestOpenWithoutAnyCopyFails(t *testing.T) {
	if _, err := Open(t.TempDir()); err == nil {
		t.Fatalf("expected error for empty directory")
	}
}

func TestSaveRefusesInvalidPage(t *testing.T) {
	root := t.TempDir()
	h, err := InitPage(root, samplePage())
	if err != nil {
		t.Fatalf("InitPage error: %v", err)
	}
	h.Page.Components = append(h.Page.Components, h.Page.Components[0])
	err = Save(h)
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("want ValidationError, got %v", err)
	}
	opened, _ := Open(root)
	if len(opened.Page.Components) != 2 {
		t.Fatalf("invalid page must not reach disk")
	}
}

func TestNilHandle(t *testing.T) {
	if err := Save(nil); !errors.Is(err, ErrNilHandle) {
		t.Fatalf("Save(nil) = %v", err)
	}
	if _, err := AutosaveCrashSnapshot(nil); !errors.Is(err, ErrNilHandle) {
		t.Fatalf("AutosaveCrashSnapshot(nil) = %v", err)
	}
}

func TestAutosaveCrashSnapshotWritesFile(t *testing.T) {
	root := t.TempDir()
	h, err := InitPage(root, samplePage())
	if err != nil {
		t.Fatalf("InitPage error: %v", err)
	}
	path, err := AutosaveCrashSnapshot(h)
	if err != nil {
		t.Fatalf("AutosaveCrashSnapshot error: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read snapshot: %v", err)
	}
	var got domain.PageSchema
	if err := json.Unmarshal(b, &got); err != nil || got.ID != "page-1" {
		t.Fatalf("snapshot content mismatch: %v %+v", err, got)
	}
	if baks, _ := Backups(root); len(baks) != 0 {
		t.Fatalf("crash snapshot must not count as a backup: %v", baks)
	}
}

func TestSaveAsMovesHandle(t *testing.T) {
	h, err := InitPage(t.TempDir(), samplePage())
	if err != nil {
		t.Fatalf("InitPage error: %v", err)
	}
	dst := filepath.Join(t.TempDir(), "copy")
	if err := SaveAs(h, dst); err != nil {
		t.Fatalf("SaveAs error: %v", err)
	}
	if h.Root != dst {
		t.Fatalf("handle not updated")
	}
	if _, err := Open(dst); err != nil {
		t.Fatalf("Open copy: %v", err)
	}
}
