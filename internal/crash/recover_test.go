/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package crash

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"pagecanvas/internal/domain"
	"pagecanvas/internal/storage"
)

func newHandle(t *testing.T) *storage.PageHandle {
	t.Helper()
	h, err := storage.InitPage(t.TempDir(), domain.PageSchema{ID: "p1", Width: 800, Height: 600})
	if err != nil {
		t.Fatalf("InitPage: %v", err)
	}
	return h
}

// silenceStderr swaps os.Stderr for a pipe until the test ends.
func silenceStderr(t *testing.T) {
	t.Helper()
	old := os.Stderr
	r, w, _ := os.Pipe()
	os.Stderr = w
	t.Cleanup(func() {
		_ = w.Close()
		os.Stderr = old
		_, _ = io.Copy(io.Discard, r)
	})
}

func findFile(t *testing.T, dir, prefix, suffix string) string {
	t.Helper()
	files, _ := os.ReadDir(dir)
	for _, f := range files {
		if strings.HasPrefix(f.Name(), prefix) && strings.HasSuffix(f.Name(), suffix) {
			return filepath.Join(dir, f.Name())
		}
	}
	return ""
}

func TestRecoverWritesReportAndAutosave(t *testing.T) {
	silenceStderr(t)
	called := 0
	oldExit := exitFn
	exitFn = func(code int) { called = code }
	t.Cleanup(func() { exitFn = oldExit })

	h := newHandle(t)
	live := domain.PageSchema{ID: "p1", Width: 800, Height: 600, Components: []domain.ComponentSchema{
		{ID: "a", Type: "text", Visible: true, Style: domain.Style{Width: 10, Height: 10}},
	}}
	SetPageSource(func() domain.PageSchema { return live })
	t.Cleanup(func() { SetPageSource(nil) })

	func() {
		defer Recover(h)
		panic("boom")
	}()

	bdir := filepath.Join(h.Root, storage.BackupsDirName)
	report := findFile(t, bdir, "crash-", ".log")
	if report == "" {
		t.Fatalf("expected crash report under backups dir")
	}
	if b, _ := os.ReadFile(report); !bytes.Contains(b, []byte("Panic: boom")) {
		t.Fatalf("report does not contain panic: %s", b)
	}
	snap := findFile(t, bdir, storage.PageFileName+".crash-", ".json")
	if snap == "" {
		t.Fatalf("expected crash autosave")
	}
	var got domain.PageSchema
	b, _ := os.ReadFile(snap)
	if err := json.Unmarshal(b, &got); err != nil || len(got.Components) != 1 {
		t.Fatalf("autosave should hold the live page: %v %+v", err, got)
	}
	if called != 2 {
		t.Fatalf("expected exit code 2, got %d", called)
	}
}

func TestRecoverWithoutPanicDoesNothing(t *testing.T) {
	called := false
	oldExit := exitFn
	exitFn = func(int) { called = true }
	t.Cleanup(func() { exitFn = oldExit })
	func() {
		defer Recover(nil)
	}()
	if called {
		t.Fatalf("exit must not be called without a panic")
	}
}

func TestRecoverFromLateAssignedHandle(t *testing.T) {
	silenceStderr(t)
	called := 0
	oldExit := exitFn
	exitFn = func(code int) { called = code }
	t.Cleanup(func() { exitFn = oldExit })

	h := newHandle(t)
	func() {
		var ph *storage.PageHandle
		defer RecoverFrom(&ph)
		ph = h
		panic("boom")
	}()

	if called != 2 {
		t.Fatalf("panic was not recovered, exit code %d", called)
	}
	bdir := filepath.Join(h.Root, storage.BackupsDirName)
	if findFile(t, bdir, "crash-", ".log") == "" {
		t.Fatalf("expected crash report under backups dir")
	}
	if findFile(t, bdir, storage.PageFileName+".crash-", ".json") == "" {
		t.Fatalf("expected crash autosave")
	}
}

func TestRecoverFromNilHandle(t *testing.T) {
	silenceStderr(t)
	called := 0
	oldExit := exitFn
	exitFn = func(code int) { called = code }
	t.Cleanup(func() { exitFn = oldExit })

	func() {
		var ph *storage.PageHandle
		defer RecoverFrom(&ph)
		panic("early")
	}()
	func() {
		defer RecoverFrom(nil)
		panic("no holder")
	}()
	if called != 2 {
		t.Fatalf("panic was not recovered, exit code %d", called)
	}
}
