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
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"sync"
	"time"

	"pagecanvas/internal/domain"
	applog "pagecanvas/internal/log"
	"pagecanvas/internal/storage"
	"pagecanvas/internal/version"
)

// exitFn is used to allow testing of Recover without terminating the test process.
var exitFn = os.Exit

var (
	mu     sync.Mutex
	source func() domain.PageSchema
)

// SetPageSource registers fn as the live page to autosave on a crash, in
// place of the handle's last loaded or saved page. nil clears it.
func SetPageSource(fn func() domain.PageSchema) {
	mu.Lock()
	source = fn
	mu.Unlock()
}

// Recover captures a panic, logs an error with stacktrace,
// writes an error report file, and attempts a crash-safe autosave
// of the page (if a handle is provided).
//
// Usage: defer crash.Recover(h)
//
// It must be the deferred call itself; wrapped in a closure it sees no panic.
func Recover(h *storage.PageHandle) {
	if r := recover(); r != nil {
		handle(h, r)
	}
}

// RecoverFrom is Recover for a handle that is assigned after the defer
// statement runs, as in a CLI that opens the page later.
//
// Usage: var h *storage.PageHandle; defer crash.RecoverFrom(&h)
func RecoverFrom(hp **storage.PageHandle) {
	if r := recover(); r != nil {
		var h *storage.PageHandle
		if hp != nil {
			h = *hp
		}
		handle(h, r)
	}
}

func handle(h *storage.PageHandle, r any) {
	l := applog.WithComponent("crash")
	stack := debug.Stack()
	l.Error("panic recovered", slog.Any("panic", r), slog.String("stack", string(stack)))

	reportPath, _ := writeReport(h, r, stack)
	if h != nil {
		refresh(h, l)
		if path, err := storage.AutosaveCrashSnapshot(h); err != nil {
			l.Error("autosave crash snapshot failed", slog.Any("err", err))
		} else {
			l.Info("autosave crash snapshot written", slog.String("path", path))
		}
	}

	if _, err := fmt.Fprintf(os.Stderr, "A fatal error occurred. A crash report was saved to: %s\n", reportPath); err != nil {
		l.Error("failed to write crash message to stderr", slog.Any("err", err))
	}
	if _, err := fmt.Fprintf(os.Stderr, "Version: %s\nOS/Arch: %s/%s\n", version.String(), runtime.GOOS, runtime.GOARCH); err != nil {
		l.Error("failed to write version info to stderr", slog.Any("err", err))
	}
	exitFn(2)
}

// refresh copies the live page into h. A source that panics itself is skipped.
func refresh(h *storage.PageHandle, l *slog.Logger) {
	mu.Lock()
	fn := source
	mu.Unlock()
	if fn == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			l.Warn("page source panicked, autosaving last known page", slog.Any("panic", r))
		}
	}()
	h.Page = fn()
}

func writeReport(h *storage.PageHandle, panicVal any, stack []byte) (string, error) {
	dir := os.TempDir()
	if h != nil && h.Root != "" {
		dir = filepath.Join(h.Root, storage.BackupsDirName)
		_ = os.MkdirAll(dir, 0o755)
	}
	stamp := time.Now().Format("20060102-150405")
	path := filepath.Join(dir, fmt.Sprintf("crash-%s.log", stamp))

	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return path, err
	}
	defer func() {
		if err := f.Close(); err != nil {
			applog.WithComponent("crash").Error("failed to close crash report file", slog.Any("err", err), slog.String("path", path))
		}
	}()

	var buf bytes.Buffer
	_, _ = fmt.Fprintf(&buf, "PageCanvas Crash Report\n")
	_, _ = fmt.Fprintf(&buf, "Timestamp: %s\n", time.Now().Format(time.RFC3339))
	_, _ = fmt.Fprintf(&buf, "Version: %s\n", version.String())
	_, _ = fmt.Fprintf(&buf, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	if h != nil {
		_, _ = fmt.Fprintf(&buf, "PageRoot: %s\n", h.Root)
		_, _ = fmt.Fprintf(&buf, "PageFile: %s\n", h.PagePath)
		_, _ = fmt.Fprintf(&buf, "PageID: %s\n", h.Page.ID)
	}
	_, _ = fmt.Fprintf(&buf, "\nPanic: %v\n\n", panicVal)
	_, _ = fmt.Fprintf(&buf, "Stack:\n%s\n", string(stack))

	if _, err := f.Write(buf.Bytes()); err != nil {
		return path, err
	}
	_ = f.Sync()
	return path, nil
}
