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
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"pagecanvas/internal/domain"
)

const (
	PageFileName   = "page.json"
	BackupsDirName = "backups"
	ExportsDirName = "exports"
)

var standardSubDirs = []string{
	ExportsDirName,
	BackupsDirName,
}

// ErrNilHandle is returned by every operation given a nil *PageHandle.
var ErrNilHandle = errors.New("nil PageHandle")

// PageHandle keeps track of the page document loaded/saved from disk.
// Root is the page directory containing page.json and subfolders.
// Recovered is set when Open had to fall back to a backup.
type PageHandle struct {
	Root      string
	PagePath  string
	Page      domain.PageSchema
	Recovered bool
}

// InitPage creates a new page directory at root (creating it if it doesn't exist),
// scaffolds the standard subfolders, and writes the given page transactionally.
func InitPage(root string, page domain.PageSchema) (*PageHandle, error) {
	if strings.TrimSpace(root) == "" {
		return nil, errors.New("root path is required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create page root: %w", err)
	}
	for _, d := range standardSubDirs {
		if err := os.MkdirAll(filepath.Join(root, d), 0o755); err != nil {
			return nil, fmt.Errorf("create subdir %s: %w", d, err)
		}
	}
	if page.Components == nil {
		page.Components = []domain.ComponentSchema{}
	}
	h := &PageHandle{
		Root:     root,
		PagePath: filepath.Join(root, PageFileName),
		Page:     page,
	}
	if err := Save(h); err != nil {
		return nil, err
	}
	return h, nil
}

// Open loads an existing page from root. If page.json cannot be read, parsed
// or validated, the latest backup is used instead.
func Open(root string) (*PageHandle, error) {
	ppath := filepath.Join(root, PageFileName)
	b, err := os.ReadFile(ppath)
	if err == nil {
		var p domain.PageSchema
		if p, err = decodePage(b); err == nil {
			return &PageHandle{Root: root, PagePath: ppath, Page: p}, nil
		}
	}
	page, berr := openFromLatestBackup(root)
	if berr != nil {
		return nil, fmt.Errorf("open page: %w; backup attempt: %v", err, berr)
	}
	return &PageHandle{Root: root, PagePath: ppath, Page: *page, Recovered: true}, nil
}

// Save writes h.Page to disk with transactional semantics and a timestamped
// backup of the previous file (if present). Invalid pages are not written.
func Save(h *PageHandle) error {
	if h == nil {
		return ErrNilHandle
	}
	if h.Root == "" || h.PagePath == "" {
		return errors.New("invalid PageHandle: missing paths")
	}
	data, err := encodePage(h.Page)
	if err != nil {
		return err
	}
	if err := Validate(data); err != nil {
		return fmt.Errorf("refusing to save: %w", err)
	}

	bdir := filepath.Join(h.Root, BackupsDirName)
	if err := os.MkdirAll(bdir, 0o755); err != nil {
		return fmt.Errorf("ensure backups dir: %w", err)
	}
	if _, statErr := os.Stat(h.PagePath); statErr == nil {
		bpath := filepath.Join(bdir, backupName(time.Now()))
		if cerr := copyFile(h.PagePath, bpath); cerr != nil {
			return fmt.Errorf("backup current page: %w", cerr)
		}
	}

	// temp file in the same directory, then rename over target
	dir := filepath.Dir(h.PagePath)
	temp := filepath.Join(dir, fmt.Sprintf(".%s.tmp-%d-%d", PageFileName, os.Getpid(), rand.Int()))
	if werr := writeFileSync(temp, data); werr != nil {
		return fmt.Errorf("write temp page: %w", werr)
	}
	// On Windows, replace by removing destination first if needed
	if _, err := os.Stat(h.PagePath); err == nil {
		_ = os.Remove(h.PagePath)
	}
	if rerr := os.Rename(temp, h.PagePath); rerr != nil {
		_ = os.Remove(temp)
		return fmt.Errorf("replace page: %w", rerr)
	}
	h.Recovered = false
	return nil
}

// SaveAs writes the page to a new root folder, scaffolding structure if needed, and updates the handle.
func SaveAs(h *PageHandle, newRoot string) error {
	if h == nil {
		return ErrNilHandle
	}
	if newRoot == "" {
		return errors.New("new root is empty")
	}
	for _, d := range standardSubDirs {
		if err := os.MkdirAll(filepath.Join(newRoot, d), 0o755); err != nil {
			return fmt.Errorf("create subdir %s: %w", d, err)
		}
	}
	h.Root = newRoot
	h.PagePath = filepath.Join(newRoot, PageFileName)
	return Save(h)
}

// AutosaveCrashSnapshot writes the in-memory page next to the backups without
// validating it, so a crash never loses edits to a schema error.
func AutosaveCrashSnapshot(h *PageHandle) (string, error) {
	if h == nil {
		return "", ErrNilHandle
	}
	data, err := encodePage(h.Page)
	if err != nil {
		return "", err
	}
	bdir := filepath.Join(h.Root, BackupsDirName)
	if err := os.MkdirAll(bdir, 0o755); err != nil {
		return "", fmt.Errorf("ensure backups dir: %w", err)
	}
	path := filepath.Join(bdir, fmt.Sprintf("%s.crash-%s.json", PageFileName, time.Now().Format("20060102-150405")))
	if err := writeFileSync(path, data); err != nil {
		return "", fmt.Errorf("write crash snapshot: %w", err)
	}
	return path, nil
}

// Backups lists backup files oldest first.
func Backups(root string) ([]string, error) {
	bdir := filepath.Join(root, BackupsDirName)
	ents, err := os.ReadDir(bdir)
	if err != nil {
		return nil, fmt.Errorf("read backups dir: %w", err)
	}
	var out []string
	for _, e := range ents {
		name := e.Name()
		if strings.HasPrefix(name, PageFileName+".") && strings.HasSuffix(name, ".bak") {
			out = append(out, filepath.Join(bdir, name))
		}
	}
	sort.Strings(out) // timestamp in name yields lexicographic order
	return out, nil
}

func backupName(ts time.Time) string {
	// nanoseconds keep two saves within one second apart
	return fmt.Sprintf("%s.%s.%09d.bak", PageFileName, ts.Format("20060102-150405"), ts.Nanosecond())
}

func encodePage(p domain.PageSchema) ([]byte, error) {
	if p.Components == nil {
		p.Components = []domain.ComponentSchema{}
	}
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal page: %w", err)
	}
	return append(data, '\n'), nil
}

func decodePage(b []byte) (domain.PageSchema, error) {
	var p domain.PageSchema
	if err := Validate(b); err != nil {
		return p, err
	}
	if err := json.Unmarshal(b, &p); err != nil {
		return p, fmt.Errorf("parse page: %w", err)
	}
	return p, nil
}

// writeFileSync writes data to a file, ensures it is flushed to disk.
func writeFileSync(path string, data []byte) (err error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	if _, err := f.Write(data); err != nil {
		return err
	}
	return f.Sync()
}

// copyFile copies a file from src to dst (overwrites dst if exists).
func copyFile(src, dst string) (err error) {
	sf, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := sf.Close(); err == nil {
			err = cerr
		}
	}()
	df, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := df.Close(); err == nil {
			err = cerr
		}
	}()
	if _, err := io.Copy(df, sf); err != nil {
		return err
	}
	return df.Sync()
}

// openFromLatestBackup walks backups newest first and returns the first valid page.
func openFromLatestBackup(root string) (*domain.PageSchema, error) {
	candidates, err := Backups(root)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, errors.New("no backups found")
	}
	var lastErr error
	for i := len(candidates) - 1; i >= 0; i-- {
		b, err := os.ReadFile(candidates[i])
		if err != nil {
			lastErr = fmt.Errorf("read backup: %w", err)
			continue
		}
		p, err := decodePage(b)
		if err != nil {
			lastErr = fmt.Errorf("backup %s: %w", filepath.Base(candidates[i]), err)
			continue
		}
		return &p, nil
	}
	return nil, lastErr
}
