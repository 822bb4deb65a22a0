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
	"context"
	"database/sql"
	"errors"
	"time"

	"pagecanvas/internal/domain"
)

// language=SQL
// dialect=SQLite
const insertSnapshotSQL = `INSERT INTO snapshots(page_id, ts, blob) VALUES (?, ?, ?)`

// language=SQL
// dialect=SQLite
const selectLatestSnapshotSQL = `SELECT ts, blob FROM snapshots WHERE page_id = ? ORDER BY ts DESC, id DESC LIMIT 1`

// language=SQL
// dialect=SQLite
const listSnapshotsSQL = `SELECT ts, blob FROM snapshots WHERE page_id = ? ORDER BY ts DESC, id DESC LIMIT ?`

// language=SQL
// dialect=SQLite
const pruneOldSnapshotsSQL = `DELETE FROM snapshots WHERE page_id = ? AND id NOT IN (
	SELECT id FROM snapshots WHERE page_id = ? ORDER BY ts DESC, id DESC LIMIT ?
)`

// Snapshot is one stored page document.
type Snapshot struct {
	TS   time.Time
	Blob []byte
}

// SaveSnapshot stores the current page document of h with timestamp ts.
func SaveSnapshot(ctx context.Context, h *PageHandle, ts time.Time) error {
	if h == nil {
		return ErrNilHandle
	}
	blob, err := encodePage(h.Page)
	if err != nil {
		return err
	}
	db, err := InitOrOpenIndex(h.Root)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()
	_, err = db.ExecContext(ctx, insertSnapshotSQL, h.Page.ID, ts.UTC().Format(time.RFC3339Nano), blob)
	return err
}

// LatestSnapshot returns the newest snapshot of the page, or ok=false if none.
func LatestSnapshot(ctx context.Context, h *PageHandle) (Snapshot, bool, error) {
	if h == nil {
		return Snapshot{}, false, ErrNilHandle
	}
	db, err := InitOrOpenIndex(h.Root)
	if err != nil {
		return Snapshot{}, false, err
	}
	defer func() { _ = db.Close() }()
	var tsStr string
	var s Snapshot
	err = db.QueryRowContext(ctx, selectLatestSnapshotSQL, h.Page.ID).Scan(&tsStr, &s.Blob)
	if errors.Is(err, sql.ErrNoRows) {
		return Snapshot{}, false, nil
	}
	if err != nil {
		return Snapshot{}, false, err
	}
	s.TS, _ = time.Parse(time.RFC3339Nano, tsStr) // keep the blob even if ts parse fails
	return s, true, nil
}

// ListSnapshots returns up to limit most recent snapshots, newest first.
func ListSnapshots(ctx context.Context, h *PageHandle, limit int) ([]Snapshot, error) {
	if h == nil {
		return nil, ErrNilHandle
	}
	if limit <= 0 {
		limit = 50
	}
	db, err := InitOrOpenIndex(h.Root)
	if err != nil {
		return nil, err
	}
	defer func() { _ = db.Close() }()
	rows, err := db.QueryContext(ctx, listSnapshotsSQL, h.Page.ID, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []Snapshot
	for rows.Next() {
		var tsStr string
		var s Snapshot
		if err := rows.Scan(&tsStr, &s.Blob); err != nil {
			return nil, err
		}
		s.TS, _ = time.Parse(time.RFC3339Nano, tsStr)
		out = append(out, s)
	}
	return out, rows.Err()
}

// PruneSnapshots keeps at most keepLast snapshots for the page and deletes older ones.
func PruneSnapshots(ctx context.Context, h *PageHandle, keepLast int) (int64, error) {
	if h == nil {
		return 0, ErrNilHandle
	}
	if keepLast <= 0 {
		return 0, nil
	}
	db, err := InitOrOpenIndex(h.Root)
	if err != nil {
		return 0, err
	}
	defer func() { _ = db.Close() }()
	res, err := db.ExecContext(ctx, pruneOldSnapshotsSQL, h.Page.ID, h.Page.ID, keepLast)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Page decodes the snapshot blob.
func (s Snapshot) Page() (domain.PageSchema, error) { return decodePage(s.Blob) }
