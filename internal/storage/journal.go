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
	"fmt"
	"time"

	"pagecanvas/internal/history"
)

// language=SQL
// dialect=SQLite
const nextJournalSeqSQL = `SELECT COALESCE(MAX(seq), 0) FROM journal WHERE page_id = ?`

// language=SQL
// dialect=SQLite
const insertJournalSQL = `INSERT INTO journal(page_id, seq, record_id, kind, title, ts, payload) VALUES (?, ?, ?, ?, ?, ?, ?)`

// language=SQL
// dialect=SQLite
const listJournalSQL = `SELECT seq, record_id, kind, title, ts, payload FROM journal WHERE page_id = ? ORDER BY seq`

// language=SQL
// dialect=SQLite
const clearJournalSQL = `DELETE FROM journal WHERE page_id = ?`

// JournalEntry is one persisted history record.
type JournalEntry struct {
	Seq      int64
	RecordID string
	Kind     history.Kind
	Title    string
	TS       time.Time
	Payload  []byte
}

// Record decodes the entry payload.
func (e JournalEntry) Record() (history.Record, error) { return history.Unmarshal(e.Payload) }

// AppendJournal appends records, oldest first, after the page's existing entries.
func AppendJournal(ctx context.Context, h *PageHandle, recs ...history.Record) error {
	if h == nil {
		return ErrNilHandle
	}
	if len(recs) == 0 {
		return nil
	}
	payloads := make([][]byte, len(recs))
	for i, r := range recs {
		b, err := history.Marshal(r)
		if err != nil {
			return fmt.Errorf("encode record %d: %w", i, err)
		}
		payloads[i] = b
	}
	db, err := InitOrOpenIndex(h.Root)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	var seq int64
	if err := tx.QueryRowContext(ctx, nextJournalSeqSQL, h.Page.ID).Scan(&seq); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("read journal seq: %w", err)
	}
	ins, err := tx.PrepareContext(ctx, insertJournalSQL)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer ins.Close()
	for i, r := range recs {
		m := r.Meta()
		seq++
		if _, err := ins.ExecContext(ctx, h.Page.ID, seq, m.ID, string(m.Kind), m.Title,
			m.Timestamp.UTC().Format(time.RFC3339Nano), payloads[i]); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert journal entry: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// LoadJournal returns the page's journal in append order.
func LoadJournal(ctx context.Context, h *PageHandle) ([]JournalEntry, error) {
	if h == nil {
		return nil, ErrNilHandle
	}
	db, err := InitOrOpenIndex(h.Root)
	if err != nil {
		return nil, err
	}
	defer func() { _ = db.Close() }()
	rows, err := db.QueryContext(ctx, listJournalSQL, h.Page.ID)
	if err != nil {
		return nil, fmt.Errorf("journal query: %w", err)
	}
	defer func() { _ = rows.Close() }()
	var out []JournalEntry
	for rows.Next() {
		var e JournalEntry
		var kind, ts string
		if err := rows.Scan(&e.Seq, &e.RecordID, &kind, &e.Title, &ts, &e.Payload); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		e.Kind = history.Kind(kind)
		e.TS, _ = time.Parse(time.RFC3339Nano, ts)
		out = append(out, e)
	}
	return out, rows.Err()
}

// ClearJournal deletes the page's journal and reports the number of removed entries.
func ClearJournal(ctx context.Context, h *PageHandle) (int64, error) {
	if h == nil {
		return 0, ErrNilHandle
	}
	db, err := InitOrOpenIndex(h.Root)
	if err != nil {
		return 0, err
	}
	defer func() { _ = db.Close() }()
	res, err := db.ExecContext(ctx, clearJournalSQL, h.Page.ID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
