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
	"fmt"
	"strings"

	"pagecanvas/internal/domain"
)

// ComponentQuery searches the component catalog.
// Text uses SQLite FTS5 syntax over name and type; empty Text scans with filters only.
type ComponentQuery struct {
	Text   string
	Types  []string
	Limit  int
	Offset int
}

// ComponentHit is a single catalog match.
type ComponentHit struct {
	ID     string
	Parent string
	Type   string
	Name   string
	Depth  int
	Z      int
}

// UpdateIndex replaces the component catalog with the components of h.Page.
func UpdateIndex(ctx context.Context, h *PageHandle) error {
	if h == nil {
		return ErrNilHandle
	}
	db, err := InitOrOpenIndex(h.Root)
	if err != nil {
		return err
	}
	defer db.Close()
	return indexComponents(ctx, db, h)
}

func indexComponents(ctx context.Context, db *sql.DB, h *PageHandle) error {
	type row struct {
		id, parent, typ, name string
		depth, z              int
	}
	var rows []row
	var walk func(c domain.ComponentSchema, parent string, depth int)
	walk = func(c domain.ComponentSchema, parent string, depth int) {
		rows = append(rows, row{id: c.ID, parent: parent, typ: c.Type, name: c.Name, depth: depth, z: len(rows)})
		for _, ch := range c.Children {
			walk(ch, c.ID, depth+1)
		}
	}
	for _, c := range h.Page.Components {
		walk(c, "", 0)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM components WHERE page_id = ?;", h.Page.ID); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("clear components: %w", err)
	}
	ins, err := tx.PrepareContext(ctx, "INSERT INTO components(id, page_id, parent_id, type, name, depth, z) VALUES(?,?,?,?,?,?,?);")
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer ins.Close()
	for _, r := range rows {
		parent := sql.NullString{String: r.parent, Valid: r.parent != ""}
		if _, err := ins.ExecContext(ctx, r.id, h.Page.ID, parent, r.typ, r.name, r.depth, r.z); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert component: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// SearchComponents queries the catalog of h's page.
func SearchComponents(ctx context.Context, h *PageHandle, q ComponentQuery) ([]ComponentHit, error) {
	if h == nil {
		return nil, ErrNilHandle
	}
	if strings.TrimSpace(h.Root) == "" {
		return nil, errors.New("page root is required")
	}
	db, err := InitOrOpenIndex(h.Root)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	var args []any
	var sb strings.Builder
	if strings.TrimSpace(q.Text) != "" {
		sb.WriteString("SELECT c.id, COALESCE(c.parent_id,''), c.type, c.name, c.depth, c.z\n")
		sb.WriteString("FROM fts_components JOIN components c ON fts_components.rowid = c.row_id\n")
		sb.WriteString("WHERE fts_components MATCH ? AND c.page_id = ?\n")
		args = append(args, q.Text, h.Page.ID)
	} else {
		sb.WriteString("SELECT c.id, COALESCE(c.parent_id,''), c.type, c.name, c.depth, c.z\n")
		sb.WriteString("FROM components c\nWHERE c.page_id = ?\n")
		args = append(args, h.Page.ID)
	}
	if len(q.Types) > 0 {
		sb.WriteString(" AND c.type IN (" + placeholders(len(q.Types)) + ")\n")
		for _, t := range q.Types {
			args = append(args, t)
		}
	}
	limit := q.Limit
	if limit <= 0 {
		limit = 100
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
	sb.WriteString("ORDER BY c.z\nLIMIT ? OFFSET ?")
	args = append(args, limit, q.Offset)

	rows, err := db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("search query: %w", err)
	}
	defer rows.Close()
	var out []ComponentHit
	for rows.Next() {
		var r ComponentHit
		if err := rows.Scan(&r.ID, &r.Parent, &r.Type, &r.Name, &r.Depth, &r.Z); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}
