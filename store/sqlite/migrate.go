// Copyright 2025 Zintix Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"io/fs"
	"sort"
	"strings"
	"time"

	"github.com/zintix-labs/logiclab/errs"
)

const migrationTable = "schema_migrations"

const (
	markUp   = "-- +migrate Up"
	markDown = "-- +migrate Down"
)

// applyMigrations 依檔名順序執行 migrations 內的 *.sql，每個檔案最多執行一次。
func applyMigrations(ctx context.Context, db *sql.DB, mfs fs.FS) error {
	entries, err := fs.ReadDir(mfs, ".")
	if err != nil {
		return errs.Wrap(err, "read migrations dir")
	}
	files := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".sql") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)

	if _, err := db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS `+migrationTable+` (
    name TEXT PRIMARY KEY,
    applied_at INTEGER NOT NULL
);`); err != nil {
		return errs.Wrap(err, "ensure migration table")
	}

	for _, name := range files {
		applied, err := isApplied(ctx, db, name)
		if err != nil {
			return errs.WrapWithExtra(err, "check migration", name)
		}
		if applied {
			continue
		}
		content, err := fs.ReadFile(mfs, name)
		if err != nil {
			return errs.WrapWithExtra(err, "read migration", name)
		}
		if err := applyOne(ctx, db, name, upSection(string(content))); err != nil {
			return err
		}
	}
	return nil
}

func applyOne(ctx context.Context, db *sql.DB, name, up string) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return errs.WrapWithExtra(err, "begin migration", name)
	}
	// 逐句執行：某一句已套用過（欄位/表已存在）只跳過那一句，其餘照跑
	for _, stmt := range splitStatements(up) {
		if _, err := tx.ExecContext(ctx, stmt); err != nil && !alreadyExists(err) {
			_ = tx.Rollback()
			return errs.WrapWithExtra(err, "exec migration", name)
		}
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT OR IGNORE INTO "+migrationTable+" (name, applied_at) VALUES (?, ?)",
		name, time.Now().UTC().UnixMilli(),
	); err != nil {
		_ = tx.Rollback()
		return errs.WrapWithExtra(err, "record migration", name)
	}
	if err := tx.Commit(); err != nil {
		return errs.WrapWithExtra(err, "commit migration", name)
	}
	return nil
}

// upSection 取 "-- +migrate Up" 到 "-- +migrate Down" 之間的 SQL；沒有標記就整份執行。
func upSection(content string) string {
	i := strings.Index(content, markUp)
	if i < 0 {
		return content
	}
	content = content[i+len(markUp):]
	if j := strings.Index(content, markDown); j >= 0 {
		content = content[:j]
	}
	return content
}

// splitStatements 以分號切開 SQL，略過單引號字串與 "--" 註解內的分號。
func splitStatements(sqlText string) []string {
	var (
		out  []string
		cur  strings.Builder
		inQ  bool
		skip bool
	)
	flush := func() {
		if st := strings.TrimSpace(cur.String()); st != "" {
			out = append(out, st)
		}
		cur.Reset()
	}
	for i := 0; i < len(sqlText); i++ {
		ch := sqlText[i]
		switch {
		case skip:
			if ch == '\n' {
				skip = false
				cur.WriteByte(ch)
			}
			continue
		case inQ:
			if ch == '\'' {
				inQ = false
			}
		case ch == '\'':
			inQ = true
		case ch == '-' && i+1 < len(sqlText) && sqlText[i+1] == '-':
			skip = true
			continue
		case ch == ';':
			flush()
			continue
		}
		cur.WriteByte(ch)
	}
	flush()
	return out
}

// alreadyExists: 重跑 DDL 時的冪等錯誤
func alreadyExists(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "already exists") || strings.Contains(msg, "duplicate column name")
}

func isApplied(ctx context.Context, db *sql.DB, name string) (bool, error) {
	var one int
	err := db.QueryRowContext(ctx, "SELECT 1 FROM "+migrationTable+" WHERE name = ?", name).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
