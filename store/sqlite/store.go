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

// Package sqlite 是 store.Store 的 SQLite 實作（modernc.org/sqlite，純 Go，不需 cgo）。
//
// 時間欄位一律存 UTC 毫秒；0 代表「未設定」。題目以 JSON 存放，讀回時經 logiclab.DecodePuzzle
// 依 type 標籤還原。解答不寫入。
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"time"

	"github.com/zintix-labs/logiclab"
	"github.com/zintix-labs/logiclab/errs"
	"github.com/zintix-labs/logiclab/sdk/puzzle"
	"github.com/zintix-labs/logiclab/store"
	"github.com/zintix-labs/logiclab/store/sqlite/migrations"
	_ "modernc.org/sqlite"
)

type Store struct {
	db *sql.DB
}

var _ store.Store = (*Store)(nil)

// Open 開啟（或建立）資料庫並執行 migrations。
func Open(ctx context.Context, path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errs.NewFatal("sqlite path is required")
	}
	dsn := "file:" + filepath.Clean(path) +
		"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)&_pragma=foreign_keys(ON)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errs.Wrap(err, "open sqlite db")
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, errs.Wrap(err, "ping sqlite db")
	}
	if err := applyMigrations(ctx, db, migrations.FS); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func millis(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UTC().UnixMilli()
}

func fromMillis(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}

// ====== PuzzleCache ======

func (s *Store) GetPuzzle(ctx context.Context, dateKey string) (puzzle.Puzzle, bool, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM cached_puzzles WHERE date_key = ?`, dateKey).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return puzzle.Puzzle{}, false, nil
	}
	if err != nil {
		return puzzle.Puzzle{}, false, errs.WrapWithExtra(err, "get cached puzzle", "date="+dateKey)
	}
	p, err := logiclab.DecodePuzzle([]byte(payload))
	if err != nil {
		return puzzle.Puzzle{}, false, errs.WrapWithExtra(err, "decode cached puzzle", "date="+dateKey)
	}
	return p, true, nil
}

func (s *Store) PutPuzzle(ctx context.Context, cp store.CachedPuzzle) error {
	if cp.DateKey == "" {
		return errs.NewWarn("date key is required")
	}
	raw, err := logiclab.EncodePuzzle(cp.Payload)
	if err != nil {
		return err
	}
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = time.Now()
	}
	_, err = s.db.ExecContext(ctx, `
INSERT INTO cached_puzzles (date_key, puzzle_id, puzzle_type, payload, created_at)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(date_key) DO UPDATE SET
	puzzle_id = excluded.puzzle_id,
	puzzle_type = excluded.puzzle_type,
	payload = excluded.payload
`, cp.DateKey, cp.PuzzleID, string(cp.PuzzleType), string(raw), millis(cp.CreatedAt))
	if err != nil {
		return errs.WrapWithExtra(err, "put cached puzzle", "date="+cp.DateKey)
	}
	return nil
}

// ====== ProgressStore ======

const progressCols = `user_id, date_key, puzzle_id, puzzle_type, snapshot, hints_used, attempts,
	score, time_taken_ms, started_at, solved_at, updated_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanProgress(row scanner) (store.Progress, error) {
	var (
		p                        store.Progress
		ptype, snap              string
		started, solved, updated int64
	)
	if err := row.Scan(&p.UserID, &p.DateKey, &p.PuzzleID, &ptype, &snap, &p.HintsUsed, &p.Attempts,
		&p.Score, &p.TimeTakenMs, &started, &solved, &updated); err != nil {
		return store.Progress{}, err
	}
	p.PuzzleType = puzzle.Type(ptype)
	if snap != "" {
		if err := json.Unmarshal([]byte(snap), &p.Snapshot); err != nil {
			return store.Progress{}, errs.WrapWithExtra(errs.NewWarn(err.Error()), "decode snapshot", p.DateKey)
		}
	}
	p.StartedAt = fromMillis(started)
	p.SolvedAt = fromMillis(solved)
	p.UpdatedAt = fromMillis(updated)
	return p, nil
}

func (s *Store) GetProgress(ctx context.Context, userID, dateKey string) (store.Progress, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+progressCols+` FROM daily_progress WHERE user_id = ? AND date_key = ?`, userID, dateKey)
	p, err := scanProgress(row)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Progress{}, errs.ErrNotFound
	}
	if err != nil {
		return store.Progress{}, errs.WrapWithExtra(err, "get progress", "user="+userID+" date="+dateKey)
	}
	return p, nil
}

func (s *Store) UpsertProgress(ctx context.Context, p store.Progress) error {
	if p.UserID == "" || p.DateKey == "" {
		return errs.NewWarn("user id and date key are required")
	}
	snap, err := json.Marshal(p.Snapshot)
	if err != nil {
		return errs.Wrap(err, "encode snapshot")
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = time.Now()
	}
	_, err = s.db.ExecContext(ctx, `
INSERT INTO daily_progress (`+progressCols+`)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(user_id, date_key) DO UPDATE SET
	puzzle_id = excluded.puzzle_id,
	puzzle_type = excluded.puzzle_type,
	snapshot = excluded.snapshot,
	hints_used = excluded.hints_used,
	attempts = excluded.attempts,
	score = excluded.score,
	time_taken_ms = excluded.time_taken_ms,
	started_at = excluded.started_at,
	solved_at = excluded.solved_at,
	updated_at = excluded.updated_at
`, p.UserID, p.DateKey, p.PuzzleID, string(p.PuzzleType), string(snap), p.HintsUsed, p.Attempts,
		p.Score, p.TimeTakenMs, millis(p.StartedAt), millis(p.SolvedAt), millis(p.UpdatedAt))
	if err != nil {
		return errs.WrapWithExtra(err, "upsert progress", "user="+p.UserID+" date="+p.DateKey)
	}
	return nil
}

func (s *Store) ListProgressSince(ctx context.Context, userID, sinceDateKey string) ([]store.Progress, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+progressCols+` FROM daily_progress
WHERE user_id = ? AND date_key >= ?
ORDER BY date_key ASC`, userID, sinceDateKey)
	if err != nil {
		return nil, errs.WrapWithExtra(err, "list progress", "user="+userID)
	}
	defer rows.Close()

	out := make([]store.Progress, 0, 8)
	for rows.Next() {
		p, err := scanProgress(rows)
		if err != nil {
			return nil, errs.WrapWithExtra(err, "scan progress", "user="+userID)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.WrapWithExtra(err, "iterate progress", "user="+userID)
	}
	return out, nil
}

// ====== ScoreStore ======

func (s *Store) RecordScore(ctx context.Context, ds store.DailyScore) (store.UserTotals, error) {
	ds, err := ds.Check()
	if err != nil {
		return store.UserTotals{}, err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return store.UserTotals{}, errs.Wrap(err, "begin record score")
	}
	defer func() { _ = tx.Rollback() }()

	var (
		old    int
		exists = true
	)
	err = tx.QueryRowContext(ctx, `SELECT score FROM daily_scores WHERE user_id = ? AND date = ?`, ds.UserID, ds.Date).Scan(&old)
	if errors.Is(err, sql.ErrNoRows) {
		exists = false
	} else if err != nil {
		return store.UserTotals{}, errs.Wrap(err, "read daily score")
	}

	if _, err := tx.ExecContext(ctx, `
INSERT INTO daily_scores (user_id, date, puzzle_id, score, time_taken_seconds)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(user_id, date) DO UPDATE SET
	puzzle_id = excluded.puzzle_id,
	score = excluded.score,
	time_taken_seconds = excluded.time_taken_seconds
`, ds.UserID, ds.Date, ds.PuzzleID, ds.Score, ds.TimeTakenSeconds); err != nil {
		return store.UserTotals{}, errs.Wrap(err, "upsert daily score")
	}

	delta, solved := ds.Score, 1
	if exists {
		delta, solved = ds.Score-old, 0
	}
	if _, err := tx.ExecContext(ctx, `
INSERT INTO user_totals (user_id, total_points, puzzles_solved, last_played)
VALUES (?, ?, ?, ?)
ON CONFLICT(user_id) DO UPDATE SET
	total_points = user_totals.total_points + ?,
	puzzles_solved = user_totals.puzzles_solved + ?,
	last_played = MAX(user_totals.last_played, excluded.last_played)
`, ds.UserID, delta, solved, ds.Date, delta, solved); err != nil {
		return store.UserTotals{}, errs.Wrap(err, "update user totals")
	}

	t, err := totals(ctx, tx, ds.UserID)
	if err != nil {
		return store.UserTotals{}, err
	}
	if err := tx.Commit(); err != nil {
		return store.UserTotals{}, errs.Wrap(err, "commit record score")
	}
	return t, nil
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func totals(ctx context.Context, q queryer, userID string) (store.UserTotals, error) {
	t := store.UserTotals{UserID: userID}
	err := q.QueryRowContext(ctx, `SELECT total_points, puzzles_solved, last_played FROM user_totals WHERE user_id = ?`, userID).
		Scan(&t.TotalPoints, &t.PuzzlesSolved, &t.LastPlayed)
	if errors.Is(err, sql.ErrNoRows) {
		return store.UserTotals{}, errs.ErrNotFound
	}
	if err != nil {
		return store.UserTotals{}, errs.WrapWithExtra(err, "read totals", "user="+userID)
	}
	return t, nil
}

func (s *Store) Totals(ctx context.Context, userID string) (store.UserTotals, error) {
	return totals(ctx, s.db, userID)
}
