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

// Package store 定義外殼的持久化合約：題目快取、每日進度與成績。
//
// 解答永遠不寫入任何 store；需要時由 logiclab.GenerateDailyPuzzle 重新產生。
// 實作：memstore（記憶體，測試與無 DBPath 時使用）與 sqlite（modernc.org/sqlite）。
package store

import (
	"context"
	"strings"
	"time"

	"github.com/zintix-labs/logiclab/errs"
	"github.com/zintix-labs/logiclab/sdk/puzzle"
)

// CachedPuzzle 是快取中的一筆公開題目。
type CachedPuzzle struct {
	DateKey    string        `json:"dateKey"`
	PuzzleID   string        `json:"puzzleId"`
	PuzzleType puzzle.Type   `json:"puzzleType"`
	Payload    puzzle.Puzzle `json:"payload"`
	CreatedAt  time.Time     `json:"createdAt"`
}

// NewCachedPuzzle 由題目建立快取列。
func NewCachedPuzzle(p puzzle.Puzzle, now time.Time) CachedPuzzle {
	return CachedPuzzle{
		DateKey:    p.DateKey,
		PuzzleID:   p.ID,
		PuzzleType: p.Type,
		Payload:    p,
		CreatedAt:  now,
	}
}

// Snapshot 是玩家畫面的最後狀態（最後一次答案、提示數、最後一次判定）。
type Snapshot struct {
	Answer    puzzle.Answer  `json:"answer,omitempty"`
	HintsUsed int            `json:"hintsUsed"`
	Status    *puzzle.Result `json:"status,omitempty"`
}

// Progress 是某使用者某一天的解題進度，以 (UserID, DateKey) 為鍵。
type Progress struct {
	UserID      string      `json:"userId"`
	DateKey     string      `json:"dateKey"`
	PuzzleID    string      `json:"puzzleId"`
	PuzzleType  puzzle.Type `json:"puzzleType"`
	Snapshot    Snapshot    `json:"snapshot"`
	HintsUsed   int         `json:"hintsUsed"`
	Attempts    int         `json:"attempts"`
	Score       int         `json:"score"`
	TimeTakenMs int64       `json:"timeTakenMs"`
	StartedAt   time.Time   `json:"startedAt"`
	SolvedAt    time.Time   `json:"solvedAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

// Solved 以 SolvedAt 是否有值判斷。
func (p Progress) Solved() bool { return !p.SolvedAt.IsZero() }

// DailyScore 是一筆每日成績（對應遠端計分端點的紀錄）。
type DailyScore struct {
	UserID           string `json:"userId"`
	Date             string `json:"date"`
	PuzzleID         string `json:"puzzleId"`
	Score            int    `json:"score"`
	TimeTakenSeconds int    `json:"timeTakenSeconds"`
}

// Check 檢查必要欄位並清掉前後空白。
func (s DailyScore) Check() (DailyScore, error) {
	s.UserID = strings.TrimSpace(s.UserID)
	s.Date = strings.TrimSpace(s.Date)
	s.PuzzleID = strings.TrimSpace(s.PuzzleID)
	if s.UserID == "" || s.Date == "" || s.PuzzleID == "" {
		return s, errs.NewWarn("userId, date, puzzleId are required")
	}
	if s.Score < 0 || s.TimeTakenSeconds < 0 {
		return s, errs.Warnf("score and timeTakenSeconds must be >= 0")
	}
	return s, nil
}

// UserTotals 是使用者累計。
type UserTotals struct {
	UserID        string `json:"userId"`
	TotalPoints   int    `json:"totalPoints"`
	PuzzlesSolved int    `json:"puzzlesSolved"`
	LastPlayed    string `json:"lastPlayed"`
}

// PuzzleCache 是題目快取。同一個 DateKey 寫入的內容一定相同，重複寫入是安全的。
type PuzzleCache interface {
	GetPuzzle(ctx context.Context, dateKey string) (puzzle.Puzzle, bool, error)
	PutPuzzle(ctx context.Context, cp CachedPuzzle) error
}

// ProgressStore 保存每日進度。GetProgress 找不到時回傳 errs.ErrNotFound。
type ProgressStore interface {
	GetProgress(ctx context.Context, userID, dateKey string) (Progress, error)
	UpsertProgress(ctx context.Context, p Progress) error
	// ListProgressSince 回傳 dateKey >= sinceDateKey 的進度，依日期升冪。
	ListProgressSince(ctx context.Context, userID, sinceDateKey string) ([]Progress, error)
}

// ScoreStore 保存每日成績與累計。
//
// RecordScore 以 (UserID, Date) upsert：
//   - 新的一天：累計分數加上本次分數，解題數 +1。
//   - 同一天再送：以新分數取代舊分數（累計只加差額），解題數不變。
type ScoreStore interface {
	RecordScore(ctx context.Context, s DailyScore) (UserTotals, error)
	Totals(ctx context.Context, userID string) (UserTotals, error)
}

// Store 是三者的組合，另加 Close。
type Store interface {
	PuzzleCache
	ProgressStore
	ScoreStore
	Close() error
}
