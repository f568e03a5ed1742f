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

// Package session 是玩家一天的解題流程：載入題目、作答、提示、歷史。
//
// 狀態全部存在 store.ProgressStore，每次呼叫都明確讀出再寫回，Service 本身不保存玩家狀態。
package session

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/zintix-labs/logiclab"
	"github.com/zintix-labs/logiclab/datekey"
	"github.com/zintix-labs/logiclab/errs"
	"github.com/zintix-labs/logiclab/history"
	"github.com/zintix-labs/logiclab/scoresync"
	"github.com/zintix-labs/logiclab/sdk/core"
	"github.com/zintix-labs/logiclab/sdk/puzzle"
	"github.com/zintix-labs/logiclab/server/logger"
	"github.com/zintix-labs/logiclab/store"
)

const DefaultMaxHints = 3

// Kicker 由 prefetch.Scheduler 實作。
type Kicker interface {
	Kick(dateKey string) bool
}

// Firer 由 scoresync.Dispatcher 實作。
type Firer interface {
	Fire(rec scoresync.Record) bool
}

type Deps struct {
	Cache    store.PuzzleCache
	Progress store.ProgressStore
	Prefetch Kicker // 可為 nil
	Scores   Firer  // 可為 nil
	MaxHints int
	Now      func() time.Time
	Log      *slog.Logger
}

type Service struct {
	cache    store.PuzzleCache
	progress store.ProgressStore
	prefetch Kicker
	scores   Firer
	maxHints int
	now      func() time.Time
	log      *slog.Logger

	locks [lockStripes]sync.Mutex
}

// lockStripes 個互斥鎖依 (user, date) 雜湊分條，數量固定不隨玩家成長。
const lockStripes = 256

func New(d Deps) *Service {
	if d.MaxHints <= 0 {
		d.MaxHints = DefaultMaxHints
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	return &Service{
		cache:    d.Cache,
		progress: d.Progress,
		prefetch: d.Prefetch,
		scores:   d.Scores,
		maxHints: d.MaxHints,
		now:      d.Now,
		log:      logger.OrDiscard(d.Log).With("component", "session"),
	}
}

// View 是給玩家看的狀態，不含解答。
type View struct {
	Puzzle    puzzle.Puzzle  `json:"puzzle"`
	Answer    puzzle.Answer  `json:"answer,omitempty"`
	HintsUsed int            `json:"hintsUsed"`
	HintsLeft int            `json:"hintsLeft"`
	Attempts  int            `json:"attempts"`
	Status    *puzzle.Result `json:"status,omitempty"`
	Solved    bool           `json:"solved"`
	Score     int            `json:"score"`
	StartedAt time.Time      `json:"startedAt"`
}

// Outcome 是一次作答的結果。
type Outcome struct {
	Result      puzzle.Result `json:"result"`
	Attempts    int           `json:"attempts"`
	Solved      bool          `json:"solved"`
	Score       int           `json:"score"`
	TimeTakenMs int64         `json:"timeTakenMs"`
}

// HintOutcome 是一次提示的結果。
type HintOutcome struct {
	Hint      string `json:"hint"`
	HintsUsed int    `json:"hintsUsed"`
	HintsLeft int    `json:"hintsLeft"`
}

func (s *Service) stripe(userID, dateKey string) *sync.Mutex {
	h := uint32(core.HashToSeed(userID + "\x00" + dateKey))
	return &s.locks[h%lockStripes]
}

func (s *Service) lock(userID, dateKey string) func() {
	mu := s.stripe(userID, dateKey)
	mu.Lock()
	return mu.Unlock
}

func checkArgs(userID, dateKey string) error {
	if strings.TrimSpace(userID) == "" {
		return errs.NewWarn("user id is required")
	}
	if !datekey.Valid(dateKey) {
		return errs.WrapWithExtra(errs.ErrInvalidDateKey, "session", "date="+dateKey)
	}
	return nil
}

// Puzzle 回傳當天公開題目與重新產生的解答。快取命中時用快取的題目；
// 未命中就產生並寫入快取（寫入失敗只記 log）。
func (s *Service) Puzzle(ctx context.Context, dateKey string) (puzzle.Puzzle, puzzle.Solution, error) {
	if !datekey.Valid(dateKey) {
		return puzzle.Puzzle{}, nil, errs.WrapWithExtra(errs.ErrInvalidDateKey, "load puzzle", "date="+dateKey)
	}
	defer s.kick(dateKey)

	gen, sol := logiclab.GenerateDailyPuzzle(dateKey)
	if s.cache == nil {
		return gen, sol, nil
	}
	p, ok, err := s.cache.GetPuzzle(ctx, dateKey)
	if err != nil {
		s.log.Warn("puzzle cache read failed", "date", dateKey, "err", err)
	}
	if ok {
		s.log.Debug("puzzle cache hit", "date", dateKey)
		return p, sol, nil
	}
	s.log.Debug("puzzle cache miss", "date", dateKey)
	if err := s.cache.PutPuzzle(ctx, store.NewCachedPuzzle(gen, s.now())); err != nil {
		s.log.Warn("puzzle cache write failed", "date", dateKey, "err", err)
	}
	return gen, sol, nil
}

func (s *Service) kick(dateKey string) {
	if s.prefetch != nil {
		s.prefetch.Kick(dateKey)
	}
}

// loadProgress 讀出進度；沒有就建立新的一天並寫入。
func (s *Service) loadProgress(ctx context.Context, userID string, p puzzle.Puzzle) (store.Progress, error) {
	pr, err := s.progress.GetProgress(ctx, userID, p.DateKey)
	if err == nil {
		return pr, nil
	}
	if !errors.Is(err, errs.ErrNotFound) {
		return store.Progress{}, errs.Wrap(err, "load progress")
	}
	now := s.now()
	pr = store.Progress{
		UserID:     userID,
		DateKey:    p.DateKey,
		PuzzleID:   p.ID,
		PuzzleType: p.Type,
		StartedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.progress.UpsertProgress(ctx, pr); err != nil {
		return store.Progress{}, errs.Wrap(err, "create progress")
	}
	return pr, nil
}

func (s *Service) view(p puzzle.Puzzle, pr store.Progress) View {
	return View{
		Puzzle:    p,
		Answer:    pr.Snapshot.Answer,
		HintsUsed: pr.HintsUsed,
		HintsLeft: max(0, s.maxHints-pr.HintsUsed),
		Attempts:  pr.Attempts,
		Status:    pr.Snapshot.Status,
		Solved:    pr.Solved(),
		Score:     pr.Score,
		StartedAt: pr.StartedAt,
	}
}

// Load 回傳玩家當天的畫面狀態。
func (s *Service) Load(ctx context.Context, userID, dateKey string) (View, error) {
	if err := checkArgs(userID, dateKey); err != nil {
		return View{}, err
	}
	p, _, err := s.Puzzle(ctx, dateKey)
	if err != nil {
		return View{}, err
	}
	unlock := s.lock(userID, dateKey)
	defer unlock()
	pr, err := s.loadProgress(ctx, userID, p)
	if err != nil {
		return View{}, err
	}
	return s.view(p, pr), nil
}

// Submit 檢查答案。已解出的日子直接回傳原結果，不再計算次數。
func (s *Service) Submit(ctx context.Context, userID, dateKey string, answer puzzle.Answer) (Outcome, error) {
	if err := checkArgs(userID, dateKey); err != nil {
		return Outcome{}, err
	}
	p, sol, err := s.Puzzle(ctx, dateKey)
	if err != nil {
		return Outcome{}, err
	}
	unlock := s.lock(userID, dateKey)
	defer unlock()
	pr, err := s.loadProgress(ctx, userID, p)
	if err != nil {
		return Outcome{}, err
	}
	if pr.Solved() {
		res := puzzle.Correct()
		if pr.Snapshot.Status != nil {
			res = *pr.Snapshot.Status
		}
		return Outcome{Result: res, Attempts: pr.Attempts, Solved: true, Score: pr.Score, TimeTakenMs: pr.TimeTakenMs}, nil
	}

	now := s.now()
	pr.Attempts++
	res := logiclab.ValidateAnswer(p, sol, answer)
	pr.Snapshot = store.Snapshot{Answer: answer, HintsUsed: pr.HintsUsed, Status: &res}
	pr.UpdatedAt = now
	if res.OK {
		elapsed := max(0, now.Sub(pr.StartedAt).Milliseconds())
		pr.TimeTakenMs = elapsed
		pr.SolvedAt = now
		pr.Score = logiclab.ComputeScore(logiclab.ScoreInput{
			Solved:      true,
			HintsUsed:   pr.HintsUsed,
			Attempts:    pr.Attempts,
			TimeTakenMs: elapsed,
		})
	}
	if err := s.progress.UpsertProgress(ctx, pr); err != nil {
		return Outcome{}, errs.Wrap(err, "save progress")
	}

	if res.OK && s.scores != nil {
		s.scores.Fire(scoresync.Record{
			UserID:           userID,
			Date:             dateKey,
			PuzzleID:         p.ID,
			Score:            pr.Score,
			TimeTakenSeconds: int(math.Round(float64(pr.TimeTakenMs) / 1000)),
		})
	}
	return Outcome{Result: res, Attempts: pr.Attempts, Solved: res.OK, Score: pr.Score, TimeTakenMs: pr.TimeTakenMs}, nil
}

// Hint 回傳下一則提示。提示內容以使用前的次數計算，之後次數 +1。
func (s *Service) Hint(ctx context.Context, userID, dateKey string) (HintOutcome, error) {
	if err := checkArgs(userID, dateKey); err != nil {
		return HintOutcome{}, err
	}
	p, sol, err := s.Puzzle(ctx, dateKey)
	if err != nil {
		return HintOutcome{}, err
	}
	unlock := s.lock(userID, dateKey)
	defer unlock()
	pr, err := s.loadProgress(ctx, userID, p)
	if err != nil {
		return HintOutcome{}, err
	}
	if pr.HintsUsed >= s.maxHints {
		return HintOutcome{}, errs.WrapWithExtra(errs.ErrNoHintsLeft, "hint", "date="+dateKey)
	}

	text := logiclab.GetHint(p, sol, pr.HintsUsed)
	pr.HintsUsed++
	pr.Snapshot.HintsUsed = pr.HintsUsed
	pr.UpdatedAt = s.now()
	if err := s.progress.UpsertProgress(ctx, pr); err != nil {
		return HintOutcome{}, errs.Wrap(err, "save progress")
	}
	return HintOutcome{Hint: text, HintsUsed: pr.HintsUsed, HintsLeft: s.maxHints - pr.HintsUsed}, nil
}

// History 回傳 today 往前 daysBack 天的熱度圖與連續天數。daysBack < 0 用預設值。
func (s *Service) History(ctx context.Context, userID, today string, daysBack int) (history.Summary, error) {
	if err := checkArgs(userID, today); err != nil {
		return history.Summary{}, err
	}
	if daysBack < 0 {
		daysBack = history.DefaultDaysBack
	}
	since, err := datekey.AddDays(today, -daysBack)
	if err != nil {
		return history.Summary{}, err
	}
	ps, err := s.progress.ListProgressSince(ctx, userID, since)
	if err != nil {
		return history.Summary{}, errs.Wrap(err, "list progress")
	}
	return history.Summarize(today, daysBack, history.FromProgress(ps))
}
