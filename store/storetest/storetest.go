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

// Package storetest 是 store.Store 實作共用的合約測試。
package storetest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/zintix-labs/logiclab"
	"github.com/zintix-labs/logiclab/errs"
	"github.com/zintix-labs/logiclab/sdk/puzzle"
	"github.com/zintix-labs/logiclab/store"
)

// Run 對 open 回傳的新 store 跑完整合約。每個子測試各開一個。
func Run(t *testing.T, open func(t *testing.T) store.Store) {
	t.Run("PuzzleCache", func(t *testing.T) { puzzleCache(t, open(t)) })
	t.Run("Progress", func(t *testing.T) { progress(t, open(t)) })
	t.Run("ListSince", func(t *testing.T) { listSince(t, open(t)) })
	t.Run("Scores", func(t *testing.T) { scores(t, open(t)) })
}

var now = time.Date(2024, 2, 28, 9, 30, 0, 0, time.UTC)

func puzzleCache(t *testing.T, s store.Store) {
	ctx := context.Background()
	_, ok, err := s.GetPuzzle(ctx, "2024-02-28")
	require.NoError(t, err)
	require.False(t, ok)

	p, _ := logiclab.GenerateDailyPuzzle("2024-02-28")
	require.NoError(t, s.PutPuzzle(ctx, store.NewCachedPuzzle(p, now)))
	// 同一天重複寫入一定是同樣的值
	require.NoError(t, s.PutPuzzle(ctx, store.NewCachedPuzzle(p, now.Add(time.Hour))))

	got, ok, err := s.GetPuzzle(ctx, "2024-02-28")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, p, got)

	require.Error(t, s.PutPuzzle(ctx, store.CachedPuzzle{}))
}

func progress(t *testing.T, s store.Store) {
	ctx := context.Background()
	_, err := s.GetProgress(ctx, "u1", "2024-02-28")
	require.True(t, errors.Is(err, errs.ErrNotFound), "want ErrNotFound, got %v", err)

	status := puzzle.Wrong(puzzle.MsgNotQuite)
	p := store.Progress{
		UserID:     "u1",
		DateKey:    "2024-02-28",
		PuzzleID:   "2024-02-28:sequence",
		PuzzleType: puzzle.Sequence,
		Snapshot:   store.Snapshot{Answer: "18", HintsUsed: 1, Status: &status},
		HintsUsed:  1,
		Attempts:   1,
		StartedAt:  now,
		UpdatedAt:  now,
	}
	require.NoError(t, s.UpsertProgress(ctx, p))

	got, err := s.GetProgress(ctx, "u1", "2024-02-28")
	require.NoError(t, err)
	require.False(t, got.Solved())
	require.Equal(t, p.Snapshot, got.Snapshot)
	require.Equal(t, 1, got.Attempts)
	require.True(t, got.StartedAt.Equal(now))

	p.Attempts = 2
	p.Score = 840
	p.TimeTakenMs = 42_000
	p.SolvedAt = now.Add(42 * time.Second)
	ok := puzzle.Correct()
	p.Snapshot.Status = &ok
	require.NoError(t, s.UpsertProgress(ctx, p))

	got, err = s.GetProgress(ctx, "u1", "2024-02-28")
	require.NoError(t, err)
	require.True(t, got.Solved())
	require.Equal(t, 840, got.Score)
	require.Equal(t, int64(42_000), got.TimeTakenMs)
	require.True(t, got.SolvedAt.Equal(p.SolvedAt))
	require.Equal(t, puzzle.MsgCorrect, got.Snapshot.Status.Message)

	require.Error(t, s.UpsertProgress(ctx, store.Progress{DateKey: "2024-02-28"}))
}

func listSince(t *testing.T, s store.Store) {
	ctx := context.Background()
	for _, k := range []string{"2024-03-01", "2024-02-27", "2024-02-29", "2024-02-28"} {
		require.NoError(t, s.UpsertProgress(ctx, store.Progress{UserID: "u1", DateKey: k, PuzzleID: k + ":x", StartedAt: now}))
	}
	require.NoError(t, s.UpsertProgress(ctx, store.Progress{UserID: "u2", DateKey: "2024-03-01", StartedAt: now}))

	got, err := s.ListProgressSince(ctx, "u1", "2024-02-28")
	require.NoError(t, err)
	keys := make([]string, 0, len(got))
	for _, p := range got {
		keys = append(keys, p.DateKey)
	}
	require.Equal(t, []string{"2024-02-28", "2024-02-29", "2024-03-01"}, keys)

	none, err := s.ListProgressSince(ctx, "nobody", "2000-01-01")
	require.NoError(t, err)
	require.Empty(t, none)
}

func scores(t *testing.T, s store.Store) {
	ctx := context.Background()
	_, err := s.Totals(ctx, "u1")
	require.True(t, errors.Is(err, errs.ErrNotFound))

	tot, err := s.RecordScore(ctx, store.DailyScore{UserID: "u1", Date: "2024-02-28", PuzzleID: "2024-02-28:binary", Score: 470, TimeTakenSeconds: 65})
	require.NoError(t, err)
	require.Equal(t, store.UserTotals{UserID: "u1", TotalPoints: 470, PuzzlesSolved: 1, LastPlayed: "2024-02-28"}, tot)

	tot, err = s.RecordScore(ctx, store.DailyScore{UserID: "u1", Date: "2024-02-29", PuzzleID: "2024-02-29:matrix", Score: 900, TimeTakenSeconds: 20})
	require.NoError(t, err)
	require.Equal(t, 1370, tot.TotalPoints)
	require.Equal(t, 2, tot.PuzzlesSolved)
	require.Equal(t, "2024-02-29", tot.LastPlayed)

	// 同一天再送一次：取代，不重複累計
	tot, err = s.RecordScore(ctx, store.DailyScore{UserID: "u1", Date: "2024-02-28", PuzzleID: "2024-02-28:binary", Score: 500, TimeTakenSeconds: 60})
	require.NoError(t, err)
	require.Equal(t, 1400, tot.TotalPoints)
	require.Equal(t, 2, tot.PuzzlesSolved)
	require.Equal(t, "2024-02-29", tot.LastPlayed)

	got, err := s.Totals(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, tot, got)

	_, err = s.RecordScore(ctx, store.DailyScore{UserID: "u1"})
	require.Error(t, err)
	require.True(t, errs.IsWarn(err))
}
