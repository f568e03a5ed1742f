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

// Package memstore 是 store.Store 的記憶體實作。
package memstore

import (
	"context"
	"sort"
	"sync"

	"github.com/zintix-labs/logiclab/errs"
	"github.com/zintix-labs/logiclab/sdk/puzzle"
	"github.com/zintix-labs/logiclab/store"
)

type progressKey struct {
	user string
	date string
}

type Store struct {
	mu       sync.RWMutex
	puzzles  map[string]store.CachedPuzzle
	progress map[progressKey]store.Progress
	daily    map[progressKey]store.DailyScore
	totals   map[string]store.UserTotals
}

var _ store.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		puzzles:  make(map[string]store.CachedPuzzle, 16),
		progress: make(map[progressKey]store.Progress, 64),
		daily:    make(map[progressKey]store.DailyScore, 64),
		totals:   make(map[string]store.UserTotals, 16),
	}
}

func (s *Store) Close() error { return nil }

func (s *Store) GetPuzzle(ctx context.Context, dateKey string) (puzzle.Puzzle, bool, error) {
	if err := ctx.Err(); err != nil {
		return puzzle.Puzzle{}, false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	cp, ok := s.puzzles[dateKey]
	return cp.Payload, ok, nil
}

func (s *Store) PutPuzzle(ctx context.Context, cp store.CachedPuzzle) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if cp.DateKey == "" {
		return errs.NewWarn("date key is required")
	}
	s.mu.Lock()
	s.puzzles[cp.DateKey] = cp
	s.mu.Unlock()
	return nil
}

func (s *Store) GetProgress(ctx context.Context, userID, dateKey string) (store.Progress, error) {
	if err := ctx.Err(); err != nil {
		return store.Progress{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.progress[progressKey{userID, dateKey}]
	if !ok {
		return store.Progress{}, errs.ErrNotFound
	}
	return p, nil
}

func (s *Store) UpsertProgress(ctx context.Context, p store.Progress) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if p.UserID == "" || p.DateKey == "" {
		return errs.NewWarn("user id and date key are required")
	}
	s.mu.Lock()
	s.progress[progressKey{p.UserID, p.DateKey}] = p
	s.mu.Unlock()
	return nil
}

func (s *Store) ListProgressSince(ctx context.Context, userID, sinceDateKey string) ([]store.Progress, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	out := make([]store.Progress, 0, 8)
	for k, p := range s.progress {
		if k.user == userID && k.date >= sinceDateKey {
			out = append(out, p)
		}
	}
	s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].DateKey < out[j].DateKey })
	return out, nil
}

func (s *Store) RecordScore(ctx context.Context, ds store.DailyScore) (store.UserTotals, error) {
	if err := ctx.Err(); err != nil {
		return store.UserTotals{}, err
	}
	ds, err := ds.Check()
	if err != nil {
		return store.UserTotals{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	k := progressKey{ds.UserID, ds.Date}
	t := s.totals[ds.UserID]
	t.UserID = ds.UserID
	if old, ok := s.daily[k]; ok {
		t.TotalPoints += ds.Score - old.Score
	} else {
		t.TotalPoints += ds.Score
		t.PuzzlesSolved++
	}
	if ds.Date > t.LastPlayed {
		t.LastPlayed = ds.Date
	}
	s.daily[k] = ds
	s.totals[ds.UserID] = t
	return t, nil
}

func (s *Store) Totals(ctx context.Context, userID string) (store.UserTotals, error) {
	if err := ctx.Err(); err != nil {
		return store.UserTotals{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.totals[userID]
	if !ok {
		return store.UserTotals{}, errs.ErrNotFound
	}
	return t, nil
}
