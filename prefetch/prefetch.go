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

// Package prefetch 在背景把未來幾天的題目先產生好放進快取。
//
// 同一個日期鍵不論誰產生、產生幾次，寫入的內容都一樣，所以多個 sweep 重疊也安全。
package prefetch

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/zintix-labs/logiclab"
	"github.com/zintix-labs/logiclab/datekey"
	"github.com/zintix-labs/logiclab/server/logger"
	"github.com/zintix-labs/logiclab/store"
)

type Config struct {
	Days     int            // 往後幾天（含當天共 Days+1 天）
	Interval time.Duration  // 檢查換日的間隔
	Workers  int            // sweep 並行數
	Location *time.Location // 「今天」以哪個時區判斷
	Now      func() time.Time
	// OnRollover 在 Run 啟動與每次換日時以新的今天呼叫，可為 nil。
	OnRollover func(today string)
}

func (c *Config) normalize() {
	if c.Days < 0 {
		c.Days = 0
	}
	if c.Interval <= 0 {
		c.Interval = 30 * time.Second
	}
	if c.Workers <= 0 {
		c.Workers = 4
	}
	if c.Location == nil {
		c.Location = time.Local
	}
	if c.Now == nil {
		c.Now = time.Now
	}
}

// SweepStats 是一次 sweep 的結果。
type SweepStats struct {
	Checked   int `json:"checked"`
	Generated int `json:"generated"`
	Failed    int `json:"failed"`
}

// Scheduler 實作 app.Component。
type Scheduler struct {
	cache store.PuzzleCache
	cfg   Config
	log   *slog.Logger

	kick   chan string
	done   chan struct{}
	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

func New(cache store.PuzzleCache, cfg Config, log *slog.Logger) *Scheduler {
	cfg.normalize()
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cache:  cache,
		cfg:    cfg,
		log:    logger.OrDiscard(log).With("component", "prefetch"),
		kick:   make(chan string, 1),
		done:   make(chan struct{}),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Today 是設定時區的今天。
func (s *Scheduler) Today() string {
	return datekey.FromTime(s.cfg.Now(), s.cfg.Location)
}

// Sweep 確保 dateKey 起 Days+1 天都在快取中。
//
// 單一日期失敗只記 log 並計入 Failed，不中斷其他日期；只有日期鍵本身無效時回傳 error。
func (s *Scheduler) Sweep(ctx context.Context, dateKey string) (SweepStats, error) {
	keys, err := logiclab.PrecomputeNextDays(dateKey, s.cfg.Days)
	if err != nil {
		return SweepStats{}, err
	}

	ctx, span := otel.Tracer("logiclab/prefetch").Start(ctx, "prefetch.sweep")
	defer span.End()

	var generated, failed atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Workers)
	for _, k := range keys {
		g.Go(func() error {
			made, err := s.ensure(gctx, k)
			if err != nil {
				failed.Add(1)
				s.log.Warn("prefetch failed", "date", k, "err", err)
				return nil
			}
			if made {
				generated.Add(1)
			}
			return nil
		})
	}
	_ = g.Wait()

	st := SweepStats{Checked: len(keys), Generated: int(generated.Load()), Failed: int(failed.Load())}
	span.SetAttributes(
		attribute.String("logiclab.from", dateKey),
		attribute.Int("logiclab.checked", st.Checked),
		attribute.Int("logiclab.generated", st.Generated),
		attribute.Int("logiclab.failed", st.Failed),
	)
	s.log.Info("prefetch sweep", "from", dateKey, "checked", st.Checked, "generated", st.Generated, "failed", st.Failed)
	return st, nil
}

// ensure 回傳這次是否真的產生並寫入。
func (s *Scheduler) ensure(ctx context.Context, key string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	_, ok, err := s.cache.GetPuzzle(ctx, key)
	if err != nil {
		return false, err
	}
	if ok {
		return false, nil
	}
	p, _ := logiclab.GenerateDailyPuzzle(key)
	if err := s.cache.PutPuzzle(ctx, store.NewCachedPuzzle(p, s.cfg.Now())); err != nil {
		return false, err
	}
	s.log.Debug("prefetch cached", "date", key, "type", p.Type)
	return true, nil
}

// Kick 要求盡快從 dateKey 開始 sweep。不阻塞；已有待處理的要求時回傳 false。
func (s *Scheduler) Kick(dateKey string) bool {
	select {
	case s.kick <- dateKey:
		return true
	default:
		return false
	}
}

// Run 啟動時先 sweep 今天，之後每個 Interval 檢查是否換日，換日立即 sweep。
func (s *Scheduler) Run() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.wg.Add(1)
	s.mu.Unlock()
	defer s.wg.Done()

	today := s.Today()
	s.rollover(today)
	s.sweepLogged(today)

	t := time.NewTicker(s.cfg.Interval)
	defer t.Stop()
	for {
		select {
		case <-s.done:
			return nil
		case k := <-s.kick:
			s.sweepLogged(k)
		case <-t.C:
			if now := s.Today(); now != today {
				s.log.Info("date rolled over", "from", today, "to", now)
				today = now
				s.rollover(today)
				s.sweepLogged(today)
			}
		}
	}
}

func (s *Scheduler) rollover(today string) {
	if s.cfg.OnRollover != nil {
		s.cfg.OnRollover(today)
	}
}

func (s *Scheduler) sweepLogged(key string) {
	if _, err := s.Sweep(s.ctx, key); err != nil {
		s.log.Warn("prefetch sweep rejected", "date", key, "err", err)
	}
}

// Shutdown 停止 Run，並取消進行中的 sweep。
func (s *Scheduler) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	if !s.closed {
		s.closed = true
		close(s.done)
		s.cancel()
	}
	s.mu.Unlock()

	ch := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(ch)
	}()
	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
