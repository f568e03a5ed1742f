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

// Package scoresync 把解出的每日成績送到遠端計分端點。
//
// 規則：
//   - 每個 (userID, dateKey) 最多送一次（Latch），成功失敗都一樣。
//   - 送出是非同步的，有逾時；失敗只記 warn log，不重試、不回報給玩家。
package scoresync

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"

	"github.com/zintix-labs/logiclab/datekey"
	"github.com/zintix-labs/logiclab/errs"
	"github.com/zintix-labs/logiclab/server/logger"
	"github.com/zintix-labs/logiclab/store"
)

// Record 是送出的內容，與 POST /v1/scores 的本體相同。
type Record = store.DailyScore

// Submitter 負責實際送出。
type Submitter interface {
	Submit(ctx context.Context, rec Record) error
}

// Nop 什麼都不做（未設定端點時）。
type Nop struct{}

func (Nop) Submit(context.Context, Record) error { return nil }

// ====== Latch ======

type latchKey struct {
	user string
	date string
}

// Latch 是 at-most-once 閂鎖。零值可用。
type Latch struct {
	mu   sync.Mutex
	seen map[latchKey]struct{}
}

// TryAcquire 第一次呼叫回傳 true，之後同一組 key 一律 false。
func (l *Latch) TryAcquire(userID, dateKey string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.seen == nil {
		l.seen = make(map[latchKey]struct{}, 64)
	}
	k := latchKey{userID, dateKey}
	if _, ok := l.seen[k]; ok {
		return false
	}
	l.seen[k] = struct{}{}
	return true
}

// Forget 清掉 dateKey < before 的紀錄，回傳清掉的筆數。
func (l *Latch) Forget(before string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for k := range l.seen {
		if k.date < before {
			delete(l.seen, k)
			n++
		}
	}
	return n
}

// Len 是目前保留的紀錄數。
func (l *Latch) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.seen)
}

// ====== HTTPSubmitter ======

// HTTPSubmitter 以 JSON POST 到 Endpoint。非 2xx 視為失敗，錯誤訊息取回應的 "error" 欄位。
type HTTPSubmitter struct {
	Endpoint string
	Client   *http.Client
}

func NewHTTPSubmitter(endpoint string, client *http.Client) *HTTPSubmitter {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &HTTPSubmitter{Endpoint: strings.TrimRight(endpoint, "/"), Client: client}
}

func (h *HTTPSubmitter) Submit(ctx context.Context, rec Record) error {
	body, err := json.Marshal(rec)
	if err != nil {
		return errs.Wrap(err, "encode score record")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.Endpoint, bytes.NewReader(body))
	if err != nil {
		return errs.Wrap(err, "build score request")
	}
	req.Header.Set("Content-Type", "application/json")
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := h.Client.Do(req)
	if err != nil {
		return errs.Wrap(err, "post score")
	}
	defer resp.Body.Close()
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e struct {
			Error string `json:"error"`
		}
		msg := "request failed (" + resp.Status + ")"
		if json.Unmarshal(raw, &e) == nil && e.Error != "" {
			msg = e.Error
		}
		return errs.NewWithExtra(errs.Warn, "score endpoint rejected record", msg)
	}
	return nil
}

// ====== Dispatcher ======

// Dispatcher 串起 Latch 與 Submitter。實作 app.Component：Shutdown 會等進行中的送出。
type Dispatcher struct {
	latch   *Latch
	sub     Submitter
	timeout time.Duration
	log     *slog.Logger

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
	done   chan struct{}
}

func NewDispatcher(sub Submitter, timeout time.Duration, log *slog.Logger) *Dispatcher {
	if sub == nil {
		sub = Nop{}
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Dispatcher{
		latch:   &Latch{},
		sub:     sub,
		timeout: timeout,
		log:     logger.OrDiscard(log).With("component", "scoresync"),
		done:    make(chan struct{}),
	}
}

// Fire 在背景送出 rec。同一個 (UserID, Date) 第二次呼叫回傳 false 且不送。
func (d *Dispatcher) Fire(rec Record) bool {
	d.mu.Lock()
	if d.closed || !d.latch.TryAcquire(rec.UserID, rec.Date) {
		d.mu.Unlock()
		return false
	}
	d.wg.Add(1)
	d.mu.Unlock()

	go func() {
		defer d.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()

		ctx, span := otel.Tracer("logiclab/scoresync").Start(ctx, "scoresync.submit")
		span.SetAttributes(
			attribute.String("logiclab.user_id", rec.UserID),
			attribute.String("logiclab.date_key", rec.Date),
			attribute.Int("logiclab.score", rec.Score),
		)
		defer span.End()

		if err := d.sub.Submit(ctx, rec); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "submit failed")
			d.log.Warn("score submit failed", "user", rec.UserID, "date", rec.Date, "err", err)
			return
		}
		d.log.Debug("score submitted", "user", rec.UserID, "date", rec.Date, "score", rec.Score)
	}()
	return true
}

// Prune 清掉早於 today 前一天的閂鎖紀錄，回傳清掉的筆數。today 無效時不動作。
//
// 昨天的紀錄保留，跨午夜才解出的玩家仍只會送一次。
func (d *Dispatcher) Prune(today string) int {
	yesterday, err := datekey.AddDays(today, -1)
	if err != nil {
		return 0
	}
	n := d.latch.Forget(yesterday)
	if n > 0 {
		d.log.Debug("score latch pruned", "before", yesterday, "dropped", n)
	}
	return n
}

// Wait 等所有進行中的送出結束。
func (d *Dispatcher) Wait() { d.wg.Wait() }

func (d *Dispatcher) Run() error {
	<-d.done
	return nil
}

func (d *Dispatcher) Shutdown(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.done)
	}
	d.mu.Unlock()

	ch := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(ch)
	}()
	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		return errs.Wrap(ctx.Err(), "scoresync shutdown")
	}
}
