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

package logger

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
)

// AsyncHandler 把任意 slog.Handler 包成非阻塞：
//   - Handle 只把 record 丟進 channel，由背景 goroutine 寫出
//   - channel 滿了就丟棄並計數，不把 I/O 延遲帶回請求路徑
//   - Close 之後的新 record 一律丟棄；Close 會等 buffer 寫完
//
// WithAttrs / WithGroup 產生的 handler 共用同一個 queue。
type AsyncHandler struct {
	next slog.Handler
	q    *queue
}

type queue struct {
	ch      chan entry
	done    chan struct{}
	once    sync.Once
	wg      sync.WaitGroup
	dropped atomic.Uint64
}

type entry struct {
	ctx context.Context
	rec slog.Record
	h   slog.Handler
}

func NewAsyncHandler(next slog.Handler, buf int) *AsyncHandler {
	if next == nil {
		next = handlerFor(ModeDev)
	}
	if buf <= 0 {
		buf = 1024
	}
	q := &queue{ch: make(chan entry, buf), done: make(chan struct{})}
	q.wg.Add(1)
	go q.loop()
	return &AsyncHandler{next: next, q: q}
}

func (q *queue) loop() {
	defer q.wg.Done()
	for {
		select {
		case e := <-q.ch:
			_ = e.h.Handle(e.ctx, e.rec)
		case <-q.done:
			q.drain()
			return
		}
	}
}

func (q *queue) drain() {
	for {
		select {
		case e := <-q.ch:
			_ = e.h.Handle(e.ctx, e.rec)
		default:
			return
		}
	}
}

// Dropped 是因 buffer 滿或已關閉而丟棄的筆數。
func (h *AsyncHandler) Dropped() uint64 {
	if h == nil || h.q == nil {
		return 0
	}
	return h.q.dropped.Load()
}

// Close 停止接收並等 buffer 寫完。可重複呼叫。
func (h *AsyncHandler) Close() {
	if h == nil || h.q == nil {
		return
	}
	h.q.once.Do(func() { close(h.q.done) })
	h.q.wg.Wait()
}

func (h *AsyncHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *AsyncHandler) Handle(ctx context.Context, r slog.Record) error {
	if h == nil || h.q == nil {
		return nil
	}
	select {
	case <-h.q.done:
		h.q.dropped.Add(1)
		return nil
	default:
	}
	// Clone：attrs 會跨 goroutine
	select {
	case h.q.ch <- entry{ctx: ctx, rec: r.Clone(), h: h.next}:
	default:
		h.q.dropped.Add(1)
	}
	return nil
}

func (h *AsyncHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &AsyncHandler{next: h.next.WithAttrs(attrs), q: h.q}
}

func (h *AsyncHandler) WithGroup(name string) slog.Handler {
	return &AsyncHandler{next: h.next.WithGroup(name), q: h.q}
}
