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

package app

import (
	"context"
	"sync"
)

// Component 是可啟動、可關閉的長生命週期元件。
//   - Run 阻塞到元件停止為止。
//   - Shutdown 要求優雅關閉，需尊重 ctx 的期限。
type Component interface {
	Run() error
	Shutdown(ctx context.Context) error
}

// Hook 是沒有背景工作、只在關閉時做事的 Component（例如關閉資料庫、flush trace）。
// Run 阻塞到 Shutdown 被呼叫為止。
type Hook struct {
	fn   func(ctx context.Context) error
	done chan struct{}
	once sync.Once
}

func OnShutdown(fn func(ctx context.Context) error) *Hook {
	return &Hook{fn: fn, done: make(chan struct{})}
}

func (h *Hook) Run() error {
	<-h.done
	return nil
}

// Shutdown 只執行一次 fn。
func (h *Hook) Shutdown(ctx context.Context) error {
	var err error
	h.once.Do(func() {
		close(h.done)
		if h.fn != nil {
			err = h.fn(ctx)
		}
	})
	return err
}
