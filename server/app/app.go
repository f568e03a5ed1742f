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

// Package app 管理長期運行的元件（HTTP server、預取排程、成績送出），統一啟動與關閉。
package app

import (
	"context"
	"errors"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/zintix-labs/logiclab/server/logger"
)

const DefaultShutdownTimeout = 5 * time.Second

// App 啟動所有 Component，收到 SIGINT/SIGTERM、ctx 結束或任一元件返回時，
// 依註冊順序關閉全部元件。
type App struct {
	comps   []Component
	log     *slog.Logger
	timeout time.Duration
}

func New(log *slog.Logger) *App {
	return &App{log: logger.OrDiscard(log), timeout: DefaultShutdownTimeout}
}

// NewWith 建立 App 並依序註冊元件。
func NewWith(log *slog.Logger, comps ...Component) *App {
	a := New(log)
	for _, c := range comps {
		a.Register(c)
	}
	return a
}

// Register 註冊元件。HTTP server 應最先註冊（先停止收請求），資源關閉 hook 最後註冊。
func (a *App) Register(c Component) {
	if c != nil {
		a.comps = append(a.comps, c)
	}
}

// SetShutdownTimeout 調整優雅關閉的期限；<= 0 忽略。
func (a *App) SetShutdownTimeout(d time.Duration) {
	if d > 0 {
		a.timeout = d
	}
}

// Run 等同 RunContext(context.Background())，並監聽 SIGINT/SIGTERM。
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return a.RunContext(ctx)
}

// RunContext 阻塞直到 ctx 結束（回傳 nil）或任一元件的 Run 返回（回傳其錯誤）。
// 元件正常結束（nil）也會觸發整體關閉。
func (a *App) RunContext(ctx context.Context) error {
	if len(a.comps) == 0 {
		return errors.New("app: no components registered")
	}
	errCh := make(chan error, len(a.comps))
	for _, c := range a.comps {
		go func(c Component) {
			errCh <- c.Run()
		}(c)
	}

	var err error
	select {
	case <-ctx.Done():
		a.log.Info("shutdown requested")
	case err = <-errCh:
		if err != nil {
			a.log.Error("component stopped", "err", err)
		} else {
			a.log.Info("component finished")
		}
	}
	a.gracefulShutdown()
	return err
}

func (a *App) gracefulShutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
	defer cancel()
	for _, c := range a.comps {
		if err := c.Shutdown(ctx); err != nil {
			a.log.Warn("shutdown", "err", err)
		}
	}
}
