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

package netsvr

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

const DefaultAddr = ":5808"

// Options 是 http.Server 的逾時設定，零值套用預設。
type Options struct {
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

func (o *Options) normalize() {
	if o.ReadTimeout <= 0 {
		o.ReadTimeout = 10 * time.Second
	}
	if o.WriteTimeout <= 0 {
		o.WriteTimeout = 10 * time.Second
	}
	if o.IdleTimeout <= 0 {
		o.IdleTimeout = 120 * time.Second
	}
}

// ChiAdapter 以 chi.Router 實作 NetSvr。
type ChiAdapter struct {
	router chi.Router
	server *http.Server
	addr   string
}

// NewChiServer 建立 server；addr 為空時用 DefaultAddr。
func NewChiServer(addr string, opt Options) *ChiAdapter {
	if addr == "" {
		addr = DefaultAddr
	}
	opt.normalize()
	cr := chi.NewRouter()
	return &ChiAdapter{
		router: cr,
		server: &http.Server{
			Addr:              addr,
			Handler:           cr,
			ReadTimeout:       opt.ReadTimeout,
			ReadHeaderTimeout: opt.ReadTimeout,
			WriteTimeout:      opt.WriteTimeout,
			IdleTimeout:       opt.IdleTimeout,
		},
		addr: addr,
	}
}

// Ready 檢查是否為完整的頂層 server（Group 產生的子 router 不是）。
func (c *ChiAdapter) Ready() bool {
	if c == nil || c.router == nil || c.server == nil || c.server.Handler != c.router {
		return false
	}
	_, _, err := net.SplitHostPort(c.addr)
	return err == nil
}

// Handler 回傳根路由，供 httptest 使用。
func (c *ChiAdapter) Handler() http.Handler { return c.router }

// Run 阻塞直到 server 關閉。Shutdown 造成的 http.ErrServerClosed 視為正常結束。
func (c *ChiAdapter) Run() error {
	if err := c.server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (c *ChiAdapter) Shutdown(ctx context.Context) error {
	return c.server.Shutdown(ctx)
}

func (c *ChiAdapter) Use(mw func(http.Handler) http.Handler) {
	c.router.Use(mw)
}

func (c *ChiAdapter) Get(path string, h http.HandlerFunc) {
	c.router.Get(path, h)
}

func (c *ChiAdapter) Post(path string, h http.HandlerFunc) {
	c.router.Post(path, h)
}

func (c *ChiAdapter) Group(path string, fn func(subRouter NetRouter)) {
	c.router.Route(path, func(r chi.Router) {
		fn(&ChiAdapter{router: r})
	})
}

func (c *ChiAdapter) Address() string {
	return c.addr
}
