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

// Package server 組裝 HTTP 服務並交給 app.App 管理生命週期。
package server

import (
	"context"

	"github.com/zintix-labs/logiclab/errs"
	"github.com/zintix-labs/logiclab/server/api"
	"github.com/zintix-labs/logiclab/server/app"
	"github.com/zintix-labs/logiclab/server/netsvr"
	"github.com/zintix-labs/logiclab/server/svrcfg"
)

// Run 以預設的 ChiAdapter 啟動服務，阻塞到 ctx 結束或任一元件停止。
//
// bg 是與 HTTP server 一起管理的背景元件（預取排程、成績送出、關閉 hook）。
// 關閉依序進行：HTTP server 先停，再依 bg 的順序關閉。
func Run(ctx context.Context, sCfg *svrcfg.SvrCfg, bg ...app.Component) error {
	if err := sCfg.Check(); err != nil {
		return err
	}
	return RunWithSvr(ctx, sCfg, netsvr.NewChiServer(sCfg.Addr, netsvr.Options{}), bg...)
}

// RunWithSvr 與 Run 相同，但使用呼叫端注入的 NetSvr。
func RunWithSvr(ctx context.Context, sCfg *svrcfg.SvrCfg, svr netsvr.NetSvr, bg ...app.Component) error {
	if err := sCfg.Check(); err != nil {
		return err
	}
	if svr == nil {
		return errs.NewFatal("svr is required")
	}
	if s, ok := svr.(*netsvr.ChiAdapter); ok && !s.Ready() {
		return errs.NewFatal("default server is not ready")
	}
	if err := api.RegisterRoutes(svr, sCfg); err != nil {
		return err
	}

	a := app.NewWith(sCfg.Log, svr)
	for _, c := range bg {
		a.Register(c)
	}
	sCfg.Log.Info("[logiclab] listening", "addr", svr.Address())
	return a.RunContext(ctx)
}
