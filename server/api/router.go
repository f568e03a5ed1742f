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

package api

import (
	"log/slog"
	"net/http"

	"github.com/zintix-labs/logiclab/datekey"
	v1 "github.com/zintix-labs/logiclab/server/api/v1"
	"github.com/zintix-labs/logiclab/server/httperr"
	"github.com/zintix-labs/logiclab/server/netsvr"
	"github.com/zintix-labs/logiclab/server/netsvr/middleware"
	"github.com/zintix-labs/logiclab/server/svrcfg"
	"github.com/zintix-labs/logiclab/server/telemetry"
)

// RegisterRoutes 註冊 middleware、健康檢查與 v1 api。sCfg 需先通過 Check。
func RegisterRoutes(svr netsvr.NetSvr, sCfg *svrcfg.SvrCfg) error {
	registerMiddleware(svr, sCfg.Log)
	svr.Get("/healthz", healthz)
	return registerV1API(svr, sCfg)
}

// 註冊 middleware（由外而內）
func registerMiddleware(svr netsvr.NetSvr, log *slog.Logger) {
	svr.Use(middleware.RequestID)
	svr.Use(middleware.Trace(telemetry.ServiceName))
	svr.Use(middleware.AccessLog(log))
	svr.Use(middleware.Recover(log))
	svr.Use(middleware.Compression(middleware.DefaultCompressConfig))
}

func healthz(w http.ResponseWriter, _ *http.Request) {
	httperr.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// 註冊 v1 api
func registerV1API(svr netsvr.NetSvr, sCfg *svrcfg.SvrCfg) error {
	today := sCfg.Today
	if today == nil {
		loc, err := sCfg.Location()
		if err != nil {
			return err
		}
		today = func() string { return datekey.Today(loc) }
	}
	h, err := v1.NewHandler(sCfg.Session, sCfg.Scores, today, sCfg.RequestTimeout, sCfg.Log)
	if err != nil {
		return err
	}
	svr.Group("/v1", func(r netsvr.NetRouter) {
		r.Get("/puzzles/today", h.Today)
		r.Get("/puzzles/{date}", h.Puzzle)
		r.Post("/puzzles/{date}/answer", h.Answer)
		r.Post("/puzzles/{date}/hint", h.Hint)

		r.Get("/rotation", h.Rotation)
		r.Post("/score", h.Score)
		r.Post("/scores", h.Scores)

		r.Get("/users/{uid}/history", h.History)
		r.Get("/users/{uid}/totals", h.Totals)
	})
	return nil
}
