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

// Package v1 是 /v1 底下的 JSON API。handler 只做解碼、呼叫 session / store、編碼回應。
package v1

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/zintix-labs/logiclab"
	"github.com/zintix-labs/logiclab/datekey"
	"github.com/zintix-labs/logiclab/errs"
	"github.com/zintix-labs/logiclab/history"
	"github.com/zintix-labs/logiclab/sdk/puzzle"
	"github.com/zintix-labs/logiclab/server/httperr"
	"github.com/zintix-labs/logiclab/session"
	"github.com/zintix-labs/logiclab/store"
)

const (
	defaultRotationDays = 7
	maxRotationDays     = 366
	maxHistoryDays      = 365
)

// Handler 持有 v1 API 的依賴。
type Handler struct {
	svc     *session.Service
	scores  store.ScoreStore
	today   func() string
	timeout time.Duration
	log     *slog.Logger
}

func NewHandler(svc *session.Service, scores store.ScoreStore, today func() string, timeout time.Duration, log *slog.Logger) (*Handler, error) {
	if svc == nil || scores == nil || today == nil {
		return nil, errs.NewFatal("v1 handler: session, score store and clock are required")
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Handler{svc: svc, scores: scores, today: today, timeout: timeout, log: log}, nil
}

func (h *Handler) ctx(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), h.timeout)
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	httperr.Log(h.log, r.Method+" "+r.URL.Path, err)
	httperr.Errs(w, err)
}

// dateParam 取出 {date}；"today" 代表設定時區的今天。
func (h *Handler) dateParam(r *http.Request) (string, error) {
	key := chi.URLParam(r, "date")
	if key == "" || key == "today" {
		return h.today(), nil
	}
	if !datekey.Valid(key) {
		return "", errs.WrapWithExtra(errs.ErrInvalidDateKey, "date", "date="+key)
	}
	return key, nil
}

// Today 處理 GET /v1/puzzles/today。
func (h *Handler) Today(w http.ResponseWriter, r *http.Request) {
	h.puzzle(w, r, h.today())
}

// Puzzle 處理 GET /v1/puzzles/{date}。
func (h *Handler) Puzzle(w http.ResponseWriter, r *http.Request) {
	key, err := h.dateParam(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.puzzle(w, r, key)
}

// puzzle：有 uid 回傳玩家狀態，沒有則只回公開題目。
func (h *Handler) puzzle(w http.ResponseWriter, r *http.Request, key string) {
	ctx, cancel := h.ctx(r)
	defer cancel()

	uid := strings.TrimSpace(r.URL.Query().Get("uid"))
	if uid == "" {
		p, _, err := h.svc.Puzzle(ctx, key)
		if err != nil {
			h.fail(w, r, err)
			return
		}
		httperr.WriteJSON(w, http.StatusOK, p)
		return
	}
	v, err := h.svc.Load(ctx, uid, key)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httperr.WriteJSON(w, http.StatusOK, v)
}

// Answer 處理 POST /v1/puzzles/{date}/answer。
func (h *Handler) Answer(w http.ResponseWriter, r *http.Request) {
	key, err := h.dateParam(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var req AnswerRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	ctx, cancel := h.ctx(r)
	defer cancel()
	out, err := h.svc.Submit(ctx, req.UID, key, req.Answer)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httperr.WriteJSON(w, http.StatusOK, out)
}

// Hint 處理 POST /v1/puzzles/{date}/hint。
func (h *Handler) Hint(w http.ResponseWriter, r *http.Request) {
	key, err := h.dateParam(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var req HintRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	ctx, cancel := h.ctx(r)
	defer cancel()
	out, err := h.svc.Hint(ctx, req.UID, key)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httperr.WriteJSON(w, http.StatusOK, out)
}

// Rotation 處理 GET /v1/rotation?from=&days=。
func (h *Handler) Rotation(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	from := strings.TrimSpace(q.Get("from"))
	if from == "" {
		from = h.today()
	}
	days, err := queryInt(q, "days", defaultRotationDays)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if days < 1 || days > maxRotationDays {
		h.fail(w, r, errs.Warnf("days must be within 1..%d", maxRotationDays))
		return
	}
	keys, err := datekey.Range(from, days)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	out := make([]RotationEntry, len(keys))
	for i, k := range keys {
		t := logiclab.PickDailyPuzzleType(k)
		out[i] = RotationEntry{DateKey: k, Type: t, ID: puzzle.ID(k, t)}
	}
	httperr.WriteJSON(w, http.StatusOK, out)
}

// History 處理 GET /v1/users/{uid}/history?days=&today=。
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	days, err := queryInt(q, "days", history.DefaultDaysBack)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if days < 0 || days > maxHistoryDays {
		h.fail(w, r, errs.Warnf("days must be within 0..%d", maxHistoryDays))
		return
	}
	today := strings.TrimSpace(q.Get("today"))
	if today == "" {
		today = h.today()
	}
	ctx, cancel := h.ctx(r)
	defer cancel()
	sum, err := h.svc.History(ctx, chi.URLParam(r, "uid"), today, days)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httperr.WriteJSON(w, http.StatusOK, sum)
}
