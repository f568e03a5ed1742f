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

package v1

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/zintix-labs/logiclab"
	"github.com/zintix-labs/logiclab/errs"
	"github.com/zintix-labs/logiclab/server/httperr"
	"github.com/zintix-labs/logiclab/store"
)

// Score 處理 POST /v1/score：純計分，不寫任何狀態。
func (h *Handler) Score(w http.ResponseWriter, r *http.Request) {
	var req ScoreRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	score := logiclab.ComputeScore(logiclab.ScoreInput{
		Solved:      req.Solved,
		HintsUsed:   req.HintsUsed,
		Attempts:    req.Attempts,
		TimeTakenMs: req.TimeTakenMs,
	})
	httperr.WriteJSON(w, http.StatusOK, ScoreResponse{Score: score})
}

// Scores 處理 POST /v1/scores：記錄每日成績並回傳累計。
func (h *Handler) Scores(w http.ResponseWriter, r *http.Request) {
	var rec store.DailyScore
	if err := decodeJSON(r, &rec); err != nil {
		h.fail(w, r, err)
		return
	}
	rec, err := rec.Check()
	if err != nil {
		h.fail(w, r, err)
		return
	}
	ctx, cancel := h.ctx(r)
	defer cancel()
	totals, err := h.scores.RecordScore(ctx, rec)
	if err != nil {
		h.fail(w, r, errs.Wrap(err, "record score"))
		return
	}
	httperr.WriteJSON(w, http.StatusOK, totals)
}

// Totals 處理 GET /v1/users/{uid}/totals。
func (h *Handler) Totals(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.ctx(r)
	defer cancel()
	uid := strings.TrimSpace(chi.URLParam(r, "uid"))
	if uid == "" {
		h.fail(w, r, errs.NewWarn("uid is required"))
		return
	}
	totals, err := h.scores.Totals(ctx, uid)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httperr.WriteJSON(w, http.StatusOK, totals)
}
