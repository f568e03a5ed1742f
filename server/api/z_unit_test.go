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
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zintix-labs/logiclab"
	"github.com/zintix-labs/logiclab/history"
	v1 "github.com/zintix-labs/logiclab/server/api/v1"
	"github.com/zintix-labs/logiclab/server/logger"
	"github.com/zintix-labs/logiclab/server/netsvr"
	"github.com/zintix-labs/logiclab/server/svrcfg"
	"github.com/zintix-labs/logiclab/sdk/puzzle"
	"github.com/zintix-labs/logiclab/sdk/puzzles/binary"
	"github.com/zintix-labs/logiclab/sdk/puzzles/deduction"
	"github.com/zintix-labs/logiclab/sdk/puzzles/matrix"
	"github.com/zintix-labs/logiclab/sdk/puzzles/pattern"
	"github.com/zintix-labs/logiclab/sdk/puzzles/sequence"
	"github.com/zintix-labs/logiclab/session"
	"github.com/zintix-labs/logiclab/store"
	"github.com/zintix-labs/logiclab/store/memstore"
)

const today = "2024-03-15"

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	st := memstore.New()
	sCfg := &svrcfg.SvrCfg{
		Config:  svrcfg.Default(),
		Log:     logger.Discard(),
		Session: session.New(session.Deps{Cache: st, Progress: st}),
		Scores:  st,
		Today:   func() string { return today },
	}
	require.NoError(t, sCfg.Check())
	svr := netsvr.NewChiServer("", netsvr.Options{})
	require.NoError(t, RegisterRoutes(svr, sCfg))
	return svr.Handler()
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func answerFor(t *testing.T, dateKey string) puzzle.Answer {
	t.Helper()
	p, sol := logiclab.GenerateDailyPuzzle(dateKey)
	switch s := sol.(type) {
	case matrix.Solution:
		return s.Solved
	case pattern.Solution:
		return s.Next
	case sequence.Solution:
		return s.Next
	case deduction.Solution:
		return p.Data.(deduction.Data).Options[s.CorrectIndex]
	case binary.Solution:
		return s.Out
	}
	t.Fatalf("unknown solution %T", sol)
	return nil
}

type errBody struct {
	Error string `json:"error"`
}

func TestHealthz(t *testing.T) {
	h := newTestServer(t)
	rec := do(t, h, http.MethodGet, "/healthz", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

func TestPublicPuzzle(t *testing.T) {
	h := newTestServer(t)
	rec := do(t, h, http.MethodGet, "/v1/puzzles/today", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	got := decode[map[string]any](t, rec)
	want := puzzle.ID(today, logiclab.PickDailyPuzzleType(today))
	require.Equal(t, want, got["id"])
	require.Equal(t, today, got["dateKey"])
	require.NotContains(t, got, "solution")

	rec = do(t, h, http.MethodGet, "/v1/puzzles/2024-02-29", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	p, err := logiclab.DecodePuzzle(rec.Body.Bytes())
	require.NoError(t, err)
	require.Equal(t, "2024-02-29", p.DateKey)
}

func TestBadDate(t *testing.T) {
	h := newTestServer(t)
	for _, path := range []string{"/v1/puzzles/2024-2-29", "/v1/puzzles/2023-02-29"} {
		rec := do(t, h, http.MethodGet, path, nil)
		require.Equal(t, http.StatusBadRequest, rec.Code, path)
		require.Contains(t, decode[errBody](t, rec).Error, "invalid date key")
	}
}

func TestSessionFlow(t *testing.T) {
	h := newTestServer(t)

	rec := do(t, h, http.MethodGet, "/v1/puzzles/today?uid=u1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	// Puzzle.Data 是介面，這裡只取需要的欄位
	view := decode[struct {
		Puzzle    map[string]any `json:"puzzle"`
		HintsLeft int            `json:"hintsLeft"`
		Solved    bool           `json:"solved"`
	}](t, rec)
	require.Equal(t, 3, view.HintsLeft)
	require.False(t, view.Solved)
	require.Equal(t, today, view.Puzzle["dateKey"])

	rec = do(t, h, http.MethodPost, "/v1/puzzles/today/hint", v1.HintRequest{UID: "u1"})
	require.Equal(t, http.StatusOK, rec.Code)
	hint := decode[session.HintOutcome](t, rec)
	require.NotEmpty(t, hint.Hint)
	require.Equal(t, 2, hint.HintsLeft)

	rec = do(t, h, http.MethodPost, "/v1/puzzles/"+today+"/answer", v1.AnswerRequest{UID: "u1", Answer: "zzz"})
	require.Equal(t, http.StatusOK, rec.Code)
	out := decode[session.Outcome](t, rec)
	require.False(t, out.Result.OK)
	require.Equal(t, 1, out.Attempts)

	rec = do(t, h, http.MethodPost, "/v1/puzzles/"+today+"/answer", v1.AnswerRequest{UID: "u1", Answer: answerFor(t, today)})
	require.Equal(t, http.StatusOK, rec.Code)
	out = decode[session.Outcome](t, rec)
	require.True(t, out.Result.OK, out.Result.Message)
	require.Equal(t, 2, out.Attempts)
	require.Positive(t, out.Score)

	rec = do(t, h, http.MethodGet, "/v1/users/u1/history?days=6", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	sum := decode[history.Summary](t, rec)
	require.Equal(t, 1, sum.Streak)
	require.Len(t, sum.Cells, 7)
	require.True(t, sum.Cells[6].Solved)
}

func TestHintLimitIs400(t *testing.T) {
	h := newTestServer(t)
	for i := 0; i < 3; i++ {
		rec := do(t, h, http.MethodPost, "/v1/puzzles/today/hint", v1.HintRequest{UID: "u1"})
		require.Equal(t, http.StatusOK, rec.Code)
	}
	rec := do(t, h, http.MethodPost, "/v1/puzzles/today/hint", v1.HintRequest{UID: "u1"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "hint: no hints left", decode[errBody](t, rec).Error)
}

func TestDecodeErrors(t *testing.T) {
	h := newTestServer(t)
	cases := []string{
		`{"uid":"u1","answer":1,"extra":true}`,
		`{"uid":"u1"`,
		``,
		`{"uid":"u1"} {"uid":"u2"}`,
	}
	for _, body := range cases {
		rec := do(t, h, http.MethodPost, "/v1/puzzles/today/answer", body)
		require.Equal(t, http.StatusBadRequest, rec.Code, body)
	}
	rec := do(t, h, http.MethodPost, "/v1/puzzles/today/answer", `{"uid":"  ","answer":1}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodGet, "/v1/puzzles/today/answer", nil)
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestRotation(t *testing.T) {
	h := newTestServer(t)
	rec := do(t, h, http.MethodGet, "/v1/rotation?from=2024-02-28&days=3", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rows := decode[[]v1.RotationEntry](t, rec)
	require.Len(t, rows, 3)
	require.Equal(t, "2024-02-29", rows[1].DateKey)
	for _, r := range rows {
		require.Equal(t, logiclab.PickDailyPuzzleType(r.DateKey), r.Type)
		require.Equal(t, puzzle.ID(r.DateKey, r.Type), r.ID)
	}

	rec = do(t, h, http.MethodGet, "/v1/rotation", nil)
	require.Len(t, decode[[]v1.RotationEntry](t, rec), 7)

	for _, q := range []string{"days=0", "days=abc", "days=367", "from=yesterday"} {
		rec = do(t, h, http.MethodGet, "/v1/rotation?"+q, nil)
		require.Equal(t, http.StatusBadRequest, rec.Code, q)
	}
}

func TestScore(t *testing.T) {
	h := newTestServer(t)
	rec := do(t, h, http.MethodPost, "/v1/score", v1.ScoreRequest{Solved: true, HintsUsed: 1, Attempts: 2, TimeTakenMs: 42000})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 716, decode[v1.ScoreResponse](t, rec).Score)

	rec = do(t, h, http.MethodPost, "/v1/score", v1.ScoreRequest{Solved: false, Attempts: 1})
	require.Equal(t, 0, decode[v1.ScoreResponse](t, rec).Score)
}

func TestScoresAndTotals(t *testing.T) {
	h := newTestServer(t)

	rec := do(t, h, http.MethodGet, "/v1/users/u1/totals", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	post := func(ds store.DailyScore) *httptest.ResponseRecorder {
		return do(t, h, http.MethodPost, "/v1/scores", ds)
	}
	rec = post(store.DailyScore{UserID: "u1", Date: "2024-03-14", PuzzleID: "2024-03-14:matrix", Score: 700, TimeTakenSeconds: 40})
	require.Equal(t, http.StatusOK, rec.Code)
	rec = post(store.DailyScore{UserID: "u1", Date: "2024-03-15", PuzzleID: "2024-03-15:binary", Score: 900, TimeTakenSeconds: 12})
	require.Equal(t, http.StatusOK, rec.Code)
	tot := decode[store.UserTotals](t, rec)
	require.Equal(t, 1600, tot.TotalPoints)
	require.Equal(t, 2, tot.PuzzlesSolved)

	rec = post(store.DailyScore{UserID: "u1", Date: "2024-03-15", PuzzleID: "2024-03-15:binary", Score: 950})
	tot = decode[store.UserTotals](t, rec)
	require.Equal(t, 1650, tot.TotalPoints)
	require.Equal(t, 2, tot.PuzzlesSolved)

	rec = do(t, h, http.MethodGet, "/v1/users/u1/totals", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 1650, decode[store.UserTotals](t, rec).TotalPoints)

	rec = post(store.DailyScore{UserID: "u1", Date: "", PuzzleID: "x"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "userId, date, puzzleId are required", decode[errBody](t, rec).Error)
}
