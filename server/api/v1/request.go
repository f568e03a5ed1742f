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
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/zintix-labs/logiclab/errs"
	"github.com/zintix-labs/logiclab/sdk/puzzle"
)

// 防止 body 過大（1MiB）
const maxBody = 1 << 20

// AnswerRequest 是 POST /v1/puzzles/{date}/answer 的本體。
type AnswerRequest struct {
	UID    string        `json:"uid"`
	Answer puzzle.Answer `json:"answer"`
}

// HintRequest 是 POST /v1/puzzles/{date}/hint 的本體。
type HintRequest struct {
	UID string `json:"uid"`
}

// ScoreRequest 是 POST /v1/score 的本體。
type ScoreRequest struct {
	Solved      bool  `json:"solved"`
	HintsUsed   int   `json:"hints_used"`
	Attempts    int   `json:"attempts"`
	TimeTakenMs int64 `json:"time_taken_ms"`
}

type ScoreResponse struct {
	Score int `json:"score"`
}

// RotationEntry 是 GET /v1/rotation 的一列。
type RotationEntry struct {
	DateKey string      `json:"dateKey"`
	Type    puzzle.Type `json:"type"`
	ID      string      `json:"id"`
}

// decodeJSON 只負責解碼：拒絕未知欄位、拒絕多餘內容，數字保留為 json.Number。
// 內容是否合法由 session / store 決定。
func decodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return errs.NewWarn("empty body")
	}
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBody))
	dec.DisallowUnknownFields()
	dec.UseNumber()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errs.NewWarn("empty body")
		}
		return errs.NewWithExtra(errs.Warn, "invalid json", err.Error())
	}
	if dec.More() {
		return errs.NewWarn("invalid json: trailing data")
	}
	return nil
}

// queryInt 讀取整數 query 參數；未提供時回傳 def。
func queryInt(q url.Values, name string, def int) (int, error) {
	s := strings.TrimSpace(q.Get(name))
	if s == "" {
		return def, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, errs.Warnf("invalid %s: %q", name, s)
	}
	return v, nil
}
