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

package puzzle

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// 共用訊息（玩家可見，保持原樣）
const (
	MsgCorrect         = "Correct!"
	MsgNotQuite        = "Not quite."
	MsgInvalidSolution = "Invalid solution"
	MsgPickOne         = "Pick one option."
	MsgNotAnOption     = "Answer must be one of the options."
	MsgNoHint          = "No hint available."
	MsgNoHintsForType  = "No hints available for this puzzle."
)

// Result 是檢查答案的唯一結果。格式錯誤也回 Result，不回 error。
type Result struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

func Correct() Result { return Result{OK: true, Message: MsgCorrect} }

func Wrong(msg string) Result { return Result{OK: false, Message: msg} }

// ParseNumber 把答案轉成有限浮點數。
//
// 接受：各種整數 / 浮點型別、json.Number、數字字串（前後空白忽略）。
// 空字串、NaN、Inf 與其他型別一律視為無法解析。
func ParseNumber(a Answer) (float64, bool) {
	var f float64
	switch v := a.(type) {
	case float64:
		f = v
	case float32:
		f = float64(v)
	case int:
		f = float64(v)
	case int8:
		f = float64(v)
	case int16:
		f = float64(v)
	case int32:
		f = float64(v)
	case int64:
		f = float64(v)
	case uint:
		f = float64(v)
	case uint8:
		f = float64(v)
	case uint16:
		f = float64(v)
	case uint32:
		f = float64(v)
	case uint64:
		f = float64(v)
	case json.Number:
		return ParseNumber(string(v))
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return 0, false
		}
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		f = n
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// ParseChoice 取出選項型答案（去除前後空白）。只接受非空字串。
func ParseChoice(a Answer) (string, bool) {
	s, ok := a.(string)
	if !ok {
		return "", false
	}
	s = strings.TrimSpace(s)
	return s, s != ""
}
