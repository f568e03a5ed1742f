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

package logiclab

import (
	"bytes"
	"encoding/json"

	"github.com/zintix-labs/logiclab/errs"
	"github.com/zintix-labs/logiclab/sdk/puzzle"
	"github.com/zintix-labs/logiclab/sdk/puzzles/binary"
	"github.com/zintix-labs/logiclab/sdk/puzzles/deduction"
	"github.com/zintix-labs/logiclab/sdk/puzzles/matrix"
	"github.com/zintix-labs/logiclab/sdk/puzzles/pattern"
	"github.com/zintix-labs/logiclab/sdk/puzzles/sequence"
)

// wirePuzzle 與 puzzle.Puzzle 同欄位，Data 延後解析。
type wirePuzzle struct {
	ID      string          `json:"id"`
	Type    puzzle.Type     `json:"type"`
	DateKey string          `json:"dateKey"`
	Title   string          `json:"title"`
	Prompt  string          `json:"prompt"`
	Data    json.RawMessage `json:"data"`
}

// EncodePuzzle 就是 json.Marshal；放在這裡讓讀寫兩端成對。
func EncodePuzzle(p puzzle.Puzzle) ([]byte, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return nil, errs.Wrap(err, "encode puzzle")
	}
	return b, nil
}

// DecodePuzzle 依 type 標籤把 data 還原成對應題型的 Data。
//
// 失敗情況（Warn）：JSON 格式錯、未知題型、缺 data、id 與 dateKey/type 不一致。
func DecodePuzzle(raw []byte) (puzzle.Puzzle, error) {
	var w wirePuzzle
	if err := json.Unmarshal(raw, &w); err != nil {
		return puzzle.Puzzle{}, errs.WrapWithExtra(errs.NewWarn(err.Error()), "decode puzzle", "json")
	}
	t, ok := puzzle.ParseType(string(w.Type))
	if !ok {
		return puzzle.Puzzle{}, errs.Warnf("decode puzzle: unknown type %q", w.Type)
	}
	if w.ID != puzzle.ID(w.DateKey, t) {
		return puzzle.Puzzle{}, errs.Warnf("decode puzzle: id %q does not match %s/%s", w.ID, w.DateKey, t)
	}
	if len(bytes.TrimSpace(w.Data)) == 0 || bytes.Equal(bytes.TrimSpace(w.Data), []byte("null")) {
		return puzzle.Puzzle{}, errs.Warnf("decode puzzle: missing data for %s", w.ID)
	}

	d, err := DecodeData(t, w.Data)
	if err != nil {
		return puzzle.Puzzle{}, err
	}
	return puzzle.Puzzle{
		ID:      w.ID,
		Type:    t,
		DateKey: w.DateKey,
		Title:   w.Title,
		Prompt:  w.Prompt,
		Data:    d,
	}, nil
}

// DecodeData 把 raw 解析成 t 對應的 Data 型別。
func DecodeData(t puzzle.Type, raw []byte) (puzzle.Data, error) {
	switch t {
	case puzzle.Matrix:
		return decodeAs[matrix.Data](raw)
	case puzzle.Pattern:
		return decodeAs[pattern.Data](raw)
	case puzzle.Sequence:
		return decodeAs[sequence.Data](raw)
	case puzzle.Deduction:
		return decodeAs[deduction.Data](raw)
	case puzzle.Binary:
		return decodeAs[binary.Data](raw)
	}
	return nil, errs.Warnf("decode data: unknown type %q", t)
}

func decodeAs[D puzzle.Data](raw []byte) (puzzle.Data, error) {
	var d D
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, errs.WrapWithExtra(errs.NewWarn(err.Error()), "decode data", string(d.PuzzleType()))
	}
	return d, nil
}
