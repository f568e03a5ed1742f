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
	"github.com/zintix-labs/logiclab/datekey"
	"github.com/zintix-labs/logiclab/errs"
	"github.com/zintix-labs/logiclab/sdk/core"
	"github.com/zintix-labs/logiclab/sdk/puzzle"
	"github.com/zintix-labs/logiclab/sdk/puzzles/binary"
	"github.com/zintix-labs/logiclab/sdk/puzzles/deduction"
	"github.com/zintix-labs/logiclab/sdk/puzzles/matrix"
	"github.com/zintix-labs/logiclab/sdk/puzzles/pattern"
	"github.com/zintix-labs/logiclab/sdk/puzzles/sequence"
)

// PickDailyPuzzleType 依日期鍵決定當天題型。
// 取 HashToSeed 的無號值對 5 取餘數（保留取餘偏差，不做修正）。
func PickDailyPuzzleType(dateKey string) puzzle.Type {
	idx := uint32(core.HashToSeed(dateKey)) % uint32(len(Rotation))
	return Rotation[idx]
}

// PuzzleSeed 是某日某題型的出題種子："<dateKey>:<type>" 的雜湊。
func PuzzleSeed(dateKey string, t puzzle.Type) int32 {
	return core.HashToSeed(puzzle.ID(dateKey, t))
}

// GenerateDailyPuzzle 產生當天的題目與解答。
//
// 不檢查日期鍵格式：任何字串都能產生題目，格式檢查屬於呼叫端（外殼）的責任。
func GenerateDailyPuzzle(dateKey string) (puzzle.Puzzle, puzzle.Solution) {
	t := PickDailyPuzzleType(dateKey)
	return Generate(t, dateKey)
}

// Generate 以指定題型出題，種子規則與 GenerateDailyPuzzle 相同。
func Generate(t puzzle.Type, dateKey string) (puzzle.Puzzle, puzzle.Solution) {
	seed := PuzzleSeed(dateKey, t)
	switch t {
	case puzzle.Matrix:
		return build(matrix.Def, dateKey, seed)
	case puzzle.Pattern:
		return build(pattern.Def, dateKey, seed)
	case puzzle.Sequence:
		return build(sequence.Def, dateKey, seed)
	case puzzle.Deduction:
		return build(deduction.Def, dateKey, seed)
	case puzzle.Binary:
		return build(binary.Def, dateKey, seed)
	}
	return puzzle.Puzzle{}, nil
}

// PrecomputeNextDays 回傳 dateKey（含）起連續 daysAhead+1 個日期鍵。
func PrecomputeNextDays(dateKey string, daysAhead int) ([]string, error) {
	if daysAhead < 0 {
		return nil, errs.Warnf("daysAhead must be >= 0, got %d", daysAhead)
	}
	return datekey.Range(dateKey, daysAhead+1)
}

// DailyStream 是以日期鍵為種子的亂數流，給需要「當天共用隨機性」的外殼使用。
func DailyStream(dateKey string) *core.Stream {
	return core.NewStream(core.HashToSeed(dateKey))
}
