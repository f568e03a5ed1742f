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

// Package logiclab 是每日邏輯謎題引擎的入口：輪替、出題、驗證分派與計分。
//
// 引擎分成兩層：
//  1. sdk/core：可重現的亂數流（xorshift32）與字串雜湊（FNV-1a）。
//  2. sdk/puzzle + sdk/puzzles/*：五種題型共用一份合約，各自提供 generate / validate / hint。
//
// 本套件把兩層組起來，對外只提供純函數：
//   - PickDailyPuzzleType / GenerateDailyPuzzle / PrecomputeNextDays
//   - ValidateAnswer / GetHint
//   - ComputeScore
//   - DecodePuzzle（快取回讀時依 type 標籤還原 Data）
//
// 設計重點：
//   - 同一個日期鍵在任何機器、任何時間都得到同一題與同一解。
//   - 解答不落地：需要時用日期鍵重新產生即可。
//   - 這裡的函數不做 I/O、不持有狀態，可被任意 goroutine 同時呼叫。
//
// 持久化、預先快取、HTTP 等外殼在 store / prefetch / session / server 底下。
package logiclab

import (
	"github.com/zintix-labs/logiclab/sdk/puzzle"
	"github.com/zintix-labs/logiclab/sdk/puzzles/binary"
	"github.com/zintix-labs/logiclab/sdk/puzzles/deduction"
	"github.com/zintix-labs/logiclab/sdk/puzzles/matrix"
	"github.com/zintix-labs/logiclab/sdk/puzzles/pattern"
	"github.com/zintix-labs/logiclab/sdk/puzzles/sequence"
)

// Rotation 是每日輪替順序，等同 puzzle.Types。
var Rotation = puzzle.Types

// Title 回傳題型的顯示名稱；未知題型回傳空字串。
func Title(t puzzle.Type) string {
	switch t {
	case puzzle.Matrix:
		return matrix.Def.Title
	case puzzle.Pattern:
		return pattern.Def.Title
	case puzzle.Sequence:
		return sequence.Def.Title
	case puzzle.Deduction:
		return deduction.Def.Title
	case puzzle.Binary:
		return binary.Def.Title
	}
	return ""
}

// build 是 Definition.Build 的介面化版本，讓 switch 的每個分支都回傳同一組型別。
func build[D puzzle.Data, S puzzle.Solution](def puzzle.Definition[D, S], dateKey string, seed int32) (puzzle.Puzzle, puzzle.Solution) {
	p, s := def.Build(dateKey, seed)
	return p, s
}
