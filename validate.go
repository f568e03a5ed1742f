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
	"github.com/zintix-labs/logiclab/sdk/puzzle"
	"github.com/zintix-labs/logiclab/sdk/puzzles/binary"
	"github.com/zintix-labs/logiclab/sdk/puzzles/deduction"
	"github.com/zintix-labs/logiclab/sdk/puzzles/matrix"
	"github.com/zintix-labs/logiclab/sdk/puzzles/pattern"
	"github.com/zintix-labs/logiclab/sdk/puzzles/sequence"
)

// ValidateAnswer 依 Data 的具體型別分派給對應題型的 Validate。
//
// Type 標籤與 Data 不一致，或 Data 不是五種題型之一，都回傳 "Invalid solution"。
func ValidateAnswer(p puzzle.Puzzle, sol puzzle.Solution, answer puzzle.Answer) puzzle.Result {
	if !consistent(p) {
		return puzzle.Wrong(puzzle.MsgInvalidSolution)
	}
	switch d := p.Data.(type) {
	case matrix.Data:
		return matrix.Def.Validate(d, sol, answer)
	case pattern.Data:
		return pattern.Def.Validate(d, sol, answer)
	case sequence.Data:
		return sequence.Def.Validate(d, sol, answer)
	case deduction.Data:
		return deduction.Def.Validate(d, sol, answer)
	case binary.Data:
		return binary.Def.Validate(d, sol, answer)
	}
	return puzzle.Wrong(puzzle.MsgInvalidSolution)
}

// GetHint 依 Data 的具體型別分派給對應題型的 Hint；題型沒有 Hint 時回傳固定訊息。
func GetHint(p puzzle.Puzzle, sol puzzle.Solution, hintsUsed int) string {
	if !consistent(p) {
		return puzzle.MsgNoHintsForType
	}
	switch d := p.Data.(type) {
	case matrix.Data:
		return matrix.Def.HintOr(d, sol, hintsUsed, puzzle.MsgNoHintsForType)
	case pattern.Data:
		return pattern.Def.HintOr(d, sol, hintsUsed, puzzle.MsgNoHintsForType)
	case sequence.Data:
		return sequence.Def.HintOr(d, sol, hintsUsed, puzzle.MsgNoHintsForType)
	case deduction.Data:
		return deduction.Def.HintOr(d, sol, hintsUsed, puzzle.MsgNoHintsForType)
	case binary.Data:
		return binary.Def.HintOr(d, sol, hintsUsed, puzzle.MsgNoHintsForType)
	}
	return puzzle.MsgNoHintsForType
}

func consistent(p puzzle.Puzzle) bool {
	return p.Data != nil && p.Data.PuzzleType() == p.Type
}
