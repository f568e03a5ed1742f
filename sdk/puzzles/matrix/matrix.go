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

// Package matrix 實作 4×4 數字矩陣（迷你數獨）題型。
package matrix

import (
	"fmt"
	"math"
	"strings"

	"github.com/zintix-labs/logiclab/sdk/core"
	"github.com/zintix-labs/logiclab/sdk/puzzle"
)

const (
	Size  = 4
	Cells = Size * Size

	prompt = "Fill the 4×4 grid with numbers 1–4. Each row/column and each 2×2 block must contain 1–4 exactly once."

	MsgFormat      = "Enter 16 digits (1–4) for the full 4×4 solution."
	MsgClueChanged = "Your solution changes a given clue."
	MsgRules       = "Rules not satisfied yet."
	MsgKeepTrying  = "Not quite. Keep trying."
	MsgNoEmpty     = "No empty cells to hint."
)

// Grid 以列為主；0 代表空格。
type Grid [Size][Size]int

// Data 是公開盤面。
type Data struct {
	Grid Grid `json:"grid"`
}

func (Data) PuzzleType() puzzle.Type { return puzzle.Matrix }

// Solution 是完整解。
type Solution struct {
	Solved Grid
}

func (Solution) PuzzleType() puzzle.Type { return puzzle.Matrix }

var Def = puzzle.Definition[Data, Solution]{
	Type:     puzzle.Matrix,
	Title:    "Number Matrix",
	Generate: generate,
	Validate: validate,
	Hint:     hint,
}

// base Latin square，列/欄只在同一個 band 內交換，交換後仍合法。
var base = Grid{
	{1, 2, 3, 4},
	{3, 4, 1, 2},
	{2, 1, 4, 3},
	{4, 3, 2, 1},
}

func generate(in puzzle.GenInput) puzzle.Generated[Data, Solution] {
	s := core.NewStream(in.Seed)
	solved := makeSolved(s)
	blanks := s.Range(6, 9)
	return puzzle.Generated[Data, Solution]{
		Prompt:   prompt,
		Data:     Data{Grid: mask(solved, s, blanks)},
		Solution: Solution{Solved: solved},
	}
}

func makeSolved(s *core.Stream) Grid {
	g := base
	// 擲硬幣順序固定：rows 0/1, rows 2/3, cols 0/1, cols 2/3
	if s.Float64() < 0.5 {
		g[0], g[1] = g[1], g[0]
	}
	if s.Float64() < 0.5 {
		g[2], g[3] = g[3], g[2]
	}
	if s.Float64() < 0.5 {
		swapCols(&g, 0, 1)
	}
	if s.Float64() < 0.5 {
		swapCols(&g, 2, 3)
	}
	return g
}

func swapCols(g *Grid, a, b int) {
	for r := range g {
		g[r][a], g[r][b] = g[r][b], g[r][a]
	}
}

func mask(solved Grid, s *core.Stream, blanks int) Grid {
	g := solved
	pos := make([]int, Cells)
	for i := range pos {
		pos[i] = i
	}
	core.Shuffle(s, pos)
	for i := 0; i < blanks && i < Cells; i++ {
		g[pos[i]/Size][pos[i]%Size] = 0
	}
	return g
}

// ====== validate ======

func validate(data Data, sol puzzle.Solution, answer puzzle.Answer) puzzle.Result {
	parsed, ok := ParseAnswer(answer)
	if !ok {
		return puzzle.Wrong(MsgFormat)
	}
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			clue := data.Grid[r][c]
			if clue != 0 && parsed[r][c] != clue {
				return puzzle.Wrong(MsgClueChanged)
			}
		}
	}
	if !IsSolved(parsed) {
		return puzzle.Wrong(MsgRules)
	}
	s, ok := solutionOf(sol)
	if !ok {
		return puzzle.Wrong(puzzle.MsgInvalidSolution)
	}
	if parsed != s.Solved {
		return puzzle.Wrong(MsgKeepTrying)
	}
	return puzzle.Correct()
}

// solutionOf 只接受形狀正確且本身合法的解。
func solutionOf(sol puzzle.Solution) (Solution, bool) {
	s, ok := puzzle.SolutionAs[Solution](sol)
	if !ok || !IsSolved(s.Solved) {
		return Solution{}, false
	}
	return s, true
}

// IsSolved 檢查每列、每欄、每個 2×2 區塊都恰好是 1..4。
func IsSolved(g Grid) bool {
	for i := 0; i < Size; i++ {
		var row, col [Size]int
		for j := 0; j < Size; j++ {
			row[j] = g[i][j]
			col[j] = g[j][i]
		}
		if !isSet(row) || !isSet(col) {
			return false
		}
	}
	for br := 0; br < Size; br += 2 {
		for bc := 0; bc < Size; bc += 2 {
			blk := [Size]int{g[br][bc], g[br][bc+1], g[br+1][bc], g[br+1][bc+1]}
			if !isSet(blk) {
				return false
			}
		}
	}
	return true
}

func isSet(v [Size]int) bool {
	var seen [Size + 1]bool
	for _, x := range v {
		if x < 1 || x > Size || seen[x] {
			return false
		}
		seen[x] = true
	}
	return true
}

// ParseAnswer 接受三種形式：
//   - 字串：去掉所有非數字字元後必須剛好 16 位
//   - 16 個整數的一維陣列
//   - 4×4 的二維陣列
//
// JSON 解出來的 []any / float64 也在支援範圍內。
func ParseAnswer(answer puzzle.Answer) (Grid, bool) {
	var g Grid
	switch v := answer.(type) {
	case string:
		var b strings.Builder
		for _, r := range v {
			if r >= '0' && r <= '9' {
				b.WriteRune(r)
			}
		}
		digits := b.String()
		if len(digits) != Cells {
			return g, false
		}
		for i := 0; i < Cells; i++ {
			g[i/Size][i%Size] = int(digits[i] - '0')
		}
		return g, true
	case Grid:
		return v, true
	case [Cells]int:
		return fromFlat(v[:])
	case []int:
		return fromFlat(v)
	case [][]int:
		if len(v) != Size {
			return g, false
		}
		for r, row := range v {
			if len(row) != Size {
				return g, false
			}
			copy(g[r][:], row)
		}
		return g, true
	case []any:
		return fromAny(v)
	}
	return g, false
}

func fromFlat(v []int) (Grid, bool) {
	var g Grid
	if len(v) != Cells {
		return g, false
	}
	for i, x := range v {
		g[i/Size][i%Size] = x
	}
	return g, true
}

func fromAny(v []any) (Grid, bool) {
	var g Grid
	switch len(v) {
	case Cells:
		for i, x := range v {
			n, ok := integer(x)
			if !ok {
				return g, false
			}
			g[i/Size][i%Size] = n
		}
		return g, true
	case Size:
		for r, x := range v {
			row, ok := x.([]any)
			if !ok || len(row) != Size {
				return g, false
			}
			for c, y := range row {
				n, ok := integer(y)
				if !ok {
					return g, false
				}
				g[r][c] = n
			}
		}
		return g, true
	}
	return g, false
}

func integer(x any) (int, bool) {
	f, ok := puzzle.ParseNumber(x)
	if !ok || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}

// ====== hint ======

func hint(data Data, sol puzzle.Solution, hintsUsed int) string {
	s, ok := solutionOf(sol)
	if !ok {
		return puzzle.MsgNoHint
	}
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			if data.Grid[r][c] != 0 {
				continue
			}
			// 以 hintsUsed 錯開；落點不是空格就退回第一個空格
			idx := ((r*Size+c+hintsUsed)%Cells + Cells) % Cells
			rr, cc := idx/Size, idx%Size
			if data.Grid[rr][cc] != 0 {
				rr, cc = r, c
			}
			return cellText(rr, cc, s.Solved[rr][cc])
		}
	}
	return MsgNoEmpty
}

func cellText(r, c, v int) string {
	return fmt.Sprintf("Cell (%d,%d) is %d.", r+1, c+1, v)
}
