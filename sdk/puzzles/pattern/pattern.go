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

// Package pattern 實作「選出下一個符號」題型：週期為 3 的符號序列。
package pattern

import (
	"slices"
	"strings"

	"github.com/zintix-labs/logiclab/sdk/core"
	"github.com/zintix-labs/logiclab/sdk/puzzle"
)

// Symbols 是可用符號表，順序影響出題結果。
var Symbols = []string{"▲", "●", "■", "◆", "★", "✚"}

// HintText 只說明規律，不透露答案。
const HintText = "This sequence repeats every 3 symbols. Look at where the cycle starts."

type Data struct {
	Sequence []string `json:"sequence"`
	Options  []string `json:"options"`
}

func (Data) PuzzleType() puzzle.Type { return puzzle.Pattern }

type Solution struct {
	Next string
}

func (Solution) PuzzleType() puzzle.Type { return puzzle.Pattern }

var Def = puzzle.Definition[Data, Solution]{
	Type:     puzzle.Pattern,
	Title:    "Pattern Match",
	Generate: generate,
	Validate: validate,
	Hint:     hint,
}

func without(src []string, drop ...string) []string {
	out := make([]string, 0, len(src))
	for _, s := range src {
		if !slices.Contains(drop, s) {
			out = append(out, s)
		}
	}
	return out
}

func generate(in puzzle.GenInput) puzzle.Generated[Data, Solution] {
	s := core.NewStream(in.Seed)
	a := core.Pick(s, Symbols)
	b := core.Pick(s, without(Symbols, a))
	c := core.Pick(s, without(Symbols, a, b))

	seq := []string{a, b, c, a, b, c}
	// 干擾項從整個符號表抽，撞到週期內的符號就重抽，選項一定是 4 個不重複
	cycle := []string{a, b, c}
	extra := core.Pick(s, Symbols)
	for slices.Contains(cycle, extra) {
		extra = core.Pick(s, Symbols)
	}
	opts := []string{a, b, c, extra}
	core.Shuffle(s, opts)

	return puzzle.Generated[Data, Solution]{
		Prompt:   "Choose the next symbol in the sequence: " + strings.Join(seq, " ") + " ?",
		Data:     Data{Sequence: seq, Options: opts},
		Solution: Solution{Next: a},
	}
}

func validate(data Data, sol puzzle.Solution, answer puzzle.Answer) puzzle.Result {
	ans, ok := puzzle.ParseChoice(answer)
	if !ok {
		return puzzle.Wrong(puzzle.MsgPickOne)
	}
	if !slices.Contains(data.Options, ans) {
		return puzzle.Wrong(puzzle.MsgNotAnOption)
	}
	s, ok := puzzle.SolutionAs[Solution](sol)
	if !ok || s.Next == "" {
		return puzzle.Wrong(puzzle.MsgInvalidSolution)
	}
	if ans != s.Next {
		return puzzle.Wrong(puzzle.MsgNotQuite)
	}
	return puzzle.Correct()
}

func hint(_ Data, sol puzzle.Solution, _ int) string {
	s, ok := puzzle.SolutionAs[Solution](sol)
	if !ok || s.Next == "" {
		return puzzle.MsgNoHint
	}
	return HintText
}
