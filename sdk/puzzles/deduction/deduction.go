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

// Package deduction 實作二選一的推理題。
package deduction

import (
	"slices"
	"strings"

	"github.com/zintix-labs/logiclab/sdk/core"
	"github.com/zintix-labs/logiclab/sdk/puzzle"
)

var (
	Names  = []string{"Ava", "Noah", "Mia", "Liam", "Zoe", "Ethan"}
	Colors = []string{"Blue", "Purple", "Orange", "White"}
)

type Data struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

func (Data) PuzzleType() puzzle.Type { return puzzle.Deduction }

type Solution struct {
	CorrectIndex int
}

func (Solution) PuzzleType() puzzle.Type { return puzzle.Deduction }

var Def = puzzle.Definition[Data, Solution]{
	Type:     puzzle.Deduction,
	Title:    "Deduction Grid",
	Generate: generate,
	Validate: validate,
	Hint:     hint,
}

func generate(in puzzle.GenInput) puzzle.Generated[Data, Solution] {
	s := core.NewStream(in.Seed)
	n1 := core.Pick(s, Names)
	n2 := core.Pick(s, slices.DeleteFunc(slices.Clone(Names), func(n string) bool { return n == n1 }))
	c1 := core.Pick(s, Colors)
	c2 := core.Pick(s, slices.DeleteFunc(slices.Clone(Colors), func(c string) bool { return c == c1 }))

	q := "Two players " + n1 + " and " + n2 + " picked different colors: " + c1 + " and " + c2 + ". " +
		"Clue: " + n1 + " did not pick " + c1 + ". Who picked " + c1 + "?"

	// 線索排除 n1，答案固定是第二個選項
	return puzzle.Generated[Data, Solution]{
		Prompt:   q,
		Data:     Data{Question: q, Options: []string{n1, n2}},
		Solution: Solution{CorrectIndex: 1},
	}
}

func validate(data Data, sol puzzle.Solution, answer puzzle.Answer) puzzle.Result {
	ans, ok := puzzle.ParseChoice(answer)
	if !ok {
		return puzzle.Wrong(puzzle.MsgPickOne)
	}
	idx := slices.Index(data.Options, ans)
	if idx < 0 {
		return puzzle.Wrong(puzzle.MsgNotAnOption)
	}
	s, ok := puzzle.SolutionAs[Solution](sol)
	if !ok {
		return puzzle.Wrong(puzzle.MsgInvalidSolution)
	}
	if idx != s.CorrectIndex {
		return puzzle.Wrong(puzzle.MsgNotQuite)
	}
	return puzzle.Correct()
}

func hint(data Data, _ puzzle.Solution, _ int) string {
	return "Use the clue to eliminate one option. Choices: " + strings.Join(data.Options, " / ") + "."
}
