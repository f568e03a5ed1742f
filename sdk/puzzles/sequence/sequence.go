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

// Package sequence 實作「下一個數字」題型。
//
// 三種規則：等差、乘後加、類費氏。都只給四項，答案是第五項。
package sequence

import (
	"strconv"
	"strings"

	"github.com/zintix-labs/logiclab/sdk/core"
	"github.com/zintix-labs/logiclab/sdk/puzzle"
)

const MsgEnterNumber = "Enter a number."

// Kind 是數列規則。
type Kind int

const (
	Arithmetic Kind = iota
	MulAdd
	FibLike
)

type Data struct {
	Terms []int `json:"terms"`
}

func (Data) PuzzleType() puzzle.Type { return puzzle.Sequence }

type Solution struct {
	Kind Kind
	Next int
}

func (Solution) PuzzleType() puzzle.Type { return puzzle.Sequence }

var Def = puzzle.Definition[Data, Solution]{
	Type:     puzzle.Sequence,
	Title:    "Sequence Solver",
	Generate: generate,
	Validate: validate,
	Hint:     hint,
}

func generate(in puzzle.GenInput) puzzle.Generated[Data, Solution] {
	s := core.NewStream(in.Seed)
	kind := Kind(s.Range(0, 2))

	var terms []int
	var next int
	var lead string
	switch kind {
	case Arithmetic:
		start := s.Range(1, 20)
		step := s.Range(2, 9)
		terms = []int{start, start + step, start + 2*step, start + 3*step}
		next = start + 4*step
		lead = "What is the next number? "
	case MulAdd:
		start := s.Range(1, 10)
		mul := s.Range(2, 4)
		add := s.Range(1, 6)
		terms = []int{start}
		for i := 0; i < 3; i++ {
			terms = append(terms, terms[len(terms)-1]*mul+add)
		}
		next = terms[len(terms)-1]*mul + add
		lead = "Find the next term: "
	default:
		a := s.Range(1, 9)
		b := s.Range(1, 9)
		c := a + b
		d := b + c
		terms = []int{a, b, c, d}
		next = c + d
		lead = "What comes next? "
	}

	return puzzle.Generated[Data, Solution]{
		Prompt:   lead + join(terms) + ", ?",
		Data:     Data{Terms: terms},
		Solution: Solution{Kind: kind, Next: next},
	}
}

func join(terms []int) string {
	parts := make([]string, len(terms))
	for i, t := range terms {
		parts[i] = strconv.Itoa(t)
	}
	return strings.Join(parts, ", ")
}

func validate(_ Data, sol puzzle.Solution, answer puzzle.Answer) puzzle.Result {
	n, ok := puzzle.ParseNumber(answer)
	if !ok {
		return puzzle.Wrong(MsgEnterNumber)
	}
	s, ok := puzzle.SolutionAs[Solution](sol)
	if !ok {
		return puzzle.Wrong(puzzle.MsgInvalidSolution)
	}
	if n != float64(s.Next) {
		return puzzle.Wrong(puzzle.MsgNotQuite)
	}
	return puzzle.Correct()
}

func hint(data Data, _ puzzle.Solution, _ int) string {
	return "Look at the differences or how each term is built from the previous ones: " + join(data.Terms) + "."
}
