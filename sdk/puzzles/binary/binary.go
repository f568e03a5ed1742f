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

// Package binary 實作三輸入布林運算題：(A op1 B) op2 C。
package binary

import (
	"fmt"

	"github.com/zintix-labs/logiclab/sdk/core"
	"github.com/zintix-labs/logiclab/sdk/puzzle"
)

const MsgEnterBit = "Enter 0 or 1."

type Op string

const (
	AND Op = "AND"
	OR  Op = "OR"
	XOR Op = "XOR"
)

var Ops = []Op{AND, OR, XOR}

// Eval 對兩個位元套用 op。
func (op Op) Eval(a, b int) int {
	switch op {
	case AND:
		return a & b
	case OR:
		return a | b
	default:
		return a ^ b
	}
}

type Inputs struct {
	A int `json:"A"`
	B int `json:"B"`
	C int `json:"C"`
}

type Data struct {
	Expression string `json:"expression"`
	Inputs     Inputs `json:"inputs"`
}

func (Data) PuzzleType() puzzle.Type { return puzzle.Binary }

type Solution struct {
	Out int
}

func (Solution) PuzzleType() puzzle.Type { return puzzle.Binary }

var Def = puzzle.Definition[Data, Solution]{
	Type:     puzzle.Binary,
	Title:    "Binary Logic",
	Generate: generate,
	Validate: validate,
	Hint:     hint,
}

// Expression 回傳 "(A op1 B) op2 C"。
func Expression(op1, op2 Op) string {
	return fmt.Sprintf("(A %s B) %s C", op1, op2)
}

func generate(in puzzle.GenInput) puzzle.Generated[Data, Solution] {
	s := core.NewStream(in.Seed)
	op1 := core.Pick(s, Ops)
	op2 := core.Pick(s, Ops)
	x := Inputs{A: s.Range(0, 1), B: s.Range(0, 1), C: s.Range(0, 1)}

	expr := Expression(op1, op2)
	out := op2.Eval(op1.Eval(x.A, x.B), x.C)
	return puzzle.Generated[Data, Solution]{
		Prompt:   fmt.Sprintf("Compute the output for %s with A=%d, B=%d, C=%d. Answer 0 or 1.", expr, x.A, x.B, x.C),
		Data:     Data{Expression: expr, Inputs: x},
		Solution: Solution{Out: out},
	}
}

func validate(_ Data, sol puzzle.Solution, answer puzzle.Answer) puzzle.Result {
	n, ok := puzzle.ParseNumber(answer)
	if !ok || (n != 0 && n != 1) {
		return puzzle.Wrong(MsgEnterBit)
	}
	s, ok := puzzle.SolutionAs[Solution](sol)
	if !ok || (s.Out != 0 && s.Out != 1) {
		return puzzle.Wrong(puzzle.MsgInvalidSolution)
	}
	if int(n) != s.Out {
		return puzzle.Wrong(puzzle.MsgNotQuite)
	}
	return puzzle.Correct()
}

func hint(data Data, _ puzzle.Solution, _ int) string {
	x := data.Inputs
	return fmt.Sprintf("Evaluate inside parentheses first. Inputs: A=%d, B=%d, C=%d.", x.A, x.B, x.C)
}
