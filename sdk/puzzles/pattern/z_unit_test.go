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

package pattern

import (
	"slices"
	"strings"
	"testing"

	"github.com/zintix-labs/logiclab/sdk/core"
	"github.com/zintix-labs/logiclab/sdk/puzzle"
)

func TestGenerateShape(t *testing.T) {
	for seed := int32(1); seed <= 1000; seed++ {
		g := Def.Generate(puzzle.GenInput{Seed: seed})
		d := g.Data
		if len(d.Sequence) != 6 || len(d.Options) != 4 {
			t.Fatalf("seed %d: bad shape %+v", seed, d)
		}
		a, b, c := d.Sequence[0], d.Sequence[1], d.Sequence[2]
		if a == b || b == c || a == c {
			t.Fatalf("seed %d: cycle not distinct %v", seed, d.Sequence)
		}
		if d.Sequence[3] != a || d.Sequence[4] != b || d.Sequence[5] != c {
			t.Fatalf("seed %d: not a 3-cycle %v", seed, d.Sequence)
		}
		if g.Solution.Next != a {
			t.Fatalf("seed %d: next should be %s", seed, a)
		}
		seen := map[string]bool{}
		for _, o := range d.Options {
			if seen[o] || !slices.Contains(Symbols, o) {
				t.Fatalf("seed %d: bad options %v", seed, d.Options)
			}
			seen[o] = true
		}
		if !seen[a] || !seen[b] || !seen[c] {
			t.Fatalf("seed %d: options miss cycle symbols %v", seed, d.Options)
		}
		if !strings.HasPrefix(g.Prompt, "Choose the next symbol in the sequence: ") {
			t.Fatalf("seed %d: prompt %q", seed, g.Prompt)
		}
	}
}

func TestValidate(t *testing.T) {
	g := Def.Generate(puzzle.GenInput{Seed: 31337})
	d, sol := g.Data, g.Solution

	if res := Def.Validate(d, sol, " "+sol.Next+" "); !res.OK || res.Message != puzzle.MsgCorrect {
		t.Fatalf("correct answer: %+v", res)
	}
	var wrong string
	for _, o := range d.Options {
		if o != sol.Next {
			wrong = o
			break
		}
	}
	if res := Def.Validate(d, sol, wrong); res.OK || res.Message != puzzle.MsgNotQuite {
		t.Fatalf("wrong answer: %+v", res)
	}
	if res := Def.Validate(d, sol, ""); res.Message != puzzle.MsgPickOne {
		t.Fatalf("empty: %+v", res)
	}
	if res := Def.Validate(d, sol, 3); res.Message != puzzle.MsgPickOne {
		t.Fatalf("non-string: %+v", res)
	}
	if res := Def.Validate(d, sol, "X"); res.Message != puzzle.MsgNotAnOption {
		t.Fatalf("not an option: %+v", res)
	}
	if res := Def.Validate(d, nil, sol.Next); res.Message != puzzle.MsgInvalidSolution {
		t.Fatalf("nil solution: %+v", res)
	}
}

func TestHint(t *testing.T) {
	for seed := int32(1); seed <= 200; seed++ {
		g := Def.Generate(puzzle.GenInput{Seed: seed})
		for used := 0; used < 3; used++ {
			got := Def.Hint(g.Data, g.Solution, used)
			if got != HintText {
				t.Fatalf("seed %d: unexpected hint %q", seed, got)
			}
			if strings.Contains(got, g.Solution.Next) {
				t.Fatalf("seed %d: hint gives away the answer %q", seed, got)
			}
		}
	}
	if got := Def.Hint(Data{}, nil, 0); got != puzzle.MsgNoHint {
		t.Fatalf("unexpected hint %q", got)
	}
}

// 沒有碰撞時，干擾項就是第一次抽到的符號。
func TestExtraDrawKeepsFirstPickWithoutCollision(t *testing.T) {
	kept := 0
	for seed := int32(1); seed <= 1000; seed++ {
		s := core.NewStream(seed)
		a := core.Pick(s, Symbols)
		b := core.Pick(s, without(Symbols, a))
		c := core.Pick(s, without(Symbols, a, b))
		first := core.Pick(s, Symbols)
		if first == a || first == b || first == c {
			continue
		}
		kept++
		g := Def.Generate(puzzle.GenInput{Seed: seed})
		if !slices.Contains(g.Data.Options, first) {
			t.Fatalf("seed %d: extra %s missing from %v", seed, first, g.Data.Options)
		}
	}
	if kept == 0 {
		t.Fatalf("no collision-free seeds")
	}
}
