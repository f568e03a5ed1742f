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

package history

import (
	"testing"
)

func TestLevel(t *testing.T) {
	cases := []struct {
		e    Entry
		want int
	}{
		{Entry{Solved: false, Score: 900}, 0},
		{Entry{Solved: true, Score: 1000}, 3},
		{Entry{Solved: true, Score: 800}, 3},
		{Entry{Solved: true, Score: 799}, 2},
		{Entry{Solved: true, Score: 500}, 2},
		{Entry{Solved: true, Score: 499}, 1},
		{Entry{Solved: true, Score: 0}, 1},
	}
	for _, c := range cases {
		if got := Level(c.e); got != c.want {
			t.Fatalf("Level(%+v)=%d want %d", c.e, got, c.want)
		}
	}
}

func TestStreak(t *testing.T) {
	entries := []Entry{
		{DateKey: "2024-03-01", Solved: true, Score: 900},
		{DateKey: "2024-02-29", Solved: true, Score: 400},
		{DateKey: "2024-02-28", Solved: true, Score: 600},
		{DateKey: "2024-02-26", Solved: true, Score: 600},
	}
	if got := Streak("2024-03-01", entries); got != 3 {
		t.Fatalf("streak across leap day: %d", got)
	}
	if got := Streak("2024-03-02", entries); got != 0 {
		t.Fatalf("today unsolved: %d", got)
	}
	entries[0].Solved = false
	if got := Streak("2024-03-01", entries); got != 0 {
		t.Fatalf("today failed: %d", got)
	}
}

func TestHeatmap(t *testing.T) {
	entries := []Entry{
		{DateKey: "2024-03-01", Solved: true, Score: 900},
		{DateKey: "2024-02-28", Solved: true, Score: 450},
		{DateKey: "2023-01-01", Solved: true, Score: 900}, // 視窗外
	}
	cells, err := Heatmap("2024-03-01", 2, entries)
	if err != nil {
		t.Fatalf("heatmap: %v", err)
	}
	if len(cells) != 3 {
		t.Fatalf("want 3 cells, got %d", len(cells))
	}
	want := []struct {
		key   string
		level int
	}{{"2024-02-28", 1}, {"2024-02-29", 0}, {"2024-03-01", 3}}
	for i, w := range want {
		if cells[i].DateKey != w.key || cells[i].Level != w.level {
			t.Fatalf("cell %d = %+v want %+v", i, cells[i], w)
		}
	}

	s, err := Summarize("2024-03-01", DefaultDaysBack, entries)
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if len(s.Cells) != DefaultDaysBack+1 || s.Streak != 1 {
		t.Fatalf("summary: %d cells, streak %d", len(s.Cells), s.Streak)
	}
	if _, err := Heatmap("bad", 3, nil); err == nil {
		t.Fatalf("bad key should fail")
	}
}
