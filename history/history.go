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

// Package history 把每日進度整理成熱度圖與連續天數。
package history

import (
	"github.com/zintix-labs/logiclab/datekey"
	"github.com/zintix-labs/logiclab/store"
)

// DefaultDaysBack：預設顯示 35 天（今天 + 往前 34 天）。
const DefaultDaysBack = 34

// Entry 是某一天的結果。
type Entry struct {
	DateKey string `json:"dateKey"`
	Solved  bool   `json:"solved"`
	Score   int    `json:"score"`
}

// Cell 是熱度圖的一格。
type Cell struct {
	Entry
	Level int `json:"level"`
}

// Summary 是整個視窗的結果。
type Summary struct {
	Today  string `json:"today"`
	Streak int    `json:"streak"`
	Cells  []Cell `json:"cells"`
}

// Level：未解 0；>= 800 為 3；>= 500 為 2；其餘 1。
func Level(e Entry) int {
	switch {
	case !e.Solved:
		return 0
	case e.Score >= 800:
		return 3
	case e.Score >= 500:
		return 2
	}
	return 1
}

// FromProgress 轉換進度列。
func FromProgress(ps []store.Progress) []Entry {
	out := make([]Entry, 0, len(ps))
	for _, p := range ps {
		out = append(out, Entry{DateKey: p.DateKey, Solved: p.Solved(), Score: p.Score})
	}
	return out
}

func byDate(entries []Entry) map[string]Entry {
	m := make(map[string]Entry, len(entries))
	for _, e := range entries {
		m[e.DateKey] = e
	}
	return m
}

// Streak 從 today 往回數，連續解出的天數。today 沒解出就是 0。
func Streak(today string, entries []Entry) int {
	m := byDate(entries)
	n := 0
	cur := today
	for {
		if e, ok := m[cur]; !ok || !e.Solved {
			return n
		}
		n++
		prev, err := datekey.AddDays(cur, -1)
		if err != nil {
			return n
		}
		cur = prev
	}
}

// Heatmap 回傳 PastWindow(today, daysBack) 每一天的格子，舊的在前。沒有紀錄的日子 Level 0。
func Heatmap(today string, daysBack int, entries []Entry) ([]Cell, error) {
	keys, err := datekey.PastWindow(today, daysBack)
	if err != nil {
		return nil, err
	}
	m := byDate(entries)
	cells := make([]Cell, len(keys))
	for i, k := range keys {
		e, ok := m[k]
		if !ok {
			e = Entry{DateKey: k}
		}
		cells[i] = Cell{Entry: e, Level: Level(e)}
	}
	return cells, nil
}

// Summarize = Heatmap + Streak。
func Summarize(today string, daysBack int, entries []Entry) (Summary, error) {
	cells, err := Heatmap(today, daysBack, entries)
	if err != nil {
		return Summary{}, err
	}
	return Summary{Today: today, Streak: Streak(today, entries), Cells: cells}, nil
}
