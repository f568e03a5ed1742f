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

// Package puzzle 定義五種題型共用的合約（generate / validate / hint）與基本型別。
//
// 題型實作放在 sdk/puzzles/* 底下，每個子套件各自宣告 Data / Solution 型別，
// 並匯出一個 Definition。分派（dispatch）由根套件 logiclab 以 type switch 完成。
package puzzle

// Type 是題型標籤（封閉集合）。
type Type string

const (
	Matrix    Type = "matrix"
	Pattern   Type = "pattern"
	Sequence  Type = "sequence"
	Deduction Type = "deduction"
	Binary    Type = "binary"
)

// Types 依輪替順序列出所有題型。順序是相容性的一部分，不可調整。
var Types = [...]Type{Matrix, Pattern, Sequence, Deduction, Binary}

// ParseType 把字串轉成 Type；不在集合內回傳 false。
func ParseType(s string) (Type, bool) {
	for _, t := range Types {
		if string(t) == s {
			return t, true
		}
	}
	return "", false
}

// Data 是 Puzzle.Data 的 tagged union 成員，可公開給任何客戶端。
type Data interface {
	PuzzleType() Type
}

// Solution 是與 Data 同時產生的私有解答，永不持久化。
type Solution interface {
	PuzzleType() Type
}

// Answer 是玩家提交的答案：數字、字串，或（Matrix）數字陣列。
// 解析與拒絕格式錯誤的責任在各題型的 Validate。
type Answer = any

// Puzzle 是可快取、可轉發的公開題目（不含解答）。
type Puzzle struct {
	ID      string `json:"id"`
	Type    Type   `json:"type"`
	DateKey string `json:"dateKey"`
	Title   string `json:"title"`
	Prompt  string `json:"prompt"`
	Data    Data   `json:"data"`
}

// ID 回傳 "<dateKey>:<type>"。
func ID(dateKey string, t Type) string {
	return dateKey + ":" + string(t)
}

// GenInput 為 generate 的輸入。
type GenInput struct {
	DateKey string
	Seed    int32
}

// Generated 為 generate 的輸出。
type Generated[D Data, S Solution] struct {
	Prompt   string
	Data     D
	Solution S
}

// Definition 是單一題型的完整合約。
//
//   - Generate / Validate 必填，Hint 可為 nil（由分派端補上 fallback）。
//   - 三者都是純函數：不得持有狀態、不得做 I/O。
//   - Validate 收到的是 Solution 介面：型別不符即回 "Invalid solution"。
type Definition[D Data, S Solution] struct {
	Type     Type
	Title    string
	Generate func(in GenInput) Generated[D, S]
	Validate func(data D, sol Solution, answer Answer) Result
	Hint     func(data D, sol Solution, hintsUsed int) string
}

// HintOr 呼叫 Hint；題型沒有提供 Hint 時回傳 fallback。
func (d Definition[D, S]) HintOr(data D, sol Solution, hintsUsed int, fallback string) string {
	if d.Hint == nil {
		return fallback
	}
	return d.Hint(data, sol, hintsUsed)
}

// Build 執行 Generate 並包成 Puzzle + Solution。
func (d Definition[D, S]) Build(dateKey string, seed int32) (Puzzle, S) {
	g := d.Generate(GenInput{DateKey: dateKey, Seed: seed})
	p := Puzzle{
		ID:      ID(dateKey, d.Type),
		Type:    d.Type,
		DateKey: dateKey,
		Title:   d.Title,
		Prompt:  g.Prompt,
		Data:    g.Data,
	}
	return p, g.Solution
}

// SolutionAs 把 Solution 介面轉回具體型別。nil 或型別不符回傳 false。
func SolutionAs[S Solution](sol Solution) (S, bool) {
	s, ok := sol.(S)
	return s, ok
}
