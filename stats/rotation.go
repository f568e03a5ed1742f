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

// Package stats 分析每日題型輪替：各題型比例、信賴區間、卡方均勻性檢定與最長連續同題型天數。
package stats

import (
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/zintix-labs/logiclab"
	"github.com/zintix-labs/logiclab/datekey"
	"github.com/zintix-labs/logiclab/errs"
	"github.com/zintix-labs/logiclab/sdk/puzzle"
)

// Alpha 是均勻性檢定的顯著水準。
const Alpha = 0.01

// 信賴區間
type CI struct {
	Lo float64 `json:"lo" yaml:"lo"`
	Hi float64 `json:"hi" yaml:"hi"`
}

// TypeRow 是單一題型的統計。
type TypeRow struct {
	Type  puzzle.Type `json:"type" yaml:"type"`
	Count int         `json:"count" yaml:"count"`
	Share float64     `json:"share" yaml:"share"`
	CI    CI          `json:"ci95" yaml:"ci95"`
}

// RotationReport 是一段連續日期的輪替報告。
type RotationReport struct {
	From        string      `json:"from" yaml:"from"`
	To          string      `json:"to" yaml:"to"`
	Days        int         `json:"days" yaml:"days"`
	Types       []TypeRow   `json:"types" yaml:"types"`
	ChiSquare   float64     `json:"chi_square" yaml:"chi_square"`
	DF          int         `json:"df" yaml:"df"`
	PValue      float64     `json:"p_value" yaml:"p_value"`
	Uniform     bool        `json:"uniform" yaml:"uniform"`
	LongestRun  int         `json:"longest_run" yaml:"longest_run"`
	LongestType puzzle.Type `json:"longest_run_type" yaml:"longest_run_type"`
	RunCounts   []int       `json:"run_counts" yaml:"run_counts"` // RunCounts[i]：長度 i+1 的連續段數
}

// Recorder 逐日累計；日期需依序 Record。
type Recorder struct {
	from, to string
	n        int
	counts   map[puzzle.Type]int

	prev     puzzle.Type
	run      int
	longest  int
	longestT puzzle.Type
	runs     []int
}

func NewRecorder() *Recorder {
	return &Recorder{counts: make(map[puzzle.Type]int, len(logiclab.Rotation))}
}

// Record 記錄一天並回傳當天題型。
func (r *Recorder) Record(dateKey string) puzzle.Type {
	t := logiclab.PickDailyPuzzleType(dateKey)
	if r.n == 0 {
		r.from = dateKey
	}
	r.to = dateKey
	r.n++
	r.counts[t]++

	if t == r.prev && r.run > 0 {
		r.run++
	} else {
		r.closeRun()
		r.prev, r.run = t, 1
	}
	if r.run > r.longest {
		r.longest, r.longestT = r.run, t
	}
	return t
}

func (r *Recorder) closeRun() {
	if r.run == 0 {
		return
	}
	for len(r.runs) < r.run {
		r.runs = append(r.runs, 0)
	}
	r.runs[r.run-1]++
}

// Done 產生報告。之後不應再 Record。
func (r *Recorder) Done() *RotationReport {
	r.closeRun()
	r.run = 0

	rep := &RotationReport{
		From:        r.from,
		To:          r.to,
		Days:        r.n,
		DF:          len(logiclab.Rotation) - 1,
		LongestRun:  r.longest,
		LongestType: r.longestT,
		RunCounts:   append([]int(nil), r.runs...),
	}
	expected := float64(r.n) / float64(len(logiclab.Rotation))
	for _, t := range logiclab.Rotation {
		k := r.counts[t]
		share, ci := proportionCICP(k, r.n, 0.95)
		rep.Types = append(rep.Types, TypeRow{Type: t, Count: k, Share: share, CI: ci})
		if expected > 0 {
			d := float64(k) - expected
			rep.ChiSquare += d * d / expected
		}
	}
	if r.n > 0 {
		chi := distuv.ChiSquared{K: float64(rep.DF)}
		rep.PValue = 1 - chi.CDF(rep.ChiSquare)
		rep.Uniform = rep.PValue >= Alpha
	}
	return rep
}

// Rotation 分析 from 起連續 days 天。onDay 可為 nil，每記錄一天呼叫一次（進度條用）。
func Rotation(from string, days int, onDay func()) (*RotationReport, error) {
	if days < 1 {
		return nil, errs.Warnf("days must be >= 1, got %d", days)
	}
	keys, err := datekey.Range(from, days)
	if err != nil {
		return nil, err
	}
	rec := NewRecorder()
	for _, k := range keys {
		rec.Record(k)
		if onDay != nil {
			onDay()
		}
	}
	return rec.Done(), nil
}
