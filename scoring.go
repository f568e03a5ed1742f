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

package logiclab

// 計分常數
const (
	BaseScore      = 1000
	HintPenalty    = 150
	AttemptPenalty = 50 // 第一次之後每多一次
	SecondPenalty  = 2  // 每滿一秒
)

// ScoreInput 是計分所需的解題行為。
type ScoreInput struct {
	Solved      bool
	HintsUsed   int
	Attempts    int
	TimeTakenMs int64
}

// ComputeScore 回傳 0..1000 的分數。未解出為 0。
//
//	1000 - hints*150 - max(0, attempts-1)*50 - floor(max(0, ms)/1000)*2，最低 0
//
// 負的 hints 視為 0，確保提示越多分數不會越高。
func ComputeScore(in ScoreInput) int {
	if !in.Solved {
		return 0
	}
	hints := int64(max(0, in.HintsUsed))
	extra := int64(max(0, in.Attempts-1))
	secs := max(0, in.TimeTakenMs) / 1000

	score := int64(BaseScore) - hints*HintPenalty - extra*AttemptPenalty - secs*SecondPenalty
	return int(max(0, score))
}
