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

package core

const (
	// zeroSeedSubstitute 取代 seed == 0（0 是 xorshift 的不動點，永遠輸出 0）。
	zeroSeedSubstitute uint32 = 0x6d2b79f5
	xorshiftFloatUnit         = 1.0 / (1 << 32)
)

// XorShift32 為 32-bit 狀態的 xorshift 產生器。
//
// 它是一個「值」：Next / Float64 不會修改接收者，而是回傳 (新狀態, 輸出)。
// 呼叫端自行決定要不要把新狀態接回去，因此整條串流可以在測試中逐步重播。
type XorShift32 struct {
	state uint32
}

// NewXorShift32 以 seed 建立初始狀態；seed == 0 時改用固定非零常數。
func NewXorShift32(seed int32) XorShift32 {
	s := uint32(seed)
	if s == 0 {
		s = zeroSeedSubstitute
	}
	return XorShift32{state: s}
}

// State 回傳目前的 32-bit 內部狀態。
func (x XorShift32) State() uint32 {
	return x.state
}

// Next 執行一次狀態轉移：x ^= x<<13; x ^= x>>17; x ^= x<<5。
// 回傳新狀態以及新狀態的 signed 32-bit 表示。
func (x XorShift32) Next() (XorShift32, int32) {
	s := x.state
	s ^= s << 13
	s ^= s >> 17
	s ^= s << 5
	return XorShift32{state: s}, int32(s)
}

// Float64 回傳 (新狀態, [0,1) 浮點數)，精度 32-bit。
func (x XorShift32) Float64() (XorShift32, float64) {
	next, out := x.Next()
	return next, float64(uint32(out)) * xorshiftFloatUnit
}
