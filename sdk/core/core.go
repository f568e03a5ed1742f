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

// Package core 提供出題引擎唯一的亂數來源：xorshift32 + FNV-1a seed。
//
// 合約：相同 seed 必然得到相同的輸出序列。Stream 只能由 NewStream 建立，
// 串流中途不得重設 seed；要重來就建立新的 Stream。
package core

import "math"

// Stream 封裝一次出題所使用的 XorShift32 狀態，並提供常用取樣方法。
//
// Stream 不是共享物件：每次 generate 呼叫自己建立、自己用完即丟，
// 因此不需要任何鎖。
type Stream struct {
	x XorShift32
}

// NewStream 以 seed 建立新的串流。
func NewStream(seed int32) *Stream {
	return &Stream{x: NewXorShift32(seed)}
}

// State 回傳目前的 XorShift32 值（方便測試逐步比對）。
func (s *Stream) State() XorShift32 {
	return s.x
}

// NextInt 前進一步並回傳 signed 32-bit 輸出。
func (s *Stream) NextInt() int32 {
	var out int32
	s.x, out = s.x.Next()
	return out
}

// Float64 前進一步並回傳 [0,1) 浮點數。
func (s *Stream) Float64() float64 {
	var f float64
	s.x, f = s.x.Float64()
	return f
}

// Range 回傳 [lo, hi] 的整數（兩端皆包含）。
//
// 公式固定為 lo + floor(f*span) mod span，不可改成其他 bounded 演算法，
// 否則既有日期的題目會改變。hi < lo 時回傳 lo 且不消耗亂數。
func (s *Stream) Range(lo, hi int) int {
	span := hi - lo + 1
	if span <= 0 {
		return lo
	}
	return lo + int(math.Floor(s.Float64()*float64(span)))%span
}

// Pick 從 src 取出 src[floor(f*len)]。
//
// src 為空是呼叫端違約；此時回傳零值且不消耗亂數（熱路徑不回 error）。
func Pick[T any](s *Stream, src []T) T {
	var zero T
	if len(src) == 0 {
		return zero
	}
	idx := int(math.Floor(s.Float64() * float64(len(src))))
	return src[idx]
}

// Shuffle 使用 Fisher-Yates 對 src 就地重排：i 由尾到頭，j = floor(f*(i+1))。
func Shuffle[T any](s *Stream, src []T) {
	for i := len(src) - 1; i > 0; i-- {
		j := int(math.Floor(s.Float64() * float64(i+1)))
		src[i], src[j] = src[j], src[i]
	}
}
