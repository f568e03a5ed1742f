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
	fnvOffset32 uint32 = 0x811c9dc5
	fnvPrime32  uint32 = 0x01000193
)

// HashToSeed 以 FNV-1a 32-bit 把字串轉成 seed。
//
// 與 hash/fnv 的差異：這裡逐「字元」（code point）做 XOR，而不是逐 byte。
// 對 ASCII 字串（例如 date key）兩者結果相同。
func HashToSeed(text string) int32 {
	h := fnvOffset32
	for _, r := range text {
		h ^= uint32(r)
		h *= fnvPrime32
	}
	return int32(h)
}
