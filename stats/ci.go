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

package stats

import "gonum.org/v1/gonum/stat/distuv"

// proportionCICP 是二項比例 k/n 的 Clopper–Pearson 精確信賴區間。
func proportionCICP(k int, n int, confidence float64) (pHat float64, ci CI) {
	if n == 0 {
		return 0, CI{0, 1}
	}
	alpha := 1 - confidence
	pHat = float64(k) / float64(n)

	// 邊界：k = 0 下界為 0；k = n 上界為 1
	if k == 0 {
		ci.Lo = 0
	} else {
		ci.Lo = distuv.Beta{Alpha: float64(k), Beta: float64(n - k + 1)}.Quantile(alpha / 2)
	}
	if k == n {
		ci.Hi = 1
	} else {
		ci.Hi = distuv.Beta{Alpha: float64(k + 1), Beta: float64(n - k)}.Quantile(1 - alpha/2)
	}
	return pHat, ci
}
