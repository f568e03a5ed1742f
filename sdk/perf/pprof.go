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

// Package perf 包住 runtime/pprof，讓 CLI 以 -p cpu|heap|allocs 取得 profile。
package perf

import (
	"os"
	"path/filepath"
	"runtime"
	"runtime/pprof"

	"github.com/zintix-labs/logiclab/errs"
)

// DefaultDir 是 profile 檔的預設輸出目錄。
const DefaultDir = "build/profiling"

// Run 依 mode 執行 exe 並把 profile 寫到 dir/<mode>.pprof，回傳檔案路徑（mode 為空時為空字串）。
//
//   - cpu：exe 執行期間的 CPU profile，也可作為 PGO 的輸入。
//   - heap：exe 結束後先 GC 再拍一次 in-use 快照。
//   - allocs：exe 結束後寫出累積配置。
func Run(dir, mode string, exe func() error) (string, error) {
	switch mode {
	case "":
		return "", exe()
	case "cpu", "heap", "allocs":
	default:
		return "", errs.Warnf("unknown pprof mode: %q", mode)
	}
	if dir == "" {
		dir = DefaultDir
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errs.Wrap(err, "create profiling dir")
	}
	path := filepath.Join(dir, mode+".pprof")
	f, err := os.Create(path)
	if err != nil {
		return "", errs.WrapWithExtra(err, "create profile", "path="+path)
	}
	defer f.Close()

	if mode == "cpu" {
		if err := pprof.StartCPUProfile(f); err != nil {
			return "", errs.Wrap(err, "start cpu profile")
		}
		err := exe()
		pprof.StopCPUProfile()
		return path, err
	}

	if err := exe(); err != nil {
		return path, err
	}
	if mode == "heap" {
		// 讓快照貼近最新的 live objects
		runtime.GC()
	}
	if err := pprof.Lookup(mode).WriteTo(f, 0); err != nil {
		return path, errs.Wrap(err, "write "+mode+" profile")
	}
	return path, nil
}
