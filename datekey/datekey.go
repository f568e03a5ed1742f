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

// Package datekey 處理 "YYYY-MM-DD" 格式的日期鍵。
//
// 日期鍵代表「使用者當地的日曆日」，不帶時區。內部一律以 UTC 午夜計算，
// 加減天數不受夏令時間影響；字典序即時間序。
package datekey

import (
	"time"

	"github.com/zintix-labs/logiclab/errs"
)

const Layout = "2006-01-02"

// Parse 解析日期鍵，回傳該日 UTC 午夜。
// 只接受正規形式（兩位數月日）。
func Parse(key string) (time.Time, error) {
	t, err := time.Parse(Layout, key)
	if err != nil || t.Format(Layout) != key {
		return time.Time{}, errs.WrapWithExtra(errs.ErrInvalidDateKey, "parse date key", "key="+key)
	}
	return t, nil
}

func Valid(key string) bool {
	_, err := Parse(key)
	return err == nil
}

// Format 取 t 所在時區的日曆日。
func Format(t time.Time) string {
	return t.Format(Layout)
}

// FromTime 取 t 在 loc 的日曆日；loc 為 nil 時沿用 t 自己的時區。
func FromTime(t time.Time, loc *time.Location) string {
	if loc != nil {
		t = t.In(loc)
	}
	return Format(t)
}

// Today 是 loc 的今天。
func Today(loc *time.Location) string {
	return FromTime(time.Now(), loc)
}

func AddDays(key string, days int) (string, error) {
	t, err := Parse(key)
	if err != nil {
		return "", err
	}
	return Format(t.AddDate(0, 0, days)), nil
}

// Range 從 from（含）往後連續 count 天。
func Range(from string, count int) ([]string, error) {
	t, err := Parse(from)
	if err != nil {
		return nil, err
	}
	if count < 0 {
		return nil, errs.Warnf("negative day count: %d", count)
	}
	out := make([]string, count)
	for i := range out {
		out[i] = Format(t.AddDate(0, 0, i))
	}
	return out, nil
}

// PastWindow 回傳 today 往前 daysBack 天到 today，共 daysBack+1 個鍵，舊的在前。
func PastWindow(today string, daysBack int) ([]string, error) {
	if daysBack < 0 {
		return nil, errs.Warnf("negative day count: %d", daysBack)
	}
	start, err := AddDays(today, -daysBack)
	if err != nil {
		return nil, err
	}
	return Range(start, daysBack+1)
}
