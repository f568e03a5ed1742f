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

package datekey

import (
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/zintix-labs/logiclab/errs"
)

func TestParseRejectsNonCanonical(t *testing.T) {
	for _, k := range []string{"", "2024-1-01", "2024-01-1", "2024/01/01", "2024-02-30", "20240101", "2024-01-01T00"} {
		if Valid(k) {
			t.Fatalf("%q should be invalid", k)
		}
	}
	_, err := Parse("nope")
	if !errors.Is(err, errs.ErrInvalidDateKey) {
		t.Fatalf("want ErrInvalidDateKey, got %v", err)
	}
	if !Valid("2024-02-29") {
		t.Fatalf("leap day should be valid")
	}
}

func TestRangeLeapYear(t *testing.T) {
	got, err := Range("2024-02-28", 3)
	if err != nil {
		t.Fatalf("range: %v", err)
	}
	want := []string{"2024-02-28", "2024-02-29", "2024-03-01"}
	if !slices.Equal(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
	got, _ = Range("2023-12-31", 2)
	if !slices.Equal(got, []string{"2023-12-31", "2024-01-01"}) {
		t.Fatalf("year roll: %v", got)
	}
	if _, err := Range("2024-01-01", -1); err == nil {
		t.Fatalf("negative count should fail")
	}
}

func TestPastWindow(t *testing.T) {
	got, err := PastWindow("2024-03-01", 2)
	if err != nil {
		t.Fatalf("window: %v", err)
	}
	if !slices.Equal(got, []string{"2024-02-28", "2024-02-29", "2024-03-01"}) {
		t.Fatalf("got %v", got)
	}
	got, _ = PastWindow("2024-03-01", 34)
	if len(got) != 35 || got[34] != "2024-03-01" {
		t.Fatalf("default window: %d %v", len(got), got[len(got)-1])
	}
}

func TestFromTimeUsesLocation(t *testing.T) {
	utc := time.Date(2024, 1, 1, 23, 30, 0, 0, time.UTC)
	tokyo := time.FixedZone("JST", 9*3600)
	if got := FromTime(utc, tokyo); got != "2024-01-02" {
		t.Fatalf("tokyo: %s", got)
	}
	if got := FromTime(utc, nil); got != "2024-01-01" {
		t.Fatalf("own zone: %s", got)
	}
	if k, _ := AddDays("2024-03-10", 1); k != "2024-03-11" {
		t.Fatalf("add: %s", k)
	}
}

// 字典序 == 時間序
func TestLexicalOrder(t *testing.T) {
	keys, _ := Range("2023-12-25", 30)
	if !slices.IsSorted(keys) {
		t.Fatalf("keys not sorted: %v", keys)
	}
}
