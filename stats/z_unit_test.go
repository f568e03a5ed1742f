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

package stats_test

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"
	"gopkg.in/yaml.v3"

	"github.com/zintix-labs/logiclab"
	"github.com/zintix-labs/logiclab/datekey"
	"github.com/zintix-labs/logiclab/stats"
)

func TestRotationIsUniform(t *testing.T) {
	calls := 0
	rep, err := stats.Rotation("2024-01-01", 10000, func() { calls++ })
	if err != nil {
		t.Fatalf("rotation: %v", err)
	}
	if calls != 10000 || rep.Days != 10000 {
		t.Fatalf("days=%d calls=%d", rep.Days, calls)
	}
	if rep.From != "2024-01-01" {
		t.Fatalf("from=%s", rep.From)
	}
	total := 0
	for _, row := range rep.Types {
		total += row.Count
		if math.Abs(row.Share-0.2) > 0.02 {
			t.Fatalf("share of %s = %.4f", row.Type, row.Share)
		}
		if row.CI.Lo > row.Share || row.CI.Hi < row.Share {
			t.Fatalf("ci %+v does not contain %.4f", row.CI, row.Share)
		}
	}
	if total != 10000 {
		t.Fatalf("counts sum to %d", total)
	}
	if rep.DF != 4 || !rep.Uniform || rep.PValue < stats.Alpha {
		t.Fatalf("chi-square %.3f p=%.4f uniform=%v", rep.ChiSquare, rep.PValue, rep.Uniform)
	}
}

func TestRecorderRuns(t *testing.T) {
	keys, err := datekey.Range("2024-03-01", 60)
	if err != nil {
		t.Fatal(err)
	}
	rec := stats.NewRecorder()
	// 自行計算最長連續段
	longest, run := 0, 0
	for i, k := range keys {
		rec.Record(k)
		if i > 0 && logiclab.PickDailyPuzzleType(k) == logiclab.PickDailyPuzzleType(keys[i-1]) {
			run++
		} else {
			run = 1
		}
		longest = max(longest, run)
	}
	rep := rec.Done()
	if rep.LongestRun != longest {
		t.Fatalf("longest run %d want %d", rep.LongestRun, longest)
	}
	days := 0
	for i, c := range rep.RunCounts {
		days += (i + 1) * c
	}
	if days != 60 {
		t.Fatalf("run counts cover %d days", days)
	}
}

func TestRotationRejects(t *testing.T) {
	if _, err := stats.Rotation("2024-01-01", 0, nil); err == nil {
		t.Fatalf("days=0 must fail")
	}
	if _, err := stats.Rotation("2024-13-01", 5, nil); err == nil {
		t.Fatalf("bad date must fail")
	}
}

func TestRenderers(t *testing.T) {
	rep, err := stats.Rotation("2024-01-01", 365, nil)
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	r, _ := stats.NewRenderer("json")
	if err := r.Write(&buf, rep); err != nil {
		t.Fatal(err)
	}
	var back stats.RotationReport
	if err := json.Unmarshal(buf.Bytes(), &back); err != nil || back.Days != 365 {
		t.Fatalf("json: %v %+v", err, back)
	}

	buf.Reset()
	r, _ = stats.NewRenderer("yaml")
	if err := r.Write(&buf, rep); err != nil {
		t.Fatal(err)
	}
	var y stats.RotationReport
	if err := yaml.Unmarshal(buf.Bytes(), &y); err != nil || y.Days != 365 || len(y.Types) != 5 {
		t.Fatalf("yaml: %v %+v", err, y)
	}
	if !strings.Contains(buf.String(), "run_counts: [") {
		t.Fatalf("inner list should be flow style:\n%s", buf.String())
	}

	buf.Reset()
	r, _ = stats.NewRenderer("table")
	if err := r.Write(&buf, rep); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"Daily Rotation", "matrix", "binary", "p-value"} {
		if !strings.Contains(out, want) {
			t.Fatalf("table missing %q:\n%s", want, out)
		}
	}
	// 摘要表每一列寬度一致
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	width := runewidth.StringWidth(lines[0])
	for _, l := range lines[:9] {
		if runewidth.StringWidth(l) != width {
			t.Fatalf("ragged table line %q", l)
		}
	}

	if _, err := stats.NewRenderer("xml"); err == nil {
		t.Fatalf("unknown format must fail")
	}
}
