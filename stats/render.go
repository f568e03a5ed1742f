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

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"

	"github.com/zintix-labs/logiclab/errs"
)

var lang language.Tag = language.English

// Renderer 把報告寫到 w。
type Renderer interface {
	Write(w io.Writer, r *RotationReport) error
}

// NewRenderer 依格式名稱回傳 Renderer：table / json / yaml。
func NewRenderer(format string) (Renderer, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "table":
		return TableRender{}, nil
	case "json":
		return JSONRender{}, nil
	case "yaml", "yml":
		return YAMLRender{}, nil
	}
	return nil, errs.Warnf("unknown format: %q", format)
}

// Json渲染
type JSONRender struct{}

func (JSONRender) Write(w io.Writer, r *RotationReport) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// YAML渲染：最內層的一維陣列輸出成 flow style [a, b, c]，其餘照預設展開。
type YAMLRender struct{}

func (YAMLRender) Write(w io.Writer, r *RotationReport) error {
	var node yaml.Node
	if err := node.Encode(r); err != nil {
		return err
	}
	flowInnerSequences(&node)
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(&node)
}

func flowInnerSequences(n *yaml.Node) {
	if n == nil {
		return
	}
	nested := false
	for _, c := range n.Content {
		if c != nil && (c.Kind == yaml.SequenceNode || c.Kind == yaml.MappingNode) {
			nested = true
		}
		flowInnerSequences(c)
	}
	if n.Kind == yaml.SequenceNode && !nested {
		n.Style = yaml.FlowStyle
	}
}

// TableRender 輸出兩張表：摘要與各題型比例。寬度以 runewidth 計算。
type TableRender struct{}

func (TableRender) Write(w io.Writer, r *RotationReport) error {
	p := message.NewPrinter(lang)

	summary := [][]string{
		{"From", r.From},
		{"To", r.To},
		{"Days", p.Sprintf("%d", r.Days)},
		{"Chi-square", p.Sprintf("%.4f (df=%d)", r.ChiSquare, r.DF)},
		{"p-value", p.Sprintf("%.4f", r.PValue)},
		{"Uniform", p.Sprintf("%t (alpha=%.2f)", r.Uniform, Alpha)},
		{"Longest run", p.Sprintf("%d days (%s)", r.LongestRun, r.LongestType)},
	}
	rows := [][]string{{"Type", "Count", "Share", "95% CI"}}
	for _, t := range r.Types {
		rows = append(rows, []string{
			string(t.Type),
			p.Sprintf("%d", t.Count),
			p.Sprintf("%.2f %%", 100*t.Share),
			p.Sprintf("[%.2f%%, %.2f%%]", 100*t.CI.Lo, 100*t.CI.Hi),
		})
	}

	var b strings.Builder
	b.WriteString(fmtTable("Daily Rotation", summary, false))
	b.WriteString(fmtTable("Type Share", rows, true))
	_, err := io.WriteString(w, b.String())
	return err
}

// fmtTable 畫出固定欄寬的表格；header 為 true 時第一列當表頭。
func fmtTable(title string, rows [][]string, header bool) string {
	var widths []int
	for _, row := range rows {
		for i, cell := range row {
			if i >= len(widths) {
				widths = append(widths, 0)
			}
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}
	inner := -1
	for _, wd := range widths {
		inner += wd + 3
	}
	inner = max(inner, runewidth.StringWidth(title)+2)
	// 標題比欄位寬時把差額補在最後一欄
	if extra := inner - sumCols(widths); extra > 0 && len(widths) > 0 {
		widths[len(widths)-1] += extra
	}

	divider := "+"
	for _, wd := range widths {
		divider += strings.Repeat("-", wd+2) + "+"
	}
	divider += "\n"

	var b strings.Builder
	b.WriteString("+" + strings.Repeat("-", inner) + "+\n")
	left := (inner - runewidth.StringWidth(title)) / 2
	b.WriteString("|" + blank(left) + title + blank(inner-runewidth.StringWidth(title)-left) + "|\n")
	b.WriteString(divider)
	for i, row := range rows {
		b.WriteString("|")
		for j, cell := range row {
			b.WriteString(" " + cell + blank(widths[j]-runewidth.StringWidth(cell)) + " |")
		}
		b.WriteString("\n")
		if header && i == 0 {
			b.WriteString(divider)
		}
	}
	b.WriteString(divider)
	return b.String()
}

func sumCols(widths []int) int {
	s := -1
	for _, wd := range widths {
		s += wd + 3
	}
	return s
}

func blank(w int) string {
	if w < 1 {
		return ""
	}
	return strings.Repeat(" ", w)
}
