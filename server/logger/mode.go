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

// Package logger 組裝外殼使用的 *slog.Logger。
//
// 元件一律以參數接收 *slog.Logger，不使用全域 logger。
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/zintix-labs/logiclab/errs"
)

// LogMode 決定 handler 的格式、輸出與等級。
type LogMode uint8

const (
	ModeDev     LogMode = iota // text / stderr / debug
	ModeProd                   // json / stdout / info
	ModeSilence                // discard
)

var modeNames = map[LogMode]string{
	ModeDev:     "dev",
	ModeProd:    "prod",
	ModeSilence: "silence",
}

func (m LogMode) String() string {
	if s, ok := modeNames[m]; ok {
		return s
	}
	return "unknown"
}

// ParseLogMode 接受 dev / prod / silence（不分大小寫）。
func ParseLogMode(s string) (LogMode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for m, name := range modeNames {
		if name == s {
			return m, nil
		}
	}
	return ModeDev, errs.Warnf("unknown log mode: %q", s)
}

// MarshalText / UnmarshalText 讓 yaml 與 env 直接讀寫字串形式。
func (m LogMode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

func (m *LogMode) UnmarshalText(b []byte) error {
	v, err := ParseLogMode(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// New 依 mode 建立同步 logger。
func New(mode LogMode) *slog.Logger {
	return slog.New(handlerFor(mode))
}

// NewAsync 依 mode 建立非同步 logger，並回傳 handler 供關閉時 Close。
func NewAsync(mode LogMode, buf int) (*slog.Logger, *AsyncHandler) {
	h := NewAsyncHandler(handlerFor(mode), buf)
	return slog.New(h), h
}

// Discard 是測試用的靜默 logger。
func Discard() *slog.Logger {
	return New(ModeSilence)
}

// OrDiscard：nil 時回傳 Discard()。
func OrDiscard(l *slog.Logger) *slog.Logger {
	if l == nil {
		return Discard()
	}
	return l
}

func handlerFor(mode LogMode) slog.Handler {
	switch mode {
	case ModeProd:
		// 正式環境 JSON 到 stdout，交給收集器
		return slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	case ModeSilence:
		return slog.NewTextHandler(io.Discard, nil)
	default:
		return slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
}
