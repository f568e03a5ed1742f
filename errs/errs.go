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

// Package errs 定義 logiclab 外殼（store / session / server）共用的分級錯誤。
//
// 出題核心本身不回傳 error：答案格式錯誤等情況一律以 puzzle.Result 表達。
// 只有邊界 I/O（快取、資料庫、網路）與請求參數錯誤會走到這裡。
package errs

import (
	"errors"
	"fmt"
)

// ErrLevel 決定 HTTP 邊界怎麼回應：Warn 是呼叫端的錯（4xx），Fatal 是我們的錯（5xx）。
type ErrLevel uint8

const (
	None ErrLevel = iota
	Fatal
	Warn
)

func (l ErrLevel) String() string {
	switch l {
	case Fatal:
		return "fatal"
	case Warn:
		return "warn"
	}
	return ""
}

// 哨兵錯誤，被 Wrap 過也能以 errors.Is 命中。
var (
	ErrNotFound       = NewWarn("not found")
	ErrInvalidDateKey = NewWarn("invalid date key")
	ErrNoHintsLeft    = NewWarn("no hints left")
)

// E 是外殼統一的錯誤型別。Extra 放 date key / user id 之類的上下文，不進 4xx 回應。
type E struct {
	Message string
	Extra   string
	Cause   error
	ErrLv   ErrLevel
}

func (e *E) Error() string {
	base := fmt.Sprintf("errlv=%s %s", e.ErrLv, e.Message)
	if e.Extra != "" {
		base += " | extra: " + e.Extra
	}
	if e.Cause != nil {
		base += fmt.Sprintf(" (cause: %v)", e.Cause)
	}
	return base
}

func (e *E) Unwrap() error { return e.Cause }

func NewFatal(msg string) *E {
	return &E{Message: msg, ErrLv: Fatal}
}

func NewWarn(msg string) *E {
	return &E{Message: msg, ErrLv: Warn}
}

func Warnf(format string, a ...any) *E {
	return NewWarn(fmt.Sprintf(format, a...))
}

func NewWithExtra(errLv ErrLevel, msg string, extra string) *E {
	return &E{Message: msg, Extra: extra, ErrLv: errLv}
}

// Wrap 以 msg 包裝底層錯誤。
//
// cause 鏈上已有 *E 就沿用其等級（包過的 ErrNotFound 仍是 Warn）；
// 標準庫、sqlite、net/http 的錯誤一律 Fatal。
func Wrap(cause error, msg string) *E {
	lv := Level(cause)
	if lv == None {
		lv = Fatal
	}
	return &E{Message: msg, Cause: cause, ErrLv: lv}
}

func WrapWithExtra(cause error, msg string, extra string) *E {
	r := Wrap(cause, msg)
	r.Extra = extra
	return r
}

func AsErr(err error) (*E, bool) {
	var e *E
	ok := errors.As(err, &e)
	return e, ok
}

// Level 回傳 err 鏈上第一個 *E 的等級；沒有 *E 時視為 Fatal，nil 為 None。
func Level(err error) ErrLevel {
	if err == nil {
		return None
	}
	if e, ok := AsErr(err); ok {
		return e.ErrLv
	}
	return Fatal
}

// IsWarn 表示 err 是呼叫端造成的（參數、找不到、提示用完）。
func IsWarn(err error) bool { return Level(err) == Warn }
