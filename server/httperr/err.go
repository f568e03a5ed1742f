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

// Package httperr 把 errs 分級錯誤映射成 HTTP 回應。只在 HTTP 邊界使用。
package httperr

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/zintix-labs/logiclab/errs"
)

// StatusCode 將錯誤映射成 HTTP status code。
//
//   - ctx timeout / cancel → 504 / 408
//   - errs.ErrNotFound    → 404
//   - errs.Warn           → 400
//   - 其他                → 500
func StatusCode(err error) int {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusRequestTimeout
	case errors.Is(err, errs.ErrNotFound):
		return http.StatusNotFound
	}
	if errs.IsWarn(err) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// Body 是錯誤回應本體。
type Body struct {
	Error string `json:"error"`
}

// message 對 5xx 只回固定文字；4xx 串接 errs.E 鏈上的訊息，不含 Extra。
func message(err error, status int) string {
	if status >= 500 {
		return http.StatusText(status)
	}
	var parts []string
	for err != nil {
		e, ok := err.(*errs.E)
		if !ok {
			break
		}
		parts = append(parts, e.Message)
		err = e.Cause
	}
	if len(parts) == 0 {
		return err.Error()
	}
	return strings.Join(parts, ": ")
}

// Errs 寫回 JSON 錯誤 {"error": "..."}。
func Errs(w http.ResponseWriter, err error) {
	if err == nil {
		return
	}
	status := StatusCode(err)
	WriteJSON(w, status, Body{Error: message(err, status)})
}

// WriteJSON 先編碼再寫出，編碼失敗時仍能回 500。
func WriteJSON(w http.ResponseWriter, status int, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		status = http.StatusInternalServerError
		b = []byte(`{"error":"Internal Server Error"}`)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(b, '\n'))
}

// Log 記錄 5xx（error）與 408/409/429（warn）；其他 4xx 不記。
func Log(log *slog.Logger, msg string, err error) {
	if err == nil || log == nil {
		return
	}
	status := StatusCode(err)
	switch {
	case status >= 500:
		log.Error(msg, slog.Int("status", status), slog.Any("err", err))
	case status == http.StatusRequestTimeout, status == http.StatusConflict, status == http.StatusTooManyRequests:
		log.Warn(msg, slog.Int("status", status), slog.Any("err", err))
	}
}
