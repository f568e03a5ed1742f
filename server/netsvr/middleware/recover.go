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

package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"
)

// Recover 攔下 handler 的 panic，記錄堆疊並回 500 JSON。
// http.ErrAbortHandler 照原樣往上拋，讓 net/http 中斷連線。
func Recover(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				if log != nil {
					log.LogAttrs(r.Context(), slog.LevelError, "http.panic",
						slog.Any("panic", rec),
						slog.String("req_id", ReqID(r.Context())),
						slog.String("path", r.URL.Path),
						slog.String("stack", string(debug.Stack())),
					)
				}
				if r.Header.Get("Connection") != "Upgrade" {
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_, _ = w.Write([]byte(`{"error":"Internal Server Error"}` + "\n"))
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
