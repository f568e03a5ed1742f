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
	"context"
	"net/http"

	chimid "github.com/go-chi/chi/v5/middleware"
)

// RequestIDHeader 同時用於讀取上游帶來的 id 與回寫給客戶端。
const RequestIDHeader = "X-Request-Id"

// RequestID 沿用 chi 的產生規則（上游有 X-Request-Id 就沿用），並把 id 回寫到回應標頭。
func RequestID(next http.Handler) http.Handler {
	return chimid.RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := chimid.GetReqID(r.Context()); id != "" {
			w.Header().Set(RequestIDHeader, id)
		}
		next.ServeHTTP(w, r)
	}))
}

// ReqID 取出目前請求的 id；沒有經過 RequestID 時為空字串。
func ReqID(ctx context.Context) string {
	return chimid.GetReqID(ctx)
}
