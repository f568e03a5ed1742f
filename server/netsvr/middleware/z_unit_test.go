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
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/require"
)

var payload = strings.Repeat(`{"type":"matrix","grid":[[1,2,3,4]]}`, 64)

func okHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = io.WriteString(w, payload)
}

func serve(h http.Handler, accept string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/v1/puzzles/today", nil)
	if accept != "" {
		req.Header.Set("Accept-Encoding", accept)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestCompressionGzip(t *testing.T) {
	h := Compression(DefaultCompressConfig)(http.HandlerFunc(okHandler))
	rec := serve(h, "gzip, deflate")
	require.Equal(t, "gzip", rec.Header().Get("Content-Encoding"))
	zr, err := gzip.NewReader(rec.Body)
	require.NoError(t, err)
	b, err := io.ReadAll(zr)
	require.NoError(t, err)
	require.Equal(t, payload, string(b))
}

func TestCompressionPrefersZstd(t *testing.T) {
	h := Compression(DefaultCompressConfig)(http.HandlerFunc(okHandler))
	for i := 0; i < 3; i++ { // 第二次起走 pool
		rec := serve(h, "gzip;q=0.5, zstd")
		require.Equal(t, "zstd", rec.Header().Get("Content-Encoding"))
		dec, err := zstd.NewReader(bytes.NewReader(rec.Body.Bytes()))
		require.NoError(t, err)
		b, err := io.ReadAll(dec)
		dec.Close()
		require.NoError(t, err)
		require.Equal(t, payload, string(b))
	}
}

func TestCompressionSkips(t *testing.T) {
	h := Compression(DefaultCompressConfig)(http.HandlerFunc(okHandler))

	rec := serve(h, "")
	require.Empty(t, rec.Header().Get("Content-Encoding"))
	require.Equal(t, payload, rec.Body.String())

	rec = serve(h, "zstd;q=0, gzip;q=0")
	require.Empty(t, rec.Header().Get("Content-Encoding"))

	noContent := Compression(DefaultCompressConfig)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	rec = serve(noContent, "gzip")
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Empty(t, rec.Header().Get("Content-Encoding"))
	require.Zero(t, rec.Body.Len())
}

func TestCompressionEmptyBodyIsValidStream(t *testing.T) {
	h := Compression(DefaultCompressConfig)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	rec := serve(h, "gzip")
	require.Equal(t, "gzip", rec.Header().Get("Content-Encoding"))
	zr, err := gzip.NewReader(rec.Body)
	require.NoError(t, err)
	b, err := io.ReadAll(zr)
	require.NoError(t, err)
	require.Empty(t, b)
}

func TestRequestIDEchoed(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = ReqID(r.Context())
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, "abc-123", seen)
	require.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
}

func TestRecoverWritesJSON500(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, nil))
	h := Recover(log)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rec := serve(h, "")
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "Internal Server Error", body["error"])
	require.Contains(t, buf.String(), `"msg":"http.panic"`)
}

func TestAccessLogLevels(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	h := AccessLog(log)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	}))
	serve(h, "")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, "http.access", entry["msg"])
	require.Equal(t, "WARN", entry["level"])
	require.EqualValues(t, 404, entry["status"])
	require.EqualValues(t, len("nope\n"), entry["bytes"])
}

func TestTracePassesThrough(t *testing.T) {
	h := Trace("logiclab-test")(http.HandlerFunc(okHandler))
	rec := serve(h, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, payload, rec.Body.String())
}
