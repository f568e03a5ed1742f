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
	"bufio"
	"errors"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// CompressConfig 控制壓縮等級。
type CompressConfig struct {
	GzipLevel int
	ZstdLevel zstd.EncoderLevel
}

var DefaultCompressConfig = CompressConfig{
	GzipLevel: gzip.DefaultCompression,
	ZstdLevel: zstd.SpeedFastest,
}

// encoder 是 gzip.Writer 與 zstd.Encoder 的共同介面。
type encoder interface {
	io.Writer
	Flush() error
	Close() error
	Reset(w io.Writer)
}

type codec struct {
	name string
	pool sync.Pool
	make func(w io.Writer) (encoder, error)
}

func (c *codec) get(w io.Writer) (encoder, error) {
	if v := c.pool.Get(); v != nil {
		enc := v.(encoder)
		enc.Reset(w)
		return enc, nil
	}
	return c.make(w)
}

func (c *codec) put(enc encoder) {
	// 斷開與 ResponseWriter 的參照再放回 pool
	enc.Reset(io.Discard)
	c.pool.Put(enc)
}

func newCodecs(cfg CompressConfig) []*codec {
	return []*codec{
		{name: "zstd", make: func(w io.Writer) (encoder, error) {
			return zstd.NewWriter(w, zstd.WithEncoderLevel(cfg.ZstdLevel), zstd.WithEncoderConcurrency(1))
		}},
		{name: "gzip", make: func(w io.Writer) (encoder, error) {
			return gzip.NewWriterLevel(w, cfg.GzipLevel)
		}},
	}
}

// acceptable 解析 Accept-Encoding，回傳 q > 0 的編碼。
func acceptable(header string) map[string]bool {
	out := map[string]bool{}
	for _, part := range strings.Split(header, ",") {
		name, params, _ := strings.Cut(strings.TrimSpace(part), ";")
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		q := 1.0
		if k, v, ok := strings.Cut(strings.TrimSpace(params), "="); ok && strings.TrimSpace(k) == "q" {
			if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
				q = f
			}
		}
		out[name] = q > 0
	}
	return out
}

func pick(codecs []*codec, header string) *codec {
	acc := acceptable(header)
	for _, c := range codecs {
		if acc[c.name] {
			return c
		}
	}
	return nil
}

func isWebSocketUpgrade(r *http.Request) bool {
	return strings.Contains(strings.ToLower(r.Header.Get("Connection")), "upgrade") ||
		r.Header.Get("Upgrade") != ""
}

// 1xx / 204 / 304 沒有本體
func isNoBodyStatus(code int) bool {
	return (code >= 100 && code < 200) || code == http.StatusNoContent || code == http.StatusNotModified
}

// compressWriter 在送出標頭的當下才決定要不要壓縮，encoder 也在第一次寫本體時才取。
type compressWriter struct {
	http.ResponseWriter
	c           *codec
	enc         encoder
	decided     bool
	passthrough bool
}

func (cw *compressWriter) WriteHeader(code int) {
	if !cw.decided {
		cw.decided = true
		h := cw.Header()
		if isNoBodyStatus(code) || h.Get("Content-Encoding") != "" {
			cw.passthrough = true
		} else {
			h.Set("Content-Encoding", cw.c.name)
			h.Add("Vary", "Accept-Encoding")
			h.Del("Content-Length")
		}
	}
	cw.ResponseWriter.WriteHeader(code)
}

func (cw *compressWriter) Write(b []byte) (int, error) {
	if !cw.decided {
		if cw.Header().Get("Content-Type") == "" {
			cw.Header().Set("Content-Type", http.DetectContentType(b))
		}
		cw.WriteHeader(http.StatusOK)
	}
	if cw.passthrough {
		return cw.ResponseWriter.Write(b)
	}
	if cw.enc == nil {
		enc, err := cw.c.get(cw.ResponseWriter)
		if err != nil {
			return 0, err
		}
		cw.enc = enc
	}
	return cw.enc.Write(b)
}

func (cw *compressWriter) Flush() {
	if cw.enc != nil {
		_ = cw.enc.Flush()
	}
	if f, ok := cw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (cw *compressWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := cw.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("underlying response writer does not support Hijacker")
	}
	return hj.Hijack()
}

func (cw *compressWriter) Unwrap() http.ResponseWriter { return cw.ResponseWriter }

// finish 收尾：已宣告壓縮但沒有寫本體時，仍輸出合法的空壓縮串流。
func (cw *compressWriter) finish() {
	if !cw.decided || cw.passthrough {
		return
	}
	if cw.enc == nil {
		enc, err := cw.c.get(cw.ResponseWriter)
		if err != nil {
			return
		}
		cw.enc = enc
	}
	_ = cw.enc.Close()
	cw.c.put(cw.enc)
	cw.enc = nil
}

// Compression 依 Accept-Encoding 以 zstd 優先、gzip 次之壓縮回應。
func Compression(cfg CompressConfig) func(http.Handler) http.Handler {
	codecs := newCodecs(cfg)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodHead || isWebSocketUpgrade(r) || w.Header().Get("Content-Encoding") != "" {
				next.ServeHTTP(w, r)
				return
			}
			c := pick(codecs, r.Header.Get("Accept-Encoding"))
			if c == nil {
				next.ServeHTTP(w, r)
				return
			}
			cw := &compressWriter{ResponseWriter: w, c: c}
			defer cw.finish()
			next.ServeHTTP(cw, r)
		})
	}
}
