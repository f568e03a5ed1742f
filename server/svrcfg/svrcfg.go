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

// Package svrcfg 是服務設定：預設值 → YAML 檔 → LOGICLAB_ 環境變數，旗標由 cmd/svr 最後覆寫。
package svrcfg

import (
	"bytes"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/zintix-labs/logiclab/errs"
	"github.com/zintix-labs/logiclab/server/logger"
	"github.com/zintix-labs/logiclab/session"
	"github.com/zintix-labs/logiclab/store"
)

const EnvPrefix = "LOGICLAB_"

// Config 是可由檔案與環境變數設定的部分。
type Config struct {
	Addr             string         `yaml:"addr" env:"ADDR"`
	LogMode          logger.LogMode `yaml:"log_mode" env:"LOG_MODE"`
	DBPath           string         `yaml:"db_path" env:"DB_PATH"`   // 空字串 → 記憶體 store
	Timezone         string         `yaml:"timezone" env:"TIMEZONE"` // IANA 名稱；"Local" 為主機時區
	PrefetchDays     int            `yaml:"prefetch_days" env:"PREFETCH_DAYS"`
	PrefetchInterval time.Duration  `yaml:"prefetch_interval" env:"PREFETCH_INTERVAL"`
	PrefetchWorkers  int            `yaml:"prefetch_workers" env:"PREFETCH_WORKERS"`
	MaxHints         int            `yaml:"max_hints" env:"MAX_HINTS"`
	ScoreEndpoint    string         `yaml:"score_endpoint" env:"SCORE_ENDPOINT"` // 空字串 → 不送出
	SubmitTimeout    time.Duration  `yaml:"submit_timeout" env:"SUBMIT_TIMEOUT"`
	RequestTimeout   time.Duration  `yaml:"request_timeout" env:"REQUEST_TIMEOUT"`
	OTelEndpoint     string         `yaml:"otel_endpoint" env:"OTEL_ENDPOINT"` // 空字串 → 不輸出 trace
}

func Default() Config {
	return Config{
		Addr:             ":5808",
		LogMode:          logger.ModeDev,
		Timezone:         "Local",
		PrefetchDays:     7,
		PrefetchInterval: 30 * time.Second,
		PrefetchWorkers:  4,
		MaxHints:         session.DefaultMaxHints,
		SubmitTimeout:    5 * time.Second,
		RequestTimeout:   5 * time.Second,
	}
}

// Load 讀取設定。path 為空時略過檔案；environ 為 nil 時讀取行程環境變數。
func Load(path string, environ map[string]string) (Config, error) {
	cfg := Default()
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return cfg, errs.WrapWithExtra(err, "read config", "path="+path)
		}
		if err := decodeYAML(b, &cfg); err != nil {
			return cfg, errs.WrapWithExtra(err, "parse config", "path="+path)
		}
	}
	opts := env.Options{Prefix: EnvPrefix, Environment: environ}
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return cfg, errs.NewWithExtra(errs.Warn, "parse env", err.Error())
	}
	return cfg, cfg.Valid()
}

// decodeYAML 拒絕未知欄位，避免拼錯的設定被默默忽略。
func decodeYAML(b []byte, cfg *Config) error {
	if len(bytes.TrimSpace(b)) == 0 {
		return nil
	}
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return errs.NewWarn(err.Error())
	}
	return nil
}

// Valid 檢查並收斂範圍。
func (c *Config) Valid() error {
	c.Addr = strings.TrimSpace(c.Addr)
	if c.Addr == "" {
		c.Addr = Default().Addr
	}
	if c.Timezone == "" {
		c.Timezone = "Local"
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	// 0 <= PrefetchDays <= 60
	c.PrefetchDays = min(60, max(0, c.PrefetchDays))
	c.PrefetchInterval = max(time.Second, c.PrefetchInterval)
	// 1 <= PrefetchWorkers <= 32
	c.PrefetchWorkers = min(32, max(1, c.PrefetchWorkers))
	// 1 <= MaxHints <= 10
	c.MaxHints = min(10, max(1, c.MaxHints))
	if c.SubmitTimeout <= 0 {
		c.SubmitTimeout = Default().SubmitTimeout
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = Default().RequestTimeout
	}
	return nil
}

// Location 解析 Timezone。
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, errs.NewWithExtra(errs.Warn, "unknown timezone: "+err.Error(), "timezone="+c.Timezone)
	}
	return loc, nil
}

// SvrCfg 是 server.Run 的完整輸入：設定加上組裝好的依賴。
type SvrCfg struct {
	Config
	Log     *slog.Logger
	Session *session.Service
	Scores  store.ScoreStore
	// Today 回傳設定時區的今天；nil 時以 Config.Location 計算。
	Today func() string
}

// Check 檢查必要依賴並收斂設定。沒有 logger 時建立非同步 logger。
func (sc *SvrCfg) Check() error {
	if sc.Log == nil {
		sc.Log, _ = logger.NewAsync(sc.LogMode, 1024)
	}
	if err := sc.Config.Valid(); err != nil {
		return err
	}
	if sc.Session == nil {
		return errs.NewFatal("session service is required")
	}
	if sc.Scores == nil {
		return errs.NewFatal("score store is required")
	}
	return nil
}
