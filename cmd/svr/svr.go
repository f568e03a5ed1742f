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

// Command svr 啟動 logiclab HTTP 服務。
//
//	svr -config svr.yaml -log-mode prod -addr :8080
//
// 設定來源依序：預設值 → -config 檔 → LOGICLAB_* 環境變數 → 旗標。
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/zintix-labs/logiclab/prefetch"
	"github.com/zintix-labs/logiclab/scoresync"
	"github.com/zintix-labs/logiclab/server"
	"github.com/zintix-labs/logiclab/server/app"
	"github.com/zintix-labs/logiclab/server/logger"
	"github.com/zintix-labs/logiclab/server/svrcfg"
	"github.com/zintix-labs/logiclab/server/telemetry"
	"github.com/zintix-labs/logiclab/session"
	"github.com/zintix-labs/logiclab/store"
	"github.com/zintix-labs/logiclab/store/memstore"
	"github.com/zintix-labs/logiclab/store/sqlite"
)

var version = "dev"

type flags struct {
	config  string
	logMode string
	addr    string
	db      string
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func parseFlags() flags {
	var f flags
	flag.StringVar(&f.config, "config", "", "path to YAML config file")
	flag.StringVar(&f.logMode, "log-mode", "", "log mode: dev|prod|silence (overrides config)")
	flag.StringVar(&f.addr, "addr", "", "listen address, e.g. :5808 (overrides config)")
	flag.StringVar(&f.db, "db", "", "sqlite file path; empty keeps the config value (in-memory when unset)")
	flag.Parse()
	return f
}

func loadConfig(f flags) (svrcfg.Config, error) {
	cfg, err := svrcfg.Load(f.config, nil)
	if err != nil {
		return cfg, err
	}
	if f.logMode != "" {
		m, err := logger.ParseLogMode(f.logMode)
		if err != nil {
			return cfg, err
		}
		cfg.LogMode = m
	}
	if f.addr != "" {
		cfg.Addr = f.addr
	}
	if f.db != "" {
		cfg.DBPath = f.db
	}
	return cfg, cfg.Valid()
}

func openStore(ctx context.Context, cfg svrcfg.Config, log *slog.Logger) (store.Store, error) {
	if cfg.DBPath == "" {
		log.Info("using in-memory store")
		return memstore.New(), nil
	}
	log.Info("using sqlite store", "path", cfg.DBPath)
	return sqlite.Open(ctx, cfg.DBPath)
}

func newSubmitter(cfg svrcfg.Config) scoresync.Submitter {
	if cfg.ScoreEndpoint == "" {
		return scoresync.Nop{}
	}
	return scoresync.NewHTTPSubmitter(cfg.ScoreEndpoint, &http.Client{Timeout: cfg.SubmitTimeout})
}

func run() error {
	cfg, err := loadConfig(parseFlags())
	if err != nil {
		return err
	}

	log, lh := logger.NewAsync(cfg.LogMode, 4096)
	defer lh.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	flush, err := telemetry.Setup(ctx, telemetry.ServiceName, cfg.OTelEndpoint, version)
	if err != nil {
		return err
	}

	st, err := openStore(ctx, cfg, log)
	if err != nil {
		_ = flush(context.Background())
		return err
	}

	loc, err := cfg.Location()
	if err != nil {
		_ = st.Close()
		_ = flush(context.Background())
		return err
	}

	disp := scoresync.NewDispatcher(newSubmitter(cfg), cfg.SubmitTimeout, log)
	sched := prefetch.New(st, prefetch.Config{
		Days:     cfg.PrefetchDays,
		Interval: cfg.PrefetchInterval,
		Workers:  cfg.PrefetchWorkers,
		Location: loc,
		// 換日時釋放前天以前的送分閂鎖
		OnRollover: func(today string) { disp.Prune(today) },
	}, log)
	svc := session.New(session.Deps{
		Cache:    st,
		Progress: st,
		Prefetch: sched,
		Scores:   disp,
		MaxHints: cfg.MaxHints,
		Log:      log,
	})

	// 最後關：store 與 trace flush
	closer := app.OnShutdown(func(ctx context.Context) error {
		err := st.Close()
		if ferr := flush(ctx); ferr != nil && err == nil {
			err = ferr
		}
		return err
	})

	sCfg := &svrcfg.SvrCfg{
		Config:  cfg,
		Log:     log,
		Session: svc,
		Scores:  st,
		Today:   sched.Today,
	}
	if err := server.Run(ctx, sCfg, sched, disp, closer); err != nil {
		log.Error("server stopped", "err", err)
		return err
	}
	log.Info("server stopped")
	return nil
}
