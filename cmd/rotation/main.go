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

// Command rotation 分析一段日期內的每日題型輪替是否均勻。
//
//	rotation -from 2024-01-01 -days 3650 -format table
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/cheggaaa/pb/v3"

	"github.com/zintix-labs/logiclab/datekey"
	"github.com/zintix-labs/logiclab/sdk/perf"
	"github.com/zintix-labs/logiclab/stats"
)

type config struct {
	from   string
	days   int
	format string
	showpb bool
	out    string
	pprof  string
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func parseFlags() config {
	var cfg config
	flag.StringVar(&cfg.from, "from", datekey.Today(time.Local), "first date key (YYYY-MM-DD)")
	flag.IntVar(&cfg.days, "days", 3650, "number of consecutive days")
	flag.StringVar(&cfg.format, "format", "table", "output format: table|json|yaml")
	flag.BoolVar(&cfg.showpb, "pb", true, "show progress bar")
	flag.StringVar(&cfg.out, "o", "", "write report to file instead of stdout")
	flag.StringVar(&cfg.pprof, "p", "", "pprof: '', cpu, heap, allocs")
	flag.Parse()
	return cfg
}

func run() error {
	cfg := parseFlags()
	render, err := stats.NewRenderer(cfg.format)
	if err != nil {
		return err
	}

	bar := pb.New(max(cfg.days, 0))
	if !cfg.showpb {
		bar.SetWriter(io.Discard)
	} else {
		bar.SetWriter(os.Stderr)
	}
	var rep *stats.RotationReport
	bar.Start()
	profile, err := perf.Run(perf.DefaultDir, cfg.pprof, func() error {
		var err error
		rep, err = stats.Rotation(cfg.from, cfg.days, func() { bar.Increment() })
		return err
	})
	used := time.Since(bar.StartTime())
	bar.Finish()
	if err != nil {
		return err
	}
	if profile != "" {
		fmt.Fprintf(os.Stderr, "profile: %s\n", profile)
	}

	var w io.Writer = os.Stdout
	if cfg.out != "" {
		f, err := os.Create(cfg.out)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	if err := render.Write(w, rep); err != nil {
		return err
	}
	if cfg.showpb {
		fmt.Fprintf(os.Stderr, "used: %s\n", used.Round(time.Millisecond))
	}
	return nil
}
