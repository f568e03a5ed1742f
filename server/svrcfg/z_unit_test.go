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

package svrcfg

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/zintix-labs/logiclab/server/logger"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "svr.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("", map[string]string{})
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

func TestLoadFileThenEnv(t *testing.T) {
	p := writeFile(t, `
addr: ":9000"
log_mode: prod
db_path: /tmp/logiclab.db
timezone: UTC
prefetch_days: 3
prefetch_interval: 1m
max_hints: 2
`)
	cfg, err := Load(p, map[string]string{
		"LOGICLAB_ADDR":           ":9100",
		"LOGICLAB_SUBMIT_TIMEOUT": "2s",
		"LOGICLAB_SCORE_ENDPOINT": "http://scores.local/v1/scores",
	})
	require.NoError(t, err)
	require.Equal(t, ":9100", cfg.Addr)
	require.Equal(t, logger.ModeProd, cfg.LogMode)
	require.Equal(t, "/tmp/logiclab.db", cfg.DBPath)
	require.Equal(t, 3, cfg.PrefetchDays)
	require.Equal(t, time.Minute, cfg.PrefetchInterval)
	require.Equal(t, 2, cfg.MaxHints)
	require.Equal(t, 2*time.Second, cfg.SubmitTimeout)
	require.Equal(t, "http://scores.local/v1/scores", cfg.ScoreEndpoint)

	loc, err := cfg.Location()
	require.NoError(t, err)
	require.Equal(t, time.UTC, loc)
}

func TestLoadRejectsUnknownField(t *testing.T) {
	p := writeFile(t, "prefetch_dayz: 3\n")
	_, err := Load(p, map[string]string{})
	require.Error(t, err)
}

func TestLoadRejectsBadValues(t *testing.T) {
	_, err := Load("", map[string]string{"LOGICLAB_LOG_MODE": "loud"})
	require.Error(t, err)

	_, err = Load("", map[string]string{"LOGICLAB_TIMEZONE": "Mars/Olympus"})
	require.Error(t, err)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"), map[string]string{})
	require.Error(t, err)
}

func TestValidClamps(t *testing.T) {
	c := Config{PrefetchDays: 999, PrefetchWorkers: -1, MaxHints: 50}
	require.NoError(t, c.Valid())
	require.Equal(t, ":5808", c.Addr)
	require.Equal(t, 60, c.PrefetchDays)
	require.Equal(t, 1, c.PrefetchWorkers)
	require.Equal(t, 10, c.MaxHints)
	require.Equal(t, time.Second, c.PrefetchInterval)
	require.Equal(t, 5*time.Second, c.SubmitTimeout)
}

func TestCheckRequiresDeps(t *testing.T) {
	sc := &SvrCfg{Config: Default()}
	require.Error(t, sc.Check())
	require.NotNil(t, sc.Log)
}
