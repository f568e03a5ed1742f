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

package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// blocker 阻塞到 Shutdown 被呼叫。
type blocker struct {
	name  string
	done  chan struct{}
	once  sync.Once
	order *[]string
	mu    *sync.Mutex
}

func newBlocker(name string, order *[]string, mu *sync.Mutex) *blocker {
	return &blocker{name: name, done: make(chan struct{}), order: order, mu: mu}
}

func (b *blocker) Run() error {
	<-b.done
	return nil
}

func (b *blocker) Shutdown(context.Context) error {
	b.mu.Lock()
	*b.order = append(*b.order, b.name)
	b.mu.Unlock()
	b.once.Do(func() { close(b.done) })
	return nil
}

func TestRunContextCancelShutsDownInOrder(t *testing.T) {
	var order []string
	var mu sync.Mutex
	a := NewWith(nil, newBlocker("http", &order, &mu), newBlocker("prefetch", &order, &mu))

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()
	require.NoError(t, a.RunContext(ctx))
	require.Equal(t, []string{"http", "prefetch"}, order)
}

func TestRunContextReturnsComponentError(t *testing.T) {
	var order []string
	var mu sync.Mutex
	boom := errors.New("boom")
	a := NewWith(nil,
		newBlocker("http", &order, &mu),
		failing{err: boom},
	)
	err := a.RunContext(context.Background())
	require.ErrorIs(t, err, boom)
	require.Equal(t, []string{"http"}, order)
}

func TestRunContextWithoutComponents(t *testing.T) {
	require.Error(t, New(nil).RunContext(context.Background()))
}

type failing struct{ err error }

func (f failing) Run() error                     { return f.err }
func (f failing) Shutdown(context.Context) error { return nil }

func TestHookRunsOnce(t *testing.T) {
	calls := 0
	h := OnShutdown(func(context.Context) error {
		calls++
		return nil
	})
	a := NewWith(nil, h)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, a.RunContext(ctx))
	require.NoError(t, h.Shutdown(context.Background()))
	require.Equal(t, 1, calls)
	require.NoError(t, h.Run())
}
