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

package errs

import (
	"errors"
	"io"
	"strings"
	"testing"
)

func TestWrapKeepsLevel(t *testing.T) {
	e := Wrap(ErrNotFound, "load progress")
	if e.ErrLv != Warn || !IsWarn(e) {
		t.Fatalf("wrapped sentinel should stay Warn, got %s", e.ErrLv)
	}
	if !errors.Is(e, ErrNotFound) {
		t.Fatalf("errors.Is should see through Wrap")
	}
	outer := WrapWithExtra(e, "session", "date=2024-01-01")
	if !errors.Is(outer, ErrNotFound) || outer.ErrLv != Warn {
		t.Fatalf("double wrap lost the sentinel: %v", outer)
	}
}

func TestWrapForeignIsFatal(t *testing.T) {
	e := WrapWithExtra(io.ErrUnexpectedEOF, "read cache", "date=2024-01-01")
	if e.ErrLv != Fatal || IsWarn(e) {
		t.Fatalf("foreign cause should be Fatal")
	}
	msg := e.Error()
	if !strings.HasPrefix(msg, "errlv=fatal read cache") || !strings.Contains(msg, "extra: date=2024-01-01") || !strings.Contains(msg, "cause:") {
		t.Fatalf("unexpected message: %s", msg)
	}
	if got, ok := AsErr(e); !ok || got != e {
		t.Fatalf("AsErr failed")
	}
}

func TestLevel(t *testing.T) {
	if Level(nil) != None {
		t.Fatalf("nil should be None")
	}
	if Level(io.EOF) != Fatal {
		t.Fatalf("foreign error should be Fatal")
	}
	if Level(Warnf("days out of range: %d", 400)) != Warn {
		t.Fatalf("Warnf should be Warn")
	}
	if Level(NewWithExtra(Fatal, "migrate", "002")) != Fatal {
		t.Fatalf("NewWithExtra should keep level")
	}
}
