// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package logger

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
)

func TestLogAndTail(t *testing.T) {
	Clear()
	defer Clear()

	Log("session", "paused")
	Logf("runner", "reset to $%04X", 0x8000)

	var b bytes.Buffer
	Write(&b)
	exp := "session: paused\nrunner: reset to $8000\n"
	if b.String() != exp {
		t.Errorf("log output incorrect.\nexp: %q\ngot: %q", exp, b.String())
	}

	b.Reset()
	Tail(&b, 1)
	if b.String() != "runner: reset to $8000\n" {
		t.Errorf("tail incorrect. got: %q", b.String())
	}
}

func TestRepeatCollapse(t *testing.T) {
	Clear()
	defer Clear()

	Log("session", "breakpoint hit at line 2")
	Log("session", "breakpoint hit at line 2")
	Log("session", "breakpoint hit at line 2")

	e := Entries(-1)
	if len(e) != 1 {
		t.Fatalf("exp 1 entry, got %d", len(e))
	}
	if e[0].String() != "session: breakpoint hit at line 2 (repeat x3)" {
		t.Errorf("entry incorrect. got: %q", e[0].String())
	}
}

func TestBounded(t *testing.T) {
	Clear()
	defer Clear()

	for i := 0; i < MaxEntries+10; i++ {
		Logf("test", "%d", i)
	}

	e := Entries(-1)
	if len(e) != MaxEntries {
		t.Errorf("exp %d entries, got %d", MaxEntries, len(e))
	}
	if e[0].Detail != fmt.Sprintf("%d", 10) {
		t.Errorf("oldest entries not dropped. first: %s", e[0].Detail)
	}
}

func TestEcho(t *testing.T) {
	Clear()
	defer Clear()

	var b bytes.Buffer
	SetEcho(&b)
	defer SetEcho(nil)

	Log("tag", "multi\nline")
	if !strings.Contains(b.String(), "tag: multiline") {
		t.Errorf("echo incorrect. got: %q", b.String())
	}
}
