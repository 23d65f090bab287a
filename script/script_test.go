// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package script

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/beevik/dbg6502/runner"
	"github.com/beevik/dbg6502/session"
	"github.com/beevik/dbg6502/sourcemap"
)

// loop:  LDA $0200 / INC $0200 / JMP loop
var program = []byte{
	0xad, 0x00, 0x02,
	0xee, 0x00, 0x02,
	0x4c, 0x00, 0x80,
}

func newTestEngine(t *testing.T) (*Engine, *runner.Runner, *strings.Builder) {
	t.Helper()
	sm, err := sourcemap.New(
		[]string{"loop: LDA $0200", "INC $0200", "JMP loop"},
		[]uint16{0x8000, 0x8003, 0x8006},
	)
	if err != nil {
		t.Fatal(err)
	}
	r := runner.New(session.New(sm), runner.NewMachine6502(0x8000, program))
	out := &strings.Builder{}
	e := New(r, out)
	t.Cleanup(e.Close)
	return e, r, out
}

func run(t *testing.T, e *Engine, src string) {
	t.Helper()
	if err := e.DoString(context.Background(), src); err != nil {
		t.Fatalf("script failed: %v", err)
	}
}

func expectOutput(t *testing.T, out *strings.Builder, exp string) {
	t.Helper()
	if got := out.String(); got != exp {
		t.Errorf("output incorrect.\nexp: %q\ngot: %q", exp, got)
	}
	out.Reset()
}

func TestStepping(t *testing.T) {
	e, r, out := newTestEngine(t)

	run(t, e, `
		print(paused())
		step()
		print(paused(), pc(), line())
		step()
		print(read(0x200), label())
	`)
	expectOutput(t, out, "false\ntrue\t32771\t2\n1\t3\n")

	if r.Machine.State().PC != 0x8006 {
		t.Errorf("PC incorrect. got: $%04X", r.Machine.State().PC)
	}
}

func TestBreakpoints(t *testing.T) {
	e, r, out := newTestEngine(t)

	run(t, e, `
		print(break_add("3"), break_add(3), break_add("x"), break_add("-1"))
		break_toggle(2)
		break_toggle(2)
		print(#breakpoints(), breakpoints()[1])
		print(frame(), paused(), line())
	`)
	expectOutput(t, out, "true\tfalse\tfalse\tfalse\n1\t3\n2\ttrue\t3\n")

	if !r.Session.Breakpoints.Contains(3) {
		t.Error("breakpoint not set")
	}

	run(t, e, `break_remove(3) resume() print(frame(2))`)
	expectOutput(t, out, "200\n")
}

func TestWatches(t *testing.T) {
	e, _, out := newTestEngine(t)

	run(t, e, `
		print(watch_add("200"), watch_add(0x200), watch_add("$200"), watch_add("10000"))
		speed(30)
		frame()
		local w = watches()
		print(#w, w[1].address, w[1].value, w[1].text)
		watch_remove(0x200)
		print(#watches())
	`)
	expectOutput(t, out, "true\tfalse\tfalse\tfalse\n1\t512\t10\t0x200 => 0x0a\n0\n")
}

func TestSettingsClamp(t *testing.T) {
	e, _, out := newTestEngine(t)

	run(t, e, `print(speed(), speed(0), speed(1000), scale(0.1), scale(2), scale(9))`)
	expectOutput(t, out, "100\t1\t500\t0.5\t2\t3\n")
}

func TestRunAndReset(t *testing.T) {
	e, r, out := newTestEngine(t)

	run(t, e, `
		break_add(3)
		print(run(10))
		reset()
		pause()
		frame()
		local regs = registers()
		print(regs.pc, regs.a, read(0x200))
	`)
	expectOutput(t, out, "1\n32768\t0\t0\n")

	if r.Session.ResetRequested() {
		t.Error("reset request not consumed")
	}
}

func TestRunCancelled(t *testing.T) {
	e, _, _ := newTestEngine(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := e.DoString(ctx, `run()`); err == nil {
		t.Error("cancelled script did not fail")
	}
}

func TestScriptErrors(t *testing.T) {
	e, _, _ := newTestEngine(t)

	for _, src := range []string{
		`read(0x10000)`,
		`break_toggle("a")`,
		`os.exit()`,
		`this is not lua`,
	} {
		if err := e.DoString(context.Background(), src); err == nil {
			t.Errorf("script %q did not fail", src)
		}
	}
}

func TestDoFile(t *testing.T) {
	e, _, out := newTestEngine(t)

	path := filepath.Join(t.TempDir(), "test.lua")
	if err := os.WriteFile(path, []byte(`log("from file") print(toggle())`), 0600); err != nil {
		t.Fatal(err)
	}
	if err := e.DoFile(context.Background(), path); err != nil {
		t.Fatal(err)
	}
	expectOutput(t, out, "true\n")
}

func TestClosed(t *testing.T) {
	e, _, _ := newTestEngine(t)
	e.Close()
	if err := e.DoString(context.Background(), `pause()`); err != ErrClosed {
		t.Errorf("exp ErrClosed, got %v", err)
	}
}
