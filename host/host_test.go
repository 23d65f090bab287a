// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package host

import (
	"context"
	"fmt"
	"hash/crc32"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tidwall/gjson"

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

var source = []string{"loop: LDA $0200", "INC $0200 ; count", "JMP loop"}

func newTestHost(t *testing.T) (*Host, *runner.Runner) {
	t.Helper()
	sm, err := sourcemap.New(source, []uint16{0x8000, 0x8003, 0x8006})
	if err != nil {
		t.Fatal(err)
	}
	r := runner.New(session.New(sm), runner.NewMachine6502(0x8000, program))
	return New(r), r
}

func runCommands(h *Host, commands ...string) string {
	var out strings.Builder
	h.RunCommands(strings.NewReader(strings.Join(commands, "\n")+"\n"), &out, false)
	return out.String()
}

func expectContains(t *testing.T, out string, exp ...string) {
	t.Helper()
	for _, e := range exp {
		if !strings.Contains(out, e) {
			t.Errorf("output missing %q.\ngot:\n%s", e, out)
		}
	}
}

func expectPC(t *testing.T, r *runner.Runner, pc uint16) {
	t.Helper()
	if got := r.Machine.State().PC; got != pc {
		t.Errorf("PC incorrect. exp: $%04X, got: $%04X", pc, got)
	}
}

func TestStepAndRegisters(t *testing.T) {
	h, r := newTestHost(t)

	out := runCommands(h, "step", "step", "registers")
	expectPC(t, r, 0x8006)
	expectContains(t, out,
		"8003-  2     INC $0200 ; count",
		"State:       paused",
		"PC:          $8006",
		"Line:        3",
		"Instruction: JMP loop",
		"Registers:   A: 0x00, X: 0x00, Y: 0x00",
	)
}

func TestStepCount(t *testing.T) {
	h, r := newTestHost(t)
	h.settings.StepLines = 2

	out := runCommands(h, "step 5")
	expectPC(t, r, 0x8006)
	expectContains(t, out, "...\n", "8003-", "8006-")
	if strings.Contains(out, "8000-") {
		t.Errorf("step displayed more than StepLines lines:\n%s", out)
	}
}

func TestEmptyLineRepeats(t *testing.T) {
	h, r := newTestHost(t)

	runCommands(h, "step", "", "")
	expectPC(t, r, 0x8000)
	if v := r.Machine.LoadByte(0x0200); v != 1 {
		t.Errorf("memory incorrect. got: $%02X", v)
	}
}

func TestBreakpointCommands(t *testing.T) {
	h, r := newTestHost(t)
	bp := r.Session.Breakpoints

	out := runCommands(h, "breakpoint add 3", "ba 3", "ba x", "ba -1", "ba 9", "bl")
	expectContains(t, out,
		"Breakpoint added at line 3.",
		"Breakpoint already set at line 3.",
		"Invalid line number 'x'.",
		"Invalid line number '-1'.",
		"Line 9 has no instruction",
		"3     JMP loop",
	)
	if bp.Len() != 2 || !bp.Contains(3) || !bp.Contains(9) {
		t.Errorf("breakpoints incorrect. got: %v", bp.List())
	}

	out = runCommands(h, "bt 3", "bt 2", "br 9", "br 9", "br q")
	expectContains(t, out,
		"Breakpoint at line 3 removed.",
		"Breakpoint added at line 2.",
		"No breakpoint was set on line 9.",
		"Invalid line number 'q'.",
	)
	if bp.Len() != 1 || !bp.Contains(2) {
		t.Errorf("breakpoints incorrect. got: %v", bp.List())
	}

	runCommands(h, "bc")
	if bp.Len() != 0 {
		t.Error("breakpoint clear failed")
	}
}

func TestRunToBreakpoint(t *testing.T) {
	h, r := newTestHost(t)

	out := runCommands(h, "ba 3", "run")
	expectContains(t, out, "Running from $8000.", "Breakpoint hit at line 3.")
	expectPC(t, r, 0x8006)
	if !r.Session.Paused() {
		t.Error("session not paused at breakpoint")
	}

	// Running again from the breakpoint line pauses immediately.
	out = runCommands(h, "run")
	expectContains(t, out, "Breakpoint hit at line 3.")
	expectPC(t, r, 0x8006)

	// Stepping off the line lets the run continue around the loop.
	out = runCommands(h, "step", "run")
	expectContains(t, out, "Breakpoint hit at line 3.")
	if v := r.Machine.LoadByte(0x0200); v != 2 {
		t.Errorf("memory incorrect. got: $%02X", v)
	}
}

func TestRunFrames(t *testing.T) {
	h, r := newTestHost(t)
	h.settings.Speed = 10
	h.onSettingsUpdate()

	out := runCommands(h, "run 3")
	expectContains(t, out, "Ran 3 frames.")
	if r.Instructions != 30 || r.Session.Paused() {
		t.Errorf("run incorrect. instructions: %d, paused: %v", r.Instructions, r.Session.Paused())
	}
}

func TestPauseResumeFrame(t *testing.T) {
	h, r := newTestHost(t)

	out := runCommands(h, "pause", "frame 3")
	expectContains(t, out, "Paused at $8000.", "Executed 0 instructions in 3 frames.")

	out = runCommands(h, "resume", "set speed 4", "frame 2")
	expectContains(t, out, "Running.", "Executed 8 instructions in 2 frames.")
	expectPC(t, r, 0x8006)
}

func TestWatchCommands(t *testing.T) {
	h, r := newTestHost(t)

	out := runCommands(h, "wa 200", "wa 200", "wa zz", "wa $300", "frame", "wl")
	expectContains(t, out,
		"Watchpoint added at $0200.",
		"Address $0200 is already watched.",
		"Invalid address 'zz'.",
		"Watchpoint added at $0300.",
		"$0200 $21   0x200 => 0x21",
		"$0300 $00   0x300 => 0x00",
	)

	out = runCommands(h, "wr 200", "wr 200", "wr $300")
	expectContains(t, out,
		"Watchpoint at $0200 removed.",
		"No watchpoint was set on $0200.",
		"Watchpoint at $0300 removed.",
	)
	if r.Session.Watchpoints.Len() != 0 {
		t.Error("watchpoint not removed")
	}
}

func TestSetSettings(t *testing.T) {
	h, r := newTestHost(t)
	s := r.Session

	out := runCommands(h, "set speed 1000", "set scale 0.1", "set clear on", "set s 5", "set bogus 1", "set speed x")
	if s.InstructionsPerFrame() != session.MaxInstructionsPerFrame {
		t.Errorf("speed not clamped. got: %d", s.InstructionsPerFrame())
	}
	if s.Scale() != session.MinScale {
		t.Errorf("scale not clamped. got: %v", s.Scale())
	}
	if r.ResetPolicy != runner.ClearOnReset {
		t.Error("reset policy not updated")
	}
	expectContains(t, out, "Setting 'Speed' updated.", "Setting 'ClearOnReset' updated.")
	if strings.Count(out, "updated.") != 3 {
		t.Errorf("invalid settings were accepted:\n%s", out)
	}

	out = runCommands(h, "set")
	expectContains(t, out, "Speed            500", "Scale            0.50", "ClearOnReset     true")
}

func TestReset(t *testing.T) {
	h, r := newTestHost(t)

	out := runCommands(h, "ba 2", "wa 200", "step 3", "reset")
	expectContains(t, out, "Reset to $8000.")
	expectPC(t, r, 0x8000)
	if r.Machine.LoadByte(0x0200) != 0 || !r.Session.Paused() {
		t.Error("reset did not restore memory or changed the paused state")
	}
	if r.Session.Breakpoints.Len() != 1 || r.Session.Watchpoints.Len() != 1 {
		t.Error("reset cleared breakpoints or watchpoints")
	}

	h.SetClearOnReset(true)
	runCommands(h, "reset")
	if r.Session.Breakpoints.Len() != 0 || r.Session.Watchpoints.Len() != 0 {
		t.Error("reset kept breakpoints or watchpoints")
	}
}

func TestStatus(t *testing.T) {
	h, _ := newTestHost(t)
	runCommands(h, "ba 3", "ba 1", "wa 200", "step")

	status := h.Status()
	if !gjson.Valid(status) {
		t.Fatalf("status is not valid JSON: %s", status)
	}
	r := gjson.Parse(status)
	expect := map[string]string{
		"state":           "paused",
		"pc":              "32771",
		"line":            "2",
		"label":           "2",
		"registers.sp":    "511",
		"speed":           "100",
		"breakpoints":     "[3,1]",
		"watches.0.value": "0",
		"instructions":    "1",
		"clearOnReset":    "false",
	}
	for path, exp := range expect {
		if got := r.Get(path).String(); got != exp {
			t.Errorf("status %s incorrect. exp: %s, got: %s", path, exp, got)
		}
	}

	out := runCommands(h, "status")
	if !strings.HasPrefix(out, "{") {
		t.Errorf("status command output incorrect: %s", out)
	}
}

func TestStatusUnmapped(t *testing.T) {
	h, r := newTestHost(t)
	r.Session.Source = nil

	status := gjson.Parse(h.Status())
	if status.Get("line").Type != gjson.Null || status.Get("label").String() != sourcemap.Unmapped {
		t.Errorf("unmapped status incorrect: %s", h.Status())
	}
	if status.Get("breakpoints").Raw != "[]" || status.Get("watches").Raw != "[]" {
		t.Errorf("empty sets incorrect: %s", h.Status())
	}
}

func TestList(t *testing.T) {
	h, _ := newTestHost(t)

	out := runCommands(h, "ba 2", "list 1 2")
	expectContains(t, out,
		"=>    1   8000  loop: LDA $0200\n",
		"      2 * 8003  INC $0200 ; count\n",
	)
	if strings.Contains(out, "JMP") {
		t.Errorf("list showed too many lines:\n%s", out)
	}

	// An empty line continues the listing.
	out = runCommands(h, "list 1 2", "")
	expectContains(t, out, "      3   8006  JMP loop\n")
}

func TestMemoryDump(t *testing.T) {
	h, _ := newTestHost(t)

	out := runCommands(h, "m 8000 3")
	expectContains(t, out, "8000- AD 00 02")

	out = runCommands(h, "memory dump 8000 16")
	expectContains(t, out, "8000- AD 00 02 EE 00 02 4C 00", "8008- 80")

	// The whole address space includes the last byte.
	out = runCommands(h, "memory dump 0 65536")
	expectContains(t, out, "0000- 00 00", "FFF8- 00 00 00 00 00 00 00 00 ")

	out = runCommands(h, "memory dump fffe 16")
	expectContains(t, out, "FFF8-                   00 00 ")
}

func TestHelp(t *testing.T) {
	h, _ := newTestHost(t)

	out := runCommands(h, "help", "help w", "help step", "?  breakpoint add")
	expectContains(t, out,
		"dbg6502 commands:",
		"    breakpoint       Breakpoint commands",
		"Watchpoint commands:",
		"    add              Watch a memory address",
		"Syntax: step [<count>]",
		"Syntax: breakpoint add <line>",
	)
}

func TestUnknownCommand(t *testing.T) {
	h, _ := newTestHost(t)
	out := runCommands(h, "frobnicate")
	expectContains(t, out, "Command not found.")
}

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	h, r := newTestHost(t)
	dir := t.TempDir()

	code := []byte{0xa9, 0x42, 0x8d, 0x00, 0x03, 0x4c, 0x00, 0x10}
	writeFile(t, dir, "store.asm", []byte("  .org $1000\nstart: LDA #$42\n  STA $0300\n  JMP start\n"))
	writeFile(t, dir, "store.map", []byte(fmt.Sprintf(
		`{"Origin":4096,"Size":%d,"CRC":%d,"Files":["store.asm"],`+
			`"Lines":[{"Address":4096,"FileIndex":0,"Line":2},`+
			`{"Address":4098,"FileIndex":0,"Line":3},`+
			`{"Address":4101,"FileIndex":0,"Line":4}]}`,
		len(code), crc32.ChecksumIEEE(code))))
	bin := writeFile(t, dir, "store.bin", code)

	runCommands(h, "ba 2")
	out := runCommands(h, "load "+bin, "step 2", "registers")
	expectContains(t, out,
		"Loaded 'store.bin' to $1000..$1007",
		"Loaded source map with 3 lines",
		"Instruction: JMP start",
	)
	if r.Session.Breakpoints.Len() != 0 {
		t.Error("load kept breakpoints")
	}
	if r.Machine.LoadByte(0x0300) != 0x42 {
		t.Error("loaded program did not run")
	}

	out = runCommands(h, "load "+filepath.Join(dir, "missing.bin"))
	expectContains(t, out, "Failed to load 'missing.bin'")
}

func TestLoadRaw(t *testing.T) {
	h, r := newTestHost(t)
	bin := writeFile(t, t.TempDir(), "raw.bin", []byte{0xa2, 0x07})

	out := runCommands(h, "load "+bin, "load "+bin+" 2000", "step")
	expectContains(t, out, "Failed to load 'raw.bin'", "Loaded 'raw.bin' to $2000..$2001")
	if r.Session.Source != nil || r.Machine.State().X != 0x07 {
		t.Error("raw load incorrect")
	}
	expectContains(t, out, "2002-  xxx")
}

func TestScript(t *testing.T) {
	h, r := newTestHost(t)
	path := writeFile(t, t.TempDir(), "test.lua", []byte(`
		break_add(2)
		print("frames", run(5))
		speed(7)
	`))

	out := runCommands(h, "script "+path, "set")
	expectContains(t, out, "frames\t1", "Speed            7")
	expectPC(t, r, 0x8003)

	out = runCommands(h, "script "+path+".missing")
	expectContains(t, out, "Script failed:")
}

func TestExecute(t *testing.T) {
	h, r := newTestHost(t)
	path := writeFile(t, t.TempDir(), "cmds.txt", []byte("step\nquit\nstep\n"))

	out := runCommands(h, "execute "+path, "registers")
	expectPC(t, r, 0x8003)
	expectContains(t, out, "PC:          $8003")
}

func TestQuit(t *testing.T) {
	h, r := newTestHost(t)
	runCommands(h, "step", "quit", "step")
	expectPC(t, r, 0x8003)
}

func TestBreak(t *testing.T) {
	h, _ := newTestHost(t)

	// Break with nothing running only redisplays the prompt.
	h.Break()

	ctx, done := h.breakable()
	h.Break()
	select {
	case <-ctx.Done():
	default:
		t.Error("Break did not cancel the running operation")
	}
	done()

	if h.cancel != nil {
		t.Error("cancel function not cleared")
	}
	if ctx.Err() != context.Canceled {
		t.Errorf("unexpected context error: %v", ctx.Err())
	}
}

func TestCommandGroup(t *testing.T) {
	h, r := newTestHost(t)

	// A group name alone lists the group. An empty line afterwards does
	// not repeat the listing.
	out := runCommands(h, "pause", "watch", "")
	expectContains(t, out, "Watchpoint commands:", "    list ")
	if strings.Count(out, "Watchpoint commands:") != 1 {
		t.Errorf("group listing repeated:\n%s", out)
	}
	expectPC(t, r, 0x8000)
}
