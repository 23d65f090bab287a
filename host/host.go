// Copyright 2018 Brett Vickers.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package host implements the console front end of the debugger.
//
// A Host reads debugger commands from a reader, applies them to a debug
// session and the runner executing its program, and writes the results to
// a writer. Commands may be abbreviated to any unambiguous prefix, and an
// empty line repeats the previous command.
package host

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/beevik/cmd"
	"github.com/tidwall/sjson"

	"github.com/beevik/dbg6502/loader"
	"github.com/beevik/dbg6502/logger"
	"github.com/beevik/dbg6502/runner"
	"github.com/beevik/dbg6502/script"
	"github.com/beevik/dbg6502/session"
)

var errQuit = errors.New("exiting program")

// A Host is an interactive console attached to a runner and its debug
// session.
type Host struct {
	input       *bufio.Scanner
	output      *bufio.Writer
	interactive bool
	runner      *runner.Runner
	lastCmd     *selection
	settings    *settings

	mu     sync.Mutex
	cancel context.CancelFunc // non-nil while the program is running
}

// New creates a console host for the runner.
func New(r *runner.Runner) *Host {
	h := &Host{
		runner:   r,
		settings: newSettings(),
		output:   bufio.NewWriter(io.Discard),
	}
	h.syncSettings()
	return h
}

// SetClearOnReset selects whether a reset clears breakpoints and
// watchpoints.
func (h *Host) SetClearOnReset(clear bool) {
	h.settings.ClearOnReset = clear
	h.onSettingsUpdate()
}

// SetWidth limits the width of listed source lines. Zero means no limit.
func (h *Host) SetWidth(width int) {
	h.settings.Width = width
}

// RunCommands accepts host commands from a reader and outputs the results
// to a writer. If the commands are interactive, a prompt is displayed while
// the host waits for the next command to be entered. It returns when the
// input is exhausted or a quit command is entered.
func (h *Host) RunCommands(r io.Reader, w io.Writer, interactive bool) {
	h.input = bufio.NewScanner(r)
	h.output = bufio.NewWriter(w)
	h.interactive = interactive

	if interactive {
		h.println()
	}

	h.displayPC()
	h.processCommands()
}

func (h *Host) processCommands() error {
	for {
		h.prompt()

		line, err := h.getLine()
		if err != nil {
			return nil
		}

		var c selection
		if line != "" {
			c, err = lookup(line)
			switch {
			case err == cmd.ErrNotFound:
				h.println("Command not found.")
				continue
			case err == cmd.ErrAmbiguous:
				h.println("Command is ambiguous.")
				continue
			case err != nil:
				h.printf("ERROR: %v.\n", err)
				continue
			}
		} else if h.lastCmd != nil {
			c = *h.lastCmd
		}

		if c.Command == nil {
			// A command group was selected without a subcommand.
			if line != "" {
				h.displayGroup(line)
			}
			continue
		}
		h.lastCmd = &c

		cc, ok := c.Command.Data.(*command)
		if !ok {
			h.displayGroup(line)
			continue
		}

		err = cc.handler(h, c)
		if err != nil {
			return err
		}
	}
}

// Break interrupts a running program or script.
func (h *Host) Break() {
	h.mu.Lock()
	cancel := h.cancel
	h.mu.Unlock()

	if cancel != nil {
		cancel()
		return
	}

	h.println()
	h.prompt()
}

// breakable returns a context cancelled by Break. The returned function
// must be called once the operation completes.
func (h *Host) breakable() (context.Context, func()) {
	ctx, cancel := context.WithCancel(context.Background())
	h.mu.Lock()
	h.cancel = cancel
	h.mu.Unlock()

	return ctx, func() {
		h.mu.Lock()
		h.cancel = nil
		h.mu.Unlock()
		cancel()
	}
}

func (h *Host) printf(format string, args ...any) {
	fmt.Fprintf(h.output, format, args...)
	h.flush()
}

func (h *Host) println(args ...any) {
	fmt.Fprintln(h.output, args...)
	h.flush()
}

func (h *Host) flush() {
	h.output.Flush()
}

func (h *Host) getLine() (string, error) {
	if h.input.Scan() {
		return strings.TrimSpace(h.input.Text()), nil
	}
	if h.input.Err() != nil {
		return "", h.input.Err()
	}
	return "", io.EOF
}

func (h *Host) prompt() {
	if h.interactive {
		h.printf("* ")
		h.flush()
	}
}

func (h *Host) session() *session.Session {
	return h.runner.Session
}

func (h *Host) displayPC() {
	if h.interactive {
		h.println(h.position())
	}
}

// position describes the program counter: its address, source line,
// source text and registers.
func (h *Host) position() string {
	st := h.runner.Machine.State()
	text := truncate(strings.TrimSpace(h.lineText(st.PC)), 32)
	return fmt.Sprintf("%04X-  %-5s %-32s %s", st.PC, h.session().LineLabel(st.PC), text, st.RegisterString())
}

func (h *Host) lineText(pc uint16) string {
	s := h.session()
	if line, ok := s.Line(pc); ok {
		text, _ := s.Source.Text(line)
		return text
	}
	return ""
}

func (h *Host) cmdBreakpointList(c selection) error {
	s := h.session()
	h.println("Line  Source")
	h.println("----- ------")
	for _, line := range s.Breakpoints.List() {
		text, _ := s.Source.Text(line)
		h.printf("%-5d %s\n", line, truncate(text, h.settings.Width))
	}
	return nil
}

func (h *Host) cmdBreakpointAdd(c selection) error {
	if len(c.Args) < 1 {
		h.displayHelpText(c)
		return nil
	}

	bp := h.session().Breakpoints
	switch line, err := strconv.Atoi(c.Args[0]); {
	case bp.AddFromText(c.Args[0]):
		h.printf("Breakpoint added at line %d.\n", line)
		if _, ok := h.session().Source.Text(line); !ok {
			h.printf("Line %d has no instruction and will never be hit.\n", line)
		}
	case err == nil && bp.Contains(line):
		h.printf("Breakpoint already set at line %d.\n", line)
	default:
		h.printf("Invalid line number '%s'.\n", c.Args[0])
	}
	return nil
}

func (h *Host) cmdBreakpointRemove(c selection) error {
	line, ok := h.lineArg(c)
	if !ok {
		return nil
	}

	bp := h.session().Breakpoints
	if !bp.Contains(line) {
		h.printf("No breakpoint was set on line %d.\n", line)
		return nil
	}

	bp.Remove(line)
	h.printf("Breakpoint at line %d removed.\n", line)
	return nil
}

func (h *Host) cmdBreakpointToggle(c selection) error {
	line, ok := h.lineArg(c)
	if !ok {
		return nil
	}

	bp := h.session().Breakpoints
	bp.Toggle(line)
	if bp.Contains(line) {
		h.printf("Breakpoint added at line %d.\n", line)
	} else {
		h.printf("Breakpoint at line %d removed.\n", line)
	}
	return nil
}

func (h *Host) cmdBreakpointClear(c selection) error {
	h.session().Breakpoints.Clear()
	h.println("All breakpoints removed.")
	return nil
}

func (h *Host) lineArg(c selection) (int, bool) {
	if len(c.Args) < 1 {
		h.displayHelpText(c)
		return 0, false
	}
	line, err := strconv.ParseUint(c.Args[0], 10, strconv.IntSize-1)
	if err != nil {
		h.printf("Invalid line number '%s'.\n", c.Args[0])
		return 0, false
	}
	return int(line), true
}

func (h *Host) cmdExecute(c selection) error {
	if len(c.Args) < 1 {
		h.displayHelpText(c)
		return nil
	}

	file, err := os.Open(c.Args[0])
	if err != nil {
		h.printf("Failed to open '%s': %v\n", filepath.Base(c.Args[0]), err)
		return nil
	}
	defer file.Close()

	input, interactive, lastCmd := h.input, h.interactive, h.lastCmd
	h.input, h.interactive, h.lastCmd = bufio.NewScanner(file), false, nil
	err = h.processCommands()
	h.input, h.interactive, h.lastCmd = input, interactive, lastCmd

	// quit ends the command file, not the session.
	if err == errQuit {
		err = nil
	}
	return err
}

func (h *Host) cmdFrame(c selection) error {
	count := 1
	if len(c.Args) > 0 {
		n, err := parseCount(c.Args[0])
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
		count = n
	}

	var executed, frames int
	for frames < count {
		n, err := h.runner.Frame()
		if err != nil {
			h.printf("%v\n", err)
			break
		}
		executed += n
		frames++
	}

	h.printf("Executed %d instructions in %d frames.\n", executed, frames)
	h.println(h.position())
	return nil
}

func (h *Host) cmdHelp(c selection) error {
	if len(c.Args) == 0 {
		h.displayCommands(rootGroup)
		return nil
	}

	name := strings.Join(c.Args, " ")
	if g, err := groups.FindValue(name); err == nil {
		h.displayCommands(g)
		return nil
	}

	s, err := lookup(name)
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}
	if s.Command == nil {
		h.displayGroup(name)
		return nil
	}
	cc, ok := s.Command.Data.(*command)
	if !ok {
		h.displayGroup(name)
		return nil
	}
	if cc.usage != "" {
		h.printf("Syntax: %s\n\n", cc.usage)
	}
	switch {
	case cc.description != "":
		h.printf("Description:\n%s\n\n", indentWrap(3, cc.description))
	case cc.brief != "":
		h.printf("Description:\n%s.\n\n", indentWrap(3, cc.brief))
	}
	return nil
}

func (h *Host) cmdList(c selection) error {
	s := h.session()
	if s.Source.Len() == 0 {
		h.println("No source code loaded.")
		return nil
	}

	if len(c.Args) == 0 {
		c.Args = []string{"$"}
	}

	var start int
	switch c.Args[0] {
	case "$":
		start = h.settings.NextSourceLine
		if start == 0 {
			start = h.currentLine() - h.settings.SourceLines/2
		}
	case ".":
		start = h.currentLine() - h.settings.SourceLines/2
	default:
		l, err := strconv.Atoi(c.Args[0])
		if err != nil {
			h.printf("Invalid line number '%s'.\n", c.Args[0])
			return nil
		}
		start = l
	}

	lines := h.settings.SourceLines
	if len(c.Args) > 1 {
		n, err := parseCount(c.Args[1])
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
		lines = n
	}

	start = max(start, 1)
	end := min(start+lines, s.Source.Len()+1)

	current := h.currentLine()
	for line := start; line < end; line++ {
		marker := "  "
		if line == current {
			marker = "=>"
		}
		bp := " "
		if s.Breakpoints.Contains(line) {
			bp = "*"
		}
		text, _ := s.Source.Text(line)
		addr, _ := s.Source.Address(line)
		h.println(truncate(fmt.Sprintf("%s %4d %s %04X  %s", marker, line, bp, addr, text), h.settings.Width))
	}

	h.settings.NextSourceLine = end
	if h.lastCmd != nil {
		h.lastCmd.Args = []string{"$", strconv.Itoa(lines)}
	}
	return nil
}

// currentLine returns the source line at the program counter, or zero.
func (h *Host) currentLine() int {
	line, _ := h.session().Line(h.runner.Machine.State().PC)
	return line
}

func (h *Host) cmdLoad(c selection) error {
	if len(c.Args) < 1 {
		h.displayHelpText(c)
		return nil
	}

	filename := c.Args[0]
	if filepath.Ext(filename) == "" {
		filename += ".bin"
	}

	origin := -1
	if len(c.Args) >= 2 {
		addr, err := parseAddress(c.Args[1])
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
		origin = int(addr)
	}

	p, err := loader.Load(filename, origin)
	if err != nil {
		h.printf("Failed to load '%s': %v\n", filepath.Base(filename), err)
		return nil
	}

	s := h.session()
	h.runner.Machine = runner.NewMachine6502(p.Origin, p.Code)
	s.Source = p.Source
	s.Breakpoints.Clear()
	s.Watchpoints.Clear()
	h.settings.NextSourceLine = 0

	h.printf("Loaded '%s' to $%04X..$%04X\n", filepath.Base(filename), p.Origin, int(p.Origin)+len(p.Code)-1)
	if p.Source != nil {
		h.printf("Loaded source map with %d lines\n", p.Source.Len())
	}
	logger.Logf("host", "loaded %s at $%04X", filepath.Base(filename), p.Origin)

	h.displayPC()
	return nil
}

func (h *Host) cmdLog(c selection) error {
	count := h.settings.LogLines
	if len(c.Args) > 0 {
		n, err := parseCount(c.Args[0])
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
		count = n
	}

	logger.Tail(h.output, count)
	h.flush()
	return nil
}

func (h *Host) cmdMemoryDump(c selection) error {
	if len(c.Args) == 0 {
		c.Args = []string{"$"}
	}

	var addr uint16
	switch c.Args[0] {
	case "$":
		addr = h.settings.NextMemDumpAddr
	default:
		a, err := parseAddress(c.Args[0])
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
		addr = a
	}

	bytes := h.settings.MemDumpBytes
	if len(c.Args) > 1 {
		n, err := parseCount(c.Args[1])
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
		bytes = n
	}

	h.dumpMemory(addr, min(bytes, 0x10000-int(addr)))

	h.settings.NextMemDumpAddr = addr + uint16(bytes)
	if h.lastCmd != nil {
		h.lastCmd.Args = []string{"$", strconv.Itoa(bytes)}
	}
	return nil
}

func (h *Host) cmdPause(c selection) error {
	h.session().Pause()
	h.printf("Paused at $%04X.\n", h.runner.Machine.State().PC)
	return nil
}

func (h *Host) cmdQuit(c selection) error {
	return errQuit
}

func (h *Host) cmdRegisters(c selection) error {
	st := h.runner.Machine.State()
	s := h.session()

	h.printf("State:       %s\n", strings.ToLower(s.State().String()))
	h.printf("PC:          $%04X\n", st.PC)
	h.printf("SP:          $%04X\n", st.SP)
	h.printf("Line:        %s\n", s.LineLabel(st.PC))
	h.printf("Instruction: %s\n", strings.TrimSpace(h.lineText(st.PC)))
	h.printf("Registers:   %s\n", st.RegisterString())
	if cy, ok := h.runner.Machine.(interface{ Cycles() uint64 }); ok {
		h.printf("Cycles:      %d\n", cy.Cycles())
	}
	return nil
}

func (h *Host) cmdReset(c selection) error {
	h.session().RequestReset()
	if _, err := h.runner.ApplyReset(); err != nil {
		h.printf("%v\n", err)
		return nil
	}

	h.settings.NextSourceLine = 0
	h.printf("Reset to $%04X.\n", h.runner.Machine.State().PC)
	h.displayPC()
	return nil
}

func (h *Host) cmdResume(c selection) error {
	h.session().Resume()
	h.println("Running.")
	return nil
}

func (h *Host) cmdRun(c selection) error {
	maxFrames := 0
	if len(c.Args) > 0 {
		n, err := parseCount(c.Args[0])
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
		maxFrames = n
	}

	s := h.session()
	s.Resume()
	h.printf("Running from $%04X. Press ctrl-C to break.\n", h.runner.Machine.State().PC)

	ctx, done := h.breakable()
	frames, err := h.runner.Run(ctx, maxFrames)
	done()

	switch {
	case errors.Is(err, context.Canceled):
		s.Pause()
		h.println("Interrupted.")
	case err != nil:
		s.Pause()
		h.printf("%v\n", err)
	case s.Paused():
		h.printf("Breakpoint hit at line %s.\n", s.LineLabel(h.runner.Machine.State().PC))
	default:
		h.printf("Ran %d frames.\n", frames)
	}

	h.settings.NextSourceLine = 0
	h.println(h.position())
	return nil
}

func (h *Host) cmdScript(c selection) error {
	if len(c.Args) < 1 {
		h.displayHelpText(c)
		return nil
	}

	e := script.New(h.runner, h.output)
	defer e.Close()

	ctx, done := h.breakable()
	err := e.DoFile(ctx, c.Args[0])
	done()

	h.flush()
	if err != nil {
		h.printf("Script failed: %v\n", err)
	}
	h.syncSettings()
	return nil
}

func (h *Host) cmdSet(c selection) error {
	switch len(c.Args) {
	case 0:
		h.syncSettings()
		h.println("Variables:")
		h.settings.Display(h.output)
		h.flush()

	case 1:
		h.displayHelpText(c)

	default:
		key, value := c.Args[0], strings.Join(c.Args[1:], " ")
		name, kind, err := h.settings.Field(key)
		if err == nil {
			switch kind {
			case reflect.Bool:
				var v bool
				v, err = stringToBool(value)
				if err == nil {
					err = h.settings.Set(name, v)
				}
			case reflect.Float64:
				var v float64
				v, err = strconv.ParseFloat(value, 64)
				if err == nil {
					err = h.settings.Set(name, v)
				}
			case reflect.Uint16:
				var v uint16
				v, err = parseAddress(value)
				if err == nil {
					err = h.settings.Set(name, v)
				}
			default:
				var v int64
				v, err = strconv.ParseInt(value, 10, 64)
				if err == nil {
					err = h.settings.Set(name, v)
				}
			}
		}

		if err != nil {
			h.printf("%v\n", err)
			return nil
		}

		h.onSettingsUpdate()
		h.printf("Setting '%s' updated.\n", name)
	}

	return nil
}

func (h *Host) cmdStatus(c selection) error {
	h.println(h.Status())
	return nil
}

// Status returns a JSON snapshot of the session and machine.
func (h *Host) Status() string {
	s := h.session()
	st := h.runner.Machine.State()

	json := "{}"
	json, _ = sjson.Set(json, "state", strings.ToLower(s.State().String()))
	json, _ = sjson.Set(json, "pc", st.PC)
	if line, ok := s.Line(st.PC); ok {
		json, _ = sjson.Set(json, "line", line)
	} else {
		json, _ = sjson.Set(json, "line", nil)
	}
	json, _ = sjson.Set(json, "label", s.LineLabel(st.PC))
	json, _ = sjson.Set(json, "registers.sp", st.SP)
	json, _ = sjson.Set(json, "registers.a", st.A)
	json, _ = sjson.Set(json, "registers.x", st.X)
	json, _ = sjson.Set(json, "registers.y", st.Y)
	json, _ = sjson.Set(json, "speed", s.InstructionsPerFrame())
	json, _ = sjson.Set(json, "scale", s.Scale())
	json, _ = sjson.Set(json, "clearOnReset", h.runner.ResetPolicy == runner.ClearOnReset)

	json, _ = sjson.SetRaw(json, "breakpoints", "[]")
	for i, line := range s.Breakpoints.List() {
		json, _ = sjson.Set(json, fmt.Sprintf("breakpoints.%d", i), line)
	}

	json, _ = sjson.SetRaw(json, "watches", "[]")
	for i, w := range s.Watches(h.runner.Machine) {
		json, _ = sjson.Set(json, fmt.Sprintf("watches.%d.address", i), w.Address)
		json, _ = sjson.Set(json, fmt.Sprintf("watches.%d.value", i), w.Value)
	}

	json, _ = sjson.Set(json, "instructions", h.runner.Instructions)
	json, _ = sjson.Set(json, "frames", h.runner.Frames)
	return json
}

func (h *Host) cmdStep(c selection) error {
	count := 1
	if len(c.Args) > 0 {
		n, err := parseCount(c.Args[0])
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
		count = n
	}

	s := h.session()
	s.Pause()

	for i := 0; i < count; i++ {
		s.RequestStep()
		if _, err := h.runner.Frame(); err != nil {
			h.printf("%v\n", err)
			break
		}
		switch {
		case count > h.settings.StepLines && i == count-h.settings.StepLines-1:
			h.println("...")
		case count-i <= h.settings.StepLines:
			h.println(h.position())
		}
	}

	h.settings.NextSourceLine = 0
	return nil
}

func (h *Host) cmdWatchList(c selection) error {
	h.println("Addr  Value")
	h.println("----- -----")
	for _, w := range h.session().Watches(h.runner.Machine) {
		h.printf("$%04X $%02X   %s\n", w.Address, w.Value, w)
	}
	return nil
}

func (h *Host) cmdWatchAdd(c selection) error {
	if len(c.Args) < 1 {
		h.displayHelpText(c)
		return nil
	}

	addr, err := parseAddress(c.Args[0])
	if err != nil {
		h.printf("Invalid address '%s'.\n", c.Args[0])
		return nil
	}

	if h.session().Watchpoints.Add(addr) {
		h.printf("Watchpoint added at $%04X.\n", addr)
	} else {
		h.printf("Address $%04X is already watched.\n", addr)
	}
	return nil
}

func (h *Host) cmdWatchRemove(c selection) error {
	if len(c.Args) < 1 {
		h.displayHelpText(c)
		return nil
	}

	addr, err := parseAddress(c.Args[0])
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}

	wp := h.session().Watchpoints
	if !wp.Contains(addr) {
		h.printf("No watchpoint was set on $%04X.\n", addr)
		return nil
	}

	wp.Remove(addr)
	h.printf("Watchpoint at $%04X removed.\n", addr)
	return nil
}

func (h *Host) cmdWatchClear(c selection) error {
	h.session().Watchpoints.Clear()
	h.println("All watchpoints removed.")
	return nil
}

// onSettingsUpdate pushes settings into the session and runner. The
// session clamps what it is given, so the settings are read back.
func (h *Host) onSettingsUpdate() {
	s := h.session()
	s.SetInstructionsPerFrame(h.settings.Speed)
	s.SetScale(h.settings.Scale)
	if h.settings.ClearOnReset {
		h.runner.ResetPolicy = runner.ClearOnReset
	} else {
		h.runner.ResetPolicy = runner.KeepOnReset
	}
	h.syncSettings()
}

// syncSettings copies values that scripts may change from the session
// back into the settings.
func (h *Host) syncSettings() {
	s := h.session()
	h.settings.Speed = s.InstructionsPerFrame()
	h.settings.Scale = s.Scale()
	h.settings.ClearOnReset = h.runner.ResetPolicy == runner.ClearOnReset
}

func (h *Host) dumpMemory(addr0 uint16, bytes int) {
	if bytes <= 0 {
		return
	}

	addr1 := uint16(min(int(addr0)+bytes-1, 0xffff))

	mem := h.runner.Machine
	buf := []byte("    -" + strings.Repeat(" ", 35))

	// Don't align display for short dumps.
	if addr1-addr0 < 8 {
		addrToBuf(addr0, buf[0:4])
		for a, c1, c2 := uint32(addr0), 6, 32; a <= uint32(addr1); a, c1, c2 = a+1, c1+3, c2+1 {
			m := mem.LoadByte(uint16(a))
			byteToBuf(m, buf[c1:c1+2])
			buf[c2] = toPrintableChar(m)
		}
		h.println(string(buf))
		return
	}

	// Align addr0 and addr1 to 8-byte boundaries.
	start := uint32(addr0) & 0xfff8
	stop := (uint32(addr1) + 8) & 0xffff8
	if stop > 0x10000 {
		stop = 0x10000
	}

	a := uint16(start)
	for r := start; r < stop; r += 8 {
		addrToBuf(a, buf[0:4])
		for c1, c2 := 6, 32; c1 < 29; c1, c2, a = c1+3, c2+1, a+1 {
			if a >= addr0 && a <= addr1 {
				m := mem.LoadByte(a)
				byteToBuf(m, buf[c1:c1+2])
				buf[c2] = toPrintableChar(m)
			} else {
				buf[c1] = ' '
				buf[c1+1] = ' '
				buf[c2] = ' '
			}
		}
		h.println(string(buf))
	}
}

func (h *Host) displayHelpText(c selection) {
	if cc, ok := c.Command.Data.(*command); ok && cc.usage != "" {
		h.printf("Syntax: %s\n", cc.usage)
	} else {
		h.println("<no help text>")
	}
}

func (h *Host) displayGroup(line string) {
	name, _, _ := strings.Cut(line, " ")
	g, err := groups.FindValue(name)
	if err != nil {
		g = rootGroup
	}
	h.displayCommands(g)
}

func (h *Host) displayCommands(g *group) {
	h.printf("%s commands:\n", g.title)
	for _, e := range g.entries {
		if e.brief != "" {
			h.printf("    %-15s  %s\n", e.name, e.brief)
		}
	}
}

func indentWrap(indent int, s string) string {
	const width = 76
	prefix := strings.Repeat(" ", indent)

	var b strings.Builder
	n := 0
	for _, word := range strings.Fields(s) {
		switch {
		case n == 0:
			b.WriteString(prefix)
			n = indent
		case n+1+len(word) > width:
			b.WriteString("\n")
			b.WriteString(prefix)
			n = indent
		default:
			b.WriteByte(' ')
			n++
		}
		b.WriteString(word)
		n += len(word)
	}
	return b.String()
}
