// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package script drives a debug session from Lua.
//
// Scripts run with the base, table, string and math libraries only. The
// debugger is exposed through global functions:
//
//	pause()  resume()  toggle()  paused()
//	step()              execute one instruction, pausing first if running
//	reset()             request a reset; it happens on the next frame
//	frame([n])          run n frames, return instructions executed
//	run([max])          run until paused or max frames, return frames run
//	pc()  line()  label()  registers()  read(addr)
//	speed([n])  scale([f])
//	break_add(text)  break_toggle(n)  break_remove(n)  breakpoints()
//	watch_add(text)  watch_remove(addr)  watches()
//	log(msg)
package script

import (
	"context"
	"errors"
	"fmt"
	"io"

	lua "github.com/yuin/gopher-lua"

	"github.com/beevik/dbg6502/logger"
	"github.com/beevik/dbg6502/runner"
	"github.com/beevik/dbg6502/session"
)

// ErrClosed is returned when running a script on a closed engine.
var ErrClosed = errors.New("script engine closed")

// An Engine is a Lua interpreter bound to a runner and its session. It is
// not safe for concurrent use.
type Engine struct {
	L      *lua.LState
	runner *runner.Runner
	out    io.Writer
	ctx    context.Context
}

// New creates a script engine. Output from the Lua print function goes
// to out.
func New(r *runner.Runner, out io.Writer) *Engine {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
	L.SetTop(0)

	e := &Engine{
		L:      L,
		runner: r,
		out:    out,
		ctx:    context.Background(),
	}
	e.register()
	return e
}

// Close releases the interpreter.
func (e *Engine) Close() {
	if e.L != nil {
		e.L.Close()
		e.L = nil
	}
}

// DoFile runs the Lua script in the file. Cancelling the context stops
// the script and any run it started.
func (e *Engine) DoFile(ctx context.Context, path string) error {
	return e.do(ctx, func() error { return e.L.DoFile(path) })
}

// DoString runs a chunk of Lua source.
func (e *Engine) DoString(ctx context.Context, src string) error {
	return e.do(ctx, func() error { return e.L.DoString(src) })
}

func (e *Engine) do(ctx context.Context, fn func() error) (err error) {
	if e.L == nil {
		return ErrClosed
	}

	e.ctx = ctx
	e.L.SetContext(ctx)
	defer func() {
		e.L.RemoveContext()
		e.ctx = context.Background()
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
	}()

	return fn()
}

func (e *Engine) session() *session.Session {
	return e.runner.Session
}

func (e *Engine) register() {
	funcs := map[string]lua.LGFunction{
		"print":        e.luaPrint,
		"log":          e.luaLog,
		"pause":        e.luaPause,
		"resume":       e.luaResume,
		"toggle":       e.luaToggle,
		"paused":       e.luaPaused,
		"step":         e.luaStep,
		"reset":        e.luaReset,
		"frame":        e.luaFrame,
		"run":          e.luaRun,
		"pc":           e.luaPC,
		"line":         e.luaLine,
		"label":        e.luaLabel,
		"registers":    e.luaRegisters,
		"read":         e.luaRead,
		"speed":        e.luaSpeed,
		"scale":        e.luaScale,
		"break_add":    e.luaBreakAdd,
		"break_toggle": e.luaBreakToggle,
		"break_remove": e.luaBreakRemove,
		"breakpoints":  e.luaBreakpoints,
		"watch_add":    e.luaWatchAdd,
		"watch_remove": e.luaWatchRemove,
		"watches":      e.luaWatches,
	}
	for name, fn := range funcs {
		e.L.SetGlobal(name, e.L.NewFunction(fn))
	}
}

func (e *Engine) luaPrint(L *lua.LState) int {
	n := L.GetTop()
	for i := 1; i <= n; i++ {
		if i > 1 {
			fmt.Fprint(e.out, "\t")
		}
		fmt.Fprint(e.out, L.ToStringMeta(L.Get(i)).String())
	}
	fmt.Fprintln(e.out)
	return 0
}

func (e *Engine) luaLog(L *lua.LState) int {
	logger.Log("script", L.CheckString(1))
	return 0
}

func (e *Engine) luaPause(L *lua.LState) int {
	e.session().Pause()
	return 0
}

func (e *Engine) luaResume(L *lua.LState) int {
	e.session().Resume()
	return 0
}

func (e *Engine) luaToggle(L *lua.LState) int {
	e.session().TogglePause()
	L.Push(lua.LBool(e.session().Paused()))
	return 1
}

func (e *Engine) luaPaused(L *lua.LState) int {
	L.Push(lua.LBool(e.session().Paused()))
	return 1
}

func (e *Engine) luaStep(L *lua.LState) int {
	s := e.session()
	s.Pause()
	s.RequestStep()
	n, err := e.runner.Frame()
	if err != nil {
		L.RaiseError("%s", err.Error())
	}
	L.Push(lua.LNumber(n))
	return 1
}

func (e *Engine) luaReset(L *lua.LState) int {
	e.session().RequestReset()
	return 0
}

func (e *Engine) luaFrame(L *lua.LState) int {
	count := L.OptInt(1, 1)
	total := 0
	for i := 0; i < count; i++ {
		n, err := e.runner.Frame()
		if err != nil {
			L.RaiseError("%s", err.Error())
		}
		total += n
	}
	L.Push(lua.LNumber(total))
	return 1
}

func (e *Engine) luaRun(L *lua.LState) int {
	frames, err := e.runner.Run(e.ctx, L.OptInt(1, 0))
	if err != nil {
		L.RaiseError("%s", err.Error())
	}
	L.Push(lua.LNumber(frames))
	return 1
}

func (e *Engine) luaPC(L *lua.LState) int {
	L.Push(lua.LNumber(e.runner.Machine.State().PC))
	return 1
}

func (e *Engine) luaLine(L *lua.LState) int {
	line, ok := e.session().Line(e.runner.Machine.State().PC)
	if !ok {
		L.Push(lua.LNil)
	} else {
		L.Push(lua.LNumber(line))
	}
	return 1
}

func (e *Engine) luaLabel(L *lua.LState) int {
	L.Push(lua.LString(e.session().LineLabel(e.runner.Machine.State().PC)))
	return 1
}

func (e *Engine) luaRegisters(L *lua.LState) int {
	st := e.runner.Machine.State()
	t := L.NewTable()
	L.SetField(t, "pc", lua.LNumber(st.PC))
	L.SetField(t, "sp", lua.LNumber(st.SP))
	L.SetField(t, "a", lua.LNumber(st.A))
	L.SetField(t, "x", lua.LNumber(st.X))
	L.SetField(t, "y", lua.LNumber(st.Y))
	L.Push(t)
	return 1
}

func (e *Engine) luaRead(L *lua.LState) int {
	addr := checkAddress(L, 1)
	L.Push(lua.LNumber(e.runner.Machine.LoadByte(addr)))
	return 1
}

func (e *Engine) luaSpeed(L *lua.LState) int {
	s := e.session()
	if L.GetTop() >= 1 {
		s.SetInstructionsPerFrame(L.CheckInt(1))
	}
	L.Push(lua.LNumber(s.InstructionsPerFrame()))
	return 1
}

func (e *Engine) luaScale(L *lua.LState) int {
	s := e.session()
	if L.GetTop() >= 1 {
		s.SetScale(float64(L.CheckNumber(1)))
	}
	L.Push(lua.LNumber(s.Scale()))
	return 1
}

// Breakpoint and watchpoint text goes through the same parsing as typed
// input, so numbers are converted to their decimal text first.
func (e *Engine) luaBreakAdd(L *lua.LState) int {
	text := L.ToStringMeta(L.CheckAny(1)).String()
	L.Push(lua.LBool(e.session().Breakpoints.AddFromText(text)))
	return 1
}

func (e *Engine) luaBreakToggle(L *lua.LState) int {
	e.session().Breakpoints.Toggle(L.CheckInt(1))
	return 0
}

func (e *Engine) luaBreakRemove(L *lua.LState) int {
	e.session().Breakpoints.Remove(L.CheckInt(1))
	return 0
}

func (e *Engine) luaBreakpoints(L *lua.LState) int {
	t := L.NewTable()
	for _, line := range e.session().Breakpoints.List() {
		t.Append(lua.LNumber(line))
	}
	L.Push(t)
	return 1
}

// watch_add takes the hexadecimal text an operator would type. A Lua
// number is treated as the address itself.
func (e *Engine) luaWatchAdd(L *lua.LState) int {
	w := e.session().Watchpoints
	switch v := L.CheckAny(1).(type) {
	case lua.LNumber:
		L.Push(lua.LBool(v >= 0 && v <= 0xffff && w.Add(uint16(v))))
	default:
		L.Push(lua.LBool(w.AddFromText(L.ToStringMeta(v).String())))
	}
	return 1
}

func (e *Engine) luaWatchRemove(L *lua.LState) int {
	e.session().Watchpoints.Remove(checkAddress(L, 1))
	return 0
}

func (e *Engine) luaWatches(L *lua.LState) int {
	t := L.NewTable()
	for _, w := range e.session().Watches(e.runner.Machine) {
		entry := L.NewTable()
		L.SetField(entry, "address", lua.LNumber(w.Address))
		L.SetField(entry, "value", lua.LNumber(w.Value))
		L.SetField(entry, "text", lua.LString(w.String()))
		t.Append(entry)
	}
	L.Push(t)
	return 1
}

func checkAddress(L *lua.LState, n int) uint16 {
	v := L.CheckInt(n)
	if v < 0 || v > 0xffff {
		L.ArgError(n, "address out of range")
	}
	return uint16(v)
}
