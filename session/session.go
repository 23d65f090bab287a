// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package session implements the execution control of an interactive
// 6502 debugger: the run/pause/step/reset state machine, source line
// breakpoints, and memory watchpoints.
//
// A Session is a plain value shared by a runner, which owns the CPU and
// decides how many instructions to execute each frame, and a front end,
// which displays the session and applies operator input to it. Sessions
// are not safe for concurrent use; everything happens on the goroutine
// that drives frames.
//
// The step and reset requests are edge triggered. The runner peeks at
// them with StepRequested and ResetRequested, and must clear them itself
// with ConsumeStep and ConsumeReset once it has acted on them.
package session

import (
	"math"

	"github.com/beevik/dbg6502/logger"
	"github.com/beevik/dbg6502/sourcemap"
)

// Limits and defaults of the operator-adjustable settings.
const (
	MinInstructionsPerFrame     = 1
	MaxInstructionsPerFrame     = 500
	DefaultInstructionsPerFrame = 100

	MinScale     = 0.5
	MaxScale     = 3.0
	DefaultScale = 1.0
)

// A Session is the debugger's execution control state.
type Session struct {
	Source      *sourcemap.SourceMap
	Breakpoints *BreakpointSet
	Watchpoints *WatchpointSet

	breakpointEntry Entry
	watchpointEntry Entry

	paused               bool
	step                 bool
	reset                bool
	instructionsPerFrame int
	scale                float64
}

// New creates a running session for the program described by the
// source map. A nil source map is allowed; every address is then
// unmapped.
func New(source *sourcemap.SourceMap) *Session {
	return &Session{
		Source:               source,
		Breakpoints:          NewBreakpointSet(),
		Watchpoints:          NewWatchpointSet(),
		instructionsPerFrame: DefaultInstructionsPerFrame,
		scale:                DefaultScale,
	}
}

// State returns the session's execution state.
func (s *Session) State() State {
	if s.paused {
		return Paused
	}
	return Running
}

// Paused reports whether execution is paused.
func (s *Session) Paused() bool {
	return s.paused
}

// Pause stops execution.
func (s *Session) Pause() {
	if !s.paused {
		logger.Log("session", "paused")
	}
	s.paused = true
}

// Resume restarts execution. A step requested while paused is dropped.
func (s *Session) Resume() {
	if s.paused {
		logger.Log("session", "resumed")
	}
	s.paused = false
	s.step = false
}

// TogglePause pauses a running session or resumes a paused one.
func (s *Session) TogglePause() {
	if s.paused {
		s.Resume()
	} else {
		s.Pause()
	}
}

// RequestStep asks the runner to execute a single instruction. Steps can
// only be requested while paused; the return value reports whether the
// request was accepted.
func (s *Session) RequestStep() bool {
	if !s.paused {
		return false
	}
	s.step = true
	return true
}

// StepRequested reports whether a step is pending without clearing it.
func (s *Session) StepRequested() bool {
	return s.step
}

// ConsumeStep returns whether a step is pending and clears the request.
// The caller must then execute exactly one instruction.
func (s *Session) ConsumeStep() bool {
	step := s.step
	s.step = false
	return step
}

// RequestReset asks the runner to reinitialize the CPU and memory.
func (s *Session) RequestReset() {
	s.reset = true
}

// ResetRequested reports whether a reset is pending without clearing it.
func (s *Session) ResetRequested() bool {
	return s.reset
}

// ConsumeReset returns whether a reset is pending and clears the request.
func (s *Session) ConsumeReset() bool {
	reset := s.reset
	s.reset = false
	return reset
}

// InstructionsPerFrame returns the maximum number of instructions the
// runner may execute in one frame while running.
func (s *Session) InstructionsPerFrame() int {
	return s.instructionsPerFrame
}

// SetInstructionsPerFrame sets the execution speed, clamped to
// [MinInstructionsPerFrame, MaxInstructionsPerFrame], and returns the
// value stored.
func (s *Session) SetInstructionsPerFrame(n int) int {
	switch {
	case n < MinInstructionsPerFrame:
		n = MinInstructionsPerFrame
	case n > MaxInstructionsPerFrame:
		n = MaxInstructionsPerFrame
	}
	if n != s.instructionsPerFrame {
		logger.Logf("session", "speed set to %d instructions per frame", n)
	}
	s.instructionsPerFrame = n
	return n
}

// Scale returns the display scale the front end should use.
func (s *Session) Scale() float64 {
	return s.scale
}

// SetScale sets the display scale, clamped to [MinScale, MaxScale], and
// returns the value stored.
func (s *Session) SetScale(f float64) float64 {
	switch {
	case f < MinScale || math.IsNaN(f):
		f = MinScale
	case f > MaxScale:
		f = MaxScale
	}
	s.scale = f
	return f
}

// Budget returns how many instructions the runner may execute this
// frame, given the current directives.
func (s *Session) Budget() int {
	switch {
	case !s.paused:
		return s.instructionsPerFrame
	case s.step:
		return 1
	default:
		return 0
	}
}

// Line returns the source line beginning at the address.
func (s *Session) Line(pc uint16) (int, bool) {
	return s.Source.LineOf(pc)
}

// LineLabel returns the source line beginning at the address formatted
// for display, or a placeholder if the address is unmapped.
func (s *Session) LineLabel(pc uint16) string {
	return s.Source.Label(pc)
}

// CheckBreakpoint pauses the session if the address begins a source line
// holding a breakpoint. It reports whether a breakpoint was hit. Unmapped
// addresses never hit.
func (s *Session) CheckBreakpoint(pc uint16) bool {
	line, ok := s.Source.LineOf(pc)
	if !ok || !s.Breakpoints.Contains(line) {
		return false
	}
	if !s.paused {
		logger.Logf("session", "breakpoint hit at line %d ($%04X)", line, pc)
	}
	s.paused = true
	return true
}

// Observe runs the breakpoint check against the CPU's program counter.
func (s *Session) Observe(cpu Processor) bool {
	return s.CheckBreakpoint(cpu.State().PC)
}

// Watches reads the current value of every watchpoint.
func (s *Session) Watches(mem Memory) []Watch {
	return s.Watchpoints.Read(mem)
}

// BreakpointEntry returns the text buffer for typing breakpoint lines.
func (s *Session) BreakpointEntry() *Entry {
	return &s.breakpointEntry
}

// WatchpointEntry returns the text buffer for typing watchpoint
// addresses.
func (s *Session) WatchpointEntry() *Entry {
	return &s.watchpointEntry
}

// SubmitBreakpointEntry adds the breakpoint typed into the entry buffer
// and clears the buffer. Malformed text is discarded silently.
func (s *Session) SubmitBreakpointEntry() bool {
	return s.breakpointEntry.submit(s.Breakpoints.AddFromText)
}

// SubmitWatchpointEntry adds the watchpoint typed into the entry buffer
// and clears the buffer. Malformed text is discarded silently.
func (s *Session) SubmitWatchpointEntry() bool {
	return s.watchpointEntry.submit(s.Watchpoints.AddFromText)
}
