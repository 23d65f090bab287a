// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package runner executes a CPU one frame at a time under the direction
// of a debug session.
package runner

import (
	"context"
	"fmt"

	"github.com/beevik/dbg6502/logger"
	"github.com/beevik/dbg6502/session"
)

// A Machine is the CPU and memory being debugged.
type Machine interface {
	session.Processor
	session.Memory

	// Step executes exactly one instruction.
	Step()

	// Reset reinitializes the CPU and memory to their power-on state with
	// the program loaded.
	Reset() error
}

// ResetPolicy decides what happens to breakpoints and watchpoints when
// the machine is reset.
type ResetPolicy byte

// Reset policies.
const (
	KeepOnReset ResetPolicy = iota
	ClearOnReset
)

func (p ResetPolicy) String() string {
	switch p {
	case KeepOnReset:
		return "keep"
	case ClearOnReset:
		return "clear"
	}
	return ""
}

// A Runner executes a machine's instructions according to a session's
// directives.
type Runner struct {
	Session     *session.Session
	Machine     Machine
	ResetPolicy ResetPolicy

	Instructions uint64 // total instructions executed
	Frames       uint64 // total frames run
}

// New creates a runner for the session and machine.
func New(s *session.Session, m Machine) *Runner {
	return &Runner{
		Session: s,
		Machine: m,
	}
}

// Frame runs a single frame and returns the number of instructions
// executed.
//
// A pending reset is serviced first. Then the breakpoint check runs
// against the current program counter, before any instruction executes,
// so that a breakpoint just reached is never stepped over. A paused
// session executes one instruction if a step was requested and nothing
// otherwise. A running session executes up to its instructions-per-frame
// limit, one instruction at a time, stopping as soon as a breakpoint is
// hit.
func (r *Runner) Frame() (executed int, err error) {
	r.Frames++

	s := r.Session
	if _, err := r.ApplyReset(); err != nil {
		return 0, err
	}

	s.Observe(r.Machine)

	if s.Paused() {
		if !s.ConsumeStep() {
			return 0, nil
		}
		r.step()
		s.Observe(r.Machine)
		return 1, nil
	}

	limit := s.InstructionsPerFrame()
	for executed < limit {
		r.step()
		executed++
		if s.Observe(r.Machine) {
			break
		}
	}
	return executed, nil
}

// Run runs frames until the session pauses, maxFrames frames have run,
// or the context is done. A maxFrames of zero or less means no limit. It
// returns the number of frames run.
func (r *Runner) Run(ctx context.Context, maxFrames int) (frames int, err error) {
	for maxFrames <= 0 || frames < maxFrames {
		if err := ctx.Err(); err != nil {
			return frames, err
		}
		if _, err := r.Frame(); err != nil {
			return frames, err
		}
		frames++
		if r.Session.Paused() {
			break
		}
	}
	return frames, nil
}

// ApplyReset services a pending reset request without running a frame.
// It reports whether a reset happened.
func (r *Runner) ApplyReset() (bool, error) {
	if !r.Session.ConsumeReset() {
		return false, nil
	}
	return true, r.reset()
}

func (r *Runner) step() {
	r.Machine.Step()
	r.Instructions++
}

func (r *Runner) reset() error {
	if err := r.Machine.Reset(); err != nil {
		return fmt.Errorf("reset: %w", err)
	}

	s := r.Session
	if r.ResetPolicy == ClearOnReset {
		s.Breakpoints.Clear()
		s.Watchpoints.Clear()
	}
	s.ConsumeStep()

	logger.Logf("runner", "reset to $%04X (breakpoints: %s)", r.Machine.State().PC, r.ResetPolicy)
	return nil
}
