// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package session

import "fmt"

// State is the execution state of a debug session.
type State int

// List of session states. Stepping is not a state: it is a one-shot
// request that may only be made while Paused.
const (
	Running State = iota
	Paused
)

func (s State) String() string {
	switch s {
	case Running:
		return "Running"
	case Paused:
		return "Paused"
	}
	return ""
}

// CPUState is a snapshot of the CPU registers the debugger displays.
type CPUState struct {
	PC uint16 // address of the next instruction
	SP uint16 // stack pointer as a page-1 address
	A  byte
	X  byte
	Y  byte
}

// RegisterString formats the 8-bit registers for display.
func (s CPUState) RegisterString() string {
	return fmt.Sprintf("A: 0x%02x, X: 0x%02x, Y: 0x%02x", s.A, s.X, s.Y)
}

// A Processor reports the state of the CPU being debugged.
type Processor interface {
	State() CPUState
}

// Memory is the byte-addressable store watchpoints read from. Reads must
// not have side effects.
type Memory interface {
	LoadByte(addr uint16) byte
}
