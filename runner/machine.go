// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package runner

import (
	"github.com/beevik/go6502/cpu"

	"github.com/beevik/dbg6502/session"
)

// Machine6502 is a 65c02 CPU attached to 64K of flat memory holding a
// program image.
type Machine6502 struct {
	origin uint16
	code   []byte
	mem    *cpu.FlatMemory
	cpu    *cpu.CPU
}

// NewMachine6502 creates a machine with the code loaded at origin and the
// program counter pointing at it.
func NewMachine6502(origin uint16, code []byte) *Machine6502 {
	m := &Machine6502{
		origin: origin,
		code:   make([]byte, len(code)),
	}
	copy(m.code, code)
	m.Reset()
	return m
}

// Reset discards the CPU and memory and rebuilds them with the program
// image loaded.
func (m *Machine6502) Reset() error {
	m.mem = cpu.NewFlatMemory()
	m.cpu = cpu.NewCPU(cpu.CMOS, m.mem)
	m.mem.StoreBytes(m.origin, m.code)
	m.cpu.SetPC(m.origin)
	return nil
}

// Step executes one instruction.
func (m *Machine6502) Step() {
	m.cpu.Step()
}

// State returns a snapshot of the CPU registers.
func (m *Machine6502) State() session.CPUState {
	r := &m.cpu.Reg
	return session.CPUState{
		PC: r.PC,
		SP: 0x0100 | uint16(r.SP),
		A:  r.A,
		X:  r.X,
		Y:  r.Y,
	}
}

// LoadByte reads a byte of memory.
func (m *Machine6502) LoadByte(addr uint16) byte {
	return m.mem.LoadByte(addr)
}

// Cycles returns the number of CPU cycles executed since the last reset.
func (m *Machine6502) Cycles() uint64 {
	return m.cpu.Cycles
}

// Origin returns the address the program is loaded at.
func (m *Machine6502) Origin() uint16 {
	return m.origin
}
