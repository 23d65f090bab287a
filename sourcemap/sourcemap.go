// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package sourcemap pairs the lines of an assembled program's source
// listing with the machine code addresses at which they begin.
package sourcemap

import (
	"errors"
	"fmt"
)

// Unmapped is the placeholder displayed in place of a line number when an
// address does not begin any source line.
const Unmapped = "xxx"

// Errors
var (
	ErrLengthMismatch = errors.New("source lines and debug symbols differ in length")
)

// A SourceMap describes the mapping between source code lines and the
// addresses of the instructions they assemble to. Entry i of the symbol
// table is the address at which line i+1 begins. A SourceMap is immutable
// once created.
type SourceMap struct {
	lines   []string
	symbols []uint16
}

// New creates a source map from a listing and its debug symbols. Both
// slices are copied.
func New(lines []string, symbols []uint16) (*SourceMap, error) {
	if len(lines) != len(symbols) {
		return nil, fmt.Errorf("%w (%d lines, %d symbols)", ErrLengthMismatch, len(lines), len(symbols))
	}

	s := &SourceMap{
		lines:   make([]string, len(lines)),
		symbols: make([]uint16, len(symbols)),
	}
	copy(s.lines, lines)
	copy(s.symbols, symbols)
	return s, nil
}

// Len returns the number of source lines in the map.
func (s *SourceMap) Len() int {
	if s == nil {
		return 0
	}
	return len(s.lines)
}

// LineOf returns the 1-based source line that begins at the address. An
// address that falls inside an instruction, or outside the program, is
// unmapped and returns ok == false.
func (s *SourceMap) LineOf(addr uint16) (line int, ok bool) {
	if s == nil {
		return 0, false
	}
	for i, a := range s.symbols {
		if a == addr {
			return i + 1, true
		}
	}
	return 0, false
}

// Text returns the source text of a 1-based line.
func (s *SourceMap) Text(line int) (string, bool) {
	if line < 1 || line > s.Len() {
		return "", false
	}
	return s.lines[line-1], true
}

// Address returns the address at which a 1-based line begins.
func (s *SourceMap) Address(line int) (uint16, bool) {
	if line < 1 || line > s.Len() {
		return 0, false
	}
	return s.symbols[line-1], true
}

// Lines returns a copy of the source listing.
func (s *SourceMap) Lines() []string {
	l := make([]string, s.Len())
	if s != nil {
		copy(l, s.lines)
	}
	return l
}

// Label returns the line number beginning at addr formatted for display,
// or the Unmapped placeholder.
func (s *SourceMap) Label(addr uint16) string {
	if line, ok := s.LineOf(addr); ok {
		return fmt.Sprintf("%d", line)
	}
	return Unmapped
}
