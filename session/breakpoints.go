// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package session

import (
	"strconv"
	"strings"
)

// A BreakpointSet holds the source lines that pause execution when
// reached. Lines are listed in the order they were added.
type BreakpointSet struct {
	lines []int
}

// NewBreakpointSet creates an empty breakpoint set.
func NewBreakpointSet() *BreakpointSet {
	return &BreakpointSet{}
}

func (b *BreakpointSet) index(line int) int {
	for i, l := range b.lines {
		if l == line {
			return i
		}
	}
	return -1
}

// Contains reports whether a breakpoint is set on the line.
func (b *BreakpointSet) Contains(line int) bool {
	return b.index(line) >= 0
}

// Add sets a breakpoint on the line. If the breakpoint was already set,
// the request is ignored and Add returns false.
func (b *BreakpointSet) Add(line int) bool {
	if b.Contains(line) {
		return false
	}
	b.lines = append(b.lines, line)
	return true
}

// AddFromText parses raw as a non-negative decimal line number and adds
// it. Text that doesn't parse is ignored.
func (b *BreakpointSet) AddFromText(raw string) bool {
	line, ok := parseLine(raw)
	if !ok {
		return false
	}
	return b.Add(line)
}

// Remove removes the breakpoint on the line, if there is one.
func (b *BreakpointSet) Remove(line int) {
	if i := b.index(line); i >= 0 {
		b.RemoveAt(i)
	}
}

// RemoveAt removes the i'th breakpoint in listing order.
func (b *BreakpointSet) RemoveAt(i int) {
	if i < 0 || i >= len(b.lines) {
		return
	}
	b.lines = append(b.lines[:i], b.lines[i+1:]...)
}

// Toggle removes the breakpoint on the line if set, otherwise it adds one.
func (b *BreakpointSet) Toggle(line int) {
	if i := b.index(line); i >= 0 {
		b.RemoveAt(i)
	} else {
		b.lines = append(b.lines, line)
	}
}

// Len returns the number of breakpoints.
func (b *BreakpointSet) Len() int {
	return len(b.lines)
}

// List returns the breakpoint lines in the order they were added.
func (b *BreakpointSet) List() []int {
	l := make([]int, len(b.lines))
	copy(l, b.lines)
	return l
}

// Clear removes all breakpoints.
func (b *BreakpointSet) Clear() {
	b.lines = b.lines[:0]
}

// parseLine accepts decimal digits with an optional leading plus sign.
func parseLine(raw string) (int, bool) {
	v, err := strconv.ParseUint(strings.TrimPrefix(raw, "+"), 10, strconv.IntSize-1)
	if err != nil {
		return 0, false
	}
	return int(v), true
}
