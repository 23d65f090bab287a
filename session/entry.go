// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package session

// An Entry is a single-line text buffer the operator types into.
type Entry struct {
	buf []rune
}

// Insert appends a rune to the buffer.
func (e *Entry) Insert(r rune) {
	e.buf = append(e.buf, r)
}

// Backspace deletes the last rune in the buffer.
func (e *Entry) Backspace() {
	if len(e.buf) > 0 {
		e.buf = e.buf[:len(e.buf)-1]
	}
}

// Set replaces the buffer contents.
func (e *Entry) Set(s string) {
	e.buf = []rune(s)
}

// Clear empties the buffer.
func (e *Entry) Clear() {
	e.buf = e.buf[:0]
}

func (e *Entry) String() string {
	return string(e.buf)
}

// Len returns the number of runes in the buffer.
func (e *Entry) Len() int {
	return len(e.buf)
}

// submit hands the buffer contents to add and clears the buffer whether
// or not add accepted them.
func (e *Entry) submit(add func(string) bool) bool {
	ok := add(e.String())
	e.Clear()
	return ok
}
