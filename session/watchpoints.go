// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package session

import (
	"fmt"
	"strconv"
	"strings"
)

// A Watch pairs a watched address with the byte it held when it was
// read.
type Watch struct {
	Address uint16
	Value   byte
}

func (w Watch) String() string {
	return fmt.Sprintf("0x%x => 0x%02x", w.Address, w.Value)
}

// A WatchpointSet holds memory addresses whose contents are displayed
// every frame. Watchpoints only observe memory; they never stop the CPU.
type WatchpointSet struct {
	addrs []uint16
}

// NewWatchpointSet creates an empty watchpoint set.
func NewWatchpointSet() *WatchpointSet {
	return &WatchpointSet{}
}

func (w *WatchpointSet) index(addr uint16) int {
	for i, a := range w.addrs {
		if a == addr {
			return i
		}
	}
	return -1
}

// Contains reports whether the address is watched.
func (w *WatchpointSet) Contains(addr uint16) bool {
	return w.index(addr) >= 0
}

// Add watches the address. If it is already watched, the request is
// ignored and Add returns false.
func (w *WatchpointSet) Add(addr uint16) bool {
	if w.Contains(addr) {
		return false
	}
	w.addrs = append(w.addrs, addr)
	return true
}

// AddFromText parses raw as a hexadecimal address, without any prefix,
// and watches it. Text that doesn't parse is ignored.
func (w *WatchpointSet) AddFromText(raw string) bool {
	addr, ok := ParseAddress(raw)
	if !ok {
		return false
	}
	return w.Add(addr)
}

// Remove stops watching the address.
func (w *WatchpointSet) Remove(addr uint16) {
	if i := w.index(addr); i >= 0 {
		w.RemoveAt(i)
	}
}

// RemoveAt removes the i'th watchpoint in listing order.
func (w *WatchpointSet) RemoveAt(i int) {
	if i < 0 || i >= len(w.addrs) {
		return
	}
	w.addrs = append(w.addrs[:i], w.addrs[i+1:]...)
}

// Len returns the number of watchpoints.
func (w *WatchpointSet) Len() int {
	return len(w.addrs)
}

// List returns the watched addresses in the order they were added.
func (w *WatchpointSet) List() []uint16 {
	l := make([]uint16, len(w.addrs))
	copy(l, w.addrs)
	return l
}

// Clear removes all watchpoints.
func (w *WatchpointSet) Clear() {
	w.addrs = w.addrs[:0]
}

// Read reads the current value of every watched address from memory.
// Values are never cached.
func (w *WatchpointSet) Read(mem Memory) []Watch {
	watches := make([]Watch, len(w.addrs))
	for i, a := range w.addrs {
		watches[i] = Watch{Address: a, Value: mem.LoadByte(a)}
	}
	return watches
}

// ParseAddress parses a 16-bit hexadecimal address. Upper and lower case
// digits are accepted, as is a single leading plus sign.
func ParseAddress(raw string) (uint16, bool) {
	v, err := strconv.ParseUint(strings.TrimPrefix(raw, "+"), 16, 16)
	if err != nil {
		return 0, false
	}
	return uint16(v), true
}
