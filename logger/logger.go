// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package logger keeps a central, bounded history of debugger events.
// Entries are tagged by the component that produced them. Identical
// consecutive entries are collapsed into one with a repeat count.
package logger

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

// MaxEntries is the number of entries the central log retains.
const MaxEntries = 256

// An Entry is a single line in the log.
type Entry struct {
	Timestamp time.Time
	Tag       string
	Detail    string
	Repeated  int
}

func (e Entry) String() string {
	s := strings.Builder{}
	s.WriteString(fmt.Sprintf("%s: %s", e.Tag, e.Detail))
	if e.Repeated > 0 {
		s.WriteString(fmt.Sprintf(" (repeat x%d)", e.Repeated+1))
	}
	return s.String()
}

type logger struct {
	mu         sync.Mutex
	maxEntries int
	entries    []Entry
	echo       io.Writer
}

// only one log for the whole program
var central = newLogger(MaxEntries)

func newLogger(maxEntries int) *logger {
	return &logger{maxEntries: maxEntries}
}

func (l *logger) log(tag, detail string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	tag = strings.ReplaceAll(tag, "\n", "")
	detail = strings.ReplaceAll(detail, "\n", "")

	n := len(l.entries)
	if n > 0 && l.entries[n-1].Tag == tag && l.entries[n-1].Detail == detail {
		l.entries[n-1].Repeated++
		l.entries[n-1].Timestamp = time.Now()
	} else {
		l.entries = append(l.entries, Entry{Timestamp: time.Now(), Tag: tag, Detail: detail})
	}

	if len(l.entries) > l.maxEntries {
		l.entries = l.entries[len(l.entries)-l.maxEntries:]
	}

	if l.echo != nil {
		io.WriteString(l.echo, l.entries[len(l.entries)-1].String()+"\n")
	}
}

func (l *logger) tail(number int) []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	if number > len(l.entries) || number < 0 {
		number = len(l.entries)
	}
	c := make([]Entry, number)
	copy(c, l.entries[len(l.entries)-number:])
	return c
}

// Log adds an entry to the central log.
func Log(tag, detail string) {
	central.log(tag, detail)
}

// Logf adds a formatted entry to the central log.
func Logf(tag, format string, args ...any) {
	central.log(tag, fmt.Sprintf(format, args...))
}

// Clear removes all entries from the central log.
func Clear() {
	central.mu.Lock()
	central.entries = central.entries[:0]
	central.mu.Unlock()
}

// SetEcho writes every new entry to w as well. A nil writer turns echoing
// off.
func SetEcho(w io.Writer) {
	central.mu.Lock()
	central.echo = w
	central.mu.Unlock()
}

// Entries returns the most recent number entries, oldest first. A negative
// number returns all of them.
func Entries(number int) []Entry {
	return central.tail(number)
}

// Write writes the entire log to w.
func Write(w io.Writer) {
	Tail(w, -1)
}

// Tail writes the most recent number entries to w.
func Tail(w io.Writer, number int) {
	for _, e := range central.tail(number) {
		io.WriteString(w, e.String()+"\n")
	}
}
