// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package loader reads the files produced by the go6502 assembler: a
// binary program image and the JSON source map describing it.
package loader

import (
	"bufio"
	"errors"
	"fmt"
	"hash/crc32"
	"os"
	"path/filepath"

	"github.com/tidwall/gjson"

	"github.com/beevik/dbg6502/sourcemap"
)

// Errors
var (
	ErrNoOrigin   = errors.New("program has no source map and requires an origin address")
	ErrBadMap     = errors.New("source map is not valid JSON")
	ErrStaleMap   = errors.New("source map checksum does not match the program")
	ErrTooLarge   = errors.New("program exceeds 64K")
	ErrBadLineRef = errors.New("source map refers to a missing source line")
)

// A Line is one entry of an assembler source map: the address of an
// instruction and the source line that produced it.
type Line struct {
	Address uint16
	File    int // index into Map.Files
	Line    int // 1-based line within the file
}

// A Map is the decoded contents of an assembler source map file.
type Map struct {
	Origin    uint16
	HasOrigin bool
	Size      uint32
	CRC       uint32
	Files     []string
	Lines     []Line
}

// A Program is a loaded program image and its source map.
type Program struct {
	Origin uint16
	Code   []byte
	Source *sourcemap.SourceMap
}

// ReadMap reads and decodes an assembler source map file.
func ReadMap(path string) (*Map, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseMap(data)
}

// ParseMap decodes the JSON contents of an assembler source map.
func ParseMap(data []byte) (*Map, error) {
	if !gjson.ValidBytes(data) {
		return nil, ErrBadMap
	}

	r := gjson.ParseBytes(data)
	m := &Map{}
	if o := r.Get("Origin"); o.Exists() {
		m.Origin = uint16(o.Uint())
		m.HasOrigin = true
	}
	m.Size = uint32(r.Get("Size").Uint())
	m.CRC = uint32(r.Get("CRC").Uint())

	for _, f := range r.Get("Files").Array() {
		m.Files = append(m.Files, f.String())
	}
	r.Get("Lines").ForEach(func(_, v gjson.Result) bool {
		m.Lines = append(m.Lines, Line{
			Address: uint16(v.Get("Address").Uint()),
			File:    int(v.Get("FileIndex").Int()),
			Line:    int(v.Get("Line").Int()),
		})
		return true
	})
	return m, nil
}

// Verify checks the program image against the size and checksum recorded
// in the map. Maps that record neither always verify.
func (m *Map) Verify(code []byte) error {
	if m.Size != 0 && m.Size != uint32(len(code)) {
		return fmt.Errorf("%w (size %d, map says %d)", ErrStaleMap, len(code), m.Size)
	}
	if m.CRC != 0 && m.CRC != crc32.ChecksumIEEE(code) {
		return ErrStaleMap
	}
	return nil
}

// SourceMap builds the debugger's source map from the map's instruction
// lines. Source files named by relative paths are looked up relative to
// dir. Only lines that produced instructions appear in the listing, in
// the order the assembler recorded them.
func (m *Map) SourceMap(dir string) (*sourcemap.SourceMap, error) {
	files := make([][]string, len(m.Files))
	for i, f := range m.Files {
		if !filepath.IsAbs(f) {
			f = filepath.Join(dir, f)
		}
		text, err := readLines(f)
		if err != nil {
			return nil, err
		}
		files[i] = text
	}

	lines := make([]string, 0, len(m.Lines))
	symbols := make([]uint16, 0, len(m.Lines))
	for _, l := range m.Lines {
		if l.File < 0 || l.File >= len(files) || l.Line < 1 || l.Line > len(files[l.File]) {
			return nil, fmt.Errorf("%w (file %d, line %d)", ErrBadLineRef, l.File, l.Line)
		}
		lines = append(lines, files[l.File][l.Line-1])
		symbols = append(symbols, l.Address)
	}
	return sourcemap.New(lines, symbols)
}

// Load reads a program image and the source map stored beside it with a
// .map extension. The origin recorded in the map is used when there is
// one; otherwise origin must be a valid address. A program without a
// source map loads with a nil Source.
func Load(binPath string, origin int) (*Program, error) {
	code, err := os.ReadFile(binPath)
	if err != nil {
		return nil, err
	}
	if len(code) > 0x10000 {
		return nil, ErrTooLarge
	}

	p := &Program{Code: code}

	ext := filepath.Ext(binPath)
	mapPath := binPath[:len(binPath)-len(ext)] + ".map"
	m, err := ReadMap(mapPath)
	switch {
	case errors.Is(err, os.ErrNotExist):
		m = nil
	case err != nil:
		return nil, fmt.Errorf("%s: %w", filepath.Base(mapPath), err)
	}

	switch {
	case m != nil && m.HasOrigin:
		p.Origin = m.Origin
	case origin >= 0 && origin <= 0xffff:
		p.Origin = uint16(origin)
	default:
		return nil, ErrNoOrigin
	}

	if m != nil {
		if err := m.Verify(code); err != nil {
			return nil, fmt.Errorf("%s: %w", filepath.Base(mapPath), err)
		}
		p.Source, err = m.SourceMap(filepath.Dir(mapPath))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filepath.Base(mapPath), err)
		}
	}

	return p, nil
}

func readLines(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	return lines, scanner.Err()
}
