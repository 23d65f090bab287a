// Copyright 2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package host

import (
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/beevik/prefixtree/v2"

	"github.com/beevik/dbg6502/session"
)

type settings struct {
	Speed           int     `doc:"instructions per frame while running"`
	Scale           float64 `doc:"display scale factor"`
	ClearOnReset    bool    `doc:"clear breakpoints and watchpoints on reset"`
	SourceLines     int     `doc:"default number of source lines to list"`
	StepLines       int     `doc:"max lines to display when stepping"`
	MemDumpBytes    int     `doc:"default number of memory bytes to dump"`
	LogLines        int     `doc:"default number of log entries to display"`
	Width           int     `doc:"max width of listed source lines (0=any)"`
	NextSourceLine  int     `doc:"line of next source listing"`
	NextMemDumpAddr uint16  `doc:"address of next memory dump"`
}

func newSettings() *settings {
	return &settings{
		Speed:        session.DefaultInstructionsPerFrame,
		Scale:        session.DefaultScale,
		ClearOnReset: false,
		SourceLines:  10,
		StepLines:    20,
		MemDumpBytes: 64,
		LogLines:     10,
		Width:        0,
	}
}

type settingsField struct {
	name  string
	index int
	kind  reflect.Kind
	typ   reflect.Type
	doc   string
}

var (
	settingsTree   = prefixtree.New[*settingsField]()
	settingsFields []settingsField
)

func init() {
	settingsType := reflect.TypeOf(settings{})
	settingsFields = make([]settingsField, settingsType.NumField())
	for i := 0; i < len(settingsFields); i++ {
		f := settingsType.Field(i)
		doc, _ := f.Tag.Lookup("doc")
		settingsFields[i] = settingsField{
			name:  f.Name,
			index: i,
			kind:  f.Type.Kind(),
			typ:   f.Type,
			doc:   doc,
		}
		settingsTree.Add(strings.ToLower(f.Name), &settingsFields[i])
	}
}

func (s *settings) Display(w io.Writer) {
	value := reflect.ValueOf(s).Elem()
	for i, f := range settingsFields {
		v := value.Field(i)
		var s string
		switch f.kind {
		case reflect.Uint16:
			s = fmt.Sprintf("    %-16s $%04X", f.name, uint16(v.Uint()))
		case reflect.Float64:
			s = fmt.Sprintf("    %-16s %.2f", f.name, v.Float())
		default:
			s = fmt.Sprintf("    %-16s %v", f.name, v)
		}
		fmt.Fprintf(w, "%-28s (%s)\n", s, f.doc)
	}
}

// Field returns the exact name and kind of the setting matching the key,
// which may be any unambiguous prefix of the name.
func (s *settings) Field(key string) (name string, kind reflect.Kind, err error) {
	f, err := settingsTree.FindValue(strings.ToLower(key))
	if err != nil {
		return "", reflect.Invalid, err
	}
	return f.name, f.kind, nil
}

func (s *settings) Set(key string, value any) error {
	f, err := settingsTree.FindValue(strings.ToLower(key))
	if err != nil {
		return err
	}

	vIn := reflect.ValueOf(value)
	if (f.kind == reflect.Bool) != (vIn.Kind() == reflect.Bool) ||
		!vIn.Type().ConvertibleTo(f.typ) {
		return errors.New("invalid type")
	}
	vInConverted := vIn.Convert(f.typ)

	vOut := reflect.ValueOf(s).Elem().Field(f.index)
	vOut.Set(vInConverted)

	return nil
}
