// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tui

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/beevik/dbg6502/logger"
)

// A Canvas is the drawing surface the UI renders to. A tcell.Screen is a
// Canvas.
type Canvas interface {
	SetContent(x, y int, primary rune, combining []rune, style tcell.Style)
	Size() (width, height int)
}

var (
	styleDefault    = tcell.StyleDefault
	styleBorder     = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleTitle      = tcell.StyleDefault.Bold(true)
	styleButton     = tcell.StyleDefault.Reverse(true)
	styleEntry      = tcell.StyleDefault.Underline(true)
	styleFocused    = tcell.StyleDefault.Underline(true).Foreground(tcell.ColorYellow)
	styleCurrent    = tcell.StyleDefault.Background(tcell.ColorRed).Foreground(tcell.ColorWhite)
	styleBreakpoint = tcell.StyleDefault.Background(tcell.ColorBlue).Foreground(tcell.ColorWhite)
	styleComment    = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	styleDim        = tcell.StyleDefault.Foreground(tcell.ColorGray)
)

const entryWidth = 10

// Draw renders every window to the canvas and records the clickable
// regions for mouse handling.
func (u *UI) Draw(c Canvas) {
	w, h := c.Size()
	s := u.runner.Session
	u.layout = computeLayout(w, h, s.Scale())
	u.regions = u.regions[:0]

	u.drawControls(c)
	u.drawCPU(c)
	u.drawBreakpoints(c)
	u.drawWatchpoints(c)
	u.drawSource(c)
	u.drawStatus(c)
}

func (u *UI) drawControls(c Canvas) {
	r := drawBox(c, u.layout.controls, "Debug Controls")
	if r.w == 0 {
		return
	}
	s := u.runner.Session

	x := drawText(c, r.x, r.y, r.right(), "Speed ", styleDefault)
	x = u.button(c, x, r.y, r.right(), "-", func() { u.changeSpeed(-speedStep) })
	x = drawText(c, x, r.y, r.right(), fmt.Sprintf(" %3d ", s.InstructionsPerFrame()), styleDefault)
	x = u.button(c, x, r.y, r.right(), "+", func() { u.changeSpeed(speedStep) })
	drawText(c, x, r.y, r.right(), " instr/frame", styleDim)

	y := r.y + 1
	x = drawText(c, r.x, y, r.right(), "Scale ", styleDefault)
	x = u.button(c, x, y, r.right(), "-", func() { u.changeScale(-scaleStep) })
	x = drawText(c, x, y, r.right(), fmt.Sprintf(" %.2f ", s.Scale()), styleDefault)
	u.button(c, x, y, r.right(), "+", func() { u.changeScale(scaleStep) })

	y++
	label := "Pause"
	if s.Paused() {
		label = "Resume"
	}
	x = u.button(c, r.x, y, r.right(), label, u.togglePause)
	x = u.button(c, x+1, y, r.right(), "Reset", u.reset)
	u.button(c, x+1, y, r.right(), "Step", u.step)

	y++
	drawText(c, r.x, y, r.right(), fmt.Sprintf("%-8s frames %d  instr %d",
		s.State(), u.runner.Frames, u.runner.Instructions), styleDefault)

	y++
	drawText(c, r.x, y, r.right(), "spc pause  s step  r reset  q quit", styleDim)
}

func (u *UI) drawCPU(c Canvas) {
	r := drawBox(c, u.layout.cpu, "CPU State")
	if r.w == 0 {
		return
	}
	s := u.runner.Session

	if !s.Paused() {
		drawText(c, r.x, r.y, r.right(), "Running...", styleDim)
		return
	}

	st := u.runner.Machine.State()
	lines := []string{
		fmt.Sprintf("PC: $%04X   SP: $%04X", st.PC, st.SP),
		fmt.Sprintf("Line: %s", s.LineLabel(st.PC)),
		strings.TrimSpace(u.lineText(st.PC)),
		st.RegisterString(),
	}
	if cy, ok := u.runner.Machine.(interface{ Cycles() uint64 }); ok {
		lines = append(lines, fmt.Sprintf("Cycles: %d", cy.Cycles()))
	}
	for i, line := range lines {
		if i >= r.h {
			break
		}
		drawText(c, r.x, r.y+i, r.right(), line, styleDefault)
	}
}

func (u *UI) drawBreakpoints(c Canvas) {
	r := drawBox(c, u.layout.breakpoints, "Breakpoints")
	if r.h == 0 {
		return
	}
	s := u.runner.Session

	x := drawText(c, r.x, r.y, r.right(), "Line: ", styleDefault)
	x = u.entryField(c, x, r.y, r.right(), focusBreakpoint)
	u.button(c, x+1, r.y, r.right(), "Add", func() { s.SubmitBreakpointEntry() })

	list := s.Breakpoints.List()
	for i, line := range list {
		y := r.y + 1 + i
		if y >= r.y+r.h {
			break
		}
		if y == r.y+r.h-1 && i < len(list)-1 {
			drawText(c, r.x, y, r.right(), fmt.Sprintf("... %d more", len(list)-i), styleDim)
			break
		}
		text, _ := s.Source.Text(line)
		x := drawText(c, r.x, y, r.right(), fmt.Sprintf("%5d ", line), styleDefault)
		x = u.button(c, x, y, r.right(), "X", func() { s.Breakpoints.RemoveAt(i) })
		drawText(c, x+1, y, r.right(), strings.TrimSpace(text), styleDim)
	}
}

func (u *UI) drawWatchpoints(c Canvas) {
	r := drawBox(c, u.layout.watchpoints, "Watchpoints")
	if r.h == 0 {
		return
	}
	s := u.runner.Session

	x := drawText(c, r.x, r.y, r.right(), "Addr: ", styleDefault)
	x = u.entryField(c, x, r.y, r.right(), focusWatchpoint)
	u.button(c, x+1, r.y, r.right(), "Add", func() { s.SubmitWatchpointEntry() })

	watches := s.Watches(u.runner.Machine)
	for i, w := range watches {
		y := r.y + 1 + i
		if y >= r.y+r.h {
			break
		}
		if y == r.y+r.h-1 && i < len(watches)-1 {
			drawText(c, r.x, y, r.right(), fmt.Sprintf("... %d more", len(watches)-i), styleDim)
			break
		}
		x := drawText(c, r.x, y, r.right(), fmt.Sprintf("%-16s ", w), styleDefault)
		u.button(c, x, y, r.right(), "X", func() { s.Watchpoints.RemoveAt(i) })
	}
}

func (u *UI) drawSource(c Canvas) {
	r := drawBox(c, u.layout.source, "Source Code")
	if r.h == 0 || r.w == 0 {
		return
	}
	s := u.runner.Session

	n := s.Source.Len()
	if n == 0 {
		drawText(c, r.x, r.y, r.right(), "No source loaded.", styleDim)
		return
	}

	current, mapped := s.Line(u.runner.Machine.State().PC)
	if u.follow && mapped && (current-1 < u.scroll || current-1 >= u.scroll+r.h) {
		u.scroll = current - 1 - r.h/2
	}
	u.scroll = max(min(u.scroll, n-r.h), 0)

	for row := 0; row < r.h; row++ {
		line := u.scroll + row + 1
		if line > n {
			break
		}
		y := r.y + row
		text, _ := s.Source.Text(line)

		numStyle, textStyle, commentStyle := styleDim, styleDefault, styleComment
		if s.Breakpoints.Contains(line) {
			numStyle = styleBreakpoint
		}
		if mapped && line == current {
			textStyle, commentStyle = styleCurrent, styleCurrent
			if numStyle == styleDim {
				numStyle = styleCurrent
			}
			fill(c, rect{r.x, y, r.w, 1}, styleCurrent)
		}

		num := fmt.Sprintf("%4d", line)
		x := drawText(c, r.x, y, r.right(), num, numStyle)
		u.addRegion(rect{r.x, y, len(num), 1}, focusNone, func() {
			s.Breakpoints.Toggle(line)
		})

		code, comment, hasComment := strings.Cut(text, ";")
		x = drawText(c, x+1, y, r.right(), code, textStyle)
		if hasComment {
			drawText(c, x, y, r.right(), ";"+comment, commentStyle)
		}
	}
}

func (u *UI) drawStatus(c Canvas) {
	r := u.layout.status
	if r.h == 0 {
		return
	}
	msg := "Ready."
	if e := logger.Entries(1); len(e) > 0 {
		msg = e[0].String()
	}
	drawText(c, r.x, r.y, r.right(), msg, styleDim)
}

func (u *UI) lineText(pc uint16) string {
	s := u.runner.Session
	if line, ok := s.Line(pc); ok {
		text, _ := s.Source.Text(line)
		return text
	}
	return ""
}

// button draws a clickable [label] and returns the column after it.
func (u *UI) button(c Canvas, x, y, maxX int, label string, action func()) int {
	text := "[" + label + "]"
	end := drawText(c, x, y, maxX, text, styleButton)
	u.addRegion(rect{x, y, end - x, 1}, focusNone, action)
	return end
}

// entryField draws the text entry for the focus target and returns the
// column after it.
func (u *UI) entryField(c Canvas, x, y, maxX int, f focus) int {
	e := u.entry(f)
	text := []rune(e.String())
	style := styleEntry
	if u.focus == f {
		style = styleFocused
		text = append(text, '_')
	}
	if len(text) > entryWidth {
		text = text[len(text)-entryWidth:]
	}

	end := drawText(c, x, y, maxX, string(text)+strings.Repeat(" ", entryWidth-len(text)), style)
	u.addRegion(rect{x, y, end - x, 1}, f, func() { u.setFocus(f) })
	return end
}

func drawText(c Canvas, x, y, maxX int, s string, style tcell.Style) int {
	for _, r := range s {
		if x >= maxX {
			break
		}
		c.SetContent(x, y, r, nil, style)
		x++
	}
	return x
}

func fill(c Canvas, r rect, style tcell.Style) {
	for y := r.y; y < r.y+r.h; y++ {
		for x := r.x; x < r.x+r.w; x++ {
			c.SetContent(x, y, ' ', nil, style)
		}
	}
}

// drawBox draws a titled border around the rectangle and returns the
// area inside it.
func drawBox(c Canvas, r rect, title string) rect {
	if r.w < 2 || r.h < 2 {
		return rect{r.x, r.y, 0, 0}
	}

	x1, y1 := r.x+r.w-1, r.y+r.h-1
	for x := r.x + 1; x < x1; x++ {
		c.SetContent(x, r.y, tcell.RuneHLine, nil, styleBorder)
		c.SetContent(x, y1, tcell.RuneHLine, nil, styleBorder)
	}
	for y := r.y + 1; y < y1; y++ {
		c.SetContent(r.x, y, tcell.RuneVLine, nil, styleBorder)
		c.SetContent(x1, y, tcell.RuneVLine, nil, styleBorder)
	}
	c.SetContent(r.x, r.y, tcell.RuneULCorner, nil, styleBorder)
	c.SetContent(x1, r.y, tcell.RuneURCorner, nil, styleBorder)
	c.SetContent(r.x, y1, tcell.RuneLLCorner, nil, styleBorder)
	c.SetContent(x1, y1, tcell.RuneLRCorner, nil, styleBorder)

	drawText(c, r.x+2, r.y, x1-1, " "+title+" ", styleTitle)
	return r.inner()
}
