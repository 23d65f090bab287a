// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tui

// Window sizes in cells, including borders.
const (
	leftWidth       = 38
	controlsHeight  = 7
	cpuHeight       = 7
	sourceBaseWidth = 48
	statusHeight    = 1
)

type rect struct {
	x, y, w, h int
}

func (r rect) contains(x, y int) bool {
	return x >= r.x && x < r.x+r.w && y >= r.y && y < r.y+r.h
}

// inner returns the area inside the rectangle's border.
func (r rect) inner() rect {
	if r.w < 2 || r.h < 2 {
		return rect{r.x, r.y, 0, 0}
	}
	return rect{r.x + 1, r.y + 1, r.w - 2, r.h - 2}
}

func (r rect) right() int {
	return r.x + r.w
}

type layout struct {
	controls    rect
	cpu         rect
	breakpoints rect
	watchpoints rect
	source      rect
	status      rect
}

// computeLayout arranges the windows on a screen of the given size. The
// control windows are stacked in a column on the left; the source window
// sits to their right and its width follows the display scale.
func computeLayout(width, height int, scale float64) layout {
	var l layout

	left := min(leftWidth, width)
	body := max(height-statusHeight, 0)

	y := 0
	l.controls = rect{0, y, left, min(controlsHeight, body)}
	y += l.controls.h
	l.cpu = rect{0, y, left, min(cpuHeight, body-y)}
	y += l.cpu.h

	rest := body - y
	l.breakpoints = rect{0, y, left, rest / 2}
	l.watchpoints = rect{0, y + rest/2, left, rest - rest/2}

	sw := min(int(float64(sourceBaseWidth)*scale), width-left)
	l.source = rect{left, 0, max(sw, 0), body}
	l.status = rect{0, body, width, min(statusHeight, height)}
	return l
}
