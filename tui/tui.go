// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package tui implements a full-screen terminal front end for a debug
// session. Each tick of its frame clock runs one frame of the machine and
// redraws the debugger windows.
package tui

import (
	"context"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/beevik/dbg6502/logger"
	"github.com/beevik/dbg6502/runner"
	"github.com/beevik/dbg6502/session"
)

// DefaultFPS is the default frame rate.
const DefaultFPS = 60

const (
	speedStep = 10
	scaleStep = 0.1
)

type focus byte

const (
	focusNone focus = iota
	focusBreakpoint
	focusWatchpoint
)

func (f focus) next() focus {
	return (f + 1) % 3
}

// A region is a clickable area recorded while drawing.
type region struct {
	rect   rect
	focus  focus
	action func()
}

// A UI is the terminal front end. All session access happens on the
// goroutine that calls Run, HandleEvent and Draw.
type UI struct {
	runner  *runner.Runner
	screen  tcell.Screen
	focus   focus
	scroll  int  // index of the first source line shown
	follow  bool // keep the current line in view
	pressed bool // mouse button 1 is down
	layout  layout
	regions []region
}

// New creates a UI driving the runner. The screen may be nil, in which
// case the UI only draws when Draw is called.
func New(r *runner.Runner, screen tcell.Screen) *UI {
	return &UI{
		runner: r,
		screen: screen,
		follow: true,
	}
}

// Run processes screen events and runs frames at the requested rate until
// the user quits, the context is cancelled, or the machine fails.
func (u *UI) Run(ctx context.Context, fps int) error {
	if fps <= 0 {
		fps = DefaultFPS
	}

	events := make(chan tcell.Event)
	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			ev := u.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-done:
				return
			}
		}
	}()

	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	if err := u.Frame(); err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-events:
			if u.HandleEvent(ev) {
				return nil
			}
		case <-ticker.C:
			if err := u.Frame(); err != nil {
				return err
			}
		}
	}
}

// Frame runs one frame of the machine and redraws the screen.
func (u *UI) Frame() error {
	if _, err := u.runner.Frame(); err != nil {
		logger.Logf("tui", "frame failed: %v", err)
		return err
	}
	if u.screen != nil {
		u.screen.Clear()
		u.Draw(u.screen)
		u.screen.Show()
	}
	return nil
}

// HandleEvent processes a single screen event. It returns true if the
// user asked to quit.
func (u *UI) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return u.handleKey(ev)
	case *tcell.EventMouse:
		u.handleMouse(ev)
	case *tcell.EventResize:
		if u.screen != nil {
			u.screen.Sync()
		}
	}
	return false
}

func (u *UI) handleKey(ev *tcell.EventKey) bool {
	if ev.Key() == tcell.KeyCtrlC {
		return true
	}

	if u.focus != focusNone {
		e := u.entry(u.focus)
		switch ev.Key() {
		case tcell.KeyEnter, tcell.KeyEscape:
			u.setFocus(focusNone)
		case tcell.KeyTab:
			u.setFocus(u.focus.next())
		case tcell.KeyBackspace, tcell.KeyBackspace2:
			e.Backspace()
		case tcell.KeyRune:
			e.Insert(ev.Rune())
		}
		return false
	}

	switch ev.Key() {
	case tcell.KeyTab:
		u.setFocus(u.focus.next())
	case tcell.KeyRune:
		switch ev.Rune() {
		case ' ':
			u.togglePause()
		case 's':
			u.step()
		case 'r':
			u.reset()
		case '+', '=':
			u.changeSpeed(speedStep)
		case '-':
			u.changeSpeed(-speedStep)
		case ']':
			u.changeScale(scaleStep)
		case '[':
			u.changeScale(-scaleStep)
		case 'q':
			return true
		}
	}
	return false
}

func (u *UI) handleMouse(ev *tcell.EventMouse) {
	x, y := ev.Position()
	buttons := ev.Buttons()

	if u.layout.source.contains(x, y) {
		switch {
		case buttons&tcell.WheelUp != 0:
			u.scroll--
			u.follow = false
			return
		case buttons&tcell.WheelDown != 0:
			u.scroll++
			u.follow = false
			return
		}
	}

	down := buttons&tcell.Button1 != 0
	click := down && !u.pressed
	u.pressed = down
	if !click {
		return
	}

	hit := u.regionAt(x, y)
	if hit == nil || hit.focus != u.focus {
		u.setFocus(focusNone)
	}
	if hit != nil {
		hit.action()
	}
}

func (u *UI) regionAt(x, y int) *region {
	for i := range u.regions {
		if u.regions[i].rect.contains(x, y) {
			return &u.regions[i]
		}
	}
	return nil
}

func (u *UI) addRegion(r rect, f focus, action func()) {
	if r.w <= 0 || r.h <= 0 {
		return
	}
	u.regions = append(u.regions, region{rect: r, focus: f, action: action})
}

func (u *UI) entry(f focus) *session.Entry {
	s := u.runner.Session
	switch f {
	case focusBreakpoint:
		return s.BreakpointEntry()
	case focusWatchpoint:
		return s.WatchpointEntry()
	}
	return nil
}

// setFocus moves keyboard focus. An entry losing focus submits its text
// and is cleared.
func (u *UI) setFocus(f focus) {
	if u.focus == f {
		return
	}
	s := u.runner.Session
	switch u.focus {
	case focusBreakpoint:
		s.SubmitBreakpointEntry()
	case focusWatchpoint:
		s.SubmitWatchpointEntry()
	}
	u.focus = f
}

func (u *UI) togglePause() {
	u.runner.Session.TogglePause()
	u.follow = true
}

func (u *UI) step() {
	u.runner.Session.RequestStep()
	u.follow = true
}

func (u *UI) reset() {
	u.runner.Session.RequestReset()
	u.follow = true
}

func (u *UI) changeSpeed(delta int) {
	s := u.runner.Session
	s.SetInstructionsPerFrame(s.InstructionsPerFrame() + delta)
}

func (u *UI) changeScale(delta float64) {
	s := u.runner.Session
	s.SetScale(s.Scale() + delta)
}
