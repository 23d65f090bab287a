// Copyright 2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"

	"github.com/beevik/term"
	"github.com/gdamore/tcell/v2"

	"github.com/beevik/dbg6502/host"
	"github.com/beevik/dbg6502/loader"
	"github.com/beevik/dbg6502/logger"
	"github.com/beevik/dbg6502/runner"
	"github.com/beevik/dbg6502/script"
	"github.com/beevik/dbg6502/session"
	"github.com/beevik/dbg6502/tui"
)

var (
	program      string
	origin       string
	useTUI       bool
	scriptFile   string
	clearOnReset bool
	fps          int
	speed        int
	paused       bool
)

func init() {
	flag.StringVar(&program, "load", "", "load a program binary and its source map")
	flag.StringVar(&origin, "origin", "", "hex load address for binaries without a source map")
	flag.BoolVar(&useTUI, "tui", false, "run the full-screen terminal debugger")
	flag.StringVar(&scriptFile, "script", "", "run a Lua script and exit")
	flag.BoolVar(&clearOnReset, "clear-on-reset", false, "clear breakpoints and watchpoints on reset")
	flag.IntVar(&fps, "fps", tui.DefaultFPS, "frames per second in the terminal debugger")
	flag.IntVar(&speed, "speed", session.DefaultInstructionsPerFrame, "instructions per frame")
	flag.BoolVar(&paused, "paused", false, "start with execution paused")
	flag.CommandLine.Usage = func() {
		fmt.Println("Usage: dbg6502 [options] [command file] ..\nOptions:")
		flag.PrintDefaults()
	}
}

func main() {
	flag.Parse()

	r, err := newRunner()
	if err != nil {
		exitOnError(err)
	}

	switch {
	case scriptFile != "":
		err = runScript(r, scriptFile)
	case useTUI:
		err = runTUI(r)
	default:
		runConsole(r)
	}
	if err != nil {
		exitOnError(err)
	}
}

func newRunner() (*runner.Runner, error) {
	var m runner.Machine
	var s *session.Session

	if program != "" {
		org := -1
		if origin != "" {
			v, err := strconv.ParseUint(origin, 16, 16)
			if err != nil {
				return nil, fmt.Errorf("invalid origin '%s'", origin)
			}
			org = int(v)
		}
		p, err := loader.Load(program, org)
		if err != nil {
			return nil, err
		}
		m = runner.NewMachine6502(p.Origin, p.Code)
		s = session.New(p.Source)
	} else {
		m = runner.NewMachine6502(0, nil)
		s = session.New(nil)
	}

	s.SetInstructionsPerFrame(speed)
	if paused {
		s.Pause()
	}

	r := runner.New(s, m)
	if clearOnReset {
		r.ResetPolicy = runner.ClearOnReset
	}
	return r, nil
}

func runConsole(r *runner.Runner) {
	h := host.New(r)
	h.SetClearOnReset(clearOnReset)
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		h.SetWidth(w)
	}

	// Run commands contained in command-line files.
	args := flag.Args()
	if len(args) > 0 {
		for _, filename := range args {
			file, err := os.Open(filename)
			if err != nil {
				exitOnError(err)
			}
			h.RunCommands(file, os.Stdout, false)
			file.Close()
		}
	}

	// Break on Ctrl-C.
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	go handleInterrupt(h, c)

	// Run commands interactively.
	h.RunCommands(os.Stdin, os.Stdout, term.IsTerminal(int(os.Stdin.Fd())))
}

func handleInterrupt(h *host.Host, c chan os.Signal) {
	for {
		<-c
		h.Break()
	}
}

func runScript(r *runner.Runner, path string) error {
	e := script.New(r, os.Stdout)
	defer e.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return e.DoFile(ctx, path)
}

func runTUI(r *runner.Runner) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	screen.EnableMouse()

	err = tui.New(r, screen).Run(context.Background(), fps)
	screen.Fini()
	if err != nil {
		return err
	}
	logger.Tail(os.Stdout, 5)
	return nil
}

func exitOnError(err error) {
	fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
	os.Exit(1)
}
