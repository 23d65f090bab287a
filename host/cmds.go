// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package host

import (
	"github.com/beevik/cmd"
	"github.com/beevik/prefixtree/v2"
)

// A command is the data attached to each entry of the command tree.
type command struct {
	name        string
	brief       string
	description string
	usage       string
	handler     func(*Host, selection) error
}

// A group lists the commands of one level of the command tree for the
// help command.
type group struct {
	title   string
	entries []groupEntry
}

type groupEntry struct {
	name  string
	brief string
}

// A selection is the command an input line resolved to, plus the
// line's remaining arguments. Command is nil when the line named a
// command group.
type selection struct {
	Command *cmd.Command
	Args    []string
}

func lookup(line string) (selection, error) {
	n, args, err := cmds.Lookup(line)
	if err != nil {
		return selection{}, err
	}
	c, _ := n.(*cmd.Command)
	return selection{Command: c, Args: args}, nil
}

var (
	cmds      *cmd.Tree
	rootGroup *group
	groups    = prefixtree.New[*group]()
)

func (g *group) addCommand(t *cmd.Tree, c *command) {
	t.AddCommand(cmd.CommandDescriptor{
		Name:        c.name,
		Brief:       c.brief,
		Description: c.description,
		Usage:       c.usage,
		Data:        c,
	})
	g.entries = append(g.entries, groupEntry{c.name, c.brief})
}

func (g *group) addSubtree(t *cmd.Tree, name, title string) (*cmd.Tree, *group) {
	brief := title + " commands"
	sub := t.AddSubtree(cmd.TreeDescriptor{Name: name, Brief: brief})
	g.entries = append(g.entries, groupEntry{name, brief})
	sg := &group{title: title}
	groups.Add(name, sg)
	return sub, sg
}

func init() {
	root := cmd.NewTree(cmd.TreeDescriptor{Name: "dbg6502"})
	rg := &group{title: "dbg6502"}

	rg.addCommand(root, &command{
		name:        "help",
		description: "Display help for a command.",
		usage:       "help [<command>]",
		handler:     (*Host).cmdHelp,
	})

	// Breakpoint commands
	bp, bg := rg.addSubtree(root, "breakpoint", "Breakpoint")
	bg.addCommand(bp, &command{
		name:        "list",
		brief:       "List breakpoints",
		description: "List all current breakpoints and the source lines they are set on.",
		usage:       "breakpoint list",
		handler:     (*Host).cmdBreakpointList,
	})
	bg.addCommand(bp, &command{
		name:  "add",
		brief: "Add a breakpoint",
		description: "Add a breakpoint on the specified source line. Lines" +
			" are numbered from 1 in decimal. Execution pauses whenever the" +
			" program counter reaches the first instruction of the line.",
		usage:   "breakpoint add <line>",
		handler: (*Host).cmdBreakpointAdd,
	})
	bg.addCommand(bp, &command{
		name:        "remove",
		brief:       "Remove a breakpoint",
		description: "Remove the breakpoint on the specified source line.",
		usage:       "breakpoint remove <line>",
		handler:     (*Host).cmdBreakpointRemove,
	})
	bg.addCommand(bp, &command{
		name:  "toggle",
		brief: "Toggle a breakpoint",
		description: "Remove the breakpoint on the specified source line if" +
			" there is one, or add one if there isn't.",
		usage:   "breakpoint toggle <line>",
		handler: (*Host).cmdBreakpointToggle,
	})
	bg.addCommand(bp, &command{
		name:        "clear",
		brief:       "Remove all breakpoints",
		description: "Remove all breakpoints.",
		usage:       "breakpoint clear",
		handler:     (*Host).cmdBreakpointClear,
	})

	rg.addCommand(root, &command{
		name:  "execute",
		brief: "Execute a command file",
		description: "Load a file of debugger commands from disk and execute" +
			" the commands it contains.",
		usage:   "execute <filename>",
		handler: (*Host).cmdExecute,
	})
	rg.addCommand(root, &command{
		name:  "frame",
		brief: "Run frames",
		description: "Run the specified number of frames in the current" +
			" state. A running session executes up to its speed setting in" +
			" instructions each frame. A paused session executes nothing" +
			" unless a step is pending.",
		usage:   "frame [<count>]",
		handler: (*Host).cmdFrame,
	})
	rg.addCommand(root, &command{
		name:  "list",
		brief: "List source code lines",
		description: "List the program's source code starting at the" +
			" specified line. The current line is marked with => and lines" +
			" holding breakpoints with *. If no line is specified, the" +
			" listing continues from where the last one left off.",
		usage:   "list [<line>] [<count>]",
		handler: (*Host).cmdList,
	})
	rg.addCommand(root, &command{
		name:  "load",
		brief: "Load a binary file",
		description: "Load a program image assembled by go6502, along with" +
			" its source map. If the file has no source map, you must specify" +
			" the hexadecimal address where it will be loaded. Breakpoints and" +
			" watchpoints are cleared.",
		usage:   "load <filename> [<address>]",
		handler: (*Host).cmdLoad,
	})
	rg.addCommand(root, &command{
		name:  "log",
		brief: "Display the event log",
		description: "Display the most recent entries of the debugger's event" +
			" log. The number of entries may be specified as an option.",
		usage:   "log [<count>]",
		handler: (*Host).cmdLog,
	})

	// Memory commands
	me, mg := rg.addSubtree(root, "memory", "Memory")
	mg.addCommand(me, &command{
		name:  "dump",
		brief: "Dump memory at address",
		description: "Dump the contents of memory starting from the" +
			" specified hexadecimal address. The number of bytes to dump may" +
			" be specified as an option. If no address is specified, the" +
			" memory dump continues from where the last dump left off.",
		usage:   "memory dump [<address>] [<bytes>]",
		handler: (*Host).cmdMemoryDump,
	})

	rg.addCommand(root, &command{
		name:        "pause",
		brief:       "Pause execution",
		description: "Pause execution. While paused, the step command executes one instruction at a time.",
		usage:       "pause",
		handler:     (*Host).cmdPause,
	})
	rg.addCommand(root, &command{
		name:        "quit",
		brief:       "Quit the program",
		description: "Quit the program.",
		usage:       "quit",
		handler:     (*Host).cmdQuit,
	})
	rg.addCommand(root, &command{
		name:  "registers",
		brief: "Display CPU state",
		description: "Display the current contents of the CPU registers, the" +
			" source line at the program counter, and the instruction text.",
		usage:   "registers",
		handler: (*Host).cmdRegisters,
	})
	rg.addCommand(root, &command{
		name:  "reset",
		brief: "Reset the machine",
		description: "Reset the CPU and memory and reload the program. The" +
			" session stays paused or running as it was. Whether breakpoints" +
			" and watchpoints survive depends on the clearonreset setting.",
		usage:   "reset",
		handler: (*Host).cmdReset,
	})
	rg.addCommand(root, &command{
		name:  "resume",
		brief: "Resume execution",
		description: "Put the session in the running state. Frames run with" +
			" the frame and run commands execute at full speed until a" +
			" breakpoint is reached.",
		usage:   "resume",
		handler: (*Host).cmdResume,
	})
	rg.addCommand(root, &command{
		name:  "run",
		brief: "Run the program",
		description: "Resume execution and run frames until a breakpoint is" +
			" hit, the optional number of frames has run, or the user types" +
			" Ctrl-C.",
		usage:   "run [<frames>]",
		handler: (*Host).cmdRun,
	})
	rg.addCommand(root, &command{
		name:  "script",
		brief: "Run a Lua script",
		description: "Load a Lua script from disk and run it against the" +
			" current session. Type Ctrl-C to stop a script that runs the" +
			" program.",
		usage:   "script <filename>",
		handler: (*Host).cmdScript,
	})
	rg.addCommand(root, &command{
		name:  "set",
		brief: "Set a configuration variable",
		description: "Set the value of a configuration variable. To see the" +
			" current values of all configuration variables, type set" +
			" without any arguments.",
		usage:   "set [<var> <value>]",
		handler: (*Host).cmdSet,
	})
	rg.addCommand(root, &command{
		name:        "status",
		brief:       "Display session status as JSON",
		description: "Display a JSON snapshot of the session, CPU registers, breakpoints and watchpoints.",
		usage:       "status",
		handler:     (*Host).cmdStatus,
	})
	rg.addCommand(root, &command{
		name:  "step",
		brief: "Step one instruction",
		description: "Pause execution if it is running, then execute a single" +
			" instruction. The number of steps may be specified as an option.",
		usage:   "step [<count>]",
		handler: (*Host).cmdStep,
	})

	// Watchpoint commands
	wp, wg := rg.addSubtree(root, "watch", "Watchpoint")
	wg.addCommand(wp, &command{
		name:        "list",
		brief:       "List watchpoints",
		description: "List all watched addresses and their current values.",
		usage:       "watch list",
		handler:     (*Host).cmdWatchList,
	})
	wg.addCommand(wp, &command{
		name:  "add",
		brief: "Watch a memory address",
		description: "Watch the memory byte at the specified address. The" +
			" address is hexadecimal without a prefix.",
		usage:   "watch add <address>",
		handler: (*Host).cmdWatchAdd,
	})
	wg.addCommand(wp, &command{
		name:        "remove",
		brief:       "Stop watching a memory address",
		description: "Stop watching the memory byte at the specified address.",
		usage:       "watch remove <address>",
		handler:     (*Host).cmdWatchRemove,
	})
	wg.addCommand(wp, &command{
		name:        "clear",
		brief:       "Remove all watchpoints",
		description: "Remove all watchpoints.",
		usage:       "watch clear",
		handler:     (*Host).cmdWatchClear,
	})

	// Add command shortcuts.
	root.AddShortcut("b", "breakpoint")
	root.AddShortcut("bp", "breakpoint")
	root.AddShortcut("ba", "breakpoint add")
	root.AddShortcut("br", "breakpoint remove")
	root.AddShortcut("bl", "breakpoint list")
	root.AddShortcut("bt", "breakpoint toggle")
	root.AddShortcut("bc", "breakpoint clear")
	root.AddShortcut("c", "resume")
	root.AddShortcut("f", "frame")
	root.AddShortcut("g", "run")
	root.AddShortcut("l", "list")
	root.AddShortcut("m", "memory dump")
	root.AddShortcut("p", "pause")
	root.AddShortcut("r", "registers")
	root.AddShortcut("s", "step")
	root.AddShortcut("w", "watch")
	root.AddShortcut("wa", "watch add")
	root.AddShortcut("wr", "watch remove")
	root.AddShortcut("wl", "watch list")
	root.AddShortcut("wc", "watch clear")
	root.AddShortcut("?", "help")
	root.AddShortcut(".", "registers")

	cmds = root
	rootGroup = rg
}
