// Package cli turns the command-line task grammar and YAML task files into
// task definitions. It produces definitions only; nothing here spawns
// processes or touches the terminal.
package cli

import (
	"fmt"
	"os"

	"github.com/congregation-run/congregation/internal/diag"
	"github.com/congregation-run/congregation/internal/task"
)

var colorNotes = []string{
	"color syntax: RRGGBB (hex)",
	"if you have a # symbol, remove it",
}

// Parse reads the repeating task grammar:
//
//	run <command> [-n <name>] [-d <dir>] [-c <rrggbb>] run <command> ...
//
// defaultColor is used for tasks without -c. The returned definitions carry
// the display-name fallback chain (name, then workdir as typed, then
// "#<n>: <command>") already applied.
func Parse(args []string, defaultColor string) ([]task.Definition, error) {
	var defs []task.Definition
	i := 0
	for i < len(args) {
		def, next, err := parseTask(args, i, len(defs), defaultColor)
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
		i = next
	}
	return defs, nil
}

// parseTask consumes one "run ..." group starting at args[i] and returns the
// definition plus the index of the next group.
func parseTask(args []string, i, taskCount int, defaultColor string) (task.Definition, int, error) {
	if args[i] != "run" {
		return task.Definition{}, 0, &diag.Error{
			Title:   "invalid syntax",
			Message: "expected 'run' or 'help' as the first argument",
		}
	}
	i++

	if i >= len(args) {
		return task.Definition{}, 0, &diag.Error{
			Title:   "invalid syntax",
			Message: "expected command after 'run' keyword",
		}
	}
	command := args[i]
	i++

	var name, workdir, colorArg string
	for i < len(args) && args[i] != "run" {
		opt := args[i]
		i++
		switch opt {
		case "-n":
			if i >= len(args) {
				return task.Definition{}, 0, taskErr(taskCount, "expected task name after -n", nil)
			}
			name = args[i]
		case "-d":
			if i >= len(args) {
				return task.Definition{}, 0, taskErr(taskCount, "expected directory after -d", nil)
			}
			workdir = args[i]
		case "-c":
			if i >= len(args) {
				return task.Definition{}, 0, taskErr(taskCount, "expected color after -c", colorNotes)
			}
			colorArg = args[i]
		default:
			return task.Definition{}, 0, taskErr(taskCount, fmt.Sprintf("expected -n, -d or -c; got %s", opt), nil)
		}
		i++
	}

	def, err := makeDefinition(command, name, workdir, colorArg, taskCount, defaultColor)
	if err != nil {
		return task.Definition{}, 0, err
	}
	return def, i, nil
}

// makeDefinition validates the color, fills in the working directory, and
// applies the display-name fallback chain.
func makeDefinition(command, name, workdir, colorArg string, taskCount int, defaultColor string) (task.Definition, error) {
	color := colorArg
	if color == "" {
		color = defaultColor
	}
	if color == "" {
		color = task.DefaultColor
	}
	if _, _, _, err := task.RGB(color); err != nil {
		return task.Definition{}, taskErr(taskCount, fmt.Sprintf("invalid color %q", colorArg), colorNotes)
	}

	if name == "" {
		name = workdir
	}
	if name == "" {
		name = fmt.Sprintf("#%d: %s", taskCount+1, command)
	}

	if workdir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return task.Definition{}, diag.Errorf("unexpected error", "cannot determine the current directory: %v", err)
		}
		workdir = cwd
	}

	return task.Definition{
		Command: command,
		Name:    name,
		Workdir: workdir,
		Color:   color,
	}, nil
}

func taskErr(taskCount int, message string, notes []string) *diag.Error {
	return &diag.Error{
		Title:   fmt.Sprintf("invalid syntax (in task %d)", taskCount+1),
		Message: message,
		Notes:   notes,
	}
}
