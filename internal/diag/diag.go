// Package diag formats fatal, user-facing error reports and the usage text.
package diag

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

var (
	titleColor   = color.New(color.FgRed)
	noteColor    = color.New(color.FgGreen)
	dimColor     = color.New(color.FgHiBlack)
	exampleColor = color.New(color.FgHiBlack)
)

// Error is a structured fatal error: a short title, an explanation, and
// optional example usages and remediation notes. It aborts the run; per-task
// runtime failures never become one of these.
type Error struct {
	Title    string
	Message  string
	Examples []string
	Notes    []string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Title
	}
	return e.Title + ": " + e.Message
}

// Errorf builds an Error with a formatted message.
func Errorf(title, format string, args ...any) *Error {
	return &Error{Title: title, Message: fmt.Sprintf(format, args...)}
}

// Print renders the error in its colored terminal form.
func (e *Error) Print(w io.Writer) {
	titleColor.Fprintln(w, e.Title)

	if len(e.Examples) == 0 {
		fmt.Fprintln(w, e.Message)
	} else {
		fmt.Fprintf(w, "\n%s:\n", e.Message)
		for _, example := range e.Examples {
			fmt.Fprintf(w, "%s %s\n", exampleColor.Sprint("│"), example)
		}
	}

	for i, note := range e.Notes {
		if i == 0 {
			fmt.Fprintf(w, "\n%s %s\n", noteColor.Sprint("note:"), dimColor.Sprint(note))
		} else {
			fmt.Fprintf(w, "\n%s %s\n", strings.Repeat(" ", len("note:")), dimColor.Sprint(note))
		}
	}
}

// Usage prints the top-level help text.
func Usage(w io.Writer, name string) {
	fmt.Fprintf(w, `Run multiple parallel tasks with grouped output

Usage: %s <task> [<task> ...]

Task syntax:
  run <command> [-d <dir>] [-n <name>] [-c <rrggbb>]

  Options:
    <command>     The shell command to run (wrap in quotes if it contains spaces)
    -d <dir>      Working directory for the task (defaults to the current working directory)
    -n <name>     Name of the task (used in task header, defaults to working directory or command)
    -c <rrggbb>   Hex RGB color for task name (e.g., ff8800, defaults to white)

Tasks can also be loaded from a YAML file:
  %s --file tasks.yaml
`, name, name)
}
