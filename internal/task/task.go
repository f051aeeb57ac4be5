// Package task defines task definitions, their runtime state, and the
// supervision of the child processes that run them.
package task

import (
	"fmt"
	"strconv"
)

// DefaultColor is the task name color used when none is given.
const DefaultColor = "ffffff"

// Definition is an immutable description of one unit of work, produced by
// the CLI layer before anything is spawned.
type Definition struct {
	// Command is the shell command to run.
	Command string
	// Name is the display name shown above the task's output. Never empty;
	// the CLI layer applies the name -> workdir -> "#<n>: <command>" fallback.
	Name string
	// Workdir is the working directory the command runs in.
	Workdir string
	// Color is the task name color as a hex RRGGBB string.
	Color string
}

// Event is a message produced by a task's supervisor. Exactly one consumer
// (the render loop) receives events; per-task, per-stream order is preserved,
// with no ordering guarantee across tasks or across stdout/stderr.
type Event interface {
	isEvent()
}

// OutputEvent carries one captured line of a task's output, without its
// trailing newline.
type OutputEvent struct {
	Task int
	Line string
}

// ExitEvent reports a task's final status. Each task emits exactly one,
// produced by its designated (stdout) reader.
type ExitEvent struct {
	Task   int
	Status Status
}

func (OutputEvent) isEvent() {}
func (ExitEvent) isEvent()   {}

// Status is the terminal state of a task's process.
type Status struct {
	// Code is the exit code. Meaningless when Signaled is true.
	Code int
	// Signaled is true when the process was killed by a signal (or its
	// completion had to be synthesized) and no exit code exists.
	Signaled bool
}

// Success reports whether the process exited normally with code zero.
func (s Status) Success() bool {
	return !s.Signaled && s.Code == 0
}

// Label renders a possibly-absent status as its user-facing text. The
// mapping is total: nil is a task that is still running.
func (s *Status) Label() string {
	switch {
	case s == nil:
		return "running..."
	case s.Signaled:
		return "terminated"
	case s.Code == 0:
		return "completed"
	default:
		return "failed (code " + strconv.Itoa(s.Code) + ")"
	}
}

// Task is the runtime instance of a Definition. The supervisor that created
// it owns the process handle; Logs and Status are owned exclusively by the
// render loop, which appends lines and records the exit status as events
// arrive. Nothing else may touch them.
type Task struct {
	// ID is the stable index of the task; it doubles as render order.
	ID    int
	Name  string
	Color string

	// Logs holds the task's captured output lines in arrival order.
	Logs []string
	// Status is nil while the process runs and is set exactly once.
	Status *Status

	proc *handle
}

// Terminate asks the underlying process to stop. It is safe to call while
// the supervisor's readers are blocked on the process pipes, and is a no-op
// once the process has been waited on.
func (t *Task) Terminate() {
	if t.proc != nil {
		t.proc.terminate()
	}
}

// RGB parses a hex RRGGBB color string into its components.
func RGB(hex string) (r, g, b int, err error) {
	if len(hex) != 6 {
		return 0, 0, 0, fmt.Errorf("color %q: want 6 hex digits", hex)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("color %q: %w", hex, err)
	}
	return int(v >> 16), int(v >> 8 & 0xff), int(v & 0xff), nil
}
