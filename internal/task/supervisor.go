package task

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
)

// EventBacklog is the capacity of a supervisor's event channel. Producers
// block when the consumer falls this far behind, which bounds memory and
// throttles very chatty processes without dropping lines.
const EventBacklog = 32

// WorkdirError reports a working directory that could not be resolved.
// It is detected before the process is started and aborts the whole run.
type WorkdirError struct {
	Dir string
	Err error
}

func (e *WorkdirError) Error() string {
	return fmt.Sprintf("working directory %s: %v", e.Dir, e.Err)
}

func (e *WorkdirError) Unwrap() error { return e.Err }

// SpawnError reports a shell process that failed to start. Fatal for the run.
type SpawnError struct {
	Command string
	Err     error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("starting %q: %v", e.Command, e.Err)
}

func (e *SpawnError) Unwrap() error { return e.Err }

// Supervisor spawns one child process per task and fans every task's events
// into a single bounded channel.
type Supervisor struct {
	// Shell overrides the platform command shell when non-empty.
	Shell string
	// Log receives debug records when enabled; may be nil.
	Log *RunLog

	events chan Event
}

// NewSupervisor returns a Supervisor with a bounded event channel.
func NewSupervisor() *Supervisor {
	return &Supervisor{events: make(chan Event, EventBacklog)}
}

// Events returns the merged event stream for every spawned task.
func (s *Supervisor) Events() <-chan Event {
	return s.events
}

// canonicalWorkdir resolves dir to an absolute, symlink-free path and
// verifies it names an existing directory.
func canonicalWorkdir(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(resolved)
	if err != nil {
		return "", err
	}
	if !info.IsDir() {
		return "", fmt.Errorf("not a directory")
	}
	return resolved, nil
}

// Preflight canonicalizes every definition's working directory and returns
// the rewritten definitions. A failure here means nothing has been spawned
// yet, so a bad directory never leaves a partially-started fleet behind.
func Preflight(defs []Definition) ([]Definition, error) {
	out := make([]Definition, len(defs))
	for i, def := range defs {
		resolved, err := canonicalWorkdir(def.Workdir)
		if err != nil {
			return nil, &WorkdirError{Dir: def.Workdir, Err: err}
		}
		def.Workdir = resolved
		out[i] = def
	}
	return out, nil
}

// handle wraps the shared child process. Its readers and the termination
// path coordinate through mu; critical sections only cover short,
// non-blocking operations, never a read or the wait itself.
type handle struct {
	mu   sync.Mutex
	cmd  *exec.Cmd
	done bool
}

// terminate signals the process. Safe to call concurrently with in-flight
// reads and with wait; once the process has been reaped it does nothing.
func (h *handle) terminate() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.done || h.cmd.Process == nil {
		return
	}
	// Delivery failure means the process is already gone; its readers will
	// observe EOF and complete the normal exit protocol.
	_ = signalTerm(h.cmd)
}

// wait reaps the process and derives its Status. Called exactly once, by the
// designated stdout reader after it observes EOF.
func (h *handle) wait() (Status, error) {
	err := h.cmd.Wait()
	h.mu.Lock()
	h.done = true
	h.mu.Unlock()

	if err == nil {
		return Status{}, nil
	}
	var exit *exec.ExitError
	if errors.As(err, &exit) {
		if code := exit.ExitCode(); code >= 0 {
			return Status{Code: code}, nil
		}
		// Killed by a signal; there is no exit code.
		return Status{Signaled: true}, nil
	}
	return Status{}, err
}

// Spawn starts the definition's command through the platform shell with both
// output streams piped, and launches the two line readers. The returned Task
// is live: its events will arrive on the supervisor's channel.
func (s *Supervisor) Spawn(def Definition, id int) (*Task, error) {
	workdir, err := canonicalWorkdir(def.Workdir)
	if err != nil {
		return nil, &WorkdirError{Dir: def.Workdir, Err: err}
	}

	cmd := shellCommand(s.Shell, def.Command)
	cmd.Dir = workdir

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, &SpawnError{Command: def.Command, Err: err}
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, &SpawnError{Command: def.Command, Err: err}
	}
	if err := cmd.Start(); err != nil {
		return nil, &SpawnError{Command: def.Command, Err: err}
	}

	h := &handle{cmd: cmd}
	t := &Task{ID: id, Name: def.Name, Color: def.Color, proc: h}
	s.Log.Printf("task %d: spawned pid %d: %s", id, cmd.Process.Pid, def.Command)

	// The stderr reader forwards lines until its own EOF and nothing more.
	stderrDone := make(chan struct{})
	go func() {
		defer close(stderrDone)
		if err := s.forwardLines(stderr, id); err != nil {
			s.Log.Printf("task %d: stderr read: %v", id, err)
		}
	}()

	// The stdout reader is authoritative for completion: on EOF it reaps the
	// process and emits the task's single ExitEvent. Reaping waits for the
	// stderr reader first, since Wait invalidates both pipes. A read or wait
	// failure is downgraded to a synthesized abrupt-completion status so one
	// flaky task cannot take down the run.
	go func() {
		rerr := s.forwardLines(stdout, id)
		<-stderrDone
		st, werr := h.wait()
		if rerr != nil || werr != nil {
			s.Log.Printf("task %d: abrupt completion: read=%v wait=%v", id, rerr, werr)
			st = Status{Signaled: true}
		}
		s.Log.Printf("task %d: exited: %s", id, st.Label())
		s.events <- ExitEvent{Task: id, Status: st}
	}()

	return t, nil
}

// forwardLines turns one pipe into OutputEvents, line by line. A line is
// text up to and including a newline; invalid encodings pass through rather
// than failing the read. EOF is a normal outcome, including after a kill.
func (s *Supervisor) forwardLines(r io.Reader, id int) error {
	br := bufio.NewReader(r)
	for {
		line, err := br.ReadString('\n')
		if line != "" {
			s.events <- OutputEvent{Task: id, Line: strings.TrimRight(line, "\r\n")}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
	}
}
