// Package tui renders the live, scrollable, per-task grouped view over a set
// of running tasks. The bubbletea update loop is the single consumer of all
// task events, terminal input, and interrupts, and the sole mutator of task
// and scroll state.
package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/congregation-run/congregation/internal/task"
)

// InterruptMsg is sent when the hosting process receives an external
// interrupt (SIGINT/SIGTERM). It triggers the interrupt shutdown path.
type InterruptMsg struct{}

// App is the bubbletea model for the live task view. Line content is
// recomputed from task state every frame; only the two scroll offsets
// survive between frames, to preserve user intent.
type App struct {
	tasks []*task.Task
	keys  keyMap
	help  help.Model

	width  int
	height int
	sized  bool

	scrollY   int
	scrollX   int
	lineCount int
	longest   int

	completed   int
	interrupted bool
}

// New creates the model for the given tasks. Task order is render order.
func New(tasks []*task.Task) *App {
	a := &App{
		tasks: tasks,
		keys:  defaultKeyMap,
		help:  help.New(),
	}
	a.recount()
	return a
}

// Tasks exposes the final task state after the program exits, for the
// post-run transcript.
func (a *App) Tasks() []*task.Task {
	return a.tasks
}

// Interrupted reports whether the run ended on the interrupt path.
func (a *App) Interrupted() bool {
	return a.interrupted
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return nil
}

// visibleRows is the number of document rows the viewport shows; the last
// terminal row is reserved for the footer.
func (a *App) visibleRows() int {
	if a.height <= 1 {
		return 0
	}
	return a.height - 1
}

// scrollMax is the largest valid vertical offset for the current content.
func (a *App) scrollMax() int {
	m := a.lineCount - a.visibleRows()
	if m < 0 {
		return 0
	}
	return m
}

// panMax is the largest valid horizontal offset.
func (a *App) panMax() int {
	if a.longest <= 0 {
		return 0
	}
	return a.longest - 1
}

// recount refreshes the line count and longest-line bound from task state.
// Per task the logical document holds a name line, the log lines, and a
// status line.
func (a *App) recount() {
	a.lineCount = 0
	a.longest = 0
	for _, t := range a.tasks {
		a.lineCount += 2 + len(t.Logs)
		for _, log := range t.Logs {
			if n := len([]rune(log)); n > a.longest {
				a.longest = n
			}
		}
	}
}

// clampScroll forces both offsets back inside their invariant bounds.
func (a *App) clampScroll() {
	if a.scrollY > a.scrollMax() {
		a.scrollY = a.scrollMax()
	}
	if a.scrollY < 0 {
		a.scrollY = 0
	}
	if a.scrollX > a.panMax() {
		a.scrollX = a.panMax()
	}
	if a.scrollX < 0 {
		a.scrollX = 0
	}
}

// atBottom reports whether the view is pinned to the newest output. Before
// the first resize message the viewport has no height and the view counts
// as tailing.
func (a *App) atBottom() bool {
	return !a.sized || a.scrollY == a.scrollMax()
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		tail := a.atBottom()
		a.width = msg.Width
		a.height = msg.Height
		a.sized = true
		a.help.Width = msg.Width
		a.clampScroll()
		if tail {
			a.scrollY = a.scrollMax()
		}
		return a, nil

	case task.OutputEvent:
		tail := a.atBottom()
		t := a.tasks[msg.Task]
		t.Logs = append(t.Logs, msg.Line)
		a.recount()
		if tail {
			a.scrollY = a.scrollMax()
		}
		return a, nil

	case task.ExitEvent:
		t := a.tasks[msg.Task]
		if t.Status == nil {
			st := msg.Status
			t.Status = &st
			a.completed++
		}
		if a.completed == len(a.tasks) {
			return a, tea.Quit
		}
		return a, nil

	case InterruptMsg:
		a.interrupted = true
		a.finalize()
		return a, tea.Quit

	case tea.KeyMsg:
		return a.handleKey(msg)
	}
	return a, nil
}

// handleKey maps input to scroll commands, clamping every mutation to the
// invariant bounds.
func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Quit):
		a.finalize()
		return a, tea.Quit
	case key.Matches(msg, a.keys.Down):
		a.scrollY++
	case key.Matches(msg, a.keys.Up):
		a.scrollY--
	case key.Matches(msg, a.keys.PageDown):
		a.scrollY += a.height
	case key.Matches(msg, a.keys.PageUp):
		a.scrollY -= a.height
	case key.Matches(msg, a.keys.Right):
		a.scrollX++
	case key.Matches(msg, a.keys.Left):
		a.scrollX--
	case key.Matches(msg, a.keys.Home):
		a.scrollX = 0
	case key.Matches(msg, a.keys.End):
		a.scrollX = a.panMax()
	}
	a.clampScroll()
	return a, nil
}

// finalize is the shutdown path shared by user quit and interrupt: ask every
// still-running task to stop and give it a synthesized "terminated" status so
// the final state is consistent. Status is set exactly once, so a real exit
// racing in later is simply ignored.
func (a *App) finalize() {
	for _, t := range a.tasks {
		if t.Status == nil {
			t.Terminate()
			t.Status = &task.Status{Signaled: true}
			a.completed++
		}
	}
}
