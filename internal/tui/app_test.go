package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/congregation-run/congregation/internal/task"
)

func newTestApp(t *testing.T, taskCount, width, height int) *App {
	t.Helper()
	tasks := make([]*task.Task, taskCount)
	for i := range tasks {
		tasks[i] = &task.Task{ID: i, Name: "task", Color: task.DefaultColor}
	}
	a := New(tasks)
	a.Update(tea.WindowSizeMsg{Width: width, Height: height})
	return a
}

func keyMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func appendLines(a *App, taskID, n int) {
	for i := 0; i < n; i++ {
		a.Update(task.OutputEvent{Task: taskID, Line: "line"})
	}
}

func TestLineCountProperty(t *testing.T) {
	a := newTestApp(t, 3, 80, 24)

	if a.lineCount != 6 {
		t.Errorf("lineCount = %d, want 6 for three empty tasks", a.lineCount)
	}

	appendLines(a, 0, 5)
	appendLines(a, 2, 2)

	want := 0
	for _, tk := range a.tasks {
		want += 2 + len(tk.Logs)
	}
	if a.lineCount != want {
		t.Errorf("lineCount = %d, want %d", a.lineCount, want)
	}
}

func TestScrollInvariantsUnderEveryKey(t *testing.T) {
	a := newTestApp(t, 2, 40, 10)
	appendLines(a, 0, 50)
	a.tasks[0].Logs[0] = "a very long line that overflows the window"
	a.recount()

	for _, k := range []string{"j", "k", "d", "u", "h", "l", "0", "$", "j", "d", "$", "l"} {
		a.handleKey(keyMsg(k))
		if a.scrollY < 0 || a.scrollY > a.scrollMax() {
			t.Fatalf("after %q: scrollY = %d outside [0,%d]", k, a.scrollY, a.scrollMax())
		}
		if a.scrollX < 0 || a.scrollX > a.panMax() {
			t.Fatalf("after %q: scrollX = %d outside [0,%d]", k, a.scrollX, a.panMax())
		}
	}
}

func TestAutoTailLaw(t *testing.T) {
	a := newTestApp(t, 1, 80, 5)

	// One task, 100 log lines, no user scrolling: pinned to the bottom.
	appendLines(a, 0, 100)
	if a.lineCount != 102 {
		t.Fatalf("lineCount = %d, want 102", a.lineCount)
	}
	wantMax := 102 - 4
	if a.scrollMax() != wantMax {
		t.Fatalf("scrollMax = %d, want %d", a.scrollMax(), wantMax)
	}
	if a.scrollY != wantMax {
		t.Errorf("scrollY = %d, want pinned at %d", a.scrollY, wantMax)
	}

	// At the bottom, an append moves the view to the new bottom.
	a.Update(task.OutputEvent{Task: 0, Line: "more"})
	if a.scrollY != a.scrollMax() {
		t.Errorf("scrollY = %d, want new max %d", a.scrollY, a.scrollMax())
	}

	// Scrolled up, an append leaves the view alone.
	a.handleKey(keyMsg("k"))
	held := a.scrollY
	a.Update(task.OutputEvent{Task: 0, Line: "even more"})
	if a.scrollY != held {
		t.Errorf("scrollY = %d, want unchanged %d", a.scrollY, held)
	}
}

func TestPageUpMovesByViewportHeight(t *testing.T) {
	a := newTestApp(t, 1, 80, 5)
	appendLines(a, 0, 100)

	before := a.scrollY
	a.handleKey(keyMsg("u"))
	if got := before - a.scrollY; got != 5 {
		t.Errorf("page up moved %d rows, want 5", got)
	}

	// Paging past the top clamps at zero.
	for i := 0; i < 50; i++ {
		a.handleKey(keyMsg("u"))
	}
	if a.scrollY != 0 {
		t.Errorf("scrollY = %d, want clamped at 0", a.scrollY)
	}

	// And paging back down clamps at the maximum.
	for i := 0; i < 50; i++ {
		a.handleKey(keyMsg("d"))
	}
	if a.scrollY != a.scrollMax() {
		t.Errorf("scrollY = %d, want clamped at %d", a.scrollY, a.scrollMax())
	}
}

func TestHorizontalEdges(t *testing.T) {
	a := newTestApp(t, 1, 20, 5)
	a.Update(task.OutputEvent{Task: 0, Line: "0123456789"})

	a.handleKey(keyMsg("$"))
	if a.scrollX != 9 {
		t.Errorf("end: scrollX = %d, want 9", a.scrollX)
	}
	a.handleKey(keyMsg("l"))
	if a.scrollX != 9 {
		t.Errorf("right past end: scrollX = %d, want 9", a.scrollX)
	}
	a.handleKey(keyMsg("0"))
	if a.scrollX != 0 {
		t.Errorf("home: scrollX = %d, want 0", a.scrollX)
	}
	a.handleKey(keyMsg("h"))
	if a.scrollX != 0 {
		t.Errorf("left past start: scrollX = %d, want 0", a.scrollX)
	}
}

func TestResizeClampsAndKeepsTail(t *testing.T) {
	a := newTestApp(t, 1, 80, 5)
	appendLines(a, 0, 100)

	// Pinned to the bottom; growing the window keeps the pin.
	a.Update(tea.WindowSizeMsg{Width: 80, Height: 40})
	if a.scrollY != a.scrollMax() {
		t.Errorf("scrollY = %d, want %d after grow", a.scrollY, a.scrollMax())
	}

	// Scrolled away from the bottom, shrinking clamps without re-pinning.
	a.handleKey(keyMsg("k"))
	a.handleKey(keyMsg("k"))
	a.Update(tea.WindowSizeMsg{Width: 80, Height: 5})
	if a.scrollY > a.scrollMax() {
		t.Errorf("scrollY = %d above max %d after shrink", a.scrollY, a.scrollMax())
	}
}

func TestExitEventsSetStatusOnce(t *testing.T) {
	a := newTestApp(t, 2, 80, 24)

	a.Update(task.ExitEvent{Task: 0, Status: task.Status{Code: 3}})
	if a.tasks[0].Status == nil || a.tasks[0].Status.Code != 3 {
		t.Fatalf("status = %+v, want code 3", a.tasks[0].Status)
	}

	// First write wins.
	a.Update(task.ExitEvent{Task: 0, Status: task.Status{Code: 0}})
	if a.tasks[0].Status.Code != 3 {
		t.Errorf("status overwritten to %+v", a.tasks[0].Status)
	}
	if a.completed != 1 {
		t.Errorf("completed = %d, want 1", a.completed)
	}
}

func TestAllCompletedQuits(t *testing.T) {
	a := newTestApp(t, 2, 80, 24)

	_, cmd := a.Update(task.ExitEvent{Task: 0, Status: task.Status{}})
	if cmd != nil {
		t.Fatal("loop should continue while a task is running")
	}
	_, cmd = a.Update(task.ExitEvent{Task: 1, Status: task.Status{}})
	if cmd == nil {
		t.Fatal("loop should end once every task has exited")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Errorf("cmd produced %T, want tea.QuitMsg", cmd())
	}
}

func TestQuitKeyTerminatesStragglers(t *testing.T) {
	a := newTestApp(t, 2, 80, 24)
	a.Update(task.ExitEvent{Task: 0, Status: task.Status{}})

	_, cmd := a.Update(keyMsg("q"))
	if cmd == nil {
		t.Fatal("quit should end the loop")
	}
	if a.tasks[1].Status == nil || !a.tasks[1].Status.Signaled {
		t.Errorf("straggler status = %+v, want synthesized terminated", a.tasks[1].Status)
	}
	// The finished task keeps its real status.
	if a.tasks[0].Status.Signaled {
		t.Errorf("finished task status = %+v, want untouched", a.tasks[0].Status)
	}
}

func TestInterruptPath(t *testing.T) {
	a := newTestApp(t, 2, 80, 24)

	_, cmd := a.Update(InterruptMsg{})
	if cmd == nil {
		t.Fatal("interrupt should end the loop")
	}
	if !a.Interrupted() {
		t.Error("Interrupted() should report true")
	}
	for i, tk := range a.tasks {
		if tk.Status == nil || tk.Status.Label() != "terminated" {
			t.Errorf("task %d status = %v, want terminated", i, tk.Status)
		}
	}
}

func TestViewIdempotent(t *testing.T) {
	a := newTestApp(t, 2, 60, 12)
	appendLines(a, 0, 7)
	a.Update(task.ExitEvent{Task: 0, Status: task.Status{Code: 2}})

	first := a.View()
	second := a.View()
	if first != second {
		t.Error("re-rendering identical state should be byte-identical")
	}
}
