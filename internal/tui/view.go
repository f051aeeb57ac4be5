package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/congregation-run/congregation/internal/task"
	"github.com/congregation-run/congregation/internal/version"
)

// logPrefix precedes every log line; statusPrefix precedes every status line.
const (
	logPrefix    = "│ "
	statusPrefix = "└ "
	prefixWidth  = 2
)

var (
	dimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	runningStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	completedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("34"))
	failedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	taskNameStyle  = lipgloss.NewStyle().Bold(true)
)

// lineKind tags one row of the logical document.
type lineKind int

const (
	lineName lineKind = iota
	lineLog
	lineStatus
	lineEmpty
)

// line is one logical row: a task name, a raw log line, a task status, or
// filler when content is shorter than the viewport.
type line struct {
	kind   lineKind
	text   string
	color  string
	status *task.Status
}

// document concatenates every task's [name, logs..., status] sequence in
// task-index order. It is rebuilt from scratch on each call; nothing here is
// cached between frames.
func (a *App) document() []line {
	doc := make([]line, 0, a.lineCount)
	for _, t := range a.tasks {
		doc = append(doc, line{kind: lineName, text: t.Name, color: t.Color})
		for _, log := range t.Logs {
			doc = append(doc, line{kind: lineLog, text: log})
		}
		doc = append(doc, line{kind: lineStatus, status: t.Status})
	}
	return doc
}

// View implements tea.Model. It is a pure function of model state, so
// re-rendering unchanged state yields byte-identical output.
func (a *App) View() string {
	if !a.sized {
		return ""
	}

	doc := a.document()
	rows := make([]string, 0, a.height)
	for i := a.scrollY; i < a.scrollY+a.visibleRows(); i++ {
		if i < len(doc) {
			rows = append(rows, a.renderLine(doc[i]))
		} else {
			rows = append(rows, "")
		}
	}
	rows = append(rows, a.footer())
	return strings.Join(rows, "\n")
}

// renderLine turns one logical row into its styled terminal form.
func (a *App) renderLine(l line) string {
	switch l.kind {
	case lineName:
		return taskNameStyle.Foreground(lipgloss.Color("#" + l.color)).Render(l.text)
	case lineLog:
		return dimStyle.Render(logPrefix) + clip(l.text, a.scrollX, a.width-prefixWidth)
	case lineStatus:
		return dimStyle.Render(statusPrefix) + statusStyle(l.status).Render(l.status.Label())
	default:
		return ""
	}
}

// statusStyle picks the color for a status label.
func statusStyle(s *task.Status) lipgloss.Style {
	switch {
	case s == nil:
		return runningStyle
	case s.Success():
		return completedStyle
	default:
		return failedStyle
	}
}

// clip returns at most width cells of text starting at offset. The first
// visible cell becomes a marker when content precedes it and the last when
// content continues past the window.
func clip(text string, offset, width int) string {
	if width <= 0 {
		return ""
	}
	r := []rune(text)
	if offset >= len(r) {
		if offset > 0 && len(r) > 0 {
			return "…"
		}
		return ""
	}
	vis := r[offset:]
	overflow := len(vis) > width
	if overflow {
		vis = vis[:width]
	}
	out := make([]rune, len(vis))
	copy(out, vis)
	if offset > 0 {
		out[0] = '…'
	}
	if overflow {
		out[len(out)-1] = '…'
	}
	return string(out)
}

// footer renders the reserved last row: program name and version, task
// counts, and key hints.
func (a *App) footer() string {
	var done, failed, running int
	for _, t := range a.tasks {
		switch {
		case t.Status == nil:
			running++
		case t.Status.Success():
			done++
		default:
			failed++
		}
	}

	counts := fmt.Sprintf("%d running · %d done · %d failed", running, done, failed)
	left := dimStyle.Render(fmt.Sprintf("congregation %s • %s • ", version.Get(), counts))
	return left + a.help.ShortHelpView(a.keys.ShortHelp())
}
