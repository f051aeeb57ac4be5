package tui

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/congregation-run/congregation/internal/task"
)

var (
	transcriptDim       = color.New(color.FgHiBlack)
	transcriptCompleted = color.New(color.FgGreen)
	transcriptFailed    = color.New(color.FgRed)
)

// PrintTranscript writes a plain, non-interactive record of every task's
// captured output and final status. It runs after the terminal has been
// restored, so output that only existed in the alternate screen survives
// the run.
func PrintTranscript(w io.Writer, tasks []*task.Task) {
	for _, t := range tasks {
		name := color.New(color.Bold)
		if r, g, b, err := task.RGB(t.Color); err == nil {
			name = color.RGB(r, g, b).Add(color.Bold)
		}
		name.Fprintln(w, t.Name)

		for _, log := range t.Logs {
			fmt.Fprintf(w, "%s %s\n", transcriptDim.Sprint("│"), log)
		}

		st := transcriptDim
		switch {
		case t.Status == nil:
		case t.Status.Success():
			st = transcriptCompleted
		default:
			st = transcriptFailed
		}
		fmt.Fprintf(w, "%s %s\n", transcriptDim.Sprint("└"), st.Sprint(t.Status.Label()))
	}
}
