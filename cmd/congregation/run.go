package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/congregation-run/congregation/internal/config"
	"github.com/congregation-run/congregation/internal/diag"
	"github.com/congregation-run/congregation/internal/task"
	"github.com/congregation-run/congregation/internal/tui"
)

// runTasks spawns every task and drives the live view until completion,
// user quit, or interrupt.
func runTasks(defs []task.Definition, cfg *config.Config) error {
	// Every working directory is resolved before anything starts, so a bad
	// one aborts with zero children spawned.
	defs, err := task.Preflight(defs)
	if err != nil {
		return runError(err)
	}

	sup := task.NewSupervisor()
	sup.Shell = cfg.Shell
	if cfg.DebugLog {
		runLog, err := task.NewRunLog(filepath.Join(".congregation", "logs"))
		if err != nil {
			return fmt.Errorf("debug log: %w", err)
		}
		sup.Log = runLog
		defer runLog.Close()
	}

	tasks := make([]*task.Task, 0, len(defs))
	for i, def := range defs {
		t, err := sup.Spawn(def, i)
		if err != nil {
			// A task failing to start aborts the run; nothing already
			// started may outlive it.
			for _, started := range tasks {
				started.Terminate()
			}
			return runError(err)
		}
		tasks = append(tasks, t)
	}

	// Ambient stdlib logging would corrupt the alternate screen.
	originalOutput := log.Writer()
	log.SetOutput(io.Discard)
	defer log.SetOutput(originalOutput)

	app := tui.New(tasks)
	program := tea.NewProgram(app, tea.WithAltScreen())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		for range sigCh {
			program.Send(tui.InterruptMsg{})
		}
	}()

	// Fan the supervisors' bounded event stream into the update loop, which
	// is the single consumer and sole mutator of task state.
	go func() {
		for ev := range sup.Events() {
			program.Send(ev)
		}
	}()

	model, err := program.Run()
	if err != nil {
		// bubbletea has restored the terminal; make sure no children
		// outlive the dashboard.
		for _, t := range tasks {
			t.Terminate()
		}
		return fmt.Errorf("render loop: %w", err)
	}

	if cfg.Transcript {
		if final, ok := model.(*tui.App); ok {
			tui.PrintTranscript(os.Stdout, final.Tasks())
		}
	}
	return nil
}

// runError converts supervisor failures into their user-facing form.
func runError(err error) error {
	var wdErr *task.WorkdirError
	if errors.As(err, &wdErr) {
		return &diag.Error{
			Title:   "unexpected error",
			Message: fmt.Sprintf("no working directory: %s", wdErr.Dir),
			Notes:   []string{"the -d option must name an existing directory"},
		}
	}
	var spawnErr *task.SpawnError
	if errors.As(err, &spawnErr) {
		return diag.Errorf("cannot start task", "%v", err)
	}
	return err
}
