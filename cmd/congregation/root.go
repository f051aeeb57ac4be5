package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/congregation-run/congregation/internal/cli"
	"github.com/congregation-run/congregation/internal/config"
	"github.com/congregation-run/congregation/internal/diag"
	"github.com/congregation-run/congregation/internal/task"
)

var rootCmd = &cobra.Command{
	Use:   "congregation",
	Short: "Run multiple parallel tasks with grouped output",
	Long: `Congregation runs several shell commands concurrently and shows their
interleaved output as a live, scrollable, per-task grouped view:

  congregation \
    run "npm run dev" -d ./app \
    run "npm run start" -d ./api`,
	// The task grammar repeats "run <command> [-n ...] [-d ...] [-c ...]"
	// groups, which pflag cannot express; arguments are parsed by hand.
	DisableFlagParsing: true,
	SilenceUsage:       true,
	SilenceErrors:      true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRoot(args)
	},
}

// Execute runs the root command, printing fatal diagnostics in their
// structured form and exiting nonzero for anything that prevented the run.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		var derr *diag.Error
		if !errors.As(err, &derr) {
			derr = diag.Errorf("unexpected error", "%v", err)
		}
		derr.Print(os.Stderr)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

// runRoot dispatches on the raw argument list: help text, a YAML task file,
// or the inline task grammar.
func runRoot(args []string) error {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		diag.Usage(os.Stdout, "congregation")
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	var defs []task.Definition
	switch args[0] {
	case "--file", "-f":
		if len(args) < 2 {
			return &diag.Error{
				Title:   "invalid syntax",
				Message: "expected a path after --file",
			}
		}
		if len(args) > 2 {
			return &diag.Error{
				Title:   "invalid syntax",
				Message: "--file cannot be combined with inline tasks",
			}
		}
		defs, err = cli.LoadFile(args[1], cfg.DefaultColor)
	default:
		defs, err = cli.Parse(args, cfg.DefaultColor)
	}
	if err != nil {
		return err
	}

	if len(defs) == 0 {
		return &diag.Error{
			Title:   "no tasks",
			Message: "nothing to run: the task list is empty",
		}
	}

	return runTasks(defs, cfg)
}
