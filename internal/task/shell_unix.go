//go:build !windows

package task

import (
	"os/exec"
	"syscall"
)

// shellCommand builds the platform shell invocation for a task command.
func shellCommand(shell, command string) *exec.Cmd {
	if shell == "" {
		shell = "sh"
	}
	return exec.Command(shell, "-c", command)
}

// signalTerm asks the process to stop with SIGTERM, giving the command a
// chance to clean up before its pipes reach EOF.
func signalTerm(cmd *exec.Cmd) error {
	return cmd.Process.Signal(syscall.SIGTERM)
}
