//go:build windows

package task

import "os/exec"

// shellCommand builds the platform shell invocation for a task command.
func shellCommand(shell, command string) *exec.Cmd {
	if shell == "" {
		shell = "cmd.exe"
	}
	return exec.Command(shell, "/C", command)
}

// signalTerm stops the process. Windows has no SIGTERM delivery for
// arbitrary processes, so this kills outright.
func signalTerm(cmd *exec.Cmd) error {
	return cmd.Process.Kill()
}
