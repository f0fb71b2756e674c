//go:build windows

package gitexec

import "os/exec"

// configureProcessGroup is a no-op on Windows: there is no Unix-style
// process-group primitive. Descendants may survive a kill if they detach,
// matching the teacher's own documented Windows limitation.
func configureProcessGroup(cmd *exec.Cmd) {}

func killProcessGroup(cmd *exec.Cmd) {
	if cmd.Process != nil {
		_ = cmd.Process.Kill()
	}
}
