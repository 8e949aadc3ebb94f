package process

import (
	"os/exec"
	"time"
)

// WaitDelay bounds how long Wait blocks on output pipes after the process
// group has been killed.
const WaitDelay = 5 * time.Second

// Bind makes cmd kill its whole process group when its context is cancelled.
// cmd must have been created with exec.CommandContext and not yet started.
func Bind(cmd *exec.Cmd) {
	setGroup(cmd)
	cmd.Cancel = func() error {
		if cmd.Process == nil {
			return nil
		}
		KillProcessGroup(cmd.Process.Pid)
		return cmd.Process.Kill()
	}
	cmd.WaitDelay = WaitDelay
}
