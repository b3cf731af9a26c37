//go:build linux

// Package procattr configures subprocesses so the SDK can terminate the
// whole CLI process tree and never leaves orphans behind.
package procattr

import (
	"os/exec"
	"syscall"
)

// Set places the subprocess in its own process group. On Linux, Pdeathsig
// additionally delivers SIGTERM to the child if this process dies without
// cleaning up (OOM kill, SIGKILL).
func Set(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setpgid:   true,
		Pdeathsig: syscall.SIGTERM,
	}
}
