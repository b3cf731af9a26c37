//go:build !linux

// Package procattr configures subprocesses so the SDK can terminate the
// whole CLI process tree and never leaves orphans behind.
package procattr

import (
	"os/exec"
	"syscall"
)

// Set places the subprocess in its own process group, enabling group-wide
// signaling on stop. Pdeathsig is Linux-only and not set here.
func Set(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setpgid: true,
	}
}
