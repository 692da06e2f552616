//go:build unix

package main

import (
	"os"
	"syscall"
)

// resumeSignals trigger an immediate cycle: SIGCONT after the process was
// stopped and resumed, SIGUSR1 on request.
func resumeSignals() []os.Signal {
	return []os.Signal{syscall.SIGCONT, syscall.SIGUSR1}
}
