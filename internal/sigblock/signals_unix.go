//go:build !windows

package sigblock

import (
	"os"
	"syscall"

	"golang.org/x/sys/unix"
)

// The asynchronous signals whose default disposition terminates the process
// and which the platform lets us divert. SIGKILL and SIGSTOP cannot be
// caught; synchronous faults like SIGSEGV stay with the runtime.
var termSignals = []os.Signal{
	syscall.SIGHUP,
	syscall.SIGINT,
	syscall.SIGQUIT,
	syscall.SIGABRT,
	syscall.SIGALRM,
	syscall.SIGTERM,
	syscall.SIGUSR1,
	syscall.SIGUSR2,
	syscall.SIGPIPE,
}

// redeliver posts sig back to ourselves. Dispositions are already back to
// default at this point, so the kill behaves as if the original delivery had
// merely been delayed.
func redeliver(sig os.Signal) {
	s, ok := sig.(syscall.Signal)
	if !ok {
		return
	}
	_ = unix.Kill(os.Getpid(), s)
}
