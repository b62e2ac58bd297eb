package sigblock

import "os"

// Windows surfaces console control events as os.Interrupt; nothing else is
// deliverable, and nothing can be diverted beyond that.
var termSignals = []os.Signal{os.Interrupt}

// A console event cannot be posted back to ourselves, so exit abnormally the
// way the interrupted run would have.
func redeliver(os.Signal) {
	os.Exit(1)
}
