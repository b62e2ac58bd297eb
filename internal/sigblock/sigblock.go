// Package sigblock defers catchable termination signals for the duration of
// a critical section. While a Mask is held the signals are diverted onto a
// channel instead of killing the process; Restore puts the default
// dispositions back and re-delivers anything that arrived in between, so the
// process still dies from the signal, just after the section completes.
package sigblock

import (
	"os"
	"os/signal"

	log "github.com/sirupsen/logrus"
)

// Mask holds diverted termination signals until Restore is called.
type Mask struct {
	ch chan os.Signal
}

// Block starts diverting the catchable termination signals. Pair it with
// Restore on every exit path, error paths included, or the process becomes
// unkillable by anything short of SIGKILL.
func Block() *Mask {
	m := &Mask{ch: make(chan os.Signal, len(termSignals))}
	signal.Notify(m.ch, termSignals...)
	return m
}

// Restore stops diverting and re-delivers any signal received while the mask
// was held. Re-delivered signals land under their default dispositions, so a
// deferred kill still terminates the process, just after the critical
// section instead of inside it.
func (m *Mask) Restore() {
	signal.Stop(m.ch)
	for {
		select {
		case sig := <-m.ch:
			log.Warnf("re-delivering %v deferred during rotation", sig)
			redeliver(sig)
		default:
			return
		}
	}
}
