// Package permissions checks the OS privileges screen mirroring needs.
package permissions

import (
	"go.uber.org/zap"

	"github.com/junsooki/Sylnode/internal/logging"
)

// Notifier shows a message to the user without blocking.
type Notifier interface {
	Notify(msg string)
}

// Probe reports and requests screen recording access.
type Probe struct {
	Has     func() bool
	Request func() bool
}

// System is the probe for the running OS.
var System = Probe{Has: HasScreenRecording, Request: RequestScreenRecording}

// Preflight asks for screen recording access when it is missing and tells
// the user. Capturing still works without it, with blank windows, so a
// refusal is not fatal.
func (p Probe) Preflight(n Notifier, log *zap.Logger) bool {
	log = logging.OrNop(log).Named("permissions")
	if p.Has() {
		return true
	}
	if p.Request() {
		return true
	}
	log.Warn("screen recording permission not granted")
	if n != nil {
		n.Notify("Autorisez l'enregistrement de l'écran puis relancez Sylnode")
	}
	return false
}
