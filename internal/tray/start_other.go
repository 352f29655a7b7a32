//go:build !darwin

package tray

import (
	"runtime"

	"github.com/getlantern/systray"
)

// Start runs the tray loop on its own OS thread.
func (t *Tray) Start() {
	go func() {
		runtime.LockOSThread()
		systray.Run(t.onReady, t.onExit)
	}()
}
