//go:build darwin

package tray

import "github.com/getlantern/systray"

// Start registers the tray with the Cocoa run loop owned by the window.
func (t *Tray) Start() {
	systray.Register(t.onReady, t.onExit)
}
