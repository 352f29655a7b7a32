// Package taskbar shows an overlay badge on the mirror window's taskbar
// button. Only Windows has one; elsewhere Overlay does nothing.
package taskbar

import "errors"

// ErrNoWindow is returned when the window owning the taskbar button cannot
// be found.
var ErrNoWindow = errors.New("taskbar window not found")
