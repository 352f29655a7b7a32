//go:build darwin

package permissions

/*
#cgo LDFLAGS: -framework CoreGraphics
#include <CoreGraphics/CoreGraphics.h>

int hasScreenRecordingPermission() {
    return CGPreflightScreenCaptureAccess();
}

int requestScreenRecordingPermission() {
    return CGRequestScreenCaptureAccess();
}
*/
import "C"

// HasScreenRecording reports whether the process may read other windows'
// pixels. Without it captures come back with only the desktop wallpaper.
func HasScreenRecording() bool {
	return C.hasScreenRecordingPermission() != 0
}

// RequestScreenRecording shows the system prompt when access has not been
// decided yet. The grant only takes effect after a restart.
func RequestScreenRecording() bool {
	return C.requestScreenRecordingPermission() != 0
}
