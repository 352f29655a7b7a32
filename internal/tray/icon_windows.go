//go:build windows

package tray

import "github.com/junsooki/Sylnode/internal/icon"

// The Windows tray only accepts ICO data.
func iconBytes(ic *icon.Icon) []byte {
	return ic.ICO()
}
