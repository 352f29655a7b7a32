//go:build !windows

package tray

import "github.com/junsooki/Sylnode/internal/icon"

func iconBytes(ic *icon.Icon) []byte {
	return ic.PNG()
}
