//go:build darwin

package hotkey

import "golang.design/x/hotkey"

// kVK_ANSI_Slash.
const keySlash hotkey.Key = 0x2C
