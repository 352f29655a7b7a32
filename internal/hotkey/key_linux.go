//go:build linux

package hotkey

import "golang.design/x/hotkey"

// XK_slash.
const keySlash hotkey.Key = 0x002f
