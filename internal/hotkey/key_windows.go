//go:build windows

package hotkey

import "golang.design/x/hotkey"

// VK_OEM_2, the '/?' key on US layouts.
const keySlash hotkey.Key = 0xBF
