// Package keycode implements the virtual matrix, the key-code state
// machines, and the output buffer that together turn raw keyboard events
// into remapped ones.
package keycode

import "fmt"

// SimpleKey is an opaque hardware key symbol, e.g. KEY_A or
// KEY_LEFTSHIFT. The numeric value matches the Linux input-event-codes.h
// keycode so it can be written to a uinput device without translation.
type SimpleKey uint16

// String implements fmt.Stringer, returning the canonical KEY_<NAME> form
// when the code is known, or a numeric fallback otherwise.
func (k SimpleKey) String() string {
	if name, ok := simpleKeyNames[k]; ok {
		return name
	}
	return fmt.Sprintf("KEY_%d", uint16(k))
}

// Linux key codes, from linux/input-event-codes.h. Only the subset a
// keyboard remapper plausibly needs is enumerated; LookupSimpleKey
// reports ok=false for anything missing so callers can fail loudly at
// load time rather than silently drop a key.
const (
	KeyEsc SimpleKey = 1 + iota
	Key1
	Key2
	Key3
	Key4
	Key5
	Key6
	Key7
	Key8
	Key9
	Key0
	KeyMinus
	KeyEqual
	KeyBackspace
	KeyTab
	KeyQ
	KeyW
	KeyE
	KeyR
	KeyT
	KeyY
	KeyU
	KeyI
	KeyO
	KeyP
	KeyLeftBrace
	KeyRightBrace
	KeyEnter
	KeyLeftCtrl
	KeyA
	KeyS
	KeyD
	KeyF
	KeyG
	KeyH
	KeyJ
	KeyK
	KeyL
	KeySemicolon
	KeyApostrophe
	KeyGrave
	KeyLeftShift
	KeyBackslash
	KeyZ
	KeyX
	KeyC
	KeyV
	KeyB
	KeyN
	KeyM
	KeyComma
	KeyDot
	KeySlash
	KeyRightShift
	KeyKpAsterisk
	KeyLeftAlt
	KeySpace
	KeyCapsLock
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyNumLock
	KeyScrollLock
)

const (
	KeyRightCtrl  SimpleKey = 97
	KeyRightAlt   SimpleKey = 100
	KeyHome       SimpleKey = 102
	KeyUp         SimpleKey = 103
	KeyPageUp     SimpleKey = 104
	KeyLeft       SimpleKey = 105
	KeyRight      SimpleKey = 106
	KeyEnd        SimpleKey = 107
	KeyDown       SimpleKey = 108
	KeyPageDown   SimpleKey = 109
	KeyInsert     SimpleKey = 110
	KeyDelete     SimpleKey = 111
	KeyLeftMeta   SimpleKey = 125
	KeyRightMeta  SimpleKey = 126
	KeyF11        SimpleKey = 87
	KeyF12        SimpleKey = 88
)

var simpleKeyNames = map[SimpleKey]string{
	KeyEsc: "KEY_ESC", Key1: "KEY_1", Key2: "KEY_2", Key3: "KEY_3", Key4: "KEY_4",
	Key5: "KEY_5", Key6: "KEY_6", Key7: "KEY_7", Key8: "KEY_8", Key9: "KEY_9", Key0: "KEY_0",
	KeyMinus: "KEY_MINUS", KeyEqual: "KEY_EQUAL", KeyBackspace: "KEY_BACKSPACE",
	KeyTab: "KEY_TAB", KeyQ: "KEY_Q", KeyW: "KEY_W", KeyE: "KEY_E", KeyR: "KEY_R",
	KeyT: "KEY_T", KeyY: "KEY_Y", KeyU: "KEY_U", KeyI: "KEY_I", KeyO: "KEY_O", KeyP: "KEY_P",
	KeyLeftBrace: "KEY_LEFTBRACE", KeyRightBrace: "KEY_RIGHTBRACE", KeyEnter: "KEY_ENTER",
	KeyLeftCtrl: "KEY_LEFTCTRL", KeyA: "KEY_A", KeyS: "KEY_S", KeyD: "KEY_D", KeyF: "KEY_F",
	KeyG: "KEY_G", KeyH: "KEY_H", KeyJ: "KEY_J", KeyK: "KEY_K", KeyL: "KEY_L",
	KeySemicolon: "KEY_SEMICOLON", KeyApostrophe: "KEY_APOSTROPHE", KeyGrave: "KEY_GRAVE",
	KeyLeftShift: "KEY_LEFTSHIFT", KeyBackslash: "KEY_BACKSLASH", KeyZ: "KEY_Z", KeyX: "KEY_X",
	KeyC: "KEY_C", KeyV: "KEY_V", KeyB: "KEY_B", KeyN: "KEY_N", KeyM: "KEY_M",
	KeyComma: "KEY_COMMA", KeyDot: "KEY_DOT", KeySlash: "KEY_SLASH",
	KeyRightShift: "KEY_RIGHTSHIFT", KeyKpAsterisk: "KEY_KPASTERISK", KeyLeftAlt: "KEY_LEFTALT",
	KeySpace: "KEY_SPACE", KeyCapsLock: "KEY_CAPSLOCK",
	KeyF1: "KEY_F1", KeyF2: "KEY_F2", KeyF3: "KEY_F3", KeyF4: "KEY_F4", KeyF5: "KEY_F5",
	KeyF6: "KEY_F6", KeyF7: "KEY_F7", KeyF8: "KEY_F8", KeyF9: "KEY_F9", KeyF10: "KEY_F10",
	KeyNumLock: "KEY_NUMLOCK", KeyScrollLock: "KEY_SCROLLLOCK",
	KeyRightCtrl: "KEY_RIGHTCTRL", KeyRightAlt: "KEY_RIGHTALT", KeyHome: "KEY_HOME",
	KeyUp: "KEY_UP", KeyPageUp: "KEY_PAGEUP", KeyLeft: "KEY_LEFT", KeyRight: "KEY_RIGHT",
	KeyEnd: "KEY_END", KeyDown: "KEY_DOWN", KeyPageDown: "KEY_PAGEDOWN", KeyInsert: "KEY_INSERT",
	KeyDelete: "KEY_DELETE", KeyLeftMeta: "KEY_LEFTMETA", KeyRightMeta: "KEY_RIGHTMETA",
	KeyF11: "KEY_F11", KeyF12: "KEY_F12",
}

var simpleKeyByName map[string]SimpleKey

func init() {
	simpleKeyByName = make(map[string]SimpleKey, len(simpleKeyNames))
	for code, name := range simpleKeyNames {
		simpleKeyByName[name] = code
	}
}

// LookupSimpleKey resolves a "KEY_<SYMBOL>" name to its SimpleKey value.
func LookupSimpleKey(name string) (SimpleKey, bool) {
	k, ok := simpleKeyByName[name]
	return k, ok
}
