package input

import (
	"strings"
)

// Key is an engine-level key code, independent of the windowing backend.
type Key uint8

const (
	KeyUnknown Key = iota
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
	KeySpace
	KeyEscape
	KeyEnter
	KeyP
	KeyA
	KeyD
	KeyW
	KeyS
)

var keyNames = map[Key]string{
	KeyLeft:   "left",
	KeyRight:  "right",
	KeyUp:     "up",
	KeyDown:   "down",
	KeySpace:  "space",
	KeyEscape: "escape",
	KeyEnter:  "enter",
	KeyP:      "p",
	KeyA:      "a",
	KeyD:      "d",
	KeyW:      "w",
	KeyS:      "s",
}

func (k Key) String() string {
	if name, ok := keyNames[k]; ok {
		return name
	}
	return "unknown"
}

// ParseKey resolves a key name as used in configuration files.
func ParseKey(name string) (Key, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for k, n := range keyNames {
		if n == name {
			return k, true
		}
	}
	return KeyUnknown, false
}

// Modifiers is a bit set of held modifier keys.
type Modifiers uint8

const (
	ModCtrl Modifiers = 1 << iota
	ModShift
	ModAlt
)

func (m Modifiers) Ctrl() bool  { return m&ModCtrl != 0 }
func (m Modifiers) Shift() bool { return m&ModShift != 0 }
func (m Modifiers) Alt() bool   { return m&ModAlt != 0 }
