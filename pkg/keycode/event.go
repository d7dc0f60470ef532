package keycode

import "time"

// KeyStateChange classifies a key-event transition. The integer values
// are fixed: they double as the `value` field on raw input events and as
// array indices into per-cell state, so they must never be renumbered.
type KeyStateChange int

const (
	Released KeyStateChange = 0
	Pressed  KeyStateChange = 1
	Held     KeyStateChange = 2
)

func (c KeyStateChange) String() string {
	switch c {
	case Released:
		return "Released"
	case Pressed:
		return "Pressed"
	case Held:
		return "Held"
	default:
		return "Unknown"
	}
}

// EventKind distinguishes key events from everything else a physical
// device can emit (sync, LED, relative/absolute pointer motion). Only
// EventKindKey is ever inspected by the core; anything else is Bypass.
type EventKind int

const (
	EventKindKey EventKind = iota
	EventKindOther
)

// InputEvent is the boundary type produced by the physical device and
// consumed by VirtualKeyboardMatrix.Update.
type InputEvent struct {
	Time time.Time
	Kind EventKind
	Code SimpleKey
	// Value is the raw event value: 0 means released, anything else is
	// treated as pressed. VirtualKeyboardMatrix.Update therefore reads an
	// incoming value of 2 (Held) as a press; Held transitions are only
	// synthesized by VirtualKeyboardMatrix.DetectHeldKeys.
	Value int32
}

// Index2D is a (row, col) coordinate in the virtual matrix.
type Index2D struct {
	Row int
	Col int
}
