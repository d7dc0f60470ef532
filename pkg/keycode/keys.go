package keycode

import "time"

// KeyConstraint is a contextual requirement a key-code places on the
// layer collection it lives in, checked once at startup.
type KeyConstraint interface{ isKeyConstraint() }

// LayerExists requires that a layer with this name is present.
type LayerExists struct{ LayerName string }

func (LayerExists) isKeyConstraint() {}

// KeyOnOtherLayerIsTransparent requires that the cell at the same
// coordinates on the named layer is transparent.
type KeyOnOtherLayerIsTransparent struct{ LayerName string }

func (KeyOnOtherLayerIsTransparent) isKeyConstraint() {}

// KeyCode is the primary interface for custom keys (macros, layer
// toggles, dual-role keys, ...). Implementations embed whatever small
// per-instance state they need (timers, counters); the KeyCodeMatrix
// cell owns the instance exclusively.
type KeyCode interface {
	// HandleEvent reacts to a state change (e.g. the key was pressed).
	HandleEvent(ctx *KeyEventContext, change KeyStateChange)
	// IsTransparent reports whether layer resolution should skip this
	// key and fall through to the next lower enabled layer.
	IsTransparent() bool
	// Constraints reports any startup-verified requirements this key
	// places on the layer collection.
	Constraints() []KeyConstraint
}

// baseKey gives every concrete KeyCode the default no-op/empty
// implementations for free; embed it and override what's needed.
type baseKey struct{}

func (baseKey) HandleEvent(*KeyEventContext, KeyStateChange) {}
func (baseKey) IsTransparent() bool                          { return false }
func (baseKey) Constraints() []KeyConstraint                 { return nil }

// TransparentKey is a pass-through to the key below it in the layer
// stack. handle_event is a no-op; only IsTransparent matters.
type TransparentKey struct{ baseKey }

func (TransparentKey) IsTransparent() bool { return true }

// OpaqueKey is a no-op that is not transparent: it stops the layer walk
// and emits nothing.
type OpaqueKey struct{ baseKey }

// SimpleKeyCode emits one outgoing key event per incoming change,
// mapping change to the same KeyStateChange it received.
type SimpleKeyCode struct {
	baseKey
	Key SimpleKey
}

func (k SimpleKeyCode) HandleEvent(ctx *KeyEventContext, change KeyStateChange) {
	ctx.Output.Send(k.Key, change)
}

// MacroKey plays a fixed sequence of simple keys (each pressed then
// released in order) when the incoming change matches Trigger.
type MacroKey struct {
	baseKey
	Trigger KeyStateChange
	Keys    []SimpleKey
}

func (k MacroKey) HandleEvent(ctx *KeyEventContext, change KeyStateChange) {
	if change != k.Trigger {
		return
	}
	for _, key := range k.Keys {
		ctx.Output.Send(key, Pressed)
		ctx.Output.Send(key, Released)
	}
}

// ToggleLayerKey toggles a named layer's enabled flag on Pressed, then
// blocks the upcoming Released/Held pair so it doesn't leak into the
// newly active layer.
type ToggleLayerKey struct {
	baseKey
	LayerName string
}

func (k ToggleLayerKey) HandleEvent(ctx *KeyEventContext, change KeyStateChange) {
	if change != Pressed {
		return
	}
	ctx.Layers.Toggle(k.LayerName)
	ctx.Matrix.SetBlock(NewBlockReleaseAndHold(), ctx.Location)
}

func (k ToggleLayerKey) Constraints() []KeyConstraint {
	return []KeyConstraint{LayerExists{k.LayerName}}
}

// MomentarilyEnableLayerKey enables the named layer on Pressed and
// disables it on Released; Held is a no-op.
type MomentarilyEnableLayerKey struct {
	baseKey
	LayerName string
}

func (k MomentarilyEnableLayerKey) HandleEvent(ctx *KeyEventContext, change KeyStateChange) {
	switch change {
	case Pressed:
		ctx.Layers.Set(k.LayerName, true)
	case Released:
		ctx.Layers.Set(k.LayerName, false)
	}
}

func (k MomentarilyEnableLayerKey) Constraints() []KeyConstraint {
	return []KeyConstraint{
		LayerExists{k.LayerName},
		KeyOnOtherLayerIsTransparent{k.LayerName},
	}
}

// ActivateLayerKey enables the named layer on Pressed and blocks the
// upcoming Released/Held pair.
type ActivateLayerKey struct {
	baseKey
	LayerName string
}

func (k ActivateLayerKey) HandleEvent(ctx *KeyEventContext, change KeyStateChange) {
	if change != Pressed {
		return
	}
	ctx.Layers.Set(k.LayerName, true)
	ctx.Matrix.SetBlock(NewBlockReleaseAndHold(), ctx.Location)
}

func (k ActivateLayerKey) Constraints() []KeyConstraint {
	return []KeyConstraint{LayerExists{k.LayerName}}
}

// HoldEnableLayerPressKey is the dual-role "layer-tap" key: held long
// enough it activates a layer, tapped quickly it emits Inner instead.
// Per spec.md's open question, it commits to the layer on Held if the
// threshold is crossed, and also on Released as a backstop in case the
// Held callback never fired (e.g. the driver tick cadence skipped it).
type HoldEnableLayerPressKey struct {
	baseKey
	LayerName string
	Inner     SimpleKey
	Threshold time.Duration

	pressedAt time.Time
}

func (k *HoldEnableLayerPressKey) heldLongEnough(now time.Time) bool {
	return now.Sub(k.pressedAt) > k.Threshold
}

func (k *HoldEnableLayerPressKey) HandleEvent(ctx *KeyEventContext, change KeyStateChange) {
	switch change {
	case Pressed:
		k.pressedAt = ctx.Now
	case Held:
		if k.heldLongEnough(ctx.Now) {
			ctx.Layers.Set(k.LayerName, true)
			ctx.Matrix.SetBlock(NewBlockReleaseAndHold(), ctx.Location)
		}
	case Released:
		if k.heldLongEnough(ctx.Now) {
			ctx.Layers.Set(k.LayerName, true)
		} else {
			ctx.Output.Send(k.Inner, Pressed)
			ctx.Output.Send(k.Inner, Released)
		}
	}
}

func (k *HoldEnableLayerPressKey) Constraints() []KeyConstraint {
	return []KeyConstraint{LayerExists{k.LayerName}}
}

// OneShotLayer enables the named layer on Pressed, schedules a callback
// that disables it after the next Released elsewhere, and blocks this
// cell's own Released/Held pair.
type OneShotLayer struct {
	baseKey
	LayerName string
}

func (k OneShotLayer) HandleEvent(ctx *KeyEventContext, change KeyStateChange) {
	if change != Pressed {
		return
	}
	ctx.Layers.Set(k.LayerName, true)
	ctx.Layers.ScheduleEventCountCallback(k.LayerName, Released, ctx.Output.Stats().Get(Released)+1, false)
	ctx.Matrix.SetBlock(NewBlockReleaseAndHold(), ctx.Location)
}

func (k OneShotLayer) Constraints() []KeyConstraint {
	return []KeyConstraint{LayerExists{k.LayerName}}
}

// WrappedKey sandwiches Inner between Outer presses/releases: Pressed
// emits Outer then forwards Pressed to Inner; Held forwards only to
// Inner; Released forwards to Inner then emits Outer's release.
type WrappedKey struct {
	baseKey
	Outer SimpleKey
	Inner KeyCode
}

func (k WrappedKey) HandleEvent(ctx *KeyEventContext, change KeyStateChange) {
	switch change {
	case Pressed:
		ctx.Output.Send(k.Outer, Pressed)
		k.Inner.HandleEvent(ctx, Pressed)
	case Held:
		k.Inner.HandleEvent(ctx, Held)
	case Released:
		k.Inner.HandleEvent(ctx, Released)
		ctx.Output.Send(k.Outer, Released)
	}
}

// SpaceCadet acts as Mod while held with another key, or emits Tap when
// pressed and released alone. It exploits a WhenFull(2) EventBuffer: the
// modifier press is held back until a second output event lands.
type SpaceCadet struct {
	baseKey
	Tap KeyCode
	Mod SimpleKey

	pressedBaseline uint32
}

func (k *SpaceCadet) HandleEvent(ctx *KeyEventContext, change KeyStateChange) {
	switch change {
	case Pressed:
		ctx.Output.SetBuffer(NewWhenFullBuffer(2))
		k.pressedBaseline = ctx.Output.Stats().Get(Pressed)
		ctx.Output.Send(k.Mod, Pressed)
	case Released:
		if ctx.Output.Stats().Get(Pressed) == k.pressedBaseline {
			ctx.Output.SetBuffer(NewImmediateBuffer())
			k.Tap.HandleEvent(ctx, Pressed)
			k.Tap.HandleEvent(ctx, Released)
		} else {
			ctx.Output.Send(k.Mod, Released)
		}
	}
}
