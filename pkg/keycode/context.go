package keycode

import "time"

// LayerHandle is the subset of LayerCollection a key-code handler needs.
// Defined here (rather than imported from pkg/layer) to avoid a import
// cycle: pkg/layer's KeyCodeMatrix holds KeyCode values, and KeyCode
// implementations need to reach back into the layer collection.
type LayerHandle interface {
	Set(name string, enabled bool)
	Toggle(name string)
	IsLayerEnabled(name string) bool
	ScheduleEventCountCallback(layerName string, eventType KeyStateChange, eventCount uint32, enableAtEvent bool)
}

// OutputKeyboard is the output-side contract: send an event (subject to
// the active EventBuffer), bypass the buffer, swap the buffer, and read
// cumulative stats.
type OutputKeyboard interface {
	Send(key SimpleKey, change KeyStateChange)
	SendBypassBuffer(event InputEvent)
	SetBuffer(buf EventBuffer)
	Stats() KeyStats
}

// KeyEventContext bundles everything a key-code handler may need to
// mutate during one dispatch: the output device, the virtual matrix (so
// a handler can install a block), the layer collection, the dispatched
// location, and the current time. It is never stored past the call.
type KeyEventContext struct {
	Output  OutputKeyboard
	Matrix  *VirtualKeyboardMatrix
	Layers  LayerHandle
	Location Index2D
	Now     time.Time
}
