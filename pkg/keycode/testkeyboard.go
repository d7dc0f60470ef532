package keycode

// TestOutputKeyboard is an in-memory OutputKeyboard used by key-code unit
// tests to observe side effects without a real uinput device.
type TestOutputKeyboard struct {
	Events []InputEvent
	stats  KeyStats
	buffer EventBuffer
}

// NewTestOutputKeyboard returns a TestOutputKeyboard with an Immediately buffer.
func NewTestOutputKeyboard() *TestOutputKeyboard {
	return &TestOutputKeyboard{buffer: NewImmediateBuffer()}
}

func (k *TestOutputKeyboard) sendUnbuffered(key SimpleKey, change KeyStateChange) {
	k.stats.Increment(change)
	k.Events = append(k.Events, InputEvent{Kind: EventKindKey, Code: key, Value: int32(change)})
}

// Send queues (key, change) through the active buffer.
func (k *TestOutputKeyboard) Send(key SimpleKey, change KeyStateChange) {
	for _, item := range k.buffer.Add(key, change) {
		k.sendUnbuffered(item.Key, item.Change)
	}
}

// SendBypassBuffer records event directly, skipping the buffer entirely.
func (k *TestOutputKeyboard) SendBypassBuffer(event InputEvent) {
	k.stats.Increment(KeyStateChange(event.Value))
	k.Events = append(k.Events, event)
}

// SetBuffer replaces the active buffer, discarding anything still queued.
func (k *TestOutputKeyboard) SetBuffer(buf EventBuffer) { k.buffer = buf }

// Stats returns cumulative send counts.
func (k *TestOutputKeyboard) Stats() KeyStats { return k.stats }

// TestInputKeyboard is a scripted InputKeyboard: queue up events, then
// drain them with ReadEvents like a real device would deliver them.
type TestInputKeyboard struct {
	Events []InputEvent
	stats  KeyStats
}

// NewTestInputKeyboard returns an empty TestInputKeyboard.
func NewTestInputKeyboard() *TestInputKeyboard {
	return &TestInputKeyboard{}
}

// Queue appends a scripted event to be returned by the next ReadEvents.
func (k *TestInputKeyboard) Queue(key SimpleKey, change KeyStateChange) {
	value := int32(0)
	if change != Released {
		value = 1
	}
	k.Events = append(k.Events, InputEvent{Kind: EventKindKey, Code: key, Value: value})
}

// ReadEvents drains and returns every queued event, updating stats as it goes.
func (k *TestInputKeyboard) ReadEvents() []InputEvent {
	out := k.Events
	for _, e := range out {
		change := Released
		if e.Value != 0 {
			change = Pressed
		}
		k.stats.Increment(change)
	}
	k.Events = nil
	return out
}

// Stats returns cumulative read counts.
func (k *TestInputKeyboard) Stats() KeyStats { return k.stats }
