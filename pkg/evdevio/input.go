// Package evdevio wires the driver.InputKeyboard and keycode.OutputKeyboard
// contracts to real Linux devices: an evdev device for reading and a
// uinput virtual device for writing.
package evdevio

import (
	"fmt"

	"github.com/holoplot/go-evdev"
	"github.com/kbdremap/spacecadet/pkg/keycode"
)

// InputDevice reads from a physical evdev device, grabbing it exclusively
// so events stop reaching every other consumer (X11, the console, ...).
type InputDevice struct {
	dev   *evdev.InputDevice
	stats keycode.KeyStats
	in    chan evdev.InputEvent
}

// OpenInput opens the evdev device at path and grabs it.
func OpenInput(path string) (*InputDevice, error) {
	dev, err := evdev.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	if err := dev.Grab(); err != nil {
		dev.Close()
		return nil, fmt.Errorf("grabbing %s: %w", path, err)
	}

	d := &InputDevice{dev: dev, in: make(chan evdev.InputEvent, 64)}
	go d.readLoop()
	return d, nil
}

// readLoop blocks on the device and forwards EV_KEY events to the
// buffered channel. It exits once ReadOne starts erroring, i.e. the
// device disappeared.
func (d *InputDevice) readLoop() {
	defer close(d.in)
	for {
		ev, err := d.dev.ReadOne()
		if err != nil {
			return
		}
		if ev.Type != evdev.EV_KEY {
			continue
		}
		d.in <- *ev
	}
}

// ReadEvents drains whatever events have arrived since the last call,
// without blocking.
func (d *InputDevice) ReadEvents() []keycode.InputEvent {
	var out []keycode.InputEvent
	for {
		select {
		case ev, ok := <-d.in:
			if !ok {
				return out
			}
			key := keycode.SimpleKey(ev.Code)
			change := keycode.Released
			if ev.Value != 0 {
				change = keycode.Pressed
			}
			d.stats.Increment(change)
			out = append(out, keycode.InputEvent{Kind: keycode.EventKindKey, Code: key, Value: ev.Value})
		default:
			return out
		}
	}
}

// Stats returns cumulative counts of events read so far.
func (d *InputDevice) Stats() keycode.KeyStats { return d.stats }

// Close releases the evdev device.
func (d *InputDevice) Close() error {
	return d.dev.Close()
}
