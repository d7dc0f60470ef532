//go:build linux

package evdevio

import (
	"encoding/binary"
	"fmt"
	"os"
	"syscall"
	"unsafe"

	"github.com/kbdremap/spacecadet/pkg/keycode"
)

// Raw /dev/uinput ioctl constants (linux/uinput.h, linux/input-event-codes.h).
const (
	uiSetEvBit   = 0x40045564
	uiSetKeyBit  = 0x40045565
	uiDevSetup   = 0x405c5503
	uiDevCreate  = 0x5501
	uiDevDestroy = 0x5502

	evSyn = 0x00
	evKey = 0x01

	synReport = 0

	maxKeys = 768
)

type inputID struct {
	BusType uint16
	Vendor  uint16
	Product uint16
	Version uint16
}

type uinputSetup struct {
	ID      inputID
	Name    [80]byte
	FFEffectsMax uint32
}

type inputEvent struct {
	Time  syscall.Timeval
	Type  uint16
	Code  uint16
	Value int32
}

// OutputDevice creates a virtual uinput keyboard capable of emitting every
// SimpleKey code, and is the concrete keycode.OutputKeyboard used in
// production.
type OutputDevice struct {
	fd     *os.File
	stats  keycode.KeyStats
	buffer keycode.EventBuffer
}

// OpenOutput creates and registers a uinput device named name, capable of
// sending every standard keyboard key code.
func OpenOutput(name string) (*OutputDevice, error) {
	fd, err := os.OpenFile("/dev/uinput", os.O_WRONLY|os.O_NONBLOCK, 0)
	if err != nil {
		return nil, fmt.Errorf("opening /dev/uinput: %w", err)
	}

	if err := ioctl(fd, uiSetEvBit, uintptr(evKey)); err != nil {
		fd.Close()
		return nil, fmt.Errorf("enabling EV_KEY: %w", err)
	}
	for code := uintptr(0); code < maxKeys; code++ {
		// Best effort: not every code in range is a real KEY_* constant,
		// but registering extras is harmless.
		_ = ioctl(fd, uiSetKeyBit, code)
	}

	var setup uinputSetup
	copy(setup.Name[:], name)
	setup.ID = inputID{BusType: 0x03, Vendor: 0x1, Product: 0x1, Version: 1}
	if err := ioctlPtr(fd, uiDevSetup, unsafe.Pointer(&setup)); err != nil {
		fd.Close()
		return nil, fmt.Errorf("UI_DEV_SETUP: %w", err)
	}
	if err := ioctl(fd, uiDevCreate, 0); err != nil {
		fd.Close()
		return nil, fmt.Errorf("UI_DEV_CREATE: %w", err)
	}

	return &OutputDevice{fd: fd, buffer: keycode.NewImmediateBuffer()}, nil
}

func ioctl(fd *os.File, request uintptr, arg uintptr) error {
	_, _, errno := syscall.Syscall(syscall.SYS_IOCTL, fd.Fd(), request, arg)
	if errno != 0 {
		return errno
	}
	return nil
}

func ioctlPtr(fd *os.File, request uintptr, arg unsafe.Pointer) error {
	_, _, errno := syscall.Syscall(syscall.SYS_IOCTL, fd.Fd(), request, uintptr(arg))
	if errno != 0 {
		return errno
	}
	return nil
}

func (d *OutputDevice) writeEvent(typ, code uint16, value int32) error {
	ev := inputEvent{Type: typ, Code: code, Value: value}
	return binary.Write(d.fd, binary.LittleEndian, &ev)
}

func (d *OutputDevice) sync() error {
	return d.writeEvent(evSyn, synReport, 0)
}

func (d *OutputDevice) sendUnbuffered(key keycode.SimpleKey, change keycode.KeyStateChange) {
	d.stats.Increment(change)
	value := int32(0)
	if change != keycode.Released {
		value = 1
	}
	_ = d.writeEvent(evKey, uint16(key), value)
	_ = d.sync()
}

// Send queues (key, change) through the active EventBuffer.
func (d *OutputDevice) Send(key keycode.SimpleKey, change keycode.KeyStateChange) {
	for _, item := range d.buffer.Add(key, change) {
		d.sendUnbuffered(item.Key, item.Change)
	}
}

// SendBypassBuffer writes event straight to the device, skipping the buffer.
func (d *OutputDevice) SendBypassBuffer(event keycode.InputEvent) {
	change := keycode.Released
	if event.Value != 0 {
		change = keycode.Pressed
	}
	d.stats.Increment(change)
	_ = d.writeEvent(evKey, uint16(event.Code), event.Value)
	_ = d.sync()
}

// SetBuffer replaces the active buffer, discarding anything still queued.
func (d *OutputDevice) SetBuffer(buf keycode.EventBuffer) { d.buffer = buf }

// Stats returns cumulative counts of events sent so far.
func (d *OutputDevice) Stats() keycode.KeyStats { return d.stats }

// Close destroys the virtual device.
func (d *OutputDevice) Close() error {
	_ = ioctl(d.fd, uiDevDestroy, 0)
	return d.fd.Close()
}
