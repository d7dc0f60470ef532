package driver

import (
	"testing"
	"time"

	"github.com/kbdremap/spacecadet/pkg/keycode"
	"github.com/kbdremap/spacecadet/pkg/layer"
)

const (
	key1 keycode.SimpleKey = 1
	key2 keycode.SimpleKey = 2
)

func oneByTwoMatrix() keycode.KeyMatrix {
	a, b := key1, key2
	return keycode.KeyMatrix{{&a, &b}}
}

func newTestDriver(threshold time.Duration) (*Driver, *keycode.TestInputKeyboard, *keycode.TestOutputKeyboard) {
	in := keycode.NewTestInputKeyboard()
	out := keycode.NewTestOutputKeyboard()
	matrix := keycode.NewVirtualKeyboardMatrix(oneByTwoMatrix(), threshold)
	return New(in, out, matrix), in, out
}

func assertEvents(t *testing.T, out *keycode.TestOutputKeyboard, want ...keycode.InputEvent) {
	t.Helper()
	if len(out.Events) != len(want) {
		t.Fatalf("expected %d events, got %d: %v", len(want), len(out.Events), out.Events)
	}
	for i, w := range want {
		got := out.Events[i]
		if got.Code != w.Code || got.Value != w.Value {
			t.Fatalf("event %d: expected %+v, got %+v", i, w, got)
		}
	}
}

func keyEvent(key keycode.SimpleKey, change keycode.KeyStateChange) keycode.InputEvent {
	return keycode.InputEvent{Kind: keycode.EventKindKey, Code: key, Value: int32(change)}
}

// S1 — simple key: a press/hold/release in one tick produces exactly a
// Pressed then Released pair; the matrix reads the raw Held value-2 input
// as a redundant press, and no synthetic Held fires since no time elapses.
func TestS1SimpleKey(t *testing.T) {
	d, in, out := newTestDriver(0)
	base := layer.NewKeyCodeMatrix(keycode.Index2D{Row: 1, Col: 2})
	base.Codes[0][0] = keycode.SimpleKeyCode{Key: keycode.SimpleKey(30)} // KEY_A
	d.AddLayer(layer.LayerAttributes{Name: "base", Enabled: true}, base)

	in.Queue(key1, keycode.Pressed)
	in.Events = append(in.Events, keyEvent(key1, keycode.Held))
	in.Queue(key1, keycode.Released)

	d.Tick(time.Now())

	assertEvents(t, out, keyEvent(keycode.SimpleKey(30), keycode.Pressed), keyEvent(keycode.SimpleKey(30), keycode.Released))
}

// S2 — macro fires on Released, not Pressed.
func TestS2Macro(t *testing.T) {
	d, in, out := newTestDriver(0)
	base := layer.NewKeyCodeMatrix(keycode.Index2D{Row: 1, Col: 2})
	keyH, keyI := keycode.SimpleKey(35), keycode.SimpleKey(23)
	base.Codes[0][0] = keycode.MacroKey{Trigger: keycode.Released, Keys: []keycode.SimpleKey{keyH, keyI}}
	d.AddLayer(layer.LayerAttributes{Name: "base", Enabled: true}, base)

	now := time.Now()
	in.Queue(key1, keycode.Pressed)
	d.Tick(now)
	if len(out.Events) != 0 {
		t.Fatalf("expected no output on press, got %v", out.Events)
	}

	in.Queue(key1, keycode.Released)
	d.Tick(now)
	assertEvents(t, out,
		keyEvent(keyH, keycode.Pressed), keyEvent(keyH, keycode.Released),
		keyEvent(keyI, keycode.Pressed), keyEvent(keyI, keycode.Released),
	)
}

// S3 — toggling a layer blocks the release that follows the press, so the
// new layer only sees a clean press the next time the key goes down.
func TestS3ToggleLayer(t *testing.T) {
	d, in, out := newTestDriver(0)
	base := layer.NewKeyCodeMatrix(keycode.Index2D{Row: 1, Col: 2})
	base.Codes[0][0] = keycode.ToggleLayerKey{LayerName: "up"}
	up := layer.NewKeyCodeMatrix(keycode.Index2D{Row: 1, Col: 2})
	keyA := keycode.SimpleKey(30)
	up.Codes[0][0] = keycode.SimpleKeyCode{Key: keyA}
	d.AddLayer(layer.LayerAttributes{Name: "base", Enabled: true}, base)
	d.AddLayer(layer.LayerAttributes{Name: "up", Enabled: false}, up)

	now := time.Now()
	in.Queue(key1, keycode.Pressed)
	d.Tick(now)
	if !d.Layers().IsLayerEnabled("up") {
		t.Fatalf("expected up to be enabled after toggle")
	}
	if len(out.Events) != 0 {
		t.Fatalf("expected no output on tick 1, got %v", out.Events)
	}

	in.Queue(key1, keycode.Released)
	d.Tick(now)
	if len(out.Events) != 0 {
		t.Fatalf("expected the release to be blocked, got %v", out.Events)
	}

	in.Queue(key1, keycode.Pressed)
	d.Tick(now)
	assertEvents(t, out, keyEvent(keyA, keycode.Pressed))
}

// S4 — hold-or-tap: a quick tap emits the inner key; a long hold enables
// the layer and emits nothing.
func TestS4HoldOrTap(t *testing.T) {
	keyA := keycode.SimpleKey(30)

	t.Run("tap", func(t *testing.T) {
		d, in, out := newTestDriver(0)
		base := layer.NewKeyCodeMatrix(keycode.Index2D{Row: 1, Col: 2})
		base.Codes[0][0] = &keycode.HoldEnableLayerPressKey{LayerName: "up", Inner: keyA, Threshold: 15 * time.Millisecond}
		up := layer.NewKeyCodeMatrix(keycode.Index2D{Row: 1, Col: 2})
		d.AddLayer(layer.LayerAttributes{Name: "base", Enabled: true}, base)
		d.AddLayer(layer.LayerAttributes{Name: "up", Enabled: false}, up)

		t0 := time.Now()
		in.Queue(key1, keycode.Pressed)
		d.Tick(t0)
		in.Queue(key1, keycode.Released)
		d.Tick(t0.Add(10 * time.Millisecond))

		assertEvents(t, out, keyEvent(keyA, keycode.Pressed), keyEvent(keyA, keycode.Released))
		if d.Layers().IsLayerEnabled("up") {
			t.Fatalf("expected up to remain disabled after a quick tap")
		}
	})

	t.Run("hold", func(t *testing.T) {
		d, in, out := newTestDriver(0)
		base := layer.NewKeyCodeMatrix(keycode.Index2D{Row: 1, Col: 2})
		base.Codes[0][0] = &keycode.HoldEnableLayerPressKey{LayerName: "up", Inner: keyA, Threshold: 15 * time.Millisecond}
		up := layer.NewKeyCodeMatrix(keycode.Index2D{Row: 1, Col: 2})
		d.AddLayer(layer.LayerAttributes{Name: "base", Enabled: true}, base)
		d.AddLayer(layer.LayerAttributes{Name: "up", Enabled: false}, up)

		t0 := time.Now().Add(60 * time.Second)
		in.Queue(key1, keycode.Pressed)
		d.Tick(t0)
		in.Queue(key1, keycode.Released)
		d.Tick(t0.Add(20 * time.Millisecond))

		if len(out.Events) != 0 {
			t.Fatalf("expected no output from a long hold, got %v", out.Events)
		}
		if !d.Layers().IsLayerEnabled("up") {
			t.Fatalf("expected up to be enabled after a long hold")
		}
	})
}

// S5 — one-shot layer: enables on press, stays enabled through one other
// key's full press/release, then disables itself.
func TestS5OneShotLayer(t *testing.T) {
	d, in, out := newTestDriver(0)
	base := layer.NewKeyCodeMatrix(keycode.Index2D{Row: 1, Col: 2})
	base.Codes[0][0] = keycode.OneShotLayer{LayerName: "up"}
	up := layer.NewKeyCodeMatrix(keycode.Index2D{Row: 1, Col: 2})
	keyZ := keycode.SimpleKey(44)
	up.Codes[0][1] = keycode.SimpleKeyCode{Key: keyZ}
	d.AddLayer(layer.LayerAttributes{Name: "base", Enabled: true}, base)
	d.AddLayer(layer.LayerAttributes{Name: "up", Enabled: false}, up)

	now := time.Now()
	in.Queue(key1, keycode.Pressed)
	d.Tick(now)
	if !d.Layers().IsLayerEnabled("up") || len(out.Events) != 0 {
		t.Fatalf("tick1: expected up enabled and no output, got enabled=%v events=%v", d.Layers().IsLayerEnabled("up"), out.Events)
	}

	in.Queue(key1, keycode.Released)
	d.Tick(now)
	if len(out.Events) != 0 {
		t.Fatalf("tick2: expected the blocked release to produce no output, got %v", out.Events)
	}

	in.Queue(key2, keycode.Pressed)
	d.Tick(now)
	assertEvents(t, out, keyEvent(keyZ, keycode.Pressed))
	if !d.Layers().IsLayerEnabled("up") {
		t.Fatalf("tick3: expected up to still be enabled")
	}

	in.Queue(key2, keycode.Released)
	d.Tick(now)
	if len(out.Events) != 2 || out.Events[1].Code != keyZ || out.Events[1].Value != int32(keycode.Released) {
		t.Fatalf("tick4: expected a single additional KEY_Z released event, got %v", out.Events)
	}
	if d.Layers().IsLayerEnabled("up") {
		t.Fatalf("tick4: expected up to be disabled after the one-shot fired")
	}
}

// S6 — space cadet: a quick tap alone emits Tap; held alongside another
// key it behaves as Mod.
func TestS6SpaceCadet(t *testing.T) {
	keyShift := keycode.SimpleKey(42)
	keyZ := keycode.SimpleKey(44)
	keyY := keycode.SimpleKey(21)

	t.Run("tap", func(t *testing.T) {
		d, in, out := newTestDriver(0)
		base := layer.NewKeyCodeMatrix(keycode.Index2D{Row: 1, Col: 2})
		base.Codes[0][0] = &keycode.SpaceCadet{Tap: keycode.SimpleKeyCode{Key: keyZ}, Mod: keyShift}
		d.AddLayer(layer.LayerAttributes{Name: "base", Enabled: true}, base)

		now := time.Now()
		in.Queue(key1, keycode.Pressed)
		d.Tick(now)
		in.Queue(key1, keycode.Released)
		d.Tick(now)

		assertEvents(t, out, keyEvent(keyZ, keycode.Pressed), keyEvent(keyZ, keycode.Released))
	})

	t.Run("hold with another key", func(t *testing.T) {
		d, in, out := newTestDriver(0)
		base := layer.NewKeyCodeMatrix(keycode.Index2D{Row: 1, Col: 2})
		base.Codes[0][0] = &keycode.SpaceCadet{Tap: keycode.SimpleKeyCode{Key: keyZ}, Mod: keyShift}
		base.Codes[0][1] = keycode.SimpleKeyCode{Key: keyY}
		d.AddLayer(layer.LayerAttributes{Name: "base", Enabled: true}, base)

		now := time.Now()
		in.Queue(key1, keycode.Pressed)
		d.Tick(now)

		in.Queue(key2, keycode.Pressed)
		d.Tick(now)
		in.Queue(key2, keycode.Released)
		d.Tick(now)
		in.Queue(key2, keycode.Pressed)
		d.Tick(now)
		in.Queue(key2, keycode.Released)
		d.Tick(now)

		in.Queue(key1, keycode.Released)
		d.Tick(now)

		assertEvents(t, out,
			keyEvent(keyShift, keycode.Pressed),
			keyEvent(keyY, keycode.Pressed), keyEvent(keyY, keycode.Released),
			keyEvent(keyY, keycode.Pressed), keyEvent(keyY, keycode.Released),
			keyEvent(keyShift, keycode.Released),
		)
	})
}
