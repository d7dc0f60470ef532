package config

import (
	"testing"

	"github.com/kbdremap/spacecadet/pkg/driver"
	"github.com/kbdremap/spacecadet/pkg/keycode"
)

func TestLoadLayersOrdersBottomUpAndParsesCells(t *testing.T) {
	path := writeTempFile(t, "layers.json", `{
		"layer_order": ["base", "up"],
		"base": {"enabled": true, "keys": [["KC_A", "TG(up)"]]},
		"up": {"enabled": false, "keys": [["KC_TRANS", "KC_Z"]]}
	}`)

	d := driver.New(keycode.NewTestInputKeyboard(), keycode.NewTestOutputKeyboard(),
		keycode.NewVirtualKeyboardMatrix(keycode.KeyMatrix{{nil, nil}}, 0))

	if err := LoadLayers(path, d, keycode.Index2D{Row: 1, Col: 2}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if d.Layers().Len() != 2 {
		t.Fatalf("expected 2 layers, got %d", d.Layers().Len())
	}
	if d.Layers().IsLayerEnabled("base") != true || d.Layers().IsLayerEnabled("up") != false {
		t.Fatalf("unexpected initial layer enablement")
	}
	idx, ok := d.Layers().IndexOf("up")
	if !ok || idx != 1 {
		t.Fatalf("expected \"up\" to have the highest precedence index, got %d ok=%v", idx, ok)
	}
}

func TestLoadLayersRejectsUnknownCellGrammar(t *testing.T) {
	path := writeTempFile(t, "layers.json", `{
		"layer_order": ["base"],
		"base": {"enabled": true, "keys": [["NOT_A_KEY_AT_ALL"]]}
	}`)

	d := driver.New(keycode.NewTestInputKeyboard(), keycode.NewTestOutputKeyboard(),
		keycode.NewVirtualKeyboardMatrix(keycode.KeyMatrix{{nil}}, 0))

	if err := LoadLayers(path, d, keycode.Index2D{Row: 1, Col: 1}); err == nil {
		t.Fatalf("expected an error for an unrecognized cell grammar")
	}
}

func TestLoadLayersRejectsMissingLayerOrder(t *testing.T) {
	path := writeTempFile(t, "layers.json", `{"base": {"enabled": true, "keys": [["KC_A"]]}}`)

	d := driver.New(keycode.NewTestInputKeyboard(), keycode.NewTestOutputKeyboard(),
		keycode.NewVirtualKeyboardMatrix(keycode.KeyMatrix{{nil}}, 0))

	if err := LoadLayers(path, d, keycode.Index2D{Row: 1, Col: 1}); err == nil {
		t.Fatalf("expected an error for a missing layer_order")
	}
}
