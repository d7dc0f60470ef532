package parser

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/kbdremap/spacecadet/pkg/keycode"
)

// converter attempts to turn tree into a KeyCode, returning an error if
// tree doesn't match the shape this converter handles.
type converter func(tree KeyTree) (keycode.KeyCode, error)

var converters = []converter{
	convertSimpleKey,
	convertTransparent,
	convertOpaque,
	convertMacro,
	convertToggleLayer,
	convertMomentaryLayer,
	convertActivateLayer,
	convertHoldLayer,
	convertOneShotLayer,
	convertWrapped,
	convertSpaceCadet,
	convertLuaKey,
}

// ToKeyCode tries every known key-code grammar against tree, returning
// the first one that matches.
func ToKeyCode(tree KeyTree) (keycode.KeyCode, error) {
	for _, c := range converters {
		if code, err := c(tree); err == nil {
			return code, nil
		}
	}
	return nil, fmt.Errorf("%q does not match any known key-code grammar", tree.Identifier)
}

// FromString parses and converts one key-binding string in one step.
func FromString(s string) (keycode.KeyCode, error) {
	tree, err := Parse(s)
	if err != nil {
		return nil, err
	}
	return ToKeyCode(tree)
}

func convertSimpleKey(tree KeyTree) (keycode.KeyCode, error) {
	if len(tree.Args) != 0 {
		return nil, fmt.Errorf("simple keys don't take arguments")
	}
	split := strings.SplitN(tree.Identifier, "_", 2)
	if len(split) != 2 || split[0] != "KC" {
		return nil, fmt.Errorf("not a KC_ key")
	}
	name := "KEY_" + strings.ToUpper(split[1])
	key, ok := keycode.LookupSimpleKey(name)
	if !ok {
		return nil, fmt.Errorf("unknown key %q", name)
	}
	return keycode.SimpleKeyCode{Key: key}, nil
}

func simpleKeyFromTree(tree KeyTree) (keycode.SimpleKey, error) {
	code, err := convertSimpleKey(tree)
	if err != nil {
		return 0, err
	}
	return code.(keycode.SimpleKeyCode).Key, nil
}

func isAllRune(s string, r rune) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c != r {
			return false
		}
	}
	return true
}

func convertTransparent(tree KeyTree) (keycode.KeyCode, error) {
	if len(tree.Args) != 0 {
		return nil, fmt.Errorf("transparent keys don't take arguments")
	}
	if tree.Identifier == "KC_TRANS" || isAllRune(tree.Identifier, '_') {
		return keycode.TransparentKey{}, nil
	}
	return nil, fmt.Errorf("not a transparent key")
}

func convertOpaque(tree KeyTree) (keycode.KeyCode, error) {
	if len(tree.Args) != 0 {
		return nil, fmt.Errorf("opaque keys don't take arguments")
	}
	if tree.Identifier == "KC_OPAQUE" || isAllRune(tree.Identifier, 'X') {
		return keycode.OpaqueKey{}, nil
	}
	return nil, fmt.Errorf("not an opaque key")
}

func convertMacro(tree KeyTree) (keycode.KeyCode, error) {
	if tree.Identifier != "MACRO" {
		return nil, fmt.Errorf("wrong identifier")
	}
	keys := make([]keycode.SimpleKey, 0, len(tree.Args))
	for _, arg := range tree.Args {
		key, err := simpleKeyFromTree(arg)
		if err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return keycode.MacroKey{Trigger: keycode.Pressed, Keys: keys}, nil
}

// singleLayerArg extracts the one layer-name argument shared by
// TG/MO/AL/OSL.
func singleLayerArg(tree KeyTree) (string, error) {
	if len(tree.Args) != 1 {
		return "", fmt.Errorf("expected exactly one layer name argument")
	}
	return tree.Args[0].Identifier, nil
}

func convertToggleLayer(tree KeyTree) (keycode.KeyCode, error) {
	if tree.Identifier != "TG" {
		return nil, fmt.Errorf("wrong identifier")
	}
	name, err := singleLayerArg(tree)
	if err != nil {
		return nil, err
	}
	return keycode.ToggleLayerKey{LayerName: name}, nil
}

func convertMomentaryLayer(tree KeyTree) (keycode.KeyCode, error) {
	if tree.Identifier != "MO" {
		return nil, fmt.Errorf("wrong identifier")
	}
	name, err := singleLayerArg(tree)
	if err != nil {
		return nil, err
	}
	return keycode.MomentarilyEnableLayerKey{LayerName: name}, nil
}

func convertActivateLayer(tree KeyTree) (keycode.KeyCode, error) {
	if tree.Identifier != "AL" {
		return nil, fmt.Errorf("wrong identifier")
	}
	name, err := singleLayerArg(tree)
	if err != nil {
		return nil, err
	}
	return keycode.ActivateLayerKey{LayerName: name}, nil
}

func convertOneShotLayer(tree KeyTree) (keycode.KeyCode, error) {
	if tree.Identifier != "OSL" {
		return nil, fmt.Errorf("wrong identifier")
	}
	name, err := singleLayerArg(tree)
	if err != nil {
		return nil, err
	}
	return keycode.OneShotLayer{LayerName: name}, nil
}

func convertHoldLayer(tree KeyTree) (keycode.KeyCode, error) {
	if tree.Identifier != "LT" {
		return nil, fmt.Errorf("wrong identifier")
	}
	if len(tree.Args) != 3 {
		return nil, fmt.Errorf("LT expects exactly 3 arguments")
	}
	layerName := tree.Args[0].Identifier
	key, err := simpleKeyFromTree(tree.Args[1])
	if err != nil {
		return nil, err
	}
	ms, err := strconv.ParseInt(tree.Args[2].Identifier, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("couldn't convert duration to milliseconds: %w", err)
	}
	return &keycode.HoldEnableLayerPressKey{
		LayerName: layerName,
		Inner:     key,
		Threshold: time.Duration(ms) * time.Millisecond,
	}, nil
}

func convertWrapped(tree KeyTree) (keycode.KeyCode, error) {
	if tree.Identifier != "WRAP" {
		return nil, fmt.Errorf("wrong identifier")
	}
	if len(tree.Args) != 2 {
		return nil, fmt.Errorf("WRAP expects exactly 2 arguments")
	}
	outer, err := simpleKeyFromTree(tree.Args[0])
	if err != nil {
		return nil, err
	}
	inner, err := ToKeyCode(tree.Args[1])
	if err != nil {
		return nil, err
	}
	return keycode.WrappedKey{Outer: outer, Inner: inner}, nil
}

func convertSpaceCadet(tree KeyTree) (keycode.KeyCode, error) {
	if tree.Identifier != "SPACECADET" {
		return nil, fmt.Errorf("wrong identifier")
	}
	if len(tree.Args) != 2 {
		return nil, fmt.Errorf("SPACECADET expects exactly 2 arguments")
	}
	tap, err := ToKeyCode(tree.Args[0])
	if err != nil {
		return nil, err
	}
	mod, err := simpleKeyFromTree(tree.Args[1])
	if err != nil {
		return nil, err
	}
	return &keycode.SpaceCadet{Tap: tap, Mod: mod}, nil
}

func convertLuaKey(tree KeyTree) (keycode.KeyCode, error) {
	if tree.Identifier != "LUA" {
		return nil, fmt.Errorf("wrong identifier")
	}
	if len(tree.Args) != 1 {
		return nil, fmt.Errorf("LUA expects exactly 1 argument")
	}
	return keycode.NewLuaKey(tree.Args[0].Identifier)
}
