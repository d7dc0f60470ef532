package parser

import (
	"testing"

	"github.com/kbdremap/spacecadet/pkg/keycode"
)

func TestParseZeroArgImplicitParens(t *testing.T) {
	tree, err := Parse("KC_A")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tree.Identifier != "KC_A" || len(tree.Args) != 0 {
		t.Fatalf("unexpected tree: %+v", tree)
	}
}

func TestParseNestedArguments(t *testing.T) {
	tree, err := Parse("WRAP(KC_LEFTSHIFT, KC_A)")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tree.Identifier != "WRAP" || len(tree.Args) != 2 {
		t.Fatalf("unexpected tree: %+v", tree)
	}
	if tree.Args[0].Identifier != "KC_LEFTSHIFT" || tree.Args[1].Identifier != "KC_A" {
		t.Fatalf("unexpected args: %+v", tree.Args)
	}
}

func TestParseDeeplyNested(t *testing.T) {
	tree, err := Parse("SPACECADET(WRAP(KC_LEFTSHIFT, KC_A), KC_LEFTSHIFT)")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tree.Identifier != "SPACECADET" || len(tree.Args) != 2 {
		t.Fatalf("unexpected tree: %+v", tree)
	}
	if tree.Args[0].Identifier != "WRAP" || len(tree.Args[0].Args) != 2 {
		t.Fatalf("unexpected nested arg: %+v", tree.Args[0])
	}
}

func TestParseRejectsUnbalancedParens(t *testing.T) {
	if _, err := Parse("WRAP(KC_A"); err == nil {
		t.Fatalf("expected an error for a missing \")\"")
	}
}

func TestParseRejectsMisplacedComma(t *testing.T) {
	if _, err := Parse("MACRO(,KC_A)"); err == nil {
		t.Fatalf("expected an error for a leading comma")
	}
}

func TestFromStringSimpleKey(t *testing.T) {
	code, err := FromString("KC_A")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	simple, ok := code.(keycode.SimpleKeyCode)
	if !ok {
		t.Fatalf("expected a SimpleKeyCode, got %T", code)
	}
	want, _ := keycode.LookupSimpleKey("KEY_A")
	if simple.Key != want {
		t.Fatalf("expected key %v, got %v", want, simple.Key)
	}
}

func TestFromStringTransparent(t *testing.T) {
	for _, s := range []string{"KC_TRANS", "____"} {
		code, err := FromString(s)
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", s, err)
		}
		if !code.IsTransparent() {
			t.Fatalf("expected %q to be transparent", s)
		}
	}
}

func TestFromStringOpaque(t *testing.T) {
	for _, s := range []string{"KC_OPAQUE", "XXXX"} {
		code, err := FromString(s)
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", s, err)
		}
		if code.IsTransparent() {
			t.Fatalf("expected %q to not be transparent", s)
		}
		if _, ok := code.(keycode.OpaqueKey); !ok {
			t.Fatalf("expected an OpaqueKey, got %T", code)
		}
	}
}

func TestFromStringMacro(t *testing.T) {
	code, err := FromString("MACRO(KC_H, KC_I)")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	macro, ok := code.(keycode.MacroKey)
	if !ok {
		t.Fatalf("expected a MacroKey, got %T", code)
	}
	if len(macro.Keys) != 2 || macro.Trigger != keycode.Pressed {
		t.Fatalf("unexpected macro: %+v", macro)
	}
}

func TestFromStringHoldEnableLayer(t *testing.T) {
	code, err := FromString("LT(nav, KC_ESC, 200)")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lt, ok := code.(*keycode.HoldEnableLayerPressKey)
	if !ok {
		t.Fatalf("expected a *HoldEnableLayerPressKey, got %T", code)
	}
	if lt.LayerName != "nav" || lt.Threshold.Milliseconds() != 200 {
		t.Fatalf("unexpected key: %+v", lt)
	}
}

func TestFromStringUnknownIdentifier(t *testing.T) {
	if _, err := FromString("NOT_A_REAL_KEY(1,2,3)"); err == nil {
		t.Fatalf("expected an error for an unrecognized identifier")
	}
}
