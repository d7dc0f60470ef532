package keycode

import (
	"fmt"
	"log"

	lua "github.com/yuin/gopher-lua"
)

// LuaKey runs a small Lua script synchronously for each state change,
// calling whichever of on_press/on_release/on_held the script defines.
// The script runs to completion inside HandleEvent; there is no
// background scheduling or persistent goroutine.
type LuaKey struct {
	baseKey
	Path string

	state *lua.LState
}

// NewLuaKey compiles and loads the script at path once, up front, so a
// syntax error surfaces at matrix-build time instead of at first keypress.
func NewLuaKey(path string) (*LuaKey, error) {
	L := lua.NewState()
	if err := L.DoFile(path); err != nil {
		L.Close()
		return nil, fmt.Errorf("loading lua key %q: %w", path, err)
	}
	return &LuaKey{Path: path, state: L}, nil
}

func (k *LuaKey) funcName(change KeyStateChange) string {
	switch change {
	case Pressed:
		return "on_press"
	case Released:
		return "on_release"
	case Held:
		return "on_held"
	default:
		return ""
	}
}

// HandleEvent binds emit/layer_set/layer_toggle for the duration of the
// call, then invokes the script function matching change, if defined.
func (k *LuaKey) HandleEvent(ctx *KeyEventContext, change KeyStateChange) {
	name := k.funcName(change)
	if name == "" {
		return
	}
	fn := k.state.GetGlobal(name)
	if fn.Type() != lua.LTFunction {
		return
	}

	L := k.state
	L.SetGlobal("emit", L.NewFunction(func(L *lua.LState) int {
		keyName := L.CheckString(1)
		pressed := L.CheckBool(2)
		if key, ok := LookupSimpleKey(keyName); ok {
			state := Released
			if pressed {
				state = Pressed
			}
			ctx.Output.Send(key, state)
		}
		return 0
	}))
	L.SetGlobal("layer_set", L.NewFunction(func(L *lua.LState) int {
		ctx.Layers.Set(L.CheckString(1), L.CheckBool(2))
		return 0
	}))
	L.SetGlobal("layer_toggle", L.NewFunction(func(L *lua.LState) int {
		ctx.Layers.Toggle(L.CheckString(1))
		return 0
	}))

	if err := L.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true}); err != nil {
		log.Printf("lua key %q: %s handler error: %v", k.Path, name, err)
	}
}
