// Package builtins wires the guest-visible component/computer/unicode
// globals into a gopher-lua state, grounded on original_source's
// lua_bridge.cpp create_environment but built as plain Go closures
// instead of raw lua_push*/lua_settable C calls.
package builtins

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/occore/occore/internal/signal"
)

// toSignal converts a single Lua value into the strongly-typed signal.Value
// union used everywhere outside the Lua boundary.
func toSignal(lv lua.LValue) signal.Value {
	switch v := lv.(type) {
	case lua.LBool:
		return signal.Bool(bool(v))
	case lua.LNumber:
		return signal.Number(float64(v))
	case lua.LString:
		return signal.String(string(v))
	case *lua.LTable:
		var pairs []signal.Pair
		v.ForEach(func(k, val lua.LValue) {
			pairs = append(pairs, signal.Pair{Key: toSignal(k), Value: toSignal(val)})
		})
		return signal.Table(pairs)
	default:
		return signal.Nil()
	}
}

// argsToSignal converts every Lua argument starting at index `from`
// (1-based, inclusive) on the stack into signal.Values.
func argsToSignal(L *lua.LState, from int) []signal.Value {
	top := L.GetTop()
	if top < from {
		return nil
	}
	out := make([]signal.Value, 0, top-from+1)
	for i := from; i <= top; i++ {
		out = append(out, toSignal(L.Get(i)))
	}
	return out
}

// toLua converts a signal.Value back into a Lua value for returning to
// the guest script.
func toLua(L *lua.LState, v signal.Value) lua.LValue {
	switch v.Kind {
	case signal.KindNil:
		return lua.LNil
	case signal.KindBool:
		return lua.LBool(v.Bool)
	case signal.KindNumber:
		return lua.LNumber(v.Num)
	case signal.KindString:
		return lua.LString(v.Str)
	case signal.KindTable:
		t := L.NewTable()
		for _, p := range v.Table {
			t.RawSet(toLua(L, p.Key), toLua(L, p.Value))
		}
		return t
	default:
		return lua.LNil
	}
}

// pushValues converts and pushes every signal.Value onto the Lua stack,
// returning the count so callers can return it directly from an LGFunction.
func pushValues(L *lua.LState, values []signal.Value) int {
	for _, v := range values {
		L.Push(toLua(L, v))
	}
	return len(values)
}
