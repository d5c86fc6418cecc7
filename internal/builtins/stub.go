package builtins

import (
	"fmt"
	"log"

	lua "github.com/yuin/gopher-lua"
)

// setStubMetatable gives tbl an __index that, for any key that isn't
// already present, logs a warning and returns a stub value instead of
// nil, matching original_source's api_table_stub: accessing
// component.frobnicate does not raise by itself, but calling the stub
// raises "attempt to call a nil value" naming the missing field.
func setStubMetatable(L *lua.LState, tbl *lua.LTable, tableName string) {
	mt := L.NewTable()
	mt.RawSetString("__index", L.NewFunction(func(L *lua.LState) int {
		key := L.CheckString(2)
		log.Printf("warning: %s: key %q not found", tableName, key)
		stub := L.NewTable()
		stubMt := L.NewTable()
		stubMt.RawSetString("__call", L.NewFunction(func(L *lua.LState) int {
			L.RaiseError("attempt to call a nil value (field %q of %s)", key, tableName)
			return 0
		}))
		L.SetMetatable(stub, stubMt)
		L.Push(stub)
		return 1
	}))
	L.SetMetatable(tbl, mt)
}

// registerCheckArg installs the global checkArg(n, have, ...) helper
// every component script uses to validate its own arguments, matching
// the error wording of original_source's Lua-source checkArg snippet.
func registerCheckArg(L *lua.LState) {
	L.SetGlobal("checkArg", L.NewFunction(func(L *lua.LState) int {
		n := L.CheckNumber(1)
		have := L.Get(2)
		haveType := have.Type().String()

		top := L.GetTop()
		matched := false
		var wanted []string
		for i := 3; i <= top; i++ {
			want := L.CheckString(i)
			wanted = append(wanted, want)
			if want == haveType {
				matched = true
			}
		}
		if !matched {
			msg := fmt.Sprintf("bad argument #%d (%s expected, got %s)", int(n), joinOr(wanted), haveType)
			L.RaiseError("%s", msg)
		}
		return 0
	}))
}

func joinOr(items []string) string {
	out := ""
	for i, s := range items {
		if i > 0 {
			out += " or "
		}
		out += s
	}
	return out
}
