package builtins

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/occore/occore/internal/component"
)

// osAllowed mirrors original_source's remove_os_libs allowlist: every
// other os.* function is stripped from the guest environment.
var osAllowed = map[string]bool{
	"time": true, "clock": true, "date": true, "difftime": true,
}

// Register installs component, computer, checkArg and unicode into L,
// then trims the stdlib os table and removes require, matching
// original_source's create_environment.
func Register(L *lua.LState, owner component.Owner, bus Bus) {
	registerComponentTable(L, owner, bus)
	registerComputerTable(L, owner)
	registerCheckArg(L)
	registerUnicodeTable(L)

	L.SetGlobal("require", lua.LNil)

	osTable, ok := L.GetGlobal("os").(*lua.LTable)
	if ok {
		var drop []lua.LValue
		osTable.ForEach(func(k, _ lua.LValue) {
			if name, isStr := k.(lua.LString); !isStr || !osAllowed[string(name)] {
				drop = append(drop, k)
			}
		})
		for _, k := range drop {
			osTable.RawSet(k, lua.LNil)
		}
	}
}
