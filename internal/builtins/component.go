package builtins

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/occore/occore/internal/component"
)

// Bus is what the guest-facing component table needs from a Computer:
// address resolution (for type/invoke/proxy) and filtered enumeration
// (for list). Grounded on original_source's Computer::get_component /
// Computer::get_components.
type Bus interface {
	ResolveComponent(addr string) (component.Component, bool)
	ListComponents(filter string, exact bool) []component.AddressType
}

func registerComponentTable(L *lua.LState, owner component.Owner, bus Bus) {
	tbl := L.NewTable()

	L.SetFuncs(tbl, map[string]lua.LGFunction{
		"type": func(L *lua.LState) int {
			addr := L.CheckString(1)
			c, ok := bus.ResolveComponent(addr)
			if !ok {
				L.RaiseError("type: no such component: %s", addr)
				return 0
			}
			L.Push(lua.LString(c.Type()))
			return 1
		},
		"list": func(L *lua.LState) int {
			filter := L.OptString(1, "")
			exact := L.OptBool(2, false)
			entries := bus.ListComponents(filter, exact)

			result := L.NewTable()
			for _, e := range entries {
				result.RawSetString(e.Address, lua.LString(e.Type))
			}

			idx := 0
			mt := L.NewTable()
			mt.RawSetString("__call", L.NewFunction(func(L *lua.LState) int {
				if idx >= len(entries) {
					L.Push(lua.LNil)
					return 1
				}
				e := entries[idx]
				idx++
				L.Push(lua.LString(e.Address))
				L.Push(lua.LString(e.Type))
				return 2
			}))
			L.SetMetatable(result, mt)
			L.Push(result)
			return 1
		},
		"invoke": func(L *lua.LState) int {
			addr := L.CheckString(1)
			method := L.CheckString(2)
			c, ok := bus.ResolveComponent(addr)
			if !ok {
				L.RaiseError("invoke: no such component: %s", addr)
				return 0
			}
			results, err := c.Invoke(owner, method, argsToSignal(L, 3))
			if err != nil {
				L.RaiseError("%s", err.Error())
				return 0
			}
			return pushValues(L, results)
		},
		"proxy": func(L *lua.LState) int {
			addr := L.CheckString(1)
			c, ok := bus.ResolveComponent(addr)
			if !ok {
				L.RaiseError("proxy: no such component: %s", addr)
				return 0
			}
			L.Push(buildProxy(L, owner, c))
			return 1
		},
	})

	setStubMetatable(L, tbl, "component")
	L.SetGlobal("component", tbl)
}

// buildProxy mirrors original_source's ComponentAPI::proxy: a table of
// bound-method closures plus address/type fields, with a stub metatable
// so an unknown proxy method fails the same way an unknown component
// table key does.
func buildProxy(L *lua.LState, owner component.Owner, c component.Component) *lua.LTable {
	tbl := L.NewTable()
	for _, method := range c.Methods() {
		m := method
		tbl.RawSetString(m, L.NewFunction(func(L *lua.LState) int {
			// arg 1 is the proxy table itself (method-call syntax proxy:foo(...)).
			results, err := c.Invoke(owner, m, argsToSignal(L, 2))
			if err != nil {
				L.RaiseError("%s", err.Error())
				return 0
			}
			return pushValues(L, results)
		}))
	}
	tbl.RawSetString("address", lua.LString(c.Address()))
	tbl.RawSetString("type", lua.LString(c.Type()))
	setStubMetatable(L, tbl, "proxy for component "+c.Name())
	return tbl
}
