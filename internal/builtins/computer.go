package builtins

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/occore/occore/internal/component"
)

func registerComputerTable(L *lua.LState, owner component.Owner) {
	tbl := L.NewTable()

	L.SetFuncs(tbl, map[string]lua.LGFunction{
		"setArchitecture": func(L *lua.LState) int { return 0 },

		"address": func(L *lua.LState) int {
			L.Push(lua.LString(owner.Address()))
			return 1
		},
		"uptime": func(L *lua.LState) int {
			L.Push(lua.LNumber(owner.UptimeSeconds()))
			return 1
		},
		"tmpAddress": func(L *lua.LState) int {
			L.Push(lua.LString(owner.TmpAddress()))
			return 1
		},
		"freeMemory": func(L *lua.LState) int {
			L.Push(lua.LNumber(owner.FreeMemory()))
			return 1
		},
		"totalMemory": func(L *lua.LState) int {
			L.Push(lua.LNumber(owner.TotalMemory()))
			return 1
		},
		"pushSignal": func(L *lua.LState) int {
			if L.GetTop() < 1 {
				L.RaiseError("computer.pushSignal(): at least one argument expected")
				return 0
			}
			if err := owner.PushSignal(argsToSignal(L, 1)); err != nil {
				L.RaiseError("%s", err.Error())
			}
			return 0
		},
		"pullSignal": func(L *lua.LState) int {
			if L.GetTop() > 1 {
				L.RaiseError("pullSignal: invalid number of arguments")
				return 0
			}
			var timeout *float64
			if L.GetTop() == 1 {
				secs := float64(L.CheckNumber(1))
				timeout = &secs
			}
			values, ok := owner.PullSignal(timeout)
			if !ok {
				return 0
			}
			return pushValues(L, values)
		},
		"shutdown": func(L *lua.LState) int {
			reboot := L.OptBool(1, false)
			owner.Shutdown(reboot)
			L.RaiseError("computer shut down")
			return 0
		},
		"beep": func(L *lua.LState) int {
			// No audio device to emulate; accepted and ignored.
			return 0
		},
		"getProgramLocations": func(L *lua.LState) int {
			t := L.NewTable()
			t.RawSetString("n", lua.LNumber(0))
			L.Push(t)
			return 1
		},
	})

	setStubMetatable(L, tbl, "computer")
	L.SetGlobal("computer", tbl)
}
