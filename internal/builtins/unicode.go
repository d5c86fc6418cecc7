package builtins

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
	lua "github.com/yuin/gopher-lua"
)

// registerUnicodeTable reimplements original_source's UnicodeAPI, which
// wraps a hand-rolled C utf8 library (lua_utf8.c). Go's unicode/utf8
// and unicode packages cover sub/len/char/lower/upper/reverse directly;
// the terminal display-width functions (wlen/wtrunc/charWidth/isWide)
// use mattn/go-runewidth, the same width library the charmbracelet
// terminal stack depends on elsewhere in this module.
func registerUnicodeTable(L *lua.LState) {
	tbl := L.NewTable()

	L.SetFuncs(tbl, map[string]lua.LGFunction{
		"sub": func(L *lua.LState) int {
			s := L.CheckString(1)
			i := int(L.CheckNumber(2))
			j := int(L.OptNumber(3, lua.LNumber(-1)))
			runes := []rune(s)
			lo, hi := utf8Range(len(runes), i, j)
			if lo > hi {
				L.Push(lua.LString(""))
				return 1
			}
			L.Push(lua.LString(string(runes[lo-1 : hi])))
			return 1
		},
		"len": func(L *lua.LState) int {
			s := L.CheckString(1)
			L.Push(lua.LNumber(utf8.RuneCountInString(s)))
			return 1
		},
		"char": func(L *lua.LState) int {
			var sb strings.Builder
			for i := 1; i <= L.GetTop(); i++ {
				sb.WriteRune(rune(int(L.CheckNumber(i))))
			}
			L.Push(lua.LString(sb.String()))
			return 1
		},
		"wlen": func(L *lua.LState) int {
			s := L.CheckString(1)
			L.Push(lua.LNumber(runewidth.StringWidth(s)))
			return 1
		},
		"wtrunc": func(L *lua.LState) int {
			s := L.CheckString(1)
			limit := int(L.CheckNumber(2))
			var sb strings.Builder
			width := 0
			for _, r := range s {
				rw := runewidth.RuneWidth(r)
				if width+rw > limit {
					break
				}
				sb.WriteRune(r)
				width += rw
			}
			L.Push(lua.LString(sb.String()))
			return 1
		},
		"charWidth": func(L *lua.LState) int {
			s := L.CheckString(1)
			r, _ := utf8.DecodeRuneInString(s)
			L.Push(lua.LNumber(runewidth.RuneWidth(r)))
			return 1
		},
		"isWide": func(L *lua.LState) int {
			s := L.CheckString(1)
			r, _ := utf8.DecodeRuneInString(s)
			L.Push(lua.LBool(runewidth.RuneWidth(r) > 1))
			return 1
		},
		"lower": func(L *lua.LState) int {
			L.Push(lua.LString(strings.Map(unicode.ToLower, L.CheckString(1))))
			return 1
		},
		"upper": func(L *lua.LState) int {
			L.Push(lua.LString(strings.Map(unicode.ToUpper, L.CheckString(1))))
			return 1
		},
		"reverse": func(L *lua.LState) int {
			s := []rune(L.CheckString(1))
			for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
				s[i], s[j] = s[j], s[i]
			}
			L.Push(lua.LString(string(s)))
			return 1
		},
	})

	setStubMetatable(L, tbl, "unicode")
	L.SetGlobal("unicode", tbl)
}

// utf8Range converts Lua's 1-based, negative-indexes-from-the-end
// string.sub semantics into a clamped [lo, hi] pair over n runes.
func utf8Range(n, i, j int) (int, int) {
	if i < 0 {
		i = n + i + 1
	}
	if j < 0 {
		j = n + j + 1
	}
	if i < 1 {
		i = 1
	}
	if j > n {
		j = n
	}
	return i, j
}
