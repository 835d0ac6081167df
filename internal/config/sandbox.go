package config

import (
	lua "github.com/yuin/gopher-lua"
)

// sandboxedGlobals are removed before user code runs. string, table, math
// and the basic functions (type, pairs, ipairs, tostring) stay available.
var sandboxedGlobals = []string{
	"os",
	"io",
	"debug",
	"require",
	"dofile",
	"loadfile",
	"load",
	"loadstring",
	"module",
	"collectgarbage",
}

func sandboxLuaVM(L *lua.LState) {
	for _, name := range sandboxedGlobals {
		L.SetGlobal(name, lua.LNil)
	}
}

// newSandboxedVM creates the Lua state used for config evaluation.
func newSandboxedVM() *lua.LState {
	L := lua.NewState(lua.Options{
		CallStackSize: 256,
		RegistrySize:  1024 * 8,
	})
	sandboxLuaVM(L)
	return L
}
