package config

import (
	lua "github.com/yuin/gopher-lua"
)

// sandboxLibs are the only standard libraries a config VM opens. package,
// os, io, debug and channel are never loaded, so they cannot be reached
// through package.loaded either.
var sandboxLibs = []struct {
	name string
	open lua.LGFunction
}{
	{lua.BaseLibName, lua.OpenBase},
	{lua.TabLibName, lua.OpenTable},
	{lua.StringLibName, lua.OpenString},
	{lua.MathLibName, lua.OpenMath},
}

// blockedBaseFuncs load code from outside the config or swap function
// environments.
var blockedBaseFuncs = []string{
	"require", "module", "dofile", "loadfile", "load", "loadstring",
	"getfenv", "setfenv",
}

// sandboxLuaVM opens the allowed libraries on a VM created with
// SkipOpenLibs and removes the base functions that load code.
func sandboxLuaVM(L *lua.LState) {
	for _, lib := range sandboxLibs {
		L.Push(L.NewFunction(lib.open))
		L.Push(lua.LString(lib.name))
		L.Call(1, 0)
	}
	for _, name := range blockedBaseFuncs {
		L.SetGlobal(name, lua.LNil)
	}
}

// newSandboxedVM creates a Lua VM with sandboxing applied.
func newSandboxedVM() *lua.LState {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	sandboxLuaVM(L)
	return L
}
