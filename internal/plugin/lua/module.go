package lua

import (
	"context"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/keyremap/internal/session"
)

// installModule exposes the keyremap table:
//
//	keyremap.command(name, fn [, defaults])
//	                            register fn(args) as a host command; defaults
//	                            are passed when a binding gives no args
//	keyremap.feed(keys)         type keys, e.g. "dd" or {"<Esc>", "x"}
//	keyremap.exec(line)         run a line command, e.g. "w"
//	keyremap.text()             buffer text
//	keyremap.mode()             current mode name
//	keyremap.message(msg)       set the status message
//	keyremap.log(msg)           write to the editor log
func (s *State) installModule() {
	mod := s.L.SetFuncs(s.L.NewTable(), map[string]lua.LGFunction{
		"command": s.luaCommand,
		"feed":    s.luaFeed,
		"exec":    s.luaExec,
		"text":    s.luaText,
		"mode":    s.luaMode,
		"message": s.luaMessage,
		"log":     s.luaLog,
	})
	s.L.SetGlobal(ModuleName, mod)
}

func (s *State) luaCommand(L *lua.LState) int {
	name := L.CheckString(1)
	fn := L.CheckFunction(2)
	if name == "" {
		L.ArgError(1, "command name must not be empty")
		return 0
	}
	s.register(name, fn, toGo(L.Get(3)))
	return 0
}

func (s *State) luaFeed(L *lua.LState) int {
	sess := s.session(L)

	var (
		toks []string
		err  error
	)
	switch v := L.CheckAny(1).(type) {
	case lua.LString:
		toks, err = s.normalizer.Sequence(string(v))
	case *lua.LTable:
		specs := make([]string, 0, v.Len())
		for i := 1; i <= v.Len(); i++ {
			specs = append(specs, lua.LVAsString(v.RawGetInt(i)))
		}
		toks, err = s.normalizer.Keys(specs)
	default:
		L.ArgError(1, "string or table expected")
		return 0
	}
	if err != nil {
		L.RaiseError("feed: %v", err)
		return 0
	}

	if err := sess.HandleKeys(s.context(L), toks...); err != nil {
		L.RaiseError("feed: %v", err)
	}
	return 0
}

func (s *State) luaExec(L *lua.LState) int {
	sess := s.session(L)
	if err := sess.RunLineCommand(s.context(L), L.CheckString(1)); err != nil {
		L.RaiseError("exec: %v", err)
	}
	return 0
}

func (s *State) luaText(L *lua.LState) int {
	L.Push(lua.LString(s.session(L).Text()))
	return 1
}

func (s *State) luaMode(L *lua.LState) int {
	L.Push(lua.LString(s.session(L).Mode().String()))
	return 1
}

func (s *State) luaMessage(L *lua.LState) int {
	s.session(L).SetMessage(L.CheckString(1))
	return 0
}

func (s *State) luaLog(L *lua.LState) int {
	s.logger.Info("%s", L.CheckString(1))
	return 0
}

// session returns the session of the running command. Editor functions
// are only available while a command runs, not while a script loads.
func (s *State) session(L *lua.LState) *session.Session {
	if s.current == nil {
		L.RaiseError("%s: editor functions are only available inside commands", ModuleName)
	}
	return s.current
}

func (s *State) context(L *lua.LState) context.Context {
	if ctx := L.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
