package engine

import (
	"strings"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/wippyai/lua-bridge/codec"
	"github.com/wippyai/lua-bridge/errors"
)

// Options holds configuration for interpreter creation.
type Options struct {
	// PersistLocals keeps top-level bindings created by one evaluation
	// visible to later evaluations on the same state. When false, each
	// evaluation gets a fresh local scope over the shared globals.
	PersistLocals bool
}

// State wraps one embedded Lua interpreter with its own heap, globals,
// environment table, and intern table.
//
// A State is single-owner and not safe for concurrent use: the interpreter
// holds mutable shared structures (globals, the persistent local scope,
// the intern table) that this layer does not lock. Use one State per
// goroutine.
type State struct {
	ls      *lua.LState
	env     *lua.LTable
	interns map[string]*lua.LUserData
	symMeta *lua.LTable
	mapMeta *lua.LTable
	persist bool
	locals  *lua.LTable
	closed  bool
}

// Open creates a configured interpreter with the full standard library.
func Open(opts Options) *State {
	ls := lua.NewState()
	s := &State{
		ls:      ls,
		interns: make(map[string]*lua.LUserData),
		persist: opts.PersistLocals,
	}

	s.env = ls.NewTable()
	ls.SetGlobal("ENV", s.env)

	s.mapMeta = ls.NewTable()

	s.symMeta = ls.NewTable()
	s.symMeta.RawSetString("__tostring", ls.NewFunction(symbolToString))

	if opts.PersistLocals {
		s.locals = s.newScope()
	}

	Logger().Debug("interpreter opened", zap.Bool("persist_locals", opts.PersistLocals))
	return s
}

func symbolToString(L *lua.LState) int {
	ud := L.CheckUserData(1)
	if sym, ok := ud.Value.(codec.Symbol); ok {
		L.Push(lua.LString(sym.String()))
	} else {
		L.Push(lua.LString("<userdata>"))
	}
	return 1
}

// Close terminates the interpreter immediately. Safe to call more than
// once; every operation after the first Close fails with a state_closed
// error.
func (s *State) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.ls.Close()
	Logger().Debug("interpreter closed")
}

// Closed reports whether the interpreter has been terminated.
func (s *State) Closed() bool { return s.closed }

// LState exposes the underlying interpreter for codec rules.
func (s *State) LState() *lua.LState { return s.ls }

// Global returns the named global as a raw foreign reference, undecoded.
func (s *State) Global(name string) lua.LValue {
	if s.closed {
		return lua.LNil
	}
	return s.ls.GetGlobal(name)
}

// Intern returns the state-scoped atom for name, creating it on first use.
// The same name always maps to the identical userdata within one State.
func (s *State) Intern(name string) lua.LValue {
	if ud, ok := s.interns[name]; ok {
		return ud
	}
	ud := s.ls.NewUserData()
	ud.Value = codec.Symbol(name)
	s.ls.SetMetatable(ud, s.symMeta)
	s.interns[name] = ud
	return ud
}

// MapMetatable returns the tag applied to tables encoded from Go maps.
func (s *State) MapMetatable() *lua.LTable { return s.mapMeta }

// SetLoadPaths replaces package.path with entries derived from paths, in
// order. Each path contributes the standard ?.lua and ?/init.lua patterns.
func (s *State) SetLoadPaths(paths []string) error {
	if s.closed {
		return errors.StateClosed(errors.PhaseConstruct)
	}
	parts := make([]string, 0, len(paths)*2)
	for _, p := range paths {
		p = strings.TrimRight(p, "/")
		parts = append(parts, p+"/?.lua", p+"/?/init.lua")
	}
	pkg := s.ls.GetGlobal("package")
	tbl, ok := pkg.(*lua.LTable)
	if !ok {
		return errors.New(errors.PhaseConstruct, errors.KindInvalidInput).
			Detail("package library not loaded").
			Build()
	}
	tbl.RawSetString("path", lua.LString(strings.Join(parts, ";")))
	return nil
}

// Setenv sets a variable in the interpreter's ENV table. This is the
// runtime's own environment namespace; the host process environment is
// never touched.
func (s *State) Setenv(key, value string) {
	if s.closed {
		return
	}
	s.env.RawSetString(key, lua.LString(value))
}

// Getenv reads a variable from the interpreter's ENV table.
func (s *State) Getenv(key string) (string, bool) {
	if s.closed {
		return "", false
	}
	v := s.env.RawGetString(key)
	if str, ok := v.(lua.LString); ok {
		return string(str), true
	}
	return "", false
}

// newScope builds a fresh evaluation scope: writes land in the scope,
// reads fall back to the real globals.
func (s *State) newScope() *lua.LTable {
	scope := s.ls.NewTable()
	mt := s.ls.NewTable()
	mt.RawSetString("__index", s.ls.Get(lua.GlobalsIndex))
	s.ls.SetMetatable(scope, mt)
	return scope
}

// chunkScope returns the environment for the next user evaluation.
func (s *State) chunkScope() *lua.LTable {
	if s.persist {
		if s.locals == nil {
			s.locals = s.newScope()
		}
		return s.locals
	}
	return s.newScope()
}
