package engine

import (
	"context"

	lua "github.com/yuin/gopher-lua"

	"github.com/wippyai/lua-bridge/errors"
)

// Invoke calls the named method on target with target as the receiver.
// Method resolution follows Lua index semantics, walking __index chains,
// so string methods and metatable-based objects both work.
func (s *State) Invoke(ctx context.Context, target lua.LValue, method string, args ...lua.LValue) (lua.LValue, error) {
	if s.closed {
		return lua.LNil, errors.StateClosed(errors.PhaseInvoke)
	}

	fn, err := s.methodOf(target, method)
	if err != nil {
		return lua.LNil, err
	}
	if fn == lua.LNil {
		return lua.LNil, errors.New(errors.PhaseInvoke, errors.KindNotFound).
			LuaType(target.Type().String()).
			Detail("method %q not found", method).
			Build()
	}

	callable, ok := fn.(*lua.LFunction)
	if !ok {
		return lua.LNil, errors.New(errors.PhaseInvoke, errors.KindTypeMismatch).
			LuaType(fn.Type().String()).
			Detail("method %q is not callable", method).
			Build()
	}

	return s.call(ctx, method, errors.PhaseInvoke, callable, append([]lua.LValue{target}, args...)...)
}

// methodOf resolves name on target through raw access and __index chains.
// Resolution is done host-side so that a missing method is a structured
// error instead of an interpreter raise. __index functions run protected.
func (s *State) methodOf(target lua.LValue, name string) (lua.LValue, error) {
	cur := target
	for depth := 0; depth < 16; depth++ {
		if tbl, ok := cur.(*lua.LTable); ok {
			if v := tbl.RawGetString(name); v != lua.LNil {
				return v, nil
			}
		}
		mt := s.ls.GetMetatable(cur)
		mtbl, ok := mt.(*lua.LTable)
		if !ok {
			return lua.LNil, nil
		}
		idx := mtbl.RawGetString("__index")
		switch h := idx.(type) {
		case *lua.LFunction:
			if err := s.ls.CallByParam(lua.P{Fn: h, NRet: 1, Protect: true}, cur, lua.LString(name)); err != nil {
				return lua.LNil, mapError(errors.PhaseInvoke, name, err)
			}
			v := s.ls.Get(-1)
			s.ls.Pop(1)
			return v, nil
		case *lua.LTable:
			cur = h
		default:
			return lua.LNil, nil
		}
	}
	return lua.LNil, errors.New(errors.PhaseInvoke, errors.KindInvalidInput).
		Detail("__index chain too deep resolving %q", name).
		Build()
}
