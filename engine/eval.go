package engine

import (
	"context"
	"io"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/wippyai/lua-bridge/errors"
)

// Eval compiles and runs source in the state's evaluation scope and
// returns the raw result value. The source is first compiled as an
// expression ("return <source>"); statement sources fall back to a plain
// chunk, whose result is whatever the chunk returns.
func (s *State) Eval(ctx context.Context, source, label string) (lua.LValue, error) {
	if s.closed {
		return lua.LNil, errors.StateClosed(errors.PhaseEval)
	}
	fn, err := s.ls.Load(strings.NewReader("return "+source), label)
	if err != nil {
		var perr error
		fn, perr = s.ls.Load(strings.NewReader(source), label)
		if perr != nil {
			// Report the plain-chunk failure: the source was never an
			// expression to begin with.
			return lua.LNil, mapError(errors.PhaseEval, label, perr)
		}
	}
	fn.Env = s.chunkScope()
	return s.call(ctx, label, errors.PhaseEval, fn)
}

// EvalReader runs source streamed from r, labeled for diagnostics. No
// expression templating is applied. The chunk runs in the state's
// evaluation scope like Eval.
func (s *State) EvalReader(ctx context.Context, r io.Reader, label string) (lua.LValue, error) {
	if s.closed {
		return lua.LNil, errors.StateClosed(errors.PhaseEval)
	}
	fn, err := s.ls.Load(r, label)
	if err != nil {
		return lua.LNil, mapError(errors.PhaseEval, label, err)
	}
	fn.Env = s.chunkScope()
	return s.call(ctx, label, errors.PhaseEval, fn)
}

// EvalModule runs source with the real global table as its environment,
// so definitions persist for the lifetime of the state regardless of the
// locals mode. Construction uses this for the bundled bootstrap.
func (s *State) EvalModule(ctx context.Context, r io.Reader, label string) (lua.LValue, error) {
	if s.closed {
		return lua.LNil, errors.StateClosed(errors.PhaseEval)
	}
	fn, err := s.ls.Load(r, label)
	if err != nil {
		return lua.LNil, mapError(errors.PhaseEval, label, err)
	}
	return s.call(ctx, label, errors.PhaseEval, fn)
}

// call runs fn protected, forwarding ctx to the interpreter so a
// caller-supplied deadline interrupts foreign execution. A background
// context blocks until the interpreter returns.
func (s *State) call(ctx context.Context, label string, phase errors.Phase, fn *lua.LFunction, args ...lua.LValue) (lua.LValue, error) {
	if ctx != nil {
		s.ls.SetContext(ctx)
		defer s.ls.RemoveContext()
	}
	if err := s.ls.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, args...); err != nil {
		return lua.LNil, mapError(phase, label, err)
	}
	ret := s.ls.Get(-1)
	s.ls.Pop(1)
	return ret, nil
}

// mapError converts gopher-lua failures into the bridge's error taxonomy,
// preserving the foreign diagnostic and traceback.
func mapError(phase errors.Phase, label string, err error) error {
	apiErr, ok := err.(*lua.ApiError)
	if !ok {
		return errors.Wrap(phase, errors.KindLuaError, err, "interpreter failure")
	}
	if apiErr.Type == lua.ApiErrorSyntax {
		return errors.Syntax(label, err)
	}
	e := errors.Foreign(phase, apiErr.Object.String(), apiErr.StackTrace, apiErr.Object)
	e.LuaType = apiErr.Object.Type().String()
	return e
}
