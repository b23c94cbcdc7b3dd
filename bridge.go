package luabridge

import (
	"context"
	"io"
)

// Evaluator runs Lua source inside an interpreter handle and returns the
// decoded result.
type Evaluator interface {
	// Eval executes source in the handle's scope. Expression sources
	// return their value; statement sources return whatever they return.
	Eval(ctx context.Context, source string) (any, error)

	// EvalReader executes source streamed from rd, labeled for
	// diagnostics.
	EvalReader(ctx context.Context, rd io.Reader, label string) (any, error)
}

// Invoker calls methods on values inside an interpreter handle.
type Invoker interface {
	// Invoke encodes target and args, calls method with target as the
	// receiver, and returns the decoded result.
	Invoke(ctx context.Context, target any, method string, args ...any) (any, error)

	// Global returns the named global as an opaque foreign reference
	// suitable for Invoke, or nil when unset.
	Global(name string) any
}
