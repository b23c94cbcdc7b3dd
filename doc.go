// Package luabridge lets a Go host drive an embedded Lua interpreter:
// exchanging values in both directions, invoking methods across the
// boundary, and managing the interpreter's lifecycle.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct
// responsibilities:
//
//	luabridge/        Root package with the Evaluator and Invoker interfaces
//	├── runtime/      High-level handle API: construction, eval, invoke, teardown
//	├── engine/       Low-level gopher-lua integration
//	├── codec/        Bidirectional value conversion between Go and Lua
//	├── rocks/        Package installation orchestration
//	└── errors/       Structured error types for debugging
//
// # Quick Start
//
// Evaluate code in a scoped runtime:
//
//	err := runtime.With(runtime.Config{}, func(rt *runtime.Runtime) error {
//	    v, err := rt.Eval(ctx, "1 + 2")
//	    if err != nil {
//	        return err
//	    }
//	    fmt.Println(v) // int64(3)
//	    return nil
//	})
//
// # Value Conversion
//
// Scalars, strings, sequences, and mappings convert to their native
// counterparts on each side; codec.Symbol values intern as runtime-scoped
// atoms. Host types with no conversion rule cross the bridge boxed and
// come back unchanged, and foreign values with no decoder stay opaque
// references - conversion gaps are never errors. The dispatch tables are
// open; see the codec package for registering rules.
//
// # Lifecycle
//
// Each handle owns exactly one interpreter. runtime.With brackets a body
// with guaranteed termination; Close terminates immediately;
// Retain/Release reference-count shared handles so the last holder
// releases the interpreter.
//
// # Thread Safety
//
// A handle is single-goroutine: the interpreter's globals, local scopes,
// and intern table are unsynchronized shared state. Use one runtime per
// worker for parallel execution.
package luabridge
