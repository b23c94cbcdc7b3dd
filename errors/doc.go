// Package errors provides structured error types for the lua-bridge library.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error
// category). The Error type includes rich context: value path, Go/Lua type
// names, foreign traceback, and cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseEncode, errors.KindTypeMismatch).
//		Path("config", "sources").
//		GoType("chan int").
//		Detail("channels cannot cross the bridge").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.Foreign(errors.PhaseEval, msg, traceback, value)
//	err := errors.NotFound(errors.PhaseInvoke, "method", "upper")
//
// All errors implement the standard error interface and support errors.Is/As.
// A raise inside the interpreter always surfaces with Kind lua_error carrying
// the foreign message, the raised value, and the traceback when the
// interpreter produced one; Diagnostic retrieves them from a wrapped chain.
package errors
