// Package engine provides the low-level gopher-lua integration: one
// embedded interpreter per State, with evaluation scopes, the in-runtime
// ENV table, symbol interning, and method invocation.
//
// Most applications use the runtime package instead, which layers value
// conversion and lifecycle management on top of State.
//
// # Evaluation scopes
//
// Top-level assignments in an evaluated chunk land in an evaluation scope,
// a table whose reads fall back to the interpreter's real globals. In
// persistent mode one scope lives for the whole State, so bindings survive
// across evaluations; in transient mode every evaluation gets a fresh
// scope. EvalModule bypasses the scope and writes definitions straight
// into the globals, which is how the bundled bootstrap becomes visible to
// every later evaluation regardless of mode.
//
// # Error mapping
//
// Raises inside the interpreter surface as *errors.Error with kind
// lua_error, carrying the foreign message, the raised value, and the
// interpreter traceback. Compile failures surface with kind syntax.
// Nothing is retried or swallowed.
package engine
