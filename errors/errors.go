package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseConstruct Phase = "construct" // interpreter construction
	PhaseEncode    Phase = "encode"    // Go to Lua
	PhaseDecode    Phase = "decode"    // Lua to Go
	PhaseEval      Phase = "eval"      // source evaluation
	PhaseInvoke    Phase = "invoke"    // method invocation
	PhaseInstall   Phase = "install"   // package installation
)

// Kind categorizes the error
type Kind string

const (
	KindLuaError     Kind = "lua_error"    // a raise inside the interpreter
	KindSyntax       Kind = "syntax"       // source failed to compile
	KindStateClosed  Kind = "state_closed" // operation on a terminated handle
	KindNotFound     Kind = "not_found"
	KindTypeMismatch Kind = "type_mismatch"
	KindInvalidInput Kind = "invalid_input"
	KindBootstrap    Kind = "bootstrap" // bundled helper failed to load
	KindUnsupported  Kind = "unsupported"
)

// Error is the structured error type used throughout the bridge.
// For foreign raises, Value holds the raised Lua error value and
// Traceback the interpreter stack trace when one was available.
type Error struct {
	Value     any
	Cause     error
	Phase     Phase
	Kind      Kind
	GoType    string
	LuaType   string
	Detail    string
	Traceback string
	Path      []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.GoType != "" || e.LuaType != "" {
		b.WriteString(": ")
		if e.GoType != "" && e.LuaType != "" {
			b.WriteString("Go type ")
			b.WriteString(e.GoType)
			b.WriteString(", Lua type ")
			b.WriteString(e.LuaType)
		} else if e.GoType != "" {
			b.WriteString("Go type ")
			b.WriteString(e.GoType)
		} else {
			b.WriteString("Lua type ")
			b.WriteString(e.LuaType)
		}
	}

	if e.Detail != "" {
		if e.GoType != "" || e.LuaType != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	if e.Traceback != "" {
		b.WriteString("\nlua traceback:\n")
		b.WriteString(e.Traceback)
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Path sets the value path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// GoType sets the Go type name
func (b *Builder) GoType(t string) *Builder {
	b.err.GoType = t
	return b
}

// LuaType sets the Lua type name
func (b *Builder) LuaType(t string) *Builder {
	b.err.LuaType = t
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Traceback sets the interpreter stack trace
func (b *Builder) Traceback(tb string) *Builder {
	b.err.Traceback = tb
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// Foreign creates an error for a raise inside the interpreter. message is
// the foreign diagnostic, traceback the interpreter stack trace ("" when
// unavailable), and value the raised Lua error value.
func Foreign(phase Phase, message, traceback string, value any) *Error {
	return &Error{
		Phase:     phase,
		Kind:      KindLuaError,
		Detail:    message,
		Traceback: traceback,
		Value:     value,
	}
}

// Syntax creates a compile failure error for the labeled source
func Syntax(label string, cause error) *Error {
	return &Error{
		Phase:  PhaseEval,
		Kind:   KindSyntax,
		Detail: fmt.Sprintf("compile %s", label),
		Cause:  cause,
	}
}

// StateClosed creates an error for use of a terminated handle
func StateClosed(phase Phase) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindStateClosed,
		Detail: "interpreter state is closed",
	}
}

// NotFound creates a not-found error
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %q not found", what, name),
	}
}

// TypeMismatch creates a type mismatch error
func TypeMismatch(phase Phase, path []string, goType, luaType string) *Error {
	return &Error{
		Phase:   phase,
		Kind:    KindTypeMismatch,
		Path:    path,
		GoType:  goType,
		LuaType: luaType,
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// Bootstrap creates a construction failure error for the bundled helper
func Bootstrap(detail string, cause error) *Error {
	return &Error{
		Phase:  PhaseConstruct,
		Kind:   KindBootstrap,
		Detail: detail,
		Cause:  cause,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}

// Diagnostic extracts the foreign message and traceback from err, if err
// carries a raise from inside the interpreter. Wrapping layers are walked
// through; the raise itself is recognized by the Lua error value it holds.
func Diagnostic(err error) (message, traceback string, ok bool) {
	for err != nil {
		if e, isErr := err.(*Error); isErr && e.Kind == KindLuaError && e.Value != nil {
			return e.Detail, e.Traceback, true
		}
		u, isWrap := err.(interface{ Unwrap() error })
		if !isWrap {
			return "", "", false
		}
		err = u.Unwrap()
	}
	return "", "", false
}
