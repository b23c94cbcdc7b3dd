package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name: "full error",
			err: &Error{
				Phase:   PhaseEncode,
				Kind:    KindTypeMismatch,
				Path:    []string{"config", "sources"},
				GoType:  "chan int",
				LuaType: "table",
				Detail:  "cannot convert",
			},
			contains: []string{"[encode]", "type_mismatch", "config.sources", "chan int", "table", "cannot convert"},
		},
		{
			name: "minimal error",
			err: &Error{
				Phase: PhaseDecode,
				Kind:  KindInvalidInput,
			},
			contains: []string{"[decode]", "invalid_input"},
		},
		{
			name: "error with cause",
			err: &Error{
				Phase:  PhaseConstruct,
				Kind:   KindBootstrap,
				Detail: "evaluate bootstrap",
				Cause:  errors.New("underlying error"),
			},
			contains: []string{"[construct]", "bootstrap", "evaluate bootstrap", "caused by", "underlying error"},
		},
		{
			name: "foreign raise with traceback",
			err: &Error{
				Phase:     PhaseEval,
				Kind:      KindLuaError,
				Detail:    "attempt to call a nil value",
				Traceback: "stack traceback:\n\t[G]: ?",
			},
			contains: []string{"[eval]", "lua_error", "attempt to call a nil value", "lua traceback", "stack traceback"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !strings.Contains(msg, s) {
					t.Errorf("error message %q does not contain %q", msg, s)
				}
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := &Error{
		Phase: PhaseEval,
		Kind:  KindLuaError,
		Cause: cause,
	}

	if !errors.Is(err.Unwrap(), cause) {
		t.Error("Unwrap did not return cause")
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is did not follow the cause chain")
	}
}

func TestError_Is(t *testing.T) {
	err := &Error{
		Phase:  PhaseEval,
		Kind:   KindLuaError,
		Detail: "boom",
	}

	if !errors.Is(err, &Error{Phase: PhaseEval, Kind: KindLuaError}) {
		t.Error("Is should match on Phase+Kind")
	}
	if errors.Is(err, &Error{Phase: PhaseInvoke, Kind: KindLuaError}) {
		t.Error("Is should not match a different phase")
	}
	if errors.Is(err, &Error{Phase: PhaseEval, Kind: KindSyntax}) {
		t.Error("Is should not match a different kind")
	}
}

func TestBuilder(t *testing.T) {
	cause := errors.New("io failure")
	err := New(PhaseInstall, KindNotFound).
		Path("sources", "2").
		Detail("package %s not found", "greeter").
		Cause(cause).
		Build()

	if err.Phase != PhaseInstall || err.Kind != KindNotFound {
		t.Errorf("builder lost phase/kind: %+v", err)
	}
	if err.Detail != "package greeter not found" {
		t.Errorf("Detail = %q", err.Detail)
	}
	if !errors.Is(err, cause) {
		t.Error("builder lost cause")
	}
}

func TestDiagnostic(t *testing.T) {
	raise := Foreign(PhaseInvoke, "bad argument", "stack traceback: ...", "bad argument")
	wrapped := Wrap(PhaseInstall, KindInvalidInput, raise, "install greeter")

	msg, tb, ok := Diagnostic(wrapped)
	if !ok {
		t.Fatal("Diagnostic did not find the foreign raise")
	}
	if msg != "bad argument" {
		t.Errorf("unexpected message %q", msg)
	}
	if tb != "stack traceback: ..." {
		t.Errorf("unexpected traceback %q", tb)
	}

	if _, _, ok := Diagnostic(errors.New("plain")); ok {
		t.Error("Diagnostic matched a non-bridge error")
	}

	// A lua_error wrapper without a raised value is context, not the raise.
	rewrapped := Wrap(PhaseInstall, KindLuaError, raise, "install greeter")
	msg, _, ok = Diagnostic(rewrapped)
	if !ok || msg != "bad argument" {
		t.Errorf("Diagnostic stopped at the wrapper: %q, %v", msg, ok)
	}
}

func TestStateClosed(t *testing.T) {
	err := StateClosed(PhaseEval)
	if !errors.Is(err, &Error{Phase: PhaseEval, Kind: KindStateClosed}) {
		t.Error("StateClosed kind mismatch")
	}
}
