package engine

import (
	"context"
	"strings"
	"testing"
	"time"

	goerrors "errors"

	lua "github.com/yuin/gopher-lua"

	"github.com/wippyai/lua-bridge/errors"
)

func openState(t *testing.T, opts Options) *State {
	t.Helper()
	st := Open(opts)
	t.Cleanup(st.Close)
	return st
}

func TestEval_Expression(t *testing.T) {
	st := openState(t, Options{})

	got, err := st.Eval(context.Background(), "1 + 2", "test")
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	if got != lua.LNumber(3) {
		t.Errorf("result = %v, want 3", got)
	}
}

func TestEval_StatementFallback(t *testing.T) {
	st := openState(t, Options{})

	got, err := st.Eval(context.Background(), "local x = 4 return x * 2", "test")
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	if got != lua.LNumber(8) {
		t.Errorf("result = %v, want 8", got)
	}
}

func TestEval_SyntaxError(t *testing.T) {
	st := openState(t, Options{})

	_, err := st.Eval(context.Background(), "local = =", "broken")
	if err == nil {
		t.Fatal("expected a syntax error")
	}
	var e *errors.Error
	if !goerrors.As(err, &e) {
		t.Fatalf("error type = %T", err)
	}
	if e.Kind != errors.KindSyntax {
		t.Errorf("kind = %q, want %q", e.Kind, errors.KindSyntax)
	}
	if e.Phase != errors.PhaseEval {
		t.Errorf("phase = %q, want %q", e.Phase, errors.PhaseEval)
	}
}

func TestEval_RuntimeErrorCarriesTraceback(t *testing.T) {
	st := openState(t, Options{})

	_, err := st.Eval(context.Background(), `error("kaboom")`, "test")
	if err == nil {
		t.Fatal("expected a runtime error")
	}
	var e *errors.Error
	if !goerrors.As(err, &e) {
		t.Fatalf("error type = %T", err)
	}
	if e.Kind != errors.KindLuaError {
		t.Errorf("kind = %q, want %q", e.Kind, errors.KindLuaError)
	}
	if !strings.Contains(e.Error(), "kaboom") {
		t.Errorf("message %q does not carry the raised value", e.Error())
	}
	if e.Traceback == "" {
		t.Error("traceback is empty")
	}
	if e.Value == nil {
		t.Error("raised value was not preserved")
	}
}

func TestEval_PersistentLocals(t *testing.T) {
	st := openState(t, Options{PersistLocals: true})
	ctx := context.Background()

	if _, err := st.Eval(ctx, "counter = 10", "test"); err != nil {
		t.Fatalf("define: %v", err)
	}
	got, err := st.Eval(ctx, "counter + 1", "test")
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if got != lua.LNumber(11) {
		t.Errorf("result = %v, want 11", got)
	}

	// The binding lives in the evaluation scope, not the real globals.
	if g := st.Global("counter"); g != lua.LNil {
		t.Errorf("global scope leaked the binding: %v", g)
	}
}

func TestEval_TransientLocals(t *testing.T) {
	st := openState(t, Options{})
	ctx := context.Background()

	if _, err := st.Eval(ctx, "scratch = 1", "test"); err != nil {
		t.Fatalf("define: %v", err)
	}
	got, err := st.Eval(ctx, "scratch", "test")
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if got != lua.LNil {
		t.Errorf("binding survived across evaluations: %v", got)
	}
}

func TestEval_ScopeReadsGlobals(t *testing.T) {
	st := openState(t, Options{})

	got, err := st.Eval(context.Background(), `string.upper("abc")`, "test")
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	if got != lua.LString("ABC") {
		t.Errorf("result = %v, want ABC", got)
	}
}

func TestEvalModule_WritesGlobals(t *testing.T) {
	st := openState(t, Options{})
	ctx := context.Background()

	_, err := st.EvalModule(ctx, strings.NewReader("shared = 99"), "module")
	if err != nil {
		t.Fatalf("module: %v", err)
	}
	if g := st.Global("shared"); g != lua.LNumber(99) {
		t.Errorf("global = %v, want 99", g)
	}

	got, err := st.Eval(ctx, "shared", "test")
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	if got != lua.LNumber(99) {
		t.Errorf("scoped read = %v, want 99", got)
	}
}

func TestEvalReader(t *testing.T) {
	st := openState(t, Options{})

	got, err := st.EvalReader(context.Background(), strings.NewReader("return 2 + 2"), "reader")
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	if got != lua.LNumber(4) {
		t.Errorf("result = %v, want 4", got)
	}
}

func TestEval_ContextDeadline(t *testing.T) {
	st := openState(t, Options{})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := st.Eval(ctx, "while true do end", "spin")
	if err == nil {
		t.Fatal("expected the deadline to interrupt execution")
	}
}

func TestEval_AfterClose(t *testing.T) {
	st := Open(Options{})
	st.Close()

	_, err := st.Eval(context.Background(), "1", "test")
	if !goerrors.Is(err, errors.StateClosed(errors.PhaseEval)) {
		t.Errorf("error = %v, want state_closed", err)
	}
	if !st.Closed() {
		t.Error("Closed() = false after Close")
	}
}

func TestEnv_SetGet(t *testing.T) {
	st := openState(t, Options{})

	st.Setenv("MODE", "test")
	v, ok := st.Getenv("MODE")
	if !ok || v != "test" {
		t.Errorf("Getenv = %q, %v", v, ok)
	}
	if _, ok := st.Getenv("MISSING"); ok {
		t.Error("unset variable reported present")
	}

	got, err := st.Eval(context.Background(), `ENV["MODE"]`, "test")
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	if got != lua.LString("test") {
		t.Errorf("ENV from inside the runtime = %v", got)
	}
}

func TestSetLoadPaths(t *testing.T) {
	st := openState(t, Options{})

	if err := st.SetLoadPaths([]string{"/opt/lib", "/tmp/extra/"}); err != nil {
		t.Fatalf("set load paths: %v", err)
	}
	got, err := st.Eval(context.Background(), "package.path", "test")
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	want := "/opt/lib/?.lua;/opt/lib/?/init.lua;/tmp/extra/?.lua;/tmp/extra/?/init.lua"
	if got != lua.LString(want) {
		t.Errorf("package.path = %v, want %q", got, want)
	}
}

func TestIntern_Identity(t *testing.T) {
	st := openState(t, Options{})

	a := st.Intern("alpha")
	b := st.Intern("alpha")
	c := st.Intern("beta")
	if a != b {
		t.Error("same name interned to different atoms")
	}
	if a == c {
		t.Error("different names interned to the same atom")
	}
}
