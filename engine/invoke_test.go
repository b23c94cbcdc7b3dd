package engine

import (
	"context"
	"testing"

	goerrors "errors"

	lua "github.com/yuin/gopher-lua"

	"github.com/wippyai/lua-bridge/errors"
)

func TestInvoke_StringMethod(t *testing.T) {
	st := openState(t, Options{})

	got, err := st.Invoke(context.Background(), lua.LString("abc"), "upper")
	if err != nil {
		t.Fatalf("invoke: %v", err)
	}
	if got != lua.LString("ABC") {
		t.Errorf("result = %v, want ABC", got)
	}
}

func TestInvoke_StringMethodWithArgs(t *testing.T) {
	st := openState(t, Options{})

	got, err := st.Invoke(context.Background(), lua.LString("hello"), "sub", lua.LNumber(1), lua.LNumber(2))
	if err != nil {
		t.Fatalf("invoke: %v", err)
	}
	if got != lua.LString("he") {
		t.Errorf("result = %v, want he", got)
	}
}

func TestInvoke_TableMethod(t *testing.T) {
	st := openState(t, Options{})
	ctx := context.Background()

	obj, err := st.Eval(ctx, `
		local t = { n = 5 }
		function t:double() return self.n * 2 end
		return t
	`, "test")
	if err != nil {
		t.Fatalf("build object: %v", err)
	}

	got, err := st.Invoke(ctx, obj, "double")
	if err != nil {
		t.Fatalf("invoke: %v", err)
	}
	if got != lua.LNumber(10) {
		t.Errorf("result = %v, want 10", got)
	}
}

func TestInvoke_MetatableMethod(t *testing.T) {
	st := openState(t, Options{})
	ctx := context.Background()

	obj, err := st.Eval(ctx, `
		local Account = {}
		Account.__index = Account
		function Account:balance() return self.amount end
		return setmetatable({ amount = 40 }, Account)
	`, "test")
	if err != nil {
		t.Fatalf("build object: %v", err)
	}

	got, err := st.Invoke(ctx, obj, "balance")
	if err != nil {
		t.Fatalf("invoke: %v", err)
	}
	if got != lua.LNumber(40) {
		t.Errorf("result = %v, want 40", got)
	}
}

func TestInvoke_MissingMethod(t *testing.T) {
	st := openState(t, Options{})

	tbl := st.LState().NewTable()
	_, err := st.Invoke(context.Background(), tbl, "nope")
	if err == nil {
		t.Fatal("expected an error for a missing method")
	}
	var e *errors.Error
	if !goerrors.As(err, &e) {
		t.Fatalf("error type = %T", err)
	}
	if e.Kind != errors.KindNotFound {
		t.Errorf("kind = %q, want %q", e.Kind, errors.KindNotFound)
	}
}

func TestInvoke_NonCallableMember(t *testing.T) {
	st := openState(t, Options{})

	tbl := st.LState().NewTable()
	tbl.RawSetString("field", lua.LNumber(1))
	_, err := st.Invoke(context.Background(), tbl, "field")
	if err == nil {
		t.Fatal("expected an error for a non-callable member")
	}
	var e *errors.Error
	if !goerrors.As(err, &e) {
		t.Fatalf("error type = %T", err)
	}
	if e.Kind != errors.KindTypeMismatch {
		t.Errorf("kind = %q, want %q", e.Kind, errors.KindTypeMismatch)
	}
}

func TestInvoke_ForeignRaisePropagates(t *testing.T) {
	st := openState(t, Options{})
	ctx := context.Background()

	obj, err := st.Eval(ctx, `
		local t = {}
		function t:boom() error("from inside") end
		return t
	`, "test")
	if err != nil {
		t.Fatalf("build object: %v", err)
	}

	_, err = st.Invoke(ctx, obj, "boom")
	msg, _, ok := errors.Diagnostic(err)
	if !ok {
		t.Fatalf("error %v carries no foreign diagnostic", err)
	}
	if msg == "" {
		t.Error("foreign diagnostic is empty")
	}
}

func TestInvoke_AfterClose(t *testing.T) {
	st := Open(Options{})
	st.Close()

	_, err := st.Invoke(context.Background(), lua.LString("x"), "upper")
	if !goerrors.Is(err, errors.StateClosed(errors.PhaseInvoke)) {
		t.Errorf("error = %v, want state_closed", err)
	}
}
