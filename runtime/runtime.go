package runtime

import (
	"context"
	_ "embed"
	"io"
	"strconv"
	"strings"
	"sync/atomic"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/wippyai/lua-bridge/codec"
	"github.com/wippyai/lua-bridge/engine"
	"github.com/wippyai/lua-bridge/errors"
)

//go:embed bootstrap.lua
var bootstrapSource string

// PackagePathEnv is the variable in the runtime's ENV namespace that
// holds the colon-joined, quoted package search path list.
const PackagePathEnv = "LUA_PACKAGE_PATH"

// Config describes one interpreter instance.
type Config struct {
	// PersistLocals keeps top-level bindings across Eval calls on the
	// same handle. Default false: each Eval gets a fresh local scope.
	PersistLocals bool

	// LoadPaths replaces the interpreter's module search path, in order.
	// Empty leaves the interpreter default in place.
	LoadPaths []string

	// Environment entries are applied to the runtime's own ENV table at
	// construction. The host process environment is never touched.
	Environment map[string]string

	// PackagePaths, when set, become the runtime's package search paths
	// (PackagePathEnv in the runtime's ENV).
	PackagePaths []string
}

// Runtime is a handle to one embedded interpreter. Exactly one live
// interpreter is associated with a handle from construction until
// termination; using a handle after termination yields state_closed
// errors.
//
// A Runtime is not safe for concurrent use. Callers needing parallel
// foreign execution create one Runtime per goroutine.
type Runtime struct {
	st    *engine.State
	codec *codec.Codec
	refs  atomic.Int32
}

// New constructs a fully configured interpreter: locals mode, load paths,
// package search paths, caller environment, the bundled bootstrap helper,
// and the package-manager manifests, in that order. Any failure tears the
// interpreter down and returns no handle; partial construction is total
// failure.
func New(cfg Config) (*Runtime, error) {
	st := engine.Open(engine.Options{PersistLocals: cfg.PersistLocals})
	ok := false
	defer func() {
		if !ok {
			st.Close()
		}
	}()

	if len(cfg.LoadPaths) > 0 {
		if err := st.SetLoadPaths(cfg.LoadPaths); err != nil {
			return nil, err
		}
	}
	if cfg.PackagePaths != nil {
		st.Setenv(PackagePathEnv, joinQuoted(cfg.PackagePaths))
	}
	for k, v := range cfg.Environment {
		st.Setenv(k, v)
	}

	ctx := context.Background()
	if _, err := st.EvalModule(ctx, strings.NewReader(bootstrapSource), "bootstrap.lua"); err != nil {
		return nil, errors.Bootstrap("evaluate bootstrap", err)
	}
	if _, err := st.Eval(ctx, "rocks:load_manifest()", "bootstrap.lua"); err != nil {
		return nil, errors.Bootstrap("load package manifests", err)
	}

	r := &Runtime{st: st, codec: codec.Default()}
	r.refs.Store(1)
	ok = true
	engine.Logger().Debug("runtime constructed",
		zap.Strings("load_paths", cfg.LoadPaths),
		zap.Strings("package_paths", cfg.PackagePaths),
		zap.Bool("persist_locals", cfg.PersistLocals))
	return r, nil
}

// With creates a runtime for the duration of body and guarantees
// termination on every exit path: normal return, error return, or panic.
// This is the primary usage pattern; explicit New/Close pairs are the
// low-level escape hatch.
func With(cfg Config, body func(*Runtime) error) error {
	rt, err := New(cfg)
	if err != nil {
		return err
	}
	defer rt.Close()
	return body(rt)
}

// Close terminates the interpreter immediately, regardless of outstanding
// Retain holders. Use for deterministic, synchronous cleanup.
func (r *Runtime) Close() error {
	r.st.Close()
	return nil
}

// Retain registers an additional holder for graceful shutdown.
func (r *Runtime) Retain() {
	r.refs.Add(1)
}

// Release drops one holder and terminates the interpreter once no holders
// remain. Use when other components may still hold the handle; the last
// Release performs the actual termination.
func (r *Runtime) Release() error {
	n := r.refs.Add(-1)
	switch {
	case n == 0:
		return r.Close()
	case n < 0:
		return errors.InvalidInput(errors.PhaseConstruct, "release of a handle with no holders")
	}
	return nil
}

// Eval executes source in the runtime's scope and returns the decoded
// result. Mutations reached through the global environment persist; new
// top-level bindings persist only in persistent-locals mode.
func (r *Runtime) Eval(ctx context.Context, source string) (any, error) {
	lv, err := r.st.Eval(ctx, source, "eval")
	if err != nil {
		return nil, err
	}
	return r.codec.Decode(r.st, lv)
}

// EvalReader executes source streamed from rd, labeled for diagnostics.
func (r *Runtime) EvalReader(ctx context.Context, rd io.Reader, label string) (any, error) {
	lv, err := r.st.EvalReader(ctx, rd, label)
	if err != nil {
		return nil, err
	}
	return r.codec.Decode(r.st, lv)
}

// Invoke encodes target and args, calls method on target inside the
// interpreter, and returns the decoded result. Foreign raises propagate
// as errors carrying the Lua diagnostic.
func (r *Runtime) Invoke(ctx context.Context, target any, method string, args ...any) (any, error) {
	tv, err := r.codec.Encode(r.st, target)
	if err != nil {
		return nil, err
	}
	largs := make([]lua.LValue, len(args))
	for i, a := range args {
		if largs[i], err = r.codec.Encode(r.st, a); err != nil {
			return nil, err
		}
	}
	lv, err := r.st.Invoke(ctx, tv, method, largs...)
	if err != nil {
		return nil, err
	}
	return r.codec.Decode(r.st, lv)
}

// Global returns the named global as an opaque foreign reference, without
// decoding. Feed the result back to Invoke to call methods on it.
func (r *Runtime) Global(name string) any {
	v := r.st.Global(name)
	if v == lua.LNil {
		return nil
	}
	return v
}

// Require loads a module through the interpreter's require, returning the
// decoded module value.
func (r *Runtime) Require(ctx context.Context, module string) (any, error) {
	return r.Eval(ctx, "require("+strconv.Quote(module)+")")
}

// Setenv sets a variable in the runtime's own ENV namespace.
func (r *Runtime) Setenv(key, value string) {
	r.st.Setenv(key, value)
}

// Getenv reads a variable from the runtime's own ENV namespace.
func (r *Runtime) Getenv(key string) (string, bool) {
	return r.st.Getenv(key)
}

// Codec returns the runtime's codec for registering conversion rules.
// Register before the first Eval/Invoke on the handle.
func (r *Runtime) Codec() *codec.Codec {
	return r.codec
}

// Symbol returns the runtime-scoped atom for name.
func (r *Runtime) Symbol(name string) any {
	return r.st.Intern(name)
}

func joinQuoted(paths []string) string {
	quoted := make([]string, len(paths))
	for i, p := range paths {
		quoted[i] = strconv.Quote(p)
	}
	return strings.Join(quoted, ":")
}
