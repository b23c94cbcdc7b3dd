// Package runtime provides the high-level API for driving an embedded Lua
// interpreter from Go.
//
// # Quick Start
//
//	err := runtime.With(runtime.Config{LoadPaths: []string{"./lib"}}, func(rt *runtime.Runtime) error {
//	    v, err := rt.Eval(ctx, "1 + 2")
//	    if err != nil {
//	        return err
//	    }
//	    fmt.Println(v) // int64(3)
//
//	    up, err := rt.Invoke(ctx, "abc", "upper")
//	    if err != nil {
//	        return err
//	    }
//	    fmt.Println(up) // "ABC"
//	    return nil
//	})
//
// With guarantees the interpreter is terminated on every exit path,
// including panics. New/Close is the explicit low-level pairing, and
// Retain/Release gives reference-counted graceful shutdown when several
// components share one handle: the last Release terminates.
//
// # Construction
//
// New applies the configuration in a fixed order: locals mode, load
// paths, package search paths (as the quoted, colon-joined
// PackagePathEnv entry in the runtime's own ENV table), caller
// environment entries, then the bundled bootstrap helper and the package
// manifests. The bootstrap provides the `rocks` helper namespace that the
// rocks package drives; if it fails to load, construction fails and no
// handle exists.
//
// # Values
//
// Results decode through the runtime's codec: numbers to int64/float64,
// strings to string, sequences to []any, mappings to map[any]any,
// interned atoms to codec.Symbol. Foreign objects (functions, tables with
// their own metatables, alien userdata) stay opaque and can be passed
// back into Invoke. Register custom rules via Codec before first use.
//
// # Concurrency
//
// One handle, one goroutine. Every operation blocks until the interpreter
// returns; a caller-supplied context deadline interrupts foreign
// execution, and context.Background() blocks indefinitely.
package runtime
