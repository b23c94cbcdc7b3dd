// Package rocks orchestrates package installation inside an embedded Lua
// runtime.
//
// The orchestrator is pure composition over the invocation bridge: every
// step is a method call on the `rocks` helper namespace that the runtime's
// bundled bootstrap provides. It keeps no state of its own, so it works
// against any value satisfying Bridge.
//
//	err := rocks.Install(ctx, rt, "greeter", "1.0.0", rocks.Options{
//	    ExtraSources: []string{"/srv/lua-packages"},
//	})
//
// Idempotency: an already-installed package (same name and version) is a
// logged no-op unless Force is set. The runtime's package-source list is
// always restored to its pre-install snapshot, even when the installer
// raises.
package rocks
