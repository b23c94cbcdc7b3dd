// Package codec provides bidirectional value conversion between Go and an
// embedded Lua interpreter.
//
// # Conversion Flow
//
//	┌───────────────────────────────────────────────────────┐
//	│ Go value ←→ [Codec] ←→ Lua value (one interpreter)    │
//	└───────────────────────────────────────────────────────┘
//
// Every conversion is scoped to one interpreter through a Context: tables
// and userdata belong to a single Lua heap and must never leak across
// runtimes.
//
// # Type Mapping
//
//	Go value            Lua value
//	────────────────────────────────────────
//	nil                 nil
//	bool                boolean
//	int*/uint*/float*   number
//	string              string
//	[]byte              string
//	time.Duration       number (seconds)
//	Symbol              interned atom (userdata, identical per runtime)
//	slice/array         sequence table
//	map                 table (tagged as mapping)
//	*T                  encode(*v), nil pointer -> nil
//	lua.LValue          passthrough
//	anything else       opaque userdata box (identity)
//
// Decoding reverses each rule. Lua numbers decode to int64 when integral,
// float64 otherwise; sequences decode to []any and mappings to
// map[any]any, recursing through the same codec. Tables with a metatable
// other than the codec's mapping tag are foreign objects and decode to
// their own lua.LValue, as do functions and threads - a missing rule is a
// pass-through, never an error.
//
// # Extending
//
// The dispatch tables are open. A host application that wants its own
// types to cross natively registers rules on the runtime's codec:
//
//	c.RegisterEncoder(reflect.TypeOf(Point{}), func(ctx codec.Context, c *codec.Codec, v any) (lua.LValue, error) {
//	    p := v.(Point)
//	    return c.Encode(ctx, map[any]any{"x": p.X, "y": p.Y})
//	})
//
// Unregistered host types still cross the bridge boxed, so domain objects
// can be threaded through Lua untouched without writing any rule at all.
package codec
