package codec

import (
	"reflect"

	lua "github.com/yuin/gopher-lua"
)

// Context gives conversion rules access to the interpreter that owns the
// values being built. It is implemented by engine.State; conversions are
// always scoped to one interpreter because tables, userdata, and interned
// symbols belong to a single heap.
type Context interface {
	// LState returns the owning interpreter.
	LState() *lua.LState

	// Intern returns the runtime-scoped atom for name. Interning the same
	// name twice on one Context yields the identical Lua value.
	Intern(name string) lua.LValue

	// MapMetatable returns the private metatable that tags tables built
	// from Go maps, so decoding can tell an empty mapping from an empty
	// sequence.
	MapMetatable() *lua.LTable
}

// EncodeFunc converts one Go value into a Lua value owned by ctx.
type EncodeFunc func(ctx Context, c *Codec, v any) (lua.LValue, error)

// DecodeFunc converts one Lua value into a Go value.
type DecodeFunc func(ctx Context, c *Codec, lv lua.LValue) (any, error)

// Codec converts values between Go and Lua in both directions.
//
// Dispatch is open: encoders are looked up by exact reflect.Type first,
// then by reflect.Kind; decoders by lua.LValueType. Callers register rules
// for their own types without touching the builtin ones. Anything with no
// matching encoder crosses the bridge boxed as opaque userdata, and any
// Lua type with no decoder is returned as the lua.LValue itself - a
// conversion gap is never an error.
//
// A Codec is not safe for concurrent mutation; register all rules before
// sharing it, which mirrors the single-goroutine discipline of the
// interpreter it feeds.
type Codec struct {
	types    map[reflect.Type]EncodeFunc
	kinds    map[reflect.Kind]EncodeFunc
	decoders map[lua.LValueType]DecodeFunc
}

// Default returns a codec preloaded with the builtin conversion rules.
// Each call returns an independent codec, so per-runtime registrations do
// not leak into other runtimes.
func Default() *Codec {
	c := &Codec{
		types:    make(map[reflect.Type]EncodeFunc),
		kinds:    make(map[reflect.Kind]EncodeFunc),
		decoders: make(map[lua.LValueType]DecodeFunc),
	}
	registerBuiltinEncoders(c)
	registerBuiltinDecoders(c)
	return c
}

// RegisterEncoder sets the encoder for the exact Go type t.
func (c *Codec) RegisterEncoder(t reflect.Type, fn EncodeFunc) {
	c.types[t] = fn
}

// RegisterKindEncoder sets the encoder for every Go type of kind k that has
// no exact-type rule.
func (c *Codec) RegisterKindEncoder(k reflect.Kind, fn EncodeFunc) {
	c.kinds[k] = fn
}

// RegisterDecoder sets the decoder for the Lua type t.
func (c *Codec) RegisterDecoder(t lua.LValueType, fn DecodeFunc) {
	c.decoders[t] = fn
}

// Encode converts v into a Lua value owned by ctx's interpreter.
// lua.LValue inputs pass through untouched, so foreign references returned
// by one call can be fed back into the next.
func (c *Codec) Encode(ctx Context, v any) (lua.LValue, error) {
	if v == nil {
		return lua.LNil, nil
	}
	if lv, ok := v.(lua.LValue); ok {
		return lv, nil
	}

	t := reflect.TypeOf(v)
	if fn, ok := c.types[t]; ok {
		return fn(ctx, c, v)
	}
	if fn, ok := c.kinds[t.Kind()]; ok {
		return fn(ctx, c, v)
	}

	// Identity fallback: the host value rides along unconverted.
	return box(ctx, v), nil
}

// Decode converts lv into a Go value. Values with no registered decoder
// are returned as-is, keeping them usable as opaque foreign references.
func (c *Codec) Decode(ctx Context, lv lua.LValue) (any, error) {
	if lv == nil {
		return nil, nil
	}
	if fn, ok := c.decoders[lv.Type()]; ok {
		return fn(ctx, c, lv)
	}
	return lv, nil
}

// box wraps a host value in userdata so it can round-trip unconverted.
func box(ctx Context, v any) lua.LValue {
	ud := ctx.LState().NewUserData()
	ud.Value = v
	return ud
}
