package codec

import (
	"reflect"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/wippyai/lua-bridge/errors"
)

func registerBuiltinEncoders(c *Codec) {
	c.types[reflect.TypeOf(Symbol(""))] = encodeSymbol
	c.types[reflect.TypeOf(time.Duration(0))] = encodeDuration
	c.types[reflect.TypeOf([]byte(nil))] = encodeBytes

	c.kinds[reflect.Bool] = encodeBool
	c.kinds[reflect.String] = encodeString
	for _, k := range []reflect.Kind{
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
	} {
		c.kinds[k] = encodeInt
	}
	for _, k := range []reflect.Kind{
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
	} {
		c.kinds[k] = encodeUint
	}
	c.kinds[reflect.Float32] = encodeFloat
	c.kinds[reflect.Float64] = encodeFloat
	c.kinds[reflect.Slice] = encodeSequence
	c.kinds[reflect.Array] = encodeSequence
	c.kinds[reflect.Map] = encodeMapping
	c.kinds[reflect.Pointer] = encodePointer
}

func encodeBool(_ Context, _ *Codec, v any) (lua.LValue, error) {
	if reflect.ValueOf(v).Bool() {
		return lua.LTrue, nil
	}
	return lua.LFalse, nil
}

func encodeString(_ Context, _ *Codec, v any) (lua.LValue, error) {
	return lua.LString(reflect.ValueOf(v).String()), nil
}

func encodeInt(_ Context, _ *Codec, v any) (lua.LValue, error) {
	return lua.LNumber(reflect.ValueOf(v).Int()), nil
}

func encodeUint(_ Context, _ *Codec, v any) (lua.LValue, error) {
	return lua.LNumber(reflect.ValueOf(v).Uint()), nil
}

func encodeFloat(_ Context, _ *Codec, v any) (lua.LValue, error) {
	return lua.LNumber(reflect.ValueOf(v).Float()), nil
}

func encodeBytes(_ Context, _ *Codec, v any) (lua.LValue, error) {
	return lua.LString(v.([]byte)), nil
}

// Durations cross as seconds, the unit Lua code works in.
func encodeDuration(_ Context, _ *Codec, v any) (lua.LValue, error) {
	return lua.LNumber(v.(time.Duration).Seconds()), nil
}

func encodeSymbol(ctx Context, _ *Codec, v any) (lua.LValue, error) {
	return ctx.Intern(string(v.(Symbol))), nil
}

// encodeSequence builds a native Lua sequence table, recursing through the
// codec so registered rules apply to nested elements.
func encodeSequence(ctx Context, c *Codec, v any) (lua.LValue, error) {
	rv := reflect.ValueOf(v)
	tbl := ctx.LState().NewTable()
	for i := 0; i < rv.Len(); i++ {
		ev, err := c.Encode(ctx, rv.Index(i).Interface())
		if err != nil {
			return lua.LNil, err
		}
		tbl.RawSetInt(i+1, ev)
	}
	return tbl, nil
}

// encodeMapping builds a native Lua table tagged with the mapping
// metatable. Key order is not preserved across the boundary.
func encodeMapping(ctx Context, c *Codec, v any) (lua.LValue, error) {
	rv := reflect.ValueOf(v)
	tbl := ctx.LState().NewTable()
	iter := rv.MapRange()
	for iter.Next() {
		kv, err := c.Encode(ctx, iter.Key().Interface())
		if err != nil {
			return lua.LNil, err
		}
		if kv == lua.LNil {
			return lua.LNil, errors.New(errors.PhaseEncode, errors.KindInvalidInput).
				GoType(rv.Type().String()).
				Detail("mapping key encoded to nil").
				Build()
		}
		vv, err := c.Encode(ctx, iter.Value().Interface())
		if err != nil {
			return lua.LNil, err
		}
		tbl.RawSet(kv, vv)
	}
	ctx.LState().SetMetatable(tbl, ctx.MapMetatable())
	return tbl, nil
}

func encodePointer(ctx Context, c *Codec, v any) (lua.LValue, error) {
	rv := reflect.ValueOf(v)
	if rv.IsNil() {
		return lua.LNil, nil
	}
	return c.Encode(ctx, rv.Elem().Interface())
}
