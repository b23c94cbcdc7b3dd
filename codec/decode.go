package codec

import (
	"math"

	lua "github.com/yuin/gopher-lua"
)

func registerBuiltinDecoders(c *Codec) {
	c.decoders[lua.LTNil] = decodeNil
	c.decoders[lua.LTBool] = decodeBool
	c.decoders[lua.LTNumber] = decodeNumber
	c.decoders[lua.LTString] = decodeString
	c.decoders[lua.LTTable] = decodeTable
	c.decoders[lua.LTUserData] = decodeUserData
}

func decodeNil(_ Context, _ *Codec, _ lua.LValue) (any, error) {
	return nil, nil
}

func decodeBool(_ Context, _ *Codec, lv lua.LValue) (any, error) {
	return lv == lua.LTrue, nil
}

// Lua has a single number type. Integral values decode to int64 so that
// arithmetic results come back as host integers; everything else is
// float64.
func decodeNumber(_ Context, _ *Codec, lv lua.LValue) (any, error) {
	f := float64(lv.(lua.LNumber))
	if f == math.Trunc(f) && !math.IsInf(f, 0) && math.Abs(f) <= 1<<53 {
		return int64(f), nil
	}
	return f, nil
}

func decodeString(_ Context, _ *Codec, lv lua.LValue) (any, error) {
	return string(lv.(lua.LString)), nil
}

// decodeTable reverses the two composite encodings. Tables carrying the
// codec's mapping tag decode to map[any]any. Tables with any other
// metatable are foreign objects and pass through opaquely. Untagged plain
// tables decode by shape: keys 1..n make a []any, anything else a map.
func decodeTable(ctx Context, c *Codec, lv lua.LValue) (any, error) {
	tbl := lv.(*lua.LTable)
	mt := ctx.LState().GetMetatable(tbl)
	if mt != lua.LNil {
		if mt == lua.LValue(ctx.MapMetatable()) {
			return decodeToMap(ctx, c, tbl)
		}
		return lv, nil
	}
	if isSequence(tbl) {
		return decodeToSlice(ctx, c, tbl)
	}
	return decodeToMap(ctx, c, tbl)
}

func isSequence(tbl *lua.LTable) bool {
	n := tbl.Len()
	total := 0
	ok := true
	tbl.ForEach(func(k, _ lua.LValue) {
		total++
		num, isNum := k.(lua.LNumber)
		if !isNum {
			ok = false
			return
		}
		f := float64(num)
		if f != math.Trunc(f) || f < 1 || f > float64(n) {
			ok = false
		}
	})
	return ok && total == n
}

func decodeToSlice(ctx Context, c *Codec, tbl *lua.LTable) (any, error) {
	n := tbl.Len()
	out := make([]any, 0, n)
	for i := 1; i <= n; i++ {
		v, err := c.Decode(ctx, tbl.RawGetInt(i))
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func decodeToMap(ctx Context, c *Codec, tbl *lua.LTable) (any, error) {
	out := make(map[any]any)
	var ferr error
	tbl.ForEach(func(k, v lua.LValue) {
		if ferr != nil {
			return
		}
		dk, err := c.Decode(ctx, k)
		if err != nil {
			ferr = err
			return
		}
		dv, err := c.Decode(ctx, v)
		if err != nil {
			ferr = err
			return
		}
		if !hashable(dk) {
			// Composite keys keep their foreign identity.
			dk = any(k)
		}
		out[dk] = dv
	})
	if ferr != nil {
		return nil, ferr
	}
	return out, nil
}

func hashable(v any) bool {
	switch v.(type) {
	case []any, map[any]any:
		return false
	}
	return true
}

// decodeUserData unwraps values the encoder boxed: interned symbols come
// back as Symbol, identity-boxed host values come back unchanged. Userdata
// created by foreign code stays opaque.
func decodeUserData(_ Context, _ *Codec, lv lua.LValue) (any, error) {
	ud := lv.(*lua.LUserData)
	if ud.Value != nil {
		return ud.Value, nil
	}
	return lv, nil
}
