package codec

// Symbol is a host-side interned atom. Encoding a Symbol produces the
// runtime-scoped atom for its name: two encodes of the same name under one
// runtime yield a value the interpreter considers identical. Atoms from
// different runtimes carry no identity guarantee.
type Symbol string

// Name returns the symbol's name without decoration.
func (s Symbol) Name() string { return string(s) }

func (s Symbol) String() string { return ":" + string(s) }
