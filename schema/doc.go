// Package schema defines packed record types and their field accessors.
//
// A record type is an ordered list of named fields, each bound to a
// specifier. Fields are laid out back to back from bit 0 with no padding and
// the total width must be a whole number of bytes:
//
//	b := schema.New("Header")
//	a := schema.Add(b, "a", specifier.MustUint[uint8](3))
//	m := schema.Add(b, "mode", specifier.MustEnumByCount(Idle, Run, Stop, Fault))
//	c := schema.Add(b, "c", specifier.Bool())
//	hdr, err := b.Build() // 3 + 2 + 1 = 6 bits: LayoutError
//
// Widths that do not sum to a byte multiple are rejected when the type is
// built, never at access time.
//
// Each record owns a zero-initialized buffer. Typed access goes through the
// *Field handles returned by Add; dynamic access by name goes through
// Record.Value, Record.SetValue and Record.Parse. A failed set leaves the
// buffer unchanged.
//
// Records are not synchronized. Concurrent reads are safe; a write concurrent
// with any other access must be serialized by the caller.
package schema
