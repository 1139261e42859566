// Package bitfield packs sub-byte fields (booleans, fixed-width unsigned
// integers and enumerations) contiguously into byte buffers with no padding.
//
// # Layout
//
// A record with fields f1:w1, f2:w2, ..., fn:wn occupies (w1+...+wn)/8
// bytes. f1 occupies bits [0, w1), f2 occupies [w1, w1+w2), and so on. Bit 0
// is the least significant bit of byte 0; bit and byte order are both little
// endian. The total width must be a multiple of 8.
//
// # Packages
//
//	bitfield/        Root package with the Memory interface
//	├── codec/       Load/store of 1-64 bit values at arbitrary bit offsets
//	├── specifier/   Value <-> raw conversions for bool, uint and enum fields
//	├── layout/      Memoized offset tables keyed by width sequence
//	├── schema/      Record types, typed field handles and records
//	├── witschema/   Record types derived from WIT type definitions
//	├── config/      Schema files (YAML/JSON) and logger setup
//	├── memview/     Records viewed in place in linear memory (wazero)
//	├── errors/      Structured error types
//	└── cmd/bitpack  Command-line layout, encode, decode and inspect tool
//
// # Quick Start
//
//	b := schema.New("Header")
//	a := schema.Add(b, "a", specifier.MustUint[uint8](3))
//	n := schema.Add(b, "b", specifier.MustUint[uint8](4))
//	c := schema.Add(b, "c", specifier.Bool())
//	hdr, err := b.Build()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	r := hdr.New()
//	a.MustSet(r, 5)
//	n.MustSet(r, 9)
//	c.MustSet(r, true)
//	r.Bytes() // []byte{0xCD}
//
// # Errors
//
// Definition errors (layout, invalid variant count) are returned when a
// record type is built. Access errors (invalid width, out of bounds,
// conversion overflow, unknown discriminant) are returned by Get and Set
// before anything is written, so a failed Set leaves the buffer unchanged.
// All errors are *errors.Error values carrying a phase and kind.
//
// # Concurrency
//
// Types, layouts and specifiers are immutable and safe for concurrent use.
// Records are not synchronized: concurrent reads are safe, but writes must be
// serialized by the caller.
package bitfield
