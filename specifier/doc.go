// Package specifier maps logical field values to and from their packed raw
// form.
//
// A Specifier fixes a field's bit width and its conversion functions. The set
// of variants is closed and chosen once when the specifier is built:
//
//	Bool()                    1 bit, false=0 true=1
//	Uint[V](n)                n bits carried in V (V at least n bits wide)
//	EnumByCount(vs...)        log2(len(vs)) bits, variant i packs as i
//	EnumByDiscriminant(vs...) bit length of the largest value, values pack as themselves
//	NamedDiscriminants(cs...) same rule with string variants and explicit codes
//
// The variant-count rule only accepts power-of-two counts so that every bit
// pattern decodes. The discriminant rule leaves gaps; decoding an unassigned
// code fails with KindUnknownDiscriminant.
//
// Specifiers are immutable values and safe for concurrent use.
package specifier
