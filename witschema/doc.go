// Package witschema derives packed record types from WIT type definitions.
//
// Supported shapes:
//
//	bool                 1-bit Bool field
//	u8, u16, u32, u64    unsigned field of natural width, narrowed with WithWidth
//	enum                 variant-count enum over the case names
//	flags                one Bool field per flag, named "field.flag"
//	record               fields flattened in order, nested names joined by "."
//	type alias           resolved to its target
//
// Signed integers, floats, chars, strings, lists and the remaining kinds
// have no packed form and fail with KindUnsupported.
package witschema
