// Package errors provides structured error types for the bitfield module.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type includes context: field path, record type name, offending value and cause chain.
//
// Definition-time kinds (KindLayout, KindInvalidVariantCount) block construction of a
// record type. Access-time kinds (KindInvalidWidth, KindOutOfBounds, KindConversionOverflow,
// KindUnknownDiscriminant) are reported before any byte is mutated.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseStore, errors.KindOutOfBounds).
//		Path("Header", "flags").
//		Value(70).
//		Detail("bit window ends past buffer").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.InvalidWidth(errors.PhaseLoad, path, 65, 1, 64)
//	err := errors.OutOfBounds(errors.PhaseStore, path, 15, 13, 2)
//
// All errors implement the standard error interface and support errors.Is/As.
// IsKind and KindOf match on Kind alone.
package errors
