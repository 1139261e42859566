package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseDefine Phase = "define" // record type / specifier construction
	PhaseLoad   Phase = "load"   // bit codec read
	PhaseStore  Phase = "store"  // bit codec write
	PhaseEncode Phase = "encode" // logical value to raw bits
	PhaseDecode Phase = "decode" // raw bits to logical value
	PhaseConfig Phase = "config" // schema file loading
)

// Kind categorizes the error
type Kind string

const (
	KindInvalidWidth        Kind = "invalid_width"
	KindOutOfBounds         Kind = "out_of_bounds"
	KindConversionOverflow  Kind = "conversion_overflow"
	KindInvalidVariantCount Kind = "invalid_variant_count"
	KindUnknownDiscriminant Kind = "unknown_discriminant"
	KindLayout              Kind = "layout"
	KindTypeMismatch        Kind = "type_mismatch"
	KindNotFound            Kind = "not_found"
	KindInvalidInput        Kind = "invalid_input"
	KindUnsupported         Kind = "unsupported"
	KindNotInitialized      Kind = "not_initialized"
)

// Error is the structured error type used throughout the module
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Type   string
	Detail string
	Path   []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.Type != "" {
		b.WriteString(": type ")
		b.WriteString(e.Type)
	}

	if e.Detail != "" {
		if e.Type != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// KindOf returns the Kind of the first *Error in err's chain, or "" if none.
func KindOf(err error) Kind {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsKind reports whether err's chain contains an *Error of the given kind,
// regardless of phase.
func IsKind(err error, kind Kind) bool {
	for err != nil {
		if e, ok := err.(*Error); ok && e.Kind == kind {
			return true
		}
		err = stderrors.Unwrap(err)
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Path sets the field path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// Type sets the record or value type name
func (b *Builder) Type(t string) *Builder {
	b.err.Type = t
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// InvalidWidth creates an error for a bit length outside the legal band.
func InvalidWidth(phase Phase, path []string, width, minBits, maxBits int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidWidth,
		Path:   path,
		Detail: fmt.Sprintf("width %d outside [%d, %d]", width, minBits, maxBits),
		Value:  width,
	}
}

// OutOfBounds creates an out of bounds error for a bit window that does not
// fit in a buffer of the given length.
func OutOfBounds(phase Phase, path []string, offset, width, length int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOutOfBounds,
		Path:   path,
		Detail: fmt.Sprintf("bits [%d, %d) exceed buffer of %d bytes", offset, offset+width, length),
		Value:  offset,
	}
}

// ConversionOverflow creates an error for a raw value that the target type
// cannot represent exactly.
func ConversionOverflow(phase Phase, path []string, value any, target string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindConversionOverflow,
		Path:   path,
		Type:   target,
		Detail: fmt.Sprintf("value %v overflows %s", value, target),
		Value:  value,
	}
}

// InvalidVariantCount creates an error for an enumeration whose variant set
// cannot be mapped onto bit patterns.
func InvalidVariantCount(path []string, count int, reason string) *Error {
	return &Error{
		Phase:  PhaseDefine,
		Kind:   KindInvalidVariantCount,
		Path:   path,
		Detail: fmt.Sprintf("%d variants: %s", count, reason),
		Value:  count,
	}
}

// UnknownDiscriminant creates an error for a raw value or variant with no
// assigned code point.
func UnknownDiscriminant(phase Phase, path []string, value any) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnknownDiscriminant,
		Path:   path,
		Detail: fmt.Sprintf("no variant for %v", value),
		Value:  value,
	}
}

// Layout creates a record layout error
func Layout(typeName string, detail string, args ...any) *Error {
	return &Error{
		Phase:  PhaseDefine,
		Kind:   KindLayout,
		Type:   typeName,
		Detail: fmt.Sprintf(detail, args...),
	}
}

// TypeMismatch creates a type mismatch error
func TypeMismatch(phase Phase, path []string, got, want string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindTypeMismatch,
		Path:   path,
		Type:   got,
		Detail: "want " + want,
	}
}

// NotFound creates a not-found error
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %q not found", what, name),
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, path []string, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Path:   path,
		Detail: detail,
	}
}

// Unsupported creates an unsupported operation error
func Unsupported(phase Phase, path []string, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Path:   path,
		Detail: what,
	}
}

// NotInitialized creates a not-initialized error
func NotInitialized(phase Phase, component string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotInitialized,
		Detail: fmt.Sprintf("%s not initialized", component),
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}
