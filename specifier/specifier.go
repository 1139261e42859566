package specifier

import (
	"fmt"
	"math/bits"
	"strconv"

	"github.com/wippyai/bitfield/codec"
	"github.com/wippyai/bitfield/errors"
)

// Kind tags the closed set of specifier variants.
type Kind uint8

const (
	KindUnsigned Kind = iota
	KindBool
	KindEnumByCount
	KindEnumByDiscriminant
)

var kindNames = [...]string{
	KindUnsigned:           "uint",
	KindBool:               "bool",
	KindEnumByCount:        "enum",
	KindEnumByDiscriminant: "enum",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// IsEnum reports whether k is one of the enumeration rules.
func (k Kind) IsEnum() bool {
	return k == KindEnumByCount || k == KindEnumByDiscriminant
}

// Unsigned is the set of value types accepted by fixed-width fields and
// discriminant enums.
type Unsigned = codec.Unsigned

// Descriptor is the type-erased shape of a specifier.
type Descriptor struct {
	Kind      Kind
	Bits      int
	Container codec.Container
	// Variants holds enum variant names in declaration order.
	Variants []string
}

// Specifier maps values of type V to and from their raw packed form. The
// zero value is not usable; build one with Bool, Uint, EnumByCount,
// EnumByDiscriminant or NamedDiscriminants.
//
// A Specifier is immutable and safe for concurrent use.
type Specifier[V any] struct {
	encode   func(V) (uint64, error)
	decode   func(uint64) (V, error)
	variants []V
	name     string
	bits     int
	kind     Kind
}

// Kind returns the specifier variant.
func (s Specifier[V]) Kind() Kind { return s.kind }

// Bits returns the packed width.
func (s Specifier[V]) Bits() int { return s.bits }

// Container returns the container band of the packed width.
func (s Specifier[V]) Container() codec.Container { return codec.ContainerFor(s.bits) }

// Valid reports whether s was built by a constructor.
func (s Specifier[V]) Valid() bool { return s.bits > 0 && s.encode != nil }

// Encode converts v to its raw form. Unsigned values are truncated to Bits
// by the codec; enum variants without a code point fail with
// KindUnknownDiscriminant.
func (s Specifier[V]) Encode(v V) (uint64, error) {
	if !s.Valid() {
		return 0, errors.NotInitialized(errors.PhaseEncode, "specifier")
	}
	return s.encode(v)
}

// Decode converts a raw value (low Bits meaningful) to V.
func (s Specifier[V]) Decode(raw uint64) (V, error) {
	if !s.Valid() {
		var zero V
		return zero, errors.NotInitialized(errors.PhaseDecode, "specifier")
	}
	return s.decode(raw)
}

// Variants returns enum variants in declaration order, nil for other kinds.
func (s Specifier[V]) Variants() []V {
	if s.variants == nil {
		return nil
	}
	out := make([]V, len(s.variants))
	copy(out, s.variants)
	return out
}

// Descriptor returns the type-erased shape of s.
func (s Specifier[V]) Descriptor() Descriptor {
	d := Descriptor{Kind: s.kind, Bits: s.bits, Container: s.Container()}
	if s.kind.IsEnum() {
		d.Variants = make([]string, len(s.variants))
		for i, v := range s.variants {
			d.Variants[i] = fmt.Sprint(v)
		}
	}
	return d
}

func (s Specifier[V]) String() string {
	if s.name != "" {
		return s.name
	}
	return s.kind.String() + strconv.Itoa(s.bits)
}

// Bool returns the 1-bit boolean specifier.
func Bool() Specifier[bool] {
	return Specifier[bool]{
		kind: KindBool,
		bits: 1,
		name: "bool",
		encode: func(v bool) (uint64, error) {
			if v {
				return 1, nil
			}
			return 0, nil
		},
		decode: func(raw uint64) (bool, error) {
			switch raw {
			case 0:
				return false, nil
			case 1:
				return true, nil
			}
			return false, errors.ConversionOverflow(errors.PhaseDecode, nil, raw, "bool")
		},
	}
}

// Uint returns an n-bit unsigned specifier carried in V. V may be
// narrower than the container but not narrower than n; that is rejected here
// with KindConversionOverflow rather than on every decode.
func Uint[V Unsigned](n int) (Specifier[V], error) {
	if n < 1 || n > 64 {
		return Specifier[V]{}, errors.InvalidWidth(errors.PhaseDefine, nil, n, 1, 64)
	}
	width := bits.Len64(uint64(^V(0)))
	typeName := "uint" + strconv.Itoa(width)
	if width < n {
		return Specifier[V]{}, errors.New(errors.PhaseDefine, errors.KindConversionOverflow).
			Type(typeName).
			Value(n).
			Detail("%d-bit field does not fit in %s", n, typeName).
			Build()
	}

	return Specifier[V]{
		kind: KindUnsigned,
		bits: n,
		name: "u" + strconv.Itoa(n),
		encode: func(v V) (uint64, error) {
			return uint64(v), nil
		},
		decode: func(raw uint64) (V, error) {
			v := V(raw)
			if uint64(v) != raw {
				return 0, errors.ConversionOverflow(errors.PhaseDecode, nil, raw, typeName)
			}
			return v, nil
		},
	}, nil
}

// MustUint is like Uint but panics on error.
func MustUint[V Unsigned](n int) Specifier[V] {
	s, err := Uint[V](n)
	if err != nil {
		panic(err)
	}
	return s
}
