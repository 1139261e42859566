package specifier

import (
	"math/bits"

	"github.com/wippyai/bitfield/errors"
)

// EnumByCount derives a specifier from the variant count: variant i in
// declaration order is packed as i, and the width is log2(len(variants)).
// The count must be an exact power of two of at least 2, so every bit pattern
// names a variant; anything else fails with KindInvalidVariantCount.
func EnumByCount[E comparable](variants ...E) (Specifier[E], error) {
	n := len(variants)
	if n < 2 || n&(n-1) != 0 {
		return Specifier[E]{}, errors.InvalidVariantCount(nil, n,
			"variant-count rule needs a power of two of at least 2")
	}

	index := make(map[E]uint64, n)
	for i, v := range variants {
		if _, dup := index[v]; dup {
			return Specifier[E]{}, errors.New(errors.PhaseDefine, errors.KindInvalidVariantCount).
				Value(v).
				Detail("duplicate variant %v", v).
				Build()
		}
		index[v] = uint64(i)
	}

	table := make([]E, n)
	copy(table, variants)

	return Specifier[E]{
		kind:     KindEnumByCount,
		bits:     bits.TrailingZeros(uint(n)),
		variants: table,
		encode: func(v E) (uint64, error) {
			raw, ok := index[v]
			if !ok {
				return 0, errors.UnknownDiscriminant(errors.PhaseEncode, nil, v)
			}
			return raw, nil
		},
		decode: func(raw uint64) (E, error) {
			if raw >= uint64(len(table)) {
				var zero E
				return zero, errors.UnknownDiscriminant(errors.PhaseDecode, nil, raw)
			}
			return table[raw], nil
		},
	}, nil
}

// MustEnumByCount is like EnumByCount but panics on error.
func MustEnumByCount[E comparable](variants ...E) Specifier[E] {
	s, err := EnumByCount(variants...)
	if err != nil {
		panic(err)
	}
	return s
}

// EnumByDiscriminant derives a specifier for an unsigned enumeration whose
// values are their own discriminants. The width is the bit length of the
// largest discriminant (at least 1). Raw values that match no variant decode
// with KindUnknownDiscriminant.
func EnumByDiscriminant[E Unsigned](variants ...E) (Specifier[E], error) {
	discs := make([]uint64, len(variants))
	for i, v := range variants {
		discs[i] = uint64(v)
	}
	return byDiscriminant(variants, discs)
}

// MustEnumByDiscriminant is like EnumByDiscriminant but panics on error.
func MustEnumByDiscriminant[E Unsigned](variants ...E) Specifier[E] {
	s, err := EnumByDiscriminant(variants...)
	if err != nil {
		panic(err)
	}
	return s
}

// Case is a named variant with an explicit discriminant.
type Case struct {
	Name         string
	Discriminant uint64
}

// NamedDiscriminants derives a discriminant-rule specifier whose logical
// values are variant names.
func NamedDiscriminants(cases ...Case) (Specifier[string], error) {
	names := make([]string, len(cases))
	discs := make([]uint64, len(cases))
	for i, c := range cases {
		names[i] = c.Name
		discs[i] = c.Discriminant
	}
	return byDiscriminant(names, discs)
}

func byDiscriminant[E comparable](variants []E, discs []uint64) (Specifier[E], error) {
	if len(variants) == 0 {
		return Specifier[E]{}, errors.InvalidVariantCount(nil, 0, "enumeration has no variants")
	}

	byRaw := make(map[uint64]E, len(variants))
	byVariant := make(map[E]uint64, len(variants))
	var maxDisc uint64
	for i, v := range variants {
		d := discs[i]
		if _, dup := byRaw[d]; dup {
			return Specifier[E]{}, errors.New(errors.PhaseDefine, errors.KindInvalidVariantCount).
				Value(d).
				Detail("discriminant %d assigned twice", d).
				Build()
		}
		if _, dup := byVariant[v]; dup {
			return Specifier[E]{}, errors.New(errors.PhaseDefine, errors.KindInvalidVariantCount).
				Value(v).
				Detail("duplicate variant %v", v).
				Build()
		}
		byRaw[d] = v
		byVariant[v] = d
		maxDisc = max(maxDisc, d)
	}

	table := make([]E, len(variants))
	copy(table, variants)

	return Specifier[E]{
		kind:     KindEnumByDiscriminant,
		bits:     max(bits.Len64(maxDisc), 1),
		variants: table,
		encode: func(v E) (uint64, error) {
			d, ok := byVariant[v]
			if !ok {
				return 0, errors.UnknownDiscriminant(errors.PhaseEncode, nil, v)
			}
			return d, nil
		},
		decode: func(raw uint64) (E, error) {
			v, ok := byRaw[raw]
			if !ok {
				var zero E
				return zero, errors.UnknownDiscriminant(errors.PhaseDecode, nil, raw)
			}
			return v, nil
		},
	}, nil
}

// Discriminants returns the packed code of every variant of an enum
// specifier in declaration order.
func Discriminants[V any](s Specifier[V]) ([]uint64, error) {
	if !s.kind.IsEnum() {
		return nil, errors.Unsupported(errors.PhaseEncode, nil, "discriminants of non-enum specifier "+s.String())
	}
	out := make([]uint64, len(s.variants))
	for i, v := range s.variants {
		d, err := s.Encode(v)
		if err != nil {
			return nil, err
		}
		out[i] = d
	}
	return out, nil
}
