package specifier

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/wippyai/bitfield/codec"
	"github.com/wippyai/bitfield/errors"
)

type mode uint8

const (
	modeIdle mode = iota
	modeRun
	modeStop
	modeFault
)

func (m mode) String() string {
	return [...]string{"idle", "run", "stop", "fault"}[m]
}

type status uint16

const (
	statusOK   status = 0
	statusWarn status = 1
	statusFail status = 5
)

func TestBool(t *testing.T) {
	s := Bool()
	if s.Bits() != 1 || s.Kind() != KindBool {
		t.Fatalf("Bool: bits=%d kind=%v", s.Bits(), s.Kind())
	}
	for _, v := range []bool{false, true} {
		raw, err := s.Encode(v)
		if err != nil {
			t.Fatal(err)
		}
		got, err := s.Decode(raw)
		if err != nil || got != v {
			t.Errorf("round trip %v: got %v, %v", v, got, err)
		}
	}
	if raw, _ := s.Encode(true); raw != 1 {
		t.Errorf("Encode(true) = %d", raw)
	}
	if _, err := s.Decode(2); !errors.IsKind(err, errors.KindConversionOverflow) {
		t.Errorf("Decode(2): err = %v", err)
	}
}

func TestUint(t *testing.T) {
	t.Run("widths", func(t *testing.T) {
		tests := []struct {
			bits      int
			container codec.Container
		}{
			{1, codec.Container8},
			{8, codec.Container8},
			{9, codec.Container16},
			{17, codec.Container32},
			{33, codec.Container64},
			{64, codec.Container64},
		}
		for _, tc := range tests {
			s, err := Uint[uint64](tc.bits)
			if err != nil {
				t.Fatalf("Uint(%d): %v", tc.bits, err)
			}
			if s.Bits() != tc.bits || s.Container() != tc.container {
				t.Errorf("Uint(%d): bits=%d container=%v", tc.bits, s.Bits(), s.Container())
			}
		}
	})

	t.Run("narrow_value_type_allowed", func(t *testing.T) {
		// 3-bit field carried in uint8.
		s, err := Uint[uint8](3)
		if err != nil {
			t.Fatal(err)
		}
		v, err := s.Decode(5)
		if err != nil || v != 5 {
			t.Errorf("Decode(5) = %d, %v", v, err)
		}
	})

	t.Run("value_type_too_narrow", func(t *testing.T) {
		_, err := Uint[uint8](9)
		if !errors.IsKind(err, errors.KindConversionOverflow) {
			t.Errorf("Uint[uint8](9): err = %v", err)
		}
	})

	t.Run("decode_overflow", func(t *testing.T) {
		s := MustUint[uint8](8)
		if _, err := s.Decode(0x100); !errors.IsKind(err, errors.KindConversionOverflow) {
			t.Errorf("Decode(0x100): err = %v", err)
		}
	})

	t.Run("invalid_width", func(t *testing.T) {
		for _, n := range []int{0, -1, 65} {
			if _, err := Uint[uint64](n); !errors.IsKind(err, errors.KindInvalidWidth) {
				t.Errorf("Uint(%d): err = %v", n, err)
			}
		}
	})

	t.Run("named_type", func(t *testing.T) {
		type port uint16
		s := MustUint[port](12)
		raw, _ := s.Encode(port(4000))
		if raw != 4000 {
			t.Errorf("Encode = %d", raw)
		}
	})
}

func TestZeroSpecifier(t *testing.T) {
	var s Specifier[uint8]
	if s.Valid() {
		t.Fatal("zero specifier should not be valid")
	}
	if _, err := s.Encode(1); !errors.IsKind(err, errors.KindNotInitialized) {
		t.Errorf("Encode: err = %v", err)
	}
	if _, err := s.Decode(1); !errors.IsKind(err, errors.KindNotInitialized) {
		t.Errorf("Decode: err = %v", err)
	}
}

func TestEnumByCount(t *testing.T) {
	t.Run("four_variants", func(t *testing.T) {
		s, err := EnumByCount(modeIdle, modeRun, modeStop, modeFault)
		if err != nil {
			t.Fatal(err)
		}
		if s.Bits() != 2 {
			t.Errorf("Bits = %d, want 2", s.Bits())
		}
		if s.Kind() != KindEnumByCount {
			t.Errorf("Kind = %v", s.Kind())
		}
		for i, m := range []mode{modeIdle, modeRun, modeStop, modeFault} {
			raw, err := s.Encode(m)
			if err != nil || raw != uint64(i) {
				t.Errorf("Encode(%v) = %d, %v", m, raw, err)
			}
			got, err := s.Decode(uint64(i))
			if err != nil || got != m {
				t.Errorf("Decode(%d) = %v, %v", i, got, err)
			}
		}
	})

	t.Run("declaration_order_not_value", func(t *testing.T) {
		s := MustEnumByCount("b", "a")
		raw, _ := s.Encode("b")
		if raw != 0 {
			t.Errorf("first declared variant packs as %d, want 0", raw)
		}
		if s.Bits() != 1 {
			t.Errorf("Bits = %d, want 1", s.Bits())
		}
	})

	t.Run("three_variants", func(t *testing.T) {
		_, err := EnumByCount(modeIdle, modeRun, modeStop)
		if !errors.IsKind(err, errors.KindInvalidVariantCount) {
			t.Errorf("err = %v, want invalid_variant_count", err)
		}
	})

	t.Run("degenerate_counts", func(t *testing.T) {
		if _, err := EnumByCount[string](); !errors.IsKind(err, errors.KindInvalidVariantCount) {
			t.Errorf("0 variants: err = %v", err)
		}
		if _, err := EnumByCount("only"); !errors.IsKind(err, errors.KindInvalidVariantCount) {
			t.Errorf("1 variant: err = %v", err)
		}
	})

	t.Run("duplicate", func(t *testing.T) {
		if _, err := EnumByCount("a", "a"); !errors.IsKind(err, errors.KindInvalidVariantCount) {
			t.Errorf("err = %v", err)
		}
	})

	t.Run("undeclared_variant", func(t *testing.T) {
		s := MustEnumByCount(modeIdle, modeRun)
		if _, err := s.Encode(modeFault); !errors.IsKind(err, errors.KindUnknownDiscriminant) {
			t.Errorf("Encode: err = %v", err)
		}
		if _, err := s.Decode(2); !errors.IsKind(err, errors.KindUnknownDiscriminant) {
			t.Errorf("Decode: err = %v", err)
		}
	})

	t.Run("descriptor", func(t *testing.T) {
		s := MustEnumByCount(modeIdle, modeRun, modeStop, modeFault)
		d := s.Descriptor()
		want := Descriptor{
			Kind:      KindEnumByCount,
			Bits:      2,
			Container: codec.Container8,
			Variants:  []string{"idle", "run", "stop", "fault"},
		}
		if diff := cmp.Diff(want, d); diff != "" {
			t.Errorf("Descriptor (-want +got):\n%s", diff)
		}
	})
}

func TestEnumByDiscriminant(t *testing.T) {
	s, err := EnumByDiscriminant(statusOK, statusWarn, statusFail)
	if err != nil {
		t.Fatal(err)
	}
	if s.Bits() != 3 {
		t.Errorf("Bits = %d, want 3", s.Bits())
	}
	if s.Kind() != KindEnumByDiscriminant {
		t.Errorf("Kind = %v", s.Kind())
	}

	raw, err := s.Encode(statusFail)
	if err != nil || raw != 5 {
		t.Fatalf("Encode(fail) = %d, %v", raw, err)
	}
	got, err := s.Decode(raw)
	if err != nil || got != statusFail {
		t.Errorf("Decode(5) = %v, %v", got, err)
	}

	if _, err := s.Decode(3); !errors.IsKind(err, errors.KindUnknownDiscriminant) {
		t.Errorf("Decode(3): err = %v, want unknown_discriminant", err)
	}
	if _, err := s.Encode(status(4)); !errors.IsKind(err, errors.KindUnknownDiscriminant) {
		t.Errorf("Encode(4): err = %v, want unknown_discriminant", err)
	}

	discs, err := Discriminants(s)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]uint64{0, 1, 5}, discs); diff != "" {
		t.Errorf("Discriminants (-want +got):\n%s", diff)
	}
}

func TestEnumByDiscriminantEdges(t *testing.T) {
	t.Run("single_zero_variant_is_one_bit", func(t *testing.T) {
		s := MustEnumByDiscriminant[uint8](0)
		if s.Bits() != 1 {
			t.Errorf("Bits = %d, want 1", s.Bits())
		}
	})

	t.Run("power_of_two_boundary", func(t *testing.T) {
		s := MustEnumByDiscriminant[uint32](8)
		if s.Bits() != 4 {
			t.Errorf("Bits = %d, want 4", s.Bits())
		}
	})

	t.Run("max_discriminant", func(t *testing.T) {
		s := MustEnumByDiscriminant[uint64](0, ^uint64(0))
		if s.Bits() != 64 {
			t.Errorf("Bits = %d, want 64", s.Bits())
		}
	})

	t.Run("empty", func(t *testing.T) {
		if _, err := EnumByDiscriminant[uint8](); !errors.IsKind(err, errors.KindInvalidVariantCount) {
			t.Errorf("err = %v", err)
		}
	})

	t.Run("duplicate_discriminant", func(t *testing.T) {
		if _, err := EnumByDiscriminant[uint8](1, 1); !errors.IsKind(err, errors.KindInvalidVariantCount) {
			t.Errorf("err = %v", err)
		}
	})
}

func TestNamedDiscriminants(t *testing.T) {
	s, err := NamedDiscriminants(
		Case{Name: "ok", Discriminant: 0},
		Case{Name: "warn", Discriminant: 1},
		Case{Name: "fail", Discriminant: 5},
	)
	if err != nil {
		t.Fatal(err)
	}
	if s.Bits() != 3 {
		t.Errorf("Bits = %d, want 3", s.Bits())
	}
	v, err := s.Decode(5)
	if err != nil || v != "fail" {
		t.Errorf("Decode(5) = %q, %v", v, err)
	}
	if _, err := s.Encode("missing"); !errors.IsKind(err, errors.KindUnknownDiscriminant) {
		t.Errorf("Encode(missing): err = %v", err)
	}
	if _, err := NamedDiscriminants(Case{Name: "a", Discriminant: 0}, Case{Name: "a", Discriminant: 1}); !errors.IsKind(err, errors.KindInvalidVariantCount) {
		t.Errorf("duplicate name: err = %v", err)
	}
	if diff := cmp.Diff([]string{"ok", "warn", "fail"}, s.Variants()); diff != "" {
		t.Errorf("Variants (-want +got):\n%s", diff)
	}
}

func TestDiscriminantsNonEnum(t *testing.T) {
	if _, err := Discriminants(Bool()); !errors.IsKind(err, errors.KindUnsupported) {
		t.Errorf("err = %v", err)
	}
}

func TestKindString(t *testing.T) {
	if KindUnsigned.String() != "uint" || KindBool.String() != "bool" || KindEnumByCount.String() != "enum" {
		t.Error("unexpected kind names")
	}
	if Kind(99).String() != "unknown" {
		t.Error("out of range kind should be unknown")
	}
	if MustUint[uint8](3).String() != "u3" {
		t.Errorf("String = %q", MustUint[uint8](3).String())
	}
}
