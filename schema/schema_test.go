package schema

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/wippyai/bitfield/codec"
	"github.com/wippyai/bitfield/errors"
	"github.com/wippyai/bitfield/layout"
	"github.com/wippyai/bitfield/specifier"
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

// packed is the a:3 b:4 c:1 single-byte record.
type packed struct {
	typ *Type
	a   *Field[uint8]
	b   *Field[uint8]
	c   *Field[bool]
}

func newPacked(t *testing.T) packed {
	t.Helper()
	b := New("Packed")
	p := packed{
		a: Add(b, "a", specifier.MustUint[uint8](3)),
		b: Add(b, "b", specifier.MustUint[uint8](4)),
		c: Add(b, "c", specifier.Bool()),
	}
	typ, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	p.typ = typ
	return p
}

func TestPackedByte(t *testing.T) {
	p := newPacked(t)
	r := p.typ.New()

	p.a.MustSet(r, 5)
	p.b.MustSet(r, 9)
	p.c.MustSet(r, true)

	if got := r.Bytes(); !bytes.Equal(got, []byte{0xCD}) {
		t.Fatalf("packed = %#x, want 0xcd", got)
	}
	if v := p.a.MustGet(r); v != 5 {
		t.Errorf("a = %d, want 5", v)
	}
	if v := p.b.MustGet(r); v != 9 {
		t.Errorf("b = %d, want 9", v)
	}
	if v := p.c.MustGet(r); !v {
		t.Error("c = false, want true")
	}
	if s := r.String(); s != "Packed{a: 5, b: 9, c: true}" {
		t.Errorf("String = %q", s)
	}

	p.b.MustSet(r, 0)
	if got := r.Bytes(); !bytes.Equal(got, []byte{0x85}) {
		t.Errorf("after b=0: %#x, want 0x85", got)
	}
}

func TestZeroInit(t *testing.T) {
	b := New("Wide")
	u := Add(b, "u", specifier.MustUint[uint64](61))
	m := Add(b, "m", specifier.MustEnumByCount(modeIdle, modeRun, modeStop, modeFault))
	f := Add(b, "f", specifier.Bool())
	typ := b.MustBuild()

	r := typ.New()
	if typ.Size() != 8 || len(r.Bytes()) != 8 {
		t.Fatalf("size = %d", typ.Size())
	}
	if u.MustGet(r) != 0 || m.MustGet(r) != modeIdle || f.MustGet(r) {
		t.Errorf("fresh record not zero: %s", r)
	}
}

func TestSetTruncates(t *testing.T) {
	p := newPacked(t)
	r := p.typ.New()
	p.a.MustSet(r, 0xFF)
	if v := p.a.MustGet(r); v != 7 {
		t.Errorf("a = %d, want 7", v)
	}
	if v := p.b.MustGet(r); v != 0 {
		t.Errorf("neighbour b = %d, want 0", v)
	}
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		name  string
		build func() (*Type, error)
		kind  errors.Kind
	}{
		{
			name: "not_byte_multiple",
			build: func() (*Type, error) {
				b := New("Odd")
				Add(b, "a", specifier.MustUint[uint8](3))
				Add(b, "m", specifier.MustEnumByCount(modeIdle, modeRun, modeStop, modeFault))
				Add(b, "c", specifier.Bool())
				return b.Build()
			},
			kind: errors.KindLayout,
		},
		{
			name:  "no_fields",
			build: New("Empty").Build,
			kind:  errors.KindLayout,
		},
		{
			name: "duplicate_field",
			build: func() (*Type, error) {
				b := New("Dup")
				Add(b, "a", specifier.MustUint[uint8](4))
				Add(b, "a", specifier.MustUint[uint8](4))
				return b.Build()
			},
			kind: errors.KindLayout,
		},
		{
			name: "unnamed_type",
			build: func() (*Type, error) {
				b := New("")
				Add(b, "a", specifier.MustUint[uint8](8))
				return b.Build()
			},
			kind: errors.KindLayout,
		},
		{
			name: "zero_specifier",
			build: func() (*Type, error) {
				b := New("Zero")
				Add(b, "a", specifier.Specifier[uint8]{})
				return b.Build()
			},
			kind: errors.KindNotInitialized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			typ, err := tt.build()
			if err == nil {
				t.Fatalf("expected error, got type %s", typ.Name())
			}
			if got := errors.KindOf(err); got != tt.kind {
				t.Errorf("kind = %q, want %q (%v)", got, tt.kind, err)
			}
		})
	}
}

func TestLayoutErrorNamesType(t *testing.T) {
	b := New("Header")
	Add(b, "a", specifier.MustUint[uint8](3))
	_, err := b.Build()
	if err == nil || !strings.Contains(err.Error(), "type Header") {
		t.Errorf("err = %v, want type name", err)
	}
}

func TestBuildTwice(t *testing.T) {
	b := New("Once")
	Add(b, "a", specifier.MustUint[uint8](8))
	first := b.MustBuild()
	second := b.MustBuild()
	if first != second {
		t.Error("second Build should return the same type")
	}

	late := Add(b, "late", specifier.Bool())
	if _, err := late.Get(first.New()); !errors.IsKind(err, errors.KindNotInitialized) {
		t.Errorf("late field: err = %v", err)
	}
}

func TestSharedLayout(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := layout.NewCompiler(layout.WithMetrics(reg))

	one := New("One", WithCompiler(c))
	Add(one, "x", specifier.MustUint[uint16](12))
	Add(one, "y", specifier.MustUint[uint8](4))
	t1 := one.MustBuild()

	two := New("Two", WithCompiler(c))
	Add(two, "p", specifier.MustUint[uint32](12))
	Add(two, "q", specifier.MustEnumByCount("a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k", "l", "m", "n", "o", "p"))
	t2 := two.MustBuild()

	if t1.Layout() != t2.Layout() {
		t.Error("types with the same widths should share a layout")
	}

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatal(err)
	}
	var hits float64
	for _, mf := range mfs {
		if mf.GetName() == "bitfield_layout_cache_hits_total" {
			hits = mf.GetMetric()[0].GetCounter().GetValue()
		}
	}
	if hits != 1 {
		t.Errorf("cache hits = %v, want 1", hits)
	}
}

func TestTypeMismatch(t *testing.T) {
	p := newPacked(t)
	other := New("Other")
	Add(other, "z", specifier.MustUint[uint8](8))
	r := other.MustBuild().New()

	if _, err := p.a.Get(r); !errors.IsKind(err, errors.KindTypeMismatch) {
		t.Errorf("Get: err = %v", err)
	}
	if err := p.a.Set(r, 1); !errors.IsKind(err, errors.KindTypeMismatch) {
		t.Errorf("Set: err = %v", err)
	}
	if !bytes.Equal(r.Bytes(), []byte{0}) {
		t.Error("mismatched set modified the record")
	}
}

func TestFailedSetLeavesBuffer(t *testing.T) {
	b := New("Status")
	st := Add(b, "st", specifier.MustEnumByDiscriminant[uint8](0, 1, 5))
	pad := Add(b, "pad", specifier.MustUint[uint8](5))
	typ := b.MustBuild()

	r := typ.New()
	st.MustSet(r, 5)
	pad.MustSet(r, 0x1F)
	before := r.Bytes()

	if err := st.Set(r, 3); !errors.IsKind(err, errors.KindUnknownDiscriminant) {
		t.Fatalf("Set(3): err = %v", err)
	}
	if err := r.Parse("st", "4"); !errors.IsKind(err, errors.KindUnknownDiscriminant) {
		t.Fatalf("Parse(4): err = %v", err)
	}
	if diff := cmp.Diff(before, r.Bytes()); diff != "" {
		t.Errorf("buffer changed (-before +after):\n%s", diff)
	}

	if err := r.SetRaw("st", 3); err != nil {
		t.Fatal(err)
	}
	_, err := st.Get(r)
	if !errors.IsKind(err, errors.KindUnknownDiscriminant) {
		t.Fatalf("Get: err = %v", err)
	}
	if !strings.Contains(err.Error(), "Status.st") {
		t.Errorf("error lacks field path: %v", err)
	}
	if s := r.String(); s != "Status{st: <invalid 0x3>, pad: 31}" {
		t.Errorf("String = %q", s)
	}
}

func TestFromBytes(t *testing.T) {
	p := newPacked(t)

	src := []byte{0xCD}
	r, err := p.typ.FromBytes(src)
	if err != nil {
		t.Fatal(err)
	}
	src[0] = 0
	if p.a.MustGet(r) != 5 || p.b.MustGet(r) != 9 || !p.c.MustGet(r) {
		t.Errorf("FromBytes decoded %s", r)
	}

	if _, err := p.typ.FromBytes([]byte{1, 2}); !errors.IsKind(err, errors.KindOutOfBounds) {
		t.Errorf("wrong length: err = %v", err)
	}

	dst := make([]byte, 1)
	if err := r.CopyTo(dst); err != nil || dst[0] != 0xCD {
		t.Errorf("CopyTo = %#x, %v", dst, err)
	}
	if err := r.CopyTo(nil); !errors.IsKind(err, errors.KindOutOfBounds) {
		t.Errorf("CopyTo(nil): err = %v", err)
	}

	c := r.Clone()
	r.Reset()
	if !bytes.Equal(r.Bytes(), []byte{0}) || !bytes.Equal(c.Bytes(), []byte{0xCD}) {
		t.Errorf("Reset/Clone: r=%#x clone=%#x", r.Bytes(), c.Bytes())
	}
}

func TestDynamicAccess(t *testing.T) {
	b := New("Frame")
	Add(b, "mode", specifier.MustEnumByCount(modeIdle, modeRun, modeStop, modeFault))
	Add(b, "len", specifier.MustUint[uint16](13))
	Add(b, "ack", specifier.Bool())
	code, err := specifier.NamedDiscriminants(
		specifier.Case{Name: "ok", Discriminant: 0},
		specifier.Case{Name: "fail", Discriminant: 5},
	)
	if err != nil {
		t.Fatal(err)
	}
	Add(b, "code", code)
	Add(b, "rsv", specifier.MustUint[uint8](5))
	typ := b.MustBuild()
	r := typ.New()

	if err := r.SetValue("mode", modeStop); err != nil {
		t.Fatal(err)
	}
	if err := r.SetValue("len", uint16(0x1675)); err != nil {
		t.Fatal(err)
	}
	if err := r.SetValue("ack", "true"); err != nil {
		t.Fatal(err)
	}
	if err := r.Parse("code", "fail"); err != nil {
		t.Fatal(err)
	}
	if err := r.Parse("rsv", "0b101"); err != nil {
		t.Fatal(err)
	}

	if v, _ := r.Value("mode"); v != modeStop {
		t.Errorf("mode = %v", v)
	}
	if v, _ := r.Value("len"); v != uint16(0x1675) {
		t.Errorf("len = %v", v)
	}
	if raw, _ := r.Raw("code"); raw != 5 {
		t.Errorf("code raw = %d", raw)
	}
	if s := r.String(); s != "Frame{mode: stop, len: 5749, ack: true, code: fail, rsv: 5}" {
		t.Errorf("String = %q", s)
	}

	t.Run("errors", func(t *testing.T) {
		tests := []struct {
			name string
			err  error
			kind errors.Kind
		}{
			{"unknown_field", r.SetValue("nope", 1), errors.KindNotFound},
			{"wrong_go_type", r.SetValue("len", 5), errors.KindTypeMismatch},
			{"parse_overflow", r.Parse("len", "0x2000"), errors.KindConversionOverflow},
			{"parse_syntax", r.Parse("len", "twelve"), errors.KindInvalidInput},
			{"parse_bool", r.Parse("ack", "maybe"), errors.KindInvalidInput},
			{"parse_variant", r.Parse("mode", "sleep"), errors.KindUnknownDiscriminant},
		}
		for _, tt := range tests {
			if !errors.IsKind(tt.err, tt.kind) {
				t.Errorf("%s: err = %v, want %s", tt.name, tt.err, tt.kind)
			}
		}
	})
}

func TestFields(t *testing.T) {
	p := newPacked(t)
	want := []FieldInfo{
		{Name: "a", Kind: specifier.KindUnsigned, Bits: 3, Offset: 0, Container: codec.Container8},
		{Name: "b", Kind: specifier.KindUnsigned, Bits: 4, Offset: 3, Container: codec.Container8},
		{Name: "c", Kind: specifier.KindBool, Bits: 1, Offset: 7, Container: codec.Container8},
	}
	if diff := cmp.Diff(want, p.typ.Fields()); diff != "" {
		t.Errorf("Fields (-want +got):\n%s", diff)
	}
	if _, ok := p.typ.Field("missing"); ok {
		t.Error("Field(missing) found")
	}
	if fi, ok := p.typ.Field("c"); !ok || fi.Offset != 7 {
		t.Errorf("Field(c) = %+v, %v", fi, ok)
	}
	if p.b.Offset() != 3 || p.b.Bits() != 4 || p.b.Name() != "b" {
		t.Error("field handle metadata mismatch")
	}
}
