package schema

import (
	stderrors "errors"
	"fmt"
	"strconv"

	"github.com/wippyai/bitfield/codec"
	"github.com/wippyai/bitfield/errors"
	"github.com/wippyai/bitfield/specifier"
)

// field is the type-erased half of a field, shared by the typed handle and
// the dynamic record accessors.
type field struct {
	typ    *Type
	name   string
	desc   specifier.Descriptor
	index  int
	offset int

	decode func(raw uint64) (any, error)
	encode func(v any) (uint64, error)
	parse  func(text string) (uint64, error)
}

func newField[V any](name string, spec specifier.Specifier[V]) *field {
	f := &field{name: name, desc: spec.Descriptor()}

	f.decode = func(raw uint64) (any, error) {
		return spec.Decode(raw)
	}
	f.encode = func(v any) (uint64, error) {
		switch x := v.(type) {
		case V:
			return spec.Encode(x)
		case string:
			return f.parse(x)
		}
		var want V
		return 0, errors.TypeMismatch(errors.PhaseEncode, f.path(), fmt.Sprintf("%T", v), fmt.Sprintf("%T", want))
	}
	f.parse = parser(f, spec)
	return f
}

// parser returns the text-to-raw conversion for spec's kind. Integers accept
// base prefixes (0x, 0b, 0o); enums accept variant names or discriminants.
func parser[V any](f *field, spec specifier.Specifier[V]) func(string) (uint64, error) {
	switch spec.Kind() {
	case specifier.KindBool:
		return func(text string) (uint64, error) {
			v, err := strconv.ParseBool(text)
			if err != nil {
				return 0, errors.InvalidInput(errors.PhaseEncode, f.path(), fmt.Sprintf("%q is not a bool", text))
			}
			if v {
				return 1, nil
			}
			return 0, nil
		}

	case specifier.KindUnsigned:
		return func(text string) (uint64, error) {
			n, err := strconv.ParseUint(text, 0, spec.Bits())
			if err != nil {
				return 0, parseErr(f, text, err, spec.String())
			}
			return n, nil
		}

	default:
		variants := spec.Variants()
		return func(text string) (uint64, error) {
			for i, name := range f.desc.Variants {
				if name == text {
					return spec.Encode(variants[i])
				}
			}
			n, err := strconv.ParseUint(text, 0, 64)
			if err != nil {
				return 0, f.annotate(errors.UnknownDiscriminant(errors.PhaseEncode, nil, text))
			}
			if _, err := spec.Decode(n); err != nil {
				return 0, f.annotate(err)
			}
			return n, nil
		}
	}
}

func parseErr(f *field, text string, err error, target string) error {
	if stderrors.Is(err, strconv.ErrRange) {
		return errors.ConversionOverflow(errors.PhaseEncode, f.path(), text, target)
	}
	return errors.InvalidInput(errors.PhaseEncode, f.path(), fmt.Sprintf("%q is not an unsigned integer", text))
}

func (f *field) path() []string {
	if f.typ == nil {
		return []string{f.name}
	}
	return []string{f.typ.name, f.name}
}

// annotate stamps the field path onto structured errors that lack one.
func (f *field) annotate(err error) error {
	var e *errors.Error
	if stderrors.As(err, &e) && len(e.Path) == 0 {
		e.Path = f.path()
	}
	return err
}

func (f *field) check(r *Record, phase errors.Phase) error {
	if f.typ == nil {
		return errors.NotInitialized(phase, "field "+f.name+" (type not built)")
	}
	if r == nil {
		return errors.New(phase, errors.KindInvalidInput).Path(f.path()...).Detail("nil record").Build()
	}
	if r.typ != f.typ {
		got := "<none>"
		if r.typ != nil {
			got = r.typ.name
		}
		return errors.TypeMismatch(phase, f.path(), got, f.typ.name)
	}
	return nil
}

func (f *field) load(r *Record) (uint64, error) {
	raw, err := codec.LoadBits(f.offset, f.desc.Bits, r.buf)
	return raw, f.annotate(err)
}

func (f *field) store(r *Record, raw uint64) error {
	return f.annotate(codec.StoreBits(f.offset, f.desc.Bits, r.buf, raw))
}

func (f *field) info() FieldInfo {
	begin, end := codec.Window(f.offset, f.desc.Bits)
	info := FieldInfo{
		Name:      f.name,
		Kind:      f.desc.Kind,
		Bits:      f.desc.Bits,
		Offset:    f.offset,
		Container: f.desc.Container,
		Begin:     begin,
		End:       end,
	}
	if f.desc.Variants != nil {
		info.Variants = append([]string(nil), f.desc.Variants...)
	}
	return info
}

// Field is a typed accessor for one field of a record type.
type Field[V any] struct {
	def  *field
	spec specifier.Specifier[V]
}

// Name returns the field name.
func (f *Field[V]) Name() string { return f.def.name }

// Offset returns the bit offset within the record.
func (f *Field[V]) Offset() int { return f.def.offset }

// Bits returns the packed width.
func (f *Field[V]) Bits() int { return f.def.desc.Bits }

// Specifier returns the field's specifier.
func (f *Field[V]) Specifier() specifier.Specifier[V] { return f.spec }

// Get decodes the field from r.
func (f *Field[V]) Get(r *Record) (V, error) {
	var zero V
	if err := f.def.check(r, errors.PhaseLoad); err != nil {
		return zero, err
	}
	raw, err := f.def.load(r)
	if err != nil {
		return zero, err
	}
	v, err := f.spec.Decode(raw)
	if err != nil {
		return zero, f.def.annotate(err)
	}
	return v, nil
}

// Set encodes v into r. Unsigned values wider than the field keep their low
// bits. On error r is not modified.
func (f *Field[V]) Set(r *Record, v V) error {
	if err := f.def.check(r, errors.PhaseStore); err != nil {
		return err
	}
	raw, err := f.spec.Encode(v)
	if err != nil {
		return f.def.annotate(err)
	}
	return f.def.store(r, raw)
}

// MustGet is like Get but panics on error.
func (f *Field[V]) MustGet(r *Record) V {
	v, err := f.Get(r)
	if err != nil {
		panic(err)
	}
	return v
}

// MustSet is like Set but panics on error.
func (f *Field[V]) MustSet(r *Record, v V) {
	if err := f.Set(r, v); err != nil {
		panic(err)
	}
}
