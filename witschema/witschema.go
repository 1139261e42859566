package witschema

import (
	"fmt"

	"go.bytecodealliance.org/wit"

	"github.com/wippyai/bitfield/errors"
	"github.com/wippyai/bitfield/schema"
	"github.com/wippyai/bitfield/specifier"
)

type options struct {
	widths     map[string]int
	schemaOpts []schema.Option
	padding    bool
}

// Option configures FromTypeDef.
type Option func(*options)

// WithWidth packs the named unsigned field in n bits instead of its natural
// width. Nested fields use their dotted name.
func WithWidth(field string, n int) Option {
	return func(o *options) {
		o.widths[field] = n
	}
}

// WithPadding accepts enums whose case count is not a power of two. Case i is
// packed as i in the smallest covering width and the remaining codes fail to
// decode.
func WithPadding() Option {
	return func(o *options) {
		o.padding = true
	}
}

// WithSchemaOptions passes options through to schema.New.
func WithSchemaOptions(opts ...schema.Option) Option {
	return func(o *options) {
		o.schemaOpts = append(o.schemaOpts, opts...)
	}
}

// FromTypeDef builds a record type from td. A record contributes its fields;
// any other supported kind becomes a single field named after the type.
func FromTypeDef(td *wit.TypeDef, opts ...Option) (*schema.Type, error) {
	if td == nil {
		return nil, errors.InvalidInput(errors.PhaseDefine, nil, "nil type definition")
	}
	o := &options{widths: make(map[string]int)}
	for _, opt := range opts {
		opt(o)
	}

	name := typeName(td)
	d := &deriver{
		opts: o,
		b:    schema.New(name, o.schemaOpts...),
		used: make(map[string]bool),
	}

	var err error
	if rec, ok := td.Kind.(*wit.Record); ok {
		err = d.record("", rec)
	} else {
		err = d.add(name, td)
	}
	if err != nil {
		return nil, err
	}

	for field := range o.widths {
		if !d.used[field] {
			return nil, errors.NotFound(errors.PhaseDefine, "unsigned field", field)
		}
	}

	return d.b.Build()
}

type deriver struct {
	opts *options
	b    *schema.Builder
	used map[string]bool
}

func (d *deriver) record(prefix string, rec *wit.Record) error {
	if len(rec.Fields) == 0 {
		return errors.Layout(prefix, "record has no fields")
	}
	for _, f := range rec.Fields {
		if err := d.add(join(prefix, f.Name), f.Type); err != nil {
			return err
		}
	}
	return nil
}

func (d *deriver) add(name string, t wit.Type) error {
	switch t := t.(type) {
	case wit.Bool:
		schema.Add(d.b, name, specifier.Bool())
		return nil
	case wit.U8:
		return addUint[uint8](d, name, 8)
	case wit.U16:
		return addUint[uint16](d, name, 16)
	case wit.U32:
		return addUint[uint32](d, name, 32)
	case wit.U64:
		return addUint[uint64](d, name, 64)
	case *wit.TypeDef:
		return d.typeDef(name, t)
	default:
		return errors.Unsupported(errors.PhaseDefine, []string{name}, fmt.Sprintf("WIT type %s has no packed form", witName(t)))
	}
}

func (d *deriver) typeDef(name string, td *wit.TypeDef) error {
	switch kind := td.Kind.(type) {
	case *wit.Record:
		return d.record(name, kind)
	case *wit.Enum:
		return d.enum(name, kind)
	case *wit.Flags:
		if len(kind.Flags) == 0 {
			return errors.Layout(name, "flags has no members")
		}
		for _, f := range kind.Flags {
			schema.Add(d.b, join(name, f.Name), specifier.Bool())
		}
		return nil
	case wit.Type:
		return d.add(name, kind)
	default:
		return errors.Unsupported(errors.PhaseDefine, []string{name}, fmt.Sprintf("WIT %T has no packed form", kind))
	}
}

func (d *deriver) enum(name string, e *wit.Enum) error {
	names := make([]string, len(e.Cases))
	for i, c := range e.Cases {
		names[i] = c.Name
	}

	n := len(names)
	if !d.opts.padding || (n >= 2 && n&(n-1) == 0) {
		spec, err := specifier.EnumByCount(names...)
		if err != nil {
			return annotate(err, name)
		}
		schema.Add(d.b, name, spec)
		return nil
	}

	cases := make([]specifier.Case, n)
	for i, c := range names {
		cases[i] = specifier.Case{Name: c, Discriminant: uint64(i)}
	}
	spec, err := specifier.NamedDiscriminants(cases...)
	if err != nil {
		return annotate(err, name)
	}
	schema.Add(d.b, name, spec)
	return nil
}

func addUint[V specifier.Unsigned](d *deriver, name string, natural int) error {
	n := natural
	if w, ok := d.opts.widths[name]; ok {
		n = w
		d.used[name] = true
	}
	spec, err := specifier.Uint[V](n)
	if err != nil {
		return annotate(err, name)
	}
	schema.Add(d.b, name, spec)
	return nil
}

func annotate(err error, name string) error {
	if e, ok := err.(*errors.Error); ok && len(e.Path) == 0 {
		e.Path = []string{name}
	}
	return err
}

func typeName(td *wit.TypeDef) string {
	if td.Name != nil && *td.Name != "" {
		return *td.Name
	}
	return "record"
}

func witName(t wit.Type) string {
	switch t.(type) {
	case wit.S8, wit.S16, wit.S32, wit.S64:
		return "signed integer"
	case wit.F32, wit.F64:
		return "float"
	case wit.Char:
		return "char"
	case wit.String:
		return "string"
	}
	return fmt.Sprintf("%T", t)
}

func join(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}
