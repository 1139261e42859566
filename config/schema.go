package config

import (
	"fmt"
	"strconv"

	"github.com/wippyai/bitfield/errors"
	"github.com/wippyai/bitfield/schema"
	"github.com/wippyai/bitfield/specifier"
)

// Type builds the record type declared by f.
func (f *File) Type(opts ...schema.Option) (*schema.Type, error) {
	b := schema.New(f.Name, opts...)
	for i, fc := range f.Fields {
		if err := fc.add(b); err != nil {
			return nil, annotate(err, f.Name, i, fc.Name)
		}
	}
	return b.Build()
}

func (fc FieldConfig) add(b *schema.Builder) error {
	switch fc.Type {
	case "uint":
		if fc.Variants != nil || fc.Cases != nil {
			return errors.InvalidInput(errors.PhaseConfig, nil, "uint field takes no variants or cases")
		}
		spec, err := specifier.Uint[uint64](fc.Bits)
		if err != nil {
			return err
		}
		schema.Add(b, fc.Name, spec)

	case "bool":
		if fc.Bits != 0 && fc.Bits != 1 {
			return errors.InvalidWidth(errors.PhaseConfig, nil, fc.Bits, 1, 1)
		}
		schema.Add(b, fc.Name, specifier.Bool())

	case "enum":
		if fc.Bits != 0 {
			return errors.InvalidInput(errors.PhaseConfig, nil, "enum width is derived, bits must be omitted")
		}
		switch {
		case fc.Variants != nil && fc.Cases != nil:
			return errors.InvalidInput(errors.PhaseConfig, nil, "enum takes variants or cases, not both")
		case fc.Cases != nil:
			cases := make([]specifier.Case, len(fc.Cases))
			for i, c := range fc.Cases {
				cases[i] = specifier.Case{Name: c.Name, Discriminant: c.Value}
			}
			spec, err := specifier.NamedDiscriminants(cases...)
			if err != nil {
				return err
			}
			schema.Add(b, fc.Name, spec)
		default:
			spec, err := specifier.EnumByCount(fc.Variants...)
			if err != nil {
				return err
			}
			schema.Add(b, fc.Name, spec)
		}

	case "":
		return errors.InvalidInput(errors.PhaseConfig, nil, "missing type")
	default:
		return errors.Unsupported(errors.PhaseConfig, nil, fmt.Sprintf("field type %q", fc.Type))
	}
	return nil
}

func annotate(err error, typeName string, index int, name string) error {
	if e, ok := err.(*errors.Error); ok && len(e.Path) == 0 {
		if name == "" {
			name = "fields[" + strconv.Itoa(index) + "]"
		}
		e.Path = []string{typeName, name}
	}
	return err
}
