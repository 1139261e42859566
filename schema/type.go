package schema

import (
	"github.com/wippyai/bitfield/codec"
	"github.com/wippyai/bitfield/errors"
	"github.com/wippyai/bitfield/layout"
	"github.com/wippyai/bitfield/specifier"
)

// Type is an immutable packed record type, safe for concurrent use.
type Type struct {
	layout *layout.Layout
	byName map[string]*field
	name   string
	fields []*field
}

// FieldInfo describes one field of a record type.
type FieldInfo struct {
	Name      string
	Kind      specifier.Kind
	Bits      int
	Offset    int
	Container codec.Container
	// Begin and End bound the inclusive byte window of the field.
	Begin, End int
	Variants   []string
}

func (t *Type) Name() string { return t.name }

// Size returns the record size in bytes.
func (t *Type) Size() int { return t.layout.Size() }

func (t *Type) TotalBits() int { return t.layout.TotalBits() }

// Layout returns the shared offset table.
func (t *Type) Layout() *layout.Layout { return t.layout }

// Fields describes all fields in declaration order.
func (t *Type) Fields() []FieldInfo {
	out := make([]FieldInfo, len(t.fields))
	for i, f := range t.fields {
		out[i] = f.info()
	}
	return out
}

// Field describes the named field.
func (t *Type) Field(name string) (FieldInfo, bool) {
	f, ok := t.byName[name]
	if !ok {
		return FieldInfo{}, false
	}
	return f.info(), true
}

// New returns a record with a zeroed buffer.
func (t *Type) New() *Record {
	return &Record{typ: t, buf: make([]byte, t.Size())}
}

// FromBytes returns a record holding a copy of data, which must be exactly
// Size bytes long.
func (t *Type) FromBytes(data []byte) (*Record, error) {
	if len(data) != t.Size() {
		return nil, errors.New(errors.PhaseLoad, errors.KindOutOfBounds).
			Type(t.name).
			Value(len(data)).
			Detail("got %d bytes, record is %d", len(data), t.Size()).
			Build()
	}
	r := t.New()
	copy(r.buf, data)
	return r, nil
}

func (t *Type) lookup(name string, phase errors.Phase) (*field, error) {
	f, ok := t.byName[name]
	if !ok {
		e := errors.NotFound(phase, "field", name)
		e.Type = t.name
		return nil, e
	}
	return f, nil
}
