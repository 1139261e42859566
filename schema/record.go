package schema

import (
	"fmt"
	"strings"

	"github.com/wippyai/bitfield/errors"
)

// Record is one instance of a Type owning a fixed-size buffer.
type Record struct {
	typ *Type
	buf []byte
}

func (r *Record) Type() *Type { return r.typ }

// Bytes returns a copy of the packed buffer.
func (r *Record) Bytes() []byte {
	out := make([]byte, len(r.buf))
	copy(out, r.buf)
	return out
}

// CopyTo copies the packed buffer into dst, which must hold Size bytes.
func (r *Record) CopyTo(dst []byte) error {
	if len(dst) < len(r.buf) {
		return errors.New(errors.PhaseStore, errors.KindOutOfBounds).
			Type(r.typ.name).
			Value(len(dst)).
			Detail("destination has %d bytes, record is %d", len(dst), len(r.buf)).
			Build()
	}
	copy(dst, r.buf)
	return nil
}

// Clone returns an independent copy of r.
func (r *Record) Clone() *Record {
	return &Record{typ: r.typ, buf: r.Bytes()}
}

// Reset zeroes the buffer.
func (r *Record) Reset() {
	clear(r.buf)
}

// Value decodes the named field.
func (r *Record) Value(name string) (any, error) {
	f, err := r.typ.lookup(name, errors.PhaseLoad)
	if err != nil {
		return nil, err
	}
	raw, err := f.load(r)
	if err != nil {
		return nil, err
	}
	v, err := f.decode(raw)
	if err != nil {
		return nil, f.annotate(err)
	}
	return v, nil
}

// SetValue encodes v into the named field. v must be the field's value type
// or a string accepted by Parse.
func (r *Record) SetValue(name string, v any) error {
	f, err := r.typ.lookup(name, errors.PhaseStore)
	if err != nil {
		return err
	}
	raw, err := f.encode(v)
	if err != nil {
		return f.annotate(err)
	}
	return f.store(r, raw)
}

// Raw returns the named field's packed bits without conversion.
func (r *Record) Raw(name string) (uint64, error) {
	f, err := r.typ.lookup(name, errors.PhaseLoad)
	if err != nil {
		return 0, err
	}
	return f.load(r)
}

// SetRaw stores the low bits of raw in the named field without going through
// its specifier.
func (r *Record) SetRaw(name string, raw uint64) error {
	f, err := r.typ.lookup(name, errors.PhaseStore)
	if err != nil {
		return err
	}
	return f.store(r, raw)
}

// Parse converts text with the named field's specifier and stores it.
func (r *Record) Parse(name, text string) error {
	f, err := r.typ.lookup(name, errors.PhaseStore)
	if err != nil {
		return err
	}
	raw, err := f.parse(text)
	if err != nil {
		return err
	}
	return f.store(r, raw)
}

// String formats r as Name{field: value, ...}. Fields whose bits do not
// decode print as their raw value.
func (r *Record) String() string {
	var b strings.Builder
	b.WriteString(r.typ.name)
	b.WriteByte('{')
	for i, f := range r.typ.fields {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(f.name)
		b.WriteString(": ")

		raw, err := f.load(r)
		if err != nil {
			b.WriteString("<error>")
			continue
		}
		if v, err := f.decode(raw); err == nil {
			fmt.Fprint(&b, v)
		} else {
			fmt.Fprintf(&b, "<invalid %#x>", raw)
		}
	}
	b.WriteByte('}')
	return b.String()
}
