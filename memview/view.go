// Package memview reads and writes packed records in place in linear memory.
//
// A View binds a record type to an address. Field access through Get and Set
// touches only the bytes of that field's window, so neighbouring data in the
// same memory is never rewritten.
package memview

import (
	"github.com/wippyai/bitfield"
	"github.com/wippyai/bitfield/codec"
	"github.com/wippyai/bitfield/errors"
	"github.com/wippyai/bitfield/schema"
)

// View is a record of type typ stored at addr in mem. Like records, views
// are not synchronized.
type View struct {
	typ  *schema.Type
	mem  bitfield.Memory
	addr uint32
}

// New binds typ to addr, failing with KindOutOfBounds if the record does not
// fit in mem's current size.
func New(typ *schema.Type, mem bitfield.Memory, addr uint32) (*View, error) {
	if typ == nil || mem == nil {
		return nil, errors.InvalidInput(errors.PhaseDefine, nil, "view needs a type and a memory")
	}
	if uint64(addr)+uint64(typ.Size()) > uint64(mem.Size()) {
		return nil, errors.New(errors.PhaseDefine, errors.KindOutOfBounds).
			Type(typ.Name()).
			Value(addr).
			Detail("%d bytes at %d exceed memory of %d bytes", typ.Size(), addr, mem.Size()).
			Build()
	}
	return &View{typ: typ, mem: mem, addr: addr}, nil
}

func (v *View) Type() *schema.Type { return v.typ }

func (v *View) Addr() uint32 { return v.addr }

// Load returns a snapshot of the record.
func (v *View) Load() (*schema.Record, error) {
	data, err := v.mem.Read(v.addr, uint32(v.typ.Size()))
	if err != nil {
		return nil, err
	}
	return v.typ.FromBytes(data)
}

// Store writes r over the view. r must be of the view's type.
func (v *View) Store(r *schema.Record) error {
	if r.Type() != v.typ {
		return errors.TypeMismatch(errors.PhaseStore, nil, r.Type().Name(), v.typ.Name())
	}
	return v.mem.Write(v.addr, r.Bytes())
}

// Get decodes field f of the record in memory.
func Get[V any](v *View, f *schema.Field[V]) (V, error) {
	r, err := v.Load()
	if err != nil {
		var zero V
		return zero, err
	}
	return f.Get(r)
}

// Set encodes val into field f, writing back only the field's byte window.
func Set[V any](v *View, f *schema.Field[V], val V) error {
	r, err := v.Load()
	if err != nil {
		return err
	}
	if err := f.Set(r, val); err != nil {
		return err
	}
	begin, end := codec.Window(f.Offset(), f.Bits())
	return v.mem.Write(v.addr+uint32(begin), r.Bytes()[begin:end+1])
}
