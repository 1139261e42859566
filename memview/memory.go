package memview

import (
	"github.com/tetratelabs/wazero/api"

	"github.com/wippyai/bitfield"
	"github.com/wippyai/bitfield/errors"
)

var (
	_ bitfield.Memory = (*WazeroMemory)(nil)
	_ bitfield.Memory = Bytes(nil)
)

// WazeroMemory adapts a wazero instance memory.
type WazeroMemory struct {
	mem api.Memory
}

func NewWazeroMemory(mem api.Memory) *WazeroMemory {
	return &WazeroMemory{mem: mem}
}

// Read returns a view into guest memory, valid until the memory grows.
func (m *WazeroMemory) Read(offset uint32, length uint32) ([]byte, error) {
	data, ok := m.mem.Read(offset, length)
	if !ok {
		return nil, outOfBounds(errors.PhaseLoad, offset, length, m.mem.Size())
	}
	return data, nil
}

func (m *WazeroMemory) Write(offset uint32, data []byte) error {
	if !m.mem.Write(offset, data) {
		return outOfBounds(errors.PhaseStore, offset, uint32(len(data)), m.mem.Size())
	}
	return nil
}

func (m *WazeroMemory) Size() uint32 {
	return m.mem.Size()
}

// Bytes is an in-process Memory backed by a byte slice.
type Bytes []byte

func (b Bytes) Read(offset uint32, length uint32) ([]byte, error) {
	if uint64(offset)+uint64(length) > uint64(len(b)) {
		return nil, outOfBounds(errors.PhaseLoad, offset, length, uint32(len(b)))
	}
	return b[offset : offset+length], nil
}

func (b Bytes) Write(offset uint32, data []byte) error {
	if uint64(offset)+uint64(len(data)) > uint64(len(b)) {
		return outOfBounds(errors.PhaseStore, offset, uint32(len(data)), uint32(len(b)))
	}
	copy(b[offset:], data)
	return nil
}

func (b Bytes) Size() uint32 {
	return uint32(len(b))
}

func outOfBounds(phase errors.Phase, offset, length, size uint32) *errors.Error {
	return errors.New(phase, errors.KindOutOfBounds).
		Value(offset).
		Detail("%d bytes at %d exceed memory of %d bytes", length, offset, size).
		Build()
}
