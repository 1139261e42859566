package codec

import (
	"encoding/binary"
	"math/bits"

	"github.com/wippyai/bitfield/errors"
)

// Unsigned is the set of value types a container can carry.
type Unsigned interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uint
}

// window validates length against the container band and the bit range
// against data, returning the inclusive byte window.
func window(phase errors.Phase, c Container, offset, length int, data []byte) (begin, end int, err error) {
	lo, hi := c.Band()
	if length < lo || length > hi {
		return 0, 0, errors.InvalidWidth(phase, nil, length, lo, hi)
	}
	if offset < 0 || len(data) == 0 {
		return 0, 0, errors.OutOfBounds(phase, nil, offset, length, len(data))
	}
	begin, end = Window(offset, length)
	if end >= len(data) {
		return 0, 0, errors.OutOfBounds(phase, nil, offset, length, len(data))
	}
	return begin, end, nil
}

// Load8 reads 1-8 bits. The window spans at most two bytes.
func Load8(offset, length int, data []byte) (uint8, error) {
	begin, end, err := window(errors.PhaseLoad, Container8, offset, length, data)
	if err != nil {
		return 0, err
	}
	var v uint16
	if begin == end {
		v = uint16(data[begin])
	} else {
		v = binary.LittleEndian.Uint16(data[begin:])
	}
	mask := uint8(0xFF) >> (8 - length)
	return uint8(v>>(offset&7)) & mask, nil
}

// Load16 reads 9-16 bits. The window spans two or three bytes.
func Load16(offset, length int, data []byte) (uint16, error) {
	begin, end, err := window(errors.PhaseLoad, Container16, offset, length, data)
	if err != nil {
		return 0, err
	}
	var buf [4]byte
	copy(buf[:], data[begin:end+1])
	v := binary.LittleEndian.Uint32(buf[:])
	mask := uint16(0xFFFF) >> (16 - length)
	return uint16(v>>(offset&7)) & mask, nil
}

// Load32 reads 17-32 bits. The window spans three to five bytes.
func Load32(offset, length int, data []byte) (uint32, error) {
	begin, end, err := window(errors.PhaseLoad, Container32, offset, length, data)
	if err != nil {
		return 0, err
	}
	var buf [8]byte
	copy(buf[:], data[begin:end+1])
	v := binary.LittleEndian.Uint64(buf[:])
	mask := uint32(0xFFFFFFFF) >> (32 - length)
	return uint32(v>>(offset&7)) & mask, nil
}

// Load64 reads 33-64 bits. The window spans five to nine bytes; a ninth
// byte only occurs for an unaligned offset and carries the top bits.
func Load64(offset, length int, data []byte) (uint64, error) {
	begin, end, err := window(errors.PhaseLoad, Container64, offset, length, data)
	if err != nil {
		return 0, err
	}
	var buf [9]byte
	copy(buf[:], data[begin:end+1])
	shift := uint(offset & 7)
	lo := binary.LittleEndian.Uint64(buf[:8])
	// shift == 0 never has a ninth byte, and a 64-bit shift yields zero.
	v := lo>>shift | uint64(buf[8])<<(64-shift)
	return v & (^uint64(0) >> (64 - length)), nil
}

// Store8 writes the low length bits (1-8) of val.
func Store8(offset, length int, data []byte, val uint8) error {
	begin, end, err := window(errors.PhaseStore, Container8, offset, length, data)
	if err != nil {
		return err
	}
	val &= uint8(0xFF) >> (8 - length)
	var buf [2]byte
	binary.LittleEndian.PutUint16(buf[:], uint16(val)<<(offset&7))
	merge(data, begin, end, offset, length, buf[:])
	return nil
}

// Store16 writes the low length bits (9-16) of val.
func Store16(offset, length int, data []byte, val uint16) error {
	begin, end, err := window(errors.PhaseStore, Container16, offset, length, data)
	if err != nil {
		return err
	}
	val &= uint16(0xFFFF) >> (16 - length)
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], uint32(val)<<(offset&7))
	merge(data, begin, end, offset, length, buf[:])
	return nil
}

// Store32 writes the low length bits (17-32) of val.
func Store32(offset, length int, data []byte, val uint32) error {
	begin, end, err := window(errors.PhaseStore, Container32, offset, length, data)
	if err != nil {
		return err
	}
	val &= uint32(0xFFFFFFFF) >> (32 - length)
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(val)<<(offset&7))
	merge(data, begin, end, offset, length, buf[:])
	return nil
}

// Store64 writes the low length bits (33-64) of val.
func Store64(offset, length int, data []byte, val uint64) error {
	begin, end, err := window(errors.PhaseStore, Container64, offset, length, data)
	if err != nil {
		return err
	}
	val &= ^uint64(0) >> (64 - length)
	shift := uint(offset & 7)
	var buf [9]byte
	binary.LittleEndian.PutUint64(buf[:8], val<<shift)
	buf[8] = byte(val >> (64 - shift))
	merge(data, begin, end, offset, length, buf[:])
	return nil
}

// merge writes the shifted little-endian value src into data[begin..end],
// keeping the bits below the field in the first byte and above it in the
// last byte. Interior bytes are fully owned by the field.
func merge(data []byte, begin, end, offset, length int, src []byte) {
	head := byte(0xFF) << (offset & 7)
	var keepTail byte
	if r := (offset + length) & 7; r != 0 {
		keepTail = 0xFF << r
	}

	if begin == end {
		data[begin] = data[begin]&(^head|keepTail) | src[0]
		return
	}

	n := end - begin
	data[begin] = data[begin]&^head | src[0]
	copy(data[begin+1:end], src[1:n])
	data[end] = data[end]&keepTail | src[n]
}

// LoadBits reads length bits (1-64) at offset through the container that
// covers length.
func LoadBits(offset, length int, data []byte) (uint64, error) {
	switch {
	case length < 1 || length > 64:
		return 0, errors.InvalidWidth(errors.PhaseLoad, nil, length, 1, 64)
	case length <= 8:
		v, err := Load8(offset, length, data)
		return uint64(v), err
	case length <= 16:
		v, err := Load16(offset, length, data)
		return uint64(v), err
	case length <= 32:
		v, err := Load32(offset, length, data)
		return uint64(v), err
	default:
		return Load64(offset, length, data)
	}
}

// StoreBits writes the low length bits (1-64) of val at offset through the
// container that covers length.
func StoreBits(offset, length int, data []byte, val uint64) error {
	switch {
	case length < 1 || length > 64:
		return errors.InvalidWidth(errors.PhaseStore, nil, length, 1, 64)
	case length <= 8:
		return Store8(offset, length, data, uint8(val))
	case length <= 16:
		return Store16(offset, length, data, uint16(val))
	case length <= 32:
		return Store32(offset, length, data, uint32(val))
	default:
		return Store64(offset, length, data, val)
	}
}

// Load reads length bits through the container matching T's width. length
// must fall in that container's band.
func Load[T Unsigned](offset, length int, data []byte) (T, error) {
	switch typeBits[T]() {
	case 8:
		v, err := Load8(offset, length, data)
		return T(v), err
	case 16:
		v, err := Load16(offset, length, data)
		return T(v), err
	case 32:
		v, err := Load32(offset, length, data)
		return T(v), err
	default:
		v, err := Load64(offset, length, data)
		return T(v), err
	}
}

// Store writes the low length bits of val through the container matching
// T's width.
func Store[T Unsigned](offset, length int, data []byte, val T) error {
	switch typeBits[T]() {
	case 8:
		return Store8(offset, length, data, uint8(val))
	case 16:
		return Store16(offset, length, data, uint16(val))
	case 32:
		return Store32(offset, length, data, uint32(val))
	default:
		return Store64(offset, length, data, uint64(val))
	}
}

func typeBits[T Unsigned]() int {
	return bits.Len64(uint64(^T(0)))
}
