package codec

// Container is the native unsigned width used to carry a field value.
type Container uint8

const (
	Container8 Container = iota
	Container16
	Container32
	Container64
)

var containerNames = [...]string{
	Container8:  "u8",
	Container16: "u16",
	Container32: "u32",
	Container64: "u64",
}

func (c Container) String() string {
	if int(c) < len(containerNames) {
		return containerNames[c]
	}
	return "unknown"
}

// Bits returns the container width in bits.
func (c Container) Bits() int {
	return 8 << c
}

// Band returns the inclusive range of lengths the container carries.
func (c Container) Band() (minBits, maxBits int) {
	if c == Container8 {
		return 1, 8
	}
	return c.Bits()/2 + 1, c.Bits()
}

// ContainerFor returns the smallest container covering bits. Lengths above
// 64 map to Container64; callers validate the range separately.
func ContainerFor(bits int) Container {
	switch {
	case bits <= 8:
		return Container8
	case bits <= 16:
		return Container16
	case bits <= 32:
		return Container32
	default:
		return Container64
	}
}

// Mask returns a value with the low length bits set.
func Mask(length int) uint64 {
	if length <= 0 {
		return 0
	}
	if length >= 64 {
		return ^uint64(0)
	}
	return ^uint64(0) >> (64 - length)
}

// Window returns the inclusive byte range [begin, end] covered by the bit
// range [offset, offset+length). length must be positive.
func Window(offset, length int) (begin, end int) {
	return offset >> 3, (offset + length - 1) >> 3
}

// SizeFor returns the number of bytes needed to hold totalBits.
func SizeFor(totalBits int) int {
	return (totalBits + 7) >> 3
}
