package bitfield

// Memory is a linear byte-addressed memory that packed records can be read
// from and written back to, such as a WebAssembly instance's memory.
type Memory interface {
	// Read returns length bytes at offset. The slice may alias the memory.
	Read(offset uint32, length uint32) ([]byte, error)
	Write(offset uint32, data []byte) error
	// Size returns the current memory size in bytes.
	Size() uint32
}
