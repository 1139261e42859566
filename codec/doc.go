// Package codec loads and stores unsigned integers of 1 to 64 bits at
// arbitrary bit offsets in a byte buffer.
//
// # Bit Numbering
//
// Bit and byte order are little-endian throughout. Bit 0 of offset 0 is the
// least significant bit of byte 0; increasing offsets move toward more
// significant bits and then into the following bytes:
//
//	offset:  7 6 5 4 3 2 1 0 | 15 14 13 12 11 10 9 8 | ...
//	byte:    ------ 0 ------ | -------- 1 ---------- | ...
//
// A field at offset o with length w occupies the byte window
// [o/8, (o+w-1)/8]. Store only reads and writes bytes inside that window.
//
// # Containers
//
// Every length belongs to one container band:
//
//	Container   Band     Widest window
//	────────────────────────────────────
//	8-bit       1-8      2 bytes
//	16-bit      9-16     3 bytes
//	32-bit      17-32    5 bytes
//	64-bit      33-64    9 bytes
//
// The specialised functions (Load8, Store16, ...) reject lengths outside their
// band with KindInvalidWidth. LoadBits and StoreBits pick the band from the
// length and are what record accessors use.
//
// # Errors
//
// Lengths outside the band fail with KindInvalidWidth; an empty buffer, a
// negative offset, or a window ending past the buffer fail with
// KindOutOfBounds. Both are detected before any byte is touched, so a failed
// Store leaves the buffer unchanged.
//
// All functions are pure and safe for concurrent use on distinct buffers.
package codec
