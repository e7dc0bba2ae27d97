// Package bitio turns byte-oriented streams into addressable sequences of bits.
//
// Bits are delivered most significant first. A Writer buffers at most 7 bits
// that do not yet form a whole byte, and a Reader keeps the bits of a partially
// consumed byte until they are asked for.
//
//	w := bitio.NewWriter(dst)
//	w.WriteBits(0x5, 3) // 101
//	w.WriteBit(true)    // 1
//	w.Close()           // pads with zeros: 1011 0000
package bitio

import (
	"github.com/pkg/errors"
)

// MaxBits is the widest value that can be read or written in one call.
const MaxBits = 56

var (
	// ErrBitCount is returned when a bit width outside [0, MaxBits] is requested.
	ErrBitCount = errors.New("bit count out of range")

	// ErrNotAligned is returned by Writer.Flush when bits are pending that do not fill a byte.
	ErrNotAligned = errors.New("not at a byte boundary, cannot flush")

	// ErrInvalidMark is returned by Reader.Reset when there is no mark to return to,
	// or when more bytes than the mark's limit have been consumed since it was set.
	ErrInvalidMark = errors.New("reset to invalid mark")
)

// mask returns a value with the low n bits set.
func mask(n uint) uint64 {
	return (uint64(1) << n) - 1
}

// signExtend interprets the low n bits of v as a two's complement number.
func signExtend(v uint64, n int) int64 {
	if n == 0 {
		return 0
	}
	wrap := uint64(1) << uint(n-1)
	if v >= wrap {
		return int64(v) - int64(wrap<<1)
	}
	return int64(v)
}
