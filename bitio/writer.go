package bitio

import (
	"io"

	"github.com/pkg/errors"
)

// A Writer writes groups of 0 to MaxBits bits to an io.Writer.
// Whole bytes are passed on as soon as they are complete; the remaining bits
// wait until more bits arrive or the Writer is padded.
type Writer struct {
	w io.Writer

	// The low nb bits of buf are pending, 0 <= nb <= 7.
	buf byte
	nb  uint

	tmp     [8]byte
	written int64
}

// NewWriter returns a Writer that writes to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// WriteBits writes the low n bits of v, most significant bit first.
// ErrBitCount is returned if n is outside [0, MaxBits].
func (w *Writer) WriteBits(v uint64, n int) error {
	if n < 0 || n > MaxBits {
		return ErrBitCount
	}
	un := uint(n)
	value := (v & mask(un)) | uint64(w.buf)<<un
	total := un + w.nb
	rem := total % 8
	count := int(total / 8)
	for i := 0; i < count; i++ {
		w.tmp[i] = byte(value >> (rem + 8*uint(count-1-i)))
	}
	w.buf = byte(value & mask(rem))
	w.nb = rem
	w.written += int64(n)

	if count > 0 {
		if _, err := w.w.Write(w.tmp[:count]); err != nil {
			return errors.Wrap(err, "")
		}
	}
	return nil
}

// WriteBit writes a single bit, 1 for true.
func (w *Writer) WriteBit(bit bool) error {
	var v uint64
	if bit {
		v = 1
	}
	return w.WriteBits(v, 1)
}

// WriteByte writes 8 bits.
func (w *Writer) WriteByte(c byte) error {
	if w.nb != 0 {
		return w.WriteBits(uint64(c), 8)
	}
	w.tmp[0] = c
	if _, err := w.w.Write(w.tmp[:1]); err != nil {
		return errors.Wrap(err, "")
	}
	w.written += 8
	return nil
}

// Write implements io.Writer. When the Writer is at a byte boundary,
// p goes straight to the underlying writer.
func (w *Writer) Write(p []byte) (int, error) {
	if w.nb == 0 {
		n, err := w.w.Write(p)
		w.written += int64(n) * 8
		if err != nil {
			return n, errors.Wrap(err, "")
		}
		return n, nil
	}

	for i, c := range p {
		if err := w.WriteBits(uint64(c), 8); err != nil {
			return i, err
		}
	}
	return len(p), nil
}

// WriteUint16 writes v most significant byte first.
func (w *Writer) WriteUint16(v uint16) error {
	return w.WriteBits(uint64(v), 16)
}

// WriteUint16LE writes v least significant byte first.
func (w *Writer) WriteUint16LE(v uint16) error {
	if err := w.WriteByte(byte(v)); err != nil {
		return err
	}
	return w.WriteByte(byte(v >> 8))
}

// WriteUint32 writes v most significant byte first.
func (w *Writer) WriteUint32(v uint32) error {
	return w.WriteBits(uint64(v), 32)
}

// WriteUint32LE writes v least significant byte first.
func (w *Writer) WriteUint32LE(v uint32) error {
	for i := uint(0); i < 4; i++ {
		if err := w.WriteByte(byte(v >> (8 * i))); err != nil {
			return err
		}
	}
	return nil
}

// BitsToByteBoundary returns how many bits must be written to reach the next byte boundary.
func (w *Writer) BitsToByteBoundary() int {
	return int((8 - w.nb) % 8)
}

func (w *Writer) IsAtByteBoundary() bool {
	return w.nb == 0
}

// PadToByteBoundary writes zero bits up to the next byte boundary.
func (w *Writer) PadToByteBoundary() error {
	return w.WriteBits(0, w.BitsToByteBoundary())
}

// DiscardPendingBits drops the bits that do not yet fill a byte.
func (w *Writer) DiscardPendingBits() {
	w.buf = 0
	w.nb = 0
}

// Written returns the number of bits accepted so far, padding included.
func (w *Writer) Written() int64 {
	return w.written
}

// Flush flushes the underlying writer if it has a Flush method.
// It returns ErrNotAligned if the Writer is not at a byte boundary.
func (w *Writer) Flush() error {
	if w.nb != 0 {
		return ErrNotAligned
	}
	if f, ok := w.w.(interface{ Flush() error }); ok {
		if err := f.Flush(); err != nil {
			return errors.Wrap(err, "")
		}
	}
	return nil
}

// PadAndFlush pads to the next byte boundary and flushes.
func (w *Writer) PadAndFlush() error {
	if err := w.PadToByteBoundary(); err != nil {
		return err
	}
	return w.Flush()
}

// Close pads and flushes. It does not close the underlying writer.
func (w *Writer) Close() error {
	return w.PadAndFlush()
}
