package bitio

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestWriteBitsLayout(t *testing.T) {
	buf := bytes.NewBuffer(nil)
	w := NewWriter(buf)
	require.NoError(t, w.WriteBits(0x5, 3))
	require.NoError(t, w.WriteBit(true))
	require.Equal(t, 0, buf.Len())
	require.Equal(t, 4, w.BitsToByteBoundary())
	require.NoError(t, w.Close())
	require.Equal(t, []byte{0xb0}, buf.Bytes())
	require.EqualValues(t, 8, w.Written())
}

func TestBitCountRange(t *testing.T) {
	w := NewWriter(io.Discard)
	if err := w.WriteBits(0, MaxBits+1); err != ErrBitCount {
		t.Errorf("%v", err)
	}
	if err := w.WriteBits(0, -1); err != ErrBitCount {
		t.Errorf("%v", err)
	}

	r := NewReader(bytes.NewReader(make([]byte, 16)))
	if _, err := r.ReadBits(MaxBits + 1); err != ErrBitCount {
		t.Errorf("%v", err)
	}
	if _, err := r.ReadBits(-1); err != ErrBitCount {
		t.Errorf("%v", err)
	}
}

func TestSymmetryEveryWidth(t *testing.T) {
	for n := 0; n <= MaxBits; n++ {
		for _, v := range []uint64{0, 1, mask(uint(n)), mask(uint(n)) / 3} {
			v &= mask(uint(n))

			// Misalign the value by 3 bits to exercise the pending byte.
			buf := bytes.NewBuffer(nil)
			w := NewWriter(buf)
			require.NoError(t, w.WriteBits(0x5, 3))
			require.NoError(t, w.WriteBits(v, n))
			require.NoError(t, w.Close())

			r := NewReader(buf)
			head, err := r.ReadBits(3)
			require.NoError(t, err)
			require.EqualValues(t, 0x5, head)
			got, err := r.ReadBits(n)
			require.NoError(t, err)
			require.Equal(t, v, got, "width %d", n)
		}
	}
}

func TestSymmetryProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		widths := rapid.SliceOf(rapid.IntRange(0, MaxBits)).Draw(t, "widths")
		values := make([]uint64, len(widths))
		for i, n := range widths {
			values[i] = rapid.Uint64().Draw(t, "value") & mask(uint(n))
		}

		buf := bytes.NewBuffer(nil)
		w := NewWriter(buf)
		total := 0
		for i, n := range widths {
			if err := w.WriteBits(values[i], n); err != nil {
				t.Fatalf("%v", err)
			}
			total += n
		}
		if err := w.Close(); err != nil {
			t.Fatalf("%v", err)
		}
		if buf.Len() != (total+7)/8 {
			t.Fatalf("%d bytes for %d bits", buf.Len(), total)
		}

		r := NewReader(buf)
		for i, n := range widths {
			got, err := r.ReadBits(n)
			if err != nil {
				t.Fatalf("%v", err)
			}
			if got != values[i] {
				t.Fatalf("value %d: %x != %x", i, got, values[i])
			}
		}
	})
}

func TestSignedBits(t *testing.T) {
	buf := bytes.NewBuffer(nil)
	w := NewWriter(buf)
	require.NoError(t, w.WriteBits(uint64(0x1f), 5)) // -1 in 5 bits
	require.NoError(t, w.WriteBits(uint64(0x10), 5)) // -16
	require.NoError(t, w.WriteBits(uint64(0x0f), 5)) // 15
	require.NoError(t, w.Close())

	r := NewReader(buf)
	for _, want := range []int64{-1, -16, 15} {
		got, err := r.ReadSignedBits(5)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
	got, err := r.ReadSignedBits(0)
	require.NoError(t, err)
	require.Zero(t, got)
}

func TestFixedWidths(t *testing.T) {
	buf := bytes.NewBuffer(nil)
	w := NewWriter(buf)
	require.NoError(t, w.WriteBit(true))
	require.NoError(t, w.WriteUint16(0xbeef))
	require.NoError(t, w.WriteUint16LE(0x8001))
	require.NoError(t, w.WriteUint32(0xdeadbeef))
	require.NoError(t, w.WriteUint32LE(0x80000002))
	require.NoError(t, w.WriteByte(0xfe))
	require.NoError(t, w.Close())

	r := NewReader(bytes.NewReader(buf.Bytes()))
	bit, err := r.ReadBit()
	require.NoError(t, err)
	require.True(t, bit)
	u16, err := r.ReadUint16()
	require.NoError(t, err)
	require.EqualValues(t, 0xbeef, u16)
	s16, err := r.ReadInt16LE()
	require.NoError(t, err)
	require.EqualValues(t, int16(-32767), s16)
	u32, err := r.ReadUint32()
	require.NoError(t, err)
	require.EqualValues(t, uint32(0xdeadbeef), u32)
	s32, err := r.ReadInt32LE()
	require.NoError(t, err)
	require.EqualValues(t, int32(-2147483646), s32)
	s8, err := r.ReadInt8()
	require.NoError(t, err)
	require.EqualValues(t, int8(-2), s8)
	require.Equal(t, 7, r.Buffered())

	// Re-read the byte-aligned layout through the little-endian readers.
	aligned := bytes.NewBuffer(nil)
	w = NewWriter(aligned)
	require.NoError(t, w.WriteUint16LE(0x1234))
	require.NoError(t, w.WriteUint32LE(0x89abcdef))
	require.Equal(t, []byte{0x34, 0x12, 0xef, 0xcd, 0xab, 0x89}, aligned.Bytes())
	r = NewReader(aligned)
	u16, err = r.ReadUint16LE()
	require.NoError(t, err)
	require.EqualValues(t, 0x1234, u16)
	u32, err = r.ReadUint32LE()
	require.NoError(t, err)
	require.EqualValues(t, uint32(0x89abcdef), u32)
}

func TestPadIdempotent(t *testing.T) {
	buf := bytes.NewBuffer(nil)
	w := NewWriter(buf)
	require.NoError(t, w.WriteBits(1, 1))
	require.NoError(t, w.PadToByteBoundary())
	before := w.Written()
	require.NoError(t, w.PadToByteBoundary())
	require.Equal(t, before, w.Written())
	require.True(t, w.IsAtByteBoundary())
	require.Equal(t, []byte{0x80}, buf.Bytes())

	for total := 0; total <= 64; total += 8 {
		w := NewWriter(io.Discard)
		for written := 0; written < total; written += 3 {
			n := 3
			if total-written < n {
				n = total - written
			}
			require.NoError(t, w.WriteBits(0x7, n))
		}
		require.True(t, w.IsAtByteBoundary(), "%d bits", total)
	}
}

type flushRecorder struct {
	bytes.Buffer
	flushes int
}

func (f *flushRecorder) Flush() error {
	f.flushes++
	return nil
}

func TestFlushRequiresAlignment(t *testing.T) {
	rec := &flushRecorder{}
	w := NewWriter(rec)
	require.NoError(t, w.WriteBits(0x3, 2))
	if err := w.Flush(); err != ErrNotAligned {
		t.Fatalf("%v", err)
	}
	require.Equal(t, 0, rec.flushes)
	require.NoError(t, w.PadAndFlush())
	require.Equal(t, 1, rec.flushes)
	require.Equal(t, []byte{0xc0}, rec.Bytes())

	require.NoError(t, w.WriteBits(0x1, 4))
	w.DiscardPendingBits()
	require.NoError(t, w.Flush())
	require.Equal(t, []byte{0xc0}, rec.Bytes())
}

func TestShortReadKeepsBits(t *testing.T) {
	r := NewReader(bytes.NewReader([]byte{0xab, 0xcd}))
	if _, err := r.ReadBits(20); err != io.EOF {
		t.Fatalf("%v", err)
	}
	require.Equal(t, 16, r.Buffered())
	v, err := r.ReadBits(12)
	require.NoError(t, err)
	require.EqualValues(t, 0xabc, v)
	v, err = r.ReadBits(4)
	require.NoError(t, err)
	require.EqualValues(t, 0xd, v)
	if _, err := r.ReadBit(); err != io.EOF {
		t.Fatalf("%v", err)
	}
	require.Equal(t, 0, r.Buffered())
}

func TestReadPartialFinalByte(t *testing.T) {
	r := NewReader(bytes.NewReader([]byte{0xa5, 0x3c}))
	_, err := r.ReadBits(4)
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	// 0101 0011 is whole, the final 1100 comes back as the low bits of a byte.
	require.Equal(t, []byte{0x53, 0x0c}, got)
}

func TestReadAligned(t *testing.T) {
	data := []byte("four score and seven")
	r := NewReader(bytes.NewReader(data))
	got, err := io.ReadAll(r)
	require.NoError(t, err)
	require.Equal(t, data, got)

	n, err := r.Read(make([]byte, 4))
	require.Equal(t, 0, n)
	require.Equal(t, io.EOF, err)
}

func TestSkipBits(t *testing.T) {
	data := make([]byte, 1000)
	for i := range data {
		data[i] = byte(i)
	}

	r := NewReader(bytes.NewReader(data))
	_, err := r.ReadBits(3)
	require.NoError(t, err)
	n, err := r.SkipBits(2)
	require.NoError(t, err)
	require.EqualValues(t, 2, n)
	require.Equal(t, 3, r.Buffered())

	// Skip to the middle of byte 600.
	n, err = r.SkipBits(8*599 + 3 + 4)
	require.NoError(t, err)
	require.EqualValues(t, 8*599+3+4, n)
	v, err := r.ReadBits(4)
	require.NoError(t, err)
	require.EqualValues(t, data[600]&0xf, v)

	// Skipping past the end stops exactly at the end.
	n, err = r.SkipBits(1 << 20)
	require.NoError(t, err)
	require.EqualValues(t, 8*(len(data)-601), n)
	_, err = r.ReadBit()
	require.Equal(t, io.EOF, err)

	r = NewReader(bytes.NewReader(data))
	skipped, err := r.Skip(10)
	require.NoError(t, err)
	require.EqualValues(t, 10, skipped)
	b, err := r.ReadByte()
	require.NoError(t, err)
	require.EqualValues(t, 10, b)
}

func TestSkipToByteBoundary(t *testing.T) {
	r := NewReader(bytes.NewReader([]byte{0xff, 0x42}))
	_, err := r.ReadBits(3)
	require.NoError(t, err)
	require.False(t, r.IsAtByteBoundary())
	require.Equal(t, 5, r.SkipToByteBoundary())
	require.True(t, r.IsAtByteBoundary())
	b, err := r.ReadUint8()
	require.NoError(t, err)
	require.EqualValues(t, 0x42, b)
}

func TestMarkReset(t *testing.T) {
	r := NewReader(bytes.NewReader([]byte{0x96, 0x0f, 0xf0}))
	if err := r.Reset(); err != ErrInvalidMark {
		t.Fatalf("%v", err)
	}

	_, err := r.ReadBits(3)
	require.NoError(t, err)
	r.Mark(2)
	first, err := r.ReadBits(10)
	require.NoError(t, err)
	require.NoError(t, r.Reset())
	require.Equal(t, 5, r.Buffered())
	again, err := r.ReadBits(10)
	require.NoError(t, err)
	require.Equal(t, first, again)

	// The mark survives a reset.
	require.NoError(t, r.Reset())
	rest, err := r.ReadBits(21)
	require.NoError(t, err)
	require.EqualValues(t, 0x160ff0, rest)

	// Peeking a single bit at a byte boundary gives the byte back.
	r = NewReader(bytes.NewReader([]byte{0x80, 0x01}))
	r.Mark(1)
	bit, err := r.ReadBit()
	require.NoError(t, err)
	require.True(t, bit)
	require.NoError(t, r.Reset())
	require.True(t, r.IsAtByteBoundary())
	v, err := r.ReadUint16()
	require.NoError(t, err)
	require.EqualValues(t, 0x8001, v)
}

func TestMarkLimit(t *testing.T) {
	r := NewReader(bytes.NewReader([]byte{1, 2, 3, 4}))
	r.Mark(1)
	_, err := r.ReadBits(16)
	require.NoError(t, err)
	if err := r.Reset(); err != ErrInvalidMark {
		t.Fatalf("%v", err)
	}
}
