package bitio

import (
	"io"

	"github.com/pkg/errors"
)

// A Reader reads groups of 0 to MaxBits bits from the bytes supplied by an io.Reader.
//
// A Reader also implements io.Reader and io.ByteReader, so that byte-oriented data
// can be interleaved with bit fields.
type Reader struct {
	r io.Reader

	// The low nb bits of buf hold bits read from r but not yet delivered.
	// nb is at most 7 after every successful read, but a short read leaves
	// the bytes it managed to fetch in buf.
	buf uint64
	nb  uint

	tmp [MaxBits / 8]byte

	// replay holds bytes given back by Reset, served before r.
	replay []byte

	marked bool
	mark   mark
}

type mark struct {
	buf      uint64
	nb       uint
	limit    int
	consumed []byte
}

// NewReader returns a Reader that consumes data from r.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: r}
}

// fetch fills p with the next bytes of the stream.
// It returns io.EOF if the stream ended before p was filled.
func (r *Reader) fetch(p []byte) (int, error) {
	n := copy(p, r.replay)
	r.replay = r.replay[n:]

	var err error
	if n < len(p) {
		var m int
		m, err = io.ReadFull(r.r, p[n:])
		n += m
		switch err {
		case nil, io.EOF:
		case io.ErrUnexpectedEOF:
			err = io.EOF
		default:
			err = errors.Wrap(err, "")
		}
	}
	r.record(p[:n])
	return n, err
}

// readSome performs a single read, honouring bytes given back by Reset.
func (r *Reader) readSome(p []byte) (int, error) {
	if len(r.replay) > 0 {
		n := copy(p, r.replay)
		r.replay = r.replay[n:]
		r.record(p[:n])
		return n, nil
	}
	n, err := r.r.Read(p)
	r.record(p[:n])
	if err != nil && err != io.EOF {
		err = errors.Wrap(err, "")
	}
	return n, err
}

func (r *Reader) record(p []byte) {
	if !r.marked || len(p) == 0 {
		return
	}
	r.mark.consumed = append(r.mark.consumed, p...)
	if len(r.mark.consumed) > r.mark.limit {
		r.marked = false
		r.mark.consumed = r.mark.consumed[:0]
	}
}

// ReadBits reads the next n bits as an unsigned number, most significant bit first.
//
// ErrBitCount is returned if n is outside [0, MaxBits].
// io.EOF is returned if fewer than n bits remain. In that case the bits that
// could be fetched stay buffered: Buffered reports how many there are, and a
// smaller read can still consume them.
func (r *Reader) ReadBits(n int) (uint64, error) {
	if n < 0 || n > MaxBits {
		return 0, ErrBitCount
	}
	un := uint(n)
	if un > r.nb {
		count := int((un - r.nb + 7) / 8)
		got, err := r.fetch(r.tmp[:count])
		for _, b := range r.tmp[:got] {
			r.buf = r.buf<<8 | uint64(b)
		}
		r.nb += uint(got) * 8
		if err != nil {
			return 0, err
		}
	}

	r.nb -= un
	v := r.buf >> r.nb
	r.buf &= mask(r.nb)
	return v, nil
}

// ReadSignedBits reads the next n bits as a two's complement number.
func (r *Reader) ReadSignedBits(n int) (int64, error) {
	v, err := r.ReadBits(n)
	if err != nil {
		return 0, err
	}
	return signExtend(v, n), nil
}

// ReadBit reads a single bit.
func (r *Reader) ReadBit() (bool, error) {
	v, err := r.ReadBits(1)
	return v != 0, err
}

func (r *Reader) ReadUint8() (uint8, error) {
	v, err := r.ReadBits(8)
	return uint8(v), err
}

func (r *Reader) ReadInt8() (int8, error) {
	v, err := r.ReadSignedBits(8)
	return int8(v), err
}

// ReadUint16 reads 16 bits, most significant byte first.
func (r *Reader) ReadUint16() (uint16, error) {
	v, err := r.ReadBits(16)
	return uint16(v), err
}

// ReadUint16LE reads 16 bits, least significant byte first.
func (r *Reader) ReadUint16LE() (uint16, error) {
	lo, err := r.ReadBits(8)
	if err != nil {
		return 0, err
	}
	hi, err := r.ReadBits(8)
	if err != nil {
		return 0, err
	}
	return uint16(lo | hi<<8), nil
}

func (r *Reader) ReadInt16() (int16, error) {
	v, err := r.ReadSignedBits(16)
	return int16(v), err
}

func (r *Reader) ReadInt16LE() (int16, error) {
	v, err := r.ReadUint16LE()
	return int16(v), err
}

// ReadUint32 reads 32 bits, most significant byte first.
func (r *Reader) ReadUint32() (uint32, error) {
	v, err := r.ReadBits(32)
	return uint32(v), err
}

// ReadUint32LE reads 32 bits, least significant byte first.
func (r *Reader) ReadUint32LE() (uint32, error) {
	var v uint32
	for i := uint(0); i < 4; i++ {
		b, err := r.ReadBits(8)
		if err != nil {
			return 0, err
		}
		v |= uint32(b) << (8 * i)
	}
	return v, nil
}

func (r *Reader) ReadInt32() (int32, error) {
	v, err := r.ReadSignedBits(32)
	return int32(v), err
}

func (r *Reader) ReadInt32LE() (int32, error) {
	v, err := r.ReadUint32LE()
	return int32(v), err
}

// ReadToByteBoundary returns the buffered bits of the current byte and drops them,
// leaving the Reader at a byte boundary.
func (r *Reader) ReadToByteBoundary() byte {
	v := byte(r.buf)
	r.buf = 0
	r.nb = 0
	return v
}

// Buffered returns the number of bits that can be read without touching the underlying reader.
func (r *Reader) Buffered() int {
	return int(r.nb)
}

func (r *Reader) IsAtByteBoundary() bool {
	return r.nb == 0
}

// SkipToByteBoundary drops the buffered bits and returns how many there were.
func (r *Reader) SkipToByteBoundary() int {
	n := r.Buffered()
	r.ReadToByteBoundary()
	return n
}

// SkipBits skips n bits and returns the number actually skipped,
// which is less than n only when the end of the stream is reached.
// Reaching the end of the stream is not an error.
func (r *Reader) SkipBits(n int64) (int64, error) {
	if n <= 0 {
		return 0, nil
	}
	buffered := int64(r.nb)
	if n < buffered {
		if _, err := r.ReadBits(int(n)); err != nil {
			return 0, err
		}
		return n, nil
	}

	remaining := n - buffered
	r.SkipToByteBoundary()

	skipped, err := r.discard(remaining / 8)
	remaining -= skipped * 8
	if err == io.EOF {
		return n - remaining, nil
	}
	if err != nil {
		return n - remaining, err
	}

	if _, err := r.ReadBits(int(remaining)); err != nil {
		if err != io.EOF {
			return n - remaining, err
		}
		remaining -= int64(r.SkipToByteBoundary())
		return n - remaining, nil
	}
	return n, nil
}

// Skip skips n bytes worth of bits and returns the number of whole bytes skipped.
func (r *Reader) Skip(n int64) (int64, error) {
	bits, err := r.SkipBits(n * 8)
	return bits / 8, err
}

func (r *Reader) discard(n int64) (int64, error) {
	var chunk [512]byte
	var done int64
	for done < n {
		want := n - done
		if want > int64(len(chunk)) {
			want = int64(len(chunk))
		}
		got, err := r.fetch(chunk[:want])
		done += int64(got)
		if err != nil {
			return done, err
		}
	}
	return done, nil
}

// ReadByte reads the next 8 bits.
// If the stream ends in the middle of a byte, the remaining buffered bits are
// returned as the final byte.
func (r *Reader) ReadByte() (byte, error) {
	if r.nb == 0 {
		var b [1]byte
		if _, err := r.fetch(b[:]); err != nil {
			return 0, err
		}
		return b[0], nil
	}

	v, err := r.ReadBits(8)
	if err == io.EOF {
		if r.nb > 0 {
			return r.ReadToByteBoundary(), nil
		}
		return 0, io.EOF
	}
	if err != nil {
		return 0, err
	}
	return byte(v), nil
}

// Read implements io.Reader. When the Reader is at a byte boundary, the call
// goes straight to the underlying reader.
func (r *Reader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if r.nb == 0 {
		return r.readSome(p)
	}

	for i := range p {
		b, err := r.ReadByte()
		if err != nil {
			if err == io.EOF && i > 0 {
				return i, nil
			}
			return i, err
		}
		p[i] = b
	}
	return len(p), nil
}

// Mark remembers the current position, including the bits buffered inside the
// current byte. A later call to Reset returns to it, as long as no more than
// limit bytes have been consumed from the underlying reader in between.
func (r *Reader) Mark(limit int) {
	r.marked = true
	r.mark.buf = r.buf
	r.mark.nb = r.nb
	r.mark.limit = limit
	r.mark.consumed = r.mark.consumed[:0]
}

// Reset returns to the position saved by the last call to Mark.
// The mark stays valid, so Reset may be called again.
func (r *Reader) Reset() error {
	if !r.marked {
		return ErrInvalidMark
	}

	if len(r.mark.consumed) > 0 {
		replay := make([]byte, 0, len(r.mark.consumed)+len(r.replay))
		replay = append(replay, r.mark.consumed...)
		r.replay = append(replay, r.replay...)
		r.mark.consumed = r.mark.consumed[:0]
	}

	r.buf = r.mark.buf
	r.nb = r.mark.nb
	return nil
}
