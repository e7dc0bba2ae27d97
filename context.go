package ppm

import (
	"github.com/pkg/errors"
)

// ErrContextRange is returned when a Context is indexed or dropped beyond its current order.
var ErrContextRange = errors.New("context index out of range")

// A Context holds the most recent symbols of a stream, oldest first,
// up to a fixed maximum order.
type Context struct {
	buf []byte
	n   int
}

// NewContext returns an empty context that keeps at most maxOrder symbols.
func NewContext(maxOrder int) *Context {
	return &Context{buf: make([]byte, maxOrder)}
}

// Order returns the number of symbols currently held.
func (c *Context) Order() int {
	return c.n
}

// MaxOrder returns the capacity of the context.
func (c *Context) MaxOrder() int {
	return len(c.buf)
}

// Drop removes the oldest symbol, reducing the order by one.
func (c *Context) Drop() error {
	if len(c.buf) == 0 || c.n == 0 {
		return ErrContextRange
	}
	copy(c.buf, c.buf[1:c.n])
	c.n--
	return nil
}

// Append adds b as the newest symbol. A full context forgets its oldest symbol first.
// Append does nothing on a context of capacity 0.
func (c *Context) Append(b byte) {
	if len(c.buf) == 0 {
		return
	}
	if c.n == len(c.buf) {
		copy(c.buf, c.buf[1:])
		c.buf[c.n-1] = b
		return
	}
	c.buf[c.n] = b
	c.n++
}

// At returns the i-th symbol, counting from the oldest.
func (c *Context) At(i int) (byte, error) {
	if i < 0 || i >= c.n {
		return 0, errors.Wrapf(ErrContextRange, "%d of %d", i, c.n)
	}
	return c.buf[i], nil
}

// Bytes returns the symbols oldest first.
// The slice aliases the context and is only valid until the next modification.
func (c *Context) Bytes() []byte {
	return c.buf[:c.n]
}

// Clone returns an independent copy of c.
func (c *Context) Clone() *Context {
	clone := &Context{buf: make([]byte, len(c.buf)), n: c.n}
	copy(clone.buf, c.buf)
	return clone
}

// Clear empties the context.
func (c *Context) Clear() {
	c.n = 0
}

// IndexOf returns the position of the oldest occurrence of b, or -1.
func (c *Context) IndexOf(b byte) int {
	for i, s := range c.buf[:c.n] {
		if s == b {
			return i
		}
	}
	return -1
}

func (c *Context) String() string {
	return string(c.buf[:c.n])
}

// copyFrom makes c a copy of src, reusing c's storage.
func (c *Context) copyFrom(src *Context) {
	c.buf = append(c.buf[:0], src.buf...)
	c.n = src.n
}
