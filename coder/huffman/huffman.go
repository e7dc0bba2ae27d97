// Package huffman codes each decision with a Huffman tree built from the
// candidates' current weights. The tree is never transmitted: encoder and
// decoder rebuild it independently from identical weights, so the build order
// is fixed (see Tree).
//
// A decision over a single candidate costs zero bits.
package huffman

import (
	"io"

	"github.com/pkg/errors"

	"github.com/fumin/ppm/bitio"
	"github.com/fumin/ppm/coder"
)

// ErrChoice is returned when the candidate to encode is not in the list.
var ErrChoice = errors.New("choice is not among the candidates")

// An Encoder writes decisions as root-to-leaf paths.
type Encoder struct {
	w    *bitio.Writer
	tree Tree
	path []bool
}

// NewEncoder returns an Encoder writing to w.
func NewEncoder(w *bitio.Writer) *Encoder {
	return &Encoder{w: w}
}

// Encode writes the path to candidate i.
func (e *Encoder) Encode(weights []uint32, i int) error {
	if i < 0 || i >= len(weights) {
		return errors.Wrapf(ErrChoice, "%d of %d", i, len(weights))
	}
	if err := e.tree.Build(weights); err != nil {
		return err
	}

	e.path = e.tree.Code(e.path[:0], i)
	for _, bit := range e.path {
		if err := e.w.WriteBit(bit); err != nil {
			return errors.Wrap(err, "")
		}
	}
	return nil
}

// Close pads the last byte and flushes the bit writer.
func (e *Encoder) Close() error {
	if err := e.w.Close(); err != nil {
		return errors.Wrap(err, "")
	}
	return nil
}

// A Decoder reads decisions written by an Encoder.
type Decoder struct {
	r    *bitio.Reader
	tree Tree
}

// NewDecoder returns a Decoder reading from r.
func NewDecoder(r *bitio.Reader) *Decoder {
	return &Decoder{r: r}
}

// Decode descends from the root one bit at a time.
//
// The bit following a leaf is only peeked at and given back to the reader,
// so a single-candidate decision consumes nothing.
// Running out of input is fine at a leaf, and coder.ErrUnexpectedEnd anywhere else.
func (d *Decoder) Decode(weights []uint32) (int, error) {
	if err := d.tree.Build(weights); err != nil {
		return -1, err
	}

	n := d.tree.root()
	for {
		d.r.Mark(1)
		bit, err := d.r.ReadBit()
		if err == io.EOF {
			if d.tree.isLeaf(n) {
				return int(n), nil
			}
			return -1, coder.ErrUnexpectedEnd
		}
		if err != nil {
			return -1, errors.Wrap(err, "")
		}

		if d.tree.isLeaf(n) {
			if err := d.r.Reset(); err != nil {
				return -1, errors.Wrap(err, "")
			}
			return int(n), nil
		}
		if bit {
			n = d.tree.nodes[n].right
		} else {
			n = d.tree.nodes[n].left
		}
	}
}

var (
	_ coder.Encoder = (*Encoder)(nil)
	_ coder.Decoder = (*Decoder)(nil)
)
