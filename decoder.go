package ppm

import (
	"io"

	"github.com/pkg/errors"

	"github.com/fumin/ppm/bitio"
	"github.com/fumin/ppm/coder"
	"github.com/fumin/ppm/coder/huffman"
)

// A Decoder reads the bytes compressed by an Encoder of the same maximum order.
// It mirrors the encoder decision by decision, updating its own model with every
// byte it produces.
type Decoder struct {
	coder coder.Decoder

	model *Model
	ctx   *Context
	work  *Context
	excl  Exclusions

	list    []Candidate
	weights []uint32

	stats Stats
	eos   bool
}

// NewDecoder returns a Decoder reading a Huffman coded stream from r.
func NewDecoder(r io.Reader, maxOrder int) (*Decoder, error) {
	return NewDecoderWith(huffman.NewDecoder(bitio.NewReader(r)), maxOrder)
}

// NewDecoderWith returns a Decoder that takes every decision from c.
func NewDecoderWith(c coder.Decoder, maxOrder int) (*Decoder, error) {
	if maxOrder < 0 {
		return nil, errors.Wrapf(ErrNegativeOrder, "%d", maxOrder)
	}
	d := &Decoder{
		coder: c,
		model: NewModel(),
		ctx:   NewContext(maxOrder),
		work:  NewContext(maxOrder),
	}
	return d, nil
}

func (d *Decoder) decode(list []Candidate) (Candidate, error) {
	d.weights = weights(d.weights[:0], list)
	i, err := d.coder.Decode(d.weights)
	if err != nil {
		return Candidate{}, errors.Wrap(err, "")
	}
	if i < 0 || i >= len(list) {
		return Candidate{}, errors.Wrapf(ErrCorrupt, "choice %d of %d", i, len(list))
	}
	c := list[i]
	if d.model.IsEscape(c) {
		d.stats.Escapes++
	}
	return c, nil
}

// decodeSymbol returns the next byte, or io.EOF once the end-of-stream sentinel is decoded.
func (d *Decoder) decodeSymbol() (byte, error) {
	d.work.copyFrom(d.ctx)
	d.excl.Clear()

	var b byte
	for {
		list, ok := d.model.Candidates(d.list[:0], d.work, &d.excl)
		d.list = list
		if !ok {
			return 0, errors.Wrapf(ErrUnknownContext, "%q", d.work.String())
		}
		c, err := d.decode(list)
		if err != nil {
			return 0, err
		}
		if !d.model.IsEscape(c) {
			b = c.Symbol
			break
		}

		d.model.ExcludeAll(list, &d.excl)
		if d.work.Order() > 0 {
			if err := d.work.Drop(); err != nil {
				return 0, errors.Wrap(err, "")
			}
			continue
		}

		// Order -1.
		list = d.model.UniformCandidates(d.list[:0], &d.excl)
		d.list = list
		c, err = d.decode(list)
		if err != nil {
			return 0, err
		}
		switch c.Kind {
		case Escape:
			return 0, errors.Wrap(ErrCorrupt, "escape at order -1")
		case EndOfStream:
			d.eos = true
			return 0, io.EOF
		}
		b = c.Symbol
		d.stats.Uniform++
		break
	}

	d.model.Add(d.ctx, b)
	d.ctx.Append(b)
	d.stats.Symbols++
	return b, nil
}

// Read decompresses into p. It returns io.EOF once the stream has ended.
func (d *Decoder) Read(p []byte) (int, error) {
	if d.eos {
		return 0, io.EOF
	}
	for i := range p {
		b, err := d.decodeSymbol()
		if err == io.EOF {
			if i == 0 {
				return 0, io.EOF
			}
			return i, nil
		}
		if err != nil {
			return i, err
		}
		p[i] = b
	}
	return len(p), nil
}

// ReadByte decompresses a single byte.
func (d *Decoder) ReadByte() (byte, error) {
	if d.eos {
		return 0, io.EOF
	}
	return d.decodeSymbol()
}

// Stats returns the counts gathered so far. Bits is always zero.
func (d *Decoder) Stats() Stats {
	return d.stats
}

// Close releases the decoder. It does not close the underlying reader.
func (d *Decoder) Close() error {
	d.eos = true
	return nil
}
