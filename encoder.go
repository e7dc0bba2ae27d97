package ppm

import (
	"io"

	"github.com/pkg/errors"

	"github.com/fumin/ppm/bitio"
	"github.com/fumin/ppm/coder"
	"github.com/fumin/ppm/coder/huffman"
)

// Stats counts the decisions taken while coding a stream.
type Stats struct {
	Symbols int64 // symbols coded
	Escapes int64 // escape decisions, the closing cascade included
	Uniform int64 // symbols that had to be coded at order -1
	Bits    int64 // bits written, padding included; Encoder only
}

// An Encoder compresses the bytes written to it.
//
// For every byte, the encoder starts from the longest context and escapes one
// order at a time until the byte is among the candidates, excluding the symbols
// it has already ruled out. A byte never seen in any context is coded at order -1,
// where every byte value is a candidate.
//
// Close must be called to terminate the stream.
type Encoder struct {
	coder coder.Encoder
	bw    *bitio.Writer

	model *Model
	ctx   *Context
	work  *Context
	excl  Exclusions

	list    []Candidate
	weights []uint32

	stats  Stats
	closed bool
}

// NewEncoder returns an Encoder that writes a Huffman coded stream to w,
// using contexts of up to maxOrder bytes.
func NewEncoder(w io.Writer, maxOrder int) (*Encoder, error) {
	bw := bitio.NewWriter(w)
	e, err := NewEncoderWith(huffman.NewEncoder(bw), maxOrder)
	if err != nil {
		return nil, err
	}
	e.bw = bw
	return e, nil
}

// NewEncoderWith returns an Encoder that hands every decision to c.
func NewEncoderWith(c coder.Encoder, maxOrder int) (*Encoder, error) {
	if maxOrder < 0 {
		return nil, errors.Wrapf(ErrNegativeOrder, "%d", maxOrder)
	}
	e := &Encoder{
		coder: c,
		model: NewModel(),
		ctx:   NewContext(maxOrder),
		work:  NewContext(maxOrder),
	}
	return e, nil
}

// weights collects the counts of list into dst.
func weights(dst []uint32, list []Candidate) []uint32 {
	for _, c := range list {
		dst = append(dst, c.Count)
	}
	return dst
}

func (e *Encoder) encode(list []Candidate, i int) error {
	e.weights = weights(e.weights[:0], list)
	if err := e.coder.Encode(e.weights, i); err != nil {
		return errors.Wrap(err, "")
	}
	if e.model.IsEscape(list[i]) {
		e.stats.Escapes++
	}
	return nil
}

func (e *Encoder) encodeSymbol(b byte) error {
	e.work.copyFrom(e.ctx)
	e.excl.Clear()

	for {
		list, ok := e.model.Candidates(e.list[:0], e.work, &e.excl)
		e.list = list
		if !ok {
			return errors.Wrapf(ErrUnknownContext, "%q", e.work.String())
		}

		if i := e.model.FindSymbol(list, b); i >= 0 {
			if err := e.encode(list, i); err != nil {
				return err
			}
			break
		}

		if err := e.encode(list, e.model.FindEscape(list)); err != nil {
			return err
		}
		e.model.ExcludeAll(list, &e.excl)
		if e.work.Order() > 0 {
			if err := e.work.Drop(); err != nil {
				return errors.Wrap(err, "")
			}
			continue
		}

		// Order -1.
		list = e.model.UniformCandidates(e.list[:0], &e.excl)
		e.list = list
		i := e.model.FindSymbol(list, b)
		if i < 0 {
			return errors.Errorf("symbol %#x excluded at order -1", b)
		}
		if err := e.encode(list, i); err != nil {
			return err
		}
		e.stats.Uniform++
		break
	}

	e.model.Add(e.ctx, b)
	e.ctx.Append(b)
	e.stats.Symbols++
	return nil
}

// Write compresses p.
func (e *Encoder) Write(p []byte) (int, error) {
	if e.closed {
		return 0, ErrClosed
	}
	for i, b := range p {
		if err := e.encodeSymbol(b); err != nil {
			return i, err
		}
	}
	return len(p), nil
}

// WriteByte compresses a single byte.
func (e *Encoder) WriteByte(b byte) error {
	if e.closed {
		return ErrClosed
	}
	return e.encodeSymbol(b)
}

// Close escapes from the current context all the way down to order -1,
// codes the end-of-stream sentinel there, and flushes the pending bits.
// It does not close the underlying writer.
func (e *Encoder) Close() error {
	if e.closed {
		return ErrClosed
	}
	e.closed = true

	e.work.copyFrom(e.ctx)
	e.excl.Clear()
	for {
		list, ok := e.model.Candidates(e.list[:0], e.work, &e.excl)
		e.list = list
		if !ok {
			return errors.Wrapf(ErrUnknownContext, "%q", e.work.String())
		}
		if err := e.encode(list, e.model.FindEscape(list)); err != nil {
			return err
		}
		e.model.ExcludeAll(list, &e.excl)
		if e.work.Order() == 0 {
			break
		}
		if err := e.work.Drop(); err != nil {
			return errors.Wrap(err, "")
		}
	}

	list := e.model.UniformCandidates(e.list[:0], &e.excl)
	e.list = list
	if err := e.encode(list, e.model.FindEndOfStream(list)); err != nil {
		return err
	}

	if err := e.coder.Close(); err != nil {
		return errors.Wrap(err, "")
	}
	return nil
}

// Stats returns the counts gathered so far.
func (e *Encoder) Stats() Stats {
	s := e.stats
	if e.bw != nil {
		s.Bits = e.bw.Written()
	}
	return s
}
