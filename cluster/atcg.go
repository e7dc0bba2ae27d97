package main

import (
	"bufio"
	"bytes"
	"io"

	"github.com/pkg/errors"

	"github.com/fumin/ppm/bitio"
)

// nucleotide maps a base to its 2 bit code.
func nucleotide(b byte) (uint64, bool) {
	switch b {
	case 'a', 'A':
		return 0, true
	case 't', 'T':
		return 1, true
	case 'c', 'C':
		return 2, true
	case 'g', 'G':
		return 3, true
	}
	return 0, false
}

// packATCG writes the bases found in r to w, four to a byte.
// Everything else, such as FASTA headers and line breaks, is dropped.
func packATCG(w io.Writer, r io.Reader) (int64, error) {
	br := bufio.NewReader(r)
	bw := bitio.NewWriter(w)
	var n int64
	for {
		b, err := br.ReadByte()
		if err == io.EOF {
			break
		}
		if err != nil {
			return n, errors.Wrap(err, "")
		}
		c, ok := nucleotide(b)
		if !ok {
			continue
		}
		if err := bw.WriteBits(c, 2); err != nil {
			return n, errors.Wrap(err, "")
		}
		n++
	}
	if err := bw.Close(); err != nil {
		return n, errors.Wrap(err, "")
	}
	return n, nil
}

func packATCGBytes(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := packATCG(&buf, bytes.NewReader(data)); err != nil {
		return nil, errors.Wrap(err, "")
	}
	return buf.Bytes(), nil
}
