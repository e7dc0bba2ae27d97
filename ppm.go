// Package ppm provides a lossless compressor built on Prediction by Partial Matching.
// Every byte is predicted from the contexts of up to a fixed number of preceding bytes.
// When the current context has never been followed by the byte, an escape is coded and
// the next shorter context is tried, excluding the bytes already ruled out.
// Each decision is transmitted with a Huffman code built afresh from the counts of its candidates.
//
// Below is an example of using this package to compress Lincoln's Gettysburg address:
//    go run compress/main.go gettysburg.txt
//    go run decompress/main.go -o gettys.txt gettysburg.txt.ppm
//    diff gettysburg.txt gettys.txt
//
// The stream carries no header. Both sides must agree on the maximum order.
//
// Reference:
// J.G. Cleary and I.H. Witten, Data Compression Using Adaptive Coding and Partial String Matching, IEEE Transactions on Communications, 32(4), 1984.
package ppm

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
)

var (
	ErrNegativeOrder  = errors.New("negative maximum order")
	ErrUnknownContext = errors.New("candidates requested for an unseen context")
	ErrCorrupt        = errors.New("corrupt stream")
	ErrClosed         = errors.New("encoder closed")
)

// Extension is appended to the names of compressed files.
const Extension = ".ppm"

// Compress compresses src into dst using contexts of up to order bytes.
func Compress(dst io.Writer, src io.Reader, order int) error {
	cfg := DefaultConfig()
	cfg.Order = order
	_, err := cfg.Compress(dst, src)
	return err
}

// Decompress decompresses src into dst. order must be the one src was compressed with.
func Decompress(dst io.Writer, src io.Reader, order int) error {
	cfg := DefaultConfig()
	cfg.Order = order
	_, err := cfg.Decompress(dst, src)
	return err
}

// CompressFile compresses the file name into w.
func CompressFile(w io.Writer, name string, order int) error {
	f, err := os.Open(name)
	if err != nil {
		return errors.Wrap(err, "")
	}
	defer f.Close()
	if err := Compress(w, f, order); err != nil {
		return errors.Wrap(err, "")
	}
	return nil
}

// OutputName returns the default output file for name.
// Compressed files get the ".ppm" extension. Decompressed files lose it,
// or get ".ppmdec" if name does not carry it.
func OutputName(name string, decompress bool) string {
	if !decompress {
		return name + Extension
	}
	if strings.HasSuffix(name, Extension) && len(name) > len(Extension) {
		return strings.TrimSuffix(name, Extension)
	}
	return name + Extension + "dec"
}

// Compress compresses src into dst, copying BufferSize bytes at a time.
func (cfg Config) Compress(dst io.Writer, src io.Reader) (Stats, error) {
	if err := cfg.Validate(); err != nil {
		return Stats{}, errors.Wrap(err, "")
	}
	bw := bufio.NewWriter(dst)
	enc, err := NewEncoder(bw, cfg.Order)
	if err != nil {
		return Stats{}, errors.Wrap(err, "")
	}

	buf := make([]byte, cfg.BufferSize)
	for {
		n, err := src.Read(buf)
		if n > 0 {
			if _, werr := enc.Write(buf[:n]); werr != nil {
				return enc.Stats(), errors.Wrap(werr, "")
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return enc.Stats(), errors.Wrap(err, "")
		}
	}

	if err := enc.Close(); err != nil {
		return enc.Stats(), errors.Wrap(err, "")
	}
	if err := bw.Flush(); err != nil {
		return enc.Stats(), errors.Wrap(err, "")
	}
	return enc.Stats(), nil
}

// Decompress decompresses src into dst, copying BufferSize bytes at a time.
func (cfg Config) Decompress(dst io.Writer, src io.Reader) (Stats, error) {
	if err := cfg.Validate(); err != nil {
		return Stats{}, errors.Wrap(err, "")
	}
	dec, err := NewDecoder(bufio.NewReader(src), cfg.Order)
	if err != nil {
		return Stats{}, errors.Wrap(err, "")
	}
	defer dec.Close()

	buf := make([]byte, cfg.BufferSize)
	for {
		n, err := dec.Read(buf)
		if n > 0 {
			if _, werr := dst.Write(buf[:n]); werr != nil {
				return dec.Stats(), errors.Wrap(werr, "")
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return dec.Stats(), errors.Wrap(err, "")
		}
	}
	return dec.Stats(), nil
}
