package ppm

import (
	"bytes"

	"github.com/klauspost/compress/gzip"
	"github.com/pkg/errors"
)

// A Compressor returns the compressed size of data in bytes.
type Compressor func(data []byte) (int, error)

// PPMCompressor measures sizes with this package at the given order.
func PPMCompressor(order int) Compressor {
	return func(data []byte) (int, error) {
		var buf bytes.Buffer
		if err := Compress(&buf, bytes.NewReader(data), order); err != nil {
			return -1, errors.Wrap(err, "")
		}
		return buf.Len(), nil
	}
}

// GzipCompressor measures sizes with gzip, as a baseline.
func GzipCompressor(level int) Compressor {
	return func(data []byte) (int, error) {
		var buf bytes.Buffer
		zw, err := gzip.NewWriterLevel(&buf, level)
		if err != nil {
			return -1, errors.Wrap(err, "")
		}
		if _, err := zw.Write(data); err != nil {
			return -1, errors.Wrap(err, "")
		}
		if err := zw.Close(); err != nil {
			return -1, errors.Wrap(err, "")
		}
		return buf.Len(), nil
	}
}

// NCD returns the normalized compression distance between x and y,
//   (C(xy) - min(C(x), C(y))) / max(C(x), C(y))
// which approaches 0 for similar inputs and 1 for unrelated ones.
func NCD(c Compressor, x, y []byte) (float64, error) {
	kx, err := c(x)
	if err != nil {
		return -1, errors.Wrap(err, "")
	}
	ky, err := c(y)
	if err != nil {
		return -1, errors.Wrap(err, "")
	}
	return ncd(c, x, y, kx, ky)
}

func ncd(c Compressor, x, y []byte, kx, ky int) (float64, error) {
	xy := make([]byte, 0, len(x)+len(y))
	xy = append(xy, x...)
	xy = append(xy, y...)
	kxy, err := c(xy)
	if err != nil {
		return -1, errors.Wrap(err, "")
	}

	minxy, maxxy := kx, ky
	if ky < kx {
		minxy, maxxy = ky, kx
	}
	if maxxy == 0 {
		return 0, nil
	}
	return float64(kxy-minxy) / float64(maxxy), nil
}

// DistanceMatrix returns the distances between every pair of data, as the
// upper triangle of the matrix in row order. The size of each item is compressed once.
func DistanceMatrix(c Compressor, data [][]byte) ([]float64, error) {
	n := len(data)
	if n < 2 {
		return nil, nil
	}
	sizes := make([]int, n)
	for i, d := range data {
		k, err := c(d)
		if err != nil {
			return nil, errors.Wrapf(err, "%d", i)
		}
		sizes[i] = k
	}

	mat := make([]float64, 0, n*(n-1)/2)
	for i := 0; i < n-1; i++ {
		for j := i + 1; j < n; j++ {
			dist, err := ncd(c, data[i], data[j], sizes[i], sizes[j])
			if err != nil {
				return nil, errors.Wrapf(err, "%d %d", i, j)
			}
			mat = append(mat, dist)
		}
	}
	return mat, nil
}
