package ppm

import (
	"bytes"
	"io"
	"os"
	"testing"
)

func TestCompressFile(t *testing.T) {
	const name = "gettysburg.txt"

	for _, order := range []int{0, 3, 6} {
		// Compress
		f, err := os.CreateTemp("", "ppm.TestCompressFile.Compress")
		if err != nil {
			t.Fatalf("%v", err)
		}
		defer os.Remove(f.Name())
		defer f.Close()
		if err := CompressFile(f, name, order); err != nil {
			t.Fatalf("%+v", err)
		}

		// Decompress
		if _, err := f.Seek(0, io.SeekStart); err != nil {
			t.Fatalf("%v", err)
		}
		df, err := os.CreateTemp("", "ppm.TestCompressFile.Decompress")
		if err != nil {
			t.Fatalf("%v", err)
		}
		defer os.Remove(df.Name())
		defer df.Close()
		if err := Decompress(df, f, order); err != nil {
			t.Fatalf("%+v", err)
		}

		// Check if the decompressed result is the same as the original file
		if _, err := df.Seek(0, io.SeekStart); err != nil {
			t.Fatalf("%v", err)
		}
		decom, err := io.ReadAll(df)
		if err != nil {
			t.Fatalf("%v", err)
		}
		gettys, err := os.ReadFile(name)
		if err != nil {
			t.Fatalf("%v", err)
		}
		if !bytes.Equal(gettys, decom) {
			t.Errorf("order %d: %q %q", order, gettys, decom)
		}

		info, err := f.Stat()
		if err != nil {
			t.Fatalf("%v", err)
		}
		t.Logf("order %d: %d -> %d bytes", order, len(gettys), info.Size())
	}
}

func TestCompressFileMissing(t *testing.T) {
	if err := CompressFile(io.Discard, "does-not-exist.txt", 2); err == nil {
		t.Fatalf("expected error")
	}
}
