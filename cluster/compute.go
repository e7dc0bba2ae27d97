package main

import (
	"bytes"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"github.com/fumin/ppm"
)

var (
	compressorFlag = &cli.StringFlag{
		Name:    "intelligence",
		Aliases: []string{"i"},
		Usage:   "compressor measuring complexity, ppm or gzip",
		Value:   "ppm",
	}
	dirFlag = &cli.StringFlag{
		Name:    "dir",
		Aliases: []string{"d"},
		Usage:   "data directory",
		Value:   "mammals10",
	}
	orderFlag = &cli.IntFlag{
		Name:    "order",
		Aliases: []string{"n"},
		Usage:   "maximum context order of ppm",
		Value:   ppm.DefaultOrder,
	}
	atcgFlag = &cli.BoolFlag{
		Name:  "atcg",
		Usage: "keep only the nucleotides of DNA sequences, packed 2 bits each",
	}
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds | log.Lshortfile)
	app := cli.NewApp()
	app.Name = "cluster"
	app.Usage = "print the normalized compression distances between the files of a directory"
	app.HideVersion = true
	app.Flags = []cli.Flag{compressorFlag, dirFlag, orderFlag, atcgFlag}
	app.Action = func(ctx *cli.Context) error {
		return run(ctx.String(compressorFlag.Name), ctx.String(dirFlag.Name), ctx.Int(orderFlag.Name), ctx.Bool(atcgFlag.Name))
	}
	if err := app.Run(os.Args); err != nil {
		log.Fatalf("%+v", err)
	}
}

func run(intelligence, dir string, order int, atcg bool) error {
	c, err := compressor(intelligence, order)
	if err != nil {
		return errors.Wrap(err, "")
	}
	names, err := listFiles(dir)
	if err != nil {
		return errors.Wrap(err, "")
	}
	data := make([][]byte, 0, len(names))
	for _, name := range names {
		b, err := os.ReadFile(name)
		if err != nil {
			return errors.Wrap(err, "")
		}
		if atcg {
			if b, err = packATCGBytes(b); err != nil {
				return errors.Wrapf(err, "%s", name)
			}
		}
		data = append(data, b)
	}

	distMat, err := ppm.DistanceMatrix(c, data)
	if err != nil {
		return errors.Wrap(err, "")
	}
	k := 0
	for i := range names {
		for j := i + 1; j < len(names); j++ {
			log.Printf("\"%s\"-\"%s\": %f", names[i], names[j], distMat[k])
			k++
		}
	}

	if err := display(names, distMat); err != nil {
		return errors.Wrap(err, "")
	}
	return nil
}

func compressor(intelligence string, order int) (ppm.Compressor, error) {
	switch intelligence {
	case "ppm":
		if order < 0 {
			return nil, errors.Wrapf(ppm.ErrNegativeOrder, "%d", order)
		}
		return ppm.PPMCompressor(order), nil
	case "gzip":
		return ppm.GzipCompressor(gzip.BestCompression), nil
	}
	return nil, errors.Errorf("unknown compressor %q", intelligence)
}

// display prints the names and the distance matrix as comma separated arrays.
func display(names []string, distMat []float64) error {
	buf := bytes.NewBuffer(nil)
	for i, fpath := range names {
		name := filepath.Base(fpath)
		buf.WriteString(strconv.Quote(strings.TrimSuffix(name, filepath.Ext(name))))
		if i < len(names)-1 {
			buf.WriteByte(',')
		}
	}
	log.Printf("[%s]", buf.Bytes())

	buf.Reset()
	for i, f := range distMat {
		buf.WriteString(strconv.FormatFloat(f, 'f', -1, 64))
		if i < len(distMat)-1 {
			buf.WriteByte(',')
		}
	}
	log.Printf("[%s]", buf.Bytes())
	return nil
}

func listFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrap(err, "")
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		names = append(names, filepath.Join(dir, e.Name()))
	}
	return names, nil
}
