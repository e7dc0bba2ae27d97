package main

import (
	"log"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"github.com/fumin/ppm/internal/flags"
)

var app = flags.NewApp("decompress a file written by compress")

func init() {
	app.Name = "decompress"
	app.Action = decompress
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds | log.Lshortfile)
	if err := app.Run(os.Args); err != nil {
		log.Fatalf("%+v", err)
	}
}

func decompress(ctx *cli.Context) error {
	cfg, err := flags.Config(ctx)
	if err != nil {
		return errors.Wrap(err, "")
	}
	inName := flags.InputName(ctx)
	in, err := flags.Open(inName)
	if err != nil {
		return errors.Wrap(err, "")
	}
	defer in.Close()
	outName := flags.OutputName(ctx, inName, true)
	out, err := flags.Create(outName, ctx.Bool(flags.ForceFlag.Name), false)
	if err != nil {
		return errors.Wrap(err, "")
	}

	start := time.Now()
	r := &flags.Counter{R: in}
	w := &flags.Counter{W: out}
	stats, err := cfg.Decompress(w, r)
	if err != nil {
		out.Close()
		return errors.Wrapf(err, "%s", inName)
	}
	if err := out.Close(); err != nil {
		return errors.Wrap(err, "")
	}

	if cfg.Verbose {
		log.Printf("%s -> %s, config %s", inName, outName, cfg)
		flags.Report("decompress", w.N, r.N, stats, time.Since(start))
	}
	return nil
}
