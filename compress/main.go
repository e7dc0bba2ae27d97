package main

import (
	"log"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"github.com/fumin/ppm/internal/flags"
)

var app = flags.NewApp("compress a file with Prediction by Partial Matching")

func init() {
	app.Name = "compress"
	app.Action = compress
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds | log.Lshortfile)
	if err := app.Run(os.Args); err != nil {
		log.Fatalf("%+v", err)
	}
}

func compress(ctx *cli.Context) error {
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
	outName := flags.OutputName(ctx, inName, false)
	out, err := flags.Create(outName, ctx.Bool(flags.ForceFlag.Name), true)
	if err != nil {
		return errors.Wrap(err, "")
	}

	start := time.Now()
	r := &flags.Counter{R: in}
	w := &flags.Counter{W: out}
	stats, err := cfg.Compress(w, r)
	if err != nil {
		out.Close()
		return errors.Wrapf(err, "%s", inName)
	}
	if err := out.Close(); err != nil {
		return errors.Wrap(err, "")
	}

	if cfg.Verbose {
		log.Printf("%s -> %s, config %s", inName, outName, cfg)
		flags.Report("compress", r.N, w.N, stats, time.Since(start))
	}
	return nil
}
