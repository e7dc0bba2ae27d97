// Package flags holds the command line plumbing shared by the compress and decompress commands.
package flags

import (
	"io"
	"log"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"github.com/fumin/ppm"
)

// ErrTerminal is returned when compressed data would be written to a terminal.
var ErrTerminal = errors.New("refusing to write compressed data to a terminal, use --force")

// Stdio names standard input or output in place of a file.
const Stdio = "-"

var (
	OrderFlag = &cli.IntFlag{
		Name:    "order",
		Aliases: []string{"n"},
		Usage:   "maximum context order, must match between compression and decompression",
		Value:   ppm.DefaultOrder,
	}
	ConfigFlag = &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "TOML, YAML or JSON configuration file",
	}
	OutputFlag = &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "output file, - for standard output",
	}
	ForceFlag = &cli.BoolFlag{
		Name:    "force",
		Aliases: []string{"f"},
		Usage:   "overwrite existing files and write to terminals",
	}
	VerboseFlag = &cli.BoolFlag{
		Name:  "verbose",
		Usage: "log a summary when done",
	}
)

// NewApp creates an app with the flags common to both commands.
func NewApp(usage string) *cli.App {
	app := cli.NewApp()
	app.Usage = usage
	app.ArgsUsage = "[file]"
	app.HideVersion = true
	app.Flags = []cli.Flag{OrderFlag, ConfigFlag, OutputFlag, ForceFlag, VerboseFlag}
	return app
}

// Config loads the configuration file, if any, and applies the flags set explicitly on top.
func Config(ctx *cli.Context) (ppm.Config, error) {
	cfg := ppm.DefaultConfig()
	if path := ctx.String(ConfigFlag.Name); path != "" {
		var err error
		if cfg, err = ppm.LoadConfig(path); err != nil {
			return ppm.Config{}, errors.Wrap(err, "")
		}
	}
	if ctx.IsSet(OrderFlag.Name) {
		cfg.Order = ctx.Int(OrderFlag.Name)
	}
	if ctx.IsSet(VerboseFlag.Name) {
		cfg.Verbose = ctx.Bool(VerboseFlag.Name)
	}
	if err := cfg.Validate(); err != nil {
		return ppm.Config{}, errors.Wrap(err, "")
	}
	return cfg, nil
}

// InputName returns the file named on the command line, or Stdio.
func InputName(ctx *cli.Context) string {
	if name := ctx.Args().First(); name != "" {
		return name
	}
	return Stdio
}

// OutputName returns the --output flag, or the name derived from input.
func OutputName(ctx *cli.Context, input string, decompress bool) string {
	if name := ctx.String(OutputFlag.Name); name != "" {
		return name
	}
	if input == Stdio {
		return Stdio
	}
	return ppm.OutputName(input, decompress)
}

// Open opens the named input.
func Open(name string) (io.ReadCloser, error) {
	if name == Stdio {
		return io.NopCloser(os.Stdin), nil
	}
	f, err := os.Open(name)
	if err != nil {
		return nil, errors.Wrap(err, "")
	}
	return f, nil
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

// Create creates the named output. Existing files are only replaced if force is set,
// and so is writing binary data to a terminal.
func Create(name string, force, binary bool) (io.WriteCloser, error) {
	if name == Stdio {
		fd := os.Stdout.Fd()
		if binary && !force && (isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)) {
			return nil, ErrTerminal
		}
		return nopWriteCloser{os.Stdout}, nil
	}

	flag := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !force {
		flag |= os.O_EXCL
	}
	f, err := os.OpenFile(name, flag, 0644)
	if err != nil {
		return nil, errors.Wrap(err, "")
	}
	return f, nil
}

// Counter counts the bytes passing through it.
type Counter struct {
	R io.Reader
	W io.Writer
	N int64
}

func (c *Counter) Read(p []byte) (int, error) {
	n, err := c.R.Read(p)
	c.N += int64(n)
	return n, err
}

func (c *Counter) Write(p []byte) (int, error) {
	n, err := c.W.Write(p)
	c.N += int64(n)
	return n, err
}

// Report logs the outcome of a run.
func Report(op string, plain, packed int64, stats ppm.Stats, elapsed time.Duration) {
	var bpb float64
	if plain > 0 {
		bpb = float64(packed*8) / float64(plain)
	}
	log.Printf("%s: %s plain, %s packed, %.3f bits/byte, %d symbols, %d escapes, %d at order -1, %s",
		op, humanize.Bytes(uint64(plain)), humanize.Bytes(uint64(packed)), bpb,
		stats.Symbols, stats.Escapes, stats.Uniform, elapsed)
}
