// Command srsverify audits an SRS file written by srsgen: it decodes every
// point, checks the generators, runs pairing checks between the G1 and G2
// sequences and reconstructs monomial points from the Lagrange points.
//
// Usage:
//
//	srsverify [--samples N] [--workers N] <file>
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/sifnoc/plonkish/log"
	"github.com/sifnoc/plonkish/srs"
	"github.com/sifnoc/plonkish/verify"
)

var errUsage = errors.New("usage: srsverify [flags] <file>")

func main() {
	os.Exit(run(os.Args, os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	app := &cli.App{
		Name:      "srsverify",
		Usage:     "audit a univariate KZG SRS file",
		ArgsUsage: "<file>",
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "samples", Value: verify.DefaultSamples, Usage: "indices checked by pairing and round-trip checks (-1 = all)"},
			&cli.IntFlag{Name: "workers", Usage: "goroutines for multi-exponentiation (0 = all CPUs)"},
			&cli.IntFlag{Name: "verbosity", Value: 3, Usage: "log level 0-5"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return errUsage
			}
			logger := log.NewText(stderr, log.LevelFromVerbosity(c.Int("verbosity"))).Module("verify")
			path := c.Args().First()

			s, err := srs.ReadFile(path)
			if err != nil {
				return err
			}
			logger.Info("SRS decoded", "path", path, "k", s.K, "n", s.Size())
			opts := verify.Options{Samples: c.Int("samples"), Workers: c.Int("workers")}
			if err := verify.Check(s, opts); err != nil {
				return err
			}
			fmt.Fprintf(stdout, "SRS verified: %s (k=%d)\n", path, s.K)
			return nil
		},
	}
	if err := app.Run(args); err != nil {
		fmt.Fprintf(stderr, "Fatal: %v\n", err)
		return 1
	}
	return 0
}
