// Command maw32hash computes the MAW32 digest of a file or of stdin,
// the whole-message counterpart to the single-block primitives the
// trail search operates on.
package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/pkg/errors"
	"github.com/urfave/cli"

	"github.com/mitchgrout/maw32trail/internal/maw32core"
)

// VERSION is injected by build flags.
var VERSION = "SELFBUILD"

func main() {
	app := cli.NewApp()
	app.Name = "maw32hash"
	app.Usage = "compute the MAW32 digest of a file, or stdin if no file is given"
	app.Version = VERSION
	app.ArgsUsage = "[file]"
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		log.Fatalf("%+v", err)
	}
}

func run(c *cli.Context) error {
	var r io.Reader = os.Stdin
	if path := c.Args().First(); path != "" {
		f, err := os.Open(path)
		if err != nil {
			return errors.Wrap(err, "opening input")
		}
		defer f.Close()
		r = f
	}

	msg, err := io.ReadAll(r)
	if err != nil {
		return errors.Wrap(err, "reading input")
	}

	digest := maw32core.Hash(msg)
	fmt.Printf("%02x%02x%02x%02x\n", digest[0], digest[1], digest[2], digest[3])
	return nil
}
