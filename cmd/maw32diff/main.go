// Command maw32diff prints the full output-difference distribution
// of one MAW32 primitive for a given input difference, the standalone
// exploration tool behind the memo tables the trail search consumes.
package main

import (
	"fmt"
	"log"
	"os"
	"sort"

	"github.com/pkg/errors"
	"github.com/urfave/cli"

	"github.com/mitchgrout/maw32trail/internal/maw32core"
)

// VERSION is injected by build flags.
var VERSION = "SELFBUILD"

func main() {
	app := cli.NewApp()
	app.Name = "maw32diff"
	app.Usage = "print the output-difference distribution of one MAW32 primitive"
	app.Version = VERSION
	app.ArgsUsage = "sigma0|sigma1|keymix|add|maj [args...]"
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		log.Fatalf("%+v", err)
	}
}

func run(c *cli.Context) error {
	args := c.Args()
	if len(args) < 1 {
		return cli.NewExitError("missing primitive name", 1)
	}

	switch args[0] {
	case "sigma0", "sigma1":
		dm, err := parseHexByte(args.Get(1))
		if err != nil {
			return err
		}
		fn := maw32core.Sigma0
		if args[0] == "sigma1" {
			fn = maw32core.Sigma1
		}
		printTable(fmt.Sprintf("differences for %s:", args[0]), countOne(dm, fn), 256)

	case "keymix":
		round, err := parseInt(args.Get(1))
		if err != nil {
			return err
		}
		dm, err := parseHexByte(args.Get(2))
		if err != nil {
			return err
		}
		if round < 0 || round >= len(maw32core.K) {
			return cli.NewExitError("round out of range", 1)
		}
		k := maw32core.K[round]
		printTable("differences for keymix:", countOne(dm, func(m byte) byte {
			return maw32core.Add(k, m)
		}), 256)

	case "add":
		dx, err := parseHexByte(args.Get(1))
		if err != nil {
			return err
		}
		dy, err := parseHexByte(args.Get(2))
		if err != nil {
			return err
		}
		printTable("differences for add:", countAdd(dx, dy), 256*256)

	case "maj":
		dx, err := parseHexByte(args.Get(1))
		if err != nil {
			return err
		}
		dy, err := parseHexByte(args.Get(2))
		if err != nil {
			return err
		}
		dz, err := parseHexByte(args.Get(3))
		if err != nil {
			return err
		}
		printTable("differences for maj:", countMaj(dx, dy, dz), 256*256*256)

	default:
		return cli.NewExitError(errors.Errorf("unknown primitive %q", args[0]).Error(), 1)
	}
	return nil
}

func countOne(d byte, fn func(byte) byte) map[byte]int {
	counts := make(map[byte]int, 256)
	for m := 0; m < 256; m++ {
		counts[fn(byte(m))^fn(byte(m)^d)]++
	}
	return counts
}

func countAdd(dx, dy byte) map[byte]int {
	counts := make(map[byte]int, 256)
	for n := 0; n < 256*256; n++ {
		x, y := byte(n>>8), byte(n)
		counts[maw32core.Add(x, y)^maw32core.Add(x^dx, y^dy)]++
	}
	return counts
}

// countMaj exhaustively tallies the majority function's output
// differences over the full 256^3 cube; maw32diff reports raw counts
// rather than the log2-probability-filtered form diffs.SampleMajExhaustive
// produces for memo generation.
func countMaj(dx, dy, dz byte) map[byte]int {
	counts := make(map[byte]int, 256)
	for x := 0; x < 256; x++ {
		for y := 0; y < 256; y++ {
			for z := 0; z < 256; z++ {
				out := maw32core.Maj(byte(x)^dx, byte(y)^dy, byte(z)^dz) ^ maw32core.Maj(byte(x), byte(y), byte(z))
				counts[out]++
			}
		}
	}
	return counts
}

func printTable(header string, counts map[byte]int, sampleSize int) {
	fmt.Println(header)
	outs := make([]int, 0, len(counts))
	for d := range counts {
		outs = append(outs, int(d))
	}
	sort.Ints(outs)
	for _, d := range outs {
		if counts[byte(d)] == 0 {
			continue
		}
		fmt.Printf("0x%02x : %d/%d\n", d, counts[byte(d)], sampleSize)
	}
}

func parseHexByte(s string) (byte, error) {
	if s == "" {
		return 0, cli.NewExitError("missing hex byte argument", 1)
	}
	var v int
	if _, err := fmt.Sscanf(s, "0x%02x", &v); err != nil {
		return 0, errors.Wrapf(err, "parsing %q as a hex byte", s)
	}
	return byte(v), nil
}

func parseInt(s string) (int, error) {
	if s == "" {
		return 0, cli.NewExitError("missing integer argument", 1)
	}
	var v int
	if _, err := fmt.Sscanf(s, "%d", &v); err != nil {
		return 0, errors.Wrapf(err, "parsing %q as an integer", s)
	}
	return v, nil
}
