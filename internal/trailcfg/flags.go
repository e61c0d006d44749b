package trailcfg

import (
	"github.com/fatih/color"
	"github.com/urfave/cli"
)

// Flags is the urfave/cli flag table shared by cmd/maw32trail,
// mirroring the original tool's getopt surface (-d/-i/-n/-p/-r/-s/-m)
// one flag at a time, plus the -c JSON overlay and logging flags the
// teacher's tools always carry.
var Flags = []cli.Flag{
	cli.BoolFlag{
		Name:  "dry-run, d",
		Usage: "run setup (load memos) but do not generate any trails",
	},
	cli.BoolFlag{
		Name:  "random-only, i",
		Usage: "do not apply the genetic algorithm, just report randomly generated trails",
	},
	cli.IntFlag{
		Name:  "threads, n",
		Value: 4,
		Usage: "number of worker goroutines to run",
	},
	cli.Float64Flag{
		Name:  "threshold, p",
		Value: -3.0,
		Usage: "log2 probability threshold below which a candidate difference is discarded",
	},
	cli.IntFlag{
		Name:  "rounds, r",
		Value: 8,
		Usage: "number of rounds to propagate, 1-16",
	},
	cli.IntFlag{
		Name:  "pool-size, s",
		Value: 32,
		Usage: "gene pool size, must be >= 16",
	},
	cli.Float64Flag{
		Name:  "immigration-rate, m",
		Value: 0.05,
		Usage: "fraction of each generation replaced by fresh immigrants, 0..0.5",
	},
	cli.IntFlag{
		Name:  "generations, g",
		Value: 0,
		Usage: "number of generations to breed before stopping, 0 to run until interrupted",
	},
	cli.StringFlag{
		Name:  "convention",
		Value: "legacy",
		Usage: "trail counting convention: legacy or split",
	},
	cli.StringFlag{
		Name:  "scratch-dir",
		Value: "./scratch",
		Usage: "directory holding the key/add/maj memo files",
	},
	cli.StringFlag{
		Name:  "bolt-cache",
		Usage: "optional bbolt file for incrementally-learned memo entries",
	},
	cli.StringFlag{
		Name:  "archive",
		Usage: "optional snappy-compressed combined memo archive",
	},
	cli.StringFlag{
		Name:  "c",
		Usage: "config from json file, which will override the flags from the shell",
	},
	cli.StringFlag{
		Name:  "log",
		Usage: "redirect log output to this file instead of stderr",
	},
	cli.StringFlag{
		Name:  "fitness-log",
		Usage: "periodically append generation fitness statistics to this CSV file",
	},
	cli.BoolFlag{
		Name:  "quiet, q",
		Usage: "suppress per-gene progress logging",
	},
	cli.BoolFlag{
		Name:  "generate",
		Usage: "exhaustively (keymix, add) or via Monte Carlo (maj) build the three memo tables for the configured threshold and write them to scratch-dir, instead of running a search",
	},
	cli.BoolFlag{
		Name:  "progress",
		Usage: "show an mpb progress bar while generating memo tables (only meaningful with -generate)",
	},
}

// FromContext builds a Config from a cli.Context, then overlays a
// JSON config file if -c was given. Caller is responsible for
// validating the result with Validate.
func FromContext(c *cli.Context) (Config, error) {
	cfg := Config{
		Rounds:          c.Int("rounds"),
		Threshold:       c.Float64("threshold"),
		PoolSize:        c.Int("pool-size"),
		ImmigrationRate: c.Float64("immigration-rate"),
		Generations:     c.Int("generations"),
		Threads:         c.Int("threads"),
		Convention:      c.String("convention"),
		ScratchDir:      c.String("scratch-dir"),
		BoltCache:       c.String("bolt-cache"),
		Archive:         c.String("archive"),
		Log:             c.String("log"),
		FitnessLog:      c.String("fitness-log"),
		DryRun:          c.Bool("dry-run"),
		RandomOnly:      c.Bool("random-only"),
		Quiet:           c.Bool("quiet"),
		Generate:        c.Bool("generate"),
		Progress:        c.Bool("progress"),
	}
	if path := c.String("c"); path != "" {
		if err := ParseJSONConfig(&cfg, path); err != nil {
			return cfg, err
		}
	}
	return cfg, nil
}

// Validate checks the same invariants the original getopt-based
// parser enforced (positive thread count, negative threshold, round
// count in range, minimum pool size, immigration rate bounds) plus
// the counting convention this port adds. Violations are printed in
// yellow, matching the teacher's use of fatih/color for warnings.
func Validate(cfg Config) error {
	warn := color.New(color.FgYellow).SprintFunc()

	switch {
	case cfg.Threads <= 0:
		return cliError(warn, "threads must be positive")
	case cfg.Threshold >= 0:
		return cliError(warn, "threshold must be a negative log2 probability")
	case cfg.Rounds < 1 || cfg.Rounds > 16:
		return cliError(warn, "rounds must be between 1 and 16")
	case cfg.PoolSize < 16:
		return cliError(warn, "pool size must be at least 16")
	case cfg.ImmigrationRate < 0 || cfg.ImmigrationRate > 0.5:
		return cliError(warn, "immigration rate must be between 0 and 0.5")
	case cfg.Convention != "legacy" && cfg.Convention != "split":
		return cliError(warn, "convention must be \"legacy\" or \"split\"")
	}
	return nil
}

func cliError(warn func(...interface{}) string, msg string) error {
	return cli.NewExitError(warn("error: ")+msg, 1)
}
