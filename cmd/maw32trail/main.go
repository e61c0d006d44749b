// Command maw32trail searches for high-probability differential
// trails through the MAW32 compression function, using a genetic
// algorithm seeded and topped up by a pool of worker goroutines that
// propagate random candidate differences in the background.
package main

import (
	"context"
	cryptorand "crypto/rand"
	"crypto/sha1"
	"encoding/binary"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/urfave/cli"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
	"golang.org/x/crypto/pbkdf2"

	"github.com/mitchgrout/maw32trail/internal/diffs"
	"github.com/mitchgrout/maw32trail/internal/genetic"
	"github.com/mitchgrout/maw32trail/internal/memo"
	"github.com/mitchgrout/maw32trail/internal/propagate"
	"github.com/mitchgrout/maw32trail/internal/trailcfg"
	"github.com/mitchgrout/maw32trail/internal/workerpool"
)

// salt stretches an operator-supplied passphrase into a deterministic
// 64-bit search seed, the same pbkdf2-over-sha1 construction the
// teacher's tools use to turn a pre-shared key into cipher material.
const salt = "maw32trail"

// VERSION is injected by build flags.
var VERSION = "SELFBUILD"

func main() {
	if VERSION == "SELFBUILD" {
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	}

	app := cli.NewApp()
	app.Name = "maw32trail"
	app.Usage = "search for high-probability differential trails through MAW32"
	app.Version = VERSION
	app.Flags = append(trailcfg.Flags, cli.StringFlag{
		Name:  "passphrase",
		Usage: "derive the driver's (and -generate's) seed from a passphrase instead of the OS CSPRNG; worker seeds always come from the OS CSPRNG",
	})
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		log.Fatalf("%+v", err)
	}
}

func run(c *cli.Context) error {
	cfg, err := trailcfg.FromContext(c)
	if err != nil {
		return errors.Wrap(err, "loading config")
	}
	if err := trailcfg.Validate(cfg); err != nil {
		cli.ShowAppHelp(c)
		return err
	}

	if cfg.Log != "" {
		f, err := os.OpenFile(cfg.Log, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
		if err != nil {
			return errors.Wrap(err, "opening log file")
		}
		defer f.Close()
		log.SetOutput(f)
	}

	log.Println("version:", VERSION)
	log.Println("rounds:", cfg.Rounds, "threshold: 2^", cfg.Threshold)
	log.Println("pool size:", cfg.PoolSize, "immigration rate:", cfg.ImmigrationRate)
	log.Println("threads:", cfg.Threads, "convention:", cfg.Convention)

	if cfg.Generate {
		rng := rand.New(rand.NewSource(seedFromPassphrase(c.String("passphrase"))))
		return generateMemos(cfg, rng)
	}

	if cfg.PoolSize%2 != 0 {
		color.Yellow("warning: pool size %d is odd, the survivor half will be rounded down", cfg.PoolSize)
	}

	store := trailcfg.LoadMemos(cfg)
	if cfg.DryRun {
		log.Println("dry run: memo tables loaded, not generating trails")
		return nil
	}

	convention := propagate.ConventionLegacy
	if cfg.Convention == "split" {
		convention = propagate.ConventionSplit
	}

	seed := seedFromPassphrase(c.String("passphrase"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Println("received interrupt, winding down")
		cancel()
	}()

	pool := workerpool.New(workerpool.Config{
		Workers:    cfg.Threads,
		Rounds:     cfg.Rounds,
		Threshold:  cfg.Threshold,
		Convention: convention,
	}, store)
	pool.Run(ctx)

	if cfg.RandomOnly {
		for gene := range pool.Immigrants() {
			if !cfg.Quiet {
				log.Println(gene, "- immigration")
			}
		}
		return nil
	}

	rng := rand.New(rand.NewSource(seed))
	resolver := propagate.NewResolver(store, cfg.Threshold, rng)
	driverLog := func(format string, args ...any) {
		if !cfg.Quiet {
			log.Printf(format, args...)
		}
	}
	driver := genetic.NewDriver(genetic.Config{
		Rounds:          cfg.Rounds,
		Threshold:       cfg.Threshold,
		ImmigrationRate: cfg.ImmigrationRate,
		Convention:      convention,
	}, rng, resolver, pool.Immigrants(), driverLog)

	genePool := genetic.NewPool(cfg.PoolSize)
	log.Println("seeding gene pool from worker immigrants")
	driver.Seed(genePool)

	var snapshots chan genetic.PoolSnapshot
	if cfg.FitnessLog != "" {
		snapshots = make(chan genetic.PoolSnapshot, 8)
		go genetic.FitnessLogger(cfg.FitnessLog, snapshots)
		defer close(snapshots)
	}

	log.Println("beginning optimization")
	runGenerations(ctx, genePool, driver, cfg, snapshots)

	best := genePool.Genes[genePool.Best()]
	log.Println(best, "- final best")
	return nil
}

func runGenerations(ctx context.Context, pool *genetic.Pool, driver *genetic.Driver, cfg trailcfg.Config, snapshots chan<- genetic.PoolSnapshot) {
	if cfg.Generations > 0 {
		progress := mpb.New(mpb.WithWidth(80))
		bar := progress.AddBar(int64(cfg.Generations),
			mpb.PrependDecorators(decor.Name("breeding: ")),
			mpb.AppendDecorators(decor.OnComplete(decor.AverageETA(decor.ET_STYLE_GO), "done!")),
		)
		for gen := 1; gen <= cfg.Generations; gen++ {
			select {
			case <-ctx.Done():
				progress.Wait()
				return
			default:
			}
			driver.RunGeneration(pool)
			bar.Increment()
			publishSnapshot(snapshots, genetic.Snapshot(pool, gen))
		}
		progress.Wait()
		return
	}

	for gen := 1; ; gen++ {
		select {
		case <-ctx.Done():
			return
		default:
		}
		driver.RunGeneration(pool)
		if !cfg.Quiet {
			log.Printf("population %d bred", gen)
		}
		publishSnapshot(snapshots, genetic.Snapshot(pool, gen))
	}
}

// generateMemos exhaustively builds the key-mix and add memo tables and
// Monte-Carlo samples the maj table, at cfg's threshold, then writes all
// three to cfg.ScratchDir in the binary format internal/memo reads at
// startup. This is the offline counterpart to the on-the-fly sampling
// propagate.Resolver falls back to: running it once up front means a
// later search never pays the sampling cost at all.
func generateMemos(cfg trailcfg.Config, rng *rand.Rand) error {
	store := memo.New()

	var progress *mpb.Progress
	if cfg.Progress {
		progress = mpb.New(mpb.WithWidth(80))
	}

	generateKeymixTable(store, cfg, progress)
	generateAddTable(store, cfg, progress)
	generateMajTable(store, cfg, rng, progress)

	if progress != nil {
		progress.Wait()
	}

	keyPath, addPath, majPath := memo.FileNames(cfg.ScratchDir, cfg.Threshold)
	if err := store.WriteKeyFile(keyPath); err != nil {
		return errors.Wrap(err, "writing key-mix memo file")
	}
	if err := store.WriteAddFile(addPath); err != nil {
		return errors.Wrap(err, "writing add memo file")
	}
	if err := store.WriteMajFile(majPath); err != nil {
		return errors.Wrap(err, "writing maj memo file")
	}

	log.Printf("generated memo tables: %d key, %d add, %d maj entries",
		store.KeymixLen(), store.AddLen(), store.MajLen())
	return nil
}

func generateKeymixTable(store *memo.Store, cfg trailcfg.Config, progress *mpb.Progress) {
	var bar *mpb.Bar
	if progress != nil {
		bar = progress.AddBar(int64(256*cfg.Rounds),
			mpb.PrependDecorators(decor.Name("key-mix table: ")),
			mpb.AppendDecorators(decor.Percentage()))
	}
	for round := 0; round < cfg.Rounds; round++ {
		for dx := 0; dx < 256; dx++ {
			if entries := diffs.SampleKeymix(byte(dx), round, cfg.Threshold); len(entries) > 0 {
				store.PutKeymix(byte(dx), round, entries)
			}
			if bar != nil {
				bar.Increment()
			}
		}
	}
}

func generateAddTable(store *memo.Store, cfg trailcfg.Config, progress *mpb.Progress) {
	var bar *mpb.Bar
	if progress != nil {
		bar = progress.AddBar(256*256,
			mpb.PrependDecorators(decor.Name("add table: ")),
			mpb.AppendDecorators(decor.Percentage()))
	}
	for dx := 0; dx < 256; dx++ {
		for dy := 0; dy < 256; dy++ {
			if entries := diffs.SampleAdd(byte(dx), byte(dy), cfg.Threshold); len(entries) > 0 {
				store.PutAdd(byte(dx), byte(dy), entries)
			}
			if bar != nil {
				bar.Increment()
			}
		}
	}
}

func generateMajTable(store *memo.Store, cfg trailcfg.Config, rng *rand.Rand, progress *mpb.Progress) {
	var bar *mpb.Bar
	if progress != nil {
		bar = progress.AddBar(256*256*256,
			mpb.PrependDecorators(decor.Name("maj table: ")),
			mpb.AppendDecorators(decor.Percentage()))
	}
	for dx := 0; dx < 256; dx++ {
		for dy := 0; dy < 256; dy++ {
			for dz := 0; dz < 256; dz++ {
				if entries := diffs.SampleMaj(rng, byte(dx), byte(dy), byte(dz), cfg.Threshold); len(entries) > 0 {
					store.PutMaj(byte(dx), byte(dy), byte(dz), entries)
				}
				if bar != nil {
					bar.Increment()
				}
			}
		}
	}
}

func publishSnapshot(snapshots chan<- genetic.PoolSnapshot, snap genetic.PoolSnapshot) {
	if snapshots == nil {
		return
	}
	select {
	case snapshots <- snap:
	default:
		// a slow logger shouldn't stall the search
	}
}

// seedFromPassphrase derives a deterministic int64 seed for the
// driver's own RNG (or -generate's maj sampling) via pbkdf2 when a
// passphrase is given, so that RNG repeats its stream for the same
// passphrase, otherwise draws one from the OS CSPRNG. Worker goroutines
// do not use this seed: workerpool seeds each of them from the OS CSPRNG,
// so a search run as a whole does not repeat.
func seedFromPassphrase(passphrase string) int64 {
	if passphrase == "" {
		var buf [8]byte
		if _, err := cryptorand.Read(buf[:]); err != nil {
			return 1
		}
		return int64(binary.BigEndian.Uint64(buf[:]))
	}
	key := pbkdf2.Key([]byte(passphrase), []byte(salt), 4096, 8, sha1.New)
	seed := int64(binary.BigEndian.Uint64(key))
	if seed == 0 {
		seed = 1
	}
	return seed
}
