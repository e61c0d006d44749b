// Package workerpool runs the random-differential search that feeds
// immigrants into the genetic driver: each worker independently draws
// a viable input difference, propagates it, and if it shows any zero
// trails at all, posts the resulting gene to a shared channel. This
// replaces the original tool's unbounded mutex-and-semaphore producer
// queue with a bounded, buffered Go channel.
package workerpool

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	mrand "math/rand"

	"github.com/mitchgrout/maw32trail/internal/genetic"
	"github.com/mitchgrout/maw32trail/internal/memo"
	"github.com/mitchgrout/maw32trail/internal/propagate"
)

// Config configures one worker pool run.
type Config struct {
	Workers    int
	Rounds     int
	Threshold  float64
	Convention propagate.Convention
	QueueSize  int
}

// Pool runs Config.Workers goroutines, each independently generating
// candidate genes and posting the ones that show any zero trails onto
// a shared, bounded output channel.
type Pool struct {
	cfg    Config
	store  *memo.Store
	output chan genetic.Gene
}

// New builds a Pool backed by store, shared read-write across every
// worker: a sample one worker learns on the fly is immediately usable
// by the rest, since memo.Store is safe for concurrent use.
func New(cfg Config, store *memo.Store) *Pool {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = cfg.Workers * 4
	}
	return &Pool{cfg: cfg, store: store, output: make(chan genetic.Gene, cfg.QueueSize)}
}

// Immigrants returns the channel workers post accepted genes to.
func (p *Pool) Immigrants() <-chan genetic.Gene {
	return p.output
}

// Run starts Config.Workers goroutines and blocks until ctx is
// cancelled, at which point all workers exit and the output channel
// is closed. Each worker owns an independent, cryptographically seeded
// *rand.Rand and its own propagate.Resolver; the only state shared
// between workers is the output channel and the memo.Store, which
// does its own locking.
func (p *Pool) Run(ctx context.Context) {
	done := make(chan struct{}, p.cfg.Workers)
	for i := 0; i < p.cfg.Workers; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			p.worker(ctx)
		}()
	}
	go func() {
		for i := 0; i < p.cfg.Workers; i++ {
			<-done
		}
		close(p.output)
	}()
}

func (p *Pool) worker(ctx context.Context) {
	rng := mrand.New(mrand.NewSource(seed()))
	resolver := propagate.NewResolver(p.store, p.cfg.Threshold, rng)

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		diff := genetic.MakeInputDiff(rng, resolver, p.cfg.Rounds)
		result := propagate.Propagate(diff, p.cfg.Rounds, resolver, p.cfg.Convention)
		if result.ZeroTrails == 0 {
			continue
		}

		gene := genetic.Gene{Diff: diff, ZeroTrails: result.ZeroTrails, TotalTrails: result.Total()}
		select {
		case p.output <- gene:
		case <-ctx.Done():
			return
		}
	}
}

// seed draws a fresh int64 seed from the OS CSPRNG, so independent
// workers started at the same instant never share a math/rand stream.
func seed() int64 {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// crypto/rand failing is not something a seed choice can repair;
		// fall back to a fixed but distinguishable stream rather than panic.
		return 0x5a5a5a5a
	}
	return int64(binary.BigEndian.Uint64(buf[:]))
}
