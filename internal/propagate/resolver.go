package propagate

import (
	"math/rand"

	"github.com/mitchgrout/maw32trail/internal/diffs"
	"github.com/mitchgrout/maw32trail/internal/memo"
)

// Resolver answers "which output differences are probable enough"
// questions for the three non-linear MAW32 primitives, preferring a
// memo table and falling back to on-the-fly sampling. Samples learned
// on the fly are written back into the store so a long-running search
// only pays the sampling cost once per input difference.
//
// A Resolver is not safe for concurrent use; each propagation worker
// owns one (and the *rand.Rand it samples maj candidates with).
type Resolver struct {
	store     *memo.Store
	threshold float64
	rng       *rand.Rand
}

// NewResolver builds a Resolver backed by store (which may be nil, in
// which case every lookup falls through to sampling and nothing is
// cached) at the given log2 probability threshold.
func NewResolver(store *memo.Store, threshold float64, rng *rand.Rand) *Resolver {
	return &Resolver{store: store, threshold: threshold, rng: rng}
}

// Add returns the probable output differences of a mod-256 addition
// with input differences dx, dy.
func (r *Resolver) Add(dx, dy byte) []byte {
	if r.store != nil {
		if v, ok := r.store.Add(dx, dy); ok {
			return diffs.Outputs(v)
		}
	}
	entries := diffs.SampleAdd(dx, dy, r.threshold)
	if r.store != nil {
		r.store.PutAdd(dx, dy, entries)
	}
	return diffs.Outputs(entries)
}

// Keymix returns the probable output differences of round-key mixing
// with input difference dx at the given round.
func (r *Resolver) Keymix(dx byte, round int) []byte {
	if r.store != nil {
		if v, ok := r.store.Keymix(dx, round); ok {
			return diffs.Outputs(v)
		}
	}
	entries := diffs.SampleKeymix(dx, round, r.threshold)
	if r.store != nil {
		r.store.PutKeymix(dx, round, entries)
	}
	return diffs.Outputs(entries)
}

// Maj returns the probable output differences of the majority
// function with input differences dx, dy, dz.
func (r *Resolver) Maj(dx, dy, dz byte) []byte {
	if r.store != nil {
		if v, ok := r.store.Maj(dx, dy, dz); ok {
			return diffs.Outputs(v)
		}
	}
	entries := diffs.SampleMaj(r.rng, dx, dy, dz, r.threshold)
	if r.store != nil {
		r.store.PutMaj(dx, dy, dz, entries)
	}
	return diffs.Outputs(entries)
}
