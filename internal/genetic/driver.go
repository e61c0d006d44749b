package genetic

import (
	"math"
	"math/rand"

	"github.com/mitchgrout/maw32trail/internal/propagate"
)

// Config bounds one genetic search run.
type Config struct {
	Rounds          int
	Threshold       float64
	ImmigrationRate float64 // in [0, 0.5]
	Convention      propagate.Convention
}

// Driver advances a Pool generation over generation, pulling
// immigrants from a channel fed by a worker pool and logging via the
// supplied sink.
type Driver struct {
	cfg       Config
	rng       *rand.Rand
	resolver  *propagate.Resolver
	immigrant <-chan Gene
	log       func(format string, args ...any)
}

// NewDriver builds a Driver. immigrant is typically fed by
// workerpool.Pool.Immigrants(); log may be nil, in which case
// progress is not logged.
func NewDriver(cfg Config, rng *rand.Rand, resolver *propagate.Resolver, immigrant <-chan Gene, log func(string, ...any)) *Driver {
	if log == nil {
		log = func(string, ...any) {}
	}
	return &Driver{cfg: cfg, rng: rng, resolver: resolver, immigrant: immigrant, log: log}
}

// Seed fills an empty pool entirely with immigrants, blocking on the
// immigrant channel until it is full.
func (d *Driver) Seed(pool *Pool) {
	for i := range pool.Genes {
		pool.Genes[i] = <-d.immigrant
		d.log("%s - immigration", pool.Genes[i])
	}
}

// RunGeneration advances pool by one generation in place: half the
// pool survives by fitness-weighted selection, a slice is topped up
// by immigration, and the remainder is bred by mutation or crossover,
// retrying each breeding attempt until propagation yields at least
// one zero trail.
func (d *Driver) RunGeneration(pool *Pool) {
	size := len(pool.Genes)
	half := size / 2

	survivors := make([]Gene, size)
	working := append([]Gene(nil), pool.Genes...)

	idx := 0
	for idx < half {
		survivorIdx := Dice(d.rng, working, size)
		if survivorIdx < 0 {
			break
		}
		survivors[idx] = working[survivorIdx]
		d.log("%s - survivor", survivors[idx])
		working[survivorIdx].Kill()
		idx++
	}
	copy(pool.Genes, survivors)

	immigrantCutoff := int(math.Ceil(float64(half) * (1.0 + d.cfg.ImmigrationRate)))
	for ; idx < immigrantCutoff && idx < size; idx++ {
		pool.Genes[idx] = <-d.immigrant
		d.log("%s - immigration", pool.Genes[idx])
	}

	for ; idx < size; idx++ {
		pool.Genes[idx] = d.breed(pool.Genes[:half])
		d.log("%s - generated", pool.Genes[idx])
	}
}

// breed produces one new, propagatable gene from the surviving half of
// the pool (picked by fitness-weighted dice), preferring mutation 1/4 of the time and crossover the
// rest, matching the original search's ratio.
func (d *Driver) breed(survivors []Gene) Gene {
	for {
		var diff [8]byte
		if d.rng.Intn(16) < 4 {
			parentIdx := Dice(d.rng, survivors, len(survivors))
			if parentIdx < 0 {
				continue
			}
			diff = Mutate(d.rng, survivors[parentIdx]).Diff
		} else {
			p1 := Dice(d.rng, survivors, len(survivors))
			if p1 < 0 {
				continue
			}
			p2 := p1
			for p2 == p1 {
				p2 = Dice(d.rng, survivors, len(survivors))
				if p2 < 0 {
					break
				}
			}
			if p2 < 0 {
				continue
			}
			mid := 32 + d.rng.Intn(32)
			diff = Cross(survivors[p1].Diff, survivors[p2].Diff, mid)
		}

		result := propagate.Propagate(diff, d.cfg.Rounds, d.resolver, d.cfg.Convention)
		if result.ZeroTrails > 0 {
			return Gene{Diff: diff, ZeroTrails: result.ZeroTrails, TotalTrails: result.Total()}
		}
	}
}
