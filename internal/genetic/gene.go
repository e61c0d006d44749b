// Package genetic implements the gene-pool search that evolves input
// differences toward high-fitness trails: survivors are picked by
// fitness-weighted dice rolls, bred by mutation or crossover, and
// topped up by immigrants pulled from a worker pool.
package genetic

import "fmt"

// Gene is a single candidate input difference together with the
// trail statistics the propagator observed for it.
type Gene struct {
	Diff        [8]byte
	ZeroTrails  int
	TotalTrails int
}

// Alive reports whether a gene has ever been propagated; a zero Gene
// (as left behind by Kill) is not usable for breeding.
func (g Gene) Alive() bool {
	return g.TotalTrails != 0
}

// Kill clears a gene in place, marking it dead and freeing its slot
// for a survivor, immigrant, or bred child.
func (g *Gene) Kill() {
	*g = Gene{}
}

// Fitness is the fraction of observed trails that reached an all-zero
// register difference. A dead gene has fitness 0.
func (g Gene) Fitness() float64 {
	if !g.Alive() {
		return 0
	}
	return float64(g.ZeroTrails) / float64(g.TotalTrails)
}

// String renders a gene the way the search log prints it: hex
// fingerprint plus fitness.
func (g Gene) String() string {
	return fmt.Sprintf("(fingerprint: %02x%02x%02x%02x%02x%02x%02x%02x, fitness: %f)",
		g.Diff[0], g.Diff[1], g.Diff[2], g.Diff[3],
		g.Diff[4], g.Diff[5], g.Diff[6], g.Diff[7],
		g.Fitness())
}
