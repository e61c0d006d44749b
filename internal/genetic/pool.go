package genetic

import (
	"math/rand"

	"github.com/mitchgrout/maw32trail/internal/propagate"
)

// crossMasks[n] is the mask selecting the top n bits of a byte; used
// by Cross to split a byte at an arbitrary bit position.
var crossMasks = [9]byte{0x00, 0x80, 0xc0, 0xe0, 0xf0, 0xf8, 0xfc, 0xfe, 0xff}

// Pool is a fixed-size population of genes bred generation over
// generation. Size must be at least 16 (the same floor the original
// tool enforced, to keep a meaningful survivor/immigrant split); an
// odd size works, with the survivor half rounded down.
type Pool struct {
	Genes []Gene
}

// NewPool allocates an empty pool of the given size.
func NewPool(size int) *Pool {
	return &Pool{Genes: make([]Gene, size)}
}

// Best returns the index of the fittest gene in the pool.
func (p *Pool) Best() int {
	best := 0
	for i := 1; i < len(p.Genes); i++ {
		if p.Genes[i].Fitness() > p.Genes[best].Fitness() {
			best = i
		}
	}
	return best
}

// Dice picks an index among genes[:n], weighted by fitness: a dead
// gene (fitness 0) can never be picked. It returns -1 if every gene
// in range is dead.
func Dice(rng *rand.Rand, genes []Gene, n int) int {
	var total float64
	for i := 0; i < n; i++ {
		total += genes[i].Fitness()
	}
	if total <= 0 {
		return -1
	}

	roll := rng.Float64() * total
	for i := 0; i < n; i++ {
		if !genes[i].Alive() {
			continue
		}
		roll -= genes[i].Fitness()
		if roll <= 0 {
			return i
		}
	}
	return n - 1
}

// Mutate copies parent's input difference and flips one random bit
// inside the dense section (bytes 4..7 of the eight-byte schedule),
// where the search has room to explore; the sparse first four bytes
// stay zero so every candidate remains consistent with MakeInputDiff.
//
// bitIdx runs 32..63; byte index is bitIdx/8, and the bit within that
// byte is numbered MSB-first, so the mask is 1<<(7-bitIdx%8). (The
// original tool's mask was 1<<(8-bitIdx%8), off by one and undefined
// when bitIdx%8==0; this corrects it.)
func Mutate(rng *rand.Rand, parent Gene) Gene {
	child := Gene{Diff: parent.Diff}
	bitIdx := 32 + rng.Intn(32)
	byteIdx := bitIdx / 8
	mask := byte(1) << uint(7-bitIdx%8)
	child.Diff[byteIdx] ^= mask
	return child
}

// Cross splits left and right at bit position mid (0..63) and
// combines left's high bits with right's low bits into a new
// difference.
func Cross(left, right [8]byte, mid int) [8]byte {
	var out [8]byte
	byteMid := mid / 8
	bitSplit := mid % 8

	copy(out[:byteMid], left[:byteMid])
	if bitSplit != 0 {
		out[byteMid] = (left[byteMid] & crossMasks[bitSplit]) | (right[byteMid] &^ crossMasks[bitSplit])
		copy(out[byteMid+1:], right[byteMid+1:])
	} else {
		copy(out[byteMid:], right[byteMid:])
	}
	return out
}

// MakeInputDiff draws a random dense-section (bytes 4..7) difference,
// retrying until propagate.IsViable accepts it, with the sparse first
// four bytes held at zero.
func MakeInputDiff(rng *rand.Rand, resolver *propagate.Resolver, rounds int) [8]byte {
	var sched [8]byte
	for {
		for i := 4; i < 8; i++ {
			sched[i] = byte(rng.Intn(256))
		}
		if propagate.IsViable(resolver, sched, rounds) {
			return sched
		}
	}
}
