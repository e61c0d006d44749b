// Package diffs implements byte-difference propagation for the MAW32
// non-linear primitives: difference-distribution sampling, log2
// probability filtering, and the two XOR-linear sigma differences that
// need no sampling at all.
package diffs

import (
	"math"
	"math/rand"

	"github.com/mitchgrout/maw32trail/internal/maw32core"
)

// Sigma0 is the XOR-difference of maw32core.Sigma0: it is exactly
// sigma0(d) with probability 1, since sigma0 is linear over XOR.
func Sigma0(d byte) byte {
	return maw32core.Sigma0(d)
}

// Sigma1 is the XOR-difference of maw32core.Sigma1, likewise probability 1.
func Sigma1(d byte) byte {
	return maw32core.Sigma1(d)
}

// Entry is a single DDT entry: an observed output difference together
// with its log2 probability floor (log2(count) - log2(sampleSize)). This
// is the unit the memo store persists to disk, one {out, logp} record
// per entry.
type Entry struct {
	Out  byte
	LogP float32
}

// FilterEntries converts a tally of output-difference counts into the
// list of entries whose log2 probability is at least threshold.
func FilterEntries(counts map[byte]int, sampleSize int, threshold float64) []Entry {
	var out []Entry
	for diff, count := range counts {
		prob := math.Log2(float64(count)) - math.Log2(float64(sampleSize))
		if prob >= threshold {
			out = append(out, Entry{Out: diff, LogP: float32(prob)})
		}
	}
	return out
}

// Outputs extracts just the output byte from each entry, discarding the
// probability floor, for callers (the propagator) that only need the
// list of viable alternatives to try.
func Outputs(entries []Entry) []byte {
	outs := make([]byte, len(entries))
	for i, e := range entries {
		outs[i] = e.Out
	}
	return outs
}

// EncodeEntries packs entries as {out, logp} byte pairs, the on-disk
// memo record format spec section 4.C/6.3 mandates: logp is rounded to
// the nearest integer and stored as a signed byte.
func EncodeEntries(entries []Entry) []byte {
	buf := make([]byte, 0, len(entries)*2)
	for _, e := range entries {
		buf = append(buf, e.Out, byte(int8(math.Round(float64(e.LogP)))))
	}
	return buf
}

// DecodeEntries unpacks {out, logp} byte pairs produced by EncodeEntries.
func DecodeEntries(data []byte) []Entry {
	entries := make([]Entry, 0, len(data)/2)
	for i := 0; i+1 < len(data); i += 2 {
		entries = append(entries, Entry{Out: data[i], LogP: float32(int8(data[i+1]))})
	}
	return entries
}

// SampleKeymix exhaustively computes the output-difference distribution
// of addition with round constant K[round], over all 256 values of x.
func SampleKeymix(dx byte, round int, threshold float64) []Entry {
	k := maw32core.K[round]
	counts := make(map[byte]int, 256)
	for n := 0; n < 256; n++ {
		x := byte(n)
		out := maw32core.Add(k, x^dx) ^ maw32core.Add(k, x)
		counts[out]++
	}
	return FilterEntries(counts, 256, threshold)
}

// SampleAdd exhaustively computes the output-difference distribution of
// modular addition, over all 65536 pairs (x,y).
func SampleAdd(dx, dy byte, threshold float64) []Entry {
	const sampleSize = 256 * 256
	counts := make(map[byte]int, 256)
	for n := 0; n < sampleSize; n++ {
		x := byte((n >> 8) & 0xff)
		y := byte(n & 0xff)
		out := maw32core.Add(x^dx, y^dy) ^ maw32core.Add(x, y)
		counts[out]++
	}
	return FilterEntries(counts, sampleSize, threshold)
}

// SampleMaj estimates the output-difference distribution of the majority
// function via Monte Carlo sampling (65536 draws), as the spec permits
// for runtime memo generation. For the exhaustive, reproducible result
// used by golden test vectors, see SampleMajExhaustive.
func SampleMaj(rng *rand.Rand, dx, dy, dz byte, threshold float64) []Entry {
	const sampleSize = 256 * 256
	counts := make(map[byte]int, 256)
	for n := 0; n < sampleSize; n++ {
		x := byte(rng.Intn(256))
		y := byte(rng.Intn(256))
		z := byte(rng.Intn(256))
		out := maw32core.Maj(x^dx, y^dy, z^dz) ^ maw32core.Maj(x, y, z)
		counts[out]++
	}
	return FilterEntries(counts, sampleSize, threshold)
}

// SampleMajExhaustive computes the exact output-difference distribution
// of the majority function over the full 256^3 cube. It is expensive
// (16.7M evaluations) and is intended for offline memo generation and
// test-vector fixtures, not for on-the-fly sampling during a search.
func SampleMajExhaustive(dx, dy, dz byte, threshold float64) []Entry {
	const sampleSize = 256 * 256 * 256
	var counts [256]int
	for x := 0; x < 256; x++ {
		for y := 0; y < 256; y++ {
			for z := 0; z < 256; z++ {
				out := maw32core.Maj(byte(x)^dx, byte(y)^dy, byte(z)^dz) ^ maw32core.Maj(byte(x), byte(y), byte(z))
				counts[out]++
			}
		}
	}
	m := make(map[byte]int, 256)
	for out, c := range counts {
		if c > 0 {
			m[byte(out)] = c
		}
	}
	return FilterEntries(m, sampleSize, threshold)
}
