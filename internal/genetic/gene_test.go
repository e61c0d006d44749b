package genetic

import (
	"math/rand"
	"testing"
)

func TestGeneFitnessOfDeadGeneIsZero(t *testing.T) {
	var g Gene
	if g.Alive() {
		t.Fatalf("a zero Gene should not be alive")
	}
	if g.Fitness() != 0 {
		t.Fatalf("a dead gene's fitness should be 0, got %v", g.Fitness())
	}
}

func TestGeneKillClearsState(t *testing.T) {
	g := Gene{Diff: [8]byte{1, 2, 3, 4, 5, 6, 7, 8}, ZeroTrails: 3, TotalTrails: 10}
	g.Kill()
	if g.Alive() {
		t.Fatalf("Kill should leave the gene dead")
	}
	if g.Diff != ([8]byte{}) {
		t.Fatalf("Kill should clear the difference too, got %v", g.Diff)
	}
}

func TestDicePrefersFitterGenes(t *testing.T) {
	genes := []Gene{
		{TotalTrails: 10, ZeroTrails: 0},  // dead-weight low fitness, but alive
		{TotalTrails: 10, ZeroTrails: 10}, // fitness 1.0
	}
	rng := rand.New(rand.NewSource(42))
	counts := [2]int{}
	for i := 0; i < 2000; i++ {
		idx := Dice(rng, genes, len(genes))
		if idx < 0 {
			t.Fatalf("Dice returned -1 with live genes present")
		}
		counts[idx]++
	}
	if counts[1] <= counts[0] {
		t.Fatalf("expected the fitness-1.0 gene to be picked far more often: %v", counts)
	}
}

func TestDiceAllDeadReturnsNegativeOne(t *testing.T) {
	genes := []Gene{{}, {}}
	rng := rand.New(rand.NewSource(1))
	if idx := Dice(rng, genes, len(genes)); idx != -1 {
		t.Fatalf("Dice over an all-dead slice = %d, want -1", idx)
	}
}

func TestMutateOnlyTouchesDenseSection(t *testing.T) {
	parent := Gene{Diff: [8]byte{0xaa, 0xbb, 0xcc, 0xdd, 0, 0, 0, 0}}
	rng := rand.New(rand.NewSource(5))
	for i := 0; i < 100; i++ {
		child := Mutate(rng, parent)
		if child.Diff[0] != 0xaa || child.Diff[1] != 0xbb || child.Diff[2] != 0xcc || child.Diff[3] != 0xdd {
			t.Fatalf("Mutate touched the sparse section: %v", child.Diff)
		}
	}
}

func TestCrossByteAligned(t *testing.T) {
	left := [8]byte{1, 2, 3, 4, 5, 6, 7, 8}
	right := [8]byte{11, 12, 13, 14, 15, 16, 17, 18}
	out := Cross(left, right, 32) // byte-aligned midpoint
	want := [8]byte{1, 2, 3, 4, 15, 16, 17, 18}
	if out != want {
		t.Fatalf("Cross(32) = %v, want %v", out, want)
	}
}

func TestCrossBitSplit(t *testing.T) {
	left := [8]byte{0, 0, 0, 0, 0xff, 0, 0, 0}
	right := [8]byte{0, 0, 0, 0, 0x00, 0xff, 0, 0}
	out := Cross(left, right, 36) // split byte 4 at bit 4
	if out[4] != 0xf0 {
		t.Fatalf("Cross(36)[4] = %#x, want 0xf0", out[4])
	}
	if out[5] != 0xff {
		t.Fatalf("Cross(36)[5] = %#x, want 0xff", out[5])
	}
}
