package propagate

import (
	"math/rand"
	"testing"

	"github.com/mitchgrout/maw32trail/internal/memo"
)

func TestPropagateZeroDiffIsTrivial(t *testing.T) {
	resolver := NewResolver(memo.New(), -4.0, rand.New(rand.NewSource(1)))
	var sched [8]byte
	result := Propagate(sched, 4, resolver, ConventionSplit)
	if result.Completed == 0 {
		t.Fatalf("expected at least one completed trail for the zero difference")
	}
	if result.ZeroTrails != result.Completed {
		t.Fatalf("a zero input difference should only ever propagate to zero: got %d/%d zero trails",
			result.ZeroTrails, result.Completed)
	}
}

func TestPropagateIsDeterministic(t *testing.T) {
	sched := [8]byte{0, 0, 0, 0, 0x01, 0x80, 0x03, 0x40}
	run := func() Result {
		resolver := NewResolver(memo.New(), -4.0, rand.New(rand.NewSource(7)))
		return Propagate(sched, 6, resolver, ConventionLegacy)
	}
	a := run()
	b := run()
	if a != b {
		t.Fatalf("Propagate was not deterministic for a fixed seed: %+v vs %+v", a, b)
	}
}

func TestResultFitnessConventions(t *testing.T) {
	r := Result{ZeroTrails: 2, Completed: 4, Bailed: 6, Convention: ConventionLegacy}
	if r.Total() != 10 {
		t.Fatalf("legacy total = %d, want 10", r.Total())
	}
	if r.Fitness() != 0.2 {
		t.Fatalf("legacy fitness = %v, want 0.2", r.Fitness())
	}

	r.Convention = ConventionSplit
	if r.Total() != 4 {
		t.Fatalf("split total = %d, want 4", r.Total())
	}
	if r.Fitness() != 0.5 {
		t.Fatalf("split fitness = %v, want 0.5", r.Fitness())
	}
}

func TestResultFitnessOfEmptyResultIsZero(t *testing.T) {
	var r Result
	if r.Fitness() != 0 {
		t.Fatalf("fitness of an empty result should be 0, got %v", r.Fitness())
	}
}

func TestIsViableAcceptsZeroDifference(t *testing.T) {
	resolver := NewResolver(memo.New(), -4.0, rand.New(rand.NewSource(3)))
	var sched [8]byte
	if !IsViable(resolver, sched, 10) {
		t.Fatalf("the all-zero difference should always be viable")
	}
}

func TestParseDiffStringRoundTrip(t *testing.T) {
	s := "x-------" + "x-------" + "--------" + "--------" +
		"--------" + "--------" + "--------" + "x-------"
	sched, err := ParseDiffString(s)
	if err != nil {
		t.Fatalf("ParseDiffString: %v", err)
	}
	if sched[0] != 0x80 || sched[1] != 0x80 || sched[7] != 0x80 {
		t.Fatalf("unexpected parse result: %+v", sched)
	}
	if FormatDiffString(sched) != s {
		t.Fatalf("FormatDiffString(ParseDiffString(s)) != s")
	}
}

func TestParseDiffStringRejectsWrongLength(t *testing.T) {
	if _, err := ParseDiffString("x-"); err == nil {
		t.Fatalf("expected an error for a short difference string")
	}
}

func TestConditionChar(t *testing.T) {
	if ConditionChar(0) != '#' {
		t.Fatalf("ConditionChar(0) = %q, want '#'", ConditionChar(0))
	}
	if ConditionChar(15) != '?' {
		t.Fatalf("ConditionChar(15) = %q, want '?'", ConditionChar(15))
	}
	if ConditionChar(99) != '?' {
		t.Fatalf("ConditionChar(99) = %q, want '?' for an out-of-range code", ConditionChar(99))
	}
}
