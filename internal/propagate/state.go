// Package propagate implements the explicit backtracking search that
// follows a byte-difference through the sixteen rounds of MAW32,
// resuming at the most recent unexhausted choice point whenever a
// branch dead-ends instead of recursing.
package propagate

import "encoding/binary"

// State is a snapshot of the propagation at one point in the search:
// the round/step currently being processed, the message schedule
// differences seen so far, the four working registers, the two
// temporaries and the maj difference, and the per-round register
// trail.
//
// Equal only ever compares Round and Step, per the original tool's
// prop_state_equal: a choice point is identified by where in the
// round/step sequence it sits, not by the values flowing through it.
type State struct {
	Round int
	Step  int

	Sched [16]byte

	A, B, C, D byte
	T1, T2, Maj byte

	Trail [16]uint32
}

// Equal reports whether left and right refer to the same choice point.
func (s State) Equal(o State) bool {
	return s.Round == o.Round && s.Step == o.Step
}

// RegistersZero reports whether all four working registers are
// currently difference-free.
func (s State) RegistersZero() bool {
	return s.A == 0 && s.B == 0 && s.C == 0 && s.D == 0
}

// packRegisters combines the four register differences into the
// trail format written for a completed round.
func packRegisters(a, b, c, d byte) uint32 {
	return binary.BigEndian.Uint32([]byte{a, b, c, d})
}
