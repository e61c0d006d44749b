package propagate

import "github.com/mitchgrout/maw32trail/internal/diffs"

// Convention selects how bailed-out branches are counted toward the
// fitness denominator, resolving an ambiguity the original tool never
// had to settle explicitly (it only ever used one counting scheme).
type Convention int

const (
	// ConventionLegacy counts a heuristic or empty-candidate bailout
	// the same as a completion of all requested rounds, matching the original
	// tool's single total_trails counter.
	ConventionLegacy Convention = iota
	// ConventionSplit excludes bailed branches from the denominator
	// entirely, so fitness reflects only trails that ran to completion.
	ConventionSplit
)

// Result summarises one propagation run.
type Result struct {
	ZeroTrails int
	Completed  int
	Bailed     int
	Convention Convention
}

// Total returns the trail count used as the fitness denominator, per
// the configured Convention.
func (r Result) Total() int {
	if r.Convention == ConventionSplit {
		return r.Completed
	}
	return r.Completed + r.Bailed
}

// Fitness returns ZeroTrails/Total, or 0 for a Result with no trails.
func (r Result) Fitness() float64 {
	total := r.Total()
	if total == 0 {
		return 0
	}
	return float64(r.ZeroTrails) / float64(total)
}

// frame is a choice point on the backtracking stack: the state as it
// was immediately before this step's candidate was chosen, and the
// candidates not yet tried (consumed from the end).
type frame struct {
	state      State
	candidates []byte
}

// propagator threads the explicit stack through a single Propagate
// call.
type propagator struct {
	stack []frame
}

// resolve is the Go analogue of the original tool's PROP_START /
// PROP_INTROS / PROP_END macro sequence: if state is a fresh visit to
// this choice point (the stack top doesn't already represent it),
// candidates are computed and pushed as a new frame; either way the
// next untried candidate is popped off the top frame, and the frame
// itself is discarded once it runs dry. ok is false only when a fresh
// visit finds no candidates at all.
func (p *propagator) resolve(state State, candidates func() []byte) (diff byte, ok bool) {
	top := &p.stack[len(p.stack)-1]
	if !state.Equal(top.state) {
		cand := candidates()
		if len(cand) == 0 {
			return 0, false
		}
		p.stack = append(p.stack, frame{state: state, candidates: cand})
		top = &p.stack[len(p.stack)-1]
	}

	n := len(top.candidates)
	diff = top.candidates[n-1]
	top.candidates = top.candidates[:n-1]
	if len(top.candidates) == 0 {
		p.stack = p.stack[:len(p.stack)-1]
	}
	return diff, true
}

// Propagate follows an input difference (given as the concrete first
// eight message-schedule bytes) through rounds rounds of MAW32,
// exhausting every branch the resolver's threshold admits and
// reporting how many of the completed branches end in an all-zero
// register difference. It panics if rounds exceeds 16.
func Propagate(initialSched [8]byte, rounds int, resolver *Resolver, convention Convention) Result {
	if rounds > 16 {
		panic("propagate: rounds must be at most 16")
	}

	var sentinel State
	for i := 0; i < 8; i++ {
		sentinel.Sched[i] = initialSched[i]
	}

	p := &propagator{stack: []frame{{state: sentinel}}}
	result := Result{Convention: convention}

	started := false
	for len(p.stack) > 0 {
		state := p.stack[len(p.stack)-1].state

		if started && state.Equal(sentinel) {
			break
		}
		started = true

		bailed := false

		for state.Round < rounds {
			if state.Round == rounds-1 && (state.A != 0 || state.C != 0) {
				bailed = true
				break
			}

			switch state.Step {
			case 0:
				// t1 = sigma1(b)
				state.T1 = diffs.Sigma1(state.B)
				state.Step = 1

			case 1:
				// t1 = t1 + d
				t1, d := state.T1, state.D
				diff, ok := p.resolve(state, func() []byte { return resolver.Add(t1, d) })
				if !ok {
					bailed = true
					break
				}
				state.T1 = diff
				state.Step = 2

			case 2:
				// t1 = t1 + K[round]
				t1, round := state.T1, state.Round
				diff, ok := p.resolve(state, func() []byte { return resolver.Keymix(t1, round) })
				if !ok {
					bailed = true
					break
				}
				state.T1 = diff
				if round < 8 {
					state.Step = 5
				} else {
					state.Step = 3
				}

			case 3:
				// round >= 8: sched[round] = sigma0(sched[round-3]) + sched[round-4]
				t := state.Round
				s3, s4 := state.Sched[t-3], state.Sched[t-4]
				diff, ok := p.resolve(state, func() []byte { return resolver.Add(diffs.Sigma0(s3), s4) })
				if !ok {
					bailed = true
					break
				}
				state.Sched[t] = diff
				state.Step = 4

			case 4:
				// round >= 8: sched[round] = sigma1(sched[round-8]) + sched[round]
				t := state.Round
				s8, st := state.Sched[t-8], state.Sched[t]
				diff, ok := p.resolve(state, func() []byte { return resolver.Add(diffs.Sigma1(s8), st) })
				if !ok {
					bailed = true
					break
				}
				state.Sched[t] = diff
				state.Step = 5

			case 5:
				// t1 = t1 + sched[round]
				t1, st := state.T1, state.Sched[state.Round]
				diff, ok := p.resolve(state, func() []byte { return resolver.Add(t1, st) })
				if !ok {
					bailed = true
					break
				}
				state.T1 = diff
				state.Step = 6

			case 6:
				// t2 = sigma0(a)
				state.T2 = diffs.Sigma0(state.A)
				state.Step = 7

			case 7:
				// maj = maj(a, b, c)
				a, b, c := state.A, state.B, state.C
				diff, ok := p.resolve(state, func() []byte { return resolver.Maj(a, b, c) })
				if !ok {
					bailed = true
					break
				}
				state.Maj = diff
				state.Step = 8

			case 8:
				// t2 = t2 + maj
				t2, maj := state.T2, state.Maj
				diff, ok := p.resolve(state, func() []byte { return resolver.Add(t2, maj) })
				if !ok {
					bailed = true
					break
				}
				state.T2 = diff
				state.Step = 9

			case 9:
				// d = c; c = b + t1
				b, t1 := state.B, state.T1
				diff, ok := p.resolve(state, func() []byte { return resolver.Add(b, t1) })
				if !ok {
					bailed = true
					break
				}
				state.D = state.C
				state.C = diff
				state.Step = 10

			case 10:
				// b = a; a = t1 + t2
				t1, t2 := state.T1, state.T2
				diff, ok := p.resolve(state, func() []byte { return resolver.Add(t1, t2) })
				if !ok {
					bailed = true
					break
				}
				state.B = state.A
				state.A = diff
				state.Trail[state.Round] = packRegisters(state.A, state.B, state.C, state.D)
				state.Step = 0
				state.Round++
			}

			if bailed {
				break
			}
		}

		switch {
		case bailed:
			result.Bailed++
		case state.Round == rounds:
			result.Completed++
			if state.RegistersZero() {
				result.ZeroTrails++
			}
		}
	}

	return result
}
